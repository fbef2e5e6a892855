package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/localnerve/contractsdb/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store uploads contract export bundles to one bucket
type Store struct {
	client *minio.Client
	bucket string
	region string
}

// New returns a Store, or nil when OBJECT_STORE_ENDPOINT is not configured.
// The bucket is created if missing.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.ObjectStoreEndpoint == "" {
		log.Println("OBJECT_STORE_ENDPOINT not set, contract export is disabled")
		return nil, nil
	}

	client, err := minio.New(cfg.ObjectStoreEndpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.ObjectStoreAccessKey, cfg.ObjectStoreSecretKey, ""),
		Secure:    cfg.ObjectStoreUseSSL,
		Region:    cfg.ObjectStoreRegion,
		Transport: newTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	store := &Store{client: client, bucket: cfg.ObjectStoreBucket, region: cfg.ObjectStoreRegion}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", cfg.ObjectStoreBucket, err)
	}

	log.Printf("Connected to object store: %s/%s", cfg.ObjectStoreEndpoint, cfg.ObjectStoreBucket)
	return store, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
}

// PutObject uploads body under key
func (s *Store) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Ping checks that the bucket is reachable
func (s *Store) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket missing: %s", s.bucket)
	}
	return nil
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
