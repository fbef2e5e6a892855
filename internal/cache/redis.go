package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/localnerve/contractsdb/internal/config"
	"github.com/localnerve/contractsdb/internal/models"
	"github.com/redis/go-redis/v9"
)

const templateKeyPrefix = "contract-template:"

// Connect returns a Redis client, or nil when REDIS_ADDR is not configured
func Connect(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, template caching is disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Printf("Connected to redis: %s", cfg.RedisAddr)
	return client, nil
}

// TemplateCache stores templates as JSON under contract-template:<id>
type TemplateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTemplateCache wraps a Redis client. A non-positive ttl stores without expiry.
func NewTemplateCache(client *redis.Client, ttl time.Duration) *TemplateCache {
	if ttl < 0 {
		ttl = 0
	}
	return &TemplateCache{client: client, ttl: ttl}
}

func templateKey(id string) string {
	return templateKeyPrefix + id
}

// Get returns the cached template and whether it was present
func (c *TemplateCache) Get(ctx context.Context, id string) (*models.ContractTemplate, bool, error) {
	data, err := c.client.Get(ctx, templateKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var tmpl models.ContractTemplate
	if err := json.Unmarshal(data, &tmpl); err != nil {
		// Drop undecodable entries so the next read repopulates
		_ = c.client.Del(ctx, templateKey(id)).Err()
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", id, err)
	}

	return &tmpl, true, nil
}

// Set stores a template
func (c *TemplateCache) Set(ctx context.Context, tmpl *models.ContractTemplate) error {
	data, err := json.Marshal(tmpl)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, templateKey(tmpl.ID), data, c.ttl).Err()
}

// Invalidate removes a template
func (c *TemplateCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, templateKey(id)).Err()
}

// Ping checks the Redis connection
func (c *TemplateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
