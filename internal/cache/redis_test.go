package cache

import (
	"context"
	"testing"
	"time"

	"github.com/localnerve/contractsdb/internal/config"
	"github.com/localnerve/contractsdb/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestConnectDisabled(t *testing.T) {
	client, err := Connect(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func startRedis(t *testing.T) *config.Config {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate Redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return &config.Config{RedisAddr: host + ":" + port.Port()}
}

func TestTemplateCacheWithRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	client, err := Connect(ctx, startRedis(t))
	require.NoError(t, err)
	defer client.Close()

	cache := NewTemplateCache(client, time.Minute)
	require.NoError(t, cache.Ping(ctx))

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	tmpl := &models.ContractTemplate{
		ID:           "11111111-1111-1111-1111-111111111111",
		Name:         "Cached NDA",
		Content:      "body",
		ContractType: "nda",
		Variables:    models.JSONMap{"party": "string"},
		Status:       models.TemplatePublished,
		IsSystem:     true,
	}
	require.NoError(t, cache.Set(ctx, tmpl))

	ttl, err := client.TTL(ctx, templateKey(tmpl.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	got, ok, err := cache.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Cached NDA", got.Name)
	assert.Equal(t, "string", got.Variables["party"])

	require.NoError(t, cache.Invalidate(ctx, tmpl.ID))
	_, ok, err = cache.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Corrupt entries are reported and dropped
	require.NoError(t, client.Set(ctx, templateKey("bad"), "{not json", 0).Err())
	_, ok, err = cache.Get(ctx, "bad")
	assert.Error(t, err)
	assert.False(t, ok)
	exists, err := client.Exists(ctx, templateKey("bad")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
