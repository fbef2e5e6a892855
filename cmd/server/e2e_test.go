// e2e_test.go
//
// A contract lifecycle data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of contractsdb.
// contractsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// contractsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with contractsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/localnerve/contractsdb/internal/cache"
	"github.com/localnerve/contractsdb/internal/config"
	"github.com/localnerve/contractsdb/internal/database"
	"github.com/localnerve/contractsdb/internal/objectstore"
	"github.com/localnerve/contractsdb/internal/services"
	"github.com/localnerve/contractsdb/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2EWithFullStack runs the built service image against every backing container
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	tc, err := testhelpers.CreateAllTestContainers(t)
	if err != nil {
		t.Fatalf("Failed to start test containers: %v", err)
	}
	defer tc.Terminate(t)

	// Let the service finish migrating
	time.Sleep(5 * time.Second)

	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, tc)
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		testPrometheusMetrics(t, tc.BaseURL)
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		testSwaggerUI(t, tc.BaseURL)
	})

	t.Run("APIRequiresSession", func(t *testing.T) {
		testAPIRequiresSession(t, tc.BaseURL)
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		testUnknownRoute(t, tc.BaseURL)
	})
}

func testHealthCheck(t *testing.T, tc *testhelpers.TestContainers) {
	ctx := context.Background()

	cfg, err := config.Load()
	require.NoError(t, err)

	// Point at the mapped ports, not the in-network aliases
	dbHost, _ := tc.DBContainer.Host(ctx)
	dbPort, _ := tc.DBContainer.MappedPort(ctx, nat.Port(os.Getenv("DB_PORT")))
	cfg.DBHost = dbHost
	cfg.DBPort = dbPort.Port()
	cfg.AuthzURL = tc.AuthzURL

	redisHost, _ := tc.RedisContainer.Host(ctx)
	redisPort, _ := tc.RedisContainer.MappedPort(ctx, "6379")
	cfg.RedisAddr = fmt.Sprintf("%s:%s", redisHost, redisPort.Port())

	minioHost, _ := tc.MinioContainer.Host(ctx)
	minioPort, _ := tc.MinioContainer.MappedPort(ctx, "9000")
	cfg.ObjectStoreEndpoint = fmt.Sprintf("%s:%s", minioHost, minioPort.Port())

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	defer database.Close(db)

	client, err := cache.Connect(ctx, cfg)
	require.NoError(t, err)
	defer client.Close()

	store, err := objectstore.New(ctx, cfg)
	require.NoError(t, err)

	result := services.HealthCheck(ctx, cfg, db,
		services.HealthDependency{Name: "redis", Ping: cache.NewTemplateCache(client, time.Minute).Ping},
		services.HealthDependency{Name: "object_store", Ping: store.Ping},
	)
	assert.Equal(t, "healthy", result.Status, "%+v", result)
	assert.Equal(t, "ok", result.Dependencies["redis"])
	assert.Equal(t, "ok", result.Dependencies["object_store"])
}

func testPrometheusMetrics(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.True(t, strings.Contains(string(body), "go_goroutines"), "expected runtime metrics")
}

func testSwaggerUI(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/swagger/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func testAPIRequiresSession(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/api/contracts")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "contracts.authorization.user", result["type"])
	assert.Equal(t, false, result["ok"])
}

func testUnknownRoute(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/api/nothing-here")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var result map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&result), "response is not valid JSON")
}
