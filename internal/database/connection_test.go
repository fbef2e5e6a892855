// connection_test.go
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

package database_test

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/contractsdb/internal/config"
	"github.com/localnerve/contractsdb/internal/database"
	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/services"
	"github.com/localnerve/contractsdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	base := config.Config{
		DBHost:        "db",
		DBPort:        "1234",
		DBAppDatabase: "contracts",
		DBAppUser:     "app",
		DBAppPassword: "secret",
	}

	for _, dbType := range []string{"mysql", "mariadb", "postgres", "postgresql", "sqlite", "sqlserver", "mssql"} {
		cfg := base
		cfg.DBType = dbType
		dialector, err := database.Dialector(&cfg)
		require.NoError(t, err, dbType)
		assert.NotNil(t, dialector, dbType)
	}

	cfg := base
	cfg.DBType = "oracle"
	_, err := database.Dialector(&cfg)
	assert.EqualError(t, err, "unsupported database type: oracle")
}

func TestAutoMigrateSQLite(t *testing.T) {
	db, err := database.Open(sqlite.Open(":memory:"), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer database.Close(db)

	require.NoError(t, database.AutoMigrate(db))

	for _, table := range []string{
		"contracts", "contract_versions", "contract_templates",
		"contract_signatures", "employees", "employee_contracts",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	contract := &models.Contract{
		Title:        "Lease",
		UserID:       "user-1",
		ContractType: "lease",
		Status:       models.StatusDraft,
		FormData:     models.JSONMap{"rent": 1200, "tenant": "Pat"},
		Version:      1,
	}
	require.NoError(t, db.Create(contract).Error)

	var got models.Contract
	require.NoError(t, db.First(&got, "id = ?", contract.ID).Error)
	assert.Equal(t, "Pat", got.FormData["tenant"])
	assert.Equal(t, json.Number("1200"), got.FormData["rent"], "stored numbers decode as json.Number")
}

func imageOr(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

// TestWithMariaDB runs the service layer against a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageOr("DB_IMAGE", "mariadb:11"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	host, err := mariadbContainer.Host(ctx)
	require.NoError(t, err)
	port, err := mariadbContainer.MappedPort(ctx, "3306")
	require.NoError(t, err)

	// The entrypoint restarts the server once after init
	time.Sleep(5 * time.Second)

	runServiceSuite(t, &config.Config{
		DBType:               "mysql",
		DBHost:               host,
		DBPort:               port.Port(),
		DBAppDatabase:        "testdb",
		DBAppUser:            "testuser",
		DBAppPassword:        "testpass",
		DBAppConnectionLimit: 5,
	})
}

// TestWithPostgreSQL runs the service layer against a real PostgreSQL container
func TestWithPostgreSQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageOr("POSTGRES_IMAGE", "postgres:17-alpine"),
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)
	port, err := postgresContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	runServiceSuite(t, &config.Config{
		DBType:               "postgres",
		DBHost:               host,
		DBPort:               port.Port(),
		DBAppDatabase:        "testdb",
		DBAppUser:            "testuser",
		DBAppPassword:        "testpass",
		DBAppConnectionLimit: 5,
	})
}

func runServiceSuite(t *testing.T, cfg *config.Config) {
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("ContractLifecycle", func(t *testing.T) {
		testContractLifecycle(t, db)
	})

	t.Run("ConcurrentVersions", func(t *testing.T) {
		testConcurrentVersions(t, db)
	})

	t.Run("UniqueAssociation", func(t *testing.T) {
		testUniqueAssociation(t, db)
	})
}

func testContractLifecycle(t *testing.T, db *gorm.DB) {
	ctx := context.Background()

	contract, err := services.CreateContract(ctx, db, "user-int", services.ContractInput{
		Title:        "Supply Agreement",
		ContractType: "supply",
		Content:      "v1",
		FormData:     models.JSONMap{"units": float64(100)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, contract.Version)

	content := "v2"
	updated, err := services.UpdateContractByID(ctx, db, contract.ID, services.ContractUpdate{
		Content:  &content,
		AuthorID: "user-int",
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	versions, err := services.ListVersions(ctx, db, contract.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	first := versions[len(versions)-1]
	assert.Equal(t, 1, first.VersionNumber)

	restored, err := services.RestoreContractVersion(ctx, db, contract.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", restored.Content)
	assert.Equal(t, 2, restored.Version)

	sig, err := services.AddSignature(ctx, db, contract.ID, "user-int", services.SignatureInput{
		SignerName: "Pat Signer",
		Status:     models.SignatureCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SignatureCompleted, sig.Status)

	got, err := services.GetContractByID(ctx, db, contract.ID, services.GetOptions{IncludeSignatures: true})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSigned, got.Status)
	assert.Len(t, got.Signatures, 1)

	require.NoError(t, services.HardDeleteContractByID(ctx, db, contract.ID))
	_, err = services.GetContractByID(ctx, db, contract.ID, services.GetOptions{})
	assert.True(t, types.IsNotFound(err))
}

func testConcurrentVersions(t *testing.T, db *gorm.DB) {
	ctx := context.Background()

	contract, err := services.CreateContract(ctx, db, "user-int", services.ContractInput{
		Title:        "Busy Contract",
		ContractType: "nda",
		Content:      "v1",
	})
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := services.CreateContractVersion(ctx, db, contract.ID, services.VersionInput{
				AuthorID: "user-int",
				Content:  "concurrent",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	versions, err := services.ListVersions(ctx, db, contract.ID)
	require.NoError(t, err)
	require.Len(t, versions, writers+1)

	seen := map[int]bool{}
	for _, v := range versions {
		assert.False(t, seen[v.VersionNumber], "duplicate version %d", v.VersionNumber)
		seen[v.VersionNumber] = true
	}

	got, err := services.GetContractByID(ctx, db, contract.ID, services.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, writers+1, got.Version)
}

func testUniqueAssociation(t *testing.T, db *gorm.DB) {
	ctx := context.Background()

	contract, err := services.CreateContract(ctx, db, "business-int", services.ContractInput{
		Title:        "Employment",
		ContractType: "employment",
	})
	require.NoError(t, err)

	employee, err := services.CreateEmployee(ctx, db, "business-int", services.EmployeeInput{
		FullName: "Sam Worker",
	})
	require.NoError(t, err)

	_, err = services.CreateEmployeeContract(ctx, db, employee.ID, contract.ID)
	require.NoError(t, err)

	_, err = services.CreateEmployeeContract(ctx, db, employee.ID, contract.ID)
	assert.True(t, types.IsConflict(err), "duplicate association is a conflict, got %v", err)
}
