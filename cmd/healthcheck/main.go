// main.go
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
	"log"
	"os"

	"github.com/localnerve/contractsdb/internal/cache"
	"github.com/localnerve/contractsdb/internal/config"
	"github.com/localnerve/contractsdb/internal/database"
	"github.com/localnerve/contractsdb/internal/objectstore"
	"github.com/localnerve/contractsdb/internal/services"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var deps []services.HealthDependency
	failed := map[string]error{}

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg)
		if err != nil {
			failed["redis"] = err
		} else {
			deps = append(deps, services.HealthDependency{
				Name: "redis",
				Ping: cache.NewTemplateCache(client, cfg.TemplateCacheTTL).Ping,
			})
		}
	}

	if cfg.ObjectStoreEndpoint != "" {
		store, err := objectstore.New(ctx, cfg)
		if err != nil {
			failed["object_store"] = err
		} else {
			deps = append(deps, services.HealthDependency{Name: "object_store", Ping: store.Ping})
		}
	}

	// Dependencies that failed to connect are reported as unreachable
	for name, connErr := range failed {
		deps = append(deps, services.HealthDependency{
			Name: name,
			Ping: func(context.Context) error { return connErr },
		})
	}

	// Perform health check
	result := services.HealthCheck(ctx, cfg, db, deps...)
	_ = database.Close(db)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
