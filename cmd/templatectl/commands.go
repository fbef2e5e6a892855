// commands.go
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
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/localnerve/contractsdb/data"
	"github.com/localnerve/contractsdb/internal/config"
	"github.com/localnerve/contractsdb/internal/database"
	"github.com/localnerve/contractsdb/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "templatectl",
		Short:         "Manage system contract templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				return nil
			}
			log.Printf("Loading environment variables from %s", envFile)
			return godotenv.Load(envFile)
		},
	}
	root.PersistentFlags().StringVarP(&envFile, "env-file", "e", "", "path to a .env file")

	root.AddCommand(newSeedCmd(), newListCmd())
	return root
}

func newSeedCmd() *cobra.Command {
	var file string
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or replace system templates from a YAML file",
		Long:  "Create or replace system templates by name. Without -f the built-in catalog is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := data.SystemTemplates
			if file != "" {
				var err error
				if raw, err = os.ReadFile(file); err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
			}

			templates, err := parseTemplates(raw)
			if err != nil {
				return err
			}

			db, err := openDatabase(migrate)
			if err != nil {
				return err
			}
			defer database.Close(db)

			created, updated := 0, 0
			for _, in := range templates {
				tmpl, isNew, err := services.UpsertSystemTemplate(cmd.Context(), db, in)
				if err != nil {
					return fmt.Errorf("seed %q: %w", in.Name, err)
				}
				if isNew {
					created++
				} else {
					updated++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tmpl.ID, tmpl.Name)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d templates (%d created, %d updated)\n", len(templates), created, updated)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file of templates")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run schema migrations first")

	return cmd
}

func newListCmd() *cobra.Command {
	var contractType, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List system templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(false)
			if err != nil {
				return err
			}
			defer database.Close(db)

			templates, err := services.ListTemplates(cmd.Context(), db, services.TemplateFilter{
				ContractType: contractType,
				Status:       status,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS")
			for _, t := range templates {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.ContractType, t.Status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&contractType, "type", "t", "", "filter by contract type")
	cmd.Flags().StringVarP(&status, "status", "s", "all", "filter by status, or all")

	return cmd
}

func openDatabase(migrate bool) (*gorm.DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := database.AutoMigrate(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return db, nil
}
