// Copyright 2026 Harvest Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/harvestlabs-io/croft/database"
	"github.com/harvestlabs-io/croft/internal/config"
	"github.com/harvestlabs-io/croft/membership"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/blake2b"
)

// openDatabase opens the configured database for offline commands
func openDatabase(cfg *config.Config, logger *slog.Logger) (*database.Database, error) {
	return database.New(&database.Config{
		DataDir:        cfg.DatabasePath,
		Logger:         logger,
		BlobPlugin:     cfg.BlobPlugin,
		MetadataPlugin: cfg.MetadataPlugin,
	})
}

func farmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "farm",
		Short: "Manage the farm registry",
	}
	cmd.AddCommand(farmAddCommand())
	cmd.AddCommand(farmListCommand())
	cmd.AddCommand(farmDeactivateCommand())
	return cmd
}

func farmAddCommand() *cobra.Command {
	var farmIdHex string
	var location string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a farm",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			logger := commonRun()
			name := args[0]
			var farmId membership.FarmId
			if farmIdHex != "" {
				var err error
				farmId, err = membership.FarmIdFromHex(farmIdHex)
				if err != nil {
					slog.Error(err.Error())
					os.Exit(1)
				}
			} else {
				// Derive a stable id from the farm name
				farmId = blake2b.Sum256([]byte(name))
			}
			db, err := openDatabase(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer db.Close()
			if err := db.FarmCreate(
				cmd.Context(),
				farmId,
				name,
				location,
			); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("registered farm %s (%s)\n", name, farmId.String())
		},
	}
	cmd.Flags().
		StringVar(&farmIdHex, "id", "", "farm id as hex, derived from the name when omitted")
	cmd.Flags().
		StringVar(&location, "location", "", "farm location")
	return cmd
}

func farmListCommand() *cobra.Command {
	var includeInactive bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered farms",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			logger := commonRun()
			db, err := openDatabase(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer db.Close()
			farms, err := db.FarmsList(cmd.Context(), includeInactive)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			for _, farm := range farms {
				status := "active"
				if !farm.Active {
					status = "inactive"
				}
				fmt.Printf(
					"%s  %s  %s  %s\n",
					farm.String(),
					farm.Name,
					farm.Location,
					status,
				)
			}
		},
	}
	cmd.Flags().
		BoolVar(&includeInactive, "all", false, "include deactivated farms")
	return cmd
}

func farmDeactivateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate <farm-id>",
		Short: "Deactivate a farm, blocking new enrollments",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			logger := commonRun()
			farmId, err := membership.FarmIdFromHex(args[0])
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			db, err := openDatabase(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer db.Close()
			if err := db.FarmDeactivate(cmd.Context(), farmId); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("deactivated farm %s\n", farmId.String())
		},
	}
	return cmd
}
