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

	"github.com/harvestlabs-io/croft/internal/config"
	"github.com/spf13/cobra"
)

func membershipsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memberships",
		Short: "List all stored membership records",
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
			enrollments, err := db.MembershipsList(cmd.Context())
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			for _, enrollment := range enrollments {
				record := enrollment.Record
				fmt.Printf(
					"%s  farm=%s  season=%q  share=%s  pickup=%q  owner=%s\n",
					enrollment.TokenId.String(),
					record.FarmId.String(),
					record.Season,
					record.ShareSize.String(),
					record.PickupLocation,
					record.OwnerKey.String(),
				)
			}
		},
	}
	return cmd
}
