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

package database

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type databaseMetrics struct {
	txnCommits   prometheus.Counter
	txnRollbacks prometheus.Counter
}

func newDatabaseMetrics(registry prometheus.Registerer) *databaseMetrics {
	promautoFactory := promauto.With(registry)
	return &databaseMetrics{
		txnCommits: promautoFactory.NewCounter(
			prometheus.CounterOpts{
				Name: "croft_database_txn_commits_total",
				Help: "total number of committed database transactions",
			},
		),
		txnRollbacks: promautoFactory.NewCounter(
			prometheus.CounterOpts{
				Name: "croft_database_txn_rollbacks_total",
				Help: "total number of rolled back database transactions",
			},
		),
	}
}
