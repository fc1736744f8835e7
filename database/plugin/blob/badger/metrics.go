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

package badger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// registerBlobMetrics exposes badger store sizes as gauges on the
// configured registry
func (d *BlobStoreBadger) registerBlobMetrics() {
	promauto.With(d.promRegistry).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "croft_blob_lsm_size_bytes",
			Help: "size of the badger LSM tree in bytes",
		},
		func() float64 {
			lsmSize, _ := d.DB().Size()
			return float64(lsmSize)
		},
	)
	promauto.With(d.promRegistry).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "croft_blob_vlog_size_bytes",
			Help: "size of the badger value log in bytes",
		},
		func() float64 {
			_, vlogSize := d.DB().Size()
			return float64(vlogSize)
		},
	)
}
