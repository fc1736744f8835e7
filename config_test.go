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

package croft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NotNil(t, cfg.logger)
	assert.Empty(t, cfg.dataDir)
	assert.Empty(t, cfg.apiListenAddress)
	assert.False(t, cfg.tracing)
}

func TestConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithDatabasePath("/tmp/croft-test"),
		WithBlobPlugin("badger"),
		WithMetadataPlugin("sqlite"),
		WithApiListenAddress(":3000"),
		WithJwtSecret([]byte("secret")),
		WithTracing(true),
		WithTracingStdout(true),
		WithShutdownTimeout(5*time.Second),
	)
	assert.Equal(t, "/tmp/croft-test", cfg.dataDir)
	assert.Equal(t, "badger", cfg.blobPlugin)
	assert.Equal(t, "sqlite", cfg.metadataPlugin)
	assert.Equal(t, ":3000", cfg.apiListenAddress)
	assert.Equal(t, []byte("secret"), cfg.jwtSecret)
	assert.True(t, cfg.tracing)
	assert.True(t, cfg.tracingStdout)
	assert.Equal(t, 5*time.Second, cfg.shutdownTimeout)
}

func TestConfigValidate(t *testing.T) {
	// Missing listen address
	_, err := New(NewConfig(
		WithJwtSecret([]byte("secret")),
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen address")

	// Missing JWT secret
	_, err = New(NewConfig(
		WithApiListenAddress(":3000"),
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")

	// Fully specified
	n, err := New(NewConfig(
		WithApiListenAddress(":3000"),
		WithJwtSecret([]byte("secret")),
	))
	require.NoError(t, err)
	assert.NotNil(t, n)
}
