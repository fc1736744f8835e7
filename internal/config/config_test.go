package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		BindAddr:        "0.0.0.0",
		DatabasePath:    ".croft",
		ApiPort:         3000,
		MetricsPort:     8081,
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
bindAddr: "127.0.0.1"
databasePath: "/var/lib/croft"
jwtSecret: "swordfish"
apiPort: 8000
metricsPort: 8088
shutdownTimeout: "10s"
tracing: true
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-croft.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	expected := &Config{
		BindAddr:        "127.0.0.1",
		DatabasePath:    "/var/lib/croft",
		JwtSecret:       "swordfish",
		ApiPort:         8000,
		MetricsPort:     8088,
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		ShutdownTimeout: "10s",
		Tracing:         true,
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_ConfigSection(t *testing.T) {
	resetGlobalConfig()

	// Values nested under a "config" section overlay the defaults
	yamlContent := `
config:
  apiPort: 9000
  jwtSecret: "hunter2"
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-croft-section.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.ApiPort != 9000 {
		t.Errorf("expected ApiPort 9000, got: %d", cfg.ApiPort)
	}
	if cfg.JwtSecret != "hunter2" {
		t.Errorf("expected JwtSecret hunter2, got: %q", cfg.JwtSecret)
	}
	// Untouched values keep their defaults
	if cfg.DatabasePath != ".croft" {
		t.Errorf("expected default DatabasePath, got: %q", cfg.DatabasePath)
	}
}

func TestLoad_DatabasePluginSelection(t *testing.T) {
	resetGlobalConfig()

	yamlContent := `
database:
  blob:
    plugin: "badger"
  metadata:
    plugin: "sqlite"
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-croft-plugins.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.BlobPlugin != "badger" {
		t.Errorf("expected blob plugin badger, got: %q", cfg.BlobPlugin)
	}
	if cfg.MetadataPlugin != "sqlite" {
		t.Errorf("expected metadata plugin sqlite, got: %q", cfg.MetadataPlugin)
	}
}

func TestContextRoundTrip(t *testing.T) {
	resetGlobalConfig()

	cfg := GetConfig()
	ctx := WithContext(t.Context(), cfg)
	got := FromContext(ctx)
	if got != cfg {
		t.Errorf("expected config from context to match original")
	}
	if FromContext(t.Context()) != nil {
		t.Errorf("expected nil config from empty context")
	}
}
