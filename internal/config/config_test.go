package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingValkeyAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = []string{}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing valkey addrs")
	}
}

func TestValidate_Driver(t *testing.T) {
	for _, driver := range []string{"", "valkey", "redis"} {
		t.Run("driver="+driver, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database.Driver = driver
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for driver %q: %v", driver, err)
			}
		})
	}

	cfg := validConfig()
	cfg.Database.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_NestedFilterOrder(t *testing.T) {
	cfg := validConfig()
	cfg.Fetch.NestedFilterOrder = "sideways"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown nested filter order")
	}
	expected := `fetch.nested_filter_order must be "filter_then_resolve" or "resolve_then_filter", got "sideways"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected Driver=valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Fetch.Workers != 8 {
		t.Errorf("expected Workers=8, got %d", cfg.Fetch.Workers)
	}
	if cfg.Fetch.MaxHitsPerRequest != 1000 {
		t.Errorf("expected MaxHitsPerRequest=1000, got %d", cfg.Fetch.MaxHitsPerRequest)
	}
	if cfg.Fetch.NestedFilterOrder != "filter_then_resolve" {
		t.Errorf("expected NestedFilterOrder=filter_then_resolve, got %q", cfg.Fetch.NestedFilterOrder)
	}
	if cfg.Fetch.MaxSourceBytes != 1<<20 {
		t.Errorf("expected MaxSourceBytes=1MiB, got %d", cfg.Fetch.MaxSourceBytes)
	}
	if cfg.Storage.KeyPrefix != "hitsource:" {
		t.Errorf("expected KeyPrefix='hitsource:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{Driver: "redis", ReadinessTimeout: 15},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
		Fetch:    FetchConfig{Workers: 2, MaxHitsPerRequest: 50, NestedFilterOrder: "resolve_then_filter", MaxSourceBytes: 512},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected Driver=redis, got %q", cfg.Database.Driver)
	}
	if cfg.Fetch.Workers != 2 || cfg.Fetch.MaxHitsPerRequest != 50 || cfg.Fetch.MaxSourceBytes != 512 {
		t.Errorf("fetch overridden: %+v", cfg.Fetch)
	}
	if cfg.Fetch.NestedFilterOrder != "resolve_then_filter" {
		t.Errorf("expected NestedFilterOrder=resolve_then_filter, got %q", cfg.Fetch.NestedFilterOrder)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("HITSOURCE_TEST_ADDR", "cache:6379")

	tests := []struct {
		in   string
		want string
	}{
		{"addr: ${HITSOURCE_TEST_ADDR}", "addr: cache:6379"},
		{"addr: ${HITSOURCE_TEST_UNSET:-localhost:6379}", "addr: localhost:6379"},
		{"addr: ${HITSOURCE_TEST_ADDR:-ignored}", "addr: cache:6379"},
		{"addr: ${HITSOURCE_TEST_UNSET}", "addr: "},
		{"plain: value", "plain: value"},
	}
	for _, tt := range tests {
		if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yml := `http:
  port: ${HITSOURCE_TEST_PORT:-9090}
database:
  addrs: ["localhost:6379"]
fetch:
  workers: 3
  nested_filter_order: resolve_then_filter
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Fetch.Workers != 3 || cfg.Fetch.NestedFilterOrder != "resolve_then_filter" {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	if cfg.Fetch.MaxHitsPerRequest != 1000 {
		t.Errorf("defaults not applied: %+v", cfg.Fetch)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte("http:\n  port: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if _, err := Load("unittest"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
