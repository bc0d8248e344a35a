package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/airwave-net/airwave/pkg/config"
)

func TestLoadServer_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.LoadServer(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load missing config: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.StoreType != "memory" {
		t.Fatalf("expected default store type memory, got %q", cfg.StoreType)
	}
}

func TestLoadServer_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := `listen_addr: ":9090"
debug: true
store_type: etcd
etcd_endpoints:
  - http://etcd-1:2379
  - http://etcd-2:2379
api_keys:
  secret-token: admin
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadServer(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ListenAddr != ":9090" || !cfg.Debug || cfg.StoreType != "etcd" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.EtcdEndpoints) != 2 {
		t.Fatalf("expected 2 etcd endpoints, got %v", cfg.EtcdEndpoints)
	}
	if cfg.APIKeys["secret-token"] != "admin" {
		t.Fatalf("expected admin role for secret-token, got %v", cfg.APIKeys)
	}
}

func TestLoadServer_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":\n:::not yaml"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.LoadServer(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load missing config: %v", err)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Fatalf("expected default server url, got %q", cfg.ServerURL)
	}
	if cfg.OutputFormat != "table" {
		t.Fatalf("expected default output format table, got %q", cfg.OutputFormat)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server_url: https://airwave.example.com
auth_token: sekrit
output_format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServerURL != "https://airwave.example.com" {
		t.Fatalf("unexpected server url: %q", cfg.ServerURL)
	}
	if cfg.AuthToken != "sekrit" || cfg.OutputFormat != "json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
