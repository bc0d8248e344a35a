// Package config loads Airwave configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the airwaved server configuration.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
	Debug      bool   `yaml:"debug" json:"debug"`

	// StoreType selects the persistence backend: memory, etcd, or postgres.
	StoreType     string   `yaml:"store_type" json:"store_type"`
	EtcdEndpoints []string `yaml:"etcd_endpoints" json:"etcd_endpoints"`
	PostgresDSN   string   `yaml:"postgres_dsn" json:"postgres_dsn"`

	// APIKeys maps Bearer token → role name (viewer, operator, admin).
	// Leave empty to disable authentication (dev/test mode only).
	APIKeys map[string]string `yaml:"api_keys" json:"api_keys"`
}

// DefaultServerConfig returns the server defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr:    ":8080",
		StoreType:     "memory",
		EtcdEndpoints: []string{"http://localhost:2379"},
	}
}

// LoadServer reads a ServerConfig from the given YAML file path. A missing
// file yields the defaults with no error, so airwaved runs out of the box.
func LoadServer(path string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Config holds the airwavectl CLI configuration.
type Config struct {
	ServerURL    string `yaml:"server_url" json:"server_url"`
	AuthToken    string `yaml:"auth_token" json:"auth_token"`
	OutputFormat string `yaml:"output_format" json:"output_format"`
}

// DefaultPath returns the default CLI config file path: ~/.airwave/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".airwave", "config.yaml")
	}
	return filepath.Join(home, ".airwave", "config.yaml")
}

// Load reads the CLI configuration from the given YAML file path.
// If the file does not exist, it returns a default Config with no error.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ServerURL:    "http://localhost:8080",
		OutputFormat: "table",
	}

	// Check permissions before reading: warn if the config file is
	// world-readable, since it may contain an auth_token.
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		fmt.Fprintf(os.Stderr,
			"warning: config file %s has permissions %04o — expected 0600. "+
				"Auth tokens may be exposed to other users.\n",
			path, perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
