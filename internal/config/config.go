package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

// DatabaseConfig selects the backing database.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "mysql"
	DSN    string `yaml:"dsn"`
}

// LedgerConfig wires the posting workflows to pre-provisioned accounts.
// The roots are injected here rather than discovered at runtime.
type LedgerConfig struct {
	ReceivableRoot    string            `yaml:"receivable_root"`
	PayableRoot       string            `yaml:"payable_root"`
	COGSAccounts      map[string]string `yaml:"cogs_accounts"` // currency mnemonic -> account guid
	AdjustmentAccount string            `yaml:"adjustment_account"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config pointing at a local SQLite database. The
// account guids are filled in after the chart of accounts is seeded.
func Default(dbPath string) *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    dbPath,
		},
		Ledger: LedgerConfig{
			COGSAccounts: map[string]string{},
		},
	}
}
