// Package config loads and validates the project configuration from
// .vaultic/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// CurrentFormatVersion is the newest config format this build understands.
const CurrentFormatVersion uint32 = 1

// AppConfig is the top-level configuration.
type AppConfig struct {
	Vaultic      VaulticSection      `toml:"vaultic"`
	Environments map[string]EnvEntry `toml:"environments"`
	Audit        *AuditSection       `toml:"audit"`
	Vault        *VaultSection       `toml:"vault"`
}

// VaulticSection is the [vaultic] table.
type VaulticSection struct {
	Version       string `toml:"version"`
	FormatVersion uint32 `toml:"format_version"`
	DefaultCipher string `toml:"default_cipher"`
	DefaultEnv    string `toml:"default_env"`
	Template      string `toml:"template"`
}

// EnvEntry is one environment under [environments].
type EnvEntry struct {
	File     string `toml:"file"`
	Inherits string `toml:"inherits"`
	Template string `toml:"template"`
}

// AuditSection is the [audit] table.
type AuditSection struct {
	Enabled bool   `toml:"enabled"`
	LogFile string `toml:"log_file"`
}

// VaultSection configures the optional Vault Transit cipher backend.
// The auth token comes from VAULT_TOKEN in the environment.
type VaultSection struct {
	Addr         string `toml:"addr"`
	TransitMount string `toml:"transit_mount"`
	TransitKey   string `toml:"transit_key"`
	Namespace    string `toml:"namespace"`
	SkipVerify   bool   `toml:"skip_verify"`
	CACert       string `toml:"ca_cert"`
}

// Load reads and validates config.toml from the given vaultic directory.
func Load(vaulticDir string) (*AppConfig, error) {
	configPath := filepath.Join(vaulticDir, "config.toml")

	content, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &vaulterr.InvalidConfigError{
				Detail: "config.toml not found. Run 'vaultic init' first.",
			}
		}
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}

	var cfg AppConfig
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, &vaulterr.ParseError{
			File:   configPath,
			Detail: err.Error(),
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate enforces the load-time invariants: known format version,
// safe environment names, and a safe audit log filename.
func (c *AppConfig) validate() error {
	if c.Vaultic.FormatVersion > CurrentFormatVersion {
		return &vaulterr.FormatVersionError{
			Found:     c.Vaultic.FormatVersion,
			Supported: CurrentFormatVersion,
		}
	}

	for name := range c.Environments {
		if err := ValidateEnvName(name); err != nil {
			return err
		}
	}

	if c.Audit != nil && c.Audit.LogFile != "" {
		if err := ValidateSimpleFilename(c.Audit.LogFile, "audit log file"); err != nil {
			return err
		}
	}

	return nil
}

// EnvFileName returns the plaintext file name for an environment,
// defaulting to "{name}.env".
func (c *AppConfig) EnvFileName(name string) string {
	if entry, ok := c.Environments[name]; ok && entry.File != "" {
		return entry.File
	}
	return name + ".env"
}

// EnvNames returns all configured environment names, sorted.
func (c *AppConfig) EnvNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AuditEnabled reports whether audit logging is on. Absent section
// means enabled by default.
func (c *AppConfig) AuditEnabled() bool {
	if c.Audit == nil {
		return true
	}
	return c.Audit.Enabled
}

// AuditLogFile returns the audit log filename, defaulting to audit.log.
func (c *AppConfig) AuditLogFile() string {
	if c.Audit != nil && c.Audit.LogFile != "" {
		return c.Audit.LogFile
	}
	return "audit.log"
}
