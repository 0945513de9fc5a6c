package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

const sampleConfig = `[vaultic]
version = "0.1.0"
format_version = 1
default_cipher = "age"
default_env = "dev"

[environments]
base = { file = "base.env" }
dev = { file = "dev.env", inherits = "base" }

[audit]
enabled = true
log_file = "audit.log"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))
	return dir
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "age", cfg.Vaultic.DefaultCipher)
	assert.Equal(t, "dev", cfg.Vaultic.DefaultEnv)
	assert.Equal(t, uint32(1), cfg.Vaultic.FormatVersion)
	assert.Equal(t, "base", cfg.Environments["dev"].Inherits)
	assert.True(t, cfg.AuditEnabled())
	assert.Equal(t, "audit.log", cfg.AuditLogFile())
}

func TestLoadMissingConfigFails(t *testing.T) {
	_, err := Load(t.TempDir())
	var icErr *vaulterr.InvalidConfigError
	require.True(t, errors.As(err, &icErr))
	assert.Contains(t, icErr.Detail, "vaultic init")
}

func TestLoadMalformedTomlFails(t *testing.T) {
	_, err := Load(writeConfig(t, "not [valid toml"))
	var pErr *vaulterr.ParseError
	assert.True(t, errors.As(err, &pErr))
}

func TestLoadRejectsNewerFormatVersion(t *testing.T) {
	content := `[vaultic]
version = "0.1.0"
format_version = 99
default_cipher = "age"
default_env = "dev"

[environments]
dev = { file = "dev.env" }
`
	_, err := Load(writeConfig(t, content))
	var fvErr *vaulterr.FormatVersionError
	require.True(t, errors.As(err, &fvErr))
	assert.Equal(t, uint32(99), fvErr.Found)
}

func TestLoadRejectsUnsafeEnvName(t *testing.T) {
	content := `[vaultic]
version = "0.1.0"
format_version = 1
default_cipher = "age"
default_env = "dev"

[environments]
"../../evil" = { file = "evil.env" }
`
	_, err := Load(writeConfig(t, content))
	var icErr *vaulterr.InvalidConfigError
	assert.True(t, errors.As(err, &icErr))
}

func TestLoadRejectsUnsafeAuditLogFile(t *testing.T) {
	content := `[vaultic]
version = "0.1.0"
format_version = 1
default_cipher = "age"
default_env = "dev"

[environments]
dev = { file = "dev.env" }

[audit]
enabled = true
log_file = "../escape.log"
`
	_, err := Load(writeConfig(t, content))
	var icErr *vaulterr.InvalidConfigError
	assert.True(t, errors.As(err, &icErr))
}

func TestEnvFileNameDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "dev.env", cfg.EnvFileName("dev"))
	assert.Equal(t, "staging.env", cfg.EnvFileName("staging"))
}

func TestEnvNamesSorted(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "dev"}, cfg.EnvNames())
}

func TestValidateEnvName(t *testing.T) {
	valid := []string{"dev", "staging", "prod-us", "test_01", "A"}
	for _, name := range valid {
		assert.NoError(t, ValidateEnvName(name), name)
	}

	invalid := []string{"", "../../../etc", "..", "foo/bar", "foo\\bar", "dev;rm -rf", "prod env", "dev.staging"}
	for _, name := range invalid {
		assert.Error(t, ValidateEnvName(name), name)
	}
}

func TestValidateSimpleFilename(t *testing.T) {
	valid := []string{"audit.log", "vaultic-audit.log", "log"}
	for _, name := range valid {
		assert.NoError(t, ValidateSimpleFilename(name, "log file"), name)
	}

	invalid := []string{"", "../secret.log", "/etc/passwd", "foo\\bar.log", "..\\..\\etc", ".hidden"}
	for _, name := range invalid {
		assert.Error(t, ValidateSimpleFilename(name, "log file"), name)
	}
}
