package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("KEY=\n"), 0o644))
}

func TestAutoDiscoverFailsInEmptyDir(t *testing.T) {
	_, err := ResolveGlobalTemplate(nil, t.TempDir())

	var tnfErr *vaulterr.TemplateNotFoundError
	require.True(t, errors.As(err, &tnfErr))
	assert.Equal(t, []string{".env.template", ".env.example", ".env.sample", "env.template"}, tnfErr.Searched)
}

func TestAutoDiscoverFindsEnvTemplate(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, ".env.template"))

	path, err := ResolveGlobalTemplate(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env.template"), path)
}

func TestAutoDiscoverPriorityOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, ".env.example"))
	touch(t, filepath.Join(dir, ".env.sample"))

	path, err := ResolveGlobalTemplate(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env.example"), path)
}

func TestGlobalConfigTemplateWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "custom.template"))
	touch(t, filepath.Join(dir, ".env.template"))

	cfg := &config.AppConfig{
		Vaultic: config.VaulticSection{Template: "custom.template"},
	}

	path, err := ResolveGlobalTemplate(cfg, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom.template"), path)
}

func TestGlobalConfigTemplateMissingFallsBack(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, ".env.sample"))

	cfg := &config.AppConfig{
		Vaultic: config.VaulticSection{Template: "nope.template"},
	}

	path, err := ResolveGlobalTemplate(cfg, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env.sample"), path)
}

func TestEnvTemplateExplicitConfig(t *testing.T) {
	project := t.TempDir()
	vaulticDir := filepath.Join(project, ".vaultic")
	require.NoError(t, os.MkdirAll(vaulticDir, 0o755))
	touch(t, filepath.Join(vaulticDir, "dev-custom.template"))

	cfg := &config.AppConfig{
		Environments: map[string]config.EnvEntry{
			"dev": {Template: "dev-custom.template"},
		},
	}

	path, err := ResolveEnvTemplate("dev", cfg, vaulticDir, project)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(vaulticDir, "dev-custom.template"), path)
}

func TestEnvTemplateConvention(t *testing.T) {
	project := t.TempDir()
	vaulticDir := filepath.Join(project, ".vaultic")
	require.NoError(t, os.MkdirAll(vaulticDir, 0o755))
	touch(t, filepath.Join(vaulticDir, "dev.env.template"))

	cfg := &config.AppConfig{Environments: map[string]config.EnvEntry{"dev": {}}}

	path, err := ResolveEnvTemplate("dev", cfg, vaulticDir, project)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(vaulticDir, "dev.env.template"), path)
}

func TestEnvTemplateNotFoundListsSearched(t *testing.T) {
	project := t.TempDir()
	vaulticDir := filepath.Join(project, ".vaultic")
	require.NoError(t, os.MkdirAll(vaulticDir, 0o755))

	cfg := &config.AppConfig{Environments: map[string]config.EnvEntry{"dev": {}}}

	_, err := ResolveEnvTemplate("dev", cfg, vaulticDir, project)

	var tnfErr *vaulterr.TemplateNotFoundError
	require.True(t, errors.As(err, &tnfErr))
	assert.NotEmpty(t, tnfErr.Searched)
}
