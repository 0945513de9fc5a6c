package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoftDryzz/vaultic/internal/dotenv"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

func makeFile(pairs ...[2]string) *dotenv.SecretFile {
	file := &dotenv.SecretFile{}
	for i, kv := range pairs {
		file.Lines = append(file.Lines, dotenv.EntryLine(dotenv.Entry{
			Key:        kv[0],
			Value:      kv[1],
			LineNumber: i + 1,
		}))
	}
	return file
}

func makeConfig(envs map[string]config.EnvEntry) *config.AppConfig {
	return &config.AppConfig{
		Vaultic: config.VaulticSection{
			Version:       "0.1.0",
			FormatVersion: 1,
			DefaultCipher: "age",
			DefaultEnv:    "dev",
		},
		Environments: envs,
	}
}

func TestMergeOverlayOverridesBase(t *testing.T) {
	base := makeFile([2]string{"DB", "localhost"}, [2]string{"PORT", "5432"})
	overlay := makeFile([2]string{"DB", "rds.aws.com"})

	result := Merge(base, overlay)

	v, _ := result.Get("DB")
	assert.Equal(t, "rds.aws.com", v)
	v, _ = result.Get("PORT")
	assert.Equal(t, "5432", v)
}

func TestMergeOverlayAddsNewKeys(t *testing.T) {
	base := makeFile([2]string{"DB", "localhost"})
	overlay := makeFile([2]string{"REDIS", "redis:6379"})

	result := Merge(base, overlay)

	assert.Equal(t, []string{"DB", "REDIS"}, result.Keys())
}

func TestMergeEmptySides(t *testing.T) {
	overlay := makeFile([2]string{"KEY", "val"})

	assert.Equal(t, []string{"KEY"}, Merge(&dotenv.SecretFile{}, overlay).Keys())
	assert.Equal(t, []string{"KEY"}, Merge(overlay, &dotenv.SecretFile{}).Keys())
}

func TestMergeIdempotentOverFixedPoint(t *testing.T) {
	x := makeFile([2]string{"A", "1"}, [2]string{"B", "2"})

	result := Merge(x, x)

	assert.Equal(t, []string{"A", "B"}, result.Keys())
	v, _ := result.Get("A")
	assert.Equal(t, "1", v)
	v, _ = result.Get("B")
	assert.Equal(t, "2", v)
}

func TestMergePreservesBaseComments(t *testing.T) {
	base := &dotenv.SecretFile{Lines: []dotenv.Line{
		dotenv.CommentLine("# Database config"),
		dotenv.EntryLine(dotenv.Entry{Key: "DB", Value: "localhost", LineNumber: 2}),
	}}
	overlay := makeFile([2]string{"DB", "rds.aws.com"})

	result := Merge(base, overlay)

	assert.Equal(t, dotenv.KindComment, result.Lines[0].Kind)
	v, _ := result.Get("DB")
	assert.Equal(t, "rds.aws.com", v)
}

func TestResolveSingleLevelInheritance(t *testing.T) {
	cfg := makeConfig(map[string]config.EnvEntry{
		"base": {File: "base.env"},
		"dev":  {File: "dev.env", Inherits: "base"},
	})
	files := map[string]*dotenv.SecretFile{
		"base": makeFile([2]string{"DB", "localhost"}, [2]string{"PORT", "5432"}),
		"dev":  makeFile([2]string{"DB", "dev-db"}, [2]string{"DEBUG", "true"}),
	}

	env, err := Resolve("dev", cfg, files)
	require.NoError(t, err)

	assert.Equal(t, "dev", env.Name)
	assert.Equal(t, []string{"base", "dev"}, env.Layers)

	v, _ := env.Resolved.Get("DB")
	assert.Equal(t, "dev-db", v)
	v, _ = env.Resolved.Get("PORT")
	assert.Equal(t, "5432", v)
	v, _ = env.Resolved.Get("DEBUG")
	assert.Equal(t, "true", v)
}

func TestResolveMultiLevelInheritance(t *testing.T) {
	cfg := makeConfig(map[string]config.EnvEntry{
		"base":   {File: "base.env"},
		"shared": {File: "shared.env", Inherits: "base"},
		"dev":    {File: "dev.env", Inherits: "shared"},
	})
	files := map[string]*dotenv.SecretFile{
		"base":   makeFile([2]string{"DB", "localhost"}, [2]string{"PORT", "5432"}),
		"shared": makeFile([2]string{"DB", "shared-db"}, [2]string{"CACHE", "redis"}),
		"dev":    makeFile([2]string{"DEBUG", "true"}),
	}

	env, err := Resolve("dev", cfg, files)
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "shared", "dev"}, env.Layers)
	v, _ := env.Resolved.Get("DB")
	assert.Equal(t, "shared-db", v)
	v, _ = env.Resolved.Get("CACHE")
	assert.Equal(t, "redis", v)
}

func TestResolveNoInheritance(t *testing.T) {
	cfg := makeConfig(map[string]config.EnvEntry{
		"base": {File: "base.env"},
	})
	files := map[string]*dotenv.SecretFile{
		"base": makeFile([2]string{"KEY", "val"}),
	}

	env, err := Resolve("base", cfg, files)
	require.NoError(t, err)

	assert.Equal(t, []string{"base"}, env.Layers)
}

func TestResolveCircularInheritanceDetected(t *testing.T) {
	cfg := makeConfig(map[string]config.EnvEntry{
		"a": {File: "a.env", Inherits: "b"},
		"b": {File: "b.env", Inherits: "a"},
	})

	_, err := Resolve("a", cfg, nil)

	var cErr *vaulterr.CircularInheritanceError
	require.True(t, errors.As(err, &cErr))
	assert.Contains(t, cErr.Chain, "a")
	assert.Contains(t, cErr.Chain, "b")
}

func TestResolveMissingEnvironmentFails(t *testing.T) {
	cfg := makeConfig(map[string]config.EnvEntry{
		"base": {File: "base.env"},
	})

	_, err := Resolve("nonexistent", cfg, nil)

	var nfErr *vaulterr.EnvNotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "nonexistent", nfErr.Name)
	assert.Equal(t, []string{"base"}, nfErr.Available)
}

func TestResolveMissingParentFails(t *testing.T) {
	cfg := makeConfig(map[string]config.EnvEntry{
		"dev": {File: "dev.env", Inherits: "missing_base"},
	})

	_, err := Resolve("dev", cfg, nil)

	var nfErr *vaulterr.EnvNotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "missing_base", nfErr.Name)
}

func TestResolveMissingFileUsesEmpty(t *testing.T) {
	cfg := makeConfig(map[string]config.EnvEntry{
		"base": {File: "base.env"},
		"dev":  {File: "dev.env", Inherits: "base"},
	})
	files := map[string]*dotenv.SecretFile{
		"base": makeFile([2]string{"DB", "localhost"}),
	}

	env, err := Resolve("dev", cfg, files)
	require.NoError(t, err)

	v, _ := env.Resolved.Get("DB")
	assert.Equal(t, "localhost", v)
}

func TestBuildChainOrdering(t *testing.T) {
	cfg := makeConfig(map[string]config.EnvEntry{
		"base":   {File: "base.env"},
		"shared": {File: "shared.env", Inherits: "base"},
		"dev":    {File: "dev.env", Inherits: "shared"},
	})

	chain, err := BuildChain("dev", cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "shared", "dev"}, chain)

	// Root has no inherits, leaf is the requested env, no duplicates.
	assert.Equal(t, "", cfg.Environments[chain[0]].Inherits)
	assert.Equal(t, "dev", chain[len(chain)-1])
	seen := map[string]bool{}
	for _, n := range chain {
		assert.False(t, seen[n])
		seen[n] = true
	}
}

func TestBuildChainSelfCycle(t *testing.T) {
	cfg := makeConfig(map[string]config.EnvEntry{
		"solo": {File: "solo.env", Inherits: "solo"},
	})

	_, err := BuildChain("solo", cfg)

	var cErr *vaulterr.CircularInheritanceError
	require.True(t, errors.As(err, &cErr))
	assert.Equal(t, "solo -> solo", cErr.Chain)
}
