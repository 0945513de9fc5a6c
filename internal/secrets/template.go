package secrets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

// templateCandidates is the auto-discovery priority order.
var templateCandidates = []string{
	".env.template",
	".env.example",
	".env.sample",
	"env.template",
}

// ResolveGlobalTemplate finds the template for a project-wide check.
//
// Order: the global template path from config (when set and existing),
// then auto-discovery in the project root.
func ResolveGlobalTemplate(cfg *config.AppConfig, projectRoot string) (string, error) {
	if cfg != nil && cfg.Vaultic.Template != "" {
		path := filepath.Join(projectRoot, cfg.Vaultic.Template)
		if fileExists(path) {
			return path, nil
		}
	}

	return autoDiscover(projectRoot)
}

// ResolveEnvTemplate finds the template for a specific environment.
//
// Order: the environment's template under the vaultic dir, the
// "{env}.env.template" convention under the vaultic dir, the global
// config template, then auto-discovery in the project root.
func ResolveEnvTemplate(envName string, cfg *config.AppConfig, vaulticDir, projectRoot string) (string, error) {
	var searched []string

	if entry, ok := cfg.Environments[envName]; ok && entry.Template != "" {
		path := filepath.Join(vaulticDir, entry.Template)
		if fileExists(path) {
			return path, nil
		}
		searched = append(searched, fmt.Sprintf("%s (from config)", path))
	}

	convention := filepath.Join(vaulticDir, envName+".env.template")
	if fileExists(convention) {
		return convention, nil
	}
	searched = append(searched, fmt.Sprintf("%s (convention)", convention))

	if cfg.Vaultic.Template != "" {
		path := filepath.Join(projectRoot, cfg.Vaultic.Template)
		if fileExists(path) {
			return path, nil
		}
		searched = append(searched, fmt.Sprintf("%s (global config)", cfg.Vaultic.Template))
	}

	if path, err := autoDiscover(projectRoot); err == nil {
		return path, nil
	}
	for _, c := range templateCandidates {
		searched = append(searched, fmt.Sprintf("%s (auto-discovery)", c))
	}

	return "", &vaulterr.TemplateNotFoundError{Searched: searched}
}

func autoDiscover(base string) (string, error) {
	for _, candidate := range templateCandidates {
		path := filepath.Join(base, candidate)
		if fileExists(path) {
			return path, nil
		}
	}

	searched := make([]string, len(templateCandidates))
	copy(searched, templateCandidates)
	return "", &vaulterr.TemplateNotFoundError{Searched: searched}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
