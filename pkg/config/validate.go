package config

import (
	"fmt"
	"strings"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// ValidateEnvName checks that an environment name is safe for path
// construction. Without this, '--env ../../../etc' would build
// '.vaultic/../../../etc.env.enc' and escape the project directory.
func ValidateEnvName(name string) error {
	if name == "" {
		return &vaulterr.InvalidConfigError{
			Detail: "environment name cannot be empty.\n\n  Use a name like 'dev', 'staging', or 'prod'.",
		}
	}

	for _, r := range name {
		if !isEnvNameRune(r) {
			return &vaulterr.InvalidConfigError{
				Detail: fmt.Sprintf(
					"invalid environment name: '%s'\n\n  Environment names can only contain letters, digits, hyphens, and underscores.\n  Valid examples: 'dev', 'staging', 'prod-us', 'test_01'",
					name,
				),
			}
		}
	}

	return nil
}

func isEnvNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' || r == '-'
}

// ValidateSimpleFilename checks that a config-supplied filename has no
// path separators and is not hidden. Keeps a tampered config.toml from
// writing outside .vaultic/.
func ValidateSimpleFilename(name, context string) error {
	if name == "" {
		return &vaulterr.InvalidConfigError{
			Detail: fmt.Sprintf("%s cannot be empty.", context),
		}
	}

	if strings.Contains(name, "/") || strings.Contains(name, "\\") ||
		strings.Contains(name, "..") || strings.HasPrefix(name, ".") {
		return &vaulterr.InvalidConfigError{
			Detail: fmt.Sprintf(
				"unsafe %s: '%s'\n\n  The value must be a simple filename without path separators.\n  Valid examples: 'audit.log', 'vaultic-audit.log'",
				context, name,
			),
		}
	}

	return nil
}
