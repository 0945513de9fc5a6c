package cli

import (
	"os"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// vaulticDir is the project state directory, set once at startup from
// --config and read-only afterwards.
var vaulticDir = ".vaultic"

// initContext records the vaultic directory override, if any.
func initContext(custom string) {
	if custom != "" {
		vaulticDir = custom
	}
}

// VaulticDir returns the project state directory.
func VaulticDir() string {
	return vaulticDir
}

// requireInitialized fails unless the vaultic directory exists.
func requireInitialized() error {
	if _, err := os.Stat(vaulticDir); err != nil {
		return &vaulterr.InvalidConfigError{
			Detail: "vaultic not initialized. Run 'vaultic init' first.",
		}
	}
	return nil
}
