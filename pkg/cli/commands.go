// Package cli defines the vaultic command surface.
package cli

import (
	"github.com/urfave/cli/v2"
)

// GetCommands returns all CLI commands.
func GetCommands() []*cli.Command {
	return []*cli.Command{
		getInitCommand(),
		getEncryptCommand(),
		getDecryptCommand(),
		getCheckCommand(),
		getDiffCommand(),
		getResolveCommand(),
		getKeysCommand(),
		getLogCommand(),
		getStatusCommand(),
		getHookCommand(),
		getUpdateCommand(),
	}
}

// Setup applies the global flags before any command runs: verbosity
// and the vaultic directory override. It does not validate --env values.
func Setup(verbose, quiet bool, configDir string) {
	initOutput(verbose, quiet)
	initContext(configDir)
}

// singleEnv returns the first --env value, or "".
func singleEnv(envs []string) string {
	if len(envs) > 0 {
		return envs[0]
	}
	return ""
}
