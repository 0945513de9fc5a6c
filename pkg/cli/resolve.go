package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/SoftDryzz/vaultic/internal/audit"
	"github.com/SoftDryzz/vaultic/internal/dotenv"
	"github.com/SoftDryzz/vaultic/internal/resolver"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

func getResolveCommand() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Write the resolved inheritance chain to a plaintext file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Destination file (default: .env)",
			},
		},
		Action: func(ctx *cli.Context) error {
			if err := requireInitialized(); err != nil {
				return err
			}
			cfg, err := config.Load(vaulticDir)
			if err != nil {
				return err
			}

			envName := singleEnv(ctx.StringSlice("env"))
			if envName == "" {
				envName = cfg.Vaultic.DefaultEnv
			}

			output := ctx.String("output")
			if output == "" {
				output = ".env"
			}

			return runResolve(envName, resolveCipher(ctx.String("cipher"), cfg), output, cfg)
		},
	}
}

func runResolve(envName, cipherName, output string, cfg *config.AppConfig) error {
	header("Resolving environment: " + envName)

	chain, err := resolver.BuildChain(envName, cfg)
	if err != nil {
		return err
	}
	success("Inheritance chain: " + strings.Join(chain, " -> "))

	backend, err := backendFor(cipherName, cfg, "", true)
	if err != nil {
		return err
	}

	files, err := loadEnvFiles(chain, backend, true)
	if err != nil {
		return err
	}

	env, err := resolver.Resolve(envName, cfg, files)
	if err != nil {
		return err
	}

	content := dotenv.Serialize(env.Resolved)
	if err := os.WriteFile(output, []byte(content), 0o600); err != nil {
		return err
	}

	varCount := len(env.Resolved.Keys())
	success(fmt.Sprintf("Resolved %d variables from %d layer(s)", varCount, len(env.Layers)))
	success("Written to " + output)
	fmt.Println("\n  Run 'vaultic check' to verify against the template.")

	logAudit(
		audit.ActionResolve,
		[]string{output},
		fmt.Sprintf("%s via %s", envName, strings.Join(env.Layers, " -> ")),
	)

	return nil
}
