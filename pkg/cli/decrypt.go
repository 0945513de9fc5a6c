package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/SoftDryzz/vaultic/internal/audit"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

func getDecryptCommand() *cli.Command {
	return &cli.Command{
		Name:      "decrypt",
		Usage:     "Decrypt secret files to plaintext",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "key",
				Usage: "Path to the private key file (default: platform config dir)",
			},
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
			if envName == "" {
				envName = "dev"
			}

			source := ctx.Args().First()
			if source == "" {
				source = filepath.Join(vaulticDir, envName+".env.enc")
			}

			dest := ctx.String("output")
			if dest == "" {
				dest = ".env"
			}

			cipherName := resolveCipher(ctx.String("cipher"), cfg)
			return runDecrypt(source, dest, envName, cipherName, ctx.String("key"), cfg)
		},
	}
}

func runDecrypt(source, dest, envName, cipherName, keyPath string, cfg *config.AppConfig) error {
	if _, err := os.Stat(source); err != nil {
		return &vaulterr.FileNotFoundError{Path: source}
	}

	backend, err := backendFor(cipherName, cfg, keyPath, true)
	if err != nil {
		return err
	}

	svc := newEncryptionService(backend)

	header(fmt.Sprintf("Decrypting %s with %s", envName, backend.Name()))
	detail("Source: " + source)
	detail("Destination: " + dest)

	if err := svc.DecryptFile(source, dest); err != nil {
		return err
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		return err
	}
	varCount := countVariables(string(content))

	success("Decrypted " + source)
	success(fmt.Sprintf("Generated %s with %d variables", dest, varCount))
	fmt.Println("\n  Run 'vaultic check' to verify no variables are missing.")

	logAudit(
		audit.ActionDecrypt,
		[]string{envName + ".env.enc"},
		fmt.Sprintf("%d variables decrypted", varCount),
	)

	return nil
}
