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

func getEncryptCommand() *cli.Command {
	return &cli.Command{
		Name:      "encrypt",
		Usage:     "Encrypt secret files for all recipients",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Re-encrypt every environment with the current recipient set",
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

			cipherName := resolveCipher(ctx.String("cipher"), cfg)
			if ctx.Bool("all") {
				return runEncryptAll(cfg, cipherName)
			}

			envName := singleEnv(ctx.StringSlice("env"))
			if envName == "" {
				envName = cfg.Vaultic.DefaultEnv
			}
			if envName == "" {
				envName = "dev"
			}

			file := ctx.Args().First()
			if file == "" {
				file = ".env"
			}

			return runEncrypt(file, envName, cipherName, cfg)
		},
	}
}

// runEncrypt encrypts one plaintext file into .vaultic/{env}.env.enc.
func runEncrypt(source, envName, cipherName string, cfg *config.AppConfig) error {
	if _, err := os.Stat(source); err != nil {
		return &vaulterr.FileNotFoundError{Path: source}
	}

	backend, err := backendFor(cipherName, cfg, "", false)
	if err != nil {
		return err
	}

	svc := newEncryptionService(backend)
	recipients, err := svc.KeyStore.List()
	if err != nil {
		return err
	}

	dest := filepath.Join(vaulticDir, envName+".env.enc")

	header(fmt.Sprintf("Encrypting with %s for %s", backend.Name(), envName))

	if err := svc.EncryptFile(source, dest); err != nil {
		return err
	}

	success(fmt.Sprintf("Encrypted with %s for %d recipient(s)", backend.Name(), len(recipients)))
	success("Saved to " + dest)
	fmt.Printf("\n  Commit %s to the repo.\n", dest)

	logAuditWithHash(
		audit.ActionEncrypt,
		[]string{envName + ".env.enc"},
		fmt.Sprintf("encrypted with %s for %d recipient(s)", backend.Name(), len(recipients)),
		stateHashOf(dest),
	)

	return nil
}

// runEncryptAll re-encrypts every environment that has an encrypted
// file, entirely in memory so plaintext never reaches the filesystem.
// Used after recipient changes to grant or revoke access.
func runEncryptAll(cfg *config.AppConfig, cipherName string) error {
	backend, err := backendFor(cipherName, cfg, "", true)
	if err != nil {
		return err
	}

	svc := newEncryptionService(backend)

	header(fmt.Sprintf("Re-encrypting all environments with %s", backend.Name()))

	var done []string
	for _, envName := range cfg.EnvNames() {
		encPath := filepath.Join(vaulticDir, envName+".env.enc")
		if _, err := os.Stat(encPath); err != nil {
			detail(fmt.Sprintf("%s: no encrypted file, skipping", envName))
			continue
		}

		plaintext, err := svc.DecryptToBytes(encPath)
		if err != nil {
			return err
		}
		if err := svc.EncryptBytes(plaintext, encPath); err != nil {
			return err
		}

		success(fmt.Sprintf("Re-encrypted %s", envName))
		done = append(done, envName+".env.enc")
	}

	if len(done) == 0 {
		warning("No encrypted environments found. Nothing to re-encrypt.")
		return nil
	}

	success(fmt.Sprintf("%d environment(s) re-encrypted for the current recipient set", len(done)))

	logAudit(
		audit.ActionEncrypt,
		done,
		fmt.Sprintf("re-encrypted all with %s", backend.Name()),
	)

	return nil
}
