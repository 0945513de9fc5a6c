package main

import (
	"fmt"
	"log"
	"os"

	urfave "github.com/urfave/cli/v2"

	"github.com/SoftDryzz/vaultic/internal/updater"
	"github.com/SoftDryzz/vaultic/pkg/cli"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

func main() {
	log.SetFlags(0)

	// -v belongs to --verbose here; keep --version long-form only.
	urfave.VersionFlag = &urfave.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	app := &urfave.App{
		Name:    "vaultic",
		Usage:   "Secure your secrets. Sync your team. Trust your configs.",
		Version: updater.Version,
		Description: `vaultic manages versioned, team-shared secrets in git repositories.
Encrypted .env files live alongside the code, every authorized teammate
can decrypt them, and every mutation of the shared state is recorded.`,
		Commands: cli.GetCommands(),
		Flags: []urfave.Flag{
			&urfave.StringFlag{
				Name:  "cipher",
				Usage: "Encryption backend: age, gpg, or vault",
			},
			&urfave.StringSliceFlag{
				Name:  "env",
				Usage: "Target environment(s). Repeat for diff: --env dev --env prod",
			},
			&urfave.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose output",
			},
			&urfave.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Quiet mode: only show errors",
			},
			&urfave.StringFlag{
				Name:  "config",
				Usage: "Path to an alternative vaultic directory",
			},
		},
		Before: func(ctx *urfave.Context) error {
			cli.Setup(ctx.Bool("verbose"), ctx.Bool("quiet"), ctx.String("config"))

			// Reject unsafe --env values before any command touches
			// the filesystem.
			for _, envName := range ctx.StringSlice("env") {
				if err := config.ValidateEnvName(envName); err != nil {
					return err
				}
			}

			// Passive version check, suppressed in quiet mode and for
			// the update command itself.
			if !ctx.Bool("quiet") && ctx.Args().First() != "update" {
				if latest := updater.CheckLatestVersion(); latest != "" {
					fmt.Printf("  ⚠ New version available: v%s. Run 'vaultic update' to upgrade.\n", latest)
				}
			}

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		cli.ErrorLine(err.Error())
		os.Exit(1)
	}
}
