package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/SoftDryzz/vaultic/internal/audit"
	"github.com/SoftDryzz/vaultic/internal/githook"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

func getHookCommand() *cli.Command {
	return &cli.Command{
		Name:  "hook",
		Usage: "Install or uninstall the git pre-commit hook",
		Subcommands: []*cli.Command{
			{
				Name:  "install",
				Usage: "Install the pre-commit hook",
				Action: func(ctx *cli.Context) error {
					return runHookInstall()
				},
			},
			{
				Name:  "uninstall",
				Usage: "Remove the pre-commit hook",
				Action: func(ctx *cli.Context) error {
					return runHookUninstall()
				},
			},
		},
	}
}

func runHookInstall() error {
	if _, err := os.Stat(".git"); err != nil {
		return &vaulterr.HookError{Detail: "not a git repository. Run 'git init' first."}
	}

	header("Installing git pre-commit hook")

	if err := githook.Install(".git"); err != nil {
		return err
	}

	success("Pre-commit hook installed at .git/hooks/pre-commit")
	fmt.Println("\n  The hook will block commits that include plaintext .env files.")
	fmt.Println("  To remove it later: vaultic hook uninstall")

	logAudit(audit.ActionHookInstall, nil, "")
	return nil
}

func runHookUninstall() error {
	if _, err := os.Stat(".git"); err != nil {
		return &vaulterr.HookError{Detail: "not a git repository."}
	}

	header("Uninstalling git pre-commit hook")

	if err := githook.Uninstall(".git"); err != nil {
		return err
	}

	success("Pre-commit hook removed")

	logAudit(audit.ActionHookUninstall, nil, "")
	return nil
}
