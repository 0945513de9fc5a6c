package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/SoftDryzz/vaultic/internal/updater"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

func getStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the full project status",
		Action: func(ctx *cli.Context) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	if err := requireInitialized(); err != nil {
		return err
	}
	cfg, err := config.Load(vaulticDir)
	if err != nil {
		return err
	}

	header("Vaultic v" + updater.Version)
	fmt.Println("  Cipher: " + color.CyanString(cfg.Vaultic.DefaultCipher))
	fmt.Println("  Default env: " + color.CyanString(cfg.Vaultic.DefaultEnv))
	fmt.Println("  Config: " + filepath.Join(vaulticDir, "config.toml"))

	printRecipients()
	printEnvironments(cfg)
	printLocalState()
	printAuditStatus(cfg)

	return nil
}

func printRecipients() {
	keys, err := projectKeyStore().List()
	if err != nil {
		warning("Could not read recipients")
		return
	}

	if len(keys) == 0 {
		fmt.Println()
		warning("No recipients configured")
		fmt.Println("  Run 'vaultic keys add <public-key>' to add one.")
		return
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	fmt.Println()
	fmt.Println(bold.Sprintf("  Recipients (%d)", len(keys)))
	for _, ki := range keys {
		fmt.Printf("  %s %s\n", dim.Sprint("•"), truncateKey(ki.PublicKey, 40))
	}
}

func printEnvironments(cfg *config.AppConfig) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	fmt.Println()
	fmt.Println(bold.Sprint("  Encrypted environments"))

	for _, envName := range cfg.EnvNames() {
		encPath := filepath.Join(vaulticDir, envName+".env.enc")

		if info, err := os.Stat(encPath); err == nil {
			fmt.Printf("  %s %-12s %s %s\n",
				color.GreenString("✓"),
				envName,
				dim.Sprint(envName+".env.enc"),
				dim.Sprint(formatBytes(info.Size())),
			)
		} else {
			fmt.Printf("  %s %-12s %s\n",
				color.RedString("✗"),
				envName,
				dim.Sprint("(not encrypted)"),
			)
		}
	}
}

func printLocalState() {
	bold := color.New(color.Bold)
	fmt.Println()
	fmt.Println(bold.Sprint("  Local state"))

	if content, err := os.ReadFile(".env"); err == nil {
		success(fmt.Sprintf(".env present (%d variables)", countVariables(string(content))))
	} else {
		warning(".env not found")
	}

	if content, err := os.ReadFile(".env.template"); err == nil {
		success(fmt.Sprintf(".env.template present (%d variables)", countVariables(string(content))))
	} else {
		warning(".env.template not found")
	}

	if content, err := os.ReadFile(".gitignore"); err == nil {
		ignored := false
		for _, line := range strings.Split(string(content), "\n") {
			if strings.TrimSpace(line) == ".env" {
				ignored = true
				break
			}
		}
		if ignored {
			success(".env in .gitignore")
		} else {
			warning(".env NOT in .gitignore — secrets may be committed!")
		}
	} else {
		warning("No .gitignore found")
	}
}

func printAuditStatus(cfg *config.AppConfig) {
	dim := color.New(color.Faint)

	if !cfg.AuditEnabled() {
		fmt.Println()
		fmt.Println(dim.Sprint("  Audit: disabled"))
		return
	}

	logFile := cfg.AuditLogFile()
	logPath := filepath.Join(vaulticDir, logFile)

	if content, err := os.ReadFile(logPath); err == nil {
		count := 0
		for _, line := range strings.Split(string(content), "\n") {
			if strings.TrimSpace(line) != "" {
				count++
			}
		}
		fmt.Printf("\n  %s Audit: %d entries in %s\n", color.GreenString("✓"), count, logFile)
	} else {
		fmt.Printf("\n  %s Audit: no entries yet (%s)\n", dim.Sprint("—"), logFile)
	}
}

// truncateKey shortens a key for display, keeping both ends visible.
func truncateKey(key string, maxLen int) string {
	if len(key) <= maxLen {
		return key
	}
	keep := (maxLen - 3) / 2
	return key[:keep] + "..." + key[len(key)-keep:]
}

func formatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("(%d B)", n)
	}
	return fmt.Sprintf("(%.1f KB)", float64(n)/1024.0)
}
