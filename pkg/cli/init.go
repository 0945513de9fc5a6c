package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/SoftDryzz/vaultic/internal/audit"
	"github.com/SoftDryzz/vaultic/internal/cipher"
	"github.com/SoftDryzz/vaultic/internal/keystore"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

const defaultConfigToml = `[vaultic]
version = "0.1.0"
format_version = 1
default_cipher = "age"
default_env = "dev"

[environments]
base = { file = "base.env" }
dev = { file = "dev.env", inherits = "base" }
staging = { file = "staging.env", inherits = "base" }
prod = { file = "prod.env", inherits = "base" }

[audit]
enabled = true
log_file = "audit.log"
`

func getInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize vaultic in the current project",
		Action: func(ctx *cli.Context) error {
			return runInit(ctx.Bool("verbose"))
		},
	}
}

func runInit(verbose bool) error {
	if _, err := os.Stat(vaulticDir); err == nil {
		return &vaulterr.InvalidConfigError{
			Detail: "vaultic is already initialized in this project (.vaultic/ exists)",
		}
	}

	header("Vaultic — Initializing project")

	if err := os.MkdirAll(vaulticDir, 0o755); err != nil {
		return err
	}
	success("Created " + vaulticDir + "/")

	if err := os.WriteFile(filepath.Join(vaulticDir, "config.toml"), []byte(defaultConfigToml), 0o644); err != nil {
		return err
	}
	success("Generated config.toml with defaults")

	if err := os.WriteFile(filepath.Join(vaulticDir, "recipients.txt"), nil, 0o644); err != nil {
		return err
	}

	if _, err := os.Stat(".env.template"); err != nil {
		if err := os.WriteFile(".env.template", []byte("# Add your environment variables here\n"), 0o644); err != nil {
			return err
		}
		success("Created .env.template")
	}

	if err := addToGitignore(".env"); err != nil {
		return err
	}

	header("Key configuration")
	fmt.Println("  Searching for existing keys...")
	fmt.Println()

	identityPath, err := cipher.DefaultIdentityPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(identityPath); err == nil {
		publicKey, err := cipher.ReadPublicKey(identityPath)
		if err != nil {
			return err
		}
		success("Age key found at " + identityPath)
		success("Public key: " + publicKey)
		if err := addSelfToRecipients(publicKey); err != nil {
			return err
		}
	} else {
		warning("No age or GPG key found")
		fmt.Println()
		if confirm("Generate a new age key now?", true) {
			fmt.Println()
			publicKey, err := cipher.GenerateIdentity(identityPath)
			if err != nil {
				return err
			}
			success("Private key saved to: " + identityPath)
			success("Public key: " + publicKey)
			printKeyWarning(identityPath)
			if err := addSelfToRecipients(publicKey); err != nil {
				return err
			}
		} else {
			warning("Skipped key generation")
			fmt.Println("  Run 'vaultic keys setup' later to configure your key.")
			fmt.Println()
		}
	}

	success("Project ready.")
	fmt.Println()
	printNextSteps(verbose)

	logAudit(audit.ActionInit, nil, "project initialized")

	return nil
}

// confirm asks a y/N question, defaulting when stdin is not readable.
func confirm(prompt string, defaultYes bool) bool {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	fmt.Printf("  %s %s: ", prompt, suffix)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return defaultYes
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}

// addToGitignore appends entry to .gitignore unless already present.
func addToGitignore(entry string) error {
	const gitignore = ".gitignore"

	if content, err := os.ReadFile(gitignore); err == nil {
		for _, line := range strings.Split(string(content), "\n") {
			if strings.TrimSpace(line) == entry {
				success(entry + " already in .gitignore")
				return nil
			}
		}
		f, err := os.OpenFile(gitignore, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := fmt.Fprintf(f, "\n# Vaultic: never commit plaintext secrets\n%s\n", entry); err != nil {
			return err
		}
	} else {
		content := fmt.Sprintf("# Vaultic: never commit plaintext secrets\n%s\n", entry)
		if err := os.WriteFile(gitignore, []byte(content), 0o644); err != nil {
			return err
		}
	}

	success("Added " + entry + " to .gitignore")
	return nil
}

func addSelfToRecipients(publicKey string) error {
	store := keystore.NewFileStore(filepath.Join(vaulticDir, "recipients.txt"))
	if err := store.Add(keystore.KeyIdentity{PublicKey: publicKey}); err != nil {
		return err
	}
	success("Public key added to " + vaulticDir + "/recipients.txt")
	return nil
}

func printKeyWarning(identityPath string) {
	fmt.Println()
	fmt.Println("  IMPORTANT: About your private key")
	fmt.Println()
	fmt.Println("  Location: " + identityPath)
	fmt.Println()
	fmt.Println("  • NEVER share this file with anyone")
	fmt.Println("  • Back it up somewhere safe (USB, password manager)")
	fmt.Println("  • If you lose it, you CANNOT decrypt your secrets")
	fmt.Println("  • Your PUBLIC key IS safe to share")
	fmt.Println()
}

func printNextSteps(verbose bool) {
	fmt.Println("  Next steps:")
	fmt.Println("     1. Create your .env with the project variables")
	fmt.Println("     2. Run 'vaultic encrypt' to encrypt it")
	fmt.Println("     3. Commit .vaultic/ to the repo")
	fmt.Println("     4. Share your PUBLIC key with the team")

	if verbose {
		fmt.Println()
		fmt.Println("  Files created:")
		fmt.Println("     .vaultic/config.toml      — vaultic configuration")
		fmt.Println("     .vaultic/recipients.txt   — authorized public keys")
		fmt.Println("     .env.template             — variable template (commit this)")
	}
}
