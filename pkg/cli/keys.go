package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/SoftDryzz/vaultic/internal/audit"
	"github.com/SoftDryzz/vaultic/internal/cipher"
	"github.com/SoftDryzz/vaultic/internal/keystore"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

func getKeysCommand() *cli.Command {
	return &cli.Command{
		Name:  "keys",
		Usage: "Manage keys and recipients",
		Subcommands: []*cli.Command{
			{
				Name:  "setup",
				Usage: "Generate or import a key for this project",
				Action: func(ctx *cli.Context) error {
					return runKeysSetup()
				},
			},
			{
				Name:      "add",
				Usage:     "Add a recipient (public key)",
				ArgsUsage: "<identity>",
				Action: func(ctx *cli.Context) error {
					if ctx.Args().Len() == 0 {
						return &vaulterr.InvalidConfigError{
							Detail: "missing identity.\n\n  Usage: vaultic keys add <public-key>",
						}
					}
					return runKeysAdd(ctx.Args().First())
				},
			},
			{
				Name:  "list",
				Usage: "List authorized recipients",
				Action: func(ctx *cli.Context) error {
					return runKeysList()
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a recipient",
				ArgsUsage: "<identity>",
				Action: func(ctx *cli.Context) error {
					if ctx.Args().Len() == 0 {
						return &vaulterr.InvalidConfigError{
							Detail: "missing identity.\n\n  Usage: vaultic keys remove <public-key>",
						}
					}
					return runKeysRemove(ctx.Args().First())
				},
			},
		},
	}
}

func projectKeyStore() *keystore.FileStore {
	return keystore.NewFileStore(filepath.Join(vaulticDir, "recipients.txt"))
}

// runKeysSetup walks a new user through key configuration.
func runKeysSetup() error {
	header("Key configuration for vaultic")

	identityPath, err := cipher.DefaultIdentityPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(identityPath); err == nil {
		publicKey, err := cipher.ReadPublicKey(identityPath)
		if err != nil {
			return err
		}
		success("Age key already exists at " + identityPath)
		success("Public key: " + publicKey)
		fmt.Println("\n  Share this PUBLIC key with the project admin.")
		fmt.Println("  The admin will run: vaultic keys add " + publicKey)
		return nil
	}

	gpgAvailable := cipher.NewGpgBackend().IsAvailable()

	fmt.Println("\n  What do you want to do?")
	fmt.Println("  1. Generate a new age key (recommended for new users)")
	fmt.Println("  2. Import an existing age key from file")
	if gpgAvailable {
		fmt.Println("  3. Use an existing GPG key from your keyring")
	}
	fmt.Println()
	fmt.Print("  Selection [1]: ")

	choice := readLine()

	switch choice {
	case "", "1":
		return setupGenerateAge(identityPath)
	case "2":
		return setupImportAge(identityPath)
	case "3":
		if gpgAvailable {
			return setupUseGpg()
		}
		fallthrough
	default:
		fmt.Println("\n  When you have your key ready, share the public key with the project admin.")
		return nil
	}
}

func setupGenerateAge(identityPath string) error {
	fmt.Println()
	publicKey, err := cipher.GenerateIdentity(identityPath)
	if err != nil {
		return err
	}
	success("Private key: " + identityPath)
	success("Public key: " + publicKey)

	printKeySetupNextStep(publicKey)
	tryAutoAddRecipient(publicKey)
	return nil
}

func setupImportAge(identityPath string) error {
	fmt.Print("\n  Path to your age identity file: ")
	source := readLine()

	if _, err := os.Stat(source); err != nil {
		return &vaulterr.FileNotFoundError{Path: source}
	}

	publicKey, err := cipher.ReadPublicKey(source)
	if err != nil {
		return &vaulterr.InvalidConfigError{
			Detail: fmt.Sprintf(
				"file does not contain a valid age identity: %s\n\n  Expected a file with an AGE-SECRET-KEY-... line.",
				source,
			),
		}
	}

	if err := os.MkdirAll(filepath.Dir(identityPath), 0o700); err != nil {
		return err
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	if err := os.WriteFile(identityPath, data, 0o600); err != nil {
		return err
	}

	success("Key imported to " + identityPath)
	success("Public key: " + publicKey)

	printKeySetupNextStep(publicKey)
	tryAutoAddRecipient(publicKey)
	return nil
}

func setupUseGpg() error {
	out, err := exec.Command("gpg", "--list-secret-keys", "--keyid-format", "long").Output()
	if err != nil {
		return &vaulterr.EncryptionError{Reason: "failed to list GPG secret keys: " + err.Error()}
	}

	fmt.Println("\n  Available GPG keys:")
	fmt.Println()
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		fmt.Println("  " + line)
	}

	fmt.Print("\n  Enter the GPG key ID or email to use: ")
	gpgID := readLine()

	if gpgID == "" {
		warning("No key selected, setup skipped.")
		return nil
	}

	success("GPG key selected: " + gpgID)
	fmt.Println("\n  Use --cipher gpg when encrypting/decrypting.")

	printKeySetupNextStep(gpgID)
	tryAutoAddRecipient(gpgID)
	return nil
}

func printKeySetupNextStep(publicKey string) {
	fmt.Println()
	fmt.Println("  Next step:")
	fmt.Println("  Send your PUBLIC key to the project admin:")
	fmt.Println("  " + publicKey)
	fmt.Println()
	fmt.Println("  The admin will run:")
	fmt.Println("  vaultic keys add " + publicKey)
	fmt.Println()
	fmt.Println("  After that you can decrypt with: vaultic decrypt --env dev")
}

// tryAutoAddRecipient adds the key to recipients.txt when the project
// is already initialized. Best effort only.
func tryAutoAddRecipient(publicKey string) {
	store := projectKeyStore()
	if _, err := os.Stat(store.Path()); err != nil {
		return
	}

	now := time.Now().UTC()
	if store.Add(keystore.KeyIdentity{PublicKey: publicKey, AddedAt: &now}) == nil {
		success("Public key added to " + store.Path())
	}
}

func runKeysAdd(identity string) error {
	if err := requireInitialized(); err != nil {
		return err
	}

	if err := keystore.ValidateRecipientKey(identity); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := projectKeyStore().Add(keystore.KeyIdentity{PublicKey: identity, AddedAt: &now}); err != nil {
		return err
	}

	success("Added recipient: " + identity)
	fmt.Println("\n  Re-encrypt with 'vaultic encrypt' so this recipient can decrypt.")

	logAudit(audit.ActionKeyAdd, nil, "added "+identity)
	return nil
}

func runKeysList() error {
	if err := requireInitialized(); err != nil {
		return err
	}

	store := projectKeyStore()
	detail("Recipients file: " + store.Path())

	keys, err := store.List()
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		warning("No recipients configured.")
		fmt.Println("  Run 'vaultic keys add <public-key>' to add one.")
		return nil
	}

	header(fmt.Sprintf("Authorized recipients (%d)", len(keys)))
	for _, ki := range keys {
		if ki.Label != "" {
			fmt.Printf("  • %s  # %s\n", ki.PublicKey, ki.Label)
		} else {
			fmt.Printf("  • %s\n", ki.PublicKey)
		}
	}

	return nil
}

func runKeysRemove(identity string) error {
	if err := requireInitialized(); err != nil {
		return err
	}

	if err := projectKeyStore().Remove(identity); err != nil {
		return err
	}

	success("Removed recipient: " + identity)
	fmt.Println("\n  Re-encrypt with 'vaultic encrypt --all' to revoke this recipient's access.")

	logAudit(audit.ActionKeyRemove, nil, "removed "+identity)
	return nil
}

func readLine() string {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
