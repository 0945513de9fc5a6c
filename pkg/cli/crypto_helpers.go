package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/SoftDryzz/vaultic/internal/cipher"
	"github.com/SoftDryzz/vaultic/internal/dotenv"
	"github.com/SoftDryzz/vaultic/internal/keystore"
	"github.com/SoftDryzz/vaultic/internal/secrets"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
	"github.com/SoftDryzz/vaultic/pkg/config"
	"github.com/SoftDryzz/vaultic/pkg/vault"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// resolveCipher picks the effective cipher: explicit flag, then the
// config default, then age.
func resolveCipher(flagValue string, cfg *config.AppConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.Vaultic.DefaultCipher != "" {
		return cfg.Vaultic.DefaultCipher
	}
	return "age"
}

// backendFor builds the cipher backend by name. keyPath overrides the
// age identity location; needIdentity enforces that a private key
// exists (decrypt paths) before the backend is handed out.
func backendFor(name string, cfg *config.AppConfig, keyPath string, needIdentity bool) (cipher.Backend, error) {
	switch name {
	case "age":
		identityPath := keyPath
		if identityPath == "" {
			p, err := cipher.DefaultIdentityPath()
			if err != nil {
				return nil, err
			}
			identityPath = p
		} else if _, err := os.Stat(identityPath); err != nil {
			return nil, &vaulterr.FileNotFoundError{Path: identityPath}
		}
		if needIdentity {
			if _, err := os.Stat(identityPath); err != nil {
				return nil, &vaulterr.EncryptionError{
					Reason: fmt.Sprintf(
						"no private key found at %s\n\n  Solutions:\n    -> New here? Run 'vaultic keys setup' to generate a key\n    -> Have a key? Use --key <path> to specify the location\n    -> Lost your key? Ask an admin to re-add you as a recipient",
						identityPath,
					),
				}
			}
		}
		return cipher.NewAgeBackend(identityPath), nil

	case "gpg":
		backend := cipher.NewGpgBackend()
		if !backend.IsAvailable() {
			return nil, &vaulterr.EncryptionError{
				Reason: "GPG is not installed or not found in PATH",
			}
		}
		return backend, nil

	case "vault":
		vaultCfg := vault.Config{}
		transitMount := ""
		transitKey := ""
		if cfg != nil && cfg.Vault != nil {
			vaultCfg.Addr = cfg.Vault.Addr
			vaultCfg.Namespace = cfg.Vault.Namespace
			vaultCfg.CACert = cfg.Vault.CACert
			vaultCfg.SkipVerify = cfg.Vault.SkipVerify
			transitMount = cfg.Vault.TransitMount
			transitKey = cfg.Vault.TransitKey
		}
		vaultCfg.ConfigFromEnv()
		if transitKey == "" {
			return nil, &vaulterr.InvalidConfigError{
				Detail: "the vault cipher needs a transit key.\n\n  Set [vault].transit_key in .vaultic/config.toml",
			}
		}
		client, err := vault.NewClient(vaultCfg)
		if err != nil {
			return nil, &vaulterr.EncryptionError{Reason: err.Error()}
		}
		return cipher.NewVaultBackend(client, transitMount, transitKey), nil

	default:
		return nil, &vaulterr.InvalidConfigError{
			Detail: fmt.Sprintf("unknown cipher backend: '%s'. Use 'age', 'gpg', or 'vault'.", name),
		}
	}
}

// newEncryptionService wires a backend with the project key store.
func newEncryptionService(backend cipher.Backend) *secrets.EncryptionService {
	return &secrets.EncryptionService{
		Cipher:   backend,
		KeyStore: keystore.NewFileStore(filepath.Join(vaulticDir, "recipients.txt")),
	}
}

// loadEnvFiles decrypts and parses the env file of each layer in the
// chain, in memory. Layers without an encrypted file are skipped: they
// may exist only to define inheritance.
func loadEnvFiles(chain []string, backend cipher.Backend, warnMissing bool) (map[string]*dotenv.SecretFile, error) {
	svc := newEncryptionService(backend)
	files := make(map[string]*dotenv.SecretFile)

	for _, name := range chain {
		encPath := filepath.Join(vaulticDir, name+".env.enc")

		if _, err := os.Stat(encPath); err != nil {
			if warnMissing {
				warning(fmt.Sprintf("no encrypted file for '%s' (%s) — skipping", name, encPath))
			}
			continue
		}

		plaintext, err := svc.DecryptToBytes(encPath)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(plaintext) {
			return nil, &vaulterr.ParseError{
				File:   encPath,
				Detail: "decrypted content is not valid UTF-8",
			}
		}

		file, err := dotenv.Parse(string(plaintext))
		if err != nil {
			return nil, err
		}
		files[name] = file
	}

	return files, nil
}

// countVariables counts KEY=value lines in dotenv-style content.
func countVariables(content string) int {
	file, err := dotenv.Parse(content)
	if err != nil {
		return 0
	}
	return len(file.Entries())
}
