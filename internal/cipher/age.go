package cipher

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/SoftDryzz/vaultic/internal/keystore"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// AgeBackend encrypts with age (X25519 + ChaCha20-Poly1305).
//
// Output is ASCII-armored so encrypted files are text-friendly and
// diff well in Git.
type AgeBackend struct {
	// IdentityPath is the age identity (private key) file.
	IdentityPath string
}

// NewAgeBackend creates a backend reading identities from path.
func NewAgeBackend(identityPath string) *AgeBackend {
	return &AgeBackend{IdentityPath: identityPath}
}

// DefaultIdentityPath is the platform config-dir location of the age
// identity file: ~/.config/age/keys.txt on Linux, the equivalent
// elsewhere.
func DefaultIdentityPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", &vaulterr.InvalidConfigError{
			Detail: "could not determine config directory: " + err.Error(),
		}
	}
	return filepath.Join(configDir, "age", "keys.txt"), nil
}

// GenerateIdentity creates a new X25519 identity, writes it to path,
// and returns the public key string.
func GenerateIdentity(path string) (string, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return "", &vaulterr.EncryptionError{Reason: "generate identity: " + err.Error()}
	}

	publicKey := identity.Recipient().String()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}

	created := time.Now().UTC().Format("2006-01-02T15:04:05Z")
	contents := fmt.Sprintf("# created: %s\n# public key: %s\n%s\n", created, publicKey, identity.String())
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		return "", err
	}

	return publicKey, nil
}

// ReadPublicKey extracts the public key from an identity file. Prefers
// the "# public key:" comment; falls back to deriving it from the
// secret key line.
func ReadPublicKey(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", &vaulterr.FileNotFoundError{Path: path}
	}

	var secretLine string
	for _, line := range strings.Split(string(content), "\n") {
		s := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(s, "# public key: "); ok {
			return strings.TrimSpace(rest), nil
		}
		if secretLine == "" && strings.HasPrefix(s, "AGE-SECRET-KEY-") {
			secretLine = s
		}
	}

	if secretLine == "" {
		return "", &vaulterr.InvalidConfigError{
			Detail: fmt.Sprintf("no secret key found in %s", path),
		}
	}

	identity, err := age.ParseX25519Identity(secretLine)
	if err != nil {
		return "", &vaulterr.InvalidConfigError{
			Detail: fmt.Sprintf("invalid age key in %s: %v", path, err),
		}
	}
	return identity.Recipient().String(), nil
}

// Encrypt encrypts plaintext for the given recipients with ASCII armor.
func (b *AgeBackend) Encrypt(plaintext []byte, recipients []keystore.KeyIdentity) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, &vaulterr.EncryptionError{Reason: "no recipients provided"}
	}

	parsed := make([]age.Recipient, 0, len(recipients))
	for _, ki := range recipients {
		r, err := age.ParseX25519Recipient(ki.PublicKey)
		if err != nil {
			return nil, &vaulterr.EncryptionError{
				Reason: fmt.Sprintf("invalid recipient key '%s': %v", ki.PublicKey, err),
			}
		}
		parsed = append(parsed, r)
	}

	var out bytes.Buffer
	armorWriter := armor.NewWriter(&out)

	w, err := age.Encrypt(armorWriter, parsed...)
	if err != nil {
		return nil, &vaulterr.EncryptionError{Reason: "encryption stream failed: " + err.Error()}
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, &vaulterr.EncryptionError{Reason: "write failed: " + err.Error()}
	}
	if err := w.Close(); err != nil {
		return nil, &vaulterr.EncryptionError{Reason: "encryption finish failed: " + err.Error()}
	}
	if err := armorWriter.Close(); err != nil {
		return nil, &vaulterr.EncryptionError{Reason: "armor finish failed: " + err.Error()}
	}

	return out.Bytes(), nil
}

// Decrypt decrypts armored ciphertext using the local identity file.
func (b *AgeBackend) Decrypt(ciphertext []byte) ([]byte, error) {
	identities, err := b.loadIdentities()
	if err != nil {
		return nil, err
	}

	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(ciphertext)), identities...)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, vaulterr.ErrDecryptionNoKey
		}
		return nil, &vaulterr.EncryptionError{Reason: "invalid encrypted file: " + err.Error()}
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, &vaulterr.EncryptionError{Reason: "read decrypted data failed: " + err.Error()}
	}
	return plaintext, nil
}

// Name implements Backend.
func (b *AgeBackend) Name() string {
	return "age"
}

func (b *AgeBackend) loadIdentities() ([]age.Identity, error) {
	f, err := os.Open(b.IdentityPath)
	if err != nil {
		return nil, &vaulterr.EncryptionError{
			Reason: fmt.Sprintf("failed to read identity file '%s': %v", b.IdentityPath, err),
		}
	}
	defer f.Close()

	identities, err := age.ParseIdentities(f)
	if err != nil {
		return nil, vaulterr.ErrDecryptionNoKey
	}
	return identities, nil
}
