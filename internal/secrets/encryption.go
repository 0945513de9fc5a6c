// Package secrets holds the services that operate on secret state:
// encryption orchestration, diffing, template checking, and template
// discovery.
package secrets

import (
	"os"
	"path/filepath"

	"github.com/SoftDryzz/vaultic/internal/cipher"
	"github.com/SoftDryzz/vaultic/internal/keystore"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// EncryptionService combines a cipher backend with the recipient store
// for file and in-memory encrypt/decrypt operations.
type EncryptionService struct {
	Cipher   cipher.Backend
	KeyStore *keystore.FileStore
}

// EncryptFile reads source, encrypts it for all recipients, and writes
// the ciphertext to dest (overwriting an existing file).
func (s *EncryptionService) EncryptFile(source, dest string) error {
	plaintext, err := os.ReadFile(source)
	if err != nil {
		return &vaulterr.FileNotFoundError{Path: source}
	}
	return s.EncryptBytes(plaintext, dest)
}

// EncryptBytes encrypts in-memory plaintext for all recipients and
// writes the ciphertext to dest. Used by re-encryption so plaintext
// never touches the filesystem.
func (s *EncryptionService) EncryptBytes(plaintext []byte, dest string) error {
	recipients, err := s.KeyStore.List()
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return &vaulterr.EncryptionError{
			Reason: "no recipients configured. Run 'vaultic keys add' first.",
		}
	}

	ciphertext, err := s.Cipher.Encrypt(plaintext, recipients)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return writeAtomic(dest, ciphertext, 0o644)
}

// DecryptFile decrypts source and writes the plaintext to dest.
func (s *EncryptionService) DecryptFile(source, dest string) error {
	plaintext, err := s.DecryptToBytes(source)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, plaintext, 0o600)
}

// DecryptToBytes decrypts source in memory and returns the plaintext.
func (s *EncryptionService) DecryptToBytes(source string) ([]byte, error) {
	ciphertext, err := os.ReadFile(source)
	if err != nil {
		return nil, &vaulterr.FileNotFoundError{Path: source}
	}
	return s.Cipher.Decrypt(ciphertext)
}

// writeAtomic writes via a temp file in the same directory plus rename,
// so an interrupted write leaves any previous file intact.
func writeAtomic(dest string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, dest)
}
