package cipher

import (
	"bytes"
	"os/exec"

	"github.com/SoftDryzz/vaultic/internal/keystore"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// GpgBackend shells out to the system gpg binary. Intended for teams
// that already run GPG infrastructure.
type GpgBackend struct {
	// GpgPath is the gpg binary to invoke (default "gpg").
	GpgPath string
}

// NewGpgBackend creates a backend using the default gpg binary.
func NewGpgBackend() *GpgBackend {
	return &GpgBackend{GpgPath: "gpg"}
}

// IsAvailable reports whether gpg can be executed.
func (b *GpgBackend) IsAvailable() bool {
	return exec.Command(b.GpgPath, "--version").Run() == nil
}

// Encrypt pipes plaintext through gpg --encrypt for every recipient.
func (b *GpgBackend) Encrypt(plaintext []byte, recipients []keystore.KeyIdentity) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, &vaulterr.EncryptionError{Reason: "no recipients provided"}
	}

	args := []string{"--encrypt", "--armor", "--batch", "--yes", "--trust-model", "always"}
	for _, ki := range recipients {
		args = append(args, "--recipient", ki.PublicKey)
	}

	return b.run(args, plaintext)
}

// Decrypt pipes ciphertext through gpg --decrypt. Any failure maps to
// ErrDecryptionNoKey since gpg does not distinguish causes usefully.
func (b *GpgBackend) Decrypt(ciphertext []byte) ([]byte, error) {
	out, err := b.run([]string{"--decrypt", "--batch", "--yes"}, ciphertext)
	if err != nil {
		return nil, vaulterr.ErrDecryptionNoKey
	}
	return out, nil
}

// Name implements Backend.
func (b *GpgBackend) Name() string {
	return "gpg"
}

func (b *GpgBackend) run(args []string, stdin []byte) ([]byte, error) {
	cmd := exec.Command(b.GpgPath, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, &vaulterr.EncryptionError{Reason: "gpg exited with error: " + stderr.String()}
		}
		return nil, &vaulterr.EncryptionError{Reason: "failed to run gpg: " + err.Error()}
	}

	return stdout.Bytes(), nil
}
