package cipher

import (
	"strings"

	"github.com/SoftDryzz/vaultic/internal/keystore"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
	"github.com/SoftDryzz/vaultic/pkg/vault"
)

// VaultBackend encrypts through Vault's Transit engine. The key lives
// server-side; recipient access is governed by Vault policy on the
// transit key rather than by local key material.
type VaultBackend struct {
	client       *vault.Client
	transitMount string
	transitKey   string
}

// NewVaultBackend creates a transit-backed cipher.
func NewVaultBackend(client *vault.Client, transitMount, transitKey string) *VaultBackend {
	if transitMount == "" {
		transitMount = "transit"
	}
	return &VaultBackend{
		client:       client,
		transitMount: transitMount,
		transitKey:   transitKey,
	}
}

// Encrypt encrypts plaintext with the transit key. The recipient set
// is not sent to Vault, but an empty set still fails so all backends
// share the same contract.
func (b *VaultBackend) Encrypt(plaintext []byte, recipients []keystore.KeyIdentity) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, &vaulterr.EncryptionError{Reason: "no recipients provided"}
	}

	ciphertext, err := b.client.TransitEncrypt(b.transitMount, b.transitKey, plaintext)
	if err != nil {
		return nil, &vaulterr.EncryptionError{Reason: err.Error()}
	}
	return []byte(ciphertext + "\n"), nil
}

// Decrypt decrypts a transit ciphertext ("vault:v1:...").
func (b *VaultBackend) Decrypt(ciphertext []byte) ([]byte, error) {
	ct := strings.TrimSpace(string(ciphertext))
	if !strings.HasPrefix(ct, "vault:v") {
		return nil, &vaulterr.EncryptionError{Reason: "not a vault transit ciphertext"}
	}

	plaintext, err := b.client.TransitDecrypt(b.transitMount, b.transitKey, ct)
	if err != nil {
		// A denied or unknown-key decrypt means this identity cannot
		// open the file; treat it like any other missing-key case.
		return nil, vaulterr.ErrDecryptionNoKey
	}
	return plaintext, nil
}

// Name implements Backend.
func (b *VaultBackend) Name() string {
	return "vault"
}
