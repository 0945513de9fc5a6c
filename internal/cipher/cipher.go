// Package cipher defines the encryption backend seam and its
// implementations (age, gpg, vault transit).
//
// The services layer depends only on the Backend interface, never on a
// concrete implementation.
package cipher

import "github.com/SoftDryzz/vaultic/internal/keystore"

// Backend encrypts for a set of recipients and decrypts with the local
// identity.
type Backend interface {
	// Encrypt encrypts plaintext for the given recipients. Fails when
	// recipients is empty or any recipient string is malformed.
	Encrypt(plaintext []byte, recipients []keystore.KeyIdentity) ([]byte, error)

	// Decrypt decrypts ciphertext using the locally held key material.
	// Returns vaulterr.ErrDecryptionNoKey when no owned identity can
	// open the ciphertext.
	Decrypt(ciphertext []byte) ([]byte, error)

	// Name is the backend's short name for logging ("age", "gpg", ...).
	Name() string
}
