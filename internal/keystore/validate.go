package keystore

import (
	"fmt"

	"filippo.io/age"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// ValidateRecipientKey checks that a string is a plausible recipient:
// an age public key, a GPG hex fingerprint (16+ chars), or a GPG
// email identifier.
func ValidateRecipientKey(identity string) error {
	switch {
	case len(identity) >= 4 && identity[:4] == "age1":
		if _, err := age.ParseX25519Recipient(identity); err != nil {
			return &vaulterr.InvalidConfigError{
				Detail: fmt.Sprintf(
					"invalid age public key: %v\n\n  A valid age public key starts with 'age1' and is 62 characters long.\n  Example: age1ql3z7hjy54pw3hyww5ayyfg7zqgvc7w3j2elw8zmrj2kg5sfn9aqmcac8p",
					err,
				),
			}
		}
	case containsAt(identity):
		// GPG email identifier, accepted as-is.
	case len(identity) >= 16 && isHex(identity):
		// GPG hex fingerprint, accepted as-is.
	default:
		return &vaulterr.InvalidConfigError{
			Detail: fmt.Sprintf(
				"unrecognized key format: '%s'\n\n  Expected one of:\n  -> age public key (starts with 'age1')\n  -> GPG fingerprint (hex, 16+ characters)\n  -> GPG email identifier (contains '@')",
				identity,
			),
		}
	}
	return nil
}

func containsAt(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '@' {
			return true
		}
	}
	return false
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
