package updater

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	minisign "github.com/jedisct1/go-minisign"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// minisignPublicKey is the embedded public key that release
// signatures are checked against. The matching secret key lives in CI
// secrets and signs SHA256SUMS.txt on every release.
//
// Replace the placeholder after running:
// minisign -G -p vaultic.pub -s vaultic.key
const minisignPublicKey = "untrusted comment: minisign public key for vaultic\nRWTOPLACEHOLDER_REPLACE_WITH_REAL_KEY_AFTER_GENERATION"

// Sha256Hex computes the lowercase hex SHA-256 digest of data.
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifySha256 checks binaryData against the hash recorded for
// assetName in checksumsContent (SHA256SUMS.txt format:
// "<hex_hash>  <filename>", two spaces between).
func VerifySha256(binaryData []byte, assetName, checksumsContent string) error {
	computed := Sha256Hex(binaryData)

	expected := ""
	for _, line := range strings.Split(checksumsContent, "\n") {
		hash, name, ok := strings.Cut(line, "  ")
		if !ok {
			continue
		}
		if strings.TrimSpace(name) == assetName {
			expected = strings.TrimSpace(hash)
			break
		}
	}

	if expected == "" {
		return &vaulterr.UpdateVerificationError{
			Reason: fmt.Sprintf(
				"asset '%s' not found in SHA256SUMS.txt\n\n  This release may not include a binary for your platform.",
				assetName,
			),
		}
	}

	if computed != expected {
		return &vaulterr.UpdateVerificationError{
			Reason: fmt.Sprintf(
				"SHA256 mismatch\n\n  Downloaded binary hash: %s\n  Expected hash:          %s\n\n  The download may be corrupted or tampered with.",
				computed, expected,
			),
		}
	}

	return nil
}

// VerifySignature checks the minisign signature of SHA256SUMS.txt
// against the embedded public key.
func VerifySignature(checksumsContent, signatureContent []byte) error {
	lines := strings.SplitN(minisignPublicKey, "\n", 2)
	pkLine := lines[len(lines)-1]

	pk, err := minisign.NewPublicKey(pkLine)
	if err != nil {
		return &vaulterr.UpdateVerificationError{
			Reason: "invalid embedded public key: " + err.Error(),
		}
	}

	sig, err := minisign.DecodeSignature(string(signatureContent))
	if err != nil {
		return &vaulterr.UpdateVerificationError{
			Reason: "invalid signature file: " + err.Error(),
		}
	}

	if _, err := pk.Verify(checksumsContent, sig); err != nil {
		return &vaulterr.UpdateVerificationError{
			Reason: fmt.Sprintf(
				"invalid signature\n\n  SHA256SUMS.txt signature does not match the embedded public key.\n  This could indicate the release has been tampered with.\n\n  Error: %v",
				err,
			),
		}
	}

	return nil
}
