package updater

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

func TestSha256HexKnownValue(t *testing.T) {
	assert.Equal(t,
		"b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		Sha256Hex([]byte("hello world")))
}

func TestVerifySha256PassesWithMatchingHash(t *testing.T) {
	data := []byte("binary content here")
	checksums := fmt.Sprintf("%s  vaultic-linux-amd64\nabc123  other-file", Sha256Hex(data))

	assert.NoError(t, VerifySha256(data, "vaultic-linux-amd64", checksums))
}

func TestVerifySha256FailsWithWrongHash(t *testing.T) {
	data := []byte("binary content here")
	checksums := "0000000000000000000000000000000000000000000000000000000000000000  vaultic-linux-amd64"

	err := VerifySha256(data, "vaultic-linux-amd64", checksums)

	var vErr *vaulterr.UpdateVerificationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Reason, "SHA256 mismatch")
}

func TestVerifySha256FailsWhenAssetMissing(t *testing.T) {
	err := VerifySha256([]byte("binary content"), "vaultic-linux-amd64", "abc123  other-file")

	var vErr *vaulterr.UpdateVerificationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Reason, "not found")
}

func TestVerifySha256TamperedDataBreaks(t *testing.T) {
	data := []byte("original payload")
	checksums := fmt.Sprintf("%s  vaultic-linux-amd64", Sha256Hex(data))

	require.NoError(t, VerifySha256(data, "vaultic-linux-amd64", checksums))

	tampered := append([]byte{}, data...)
	tampered[0] ^= 0x01
	assert.Error(t, VerifySha256(tampered, "vaultic-linux-amd64", checksums))
}

func TestVerifySha256ToleratesBlankLines(t *testing.T) {
	data := []byte("payload")
	checksums := fmt.Sprintf("\n%s  vaultic-darwin-arm64\n\n", Sha256Hex(data))

	assert.NoError(t, VerifySha256(data, "vaultic-darwin-arm64", checksums))
}

func TestVerifySha256ExactNameMatch(t *testing.T) {
	data := []byte("payload")
	checksums := fmt.Sprintf("%s  vaultic-linux-amd64.sig", Sha256Hex(data))

	// "vaultic-linux-amd64" must not match the ".sig" entry.
	assert.Error(t, VerifySha256(data, "vaultic-linux-amd64", checksums))
}

func TestVerifySignatureRejectsGarbage(t *testing.T) {
	err := VerifySignature([]byte("checksums"), []byte("not a minisig"))

	var vErr *vaulterr.UpdateVerificationError
	assert.True(t, errors.As(err, &vErr))
}

func TestPlatformAssetShape(t *testing.T) {
	name, err := PlatformAsset()
	if err != nil {
		var upErr *vaulterr.UnsupportedPlatformError
		assert.True(t, errors.As(err, &upErr))
		return
	}
	assert.Contains(t, name, "vaultic-")
}

func TestNewerThanCurrent(t *testing.T) {
	assert.Equal(t, "99.0.0", newerThanCurrent("99.0.0"))
	assert.Equal(t, "", newerThanCurrent(Version))
	assert.Equal(t, "", newerThanCurrent("0.0.1"))
	assert.Equal(t, "", newerThanCurrent("not-a-version"))
	assert.Equal(t, "", newerThanCurrent(""))
}

func TestStripV(t *testing.T) {
	assert.Equal(t, "1.2.0", stripV("v1.2.0"))
	assert.Equal(t, "1.2.0", stripV("1.2.0"))
	assert.Equal(t, "", stripV(""))
}
