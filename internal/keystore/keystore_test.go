package keystore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "recipients.txt"))
}

func TestListMissingFileReturnsEmpty(t *testing.T) {
	store := tempStore(t)
	keys, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestAddAndList(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Add(KeyIdentity{PublicKey: "age1testkeyabc"}))

	keys, err := store.List()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "age1testkeyabc", keys[0].PublicKey)
}

func TestAddWithLabel(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Add(KeyIdentity{PublicKey: "age1testkey123", Label: "cristo"}))

	keys, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, "cristo", keys[0].Label)

	// Label survives the on-disk round trip verbatim.
	content, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "age1testkey123 # cristo\n", string(content))
}

func TestAddDuplicateFails(t *testing.T) {
	store := tempStore(t)
	key := KeyIdentity{PublicKey: "age1dup"}

	require.NoError(t, store.Add(key))
	err := store.Add(key)

	var existsErr *vaulterr.KeyExistsError
	require.True(t, errors.As(err, &existsErr))
	assert.Equal(t, "age1dup", existsErr.Identity)

	// Still exactly one entry.
	keys, err := store.List()
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestRemoveExistingKey(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Add(KeyIdentity{PublicKey: "age1one"}))
	require.NoError(t, store.Add(KeyIdentity{PublicKey: "age1two"}))

	require.NoError(t, store.Remove("age1one"))

	keys, err := store.List()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "age1two", keys[0].PublicKey)
}

func TestRemoveNonexistentFails(t *testing.T) {
	store := tempStore(t)
	err := store.Remove("age1doesnotexist")

	var nfErr *vaulterr.KeyNotFoundError
	assert.True(t, errors.As(err, &nfErr))
}

func TestRemoveMatchesKeyNotLabel(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Add(KeyIdentity{PublicKey: "age1keeper", Label: "age1victim"}))
	require.NoError(t, store.Add(KeyIdentity{PublicKey: "age1victim"}))

	require.NoError(t, store.Remove("age1victim"))

	keys, err := store.List()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "age1keeper", keys[0].PublicKey)
	assert.Equal(t, "age1victim", keys[0].Label)
}

func TestListSkipsCommentsAndBlanks(t *testing.T) {
	store := tempStore(t)
	content := "# Added 2026-02-20\n\nage1abc123\nage1def456 # dev-team\n   \n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	keys, err := store.List()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "age1abc123", keys[0].PublicKey)
	assert.Equal(t, "age1def456", keys[1].PublicKey)
	assert.Equal(t, "dev-team", keys[1].Label)
}

func TestFileEndsWithSingleNewline(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Add(KeyIdentity{PublicKey: "age1a"}))
	require.NoError(t, store.Add(KeyIdentity{PublicKey: "age1b"}))

	content, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(content), "age1b\n"))
	assert.False(t, strings.HasSuffix(string(content), "\n\n"))
}

func TestOrderPreserved(t *testing.T) {
	store := tempStore(t)
	for _, pk := range []string{"age1c", "age1a", "age1b"} {
		require.NoError(t, store.Add(KeyIdentity{PublicKey: pk}))
	}

	keys, err := store.List()
	require.NoError(t, err)
	var got []string
	for _, ki := range keys {
		got = append(got, ki.PublicKey)
	}
	assert.Equal(t, []string{"age1c", "age1a", "age1b"}, got)
}

func TestValidateRecipientKey(t *testing.T) {
	assert.NoError(t, ValidateRecipientKey("user@example.com"))
	assert.NoError(t, ValidateRecipientKey("ABCDEF1234567890"))

	assert.Error(t, ValidateRecipientKey("age1invalidkey"))
	assert.Error(t, ValidateRecipientKey("ABCDEF12345"))
	assert.Error(t, ValidateRecipientKey("not-a-key"))
	assert.Error(t, ValidateRecipientKey(""))
}
