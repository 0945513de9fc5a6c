// Package keystore persists the set of authorized recipients (public
// keys) in a plain text file, one key per line with an optional
// "# label" suffix.
//
// Example recipients.txt:
//
//	# Added 2026-02-20
//	age1ql3z7hjy54pw3hyww5ayyfg7zqgvc7w3j2elw8zmrj2kg5sfn9aqmcac8p
//	age1x9ynm5k7wz6v3mj8d4qr5tl2hj9nc0kp6w3f7s2y8x4u1v0n3m5q7f2p # dev2
package keystore

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// KeyIdentity is an authorized recipient.
type KeyIdentity struct {
	PublicKey string
	Label     string
	AddedAt   *time.Time
}

// String renders the identity for display.
func (k KeyIdentity) String() string {
	if k.Label != "" {
		return k.PublicKey + " (" + k.Label + ")"
	}
	return k.PublicKey
}

// FileStore is a key store backed by a text file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file this store reads from.
func (s *FileStore) Path() string {
	return s.path
}

// Add appends a recipient, rejecting duplicates by public key.
func (s *FileStore) Add(identity KeyIdentity) error {
	existing, err := s.List()
	if err != nil {
		return err
	}

	for _, ki := range existing {
		if ki.PublicKey == identity.PublicKey {
			return &vaulterr.KeyExistsError{Identity: identity.PublicKey}
		}
	}

	existing = append(existing, identity)
	return s.write(existing)
}

// List parses all recipients from the file. A missing file yields an
// empty list, not an error.
func (s *FileStore) List() ([]KeyIdentity, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &vaulterr.FileNotFoundError{Path: s.path}
	}

	var identities []KeyIdentity
	for _, line := range strings.Split(string(content), "\n") {
		if ki, ok := parseLine(line); ok {
			identities = append(identities, ki)
		}
	}
	return identities, nil
}

// Remove deletes a recipient by exact public key match and rewrites
// the file.
func (s *FileStore) Remove(publicKey string) error {
	existing, err := s.List()
	if err != nil {
		return err
	}

	filtered := existing[:0:0]
	found := false
	for _, ki := range existing {
		if ki.PublicKey == publicKey {
			found = true
			continue
		}
		filtered = append(filtered, ki)
	}

	if !found {
		return &vaulterr.KeyNotFoundError{Identity: publicKey}
	}

	return s.write(filtered)
}

// parseLine extracts a key and optional label from one line. Blank
// lines and pure comment lines yield no identity.
func parseLine(line string) (KeyIdentity, bool) {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return KeyIdentity{}, false
	}

	key := trimmed
	label := ""
	if idx := strings.Index(trimmed, "#"); idx >= 0 {
		key = strings.TrimSpace(trimmed[:idx])
		label = strings.TrimSpace(trimmed[idx+1:])
	}

	if key == "" {
		return KeyIdentity{}, false
	}

	return KeyIdentity{PublicKey: key, Label: label}, true
}

// write serializes all identities back to the file, rename-over-temp
// so an interrupted write leaves the old file intact.
func (s *FileStore) write(identities []KeyIdentity) error {
	var b strings.Builder
	for _, ki := range identities {
		b.WriteString(ki.PublicKey)
		if ki.Label != "" {
			b.WriteString(" # ")
			b.WriteString(ki.Label)
		}
		b.WriteByte('\n')
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".recipients-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.path)
}
