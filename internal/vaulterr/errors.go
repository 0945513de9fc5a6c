// Package vaulterr defines the closed set of domain errors for vaultic.
//
// Every failure surfaced to the user is one of these types so the CLI
// layer can render a consistent, actionable message and tests can match
// on the failure kind with errors.As / errors.Is.
package vaulterr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDecryptionNoKey means no owned identity can open the ciphertext.
// Kept distinct from generic decryption failures so the CLI can point
// the user at key setup instead of a corrupt-file message.
var ErrDecryptionNoKey = errors.New("decryption failed: no matching key found\n\n  Solutions:\n    -> New here? Run 'vaultic keys setup' to generate a key\n    -> Have a key elsewhere? Use --key <path> to point at it\n    -> Lost your key? Ask an admin to re-add you as a recipient and re-encrypt")

// FileNotFoundError reports a required file that is missing.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// EncryptionError covers any encrypt-side failure, including an empty
// recipient set and malformed recipient keys.
type EncryptionError struct {
	Reason string
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("encryption failed: %s", e.Reason)
}

// ParseError reports a dotenv or config parse failure with context.
type ParseError struct {
	File   string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Detail)
}

// EnvNotFoundError reports an unknown environment name, listing what
// the config actually defines.
type EnvNotFoundError struct {
	Name      string
	Available []string
}

func (e *EnvNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("environment '%s' not found\n\n  No environments are defined. Check [environments] in .vaultic/config.toml", e.Name)
	}
	return fmt.Sprintf("environment '%s' not found\n\n  Available environments: %s", e.Name, strings.Join(e.Available, ", "))
}

// CircularInheritanceError reports a cycle in the inherits graph.
type CircularInheritanceError struct {
	Chain string // rendered as "a -> b -> a"
}

func (e *CircularInheritanceError) Error() string {
	return fmt.Sprintf("circular inheritance detected: %s\n\n  Break the cycle by removing one of the 'inherits' links in config.toml", e.Chain)
}

// KeyNotFoundError reports a remove of an unknown recipient.
type KeyNotFoundError struct {
	Identity string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key '%s' not found in recipients\n\n  Run 'vaultic keys list' to see the configured recipients", e.Identity)
}

// KeyExistsError reports an add of an already-present recipient.
type KeyExistsError struct {
	Identity string
}

func (e *KeyExistsError) Error() string {
	return fmt.Sprintf("key '%s' already exists in recipients", e.Identity)
}

// InvalidConfigError is the catch-all for configuration and validation
// violations, including path-safety rejections and unknown ciphers.
type InvalidConfigError struct {
	Detail string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Detail)
}

// AuditError reports an audit log read or write failure.
type AuditError struct {
	Detail string
}

func (e *AuditError) Error() string {
	return fmt.Sprintf("audit log error: %s", e.Detail)
}

// HookError reports a refused git hook operation.
type HookError struct {
	Detail string
}

func (e *HookError) Error() string {
	return fmt.Sprintf("git hook error: %s", e.Detail)
}

// TemplateNotFoundError lists every template path that was probed.
type TemplateNotFoundError struct {
	Searched []string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("no template file found\n\n  Searched:\n    %s\n\n  Create .env.template with the expected variable names, or set\n  'template' under [vaultic] in config.toml", strings.Join(e.Searched, "\n    "))
}

// FormatVersionError reports a config written by a newer vaultic.
type FormatVersionError struct {
	Found     uint32
	Supported uint32
}

func (e *FormatVersionError) Error() string {
	return fmt.Sprintf("config format version %d is newer than this build supports (max %d)\n\n  Run 'vaultic update' to upgrade, or ask your team which version they use", e.Found, e.Supported)
}

// UpdateCheckError reports a failed release lookup.
type UpdateCheckError struct {
	Reason string
}

func (e *UpdateCheckError) Error() string {
	return fmt.Sprintf("update check failed: %s\n\n  Your current installation is untouched.", e.Reason)
}

// UpdateVerificationError reports a failed checksum or signature check.
type UpdateVerificationError struct {
	Reason string
}

func (e *UpdateVerificationError) Error() string {
	return fmt.Sprintf("update verification failed: %s\n\n  The update was NOT installed. Your current installation is untouched.", e.Reason)
}

// UpdateError reports a failure while installing a verified update.
type UpdateError struct {
	Reason string
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update failed: %s", e.Reason)
}

// UnsupportedPlatformError reports a platform with no release binary.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("no pre-built binary for platform %s\n\n  Build from source instead: go install github.com/SoftDryzz/vaultic/cmd/vaultic@latest", e.Platform)
}
