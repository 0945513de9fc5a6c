// Package audit records every state-changing command as one JSON
// object per line in an append-only log file.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// Action is the kind of operation an entry records.
type Action string

const (
	ActionInit          Action = "init"
	ActionEncrypt       Action = "encrypt"
	ActionDecrypt       Action = "decrypt"
	ActionKeyAdd        Action = "key_add"
	ActionKeyRemove     Action = "key_remove"
	ActionCheck         Action = "check"
	ActionDiff          Action = "diff"
	ActionResolve       Action = "resolve"
	ActionHookInstall   Action = "hook_install"
	ActionHookUninstall Action = "hook_uninstall"
)

// Entry is a single audit record. Records are immutable once written.
type Entry struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Author    string    `json:"author" yaml:"author"`
	Email     string    `json:"email,omitempty" yaml:"email,omitempty"`
	Action    Action    `json:"action" yaml:"action"`
	Files     []string  `json:"files" yaml:"files"`
	Detail    string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	StateHash string    `json:"state_hash,omitempty" yaml:"state_hash,omitempty"`
}

// Logger appends entries to and queries a JSON-lines log file.
type Logger struct {
	logPath string
}

// NewLogger creates a logger writing to {vaulticDir}/{logFile}.
func NewLogger(vaulticDir, logFile string) *Logger {
	return &Logger{logPath: filepath.Join(vaulticDir, logFile)}
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.logPath
}

// LogEvent appends one entry. The write is flushed before returning.
func (l *Logger) LogEvent(entry Entry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return &vaulterr.AuditError{Detail: "failed to serialize audit entry: " + err.Error()}
	}

	if err := os.MkdirAll(filepath.Dir(l.logPath), 0o755); err != nil {
		return &vaulterr.AuditError{Detail: "cannot create audit log directory: " + err.Error()}
	}

	f, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &vaulterr.AuditError{
			Detail: fmt.Sprintf("cannot open audit log at %s: %v", l.logPath, err),
		}
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return &vaulterr.AuditError{Detail: "failed to write audit entry: " + err.Error()}
	}
	return f.Sync()
}

// Query streams the log and returns entries matching the filters, in
// write order.
//
// author matches case-insensitively as a substring of the author name
// or email. since keeps entries with timestamp >= since. A malformed
// line is an error, not a skip: only vaultic writes this file, so
// corruption should surface.
func (l *Logger) Query(author string, since *time.Time) ([]Entry, error) {
	f, err := os.Open(l.logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &vaulterr.AuditError{Detail: "cannot read audit log: " + err.Error()}
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, &vaulterr.AuditError{
				Detail: fmt.Sprintf("malformed audit entry at line %d: %v", lineNum, err),
			}
		}

		if author != "" && !matchesAuthor(entry, author) {
			continue
		}
		if since != nil && entry.Timestamp.Before(*since) {
			continue
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, &vaulterr.AuditError{Detail: "error reading audit log: " + err.Error()}
	}

	return entries, nil
}

func matchesAuthor(entry Entry, filter string) bool {
	needle := strings.ToLower(filter)
	if strings.Contains(strings.ToLower(entry.Author), needle) {
		return true
	}
	return entry.Email != "" && strings.Contains(strings.ToLower(entry.Email), needle)
}
