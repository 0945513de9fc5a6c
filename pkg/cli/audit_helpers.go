package cli

import (
	"os/exec"
	"strings"
	"time"

	"github.com/SoftDryzz/vaultic/internal/audit"
	"github.com/SoftDryzz/vaultic/internal/updater"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

// gitAuthor reads the committer identity from git config. Returns
// ("unknown", "") when git is unavailable.
func gitAuthor() (string, string) {
	name := gitConfig("user.name")
	if name == "" {
		name = "unknown"
	}
	return name, gitConfig("user.email")
}

func gitConfig(key string) string {
	out, err := exec.Command("git", "config", key).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// logAudit records an audit event. Failures downgrade to a warning so
// a broken audit log never blocks the operation itself.
func logAudit(action audit.Action, files []string, detail string) {
	logAuditWithHash(action, files, detail, "")
}

// logAuditWithHash records an audit event with an optional state hash
// of the resulting encrypted artifact.
func logAuditWithHash(action audit.Action, files []string, detail, stateHash string) {
	cfg, err := config.Load(vaulticDir)

	logFile := "audit.log"
	if err == nil {
		if !cfg.AuditEnabled() {
			return
		}
		logFile = cfg.AuditLogFile()
	}

	logger := audit.NewLogger(vaulticDir, logFile)
	author, email := gitAuthor()

	entry := audit.Entry{
		Timestamp: time.Now().UTC(),
		Author:    author,
		Email:     email,
		Action:    action,
		Files:     files,
		Detail:    detail,
		StateHash: stateHash,
	}

	if err := logger.LogEvent(entry); err != nil {
		warning("could not write audit log: " + err.Error())
	}
}

// stateHashOf computes the SHA-256 of a written artifact for the audit
// trail. Returns "" when the file cannot be read.
func stateHashOf(path string) string {
	data, err := readFile(path)
	if err != nil {
		return ""
	}
	return updater.Sha256Hex(data)
}
