// Package githook installs and removes the vaultic pre-commit hook
// that blocks plaintext secret files from being committed.
package githook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// hookMarker identifies hooks managed by vaultic.
const hookMarker = "# vaultic-managed-hook"

// preCommitScript scans staged files for .env patterns (excluding
// templates, examples, and encrypted files) and blocks the commit.
const preCommitScript = `#!/bin/sh
# vaultic-managed-hook
# Vaultic pre-commit hook — blocks plaintext secrets from being committed.
# Installed by: vaultic hook install
# Remove with:  vaultic hook uninstall

staged=$(git diff --cached --name-only)

blocked=""
for file in $staged; do
    case "$file" in
        .env|.env.*)
            case "$file" in
                *.template|*.example) ;;
                *.enc) ;;
                *) blocked="$blocked $file" ;;
            esac
            ;;
    esac
done

if [ -n "$blocked" ]; then
    echo ""
    echo "  STOP — Vaultic pre-commit hook"
    echo ""
    echo "  Plaintext secret files staged for commit:"
    for f in $blocked; do
        echo "    - $f"
    done
    echo ""
    echo "  These files contain sensitive data and should NOT be committed."
    echo ""
    echo "  Solutions:"
    echo "    -> Encrypt first: vaultic encrypt"
    echo "    -> Or unstage:    git reset HEAD $blocked"
    echo "    -> Skip check:    git commit --no-verify (NOT recommended)"
    echo ""
    exit 1
fi
`

// Install writes the pre-commit hook under gitDir. Refuses to
// overwrite a hook that vaultic did not install.
func Install(gitDir string) error {
	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return &vaulterr.HookError{Detail: "cannot create hooks directory: " + err.Error()}
	}

	hookPath := filepath.Join(hooksDir, "pre-commit")

	if content, err := os.ReadFile(hookPath); err == nil {
		if !strings.Contains(string(content), hookMarker) {
			return &vaulterr.HookError{
				Detail: fmt.Sprintf(
					"a pre-commit hook already exists at %s\n\n  It was not installed by vaultic and will not be overwritten.\n  To replace it, remove the existing hook first:\n  rm %s",
					hookPath, hookPath,
				),
			}
		}
	}

	if err := os.WriteFile(hookPath, []byte(preCommitScript), 0o755); err != nil {
		return &vaulterr.HookError{Detail: "cannot write hook: " + err.Error()}
	}
	return nil
}

// Uninstall removes the hook, but only when vaultic installed it.
func Uninstall(gitDir string) error {
	hookPath := filepath.Join(gitDir, "hooks", "pre-commit")

	content, err := os.ReadFile(hookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &vaulterr.HookError{Detail: "no pre-commit hook found. Nothing to uninstall."}
		}
		return &vaulterr.HookError{Detail: "cannot read hook: " + err.Error()}
	}

	if !strings.Contains(string(content), hookMarker) {
		return &vaulterr.HookError{
			Detail: "the pre-commit hook was not installed by vaultic. Not removing it.",
		}
	}

	if err := os.Remove(hookPath); err != nil {
		return &vaulterr.HookError{Detail: "cannot remove hook: " + err.Error()}
	}
	return nil
}
