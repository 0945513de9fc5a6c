package secrets

import (
	"sort"

	"github.com/SoftDryzz/vaultic/internal/dotenv"
)

// CheckResult reports how a local env file compares to its template.
type CheckResult struct {
	// Missing are template keys absent from the local file.
	Missing []string
	// Extra are local keys absent from the template.
	Extra []string
	// EmptyValues are local keys whose value is the empty string.
	EmptyValues []string
}

// IsOK reports whether the local file is fully in sync.
func (r *CheckResult) IsOK() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0 && len(r.EmptyValues) == 0
}

// IssueCount is the total number of findings.
func (r *CheckResult) IssueCount() int {
	return len(r.Missing) + len(r.Extra) + len(r.EmptyValues)
}

// Check compares a local file against a template. All result slices
// are sorted lexicographically.
func Check(local, template *dotenv.SecretFile) *CheckResult {
	localKeys := map[string]bool{}
	for _, k := range local.Keys() {
		localKeys[k] = true
	}
	templateKeys := map[string]bool{}
	for _, k := range template.Keys() {
		templateKeys[k] = true
	}

	result := &CheckResult{}

	for k := range templateKeys {
		if !localKeys[k] {
			result.Missing = append(result.Missing, k)
		}
	}
	for k := range localKeys {
		if !templateKeys[k] {
			result.Extra = append(result.Extra, k)
		}
	}
	for _, e := range local.Entries() {
		if e.Value == "" {
			result.EmptyValues = append(result.EmptyValues, e.Key)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.Extra)
	sort.Strings(result.EmptyValues)

	return result
}
