package secrets

import (
	"sort"

	"github.com/SoftDryzz/vaultic/internal/dotenv"
)

// DiffKind classifies a single variable difference.
type DiffKind int

const (
	// DiffAdded means the key exists only on the right side.
	DiffAdded DiffKind = iota
	// DiffRemoved means the key exists only on the left side.
	DiffRemoved
	// DiffModified means both sides have the key with different values.
	DiffModified
)

// DiffEntry is one entry in a diff comparison.
type DiffEntry struct {
	Key      string
	Kind     DiffKind
	OldValue string // set when Kind == DiffModified
	NewValue string // set when Kind == DiffModified
}

// DiffResult is the comparison of two secret files or environments.
type DiffResult struct {
	LeftName  string
	RightName string
	Entries   []DiffEntry
}

// IsEmpty reports whether there are no differences.
func (r *DiffResult) IsEmpty() bool {
	return len(r.Entries) == 0
}

// Counts returns the number of added, removed, and modified entries.
func (r *DiffResult) Counts() (added, removed, modified int) {
	for _, e := range r.Entries {
		switch e.Kind {
		case DiffAdded:
			added++
		case DiffRemoved:
			removed++
		case DiffModified:
			modified++
		}
	}
	return
}

// Diff compares two secret files.
//
// Keys only in left are Removed, keys only in right are Added, keys in
// both with different values are Modified, and equal-valued keys are
// omitted. Entries are sorted lexicographically by key.
func Diff(left, right *dotenv.SecretFile, leftName, rightName string) *DiffResult {
	keys := map[string]bool{}
	for _, k := range left.Keys() {
		keys[k] = true
	}
	for _, k := range right.Keys() {
		keys[k] = true
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	result := &DiffResult{LeftName: leftName, RightName: rightName}

	for _, key := range sorted {
		leftVal, inLeft := left.Get(key)
		rightVal, inRight := right.Get(key)

		switch {
		case inLeft && !inRight:
			result.Entries = append(result.Entries, DiffEntry{Key: key, Kind: DiffRemoved})
		case !inLeft && inRight:
			result.Entries = append(result.Entries, DiffEntry{Key: key, Kind: DiffAdded})
		case leftVal != rightVal:
			result.Entries = append(result.Entries, DiffEntry{
				Key:      key,
				Kind:     DiffModified,
				OldValue: leftVal,
				NewValue: rightVal,
			})
		}
	}

	return result
}
