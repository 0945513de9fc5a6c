// Package dotenv parses and serializes .env files while preserving
// their exact structure — ordering, comments, and blank lines — so a
// parse/serialize round trip is byte-stable.
package dotenv

// LineKind discriminates the variants of a Line.
type LineKind int

const (
	// KindEntry is a KEY=value line.
	KindEntry LineKind = iota
	// KindComment is a comment line (leading whitespace preserved).
	KindComment
	// KindBlank is an empty or whitespace-only line.
	KindBlank
)

// Entry is a single key-value pair in a secrets file.
type Entry struct {
	Key        string
	Value      string
	Comment    string
	LineNumber int // 1-based line in the source
}

// Line is one line of a secrets file: an entry, a comment, or a blank.
type Line struct {
	Kind    LineKind
	Entry   Entry  // valid when Kind == KindEntry
	Comment string // valid when Kind == KindComment, original text
}

// EntryLine builds an entry line.
func EntryLine(e Entry) Line {
	return Line{Kind: KindEntry, Entry: e}
}

// CommentLine builds a comment line with the original text.
func CommentLine(text string) Line {
	return Line{Kind: KindComment, Comment: text}
}

// BlankLine builds a blank line.
func BlankLine() Line {
	return Line{Kind: KindBlank}
}

// SecretFile is a parsed secrets file (e.g. .env).
type SecretFile struct {
	Lines      []Line
	SourcePath string
}

// Get returns the value for key and whether it is present.
func (f *SecretFile) Get(key string) (string, bool) {
	for _, line := range f.Lines {
		if line.Kind == KindEntry && line.Entry.Key == key {
			return line.Entry.Value, true
		}
	}
	return "", false
}

// Keys returns all entry keys in file order.
func (f *SecretFile) Keys() []string {
	var keys []string
	for _, line := range f.Lines {
		if line.Kind == KindEntry {
			keys = append(keys, line.Entry.Key)
		}
	}
	return keys
}

// Entries returns only the key-value entries, skipping comments and blanks.
func (f *SecretFile) Entries() []Entry {
	var entries []Entry
	for _, line := range f.Lines {
		if line.Kind == KindEntry {
			entries = append(entries, line.Entry)
		}
	}
	return entries
}
