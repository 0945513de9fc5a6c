package dotenv

import (
	"fmt"
	"strings"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// Parse converts raw .env content into a SecretFile.
//
// Supported syntax:
//   - KEY=value entries, with whitespace trimmed around key and value
//   - quoted values (KEY="value" and KEY='value'), quotes stripped
//   - comment lines starting with #
//   - blank lines
//
// Values may contain '='; only the first occurrence splits key from
// value. A non-blank, non-comment line without '=' is a parse error.
func Parse(content string) (*SecretFile, error) {
	file := &SecretFile{}

	for idx, raw := range splitLines(content) {
		lineNumber := idx + 1
		line, err := parseLine(raw, lineNumber)
		if err != nil {
			return nil, err
		}
		file.Lines = append(file.Lines, line)
	}

	return file, nil
}

// Serialize writes a SecretFile back to .env text.
//
// Entries are emitted as key=value verbatim, comments unchanged, and
// blanks as empty lines. No trailing newline is appended, so
// Serialize(Parse(s)) == s holds when s has no trailing newline, its
// blank lines are empty, and its entries have no whitespace around the
// key or value and no surrounding quotes; Parse trims and strips those.
func Serialize(file *SecretFile) string {
	var b strings.Builder
	for i, line := range file.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch line.Kind {
		case KindEntry:
			b.WriteString(line.Entry.Key)
			b.WriteByte('=')
			b.WriteString(line.Entry.Value)
		case KindComment:
			b.WriteString(line.Comment)
		case KindBlank:
		}
	}
	return b.String()
}

func parseLine(raw string, lineNumber int) (Line, error) {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return BlankLine(), nil
	}

	if strings.HasPrefix(trimmed, "#") {
		return CommentLine(raw), nil
	}

	eq := strings.Index(trimmed, "=")
	if eq < 0 {
		return Line{}, &vaulterr.ParseError{
			File:   ".env",
			Detail: fmt.Sprintf("line %d: expected KEY=value, got: %s", lineNumber, trimmed),
		}
	}

	key := strings.TrimSpace(trimmed[:eq])
	if key == "" {
		return Line{}, &vaulterr.ParseError{
			File:   ".env",
			Detail: fmt.Sprintf("line %d: empty key", lineNumber),
		}
	}

	value := stripQuotes(strings.TrimSpace(trimmed[eq+1:]))

	return EntryLine(Entry{
		Key:        key,
		Value:      value,
		LineNumber: lineNumber,
	}), nil
}

// stripQuotes removes matching surrounding quotes (single or double).
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// splitLines splits on '\n' like the line iterator used elsewhere in
// the codebase: a trailing newline does not produce a final empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
