// Package resolver resolves environment inheritance (base -> dev/prod).
//
// Given the environment definitions in config and a set of parsed env
// files, it builds the full inheritance chain and merges layers from
// root to leaf. Overlay entries always take precedence.
package resolver

import (
	"strings"

	"github.com/SoftDryzz/vaultic/internal/dotenv"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

// Environment is a resolved view of one environment after applying
// inheritance.
type Environment struct {
	Name     string
	Resolved *dotenv.SecretFile
	Layers   []string // ancestor names, root first
}

// BuildChain walks the inherits links upward from name and returns the
// chain ordered root -> leaf.
//
// Fails with EnvNotFoundError when name or any ancestor is undefined,
// and with CircularInheritanceError when a visited name reappears.
func BuildChain(name string, cfg *config.AppConfig) ([]string, error) {
	var chain []string
	visited := make(map[string]bool)
	current := name

	for {
		if visited[current] {
			chain = append(chain, current)
			cycle := make([]string, len(chain))
			for i, n := range chain {
				cycle[len(chain)-1-i] = n
			}
			return nil, &vaulterr.CircularInheritanceError{
				Chain: strings.Join(cycle, " -> "),
			}
		}

		entry, ok := cfg.Environments[current]
		if !ok {
			return nil, &vaulterr.EnvNotFoundError{
				Name:      current,
				Available: cfg.EnvNames(),
			}
		}

		visited[current] = true
		chain = append(chain, current)

		if entry.Inherits == "" {
			break
		}
		current = entry.Inherits
	}

	// Reverse so root is first, leaf last.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Resolve builds the chain for name and merges each layer in order.
// Layers without a parsed file are tolerated: an environment may exist
// only to define inheritance.
func Resolve(name string, cfg *config.AppConfig, files map[string]*dotenv.SecretFile) (*Environment, error) {
	chain, err := BuildChain(name, cfg)
	if err != nil {
		return nil, err
	}

	merged := &dotenv.SecretFile{}
	for _, layer := range chain {
		if file, ok := files[layer]; ok {
			merged = Merge(merged, file)
		}
	}

	return &Environment{
		Name:     name,
		Resolved: merged,
		Layers:   chain,
	}, nil
}

// Merge applies overlay on top of base.
//
// Entries from overlay replace base entries in place when the key
// exists, and are appended otherwise. Overlay comments and blanks are
// appended after the base lines so provenance stays readable. The
// rightmost write wins per key.
func Merge(base, overlay *dotenv.SecretFile) *dotenv.SecretFile {
	lines := make([]dotenv.Line, len(base.Lines))
	copy(lines, base.Lines)

	keyIndex := make(map[string]int)
	for i, line := range lines {
		if line.Kind == dotenv.KindEntry {
			keyIndex[line.Entry.Key] = i
		}
	}

	for _, line := range overlay.Lines {
		switch line.Kind {
		case dotenv.KindEntry:
			if idx, ok := keyIndex[line.Entry.Key]; ok {
				lines[idx] = line
			} else {
				keyIndex[line.Entry.Key] = len(lines)
				lines = append(lines, line)
			}
		case dotenv.KindComment, dotenv.KindBlank:
			lines = append(lines, line)
		}
	}

	return &dotenv.SecretFile{Lines: lines}
}
