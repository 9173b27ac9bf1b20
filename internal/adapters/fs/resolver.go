package fs

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// globMeta are the characters that turn a source entry into a pattern.
const globMeta = "*?[{"

// Resolver implements the InputResolver interface using doublestar globs.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs expands patterns relative to root. Results keep the order of
// the patterns, matches of one pattern are sorted, and duplicates are dropped.
// Relative patterns yield paths relative to root; absolute patterns yield
// absolute paths.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	seen := make(map[string]bool, len(inputs))
	result := make([]string, 0, len(inputs))
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	for _, input := range inputs {
		pattern := filepath.ToSlash(input)
		if !strings.ContainsAny(pattern, globMeta) {
			add(path.Clean(pattern))
			continue
		}

		matches, err := r.glob(pattern, root)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}

	return result, nil
}

func (r *Resolver) glob(pattern, root string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, zerr.With(zerr.Wrap(doublestar.ErrBadPattern, "failed to glob path"), "pattern", pattern)
	}

	base, rel := root, pattern
	absolute := path.IsAbs(pattern)
	if absolute {
		base, rel = doublestar.SplitPattern(pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(filepath.FromSlash(base)), rel, doublestar.WithFilesOnly())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "pattern", pattern)
	}

	if absolute {
		for i, m := range matches {
			matches[i] = path.Join(base, m)
		}
	}
	slices.Sort(matches)
	return matches, nil
}
