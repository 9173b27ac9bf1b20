package fs

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes XXHash digests of files and strings.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashFile computes the XXHash of a file's content.
func (h *Hasher) HashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	sum, err := h.HashReader(f)
	if err != nil {
		return 0, zerr.With(err, "path", path)
	}
	return sum, nil
}

// HashReader computes the XXHash of everything read from r.
func (h *Hasher) HashReader(r io.Reader) (uint64, error) {
	digest := xxhash.New()
	if _, err := io.Copy(digest, r); err != nil {
		return 0, zerr.Wrap(err, "failed to hash content")
	}
	return digest.Sum64(), nil
}

// HashString computes the XXHash of s.
func (h *Hasher) HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}
