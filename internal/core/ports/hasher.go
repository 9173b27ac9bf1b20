package ports

import "io"

// Hasher defines the interface for computing content hashes.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile computes the hash of the file at path.
	HashFile(path string) (uint64, error)

	// HashReader computes the hash of everything read from r.
	HashReader(r io.Reader) (uint64, error)

	// HashString computes the hash of s.
	HashString(s string) uint64
}
