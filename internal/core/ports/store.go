package ports

import "go.trai.ch/ngen/internal/core/domain"

// StateStore defines the interface for persisting the generator state of a build directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// Get retrieves the state stored in buildDir.
	// Returns nil, nil if not found.
	Get(buildDir string) (*domain.GeneratorState, error)

	// Put stores the state in buildDir.
	Put(buildDir string, state domain.GeneratorState) error

	// Path returns the location of the state file for buildDir.
	Path(buildDir string) string
}
