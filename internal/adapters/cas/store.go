// Package cas implements persistence of the generator state of a build directory.
package cas

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/zerr"
)

// StateFileName is the name of the state file inside a build directory.
const StateFileName = "ngen_state.json"

var _ ports.StateStore = (*Store)(nil)

// Store implements ports.StateStore using a JSON file per build directory.
type Store struct {
	mu    sync.RWMutex
	cache map[string]domain.GeneratorState
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{
		cache: make(map[string]domain.GeneratorState),
	}
}

// Path returns the location of the state file for buildDir.
func (s *Store) Path(buildDir string) string {
	return filepath.Join(filepath.Clean(buildDir), StateFileName)
}

// Get retrieves the state stored in buildDir. It returns nil, nil when the
// directory holds no state.
func (s *Store) Get(buildDir string) (*domain.GeneratorState, error) {
	path := s.Path(buildDir)

	s.mu.RLock()
	state, ok := s.cache[path]
	s.mu.RUnlock()
	if ok {
		return &state, nil
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read generator state"), "path", path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to unmarshal generator state"), "path", path)
	}

	s.mu.Lock()
	s.cache[path] = state
	s.mu.Unlock()

	return &state, nil
}

// Put stores the state in buildDir. The file is replaced atomically and only
// when its content changes, so its modification time tracks real changes.
func (s *Store) Put(buildDir string, state domain.GeneratorState) error {
	path := s.Path(buildDir)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal generator state")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		s.remember(path, state)
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for generator state"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+StateFileName+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create generator state"), "path", path)
	}
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.With(zerr.Wrap(err, "failed to write generator state"), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.With(zerr.Wrap(err, "failed to write generator state"), "path", path)
	}

	s.remember(path, state)
	return nil
}

func (s *Store) remember(path string, state domain.GeneratorState) {
	s.mu.Lock()
	s.cache[path] = state
	s.mu.Unlock()
}
