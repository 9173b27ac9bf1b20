package fs

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/zerr"
)

const dirPerm = 0o750

var (
	_ ports.FileWriter    = (*Writer)(nil)
	_ ports.GeneratedFile = (*generatedFile)(nil)
)

// Writer stages generated files next to their destination and only replaces
// the destination when the content changed.
type Writer struct {
	hasher ports.Hasher
	logger ports.Logger

	mu   sync.Mutex
	open map[string]bool
}

// NewWriter creates a new Writer.
func NewWriter(hasher ports.Hasher, logger ports.Logger) *Writer {
	return &Writer{
		hasher: hasher,
		logger: logger,
		open:   make(map[string]bool),
	}
}

// Open starts a generated file for path. Opening a path that is still open
// is reported and fails.
func (w *Writer) Open(path string) (ports.GeneratedFile, error) {
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.open[path] {
		err := zerr.With(zerr.Wrap(domain.ErrStreamAlreadyOpen, "open generated file"), "path", path)
		w.logger.Error(err)
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create directory"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create staging file"), "path", path)
	}

	w.open[path] = true
	return &generatedFile{writer: w, path: path, tmp: tmp}, nil
}

func (w *Writer) release(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.open, path)
}

// generatedFile is a single staged output.
type generatedFile struct {
	writer *Writer
	path   string
	tmp    *os.File
	closed bool
}

func (f *generatedFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, zerr.With(zerr.Wrap(domain.ErrStreamNotOpen, "write generated file"), "path", f.path)
	}
	return f.tmp.Write(p)
}

// Commit moves the staged content into place unless the destination already
// holds the same bytes.
func (f *generatedFile) Commit() error {
	if f.closed {
		f.writer.logger.Error(zerr.With(zerr.Wrap(domain.ErrStreamNotOpen, "commit generated file"), "path", f.path))
		return nil
	}
	f.closed = true
	defer f.writer.release(f.path)

	staged := f.tmp.Name()
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(staged)
		return zerr.With(zerr.Wrap(err, "failed to close staging file"), "path", f.path)
	}

	same, err := f.unchanged(staged)
	if err != nil {
		_ = os.Remove(staged)
		return err
	}
	if same {
		f.writer.logger.Debug("unchanged " + f.path)
		return os.Remove(staged)
	}

	if err := os.Rename(staged, f.path); err != nil {
		_ = os.Remove(staged)
		return zerr.With(zerr.Wrap(err, "failed to replace generated file"), "path", f.path)
	}
	// The staged content was written before the commit; anything persisted in
	// between must not look newer than the published file.
	now := time.Now()
	if err := os.Chtimes(f.path, now, now); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stamp generated file"), "path", f.path)
	}
	return nil
}

// Discard drops the staged content and leaves the destination untouched.
func (f *generatedFile) Discard() error {
	if f.closed {
		f.writer.logger.Error(zerr.With(zerr.Wrap(domain.ErrStreamNotOpen, "discard generated file"), "path", f.path))
		return nil
	}
	f.closed = true
	defer f.writer.release(f.path)

	staged := f.tmp.Name()
	closeErr := f.tmp.Close()
	if err := os.Remove(staged); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove staging file"), "path", f.path)
	}
	if closeErr != nil {
		return zerr.With(zerr.Wrap(closeErr, "failed to close staging file"), "path", f.path)
	}
	return nil
}

func (f *generatedFile) unchanged(staged string) (bool, error) {
	existing, err := os.Stat(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to stat generated file"), "path", f.path)
	}
	fresh, err := os.Stat(staged)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to stat staging file"), "path", staged)
	}
	if existing.Size() != fresh.Size() {
		return false, nil
	}

	oldSum, err := f.writer.hasher.HashFile(f.path)
	if err != nil {
		return false, err
	}
	newSum, err := f.writer.hasher.HashFile(staged)
	if err != nil {
		return false, err
	}
	return oldSum == newSum, nil
}
