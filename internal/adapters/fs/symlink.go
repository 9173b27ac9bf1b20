package fs

import (
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// SymlinkExecutable points link at realPath.
func SymlinkExecutable(realPath, link string) error {
	return symlink(realPath, link)
}

// SymlinkLibrary creates the versioned library chain link -> soname -> realPath.
// Links that would point at themselves are skipped.
func SymlinkLibrary(realPath, soname, link string) error {
	if err := symlink(realPath, soname); err != nil {
		return err
	}
	return symlink(soname, link)
}

// symlink replaces link with a relative symbolic link to target.
func symlink(target, link string) error {
	if filepath.Clean(target) == filepath.Clean(link) {
		return nil
	}

	dest, err := filepath.Rel(filepath.Dir(link), target)
	if err != nil {
		dest = target
	}

	if err := os.Remove(link); err != nil && !errors.Is(err, os.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove existing link"), "path", link)
	}
	if err := os.Symlink(dest, link); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", link), "target", dest)
	}
	return nil
}
