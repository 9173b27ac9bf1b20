package ports

import "io"

// GeneratedFile is an output stream whose content only reaches its
// destination when committed.
type GeneratedFile interface {
	io.Writer

	// Commit publishes the written content. Unchanged content leaves the destination untouched.
	Commit() error

	// Discard drops the written content.
	Discard() error
}

// FileWriter opens generated files.
//
//go:generate go run go.uber.org/mock/mockgen -source=file_writer.go -destination=mocks/mock_file_writer.go -package=mocks
type FileWriter interface {
	// Open starts a generated file for path.
	Open(path string) (GeneratedFile, error)
}
