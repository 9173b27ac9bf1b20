package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// GeneratorState is persisted in the build directory by every successful run.
// It lets the regeneration edge re-run the generator without the original arguments.
// It is an input of the generated graph, so it holds no per-run values.
type GeneratorState struct {
	ProjectFile    string   `json:"project_file,omitzero"`
	SourceDir      string   `json:"source_dir,omitzero"`
	BinaryDir      string   `json:"binary_dir,omitzero"`
	Version        string   `json:"version,omitzero"`
	ListFiles      []string `json:"list_files,omitzero"`
	RuleConflicts  string   `json:"rule_conflicts,omitzero"`
	UtilitiesInAll bool     `json:"utilities_in_all,omitzero"`
}

// Fingerprint returns a digest that changes whenever any field changes.
func (s GeneratorState) Fingerprint() string {
	var b strings.Builder
	for _, field := range []string{
		s.ProjectFile, s.SourceDir, s.BinaryDir, s.Version,
		s.RuleConflicts, strconv.FormatBool(s.UtilitiesInAll),
	} {
		b.WriteString(strconv.Quote(field))
		b.WriteByte(';')
	}
	for _, f := range s.ListFiles {
		b.WriteString(strconv.Quote(f))
		b.WriteByte(',')
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}
