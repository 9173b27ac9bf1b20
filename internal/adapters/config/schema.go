package config

import (
	"gopkg.in/yaml.v3"
)

// Projectfile represents the structure of an ngen.yaml project description.
type Projectfile struct {
	Project   string                  `yaml:"project"`
	Version   string                  `yaml:"version"`
	Includes  []string                `yaml:"includes"`
	Toolchain map[string]*LanguageDTO `yaml:"toolchain"`
	Targets   []*TargetDTO            `yaml:"targets"`
}

// LanguageDTO represents the toolchain settings of one language.
type LanguageDTO struct {
	Extensions          []string `yaml:"extensions"`
	CompileObject       string   `yaml:"compile_object"`
	CreateStaticLibrary string   `yaml:"create_static_library"`
	ArchiveCreate       string   `yaml:"archive_create"`
	ArchiveFinish       string   `yaml:"archive_finish"`
	CreateSharedLibrary string   `yaml:"create_shared_library"`
	LinkExecutable      string   `yaml:"link_executable"`
	Flags               string   `yaml:"flags"`
	SharedFlags         string   `yaml:"shared_flags"`
	LinkFlags           string   `yaml:"link_flags"`
}

// TargetDTO represents a target definition in the project description.
type TargetDTO struct {
	Name           string        `yaml:"name"`
	Kind           string        `yaml:"kind"`
	Sources        []*SourceDTO  `yaml:"sources"`
	CustomCommands []*CommandDTO `yaml:"custom_commands"`
	Depends        []string      `yaml:"depends"`
	Link           []string      `yaml:"link"`
	LinkLanguage   string        `yaml:"link_language"`
	Version        string        `yaml:"version"`
	SOVersion      string        `yaml:"soversion"`
	OutputDir      string        `yaml:"output_dir"`
	ExcludeFromAll bool          `yaml:"exclude_from_all"`
	Defines        []string      `yaml:"defines"`
	CompileFlags   []string      `yaml:"compile_flags"`
	LinkFlags      []string      `yaml:"link_flags"`
	PreBuild       []*CommandDTO `yaml:"pre_build"`
	PreLink        []*CommandDTO `yaml:"pre_link"`
	PostBuild      []*CommandDTO `yaml:"post_build"`
	Echo           string        `yaml:"echo"`
}

// SourceDTO is one entry of a target's source list. It is either a plain
// path (or glob) or a mapping with per-source settings.
type SourceDTO struct {
	Path          string   `yaml:"path"`
	Language      string   `yaml:"language"`
	Generated     bool     `yaml:"generated"`
	ObjectDepends []string `yaml:"object_depends"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (s *SourceDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&s.Path)
	}
	type plain SourceDTO
	return node.Decode((*plain)(s))
}

// CommandDTO represents a custom command.
type CommandDTO struct {
	Outputs    []string `yaml:"outputs"`
	Depends    []string `yaml:"depends"`
	Command    []string `yaml:"command"`
	WorkingDir string   `yaml:"working_dir"`
	Comment    string   `yaml:"comment"`
}
