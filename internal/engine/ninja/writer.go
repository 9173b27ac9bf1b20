// Package ninja serializes rules and build statements into the Ninja manifest syntax.
package ninja

import (
	"io"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	indentWidth = 4
	lineWidth   = 80

	// PhonyRule is the built-in rule that performs no action.
	PhonyRule = "phony"
)

var indent = strings.Repeat(" ", indentWidth)

// Rule is a named command template.
type Rule struct {
	Name        string
	Command     string
	Comment     string
	Description string
	DepFile     string
	Generator   bool
	Restat      bool

	// Vars are additional rule-level bindings, written in key order.
	Vars map[string]string
}

// Build is a build statement.
type Build struct {
	Comment   string
	Rule      string
	Outputs   []string
	Explicit  []string
	Implicit  []string
	OrderOnly []string

	// Vars are edge-local bindings, written in key order.
	Vars map[string]string
}

// Stats counts the statements a Writer emitted.
type Stats struct {
	Rules  int
	Builds int
}

// Writer writes Ninja statements to an output stream.
// Statements failing their structural checks are reported to the logger and
// skipped. Only errors of the underlying stream are returned.
type Writer struct {
	w      io.Writer
	logger ports.Logger
	stats  Stats
}

// NewWriter creates a Writer emitting to w.
func NewWriter(w io.Writer, logger ports.Logger) *Writer {
	return &Writer{w: w, logger: logger}
}

// Stats returns the number of statements written so far.
func (n *Writer) Stats() Stats {
	return n.stats
}

// Rule writes a rule block.
func (n *Writer) Rule(r Rule) error {
	if r.Name == "" {
		n.report("rule has no name", "comment", r.Comment)
		return nil
	}
	if strings.TrimSpace(r.Command) == "" {
		n.report("rule has no command", "rule", r.Name)
		return nil
	}
	if hasNewline(r.Name, r.Command, r.Description, r.DepFile) || varsHaveNewline(r.Vars) {
		n.report("rule contains a line break", "rule", r.Name)
		return nil
	}

	var b strings.Builder
	writeComment(&b, r.Comment)
	b.WriteString("rule ")
	b.WriteString(r.Name)
	b.WriteByte('\n')
	writeAssign(&b, 1, "depfile", r.DepFile)
	writeAssign(&b, 1, "command", r.Command)
	writeAssign(&b, 1, "description", r.Description)
	if r.Restat {
		writeAssign(&b, 1, "restat", "1")
	}
	if r.Generator {
		writeAssign(&b, 1, "generator", "1")
	}
	writeVars(&b, r.Vars)
	b.WriteByte('\n')

	if err := n.write(b.String()); err != nil {
		return err
	}
	n.stats.Rules++
	return nil
}

// Build writes a build statement. Dependency lists may all be empty.
func (n *Writer) Build(s Build) error {
	if s.Rule == "" {
		n.report("build statement has no rule", "comment", s.Comment)
		return nil
	}
	if len(s.Outputs) == 0 {
		n.report("build statement has no outputs", "rule", s.Rule, "comment", s.Comment)
		return nil
	}
	if hasNewline(s.Rule) || hasNewline(slices.Concat(s.Outputs, s.Explicit, s.Implicit, s.OrderOnly)...) ||
		varsHaveNewline(s.Vars) {
		n.report("build statement contains a line break", "rule", s.Rule, "comment", s.Comment)
		return nil
	}

	var b strings.Builder
	writeComment(&b, s.Comment)
	b.WriteString("build ")
	b.WriteString(strings.Join(escapePaths(s.Outputs), " "))
	b.WriteString(": ")
	b.WriteString(s.Rule)
	writeList(&b, "", s.Explicit)
	writeList(&b, "|", s.Implicit)
	writeList(&b, "||", s.OrderOnly)
	b.WriteByte('\n')
	writeVars(&b, s.Vars)
	b.WriteByte('\n')

	if err := n.write(b.String()); err != nil {
		return err
	}
	n.stats.Builds++
	return nil
}

// Phony writes a build statement using the built-in phony rule.
func (n *Writer) Phony(s Build) error {
	s.Rule = PhonyRule
	return n.Build(s)
}

// Variable writes a variable binding at the given indentation level.
// Nothing is written when the trimmed value is empty.
func (n *Writer) Variable(name, value, comment string, level int) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if name == "" {
		n.report("variable has no name", "comment", comment)
		return nil
	}
	if hasNewline(name, value) {
		n.report("variable contains a line break", "variable", name)
		return nil
	}

	var b strings.Builder
	writeComment(&b, comment)
	writeAssign(&b, level, name, value)
	return n.write(b.String())
}

// Include writes an include statement.
func (n *Writer) Include(path, comment string) error {
	if path == "" {
		n.report("include has no path", "comment", comment)
		return nil
	}
	if hasNewline(path) {
		n.report("include path contains a line break", "comment", comment)
		return nil
	}

	var b strings.Builder
	writeComment(&b, comment)
	b.WriteString("include ")
	b.WriteString(EscapePath(path))
	b.WriteString("\n\n")
	return n.write(b.String())
}

// Default writes the default goal statement.
func (n *Writer) Default(targets ...string) error {
	if len(targets) == 0 {
		n.report("default statement has no targets")
		return nil
	}
	if hasNewline(targets...) {
		n.report("default statement contains a line break")
		return nil
	}
	return n.write("default " + strings.Join(escapePaths(targets), " ") + "\n\n")
}

// BlankLine writes an empty line.
func (n *Writer) BlankLine() error {
	return n.write("\n")
}

// Comment writes every line of text as its own comment line.
func (n *Writer) Comment(text string) error {
	var b strings.Builder
	writeComment(&b, text)
	return n.write(b.String())
}

// Divider writes a full-width separator comment.
func (n *Writer) Divider() error {
	return n.write("#" + strings.Repeat("=", lineWidth-1) + "\n")
}

// Section writes a divider followed by a title comment.
func (n *Writer) Section(title string) error {
	if err := n.Divider(); err != nil {
		return err
	}
	return n.Comment(title + "\n")
}

// Banner writes the generated-file disclaimer.
func (n *Writer) Banner(tool, version, title string) error {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(tool)
	b.WriteString(" generated file: DO NOT EDIT!\n")
	b.WriteString("# Generated by ")
	b.WriteString(tool)
	if version != "" {
		b.WriteString(" version ")
		b.WriteString(version)
	}
	b.WriteByte('\n')
	writeComment(&b, title)
	b.WriteByte('\n')
	return n.write(b.String())
}

func (n *Writer) write(s string) error {
	if _, err := io.WriteString(n.w, s); err != nil {
		return zerr.Wrap(err, "write ninja statement")
	}
	return nil
}

func (n *Writer) report(msg string, kv ...string) {
	err := zerr.Wrap(domain.ErrMalformedStatement, msg)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			err = zerr.With(err, kv[i], kv[i+1])
		}
	}
	n.logger.Error(err)
}

func writeComment(b *strings.Builder, comment string) {
	if comment == "" {
		return
	}
	for line := range strings.Lines(comment) {
		line = strings.TrimRight(line, " \t\r\n")
		if line == "" {
			b.WriteString("#\n")
			continue
		}
		b.WriteString("# ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func writeAssign(b *strings.Builder, level int, name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	for range level {
		b.WriteString(indent)
	}
	b.WriteString(name)
	b.WriteString(" = ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func writeVars(b *strings.Builder, vars map[string]string) {
	for _, key := range slices.Sorted(maps.Keys(vars)) {
		writeAssign(b, 1, key, vars[key])
	}
}

func writeList(b *strings.Builder, sep string, paths []string) {
	if len(paths) == 0 {
		return
	}
	if sep != "" {
		b.WriteByte(' ')
		b.WriteString(sep)
	}
	for _, p := range paths {
		b.WriteByte(' ')
		b.WriteString(EscapePath(p))
	}
}
