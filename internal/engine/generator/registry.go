package generator

import (
	"fmt"
	"maps"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/ngen/internal/engine/ninja"
	"go.trai.ch/zerr"
)

// RuleRegistry writes each distinct rule of a run exactly once.
// A name, once registered, keeps its first body for the rest of the run.
type RuleRegistry struct {
	writer *ninja.Writer
	logger ports.Logger
	policy ConflictPolicy

	rules   map[string]ninja.Rule
	section string
}

// NewRuleRegistry creates an empty registry writing to writer.
func NewRuleRegistry(writer *ninja.Writer, logger ports.Logger, policy ConflictPolicy) *RuleRegistry {
	return &RuleRegistry{
		writer: writer,
		logger: logger,
		policy: policy,
		rules:  make(map[string]ninja.Rule),
	}
}

// BeginSection sets a title written before the next newly registered rule.
// The title is dropped if no new rule follows before the next section.
func (r *RuleRegistry) BeginSection(title string) {
	r.section = title
}

// AddRule registers rule and writes it the first time its name is seen.
// Registering a known name again never rewrites it; a divergent body is
// handled according to the registry policy.
func (r *RuleRegistry) AddRule(rule ninja.Rule) error {
	if rule.Name == "" {
		return r.writer.Rule(rule)
	}

	if existing, ok := r.rules[rule.Name]; ok {
		if sameRule(existing, rule) {
			r.logger.Debug(fmt.Sprintf("rule %s already registered", rule.Name))
			return nil
		}
		return r.conflict(rule.Name)
	}

	if r.section != "" {
		if err := r.writer.Section(r.section); err != nil {
			return err
		}
		r.section = ""
	}
	r.rules[rule.Name] = rule
	return r.writer.Rule(rule)
}

// HasRule reports whether a rule with the given name was registered.
func (r *RuleRegistry) HasRule(name string) bool {
	_, ok := r.rules[name]
	return ok
}

// Len returns the number of registered rules.
func (r *RuleRegistry) Len() int {
	return len(r.rules)
}

func (r *RuleRegistry) conflict(name string) error {
	switch r.policy {
	case ConflictIgnore:
		r.logger.Debug(fmt.Sprintf("rule %s registered again with a different body, keeping the first", name))
		return nil
	case ConflictError:
		return zerr.With(zerr.Wrap(domain.ErrRuleConflict, "register rule"), "rule", name)
	default:
		r.logger.Warn(fmt.Sprintf("rule %s registered again with a different body, keeping the first", name))
		return nil
	}
}

func sameRule(a, b ninja.Rule) bool {
	return a.Command == b.Command &&
		a.Description == b.Description &&
		a.DepFile == b.DepFile &&
		a.Generator == b.Generator &&
		a.Restat == b.Restat &&
		maps.Equal(a.Vars, b.Vars)
}
