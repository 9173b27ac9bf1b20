// Package domain contains the core domain models of the build-plan compiler.
package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents the target dependency graph of a project.
type Graph struct {
	targets        map[InternedString]*Target
	declared       []InternedString
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		targets: make(map[InternedString]*Target),
	}
}

// AddTarget adds a target to the graph.
// It returns an error if a target with the same name already exists.
func (g *Graph) AddTarget(t *Target) error {
	if _, exists := g.targets[t.Name]; exists {
		return zerr.With(zerr.Wrap(ErrTargetAlreadyExists, "add target"), "target", t.Name.String())
	}
	g.targets[t.Name] = t
	g.declared = append(g.declared, t.Name)
	g.executionOrder = nil
	return nil
}

// Target returns the target with the given name.
func (g *Graph) Target(name InternedString) (*Target, bool) {
	t, ok := g.targets[name]
	return t, ok
}

// Len returns the number of targets in the graph.
func (g *Graph) Len() int {
	return len(g.targets)
}

// Validate checks for missing dependencies and cycles using a topological sort.
// It populates the execution order used by Walk. Targets are visited in
// declaration order and dependencies in listed order, so the result is stable.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.targets))
	visited := make(map[InternedString]int, len(g.targets)) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		target := g.targets[u]
		for _, dep := range target.Depends {
			if _, exists := g.targets[dep]; !exists {
				return zerr.With(
					zerr.With(zerr.Wrap(ErrMissingDependency, "validate graph"), "dependency", dep.String()),
					"target", u.String(),
				)
			}
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, name := range g.declared {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				g.executionOrder = nil
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	names := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		names = append(names, node.String())
	}
	names = append(names, dep.String())
	return zerr.With(zerr.Wrap(ErrCycleDetected, "validate graph"), "cycle", strings.Join(names, " -> "))
}

// Walk returns an iterator that yields targets dependencies-first.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[*Target] {
	return func(yield func(*Target) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.targets[name]) {
				return
			}
		}
	}
}

// Declared returns an iterator over targets in declaration order.
func (g *Graph) Declared() iter.Seq[*Target] {
	return func(yield func(*Target) bool) {
		for _, name := range g.declared {
			if !yield(g.targets[name]) {
				return
			}
		}
	}
}
