package ports

// InputResolver defines the interface for resolving source patterns.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs resolves the given patterns to concrete file paths relative to root.
	// Patterns without glob meta characters are returned as-is, even when the file
	// does not exist yet (generated sources).
	ResolveInputs(inputs []string, root string) ([]string, error)
}
