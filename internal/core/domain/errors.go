package domain

import "go.trai.ch/zerr"

var (
	// ErrTargetAlreadyExists is returned when attempting to add a target with a name that already exists.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrMissingDependency is returned when a target references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the target dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTargetNotFound is returned when a requested target is not found in the graph.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrUnknownTargetKind is returned when a target kind has no lowering strategy.
	ErrUnknownTargetKind = zerr.New("unknown target kind")

	// ErrReservedTargetName is returned when a target uses a reserved name (e.g., "all").
	ErrReservedTargetName = zerr.New("target name is reserved")

	// ErrInvalidProject is returned when a project description fails validation.
	ErrInvalidProject = zerr.New("invalid project description")

	// ErrMissingDefinition is returned when a required command template is not defined
	// for a language and operation.
	ErrMissingDefinition = zerr.New("missing required command definition")

	// ErrRuleConflict is returned when a rule name is registered twice with different bodies.
	ErrRuleConflict = zerr.New("rule registered with a conflicting body")

	// ErrMalformedStatement is reported when a rule or build statement fails its structural checks.
	ErrMalformedStatement = zerr.New("malformed statement")

	// ErrStreamNotOpen is reported when a generated file is committed or discarded after it was closed.
	ErrStreamNotOpen = zerr.New("stream is not open")

	// ErrStreamAlreadyOpen is reported when a generated file is opened twice.
	ErrStreamAlreadyOpen = zerr.New("stream is already open")

	// ErrNoGeneratorState is returned when regeneration is requested but no state was persisted.
	ErrNoGeneratorState = zerr.New("no generator state found in build directory")

	// ErrGenerationFailed is returned when one or more targets could not be lowered.
	ErrGenerationFailed = zerr.New("generation failed")
)
