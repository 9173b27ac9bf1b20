package ports

import (
	"context"

	"go.trai.ch/ngen/internal/core/domain"
)

// ProjectLoader defines the interface for loading a project description.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ProjectLoader interface {
	// Load reads the project description at path and returns the validated project model.
	// The build directory is recorded on the project as its binary directory.
	Load(ctx context.Context, path, buildDir string) (*domain.Project, error)
}
