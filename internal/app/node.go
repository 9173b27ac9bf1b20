package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ngen/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/ngen/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/ngen/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/ngen/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/ngen/internal/adapters/toolchain" //nolint:depguard // Wired in app layer
	"go.trai.ch/ngen/internal/build"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/ngen/internal/engine/generator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			toolchain.FactoryNodeID,
			fs.WriterNodeID,
			cas.NodeID,
			generator.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ProjectLoader](ctx)
	if err != nil {
		return nil, err
	}

	toolchains, err := graft.Dep[ports.ToolchainFactory](ctx)
	if err != nil {
		return nil, err
	}

	files, err := graft.Dep[ports.FileWriter](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return nil, err
	}

	gen, err := graft.Dep[*generator.Generator](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, toolchains, files, store, gen, log).
		WithVersion(build.Version).
		WithToolCommand(ToolCommand()), nil
}
