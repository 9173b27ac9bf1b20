package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ngen/internal/core/ports"
)

// FactoryNodeID is the unique identifier for the toolchain factory Graft node.
const FactoryNodeID graft.ID = "adapter.toolchain"

func init() {
	graft.Register(graft.Node[ports.ToolchainFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ToolchainFactory, error) {
			return NewFactory(), nil
		},
	})
}
