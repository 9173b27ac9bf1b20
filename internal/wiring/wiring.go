// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ngen/internal/adapters/cas"
	_ "go.trai.ch/ngen/internal/adapters/config"
	_ "go.trai.ch/ngen/internal/adapters/fs"
	_ "go.trai.ch/ngen/internal/adapters/logger"
	_ "go.trai.ch/ngen/internal/adapters/telemetry"
	_ "go.trai.ch/ngen/internal/adapters/toolchain"
	// Register app and engine nodes.
	_ "go.trai.ch/ngen/internal/app"
	_ "go.trai.ch/ngen/internal/engine/generator"
)
