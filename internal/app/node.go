package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/spvbuild/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/spvbuild/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/spvbuild/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/spvbuild/internal/adapters/glslang" //nolint:depguard // Wired in app layer
	"go.trai.ch/spvbuild/internal/adapters/linear"  //nolint:depguard // Wired in app layer
	"go.trai.ch/spvbuild/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/spvbuild/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/spvbuild/internal/core/ports"
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
			glslang.NodeID,
			logger.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			linear.NodeID,
			watcher.NodeID,
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
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	compiler, err := graft.Dep[ports.Compiler](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.BuildInfoStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	fileWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, compiler, log, store, hasher, renderer, fileWatcher), nil
}
