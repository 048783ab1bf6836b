package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/spvbuild/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the shader tree walker node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// IncludeScannerNodeID is the unique identifier for the include scanner node.
	IncludeScannerNodeID graft.ID = "adapter.fs.includes"
	// HasherNodeID is the unique identifier for the hasher node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[*IncludeScanner]{
		ID:        IncludeScannerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*IncludeScanner, error) {
			return NewIncludeScanner(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{IncludeScannerNodeID},
		Run: func(ctx context.Context) (ports.Hasher, error) {
			includes, err := graft.Dep[*IncludeScanner](ctx)
			if err != nil {
				return nil, err
			}
			return NewHasher(includes), nil
		},
	})
}
