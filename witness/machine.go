package witness

import (
	"context"

	wasmwitness "github.com/wippyai/wasm-witness"
	"github.com/wippyai/wasm-witness/engine"
)

// Machine is one guest instance: its linear memory and its exports.
type Machine interface {
	Memory() wasmwitness.Memory
	Call(ctx context.Context, name string, params ...uint64) ([]uint64, error)
	Close(ctx context.Context) error
}

// Loader creates fresh machine instances of one compiled guest.
type Loader interface {
	Instantiate(ctx context.Context) (Machine, error)
	Close(ctx context.Context) error
}

type engineLoader struct {
	module *engine.WazeroModule
}

func (l engineLoader) Instantiate(ctx context.Context) (Machine, error) {
	inst, err := l.module.Instantiate(ctx, nil)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func (l engineLoader) Close(ctx context.Context) error {
	return l.module.Close(ctx)
}
