package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wasmwitness "github.com/wippyai/wasm-witness"
	"github.com/wippyai/wasm-witness/errors"
)

// DefaultMemoryName is the export name of the guest's linear memory.
const DefaultMemoryName = "memory"

// WazeroEngine owns a wazero runtime shared by every module it loads
type WazeroEngine struct {
	runtime wazero.Runtime
	hosts   map[string]struct{}
	hostsMu sync.Mutex
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32

	// CloseOnContextDone aborts guest calls when their context is cancelled.
	CloseOnContextDone bool
}

// NewWazeroEngine creates a new wazero-based engine
func NewWazeroEngine(ctx context.Context) (*WazeroEngine, error) {
	return NewWazeroEngineWithConfig(ctx, nil)
}

// NewWazeroEngineWithConfig creates a new engine with custom configuration
func NewWazeroEngineWithConfig(ctx context.Context, cfg *Config) (*WazeroEngine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.CloseOnContextDone {
			runtimeCfg = runtimeCfg.WithCloseOnContextDone(true)
		}
	}

	return &WazeroEngine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		hosts:   make(map[string]struct{}),
	}, nil
}

// Close releases the runtime and every module instantiated in it.
func (e *WazeroEngine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// HostModule is a named set of Go functions importable by guests.
// Each function follows wazero's WithFunc conventions: an optional
// context.Context, an optional api.Module, then numeric params and results.
type HostModule struct {
	Funcs map[string]any
	Name  string
}

// InitHostModule instantiates hm in the engine's runtime. A module name is
// instantiated once; later calls with the same name are no-ops.
// Safe for concurrent calls.
func (e *WazeroEngine) InitHostModule(ctx context.Context, hm HostModule) error {
	if hm.Name == "" {
		return errors.InvalidInput(errors.PhaseLoad, "host module name is empty")
	}

	e.hostsMu.Lock()
	defer e.hostsMu.Unlock()

	if _, done := e.hosts[hm.Name]; done {
		return nil
	}

	names := make([]string, 0, len(hm.Funcs))
	for name := range hm.Funcs {
		names = append(names, name)
	}
	sort.Strings(names)

	builder := e.runtime.NewHostModuleBuilder(hm.Name)
	for _, name := range names {
		builder.NewFunctionBuilder().WithFunc(hm.Funcs[name]).Export(name)
	}
	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Load(fmt.Sprintf("instantiate host module %q", hm.Name), err)
	}

	e.hosts[hm.Name] = struct{}{}
	Logger().Debug("host module ready", zap.String("module", hm.Name), zap.Strings("funcs", names))
	return nil
}

// LoadModule compiles a core WASM module.
func (e *WazeroEngine) LoadModule(ctx context.Context, wasmBytes []byte) (*WazeroModule, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	Logger().Debug("module compiled",
		zap.Int("bytes", len(wasmBytes)),
		zap.Int("exports", len(compiled.ExportedFunctions())),
		zap.Int("imports", len(compiled.ImportedFunctions())))

	return &WazeroModule{
		runtime:  e.runtime,
		compiled: compiled,
	}, nil
}

// WazeroModule is a compiled WASM module. Safe for concurrent instantiation.
type WazeroModule struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// InstanceConfig holds configuration for module instantiation
type InstanceConfig struct {
	// Name registers the instance under this module name. Empty means anonymous.
	Name string
	// MemoryName is the exported memory to expose. Empty means DefaultMemoryName.
	MemoryName string
}

// ExportNames returns the exported function names in sorted order.
func (m *WazeroModule) ExportNames() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ImportNames returns imported functions as "module#name", sorted.
func (m *WazeroModule) ImportNames() []string {
	defs := m.compiled.ImportedFunctions()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		mod, name, _ := def.Import()
		names = append(names, mod+"#"+name)
	}
	sort.Strings(names)
	return names
}

// Instantiate creates a new instance with its own linear memory.
func (m *WazeroModule) Instantiate(ctx context.Context, cfg *InstanceConfig) (*WazeroInstance, error) {
	if cfg == nil {
		cfg = &InstanceConfig{}
	}
	memName := cfg.MemoryName
	if memName == "" {
		memName = DefaultMemoryName
	}

	modCfg := wazero.NewModuleConfig().WithName(cfg.Name).WithStartFunctions()
	mod, err := m.runtime.InstantiateModule(ctx, m.compiled, modCfg)
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	mem := mod.ExportedMemory(memName)
	if mem == nil {
		_ = mod.Close(ctx)
		return nil, errors.NotFound(errors.PhaseRuntime, "memory export", memName)
	}

	return &WazeroInstance{module: mod, memory: mem}, nil
}

// Close releases the compiled code.
func (m *WazeroModule) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}

// WazeroInstance is a running module instance. Not thread-safe.
type WazeroInstance struct {
	module api.Module
	memory api.Memory
}

// Memory returns the instance's exported linear memory.
func (i *WazeroInstance) Memory() wasmwitness.Memory {
	return i.memory
}

// Call invokes an exported function with raw core values.
func (i *WazeroInstance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := i.module.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "export", name)
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindTrap, err, "call "+name)
	}
	return results, nil
}

// Close releases the instance and its memory.
func (i *WazeroInstance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}
