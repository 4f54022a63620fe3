// Package engine provides the low-level wazero integration used to run
// witness calculator guests.
//
// # Architecture
//
// The engine package provides three main types:
//
//	WazeroEngine   - Owns a wazero runtime and the host modules registered in it
//	WazeroModule   - A compiled core module, can create instances
//	WazeroInstance - A running instance with its own linear memory
//
// # Instantiation Flow
//
//  1. WazeroEngine.InitHostModule() registers the host imports guests need
//  2. WazeroEngine.LoadModule() compiles the guest binary
//  3. WazeroModule.Instantiate() creates a WazeroInstance with fresh memory
//  4. WazeroInstance.Call() invokes exports with raw i32/i64 values
//
// Host modules are shared by every instance in the runtime. Per-call state
// reaches host functions through the context passed to Call.
//
// # Memory
//
// WazeroInstance.Memory returns wazero's api.Memory, which satisfies
// wasmwitness.Memory. Wrap it in memory.Accessor before touching it.
package engine
