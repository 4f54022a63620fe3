// Package memory provides bounds-checked access to WebAssembly linear memory
// and the bump allocator the witness calculator's guest shares with the host.
//
// # Accessor
//
// Accessor is the only place raw memory is touched. Every read and write is
// checked against the current memory size before it happens, and reads return
// copies so callers never alias guest memory:
//
//	acc := memory.NewAccessor(instance.Memory())
//	w, err := acc.ReadWord(ptr)
//
// # Bump Allocator
//
// The guest keeps its free pointer in the first word of memory. Bump hands out
// slots by advancing it and never reclaims them; memory is reclaimed when the
// instance is closed.
//
//	bump := memory.NewBump(acc, memory.DefaultWordCount)
//	p, err := bump.AllocFieldSlot() // 40 bytes for a 256-bit field
//
// Buffer is a plain byte-slice memory for hosts that do not run wazero.
package memory
