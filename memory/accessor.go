package memory

import (
	"encoding/binary"

	wasmwitness "github.com/wippyai/wasm-witness"
	"github.com/wippyai/wasm-witness/errors"
)

// WordSize is the width of a linear memory word in bytes.
const WordSize = 4

// Accessor adapts a linear memory to bounds-checked little-endian word and
// byte access. It holds a borrowed handle and never resizes the memory.
type Accessor struct {
	mem wasmwitness.Memory
}

// NewAccessor wraps mem. A nil memory yields a nil accessor.
func NewAccessor(mem wasmwitness.Memory) *Accessor {
	if mem == nil {
		return nil
	}
	return &Accessor{mem: mem}
}

// Size returns the current memory size in bytes.
func (a *Accessor) Size() uint32 {
	return a.mem.Size()
}

// Check reports a MemoryAccessFault unless [offset, offset+length) lies inside memory.
func (a *Accessor) Check(offset uint32, length uint64) error {
	size := a.mem.Size()
	if uint64(offset)+length > uint64(size) {
		return errors.MemoryAccessFault(errors.PhaseMemory, offset, length, size)
	}
	return nil
}

// ReadWord reads an unsigned 32-bit little-endian value.
func (a *Accessor) ReadWord(offset uint32) (uint32, error) {
	if err := a.Check(offset, WordSize); err != nil {
		return 0, err
	}
	data, ok := a.mem.Read(offset, WordSize)
	if !ok {
		return 0, errors.MemoryAccessFault(errors.PhaseMemory, offset, WordSize, a.mem.Size())
	}
	return binary.LittleEndian.Uint32(data), nil
}

// WriteWord writes an unsigned 32-bit little-endian value.
func (a *Accessor) WriteWord(offset uint32, value uint32) error {
	if err := a.Check(offset, WordSize); err != nil {
		return err
	}
	var buf [WordSize]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	if !a.mem.Write(offset, buf[:]) {
		return errors.MemoryAccessFault(errors.PhaseMemory, offset, WordSize, a.mem.Size())
	}
	return nil
}

// ReadBytes returns a copy of length bytes at offset.
func (a *Accessor) ReadBytes(offset, length uint32) ([]byte, error) {
	if err := a.Check(offset, uint64(length)); err != nil {
		return nil, err
	}
	data, ok := a.mem.Read(offset, length)
	if !ok {
		return nil, errors.MemoryAccessFault(errors.PhaseMemory, offset, uint64(length), a.mem.Size())
	}
	out := make([]byte, length)
	copy(out, data)
	return out, nil
}

// WriteBytes writes data at offset.
func (a *Accessor) WriteBytes(offset uint32, data []byte) error {
	if err := a.Check(offset, uint64(len(data))); err != nil {
		return err
	}
	if !a.mem.Write(offset, data) {
		return errors.MemoryAccessFault(errors.PhaseMemory, offset, uint64(len(data)), a.mem.Size())
	}
	return nil
}
