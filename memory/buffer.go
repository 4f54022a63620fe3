package memory

import wasmwitness "github.com/wippyai/wasm-witness"

// PageSize is the WebAssembly page size.
const PageSize = 65536

// Buffer is a fixed-size linear memory backed by a byte slice.
// Like wazero's api.Memory, Read returns a view, not a copy.
type Buffer []byte

var _ wasmwitness.Memory = Buffer(nil)

// NewBuffer allocates a zeroed buffer of the given number of pages.
func NewBuffer(pages uint32) Buffer {
	return make(Buffer, uint64(pages)*PageSize)
}

// Size returns the buffer length in bytes.
func (b Buffer) Size() uint32 {
	return uint32(len(b))
}

// Read returns a view of byteCount bytes at offset.
func (b Buffer) Read(offset, byteCount uint32) ([]byte, bool) {
	end := uint64(offset) + uint64(byteCount)
	if end > uint64(len(b)) {
		return nil, false
	}
	return b[offset:end:end], true
}

// Write copies data to offset.
func (b Buffer) Write(offset uint32, data []byte) bool {
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(b)) {
		return false
	}
	copy(b[offset:end], data)
	return true
}
