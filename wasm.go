package wasmwitness

// Memory is the raw linear memory of one machine instance.
// wazero's api.Memory satisfies it directly; memory.Buffer is the in-process variant.
type Memory interface {
	Size() uint32
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, data []byte) bool
}

// Allocator reserves slots in linear memory. There is no Free: slots live
// until the machine instance is torn down.
type Allocator interface {
	AllocWord() (uint32, error)
	AllocFieldSlot() (uint32, error)
}
