package memory

import (
	"fmt"
	"math"

	wasmwitness "github.com/wippyai/wasm-witness"
	"github.com/wippyai/wasm-witness/errors"
)

const (
	// FreePointerOffset is the absolute offset of the guest's free pointer.
	FreePointerOffset = 0

	// WordSlotSize is the size of a plain word slot: two u32 words.
	WordSlotSize = 8

	// DefaultWordCount is the number of 32-bit words in a 256-bit field element.
	DefaultWordCount = 8
)

// FieldSlotSize returns the slot size for field elements of wordCount words:
// an 8 byte header followed by the value words.
func FieldSlotSize(wordCount uint32) uint32 {
	return wordCount*WordSize + 8
}

// Bump is an arena allocator over the free pointer stored in the first word
// of memory. It only moves the pointer forward.
type Bump struct {
	mem       *Accessor
	wordCount uint32
}

var _ wasmwitness.Allocator = (*Bump)(nil)

// NewBump creates an allocator over mem. A zero wordCount selects DefaultWordCount.
func NewBump(mem *Accessor, wordCount uint32) *Bump {
	if wordCount == 0 {
		wordCount = DefaultWordCount
	}
	return &Bump{mem: mem, wordCount: wordCount}
}

// WordCount returns the number of value words in a field slot.
func (b *Bump) WordCount() uint32 {
	return b.wordCount
}

// FieldSlotSize returns the size of a field slot for this allocator.
func (b *Bump) FieldSlotSize() uint32 {
	return FieldSlotSize(b.wordCount)
}

// FreePointer returns the next free byte offset.
func (b *Bump) FreePointer() (uint32, error) {
	p, err := b.mem.ReadWord(FreePointerOffset)
	if err != nil {
		return 0, err
	}
	if p%WordSize != 0 {
		return 0, errors.New(errors.PhaseAlloc, errors.KindDomain).
			Value(p).
			Detail("free pointer %d is not %d-byte aligned", p, WordSize).
			Build()
	}
	return p, nil
}

// AllocWord reserves a plain word slot.
func (b *Bump) AllocWord() (uint32, error) {
	return b.Alloc(WordSlotSize)
}

// AllocFieldSlot reserves a field element slot.
func (b *Bump) AllocFieldSlot() (uint32, error) {
	return b.Alloc(b.FieldSlotSize())
}

// Alloc reserves size bytes and returns their offset. The free pointer is
// left untouched when the slot would not fit in memory.
func (b *Bump) Alloc(size uint32) (uint32, error) {
	if size%WordSize != 0 {
		return 0, errors.InvalidInput(errors.PhaseAlloc, fmt.Sprintf("slot size %d is not word aligned", size))
	}
	p, err := b.FreePointer()
	if err != nil {
		return 0, err
	}
	end := uint64(p) + uint64(size)
	if end > math.MaxUint32 {
		return 0, errors.EncodingOverflow(errors.PhaseAlloc, end, "free pointer")
	}
	if memSize := b.mem.Size(); end > uint64(memSize) {
		return 0, errors.MemoryAccessFault(errors.PhaseAlloc, p, uint64(size), memSize)
	}
	if err := b.mem.WriteWord(FreePointerOffset, uint32(end)); err != nil {
		return 0, err
	}
	return p, nil
}
