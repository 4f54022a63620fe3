package codec

import (
	"fmt"
	"math"
	"math/big"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-witness/errors"
	"github.com/wippyai/wasm-witness/field"
	"github.com/wippyai/wasm-witness/memory"
)

// Header bits of a field slot's high word.
const (
	LongMarker     uint32 = 0x8000_0000
	MontgomeryFlag uint32 = 0x4000_0000
)

const (
	lowWordOffset  = 0
	highWordOffset = 4
	valueOffset    = 8
)

// Codec encodes signed big integers into field slots of linear memory and
// decodes them back. It is bound to one machine instance and is not safe for
// concurrent use.
type Codec struct {
	mem    *memory.Accessor
	bump   *memory.Bump
	field  field.Field
	bounds Bounds
}

// New creates a codec over mem for field f. A zero wordCount selects
// memory.DefaultWordCount. wordCount only sizes slots for bounds checks;
// long values are always field.Bytes wide.
func New(mem *memory.Accessor, f field.Field, wordCount uint32) (*Codec, error) {
	if mem == nil {
		return nil, errors.NotInitialized(errors.PhaseEncode, "memory")
	}
	if f == nil {
		return nil, errors.NotInitialized(errors.PhaseEncode, "field")
	}
	if wordCount == 0 {
		wordCount = memory.DefaultWordCount
	}
	if wordCount*memory.WordSize < field.Bytes {
		return nil, errors.Unsupported(errors.PhaseEncode,
			fmt.Sprintf("%d words cannot hold a %d byte field element", wordCount, field.Bytes))
	}
	return &Codec{
		mem:    mem,
		bump:   memory.NewBump(mem, wordCount),
		field:  f,
		bounds: NewBounds(f),
	}, nil
}

// Field returns the codec's field.
func (c *Codec) Field() field.Field {
	return c.field
}

// Bounds returns the short range bounds.
func (c *Codec) Bounds() Bounds {
	return c.bounds
}

// Allocator returns the bump allocator sharing the codec's memory.
func (c *Codec) Allocator() *memory.Bump {
	return c.bump
}

// SlotSize returns the size of one field slot.
func (c *Codec) SlotSize() uint32 {
	return c.bump.FieldSlotSize()
}

// Alloc reserves a field slot and writes v into it.
func (c *Codec) Alloc(v *big.Int) (uint32, error) {
	ptr, err := c.bump.AllocFieldSlot()
	if err != nil {
		return 0, err
	}
	if err := c.Write(ptr, v); err != nil {
		return 0, err
	}
	return ptr, nil
}

// Write encodes v into the slot at ptr.
//
// Values strictly inside the short range are stored inline in the low word.
// Every other value is reduced modulo P and stored in long form, so a negative
// long value reads back as its canonical residue.
func (c *Codec) Write(ptr uint32, v *big.Int) error {
	if v == nil {
		return errors.InvalidInput(errors.PhaseEncode, "nil value")
	}
	if err := c.mem.Check(ptr, uint64(c.SlotSize())); err != nil {
		return err
	}

	class := c.bounds.Classify(v)
	Logger().Debug("write field element",
		zap.Uint32("ptr", ptr),
		zap.Stringer("class", class),
		zap.Stringer("value", v))

	switch class {
	case ClassShortPositive:
		return c.writeShort(ptr, v)
	case ClassShortNegative:
		num := new(big.Int).Sub(v, c.bounds.ShortMin)
		num.Sub(num, c.bounds.ShortMax)
		num.Add(num, two32)
		return c.writeShort(ptr, num)
	default:
		return c.writeLong(ptr, v)
	}
}

func (c *Codec) writeShort(ptr uint32, num *big.Int) error {
	if num.Sign() < 0 || !num.IsUint64() || num.Uint64() > math.MaxUint32 {
		return errors.EncodingOverflow(errors.PhaseEncode, num, "u32")
	}
	if err := c.mem.WriteWord(ptr+lowWordOffset, uint32(num.Uint64())); err != nil {
		return err
	}
	return c.mem.WriteWord(ptr+highWordOffset, 0)
}

func (c *Codec) writeLong(ptr uint32, v *big.Int) error {
	var buf [field.Bytes]byte
	if err := c.field.PutLE(buf[:], c.field.Reduce(v)); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindOverflow, err, "encode long value")
	}
	if err := c.mem.WriteWord(ptr+lowWordOffset, 0); err != nil {
		return err
	}
	if err := c.mem.WriteWord(ptr+highWordOffset, LongMarker); err != nil {
		return err
	}
	return c.mem.WriteBytes(ptr+valueOffset, buf[:])
}

// Read decodes the slot at ptr. Long values come back as canonical residues,
// converted out of Montgomery form when the header says so; short values keep
// their sign.
func (c *Codec) Read(ptr uint32) (*big.Int, error) {
	if err := c.mem.Check(ptr, uint64(c.SlotSize())); err != nil {
		return nil, err
	}
	h, err := c.mem.ReadWord(ptr + highWordOffset)
	if err != nil {
		return nil, err
	}
	if h&LongMarker != 0 {
		return c.readLong(ptr, h&MontgomeryFlag != 0)
	}
	if h != 0 {
		return nil, errors.DecodeDomainViolation(errors.PhaseDecode, ptr,
			fmt.Sprintf("short form header %#08x is not zero", h))
	}

	l, err := c.mem.ReadWord(ptr + lowWordOffset)
	if err != nil {
		return nil, err
	}
	res := new(big.Int).SetUint64(uint64(l))
	class := ClassShortPositive
	if l&0x8000_0000 != 0 {
		res.Sub(res, two32)
		class = ClassShortNegative
	}
	Logger().Debug("read field element", zap.Uint32("ptr", ptr), zap.Stringer("class", class))
	return res, nil
}

func (c *Codec) readLong(ptr uint32, montgomery bool) (*big.Int, error) {
	raw, err := c.mem.ReadBytes(ptr+valueOffset, field.Bytes)
	if err != nil {
		return nil, err
	}
	decode := c.field.LE
	if montgomery {
		decode = c.field.FromMontgomery
	}
	v, err := decode(raw)
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindDomain).
			Value(ptr).
			Cause(err).
			Detail("slot %d: long value", ptr).
			Build()
	}
	Logger().Debug("read field element",
		zap.Uint32("ptr", ptr),
		zap.Stringer("class", ClassLong),
		zap.Bool("montgomery", montgomery))
	return v, nil
}

// ReadSigned decodes the slot at ptr and maps the result to (-P/2, P/2].
func (c *Codec) ReadSigned(ptr uint32) (*big.Int, error) {
	v, err := c.Read(ptr)
	if err != nil {
		return nil, err
	}
	return c.field.Signed(v), nil
}
