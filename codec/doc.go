// Package codec encodes prime-field values into the slot layout shared with
// the witness calculator guest and decodes them back.
//
// A field slot is wordCount*4+8 bytes:
//
//	+0   low word   short value (two's complement for negatives), 0 in long form
//	+4   high word  LongMarker in long form, 0 otherwise
//	+8   32 bytes   canonical residue, little-endian, long form only
//
// Bounds.Classify decides the branch: values strictly between ShortMin (-2^31)
// and ShortMax (2^31) are short, the rest are reduced modulo P and stored long.
//
//	c, err := codec.New(memory.NewAccessor(mem), f, memory.DefaultWordCount)
//	ptr, err := c.Alloc(big.NewInt(-1_000_000))
//	v, err := c.Read(ptr) // -1000000
package codec
