package codec

import (
	"math/big"

	"github.com/wippyai/wasm-witness/field"
)

// Class is the encoding branch a value takes.
type Class uint8

const (
	ClassShortPositive Class = iota
	ClassShortNegative
	ClassLong
)

func (c Class) String() string {
	switch c {
	case ClassShortPositive:
		return "short-positive"
	case ClassShortNegative:
		return "short-negative"
	case ClassLong:
		return "long"
	default:
		return "unknown"
	}
}

// Bounds partitions values into the inline short range and the long range.
// Both bounds are exclusive.
type Bounds struct {
	// ShortMax is 2^31.
	ShortMax *big.Int
	// ShortMin is P - ShortMax taken as a signed field element, i.e. -2^31.
	ShortMin *big.Int
}

var (
	shortMax = big.NewInt(0x8000_0000)
	two32    = big.NewInt(0x1_0000_0000)
)

// NewBounds derives the short bounds for f once.
func NewBounds(f field.Field) Bounds {
	lo := f.Modulus()
	lo.Sub(lo, shortMax)
	return Bounds{
		ShortMax: new(big.Int).Set(shortMax),
		ShortMin: f.Signed(lo),
	}
}

// Classify picks the branch for v: short when ShortMin < v < ShortMax,
// long otherwise.
func (b Bounds) Classify(v *big.Int) Class {
	if v.Cmp(b.ShortMin) > 0 && v.Cmp(b.ShortMax) < 0 {
		if v.Sign() >= 0 {
			return ClassShortPositive
		}
		return ClassShortNegative
	}
	return ClassLong
}
