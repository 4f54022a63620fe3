package field

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/wippyai/wasm-witness/errors"
)

// Bytes is the width of a serialized field element.
const Bytes = 32

// Field is the arbitrary-precision capability the codec needs: modular
// reduction and fixed-width little-endian encoding of canonical residues.
type Field interface {
	// Name is the curve name for named fields, or "generic".
	Name() string
	// Modulus returns a copy of P.
	Modulus() *big.Int
	// Reduce returns the canonical representative of v in [0, P).
	Reduce(v *big.Int) *big.Int
	// Signed returns the representative of v in (-P/2, P/2].
	Signed(v *big.Int) *big.Int
	// PutLE writes the canonical residue v into dst[:Bytes].
	PutLE(dst []byte, v *big.Int) error
	// LE reads a canonical residue from src[:Bytes].
	LE(src []byte) (*big.Int, error)
	// FromMontgomery reads a residue stored in Montgomery form, a*2^256 mod P,
	// from src[:Bytes] and returns a.
	FromMontgomery(src []byte) (*big.Int, error)
}

type prime struct {
	p    *big.Int
	half *big.Int
	rInv *big.Int
	name string
}

func newPrime(name string, p *big.Int) prime {
	r := new(big.Int).Lsh(big.NewInt(1), Bytes*8)
	r.Mod(r, p)
	return prime{
		name: name,
		p:    new(big.Int).Set(p),
		half: new(big.Int).Rsh(p, 1),
		rInv: r.ModInverse(r, p),
	}
}

func (f prime) Name() string {
	return f.name
}

func (f prime) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

func (f prime) Reduce(v *big.Int) *big.Int {
	// Mod is Euclidean: the result is never negative.
	return new(big.Int).Mod(v, f.p)
}

func (f prime) Signed(v *big.Int) *big.Int {
	r := f.Reduce(v)
	if r.Cmp(f.half) > 0 {
		r.Sub(r, f.p)
	}
	return r
}

// canonical checks that v is in [0, P) and fits the buffer.
func (f prime) canonical(dst []byte, v *big.Int) error {
	if len(dst) < Bytes {
		return errors.EncodingOverflow(errors.PhaseField, Bytes, fmt.Sprintf("%d byte buffer", len(dst)))
	}
	if v.Sign() < 0 || v.Cmp(f.p) >= 0 {
		return errors.New(errors.PhaseField, errors.KindOverflow).
			Value(v).
			Detail("%s is not a canonical residue of the %s field", v, f.name).
			Build()
	}
	return nil
}

func (f prime) checkResidue(v *big.Int) error {
	if v.Cmp(f.p) >= 0 {
		return errors.New(errors.PhaseField, errors.KindDomain).
			Value(v).
			Detail("%s is not below the %s modulus", v, f.name).
			Build()
	}
	return nil
}

// leWord reads a little-endian 256-bit word from src and checks it is below P.
func (f prime) leWord(src []byte) (*uint256.Int, error) {
	if len(src) < Bytes {
		return nil, shortSource(src)
	}
	var be [Bytes]byte
	for i := 0; i < Bytes; i++ {
		be[i] = src[Bytes-1-i]
	}
	u := new(uint256.Int).SetBytes32(be[:])
	if err := f.checkResidue(u.ToBig()); err != nil {
		return nil, err
	}
	return u, nil
}

// FromMontgomery multiplies the stored residue by 2^-256 mod P.
func (f prime) FromMontgomery(src []byte) (*big.Int, error) {
	u, err := f.leWord(src)
	if err != nil {
		return nil, err
	}
	v := u.ToBig()
	v.Mul(v, f.rInv)
	return v.Mod(v, f.p), nil
}

func shortSource(src []byte) error {
	return errors.New(errors.PhaseField, errors.KindOutOfBounds).
		Value(len(src)).
		Detail("need %d bytes, have %d", Bytes, len(src)).
		Build()
}

// generic is a 256-bit prime field without a dedicated implementation.
type generic struct {
	prime
}

// NewGeneric returns a field for an arbitrary prime that fits in 256 bits.
func NewGeneric(p *big.Int) (Field, error) {
	return newGeneric(GenericName, p)
}

func newGeneric(name string, p *big.Int) (Field, error) {
	if err := validateModulus(p); err != nil {
		return nil, err
	}
	return generic{prime: newPrime(name, p)}, nil
}

func (f generic) PutLE(dst []byte, v *big.Int) error {
	if err := f.canonical(dst, v); err != nil {
		return err
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return errors.EncodingOverflow(errors.PhaseField, v, "uint256")
	}
	be := u.Bytes32()
	for i := 0; i < Bytes; i++ {
		dst[i] = be[Bytes-1-i]
	}
	return nil
}

func (f generic) LE(src []byte) (*big.Int, error) {
	u, err := f.leWord(src)
	if err != nil {
		return nil, err
	}
	return u.ToBig(), nil
}

// shortRange is the magnitude bound of inline values; P must exceed twice it
// for the short and long ranges not to collide.
var shortRange = new(big.Int).Lsh(big.NewInt(1), 32)

func validateModulus(p *big.Int) error {
	if p == nil || p.Sign() <= 0 {
		return errors.InvalidInput(errors.PhaseField, "modulus must be positive")
	}
	if p.BitLen() > Bytes*8 {
		return errors.Unsupported(errors.PhaseField, fmt.Sprintf("modulus of %d bits exceeds %d", p.BitLen(), Bytes*8))
	}
	if p.Cmp(shortRange) <= 0 {
		return errors.InvalidInput(errors.PhaseField, fmt.Sprintf("modulus %s does not exceed 2^32", p))
	}
	if !p.ProbablyPrime(20) {
		return errors.InvalidInput(errors.PhaseField, fmt.Sprintf("modulus %s is not prime", p))
	}
	return nil
}
