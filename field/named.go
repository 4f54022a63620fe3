package field

import (
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381fr "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/wippyai/wasm-witness/errors"
)

// Field names understood by ByName.
const (
	BN254       = "bn254"
	BLS12_381   = "bls12-381"
	BLS12_377   = "bls12-377"
	GenericName = "generic"
)

var aliases = map[string]string{
	"bn254":     BN254,
	"bn128":     BN254,
	"alt_bn128": BN254,
	"bls12-381": BLS12_381,
	"bls12_381": BLS12_381,
	"bls12381":  BLS12_381,
	"bls12-377": BLS12_377,
	"bls12_377": BLS12_377,
	"bls12377":  BLS12_377,
}

// ByName returns the scalar field of a named curve.
func ByName(name string) (Field, error) {
	canonical, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.NotFound(errors.PhaseField, "field", name)
	}
	switch canonical {
	case BN254:
		return bn254Field{prime: newPrime(BN254, bn254fr.Modulus())}, nil
	case BLS12_381:
		return bls12381Field{prime: newPrime(BLS12_381, bls12381fr.Modulus())}, nil
	default:
		return newGeneric(BLS12_377, ecc.BLS12_377.ScalarField())
	}
}

// FromModulus returns the named field whose scalar modulus is p, or a generic
// field when p matches no known curve.
func FromModulus(p *big.Int) (Field, error) {
	if p == nil {
		return nil, errors.InvalidInput(errors.PhaseField, "modulus must be positive")
	}
	for _, c := range []struct {
		id   ecc.ID
		name string
	}{
		{ecc.BN254, BN254},
		{ecc.BLS12_381, BLS12_381},
		{ecc.BLS12_377, BLS12_377},
	} {
		if c.id.ScalarField().Cmp(p) == 0 {
			return ByName(c.name)
		}
	}
	return NewGeneric(p)
}

type bn254Field struct {
	prime
}

func (f bn254Field) PutLE(dst []byte, v *big.Int) error {
	if err := f.canonical(dst, v); err != nil {
		return err
	}
	var e bn254fr.Element
	e.SetBigInt(v)
	bn254fr.LittleEndian.PutElement((*[bn254fr.Bytes]byte)(dst[:bn254fr.Bytes]), e)
	return nil
}

func (f bn254Field) LE(src []byte) (*big.Int, error) {
	if len(src) < bn254fr.Bytes {
		return nil, shortSource(src)
	}
	e, err := bn254fr.LittleEndian.Element((*[bn254fr.Bytes]byte)(src[:bn254fr.Bytes]))
	if err != nil {
		return nil, errors.New(errors.PhaseField, errors.KindDomain).
			Cause(err).
			Detail("decode %s element", f.name).
			Build()
	}
	return e.BigInt(new(big.Int)), nil
}

// FromMontgomery loads the stored limbs as an element; gnark-crypto keeps
// elements in Montgomery form, so BigInt converts them out.
func (f bn254Field) FromMontgomery(src []byte) (*big.Int, error) {
	u, err := f.leWord(src)
	if err != nil {
		return nil, err
	}
	e := bn254fr.Element(*u)
	return e.BigInt(new(big.Int)), nil
}

type bls12381Field struct {
	prime
}

func (f bls12381Field) PutLE(dst []byte, v *big.Int) error {
	if err := f.canonical(dst, v); err != nil {
		return err
	}
	var e bls12381fr.Element
	e.SetBigInt(v)
	bls12381fr.LittleEndian.PutElement((*[bls12381fr.Bytes]byte)(dst[:bls12381fr.Bytes]), e)
	return nil
}

func (f bls12381Field) LE(src []byte) (*big.Int, error) {
	if len(src) < bls12381fr.Bytes {
		return nil, shortSource(src)
	}
	e, err := bls12381fr.LittleEndian.Element((*[bls12381fr.Bytes]byte)(src[:bls12381fr.Bytes]))
	if err != nil {
		return nil, errors.New(errors.PhaseField, errors.KindDomain).
			Cause(err).
			Detail("decode %s element", f.name).
			Build()
	}
	return e.BigInt(new(big.Int)), nil
}

func (f bls12381Field) FromMontgomery(src []byte) (*big.Int, error) {
	u, err := f.leWord(src)
	if err != nil {
		return nil, err
	}
	e := bls12381fr.Element(*u)
	return e.BigInt(new(big.Int)), nil
}
