package field

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-witness/errors"
)

const bn254Modulus = "21888242871839275222246405745257275088548364400416034343698204186575808495617"

func mustInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 0)
	require.True(t, ok, "parse %q", s)
	return v
}

func allFields(t *testing.T) []Field {
	t.Helper()
	var fields []Field
	for _, name := range []string{BN254, BLS12_381, BLS12_377} {
		f, err := ByName(name)
		require.NoError(t, err)
		fields = append(fields, f)
	}
	// 2^255 - 19
	g, err := NewGeneric(mustInt(t, "57896044618658097711785492504343953926634992332820282019728792003956564819949"))
	require.NoError(t, err)
	return append(fields, g)
}

func TestByName(t *testing.T) {
	f, err := ByName("bn128")
	require.NoError(t, err)
	assert.Equal(t, BN254, f.Name())
	assert.Equal(t, mustInt(t, bn254Modulus), f.Modulus())

	f, err = ByName("BLS12_381")
	require.NoError(t, err)
	assert.Equal(t, BLS12_381, f.Name())

	_, err = ByName("goldilocks")
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindNotFound})
}

func TestFromModulus(t *testing.T) {
	f, err := FromModulus(mustInt(t, bn254Modulus))
	require.NoError(t, err)
	assert.Equal(t, BN254, f.Name())
	assert.IsType(t, bn254Field{}, f)

	f, err = FromModulus(mustInt(t, "0x73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001"))
	require.NoError(t, err)
	assert.Equal(t, BLS12_381, f.Name())

	f, err = FromModulus(mustInt(t, "18446744069414584321")) // goldilocks
	require.NoError(t, err)
	assert.Equal(t, GenericName, f.Name())
}

func TestNewGeneric_Rejects(t *testing.T) {
	tests := []struct {
		p    *big.Int
		name string
	}{
		{nil, "nil"},
		{big.NewInt(-7), "negative"},
		{big.NewInt(65537), "below 2^32"},
		{new(big.Int).Lsh(big.NewInt(1), 40), "not prime"},
		{new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 257), big.NewInt(1)), "too wide"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGeneric(tt.p)
			assert.Error(t, err)
		})
	}
}

func TestReduceAndSigned(t *testing.T) {
	for _, f := range allFields(t) {
		t.Run(f.Name(), func(t *testing.T) {
			p := f.Modulus()
			pm1 := new(big.Int).Sub(p, big.NewInt(1))

			assert.Equal(t, pm1, f.Reduce(big.NewInt(-1)))
			assert.Equal(t, big.NewInt(5), f.Reduce(new(big.Int).Add(p, big.NewInt(5))))
			assert.Equal(t, big.NewInt(-1), f.Signed(pm1))
			assert.Equal(t, big.NewInt(-1), f.Signed(big.NewInt(-1)))
			assert.Equal(t, big.NewInt(42), f.Signed(big.NewInt(42)))

			half := new(big.Int).Rsh(p, 1)
			assert.Equal(t, half, f.Signed(half))
			assert.Equal(t, -1, f.Signed(new(big.Int).Add(half, big.NewInt(1))).Sign())
		})
	}
}

func TestPutLE_LE(t *testing.T) {
	for _, f := range allFields(t) {
		t.Run(f.Name(), func(t *testing.T) {
			pm1 := new(big.Int).Sub(f.Modulus(), big.NewInt(1))
			for _, v := range []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(500_000_000_000), pm1} {
				var buf [Bytes]byte
				require.NoError(t, f.PutLE(buf[:], v))
				got, err := f.LE(buf[:])
				require.NoError(t, err)
				assert.Equal(t, 0, v.Cmp(got), "round trip %s", v)
			}
		})
	}
}

func TestPutLE_ByteOrder(t *testing.T) {
	for _, f := range allFields(t) {
		t.Run(f.Name(), func(t *testing.T) {
			var buf [Bytes]byte
			require.NoError(t, f.PutLE(buf[:], big.NewInt(0x0102)))

			want := [Bytes]byte{0x02, 0x01}
			assert.Equal(t, want, buf)
		})
	}
}

func TestPutLE_NonCanonical(t *testing.T) {
	for _, f := range allFields(t) {
		t.Run(f.Name(), func(t *testing.T) {
			var buf [Bytes]byte
			err := f.PutLE(buf[:], f.Modulus())
			assert.ErrorIs(t, err, errors.ErrEncodingOverflow)

			err = f.PutLE(buf[:], big.NewInt(-1))
			assert.ErrorIs(t, err, errors.ErrEncodingOverflow)

			err = f.PutLE(buf[:8], big.NewInt(1))
			assert.ErrorIs(t, err, errors.ErrEncodingOverflow)
		})
	}
}

func TestLE_NonCanonical(t *testing.T) {
	for _, f := range allFields(t) {
		t.Run(f.Name(), func(t *testing.T) {
			var buf [Bytes]byte
			for i := range buf {
				buf[i] = 0xFF
			}
			_, err := f.LE(buf[:])
			assert.ErrorIs(t, err, errors.ErrDecodeDomainViolation)

			_, err = f.LE(buf[:31])
			assert.ErrorIs(t, err, errors.ErrMemoryAccessFault)
		})
	}
}

func toMontgomery(f Field, v *big.Int) *big.Int {
	m := new(big.Int).Lsh(v, Bytes*8)
	return m.Mod(m, f.Modulus())
}

func TestFromMontgomery(t *testing.T) {
	for _, f := range allFields(t) {
		t.Run(f.Name(), func(t *testing.T) {
			pMinus1 := new(big.Int).Sub(f.Modulus(), big.NewInt(1))
			for _, v := range []*big.Int{
				big.NewInt(0),
				big.NewInt(1),
				big.NewInt(5),
				big.NewInt(500_000_000_000),
				pMinus1,
			} {
				var buf [Bytes]byte
				require.NoError(t, f.PutLE(buf[:], toMontgomery(f, v)))

				got, err := f.FromMontgomery(buf[:])
				require.NoError(t, err)
				assert.Zero(t, v.Cmp(got), "got %s want %s", got, v)
			}
		})
	}
}

func TestFromMontgomery_Errors(t *testing.T) {
	for _, f := range allFields(t) {
		t.Run(f.Name(), func(t *testing.T) {
			var buf [Bytes]byte
			for i := range buf {
				buf[i] = 0xFF
			}
			_, err := f.FromMontgomery(buf[:])
			assert.ErrorIs(t, err, errors.ErrDecodeDomainViolation)

			_, err = f.FromMontgomery(buf[:16])
			assert.ErrorIs(t, err, errors.ErrMemoryAccessFault)
		})
	}
}
