package witness

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	wasmwitness "github.com/wippyai/wasm-witness"
	"github.com/wippyai/wasm-witness/codec"
	"github.com/wippyai/wasm-witness/errors"
	"github.com/wippyai/wasm-witness/field"
	"github.com/wippyai/wasm-witness/memory"
)

// The fake circuit computes out = a*b + in[0] + in[1] + in[2].
// Signal layout: 0 = constant one, 1 = out, 2 = a, 3 = b, 4..6 = in.
const (
	fakePrimePtr  = 64
	fakeFreeStart = 1024
	fakeNVars     = 7
	fakeOut       = 1
)

var fakeOffsets = map[string]uint32{"a": 2, "b": 3, "in": 4}

type fakeMachine struct {
	acc     *memory.Accessor
	codec   *codec.Codec
	field   field.Field
	mem     memory.Buffer
	signals []*big.Int
	frLen   uint32
	sanity  bool
	closed  bool

	// montgomery returns witness values the way circom's multiplier leaves
	// them: header 0xC0000000 and v*2^256 mod P.
	montgomery bool
	// misalign leaves the free pointer unaligned after the last witness read.
	misalign bool
}

func newFakeMachine(t *testing.T, f field.Field, frLen uint32) *fakeMachine {
	t.Helper()
	mem := memory.NewBuffer(1)
	acc := memory.NewAccessor(mem)
	require.NoError(t, acc.WriteWord(memory.FreePointerOffset, fakeFreeStart))

	var prime [field.Bytes]byte
	p := f.Modulus()
	for i := 0; i < field.Bytes; i++ {
		prime[i] = byte(new(big.Int).Rsh(p, uint(8*i)).Uint64())
	}
	require.NoError(t, acc.WriteBytes(fakePrimePtr, prime[:]))

	cd, err := codec.New(acc, f, memory.DefaultWordCount)
	require.NoError(t, err)

	return &fakeMachine{acc: acc, codec: cd, field: f, mem: mem, frLen: frLen}
}

func (m *fakeMachine) Memory() wasmwitness.Memory {
	return m.mem
}

func (m *fakeMachine) Close(context.Context) error {
	m.closed = true
	return nil
}

func (m *fakeMachine) fail(code uint32) error {
	return errors.Trap(code, errorMessages[code])
}

func (m *fakeMachine) Call(_ context.Context, name string, params ...uint64) ([]uint64, error) {
	switch name {
	case exportInit:
		m.signals = make([]*big.Int, fakeNVars)
		m.signals[0] = big.NewInt(1)
		m.sanity = params[0] == 1
		return nil, nil
	case exportGetFrLen:
		return []uint64{uint64(m.frLen)}, nil
	case exportGetPRawPrime:
		return []uint64{fakePrimePtr}, nil
	case exportGetNVars:
		return []uint64{fakeNVars}, nil
	case exportGetSignalOffset32:
		pR, msb, lsb := uint32(params[0]), uint32(params[2]), uint32(params[3])
		for sig, off := range fakeOffsets {
			if hm, hl := SignalHash(sig); hm == msb && hl == lsb {
				if err := m.acc.WriteWord(pR, off); err != nil {
					return nil, err
				}
				return nil, nil
			}
		}
		return nil, m.fail(ErrCodeSignalNotFound)
	case exportSetSignal:
		sig, pVal := uint32(params[2]), uint32(params[3])
		if sig >= fakeNVars {
			return nil, m.fail(ErrCodeTooManySignals)
		}
		if m.signals[sig] != nil {
			return nil, m.fail(ErrCodeSignalAlreadySet)
		}
		v, err := m.codec.Read(pVal)
		if err != nil {
			return nil, err
		}
		m.signals[sig] = m.field.Reduce(v)
		m.evaluate()
		return nil, nil
	case exportGetPWitness:
		v := m.signals[params[0]]
		if v == nil {
			return nil, m.fail(ErrCodeAssertFailed)
		}
		p, err := m.witnessSlot(v)
		if err != nil {
			return nil, m.fail(ErrCodeNotEnoughMemory)
		}
		if m.misalign && params[0] == fakeNVars-1 {
			fp, err := m.acc.ReadWord(memory.FreePointerOffset)
			if err != nil {
				return nil, err
			}
			if err := m.acc.WriteWord(memory.FreePointerOffset, fp+1); err != nil {
				return nil, err
			}
		}
		return []uint64{uint64(p)}, nil
	default:
		return nil, errors.NotFound(errors.PhaseRuntime, "export", name)
	}
}

func (m *fakeMachine) witnessSlot(v *big.Int) (uint32, error) {
	if !m.montgomery {
		return m.codec.Alloc(v)
	}
	p, err := m.codec.Allocator().AllocFieldSlot()
	if err != nil {
		return 0, err
	}
	r := new(big.Int).Lsh(v, field.Bytes*8)
	r.Mod(r, m.field.Modulus())
	var buf [field.Bytes]byte
	if err := m.field.PutLE(buf[:], r); err != nil {
		return 0, err
	}
	if err := m.acc.WriteWord(p, 0); err != nil {
		return 0, err
	}
	if err := m.acc.WriteWord(p+4, codec.LongMarker|codec.MontgomeryFlag); err != nil {
		return 0, err
	}
	return p, m.acc.WriteBytes(p+8, buf[:])
}

func (m *fakeMachine) evaluate() {
	for i := 2; i < fakeNVars; i++ {
		if m.signals[i] == nil {
			return
		}
	}
	out := new(big.Int).Mul(m.signals[2], m.signals[3])
	for i := 4; i < fakeNVars; i++ {
		out.Add(out, m.signals[i])
	}
	m.signals[fakeOut] = m.field.Reduce(out)
}

type fakeLoader struct {
	t        *testing.T
	field    field.Field
	machines []*fakeMachine
	frLen    uint32
	mu       sync.Mutex
	closed   bool

	montgomery bool
	misalign   bool
}

func newFakeLoader(t *testing.T) *fakeLoader {
	t.Helper()
	f, err := field.ByName(field.BN254)
	require.NoError(t, err)
	return &fakeLoader{t: t, field: f, frLen: 40}
}

func (l *fakeLoader) Instantiate(context.Context) (Machine, error) {
	m := newFakeMachine(l.t, l.field, l.frLen)
	m.montgomery = l.montgomery
	m.misalign = l.misalign
	l.mu.Lock()
	l.machines = append(l.machines, m)
	l.mu.Unlock()
	return m, nil
}

func (l *fakeLoader) Close(context.Context) error {
	l.closed = true
	return nil
}

func (l *fakeLoader) last() *fakeMachine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.machines[len(l.machines)-1]
}
