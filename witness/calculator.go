package witness

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-witness/codec"
	"github.com/wippyai/wasm-witness/engine"
	"github.com/wippyai/wasm-witness/errors"
	"github.com/wippyai/wasm-witness/field"
	"github.com/wippyai/wasm-witness/memory"
)

// Guest exports of the circom witness calculator ABI.
const (
	exportInit              = "init"
	exportGetFrLen          = "getFrLen"
	exportGetPRawPrime      = "getPRawPrime"
	exportGetNVars          = "getNVars"
	exportGetSignalOffset32 = "getSignalOffset32"
	exportSetSignal         = "setSignal"
	exportGetPWitness       = "getPWitness"
)

// Config holds calculator configuration
type Config struct {
	// Field is the expected field name (see field.ByName). Empty accepts
	// whatever prime the circuit reports.
	Field string

	// WordCount is the expected number of 32-bit words per field element.
	// 0 accepts what the circuit reports.
	WordCount uint32

	// SanityCheck enables the guest's own runtime checks.
	SanityCheck bool
}

// Calculator computes witnesses with a compiled circom guest. It is safe for
// concurrent use: every computation runs on its own machine instance.
type Calculator struct {
	loader    Loader
	field     field.Field
	cfg       Config
	wordCount uint32
	nVars     uint32
	runs      atomic.Uint64
}

// New compiles wasm in eng and probes the circuit's field and size.
func New(ctx context.Context, eng *engine.WazeroEngine, wasm []byte, cfg *Config) (*Calculator, error) {
	if eng == nil {
		return nil, errors.NotInitialized(errors.PhaseLoad, "engine")
	}
	if err := eng.InitHostModule(ctx, RuntimeModule()); err != nil {
		return nil, err
	}
	mod, err := eng.LoadModule(ctx, wasm)
	if err != nil {
		return nil, err
	}
	if err := checkExports(mod.ExportNames()); err != nil {
		_ = mod.Close(ctx)
		return nil, err
	}
	calc, err := NewWithLoader(ctx, engineLoader{module: mod}, cfg)
	if err != nil {
		_ = mod.Close(ctx)
		return nil, err
	}
	return calc, nil
}

var requiredExports = []string{
	exportInit,
	exportGetFrLen,
	exportGetPRawPrime,
	exportGetNVars,
	exportGetSignalOffset32,
	exportSetSignal,
	exportGetPWitness,
}

func checkExports(names []string) error {
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	for _, want := range requiredExports {
		if !have[want] {
			return errors.NotFound(errors.PhaseLoad, "export", want)
		}
	}
	return nil
}

// NewWithLoader creates a calculator over any machine loader.
func NewWithLoader(ctx context.Context, loader Loader, cfg *Config) (*Calculator, error) {
	c := &Calculator{loader: loader}
	if cfg != nil {
		c.cfg = *cfg
	}
	if err := c.probe(ctx); err != nil {
		return nil, err
	}
	Logger().Info("witness calculator ready",
		zap.String("field", c.field.Name()),
		zap.Uint32("n32", c.wordCount),
		zap.Uint32("vars", c.nVars))
	return c, nil
}

func (c *Calculator) probe(ctx context.Context) error {
	m, err := c.loader.Instantiate(ctx)
	if err != nil {
		return err
	}
	defer m.Close(ctx)

	s := &session{}
	ctx = withSession(ctx, s)

	frLen, err := call32(ctx, m, s, exportGetFrLen)
	if err != nil {
		return err
	}
	if frLen%memory.WordSize != 0 || frLen <= 8 {
		return errors.InvalidData(errors.PhaseLoad, nil, fmt.Sprintf("field slot length %d", frLen))
	}
	n32 := frLen/memory.WordSize - 2
	if c.cfg.WordCount != 0 && c.cfg.WordCount != n32 {
		return errors.InvalidInput(errors.PhaseLoad,
			fmt.Sprintf("circuit uses %d-word field elements, expected %d", n32, c.cfg.WordCount))
	}
	if n32*memory.WordSize != field.Bytes {
		return errors.Unsupported(errors.PhaseLoad, fmt.Sprintf("%d-word field elements", n32))
	}

	pPrime, err := call32(ctx, m, s, exportGetPRawPrime)
	if err != nil {
		return err
	}
	raw, err := memory.NewAccessor(m.Memory()).ReadBytes(pPrime, n32*memory.WordSize)
	if err != nil {
		return err
	}
	prime := leToInt(raw)

	f, err := field.FromModulus(prime)
	if err != nil {
		return err
	}
	if c.cfg.Field != "" {
		want, err := field.ByName(c.cfg.Field)
		if err != nil {
			return err
		}
		if want.Modulus().Cmp(prime) != 0 {
			return errors.InvalidInput(errors.PhaseLoad,
				fmt.Sprintf("circuit prime %s is not the %s scalar field", prime, want.Name()))
		}
		f = want
	}

	nVars, err := call32(ctx, m, s, exportGetNVars)
	if err != nil {
		return err
	}

	c.field = f
	c.wordCount = n32
	c.nVars = nVars
	return nil
}

// Field returns the circuit's field.
func (c *Calculator) Field() field.Field {
	return c.field
}

// WordCount returns the number of 32-bit words per field element.
func (c *Calculator) WordCount() uint32 {
	return c.wordCount
}

// NVars returns the number of witness values.
func (c *Calculator) NVars() uint32 {
	return c.nVars
}

// Calculate runs one witness computation on a fresh machine instance and
// returns every witness value as a canonical residue.
func (c *Calculator) Calculate(ctx context.Context, inputs Inputs) ([]*big.Int, error) {
	run := c.runs.Add(1)
	log := Logger().With(zap.Uint64("run", run))

	m, err := c.loader.Instantiate(ctx)
	if err != nil {
		return nil, err
	}
	defer m.Close(ctx)

	acc := memory.NewAccessor(m.Memory())
	if acc == nil {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "memory")
	}
	cd, err := codec.New(acc, c.field, c.wordCount)
	if err != nil {
		return nil, err
	}
	s := &session{codec: cd}
	ctx = withSession(ctx, s)

	sanity := uint64(0)
	if c.cfg.SanityCheck {
		sanity = 1
	}
	if _, err := call(ctx, m, s, exportInit, sanity); err != nil {
		return nil, err
	}

	for _, name := range inputs.Names() {
		if err := c.setInput(ctx, m, s, acc, name, inputs[name]); err != nil {
			return nil, err
		}
	}

	w := make([]*big.Int, c.nVars)
	for i := uint32(0); i < c.nVars; i++ {
		ptr, err := call32(ctx, m, s, exportGetPWitness, uint64(i))
		if err != nil {
			return nil, err
		}
		v, err := cd.Read(ptr)
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path("witness", strconv.FormatUint(uint64(i), 10)).
				Cause(err).
				Detail("read witness value").
				Build()
		}
		w[i] = c.field.Reduce(v)
	}

	fields := []zap.Field{zap.Int("inputs", len(inputs))}
	if fp, err := cd.Allocator().FreePointer(); err != nil {
		log.Warn("read free pointer", zap.Error(err))
	} else {
		fields = append(fields, zap.Uint32("free_pointer", fp))
	}
	log.Debug("witness computed", fields...)
	return w, nil
}

// CalculateSigned is Calculate with values mapped to (-P/2, P/2].
func (c *Calculator) CalculateSigned(ctx context.Context, inputs Inputs) ([]*big.Int, error) {
	w, err := c.Calculate(ctx, inputs)
	if err != nil {
		return nil, err
	}
	for i, v := range w {
		w[i] = c.field.Signed(v)
	}
	return w, nil
}

func (c *Calculator) setInput(ctx context.Context, m Machine, s *session, acc *memory.Accessor, name string, values []*big.Int) error {
	msb, lsb := SignalHash(name)

	pOffset, err := s.codec.Allocator().AllocWord()
	if err != nil {
		return err
	}
	if _, err := call(ctx, m, s, exportGetSignalOffset32, uint64(pOffset), 0, uint64(msb), uint64(lsb)); err != nil {
		return errors.New(errors.PhaseRuntime, errors.KindNotFound).
			Path(name).
			Cause(err).
			Detail("resolve input signal").
			Build()
	}
	offset, err := acc.ReadWord(pOffset)
	if err != nil {
		return err
	}

	for i, v := range values {
		p, err := s.codec.Alloc(v)
		if err != nil {
			return errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(name, strconv.Itoa(i)).
				Value(v).
				Cause(err).
				Detail("write input value").
				Build()
		}
		if _, err := call(ctx, m, s, exportSetSignal, 0, 0, uint64(offset)+uint64(i), uint64(p)); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the compiled guest.
func (c *Calculator) Close(ctx context.Context) error {
	return c.loader.Close(ctx)
}

func call(ctx context.Context, m Machine, s *session, name string, params ...uint64) ([]uint64, error) {
	res, err := m.Call(ctx, name, params...)
	if err != nil {
		if s.err != nil {
			trap := *s.err
			trap.Cause = err
			return nil, &trap
		}
		return nil, err
	}
	return res, nil
}

func call32(ctx context.Context, m Machine, s *session, name string, params ...uint64) (uint32, error) {
	res, err := call(ctx, m, s, name, params...)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, errors.InvalidData(errors.PhaseRuntime, []string{name}, "no result")
	}
	return uint32(res[0]), nil
}

// leToInt reads an unsigned little-endian integer.
func leToInt(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}
