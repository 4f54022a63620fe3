package witness

import (
	"bytes"
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-witness/codec"
	"github.com/wippyai/wasm-witness/engine"
	"github.com/wippyai/wasm-witness/errors"
	"github.com/wippyai/wasm-witness/memory"
)

// RuntimeModuleName is the import module circom guests expect.
const RuntimeModuleName = "runtime"

// Guest error codes passed to runtime.error.
const (
	ErrCodeSignalNotFound   = 1
	ErrCodeTooManySignals   = 2
	ErrCodeSignalAlreadySet = 3
	ErrCodeAssertFailed     = 4
	ErrCodeNotEnoughMemory  = 5
)

var errorMessages = map[uint32]string{
	ErrCodeSignalNotFound:   "signal not found",
	ErrCodeTooManySignals:   "too many signals set",
	ErrCodeSignalAlreadySet: "signal already set",
	ErrCodeAssertFailed:     "assert failed",
	ErrCodeNotEnoughMemory:  "not enough memory",
}

// maxGuestString bounds how far a NUL-terminated guest string is scanned.
const maxGuestString = 1024

// session is the per-computation state host functions reach through the
// call context.
type session struct {
	codec *codec.Codec
	err   *errors.Error
}

type sessionKey struct{}

func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func sessionFrom(ctx context.Context) *session {
	s, _ := ctx.Value(sessionKey{}).(*session)
	return s
}

// RuntimeModule returns the host imports of a circom guest. Instances of
// every calculator in an engine share it.
func RuntimeModule() engine.HostModule {
	return engine.HostModule{
		Name: RuntimeModuleName,
		Funcs: map[string]any{
			"error":              guestError,
			"log":                guestLog,
			"logSetSignal":       logSignal("logSetSignal"),
			"logGetSignal":       logSignal("logGetSignal"),
			"logStartComponent":  logComponent("logStartComponent"),
			"logFinishComponent": logComponent("logFinishComponent"),
		},
	}
}

// guestError aborts the running call. The panic value is returned by the
// guest call as its error.
func guestError(ctx context.Context, m api.Module, code, pstr, a, b, c, d uint32) {
	msg := errorMessages[code]
	if msg == "" {
		msg = "unknown error"
	}
	if pstr != 0 {
		if s := readCString(memory.NewAccessor(m.Memory()), pstr); s != "" {
			msg += ": " + s
		}
	}

	trap := errors.Trap(code, msg)
	if s := sessionFrom(ctx); s != nil && s.err == nil {
		s.err = trap
	}
	Logger().Warn("guest error",
		zap.Uint32("code", code),
		zap.String("message", msg),
		zap.Uint32s("args", []uint32{a, b, c, d}))
	panic(trap)
}

func guestLog(ctx context.Context, pVal uint32) {
	Logger().Debug("log", zap.Stringer("value", readValue(ctx, pVal)))
}

func logSignal(name string) func(context.Context, uint32, uint32) {
	return func(ctx context.Context, signal, pVal uint32) {
		Logger().Debug(name, zap.Uint32("signal", signal), zap.Stringer("value", readValue(ctx, pVal)))
	}
}

func logComponent(name string) func(context.Context, uint32) {
	return func(_ context.Context, cIdx uint32) {
		Logger().Debug(name, zap.Uint32("component", cIdx))
	}
}

type logValue struct {
	s *session
	p uint32
}

func (v logValue) String() string {
	if v.s == nil || v.s.codec == nil {
		return "<no session>"
	}
	n, err := v.s.codec.Read(v.p)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return n.String()
}

func readValue(ctx context.Context, p uint32) logValue {
	return logValue{s: sessionFrom(ctx), p: p}
}

func readCString(acc *memory.Accessor, ptr uint32) string {
	if acc == nil || ptr >= acc.Size() {
		return ""
	}
	n := acc.Size() - ptr
	if n > maxGuestString {
		n = maxGuestString
	}
	raw, err := acc.ReadBytes(ptr, n)
	if err != nil {
		return ""
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}
