// Package errors provides structured error types for the wasm-witness module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a path, the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseInput, errors.KindInvalidData).
//		Path("a", "3").
//		Value(raw).
//		Detail("not an integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MemoryAccessFault(errors.PhaseMemory, offset, 4, size)
//	err := errors.EncodingOverflow(errors.PhaseEncode, v, "u32")
//
// The three marshaling failures have phase-less sentinels:
//
//	if errors.Is(err, wwerrors.ErrMemoryAccessFault) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
