// Package wasmwitness marshals prime-field values between a Go host and the
// linear memory of a WebAssembly witness calculator.
//
// The guest exposes nothing but a flat byte-addressable memory. Circuit inputs
// are written into it using a fixed binary layout and computed witness values
// are read back with the inverse layout, without disturbing the guest's own
// bump allocator.
//
// # Architecture Overview
//
//	wasmwitness/         Root package with the Memory and Allocator interfaces
//	├── memory/          Bounds-checked accessor and bump allocator
//	├── field/           Prime field capability (reduce, fixed-width LE encoding)
//	├── codec/           Short/long field element encoding and range classifier
//	├── engine/          wazero integration: compiled modules, instances, host modules
//	├── witness/         circom witness calculator driver
//	├── errors/          Structured error types
//	└── cmd/witness/     Command line front-end
//
// # Memory Layout
//
// The first word of memory is the guest's free pointer. Field slots are
// wordCount*4+8 bytes (40 for a 256-bit field):
//
//	+0   low word   short value, or 0 in long form
//	+4   high word  0x80000000 marks long form
//	+8   32 bytes   canonical residue, little-endian (long form only)
//
// Values in (P-2^31, 2^31), read as signed, are stored inline. Everything else
// is reduced modulo P and stored in long form.
//
// # Quick Start
//
//	eng, err := engine.NewWazeroEngine(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	calc, err := witness.New(ctx, eng, wasmBytes, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer calc.Close(ctx)
//
//	w, err := calc.Calculate(ctx, witness.Inputs{"a": {big.NewInt(3)}, "b": {big.NewInt(11)}})
//
// # Thread Safety
//
// Engines and calculators are safe for concurrent use. Every Calculate call
// runs on its own machine instance; instances, accessors and codecs are not
// thread-safe and are never shared.
package wasmwitness
