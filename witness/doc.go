// Package witness drives circom witness calculator guests.
//
// A guest is a core WASM module exporting memory, init, getFrLen,
// getPRawPrime, getNVars, getSignalOffset32, setSignal and getPWitness, and
// importing the "runtime" host module (see RuntimeModule).
//
// Each Calculate call gets a fresh instance, so the guest's bump allocator
// starts clean and its memory is reclaimed when the computation ends:
//
//	calc, err := witness.New(ctx, eng, wasmBytes, &witness.Config{Field: "bn254"})
//	if err != nil {
//	    return err
//	}
//	defer calc.Close(ctx)
//
//	in, err := witness.ParseInputs(f)
//	w, err := calc.Calculate(ctx, in)
//
// Input values are written with the codec package: values in (-2^31, 2^31)
// inline, everything else reduced modulo P in long form.
package witness
