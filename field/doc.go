// Package field provides the prime field capability used by the codec:
// reduction to canonical residues and 32-byte little-endian encoding.
//
// Named curve fields (bn254, bls12-381) use gnark-crypto elements, which
// reject non-canonical encodings on decode. Any other prime up to 256 bits is
// served by a generic implementation on fixed-width uint256 words:
//
//	f, err := field.FromModulus(prime) // picks bn254 for the BN254 scalar order
//	var buf [field.Bytes]byte
//	err = f.PutLE(buf[:], f.Reduce(v))
package field
