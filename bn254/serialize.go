package bn254

// EVM wire encodings (EIP-196/197): points travel uncompressed as
// 32-byte big-endian coordinates, G2 with the imaginary part of each
// coordinate first. The neutral element is all zeros. Deserialization
// validates canonicity and curve membership; G2 additionally checks the
// prime-order subgroup, which the pairing precompile requires.

import "errors"

// G1 and G2 wire sizes.
const (
	G1WireSize = 64
	G2WireSize = 128
)

var (
	errNotOnCurve    = errors.New("bn254: point not on curve")
	errWrongSubgroup = errors.New("bn254: point not in prime-order subgroup")
)

// MarshalG1 encodes p as x || y.
func MarshalG1(p *G1Affine) [G1WireSize]byte {
	var out [G1WireSize]byte
	if p.IsInfinity() {
		return out
	}
	xb := p.X.Bytes()
	yb := p.Y.Bytes()
	copy(out[:32], xb[:])
	copy(out[32:], yb[:])
	return out
}

// UnmarshalG1 decodes and validates a 64-byte EVM G1 point.
func UnmarshalG1(data []byte) (G1Affine, error) {
	var out G1Affine
	if len(data) != G1WireSize {
		return out, errNonCanonical
	}
	allZero := true
	for _, b := range data {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return out, nil
	}
	if err := out.X.SetBytes(data[:32]); err != nil {
		return out, err
	}
	if err := out.Y.SetBytes(data[32:]); err != nil {
		return out, err
	}
	if !out.IsOnCurve() {
		return out, errNotOnCurve
	}
	return out, nil
}

// MarshalG2 encodes p as x.c1 || x.c0 || y.c1 || y.c0.
func MarshalG2(p *G2Affine) [G2WireSize]byte {
	var out [G2WireSize]byte
	if p.IsInfinity() {
		return out
	}
	xc1 := p.X.C1.Bytes()
	xc0 := p.X.C0.Bytes()
	yc1 := p.Y.C1.Bytes()
	yc0 := p.Y.C0.Bytes()
	copy(out[0:32], xc1[:])
	copy(out[32:64], xc0[:])
	copy(out[64:96], yc1[:])
	copy(out[96:128], yc0[:])
	return out
}

// UnmarshalG2 decodes and validates a 128-byte EVM G2 point, including
// the subgroup check.
func UnmarshalG2(data []byte) (G2Affine, error) {
	var out G2Affine
	if len(data) != G2WireSize {
		return out, errNonCanonical
	}
	allZero := true
	for _, b := range data {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return out, nil
	}
	if err := out.X.C1.SetBytes(data[0:32]); err != nil {
		return out, err
	}
	if err := out.X.C0.SetBytes(data[32:64]); err != nil {
		return out, err
	}
	if err := out.Y.C1.SetBytes(data[64:96]); err != nil {
		return out, err
	}
	if err := out.Y.C0.SetBytes(data[96:128]); err != nil {
		return out, err
	}
	if !out.IsOnCurve() {
		return out, errNotOnCurve
	}
	if !out.IsInSubgroup() {
		return out, errWrongSubgroup
	}
	return out, nil
}
