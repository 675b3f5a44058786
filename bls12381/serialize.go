package bls12381

// Point serialization, ZCash flag convention.
//
// Compressed G1 is 48 bytes, compressed G2 is 96; the three top bits of
// the first byte carry flags:
//   - bit 7: compression flag (set on compressed encodings)
//   - bit 6: infinity flag (remaining bits must be zero)
//   - bit 5: sort flag (y is the lexicographically larger root)
//
// Uncompressed forms are 96/192 bytes with both coordinates and the
// same flag positions (sort flag clear). Deserialization validates
// canonicity, curve membership and prime-order subgroup membership, and
// reports each failure class as a distinct error.

import "errors"

// Encoded sizes.
const (
	G1CompressedSize   = 48
	G1UncompressedSize = 96
	G2CompressedSize   = 96
	G2UncompressedSize = 192
)

// Deserialization errors.
var (
	ErrShortBuffer   = errors.New("bls12381: wrong encoding length")
	ErrBadFlags      = errors.New("bls12381: malformed flag bits")
	ErrNonCanonical  = errors.New("bls12381: coordinate not canonical")
	ErrNotOnCurve    = errors.New("bls12381: point not on curve")
	ErrWrongSubgroup = errors.New("bls12381: point not in prime-order subgroup")
)

const (
	flagCompressed = 0x80
	flagInfinity   = 0x40
	flagSort       = 0x20
)

// CompressG1 returns the 48-byte compressed encoding of p.
func CompressG1(p *G1Affine) [G1CompressedSize]byte {
	var out [G1CompressedSize]byte
	if p.IsInfinity() {
		out[0] = flagCompressed | flagInfinity
		return out
	}
	xb := p.X.Bytes()
	copy(out[:], xb[:])
	out[0] |= flagCompressed
	if p.Y.LexicographicallyLargest() {
		out[0] |= flagSort
	}
	return out
}

// DecompressG1 parses a compressed encoding, enforcing canonical
// coordinates, curve and subgroup membership.
func DecompressG1(data []byte) (G1Affine, error) {
	var out G1Affine
	if len(data) != G1CompressedSize {
		return out, ErrShortBuffer
	}
	if data[0]&flagCompressed == 0 {
		return out, ErrBadFlags
	}
	var buf [G1CompressedSize]byte
	copy(buf[:], data)
	flags := buf[0]
	buf[0] &= 0x1f

	if flags&flagInfinity != 0 {
		if flags&flagSort != 0 {
			return out, ErrBadFlags
		}
		for _, b := range buf {
			if b != 0 {
				return out, ErrBadFlags
			}
		}
		return out, nil
	}

	if err := out.X.SetBytes(buf[:]); err != nil {
		return out, ErrNonCanonical
	}
	// y^2 = x^3 + 4.
	var rhs, b4 Fp
	rhs.Square(&out.X)
	rhs.Mul(&rhs, &out.X)
	b4.SetUint64(4)
	rhs.Add(&rhs, &b4)
	if !out.Y.Sqrt(&rhs) {
		return out, ErrNotOnCurve
	}
	if out.Y.LexicographicallyLargest() != (flags&flagSort != 0) {
		out.Y.Neg(&out.Y)
	}
	if !out.IsInSubgroup() {
		return out, ErrWrongSubgroup
	}
	return out, nil
}

// SerializeG1 returns the 96-byte uncompressed encoding.
func SerializeG1(p *G1Affine) [G1UncompressedSize]byte {
	var out [G1UncompressedSize]byte
	if p.IsInfinity() {
		out[0] = flagInfinity
		return out
	}
	xb := p.X.Bytes()
	yb := p.Y.Bytes()
	copy(out[:FpBytes], xb[:])
	copy(out[FpBytes:], yb[:])
	return out
}

// DeserializeG1 parses the uncompressed encoding with full validation.
func DeserializeG1(data []byte) (G1Affine, error) {
	var out G1Affine
	if len(data) != G1UncompressedSize {
		return out, ErrShortBuffer
	}
	var buf [G1UncompressedSize]byte
	copy(buf[:], data)
	flags := buf[0]
	if flags&flagCompressed != 0 || flags&flagSort != 0 {
		return out, ErrBadFlags
	}
	buf[0] &= 0x1f
	if flags&flagInfinity != 0 {
		for _, b := range buf {
			if b != 0 {
				return out, ErrBadFlags
			}
		}
		return out, nil
	}
	if err := out.X.SetBytes(buf[:FpBytes]); err != nil {
		return out, ErrNonCanonical
	}
	if err := out.Y.SetBytes(buf[FpBytes:]); err != nil {
		return out, ErrNonCanonical
	}
	if !out.IsOnCurve() {
		return out, ErrNotOnCurve
	}
	if !out.IsInSubgroup() {
		return out, ErrWrongSubgroup
	}
	return out, nil
}

// CompressG2 returns the 96-byte compressed encoding: x.c1 first, then
// x.c0, with flags on the leading byte.
func CompressG2(p *G2Affine) [G2CompressedSize]byte {
	var out [G2CompressedSize]byte
	if p.IsInfinity() {
		out[0] = flagCompressed | flagInfinity
		return out
	}
	c1 := p.X.C1.Bytes()
	c0 := p.X.C0.Bytes()
	copy(out[:FpBytes], c1[:])
	copy(out[FpBytes:], c0[:])
	out[0] |= flagCompressed
	if p.Y.LexicographicallyLargest() {
		out[0] |= flagSort
	}
	return out
}

// DecompressG2 parses a compressed encoding with full validation.
func DecompressG2(data []byte) (G2Affine, error) {
	var out G2Affine
	if len(data) != G2CompressedSize {
		return out, ErrShortBuffer
	}
	if data[0]&flagCompressed == 0 {
		return out, ErrBadFlags
	}
	var buf [G2CompressedSize]byte
	copy(buf[:], data)
	flags := buf[0]
	buf[0] &= 0x1f

	if flags&flagInfinity != 0 {
		if flags&flagSort != 0 {
			return out, ErrBadFlags
		}
		for _, b := range buf {
			if b != 0 {
				return out, ErrBadFlags
			}
		}
		return out, nil
	}

	if err := out.X.C1.SetBytes(buf[:FpBytes]); err != nil {
		return out, ErrNonCanonical
	}
	if err := out.X.C0.SetBytes(buf[FpBytes:]); err != nil {
		return out, ErrNonCanonical
	}
	var rhs Fp2
	rhs.Square(&out.X)
	rhs.Mul(&rhs, &out.X)
	rhs.Add(&rhs, &g2B)
	if !out.Y.Sqrt(&rhs) {
		return out, ErrNotOnCurve
	}
	if out.Y.LexicographicallyLargest() != (flags&flagSort != 0) {
		out.Y.Neg(&out.Y)
	}
	if !out.IsInSubgroup() {
		return out, ErrWrongSubgroup
	}
	return out, nil
}

// SerializeG2 returns the 192-byte uncompressed encoding.
func SerializeG2(p *G2Affine) [G2UncompressedSize]byte {
	var out [G2UncompressedSize]byte
	if p.IsInfinity() {
		out[0] = flagInfinity
		return out
	}
	xc1 := p.X.C1.Bytes()
	xc0 := p.X.C0.Bytes()
	yc1 := p.Y.C1.Bytes()
	yc0 := p.Y.C0.Bytes()
	copy(out[0*FpBytes:], xc1[:])
	copy(out[1*FpBytes:], xc0[:])
	copy(out[2*FpBytes:], yc1[:])
	copy(out[3*FpBytes:], yc0[:])
	return out
}

// DeserializeG2 parses the uncompressed encoding with full validation.
func DeserializeG2(data []byte) (G2Affine, error) {
	var out G2Affine
	if len(data) != G2UncompressedSize {
		return out, ErrShortBuffer
	}
	var buf [G2UncompressedSize]byte
	copy(buf[:], data)
	flags := buf[0]
	if flags&flagCompressed != 0 || flags&flagSort != 0 {
		return out, ErrBadFlags
	}
	buf[0] &= 0x1f
	if flags&flagInfinity != 0 {
		for _, b := range buf {
			if b != 0 {
				return out, ErrBadFlags
			}
		}
		return out, nil
	}
	if err := out.X.C1.SetBytes(buf[0*FpBytes : 1*FpBytes]); err != nil {
		return out, ErrNonCanonical
	}
	if err := out.X.C0.SetBytes(buf[1*FpBytes : 2*FpBytes]); err != nil {
		return out, ErrNonCanonical
	}
	if err := out.Y.C1.SetBytes(buf[2*FpBytes : 3*FpBytes]); err != nil {
		return out, ErrNonCanonical
	}
	if err := out.Y.C0.SetBytes(buf[3*FpBytes:]); err != nil {
		return out, ErrNonCanonical
	}
	if !out.IsOnCurve() {
		return out, ErrNotOnCurve
	}
	if !out.IsInSubgroup() {
		return out, ErrWrongSubgroup
	}
	return out, nil
}
