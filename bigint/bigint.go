// Package bigint provides fixed-width multi-limb integer arithmetic and
// the constant-time word primitives the field layers are built on.
//
// Values are little-endian limb slices of a fixed length chosen by the
// caller (4 limbs for 254/255-bit moduli, 6 limbs for 381-bit). All
// functions operate on equal-length slices; only WNAFVartime allocates
// (it returns a new digit slice). Unless a
// function carries the Vartime suffix, its control flow and memory access
// pattern are independent of the limb values, so it is safe on secrets.
package bigint

import "math/bits"

// MaxLimbs is the largest limb count any field in this module uses
// (BLS12-381 base field, 6 x 64 bits). Scratch arrays are sized by it.
const MaxLimbs = 6

// Add sets z = x + y and returns the carry-out. z, x and y must have the
// same length; z may alias either input.
func Add(z, x, y []uint64) uint64 {
	var c uint64
	for i := range x {
		z[i], c = bits.Add64(x[i], y[i], c)
	}
	return c
}

// Sub sets z = x - y and returns the borrow-out.
func Sub(z, x, y []uint64) uint64 {
	var b uint64
	for i := range x {
		z[i], b = bits.Sub64(x[i], y[i], b)
	}
	return b
}

// mask64 turns a 0/1 control word into an all-zeros/all-ones mask.
func mask64(ctl uint64) uint64 {
	return -(ctl & 1)
}

// Ccopy copies x into z when ctl is 1 and leaves z untouched when ctl
// is 0, reading and writing every limb either way.
func Ccopy(z, x []uint64, ctl uint64) {
	m := mask64(ctl)
	for i := range z {
		z[i] ^= m & (z[i] ^ x[i])
	}
}

// Cswap exchanges x and y when ctl is 1.
func Cswap(x, y []uint64, ctl uint64) {
	m := mask64(ctl)
	for i := range x {
		t := m & (x[i] ^ y[i])
		x[i] ^= t
		y[i] ^= t
	}
}

// Cadd sets z = z + x when ctl is 1 and returns the carry that the
// selected addition produced (0 when ctl is 0).
func Cadd(z, x []uint64, ctl uint64) uint64 {
	m := mask64(ctl)
	var c uint64
	for i := range z {
		z[i], c = bits.Add64(z[i], m&x[i], c)
	}
	return c
}

// Csub sets z = z - x when ctl is 1 and returns the borrow.
func Csub(z, x []uint64, ctl uint64) uint64 {
	m := mask64(ctl)
	var b uint64
	for i := range z {
		z[i], b = bits.Sub64(z[i], m&x[i], b)
	}
	return b
}

// IsZero returns 1 when every limb of x is zero, else 0.
func IsZero(x []uint64) uint64 {
	var acc uint64
	for i := range x {
		acc |= x[i]
	}
	return nonzeroToZero(acc)
}

// Eq returns 1 when x == y limb-wise, else 0.
func Eq(x, y []uint64) uint64 {
	var acc uint64
	for i := range x {
		acc |= x[i] ^ y[i]
	}
	return nonzeroToZero(acc)
}

// nonzeroToZero maps 0 to 1 and any nonzero word to 0, branch-free.
func nonzeroToZero(w uint64) uint64 {
	return 1 ^ ((w | -w) >> 63)
}

// Lt returns 1 when x < y as unsigned integers, else 0.
func Lt(x, y []uint64) uint64 {
	var scratch [MaxLimbs]uint64
	return Sub(scratch[:len(x)], x, y)
}

// SetZero clears every limb of z.
func SetZero(z []uint64) {
	for i := range z {
		z[i] = 0
	}
}

// Set copies x into z.
func Set(z, x []uint64) {
	copy(z, x)
}

// MontMul sets z = x*y*R^-1 mod m with R = 2^(64*len(m)), using
// word-by-word CIOS Montgomery multiplication. n0 is -m^-1 mod 2^64.
// Inputs must be < m; the output is fully reduced. z may alias x or y.
func MontMul(z, x, y, m []uint64, n0 uint64) {
	n := len(m)
	var t [MaxLimbs + 2]uint64
	for i := 0; i < n; i++ {
		yi := y[i]
		var c uint64
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(x[j], yi)
			var cc uint64
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j] = lo
			c = hi
		}
		var cc uint64
		t[n], cc = bits.Add64(t[n], c, 0)
		t[n+1] = cc

		mw := t[0] * n0
		hi, lo := bits.Mul64(mw, m[0])
		_, cc = bits.Add64(lo, t[0], 0)
		c = hi + cc
		for j := 1; j < n; j++ {
			hi, lo = bits.Mul64(mw, m[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1] = lo
			c = hi
		}
		t[n-1], cc = bits.Add64(t[n], c, 0)
		t[n] = t[n+1] + cc
		t[n+1] = 0
	}
	// One conditional subtraction brings the result below m. The extra
	// word t[n] is folded into the borrow chain so the selection is a
	// single constant-time test.
	var sub [MaxLimbs]uint64
	b := Sub(sub[:n], t[:n], m)
	_, b = bits.Sub64(t[n], 0, b)
	copy(z, t[:n])
	Ccopy(z, sub[:n], 1^b)
}

// ModAdd sets z = x + y mod m for x, y < m.
func ModAdd(z, x, y, m []uint64) {
	n := len(m)
	var sub [MaxLimbs]uint64
	c := Add(z, x, y)
	b := Sub(sub[:n], z, m)
	_, b = bits.Sub64(c, 0, b)
	Ccopy(z, sub[:n], 1^b)
}

// ModSub sets z = x - y mod m for x, y < m.
func ModSub(z, x, y, m []uint64) {
	b := Sub(z, x, y)
	Cadd(z, m, b)
}

// ModNeg sets z = -x mod m for x < m, keeping 0 fixed.
func ModNeg(z, x, m []uint64) {
	n := len(m)
	var t [MaxLimbs]uint64
	nz := 1 ^ IsZero(x)
	Sub(t[:n], m, x)
	SetZero(z)
	Ccopy(z, t[:n], nz)
}

// ModHalve sets z = x/2 mod m for odd m: shift right, and when x was odd
// first add m (the addition's carry supplies the shifted-out top bit).
func ModHalve(z, x, m []uint64) {
	n := len(m)
	var t [MaxLimbs]uint64
	copy(t[:n], x)
	odd := x[0] & 1
	c := Cadd(t[:n], m, odd)
	for i := 0; i < n-1; i++ {
		z[i] = t[i]>>1 | t[i+1]<<63
	}
	z[n-1] = t[n-1]>>1 | c<<63
}

// SetBytesBE parses a big-endian byte string into z. The input must be
// exactly 8*len(z) bytes; the scan is constant-time in the byte values.
func SetBytesBE(z []uint64, b []byte) {
	n := len(z)
	for i := 0; i < n; i++ {
		off := (n - 1 - i) * 8
		z[i] = uint64(b[off])<<56 | uint64(b[off+1])<<48 | uint64(b[off+2])<<40 |
			uint64(b[off+3])<<32 | uint64(b[off+4])<<24 | uint64(b[off+5])<<16 |
			uint64(b[off+6])<<8 | uint64(b[off+7])
	}
}

// BytesBE writes z as a big-endian byte string into b (8*len(z) bytes).
func BytesBE(b []byte, z []uint64) {
	n := len(z)
	for i := 0; i < n; i++ {
		off := (n - 1 - i) * 8
		w := z[i]
		b[off] = byte(w >> 56)
		b[off+1] = byte(w >> 48)
		b[off+2] = byte(w >> 40)
		b[off+3] = byte(w >> 32)
		b[off+4] = byte(w >> 24)
		b[off+5] = byte(w >> 16)
		b[off+6] = byte(w >> 8)
		b[off+7] = byte(w)
	}
}

// SetBytesLE parses a little-endian byte string (8*len(z) bytes) into z.
func SetBytesLE(z []uint64, b []byte) {
	for i := range z {
		off := i * 8
		z[i] = uint64(b[off]) | uint64(b[off+1])<<8 | uint64(b[off+2])<<16 |
			uint64(b[off+3])<<24 | uint64(b[off+4])<<32 | uint64(b[off+5])<<40 |
			uint64(b[off+6])<<48 | uint64(b[off+7])<<56
	}
}

// BytesLE writes z as a little-endian byte string into b.
func BytesLE(b []byte, z []uint64) {
	for i := range z {
		off := i * 8
		w := z[i]
		b[off] = byte(w)
		b[off+1] = byte(w >> 8)
		b[off+2] = byte(w >> 16)
		b[off+3] = byte(w >> 24)
		b[off+4] = byte(w >> 32)
		b[off+5] = byte(w >> 40)
		b[off+6] = byte(w >> 48)
		b[off+7] = byte(w >> 56)
	}
}

// Bit returns bit i of x (little-endian limb order).
func Bit(x []uint64, i uint) uint64 {
	return x[i/64] >> (i % 64) & 1
}

// BitLenVartime returns the position of the highest set bit plus one.
func BitLenVartime(x []uint64) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return i*64 + bits.Len64(x[i])
		}
	}
	return 0
}

// Window extracts the w-bit window starting at bit position pos,
// constant-time in the limb values (pos and w are public).
func Window(x []uint64, pos, w uint) uint64 {
	i := pos / 64
	sh := pos % 64
	v := x[i] >> sh
	if sh+w > 64 && i+1 < uint(len(x)) {
		v |= x[i+1] << (64 - sh)
	}
	return v & (1<<w - 1)
}

// WNAFVartime recodes the scalar x into width-w non-adjacent form,
// least-significant digit first. Digits are odd values in
// [-(2^(w-1)-1), 2^(w-1)-1] or zero. Variable-time: for public scalars
// only.
func WNAFVartime(x []uint64, w uint) []int8 {
	n := len(x)
	k := make([]uint64, n)
	copy(k, x)
	out := make([]int8, 0, 64*n+1)
	mod := uint64(1) << w
	for IsZero(k) == 0 {
		var d int8
		if k[0]&1 == 1 {
			u := k[0] & (mod - 1)
			if u >= mod/2 {
				d = int8(u) - int8(mod)
				// k -= d means adding |d|
				var carry uint64 = uint64(-d)
				for i := 0; i < n && carry != 0; i++ {
					k[i], carry = bits.Add64(k[i], carry, 0)
				}
			} else {
				d = int8(u)
				var borrow uint64 = uint64(d)
				for i := 0; i < n && borrow != 0; i++ {
					var bb uint64
					k[i], bb = bits.Sub64(k[i], borrow, 0)
					borrow = bb
				}
			}
		}
		out = append(out, d)
		// k >>= 1
		for i := 0; i < n-1; i++ {
			k[i] = k[i]>>1 | k[i+1]<<63
		}
		k[n-1] >>= 1
	}
	return out
}
