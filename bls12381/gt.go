package bls12381

// GT subgroup operations: membership, exponentiation and torus-based
// compression.
//
// Membership uses p = x mod r: on the cyclotomic subgroup the p-power
// Frobenius is one coefficient pass, and an element has order dividing
// r exactly when Frobenius(f) = f^x.
//
// T2(Fp6) torus: a cyclotomic element m = m0 + m1*w has norm
// m0^2 - v*m1^2 = 1, so m is determined by g = (1 + m0)/m1 through
// m = (g + w)/(g - w). Elements are kept projectively as g = N/D, which
// turns multiplication into four Fp6 products (Toom-Cook form) with no
// inversion:
//
//	(N1, D1) * (N2, D2) = (N1*N2 + v*D1*D2, N1*D2 + N2*D1)
//
// The identity and -1 have m1 = 0 and no affine representative; the
// identity is encoded as D = 0. Compression helpers are variable-time.

import (
	"errors"
	"math/bits"
)

var errTorus = errors.New("bls12381: element has no torus representative")

// IsInPairingSubgroup reports whether f lies in the order-r pairing
// subgroup: cyclotomic membership plus Frobenius(f) = f^x.
func (f *GT) IsInPairingSubgroup() bool {
	if !f.IsInCyclotomicSubgroup() {
		return false
	}
	var lhs, rhs GT
	lhs.Frobenius(f)
	rhs.expBySeed(f)
	return lhs.Equal(&rhs)
}

// Torus2 is a compressed cyclotomic element in projective coordinates.
type Torus2 struct {
	N, D Fp6
}

// TorusFromGT compresses m. It fails for m = -1 and for any other
// non-identity input with m1 = 0; unitarity is not checked. The identity
// maps to the projective point at infinity.
func TorusFromGT(m *GT) (Torus2, error) {
	var t Torus2
	if m.IsOne() {
		t.N.SetOne()
		t.D.SetZero()
		return t, nil
	}
	if m.C1.IsZero() {
		return t, errTorus
	}
	t.N.Set(&m.C0)
	var one Fp6
	one.SetOne()
	t.N.Add(&t.N, &one)
	t.D.Set(&m.C1)
	return t, nil
}

// ToGT decompresses: m = (g + w)/(g - w) expanded through N, D.
func (t *Torus2) ToGT() GT {
	var out GT
	if t.D.IsZero() {
		out.SetOne()
		return out
	}
	// m0 = (N^2 + v D^2) / (N^2 - v D^2), m1 = 2 N D / (N^2 - v D^2).
	var n2, d2v, den, num0, num1 Fp6
	n2.MulToom3(&t.N, &t.N)
	d2v.MulToom3(&t.D, &t.D)
	d2v.MulByV(&d2v)
	num0.Add(&n2, &d2v)
	den.Sub(&n2, &d2v)
	den.Inverse(&den)
	num1.MulToom3(&t.N, &t.D)
	num1.Double(&num1)
	out.C0.Mul(&num0, &den)
	out.C1.Mul(&num1, &den)
	return out
}

// IsIdentity reports whether t encodes the group identity.
func (t *Torus2) IsIdentity() bool {
	return t.D.IsZero()
}

// Mul sets z = a * b in compressed form.
func (z *Torus2) Mul(a, b *Torus2) *Torus2 {
	if a.IsIdentity() {
		z.N.Set(&b.N)
		z.D.Set(&b.D)
		return z
	}
	if b.IsIdentity() {
		z.N.Set(&a.N)
		z.D.Set(&a.D)
		return z
	}
	var nn, dd, nd, dn, n, d Fp6
	nn.MulToom3(&a.N, &b.N)
	dd.MulToom3(&a.D, &b.D)
	dd.MulByV(&dd)
	n.Add(&nn, &dd)
	nd.MulToom3(&a.N, &b.D)
	dn.MulToom3(&a.D, &b.N)
	d.Add(&nd, &dn)
	z.N.Set(&n)
	z.D.Set(&d)
	return z
}

// Square sets z = a^2 in compressed form.
func (z *Torus2) Square(a *Torus2) *Torus2 {
	if a.IsIdentity() {
		z.N.Set(&a.N)
		z.D.Set(&a.D)
		return z
	}
	var n2, d2v, n, d Fp6
	n2.MulToom3(&a.N, &a.N)
	d2v.MulToom3(&a.D, &a.D)
	d2v.MulByV(&d2v)
	n.Add(&n2, &d2v)
	d.MulToom3(&a.N, &a.D)
	d.Double(&d)
	z.N.Set(&n)
	z.D.Set(&d)
	return z
}

// Inverse sets z = a^-1: on the torus the inverse of g is -g.
func (z *Torus2) Inverse(a *Torus2) *Torus2 {
	z.N.Neg(&a.N)
	z.D.Set(&a.D)
	return z
}

// Equal compares two compressed elements cross-multiplied.
func (t *Torus2) Equal(o *Torus2) bool {
	if t.IsIdentity() || o.IsIdentity() {
		return t.IsIdentity() == o.IsIdentity()
	}
	var a, b Fp6
	a.MulToom3(&t.N, &o.D)
	b.MulToom3(&o.N, &t.D)
	return a.Equal(&b)
}

// --- exponentiation ---

// GtExpSqrMul returns f^k by plain cyclotomic square-and-multiply;
// variable-time.
func GtExpSqrMul(f *GT, k *Fr) GT {
	var out GT
	out.CyclotomicExp(f, k.BigInt())
	return out
}

// GtExpWNAF returns f^k by width-5 wNAF with cyclotomic squarings and
// conjugation for negative digits; variable-time.
func GtExpWNAF(f *GT, k *Fr) GT {
	naf := wnafBig(k.BigInt(), 5)
	// Odd powers f, f^3, ..., f^15.
	var table [8]GT
	table[0].Set(f)
	var f2 GT
	f2.CyclotomicSquare(f)
	for i := 1; i < 8; i++ {
		table[i].Mul(&table[i-1], &f2)
	}
	var out GT
	out.SetOne()
	for i := len(naf) - 1; i >= 0; i-- {
		out.CyclotomicSquare(&out)
		if d := naf[i]; d != 0 {
			if d > 0 {
				out.Mul(&out, &table[(d-1)/2])
			} else {
				var inv GT
				inv.Conjugate(&table[(-d-1)/2])
				out.Mul(&out, &inv)
			}
		}
	}
	return out
}

// GtExp returns f^k in constant time: fixed 4-bit windows with a masked
// table walk and cyclotomic squarings.
func GtExp(f *GT, k *Fr) GT {
	var table [16]GT
	table[0].SetOne()
	table[1].Set(f)
	for i := 2; i < 16; i++ {
		if i%2 == 0 {
			table[i].CyclotomicSquare(&table[i/2])
		} else {
			table[i].Mul(&table[i-1], f)
		}
	}
	scalar := k.Regular()
	var out GT
	out.SetOne()
	for pos := int(64*FrLimbs) - 4; pos >= 0; pos -= 4 {
		out.CyclotomicSquare(&out)
		out.CyclotomicSquare(&out)
		out.CyclotomicSquare(&out)
		out.CyclotomicSquare(&out)
		w := windowAt(scalar[:], uint(pos))
		var sel GT
		sel.SetOne()
		for j := uint64(0); j < 16; j++ {
			sel.Select(ctEq(w, j), &table[j], &sel)
		}
		out.Mul(&out, &sel)
	}
	return out
}

// gtEndoDigits splits 0 <= e < r into four base-|x| digits:
// e = sum c_i |x|^i, so f^e = prod frob^i(f or its conjugate)^(c_i),
// the sign alternation coming from x < 0. The division is a bitwise
// shift-subtract, constant-time for the secret-exponent variant.
func gtEndoDigits(k *Fr) [4]uint64 {
	e := k.Regular()
	var digits [4]uint64
	cur := e[:]
	for i := 0; i < 3; i++ {
		q, rem := ctDivRem64(cur, blsXAbs)
		digits[i] = rem
		cur = q
	}
	digits[3] = cur[0]
	return digits
}

// ctDivRem64 divides a little-endian limb value by a 64-bit divisor
// with a fixed-length shift-subtract loop; no data-dependent branches.
func ctDivRem64(x []uint64, d uint64) ([]uint64, uint64) {
	n := len(x)
	q := make([]uint64, n)
	var remLo, remHi uint64
	for i := n*64 - 1; i >= 0; i-- {
		remHi = remHi<<1 | remLo>>63
		remLo = remLo << 1
		remLo |= x[i/64] >> (uint(i) % 64) & 1
		// Subtract d when rem >= d.
		sLo, b := bits.Sub64(remLo, d, 0)
		sHi, b2 := bits.Sub64(remHi, 0, b)
		take := 1 ^ b2
		m := -(take & 1)
		remLo = remLo ^ (m & (remLo ^ sLo))
		remHi = remHi ^ (m & (remHi ^ sHi))
		q[i/64] |= take << (uint(i) % 64)
	}
	return q, remLo
}

// gtEndoBases returns h_i = frob^i(f), conjugated on odd i to absorb
// the seed sign.
func gtEndoBases(f *GT) [4]GT {
	var h [4]GT
	h[0].Set(f)
	for i := 1; i < 4; i++ {
		h[i].Frobenius(&h[i-1])
	}
	h[1].Conjugate(&h[1])
	h[3].Conjugate(&h[3])
	return h
}

// GtExpEndoWNAF returns f^k using the Frobenius endomorphism to cut the
// ladder to 64 squarings with four simultaneous bases; variable-time.
func GtExpEndoWNAF(f *GT, k *Fr) GT {
	digits := gtEndoDigits(k)
	bases := gtEndoBases(f)
	var out GT
	out.SetOne()
	for i := 63; i >= 0; i-- {
		out.CyclotomicSquare(&out)
		for j := 0; j < 4; j++ {
			if digits[j]>>uint(i)&1 == 1 {
				out.Mul(&out, &bases[j])
			}
		}
	}
	return out
}

// GtExpEndo is the constant-time endomorphism ladder: same shape, with
// masked multiplications in place of the data-dependent ones.
func GtExpEndo(f *GT, k *Fr) GT {
	digits := gtEndoDigits(k)
	bases := gtEndoBases(f)
	var out GT
	out.SetOne()
	for i := 63; i >= 0; i-- {
		out.CyclotomicSquare(&out)
		for j := 0; j < 4; j++ {
			bit := digits[j] >> uint(i) & 1
			var t GT
			t.Mul(&out, &bases[j])
			out.Select(bit, &t, &out)
		}
	}
	return out
}

// GtMultiExp returns prod f_i^{k_i} with a Pippenger loop whose buckets
// live on the torus, so every bucket operation is a four-product
// compressed multiplication; variable-time. Elements that TorusFromGT
// rejects (such as -1) contribute through a direct exponentiation.
func GtMultiExp(fs []GT, ks []Fr) (GT, error) {
	n := len(fs)
	if n != len(ks) {
		return GT{}, errors.New("bls12381: length mismatch in GtMultiExp")
	}
	var plain GT
	plain.SetOne()
	comp := make([]Torus2, 0, n)
	scalars := make([]Fr, 0, n)
	for i := range fs {
		t, err := TorusFromGT(&fs[i])
		if err != nil {
			// -1 (or junk): fall back to a direct exponentiation.
			e := GtExpWNAF(&fs[i], &ks[i])
			plain.Mul(&plain, &e)
			continue
		}
		comp = append(comp, t)
		scalars = append(scalars, ks[i])
	}
	if len(comp) == 0 {
		return plain, nil
	}

	c := msmWindowSize(len(comp))
	digits := make([][]int32, len(comp))
	for i := range scalars {
		digits[i] = msmSignedDigits(&scalars[i], c)
	}
	windows := len(digits[0])
	var acc Torus2
	acc.N.SetOne()
	acc.D.SetZero()
	buckets := make([]Torus2, 1<<(c-1))
	for w := windows - 1; w >= 0; w-- {
		for i := 0; i < c; i++ {
			acc.Square(&acc)
		}
		for i := range buckets {
			buckets[i].N.SetOne()
			buckets[i].D.SetZero()
		}
		for i := range comp {
			d := digits[i][w]
			if d == 0 {
				continue
			}
			if d > 0 {
				buckets[d-1].Mul(&buckets[d-1], &comp[i])
			} else {
				var inv Torus2
				inv.Inverse(&comp[i])
				buckets[-d-1].Mul(&buckets[-d-1], &inv)
			}
		}
		var running, sum Torus2
		running.N.SetOne()
		running.D.SetZero()
		sum = running
		for i := len(buckets) - 1; i >= 0; i-- {
			running.Mul(&running, &buckets[i])
			sum.Mul(&sum, &running)
		}
		acc.Mul(&acc, &sum)
	}
	out := acc.ToGT()
	out.Mul(&out, &plain)
	return out, nil
}
