package bls12381

// Quadratic extension Fp2 = Fp[u]/(u^2 + 1).
//
// An element is c0 + c1*u. The non-residue used to build Fp6 on top is
// xi = 1 + u.

import "math/big"

// Fp2 is an element of the quadratic extension.
type Fp2 struct {
	C0, C1 Fp
}

// SetZero sets z to 0.
func (z *Fp2) SetZero() *Fp2 {
	z.C0.SetZero()
	z.C1.SetZero()
	return z
}

// SetOne sets z to 1.
func (z *Fp2) SetOne() *Fp2 {
	z.C0.SetOne()
	z.C1.SetZero()
	return z
}

// Set copies x into z.
func (z *Fp2) Set(x *Fp2) *Fp2 {
	z.C0.Set(&x.C0)
	z.C1.Set(&x.C1)
	return z
}

// SetFp embeds an Fp element.
func (z *Fp2) SetFp(x *Fp) *Fp2 {
	z.C0.Set(x)
	z.C1.SetZero()
	return z
}

// SetBig sets z = c0 + c1*u from canonical integers.
func (z *Fp2) SetBig(c0, c1 *big.Int) *Fp2 {
	z.C0.SetBig(c0)
	z.C1.SetBig(c1)
	return z
}

// Add sets z = x + y.
func (z *Fp2) Add(x, y *Fp2) *Fp2 {
	z.C0.Add(&x.C0, &y.C0)
	z.C1.Add(&x.C1, &y.C1)
	return z
}

// Sub sets z = x - y.
func (z *Fp2) Sub(x, y *Fp2) *Fp2 {
	z.C0.Sub(&x.C0, &y.C0)
	z.C1.Sub(&x.C1, &y.C1)
	return z
}

// Double sets z = 2x.
func (z *Fp2) Double(x *Fp2) *Fp2 {
	z.C0.Double(&x.C0)
	z.C1.Double(&x.C1)
	return z
}

// Neg sets z = -x.
func (z *Fp2) Neg(x *Fp2) *Fp2 {
	z.C0.Neg(&x.C0)
	z.C1.Neg(&x.C1)
	return z
}

// Conjugate sets z = c0 - c1*u, the p-power Frobenius on Fp2.
func (z *Fp2) Conjugate(x *Fp2) *Fp2 {
	z.C0.Set(&x.C0)
	z.C1.Neg(&x.C1)
	return z
}

// Mul sets z = x * y by Karatsuba over the non-residue u^2 = -1.
func (z *Fp2) Mul(x, y *Fp2) *Fp2 {
	var t0, t1, s0, s1 Fp
	t0.Mul(&x.C0, &y.C0)
	t1.Mul(&x.C1, &y.C1)
	s0.Add(&x.C0, &x.C1)
	s1.Add(&y.C0, &y.C1)
	s0.Mul(&s0, &s1)
	s0.Sub(&s0, &t0)
	z.C1.Sub(&s0, &t1)
	z.C0.Sub(&t0, &t1)
	return z
}

// Square sets z = x^2 via the complex-squaring identity
// (a+bu)^2 = (a+b)(a-b) + 2ab*u.
func (z *Fp2) Square(x *Fp2) *Fp2 {
	var s, d, ab Fp
	s.Add(&x.C0, &x.C1)
	d.Sub(&x.C0, &x.C1)
	ab.Mul(&x.C0, &x.C1)
	z.C0.Mul(&s, &d)
	z.C1.Double(&ab)
	return z
}

// MulByFp scales both coordinates by an Fp element.
func (z *Fp2) MulByFp(x *Fp2, s *Fp) *Fp2 {
	z.C0.Mul(&x.C0, s)
	z.C1.Mul(&x.C1, s)
	return z
}

// MulByNonResidue multiplies by xi = 1 + u:
// (1+u)(a+bu) = (a-b) + (a+b)u.
func (z *Fp2) MulByNonResidue(x *Fp2) *Fp2 {
	var a, b Fp
	a.Sub(&x.C0, &x.C1)
	b.Add(&x.C0, &x.C1)
	z.C0.Set(&a)
	z.C1.Set(&b)
	return z
}

// MulByU multiplies by u: u(a+bu) = -b + au.
func (z *Fp2) MulByU(x *Fp2) *Fp2 {
	var t Fp
	t.Neg(&x.C1)
	z.C1.Set(&x.C0)
	z.C0.Set(&t)
	return z
}

// fp2Norm sets z to the norm of x over Fp, a^2 + b^2.
func fp2Norm(z *Fp, x *Fp2) {
	var n, t Fp
	n.Square(&x.C0)
	t.Square(&x.C1)
	z.Add(&n, &t)
}

// IsSquare reports whether x is a quadratic residue in Fp2, via the
// norm: x^((p^2-1)/2) = norm(x)^((p-1)/2).
func (z *Fp2) IsSquare() bool {
	var n Fp
	fp2Norm(&n, z)
	return n.IsSquare()
}

// Inverse sets z = x^-1 via the norm, with inverse(0) = 0.
func (z *Fp2) Inverse(x *Fp2) *Fp2 {
	var n, t Fp
	n.Square(&x.C0)
	t.Square(&x.C1)
	n.Add(&n, &t)
	n.Inverse(&n)
	z.C0.Mul(&x.C0, &n)
	n.Neg(&n)
	z.C1.Mul(&x.C1, &n)
	return z
}

// Exp sets z = x^e for a public exponent e >= 0.
func (z *Fp2) Exp(x *Fp2, e *big.Int) *Fp2 {
	var res, base Fp2
	res.SetOne()
	base.Set(x)
	for i := e.BitLen() - 1; i >= 0; i-- {
		res.Square(&res)
		if e.Bit(i) == 1 {
			res.Mul(&res, &base)
		}
	}
	return z.Set(&res)
}

// Sqrt sets z to a square root of x and returns true, or returns false
// when x is not a square. Uses the p = 3 mod 4 two-step method with a
// confirming multiplication; for public inputs (deserialization).
func (z *Fp2) Sqrt(x *Fp2) bool {
	if x.IsZero() {
		z.SetZero()
		return true
	}
	// a1 = x^((p-3)/4); alpha = a1^2 x; x0 = a1 x.
	exp := new(big.Int).Sub(fpModulus, big.NewInt(3))
	exp.Rsh(exp, 2)
	var a1, alpha, x0, cand Fp2
	a1.Exp(x, exp)
	alpha.Square(&a1)
	alpha.Mul(&alpha, x)
	x0.Mul(&a1, x)

	var negOne Fp2
	negOne.SetOne()
	negOne.Neg(&negOne)
	if alpha.Equal(&negOne) {
		cand.MulByU(&x0)
	} else {
		var b Fp2
		b.SetOne()
		b.Add(&b, &alpha)
		b.Exp(&b, fpQNRExp)
		cand.Mul(&b, &x0)
	}
	var check Fp2
	check.Square(&cand)
	if !check.Equal(x) {
		return false
	}
	return z.Set(&cand) != nil
}

// IsZero reports whether z is 0.
func (z *Fp2) IsZero() bool {
	return z.C0.IsZero() && z.C1.IsZero()
}

// IsOne reports whether z is 1.
func (z *Fp2) IsOne() bool {
	return z.C0.IsOne() && z.C1.IsZero()
}

// Equal reports whether z == x.
func (z *Fp2) Equal(x *Fp2) bool {
	return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1)
}

// Select sets z = a when ctl is 1 and z = b when ctl is 0.
func (z *Fp2) Select(ctl uint64, a, b *Fp2) *Fp2 {
	z.C0.Select(ctl, &a.C0, &b.C0)
	z.C1.Select(ctl, &a.C1, &b.C1)
	return z
}

// Ccopy copies x into z when ctl is 1.
func (z *Fp2) Ccopy(x *Fp2, ctl uint64) *Fp2 {
	z.C0.Ccopy(&x.C0, ctl)
	z.C1.Ccopy(&x.C1, ctl)
	return z
}

// Sgn0 is the RFC 9380 sign of an Fp2 element: the sign of c0, or of c1
// when c0 is zero.
func (z *Fp2) Sgn0() uint64 {
	s0 := z.C0.Sgn0()
	zero0 := uint64(0)
	if z.C0.IsZero() {
		zero0 = 1
	}
	return s0 | (zero0 & z.C1.Sgn0())
}

// LexicographicallyLargest orders by (c1, c0), the convention of the
// compressed G2 sort flag.
func (z *Fp2) LexicographicallyLargest() bool {
	if !z.C1.IsZero() {
		return z.C1.LexicographicallyLargest()
	}
	return z.C0.LexicographicallyLargest()
}

// String renders c0+c1*u in hexadecimal.
func (z *Fp2) String() string {
	return z.C0.String() + "+" + z.C1.String() + "*u"
}
