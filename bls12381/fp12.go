package bls12381

// Fp12 = Fp6[w]/(w^2 - v), the pairing target tower.
//
// An element is c0 + c1*w with c0, c1 in Fp6. Viewed over Fp2, the
// basis powers of w are (1, w, w^2=v, w^3=v*w, w^4=v^2, w^5=v^2*w) and
// w^6 = xi, which is what the Frobenius coefficient table indexes.
//
// The cyclotomic subgroup (order Phi_12(p)) supports the Granger-Scott
// squaring built from Fp4 squarings; unitary elements invert by
// conjugation.

import "math/big"

// Fp12 is an element of the degree-12 tower.
type Fp12 struct {
	C0, C1 Fp6
}

// Fp4 is the intermediate quadratic extension Fp2[s]/(s^2 - xi) used by
// the cyclotomic squaring.
type Fp4 struct {
	A0, A1 Fp2
}

// Square sets z = x^2 in Fp4.
func (z *Fp4) Square(x *Fp4) *Fp4 {
	c0, c1 := fp4Square(&x.A0, &x.A1)
	z.A0 = c0
	z.A1 = c1
	return z
}

// Mul sets z = x * y in Fp4.
func (z *Fp4) Mul(x, y *Fp4) *Fp4 {
	var t0, t1, s0, s1, c0, c1 Fp2
	t0.Mul(&x.A0, &y.A0)
	t1.Mul(&x.A1, &y.A1)
	s0.Add(&x.A0, &x.A1)
	s1.Add(&y.A0, &y.A1)
	c1.Mul(&s0, &s1)
	c1.Sub(&c1, &t0)
	c1.Sub(&c1, &t1)
	c0.MulByNonResidue(&t1)
	c0.Add(&c0, &t0)
	z.A0 = c0
	z.A1 = c1
	return z
}

// fp4Square returns (a0 + a1 s)^2 = (a0^2 + xi a1^2) + ((a0+a1)^2 - a0^2 - a1^2) s.
func fp4Square(a0, a1 *Fp2) (Fp2, Fp2) {
	var t0, t1, c0, c1 Fp2
	t0.Square(a0)
	t1.Square(a1)
	c0.MulByNonResidue(&t1)
	c0.Add(&c0, &t0)
	c1.Add(a0, a1)
	c1.Square(&c1)
	c1.Sub(&c1, &t0)
	c1.Sub(&c1, &t1)
	return c0, c1
}

// Frobenius coefficient tables gamma1[k] = xi^(k(p-1)/6) and
// gamma2[k] = xi^(k(p^2-1)/6), derived at initialization.
var (
	fp12Gamma1 [6]Fp2
	fp12Gamma2 [6]Fp2
)

func init() {
	var xi Fp2
	xi.C0.SetOne()
	xi.C1.SetOne()

	e1 := new(big.Int).Sub(fpModulus, big.NewInt(1))
	e1.Div(e1, big.NewInt(6))
	e2 := new(big.Int).Mul(fpModulus, fpModulus)
	e2.Sub(e2, big.NewInt(1))
	e2.Div(e2, big.NewInt(6))

	for k := 0; k < 6; k++ {
		ek1 := new(big.Int).Mul(e1, big.NewInt(int64(k)))
		ek2 := new(big.Int).Mul(e2, big.NewInt(int64(k)))
		fp12Gamma1[k].Exp(&xi, ek1)
		fp12Gamma2[k].Exp(&xi, ek2)
	}
}

// SetZero sets z to 0.
func (z *Fp12) SetZero() *Fp12 {
	z.C0.SetZero()
	z.C1.SetZero()
	return z
}

// SetOne sets z to 1.
func (z *Fp12) SetOne() *Fp12 {
	z.C0.SetOne()
	z.C1.SetZero()
	return z
}

// Set copies x into z.
func (z *Fp12) Set(x *Fp12) *Fp12 {
	z.C0.Set(&x.C0)
	z.C1.Set(&x.C1)
	return z
}

// Mul sets z = x * y.
func (z *Fp12) Mul(x, y *Fp12) *Fp12 {
	var t0, t1, s0, s1, c0, c1 Fp6
	t0.Mul(&x.C0, &y.C0)
	t1.Mul(&x.C1, &y.C1)
	s0.Add(&x.C0, &x.C1)
	s1.Add(&y.C0, &y.C1)
	c1.Mul(&s0, &s1)
	c1.Sub(&c1, &t0)
	c1.Sub(&c1, &t1)
	c0.MulByV(&t1)
	c0.Add(&c0, &t0)
	z.C0.Set(&c0)
	z.C1.Set(&c1)
	return z
}

// Square sets z = x^2.
func (z *Fp12) Square(x *Fp12) *Fp12 {
	var ab, t0, t1, c0, c1 Fp6
	ab.Mul(&x.C0, &x.C1)
	t0.Add(&x.C0, &x.C1)
	t1.MulByV(&x.C1)
	t1.Add(&t1, &x.C0)
	t0.Mul(&t0, &t1)
	t1.MulByV(&ab)
	t1.Add(&t1, &ab)
	c0.Sub(&t0, &t1)
	c1.Double(&ab)
	z.C0.Set(&c0)
	z.C1.Set(&c1)
	return z
}

// Inverse sets z = x^-1, with inverse(0) = 0.
func (z *Fp12) Inverse(x *Fp12) *Fp12 {
	var t0, t1 Fp6
	t0.Square(&x.C0)
	t1.Square(&x.C1)
	t1.MulByV(&t1)
	t0.Sub(&t0, &t1)
	t0.Inverse(&t0)
	z.C0.Mul(&x.C0, &t0)
	t0.Neg(&t0)
	z.C1.Mul(&x.C1, &t0)
	return z
}

// Conjugate sets z = c0 - c1*w. On unitary elements (norm 1 over Fp6,
// which includes the cyclotomic subgroup) this is the inverse.
func (z *Fp12) Conjugate(x *Fp12) *Fp12 {
	z.C0.Set(&x.C0)
	z.C1.Neg(&x.C1)
	return z
}

// Exp sets z = x^e for a public exponent e >= 0, by plain
// square-and-multiply.
func (z *Fp12) Exp(x *Fp12, e *big.Int) *Fp12 {
	var res, base Fp12
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

// Frobenius sets z = x^p: conjugate each Fp2 coefficient and scale the
// w^k coordinate by gamma1[k].
func (z *Fp12) Frobenius(x *Fp12) *Fp12 {
	var t Fp2
	// c0 coefficients sit at w^0, w^2, w^4; c1 at w^1, w^3, w^5.
	t.Conjugate(&x.C0.B0)
	z.C0.B0.Mul(&t, &fp12Gamma1[0])
	t.Conjugate(&x.C0.B1)
	z.C0.B1.Mul(&t, &fp12Gamma1[2])
	t.Conjugate(&x.C0.B2)
	z.C0.B2.Mul(&t, &fp12Gamma1[4])
	t.Conjugate(&x.C1.B0)
	z.C1.B0.Mul(&t, &fp12Gamma1[1])
	t.Conjugate(&x.C1.B1)
	z.C1.B1.Mul(&t, &fp12Gamma1[3])
	t.Conjugate(&x.C1.B2)
	z.C1.B2.Mul(&t, &fp12Gamma1[5])
	return z
}

// FrobeniusSquare sets z = x^(p^2); the coefficients are Fp scalars so
// no conjugation is needed.
func (z *Fp12) FrobeniusSquare(x *Fp12) *Fp12 {
	z.C0.B0.Mul(&x.C0.B0, &fp12Gamma2[0])
	z.C0.B1.Mul(&x.C0.B1, &fp12Gamma2[2])
	z.C0.B2.Mul(&x.C0.B2, &fp12Gamma2[4])
	z.C1.B0.Mul(&x.C1.B0, &fp12Gamma2[1])
	z.C1.B1.Mul(&x.C1.B1, &fp12Gamma2[3])
	z.C1.B2.Mul(&x.C1.B2, &fp12Gamma2[5])
	return z
}

// CyclotomicSquare sets z = x^2 for x in the cyclotomic subgroup
// (Granger-Scott, three Fp4 squarings).
func (z *Fp12) CyclotomicSquare(x *Fp12) *Fp12 {
	foldSub := func(out, t, c *Fp2) {
		var d Fp2
		d.Sub(t, c)
		d.Double(&d)
		out.Add(&d, t)
	}
	foldAdd := func(out, t, c *Fp2) {
		var d Fp2
		d.Add(t, c)
		d.Double(&d)
		out.Add(&d, t)
	}

	var c00, c01, c02, c10, c11, c12 Fp2
	t3, t4 := fp4Square(&x.C0.B0, &x.C1.B1)
	foldSub(&c00, &t3, &x.C0.B0)
	foldAdd(&c11, &t4, &x.C1.B1)

	t3, t4 = fp4Square(&x.C1.B0, &x.C0.B2)
	t5, t6 := fp4Square(&x.C0.B1, &x.C1.B2)
	foldSub(&c01, &t3, &x.C0.B1)
	foldAdd(&c12, &t4, &x.C1.B2)

	var t3x Fp2
	t3x.MulByNonResidue(&t6)
	foldAdd(&c10, &t3x, &x.C1.B0)
	foldSub(&c02, &t5, &x.C0.B2)

	z.C0.B0, z.C0.B1, z.C0.B2 = c00, c01, c02
	z.C1.B0, z.C1.B1, z.C1.B2 = c10, c11, c12
	return z
}

// CyclotomicExp sets z = x^e for x in the cyclotomic subgroup and a
// public exponent e >= 0, running squarings as segments of cyclotomic
// squares with one multiplication per set bit.
func (z *Fp12) CyclotomicExp(x *Fp12, e *big.Int) *Fp12 {
	var res, base Fp12
	res.SetOne()
	base.Set(x)
	for i := e.BitLen() - 1; i >= 0; i-- {
		res.CyclotomicSquare(&res)
		if e.Bit(i) == 1 {
			res.Mul(&res, &base)
		}
	}
	return z.Set(&res)
}

// IsInCyclotomicSubgroup reports whether x^(Phi_12(p)) = 1, i.e.
// x^(p^4+1) = x^(p^2), using two Frobenius-square applications.
func (x *Fp12) IsInCyclotomicSubgroup() bool {
	var a, b Fp12
	a.FrobeniusSquare(x)
	b.FrobeniusSquare(&a) // x^(p^4)
	b.Mul(&b, x)
	return b.Equal(&a)
}

// IsZero reports whether z is 0.
func (z *Fp12) IsZero() bool {
	return z.C0.IsZero() && z.C1.IsZero()
}

// IsOne reports whether z is 1.
func (z *Fp12) IsOne() bool {
	return z.C0.IsOne() && z.C1.IsZero()
}

// Equal reports whether z == x.
func (z *Fp12) Equal(x *Fp12) bool {
	return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1)
}

// Select sets z = a when ctl is 1 and z = b when ctl is 0.
func (z *Fp12) Select(ctl uint64, a, b *Fp12) *Fp12 {
	z.C0.Select(ctl, &a.C0, &b.C0)
	z.C1.Select(ctl, &a.C1, &b.C1)
	return z
}

// lineEval is a Miller-loop line function in sparse Fp12 form:
// (a + b*v) + (c*v)*w, i.e. coefficients at w^0, w^2 and w^3.
type lineEval struct {
	a, b, c Fp2
}

// MulByLine multiplies z by the sparse line l, specializing the dense
// tower multiplication to the populated coefficients.
func (z *Fp12) MulByLine(l *lineEval) *Fp12 {
	var t0, t1, s Fp6
	t0.MulBy01(&z.C0, &l.a, &l.b)
	t1.MulBy1(&z.C1, &l.c)

	var bc Fp2
	bc.Add(&l.b, &l.c)
	s.Add(&z.C0, &z.C1)
	s.MulBy01(&s, &l.a, &bc)

	var c0, c1 Fp6
	c0.MulByV(&t1)
	c0.Add(&c0, &t0)
	c1.Sub(&s, &t0)
	c1.Sub(&c1, &t1)

	z.C0.Set(&c0)
	z.C1.Set(&c1)
	return z
}

// mulLines multiplies two sparse lines into a (denser) Fp12 element,
// halving the dense multiplications the Miller loop spends per
// double-and-add step.
func mulLines(l1, l2 *lineEval) Fp12 {
	var aa, bb, cc, t, u Fp2
	aa.Mul(&l1.a, &l2.a)
	bb.Mul(&l1.b, &l2.b)
	cc.Mul(&l1.c, &l2.c)

	var out Fp12
	// c0 coefficients.
	out.C0.B0.MulByNonResidue(&cc)
	out.C0.B0.Add(&out.C0.B0, &aa)
	// a1*b2 + a2*b1 = (a1+b1)(a2+b2) - aa - bb
	t.Add(&l1.a, &l1.b)
	u.Add(&l2.a, &l2.b)
	t.Mul(&t, &u)
	t.Sub(&t, &aa)
	out.C0.B1.Sub(&t, &bb)
	out.C0.B2.Set(&bb)

	// c1 coefficients: (0, a1c2+a2c1, b1c2+b2c1).
	out.C1.B0.SetZero()
	t.Add(&l1.a, &l1.c)
	u.Add(&l2.a, &l2.c)
	t.Mul(&t, &u)
	t.Sub(&t, &aa)
	out.C1.B1.Sub(&t, &cc)
	t.Add(&l1.b, &l1.c)
	u.Add(&l2.b, &l2.c)
	t.Mul(&t, &u)
	t.Sub(&t, &bb)
	out.C1.B2.Sub(&t, &cc)
	return out
}
