package bn254

// Extension tower for the BN254 pairing:
//
//	Fp2  = Fp[u]/(u^2 + 1)
//	Fp6  = Fp2[v]/(v^3 - xi), xi = 9 + u
//	Fp12 = Fp6[w]/(w^2 - v)
//
// The curve's sextic twist is of D type, so Miller-loop lines populate
// the coefficients at w^0, w^1 and w^3 (each an Fp2 value).

import "math/big"

// Fp2 is an element of the quadratic extension.
type Fp2 struct {
	C0, C1 Fp
}

func (z *Fp2) SetZero() *Fp2 { z.C0.SetZero(); z.C1.SetZero(); return z }
func (z *Fp2) SetOne() *Fp2  { z.C0.SetOne(); z.C1.SetZero(); return z }
func (z *Fp2) Set(x *Fp2) *Fp2 {
	z.C0.Set(&x.C0)
	z.C1.Set(&x.C1)
	return z
}

func (z *Fp2) SetBig(c0, c1 *big.Int) *Fp2 {
	z.C0.SetBig(c0)
	z.C1.SetBig(c1)
	return z
}

func (z *Fp2) Add(x, y *Fp2) *Fp2 {
	z.C0.Add(&x.C0, &y.C0)
	z.C1.Add(&x.C1, &y.C1)
	return z
}

func (z *Fp2) Sub(x, y *Fp2) *Fp2 {
	z.C0.Sub(&x.C0, &y.C0)
	z.C1.Sub(&x.C1, &y.C1)
	return z
}

func (z *Fp2) Double(x *Fp2) *Fp2 {
	z.C0.Double(&x.C0)
	z.C1.Double(&x.C1)
	return z
}

func (z *Fp2) Neg(x *Fp2) *Fp2 {
	z.C0.Neg(&x.C0)
	z.C1.Neg(&x.C1)
	return z
}

func (z *Fp2) Conjugate(x *Fp2) *Fp2 {
	z.C0.Set(&x.C0)
	z.C1.Neg(&x.C1)
	return z
}

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

func (z *Fp2) Square(x *Fp2) *Fp2 {
	var s, d, ab Fp
	s.Add(&x.C0, &x.C1)
	d.Sub(&x.C0, &x.C1)
	ab.Mul(&x.C0, &x.C1)
	z.C0.Mul(&s, &d)
	z.C1.Double(&ab)
	return z
}

func (z *Fp2) MulByFp(x *Fp2, s *Fp) *Fp2 {
	z.C0.Mul(&x.C0, s)
	z.C1.Mul(&x.C1, s)
	return z
}

// MulByNonResidue multiplies by xi = 9 + u:
// (9+u)(a+bu) = (9a-b) + (a+9b)u.
func (z *Fp2) MulByNonResidue(x *Fp2) *Fp2 {
	var nine Fp
	nine.SetUint64(9)
	var a, b Fp
	a.Mul(&x.C0, &nine)
	a.Sub(&a, &x.C1)
	b.Mul(&x.C1, &nine)
	b.Add(&b, &x.C0)
	z.C0.Set(&a)
	z.C1.Set(&b)
	return z
}

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

// Sqrt for deserialization: two-step method for p = 3 mod 4 with a
// confirming multiplication.
func (z *Fp2) Sqrt(x *Fp2) bool {
	if x.IsZero() {
		z.SetZero()
		return true
	}
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
		// multiply by u
		var t Fp
		t.Neg(&x0.C1)
		cand.C1.Set(&x0.C0)
		cand.C0.Set(&t)
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
	z.Set(&cand)
	return true
}

func (z *Fp2) IsZero() bool { return z.C0.IsZero() && z.C1.IsZero() }
func (z *Fp2) IsOne() bool  { return z.C0.IsOne() && z.C1.IsZero() }

func (z *Fp2) Equal(x *Fp2) bool {
	return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1)
}

func (z *Fp2) IsSquare() bool {
	var n, t Fp
	n.Square(&z.C0)
	t.Square(&z.C1)
	n.Add(&n, &t)
	return n.IsSquare()
}

// --- Fp6 ---

// Fp6 is an element of the cubic extension over Fp2.
type Fp6 struct {
	B0, B1, B2 Fp2
}

func (z *Fp6) SetZero() *Fp6 {
	z.B0.SetZero()
	z.B1.SetZero()
	z.B2.SetZero()
	return z
}

func (z *Fp6) SetOne() *Fp6 {
	z.B0.SetOne()
	z.B1.SetZero()
	z.B2.SetZero()
	return z
}

func (z *Fp6) Set(x *Fp6) *Fp6 {
	z.B0.Set(&x.B0)
	z.B1.Set(&x.B1)
	z.B2.Set(&x.B2)
	return z
}

func (z *Fp6) Add(x, y *Fp6) *Fp6 {
	z.B0.Add(&x.B0, &y.B0)
	z.B1.Add(&x.B1, &y.B1)
	z.B2.Add(&x.B2, &y.B2)
	return z
}

func (z *Fp6) Sub(x, y *Fp6) *Fp6 {
	z.B0.Sub(&x.B0, &y.B0)
	z.B1.Sub(&x.B1, &y.B1)
	z.B2.Sub(&x.B2, &y.B2)
	return z
}

func (z *Fp6) Neg(x *Fp6) *Fp6 {
	z.B0.Neg(&x.B0)
	z.B1.Neg(&x.B1)
	z.B2.Neg(&x.B2)
	return z
}

func (z *Fp6) Mul(x, y *Fp6) *Fp6 {
	var t0, t1, t2, s, u1, u2, c0, c1, c2 Fp2
	t0.Mul(&x.B0, &y.B0)
	t1.Mul(&x.B1, &y.B1)
	t2.Mul(&x.B2, &y.B2)

	u1.Add(&x.B1, &x.B2)
	u2.Add(&y.B1, &y.B2)
	s.Mul(&u1, &u2)
	s.Sub(&s, &t1)
	s.Sub(&s, &t2)
	s.MulByNonResidue(&s)
	c0.Add(&t0, &s)

	u1.Add(&x.B0, &x.B1)
	u2.Add(&y.B0, &y.B1)
	s.Mul(&u1, &u2)
	s.Sub(&s, &t0)
	s.Sub(&s, &t1)
	var xt2 Fp2
	xt2.MulByNonResidue(&t2)
	c1.Add(&s, &xt2)

	u1.Add(&x.B0, &x.B2)
	u2.Add(&y.B0, &y.B2)
	s.Mul(&u1, &u2)
	s.Sub(&s, &t0)
	s.Sub(&s, &t2)
	c2.Add(&s, &t1)

	z.B0.Set(&c0)
	z.B1.Set(&c1)
	z.B2.Set(&c2)
	return z
}

func (z *Fp6) Square(x *Fp6) *Fp6 {
	return z.Mul(x, x)
}

func (z *Fp6) MulByV(x *Fp6) *Fp6 {
	var t Fp2
	t.MulByNonResidue(&x.B2)
	z.B2.Set(&x.B1)
	z.B1.Set(&x.B0)
	z.B0.Set(&t)
	return z
}

// MulByFp2 scales every coordinate by an Fp2 element.
func (z *Fp6) MulByFp2(x *Fp6, s *Fp2) *Fp6 {
	z.B0.Mul(&x.B0, s)
	z.B1.Mul(&x.B1, s)
	z.B2.Mul(&x.B2, s)
	return z
}

// MulBy01 multiplies by c0 + c1*v.
func (z *Fp6) MulBy01(x *Fp6, c0, c1 *Fp2) *Fp6 {
	var a, b, t0, t1, t2 Fp2
	a.Mul(&x.B0, c0)
	b.Mul(&x.B1, c1)

	t0.Add(&x.B1, &x.B2)
	t0.Mul(&t0, c1)
	t0.Sub(&t0, &b)
	t0.MulByNonResidue(&t0)
	t0.Add(&t0, &a)

	t1.Add(&x.B0, &x.B1)
	t2.Add(c0, c1)
	t1.Mul(&t1, &t2)
	t1.Sub(&t1, &a)
	t1.Sub(&t1, &b)

	t2.Add(&x.B0, &x.B2)
	t2.Mul(&t2, c0)
	t2.Sub(&t2, &a)
	t2.Add(&t2, &b)

	z.B0.Set(&t0)
	z.B1.Set(&t1)
	z.B2.Set(&t2)
	return z
}

func (z *Fp6) Inverse(x *Fp6) *Fp6 {
	var t0, t1, t2, t3, t4, t5 Fp2
	t0.Square(&x.B0)
	t1.Square(&x.B1)
	t2.Square(&x.B2)
	t3.Mul(&x.B0, &x.B1)
	t4.Mul(&x.B0, &x.B2)
	t5.Mul(&x.B1, &x.B2)

	var c0, c1, c2 Fp2
	c0.MulByNonResidue(&t5)
	c0.Sub(&t0, &c0)
	c1.MulByNonResidue(&t2)
	c1.Sub(&c1, &t3)
	c2.Sub(&t1, &t4)

	var d, s, s2 Fp2
	d.Mul(&x.B0, &c0)
	s.Mul(&x.B2, &c1)
	s2.Mul(&x.B1, &c2)
	s.Add(&s, &s2)
	s.MulByNonResidue(&s)
	d.Add(&d, &s)
	d.Inverse(&d)

	z.B0.Mul(&c0, &d)
	z.B1.Mul(&c1, &d)
	z.B2.Mul(&c2, &d)
	return z
}

func (z *Fp6) IsZero() bool {
	return z.B0.IsZero() && z.B1.IsZero() && z.B2.IsZero()
}

func (z *Fp6) IsOne() bool {
	return z.B0.IsOne() && z.B1.IsZero() && z.B2.IsZero()
}

func (z *Fp6) Equal(x *Fp6) bool {
	return z.B0.Equal(&x.B0) && z.B1.Equal(&x.B1) && z.B2.Equal(&x.B2)
}

// --- Fp12 ---

// Fp12 is an element of the full tower; GT aliases it.
type Fp12 struct {
	C0, C1 Fp6
}

// GT is an element of the pairing target group.
type GT = Fp12

var (
	fp12Gamma1 [6]Fp2
	fp12Gamma2 [6]Fp2
)

func init() {
	var xi Fp2
	xi.C0.SetUint64(9)
	xi.C1.SetOne()

	e1 := new(big.Int).Sub(fpModulus, big.NewInt(1))
	e1.Div(e1, big.NewInt(6))
	e2 := new(big.Int).Mul(fpModulus, fpModulus)
	e2.Sub(e2, big.NewInt(1))
	e2.Div(e2, big.NewInt(6))
	for k := 0; k < 6; k++ {
		fp12Gamma1[k].Exp(&xi, new(big.Int).Mul(e1, big.NewInt(int64(k))))
		fp12Gamma2[k].Exp(&xi, new(big.Int).Mul(e2, big.NewInt(int64(k))))
	}
}

func (z *Fp12) SetZero() *Fp12 { z.C0.SetZero(); z.C1.SetZero(); return z }
func (z *Fp12) SetOne() *Fp12  { z.C0.SetOne(); z.C1.SetZero(); return z }
func (z *Fp12) Set(x *Fp12) *Fp12 {
	z.C0.Set(&x.C0)
	z.C1.Set(&x.C1)
	return z
}

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

func (z *Fp12) Square(x *Fp12) *Fp12 { return z.Mul(x, x) }

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

func (z *Fp12) Conjugate(x *Fp12) *Fp12 {
	z.C0.Set(&x.C0)
	z.C1.Neg(&x.C1)
	return z
}

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

func (z *Fp12) Frobenius(x *Fp12) *Fp12 {
	var t Fp2
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

func (z *Fp12) FrobeniusSquare(x *Fp12) *Fp12 {
	z.C0.B0.Mul(&x.C0.B0, &fp12Gamma2[0])
	z.C0.B1.Mul(&x.C0.B1, &fp12Gamma2[2])
	z.C0.B2.Mul(&x.C0.B2, &fp12Gamma2[4])
	z.C1.B0.Mul(&x.C1.B0, &fp12Gamma2[1])
	z.C1.B1.Mul(&x.C1.B1, &fp12Gamma2[3])
	z.C1.B2.Mul(&x.C1.B2, &fp12Gamma2[5])
	return z
}

// CyclotomicSquare is the Granger-Scott squaring via Fp4 squares.
func (z *Fp12) CyclotomicSquare(x *Fp12) *Fp12 {
	fp4sq := func(a0, a1 *Fp2) (Fp2, Fp2) {
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
	t3, t4 := fp4sq(&x.C0.B0, &x.C1.B1)
	foldSub(&c00, &t3, &x.C0.B0)
	foldAdd(&c11, &t4, &x.C1.B1)

	t3, t4 = fp4sq(&x.C1.B0, &x.C0.B2)
	t5, t6 := fp4sq(&x.C0.B1, &x.C1.B2)
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

// CyclotomicExp is square-and-multiply with cyclotomic squarings.
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

// IsInCyclotomicSubgroup checks x^(p^4+1) = x^(p^2).
func (x *Fp12) IsInCyclotomicSubgroup() bool {
	var a, b Fp12
	a.FrobeniusSquare(x)
	b.FrobeniusSquare(&a)
	b.Mul(&b, x)
	return b.Equal(&a)
}

func (z *Fp12) IsZero() bool { return z.C0.IsZero() && z.C1.IsZero() }
func (z *Fp12) IsOne() bool  { return z.C0.IsOne() && z.C1.IsZero() }

func (z *Fp12) Equal(x *Fp12) bool {
	return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1)
}

// lineEval is a D-twist Miller line: a + b*w + c*v*w, i.e. coefficients
// at w^0, w^1 and w^3.
type lineEval struct {
	a, b, c Fp2
}

// MulByLine applies the sparse line to z.
func (z *Fp12) MulByLine(l *lineEval) *Fp12 {
	var t0, t1, s Fp6
	t0.MulByFp2(&z.C0, &l.a)
	t1.MulBy01(&z.C1, &l.b, &l.c)

	var ab Fp2
	ab.Add(&l.a, &l.b)
	s.Add(&z.C0, &z.C1)
	s.MulBy01(&s, &ab, &l.c)

	var c0, c1 Fp6
	c0.MulByV(&t1)
	c0.Add(&c0, &t0)
	c1.Sub(&s, &t0)
	c1.Sub(&c1, &t1)

	z.C0.Set(&c0)
	z.C1.Set(&c1)
	return z
}

// mulLines multiplies two sparse lines into an Fp12 element.
func mulLines(l1, l2 *lineEval) Fp12 {
	var aa, bb, cc, t, u Fp2
	aa.Mul(&l1.a, &l2.a)
	bb.Mul(&l1.b, &l2.b)
	cc.Mul(&l1.c, &l2.c)

	var out Fp12
	// c0 = (aa + xi*cc, bb, b1c2 + b2c1)
	out.C0.B0.MulByNonResidue(&cc)
	out.C0.B0.Add(&out.C0.B0, &aa)
	out.C0.B1.Set(&bb)
	t.Add(&l1.b, &l1.c)
	u.Add(&l2.b, &l2.c)
	t.Mul(&t, &u)
	t.Sub(&t, &bb)
	out.C0.B2.Sub(&t, &cc)

	// c1 = (a1*b2 + a2*b1, a1*c2 + a2*c1, 0), by Karatsuba folds.
	t.Add(&l1.a, &l1.b)
	u.Add(&l2.a, &l2.b)
	t.Mul(&t, &u)
	t.Sub(&t, &aa)
	out.C1.B0.Sub(&t, &bb)
	t.Add(&l1.a, &l1.c)
	u.Add(&l2.a, &l2.c)
	t.Mul(&t, &u)
	t.Sub(&t, &aa)
	out.C1.B1.Sub(&t, &cc)
	out.C1.B2.SetZero()
	return out
}
