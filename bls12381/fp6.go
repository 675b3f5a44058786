package bls12381

// Cubic extension Fp6 = Fp2[v]/(v^3 - xi), xi = 1 + u.
//
// An element is b0 + b1*v + b2*v^2. Dense multiplication is Karatsuba
// over Fp2; an alternative Toom-Cook-3 multiplication evaluates at
// {0, 1, -1, 2, inf} and interpolates with halvings and a precomputed
// 1/3, trading additions for one fewer Fp2 multiplication. The sparse
// variants serve the Miller loop's line functions.

// Fp6 is an element of the cubic extension over Fp2.
type Fp6 struct {
	B0, B1, B2 Fp2
}

// SetZero sets z to 0.
func (z *Fp6) SetZero() *Fp6 {
	z.B0.SetZero()
	z.B1.SetZero()
	z.B2.SetZero()
	return z
}

// SetOne sets z to 1.
func (z *Fp6) SetOne() *Fp6 {
	z.B0.SetOne()
	z.B1.SetZero()
	z.B2.SetZero()
	return z
}

// Set copies x into z.
func (z *Fp6) Set(x *Fp6) *Fp6 {
	z.B0.Set(&x.B0)
	z.B1.Set(&x.B1)
	z.B2.Set(&x.B2)
	return z
}

// Add sets z = x + y.
func (z *Fp6) Add(x, y *Fp6) *Fp6 {
	z.B0.Add(&x.B0, &y.B0)
	z.B1.Add(&x.B1, &y.B1)
	z.B2.Add(&x.B2, &y.B2)
	return z
}

// Sub sets z = x - y.
func (z *Fp6) Sub(x, y *Fp6) *Fp6 {
	z.B0.Sub(&x.B0, &y.B0)
	z.B1.Sub(&x.B1, &y.B1)
	z.B2.Sub(&x.B2, &y.B2)
	return z
}

// Double sets z = 2x.
func (z *Fp6) Double(x *Fp6) *Fp6 {
	z.B0.Double(&x.B0)
	z.B1.Double(&x.B1)
	z.B2.Double(&x.B2)
	return z
}

// Neg sets z = -x.
func (z *Fp6) Neg(x *Fp6) *Fp6 {
	z.B0.Neg(&x.B0)
	z.B1.Neg(&x.B1)
	z.B2.Neg(&x.B2)
	return z
}

// Mul sets z = x * y (Karatsuba, 6 Fp2 multiplications).
func (z *Fp6) Mul(x, y *Fp6) *Fp6 {
	var t0, t1, t2, s, c0, c1, c2 Fp2
	t0.Mul(&x.B0, &y.B0)
	t1.Mul(&x.B1, &y.B1)
	t2.Mul(&x.B2, &y.B2)

	// c0 = t0 + xi*((b1+b2)(d1+d2) - t1 - t2)
	var u1, u2 Fp2
	u1.Add(&x.B1, &x.B2)
	u2.Add(&y.B1, &y.B2)
	s.Mul(&u1, &u2)
	s.Sub(&s, &t1)
	s.Sub(&s, &t2)
	s.MulByNonResidue(&s)
	c0.Add(&t0, &s)

	// c1 = (b0+b1)(d0+d1) - t0 - t1 + xi*t2
	u1.Add(&x.B0, &x.B1)
	u2.Add(&y.B0, &y.B1)
	s.Mul(&u1, &u2)
	s.Sub(&s, &t0)
	s.Sub(&s, &t1)
	var xt2 Fp2
	xt2.MulByNonResidue(&t2)
	c1.Add(&s, &xt2)

	// c2 = (b0+b2)(d0+d2) - t0 - t2 + t1
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

// MulToom3 sets z = x * y by Toom-Cook-3: five Fp2 multiplications at
// the points {0, 1, -1, 2, inf} and an interpolation using field
// halvings and the precomputed inverse of 3. The Gt torus path uses
// this form.
func (z *Fp6) MulToom3(x, y *Fp6) *Fp6 {
	var w0, w1, w2, w3, w4 Fp2
	var ax, bx Fp2

	w0.Mul(&x.B0, &y.B0)
	w4.Mul(&x.B2, &y.B2)

	// x(1)*y(1)
	ax.Add(&x.B0, &x.B1)
	ax.Add(&ax, &x.B2)
	bx.Add(&y.B0, &y.B1)
	bx.Add(&bx, &y.B2)
	w1.Mul(&ax, &bx)

	// x(-1)*y(-1)
	ax.Sub(&x.B0, &x.B1)
	ax.Add(&ax, &x.B2)
	bx.Sub(&y.B0, &y.B1)
	bx.Add(&bx, &y.B2)
	w2.Mul(&ax, &bx)

	// x(2)*y(2)
	var t Fp2
	t.Double(&x.B1)
	ax.Add(&x.B0, &t)
	t.Double(&x.B2)
	t.Double(&t)
	ax.Add(&ax, &t)
	t.Double(&y.B1)
	bx.Add(&y.B0, &t)
	t.Double(&y.B2)
	t.Double(&t)
	bx.Add(&bx, &t)
	w3.Mul(&ax, &bx)

	// Interpolate c0..c4 of the degree-4 product.
	var c0, c1, c2, c3, c4, half, tv Fp2
	c0.Set(&w0)
	c4.Set(&w4)

	half.Add(&w1, &w2)
	half.C0.Halve(&half.C0)
	half.C1.Halve(&half.C1)
	c2.Sub(&half, &w0)
	c2.Sub(&c2, &w4)

	tv.Sub(&w1, &w2)
	tv.C0.Halve(&tv.C0)
	tv.C1.Halve(&tv.C1) // tv = c1 + c3

	// c3 = ((w3 - c0 - 16*c4 - 4*c2)/2 - tv)/3
	var acc Fp2
	acc.Set(&w4)
	for i := 0; i < 4; i++ {
		acc.Double(&acc)
	}
	c3.Sub(&w3, &w0)
	c3.Sub(&c3, &acc)
	acc.Double(&c2)
	acc.Double(&acc)
	c3.Sub(&c3, &acc)
	c3.C0.Halve(&c3.C0)
	c3.C1.Halve(&c3.C1)
	c3.Sub(&c3, &tv)
	c3.MulByFp(&c3, &fpInv3Mont)
	c1.Sub(&tv, &c3)

	// Reduce v^3 = xi, v^4 = xi*v.
	var r0, r1 Fp2
	r0.MulByNonResidue(&c3)
	r0.Add(&r0, &c0)
	r1.MulByNonResidue(&c4)
	r1.Add(&r1, &c1)
	z.B0.Set(&r0)
	z.B1.Set(&r1)
	z.B2.Set(&c2)
	return z
}

// Square sets z = x^2 (CH-SQR2 style, 3 squarings + 2 multiplications).
func (z *Fp6) Square(x *Fp6) *Fp6 {
	var s0, ab, s1, s2, bc, s3, s4 Fp2
	s0.Square(&x.B0)
	ab.Mul(&x.B0, &x.B1)
	s1.Double(&ab)
	s2.Add(&x.B0, &x.B2)
	s2.Sub(&s2, &x.B1)
	s2.Square(&s2)
	bc.Mul(&x.B1, &x.B2)
	s3.Double(&bc)
	s4.Square(&x.B2)

	var c0, c1, c2 Fp2
	c0.MulByNonResidue(&s3)
	c0.Add(&c0, &s0)
	c1.MulByNonResidue(&s4)
	c1.Add(&c1, &s1)
	c2.Add(&s1, &s2)
	c2.Add(&c2, &s3)
	c2.Sub(&c2, &s0)
	c2.Sub(&c2, &s4)

	z.B0.Set(&c0)
	z.B1.Set(&c1)
	z.B2.Set(&c2)
	return z
}

// MulByV multiplies by the tower variable v:
// v*(b0 + b1 v + b2 v^2) = xi*b2 + b0 v + b1 v^2.
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

// MulBy01 multiplies by the sparse element c0 + c1*v (top coefficient
// zero), the shape line functions contribute.
func (z *Fp6) MulBy01(x *Fp6, c0, c1 *Fp2) *Fp6 {
	var a, b, t0, t1, t2 Fp2
	a.Mul(&x.B0, c0)
	b.Mul(&x.B1, c1)

	// z0 = a + xi*((b1+b2)*c1 - b)
	t0.Add(&x.B1, &x.B2)
	t0.Mul(&t0, c1)
	t0.Sub(&t0, &b)
	t0.MulByNonResidue(&t0)
	t0.Add(&t0, &a)

	// z1 = (b0+b1)(c0+c1) - a - b
	t1.Add(&x.B0, &x.B1)
	t2.Add(c0, c1)
	t1.Mul(&t1, &t2)
	t1.Sub(&t1, &a)
	t1.Sub(&t1, &b)

	// z2 = (b0+b2)*c0 - a + b
	t2.Add(&x.B0, &x.B2)
	t2.Mul(&t2, c0)
	t2.Sub(&t2, &a)
	t2.Add(&t2, &b)

	z.B0.Set(&t0)
	z.B1.Set(&t1)
	z.B2.Set(&t2)
	return z
}

// MulBy1 multiplies by the sparse element c1*v.
func (z *Fp6) MulBy1(x *Fp6, c1 *Fp2) *Fp6 {
	var t0, t1, t2 Fp2
	t0.Mul(&x.B2, c1)
	t0.MulByNonResidue(&t0)
	t1.Mul(&x.B0, c1)
	t2.Mul(&x.B1, c1)
	z.B0.Set(&t0)
	z.B1.Set(&t1)
	z.B2.Set(&t2)
	return z
}

// Inverse sets z = x^-1, with inverse(0) = 0.
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

	var d, s Fp2
	d.Mul(&x.B0, &c0)
	s.Mul(&x.B2, &c1)
	var s2 Fp2
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

// IsZero reports whether z is 0.
func (z *Fp6) IsZero() bool {
	return z.B0.IsZero() && z.B1.IsZero() && z.B2.IsZero()
}

// IsOne reports whether z is 1.
func (z *Fp6) IsOne() bool {
	return z.B0.IsOne() && z.B1.IsZero() && z.B2.IsZero()
}

// Equal reports whether z == x.
func (z *Fp6) Equal(x *Fp6) bool {
	return z.B0.Equal(&x.B0) && z.B1.Equal(&x.B1) && z.B2.Equal(&x.B2)
}

// Select sets z = a when ctl is 1 and z = b when ctl is 0.
func (z *Fp6) Select(ctl uint64, a, b *Fp6) *Fp6 {
	z.B0.Select(ctl, &a.B0, &b.B0)
	z.B1.Select(ctl, &a.B1, &b.B1)
	z.B2.Select(ctl, &a.B2, &b.B2)
	return z
}
