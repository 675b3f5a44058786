package bn254

// G2 group law on the D-twist E'(Fp2): y^2 = x^3 + 3/xi, xi = 9 + u.
// Subgroup membership is checked by the order multiplication [n]Q = 0
// (the twist cofactor is 2p - n).

import "math/big"

// G2Affine is a point on the twist; the zero value is the neutral.
type G2Affine struct {
	X, Y Fp2
}

// G2Jac is a point in Jacobian coordinates; Z = 0 is the neutral.
type G2Jac struct {
	X, Y, Z Fp2
}

var (
	g2Gen G2Affine
	g2B   Fp2 // 3/xi
)

func init() {
	// b' = 3/(9+u).
	var three, xi Fp2
	three.C0.SetUint64(3)
	xi.C0.SetUint64(9)
	xi.C1.SetOne()
	xi.Inverse(&xi)
	g2B.Mul(&three, &xi)

	x0, _ := new(big.Int).SetString("10857046999023057135944570762232829481370756359578518086990519993285655852781", 10)
	x1, _ := new(big.Int).SetString("11559732032986387107991004021392285783925812861821192530917403151452391805634", 10)
	y0, _ := new(big.Int).SetString("8495653923123431417604973247489272438418190587263600148770280649306958101930", 10)
	y1, _ := new(big.Int).SetString("4082367875863433681332203403145435568316851327593401208105741076214120093531", 10)
	g2Gen.X.SetBig(x0, x1)
	g2Gen.Y.SetBig(y0, y1)
}

// G2Generator returns the standard G2 generator.
func G2Generator() G2Affine {
	return g2Gen
}

// IsInfinity reports whether p is the neutral element.
func (p *G2Affine) IsInfinity() bool {
	return p.X.IsZero() && p.Y.IsZero()
}

// SetInfinity sets p to the neutral element.
func (p *G2Affine) SetInfinity() *G2Affine {
	p.X.SetZero()
	p.Y.SetZero()
	return p
}

// Neg sets p = -q.
func (p *G2Affine) Neg(q *G2Affine) *G2Affine {
	p.X.Set(&q.X)
	p.Y.Neg(&q.Y)
	return p
}

// Equal reports whether p == q.
func (p *G2Affine) Equal(q *G2Affine) bool {
	return p.X.Equal(&q.X) && p.Y.Equal(&q.Y)
}

// IsOnCurve checks y^2 = x^3 + 3/xi.
func (p *G2Affine) IsOnCurve() bool {
	if p.IsInfinity() {
		return true
	}
	var lhs, rhs Fp2
	lhs.Square(&p.Y)
	rhs.Square(&p.X)
	rhs.Mul(&rhs, &p.X)
	rhs.Add(&rhs, &g2B)
	return lhs.Equal(&rhs)
}

// psi applies the untwist-Frobenius-twist endomorphism, used by the
// Miller loop's closing steps.
func (p *G2Affine) psi(q *G2Affine) *G2Affine {
	var x, y Fp2
	x.Conjugate(&q.X)
	x.Mul(&x, &fp12Gamma1[2])
	y.Conjugate(&q.Y)
	y.Mul(&y, &fp12Gamma1[3])
	p.X.Set(&x)
	p.Y.Set(&y)
	return p
}

// IsInSubgroup checks [n]Q = 0.
func (p *G2Affine) IsInSubgroup() bool {
	if p.IsInfinity() {
		return true
	}
	var j G2Jac
	j.ScalarMulBigVartime(p, frModulus)
	return j.IsInfinity()
}

// SetInfinity sets p to the neutral element.
func (p *G2Jac) SetInfinity() *G2Jac {
	p.X.SetOne()
	p.Y.SetOne()
	p.Z.SetZero()
	return p
}

// IsInfinity reports whether p is the neutral element.
func (p *G2Jac) IsInfinity() bool {
	return p.Z.IsZero()
}

// Set copies q into p.
func (p *G2Jac) Set(q *G2Jac) *G2Jac {
	p.X.Set(&q.X)
	p.Y.Set(&q.Y)
	p.Z.Set(&q.Z)
	return p
}

// FromAffine lifts an affine point.
func (p *G2Jac) FromAffine(q *G2Affine) *G2Jac {
	if q.IsInfinity() {
		return p.SetInfinity()
	}
	p.X.Set(&q.X)
	p.Y.Set(&q.Y)
	p.Z.SetOne()
	return p
}

// ToAffine normalizes with one inversion.
func (p *G2Jac) ToAffine() G2Affine {
	var out G2Affine
	if p.IsInfinity() {
		return out
	}
	var zInv, zInv2 Fp2
	zInv.Inverse(&p.Z)
	zInv2.Square(&zInv)
	out.X.Mul(&p.X, &zInv2)
	zInv2.Mul(&zInv2, &zInv)
	out.Y.Mul(&p.Y, &zInv2)
	return out
}

// Double sets p = 2q.
func (p *G2Jac) Double(q *G2Jac) *G2Jac {
	if q.IsInfinity() {
		return p.Set(q)
	}
	var a, b, c, d, e, f, t Fp2
	a.Square(&q.X)
	b.Square(&q.Y)
	c.Square(&b)
	d.Add(&q.X, &b)
	d.Square(&d)
	d.Sub(&d, &a)
	d.Sub(&d, &c)
	d.Double(&d)
	e.Double(&a)
	e.Add(&e, &a)
	f.Square(&e)

	var x3, y3, z3 Fp2
	x3.Double(&d)
	x3.Sub(&f, &x3)
	t.Sub(&d, &x3)
	y3.Mul(&e, &t)
	t.Double(&c)
	t.Double(&t)
	t.Double(&t)
	y3.Sub(&y3, &t)
	z3.Mul(&q.Y, &q.Z)
	z3.Double(&z3)

	p.X.Set(&x3)
	p.Y.Set(&y3)
	p.Z.Set(&z3)
	return p
}

// AddAssign sets p = p + q.
func (p *G2Jac) AddAssign(q *G2Jac) *G2Jac {
	if q.IsInfinity() {
		return p
	}
	if p.IsInfinity() {
		return p.Set(q)
	}
	var z1z1, z2z2, u1, u2, s1, s2 Fp2
	z1z1.Square(&p.Z)
	z2z2.Square(&q.Z)
	u1.Mul(&p.X, &z2z2)
	u2.Mul(&q.X, &z1z1)
	s1.Mul(&p.Y, &q.Z)
	s1.Mul(&s1, &z2z2)
	s2.Mul(&q.Y, &p.Z)
	s2.Mul(&s2, &z1z1)

	if u1.Equal(&u2) {
		if s1.Equal(&s2) {
			return p.Double(p)
		}
		return p.SetInfinity()
	}

	var h, i, j, rr, v Fp2
	h.Sub(&u2, &u1)
	i.Double(&h)
	i.Square(&i)
	j.Mul(&h, &i)
	rr.Sub(&s2, &s1)
	rr.Double(&rr)
	v.Mul(&u1, &i)

	var x3, y3, z3, t Fp2
	x3.Square(&rr)
	x3.Sub(&x3, &j)
	t.Double(&v)
	x3.Sub(&x3, &t)

	y3.Sub(&v, &x3)
	y3.Mul(&y3, &rr)
	t.Mul(&s1, &j)
	t.Double(&t)
	y3.Sub(&y3, &t)

	z3.Add(&p.Z, &q.Z)
	z3.Square(&z3)
	z3.Sub(&z3, &z1z1)
	z3.Sub(&z3, &z2z2)
	z3.Mul(&z3, &h)

	p.X.Set(&x3)
	p.Y.Set(&y3)
	p.Z.Set(&z3)
	return p
}

// AddMixed sets p = p + q for an affine addend.
func (p *G2Jac) AddMixed(q *G2Affine) *G2Jac {
	if q.IsInfinity() {
		return p
	}
	var qj G2Jac
	qj.FromAffine(q)
	return p.AddAssign(&qj)
}

// ScalarMulBigVartime sets p = [e]q by binary double-and-add.
func (p *G2Jac) ScalarMulBigVartime(q *G2Affine, e *big.Int) *G2Jac {
	if q.IsInfinity() || e.Sign() == 0 {
		return p.SetInfinity()
	}
	var k big.Int
	k.Abs(e)
	var acc, base G2Jac
	acc.SetInfinity()
	base.FromAffine(q)
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc.Double(&acc)
		if k.Bit(i) == 1 {
			acc.AddAssign(&base)
		}
	}
	if e.Sign() < 0 {
		acc.Y.Neg(&acc.Y)
	}
	return p.Set(&acc)
}

// ScalarMulVartime sets p = [k]q for a public Fr scalar.
func (p *G2Jac) ScalarMulVartime(q *G2Affine, k *Fr) *G2Jac {
	return p.ScalarMulBigVartime(q, k.BigInt())
}

// G2Add returns p + q in affine form.
func G2Add(p, q *G2Affine) G2Affine {
	var j G2Jac
	j.FromAffine(p)
	j.AddMixed(q)
	return j.ToAffine()
}

// G2ScalarMulVartime returns [k]p for a public scalar.
func G2ScalarMulVartime(p *G2Affine, k *big.Int) G2Affine {
	var j G2Jac
	j.ScalarMulBigVartime(p, k)
	return j.ToAffine()
}

// ClearCofactor multiplies by the twist cofactor 2p - n.
func (p *G2Affine) ClearCofactor(q *G2Affine) *G2Affine {
	h := new(big.Int).Lsh(fpModulus, 1)
	h.Sub(h, frModulus)
	var j G2Jac
	j.ScalarMulBigVartime(q, h)
	*p = j.ToAffine()
	return p
}
