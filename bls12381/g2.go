package bls12381

// G2 group law on the twist E'(Fp2): y^2 = x^3 + 4(1+u).
//
// Mirrors the G1 file over Fp2: affine + Jacobian for variable time,
// homogeneous projective with complete formulas for constant-time
// scalar multiplication (signatures multiply the hash point by a secret
// key). The untwist-Frobenius-twist endomorphism psi drives both the
// fast subgroup check psi(Q) = [x]Q and nothing else here; cofactor
// clearing multiplies by the effective cofactor scalar.

import "math/big"

// G2Affine is a point on E'(Fp2); the zero value is the neutral.
type G2Affine struct {
	X, Y Fp2
}

// G2Jac is a point in Jacobian coordinates; Z = 0 is the neutral.
type G2Jac struct {
	X, Y, Z Fp2
}

// G2Prj is a point in homogeneous projective coordinates.
type G2Prj struct {
	X, Y, Z Fp2
}

var (
	g2Gen    G2Affine
	g2B      Fp2 // 4(1+u)
	g2BThree Fp2 // 12(1+u)
)

func init() {
	g2Gen.X.SetBig(
		mustBig("024aa2b2f08f0a91260805272dc51051c6e47ad4fa403b02b4510b647ae3d1770bac0326a805bbefd48056c8c121bdb8"),
		mustBig("13e02b6052719f607dacd3a088274f65596bd0d09920b61ab5da61bbdc7f5049334cf11213945d57e5ac7d055d042b7e"))
	g2Gen.Y.SetBig(
		mustBig("0ce5d527727d6e118cc9cdc6da2e351aadfd9baa8cbdd3a76d429a695160d12c923ac9cc3baca289e193548608b82801"),
		mustBig("0606c4a02ea734cc32acd2b02bc28b99cb3e287e85a763af267492ab572e99ab3f370d275cec1da1aaa9075ff05f79be"))
	g2B.C0.SetUint64(4)
	g2B.C1.SetUint64(4)
	g2BThree.C0.SetUint64(12)
	g2BThree.C1.SetUint64(12)
}

// G2Generator returns the standard generator of the prime-order
// subgroup.
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

// IsOnCurve checks y^2 = x^3 + 4(1+u); the neutral element passes.
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

// psi applies the untwist-Frobenius-twist endomorphism.
func (p *G2Affine) psi(q *G2Affine) *G2Affine {
	var x, y Fp2
	x.Conjugate(&q.X)
	x.Mul(&x, &psiX)
	y.Conjugate(&q.Y)
	y.Mul(&y, &psiY)
	p.X.Set(&x)
	p.Y.Set(&y)
	return p
}

// IsInSubgroup checks prime-order membership via psi(Q) = [x]Q.
func (p *G2Affine) IsInSubgroup() bool {
	if p.IsInfinity() {
		return true
	}
	var ps G2Affine
	ps.psi(p)
	var lhs, rhs G2Jac
	lhs.FromAffine(&ps)
	rhs.ScalarMulBigVartime(p, blsXBig)
	rhs.Neg(&rhs) // the seed is negative
	return lhs.Equal(&rhs)
}

// --- Jacobian ---

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

// Neg sets p = -q.
func (p *G2Jac) Neg(q *G2Jac) *G2Jac {
	p.X.Set(&q.X)
	p.Y.Neg(&q.Y)
	p.Z.Set(&q.Z)
	return p
}

// Equal compares group elements across different Z scalings.
func (p *G2Jac) Equal(q *G2Jac) bool {
	if p.IsInfinity() {
		return q.IsInfinity()
	}
	if q.IsInfinity() {
		return false
	}
	var pz2, qz2, a, b Fp2
	pz2.Square(&p.Z)
	qz2.Square(&q.Z)
	a.Mul(&p.X, &qz2)
	b.Mul(&q.X, &pz2)
	if !a.Equal(&b) {
		return false
	}
	pz2.Mul(&pz2, &p.Z)
	qz2.Mul(&qz2, &q.Z)
	a.Mul(&p.Y, &qz2)
	b.Mul(&q.Y, &pz2)
	return a.Equal(&b)
}

// Double sets p = 2q (dbl-2009-l, a = 0).
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

// ScalarMulBigVartime sets p = [e]q for a public scalar of any size and
// sign, with no subgroup assumption.
func (p *G2Jac) ScalarMulBigVartime(q *G2Affine, e *big.Int) *G2Jac {
	if q.IsInfinity() || e.Sign() == 0 {
		return p.SetInfinity()
	}
	naf := wnafBig(e, 5)
	table := g2OddMultiples(q, 8)
	var acc G2Jac
	acc.SetInfinity()
	for i := len(naf) - 1; i >= 0; i-- {
		acc.Double(&acc)
		if naf[i] != 0 {
			g2AddDigit(&acc, table, naf[i])
		}
	}
	return p.Set(&acc)
}

// ScalarMulVartime sets p = [k]q for a public Fr scalar.
func (p *G2Jac) ScalarMulVartime(q *G2Affine, k *Fr) *G2Jac {
	return p.ScalarMulBigVartime(q, k.BigInt())
}

func g2OddMultiples(q *G2Affine, n int) []G2Affine {
	table := make([]G2Jac, n)
	table[0].FromAffine(q)
	var twoQ G2Jac
	twoQ.FromAffine(q)
	twoQ.Double(&twoQ)
	for i := 1; i < n; i++ {
		table[i].Set(&table[i-1])
		table[i].AddAssign(&twoQ)
	}
	return g2BatchToAffine(table)
}

func g2AddDigit(acc *G2Jac, table []G2Affine, d int8) {
	if d > 0 {
		acc.AddMixed(&table[(d-1)/2])
	} else {
		var neg G2Affine
		neg.Neg(&table[(-d-1)/2])
		acc.AddMixed(&neg)
	}
}

// g2BatchToAffine normalizes a batch of Jacobian points with a single
// inversion.
func g2BatchToAffine(points []G2Jac) []G2Affine {
	n := len(points)
	out := make([]G2Affine, n)
	zs := make([]Fp2, n)
	for i := range points {
		zs[i].Set(&points[i].Z)
	}
	fp2BatchInvert(zs)
	for i := range points {
		if points[i].IsInfinity() {
			continue
		}
		var zInv2, zInv3 Fp2
		zInv2.Square(&zs[i])
		zInv3.Mul(&zInv2, &zs[i])
		out[i].X.Mul(&points[i].X, &zInv2)
		out[i].Y.Mul(&points[i].Y, &zInv3)
	}
	return out
}

// fp2BatchInvert mirrors fpBatchInvert for Fp2 slices.
func fp2BatchInvert(v []Fp2) {
	n := len(v)
	if n == 0 {
		return
	}
	prods := make([]Fp2, n)
	var acc Fp2
	acc.SetOne()
	for i := 0; i < n; i++ {
		prods[i].Set(&acc)
		if !v[i].IsZero() {
			acc.Mul(&acc, &v[i])
		}
	}
	var inv Fp2
	inv.Inverse(&acc)
	for i := n - 1; i >= 0; i-- {
		if v[i].IsZero() {
			continue
		}
		var t Fp2
		t.Mul(&inv, &prods[i])
		inv.Mul(&inv, &v[i])
		v[i].Set(&t)
	}
}

// --- Projective (complete formulas) ---

// SetInfinity sets p to (0 : 1 : 0).
func (p *G2Prj) SetInfinity() *G2Prj {
	p.X.SetZero()
	p.Y.SetOne()
	p.Z.SetZero()
	return p
}

// FromAffine lifts an affine point.
func (p *G2Prj) FromAffine(q *G2Affine) *G2Prj {
	inf := q.IsInfinity()
	p.X.Set(&q.X)
	p.Y.Set(&q.Y)
	p.Z.SetOne()
	if inf {
		p.Y.SetOne()
		p.Z.SetZero()
	}
	return p
}

// ToAffine normalizes with one inversion.
func (p *G2Prj) ToAffine() G2Affine {
	var out G2Affine
	if p.Z.IsZero() {
		return out
	}
	var zInv Fp2
	zInv.Inverse(&p.Z)
	out.X.Mul(&p.X, &zInv)
	out.Y.Mul(&p.Y, &zInv)
	return out
}

// Set copies q into p.
func (p *G2Prj) Set(q *G2Prj) *G2Prj {
	p.X.Set(&q.X)
	p.Y.Set(&q.Y)
	p.Z.Set(&q.Z)
	return p
}

// Select sets p = a when ctl is 1 and p = b otherwise.
func (p *G2Prj) Select(ctl uint64, a, b *G2Prj) *G2Prj {
	p.X.Select(ctl, &a.X, &b.X)
	p.Y.Select(ctl, &a.Y, &b.Y)
	p.Z.Select(ctl, &a.Z, &b.Z)
	return p
}

// AddAssign sets p = p + q with the complete RCB addition over Fp2
// (a = 0, b3 = 12(1+u)).
func (p *G2Prj) AddAssign(q *G2Prj) *G2Prj {
	var t0, t1, t2, t3, t4, x3, y3, z3 Fp2
	t0.Mul(&p.X, &q.X)
	t1.Mul(&p.Y, &q.Y)
	t2.Mul(&p.Z, &q.Z)
	t3.Add(&p.X, &p.Y)
	t4.Add(&q.X, &q.Y)
	t3.Mul(&t3, &t4)
	t4.Add(&t0, &t1)
	t3.Sub(&t3, &t4)
	t4.Add(&p.Y, &p.Z)
	x3.Add(&q.Y, &q.Z)
	t4.Mul(&t4, &x3)
	x3.Add(&t1, &t2)
	t4.Sub(&t4, &x3)
	x3.Add(&p.X, &p.Z)
	y3.Add(&q.X, &q.Z)
	x3.Mul(&x3, &y3)
	y3.Add(&t0, &t2)
	y3.Sub(&x3, &y3)
	x3.Double(&t0)
	t0.Add(&x3, &t0)
	t2.Mul(&g2BThree, &t2)
	z3.Add(&t1, &t2)
	t1.Sub(&t1, &t2)
	y3.Mul(&g2BThree, &y3)
	x3.Mul(&t4, &y3)
	t2.Mul(&t3, &t1)
	x3.Sub(&t2, &x3)
	y3.Mul(&y3, &t0)
	t1.Mul(&t1, &z3)
	y3.Add(&t1, &y3)
	t0.Mul(&t0, &t3)
	z3.Mul(&z3, &t4)
	z3.Add(&z3, &t0)

	p.X.Set(&x3)
	p.Y.Set(&y3)
	p.Z.Set(&z3)
	return p
}

// Double sets p = 2q (complete doubling).
func (p *G2Prj) Double(q *G2Prj) *G2Prj {
	var t0, t1, t2, x3, y3, z3 Fp2
	t0.Square(&q.Y)
	z3.Double(&t0)
	z3.Double(&z3)
	z3.Double(&z3)
	t1.Mul(&q.Y, &q.Z)
	t2.Square(&q.Z)
	t2.Mul(&g2BThree, &t2)
	x3.Mul(&t2, &z3)
	y3.Add(&t0, &t2)
	z3.Mul(&t1, &z3)
	t1.Double(&t2)
	t2.Add(&t1, &t2)
	t0.Sub(&t0, &t2)
	y3.Mul(&t0, &y3)
	y3.Add(&x3, &y3)
	t1.Mul(&q.X, &q.Y)
	x3.Mul(&t0, &t1)
	x3.Double(&x3)

	p.X.Set(&x3)
	p.Y.Set(&y3)
	p.Z.Set(&z3)
	return p
}

// ScalarMul sets p = [k]q in constant time (fixed 4-bit windows,
// masked table walk, complete additions).
func (p *G2Prj) ScalarMul(q *G2Affine, k *Fr) *G2Prj {
	var table [16]G2Prj
	table[0].SetInfinity()
	table[1].FromAffine(q)
	for i := 2; i < 16; i++ {
		if i%2 == 0 {
			table[i].Set(&table[i/2])
			table[i].Double(&table[i])
		} else {
			table[i].Set(&table[i-1])
			table[i].AddAssign(&table[1])
		}
	}

	scalar := k.Regular()
	var acc G2Prj
	acc.SetInfinity()
	started := false
	for pos := int(64*FrLimbs) - 4; pos >= 0; pos -= 4 {
		if started {
			acc.Double(&acc)
			acc.Double(&acc)
			acc.Double(&acc)
			acc.Double(&acc)
		}
		started = true
		w := windowAt(scalar[:], uint(pos))
		var sel G2Prj
		sel.SetInfinity()
		for j := uint64(0); j < 16; j++ {
			sel.Select(ctEq(w, j), &table[j], &sel)
		}
		acc.AddAssign(&sel)
	}
	return p.Set(&acc)
}

// --- high-level helpers ---

// G2Add returns p + q in affine form.
func G2Add(p, q *G2Affine) G2Affine {
	var j G2Jac
	j.FromAffine(p)
	j.AddMixed(q)
	return j.ToAffine()
}

// G2ScalarMul returns [k]p in constant time.
func G2ScalarMul(p *G2Affine, k *Fr) G2Affine {
	var prj G2Prj
	prj.ScalarMul(p, k)
	return prj.ToAffine()
}

// G2ScalarMulVartime returns [k]p for public scalars.
func G2ScalarMulVartime(p *G2Affine, k *Fr) G2Affine {
	var j G2Jac
	j.ScalarMulVartime(p, k)
	return j.ToAffine()
}

// ClearCofactor multiplies by the effective G2 cofactor.
func (p *G2Affine) ClearCofactor(q *G2Affine) *G2Affine {
	var j G2Jac
	j.ScalarMulBigVartime(q, g2CofactorEff)
	*p = j.ToAffine()
	return p
}
