package bls12381

// G1 group law on E(Fp): y^2 = x^3 + 4.
//
// Three coordinate systems, chosen per operation:
//   - affine for storage, serialization and pairing inputs; the neutral
//     element is (0, 0);
//   - Jacobian (x = X/Z^2, y = Y/Z^3) for variable-time arithmetic;
//   - homogeneous projective (x = X/Z, y = Y/Z) with the complete
//     Renes-Costello-Batina formulas for constant-time scalar
//     multiplication, where the addition law has no exceptional cases
//     to branch on.
//
// Variable-time scalar multiplication uses wNAF recoding with a GLV
// split along the curve endomorphism phi(x, y) = (beta*x, y),
// phi(P) = [lambda]P with lambda = x^2 - 1; the same endomorphism gives
// the fast subgroup check.

import "math/big"

// G1Affine is a point on E(Fp) in affine coordinates. The zero value is
// the neutral element.
type G1Affine struct {
	X, Y Fp
}

// G1Jac is a point in Jacobian coordinates; Z = 0 is the neutral.
type G1Jac struct {
	X, Y, Z Fp
}

// G1Prj is a point in homogeneous projective coordinates; Z = 0 is the
// neutral, represented canonically as (0 : 1 : 0).
type G1Prj struct {
	X, Y, Z Fp
}

var g1Gen G1Affine

func init() {
	g1Gen.X.SetBig(mustBig("17f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb"))
	g1Gen.Y.SetBig(mustBig("08b3f481e3aaa0f1a09e30ed741d8ae4fcf5e095d5d00af600db18cb2c04b3edd03cc744a2888ae40caa232946c5e7e1"))
}

// G1Generator returns the standard generator of the prime-order
// subgroup.
func G1Generator() G1Affine {
	return g1Gen
}

// IsInfinity reports whether p is the neutral element.
func (p *G1Affine) IsInfinity() bool {
	return p.X.IsZero() && p.Y.IsZero()
}

// SetInfinity sets p to the neutral element.
func (p *G1Affine) SetInfinity() *G1Affine {
	p.X.SetZero()
	p.Y.SetZero()
	return p
}

// Neg sets p = -q.
func (p *G1Affine) Neg(q *G1Affine) *G1Affine {
	p.X.Set(&q.X)
	p.Y.Neg(&q.Y)
	return p
}

// Equal reports whether p == q.
func (p *G1Affine) Equal(q *G1Affine) bool {
	return p.X.Equal(&q.X) && p.Y.Equal(&q.Y)
}

// IsOnCurve checks y^2 = x^3 + 4; the neutral element passes.
func (p *G1Affine) IsOnCurve() bool {
	if p.IsInfinity() {
		return true
	}
	var lhs, rhs, b Fp
	lhs.Square(&p.Y)
	rhs.Square(&p.X)
	rhs.Mul(&rhs, &p.X)
	b.SetUint64(4)
	rhs.Add(&rhs, &b)
	return lhs.Equal(&rhs)
}

// IsInSubgroup checks prime-order membership via the endomorphism:
// phi(P) = [x^2 - 1]P holds exactly on the order-r subgroup.
func (p *G1Affine) IsInSubgroup() bool {
	if p.IsInfinity() {
		return true
	}
	var phi G1Affine
	phi.X.Mul(&p.X, &glvBeta)
	phi.Y.Set(&p.Y)
	var lhs, rhs G1Jac
	lhs.FromAffine(&phi)
	rhs.ScalarMulBigVartime(p, glvLambda)
	return lhs.Equal(&rhs)
}

// --- Jacobian ---

// SetInfinity sets p to the neutral element.
func (p *G1Jac) SetInfinity() *G1Jac {
	p.X.SetOne()
	p.Y.SetOne()
	p.Z.SetZero()
	return p
}

// IsInfinity reports whether p is the neutral element.
func (p *G1Jac) IsInfinity() bool {
	return p.Z.IsZero()
}

// Set copies q into p.
func (p *G1Jac) Set(q *G1Jac) *G1Jac {
	p.X.Set(&q.X)
	p.Y.Set(&q.Y)
	p.Z.Set(&q.Z)
	return p
}

// FromAffine lifts an affine point.
func (p *G1Jac) FromAffine(q *G1Affine) *G1Jac {
	if q.IsInfinity() {
		return p.SetInfinity()
	}
	p.X.Set(&q.X)
	p.Y.Set(&q.Y)
	p.Z.SetOne()
	return p
}

// ToAffine normalizes with one inversion.
func (p *G1Jac) ToAffine() G1Affine {
	var out G1Affine
	if p.IsInfinity() {
		return out
	}
	var zInv, zInv2 Fp
	zInv.Inverse(&p.Z)
	zInv2.Square(&zInv)
	out.X.Mul(&p.X, &zInv2)
	zInv2.Mul(&zInv2, &zInv)
	out.Y.Mul(&p.Y, &zInv2)
	return out
}

// Neg sets p = -q.
func (p *G1Jac) Neg(q *G1Jac) *G1Jac {
	p.X.Set(&q.X)
	p.Y.Neg(&q.Y)
	p.Z.Set(&q.Z)
	return p
}

// Equal compares group elements across different Z scalings.
func (p *G1Jac) Equal(q *G1Jac) bool {
	if p.IsInfinity() {
		return q.IsInfinity()
	}
	if q.IsInfinity() {
		return false
	}
	var pz2, qz2, a, b Fp
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
func (p *G1Jac) Double(q *G1Jac) *G1Jac {
	if q.IsInfinity() {
		return p.Set(q)
	}
	var a, b, c, d, e, f, t Fp
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

	var x3, y3, z3 Fp
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

// AddAssign sets p = p + q (add-2007-bl with the standard exceptional
// cases).
func (p *G1Jac) AddAssign(q *G1Jac) *G1Jac {
	if q.IsInfinity() {
		return p
	}
	if p.IsInfinity() {
		return p.Set(q)
	}
	var z1z1, z2z2, u1, u2, s1, s2 Fp
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

	var h, i, j, rr, v Fp
	h.Sub(&u2, &u1)
	i.Double(&h)
	i.Square(&i)
	j.Mul(&h, &i)
	rr.Sub(&s2, &s1)
	rr.Double(&rr)
	v.Mul(&u1, &i)

	var x3, y3, z3, t Fp
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
func (p *G1Jac) AddMixed(q *G1Affine) *G1Jac {
	if q.IsInfinity() {
		return p
	}
	var qj G1Jac
	qj.FromAffine(q)
	return p.AddAssign(&qj)
}

// ScalarMulBigVartime sets p = [e]q for a public scalar of any size and
// sign, by wNAF double-and-add. It makes no subgroup assumption, so it
// serves cofactor clearing and membership checks.
func (p *G1Jac) ScalarMulBigVartime(q *G1Affine, e *big.Int) *G1Jac {
	if q.IsInfinity() || e.Sign() == 0 {
		return p.SetInfinity()
	}
	naf := wnafBig(e, 5)
	table := g1OddMultiples(q, 8)
	var acc G1Jac
	acc.SetInfinity()
	for i := len(naf) - 1; i >= 0; i-- {
		acc.Double(&acc)
		if naf[i] != 0 {
			addDigit(&acc, table, naf[i])
		}
	}
	return p.Set(&acc)
}

// scalarMulGLVVartime sets p = [e]q for 0 <= e < r and q in the
// prime-order subgroup, splitting e along the endomorphism eigenvalue
// and merging the two half-length wNAF ladders.
func (p *G1Jac) scalarMulGLVVartime(q *G1Affine, e *big.Int) *G1Jac {
	if q.IsInfinity() || e.Sign() == 0 {
		return p.SetInfinity()
	}
	var k big.Int
	k.Mod(e, frModulus)

	var k2, k1 big.Int
	k2.DivMod(&k, glvLambda, &k1)

	var base, endo G1Affine
	base = *q
	endo.X.Mul(&q.X, &glvBeta)
	endo.Y.Set(&q.Y)

	var acc G1Jac
	acc.SetInfinity()

	n1 := wnafBig(&k1, 5)
	n2 := wnafBig(&k2, 5)
	t1 := g1OddMultiples(&base, 8)
	t2 := g1OddMultiples(&endo, 8)
	l := len(n1)
	if len(n2) > l {
		l = len(n2)
	}
	for i := l - 1; i >= 0; i-- {
		acc.Double(&acc)
		if i < len(n1) && n1[i] != 0 {
			addDigit(&acc, t1, n1[i])
		}
		if i < len(n2) && n2[i] != 0 {
			addDigit(&acc, t2, n2[i])
		}
	}
	return p.Set(&acc)
}

// ScalarMulVartime sets p = [k]q for a public Fr scalar and q in the
// prime-order subgroup (GLV-accelerated).
func (p *G1Jac) ScalarMulVartime(q *G1Affine, k *Fr) *G1Jac {
	return p.scalarMulGLVVartime(q, k.BigInt())
}

// g1OddMultiples returns [q, 3q, 5q, ..., (2n-1)q] in affine form.
func g1OddMultiples(q *G1Affine, n int) []G1Affine {
	table := make([]G1Jac, n)
	table[0].FromAffine(q)
	var twoQ G1Jac
	twoQ.FromAffine(q)
	twoQ.Double(&twoQ)
	for i := 1; i < n; i++ {
		table[i].Set(&table[i-1])
		table[i].AddAssign(&twoQ)
	}
	return g1BatchToAffine(table)
}

func addDigit(acc *G1Jac, table []G1Affine, d int8) {
	if d > 0 {
		acc.AddMixed(&table[(d-1)/2])
	} else {
		var neg G1Affine
		neg.Neg(&table[(-d-1)/2])
		acc.AddMixed(&neg)
	}
}

// wnafBig recodes |e| in width-w NAF, least-significant digit first.
func wnafBig(e *big.Int, w uint) []int8 {
	var k big.Int
	k.Abs(e)
	out := make([]int8, 0, k.BitLen()+1)
	mod := int64(1) << w
	for k.Sign() > 0 {
		var d int64
		if k.Bit(0) == 1 {
			d = int64(k.Uint64()) & (mod - 1)
			if d >= mod/2 {
				d -= mod
			}
			var t big.Int
			t.SetInt64(d)
			k.Sub(&k, &t)
		}
		out = append(out, int8(d))
		k.Rsh(&k, 1)
	}
	if e.Sign() < 0 {
		for i := range out {
			out[i] = -out[i]
		}
	}
	return out
}

// g1BatchToAffine normalizes a batch of Jacobian points with a single
// inversion (Montgomery's trick).
func g1BatchToAffine(points []G1Jac) []G1Affine {
	n := len(points)
	out := make([]G1Affine, n)
	zs := make([]Fp, n)
	for i := range points {
		zs[i].Set(&points[i].Z)
	}
	fpBatchInvert(zs)
	for i := range points {
		if points[i].IsInfinity() {
			continue
		}
		var zInv2, zInv3 Fp
		zInv2.Square(&zs[i])
		zInv3.Mul(&zInv2, &zs[i])
		out[i].X.Mul(&points[i].X, &zInv2)
		out[i].Y.Mul(&points[i].Y, &zInv3)
	}
	return out
}

// --- Projective (complete formulas) ---

// SetInfinity sets p to (0 : 1 : 0).
func (p *G1Prj) SetInfinity() *G1Prj {
	p.X.SetZero()
	p.Y.SetOne()
	p.Z.SetZero()
	return p
}

// FromAffine lifts an affine point; the affine neutral maps to
// (0 : 1 : 0).
func (p *G1Prj) FromAffine(q *G1Affine) *G1Prj {
	inf := q.IsInfinity()
	p.X.Set(&q.X)
	p.Y.Set(&q.Y)
	p.Z.SetOne()
	var one Fp
	one.SetOne()
	if inf {
		p.Y.Set(&one)
		p.Z.SetZero()
	}
	return p
}

// ToAffine normalizes with one inversion.
func (p *G1Prj) ToAffine() G1Affine {
	var out G1Affine
	if p.Z.IsZero() {
		return out
	}
	var zInv Fp
	zInv.Inverse(&p.Z)
	out.X.Mul(&p.X, &zInv)
	out.Y.Mul(&p.Y, &zInv)
	return out
}

// Set copies q into p.
func (p *G1Prj) Set(q *G1Prj) *G1Prj {
	p.X.Set(&q.X)
	p.Y.Set(&q.Y)
	p.Z.Set(&q.Z)
	return p
}

// Select sets p = a when ctl is 1 and p = b otherwise, in constant
// time.
func (p *G1Prj) Select(ctl uint64, a, b *G1Prj) *G1Prj {
	p.X.Select(ctl, &a.X, &b.X)
	p.Y.Select(ctl, &a.Y, &b.Y)
	p.Z.Select(ctl, &a.Z, &b.Z)
	return p
}

// AddAssign sets p = p + q with the complete RCB addition (a = 0,
// b3 = 12); valid for every input pair, including doublings and the
// neutral element, with no data-dependent branches.
func (p *G1Prj) AddAssign(q *G1Prj) *G1Prj {
	var b3 Fp
	b3.SetUint64(12)

	var t0, t1, t2, t3, t4, x3, y3, z3 Fp
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
	t2.Mul(&b3, &t2)
	z3.Add(&t1, &t2)
	t1.Sub(&t1, &t2)
	y3.Mul(&b3, &y3)
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

// Double sets p = 2q (complete doubling, a = 0, b3 = 12).
func (p *G1Prj) Double(q *G1Prj) *G1Prj {
	var b3 Fp
	b3.SetUint64(12)

	var t0, t1, t2, x3, y3, z3 Fp
	t0.Square(&q.Y)
	z3.Double(&t0)
	z3.Double(&z3)
	z3.Double(&z3)
	t1.Mul(&q.Y, &q.Z)
	t2.Square(&q.Z)
	t2.Mul(&b3, &t2)
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

// ScalarMul sets p = [k]q in constant time: fixed 4-bit windows over
// the canonical scalar, a 16-entry table walked with masked copies so
// the window value never indexes a load, and complete additions
// throughout.
func (p *G1Prj) ScalarMul(q *G1Affine, k *Fr) *G1Prj {
	var table [16]G1Prj
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
	var acc G1Prj
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
		var sel G1Prj
		sel.SetInfinity()
		for j := uint64(0); j < 16; j++ {
			ctl := ctEq(w, j)
			sel.Select(ctl, &table[j], &sel)
		}
		acc.AddAssign(&sel)
	}
	return p.Set(&acc)
}

func windowAt(limbs []uint64, pos uint) uint64 {
	return limbs[pos/64] >> (pos % 64) & 0xf
}

// ctEq returns 1 when a == b, branch-free.
func ctEq(a, b uint64) uint64 {
	x := a ^ b
	return 1 ^ ((x | -x) >> 63)
}

// --- high-level helpers ---

// G1Add returns p + q in affine form.
func G1Add(p, q *G1Affine) G1Affine {
	var j G1Jac
	j.FromAffine(p)
	j.AddMixed(q)
	return j.ToAffine()
}

// G1ScalarMul returns [k]p in constant time.
func G1ScalarMul(p *G1Affine, k *Fr) G1Affine {
	var prj G1Prj
	prj.ScalarMul(p, k)
	return prj.ToAffine()
}

// G1ScalarMulVartime returns [k]p for public scalars.
func G1ScalarMulVartime(p *G1Affine, k *Fr) G1Affine {
	var j G1Jac
	j.ScalarMulVartime(p, k)
	return j.ToAffine()
}

// ClearCofactor multiplies by the effective G1 cofactor (x-1)^2/3,
// projecting any curve point into the prime-order subgroup.
func (p *G1Affine) ClearCofactor(q *G1Affine) *G1Affine {
	var j G1Jac
	j.ScalarMulBigVartime(q, g1CofactorEff)
	*p = j.ToAffine()
	return p
}
