package bn254

// G1 group law on E(Fp): y^2 = x^3 + 3. The generator is (1, 2) and the
// cofactor is 1, so every curve point is in the prime-order subgroup.

import "math/big"

// G1Affine is a point in affine coordinates; the zero value is the
// neutral element.
type G1Affine struct {
	X, Y Fp
}

// G1Jac is a point in Jacobian coordinates; Z = 0 is the neutral.
type G1Jac struct {
	X, Y, Z Fp
}

var g1Gen G1Affine

func init() {
	g1Gen.X.SetUint64(1)
	g1Gen.Y.SetUint64(2)
}

// G1Generator returns the generator (1, 2).
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

// IsOnCurve checks y^2 = x^3 + 3.
func (p *G1Affine) IsOnCurve() bool {
	if p.IsInfinity() {
		return true
	}
	var lhs, rhs, b Fp
	lhs.Square(&p.Y)
	rhs.Square(&p.X)
	rhs.Mul(&rhs, &p.X)
	b.SetUint64(3)
	rhs.Add(&rhs, &b)
	return lhs.Equal(&rhs)
}

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

// AddAssign sets p = p + q.
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

// ScalarMulBigVartime sets p = [e]q by wNAF double-and-add.
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
		if d := naf[i]; d != 0 {
			if d > 0 {
				acc.AddMixed(&table[(d-1)/2])
			} else {
				var neg G1Affine
				neg.Neg(&table[(-d-1)/2])
				acc.AddMixed(&neg)
			}
		}
	}
	return p.Set(&acc)
}

// ScalarMulVartime sets p = [k]q for a public Fr scalar.
func (p *G1Jac) ScalarMulVartime(q *G1Affine, k *Fr) *G1Jac {
	return p.ScalarMulBigVartime(q, k.BigInt())
}

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
	out := make([]G1Affine, n)
	zs := make([]Fp, n)
	for i := range table {
		zs[i].Set(&table[i].Z)
	}
	fpBatchInvert(zs)
	for i := range table {
		if table[i].IsInfinity() {
			continue
		}
		var zInv2, zInv3 Fp
		zInv2.Square(&zs[i])
		zInv3.Mul(&zInv2, &zs[i])
		out[i].X.Mul(&table[i].X, &zInv2)
		out[i].Y.Mul(&table[i].Y, &zInv3)
	}
	return out
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

// G1Add returns p + q in affine form.
func G1Add(p, q *G1Affine) G1Affine {
	var j G1Jac
	j.FromAffine(p)
	j.AddMixed(q)
	return j.ToAffine()
}

// G1ScalarMulVartime returns [k]p for a public scalar.
func G1ScalarMulVartime(p *G1Affine, k *big.Int) G1Affine {
	var j G1Jac
	j.ScalarMulBigVartime(p, k)
	return j.ToAffine()
}

// G1MultiExp computes sum k_i * P_i with Jacobian Pippenger buckets.
func G1MultiExp(points []G1Affine, scalars []Fr) (G1Jac, error) {
	var out G1Jac
	out.SetInfinity()
	if len(points) != len(scalars) {
		return out, errNonCanonical
	}
	n := len(points)
	if n == 0 {
		return out, nil
	}
	c := 4
	if n >= 32 {
		c = 8
	}
	nWindows := (256+c-1)/c + 1

	type digitsT []int32
	digits := make([]digitsT, n)
	for i := range scalars {
		digits[i] = signedDigits(&scalars[i], c, nWindows)
	}

	buckets := make([]G1Jac, 1<<(c-1))
	for w := nWindows - 1; w >= 0; w-- {
		for i := 0; i < c; i++ {
			out.Double(&out)
		}
		for i := range buckets {
			buckets[i].SetInfinity()
		}
		for i := range points {
			d := digits[i][w]
			if d == 0 {
				continue
			}
			if d > 0 {
				buckets[d-1].AddMixed(&points[i])
			} else {
				var neg G1Affine
				neg.Neg(&points[i])
				buckets[-d-1].AddMixed(&neg)
			}
		}
		var running, sum G1Jac
		running.SetInfinity()
		sum.SetInfinity()
		for i := len(buckets) - 1; i >= 0; i-- {
			running.AddAssign(&buckets[i])
			sum.AddAssign(&running)
		}
		out.AddAssign(&sum)
	}
	return out, nil
}

// signedDigits recodes k into signed c-bit windows.
func signedDigits(k *Fr, c, nWindows int) []int32 {
	reg := k.Regular()
	out := make([]int32, nWindows)
	carry := int64(0)
	half := int64(1) << (c - 1)
	full := int64(1) << c
	for w := 0; w < nWindows; w++ {
		pos := w * c
		var raw uint64
		if pos < 256 {
			i := pos / 64
			sh := uint(pos) % 64
			raw = reg[i] >> sh
			if sh+uint(c) > 64 && i+1 < Limbs {
				raw |= reg[i+1] << (64 - sh)
			}
			raw &= 1<<uint(c) - 1
		}
		v := int64(raw) + carry
		if v > half {
			out[w] = int32(v - full)
			carry = 1
		} else {
			out[w] = int32(v)
			carry = 0
		}
	}
	return out
}
