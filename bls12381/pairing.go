package bls12381

// Optimal ate pairing e: G1 x G2 -> GT over BLS12-381.
//
// The Miller loop runs over the curve seed |x| = 0xd201000000010000 with
// the G2 accumulator kept in Jacobian coordinates on the twist, so no
// step performs a field inversion. The untwist map sends (x', y') to
// (x'/w^2, y'/w^3); clearing denominators, a chord or tangent through
// the untwisted accumulator evaluated at P = (px, py) becomes the
// sparse element
//
//	l(P) = (lambda*rx - ry) + (-lambda*px)*v + py*v*w
//
// with rx = X/Z^2, ry = Y/Z^3 and a denominator-clearing factor (2YZ^3 for the
// tangent, Z*(X - qx*Z^2) for the chord) multiplied through the whole
// line: scaling a line by an Fp2 value scales f by Fp2 factors, which
// the p^6-1 easy part of the final exponentiation annihilates.
// MulByLine applies the sparse element without a dense tower
// multiplication, and the double and conditional-add lines of one
// iteration are merged with a line-by-line product, halving the dense
// multiplications. The seed is negative, so the loop output is
// conjugated.
//
// Final exponentiation: easy part f^((p^6-1)(p^2+1)) by conjugate,
// inverse and Frobenius; hard part by the Ghammam-Fouotsa seed chain in
// cyclotomic arithmetic, which raises to 3*(p^4-p^2+1)/r (the constant
// cube changes no pairing identity since gcd(3, r) = 1).

import "github.com/eth2030/pairing/pool"

// GT is an element of the pairing target group, the order-r subgroup of
// the Fp12 cyclotomic subgroup.
type GT = Fp12

// lineDouble doubles the Jacobian accumulator and returns the tangent
// line evaluated at (px, py), scaled by the tangent denominator 2YZ^3:
//
//	a = 3X^3 - 2Y^2,  b = -3X^2Z^2 px,  c = 2YZ^3 py.
func lineDouble(r *G2Jac, px, py *Fp) lineEval {
	var x2, x3, y2, z2, z3, t Fp2
	x2.Square(&r.X)
	x3.Mul(&x2, &r.X)
	y2.Square(&r.Y)
	z2.Square(&r.Z)
	z3.Mul(&z2, &r.Z)

	var l lineEval
	l.a.Double(&x3)
	l.a.Add(&l.a, &x3)
	t.Double(&y2)
	l.a.Sub(&l.a, &t)

	t.Mul(&x2, &z2)
	var t3 Fp2
	t3.Double(&t)
	t.Add(&t3, &t)
	l.b.MulByFp(&t, px)
	l.b.Neg(&l.b)

	t.Mul(&r.Y, &z3)
	t.Double(&t)
	l.c.MulByFp(&t, py)

	r.Double(r)
	return l
}

// lineAdd folds the affine point q into the Jacobian accumulator and
// returns the chord line evaluated at (px, py), scaled by the chord
// denominator Z*(X - qx*Z^2); theta = Y - qy*Z^3 is the scaled slope
// numerator and the line passes through q, so q's coordinates stand in
// for the accumulator's:
//
//	a = theta*qx - qy*Z*E,  b = -theta*px,  c = Z*E py.
func lineAdd(r *G2Jac, q *G2Affine, px, py *Fp) lineEval {
	var z2, z3, theta, e, ze, t Fp2
	z2.Square(&r.Z)
	z3.Mul(&z2, &r.Z)
	theta.Mul(&q.Y, &z3)
	theta.Sub(&r.Y, &theta)
	e.Mul(&q.X, &z2)
	e.Sub(&r.X, &e)
	ze.Mul(&r.Z, &e)

	var l lineEval
	l.a.Mul(&theta, &q.X)
	t.Mul(&q.Y, &ze)
	l.a.Sub(&l.a, &t)
	l.b.MulByFp(&theta, px)
	l.b.Neg(&l.b)
	l.c.MulByFp(&ze, py)

	r.AddMixed(q)
	return l
}

// MillerLoop computes the product of Miller-loop contributions of every
// (P_i, Q_i) pair in one shared loop, skipping neutral inputs. The
// result still needs FinalExp.
func MillerLoop(ps []G1Affine, qs []G2Affine) GT {
	n := len(ps)
	if len(qs) < n {
		n = len(qs)
	}
	// Filter out neutral pairs: their contribution is 1.
	type pairState struct {
		px, py Fp
		q      G2Affine
		r      G2Jac
	}
	live := make([]pairState, 0, n)
	for i := 0; i < n; i++ {
		if ps[i].IsInfinity() || qs[i].IsInfinity() {
			continue
		}
		s := pairState{px: ps[i].X, py: ps[i].Y, q: qs[i]}
		s.r.FromAffine(&qs[i])
		live = append(live, s)
	}

	var f GT
	f.SetOne()
	if len(live) == 0 {
		return f
	}

	for i := millerLoopBitLen - 2; i >= 0; i-- { // skip the leading seed bit
		f.Square(&f)
		bit := blsXAbs >> uint(i) & 1
		for j := range live {
			s := &live[j]
			ld := lineDouble(&s.r, &s.px, &s.py)
			if bit == 1 {
				la := lineAdd(&s.r, &s.q, &s.px, &s.py)
				prod := mulLines(&ld, &la)
				f.Mul(&f, &prod)
			} else {
				f.MulByLine(&ld)
			}
		}
	}
	// Seed is negative: conjugate the accumulated value.
	f.Conjugate(&f)
	return f
}

// millerLoopBitLen is the seed bit length shared by MillerLoop and expBySeed.
const millerLoopBitLen = 64

// FinalExp raises a Miller-loop output into the pairing subgroup.
func FinalExp(f *GT) GT {
	var out GT
	if f.IsZero() {
		out.SetOne()
		return out
	}

	// Easy part: m = (f^(p^6-1))^(p^2+1).
	var t, m GT
	t.Inverse(f)
	m.Conjugate(f)
	m.Mul(&m, &t)
	t.FrobeniusSquare(&m)
	m.Mul(&t, &m)

	// Hard part (Ghammam-Fouotsa seed chain).
	var t0, t1, t2 GT
	t0.CyclotomicSquare(&m)
	t1.expBySeed(&m)
	t2.Conjugate(&m)
	t1.Mul(&t1, &t2)
	t2.expBySeed(&t1)
	t1.Conjugate(&t1)
	t1.Mul(&t1, &t2)
	t2.expBySeed(&t1)
	t1.Frobenius(&t1)
	t1.Mul(&t1, &t2)
	m.Mul(&m, &t0)
	t0.expBySeed(&t1)
	t2.expBySeed(&t0)
	t0.FrobeniusSquare(&t1)
	t1.Conjugate(&t1)
	t1.Mul(&t1, &t2)
	t1.Mul(&t1, &t0)
	out.Mul(&m, &t1)
	return out
}

// expBySeed sets z = x^seed for x in the cyclotomic subgroup: square
// and multiply over |seed| then conjugate for the sign.
func (z *GT) expBySeed(x *GT) *GT {
	var res GT
	res.SetOne()
	for i := millerLoopBitLen - 1; i >= 0; i-- {
		res.CyclotomicSquare(&res)
		if blsXAbs>>uint(i)&1 == 1 {
			res.Mul(&res, x)
		}
	}
	if blsXIsNegative {
		res.Conjugate(&res)
	}
	return z.Set(&res)
}

// Pair computes e(p, q).
func Pair(p *G1Affine, q *G2Affine) GT {
	f := MillerLoop([]G1Affine{*p}, []G2Affine{*q})
	return FinalExp(&f)
}

// PairMulti computes the product of pairings over all pairs with a
// single shared Miller loop and one final exponentiation.
func PairMulti(ps []G1Affine, qs []G2Affine) GT {
	f := MillerLoop(ps, qs)
	return FinalExp(&f)
}

// PairingCheck reports whether the product of pairings over all pairs
// is the identity, the form every verifier consumes.
func PairingCheck(ps []G1Affine, qs []G2Affine) bool {
	out := PairMulti(ps, qs)
	return out.IsOne()
}

// PairMultiWith is PairMulti driven by a thread pool: the pair set is
// chunked, each worker runs its own Miller loop, and the partial
// accumulators multiply together (the loop is a product, so chunking
// commutes) before one final exponentiation.
func PairMultiWith(r pool.Runner, ps []G1Affine, qs []G2Affine) GT {
	n := len(ps)
	if len(qs) < n {
		n = len(qs)
	}
	var ident GT
	ident.SetOne()
	f := pool.Reduce(r, n, ident,
		func(lo, hi int) GT {
			return MillerLoop(ps[lo:hi], qs[lo:hi])
		},
		func(a, b GT) GT {
			var out GT
			out.Mul(&a, &b)
			return out
		},
	)
	return FinalExp(&f)
}

// PairingCheckWith is the pool-driven PairingCheck.
func PairingCheckWith(r pool.Runner, ps []G1Affine, qs []G2Affine) bool {
	out := PairMultiWith(r, ps, qs)
	return out.IsOne()
}
