package bn254

// Optimal ate pairing over BN254.
//
// The Miller loop runs over 6x + 2 with seed x = 4965661367192848881,
// the twist accumulator held in Jacobian coordinates so no step
// inverts, then closes with the two Frobenius correction steps: a line
// through psi(Q) and one through -psi^2(Q). Lines are D-twist sparse
// (coefficients at w^0, w^1, w^3), scaled through by the slope
// denominator - an Fp2 factor the easy part of the final
// exponentiation annihilates - and consecutive double/add lines are
// merged with a sparse-sparse product.
//
// The final exponentiation's hard part exponentiates by the derived
// (p^4 - p^2 + 1)/r in cyclotomic arithmetic; unlike the seed chains
// this lands in the pairing subgroup unconditionally, which is why the
// chain route was not carried over.

import "math/big"

// bnSeed is the BN parameter x; the ate loop count is 6x + 2.
var (
	bnSeed    = new(big.Int).SetUint64(4965661367192848881)
	bnLoop    *big.Int
	bnHardExp *big.Int
)

func init() {
	bnLoop = new(big.Int).Mul(bnSeed, big.NewInt(6))
	bnLoop.Add(bnLoop, big.NewInt(2))

	p2 := new(big.Int).Mul(fpModulus, fpModulus)
	p4 := new(big.Int).Mul(p2, p2)
	bnHardExp = new(big.Int).Sub(p4, p2)
	bnHardExp.Add(bnHardExp, big.NewInt(1))
	bnHardExp.Div(bnHardExp, frModulus)
}

// lineDouble doubles the Jacobian accumulator and returns the tangent
// line evaluated at (px, py), scaled by the tangent denominator 2YZ^3:
//
//	a = 2YZ^3 py,  b = -3X^2Z^2 px,  c = 3X^3 - 2Y^2.
func lineDouble(r *G2Jac, px, py *Fp) lineEval {
	var x2, x3, y2, z2, z3, t Fp2
	x2.Square(&r.X)
	x3.Mul(&x2, &r.X)
	y2.Square(&r.Y)
	z2.Square(&r.Z)
	z3.Mul(&z2, &r.Z)

	var l lineEval
	t.Mul(&r.Y, &z3)
	t.Double(&t)
	l.a.MulByFp(&t, py)

	t.Mul(&x2, &z2)
	var t3 Fp2
	t3.Double(&t)
	t.Add(&t3, &t)
	l.b.MulByFp(&t, px)
	l.b.Neg(&l.b)

	l.c.Double(&x3)
	l.c.Add(&l.c, &x3)
	t.Double(&y2)
	l.c.Sub(&l.c, &t)

	r.Double(r)
	return l
}

// lineAdd folds the affine point q into the Jacobian accumulator and
// returns the chord line evaluated at (px, py), scaled by the chord
// denominator Z*E with E = X - qx*Z^2 and theta = Y - qy*Z^3:
//
//	a = Z*E py,  b = -theta*px,  c = theta*qx - qy*Z*E.
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
	l.a.MulByFp(&ze, py)
	l.b.MulByFp(&theta, px)
	l.b.Neg(&l.b)
	l.c.Mul(&theta, &q.X)
	t.Mul(&q.Y, &ze)
	l.c.Sub(&l.c, &t)

	r.AddMixed(q)
	return l
}

// MillerLoop computes the shared Miller loop over all pairs.
func MillerLoop(ps []G1Affine, qs []G2Affine) GT {
	n := len(ps)
	if len(qs) < n {
		n = len(qs)
	}
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

	for i := bnLoop.BitLen() - 2; i >= 0; i-- {
		f.Square(&f)
		bit := bnLoop.Bit(i)
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

	// Frobenius correction: lines through psi(Q) and -psi^2(Q).
	for j := range live {
		s := &live[j]
		var q1, q2 G2Affine
		q1.psi(&s.q)
		q2.psi(&q1)
		q2.Y.Neg(&q2.Y)
		la := lineAdd(&s.r, &q1, &s.px, &s.py)
		lb := lineAdd(&s.r, &q2, &s.px, &s.py)
		prod := mulLines(&la, &lb)
		f.Mul(&f, &prod)
	}
	return f
}

// FinalExp raises a Miller output into the pairing subgroup.
func FinalExp(f *GT) GT {
	var out GT
	// Easy part.
	var t, m GT
	t.Inverse(f)
	m.Conjugate(f)
	m.Mul(&m, &t)
	t.FrobeniusSquare(&m)
	m.Mul(&t, &m)
	// Hard part by the derived exponent, cyclotomic squarings inside.
	out.CyclotomicExp(&m, bnHardExp)
	return out
}

// Pair computes e(p, q).
func Pair(p *G1Affine, q *G2Affine) GT {
	f := MillerLoop([]G1Affine{*p}, []G2Affine{*q})
	return FinalExp(&f)
}

// PairMulti computes the product of pairings with one shared loop.
func PairMulti(ps []G1Affine, qs []G2Affine) GT {
	f := MillerLoop(ps, qs)
	return FinalExp(&f)
}

// PairingCheck reports whether the pairing product over all pairs is
// the identity; the EVM precompile form.
func PairingCheck(ps []G1Affine, qs []G2Affine) bool {
	out := PairMulti(ps, qs)
	return out.IsOne()
}

// IsInPairingSubgroup reports whether f has order dividing r, via
// cyclotomic membership plus the direct order check f^r = 1.
func (f *GT) IsInPairingSubgroup() bool {
	if !f.IsInCyclotomicSubgroup() {
		return false
	}
	var t GT
	t.CyclotomicExp(f, frModulus)
	return t.IsOne()
}
