package bls12381

// Curve family parameters derived from the BLS12-381 seed
// x = -0xd201000000010000. Everything here is recomputed from the seed
// at initialization rather than embedded, and checked where a cheap
// self-test exists (the GLV beta selection).

import "math/big"

const (
	// blsXAbs is |x|; the seed itself is negative.
	blsXAbs uint64 = 0xd201000000010000
	// blsXIsNegative records the seed sign for loop conjugations.
	blsXIsNegative = true
)

var (
	blsXBig *big.Int // |x|

	// g1CofactorEff = (x-1)^2 / 3, the effective G1 cofactor.
	g1CofactorEff *big.Int
	// g2CofactorEff = (x^8 - 4x^7 + 5x^6 - 4x^4 + 6x^3 - 4x^2 - 4x + 13)/9.
	g2CofactorEff *big.Int

	// glvLambda = x^2 - 1, the eigenvalue of the G1 endomorphism mod r.
	glvLambda *big.Int
	// glvBeta is the matching cube root of unity in Fp.
	glvBeta Fp

	// psiX, psiY untwist-Frobenius-twist the G2 coordinates:
	// psi(x, y) = (conj(x)*psiX, conj(y)*psiY) with psi(Q) = [x]Q on the
	// subgroup.
	psiX, psiY Fp2

	// finalExpHard = (p^4 - p^2 + 1) / r, kept for cross-checks and the
	// exponent-route Gt helpers.
	finalExpHard *big.Int
)

func init() {
	x := new(big.Int).SetUint64(blsXAbs)
	x.Neg(x)
	blsXBig = new(big.Int).Abs(x)

	xm1 := new(big.Int).Sub(x, big.NewInt(1))
	h1 := new(big.Int).Mul(xm1, xm1)
	h1.Div(h1, big.NewInt(3))
	g1CofactorEff = h1

	// Horner over the G2 cofactor polynomial.
	coeffs := []int64{13, -4, -4, 6, -4, 0, 5, -4, 1}
	h2 := big.NewInt(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		h2.Mul(h2, x)
		h2.Add(h2, big.NewInt(coeffs[i]))
	}
	h2.Div(h2, big.NewInt(9))
	g2CofactorEff = h2

	lambda := new(big.Int).Mul(x, x)
	lambda.Sub(lambda, big.NewInt(1))
	glvLambda = lambda

	p2 := new(big.Int).Mul(fpModulus, fpModulus)
	p4 := new(big.Int).Mul(p2, p2)
	hard := new(big.Int).Sub(p4, p2)
	hard.Add(hard, big.NewInt(1))
	hard.Div(hard, frModulus)
	finalExpHard = hard

	// beta: order-3 element of Fp*, with the root picked so that
	// (beta*x_G, y_G) = [lambda]G on the generator.
	exp := new(big.Int).Sub(fpModulus, big.NewInt(1))
	exp.Div(exp, big.NewInt(3))
	var beta Fp
	for g := uint64(2); ; g++ {
		var cand Fp
		cand.SetUint64(g)
		cand.Exp(&cand, exp)
		if !cand.IsOne() {
			beta = cand
			break
		}
	}
	var want G1Jac
	want.ScalarMulBigVartime(&g1Gen, glvLambda)
	for _, cand := range [2]Fp{beta, *new(Fp).Square(&beta)} {
		var phi G1Affine
		phi.X.Mul(&g1Gen.X, &cand)
		phi.Y.Set(&g1Gen.Y)
		var phiJ G1Jac
		phiJ.FromAffine(&phi)
		if phiJ.Equal(&want) {
			glvBeta = cand
			break
		}
	}

	psiX.Inverse(&fp12Gamma1[2])
	psiY.Inverse(&fp12Gamma1[3])
}
