package kzg

// Batched blob proof verification: one random linear combination folds
// every opening equation into a single two-pairing check,
//
//	e(sum r^i (C_i - [y_i]G1 + [z_i]pi_i), G2)
//	  = e(sum r^i pi_i, [tau]G2)
//
// with per-blob challenges and evaluations computed independently (and
// in parallel when a pool is supplied).

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/eth2030/pairing/bls12381"
	"github.com/eth2030/pairing/pool"
)

// VerifyBlobProofBatch verifies the aligned slices of blobs,
// commitments and proofs.
func (s *Setup) VerifyBlobProofBatch(blobs []Blob, commitments []Commitment, proofs []Proof) bool {
	return s.VerifyBlobProofBatchWith(nil, blobs, commitments, proofs)
}

// VerifyBlobProofBatchWith is the pool-driven variant; the per-blob
// challenge and evaluation work is data-parallel.
func (s *Setup) VerifyBlobProofBatchWith(r pool.Runner, blobs []Blob, commitments []Commitment, proofs []Proof) bool {
	n := len(blobs)
	if n != len(commitments) || n != len(proofs) {
		return false
	}
	if n == 0 {
		return true
	}
	if n == 1 {
		return s.VerifyBlobProof(&blobs[0], commitments[0], proofs[0])
	}

	zs := make([]bls12381.Fr, n)
	ys := make([]bls12381.Fr, n)
	cs := make([]bls12381.G1Affine, n)
	pis := make([]bls12381.G1Affine, n)
	bad := make([]bool, n)

	if r == nil {
		r = pool.Serial{}
	}
	r.ParallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			poly, err := blobToPolynomial(&blobs[i])
			if err != nil {
				bad[i] = true
				continue
			}
			c, err := bls12381.DecompressG1(commitments[i][:])
			if err != nil {
				bad[i] = true
				continue
			}
			pi, err := bls12381.DecompressG1(proofs[i][:])
			if err != nil {
				bad[i] = true
				continue
			}
			zs[i] = computeChallenge(&blobs[i], commitments[i])
			ys[i] = evalDomain.evaluate(poly, &zs[i])
			cs[i] = c
			pis[i] = pi
		}
	})
	for i := range bad {
		if bad[i] {
			return false
		}
	}

	// Blinding powers from fresh randomness plus a transcript of the
	// batch, so an adversary cannot anticipate the combination.
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return false
	}
	h := sha256.New()
	h.Write(seed[:])
	for i := range commitments {
		h.Write(commitments[i][:])
		h.Write(proofs[i][:])
	}
	var rScalar bls12381.Fr
	rScalar.SetBytesWide(h.Sum(nil))

	powers := make([]bls12381.Fr, n)
	powers[0].SetOne()
	for i := 1; i < n; i++ {
		powers[i].Mul(&powers[i-1], &rScalar)
	}

	// sum r^i pi_i.
	piAgg, err := bls12381.G1MultiExp(pis, powers)
	if err != nil {
		return false
	}

	// sum r^i (C_i + [z_i]pi_i) - [sum r^i y_i]G1.
	g1 := bls12381.G1Generator()
	points := make([]bls12381.G1Affine, 0, 2*n+1)
	scalars := make([]bls12381.Fr, 0, 2*n+1)
	var ySum bls12381.Fr
	for i := 0; i < n; i++ {
		points = append(points, cs[i])
		scalars = append(scalars, powers[i])
		var t bls12381.Fr
		t.Mul(&powers[i], &zs[i])
		points = append(points, pis[i])
		scalars = append(scalars, t)
		t.Mul(&powers[i], &ys[i])
		ySum.Add(&ySum, &t)
	}
	ySum.Neg(&ySum)
	points = append(points, g1)
	scalars = append(scalars, ySum)

	lhs, err := bls12381.G1MultiExp(points, scalars)
	if err != nil {
		return false
	}

	lhsAff := lhs.ToAffine()
	var piNeg bls12381.G1Jac
	piNeg.Neg(&piAgg)
	piAff := piNeg.ToAffine()
	g2 := bls12381.G2Generator()

	return bls12381.PairingCheck(
		[]bls12381.G1Affine{lhsAff, piAff},
		[]bls12381.G2Affine{g2, s.G2[1]},
	)
}
