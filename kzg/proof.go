package kzg

// Blob commitments and opening proofs (EIP-4844 semantics).

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/eth2030/pairing/bls12381"
	"github.com/eth2030/pairing/pool"
)

// Wire sizes.
const (
	BlobSize       = FieldElementsPerBlob * 32
	CommitmentSize = 48
	ProofSize      = 48
)

// Blob is the wire form: 4096 big-endian scalars.
type Blob [BlobSize]byte

// Commitment and Proof are compressed G1 points.
type (
	Commitment [CommitmentSize]byte
	Proof      [ProofSize]byte
)

// blobChallengeDST separates the blob-proof challenge hash.
var blobChallengeDST = []byte("FSBLOBVERIFY_V1_")

// blobToPolynomial validates and decodes every scalar.
func blobToPolynomial(blob *Blob) ([]bls12381.Fr, error) {
	out := make([]bls12381.Fr, FieldElementsPerBlob)
	for i := 0; i < FieldElementsPerBlob; i++ {
		if err := out[i].SetBytes(blob[i*32 : (i+1)*32]); err != nil {
			return nil, errBadElement
		}
	}
	return out, nil
}

// BlobToCommitment commits a blob against the setup: one MSM over the
// Lagrange SRS.
func (s *Setup) BlobToCommitment(blob *Blob) (Commitment, error) {
	return s.blobToCommitmentWith(nil, blob)
}

func (s *Setup) blobToCommitmentWith(r pool.Runner, blob *Blob) (Commitment, error) {
	var out Commitment
	poly, err := blobToPolynomial(blob)
	if err != nil {
		return out, err
	}
	c, err := bls12381.G1MultiExpWith(r, s.G1Lagrange[:], poly)
	if err != nil {
		return out, err
	}
	aff := c.ToAffine()
	return Commitment(bls12381.CompressG1(&aff)), nil
}

// computeQuotientWith builds q = (p - y)/(X - z) in evaluation form,
// including the in-domain special case. The inversion batch is serial
// by construction; the division sweep is data-parallel.
func computeQuotientWith(r pool.Runner, poly []bls12381.Fr, z, y *bls12381.Fr) []bls12381.Fr {
	if r == nil {
		r = pool.Serial{}
	}
	d := evalDomain
	q := make([]bls12381.Fr, FieldElementsPerBlob)

	inDomain := -1
	diffs := make([]bls12381.Fr, FieldElementsPerBlob)
	for i := range diffs {
		diffs[i].Sub(&d.roots[i], z)
		if diffs[i].IsZero() {
			inDomain = i
		}
	}
	if inDomain < 0 {
		bls12381.FrBatchInvert(diffs)
		r.ParallelFor(FieldElementsPerBlob, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				var num bls12381.Fr
				num.Sub(&poly[i], y)
				q[i].Mul(&num, &diffs[i])
			}
		})
		return q
	}

	// z = w_m: q_i = (p_i - y)/(w_i - z) off m, and
	// q_m = sum_{i != m} (p_i - y) w_i / (z (z - w_i)).
	bls12381.FrBatchInvert(diffs)
	var zInv bls12381.Fr
	zInv.Inverse(z)
	for i := range q {
		if i == inDomain {
			continue
		}
		var num bls12381.Fr
		num.Sub(&poly[i], y)
		q[i].Mul(&num, &diffs[i])

		// The diffs hold 1/(w_i - z); the m-th term wants the
		// opposite sign, hence the subtraction.
		var t bls12381.Fr
		t.Mul(&num, &d.roots[i])
		t.Mul(&t, &diffs[i])
		t.Mul(&t, &zInv)
		q[inDomain].Sub(&q[inDomain], &t)
	}
	return q
}

// ComputeProof opens a blob at an arbitrary point z; returns the proof
// and the evaluation y.
func (s *Setup) ComputeProof(blob *Blob, zBytes [32]byte) (Proof, [32]byte, error) {
	return s.ComputeProofWith(nil, blob, zBytes)
}

// ComputeProofWith is ComputeProof with the quotient-polynomial
// computation and the proof MSM driven by a thread pool.
func (s *Setup) ComputeProofWith(r pool.Runner, blob *Blob, zBytes [32]byte) (Proof, [32]byte, error) {
	var proof Proof
	var yOut [32]byte
	poly, err := blobToPolynomial(blob)
	if err != nil {
		return proof, yOut, err
	}
	var z bls12381.Fr
	if err := z.SetBytes(zBytes[:]); err != nil {
		return proof, yOut, errBadElement
	}
	y := evalDomain.evaluate(poly, &z)

	q := computeQuotientWith(r, poly, &z, &y)
	c, err := bls12381.G1MultiExpWith(r, s.G1Lagrange[:], q)
	if err != nil {
		return proof, yOut, err
	}
	aff := c.ToAffine()
	proof = Proof(bls12381.CompressG1(&aff))
	yOut = y.Bytes()
	return proof, yOut, nil
}

// VerifyProof checks e(C - [y]G1, G2) = e(pi, [tau]G2 - [z]G2).
func (s *Setup) VerifyProof(commitment Commitment, zBytes, yBytes [32]byte, proof Proof) bool {
	c, err := bls12381.DecompressG1(commitment[:])
	if err != nil {
		return false
	}
	pi, err := bls12381.DecompressG1(proof[:])
	if err != nil {
		return false
	}
	var z, y bls12381.Fr
	if z.SetBytes(zBytes[:]) != nil || y.SetBytes(yBytes[:]) != nil {
		return false
	}

	g1 := bls12381.G1Generator()
	g2 := bls12381.G2Generator()

	// C - [y]G1.
	var yG bls12381.G1Jac
	yG.ScalarMulVartime(&g1, &y)
	var lhs bls12381.G1Jac
	lhs.FromAffine(&c)
	var negYG bls12381.G1Jac
	negYG.Neg(&yG)
	lhs.AddAssign(&negYG)
	lhsAff := lhs.ToAffine()

	// [tau]G2 - [z]G2.
	var zG2 bls12381.G2Jac
	zG2.ScalarMulVartime(&g2, &z)
	var rhs bls12381.G2Jac
	rhs.FromAffine(&s.G2[1])
	var negZG2 bls12381.G2Jac
	negZG2.Neg(&zG2)
	rhs.AddAssign(&negZG2)
	rhsAff := rhs.ToAffine()

	var negPi bls12381.G1Affine
	negPi.Neg(&pi)

	return bls12381.PairingCheck(
		[]bls12381.G1Affine{lhsAff, negPi},
		[]bls12381.G2Affine{g2, rhsAff},
	)
}

// computeChallenge derives the blob-proof evaluation point from the
// blob and its commitment.
func computeChallenge(blob *Blob, commitment Commitment) bls12381.Fr {
	h := sha256.New()
	h.Write(blobChallengeDST)
	var lenBuf [16]byte
	binary.BigEndian.PutUint64(lenBuf[8:], FieldElementsPerBlob)
	h.Write(lenBuf[:])
	h.Write(blob[:])
	h.Write(commitment[:])
	var out bls12381.Fr
	digest := h.Sum(nil)
	out.SetBytesWide(digest)
	return out
}

// ComputeBlobProof opens a blob at its own Fiat-Shamir challenge, the
// form blob transactions carry.
func (s *Setup) ComputeBlobProof(blob *Blob, commitment Commitment) (Proof, error) {
	z := computeChallenge(blob, commitment)
	zb := z.Bytes()
	proof, _, err := s.ComputeProof(blob, zb)
	return proof, err
}

// VerifyBlobProof recomputes the challenge and evaluation and checks
// the opening.
func (s *Setup) VerifyBlobProof(blob *Blob, commitment Commitment, proof Proof) bool {
	poly, err := blobToPolynomial(blob)
	if err != nil {
		return false
	}
	z := computeChallenge(blob, commitment)
	y := evalDomain.evaluate(poly, &z)
	zb := z.Bytes()
	yb := y.Bytes()
	return s.VerifyProof(commitment, zb, yb, proof)
}
