package bls

// Batched signature verification: n independent (pk, msg, sig) triples
// collapse into one multi-pairing by scaling each equation with a
// random 64-bit-plus blinder, so a forged triple cannot cancel against
// the others.

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"

	"github.com/eth2030/pairing/bls12381"
)

// VerifyBatch checks every triple at once; on success all signatures
// are valid with overwhelming probability. Falls back to nothing
// clever for n = 1.
func VerifyBatch(pks []*PublicKey, msgs [][]byte, sigs []*Signature, dst []byte) bool {
	n := len(pks)
	if n == 0 || n != len(msgs) || n != len(sigs) {
		return false
	}
	if dst == nil {
		dst = DST
	}
	if n == 1 {
		return Verify(pks[0], msgs[0], sigs[0], dst)
	}

	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return false
	}

	// Pairs: e(-[b_i]G1, sig_i) * e([b_i]pk_i, H(m_i)) accumulated for
	// all i; equivalently aggregate the blinded signatures against -G1.
	var sigAcc bls12381.G2Jac
	sigAcc.SetInfinity()
	ps := make([]bls12381.G1Affine, 0, n+1)
	qs := make([]bls12381.G2Affine, 0, n+1)

	for i := 0; i < n; i++ {
		if pks[i].p.IsInfinity() {
			return false
		}
		h := sha256.New()
		h.Write(seed[:])
		var idx [8]byte
		binary.BigEndian.PutUint64(idx[:], uint64(i))
		h.Write(idx[:])
		sb := sigs[i].Bytes()
		h.Write(sb[:])
		var blinder bls12381.Fr
		blinder.SetBytesWide(h.Sum(nil))
		if blinder.IsZero() {
			blinder.SetOne()
		}

		hm, err := bls12381.HashToG2(msgs[i], dst)
		if err != nil {
			return false
		}
		blindedPk := bls12381.G1ScalarMulVartime(&pks[i].p, &blinder)
		ps = append(ps, blindedPk)
		qs = append(qs, hm)

		var bs bls12381.G2Jac
		bs.ScalarMulVartime(&sigs[i].p, &blinder)
		sigAcc.AddAssign(&bs)
	}

	g := bls12381.G1Generator()
	var negG bls12381.G1Affine
	negG.Neg(&g)
	ps = append(ps, negG)
	qs = append(qs, sigAcc.ToAffine())
	return bls12381.PairingCheck(ps, qs)
}
