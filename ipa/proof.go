package ipa

// Single-polynomial IPA opening proof.
//
// The prover convinces the verifier that the polynomial committed by
// C = <a, G> evaluates to y at z. An auxiliary generator Q = [w]G_base
// binds the inner product into the commitment: the invariant
// C* = <a, G> + [<a, b>]Q is maintained through log2(N) halving rounds
//
//	a' = a_L + x a_R,  b' = b_L + x^-1 b_R,  G' = G_L + [x^-1] G_R
//	C*' = C* + [x]L + [x^-1]R
//
// and collapses to a size-1 claim checked by the verifier as a single
// multi-scalar multiplication with the change-of-basis vector
// s(X) = prod (1 + u_{k-1-i} X^(2^i)).

import (
	"github.com/eth2030/pairing/banderwagon"
	"github.com/eth2030/pairing/transcript"
)

// Proof is an IPA opening proof: one (L, R) pair per halving round and
// the final scalar.
type Proof struct {
	L  [Rounds]banderwagon.Point
	R  [Rounds]banderwagon.Point
	A0 banderwagon.Fr
}

func appendPoint(t *transcript.Transcript, label string, p *banderwagon.Point) {
	b := p.Serialize()
	t.Append(label, b[:])
}

func appendScalar(t *transcript.Transcript, label string, s *banderwagon.Fr) {
	b := s.Bytes()
	t.Append(label, b[:])
}

func challengeScalar(t *transcript.Transcript, label string) banderwagon.Fr {
	var out banderwagon.Fr
	for {
		b := t.ChallengeBytes(label)
		out.SetBytesWide(b[:])
		if !out.IsZero() {
			return out
		}
	}
}

// Prove creates an opening proof for the evaluations a (committed as
// C) at the point z. Returns the proof and y = p(z).
func (cfg *Config) Prove(tr *transcript.Transcript, a []banderwagon.Fr, commitment *banderwagon.Point, z *banderwagon.Fr) (Proof, banderwagon.Fr, error) {
	var proof Proof
	if len(a) != DomainSize {
		return proof, banderwagon.Fr{}, errLength
	}

	tr.DomainSeparator("ipa")
	bVec := cfg.LagrangeBasis(z)
	y := InnerProduct(a, bVec[:])

	appendPoint(tr, "C", commitment)
	appendScalar(tr, "input point", z)
	appendScalar(tr, "output point", &y)
	w := challengeScalar(tr, "w")

	var q banderwagon.Point
	q.ScalarMulVartime(&cfg.BaseGen, &w)

	aVec := make([]banderwagon.Fr, DomainSize)
	copy(aVec, a)
	bWork := make([]banderwagon.Fr, DomainSize)
	copy(bWork, bVec[:])
	gVec := make([]banderwagon.Point, DomainSize)
	copy(gVec, cfg.Gens[:])

	round := 0
	for m := DomainSize; m > 1; m /= 2 {
		half := m / 2
		aL, aR := aVec[:half], aVec[half:m]
		bL, bR := bWork[:half], bWork[half:m]
		gL, gR := gVec[:half], gVec[half:m]

		zL := InnerProduct(aR, bL)
		zR := InnerProduct(aL, bR)

		cL, err := banderwagon.MSM(gL, aR)
		if err != nil {
			return proof, banderwagon.Fr{}, err
		}
		var t banderwagon.Point
		t.ScalarMulVartime(&q, &zL)
		cL.Add(&cL, &t)

		cR, err := banderwagon.MSM(gR, aL)
		if err != nil {
			return proof, banderwagon.Fr{}, err
		}
		t.ScalarMulVartime(&q, &zR)
		cR.Add(&cR, &t)

		proof.L[round] = cL
		proof.R[round] = cR
		appendPoint(tr, "L", &cL)
		appendPoint(tr, "R", &cR)
		x := challengeScalar(tr, "x")
		var xInv banderwagon.Fr
		xInv.Inverse(&x)

		for i := 0; i < half; i++ {
			var s banderwagon.Fr
			s.Mul(&x, &aR[i])
			aL[i].Add(&aL[i], &s)
			s.Mul(&xInv, &bR[i])
			bL[i].Add(&bL[i], &s)
			var gp banderwagon.Point
			gp.ScalarMulVartime(&gR[i], &xInv)
			gL[i].Add(&gL[i], &gp)
		}
		round++
	}
	proof.A0.Set(&aVec[0])
	return proof, y, nil
}

// Verify checks an opening proof for commitment C, point z and claimed
// value y, reproducing the challenges and testing one multi-scalar
// multiplication equation.
func (cfg *Config) Verify(tr *transcript.Transcript, commitment *banderwagon.Point, z, y *banderwagon.Fr, proof *Proof) bool {
	tr.DomainSeparator("ipa")
	bVec := cfg.LagrangeBasis(z)

	appendPoint(tr, "C", commitment)
	appendScalar(tr, "input point", z)
	appendScalar(tr, "output point", y)
	w := challengeScalar(tr, "w")

	var xs, xInvs [Rounds]banderwagon.Fr
	for i := 0; i < Rounds; i++ {
		appendPoint(tr, "L", &proof.L[i])
		appendPoint(tr, "R", &proof.R[i])
		xs[i] = challengeScalar(tr, "x")
		xInvs[i] = xs[i]
	}
	banderwagon.BatchInvert(xInvs[:])

	// s(X) = prod (1 + u_{k-1-i} X^(2^i)) with u = xInv, built by
	// doubling concatenation.
	s := make([]banderwagon.Fr, 1, DomainSize)
	s[0].SetOne()
	for i := 0; i < Rounds; i++ {
		u := xInvs[Rounds-1-i]
		cur := len(s)
		s = s[:2*cur]
		for j := 0; j < cur; j++ {
			s[cur+j].Mul(&s[j], &u)
		}
	}

	b0 := InnerProduct(s, bVec[:])

	// One MSM:
	//   C + [y w]G_base + sum x_i L_i + sum xInv_i R_i
	//     - [a0]<s, G> - [a0 b0 w]G_base == identity.
	points := make([]banderwagon.Point, 0, DomainSize+2*Rounds+2)
	scalars := make([]banderwagon.Fr, 0, DomainSize+2*Rounds+2)

	var one banderwagon.Fr
	one.SetOne()
	points = append(points, *commitment)
	scalars = append(scalars, one)

	var gBaseScalar, t banderwagon.Fr
	gBaseScalar.Mul(y, &w)
	t.Mul(&proof.A0, &b0)
	t.Mul(&t, &w)
	gBaseScalar.Sub(&gBaseScalar, &t)
	points = append(points, cfg.BaseGen)
	scalars = append(scalars, gBaseScalar)

	for i := 0; i < Rounds; i++ {
		points = append(points, proof.L[i])
		scalars = append(scalars, xs[i])
		points = append(points, proof.R[i])
		scalars = append(scalars, xInvs[i])
	}

	var negA0 banderwagon.Fr
	negA0.Neg(&proof.A0)
	for i := 0; i < DomainSize; i++ {
		var sc banderwagon.Fr
		sc.Mul(&negA0, &s[i])
		points = append(points, cfg.Gens[i])
		scalars = append(scalars, sc)
	}

	out, err := banderwagon.MSM(points, scalars)
	if err != nil {
		return false
	}
	return out.IsIdentity()
}

// SerializeProof flattens a proof to bytes: 8 L points, 8 R points and
// the final scalar, 544 bytes total.
func SerializeProof(p *Proof) []byte {
	out := make([]byte, 0, Rounds*64+32)
	for i := 0; i < Rounds; i++ {
		l := p.L[i].Serialize()
		out = append(out, l[:]...)
	}
	for i := 0; i < Rounds; i++ {
		r := p.R[i].Serialize()
		out = append(out, r[:]...)
	}
	b := p.A0.Bytes()
	out = append(out, b[:]...)
	return out
}

// DeserializeProof parses the flat encoding.
func DeserializeProof(data []byte) (Proof, error) {
	var p Proof
	if len(data) != Rounds*64+32 {
		return p, errBadProof
	}
	var buf [32]byte
	for i := 0; i < Rounds; i++ {
		copy(buf[:], data[i*32:])
		pt, err := banderwagon.Deserialize(buf)
		if err != nil {
			return p, err
		}
		p.L[i] = pt
	}
	for i := 0; i < Rounds; i++ {
		copy(buf[:], data[(Rounds+i)*32:])
		pt, err := banderwagon.Deserialize(buf)
		if err != nil {
			return p, err
		}
		p.R[i] = pt
	}
	if err := p.A0.SetBytes(data[2*Rounds*32:]); err != nil {
		return p, err
	}
	return p, nil
}
