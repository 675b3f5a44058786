package ipa

// Grouped multiproof over many (polynomial, commitment, opening point,
// value) queries, all opened at domain points.
//
// The prover groups queries by opening point with a counting sort over
// indices, folds each group with powers of a challenge r into
//
//	g(X) = sum r^i (f_i(X) - y_i)/(X - z_i)
//
// commits D = Com(g), squeezes t, and reduces to a single IPA opening:
// the polynomial h - g with h(X) = sum r^i f_i(X)/(t - z_i) evaluates
// at t to g2(t) = sum r^i y_i/(t - z_i), which the verifier can compute
// by itself, and its commitment E - D is verifier-computable because
// E = sum [r^i/(t - z_i)] C_i is an MSM over the query commitments.

import (
	"github.com/eth2030/pairing/banderwagon"
	"github.com/eth2030/pairing/transcript"
)

// MultiProofQuery is one opening claim: the polynomial in evaluation
// form (prover side only), its commitment, the domain opening point
// and the claimed value.
type MultiProofQuery struct {
	Poly       []banderwagon.Fr // nil on the verifier side
	Commitment banderwagon.Point
	Z          uint8
	Y          banderwagon.Fr
}

// MultiProof is the grouped proof: the quotient commitment D and the
// inner single-polynomial opening.
type MultiProof struct {
	D       banderwagon.Point
	G2Proof Proof
}

// sortIndicesByZ counting-sorts query indices by opening point,
// O(N + m).
func sortIndicesByZ(queries []MultiProofQuery) []int {
	var counts [DomainSize]int
	for i := range queries {
		counts[queries[i].Z]++
	}
	var starts [DomainSize]int
	acc := 0
	for z := 0; z < DomainSize; z++ {
		starts[z] = acc
		acc += counts[z]
	}
	out := make([]int, len(queries))
	for i := range queries {
		z := queries[i].Z
		out[starts[z]] = i
		starts[z]++
	}
	return out
}

func absorbQueries(tr *transcript.Transcript, queries []MultiProofQuery) banderwagon.Fr {
	tr.DomainSeparator("multiproof")
	for i := range queries {
		appendPoint(tr, "C", &queries[i].Commitment)
		var z banderwagon.Fr
		z.SetUint64(uint64(queries[i].Z))
		appendScalar(tr, "z", &z)
		appendScalar(tr, "y", &queries[i].Y)
	}
	return challengeScalar(tr, "r")
}

// ProveMulti produces a grouped proof for all queries. Every query must
// carry its polynomial (length 256) and satisfy y = f(z).
func (cfg *Config) ProveMulti(tr *transcript.Transcript, queries []MultiProofQuery) (MultiProof, error) {
	var proof MultiProof
	if len(queries) == 0 {
		return proof, errLength
	}
	for i := range queries {
		if len(queries[i].Poly) != DomainSize {
			return proof, errLength
		}
	}

	r := absorbQueries(tr, queries)

	// Powers of r in query order.
	powers := make([]banderwagon.Fr, len(queries))
	powers[0].SetOne()
	for i := 1; i < len(powers); i++ {
		powers[i].Mul(&powers[i-1], &r)
	}

	// Group by z and aggregate the scaled polynomials per group, then
	// one quotient per distinct opening point.
	order := sortIndicesByZ(queries)
	var g [DomainSize]banderwagon.Fr
	var aggregate [DomainSize]banderwagon.Fr
	flush := func(z uint64, dirty bool) {
		if !dirty {
			return
		}
		q := cfg.QuotientInsideDomain(aggregate[:], z)
		for i := 0; i < DomainSize; i++ {
			g[i].Add(&g[i], &q[i])
			aggregate[i].SetZero()
		}
	}
	curZ := uint64(0)
	dirty := false
	for _, idx := range order {
		z := uint64(queries[idx].Z)
		if dirty && z != curZ {
			flush(curZ, true)
			dirty = false
		}
		curZ = z
		dirty = true
		for i := 0; i < DomainSize; i++ {
			var t banderwagon.Fr
			t.Mul(&powers[idx], &queries[idx].Poly[i])
			aggregate[i].Add(&aggregate[i], &t)
		}
	}
	flush(curZ, dirty)

	d, err := cfg.Commit(g[:])
	if err != nil {
		return proof, err
	}
	proof.D = d
	appendPoint(tr, "D", &d)
	t := challengeScalar(tr, "t")

	// h(X) = sum r^i f_i(X) / (t - z_i).
	denoms := make([]banderwagon.Fr, len(queries))
	for i := range queries {
		var z banderwagon.Fr
		z.SetUint64(uint64(queries[i].Z))
		denoms[i].Sub(&t, &z)
	}
	banderwagon.BatchInvert(denoms)

	var h [DomainSize]banderwagon.Fr
	for idx := range queries {
		var scale banderwagon.Fr
		scale.Mul(&powers[idx], &denoms[idx])
		for i := 0; i < DomainSize; i++ {
			var tv banderwagon.Fr
			tv.Mul(&scale, &queries[idx].Poly[i])
			h[i].Add(&h[i], &tv)
		}
	}

	hMinusG := make([]banderwagon.Fr, DomainSize)
	for i := 0; i < DomainSize; i++ {
		hMinusG[i].Sub(&h[i], &g[i])
	}

	e, err := cfg.Commit(h[:])
	if err != nil {
		return proof, err
	}
	appendPoint(tr, "E", &e)

	var eMinusD banderwagon.Point
	var negD banderwagon.Point
	negD.Neg(&d)
	eMinusD.Add(&e, &negD)

	inner, _, err := cfg.Prove(tr, hMinusG, &eMinusD, &t)
	if err != nil {
		return proof, err
	}
	proof.G2Proof = inner
	return proof, nil
}

// VerifyMulti checks a grouped proof against the queries (commitments,
// opening points and values only).
func (cfg *Config) VerifyMulti(tr *transcript.Transcript, queries []MultiProofQuery, proof *MultiProof) bool {
	if len(queries) == 0 {
		return false
	}
	r := absorbQueries(tr, queries)

	powers := make([]banderwagon.Fr, len(queries))
	powers[0].SetOne()
	for i := 1; i < len(powers); i++ {
		powers[i].Mul(&powers[i-1], &r)
	}

	appendPoint(tr, "D", &proof.D)
	t := challengeScalar(tr, "t")

	denoms := make([]banderwagon.Fr, len(queries))
	for i := range queries {
		var z banderwagon.Fr
		z.SetUint64(uint64(queries[i].Z))
		denoms[i].Sub(&t, &z)
	}
	banderwagon.BatchInvert(denoms)

	// E = sum [r^i/(t - z_i)] C_i and g2(t) = sum r^i y_i/(t - z_i).
	scalars := make([]banderwagon.Fr, len(queries))
	points := make([]banderwagon.Point, len(queries))
	var g2t banderwagon.Fr
	for i := range queries {
		scalars[i].Mul(&powers[i], &denoms[i])
		points[i] = queries[i].Commitment
		var tv banderwagon.Fr
		tv.Mul(&scalars[i], &queries[i].Y)
		g2t.Add(&g2t, &tv)
	}
	e, err := banderwagon.MSM(points, scalars)
	if err != nil {
		return false
	}
	appendPoint(tr, "E", &e)

	var eMinusD banderwagon.Point
	var negD banderwagon.Point
	negD.Neg(&proof.D)
	eMinusD.Add(&e, &negD)

	return cfg.Verify(tr, &eMinusD, &t, &g2t, &proof.G2Proof)
}
