// Package kzg implements the EIP-4844 KZG polynomial commitment
// scheme: blobs of 4096 scalars in bit-reversed Lagrange basis,
// commitments and opening proofs against the powers-of-tau trusted
// setup, blob proofs bound by Fiat-Shamir challenges, and batched
// verification.
package kzg

import (
	"errors"
	"math/big"

	"github.com/eth2030/pairing/bls12381"
)

// FieldElementsPerBlob is the fixed polynomial size of EIP-4844.
const FieldElementsPerBlob = 4096

var (
	errLength     = errors.New("kzg: wrong input length")
	errBadSetup   = errors.New("kzg: malformed trusted setup")
	errBadElement = errors.New("kzg: invalid field element")
)

// domain holds the 4096th roots of unity in bit-reversed order plus
// the derived constants of the barycentric evaluation formula.
type domain struct {
	roots    [FieldElementsPerBlob]bls12381.Fr // bit-reversed
	nInv     bls12381.Fr                       // 1/4096
	rootsSeq [FieldElementsPerBlob]bls12381.Fr // natural order, for FFTs
}

var evalDomain = newDomain()

// newDomain derives omega = g^((r-1)/4096) from the field generator 7
// and lays the powers out in bit-reversed permutation, the EIP-4844
// blob ordering.
func newDomain() *domain {
	d := &domain{}
	r := bls12381.FrModulus()
	exp := new(big.Int).Sub(r, big.NewInt(1))
	exp.Div(exp, big.NewInt(FieldElementsPerBlob))
	var g, omega bls12381.Fr
	g.SetUint64(7)
	omega.Exp(&g, exp)

	var cur bls12381.Fr
	cur.SetOne()
	for i := 0; i < FieldElementsPerBlob; i++ {
		d.rootsSeq[i].Set(&cur)
		d.roots[bitReverse(uint32(i), 12)].Set(&cur)
		cur.Mul(&cur, &omega)
	}
	var n bls12381.Fr
	n.SetUint64(FieldElementsPerBlob)
	d.nInv.Inverse(&n)
	return d
}

func bitReverse(v uint32, bits uint) uint32 {
	var out uint32
	for i := uint(0); i < bits; i++ {
		out = out<<1 | (v>>i)&1
	}
	return out
}

// evaluate computes p(z) from the bit-reversed evaluation form with the
// barycentric formula
//
//	p(z) = (z^N - 1)/N * sum f_i * w_i / (z - w_i)
//
// falling back to direct lookup when z is a domain point.
func (d *domain) evaluate(evals []bls12381.Fr, z *bls12381.Fr) bls12381.Fr {
	var out bls12381.Fr
	diffs := make([]bls12381.Fr, FieldElementsPerBlob)
	for i := range diffs {
		diffs[i].Sub(z, &d.roots[i])
		if diffs[i].IsZero() {
			out.Set(&evals[i])
			return out
		}
	}
	bls12381.FrBatchInvert(diffs)

	for i := range diffs {
		var t bls12381.Fr
		t.Mul(&evals[i], &d.roots[i])
		t.Mul(&t, &diffs[i])
		out.Add(&out, &t)
	}

	// (z^N - 1)/N
	var zn bls12381.Fr
	zn.Set(z)
	for i := 0; i < 12; i++ {
		zn.Square(&zn)
	}
	var one bls12381.Fr
	one.SetOne()
	zn.Sub(&zn, &one)
	zn.Mul(&zn, &d.nInv)
	out.Mul(&out, &zn)
	return out
}

// fftG1 runs an in-place radix-2 FFT over G1 points in natural order;
// invert selects the inverse transform (with the 1/N scaling), which
// converts a monomial-basis SRS into Lagrange basis.
func (d *domain) fftG1(points []bls12381.G1Jac, invert bool) {
	n := uint32(len(points))
	for i := uint32(0); i < n; i++ {
		j := bitReverse(i, 12)
		if i < j {
			points[i], points[j] = points[j], points[i]
		}
	}
	for size := uint32(2); size <= n; size *= 2 {
		stride := n / size
		for start := uint32(0); start < n; start += size {
			for k := uint32(0); k < size/2; k++ {
				idx := (k * stride) % n
				if invert && idx != 0 {
					idx = n - idx
				}
				var w bls12381.Fr
				w.Set(&d.rootsSeq[idx])
				a := points[start+k]
				b := points[start+k+size/2]
				var bw bls12381.G1Jac
				bAff := b.ToAffine()
				bw.ScalarMulVartime(&bAff, &w)
				points[start+k] = a
				points[start+k].AddAssign(&bw)
				points[start+k+size/2] = a
				var neg bls12381.G1Jac
				neg.Neg(&bw)
				points[start+k+size/2].AddAssign(&neg)
			}
		}
	}
	if invert {
		var inv bls12381.Fr
		inv.Set(&d.nInv)
		for i := range points {
			aff := points[i].ToAffine()
			points[i].ScalarMulVartime(&aff, &inv)
		}
	}
}
