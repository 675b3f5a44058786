// Package ipa implements the Ethereum Verkle inner-product argument: a
// Pedersen-committed polynomial in evaluation form over the linear
// domain {0, ..., 255}, an opening proof of log size from the recursive
// halving protocol, and the grouped-by-evaluation-point multiproof.
package ipa

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/eth2030/pairing/banderwagon"
)

// DomainSize is the fixed evaluation domain size (one Verkle node
// width); proofs take log2(DomainSize) = 8 rounds.
const (
	DomainSize = 256
	Rounds     = 8
)

var (
	errLength   = errors.New("ipa: vector length mismatch")
	errBadProof = errors.New("ipa: malformed proof")
)

// Config carries the public parameters: the Pedersen generator vector,
// the group generator used for the inner-product term, and the
// barycentric data of the linear domain.
type Config struct {
	Gens [DomainSize]banderwagon.Point
	// BaseGen is the group generator scaled into Q inside each proof.
	BaseGen banderwagon.Point

	// aPrime[i] = prod_{j != i} (i - j) and its inverse, the
	// barycentric weights of the domain.
	aPrime    [DomainSize]banderwagon.Fr
	aPrimeInv [DomainSize]banderwagon.Fr
	// domainInv[k] = 1/k and domainInv[256+k] = -1/k for k in 1..255,
	// the in-domain quotient denominators.
	domainInv [2 * DomainSize]banderwagon.Fr
}

// NewConfig derives the public parameters deterministically: each
// generator is obtained by hashing a seed and an index until the digest
// decodes to a group element, so no discrete log between generators is
// known.
func NewConfig() *Config {
	cfg := &Config{}
	seed := "eth_verkle_ipa_generator_seed"
	for i := 0; i < DomainSize; i++ {
		ctr := uint64(0)
		for {
			h := sha256.New()
			h.Write([]byte(seed))
			var buf [16]byte
			binary.BigEndian.PutUint64(buf[:8], uint64(i))
			binary.BigEndian.PutUint64(buf[8:], ctr)
			h.Write(buf[:])
			var cand [32]byte
			copy(cand[:], h.Sum(nil))
			cand[31] &= 0x7f
			p, err := banderwagon.Deserialize(cand)
			if err == nil && !p.IsIdentity() {
				cfg.Gens[i] = p
				break
			}
			ctr++
		}
	}
	cfg.BaseGen = banderwagon.Generator()

	// Barycentric weights of {0..255}.
	for i := 0; i < DomainSize; i++ {
		var acc banderwagon.Fr
		acc.SetOne()
		var di banderwagon.Fr
		di.SetUint64(uint64(i))
		for j := 0; j < DomainSize; j++ {
			if j == i {
				continue
			}
			var dj, diff banderwagon.Fr
			dj.SetUint64(uint64(j))
			diff.Sub(&di, &dj)
			acc.Mul(&acc, &diff)
		}
		cfg.aPrime[i] = acc
		cfg.aPrimeInv[i] = acc
	}
	banderwagon.BatchInvert(cfg.aPrimeInv[:])

	for k := 1; k < DomainSize; k++ {
		var v banderwagon.Fr
		v.SetUint64(uint64(k))
		cfg.domainInv[k] = v
	}
	banderwagon.BatchInvert(cfg.domainInv[:DomainSize])
	for k := 1; k < DomainSize; k++ {
		cfg.domainInv[DomainSize+k].Neg(&cfg.domainInv[k])
	}
	return cfg
}

// Commit returns the Pedersen commitment <a, Gens>.
func (cfg *Config) Commit(a []banderwagon.Fr) (banderwagon.Point, error) {
	if len(a) != DomainSize {
		return banderwagon.Identity(), errLength
	}
	return banderwagon.MSM(cfg.Gens[:], a)
}

// InnerProduct returns <a, b>.
func InnerProduct(a, b []banderwagon.Fr) banderwagon.Fr {
	var out banderwagon.Fr
	for i := range a {
		var t banderwagon.Fr
		t.Mul(&a[i], &b[i])
		out.Add(&out, &t)
	}
	return out
}

// LagrangeBasis returns the vector b with b_i = l_i(z), the i-th
// Lagrange polynomial of the domain evaluated at z. For z inside the
// domain this is an indicator vector.
func (cfg *Config) LagrangeBasis(z *banderwagon.Fr) [DomainSize]banderwagon.Fr {
	var out [DomainSize]banderwagon.Fr
	// In-domain: indicator.
	zBig := z.BigInt()
	if zBig.IsUint64() && zBig.Uint64() < DomainSize {
		out[zBig.Uint64()].SetOne()
		return out
	}
	// A(z) = prod (z - j).
	var az banderwagon.Fr
	az.SetOne()
	diffs := make([]banderwagon.Fr, DomainSize)
	for j := 0; j < DomainSize; j++ {
		var dj banderwagon.Fr
		dj.SetUint64(uint64(j))
		diffs[j].Sub(z, &dj)
		az.Mul(&az, &diffs[j])
	}
	banderwagon.BatchInvert(diffs)
	for i := 0; i < DomainSize; i++ {
		out[i].Mul(&az, &cfg.aPrimeInv[i])
		out[i].Mul(&out[i], &diffs[i])
	}
	return out
}

// EvaluateOutsideDomain evaluates the polynomial given in evaluation
// form at a point outside the domain via the barycentric formula.
func (cfg *Config) EvaluateOutsideDomain(f []banderwagon.Fr, z *banderwagon.Fr) banderwagon.Fr {
	b := cfg.LagrangeBasis(z)
	return InnerProduct(f, b[:])
}

// QuotientInsideDomain computes q = (f - f(z))/(X - z) in evaluation
// form for a domain point z, using the barycentric identity for the
// removable singularity at z itself.
func (cfg *Config) QuotientInsideDomain(f []banderwagon.Fr, z uint64) [DomainSize]banderwagon.Fr {
	var q [DomainSize]banderwagon.Fr
	y := f[z]
	for i := 0; i < DomainSize; i++ {
		if uint64(i) == z {
			continue
		}
		// 1/(i - z): positive differences sit in domainInv[k],
		// negative in domainInv[256+k].
		var inv banderwagon.Fr
		if uint64(i) > z {
			inv = cfg.domainInv[uint64(i)-z]
		} else {
			inv = cfg.domainInv[DomainSize+(z-uint64(i))]
		}
		var num banderwagon.Fr
		num.Sub(&f[i], &y)
		q[i].Mul(&num, &inv)

		// q(z) = -sum_{i != z} q(i) * A'(z)/A'(i).
		var w banderwagon.Fr
		w.Mul(&cfg.aPrime[z], &cfg.aPrimeInv[i])
		w.Mul(&w, &q[i])
		q[z].Sub(&q[z], &w)
	}
	return q
}
