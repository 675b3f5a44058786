package curve

import (
	"math/big"
	"testing"
)

func TestRegistryComplete(t *testing.T) {
	for _, id := range All() {
		p := ByID(id)
		if p == nil {
			t.Fatalf("%s missing from registry", id)
		}
		if p.Name != id.String() {
			t.Fatalf("%s name mismatch: %s", id, p.Name)
		}
		if p.P == nil || p.R == nil {
			t.Fatalf("%s missing moduli", id)
		}
	}
	if ByID(Unknown) != nil {
		t.Fatal("unknown ID resolved")
	}
}

func TestModuliPrime(t *testing.T) {
	for _, id := range All() {
		p := ByID(id)
		if !p.P.ProbablyPrime(32) {
			t.Fatalf("%s base modulus composite", id)
		}
		if !p.R.ProbablyPrime(32) {
			t.Fatalf("%s scalar modulus composite", id)
		}
	}
}

func TestPairingFamilies(t *testing.T) {
	for _, id := range []ID{BN254Snarks, BN254Nogami} {
		p := ByID(id)
		// p + 1 - t = r with t = 6x^2 + 1.
		x := p.Seed
		tr := new(big.Int).Mul(x, x)
		tr.Mul(tr, big.NewInt(6))
		tr.Add(tr, big.NewInt(1))
		want := new(big.Int).Add(p.P, big.NewInt(1))
		want.Sub(want, tr)
		if want.Cmp(p.R) != 0 {
			t.Fatalf("%s trace relation broken", id)
		}
	}

	for _, id := range []ID{BLS12377, BLS12381} {
		p := ByID(id)
		if blsR(p.Seed).Cmp(p.R) != 0 {
			t.Fatalf("%s scalar modulus disagrees with the seed polynomial", id)
		}
		if blsP(p.Seed).Cmp(p.P) != 0 {
			t.Fatalf("%s base modulus disagrees with the seed polynomial", id)
		}
		// GLV eigenvalue: lambda^2 + lambda + 1 = 0 mod r.
		l := p.GLVLambda
		acc := new(big.Int).Mul(l, l)
		acc.Add(acc, l)
		acc.Add(acc, big.NewInt(1))
		acc.Mod(acc, p.R)
		if acc.Sign() != 0 {
			t.Fatalf("%s GLV eigenvalue wrong", id)
		}
	}
}

func TestChains(t *testing.T) {
	// BW6-761's scalar field is BLS12-377's base field.
	if ByID(BW6761).R.Cmp(ByID(BLS12377).P) != 0 {
		t.Fatal("BW6-761 / BLS12-377 chain broken")
	}
	// Pallas and Vesta form a 2-cycle.
	if ByID(Pallas).P.Cmp(ByID(Vesta).R) != 0 || ByID(Pallas).R.Cmp(ByID(Vesta).P) != 0 {
		t.Fatal("Pallas/Vesta cycle broken")
	}
	// Banderwagon lives over the BLS12-381 scalar field.
	if ByID(Banderwagon).P.Cmp(ByID(BLS12381).R) != 0 {
		t.Fatal("Banderwagon base field mismatch")
	}
}
