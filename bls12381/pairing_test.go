package bls12381

import (
	"math/rand"
	"testing"

	"github.com/eth2030/pairing/pool"
)

func TestPairingBilinearity(t *testing.T) {
	g1 := G1Generator()
	g2 := G2Generator()

	e1 := Pair(&g1, &g2)
	if e1.IsOne() {
		t.Fatal("e(G1, G2) = 1: degenerate pairing")
	}

	var two Fr
	two.SetUint64(2)
	p2 := G1ScalarMulVartime(&g1, &two)
	q2 := G2ScalarMulVartime(&g2, &two)

	e2 := Pair(&p2, &g2)
	e3 := Pair(&g1, &q2)

	var sq GT
	sq.Mul(&e1, &e1)
	if !e2.Equal(&sq) {
		t.Fatal("e([2]P, Q) != e(P, Q)^2")
	}
	if !e3.Equal(&sq) {
		t.Fatal("e(P, [2]Q) != e(P, Q)^2")
	}
	if e2.IsOne() || e3.IsOne() {
		t.Fatal("doubled pairings degenerate")
	}
}

func TestPairingBilinearityGeneral(t *testing.T) {
	rng := rand.New(rand.NewSource(51))
	g1 := G1Generator()
	g2 := G2Generator()
	a := randFr(rng)
	b := randFr(rng)

	pa := G1ScalarMulVartime(&g1, &a)
	qb := G2ScalarMulVartime(&g2, &b)

	lhs := Pair(&pa, &qb)

	base := Pair(&g1, &g2)
	var ab Fr
	ab.Mul(&a, &b)
	rhs := GtExpSqrMul(&base, &ab)
	if !lhs.Equal(&rhs) {
		t.Fatal("e([a]P, [b]Q) != e(P, Q)^(ab)")
	}
}

func TestPairingNeutralInputs(t *testing.T) {
	g1 := G1Generator()
	g2 := G2Generator()
	var infP G1Affine
	var infQ G2Affine

	e := Pair(&infP, &g2)
	if !e.IsOne() {
		t.Fatal("e(0, Q) != 1")
	}
	e = Pair(&g1, &infQ)
	if !e.IsOne() {
		t.Fatal("e(P, 0) != 1")
	}
}

func TestMultiPairingAgreement(t *testing.T) {
	rng := rand.New(rand.NewSource(52))
	n := 4
	ps := make([]G1Affine, n)
	qs := make([]G2Affine, n)
	var want GT
	want.SetOne()
	for i := 0; i < n; i++ {
		ps[i] = randG1(rng)
		qs[i] = randG2(rng)
		e := Pair(&ps[i], &qs[i])
		want.Mul(&want, &e)
	}
	got := PairMulti(ps, qs)
	if !got.Equal(&want) {
		t.Fatal("shared Miller loop differs from product of pairings")
	}
}

func TestMultiPairingParallelAgrees(t *testing.T) {
	rng := rand.New(rand.NewSource(53))
	n := 6
	ps := make([]G1Affine, n)
	qs := make([]G2Affine, n)
	for i := 0; i < n; i++ {
		ps[i] = randG1(rng)
		qs[i] = randG2(rng)
	}
	serial := PairMulti(ps, qs)
	parallel := PairMultiWith(pool.New(3), ps, qs)
	if !serial.Equal(&parallel) {
		t.Fatal("pooled multi-pairing differs from serial")
	}
	if !PairingCheckWith(pool.New(3), []G1Affine{}, []G2Affine{}) {
		t.Fatal("empty pooled pairing check rejected")
	}
}

func TestPairingCheckCancellation(t *testing.T) {
	// e(P, Q) * e(-P, Q) = 1.
	g1 := G1Generator()
	g2 := G2Generator()
	var neg G1Affine
	neg.Neg(&g1)
	if !PairingCheck([]G1Affine{g1, neg}, []G2Affine{g2, g2}) {
		t.Fatal("cancelling pair product != 1")
	}
	if PairingCheck([]G1Affine{g1}, []G2Affine{g2}) {
		t.Fatal("single pairing reported as 1")
	}
}

func TestFinalExpSubgroups(t *testing.T) {
	g1 := G1Generator()
	g2 := G2Generator()
	f := MillerLoop([]G1Affine{g1}, []G2Affine{g2})

	// After the easy part the element is cyclotomic; after the full
	// exponentiation it is in the pairing subgroup.
	var inv, m, fs GT
	inv.Inverse(&f)
	m.Conjugate(&f)
	m.Mul(&m, &inv)
	fs.FrobeniusSquare(&m)
	m.Mul(&fs, &m)
	if !m.IsInCyclotomicSubgroup() {
		t.Fatal("easy part output not cyclotomic")
	}

	e := FinalExp(&f)
	if !e.IsInCyclotomicSubgroup() {
		t.Fatal("pairing output not cyclotomic")
	}
	if !e.IsInPairingSubgroup() {
		t.Fatal("pairing output not in the pairing subgroup")
	}

	// e^r = 1.
	var er GT
	er.CyclotomicExp(&e, frModulus)
	if !er.IsOne() {
		t.Fatal("pairing output has order not dividing r")
	}
}
