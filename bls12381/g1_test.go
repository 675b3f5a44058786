package bls12381

import (
	"math/big"
	"math/rand"
	"testing"
)

func randG1(rng *rand.Rand) G1Affine {
	k := randFr(rng)
	g := G1Generator()
	return G1ScalarMulVartime(&g, &k)
}

func TestG1GeneratorValid(t *testing.T) {
	g := G1Generator()
	if !g.IsOnCurve() {
		t.Fatal("generator not on curve")
	}
	if !g.IsInSubgroup() {
		t.Fatal("generator not in subgroup")
	}
}

func TestG1GroupLaws(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	p := randG1(rng)
	q := randG1(rng)
	r := randG1(rng)

	// P + 0 = P.
	var inf G1Affine
	sum := G1Add(&p, &inf)
	if !sum.Equal(&p) {
		t.Fatal("P + 0 != P")
	}

	// P + (-P) = 0.
	var neg G1Affine
	neg.Neg(&p)
	sum = G1Add(&p, &neg)
	if !sum.IsInfinity() {
		t.Fatal("P + (-P) != 0")
	}

	// Commutativity.
	pq := G1Add(&p, &q)
	qp := G1Add(&q, &p)
	if !pq.Equal(&qp) {
		t.Fatal("P + Q != Q + P")
	}

	// Associativity.
	var l, rr G1Affine
	l = G1Add(&pq, &r)
	qr := G1Add(&q, &r)
	rr = G1Add(&p, &qr)
	if !l.Equal(&rr) {
		t.Fatal("(P+Q)+R != P+(Q+R)")
	}
}

func TestG1ScalarMulAgreement(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	g := G1Generator()

	// Small scalars against repeated addition.
	var acc G1Affine
	for k := uint64(0); k < 20; k++ {
		var kf Fr
		kf.SetUint64(k)
		ct := G1ScalarMul(&g, &kf)
		vt := G1ScalarMulVartime(&g, &kf)
		if !ct.Equal(&vt) {
			t.Fatalf("ct and vartime disagree at k=%d", k)
		}
		if !ct.Equal(&acc) {
			t.Fatalf("scalar mul != repeated addition at k=%d", k)
		}
		acc = G1Add(&acc, &g)
	}

	// Random scalars: constant-time vs vartime vs plain wNAF.
	for i := 0; i < 10; i++ {
		k := randFr(rng)
		ct := G1ScalarMul(&g, &k)
		vt := G1ScalarMulVartime(&g, &k)
		if !ct.Equal(&vt) {
			t.Fatal("ct and GLV vartime disagree on a random scalar")
		}
		var plain G1Jac
		plain.ScalarMulBigVartime(&g, k.BigInt())
		plainAff := plain.ToAffine()
		if !ct.Equal(&plainAff) {
			t.Fatal("ct and plain wNAF disagree")
		}
	}

	// [r]G = 0.
	var order G1Jac
	order.ScalarMulBigVartime(&g, frModulus)
	if !order.IsInfinity() {
		t.Fatal("[r]G != 0")
	}
}

func TestG1ProjectiveMatchesJacobian(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	p := randG1(rng)
	q := randG1(rng)

	var prj G1Prj
	prj.FromAffine(&p)
	var qPrj G1Prj
	qPrj.FromAffine(&q)
	prj.AddAssign(&qPrj)
	sumPrj := prj.ToAffine()

	sumJac := G1Add(&p, &q)
	if !sumPrj.Equal(&sumJac) {
		t.Fatal("projective addition differs from Jacobian")
	}

	// Complete formulas handle doubling through the addition path.
	prj.FromAffine(&p)
	var pPrj G1Prj
	pPrj.FromAffine(&p)
	prj.AddAssign(&pPrj)
	dblViaAdd := prj.ToAffine()
	prj.FromAffine(&p)
	prj.Double(&prj)
	dbl := prj.ToAffine()
	if !dblViaAdd.Equal(&dbl) {
		t.Fatal("complete addition fails on equal inputs")
	}

	// And the neutral element.
	prj.SetInfinity()
	prj.AddAssign(&pPrj)
	back := prj.ToAffine()
	if !back.Equal(&p) {
		t.Fatal("complete addition fails on the neutral element")
	}
}

func TestG1BatchToAffine(t *testing.T) {
	rng := rand.New(rand.NewSource(24))
	jacs := make([]G1Jac, 10)
	want := make([]G1Affine, 10)
	for i := range jacs {
		p := randG1(rng)
		jacs[i].FromAffine(&p)
		// Scramble Z by doubling a few times.
		for j := 0; j <= i%3; j++ {
			jacs[i].Double(&jacs[i])
		}
		want[i] = jacs[i].ToAffine()
	}
	jacs[5].SetInfinity()
	want[5] = G1Affine{}

	got := g1BatchToAffine(jacs)
	for i := range got {
		if !got[i].Equal(&want[i]) {
			t.Fatalf("batch normalization mismatch at %d", i)
		}
	}
}

func TestG1SubgroupCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(25))
	p := randG1(rng)
	if !p.IsInSubgroup() {
		t.Fatal("subgroup element rejected")
	}

	// Cofactor clearing lands in the subgroup and [r] kills it.
	var x, y, rhs, b Fp
	// Find some on-curve point by incrementing x.
	x.SetUint64(9)
	b.SetUint64(4)
	for {
		rhs.Square(&x)
		rhs.Mul(&rhs, &x)
		rhs.Add(&rhs, &b)
		if y.Sqrt(&rhs) {
			break
		}
		var one Fp
		one.SetOne()
		x.Add(&x, &one)
	}
	raw := G1Affine{X: x, Y: y}
	if !raw.IsOnCurve() {
		t.Fatal("constructed point not on curve")
	}
	var cleared G1Affine
	cleared.ClearCofactor(&raw)
	if !cleared.IsOnCurve() || !cleared.IsInSubgroup() {
		t.Fatal("cofactor clearing failed")
	}
	var killed G1Jac
	killed.ScalarMulBigVartime(&cleared, frModulus)
	if !killed.IsInfinity() {
		t.Fatal("[r] x cleared point != 0")
	}
}

func TestG1GLVEndomorphism(t *testing.T) {
	// phi(P) = [lambda]P on the subgroup.
	g := G1Generator()
	var phi G1Affine
	phi.X.Mul(&g.X, &glvBeta)
	phi.Y.Set(&g.Y)
	if !phi.IsOnCurve() {
		t.Fatal("endomorphism image left the curve")
	}
	var want G1Jac
	want.ScalarMulBigVartime(&g, glvLambda)
	var got G1Jac
	got.FromAffine(&phi)
	if !got.Equal(&want) {
		t.Fatal("phi(G) != [lambda]G")
	}

	// lambda^2 + lambda + 1 = 0 mod r.
	l2 := new(big.Int).Mul(glvLambda, glvLambda)
	l2.Add(l2, glvLambda)
	l2.Add(l2, big.NewInt(1))
	l2.Mod(l2, frModulus)
	if l2.Sign() != 0 {
		t.Fatal("lambda is not a cube-root eigenvalue")
	}
}
