package banderwagon

import (
	"math/big"
	"math/rand"
	"testing"
)

func randScalar(rng *rand.Rand) Fr {
	var out Fr
	out.SetBig(new(big.Int).Rand(rng, frModulus))
	return out
}

func randPoint(rng *rand.Rand) Point {
	k := randScalar(rng)
	g := Generator()
	var p Point
	p.ScalarMulVartime(&g, &k)
	return p
}

func TestGeneratorOnCurve(t *testing.T) {
	g := Generator()
	x, y := g.ToAffine()
	if !isOnCurve(&x, &y) {
		t.Fatal("generator not on curve")
	}
	if !legalSubgroup(&x) {
		t.Fatal("generator outside the quotient group image")
	}
}

func TestGroupLaws(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := randPoint(rng)
	q := randPoint(rng)
	r := randPoint(rng)

	id := Identity()
	var sum Point
	sum.Add(&p, &id)
	if !sum.Equal(&p) {
		t.Fatal("P + 0 != P")
	}

	var neg Point
	neg.Neg(&p)
	sum.Add(&p, &neg)
	if !sum.IsIdentity() {
		t.Fatal("P + (-P) != 0")
	}

	var pq, qp Point
	pq.Add(&p, &q)
	qp.Add(&q, &p)
	if !pq.Equal(&qp) {
		t.Fatal("P + Q != Q + P")
	}

	var l, rr, qr Point
	l.Add(&pq, &r)
	qr.Add(&q, &r)
	rr.Add(&p, &qr)
	if !l.Equal(&rr) {
		t.Fatal("(P+Q)+R != P+(Q+R)")
	}

	// Unified addition doubles correctly.
	var viaAdd, viaDbl Point
	viaAdd.Add(&p, &p)
	viaDbl.Double(&p)
	if !viaAdd.Equal(&viaDbl) {
		t.Fatal("unified addition fails on equal inputs")
	}
}

func TestScalarMulAgreement(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	g := Generator()

	acc := Identity()
	for k := uint64(0); k < 16; k++ {
		var kf Fr
		kf.SetUint64(k)
		var ct, vt Point
		ct.ScalarMul(&g, &kf)
		vt.ScalarMulVartime(&g, &kf)
		if !ct.Equal(&vt) || !ct.Equal(&acc) {
			t.Fatalf("scalar multiplication mismatch at k=%d", k)
		}
		acc.Add(&acc, &g)
	}

	for i := 0; i < 5; i++ {
		k := randScalar(rng)
		var ct, vt Point
		ct.ScalarMul(&g, &k)
		vt.ScalarMulVartime(&g, &k)
		if !ct.Equal(&vt) {
			t.Fatal("ct and vartime disagree on a random scalar")
		}
	}

	// [n]G = identity.
	var order Fr
	order.SetBig(frModulus) // reduces to zero
	var res Point
	res.ScalarMul(&g, &order)
	if !res.IsIdentity() {
		t.Fatal("[n mod n]G != 0")
	}
}

func TestQuotientEquality(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := randPoint(rng)
	// (x, y) and (-x, -y) are the same group element.
	var mirror Point
	mirror.X.Neg(&p.X)
	mirror.Y.Neg(&p.Y)
	mirror.T.Set(&p.T)
	mirror.Z.Set(&p.Z)
	if !p.Equal(&mirror) {
		t.Fatal("quotient identification broken")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 10; i++ {
		p := randPoint(rng)
		enc := p.Serialize()
		back, err := Deserialize(enc)
		if err != nil {
			t.Fatal(err)
		}
		if !back.Equal(&p) {
			t.Fatal("serialization round trip failed")
		}
		// Mirror representative serializes identically.
		var mirror Point
		mirror.X.Neg(&p.X)
		mirror.Y.Neg(&p.Y)
		mirror.T.Set(&p.T)
		mirror.Z.Set(&p.Z)
		if mirror.Serialize() != enc {
			t.Fatal("equivalent representatives encode differently")
		}
	}

	id := Identity()
	enc := id.Serialize()
	back, err := Deserialize(enc)
	if err != nil || !back.IsIdentity() {
		t.Fatal("identity round trip failed")
	}

	// Garbage rejects.
	var junk [32]byte
	for i := range junk {
		junk[i] = 0xff
	}
	if _, err := Deserialize(junk); err == nil {
		t.Fatal("garbage encoding accepted")
	}
}

func TestMapToField(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := randPoint(rng)
	h1 := p.MapToField()
	// Well-defined on the quotient.
	var mirror Point
	mirror.X.Neg(&p.X)
	mirror.Y.Neg(&p.Y)
	mirror.T.Set(&p.T)
	mirror.Z.Set(&p.Z)
	h2 := mirror.MapToField()
	if !h1.Equal(&h2) {
		t.Fatal("map-to-field not quotient-invariant")
	}

	q := randPoint(rng)
	h3 := q.MapToField()
	if h1.Equal(&h3) {
		t.Fatal("distinct points mapped to the same field element")
	}
}

func TestMSMMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for _, n := range []int{1, 5, 70} {
		points := make([]Point, n)
		scalars := make([]Fr, n)
		want := Identity()
		for i := 0; i < n; i++ {
			points[i] = randPoint(rng)
			scalars[i] = randScalar(rng)
			var term Point
			term.ScalarMulVartime(&points[i], &scalars[i])
			want.Add(&want, &term)
		}
		got, err := MSM(points, scalars)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(&want) {
			t.Fatalf("MSM mismatch at n=%d", n)
		}
	}
}

func TestFrField(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		a := randScalar(rng)
		if a.IsZero() {
			continue
		}
		var inv, prod Fr
		inv.Inverse(&a)
		prod.Mul(&a, &inv)
		if !prod.IsOne() {
			t.Fatal("Fr inverse failed")
		}
	}

	v := make([]Fr, 10)
	want := make([]Fr, 10)
	for i := range v {
		v[i] = randScalar(rng)
		want[i].Inverse(&v[i])
	}
	BatchInvert(v)
	for i := range v {
		if !v[i].Equal(&want[i]) {
			t.Fatal("batch inversion mismatch")
		}
	}
}
