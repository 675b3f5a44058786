package bls12381

import (
	"bytes"
	"math/rand"
	"testing"
)

var testDST = []byte("QUUX-V01-CS02-with-BLS12381G1_XMD:SHA-256_SSWU_RO_")

func TestExpandMessageXMD(t *testing.T) {
	out1, err := ExpandMessageXMD([]byte("abc"), testDST, 32)
	if err != nil {
		t.Fatal(err)
	}
	if len(out1) != 32 {
		t.Fatalf("wrong output length %d", len(out1))
	}
	out2, err := ExpandMessageXMD([]byte("abc"), testDST, 32)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out1, out2) {
		t.Fatal("expand_message_xmd not deterministic")
	}

	// Prefix property does not hold across lengths (the length is
	// hashed in), so different lengths must differ in content.
	out3, err := ExpandMessageXMD([]byte("abc"), testDST, 64)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(out1, out3[:32]) {
		t.Fatal("length not bound into the expansion")
	}

	// Oversize DSTs are hashed down, not rejected.
	long := bytes.Repeat([]byte("x"), 300)
	if _, err := ExpandMessageXMD([]byte("abc"), long, 32); err != nil {
		t.Fatal("oversize DST rejected instead of hashed")
	}
	// Empty DSTs are rejected.
	if _, err := ExpandMessageXMD([]byte("abc"), nil, 32); err == nil {
		t.Fatal("empty DST accepted")
	}
}

func TestMapToCurveG1OnCurve(t *testing.T) {
	rng := rand.New(rand.NewSource(71))
	for i := 0; i < 30; i++ {
		u := randFp(rng)
		p := MapToCurveG1(&u)
		if !p.IsOnCurve() {
			t.Fatal("SvdW output not on curve")
		}
	}
	// Zero input maps somewhere on the curve too.
	var zero Fp
	p := MapToCurveG1(&zero)
	if !p.IsOnCurve() {
		t.Fatal("map(0) not on curve")
	}
}

func TestMapToCurveG2OnCurve(t *testing.T) {
	rng := rand.New(rand.NewSource(72))
	for i := 0; i < 15; i++ {
		u := randFp2(rng)
		p := MapToCurveG2(&u)
		if !p.IsOnCurve() {
			t.Fatal("G2 SvdW output not on twist")
		}
	}
}

func TestHashToG1Properties(t *testing.T) {
	p1, err := HashToG1([]byte("message one"), testDST)
	if err != nil {
		t.Fatal(err)
	}
	if !p1.IsOnCurve() || !p1.IsInSubgroup() {
		t.Fatal("hash output invalid")
	}

	p2, err := HashToG1([]byte("message one"), testDST)
	if err != nil {
		t.Fatal(err)
	}
	if !p1.Equal(&p2) {
		t.Fatal("hash-to-curve not deterministic")
	}

	p3, err := HashToG1([]byte("message two"), testDST)
	if err != nil {
		t.Fatal(err)
	}
	if p1.Equal(&p3) {
		t.Fatal("different messages collided")
	}

	p4, err := HashToG1([]byte("message one"), []byte("other-dst"))
	if err != nil {
		t.Fatal(err)
	}
	if p1.Equal(&p4) {
		t.Fatal("different DSTs collided")
	}
}

func TestHashToG2Properties(t *testing.T) {
	dst := []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")
	p, err := HashToG2([]byte("beacon block"), dst)
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsOnCurve() || !p.IsInSubgroup() {
		t.Fatal("G2 hash output invalid")
	}
	q, err := HashToG2([]byte("beacon block"), dst)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(&q) {
		t.Fatal("G2 hash not deterministic")
	}
}

func TestEncodeToCurve(t *testing.T) {
	p, err := EncodeToG1([]byte("enc"), testDST)
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsOnCurve() || !p.IsInSubgroup() {
		t.Fatal("encode_to_curve output invalid")
	}
	q, err := EncodeToG2([]byte("enc"), testDST)
	if err != nil {
		t.Fatal(err)
	}
	if !q.IsOnCurve() || !q.IsInSubgroup() {
		t.Fatal("G2 encode_to_curve output invalid")
	}
}

func TestSSWUOnIsogenousCurve(t *testing.T) {
	rng := rand.New(rand.NewSource(73))
	for i := 0; i < 30; i++ {
		u := randFp(rng)
		x, y := MapToCurveSSWU(&u)
		if !IsOnIsogenousCurve(&x, &y) {
			t.Fatal("SSWU output not on E'")
		}
		// Sign alignment per the map definition.
		if y.Sgn0() != u.Sgn0() {
			t.Fatal("SSWU sign not aligned with input")
		}
	}
	// Determinism.
	var u Fp
	u.SetUint64(42)
	x1, y1 := MapToCurveSSWU(&u)
	x2, y2 := MapToCurveSSWU(&u)
	if !x1.Equal(&x2) || !y1.Equal(&y2) {
		t.Fatal("SSWU not deterministic")
	}
}

func TestSvdWConstantsDerived(t *testing.T) {
	// The derived constants satisfy their defining relations
	// c1 = g(Z) and c3^2 = -g(Z) * 3Z^2, and c3 has sign 0.
	var gz, b Fp
	b.SetUint64(4)
	gz.Square(&svdwG1Z)
	gz.Mul(&gz, &svdwG1Z)
	gz.Add(&gz, &b)
	if !gz.Equal(&svdwG1C1) {
		t.Fatal("c1 != g(Z)")
	}
	var threeZ2 Fp
	threeZ2.Square(&svdwG1Z)
	threeZ2.MulUint64(&threeZ2, 3)
	var want Fp
	want.Mul(&gz, &threeZ2)
	want.Neg(&want)
	var c3sq Fp
	c3sq.Square(&svdwG1C3)
	if !c3sq.Equal(&want) {
		t.Fatal("c3^2 mismatch")
	}
	if svdwG1C3.Sgn0() != 0 {
		t.Fatal("c3 sign not normalized")
	}
}
