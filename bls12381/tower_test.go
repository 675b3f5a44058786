package bls12381

import (
	"math/big"
	"math/rand"
	"testing"
)

func randFp2(rng *rand.Rand) Fp2 {
	return Fp2{C0: randFp(rng), C1: randFp(rng)}
}

func randFp6(rng *rand.Rand) Fp6 {
	return Fp6{B0: randFp2(rng), B1: randFp2(rng), B2: randFp2(rng)}
}

func randFp12(rng *rand.Rand) Fp12 {
	return Fp12{C0: randFp6(rng), C1: randFp6(rng)}
}

func TestFp2Laws(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		a := randFp2(rng)
		b := randFp2(rng)

		var mulSq, sq Fp2
		mulSq.Mul(&a, &a)
		sq.Square(&a)
		if !mulSq.Equal(&sq) {
			t.Fatal("square != self-multiplication")
		}

		if a.IsZero() {
			continue
		}
		var inv, prod Fp2
		inv.Inverse(&a)
		prod.Mul(&a, &inv)
		if !prod.IsOne() {
			t.Fatal("Fp2 inverse failed")
		}

		// Non-residue multiplication agrees with multiplying by 1+u.
		var xi, viaMul, viaFn Fp2
		xi.C0.SetOne()
		xi.C1.SetOne()
		viaMul.Mul(&a, &xi)
		viaFn.MulByNonResidue(&a)
		if !viaMul.Equal(&viaFn) {
			t.Fatal("MulByNonResidue mismatch")
		}
		_ = b
	}
}

func TestFp2Sqrt(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for i := 0; i < 30; i++ {
		a := randFp2(rng)
		var sq Fp2
		sq.Square(&a)
		var root Fp2
		if !root.Sqrt(&sq) {
			t.Fatal("Fp2 sqrt failed on a square")
		}
		var check Fp2
		check.Square(&root)
		if !check.Equal(&sq) {
			t.Fatal("Fp2 sqrt returned a non-root")
		}
		if !sq.IsSquare() {
			t.Fatal("square reported as non-square")
		}
	}
}

func TestFp6MulVariants(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 30; i++ {
		a := randFp6(rng)
		b := randFp6(rng)

		var kara, toom Fp6
		kara.Mul(&a, &b)
		toom.MulToom3(&a, &b)
		if !kara.Equal(&toom) {
			t.Fatal("Toom-Cook product differs from Karatsuba")
		}

		// Sparse MulBy01 against the dense product.
		c0 := randFp2(rng)
		c1 := randFp2(rng)
		sparse := Fp6{B0: c0, B1: c1}
		var want, got Fp6
		want.Mul(&a, &sparse)
		got.MulBy01(&a, &c0, &c1)
		if !want.Equal(&got) {
			t.Fatal("MulBy01 differs from dense product")
		}

		// MulBy1 against the dense product.
		only1 := Fp6{B1: c1}
		want.Mul(&a, &only1)
		got.MulBy1(&a, &c1)
		if !want.Equal(&got) {
			t.Fatal("MulBy1 differs from dense product")
		}

		// v * a via the dedicated shift.
		v := Fp6{}
		v.B1.SetOne()
		want.Mul(&a, &v)
		got.MulByV(&a)
		if !want.Equal(&got) {
			t.Fatal("MulByV differs from dense product")
		}
	}
}

func TestFp6Inverse(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	for i := 0; i < 20; i++ {
		a := randFp6(rng)
		if a.IsZero() {
			continue
		}
		var inv, prod Fp6
		inv.Inverse(&a)
		prod.Mul(&a, &inv)
		if !prod.IsOne() {
			t.Fatal("Fp6 inverse failed")
		}
	}
}

func TestFp12Inverse(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	for i := 0; i < 20; i++ {
		a := randFp12(rng)
		if a.IsZero() {
			continue
		}
		var inv, prod Fp12
		inv.Inverse(&a)
		prod.Mul(&a, &inv)
		if !prod.IsOne() {
			t.Fatal("Fp12 inverse failed")
		}
	}
}

func TestFrobeniusMatchesExponentiation(t *testing.T) {
	rng := rand.New(rand.NewSource(16))
	a := randFp12(rng)

	var frob, exp Fp12
	frob.Frobenius(&a)
	exp.Exp(&a, fpModulus)
	if !frob.Equal(&exp) {
		t.Fatal("Frobenius != x^p")
	}

	var frob2, exp2 Fp12
	frob2.FrobeniusSquare(&a)
	exp2.Exp(&a, new(big.Int).Mul(fpModulus, fpModulus))
	if !frob2.Equal(&exp2) {
		t.Fatal("FrobeniusSquare != x^(p^2)")
	}
}

func TestLineMulMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 20; i++ {
		f := randFp12(rng)
		l := lineEval{a: randFp2(rng), b: randFp2(rng), c: randFp2(rng)}

		// Dense: pad the line into a full Fp12 element.
		var padded Fp12
		padded.C0.B0.Set(&l.a)
		padded.C0.B1.Set(&l.b)
		padded.C1.B1.Set(&l.c)

		var want Fp12
		want.Mul(&f, &padded)
		got := f
		got.MulByLine(&l)
		if !want.Equal(&got) {
			t.Fatal("sparse line multiplication differs from dense")
		}
	}
}

func TestMulLinesMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(18))
	for i := 0; i < 20; i++ {
		l1 := lineEval{a: randFp2(rng), b: randFp2(rng), c: randFp2(rng)}
		l2 := lineEval{a: randFp2(rng), b: randFp2(rng), c: randFp2(rng)}

		var p1, p2, want Fp12
		p1.C0.B0.Set(&l1.a)
		p1.C0.B1.Set(&l1.b)
		p1.C1.B1.Set(&l1.c)
		p2.C0.B0.Set(&l2.a)
		p2.C0.B1.Set(&l2.b)
		p2.C1.B1.Set(&l2.c)
		want.Mul(&p1, &p2)

		got := mulLines(&l1, &l2)
		if !want.Equal(&got) {
			t.Fatal("line-by-line product differs from dense")
		}
	}
}

func TestCyclotomicSquare(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	// Project a random element into the cyclotomic subgroup with the
	// easy part of the final exponentiation.
	a := randFp12(rng)
	var inv, m, f2 Fp12
	inv.Inverse(&a)
	m.Conjugate(&a)
	m.Mul(&m, &inv)
	f2.FrobeniusSquare(&m)
	m.Mul(&f2, &m)

	if !m.IsInCyclotomicSubgroup() {
		t.Fatal("easy part did not land in the cyclotomic subgroup")
	}

	var want, got Fp12
	want.Square(&m)
	got.CyclotomicSquare(&m)
	if !want.Equal(&got) {
		t.Fatal("cyclotomic square differs from generic square")
	}

	// Conjugation inverts unitary elements.
	var conj, prod Fp12
	conj.Conjugate(&m)
	prod.Mul(&m, &conj)
	if !prod.IsOne() {
		t.Fatal("conjugate is not the inverse on the cyclotomic subgroup")
	}

	// A random dense element is (overwhelmingly) not cyclotomic.
	if a.IsInCyclotomicSubgroup() {
		t.Fatal("random element claimed cyclotomic")
	}
}

func TestFp4Square(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	for i := 0; i < 20; i++ {
		x := Fp4{A0: randFp2(rng), A1: randFp2(rng)}
		var viaMul, viaSq Fp4
		viaMul.Mul(&x, &x)
		viaSq.Square(&x)
		if !viaMul.A0.Equal(&viaSq.A0) || !viaMul.A1.Equal(&viaSq.A1) {
			t.Fatal("Fp4 square differs from self-multiplication")
		}
	}
}
