package bigint

import (
	"math/big"
	"math/rand"
	"testing"
)

var testMod = func() *big.Int {
	// BLS12-381 base modulus: odd, 6 limbs.
	m, _ := new(big.Int).SetString("1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab", 16)
	return m
}()

func toLimbs(v *big.Int, n int) []uint64 {
	out := make([]uint64, n)
	t := new(big.Int).Set(v)
	for i := 0; i < n; i++ {
		out[i] = t.Uint64()
		t.Rsh(t, 64)
	}
	return out
}

func fromLimbs(l []uint64) *big.Int {
	v := new(big.Int)
	for i := len(l) - 1; i >= 0; i-- {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(l[i]))
	}
	return v
}

func testN0(m *big.Int) uint64 {
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	inv := new(big.Int).ModInverse(new(big.Int).Mod(m, two64), two64)
	inv.Neg(inv).Mod(inv, two64)
	return inv.Uint64()
}

func TestAddSubCarry(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 6
	bound := new(big.Int).Lsh(big.NewInt(1), uint(64*n))
	for i := 0; i < 200; i++ {
		a := new(big.Int).Rand(rng, bound)
		b := new(big.Int).Rand(rng, bound)
		z := make([]uint64, n)
		c := Add(z, toLimbs(a, n), toLimbs(b, n))
		want := new(big.Int).Add(a, b)
		got := fromLimbs(z)
		got.Or(got, new(big.Int).Lsh(new(big.Int).SetUint64(c), uint(64*n)))
		if got.Cmp(want) != 0 {
			t.Fatalf("add mismatch at %d", i)
		}

		borrow := Sub(z, toLimbs(a, n), toLimbs(b, n))
		wantB := uint64(0)
		if a.Cmp(b) < 0 {
			wantB = 1
		}
		if borrow != wantB {
			t.Fatalf("borrow mismatch at %d", i)
		}
		if wantB == 0 {
			if fromLimbs(z).Cmp(new(big.Int).Sub(a, b)) != 0 {
				t.Fatalf("sub value mismatch at %d", i)
			}
		}
	}
}

func TestMontMulMatchesBig(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	n := (testMod.BitLen() + 63) / 64
	mod := toLimbs(testMod, n)
	n0 := testN0(testMod)
	r := new(big.Int).Lsh(big.NewInt(1), uint(64*n))
	rInv := new(big.Int).ModInverse(r, testMod)

	for i := 0; i < 500; i++ {
		a := new(big.Int).Rand(rng, testMod)
		b := new(big.Int).Rand(rng, testMod)
		z := make([]uint64, n)
		MontMul(z, toLimbs(a, n), toLimbs(b, n), mod, n0)
		want := new(big.Int).Mul(a, b)
		want.Mul(want, rInv)
		want.Mod(want, testMod)
		if fromLimbs(z).Cmp(want) != 0 {
			t.Fatalf("montgomery product mismatch at %d", i)
		}
	}
}

func TestMontMulAliasing(t *testing.T) {
	n := (testMod.BitLen() + 63) / 64
	mod := toLimbs(testMod, n)
	n0 := testN0(testMod)
	a := big.NewInt(123456789)
	la := toLimbs(a, n)
	MontMul(la, la, la, mod, n0)
	want := new(big.Int).Mul(a, a)
	rInv := new(big.Int).ModInverse(new(big.Int).Lsh(big.NewInt(1), uint(64*n)), testMod)
	want.Mul(want, rInv)
	want.Mod(want, testMod)
	if fromLimbs(la).Cmp(want) != 0 {
		t.Fatal("aliased square mismatch")
	}
}

func TestModArithmetic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := 6
	mod := toLimbs(testMod, n)
	for i := 0; i < 200; i++ {
		a := new(big.Int).Rand(rng, testMod)
		b := new(big.Int).Rand(rng, testMod)
		z := make([]uint64, n)

		ModAdd(z, toLimbs(a, n), toLimbs(b, n), mod)
		want := new(big.Int).Add(a, b)
		want.Mod(want, testMod)
		if fromLimbs(z).Cmp(want) != 0 {
			t.Fatal("ModAdd mismatch")
		}

		ModSub(z, toLimbs(a, n), toLimbs(b, n), mod)
		want.Sub(a, b)
		want.Mod(want, testMod)
		if fromLimbs(z).Cmp(want) != 0 {
			t.Fatal("ModSub mismatch")
		}

		ModNeg(z, toLimbs(a, n), mod)
		want.Neg(a)
		want.Mod(want, testMod)
		if fromLimbs(z).Cmp(want) != 0 {
			t.Fatal("ModNeg mismatch")
		}

		ModHalve(z, toLimbs(a, n), mod)
		half := new(big.Int).ModInverse(big.NewInt(2), testMod)
		want.Mul(a, half)
		want.Mod(want, testMod)
		if fromLimbs(z).Cmp(want) != 0 {
			t.Fatal("ModHalve mismatch")
		}
	}
}

func TestConditionalOps(t *testing.T) {
	a := []uint64{1, 2, 3, 4}
	b := []uint64{5, 6, 7, 8}

	z := append([]uint64{}, a...)
	Ccopy(z, b, 0)
	if Eq(z, a) != 1 {
		t.Fatal("ccopy with ctl 0 changed value")
	}
	Ccopy(z, b, 1)
	if Eq(z, b) != 1 {
		t.Fatal("ccopy with ctl 1 did not copy")
	}

	x := append([]uint64{}, a...)
	y := append([]uint64{}, b...)
	Cswap(x, y, 1)
	if Eq(x, b) != 1 || Eq(y, a) != 1 {
		t.Fatal("cswap with ctl 1 did not swap")
	}
	Cswap(x, y, 0)
	if Eq(x, b) != 1 || Eq(y, a) != 1 {
		t.Fatal("cswap with ctl 0 swapped")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		v := new(big.Int).Rand(rng, testMod)
		limbs := toLimbs(v, 6)

		be := make([]byte, 48)
		BytesBE(be, limbs)
		back := make([]uint64, 6)
		SetBytesBE(back, be)
		if Eq(limbs, back) != 1 {
			t.Fatal("big-endian round trip failed")
		}

		le := make([]byte, 48)
		BytesLE(le, limbs)
		SetBytesLE(back, le)
		if Eq(limbs, back) != 1 {
			t.Fatal("little-endian round trip failed")
		}
		for j := 0; j < 48; j++ {
			if be[j] != le[47-j] {
				t.Fatal("endianness mismatch between encodings")
			}
		}
	}
}

func TestIsZeroLtEq(t *testing.T) {
	zero := []uint64{0, 0, 0}
	if IsZero(zero) != 1 {
		t.Fatal("IsZero(0) = 0")
	}
	if IsZero([]uint64{0, 1, 0}) != 0 {
		t.Fatal("IsZero(nonzero) = 1")
	}
	if Lt([]uint64{1, 0}, []uint64{2, 0}) != 1 {
		t.Fatal("Lt(1,2) = 0")
	}
	if Lt([]uint64{2, 0}, []uint64{1, 0}) != 0 {
		t.Fatal("Lt(2,1) = 1")
	}
	if Lt([]uint64{5, 5}, []uint64{5, 5}) != 0 {
		t.Fatal("Lt(x,x) = 1")
	}
}

func TestWNAFReconstruction(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	bound := new(big.Int).Lsh(big.NewInt(1), 256)
	for i := 0; i < 100; i++ {
		v := new(big.Int).Rand(rng, bound)
		naf := WNAFVartime(toLimbs(v, 4), 5)
		acc := new(big.Int)
		for j := len(naf) - 1; j >= 0; j-- {
			acc.Lsh(acc, 1)
			acc.Add(acc, big.NewInt(int64(naf[j])))
		}
		if acc.Cmp(v) != 0 {
			t.Fatalf("wNAF reconstruction mismatch at %d", i)
		}
		// Non-adjacency within the window: no two nonzero digits
		// closer than the window width.
		last := -10
		for j, d := range naf {
			if d == 0 {
				continue
			}
			if d%2 == 0 {
				t.Fatal("even wNAF digit")
			}
			if j-last < 5 && last >= 0 {
				t.Fatal("adjacent wNAF digits")
			}
			last = j
		}
	}
}

func TestWindow(t *testing.T) {
	x := []uint64{0xfedcba9876543210, 0x0123456789abcdef}
	if Window(x, 0, 4) != 0x0 {
		t.Fatal("window 0 wrong")
	}
	if Window(x, 4, 4) != 0x1 {
		t.Fatal("window 1 wrong")
	}
	// Crosses the limb boundary: top nibble of limb 0 plus the low
	// nibble of limb 1.
	if Window(x, 60, 8) != 0xff {
		t.Fatalf("cross-limb window wrong: %x", Window(x, 60, 8))
	}
}
