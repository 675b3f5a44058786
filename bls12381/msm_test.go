package bls12381

import (
	"math/rand"
	"testing"

	"github.com/eth2030/pairing/pool"
)

func naiveMSM(points []G1Affine, scalars []Fr) G1Jac {
	var acc G1Jac
	acc.SetInfinity()
	for i := range points {
		var t G1Jac
		t.ScalarMulVartime(&points[i], &scalars[i])
		acc.AddAssign(&t)
	}
	return acc
}

func TestG1MultiExpMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	for _, n := range []int{0, 1, 3, 8, 33, 100} {
		points := make([]G1Affine, n)
		scalars := make([]Fr, n)
		for i := 0; i < n; i++ {
			points[i] = randG1(rng)
			scalars[i] = randFr(rng)
		}
		if n > 2 {
			// Exercise the edge digits and duplicate points.
			scalars[0].SetZero()
			scalars[1].SetUint64(1)
			points[2] = points[1]
		}
		want := naiveMSM(points, scalars)
		got, err := G1MultiExp(points, scalars)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(&want) {
			t.Fatalf("MSM mismatch at n=%d", n)
		}
	}
}

func TestG1MultiExpParallelAgrees(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 64
	points := make([]G1Affine, n)
	scalars := make([]Fr, n)
	for i := 0; i < n; i++ {
		points[i] = randG1(rng)
		scalars[i] = randFr(rng)
	}
	serial, err := G1MultiExp(points, scalars)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := G1MultiExpWith(pool.New(4), points, scalars)
	if err != nil {
		t.Fatal(err)
	}
	if !serial.Equal(&parallel) {
		t.Fatal("parallel MSM differs from serial")
	}
}

func TestG1MultiExpLengthMismatch(t *testing.T) {
	if _, err := G1MultiExp(make([]G1Affine, 2), make([]Fr, 3)); err == nil {
		t.Fatal("length mismatch not rejected")
	}
}

func TestG2MultiExpMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	for _, n := range []int{1, 9, 40} {
		points := make([]G2Affine, n)
		scalars := make([]Fr, n)
		for i := 0; i < n; i++ {
			points[i] = randG2(rng)
			scalars[i] = randFr(rng)
		}
		var want G2Jac
		want.SetInfinity()
		for i := range points {
			var tj G2Jac
			tj.ScalarMulVartime(&points[i], &scalars[i])
			want.AddAssign(&tj)
		}
		got, err := G2MultiExp(points, scalars)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(&want) {
			t.Fatalf("G2 MSM mismatch at n=%d", n)
		}
	}
}

func TestMsmWindowSize(t *testing.T) {
	cases := []struct{ n, want int }{
		{1, 2}, {8, 2}, {64, 4}, {1024, 8}, {1 << 20, 16},
	}
	for _, c := range cases {
		if got := msmWindowSize(c.n); got != c.want {
			t.Fatalf("msmWindowSize(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestSignedDigitsReconstruct(t *testing.T) {
	rng := rand.New(rand.NewSource(44))
	for i := 0; i < 50; i++ {
		k := randFr(rng)
		for _, c := range []int{4, 8, 13} {
			digits := msmSignedDigits(&k, c)
			// sum digits[w] * 2^(cw) must equal the scalar.
			acc := make([]uint64, 5)
			for w := len(digits) - 1; w >= 0; w-- {
				for s := 0; s < c; s++ {
					carry := uint64(0)
					for j := range acc {
						nv := acc[j]<<1 | carry
						carry = acc[j] >> 63
						acc[j] = nv
					}
				}
				d := int64(digits[w])
				if d >= 0 {
					addSmall(acc, uint64(d))
				} else {
					subSmall(acc, uint64(-d))
				}
			}
			reg := k.Regular()
			for j := 0; j < 4; j++ {
				if acc[j] != reg[j] {
					t.Fatalf("digit reconstruction failed (c=%d)", c)
				}
			}
			if acc[4] != 0 {
				t.Fatalf("digit reconstruction overflowed (c=%d)", c)
			}
		}
	}
}

func addSmall(acc []uint64, v uint64) {
	for i := 0; i < len(acc) && v != 0; i++ {
		nv := acc[i] + v
		if nv < acc[i] {
			v = 1
		} else {
			v = 0
		}
		acc[i] = nv
	}
}

func subSmall(acc []uint64, v uint64) {
	for i := 0; i < len(acc) && v != 0; i++ {
		nv := acc[i] - v
		if nv > acc[i] {
			v = 1
		} else {
			v = 0
		}
		acc[i] = nv
	}
}
