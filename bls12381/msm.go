package bls12381

// Multi-scalar multiplication, Pippenger's bucket method.
//
// Scalars are recoded into signed c-bit digits so each window needs only
// 2^(c-1) buckets, with negated points standing in for negative digits.
// Bucket accumulation works on affine points in batches: every round
// pairs at most one addition per bucket, computes all the slopes with a
// single field inversion (Montgomery's trick), and defers colliding
// additions to the next round. Window totals fold high to low with c
// doublings between windows.
//
// Variable-time throughout: MSM inputs are public (verifier equations,
// precompile calls, SRS transforms).

import (
	"errors"
	"math/bits"

	"github.com/eth2030/pairing/pool"
)

var errMSMLength = errors.New("bls12381: mismatched MSM input lengths")

// msmWindowSize picks c ~ log2(n) - 2, clamped to [2, 16].
func msmWindowSize(n int) int {
	if n <= 1 {
		return 2
	}
	c := bits.Len(uint(n)) - 3
	if c < 2 {
		c = 2
	}
	if c > 16 {
		c = 16
	}
	return c
}

// msmSignedDigits recodes k into signed c-bit digits, least-significant
// window first. Digits lie in [-2^(c-1), 2^(c-1)] and one extra window
// absorbs the final carry.
func msmSignedDigits(k *Fr, c int) []int32 {
	reg := k.Regular()
	nWindows := (256+c-1)/c + 1
	out := make([]int32, nWindows)
	carry := int64(0)
	half := int64(1) << (c - 1)
	full := int64(1) << c
	for w := 0; w < nWindows; w++ {
		pos := w * c
		var raw uint64
		if pos < 256 {
			raw = limbWindow(reg[:], uint(pos), uint(c))
		}
		v := int64(raw) + carry
		if v > half {
			out[w] = int32(v - full)
			carry = 1
		} else {
			out[w] = int32(v)
			carry = 0
		}
	}
	return out
}

// limbWindow reads up to 16 bits starting at bit pos, clamped to the
// scalar width.
func limbWindow(limbs []uint64, pos, w uint) uint64 {
	total := uint(len(limbs)) * 64
	i := pos / 64
	sh := pos % 64
	v := limbs[i] >> sh
	if sh+w > 64 && i+1 < uint(len(limbs)) {
		v |= limbs[i+1] << (64 - sh)
	}
	if pos+w > total {
		w = total - pos
	}
	return v & (1<<w - 1)
}

// affOp is one queued bucket addition.
type affOp struct {
	idx int
	p   G1Affine
}

// g1BucketAccumulate adds every (digit, point) into the affine bucket
// array with batched-inversion affine additions.
func g1BucketAccumulate(buckets []G1Affine, occupied []bool, points []G1Affine, digits []int32) {
	queue := make([]affOp, 0, len(points))
	for i := range points {
		d := digits[i]
		if d == 0 || points[i].IsInfinity() {
			continue
		}
		var p G1Affine
		if d > 0 {
			p = points[i]
		} else {
			p.Neg(&points[i])
			d = -d
		}
		queue = append(queue, affOp{idx: int(d) - 1, p: p})
	}

	inRound := make([]bool, len(buckets))
	round := make([]affOp, 0, len(queue))
	dens := make([]Fp, 0, len(queue))
	for len(queue) > 0 {
		next := queue[:0]
		round = round[:0]
		for _, op := range queue {
			if inRound[op.idx] {
				next = append(next, op)
				continue
			}
			if !occupied[op.idx] {
				buckets[op.idx] = op.p
				occupied[op.idx] = true
				continue
			}
			b := &buckets[op.idx]
			if b.X.Equal(&op.p.X) {
				var negY Fp
				negY.Neg(&op.p.Y)
				if b.Y.Equal(&negY) {
					// P + (-P): bucket drains.
					occupied[op.idx] = false
					buckets[op.idx].SetInfinity()
					continue
				}
			}
			inRound[op.idx] = true
			round = append(round, op)
		}

		// Batched slopes: one inversion for the whole round.
		dens = dens[:0]
		for _, op := range round {
			b := &buckets[op.idx]
			var den Fp
			if b.X.Equal(&op.p.X) {
				den.Double(&b.Y) // tangent
			} else {
				den.Sub(&op.p.X, &b.X) // chord
			}
			dens = append(dens, den)
		}
		fpBatchInvert(dens)
		for k, op := range round {
			b := &buckets[op.idx]
			var lambda, num Fp
			if b.X.Equal(&op.p.X) {
				num.Square(&b.X)
				var three Fp
				three.SetUint64(3)
				num.Mul(&num, &three)
			} else {
				num.Sub(&op.p.Y, &b.Y)
			}
			lambda.Mul(&num, &dens[k])

			var x3, y3 Fp
			x3.Square(&lambda)
			x3.Sub(&x3, &b.X)
			x3.Sub(&x3, &op.p.X)
			y3.Sub(&b.X, &x3)
			y3.Mul(&y3, &lambda)
			y3.Sub(&y3, &b.Y)
			b.X.Set(&x3)
			b.Y.Set(&y3)
			inRound[op.idx] = false
		}
		queue = next
	}
}

// msmG1Window computes one window's bucket-reduced total.
func msmG1Window(points []G1Affine, digits [][]int32, w, c int) G1Jac {
	buckets := make([]G1Affine, 1<<(c-1))
	occupied := make([]bool, 1<<(c-1))
	col := make([]int32, len(points))
	for i := range points {
		col[i] = digits[i][w]
	}
	g1BucketAccumulate(buckets, occupied, points, col)

	var running, sum G1Jac
	running.SetInfinity()
	sum.SetInfinity()
	for i := len(buckets) - 1; i >= 0; i-- {
		if occupied[i] {
			running.AddMixed(&buckets[i])
		}
		sum.AddAssign(&running)
	}
	return sum
}

// G1MultiExp computes sum k_i * P_i.
func G1MultiExp(points []G1Affine, scalars []Fr) (G1Jac, error) {
	return G1MultiExpWith(nil, points, scalars)
}

// G1MultiExpWith is G1MultiExp driven by an optional thread pool: the
// windows are computed in parallel and folded high to low.
func G1MultiExpWith(r pool.Runner, points []G1Affine, scalars []Fr) (G1Jac, error) {
	var out G1Jac
	out.SetInfinity()
	if len(points) != len(scalars) {
		return out, errMSMLength
	}
	n := len(points)
	if n == 0 {
		return out, nil
	}
	if n < 8 {
		for i := 0; i < n; i++ {
			var t G1Jac
			t.ScalarMulVartime(&points[i], &scalars[i])
			out.AddAssign(&t)
		}
		return out, nil
	}

	c := msmWindowSize(n)
	digits := make([][]int32, n)
	for i := range scalars {
		digits[i] = msmSignedDigits(&scalars[i], c)
	}
	nWindows := len(digits[0])

	totals := make([]G1Jac, nWindows)
	if r == nil {
		r = pool.Serial{}
	}
	r.ParallelFor(nWindows, func(lo, hi int) {
		for w := lo; w < hi; w++ {
			totals[w] = msmG1Window(points, digits, w, c)
		}
	})

	for w := nWindows - 1; w >= 0; w-- {
		for i := 0; i < c; i++ {
			out.Double(&out)
		}
		out.AddAssign(&totals[w])
	}
	return out, nil
}

// --- G2 mirror ---

type affOp2 struct {
	idx int
	p   G2Affine
}

func g2BucketAccumulate(buckets []G2Affine, occupied []bool, points []G2Affine, digits []int32) {
	queue := make([]affOp2, 0, len(points))
	for i := range points {
		d := digits[i]
		if d == 0 || points[i].IsInfinity() {
			continue
		}
		var p G2Affine
		if d > 0 {
			p = points[i]
		} else {
			p.Neg(&points[i])
			d = -d
		}
		queue = append(queue, affOp2{idx: int(d) - 1, p: p})
	}

	inRound := make([]bool, len(buckets))
	round := make([]affOp2, 0, len(queue))
	dens := make([]Fp2, 0, len(queue))
	for len(queue) > 0 {
		next := queue[:0]
		round = round[:0]
		for _, op := range queue {
			if inRound[op.idx] {
				next = append(next, op)
				continue
			}
			if !occupied[op.idx] {
				buckets[op.idx] = op.p
				occupied[op.idx] = true
				continue
			}
			b := &buckets[op.idx]
			if b.X.Equal(&op.p.X) {
				var negY Fp2
				negY.Neg(&op.p.Y)
				if b.Y.Equal(&negY) {
					occupied[op.idx] = false
					buckets[op.idx].SetInfinity()
					continue
				}
			}
			inRound[op.idx] = true
			round = append(round, op)
		}

		dens = dens[:0]
		for _, op := range round {
			b := &buckets[op.idx]
			var den Fp2
			if b.X.Equal(&op.p.X) {
				den.Double(&b.Y)
			} else {
				den.Sub(&op.p.X, &b.X)
			}
			dens = append(dens, den)
		}
		fp2BatchInvert(dens)
		for k, op := range round {
			b := &buckets[op.idx]
			var lambda, num Fp2
			if b.X.Equal(&op.p.X) {
				num.Square(&b.X)
				var three Fp2
				three.C0.SetUint64(3)
				num.Mul(&num, &three)
			} else {
				num.Sub(&op.p.Y, &b.Y)
			}
			lambda.Mul(&num, &dens[k])

			var x3, y3 Fp2
			x3.Square(&lambda)
			x3.Sub(&x3, &b.X)
			x3.Sub(&x3, &op.p.X)
			y3.Sub(&b.X, &x3)
			y3.Mul(&y3, &lambda)
			y3.Sub(&y3, &b.Y)
			b.X.Set(&x3)
			b.Y.Set(&y3)
			inRound[op.idx] = false
		}
		queue = next
	}
}

func msmG2Window(points []G2Affine, digits [][]int32, w, c int) G2Jac {
	buckets := make([]G2Affine, 1<<(c-1))
	occupied := make([]bool, 1<<(c-1))
	col := make([]int32, len(points))
	for i := range points {
		col[i] = digits[i][w]
	}
	g2BucketAccumulate(buckets, occupied, points, col)

	var running, sum G2Jac
	running.SetInfinity()
	sum.SetInfinity()
	for i := len(buckets) - 1; i >= 0; i-- {
		if occupied[i] {
			running.AddMixed(&buckets[i])
		}
		sum.AddAssign(&running)
	}
	return sum
}

// G2MultiExp computes sum k_i * Q_i.
func G2MultiExp(points []G2Affine, scalars []Fr) (G2Jac, error) {
	return G2MultiExpWith(nil, points, scalars)
}

// G2MultiExpWith is G2MultiExp driven by an optional thread pool.
func G2MultiExpWith(r pool.Runner, points []G2Affine, scalars []Fr) (G2Jac, error) {
	var out G2Jac
	out.SetInfinity()
	if len(points) != len(scalars) {
		return out, errMSMLength
	}
	n := len(points)
	if n == 0 {
		return out, nil
	}
	if n < 8 {
		for i := 0; i < n; i++ {
			var t G2Jac
			t.ScalarMulVartime(&points[i], &scalars[i])
			out.AddAssign(&t)
		}
		return out, nil
	}

	c := msmWindowSize(n)
	digits := make([][]int32, n)
	for i := range scalars {
		digits[i] = msmSignedDigits(&scalars[i], c)
	}
	nWindows := len(digits[0])

	totals := make([]G2Jac, nWindows)
	if r == nil {
		r = pool.Serial{}
	}
	r.ParallelFor(nWindows, func(lo, hi int) {
		for w := lo; w < hi; w++ {
			totals[w] = msmG2Window(points, digits, w, c)
		}
	})

	for w := nWindows - 1; w >= 0; w-- {
		for i := 0; i < c; i++ {
			out.Double(&out)
		}
		out.AddAssign(&totals[w])
	}
	return out, nil
}
