package bls12381

// Hash-to-curve for BLS12-381 G1 and G2 following RFC 9380.
//
//  1. expand_message_xmd over SHA-256, with the oversize-DST hashing
//     rule;
//  2. hash_to_field drawing L = 64 bytes per Fp coordinate;
//  3. the Shallue-van de Woestijne map, whose constants (Z, c1..c4) are
//     derived from the curve equation at initialization instead of
//     being embedded;
//  4. point addition and effective-cofactor clearing, applied once to
//     the sum.
//
// The SSWU map onto the isogenous curve E' (A', B', Z = 11) is exposed
// alongside for callers that work on E'; the hash suites here use the
// SvdW map directly on E.

import (
	"crypto/sha256"
	"errors"
	"math/big"
)

var errDST = errors.New("bls12381: invalid domain separation tag")

// ExpandMessageXMD implements expand_message_xmd from RFC 9380 §5.3.1
// with H = SHA-256. DSTs longer than 255 bytes are replaced by
// H("H2C-OVERSIZE-DST-" || dst) per §5.3.3.
func ExpandMessageXMD(msg, dst []byte, lenInBytes int) ([]byte, error) {
	const bInBytes = 32
	const rInBytes = 64

	if len(dst) > 255 {
		h := sha256.New()
		h.Write([]byte("H2C-OVERSIZE-DST-"))
		h.Write(dst)
		dst = h.Sum(nil)
	}
	if len(dst) == 0 {
		return nil, errDST
	}

	ell := (lenInBytes + bInBytes - 1) / bInBytes
	if ell > 255 || lenInBytes == 0 {
		return nil, errors.New("bls12381: expand_message_xmd length out of range")
	}

	dstPrime := make([]byte, len(dst)+1)
	copy(dstPrime, dst)
	dstPrime[len(dst)] = byte(len(dst))

	h := sha256.New()
	h.Write(make([]byte, rInBytes)) // Z_pad
	h.Write(msg)
	h.Write([]byte{byte(lenInBytes >> 8), byte(lenInBytes)})
	h.Write([]byte{0})
	h.Write(dstPrime)
	b0 := h.Sum(nil)

	h.Reset()
	h.Write(b0)
	h.Write([]byte{1})
	h.Write(dstPrime)
	bi := h.Sum(nil)

	out := make([]byte, 0, ell*bInBytes)
	out = append(out, bi...)
	for i := 2; i <= ell; i++ {
		xored := make([]byte, bInBytes)
		for j := range xored {
			xored[j] = b0[j] ^ bi[j]
		}
		h.Reset()
		h.Write(xored)
		h.Write([]byte{byte(i)})
		h.Write(dstPrime)
		bi = h.Sum(nil)
		out = append(out, bi...)
	}
	return out[:lenInBytes], nil
}

// hashToFieldFp draws count Fp elements (L = 64 bytes each).
func hashToFieldFp(msg, dst []byte, count int) ([]Fp, error) {
	const L = 64
	uniform, err := ExpandMessageXMD(msg, dst, count*L)
	if err != nil {
		return nil, err
	}
	out := make([]Fp, count)
	for i := 0; i < count; i++ {
		v := new(big.Int).SetBytes(uniform[i*L : (i+1)*L])
		out[i].SetBig(v)
	}
	return out, nil
}

// hashToFieldFp2 draws count Fp2 elements (m = 2 coordinates each).
func hashToFieldFp2(msg, dst []byte, count int) ([]Fp2, error) {
	const L = 64
	uniform, err := ExpandMessageXMD(msg, dst, count*2*L)
	if err != nil {
		return nil, err
	}
	out := make([]Fp2, count)
	for i := 0; i < count; i++ {
		c0 := new(big.Int).SetBytes(uniform[2*i*L : (2*i+1)*L])
		c1 := new(big.Int).SetBytes(uniform[(2*i+1)*L : (2*i+2)*L])
		out[i].SetBig(c0, c1)
	}
	return out, nil
}

// Shallue-van de Woestijne constants, derived at init per RFC 9380
// §6.6.1: the first Z (by |Z|) passing the map criteria, then
// c1 = g(Z), c2 = -Z/2, c3 = sqrt(-g(Z)(3Z^2)) with sgn0 = 0,
// c4 = -4g(Z)/(3Z^2). (A = 0 on both curves.)
var (
	svdwG1Z, svdwG1C1, svdwG1C2, svdwG1C3, svdwG1C4 Fp
	svdwG2Z, svdwG2C1, svdwG2C2, svdwG2C3, svdwG2C4 Fp2
)

func init() {
	// G1: g(x) = x^3 + 4.
	g := func(out *Fp, x *Fp) {
		var b Fp
		b.SetUint64(4)
		out.Square(x)
		out.Mul(out, x)
		out.Add(out, &b)
	}
	for k := uint64(1); ; k++ {
		var zs [2]Fp
		zs[0].SetUint64(k)
		zs[1].Neg(&zs[0])
		found := false
		for _, z := range zs {
			var gz, threeZ2, h, gNegHalf, halfZ Fp
			g(&gz, &z)
			if gz.IsZero() {
				continue
			}
			threeZ2.Square(&z)
			threeZ2.MulUint64(&threeZ2, 3)
			if threeZ2.IsZero() {
				continue
			}
			// h = -3Z^2 / (4 g(Z))
			var den Fp
			den.Double(&gz)
			den.Double(&den)
			den.Inverse(&den)
			h.Neg(&threeZ2)
			h.Mul(&h, &den)
			if h.IsZero() || !h.IsSquare() {
				continue
			}
			halfZ.Halve(&z)
			halfZ.Neg(&halfZ)
			g(&gNegHalf, &halfZ)
			if !gz.IsSquare() && !gNegHalf.IsSquare() {
				continue
			}
			svdwG1Z.Set(&z)
			svdwG1C1.Set(&gz)
			svdwG1C2.Set(&halfZ)
			var c3sq Fp
			c3sq.Mul(&gz, &threeZ2)
			c3sq.Neg(&c3sq)
			svdwG1C3.Sqrt(&c3sq)
			if svdwG1C3.Sgn0() == 1 {
				svdwG1C3.Neg(&svdwG1C3)
			}
			var inv Fp
			inv.Inverse(&threeZ2)
			svdwG1C4.Double(&gz)
			svdwG1C4.Double(&svdwG1C4)
			svdwG1C4.Neg(&svdwG1C4)
			svdwG1C4.Mul(&svdwG1C4, &inv)
			found = true
			break
		}
		if found {
			break
		}
	}

	// G2: g(x) = x^3 + 4(1+u), over Fp2.
	g2f := func(out *Fp2, x *Fp2) {
		out.Square(x)
		out.Mul(out, x)
		out.Add(out, &g2B)
	}
	zCandidates := func(yield func(z *Fp2) bool) {
		for k := uint64(1); k < 32; k++ {
			for _, withU := range [2]bool{false, true} {
				var z Fp2
				z.C0.SetUint64(k)
				if withU {
					z.C1.SetUint64(1)
				}
				if yield(&z) {
					return
				}
				z.Neg(&z)
				if yield(&z) {
					return
				}
			}
		}
	}
	zCandidates(func(z *Fp2) bool {
		var gz, threeZ2, h, gNegHalf, halfZ Fp2
		g2f(&gz, z)
		if gz.IsZero() {
			return false
		}
		threeZ2.Square(z)
		var three Fp2
		three.C0.SetUint64(3)
		threeZ2.Mul(&threeZ2, &three)
		if threeZ2.IsZero() {
			return false
		}
		var den Fp2
		den.Double(&gz)
		den.Double(&den)
		den.Inverse(&den)
		h.Neg(&threeZ2)
		h.Mul(&h, &den)
		if h.IsZero() || !h.IsSquare() {
			return false
		}
		halfZ.Set(z)
		halfZ.C0.Halve(&halfZ.C0)
		halfZ.C1.Halve(&halfZ.C1)
		halfZ.Neg(&halfZ)
		g2f(&gNegHalf, &halfZ)
		if !gz.IsSquare() && !gNegHalf.IsSquare() {
			return false
		}
		svdwG2Z.Set(z)
		svdwG2C1.Set(&gz)
		svdwG2C2.Set(&halfZ)
		var c3sq Fp2
		c3sq.Mul(&gz, &threeZ2)
		c3sq.Neg(&c3sq)
		svdwG2C3.Sqrt(&c3sq)
		if svdwG2C3.Sgn0() == 1 {
			svdwG2C3.Neg(&svdwG2C3)
		}
		var inv Fp2
		inv.Inverse(&threeZ2)
		svdwG2C4.Double(&gz)
		svdwG2C4.Double(&svdwG2C4)
		svdwG2C4.Neg(&svdwG2C4)
		svdwG2C4.Mul(&svdwG2C4, &inv)
		return true
	})
}

// MapToCurveG1 sends a field element to a point on E (not yet in the
// subgroup) with the SvdW map.
func MapToCurveG1(u *Fp) G1Affine {
	var tv1, tv2, tv3, tv4 Fp
	tv1.Square(u)
	tv1.Mul(&tv1, &svdwG1C1)
	tv2.SetOne()
	tv2.Add(&tv2, &tv1)
	var one Fp
	one.SetOne()
	tv1.Sub(&one, &tv1)
	tv3.Mul(&tv1, &tv2)
	tv3.Inverse(&tv3)
	tv4.Mul(u, &tv1)
	tv4.Mul(&tv4, &tv3)
	tv4.Mul(&tv4, &svdwG1C3)

	g := func(out *Fp, x *Fp) {
		var b Fp
		b.SetUint64(4)
		out.Square(x)
		out.Mul(out, x)
		out.Add(out, &b)
	}

	var x, y, gx Fp
	x.Sub(&svdwG1C2, &tv4)
	g(&gx, &x)
	if !gx.IsSquare() {
		x.Add(&svdwG1C2, &tv4)
		g(&gx, &x)
		if !gx.IsSquare() {
			var t Fp
			t.Square(&tv2)
			t.Mul(&t, &tv3)
			t.Square(&t)
			t.Mul(&t, &svdwG1C4)
			x.Add(&svdwG1Z, &t)
			g(&gx, &x)
		}
	}
	y.Sqrt(&gx)
	if u.Sgn0() != y.Sgn0() {
		y.Neg(&y)
	}
	return G1Affine{X: x, Y: y}
}

// MapToCurveG2 is the SvdW map on the twist.
func MapToCurveG2(u *Fp2) G2Affine {
	var tv1, tv2, tv3, tv4 Fp2
	tv1.Square(u)
	tv1.Mul(&tv1, &svdwG2C1)
	tv2.SetOne()
	tv2.Add(&tv2, &tv1)
	var one Fp2
	one.SetOne()
	tv1.Sub(&one, &tv1)
	tv3.Mul(&tv1, &tv2)
	tv3.Inverse(&tv3)
	tv4.Mul(u, &tv1)
	tv4.Mul(&tv4, &tv3)
	tv4.Mul(&tv4, &svdwG2C3)

	g := func(out *Fp2, x *Fp2) {
		out.Square(x)
		out.Mul(out, x)
		out.Add(out, &g2B)
	}

	var x, y, gx Fp2
	x.Sub(&svdwG2C2, &tv4)
	g(&gx, &x)
	if !gx.IsSquare() {
		x.Add(&svdwG2C2, &tv4)
		g(&gx, &x)
		if !gx.IsSquare() {
			var t Fp2
			t.Square(&tv2)
			t.Mul(&t, &tv3)
			t.Square(&t)
			t.Mul(&t, &svdwG2C4)
			x.Add(&svdwG2Z, &t)
			g(&gx, &x)
		}
	}
	y.Sqrt(&gx)
	if u.Sgn0() != y.Sgn0() {
		y.Neg(&y)
	}
	return G2Affine{X: x, Y: y}
}

// SSWU parameters of the 11-isogenous curve E': y^2 = x^3 + A'x + B'
// (RFC 9380 §8.8.1).
var (
	sswuA, sswuB, sswuZ Fp
)

func init() {
	sswuA.SetBig(mustBig("144698a3b8e9433d693a02c96d4982b0ea985383ee66a8d8e8981aefd881ac98936f8da0e0f97f5cf428082d584c1d"))
	sswuB.SetBig(mustBig("12e2908d11688030018b12e8753eee3b2016c1f0f24f4070a0b9c14fcef35ef55a23215a316ceaa5d1cc48e98e172be0"))
	sswuZ.SetUint64(11)
}

// MapToCurveSSWU applies the simplified SWU map, yielding a point on
// the isogenous curve E' (not on E itself).
func MapToCurveSSWU(u *Fp) (x, y Fp) {
	gPrime := func(out *Fp, x *Fp) {
		var t Fp
		out.Square(x)
		out.Add(out, &sswuA)
		out.Mul(out, x)
		t.Set(&sswuB)
		out.Add(out, &t)
	}

	var u2, zu2, tv1 Fp
	u2.Square(u)
	zu2.Mul(&sswuZ, &u2)
	tv1.Square(&zu2)
	tv1.Add(&tv1, &zu2)

	var x1 Fp
	if tv1.IsZero() {
		// x1 = B / (Z*A)
		var t Fp
		t.Mul(&sswuZ, &sswuA)
		t.Inverse(&t)
		x1.Mul(&sswuB, &t)
	} else {
		// x1 = (-B/A) * (1 + 1/tv1)
		var t, invA Fp
		t.Inverse(&tv1)
		var one Fp
		one.SetOne()
		t.Add(&t, &one)
		invA.Inverse(&sswuA)
		x1.Neg(&sswuB)
		x1.Mul(&x1, &invA)
		x1.Mul(&x1, &t)
	}

	var gx1 Fp
	gPrime(&gx1, &x1)
	if gx1.IsSquare() {
		x.Set(&x1)
		y.Sqrt(&gx1)
	} else {
		var x2, gx2 Fp
		x2.Mul(&zu2, &x1)
		gPrime(&gx2, &x2)
		x.Set(&x2)
		y.Sqrt(&gx2)
	}
	if u.Sgn0() != y.Sgn0() {
		y.Neg(&y)
	}
	return
}

// IsOnIsogenousCurve checks membership of E': y^2 = x^3 + A'x + B'.
func IsOnIsogenousCurve(x, y *Fp) bool {
	var lhs, rhs Fp
	lhs.Square(y)
	rhs.Square(x)
	rhs.Add(&rhs, &sswuA)
	rhs.Mul(&rhs, x)
	rhs.Add(&rhs, &sswuB)
	return lhs.Equal(&rhs)
}

// HashToG1 hashes msg to a point of the prime-order subgroup:
// two field elements, two maps, one addition, one cofactor clearing.
func HashToG1(msg, dst []byte) (G1Affine, error) {
	us, err := hashToFieldFp(msg, dst, 2)
	if err != nil {
		return G1Affine{}, err
	}
	q0 := MapToCurveG1(&us[0])
	q1 := MapToCurveG1(&us[1])
	r := G1Add(&q0, &q1)
	var out G1Affine
	out.ClearCofactor(&r)
	return out, nil
}

// EncodeToG1 is the non-uniform single-element variant.
func EncodeToG1(msg, dst []byte) (G1Affine, error) {
	us, err := hashToFieldFp(msg, dst, 1)
	if err != nil {
		return G1Affine{}, err
	}
	q := MapToCurveG1(&us[0])
	var out G1Affine
	out.ClearCofactor(&q)
	return out, nil
}

// HashToG2 hashes msg to the prime-order G2 subgroup.
func HashToG2(msg, dst []byte) (G2Affine, error) {
	us, err := hashToFieldFp2(msg, dst, 2)
	if err != nil {
		return G2Affine{}, err
	}
	q0 := MapToCurveG2(&us[0])
	q1 := MapToCurveG2(&us[1])
	r := G2Add(&q0, &q1)
	var out G2Affine
	out.ClearCofactor(&r)
	return out, nil
}

// EncodeToG2 is the non-uniform single-element variant.
func EncodeToG2(msg, dst []byte) (G2Affine, error) {
	us, err := hashToFieldFp2(msg, dst, 1)
	if err != nil {
		return G2Affine{}, err
	}
	q := MapToCurveG2(&us[0])
	var out G2Affine
	out.ClearCofactor(&q)
	return out, nil
}
