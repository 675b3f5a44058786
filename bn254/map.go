package bn254

// Map-to-curve for BN254 G1 with the Shallue-van de Woestijne method,
// constants derived from the curve equation at initialization (Z
// search per RFC 9380 criteria). Since the G1 cofactor is 1 there is no
// cofactor clearing step.

import (
	"crypto/sha256"
	"errors"
	"math/big"
)

var (
	svdwZ, svdwC1, svdwC2, svdwC3, svdwC4 Fp
)

func init() {
	g := func(out *Fp, x *Fp) {
		var b Fp
		b.SetUint64(3)
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
			var three Fp
			three.SetUint64(3)
			threeZ2.Mul(&threeZ2, &three)
			if threeZ2.IsZero() {
				continue
			}
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
			svdwZ.Set(&z)
			svdwC1.Set(&gz)
			svdwC2.Set(&halfZ)
			var c3sq Fp
			c3sq.Mul(&gz, &threeZ2)
			c3sq.Neg(&c3sq)
			svdwC3.Sqrt(&c3sq)
			if svdwC3.Sgn0() == 1 {
				svdwC3.Neg(&svdwC3)
			}
			var inv Fp
			inv.Inverse(&threeZ2)
			svdwC4.Double(&gz)
			svdwC4.Double(&svdwC4)
			svdwC4.Neg(&svdwC4)
			svdwC4.Mul(&svdwC4, &inv)
			found = true
			break
		}
		if found {
			break
		}
	}
}

// MapToCurveG1 sends a field element to a curve point.
func MapToCurveG1(u *Fp) G1Affine {
	var tv1, tv2, tv3, tv4 Fp
	tv1.Square(u)
	tv1.Mul(&tv1, &svdwC1)
	tv2.SetOne()
	tv2.Add(&tv2, &tv1)
	var one Fp
	one.SetOne()
	tv1.Sub(&one, &tv1)
	tv3.Mul(&tv1, &tv2)
	tv3.Inverse(&tv3)
	tv4.Mul(u, &tv1)
	tv4.Mul(&tv4, &tv3)
	tv4.Mul(&tv4, &svdwC3)

	g := func(out *Fp, x *Fp) {
		var b Fp
		b.SetUint64(3)
		out.Square(x)
		out.Mul(out, x)
		out.Add(out, &b)
	}

	var x, y, gx Fp
	x.Sub(&svdwC2, &tv4)
	g(&gx, &x)
	if !gx.IsSquare() {
		x.Add(&svdwC2, &tv4)
		g(&gx, &x)
		if !gx.IsSquare() {
			var t Fp
			t.Square(&tv2)
			t.Mul(&t, &tv3)
			t.Square(&t)
			t.Mul(&t, &svdwC4)
			x.Add(&svdwZ, &t)
			g(&gx, &x)
		}
	}
	y.Sqrt(&gx)
	if u.Sgn0() != y.Sgn0() {
		y.Neg(&y)
	}
	return G1Affine{X: x, Y: y}
}

// HashToG1 hashes a message to a curve point via expand_message_xmd
// (SHA-256) and two map applications.
func HashToG1(msg, dst []byte) (G1Affine, error) {
	uniform, err := expandMessageXMD(msg, dst, 96)
	if err != nil {
		return G1Affine{}, err
	}
	var u0, u1 Fp
	u0.SetBig(new(big.Int).SetBytes(uniform[:48]))
	u1.SetBig(new(big.Int).SetBytes(uniform[48:96]))
	q0 := MapToCurveG1(&u0)
	q1 := MapToCurveG1(&u1)
	out := G1Add(&q0, &q1)
	return out, nil
}

func expandMessageXMD(msg, dst []byte, lenInBytes int) ([]byte, error) {
	const bInBytes = 32
	const rInBytes = 64
	if len(dst) > 255 {
		h := sha256.New()
		h.Write([]byte("H2C-OVERSIZE-DST-"))
		h.Write(dst)
		dst = h.Sum(nil)
	}
	ell := (lenInBytes + bInBytes - 1) / bInBytes
	if ell > 255 || len(dst) == 0 {
		return nil, errors.New("bn254: bad expand_message_xmd parameters")
	}
	dstPrime := append(append([]byte{}, dst...), byte(len(dst)))

	h := sha256.New()
	h.Write(make([]byte, rInBytes))
	h.Write(msg)
	h.Write([]byte{byte(lenInBytes >> 8), byte(lenInBytes), 0})
	h.Write(dstPrime)
	b0 := h.Sum(nil)

	h.Reset()
	h.Write(b0)
	h.Write([]byte{1})
	h.Write(dstPrime)
	bi := h.Sum(nil)

	out := append([]byte{}, bi...)
	for i := 2; i <= ell; i++ {
		x := make([]byte, bInBytes)
		for j := range x {
			x[j] = b0[j] ^ bi[j]
		}
		h.Reset()
		h.Write(x)
		h.Write([]byte{byte(i)})
		h.Write(dstPrime)
		bi = h.Sum(nil)
		out = append(out, bi...)
	}
	return out[:lenInBytes], nil
}
