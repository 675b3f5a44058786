package banderwagon

// Scalar field of the Banderwagon prime-order subgroup,
//   n = 0x1cfb69d4ca675f520cce760202687600ff8f87007419047174fd06b52876e7e1
// in Montgomery form over four limbs. IPA challenges, polynomial
// evaluations and commitment scalars all live here.

import (
	"math/big"

	"github.com/eth2030/pairing/bigint"
)

// FrBytes is the canonical encoded size of a scalar.
const FrBytes = 32

// Fr is a scalar in Montgomery form.
type Fr [4]uint64

var (
	frModulus = mustBig("1cfb69d4ca675f520cce760202687600ff8f87007419047174fd06b52876e7e1")
	frMod     [4]uint64
	frN0      uint64
	frR2      Fr
	frRMont   Fr
	frInvExp  *big.Int
)

func init() {
	var t big.Int
	t.Set(frModulus)
	for i := 0; i < 4; i++ {
		frMod[i] = t.Uint64()
		t.Rsh(&t, 64)
	}
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	inv := new(big.Int).ModInverse(new(big.Int).Mod(frModulus, two64), two64)
	inv.Neg(inv).Mod(inv, two64)
	frN0 = inv.Uint64()

	r := new(big.Int).Lsh(big.NewInt(1), 256)
	r.Mod(r, frModulus)
	setLimbs(&frRMont, r)
	r2 := new(big.Int).Lsh(big.NewInt(1), 512)
	r2.Mod(r2, frModulus)
	setLimbs(&frR2, r2)
	frInvExp = new(big.Int).Sub(frModulus, big.NewInt(2))
}

func setLimbs(z *Fr, v *big.Int) {
	var t big.Int
	t.Set(v)
	for i := 0; i < 4; i++ {
		z[i] = t.Uint64()
		t.Rsh(&t, 64)
	}
}

// Order returns a copy of the subgroup order n.
func Order() *big.Int {
	return new(big.Int).Set(frModulus)
}

func (z *Fr) SetZero() *Fr { *z = Fr{}; return z }
func (z *Fr) SetOne() *Fr  { *z = frRMont; return z }
func (z *Fr) Set(x *Fr) *Fr {
	*z = *x
	return z
}

func (z *Fr) SetUint64(v uint64) *Fr {
	*z = Fr{v}
	bigint.MontMul(z[:], z[:], frR2[:], frMod[:], frN0)
	return z
}

func (z *Fr) SetBig(v *big.Int) *Fr {
	var t big.Int
	t.Mod(v, frModulus)
	setLimbs(z, &t)
	bigint.MontMul(z[:], z[:], frR2[:], frMod[:], frN0)
	return z
}

func (z *Fr) BigInt() *big.Int {
	t := z.Regular()
	v := new(big.Int)
	for i := 3; i >= 0; i-- {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(t[i]))
	}
	return v
}

// Regular returns canonical (non-Montgomery) limbs.
func (z *Fr) Regular() [4]uint64 {
	var t Fr
	one := [4]uint64{1}
	bigint.MontMul(t[:], z[:], one[:], frMod[:], frN0)
	return t
}

// SetBytes parses a canonical 32-byte big-endian scalar.
func (z *Fr) SetBytes(b []byte) error {
	if len(b) != FrBytes {
		return errEncoding
	}
	var t Fr
	bigint.SetBytesBE(t[:], b)
	if bigint.Lt(t[:], frMod[:]) == 0 {
		return errEncoding
	}
	bigint.MontMul(z[:], t[:], frR2[:], frMod[:], frN0)
	return nil
}

// SetBytesWide reduces arbitrary big-endian bytes mod n (challenges).
func (z *Fr) SetBytesWide(b []byte) *Fr {
	return z.SetBig(new(big.Int).SetBytes(b))
}

// Bytes returns the canonical 32-byte big-endian encoding.
func (z *Fr) Bytes() [FrBytes]byte {
	t := z.Regular()
	var out [FrBytes]byte
	bigint.BytesBE(out[:], t[:])
	return out
}

func (z *Fr) Add(x, y *Fr) *Fr { bigint.ModAdd(z[:], x[:], y[:], frMod[:]); return z }
func (z *Fr) Sub(x, y *Fr) *Fr { bigint.ModSub(z[:], x[:], y[:], frMod[:]); return z }
func (z *Fr) Neg(x *Fr) *Fr    { bigint.ModNeg(z[:], x[:], frMod[:]); return z }

func (z *Fr) Mul(x, y *Fr) *Fr {
	bigint.MontMul(z[:], x[:], y[:], frMod[:], frN0)
	return z
}

func (z *Fr) Square(x *Fr) *Fr {
	bigint.MontMul(z[:], x[:], x[:], frMod[:], frN0)
	return z
}

func (z *Fr) Exp(x *Fr, e *big.Int) *Fr {
	var res, base Fr
	res.SetOne()
	base.Set(x)
	for i := e.BitLen() - 1; i >= 0; i-- {
		res.Square(&res)
		if e.Bit(i) == 1 {
			res.Mul(&res, &base)
		}
	}
	return z.Set(&res)
}

// Inverse is Fermat with inverse(0) = 0.
func (z *Fr) Inverse(x *Fr) *Fr { return z.Exp(x, frInvExp) }

func (z *Fr) IsZero() bool     { return bigint.IsZero(z[:]) == 1 }
func (z *Fr) IsOne() bool      { return bigint.Eq(z[:], frRMont[:]) == 1 }
func (z *Fr) Equal(x *Fr) bool { return bigint.Eq(z[:], x[:]) == 1 }

func (z *Fr) String() string { return z.BigInt().Text(10) }

// BatchInvert inverts all nonzero entries with one inversion.
func BatchInvert(v []Fr) {
	n := len(v)
	if n == 0 {
		return
	}
	prods := make([]Fr, n)
	var acc Fr
	acc.SetOne()
	for i := 0; i < n; i++ {
		prods[i].Set(&acc)
		if !v[i].IsZero() {
			acc.Mul(&acc, &v[i])
		}
	}
	var inv Fr
	inv.Inverse(&acc)
	for i := n - 1; i >= 0; i-- {
		if v[i].IsZero() {
			continue
		}
		var t Fr
		t.Mul(&inv, &prods[i])
		inv.Mul(&inv, &v[i])
		v[i].Set(&t)
	}
}
