package bn254

// BN254 (alt_bn128) field arithmetic.
//
// Base field modulus:
//   p = 21888242871839275222246405745257275088696311157297823662689037894645226208583
// scalar field (curve order):
//   n = 21888242871839275222246405745257275088548364400416034343698204186575808495617
//
// Both fit four 64-bit limbs in Montgomery form. The derived Montgomery
// parameters come from the moduli at initialization.

import (
	"errors"
	"math/big"

	"github.com/eth2030/pairing/bigint"
)

// Limb and byte sizes shared by Fp and Fr.
const (
	Limbs    = 4
	FpBytes  = 32
	FrBytes  = 32
)

// Fp is a base-field element in Montgomery form.
type Fp [Limbs]uint64

// Fr is a scalar-field element in Montgomery form.
type Fr [Limbs]uint64

var (
	fpModulus, _ = new(big.Int).SetString("21888242871839275222246405745257275088696311157297823662689037894645226208583", 10)
	frModulus, _ = new(big.Int).SetString("21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

	fpMod, frMod       [Limbs]uint64
	fpN0, frN0         uint64
	fpR2, fpRMont      Fp
	frR2, frRMont      Fr
	fpInvExp, frInvExp *big.Int
	fpSqrtExp          *big.Int // (p+1)/4, p = 3 mod 4
	fpQNRExp           *big.Int // (p-1)/2
	fpHalfP            *big.Int
)

var errNonCanonical = errors.New("bn254: encoding not canonical")

func bigToLimbs(v *big.Int, z []uint64) {
	var t big.Int
	t.Set(v)
	for i := range z {
		z[i] = t.Uint64()
		t.Rsh(&t, 64)
	}
}

func limbsToBig(z []uint64) *big.Int {
	v := new(big.Int)
	for i := len(z) - 1; i >= 0; i-- {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(z[i]))
	}
	return v
}

func montN0(m *big.Int) uint64 {
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	inv := new(big.Int).ModInverse(new(big.Int).Mod(m, two64), two64)
	inv.Neg(inv).Mod(inv, two64)
	return inv.Uint64()
}

func init() {
	bigToLimbs(fpModulus, fpMod[:])
	bigToLimbs(frModulus, frMod[:])
	fpN0 = montN0(fpModulus)
	frN0 = montN0(frModulus)

	r := new(big.Int).Lsh(big.NewInt(1), 64*Limbs)
	rp := new(big.Int).Mod(r, fpModulus)
	bigToLimbs(rp, fpRMont[:])
	rr := new(big.Int).Mod(r, frModulus)
	bigToLimbs(rr, frRMont[:])

	r2 := new(big.Int).Lsh(big.NewInt(1), 2*64*Limbs)
	r2p := new(big.Int).Mod(r2, fpModulus)
	bigToLimbs(r2p, fpR2[:])
	r2r := new(big.Int).Mod(r2, frModulus)
	bigToLimbs(r2r, frR2[:])

	fpInvExp = new(big.Int).Sub(fpModulus, big.NewInt(2))
	frInvExp = new(big.Int).Sub(frModulus, big.NewInt(2))
	fpSqrtExp = new(big.Int).Add(fpModulus, big.NewInt(1))
	fpSqrtExp.Rsh(fpSqrtExp, 2)
	fpQNRExp = new(big.Int).Rsh(fpModulus, 1)
	fpHalfP = new(big.Int).Rsh(fpModulus, 1)
}

// --- Fp ---

func (z *Fp) SetZero() *Fp { *z = Fp{}; return z }

func (z *Fp) SetOne() *Fp { *z = fpRMont; return z }

func (z *Fp) Set(x *Fp) *Fp { *z = *x; return z }

func (z *Fp) SetUint64(v uint64) *Fp {
	*z = Fp{v}
	bigint.MontMul(z[:], z[:], fpR2[:], fpMod[:], fpN0)
	return z
}

func (z *Fp) SetBig(v *big.Int) *Fp {
	var t big.Int
	t.Mod(v, fpModulus)
	bigToLimbs(&t, z[:])
	bigint.MontMul(z[:], z[:], fpR2[:], fpMod[:], fpN0)
	return z
}

func (z *Fp) BigInt() *big.Int {
	var t Fp
	one := [Limbs]uint64{1}
	bigint.MontMul(t[:], z[:], one[:], fpMod[:], fpN0)
	return limbsToBig(t[:])
}

// SetBytes parses a 32-byte big-endian canonical encoding.
func (z *Fp) SetBytes(b []byte) error {
	if len(b) != FpBytes {
		return errNonCanonical
	}
	var t Fp
	bigint.SetBytesBE(t[:], b)
	if bigint.Lt(t[:], fpMod[:]) == 0 {
		return errNonCanonical
	}
	bigint.MontMul(z[:], t[:], fpR2[:], fpMod[:], fpN0)
	return nil
}

// Bytes returns the canonical 32-byte big-endian encoding.
func (z *Fp) Bytes() [FpBytes]byte {
	var t Fp
	one := [Limbs]uint64{1}
	bigint.MontMul(t[:], z[:], one[:], fpMod[:], fpN0)
	var out [FpBytes]byte
	bigint.BytesBE(out[:], t[:])
	return out
}

func (z *Fp) Add(x, y *Fp) *Fp { bigint.ModAdd(z[:], x[:], y[:], fpMod[:]); return z }
func (z *Fp) Sub(x, y *Fp) *Fp { bigint.ModSub(z[:], x[:], y[:], fpMod[:]); return z }
func (z *Fp) Double(x *Fp) *Fp { return z.Add(x, x) }
func (z *Fp) Neg(x *Fp) *Fp    { bigint.ModNeg(z[:], x[:], fpMod[:]); return z }
func (z *Fp) Halve(x *Fp) *Fp  { bigint.ModHalve(z[:], x[:], fpMod[:]); return z }

func (z *Fp) Mul(x, y *Fp) *Fp {
	bigint.MontMul(z[:], x[:], y[:], fpMod[:], fpN0)
	return z
}

func (z *Fp) Square(x *Fp) *Fp {
	bigint.MontMul(z[:], x[:], x[:], fpMod[:], fpN0)
	return z
}

func (z *Fp) Exp(x *Fp, e *big.Int) *Fp {
	var res, base Fp
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
func (z *Fp) Inverse(x *Fp) *Fp { return z.Exp(x, fpInvExp) }

func (x *Fp) IsSquare() bool {
	if x.IsZero() {
		return true
	}
	var t Fp
	t.Exp(x, fpQNRExp)
	return t.IsOne()
}

// Sqrt uses p = 3 mod 4 with a confirming square.
func (z *Fp) Sqrt(x *Fp) bool {
	var cand, check Fp
	cand.Exp(x, fpSqrtExp)
	check.Square(&cand)
	if !check.Equal(x) {
		return false
	}
	z.Set(&cand)
	return true
}

func (z *Fp) IsZero() bool     { return bigint.IsZero(z[:]) == 1 }
func (z *Fp) IsOne() bool      { return bigint.Eq(z[:], fpRMont[:]) == 1 }
func (z *Fp) Equal(x *Fp) bool { return bigint.Eq(z[:], x[:]) == 1 }

func (z *Fp) Select(ctl uint64, a, b *Fp) *Fp {
	*z = *b
	bigint.Ccopy(z[:], a[:], ctl)
	return z
}

func (z *Fp) Sgn0() uint64 {
	var t Fp
	one := [Limbs]uint64{1}
	bigint.MontMul(t[:], z[:], one[:], fpMod[:], fpN0)
	return t[0] & 1
}

func (z *Fp) String() string { return z.BigInt().Text(10) }

// fpBatchInvert mirrors the shared Montgomery-trick batch inversion.
func fpBatchInvert(v []Fp) {
	n := len(v)
	if n == 0 {
		return
	}
	prods := make([]Fp, n)
	var acc Fp
	acc.SetOne()
	for i := 0; i < n; i++ {
		prods[i].Set(&acc)
		if !v[i].IsZero() {
			acc.Mul(&acc, &v[i])
		}
	}
	var inv Fp
	inv.Inverse(&acc)
	for i := n - 1; i >= 0; i-- {
		if v[i].IsZero() {
			continue
		}
		var t Fp
		t.Mul(&inv, &prods[i])
		inv.Mul(&inv, &v[i])
		v[i].Set(&t)
	}
}

// --- Fr ---

func (z *Fr) SetZero() *Fr { *z = Fr{}; return z }

func (z *Fr) SetOne() *Fr { *z = frRMont; return z }

func (z *Fr) Set(x *Fr) *Fr { *z = *x; return z }

func (z *Fr) SetUint64(v uint64) *Fr {
	*z = Fr{v}
	bigint.MontMul(z[:], z[:], frR2[:], frMod[:], frN0)
	return z
}

func (z *Fr) SetBig(v *big.Int) *Fr {
	var t big.Int
	t.Mod(v, frModulus)
	bigToLimbs(&t, z[:])
	bigint.MontMul(z[:], z[:], frR2[:], frMod[:], frN0)
	return z
}

func (z *Fr) BigInt() *big.Int {
	t := z.Regular()
	return limbsToBig(t[:])
}

// Regular returns canonical limbs for scalar recoding.
func (z *Fr) Regular() [Limbs]uint64 {
	var t Fr
	one := [Limbs]uint64{1}
	bigint.MontMul(t[:], z[:], one[:], frMod[:], frN0)
	return t
}

func (z *Fr) SetBytes(b []byte) error {
	if len(b) != FrBytes {
		return errNonCanonical
	}
	var t Fr
	bigint.SetBytesBE(t[:], b)
	if bigint.Lt(t[:], frMod[:]) == 0 {
		return errNonCanonical
	}
	bigint.MontMul(z[:], t[:], frR2[:], frMod[:], frN0)
	return nil
}

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

func (z *Fr) Inverse(x *Fr) *Fr { return z.Exp(x, frInvExp) }

func (z *Fr) IsZero() bool     { return bigint.IsZero(z[:]) == 1 }
func (z *Fr) IsOne() bool      { return bigint.Eq(z[:], frRMont[:]) == 1 }
func (z *Fr) Equal(x *Fr) bool { return bigint.Eq(z[:], x[:]) == 1 }

func (z *Fr) String() string { return z.BigInt().Text(10) }
