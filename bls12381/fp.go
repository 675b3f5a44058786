package bls12381

// BLS12-381 base field arithmetic.
//
// Fp is the prime field with modulus
//   p = 0x1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab
//
// Elements are stored in Montgomery form a*R mod p with R = 2^384 across
// six 64-bit limbs, little-endian limb order. Every stored value is fully
// reduced. All operations are constant-time unless marked otherwise; the
// derived Montgomery parameters are computed once at package
// initialization from the modulus.

import (
	"errors"
	"math/big"

	"github.com/eth2030/pairing/bigint"
)

// FpLimbs is the limb count of an Fp element.
const FpLimbs = 6

// FpBytes is the canonical encoded size of an Fp element.
const FpBytes = 48

// Fp is a base-field element in Montgomery form.
type Fp [FpLimbs]uint64

var (
	fpModulus  = mustBig("1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab")
	fpMod      [FpLimbs]uint64 // modulus limbs
	fpN0       uint64          // -p^-1 mod 2^64
	fpR2       Fp              // R^2 mod p, for encoding
	fpRMont    Fp              // R mod p = montgomery(1)
	fpInvExp   *big.Int        // p - 2
	fpSqrtExp  *big.Int        // (p + 1) / 4, valid since p = 3 mod 4
	fpQNRExp   *big.Int        // (p - 1) / 2, Euler criterion
	fpHalfP    *big.Int        // (p - 1) / 2, sign threshold
	fpInv3Mont Fp              // 3^-1, used by Toom interpolation
)

var errNonCanonical = errors.New("bls12381: encoding not canonical")

func mustBig(hex string) *big.Int {
	v, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		panic("bls12381: bad constant " + hex)
	}
	return v
}

// bigToLimbs writes v (0 <= v < 2^(64n)) into a little-endian limb slice.
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

// montN0 returns -m^-1 mod 2^64 for odd m.
func montN0(m *big.Int) uint64 {
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	inv := new(big.Int).ModInverse(new(big.Int).Mod(m, two64), two64)
	inv.Neg(inv).Mod(inv, two64)
	return inv.Uint64()
}

func init() {
	bigToLimbs(fpModulus, fpMod[:])
	fpN0 = montN0(fpModulus)

	r := new(big.Int).Lsh(big.NewInt(1), 64*FpLimbs)
	r.Mod(r, fpModulus)
	bigToLimbs(r, fpRMont[:])

	r2 := new(big.Int).Lsh(big.NewInt(1), 2*64*FpLimbs)
	r2.Mod(r2, fpModulus)
	bigToLimbs(r2, fpR2[:])

	fpInvExp = new(big.Int).Sub(fpModulus, big.NewInt(2))
	fpSqrtExp = new(big.Int).Add(fpModulus, big.NewInt(1))
	fpSqrtExp.Rsh(fpSqrtExp, 2)
	fpQNRExp = new(big.Int).Rsh(fpModulus, 1)
	fpHalfP = new(big.Int).Rsh(fpModulus, 1)

	var three Fp
	three.SetUint64(3)
	fpInv3Mont.Inverse(&three)
}

// SetZero sets z to 0 and returns z.
func (z *Fp) SetZero() *Fp {
	*z = Fp{}
	return z
}

// SetOne sets z to the multiplicative identity and returns z.
func (z *Fp) SetOne() *Fp {
	*z = fpRMont
	return z
}

// Set copies x into z and returns z.
func (z *Fp) Set(x *Fp) *Fp {
	*z = *x
	return z
}

// SetUint64 sets z to the small integer v.
func (z *Fp) SetUint64(v uint64) *Fp {
	*z = Fp{v}
	bigint.MontMul(z[:], z[:], fpR2[:], fpMod[:], fpN0)
	return z
}

// SetBig sets z to v mod p.
func (z *Fp) SetBig(v *big.Int) *Fp {
	var t big.Int
	t.Mod(v, fpModulus)
	bigToLimbs(&t, z[:])
	bigint.MontMul(z[:], z[:], fpR2[:], fpMod[:], fpN0)
	return z
}

// BigInt returns z as a canonical integer in [0, p).
func (z *Fp) BigInt() *big.Int {
	var t Fp
	one := [FpLimbs]uint64{1}
	bigint.MontMul(t[:], z[:], one[:], fpMod[:], fpN0)
	return limbsToBig(t[:])
}

// SetBytes parses a 48-byte big-endian canonical encoding. It rejects
// values >= p.
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

// Bytes returns the canonical 48-byte big-endian encoding.
func (z *Fp) Bytes() [FpBytes]byte {
	var t Fp
	one := [FpLimbs]uint64{1}
	bigint.MontMul(t[:], z[:], one[:], fpMod[:], fpN0)
	var out [FpBytes]byte
	bigint.BytesBE(out[:], t[:])
	return out
}

// Add sets z = x + y.
func (z *Fp) Add(x, y *Fp) *Fp {
	bigint.ModAdd(z[:], x[:], y[:], fpMod[:])
	return z
}

// Sub sets z = x - y.
func (z *Fp) Sub(x, y *Fp) *Fp {
	bigint.ModSub(z[:], x[:], y[:], fpMod[:])
	return z
}

// Double sets z = 2x.
func (z *Fp) Double(x *Fp) *Fp {
	return z.Add(x, x)
}

// Neg sets z = -x, with -0 = 0.
func (z *Fp) Neg(x *Fp) *Fp {
	bigint.ModNeg(z[:], x[:], fpMod[:])
	return z
}

// Halve sets z = x / 2.
func (z *Fp) Halve(x *Fp) *Fp {
	bigint.ModHalve(z[:], x[:], fpMod[:])
	return z
}

// Mul sets z = x * y.
func (z *Fp) Mul(x, y *Fp) *Fp {
	bigint.MontMul(z[:], x[:], y[:], fpMod[:], fpN0)
	return z
}

// Square sets z = x^2.
func (z *Fp) Square(x *Fp) *Fp {
	bigint.MontMul(z[:], x[:], x[:], fpMod[:], fpN0)
	return z
}

// MulUint64 sets z = x * v for a small public constant v.
func (z *Fp) MulUint64(x *Fp, v uint64) *Fp {
	var t Fp
	t.SetUint64(v)
	return z.Mul(x, &t)
}

// Exp sets z = x^e for a public exponent e >= 0. The exponent bits drive
// branching, so e must not be secret; the base may be.
func (z *Fp) Exp(x *Fp, e *big.Int) *Fp {
	var res Fp
	res.SetOne()
	var base Fp
	base.Set(x)
	for i := e.BitLen() - 1; i >= 0; i-- {
		res.Square(&res)
		if e.Bit(i) == 1 {
			res.Mul(&res, &base)
		}
	}
	return z.Set(&res)
}

// Inverse sets z = x^-1 using Fermat's little theorem, with the
// convention inverse(0) = 0.
func (z *Fp) Inverse(x *Fp) *Fp {
	return z.Exp(x, fpInvExp)
}

// IsSquare reports whether x is a quadratic residue (0 counts as one).
func (x *Fp) IsSquare() bool {
	if x.IsZero() {
		return true
	}
	var t Fp
	t.Exp(x, fpQNRExp)
	return t.IsOne()
}

// Sqrt sets z to a square root of x and returns true, or returns false
// leaving z unspecified when x is not a square. Since p = 3 mod 4 the
// root is x^((p+1)/4); a final multiplication confirms it.
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

// IsZero reports whether z is 0.
func (z *Fp) IsZero() bool {
	return bigint.IsZero(z[:]) == 1
}

// IsOne reports whether z is 1.
func (z *Fp) IsOne() bool {
	return bigint.Eq(z[:], fpRMont[:]) == 1
}

// Equal reports whether z == x.
func (z *Fp) Equal(x *Fp) bool {
	return bigint.Eq(z[:], x[:]) == 1
}

// Select sets z = a when ctl is 1 and z = b when ctl is 0, in constant
// time.
func (z *Fp) Select(ctl uint64, a, b *Fp) *Fp {
	*z = *b
	bigint.Ccopy(z[:], a[:], ctl)
	return z
}

// Ccopy copies x into z when ctl is 1, in constant time.
func (z *Fp) Ccopy(x *Fp, ctl uint64) *Fp {
	bigint.Ccopy(z[:], x[:], ctl)
	return z
}

// Cswap exchanges z and x when ctl is 1, in constant time.
func (z *Fp) Cswap(x *Fp, ctl uint64) {
	bigint.Cswap(z[:], x[:], ctl)
}

// Sgn0 returns the parity of the canonical representative, the RFC 9380
// sign function for prime fields.
func (z *Fp) Sgn0() uint64 {
	var t Fp
	one := [FpLimbs]uint64{1}
	bigint.MontMul(t[:], z[:], one[:], fpMod[:], fpN0)
	return t[0] & 1
}

// LexicographicallyLargest reports whether the canonical representative
// exceeds (p-1)/2, the tie-break used by compressed encodings.
func (z *Fp) LexicographicallyLargest() bool {
	return z.BigInt().Cmp(fpHalfP) > 0
}

// String returns the canonical value in hexadecimal.
func (z *Fp) String() string {
	return z.BigInt().Text(16)
}

// fpBatchInvert inverts every nonzero element of v in place using
// Montgomery's trick: one field inversion plus 3n multiplications.
// Zero entries stay zero.
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
