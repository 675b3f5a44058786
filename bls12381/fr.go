package bls12381

// BLS12-381 scalar field arithmetic.
//
// Fr is the prime field of the G1/G2/Gt group order
//   r = 0x73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001
//
// stored in Montgomery form across four 64-bit limbs. r - 1 carries a
// 2^32 factor, so square roots use Tonelli-Shanks with constants derived
// at initialization (2-adicity 32, smallest quadratic non-residue).

import (
	"math/big"

	"github.com/eth2030/pairing/bigint"
)

// FrLimbs is the limb count of an Fr element.
const FrLimbs = 4

// FrBytes is the canonical encoded size of an Fr element.
const FrBytes = 32

// Fr is a scalar-field element in Montgomery form.
type Fr [FrLimbs]uint64

var (
	frModulus = mustBig("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001")
	frMod     [FrLimbs]uint64
	frN0      uint64
	frR2      Fr
	frRMont   Fr
	frInvExp  *big.Int

	// Tonelli-Shanks data: r - 1 = q * 2^s with q odd.
	frSqrtS     uint
	frSqrtQ     *big.Int // q
	frSqrtQHalf *big.Int // (q - 1) / 2
	frSqrtZ     Fr       // g^q for a non-residue g
)

func init() {
	bigToLimbs(frModulus, frMod[:])
	frN0 = montN0(frModulus)

	r := new(big.Int).Lsh(big.NewInt(1), 64*FrLimbs)
	r.Mod(r, frModulus)
	bigToLimbs(r, frRMont[:])

	r2 := new(big.Int).Lsh(big.NewInt(1), 2*64*FrLimbs)
	r2.Mod(r2, frModulus)
	bigToLimbs(r2, frR2[:])

	frInvExp = new(big.Int).Sub(frModulus, big.NewInt(2))

	q := new(big.Int).Sub(frModulus, big.NewInt(1))
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		frSqrtS++
	}
	frSqrtQ = q
	frSqrtQHalf = new(big.Int).Rsh(q, 1)

	// Find a quadratic non-residue by Euler's criterion and raise it
	// to q; 7 generates Fr* but the search keeps this self-contained.
	euler := new(big.Int).Rsh(frModulus, 1)
	for g := int64(2); ; g++ {
		gb := big.NewInt(g)
		if new(big.Int).Exp(gb, euler, frModulus).Cmp(big.NewInt(1)) != 0 {
			var z Fr
			z.SetBig(gb)
			frSqrtZ.Exp(&z, frSqrtQ)
			break
		}
	}
}

// FrModulus returns a copy of the scalar-field modulus r.
func FrModulus() *big.Int {
	return new(big.Int).Set(frModulus)
}

// SetZero sets z to 0.
func (z *Fr) SetZero() *Fr {
	*z = Fr{}
	return z
}

// SetOne sets z to 1.
func (z *Fr) SetOne() *Fr {
	*z = frRMont
	return z
}

// Set copies x into z.
func (z *Fr) Set(x *Fr) *Fr {
	*z = *x
	return z
}

// SetUint64 sets z to the small integer v.
func (z *Fr) SetUint64(v uint64) *Fr {
	*z = Fr{v}
	bigint.MontMul(z[:], z[:], frR2[:], frMod[:], frN0)
	return z
}

// SetBig sets z to v mod r.
func (z *Fr) SetBig(v *big.Int) *Fr {
	var t big.Int
	t.Mod(v, frModulus)
	bigToLimbs(&t, z[:])
	bigint.MontMul(z[:], z[:], frR2[:], frMod[:], frN0)
	return z
}

// BigInt returns z as a canonical integer in [0, r).
func (z *Fr) BigInt() *big.Int {
	t := z.Regular()
	return limbsToBig(t[:])
}

// Regular returns the canonical (non-Montgomery) limbs of z, used by
// scalar recoding.
func (z *Fr) Regular() [FrLimbs]uint64 {
	var t Fr
	one := [FrLimbs]uint64{1}
	bigint.MontMul(t[:], z[:], one[:], frMod[:], frN0)
	return t
}

// SetBytes parses a canonical 32-byte big-endian encoding, rejecting
// values >= r.
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

// SetBytesWide reduces an arbitrary-length big-endian byte string mod r.
// Used for hash outputs and transcript challenges; not constant-time.
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

// Add sets z = x + y.
func (z *Fr) Add(x, y *Fr) *Fr {
	bigint.ModAdd(z[:], x[:], y[:], frMod[:])
	return z
}

// Sub sets z = x - y.
func (z *Fr) Sub(x, y *Fr) *Fr {
	bigint.ModSub(z[:], x[:], y[:], frMod[:])
	return z
}

// Double sets z = 2x.
func (z *Fr) Double(x *Fr) *Fr {
	return z.Add(x, x)
}

// Neg sets z = -x, with -0 = 0.
func (z *Fr) Neg(x *Fr) *Fr {
	bigint.ModNeg(z[:], x[:], frMod[:])
	return z
}

// Halve sets z = x / 2.
func (z *Fr) Halve(x *Fr) *Fr {
	bigint.ModHalve(z[:], x[:], frMod[:])
	return z
}

// Mul sets z = x * y.
func (z *Fr) Mul(x, y *Fr) *Fr {
	bigint.MontMul(z[:], x[:], y[:], frMod[:], frN0)
	return z
}

// Square sets z = x^2.
func (z *Fr) Square(x *Fr) *Fr {
	bigint.MontMul(z[:], x[:], x[:], frMod[:], frN0)
	return z
}

// Exp sets z = x^e for a public exponent e >= 0.
func (z *Fr) Exp(x *Fr, e *big.Int) *Fr {
	var res Fr
	res.SetOne()
	var base Fr
	base.Set(x)
	for i := e.BitLen() - 1; i >= 0; i-- {
		res.Square(&res)
		if e.Bit(i) == 1 {
			res.Mul(&res, &base)
		}
	}
	return z.Set(&res)
}

// Inverse sets z = x^-1, with inverse(0) = 0.
func (z *Fr) Inverse(x *Fr) *Fr {
	return z.Exp(x, frInvExp)
}

// IsSquare reports whether x is a quadratic residue (0 counts as one).
func (x *Fr) IsSquare() bool {
	if x.IsZero() {
		return true
	}
	var t Fr
	t.Exp(x, new(big.Int).Rsh(frModulus, 1))
	return t.IsOne()
}

// Sqrt sets z to a square root of x and returns true, or returns false
// when x is not a square. Tonelli-Shanks; the iteration count depends on
// the input, so this is for public values (deserialization).
func (z *Fr) Sqrt(x *Fr) bool {
	if x.IsZero() {
		z.SetZero()
		return true
	}
	var t, res, c, b Fr
	t.Exp(x, frSqrtQHalf) // x^((q-1)/2)
	res.Mul(&t, x)        // x^((q+1)/2)
	t.Mul(&t, &res)       // x^q
	c.Set(&frSqrtZ)
	m := frSqrtS
	for !t.IsOne() {
		var i uint
		var t2 Fr
		t2.Set(&t)
		for !t2.IsOne() {
			t2.Square(&t2)
			i++
			if i == m {
				return false
			}
		}
		b.Set(&c)
		for j := uint(0); j < m-i-1; j++ {
			b.Square(&b)
		}
		res.Mul(&res, &b)
		c.Square(&b)
		t.Mul(&t, &c)
		m = i
	}
	z.Set(&res)
	return true
}

// IsZero reports whether z is 0.
func (z *Fr) IsZero() bool {
	return bigint.IsZero(z[:]) == 1
}

// IsOne reports whether z is 1.
func (z *Fr) IsOne() bool {
	return bigint.Eq(z[:], frRMont[:]) == 1
}

// Equal reports whether z == x.
func (z *Fr) Equal(x *Fr) bool {
	return bigint.Eq(z[:], x[:]) == 1
}

// Select sets z = a when ctl is 1 and z = b when ctl is 0.
func (z *Fr) Select(ctl uint64, a, b *Fr) *Fr {
	*z = *b
	bigint.Ccopy(z[:], a[:], ctl)
	return z
}

// Ccopy copies x into z when ctl is 1.
func (z *Fr) Ccopy(x *Fr, ctl uint64) *Fr {
	bigint.Ccopy(z[:], x[:], ctl)
	return z
}

// String returns the canonical value in decimal.
func (z *Fr) String() string {
	return z.BigInt().Text(10)
}

// FrBatchInvert inverts every nonzero element of v in place with one
// inversion and 3n multiplications; zero entries stay zero.
func FrBatchInvert(v []Fr) {
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
