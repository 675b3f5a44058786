// Package banderwagon implements the prime-order quotient group of the
// Bandersnatch curve used by Ethereum Verkle commitments (EIP-6800).
//
// Bandersnatch is a twisted Edwards curve -5x^2 + y^2 = 1 + d x^2 y^2
// over the BLS12-381 scalar field; Banderwagon is its order-n quotient
// (cofactor 4, with (x, y) ~ (-x, -y)). Points are held in extended
// coordinates (X, Y, T, Z) with x = X/Z, y = Y/Z, T = XY/Z, where the
// Hisil et al. unified addition has no exceptional cases.
package banderwagon

import (
	"errors"
	"math/big"

	"github.com/eth2030/pairing/bigint"
	"github.com/eth2030/pairing/bls12381"
)

// Fp is the coordinate field: the BLS12-381 scalar field.
type Fp = bls12381.Fr

// FpBytes is the encoded coordinate size.
const FpBytes = 32

// Point is a Banderwagon group element in extended twisted Edwards
// coordinates.
type Point struct {
	X, Y, T, Z Fp
}

var (
	// edwardsD is the Bandersnatch twisted Edwards d parameter;
	// a is -5.
	edwardsD    Fp
	edwardsA    Fp
	genX, genY  Fp
	errNotCurve = errors.New("banderwagon: point not on curve")
	errNotGroup = errors.New("banderwagon: point not in quotient group")
	errEncoding = errors.New("banderwagon: malformed encoding")
)

func mustBig(hex string) *big.Int {
	v, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		panic("banderwagon: bad constant " + hex)
	}
	return v
}

func init() {
	edwardsD.SetBig(mustBig("6389c12633c267cbc66e3bf86be3b6d8cb66677177e54f92b369f2f5188d58e7"))
	var five Fp
	five.SetUint64(5)
	edwardsA.Neg(&five)
	genX.SetBig(mustBig("29c132cc2c0b34c5743711777bbe42f32b79c022ad998465e1e71866a252ae18"))
	genY.SetBig(mustBig("2a6c669eda123e0f157d8b50badcd586358cad81eee464605e3167b6cc974166"))
}

// Identity returns the neutral element (0, 1).
func Identity() Point {
	var p Point
	p.Y.SetOne()
	p.Z.SetOne()
	return p
}

// Generator returns the standard subgroup generator.
func Generator() Point {
	var p Point
	p.X.Set(&genX)
	p.Y.Set(&genY)
	p.T.Mul(&genX, &genY)
	p.Z.SetOne()
	return p
}

// IsIdentity reports whether p is the neutral element (in the quotient
// group, (0, y) with y = ±z).
func (p *Point) IsIdentity() bool {
	return p.X.IsZero()
}

// Set copies q into p.
func (p *Point) Set(q *Point) *Point {
	p.X.Set(&q.X)
	p.Y.Set(&q.Y)
	p.T.Set(&q.T)
	p.Z.Set(&q.Z)
	return p
}

// FromAffine builds a point from affine coordinates, validating curve
// and quotient-group membership (1 - a x^2 must be a square).
func FromAffine(x, y *Fp) (Point, error) {
	var p Point
	if !isOnCurve(x, y) {
		return p, errNotCurve
	}
	if !legalSubgroup(x) {
		return p, errNotGroup
	}
	p.X.Set(x)
	p.Y.Set(y)
	p.T.Mul(x, y)
	p.Z.SetOne()
	return p, nil
}

// ToAffine normalizes with one inversion.
func (p *Point) ToAffine() (x, y Fp) {
	var zInv Fp
	zInv.Inverse(&p.Z)
	x.Mul(&p.X, &zInv)
	y.Mul(&p.Y, &zInv)
	return
}

func isOnCurve(x, y *Fp) bool {
	var x2, y2, lhs, rhs Fp
	x2.Square(x)
	y2.Square(y)
	lhs.Mul(&edwardsA, &x2)
	lhs.Add(&lhs, &y2)
	rhs.Mul(&edwardsD, &x2)
	rhs.Mul(&rhs, &y2)
	var one Fp
	one.SetOne()
	rhs.Add(&rhs, &one)
	return lhs.Equal(&rhs)
}

// legalSubgroup checks 1 - a*x^2 is a quadratic residue, which holds
// exactly on the image of the quotient map.
func legalSubgroup(x *Fp) bool {
	var t Fp
	t.Square(x)
	t.Mul(&t, &edwardsA)
	var one Fp
	one.SetOne()
	t.Sub(&one, &t)
	return t.IsSquare()
}

// Add sets p = a + b with the unified extended-coordinate formulas;
// complete on the odd-order subgroup.
func (p *Point) Add(a, b *Point) *Point {
	var A, B, C, D, E, F, G, H Fp
	A.Mul(&a.X, &b.X)
	B.Mul(&a.Y, &b.Y)
	C.Mul(&a.T, &edwardsD)
	C.Mul(&C, &b.T)
	D.Mul(&a.Z, &b.Z)

	E.Add(&a.X, &a.Y)
	var t Fp
	t.Add(&b.X, &b.Y)
	E.Mul(&E, &t)
	E.Sub(&E, &A)
	E.Sub(&E, &B)

	F.Sub(&D, &C)
	G.Add(&D, &C)
	H.Mul(&edwardsA, &A)
	H.Sub(&B, &H)

	p.X.Mul(&E, &F)
	p.Y.Mul(&G, &H)
	p.T.Mul(&E, &H)
	p.Z.Mul(&F, &G)
	return p
}

// Double sets p = 2q with the dedicated doubling formulas.
func (p *Point) Double(q *Point) *Point {
	var A, B, C, D, E, F, G, H Fp
	A.Square(&q.X)
	B.Square(&q.Y)
	C.Square(&q.Z)
	C.Double(&C)
	D.Mul(&edwardsA, &A)
	E.Add(&q.X, &q.Y)
	E.Square(&E)
	E.Sub(&E, &A)
	E.Sub(&E, &B)
	G.Add(&D, &B)
	F.Sub(&G, &C)
	H.Sub(&D, &B)

	p.X.Mul(&E, &F)
	p.Y.Mul(&G, &H)
	p.T.Mul(&E, &H)
	p.Z.Mul(&F, &G)
	return p
}

// Neg sets p = -q.
func (p *Point) Neg(q *Point) *Point {
	p.X.Neg(&q.X)
	p.Y.Set(&q.Y)
	p.T.Neg(&q.T)
	p.Z.Set(&q.Z)
	return p
}

// Select sets p = a when ctl is 1, p = b otherwise, in constant time.
func (p *Point) Select(ctl uint64, a, b *Point) *Point {
	p.X.Select(ctl, &a.X, &b.X)
	p.Y.Select(ctl, &a.Y, &b.Y)
	p.T.Select(ctl, &a.T, &b.T)
	p.Z.Select(ctl, &a.Z, &b.Z)
	return p
}

// Equal compares group elements in the quotient: (x, y) ~ (-x, -y),
// which reduces to X1*Y2 == X2*Y1 (and identity agreement).
func (p *Point) Equal(q *Point) bool {
	var a, b Fp
	a.Mul(&p.X, &q.Y)
	b.Mul(&q.X, &p.Y)
	if !a.Equal(&b) {
		return false
	}
	return p.IsIdentity() == q.IsIdentity()
}

// ScalarMul sets p = [k]q in constant time: fixed 4-bit windows with a
// masked table walk over the unified addition law.
func (p *Point) ScalarMul(q *Point, k *Fr) *Point {
	var table [16]Point
	table[0] = Identity()
	table[1].Set(q)
	for i := 2; i < 16; i++ {
		if i%2 == 0 {
			table[i].Double(&table[i/2])
		} else {
			table[i].Add(&table[i-1], q)
		}
	}
	scalar := k.Regular()
	acc := Identity()
	for pos := 256 - 4; pos >= 0; pos -= 4 {
		if pos != 256-4 {
			acc.Double(&acc)
			acc.Double(&acc)
			acc.Double(&acc)
			acc.Double(&acc)
		}
		w := scalar[pos/64] >> (uint(pos) % 64) & 0xf
		sel := Identity()
		for j := uint64(0); j < 16; j++ {
			x := w ^ j
			ctl := 1 ^ ((x | -x) >> 63)
			sel.Select(ctl, &table[j], &sel)
		}
		acc.Add(&acc, &sel)
	}
	return p.Set(&acc)
}

// ScalarMulVartime sets p = [k]q by wNAF for public scalars.
func (p *Point) ScalarMulVartime(q *Point, k *Fr) *Point {
	naf := wnafBig(k.BigInt(), 5)
	var table [8]Point
	table[0].Set(q)
	var twoQ Point
	twoQ.Double(q)
	for i := 1; i < 8; i++ {
		table[i].Add(&table[i-1], &twoQ)
	}
	acc := Identity()
	for i := len(naf) - 1; i >= 0; i-- {
		acc.Double(&acc)
		if d := naf[i]; d != 0 {
			if d > 0 {
				acc.Add(&acc, &table[(d-1)/2])
			} else {
				var neg Point
				neg.Neg(&table[(-d-1)/2])
				acc.Add(&acc, &neg)
			}
		}
	}
	return p.Set(&acc)
}

func wnafBig(e *big.Int, w uint) []int8 {
	var k big.Int
	k.Abs(e)
	out := make([]int8, 0, k.BitLen()+1)
	mod := int64(1) << w
	for k.Sign() > 0 {
		var d int64
		if k.Bit(0) == 1 {
			d = int64(k.Uint64()) & (mod - 1)
			if d >= mod/2 {
				d -= mod
			}
			var t big.Int
			t.SetInt64(d)
			k.Sub(&k, &t)
		}
		out = append(out, int8(d))
		k.Rsh(&k, 1)
	}
	if e.Sign() < 0 {
		for i := range out {
			out[i] = -out[i]
		}
	}
	return out
}

// MSM computes sum k_i * P_i with Pippenger buckets over extended
// points; variable-time.
func MSM(points []Point, scalars []Fr) (Point, error) {
	out := Identity()
	if len(points) != len(scalars) {
		return out, errors.New("banderwagon: mismatched MSM input lengths")
	}
	n := len(points)
	if n == 0 {
		return out, nil
	}
	if n < 4 {
		for i := range points {
			var t Point
			t.ScalarMulVartime(&points[i], &scalars[i])
			out.Add(&out, &t)
		}
		return out, nil
	}

	c := 4
	if n >= 64 {
		c = 8
	}
	nWindows := (256+c-1)/c + 1
	digits := make([][]int32, n)
	for i := range scalars {
		digits[i] = signedDigits(&scalars[i], c, nWindows)
	}

	buckets := make([]Point, 1<<(c-1))
	for w := nWindows - 1; w >= 0; w-- {
		for i := 0; i < c; i++ {
			out.Double(&out)
		}
		for i := range buckets {
			buckets[i] = Identity()
		}
		for i := range points {
			d := digits[i][w]
			if d == 0 {
				continue
			}
			if d > 0 {
				buckets[d-1].Add(&buckets[d-1], &points[i])
			} else {
				var neg Point
				neg.Neg(&points[i])
				buckets[-d-1].Add(&buckets[-d-1], &neg)
			}
		}
		running := Identity()
		sum := Identity()
		for i := len(buckets) - 1; i >= 0; i-- {
			running.Add(&running, &buckets[i])
			sum.Add(&sum, &running)
		}
		out.Add(&out, &sum)
	}
	return out, nil
}

func signedDigits(k *Fr, c, nWindows int) []int32 {
	reg := k.Regular()
	out := make([]int32, nWindows)
	carry := int64(0)
	half := int64(1) << (c - 1)
	full := int64(1) << c
	for w := 0; w < nWindows; w++ {
		pos := w * c
		var raw uint64
		if pos < 256 {
			i := pos / 64
			sh := uint(pos) % 64
			raw = reg[i] >> sh
			if sh+uint(c) > 64 && i+1 < 4 {
				raw |= reg[i+1] << (64 - sh)
			}
			raw &= 1<<uint(c) - 1
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

// Serialize encodes a point in 32 bytes: the affine y coordinate in
// little-endian with the sign of x in the top bit, after normalizing to
// the representative whose y lies in the lower half of the field.
func (p *Point) Serialize() [32]byte {
	var out [32]byte
	if p.IsIdentity() {
		out[0] = 1 // y = 1, x sign clear
		return out
	}
	x, y := p.ToAffine()
	if lexLarger(&y) {
		x.Neg(&x)
		y.Neg(&y)
	}
	yb := y.Bytes()
	for i := 0; i < 32; i++ {
		out[i] = yb[31-i]
	}
	if lexLarger(&x) {
		out[31] |= 0x80
	}
	return out
}

// lexLarger reports whether the canonical value exceeds (r-1)/2.
func lexLarger(v *Fp) bool {
	reg := v.Regular()
	var dbl [4]uint64
	c := bigint.Add(dbl[:], reg[:], reg[:])
	// v > (r-1)/2  <=>  2v overflows or 2v >= r.
	if c == 1 {
		return true
	}
	var mod [4]uint64
	bigToLimbsFr(&mod)
	var tmp [4]uint64
	b := bigint.Sub(tmp[:], dbl[:], mod[:])
	return b == 0
}

func bigToLimbsFr(z *[4]uint64) {
	m := bls12381.FrModulus()
	var t big.Int
	t.Set(m)
	for i := 0; i < 4; i++ {
		z[i] = t.Uint64()
		t.Rsh(&t, 64)
	}
}

// Deserialize decodes a 32-byte encoding, recovering x from the curve
// equation and validating quotient-group membership.
func Deserialize(data [32]byte) (Point, error) {
	signBit := data[31]&0x80 != 0
	data[31] &= 0x7f

	var be [32]byte
	for i := 0; i < 32; i++ {
		be[31-i] = data[i]
	}
	var y Fp
	if err := y.SetBytes(be[:]); err != nil {
		return Point{}, errEncoding
	}
	if lexLarger(&y) {
		return Point{}, errEncoding
	}

	// x^2 = (y^2 - 1) / (d y^2 - a).
	var y2, num, den, x2, x Fp
	y2.Square(&y)
	var one Fp
	one.SetOne()
	num.Sub(&y2, &one)
	den.Mul(&edwardsD, &y2)
	den.Sub(&den, &edwardsA)
	den.Inverse(&den)
	x2.Mul(&num, &den)
	if !x.Sqrt(&x2) {
		return Point{}, errEncoding
	}
	if lexLarger(&x) != signBit {
		x.Neg(&x)
	}
	return FromAffine(&x, &y)
}

// MapToField maps a point to a coordinate-field element as X/Y, the
// Verkle commitment hash. Well-defined on the quotient since
// (-x)/(-y) = x/y.
func (p *Point) MapToField() Fp {
	var out Fp
	if p.IsIdentity() {
		return out
	}
	x, y := p.ToAffine()
	y.Inverse(&y)
	out.Mul(&x, &y)
	return out
}

// MapToBytes is MapToField serialized big-endian, the 32-byte
// commitment digest form.
func (p *Point) MapToBytes() [32]byte {
	f := p.MapToField()
	return f.Bytes()
}
