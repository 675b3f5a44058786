// Package curve enumerates the named curves this library knows and
// their defining constants: field moduli, curve coefficients, twist
// data, endomorphism eigenvalues, cofactors and pairing seeds. The
// table is data, not arithmetic - the bls12381, bn254 and banderwagon
// packages carry the implementations, and the remaining entries
// document parameters for the descriptor-driven tooling.
package curve

import "math/big"

// ID names a supported curve.
type ID int

// The enumerated curves.
const (
	Unknown ID = iota
	BN254Snarks
	BN254Nogami
	BLS12377
	BLS12381
	BW6761
	Pallas
	Vesta
	Banderwagon
)

// String returns the canonical curve name.
func (id ID) String() string {
	switch id {
	case BN254Snarks:
		return "BN254_Snarks"
	case BN254Nogami:
		return "BN254_Nogami"
	case BLS12377:
		return "BLS12_377"
	case BLS12381:
		return "BLS12_381"
	case BW6761:
		return "BW6_761"
	case Pallas:
		return "Pallas"
	case Vesta:
		return "Vesta"
	case Banderwagon:
		return "Banderwagon"
	default:
		return "Unknown"
	}
}

// TwistKind distinguishes the sextic twist families.
type TwistKind int

// Twist kinds; NotPairing marks non-pairing-friendly entries.
const (
	NotPairing TwistKind = iota
	DTwist
	MTwist
)

// Params are the defining constants of a named curve. Pointer fields
// are nil where a notion does not apply (no pairing, no Edwards form).
type Params struct {
	Name string
	// P and R are the base-field and scalar-field moduli.
	P, R *big.Int
	// A and B are the short-Weierstrass coefficients.
	A, B *big.Int
	// EdwardsA and EdwardsD are set for twisted-Edwards curves.
	EdwardsA, EdwardsD *big.Int
	// EmbeddingDegree is 0 for non-pairing curves.
	EmbeddingDegree int
	Twist           TwistKind
	// Fp2NonResidue builds Fp2 (pairing curves).
	Fp2NonResidue *big.Int
	// Seed is the family parameter x (pairing curves).
	Seed *big.Int
	// Cofactor of the G1 group.
	Cofactor *big.Int
	// GLVLambda is the scalar eigenvalue of the curve endomorphism,
	// where one exists.
	GLVLambda *big.Int
}

func mustInt(s string, base int) *big.Int {
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		panic("curve: bad constant " + s)
	}
	return v
}

var registry = map[ID]*Params{}

func init() {
	one := big.NewInt(1)

	// BN254 (Snarks flavour): p, r from the BN polynomial at
	// x = 4965661367192848881.
	bnX := new(big.Int).SetUint64(4965661367192848881)
	registry[BN254Snarks] = &Params{
		Name:            "BN254_Snarks",
		P:               mustInt("21888242871839275222246405745257275088696311157297823662689037894645226208583", 10),
		R:               mustInt("21888242871839275222246405745257275088548364400416034343698204186575808495617", 10),
		A:               big.NewInt(0),
		B:               big.NewInt(3),
		EmbeddingDegree: 12,
		Twist:           DTwist,
		Fp2NonResidue:   big.NewInt(-1),
		Seed:            bnX,
		Cofactor:        one,
	}

	// BN254 (Nogami flavour): x = -(2^62 + 2^55 + 1).
	nogamiX := new(big.Int).Neg(new(big.Int).Add(
		new(big.Int).Add(new(big.Int).Lsh(one, 62), new(big.Int).Lsh(one, 55)), one))
	nogamiP := bnPoly(nogamiX, 24)
	nogamiR := bnPoly(nogamiX, 18)
	registry[BN254Nogami] = &Params{
		Name:            "BN254_Nogami",
		P:               nogamiP,
		R:               nogamiR,
		A:               big.NewInt(0),
		B:               big.NewInt(2),
		EmbeddingDegree: 12,
		Twist:           DTwist,
		Fp2NonResidue:   big.NewInt(-1),
		Seed:            nogamiX,
		Cofactor:        one,
	}

	// BLS12-381: x = -0xd201000000010000.
	bls381X := new(big.Int).Neg(mustInt("d201000000010000", 16))
	registry[BLS12381] = &Params{
		Name:            "BLS12_381",
		P:               mustInt("1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab", 16),
		R:               mustInt("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16),
		A:               big.NewInt(0),
		B:               big.NewInt(4),
		EmbeddingDegree: 12,
		Twist:           MTwist,
		Fp2NonResidue:   big.NewInt(-1),
		Seed:            bls381X,
		Cofactor:        blsG1Cofactor(bls381X),
		GLVLambda:       new(big.Int).Sub(new(big.Int).Mul(bls381X, bls381X), one),
	}

	// BLS12-377: x = 0x8508c00000000001.
	bls377X := mustInt("8508c00000000001", 16)
	registry[BLS12377] = &Params{
		Name:            "BLS12_377",
		P:               blsP(bls377X),
		R:               blsR(bls377X),
		A:               big.NewInt(0),
		B:               big.NewInt(1),
		EmbeddingDegree: 12,
		Twist:           DTwist,
		Fp2NonResidue:   big.NewInt(-5),
		Seed:            bls377X,
		Cofactor:        blsG1Cofactor(bls377X),
		GLVLambda:       new(big.Int).Sub(new(big.Int).Mul(bls377X, bls377X), one),
	}

	// BW6-761: a 2-chain companion of BLS12-377; its scalar field is
	// the BLS12-377 base field.
	registry[BW6761] = &Params{
		Name:            "BW6_761",
		P:               mustInt("122e824fb83ce0ad187c94004faff3eb926186a81d14688528275ef8087be41707ba638e584e91903cebaff25b423048689c8ed12f9fd9071dcd3dc73ebff2e98a116c25667a8f8160cf8aeeaf0a437e6913e6870000082f49d00000000008b", 16),
		R:               blsP(bls377X),
		A:               big.NewInt(0),
		B:               big.NewInt(-1),
		EmbeddingDegree: 6,
		Twist:           MTwist,
		Seed:            bls377X,
		Cofactor:        one,
	}

	// Pallas / Vesta: the 2-cycle; each one's scalar field is the
	// other's base field. No pairing.
	pallasP := mustInt("40000000000000000000000000000000224698fc094cf91b992d30ed00000001", 16)
	vestaP := mustInt("40000000000000000000000000000000224698fc0994a8dd8c46eb2100000001", 16)
	registry[Pallas] = &Params{
		Name:     "Pallas",
		P:        pallasP,
		R:        vestaP,
		A:        big.NewInt(0),
		B:        big.NewInt(5),
		Twist:    NotPairing,
		Cofactor: one,
	}
	registry[Vesta] = &Params{
		Name:     "Vesta",
		P:        vestaP,
		R:        pallasP,
		A:        big.NewInt(0),
		B:        big.NewInt(5),
		Twist:    NotPairing,
		Cofactor: one,
	}

	// Banderwagon: the Bandersnatch quotient over the BLS12-381
	// scalar field.
	registry[Banderwagon] = &Params{
		Name:     "Banderwagon",
		P:        registry[BLS12381].R,
		R:        mustInt("1cfb69d4ca675f520cce760202687600ff8f87007419047174fd06b52876e7e1", 16),
		EdwardsA: big.NewInt(-5),
		EdwardsD: mustInt("6389c12633c267cbc66e3bf86be3b6d8cb66677177e54f92b369f2f5188d58e7", 16),
		Twist:    NotPairing,
		Cofactor: big.NewInt(4),
	}
}

// bnPoly evaluates the BN family polynomial 36x^4+36x^3+cx^2+6x+1,
// with c = 24 for p and c = 18 for r.
func bnPoly(x *big.Int, c int64) *big.Int {
	x2 := new(big.Int).Mul(x, x)
	x3 := new(big.Int).Mul(x2, x)
	x4 := new(big.Int).Mul(x2, x2)
	out := new(big.Int).Mul(x4, big.NewInt(36))
	out.Add(out, new(big.Int).Mul(x3, big.NewInt(36)))
	out.Add(out, new(big.Int).Mul(x2, big.NewInt(c)))
	out.Add(out, new(big.Int).Mul(x, big.NewInt(6)))
	out.Add(out, big.NewInt(1))
	return out
}

// blsR is the BLS12 scalar modulus x^4 - x^2 + 1.
func blsR(x *big.Int) *big.Int {
	x2 := new(big.Int).Mul(x, x)
	out := new(big.Int).Mul(x2, x2)
	out.Sub(out, x2)
	out.Add(out, big.NewInt(1))
	return out
}

// blsP is the BLS12 base modulus (x-1)^2 (x^4-x^2+1)/3 + x.
func blsP(x *big.Int) *big.Int {
	xm1 := new(big.Int).Sub(x, big.NewInt(1))
	out := new(big.Int).Mul(xm1, xm1)
	out.Mul(out, blsR(x))
	out.Div(out, big.NewInt(3))
	out.Add(out, x)
	return out
}

// blsG1Cofactor is (x-1)^2/3.
func blsG1Cofactor(x *big.Int) *big.Int {
	xm1 := new(big.Int).Sub(x, big.NewInt(1))
	out := new(big.Int).Mul(xm1, xm1)
	return out.Div(out, big.NewInt(3))
}

// ByID returns the parameter set of a named curve, or nil.
func ByID(id ID) *Params {
	return registry[id]
}

// All returns every registered curve ID in declaration order.
func All() []ID {
	return []ID{BN254Snarks, BN254Nogami, BLS12377, BLS12381, BW6761, Pallas, Vesta, Banderwagon}
}
