package kzg

// Trusted setup handling.
//
// The operational setup is (srs_g1_lagrange[4096], srs_g2[65]): the
// G1 powers of tau pre-transformed into the bit-reversed Lagrange
// basis, and the first 65 monomial G2 powers. It loads from the JSON
// format Ethereum clients ship ("g1_lagrange" / "g2_monomial" arrays
// of 0x-prefixed compressed points) or derives insecurely from a known
// secret for tests.
//
// The powers-of-tau ceremony helpers operate on the monomial form:
// each participant multiplies in powers of a fresh secret, and the
// chain verifies with pairing ratio checks before conversion to
// Lagrange basis.

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/eth2030/pairing/bls12381"
)

// SetupG2Count is the number of monomial G2 points the setup carries.
const SetupG2Count = 65

// Setup is the operational trusted setup.
type Setup struct {
	G1Lagrange [FieldElementsPerBlob]bls12381.G1Affine
	G2         [SetupG2Count]bls12381.G2Affine
}

// setupJSON mirrors the client file format.
type setupJSON struct {
	G1Lagrange []string `json:"g1_lagrange"`
	G2Monomial []string `json:"g2_monomial"`
}

// ParseSetup loads a trusted setup from its JSON encoding, validating
// every point (decompression includes curve and subgroup checks).
func ParseSetup(data []byte) (*Setup, error) {
	var raw setupJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.G1Lagrange) != FieldElementsPerBlob || len(raw.G2Monomial) < SetupG2Count {
		return nil, errBadSetup
	}
	s := &Setup{}
	for i, h := range raw.G1Lagrange {
		b, err := hexutil.Decode(h)
		if err != nil {
			return nil, err
		}
		p, err := bls12381.DecompressG1(b)
		if err != nil {
			return nil, err
		}
		s.G1Lagrange[i] = p
	}
	for i := 0; i < SetupG2Count; i++ {
		b, err := hexutil.Decode(raw.G2Monomial[i])
		if err != nil {
			return nil, err
		}
		p, err := bls12381.DecompressG2(b)
		if err != nil {
			return nil, err
		}
		s.G2[i] = p
	}
	return s, nil
}

// MarshalJSON renders the setup back into the client file format.
func (s *Setup) MarshalJSON() ([]byte, error) {
	var raw setupJSON
	raw.G1Lagrange = make([]string, FieldElementsPerBlob)
	for i := range s.G1Lagrange {
		c := bls12381.CompressG1(&s.G1Lagrange[i])
		raw.G1Lagrange[i] = hexutil.Encode(c[:])
	}
	raw.G2Monomial = make([]string, SetupG2Count)
	for i := range s.G2 {
		c := bls12381.CompressG2(&s.G2[i])
		raw.G2Monomial[i] = hexutil.Encode(c[:])
	}
	return json.Marshal(&raw)
}

// MonomialSRS is a powers-of-tau chain in monomial basis, the ceremony
// format.
type MonomialSRS struct {
	G1 []bls12381.G1Affine // [tau^0]G1 ... [tau^(n-1)]G1
	G2 []bls12381.G2Affine // [tau^0]G2 ... [tau^64]G2
}

// GenerateInsecureSRS builds a monomial SRS from a known secret. Test
// and ceremony-bootstrap use only: anyone holding tau can forge proofs.
func GenerateInsecureSRS(tau *big.Int, n int) *MonomialSRS {
	srs := &MonomialSRS{
		G1: make([]bls12381.G1Affine, n),
		G2: make([]bls12381.G2Affine, SetupG2Count),
	}
	g1 := bls12381.G1Generator()
	g2 := bls12381.G2Generator()
	pow := new(big.Int).SetInt64(1)
	order := bls12381.FrModulus()
	for i := 0; i < n || i < SetupG2Count; i++ {
		if i < n {
			var j bls12381.G1Jac
			j.ScalarMulBigVartime(&g1, pow)
			srs.G1[i] = j.ToAffine()
		}
		if i < SetupG2Count {
			var k bls12381.G2Jac
			k.ScalarMulBigVartime(&g2, pow)
			srs.G2[i] = k.ToAffine()
		}
		pow.Mul(pow, tau)
		pow.Mod(pow, order)
	}
	return srs
}

// Update multiplies a fresh secret into the chain, the ceremony
// contribution step.
func (srs *MonomialSRS) Update(fresh *big.Int) {
	order := bls12381.FrModulus()
	pow := new(big.Int).SetInt64(1)
	for i := 0; i < len(srs.G1) || i < len(srs.G2); i++ {
		if i < len(srs.G1) {
			var j bls12381.G1Jac
			j.ScalarMulBigVartime(&srs.G1[i], pow)
			srs.G1[i] = j.ToAffine()
		}
		if i < len(srs.G2) {
			var k bls12381.G2Jac
			k.ScalarMulBigVartime(&srs.G2[i], pow)
			srs.G2[i] = k.ToAffine()
		}
		pow.Mul(pow, fresh)
		pow.Mod(pow, order)
	}
}

// Verify checks the SRS is a well-formed geometric chain: every
// consecutive G1 pair must satisfy e(g1[i+1], g2[0]) = e(g1[i], g2[1]),
// and the G2 powers are checked against the G1 pair the same way.
func (srs *MonomialSRS) Verify() bool {
	if len(srs.G1) < 2 || len(srs.G2) < 2 {
		return false
	}
	gen1 := bls12381.G1Generator()
	gen2 := bls12381.G2Generator()
	if !srs.G1[0].Equal(&gen1) || !srs.G2[0].Equal(&gen2) {
		return false
	}
	for i := 0; i+1 < len(srs.G1); i++ {
		var negNext bls12381.G1Affine
		negNext.Neg(&srs.G1[i+1])
		if !bls12381.PairingCheck(
			[]bls12381.G1Affine{negNext, srs.G1[i]},
			[]bls12381.G2Affine{srs.G2[0], srs.G2[1]},
		) {
			return false
		}
	}
	for i := 0; i+1 < len(srs.G2); i++ {
		var negG1 bls12381.G1Affine
		negG1.Neg(&srs.G1[1])
		if !bls12381.PairingCheck(
			[]bls12381.G1Affine{negG1, gen1},
			[]bls12381.G2Affine{srs.G2[i], srs.G2[i+1]},
		) {
			return false
		}
	}
	return true
}

// ToSetup converts the monomial chain into the operational Lagrange
// form with a group inverse FFT.
func (srs *MonomialSRS) ToSetup() (*Setup, error) {
	if len(srs.G1) != FieldElementsPerBlob || len(srs.G2) < SetupG2Count {
		return nil, errBadSetup
	}
	jacs := make([]bls12381.G1Jac, FieldElementsPerBlob)
	for i := range srs.G1 {
		jacs[i].FromAffine(&srs.G1[i])
	}
	evalDomain.fftG1(jacs, true)

	out := &Setup{}
	// The inverse FFT yields the natural-order Lagrange points; the
	// blob convention stores them bit-reversed.
	for i := 0; i < FieldElementsPerBlob; i++ {
		out.G1Lagrange[bitReverse(uint32(i), 12)] = jacs[i].ToAffine()
	}
	copy(out.G2[:], srs.G2[:SetupG2Count])
	return out, nil
}

// NewInsecureSetup is the one-call test path: a full setup derived from
// the given secret.
func NewInsecureSetup(tau *big.Int) (*Setup, error) {
	return GenerateInsecureSRS(tau, FieldElementsPerBlob).ToSetup()
}
