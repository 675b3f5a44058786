package precompile

// Elliptic-curve precompiles: the BN254 trio (EIP-196/197) and the
// BLS12-381 suite (EIP-2537).
//
// BN254 coordinates travel as 32-byte big-endian words, points
// uncompressed, the zero point meaning infinity. BLS12-381 coordinates
// are 64-byte words whose top 16 bytes must be zero; G1 points are 128
// bytes, G2 points 256, scalars 32. MSM and pairing inputs must be in
// the prime-order subgroup; add inputs only need curve membership.

import (
	"math/big"

	"github.com/eth2030/pairing/bls12381"
	"github.com/eth2030/pairing/bn254"
)

// Gas constants per the relevant EIPs (Istanbul values for BN254).
const (
	GasBn254Add         = 150
	GasBn254Mul         = 6000
	GasBn254PairingBase = 45000
	GasBn254PairingPair = 34000

	GasBlsG1Add    = 375
	GasBlsG1Mul    = 12000
	GasBlsG2Add    = 600
	GasBlsG2Mul    = 22500
	GasBlsPairBase = 37700
	GasBlsPairPair = 32600
	GasBlsMapFp    = 5500
	GasBlsMapFp2   = 23800
)

// --- BN254 ---

// Bn254Add is the curve addition precompile at 0x06.
type Bn254Add struct{}

func (Bn254Add) RequiredGas([]byte) uint64 { return GasBn254Add }

func (Bn254Add) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 128)
	p, err := bn254.UnmarshalG1(input[:64])
	if err != nil {
		return nil, errBadInput
	}
	q, err := bn254.UnmarshalG1(input[64:128])
	if err != nil {
		return nil, errBadInput
	}
	sum := bn254.G1Add(&p, &q)
	out := bn254.MarshalG1(&sum)
	return out[:], nil
}

// Bn254Mul is the scalar multiplication precompile at 0x07.
type Bn254Mul struct{}

func (Bn254Mul) RequiredGas([]byte) uint64 { return GasBn254Mul }

func (Bn254Mul) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 96)
	p, err := bn254.UnmarshalG1(input[:64])
	if err != nil {
		return nil, errBadInput
	}
	k := new(big.Int).SetBytes(input[64:96])
	res := bn254.G1ScalarMulVartime(&p, k)
	out := bn254.MarshalG1(&res)
	return out[:], nil
}

// Bn254Pairing is the pairing check precompile at 0x08.
type Bn254Pairing struct{}

func (Bn254Pairing) RequiredGas(input []byte) uint64 {
	return GasBn254PairingBase + uint64(len(input)/192)*GasBn254PairingPair
}

func (Bn254Pairing) Run(input []byte) ([]byte, error) {
	if len(input)%192 != 0 {
		return nil, errBadInput
	}
	n := len(input) / 192
	ps := make([]bn254.G1Affine, 0, n)
	qs := make([]bn254.G2Affine, 0, n)
	for i := 0; i < n; i++ {
		chunk := input[i*192 : (i+1)*192]
		p, err := bn254.UnmarshalG1(chunk[:64])
		if err != nil {
			return nil, errBadInput
		}
		q, err := bn254.UnmarshalG2(chunk[64:])
		if err != nil {
			return nil, errBadInput
		}
		ps = append(ps, p)
		qs = append(qs, q)
	}
	out := make([]byte, 32)
	if bn254.PairingCheck(ps, qs) {
		out[31] = 1
	}
	return out, nil
}

// --- BLS12-381 (EIP-2537) ---

func decodeBlsFp(word []byte) (bls12381.Fp, error) {
	var out bls12381.Fp
	for _, b := range word[:16] {
		if b != 0 {
			return out, errBadInput
		}
	}
	if err := out.SetBytes(word[16:64]); err != nil {
		return out, errBadInput
	}
	return out, nil
}

func encodeBlsFp(v *bls12381.Fp) [64]byte {
	var out [64]byte
	b := v.Bytes()
	copy(out[16:], b[:])
	return out
}

func decodeBlsG1(data []byte, subgroup bool) (bls12381.G1Affine, error) {
	var out bls12381.G1Affine
	x, err := decodeBlsFp(data[:64])
	if err != nil {
		return out, err
	}
	y, err := decodeBlsFp(data[64:128])
	if err != nil {
		return out, err
	}
	out.X = x
	out.Y = y
	if !out.IsOnCurve() {
		return out, errBadInput
	}
	if subgroup && !out.IsInSubgroup() {
		return out, errBadInput
	}
	return out, nil
}

func encodeBlsG1(p *bls12381.G1Affine) [128]byte {
	var out [128]byte
	x := encodeBlsFp(&p.X)
	y := encodeBlsFp(&p.Y)
	copy(out[:64], x[:])
	copy(out[64:], y[:])
	return out
}

func decodeBlsG2(data []byte, subgroup bool) (bls12381.G2Affine, error) {
	var out bls12381.G2Affine
	xc0, err := decodeBlsFp(data[:64])
	if err != nil {
		return out, err
	}
	xc1, err := decodeBlsFp(data[64:128])
	if err != nil {
		return out, err
	}
	yc0, err := decodeBlsFp(data[128:192])
	if err != nil {
		return out, err
	}
	yc1, err := decodeBlsFp(data[192:256])
	if err != nil {
		return out, err
	}
	out.X.C0 = xc0
	out.X.C1 = xc1
	out.Y.C0 = yc0
	out.Y.C1 = yc1
	if !out.IsOnCurve() {
		return out, errBadInput
	}
	if subgroup && !out.IsInSubgroup() {
		return out, errBadInput
	}
	return out, nil
}

func encodeBlsG2(p *bls12381.G2Affine) [256]byte {
	var out [256]byte
	xc0 := encodeBlsFp(&p.X.C0)
	xc1 := encodeBlsFp(&p.X.C1)
	yc0 := encodeBlsFp(&p.Y.C0)
	yc1 := encodeBlsFp(&p.Y.C1)
	copy(out[0:64], xc0[:])
	copy(out[64:128], xc1[:])
	copy(out[128:192], yc0[:])
	copy(out[192:256], yc1[:])
	return out
}

// BlsG1Add adds two G1 points (curve check only).
type BlsG1Add struct{}

func (BlsG1Add) RequiredGas([]byte) uint64 { return GasBlsG1Add }

func (BlsG1Add) Run(input []byte) ([]byte, error) {
	if len(input) != 256 {
		return nil, errBadInput
	}
	p, err := decodeBlsG1(input[:128], false)
	if err != nil {
		return nil, err
	}
	q, err := decodeBlsG1(input[128:], false)
	if err != nil {
		return nil, err
	}
	sum := bls12381.G1Add(&p, &q)
	out := encodeBlsG1(&sum)
	return out[:], nil
}

// BlsG1MSM is the G1 multi-scalar multiplication (also covering single
// multiplications, per the final EIP-2537 layout).
type BlsG1MSM struct{}

func (BlsG1MSM) RequiredGas(input []byte) uint64 {
	return uint64(len(input)/160) * GasBlsG1Mul
}

func (BlsG1MSM) Run(input []byte) ([]byte, error) {
	if len(input) == 0 || len(input)%160 != 0 {
		return nil, errBadInput
	}
	n := len(input) / 160
	points := make([]bls12381.G1Affine, 0, n)
	scalars := make([]bls12381.Fr, 0, n)
	for i := 0; i < n; i++ {
		chunk := input[i*160 : (i+1)*160]
		p, err := decodeBlsG1(chunk[:128], true)
		if err != nil {
			return nil, err
		}
		var k bls12381.Fr
		k.SetBytesWide(chunk[128:160])
		points = append(points, p)
		scalars = append(scalars, k)
	}
	acc, err := bls12381.G1MultiExp(points, scalars)
	if err != nil {
		return nil, errBadInput
	}
	aff := acc.ToAffine()
	out := encodeBlsG1(&aff)
	return out[:], nil
}

// BlsG2Add adds two G2 points.
type BlsG2Add struct{}

func (BlsG2Add) RequiredGas([]byte) uint64 { return GasBlsG2Add }

func (BlsG2Add) Run(input []byte) ([]byte, error) {
	if len(input) != 512 {
		return nil, errBadInput
	}
	p, err := decodeBlsG2(input[:256], false)
	if err != nil {
		return nil, err
	}
	q, err := decodeBlsG2(input[256:], false)
	if err != nil {
		return nil, err
	}
	sum := bls12381.G2Add(&p, &q)
	out := encodeBlsG2(&sum)
	return out[:], nil
}

// BlsG2MSM is the G2 multi-scalar multiplication.
type BlsG2MSM struct{}

func (BlsG2MSM) RequiredGas(input []byte) uint64 {
	return uint64(len(input)/288) * GasBlsG2Mul
}

func (BlsG2MSM) Run(input []byte) ([]byte, error) {
	if len(input) == 0 || len(input)%288 != 0 {
		return nil, errBadInput
	}
	n := len(input) / 288
	points := make([]bls12381.G2Affine, 0, n)
	scalars := make([]bls12381.Fr, 0, n)
	for i := 0; i < n; i++ {
		chunk := input[i*288 : (i+1)*288]
		p, err := decodeBlsG2(chunk[:256], true)
		if err != nil {
			return nil, err
		}
		var k bls12381.Fr
		k.SetBytesWide(chunk[256:288])
		points = append(points, p)
		scalars = append(scalars, k)
	}
	acc, err := bls12381.G2MultiExp(points, scalars)
	if err != nil {
		return nil, errBadInput
	}
	aff := acc.ToAffine()
	out := encodeBlsG2(&aff)
	return out[:], nil
}

// BlsPairing is the BLS12-381 pairing check.
type BlsPairing struct{}

func (BlsPairing) RequiredGas(input []byte) uint64 {
	return GasBlsPairBase + uint64(len(input)/384)*GasBlsPairPair
}

func (BlsPairing) Run(input []byte) ([]byte, error) {
	if len(input) == 0 || len(input)%384 != 0 {
		return nil, errBadInput
	}
	n := len(input) / 384
	ps := make([]bls12381.G1Affine, 0, n)
	qs := make([]bls12381.G2Affine, 0, n)
	for i := 0; i < n; i++ {
		chunk := input[i*384 : (i+1)*384]
		p, err := decodeBlsG1(chunk[:128], true)
		if err != nil {
			return nil, err
		}
		q, err := decodeBlsG2(chunk[128:384], true)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
		qs = append(qs, q)
	}
	out := make([]byte, 32)
	if bls12381.PairingCheck(ps, qs) {
		out[31] = 1
	}
	return out, nil
}

// BlsMapFpToG1 maps a field element onto the G1 subgroup.
type BlsMapFpToG1 struct{}

func (BlsMapFpToG1) RequiredGas([]byte) uint64 { return GasBlsMapFp }

func (BlsMapFpToG1) Run(input []byte) ([]byte, error) {
	if len(input) != 64 {
		return nil, errBadInput
	}
	u, err := decodeBlsFp(input)
	if err != nil {
		return nil, err
	}
	p := bls12381.MapToCurveG1(&u)
	var cleared bls12381.G1Affine
	cleared.ClearCofactor(&p)
	out := encodeBlsG1(&cleared)
	return out[:], nil
}

// BlsMapFp2ToG2 maps an Fp2 element onto the G2 subgroup.
type BlsMapFp2ToG2 struct{}

func (BlsMapFp2ToG2) RequiredGas([]byte) uint64 { return GasBlsMapFp2 }

func (BlsMapFp2ToG2) Run(input []byte) ([]byte, error) {
	if len(input) != 128 {
		return nil, errBadInput
	}
	c0, err := decodeBlsFp(input[:64])
	if err != nil {
		return nil, err
	}
	c1, err := decodeBlsFp(input[64:])
	if err != nil {
		return nil, err
	}
	var u bls12381.Fp2
	u.C0 = c0
	u.C1 = c1
	p := bls12381.MapToCurveG2(&u)
	var cleared bls12381.G2Affine
	cleared.ClearCofactor(&p)
	out := encodeBlsG2(&cleared)
	return out[:], nil
}
