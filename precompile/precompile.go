// Package precompile implements the byte-in/byte-out EVM precompile
// surfaces backed by this module: SHA-256, MODEXP (EIP-198 with
// EIP-2565 gas), the BN254 trio (EIP-196/197) and the BLS12-381 suite
// (EIP-2537). Each contract reports its gas cost and runs statelessly;
// malformed input returns an error, failed pairing checks return a
// zero word.
package precompile

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// Contract is one precompiled contract.
type Contract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

var errBadInput = errors.New("precompile: malformed input")

// Contracts maps the standard addresses (low byte) to implementations.
var Contracts = map[byte]Contract{
	0x02: Sha256{},
	0x05: ModExp{},
	0x06: Bn254Add{},
	0x07: Bn254Mul{},
	0x08: Bn254Pairing{},
	0x0b: BlsG1Add{},
	0x0c: BlsG1MSM{},
	0x0d: BlsG2Add{},
	0x0e: BlsG2MSM{},
	0x0f: BlsPairing{},
	0x10: BlsMapFpToG1{},
	0x11: BlsMapFp2ToG2{},
}

// rightPad returns input zero-extended to size.
func rightPad(input []byte, size int) []byte {
	if len(input) >= size {
		return input[:size]
	}
	out := make([]byte, size)
	copy(out, input)
	return out
}

// Sha256 is the classic hash precompile at address 0x02.
type Sha256 struct{}

// RequiredGas is 60 + 12 per word.
func (Sha256) RequiredGas(input []byte) uint64 {
	return uint64(len(input)+31)/32*12 + 60
}

// Run hashes the input.
func (Sha256) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// ModExp is arbitrary-precision modular exponentiation (EIP-198) with
// the EIP-2565 gas schedule.
type ModExp struct{}

// modExpLengths reads the three header words; absurd lengths clamp to
// a value the gas formula prices out of reach.
func modExpLengths(input []byte) (base, exp, mod uint64) {
	padded := rightPad(input, 96)
	read := func(off int) uint64 {
		v := new(uint256.Int).SetBytes(padded[off : off+32])
		if !v.IsUint64() || v.Uint64() > 1<<32 {
			return 1 << 32
		}
		return v.Uint64()
	}
	return read(0), read(32), read(64)
}

// RequiredGas follows EIP-2565: multiplication complexity scaled by
// the iteration count of the exponent, floored at 200.
func (ModExp) RequiredGas(input []byte) uint64 {
	baseLen, expLen, modLen := modExpLengths(input)

	words := (max64(baseLen, modLen) + 7) / 8
	multComplexity := words * words

	// Iteration count from the leading exponent word.
	var expHead *big.Int
	if uint64(len(input)) > 96+baseLen {
		start := 96 + baseLen
		l := expLen
		if l > 32 {
			l = 32
		}
		end := start + l
		if end > uint64(len(input)) {
			end = uint64(len(input))
		}
		expHead = new(big.Int).SetBytes(input[start:end])
	} else {
		expHead = new(big.Int)
	}
	var iter uint64
	bitlen := uint64(expHead.BitLen())
	if expLen <= 32 {
		if bitlen > 0 {
			iter = bitlen - 1
		}
	} else {
		iter = 8*(expLen-32) + maxBit(bitlen)
	}
	if iter < 1 {
		iter = 1
	}

	gas := multComplexity * iter / 3
	if gas < 200 {
		return 200
	}
	return gas
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func maxBit(bitlen uint64) uint64 {
	if bitlen == 0 {
		return 0
	}
	return bitlen - 1
}

// Run computes base^exp mod m, output padded to the modulus length.
func (ModExp) Run(input []byte) ([]byte, error) {
	baseLen, expLen, modLen := modExpLengths(input)
	if baseLen == 1<<32 || expLen == 1<<32 || modLen == 1<<32 {
		return nil, errBadInput
	}
	if modLen == 0 {
		return []byte{}, nil
	}
	body := input
	if len(body) > 96 {
		body = body[96:]
	} else {
		body = nil
	}
	body = rightPad(body, int(baseLen+expLen+modLen))
	base := new(big.Int).SetBytes(body[:baseLen])
	exp := new(big.Int).SetBytes(body[baseLen : baseLen+expLen])
	mod := new(big.Int).SetBytes(body[baseLen+expLen:])

	out := make([]byte, modLen)
	if mod.Sign() == 0 {
		return out, nil
	}
	res := new(big.Int).Exp(base, exp, mod)
	rb := res.Bytes()
	copy(out[uint64(len(out))-uint64(len(rb)):], rb)
	return out, nil
}
