// Package bls implements BLS signatures over BLS12-381 in the Ethereum
// configuration: public keys in G1 (48-byte compressed), signatures in
// G2 (96-byte compressed), hash-to-curve into G2 under the standard
// proof-of-possession ciphersuite tag.
//
// Verification relations:
//
//	single:    e(pk, H(m)) = e(G1, sig)
//	aggregate: prod e(pk_i, H(m_i)) = e(G1, aggSig)
package bls

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/hkdf"

	"github.com/eth2030/pairing/bls12381"
)

// Key, signature and input sizes.
const (
	PubkeySize    = 48
	SignatureSize = 96
	SecretSize    = 32
	MinIKMSize    = 32
)

// DST is the ciphersuite domain separation tag (proof-of-possession
// scheme, G2 signatures).
var DST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// PopDST separates proof-of-possession hashing from message signing.
var PopDST = []byte("BLS_POP_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

var (
	// ErrInvalidIKM rejects short key material.
	ErrInvalidIKM = errors.New("bls: IKM must be at least 32 bytes")
	// ErrInvalidPubkey rejects malformed or out-of-subgroup keys.
	ErrInvalidPubkey = errors.New("bls: invalid public key")
	// ErrInvalidSignature rejects malformed signature encodings.
	ErrInvalidSignature = errors.New("bls: invalid signature")
	// ErrNoSignatures rejects empty aggregation input.
	ErrNoSignatures = errors.New("bls: nothing to aggregate")
	// ErrLengthMismatch rejects misaligned verify inputs.
	ErrLengthMismatch = errors.New("bls: mismatched input lengths")
	// ErrDuplicateMessage rejects repeated messages in AggregateVerify.
	ErrDuplicateMessage = errors.New("bls: duplicate message")
)

// SecretKey is a scalar; wipe with Zeroize when done.
type SecretKey struct {
	s bls12381.Fr
}

// PublicKey is a G1 subgroup point.
type PublicKey struct {
	p bls12381.G1Affine
}

// Signature is a G2 subgroup point.
type Signature struct {
	p bls12381.G2Affine
}

// KeyGen derives a secret key from input key material per the
// draft-irtf-cfrg-bls-signature KeyGen: HKDF-SHA256 with an iterated
// salt until the candidate scalar is nonzero.
func KeyGen(ikm []byte) (*SecretKey, error) {
	if len(ikm) < MinIKMSize {
		return nil, ErrInvalidIKM
	}
	salt := []byte("BLS-SIG-KEYGEN-SALT-")
	ikmPrime := make([]byte, len(ikm)+1)
	copy(ikmPrime, ikm)

	info := []byte{0, 48} // I2OSP(L, 2), L = 48

	var sk SecretKey
	for {
		saltDigest := sha256.Sum256(salt)
		r := hkdf.New(sha256.New, ikmPrime, saltDigest[:], info)
		okm := make([]byte, 48)
		if _, err := r.Read(okm); err != nil {
			return nil, err
		}
		sk.s.SetBytesWide(okm)
		if !sk.s.IsZero() {
			break
		}
		salt = saltDigest[:]
	}
	return &sk, nil
}

// GenerateKey draws fresh key material from crypto/rand.
func GenerateKey() (*SecretKey, error) {
	var ikm [MinIKMSize]byte
	if _, err := rand.Read(ikm[:]); err != nil {
		return nil, err
	}
	return KeyGen(ikm[:])
}

// Zeroize clears the secret scalar.
func (sk *SecretKey) Zeroize() {
	sk.s.SetZero()
}

// Bytes returns the canonical 32-byte secret encoding.
func (sk *SecretKey) Bytes() [SecretSize]byte {
	return sk.s.Bytes()
}

// SecretKeyFromBytes parses a canonical nonzero scalar.
func SecretKeyFromBytes(b []byte) (*SecretKey, error) {
	var sk SecretKey
	if err := sk.s.SetBytes(b); err != nil || sk.s.IsZero() {
		return nil, errors.New("bls: invalid secret key")
	}
	return &sk, nil
}

// PublicKey derives [sk]G1 (constant-time in the secret).
func (sk *SecretKey) PublicKey() *PublicKey {
	g := bls12381.G1Generator()
	return &PublicKey{p: bls12381.G1ScalarMul(&g, &sk.s)}
}

// Bytes returns the compressed public key.
func (pk *PublicKey) Bytes() [PubkeySize]byte {
	return bls12381.CompressG1(&pk.p)
}

// PublicKeyFromBytes parses and validates a compressed public key,
// rejecting the identity.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	p, err := bls12381.DecompressG1(b)
	if err != nil || p.IsInfinity() {
		return nil, ErrInvalidPubkey
	}
	return &PublicKey{p: p}, nil
}

// Bytes returns the compressed signature.
func (s *Signature) Bytes() [SignatureSize]byte {
	return bls12381.CompressG2(&s.p)
}

// SignatureFromBytes parses and validates a compressed signature.
func SignatureFromBytes(b []byte) (*Signature, error) {
	p, err := bls12381.DecompressG2(b)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	return &Signature{p: p}, nil
}

// Sign hashes the message into G2 under dst (nil selects the standard
// tag) and multiplies by the secret key, constant-time in the scalar.
func (sk *SecretKey) Sign(msg, dst []byte) (*Signature, error) {
	if dst == nil {
		dst = DST
	}
	h, err := bls12381.HashToG2(msg, dst)
	if err != nil {
		return nil, err
	}
	return &Signature{p: bls12381.G2ScalarMul(&h, &sk.s)}, nil
}

// Verify checks e(pk, H(m)) = e(G1, sig), i.e.
// e(-G1, sig) * e(pk, H(m)) = 1.
func Verify(pk *PublicKey, msg []byte, sig *Signature, dst []byte) bool {
	if dst == nil {
		dst = DST
	}
	if pk.p.IsInfinity() {
		return false
	}
	h, err := bls12381.HashToG2(msg, dst)
	if err != nil {
		return false
	}
	g := bls12381.G1Generator()
	var negG bls12381.G1Affine
	negG.Neg(&g)
	return bls12381.PairingCheck(
		[]bls12381.G1Affine{negG, pk.p},
		[]bls12381.G2Affine{sig.p, h},
	)
}

// Aggregate sums signatures.
func Aggregate(sigs []*Signature) (*Signature, error) {
	if len(sigs) == 0 {
		return nil, ErrNoSignatures
	}
	var acc bls12381.G2Jac
	acc.SetInfinity()
	for _, s := range sigs {
		acc.AddMixed(&s.p)
	}
	return &Signature{p: acc.ToAffine()}, nil
}

// AggregatePublicKeys sums public keys (for fast aggregate verify).
func AggregatePublicKeys(pks []*PublicKey) (*PublicKey, error) {
	if len(pks) == 0 {
		return nil, ErrNoSignatures
	}
	var acc bls12381.G1Jac
	acc.SetInfinity()
	for _, pk := range pks {
		acc.AddMixed(&pk.p)
	}
	return &PublicKey{p: acc.ToAffine()}, nil
}

// FastAggregateVerify checks an aggregate signature over one shared
// message: e(sum pk, H(m)) = e(G1, aggSig).
func FastAggregateVerify(pks []*PublicKey, msg []byte, sig *Signature, dst []byte) bool {
	if len(pks) == 0 {
		return false
	}
	agg, err := AggregatePublicKeys(pks)
	if err != nil {
		return false
	}
	return Verify(agg, msg, sig, dst)
}

// AggregateVerify checks an aggregate signature over distinct
// messages: prod e(pk_i, H(m_i)) = e(G1, aggSig), with one shared
// Miller loop. Repeated messages are rejected (rogue-key hygiene under
// the PoP scheme).
func AggregateVerify(pks []*PublicKey, msgs [][]byte, sig *Signature, dst []byte) bool {
	n := len(pks)
	if n == 0 || n != len(msgs) {
		return false
	}
	if dst == nil {
		dst = DST
	}
	seen := make(map[string]struct{}, n)
	for _, m := range msgs {
		if _, dup := seen[string(m)]; dup {
			return false
		}
		seen[string(m)] = struct{}{}
	}

	ps := make([]bls12381.G1Affine, 0, n+1)
	qs := make([]bls12381.G2Affine, 0, n+1)
	for i := 0; i < n; i++ {
		if pks[i].p.IsInfinity() {
			return false
		}
		h, err := bls12381.HashToG2(msgs[i], dst)
		if err != nil {
			return false
		}
		ps = append(ps, pks[i].p)
		qs = append(qs, h)
	}
	g := bls12381.G1Generator()
	var negG bls12381.G1Affine
	negG.Neg(&g)
	ps = append(ps, negG)
	qs = append(qs, sig.p)
	return bls12381.PairingCheck(ps, qs)
}

// PopProve signs the public key under the PoP tag.
func (sk *SecretKey) PopProve() (*Signature, error) {
	pk := sk.PublicKey()
	pkb := pk.Bytes()
	return sk.Sign(pkb[:], PopDST)
}

// PopVerify checks a proof of possession.
func PopVerify(pk *PublicKey, pop *Signature) bool {
	pkb := pk.Bytes()
	return Verify(pk, pkb[:], pop, PopDST)
}
