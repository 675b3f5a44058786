//go:build blst

package bls

// Accelerated backend using the supranational/blst bindings via CGO.
// Key and point byte formats are identical to the pure-Go path (MinPk
// scheme); message hashing is not. blst hashes to G2 with the SSWU map
// and the isogeny, the pure-Go path with the SvdW map directly on the
// curve, so the two backends sign the same message differently and a
// signature from one does not verify under the other. The adapter
// exists for hosts where the C library's assembly matters.
//
// Build with: go build -tags blst

import (
	blst "github.com/supranational/blst/bindings/go"
)

// BlstBackend exposes the blst-accelerated operations.
type BlstBackend struct{}

// KeyGen derives a secret key with blst's HKDF path.
func (BlstBackend) KeyGen(ikm []byte) (*SecretKey, error) {
	if len(ikm) < MinIKMSize {
		return nil, ErrInvalidIKM
	}
	sk := blst.KeyGen(ikm)
	if sk == nil {
		return nil, ErrInvalidIKM
	}
	return SecretKeyFromBytes(sk.ToBEndian())
}

// Sign signs msg with blst's SSWU-based hash to G2; the result differs
// from the pure-Go Sign output for the same key and message.
func (BlstBackend) Sign(sk *SecretKey, msg, dst []byte) (*Signature, error) {
	if dst == nil {
		dst = DST
	}
	skb := sk.Bytes()
	var bsk blst.SecretKey
	if bsk.FromBEndian(skb[:]) == nil {
		return nil, ErrInvalidSignature
	}
	defer bsk.Zeroize()
	sig := new(blst.P2Affine).Sign(&bsk, msg, dst)
	return SignatureFromBytes(sig.Compress())
}

// Verify checks a single signature with blst.
func (BlstBackend) Verify(pk *PublicKey, msg []byte, sig *Signature, dst []byte) bool {
	if dst == nil {
		dst = DST
	}
	pkb := pk.Bytes()
	sgb := sig.Bytes()
	bpk := new(blst.P1Affine).Uncompress(pkb[:])
	bsg := new(blst.P2Affine).Uncompress(sgb[:])
	if bpk == nil || bsg == nil {
		return false
	}
	return bsg.Verify(true, bpk, true, msg, dst)
}
