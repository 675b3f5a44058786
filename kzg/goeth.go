package kzg

// Interop with crate-crypto/go-eth-kzg, the reference implementation
// carrying the embedded mainnet ceremony output. The byte formats are
// identical, so the adapter is type plumbing: verify locally-built
// blobs against the production setup, or cross-check this package's
// arithmetic against the reference on the same inputs.

import (
	goethkzg "github.com/crate-crypto/go-eth-kzg"
)

// MainnetContext wraps the reference implementation initialized with
// the embedded mainnet trusted setup.
type MainnetContext struct {
	ctx *goethkzg.Context
}

// NewMainnetContext loads the embedded production setup.
func NewMainnetContext() (*MainnetContext, error) {
	ctx, err := goethkzg.NewContext4096Secure()
	if err != nil {
		return nil, err
	}
	return &MainnetContext{ctx: ctx}, nil
}

// BlobToCommitment commits against the mainnet setup.
func (m *MainnetContext) BlobToCommitment(blob *Blob) (Commitment, error) {
	var out Commitment
	gb := goethkzg.Blob(*blob)
	c, err := m.ctx.BlobToKZGCommitment(&gb, 0)
	if err != nil {
		return out, err
	}
	copy(out[:], c[:])
	return out, nil
}

// ComputeBlobProof opens against the mainnet setup.
func (m *MainnetContext) ComputeBlobProof(blob *Blob, commitment Commitment) (Proof, error) {
	var out Proof
	gb := goethkzg.Blob(*blob)
	gc := goethkzg.KZGCommitment(commitment)
	p, err := m.ctx.ComputeBlobKZGProof(&gb, gc, 0)
	if err != nil {
		return out, err
	}
	copy(out[:], p[:])
	return out, nil
}

// VerifyBlobProof verifies against the mainnet setup.
func (m *MainnetContext) VerifyBlobProof(blob *Blob, commitment Commitment, proof Proof) bool {
	gb := goethkzg.Blob(*blob)
	return m.ctx.VerifyBlobKZGProof(&gb, goethkzg.KZGCommitment(commitment), goethkzg.KZGProof(proof)) == nil
}
