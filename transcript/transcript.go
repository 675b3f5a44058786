// Package transcript implements the Fiat-Shamir transcript used by the
// commitment protocols: a SHA-256 duplex with labelled absorb and
// squeeze operations, in the Ethereum Verkle flavour.
//
// Every absorb hashes the running state together with the label and
// the data, and every squeeze folds the digest back into the running
// state, so challenges depend on the whole interaction history. Labels
// and data are concatenated without length prefixes: label "a" with
// data "bc" absorbs the same bytes as label "ab" with data "c".
package transcript

import "crypto/sha256"

// Transcript is a running Fiat-Shamir state. The zero value is not
// usable; construct with New.
type Transcript struct {
	state []byte
}

// New creates a transcript bound to a protocol label.
func New(label string) *Transcript {
	h := sha256.Sum256([]byte(label))
	return &Transcript{state: h[:]}
}

// DomainSeparator folds a stage label into the state.
func (t *Transcript) DomainSeparator(label string) {
	h := sha256.New()
	h.Write(t.state)
	h.Write([]byte(label))
	t.state = h.Sum(nil)
}

// Append absorbs a labelled message.
func (t *Transcript) Append(label string, data []byte) {
	h := sha256.New()
	h.Write(t.state)
	h.Write([]byte(label))
	h.Write(data)
	t.state = h.Sum(nil)
}

// ChallengeBytes squeezes 32 challenge bytes under a label and folds
// them back into the state.
func (t *Transcript) ChallengeBytes(label string) [32]byte {
	h := sha256.New()
	h.Write(t.state)
	h.Write([]byte(label))
	digest := h.Sum(nil)
	t.state = digest
	var out [32]byte
	copy(out[:], digest)
	return out
}
