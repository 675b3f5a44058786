package bls

import (
	"bytes"
	"testing"
)

func testKey(t *testing.T, seed byte) *SecretKey {
	t.Helper()
	ikm := bytes.Repeat([]byte{seed}, 32)
	sk, err := KeyGen(ikm)
	if err != nil {
		t.Fatal(err)
	}
	return sk
}

func TestKeyGen(t *testing.T) {
	sk1 := testKey(t, 1)
	sk2 := testKey(t, 1)
	b1 := sk1.Bytes()
	b2 := sk2.Bytes()
	if b1 != b2 {
		t.Fatal("KeyGen not deterministic")
	}

	sk3 := testKey(t, 2)
	b3 := sk3.Bytes()
	if b1 == b3 {
		t.Fatal("different IKM produced the same key")
	}

	if _, err := KeyGen(make([]byte, 31)); err != ErrInvalidIKM {
		t.Fatal("short IKM accepted")
	}
}

func TestSignVerify(t *testing.T) {
	sk := testKey(t, 3)
	pk := sk.PublicKey()
	msg := []byte("attestation data")

	sig, err := sk.Sign(msg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !Verify(pk, msg, sig, nil) {
		t.Fatal("honest signature rejected")
	}

	// Tampered message.
	if Verify(pk, []byte("attestation datb"), sig, nil) {
		t.Fatal("tampered message accepted")
	}

	// Tampered signature: re-parse a flipped encoding (decompression
	// may reject outright, which also counts as failure).
	enc := sig.Bytes()
	enc[5] ^= 1
	if bad, err := SignatureFromBytes(enc[:]); err == nil {
		if Verify(pk, msg, bad, nil) {
			t.Fatal("tampered signature accepted")
		}
	}

	// Wrong key.
	other := testKey(t, 4).PublicKey()
	if Verify(other, msg, sig, nil) {
		t.Fatal("wrong public key accepted")
	}

	// Wrong DST.
	if Verify(pk, msg, sig, []byte("OTHER_DST_")) {
		t.Fatal("wrong DST accepted")
	}
}

func TestKeySerializationRoundTrip(t *testing.T) {
	sk := testKey(t, 5)
	pk := sk.PublicKey()

	skb := sk.Bytes()
	sk2, err := SecretKeyFromBytes(skb[:])
	if err != nil {
		t.Fatal(err)
	}
	pkb1 := pk.Bytes()
	pkb2 := sk2.PublicKey().Bytes()
	if pkb1 != pkb2 {
		t.Fatal("secret key round trip changed the public key")
	}

	pk2, err := PublicKeyFromBytes(pkb1[:])
	if err != nil {
		t.Fatal(err)
	}
	pkb3 := pk2.Bytes()
	if pkb1 != pkb3 {
		t.Fatal("public key round trip failed")
	}
}

func TestAggregateSameMessage(t *testing.T) {
	msg := []byte("sync committee root")
	n := 4
	pks := make([]*PublicKey, n)
	sigs := make([]*Signature, n)
	for i := 0; i < n; i++ {
		sk := testKey(t, byte(10+i))
		pks[i] = sk.PublicKey()
		var err error
		sigs[i], err = sk.Sign(msg, nil)
		if err != nil {
			t.Fatal(err)
		}
	}
	agg, err := Aggregate(sigs)
	if err != nil {
		t.Fatal(err)
	}
	if !FastAggregateVerify(pks, msg, agg, nil) {
		t.Fatal("aggregate signature rejected")
	}
	// Dropping a key breaks it.
	if FastAggregateVerify(pks[:n-1], msg, agg, nil) {
		t.Fatal("aggregate verified with missing key")
	}
	if _, err := Aggregate(nil); err != ErrNoSignatures {
		t.Fatal("empty aggregation accepted")
	}
}

func TestAggregateDistinctMessages(t *testing.T) {
	n := 3
	pks := make([]*PublicKey, n)
	msgs := make([][]byte, n)
	sigs := make([]*Signature, n)
	for i := 0; i < n; i++ {
		sk := testKey(t, byte(20+i))
		pks[i] = sk.PublicKey()
		msgs[i] = []byte{byte(i), 1, 2, 3}
		var err error
		sigs[i], err = sk.Sign(msgs[i], nil)
		if err != nil {
			t.Fatal(err)
		}
	}
	agg, err := Aggregate(sigs)
	if err != nil {
		t.Fatal(err)
	}
	if !AggregateVerify(pks, msgs, agg, nil) {
		t.Fatal("aggregate over distinct messages rejected")
	}

	// Duplicate messages must be rejected outright.
	dupMsgs := [][]byte{msgs[0], msgs[0], msgs[2]}
	if AggregateVerify(pks, dupMsgs, agg, nil) {
		t.Fatal("duplicate messages accepted")
	}

	// Shuffled pairing breaks verification.
	pks[0], pks[1] = pks[1], pks[0]
	if AggregateVerify(pks, msgs, agg, nil) {
		t.Fatal("mismatched key order accepted")
	}
}

func TestVerifyBatch(t *testing.T) {
	n := 4
	pks := make([]*PublicKey, n)
	msgs := make([][]byte, n)
	sigs := make([]*Signature, n)
	for i := 0; i < n; i++ {
		sk := testKey(t, byte(30+i))
		pks[i] = sk.PublicKey()
		msgs[i] = []byte{0xaa, byte(i)}
		var err error
		sigs[i], err = sk.Sign(msgs[i], nil)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !VerifyBatch(pks, msgs, sigs, nil) {
		t.Fatal("honest batch rejected")
	}

	// One swapped signature poisons the batch.
	sigs[1], sigs[2] = sigs[2], sigs[1]
	if VerifyBatch(pks, msgs, sigs, nil) {
		t.Fatal("poisoned batch accepted")
	}
}

func TestProofOfPossession(t *testing.T) {
	sk := testKey(t, 40)
	pk := sk.PublicKey()
	pop, err := sk.PopProve()
	if err != nil {
		t.Fatal(err)
	}
	if !PopVerify(pk, pop) {
		t.Fatal("honest proof of possession rejected")
	}
	other := testKey(t, 41).PublicKey()
	if PopVerify(other, pop) {
		t.Fatal("proof of possession transplanted to another key")
	}
	// A PoP is not a valid message signature for the signing DST.
	pkb := pk.Bytes()
	if Verify(pk, pkb[:], pop, nil) {
		t.Fatal("PoP verified under the message DST")
	}
}

func TestZeroize(t *testing.T) {
	sk := testKey(t, 50)
	sk.Zeroize()
	b := sk.Bytes()
	var zero [SecretSize]byte
	if b != zero {
		t.Fatal("secret not cleared")
	}
}
