package xcrypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

// PublicKey is a compressed 33-byte secp256k1 public key.
type PublicKey [33]byte

// Signature is a detached Schnorr signature.
type Signature []byte

// PrivateKey wraps a secp256k1 scalar for Schnorr signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random validator/signing key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("xcrypto: generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes builds a PrivateKey from a 32-byte scalar.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("xcrypto: private key must be 32 bytes, got %d", len(b))
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Sign produces a Schnorr signature over a 32-byte hash (typically an
// output hash or a block header hash, never a pre-image the signer
// did not independently compute).
func (pk *PrivateKey) Sign(hash Hash) (Signature, error) {
	sig, err := schnorr.Sign(pk.key, hash[:])
	if err != nil {
		return nil, fmt.Errorf("xcrypto: schnorr sign: %w", err)
	}
	return Signature(sig.Serialize()), nil
}

// PublicKey returns the compressed public key for this private key.
func (pk *PrivateKey) PublicKey() PublicKey {
	var pub PublicKey
	copy(pub[:], pk.key.PubKey().SerializeCompressed())
	return pub
}

// Serialize returns the raw 32-byte scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero wipes the private scalar from memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// Verify checks a Schnorr signature against a hash and a compressed
// public key. Returns false on any malformed input rather than an
// error — a bad signature and a bad key look the same to a caller.
func Verify(hash Hash, sig Signature, pubKey PublicKey) bool {
	pub, err := secp256k1.ParsePubKey(pubKey[:])
	if err != nil {
		return false
	}
	parsed, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(hash[:], pub)
}
