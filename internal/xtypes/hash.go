// Package xtypes defines the core chain data model: hashes, keys,
// transactions, blocks, the UTXO index, the mempool entry shape, the
// orphan cache, and slashing bookkeeping.
package xtypes

import (
	"encoding/hex"

	"github.com/Klingon-tech/klingnet-pos/internal/xcrypto"
)

// Hash is a BLAKE3-256 digest, re-exported from xcrypto so the rest
// of the domain model doesn't need to import the crypto package
// directly for the common case.
type Hash = xcrypto.Hash

// PublicKey is a compressed secp256k1 public key.
type PublicKey = xcrypto.PublicKey

// PrivateKey is a secp256k1 signing key.
type PrivateKey = xcrypto.PrivateKey

// Signature is a detached Schnorr signature.
type Signature = xcrypto.Signature

// PubKeyHex returns the hex encoding of a public key, the canonical
// map-key form used across the validator/slashing bookkeeping.
func PubKeyHex(pk PublicKey) string {
	return hex.EncodeToString(pk[:])
}

// Sum256 computes the BLAKE3-256 hash of data.
func Sum256(data []byte) Hash {
	return xcrypto.Sum256(data)
}

// ConcatHash hashes the concatenation of two hashes, used by the
// merkle tree builder.
func ConcatHash(a, b Hash) Hash {
	return xcrypto.Concat(a, b)
}
