// Package xcrypto provides the hashing and signing primitives used
// throughout the chain: BLAKE3-256 digests and Schnorr/secp256k1
// signatures.
package xcrypto

import (
	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3-256 digest.
type Hash [32]byte

// IsZero reports whether h is the zero hash, used as the "no
// predecessor" sentinel for a chain's genesis block.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Sum256 computes the BLAKE3-256 hash of data.
func Sum256(data []byte) Hash {
	return blake3.Sum256(data)
}

// Concat hashes the concatenation of two hashes. Used when folding
// pairs of leaves or nodes into a merkle tree.
func Concat(a, b Hash) Hash {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return Sum256(buf[:])
}
