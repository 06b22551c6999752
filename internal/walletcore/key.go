// Package walletcore is the thin external collaborator a wallet
// front end builds on: deriving a signing key from a BIP-39 seed,
// viewing a keyset's UTXOs, and assembling a spend transaction. Per
// the design this module follows, the wallet's CLI/REPL, keystore
// encryption, and full HD account tree are out of scope — this
// package only carries what the chain engine itself needs a
// collaborator for.
package walletcore

import (
	"fmt"

	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	"github.com/Klingon-tech/klingnet-pos/internal/xcrypto"
)

// SeedSize is the length in bytes of a BIP-39 derived seed.
const SeedSize = 64

// SeedFromMnemonic derives a 512-bit seed from a BIP-39 mnemonic and
// optional passphrase.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("walletcore: invalid mnemonic")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("walletcore: derive seed: %w", err)
	}
	return seed, nil
}

// DeriveSigningKey derives the validator/spending key at m/account'
// from seed and converts it to the chain's own secp256k1 key type.
// Only a single hardened account index is supported — this
// collaborator has no use for a full BIP-44 change/address tree.
func DeriveSigningKey(seed []byte, account uint32) (*xcrypto.PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("walletcore: seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("walletcore: create master key: %w", err)
	}
	child, err := master.NewChildKey(bip32.FirstHardenedChild + account)
	if err != nil {
		return nil, fmt.Errorf("walletcore: derive account key: %w", err)
	}

	raw := child.Key
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	return xcrypto.PrivateKeyFromBytes(raw)
}
