package xtypes

// SlashingReason identifies why a validator's stake was penalized.
type SlashingReason int

const (
	// SlashDoubleSign penalizes a validator caught signing two
	// different blocks at the same height.
	SlashDoubleSign SlashingReason = iota
	// SlashDowntime penalizes a validator that missed its slot.
	SlashDowntime
)

// SlashingRecord is an append-only entry in a chain's slashing
// history.
type SlashingRecord struct {
	Validator PublicKey
	Height    uint64
	Reason    SlashingReason
	Penalty   uint64
}

// SlashedBalances accumulates penalties per validator, keyed by the
// hex-encoded compressed public key (see PubKeyHex).
type SlashedBalances map[string]uint64
