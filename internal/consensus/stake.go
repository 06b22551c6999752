// Package consensus implements stake-weighted validator selection
// and the slashing-adjusted stake accounting it depends on.
package consensus

import "github.com/Klingon-tech/klingnet-pos/internal/xtypes"

// ActiveStakeTable scans utxos for locked stake outputs still active
// at height, subtracts each validator's slashed balance, and drops
// any validator whose effective stake falls under minStake. The
// result is keyed by hex-encoded public key so it can be used
// directly as a map without re-deriving the key each time.
func ActiveStakeTable(utxos xtypes.UTXOIndex, slashed xtypes.SlashedBalances, height uint64, minStake uint64) map[string]uint64 {
	stakes := make(map[string]uint64)
	for _, entry := range utxos {
		out := entry.Output
		if !out.IsStake {
			continue
		}
		if out.LockedUntil <= height {
			continue
		}
		stakes[xtypes.PubKeyHex(out.PubKey)] += out.Value
	}

	for key, amount := range slashed {
		if stake, ok := stakes[key]; ok {
			if amount >= stake {
				stakes[key] = 0
			} else {
				stakes[key] = stake - amount
			}
		}
	}

	for key, amount := range stakes {
		if amount < minStake {
			delete(stakes, key)
		}
	}

	return stakes
}
