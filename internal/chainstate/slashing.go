package chainstate

import (
	"github.com/Klingon-tech/klingnet-pos/internal/consensus"
	"github.com/Klingon-tech/klingnet-pos/internal/xlog"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// Slash penalizes a validator's effective stake for the given reason,
// recording the event in the slashing history and accumulating the
// penalty against the validator's slashed balance. Returns
// ErrInvalidValidator if the validator currently has no effective
// stake to slash.
func (c *Chain) Slash(pubKey xtypes.PublicKey, reason xtypes.SlashingReason) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	table := consensus.ActiveStakeTable(c.utxos, c.slashedAmounts, c.height(), c.cfg.StakeMinimumAmount)
	stake := table[xtypes.PubKeyHex(pubKey)]
	if stake == 0 {
		return 0, ErrInvalidValidator
	}

	var rateBps uint64
	switch reason {
	case xtypes.SlashDoubleSign:
		rateBps = c.cfg.SlashDoubleSignBps
	case xtypes.SlashDowntime:
		rateBps = c.cfg.SlashDowntimeBps
	}

	penalty := (stake * rateBps) / 10000

	c.slashingHistory = append(c.slashingHistory, xtypes.SlashingRecord{
		Validator: pubKey,
		Height:    c.height(),
		Reason:    reason,
		Penalty:   penalty,
	})
	key := xtypes.PubKeyHex(pubKey)
	c.slashedAmounts[key] += penalty

	xlog.Chain.Info().Str("validator", key).Uint64("penalty", penalty).Msg("validator slashed")
	return penalty, nil
}

// IsSlashed reports whether a validator currently carries any
// accumulated slashing penalty.
func (c *Chain) IsSlashed(pubKey xtypes.PublicKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slashedAmounts[xtypes.PubKeyHex(pubKey)] > 0
}

// EffectiveStake returns a validator's active stake net of slashing
// penalties.
func (c *Chain) EffectiveStake(pubKey xtypes.PublicKey) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	table := consensus.ActiveStakeTable(c.utxos, c.slashedAmounts, c.height(), c.cfg.StakeMinimumAmount)
	return table[xtypes.PubKeyHex(pubKey)]
}

// SlashingHistory returns every recorded slashing event.
func (c *Chain) SlashingHistory() []xtypes.SlashingRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]xtypes.SlashingRecord, len(c.slashingHistory))
	copy(out, c.slashingHistory)
	return out
}
