package chainstate

import (
	"github.com/Klingon-tech/klingnet-pos/internal/chainsnapshot"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// ExportSnapshot captures the chain's durable state for
// chainsnapshot.Save: blocks, UTXOs, slashing history and slashed
// amounts. The mempool and orphan cache are intentionally excluded —
// both are ephemeral and not meant to survive a restart.
func (c *Chain) ExportSnapshot() chainsnapshot.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]*xtypes.Block, len(c.blocks))
	copy(blocks, c.blocks)

	history := make([]xtypes.SlashingRecord, len(c.slashingHistory))
	copy(history, c.slashingHistory)

	slashed := make(xtypes.SlashedBalances, len(c.slashedAmounts))
	for k, v := range c.slashedAmounts {
		slashed[k] = v
	}

	utxos := make(xtypes.UTXOIndex, len(c.utxos))
	for hash, entry := range c.utxos {
		utxos[hash] = &xtypes.UTXOEntry{Output: entry.Output}
	}

	return chainsnapshot.Snapshot{
		Blocks:          blocks,
		SlashingHistory: history,
		SlashedAmounts:  slashed,
		UTXOs:           utxos,
	}
}

// LoadSnapshot replaces the chain's block list, UTXO index and
// slashing state with snap's. The caller is responsible for making
// sure no other append is racing this call — it's meant for startup,
// before the proposer or peer handler goroutines are running.
func (c *Chain) LoadSnapshot(snap chainsnapshot.Snapshot) {
	c.mu.Lock()
	c.blocks = snap.Blocks
	c.slashingHistory = snap.SlashingHistory
	c.slashedAmounts = snap.SlashedAmounts
	if c.slashedAmounts == nil {
		c.slashedAmounts = make(xtypes.SlashedBalances)
	}
	if snap.UTXOs != nil {
		c.utxos = snap.UTXOs
	} else {
		c.utxos = make(xtypes.UTXOIndex)
	}
	c.mu.Unlock()
}
