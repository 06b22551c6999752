package chainstate

import "github.com/Klingon-tech/klingnet-pos/internal/xtypes"

// SnapshotUTXOs returns a shallow copy of the current UTXO index, for
// callers (the proposer's lottery check and candidate assembly) that
// need a consistent read without holding the chain's lock across
// their own multi-step computation.
func (c *Chain) SnapshotUTXOs() xtypes.UTXOIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(xtypes.UTXOIndex, len(c.utxos))
	for k, v := range c.utxos {
		cp := *v
		out[k] = &cp
	}
	return out
}

// SnapshotSlashed returns a copy of the current slashed-balances map.
func (c *Chain) SnapshotSlashed() xtypes.SlashedBalances {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(xtypes.SlashedBalances, len(c.slashedAmounts))
	for k, v := range c.slashedAmounts {
		out[k] = v
	}
	return out
}
