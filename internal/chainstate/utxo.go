package chainstate

import "github.com/Klingon-tech/klingnet-pos/internal/xtypes"

// RebuildUTXOs replays every block from genesis and recomputes the
// UTXO index from scratch. Per the original design, this is a
// separate step the caller invokes explicitly after AddBlock
// succeeds — AddBlock validates against the *pre-rebuild* index and
// never rebuilds internally, so a caller that forgets to call
// RebuildUTXOs will validate the next block against stale state.
func (c *Chain) RebuildUTXOs() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebuildUTXOs()
}

func (c *Chain) rebuildUTXOs() {
	utxos := make(xtypes.UTXOIndex)
	for _, b := range c.blocks {
		for _, tx := range b.Transactions {
			for _, in := range tx.Inputs {
				delete(utxos, in.PrevOutputHash)
			}
			for _, out := range tx.Outputs {
				utxos[out.Hash()] = &xtypes.UTXOEntry{Output: out}
			}
		}
	}
	c.utxos = utxos
}
