package chainstate

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-pos/internal/mempool"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// AdmitTransaction validates tx against the chain's current UTXO
// index and, if accepted, queues it in the mempool for the next
// proposer slot. A mempool rejection is returned wrapped in the
// matching chainstate sentinel, so errors.Is matches both.
func (c *Chain) AdmitTransaction(tx *xtypes.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.mempool.Admit(tx, c.utxos, c.height())
	switch {
	case errors.Is(err, mempool.ErrStakeLocked):
		return fmt.Errorf("%w: %w", ErrStakeLocked, err)
	case errors.Is(err, mempool.ErrInvalidTransaction):
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	return err
}

// SweepMempool evicts stale pending transactions, per
// cfg.MaxMempoolTxAge.
func (c *Chain) SweepMempool() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mempool.Sweep(c.utxos)
}
