// Package chainstate implements the blockchain state machine: block
// append with its ordered precondition checks, UTXO rebuild, orphan
// resolution, block rewards, and slashing.
package chainstate

import (
	"fmt"
	"sync"

	"github.com/Klingon-tech/klingnet-pos/internal/consensus"
	"github.com/Klingon-tech/klingnet-pos/internal/mempool"
	"github.com/Klingon-tech/klingnet-pos/internal/nodeconfig"
	"github.com/Klingon-tech/klingnet-pos/internal/xcrypto"
	"github.com/Klingon-tech/klingnet-pos/internal/xlog"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
	"github.com/Klingon-tech/klingnet-pos/pkg/merkle"
)

// Chain holds the full, in-memory chain state. A single RWMutex
// guards every mutation; readers (peer protocol queries, the
// proposer's lottery check) take the read lock and may run
// concurrently, while AddBlock and RebuildUTXOs take the write lock.
type Chain struct {
	mu sync.RWMutex

	cfg nodeconfig.Config

	blocks          []*xtypes.Block
	utxos           xtypes.UTXOIndex
	mempool         *mempool.Pool
	orphans         xtypes.OrphanCache
	slashingHistory []xtypes.SlashingRecord
	slashedAmounts  xtypes.SlashedBalances
}

// New creates an empty chain ready to receive a genesis block.
func New(cfg nodeconfig.Config) *Chain {
	return &Chain{
		cfg:            cfg,
		utxos:          make(xtypes.UTXOIndex),
		mempool:        mempool.New(cfg),
		orphans:        make(xtypes.OrphanCache),
		slashedAmounts: make(xtypes.SlashedBalances),
	}
}

// Height returns the number of blocks appended so far.
func (c *Chain) Height() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height()
}

func (c *Chain) height() uint64 {
	return uint64(len(c.blocks))
}

// Tip returns the last appended block, or nil if the chain is empty.
func (c *Chain) Tip() *xtypes.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tip()
}

func (c *Chain) tip() *xtypes.Block {
	if len(c.blocks) == 0 {
		return nil
	}
	return c.blocks[len(c.blocks)-1]
}

// BlockAt returns the block at the given height, or nil if out of
// range.
func (c *Chain) BlockAt(height uint64) *xtypes.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if height >= uint64(len(c.blocks)) {
		return nil
	}
	return c.blocks[height]
}

// Mempool exposes the chain's mempool to the proposer and the peer
// protocol handler.
func (c *Chain) Mempool() *mempool.Pool {
	return c.mempool
}

// UTXOsFor returns every output owned by pubKey, along with its
// current mempool soft-lock state.
func (c *Chain) UTXOsFor(pubKey xtypes.PublicKey) []xtypes.UTXOEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []xtypes.UTXOEntry
	for _, entry := range c.utxos {
		if entry.Output.PubKey == pubKey {
			out = append(out, *entry)
		}
	}
	return out
}

// AddBlock validates and appends a block, implementing the ordered
// preconditions: if the block doesn't chain onto the current tip (or
// onto the zero hash for an empty chain) it is parked as an orphan
// and this is NOT an error — a block arriving out of order is
// routine in a gossiping network, not a protocol violation. Once b is
// appended, orphans waiting on it are attached by drainOrphans' work
// list, never by addBlock recursing into itself.
func (c *Chain) AddBlock(b *xtypes.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.addBlock(b); err != nil {
		return err
	}
	if c.tip() == b {
		c.drainOrphans(b.Hash())
	}
	return nil
}

// addBlock must be called with c.mu held for writing.
func (c *Chain) addBlock(b *xtypes.Block) error {
	if len(c.blocks) == 0 {
		if !b.Header.PrevBlockHash.IsZero() {
			c.parkOrphan(b)
			return nil
		}
	} else {
		last := c.blocks[len(c.blocks)-1]
		if b.Header.PrevBlockHash != last.Hash() {
			c.parkOrphan(b)
			return nil
		}

		table := consensus.ActiveStakeTable(c.utxos, c.slashedAmounts, c.height(), c.cfg.StakeMinimumAmount)
		expected, ok := consensus.SelectValidator(table, b.Header.PrevBlockHash)
		if !ok {
			return ErrInvalidValidator
		}
		if b.Header.Validator != expected {
			return ErrInvalidValidator
		}

		if !xcrypto.Verify(b.Header.Hash(), b.Signature, b.Header.Validator) {
			return ErrInvalidSignature
		}

		if merkle.ComputeRoot(b.Transactions) != b.Header.MerkleRoot {
			return ErrInvalidMerkleRoot
		}

		if b.Header.Timestamp <= last.Header.Timestamp {
			return fmt.Errorf("%w: timestamp %d not after previous %d", ErrInvalidBlock, b.Header.Timestamp, last.Header.Timestamp)
		}

		if err := verifyTransactions(b, c.utxos); err != nil {
			return err
		}
	}

	included := make(map[xtypes.Hash]struct{}, len(b.Transactions))
	for _, tx := range b.Transactions {
		included[tx.Hash()] = struct{}{}
	}
	c.mempool.RemoveIncluded(included)

	c.blocks = append(c.blocks, b)
	xlog.Chain.Info().Uint64("height", c.height()-1).Msg("block appended")
	return nil
}

func (c *Chain) parkOrphan(b *xtypes.Block) {
	parent := b.Header.PrevBlockHash
	c.orphans[parent] = append(c.orphans[parent], b)
	xlog.Chain.Debug().Msg("block parked as orphan, parent not yet known")
}
