// Package mempool implements the pending-transaction pool: admission
// against the chain's UTXO index, the soft-lock ("marked") flag that
// tracks in-flight spends, last-writer-wins supersession of
// conflicting pending transactions, fee-ordered iteration, and
// age-based eviction.
package mempool

import (
	"sort"
	"sync"
	"time"

	"github.com/Klingon-tech/klingnet-pos/internal/nodeconfig"
	"github.com/Klingon-tech/klingnet-pos/internal/xlog"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// Pool is a fee-sortable set of pending transactions, keyed by
// transaction hash. Supersession scans every entry's inputs.
type Pool struct {
	mu      sync.RWMutex
	cfg     nodeconfig.Config
	entries map[xtypes.Hash]xtypes.MempoolEntry
}

// New creates an empty pool. There is deliberately no maximum size:
// the reference design this pool is modeled on has none, relying
// instead on age-based eviction and the per-block transaction cap to
// bound resource use.
func New(cfg nodeconfig.Config) *Pool {
	return &Pool{cfg: cfg, entries: make(map[xtypes.Hash]xtypes.MempoolEntry)}
}

// Admit validates tx against utxos and, if accepted, inserts it into
// the pool. It implements the soft-lock/supersession rule: if any
// input tx spends is already marked by a pending transaction, that
// earlier transaction is evicted (and its own inputs unmarked)
// before tx takes its place — last writer wins, rather than
// rejecting the new transaction outright.
func (p *Pool) Admit(tx *xtypes.Transaction, utxos xtypes.UTXOIndex, height uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[xtypes.Hash]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		entry, ok := utxos[in.PrevOutputHash]
		if !ok {
			return errInvalidTransaction
		}
		if entry.Output.IsStake && entry.Output.LockedUntil > height {
			return errStakeLocked
		}
		if _, dup := seen[in.PrevOutputHash]; dup {
			return errInvalidTransaction
		}
		seen[in.PrevOutputHash] = struct{}{}
	}

	for _, in := range tx.Inputs {
		entry := utxos[in.PrevOutputHash]
		if !entry.Marked {
			continue
		}
		p.supersede(in.PrevOutputHash, utxos)
	}

	var inputValue, outputValue uint64
	for _, in := range tx.Inputs {
		inputValue += utxos[in.PrevOutputHash].Output.Value
	}
	for _, out := range tx.Outputs {
		outputValue += out.Value
	}
	if inputValue < outputValue {
		return errInvalidTransaction
	}

	for _, in := range tx.Inputs {
		utxos[in.PrevOutputHash].Marked = true
	}

	p.entries[tx.Hash()] = xtypes.MempoolEntry{
		AdmittedAt: time.Now(),
		Fee:        inputValue - outputValue,
		Tx:         tx,
	}
	xlog.Mempool.Debug().Msg("transaction admitted")
	return nil
}

// supersede finds the pending transaction that currently marks
// outputHash, evicts it from the pool, and unmarks every UTXO that
// transaction had claimed.
func (p *Pool) supersede(outputHash xtypes.Hash, utxos xtypes.UTXOIndex) {
	for hash, entry := range p.entries {
		for _, spent := range entry.Tx.Inputs {
			if spent.PrevOutputHash == outputHash {
				for _, in := range entry.Tx.Inputs {
					if e, ok := utxos[in.PrevOutputHash]; ok {
						e.Marked = false
					}
				}
				delete(p.entries, hash)
				return
			}
		}
	}
	// No pending transaction references this output; simply clear
	// the stale mark.
	if e, ok := utxos[outputHash]; ok {
		e.Marked = false
	}
}

// RemoveIncluded drops every entry whose hash appears in included,
// called once a block carrying those transactions has been appended.
func (p *Pool) RemoveIncluded(included map[xtypes.Hash]struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for hash := range included {
		delete(p.entries, hash)
	}
}

// Sweep evicts every entry older than cfg.MaxMempoolTxAge, unmarking
// the UTXOs those transactions had claimed.
func (p *Pool) Sweep(utxos xtypes.UTXOIndex) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	for hash, entry := range p.entries {
		if now.Sub(entry.AdmittedAt) <= p.cfg.MaxMempoolTxAge {
			continue
		}
		for _, in := range entry.Tx.Inputs {
			if e, ok := utxos[in.PrevOutputHash]; ok {
				e.Marked = false
			}
		}
		delete(p.entries, hash)
	}
}

// Ordered returns every pending transaction in current priority
// order — descending fee (as recorded at admission), ties broken by
// earlier admission time — with no regard to whether their inputs
// still resolve against any particular UTXO snapshot. A proposer caps
// this list to its per-block transaction budget *before* filtering
// for resolvability, not after: a low-priority but still-resolvable
// transaction must never bump a higher-priority one out of the block
// because some other, unrelated entry further down the list happened
// to be unresolvable.
func (p *Pool) Ordered() []*xtypes.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entries := make([]xtypes.MempoolEntry, 0, len(p.entries))
	for _, entry := range p.entries {
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Fee != entries[j].Fee {
			return entries[i].Fee > entries[j].Fee
		}
		return entries[i].AdmittedAt.Before(entries[j].AdmittedAt)
	})

	out := make([]*xtypes.Transaction, len(entries))
	for i, e := range entries {
		out[i] = e.Tx
	}
	return out
}

// Len reports the number of pending transactions.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
