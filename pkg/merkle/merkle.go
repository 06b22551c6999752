// Package merkle computes the merkle root committed to in a block
// header.
package merkle

import (
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// ComputeRoot calculates the merkle root of a transaction list.
//
// Algorithm:
//   - 0 transactions: returns zero hash
//   - 1 transaction: returns that transaction's hash
//   - Otherwise: pairwise hash, duplicating the last element if odd
//     count, then recurse on the resulting layer until one hash
//     remains.
func ComputeRoot(txs []*xtypes.Transaction) xtypes.Hash {
	if len(txs) == 0 {
		return xtypes.Hash{}
	}
	if len(txs) == 1 {
		return txs[0].Hash()
	}

	level := make([]xtypes.Hash, len(txs))
	for i, tx := range txs {
		level[i] = tx.Hash()
	}

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}

		next := make([]xtypes.Hash, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next[i/2] = xtypes.ConcatHash(level[i], level[i+1])
		}
		level = next
	}

	return level[0]
}
