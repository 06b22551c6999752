package walletcore

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// Coin selection errors.
var (
	ErrInsufficientFunds = errors.New("walletcore: insufficient funds")
	ErrNoUTXOs           = errors.New("walletcore: no utxos available")
)

// Selection holds the result of coin selection: which outputs to
// spend, their total value, and the unspent remainder to return as
// change.
type Selection struct {
	Inputs []xtypes.TxOutput
	Total  uint64
	Change uint64
}

// SelectCoins chooses outputs from utxos to fund a spend of target
// units, excluding locked stake and anything the mempool has already
// claimed. It compares two strategies — the single smallest output
// that alone covers the target, and a largest-first accumulation —
// and returns whichever wastes less as change.
func SelectCoins(utxos []xtypes.UTXOEntry, height, target uint64) (*Selection, error) {
	if target == 0 {
		return nil, fmt.Errorf("walletcore: target must be positive")
	}

	candidates := make([]xtypes.TxOutput, 0, len(utxos))
	for _, u := range utxos {
		if u.Marked {
			continue
		}
		if u.Output.IsStake && u.Output.LockedUntil > height {
			continue
		}
		if u.Output.Value == 0 {
			continue
		}
		candidates = append(candidates, u.Output)
	}
	if len(candidates) == 0 {
		return nil, ErrNoUTXOs
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Value < candidates[j].Value
	})

	var single *Selection
	for _, c := range candidates {
		if c.Value >= target {
			single = &Selection{Inputs: []xtypes.TxOutput{c}, Total: c.Value, Change: c.Value - target}
			break
		}
	}

	var accum *Selection
	var selected []xtypes.TxOutput
	var total uint64
	for i := len(candidates) - 1; i >= 0; i-- {
		selected = append(selected, candidates[i])
		total += candidates[i].Value
		if total >= target {
			accum = &Selection{Inputs: selected, Total: total, Change: total - target}
			break
		}
	}

	switch {
	case single != nil && accum != nil:
		if single.Change <= accum.Change {
			return single, nil
		}
		return accum, nil
	case single != nil:
		return single, nil
	case accum != nil:
		return accum, nil
	default:
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, totalValue(candidates), target)
	}
}

func totalValue(outs []xtypes.TxOutput) uint64 {
	var total uint64
	for _, o := range outs {
		total += o.Value
	}
	return total
}
