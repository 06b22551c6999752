package merkle

import (
	"testing"

	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

func txWithOutput(value uint64) *xtypes.Transaction {
	return &xtypes.Transaction{
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(value, xtypes.PublicKey{}, false, 0)},
	}
}

func TestComputeRoot(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := ComputeRoot(nil)
		if !got.IsZero() {
			t.Fatalf("expected zero hash for empty input, got %x", got)
		}
	})

	t.Run("single", func(t *testing.T) {
		tx := txWithOutput(1)
		got := ComputeRoot([]*xtypes.Transaction{tx})
		want := tx.Hash()
		if got != want {
			t.Fatalf("single-tx root should equal the tx hash: got %x want %x", got, want)
		}
	})

	t.Run("odd count duplicates last", func(t *testing.T) {
		a, b, c := txWithOutput(1), txWithOutput(2), txWithOutput(3)
		rootOdd := ComputeRoot([]*xtypes.Transaction{a, b, c})
		rootPadded := ComputeRoot([]*xtypes.Transaction{a, b, c, c})
		if rootOdd != rootPadded {
			t.Fatalf("odd-count root should equal duplicating the last leaf: %x vs %x", rootOdd, rootPadded)
		}
	})

	t.Run("deterministic and order-sensitive", func(t *testing.T) {
		a, b := txWithOutput(1), txWithOutput(2)
		r1 := ComputeRoot([]*xtypes.Transaction{a, b})
		r2 := ComputeRoot([]*xtypes.Transaction{a, b})
		if r1 != r2 {
			t.Fatalf("root must be deterministic for the same input")
		}
		r3 := ComputeRoot([]*xtypes.Transaction{b, a})
		if r1 == r3 {
			t.Fatalf("root must depend on transaction order")
		}
	})
}
