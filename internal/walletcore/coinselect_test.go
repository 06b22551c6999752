package walletcore

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

func makeEntries(values ...uint64) []xtypes.UTXOEntry {
	var pub xtypes.PublicKey
	entries := make([]xtypes.UTXOEntry, len(values))
	for i, v := range values {
		entries[i] = xtypes.UTXOEntry{Output: xtypes.NewTxOutput(v, pub, false, 0)}
	}
	return entries
}

func TestSelectCoinsExactMatch(t *testing.T) {
	sel, err := SelectCoins(makeEntries(1000, 2000, 3000), 0, 2000)
	if err != nil {
		t.Fatalf("SelectCoins: %v", err)
	}
	if sel.Total != 2000 || sel.Change != 0 || len(sel.Inputs) != 1 {
		t.Fatalf("expected exact single-output match, got %+v", sel)
	}
}

func TestSelectCoinsLargestFirst(t *testing.T) {
	sel, err := SelectCoins(makeEntries(1000, 3000, 5000, 2000), 0, 7000)
	if err != nil {
		t.Fatalf("SelectCoins: %v", err)
	}
	if sel.Total != 8000 || sel.Change != 1000 || len(sel.Inputs) != 2 {
		t.Fatalf("expected largest-first 5000+3000, got %+v", sel)
	}
}

func TestSelectCoinsInsufficientFunds(t *testing.T) {
	_, err := SelectCoins(makeEntries(1000, 2000), 0, 5000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestSelectCoinsNoUTXOs(t *testing.T) {
	_, err := SelectCoins(nil, 0, 1000)
	if !errors.Is(err, ErrNoUTXOs) {
		t.Fatalf("expected ErrNoUTXOs, got %v", err)
	}
}

func TestSelectCoinsExcludesLockedStakeAndMarked(t *testing.T) {
	var pub xtypes.PublicKey
	locked := xtypes.UTXOEntry{Output: xtypes.NewTxOutput(10000, pub, true, 100)}
	marked := xtypes.UTXOEntry{Marked: true, Output: xtypes.NewTxOutput(10000, pub, false, 0)}
	spendable := xtypes.UTXOEntry{Output: xtypes.NewTxOutput(500, pub, false, 0)}

	_, err := SelectCoins([]xtypes.UTXOEntry{locked, marked, spendable}, 50, 500)
	if err != nil {
		t.Fatalf("expected the one spendable output to cover the target: %v", err)
	}

	_, err = SelectCoins([]xtypes.UTXOEntry{locked, marked}, 50, 500)
	if !errors.Is(err, ErrNoUTXOs) {
		t.Fatalf("expected ErrNoUTXOs once locked stake and marked outputs are excluded, got %v", err)
	}
}
