package mempool

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-pos/internal/nodeconfig"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

func newUTXO(value uint64, pub xtypes.PublicKey) (xtypes.Hash, *xtypes.UTXOEntry) {
	out := xtypes.NewTxOutput(value, pub, false, 0)
	return out.Hash(), &xtypes.UTXOEntry{Output: out}
}

func TestAdmitRejectsUnknownInput(t *testing.T) {
	p := New(nodeconfig.Default())
	tx := &xtypes.Transaction{Inputs: []xtypes.TxInput{{PrevOutputHash: xtypes.Hash{1}}}}
	err := p.Admit(tx, xtypes.UTXOIndex{}, 0)
	if !errors.Is(err, ErrInvalidTransaction) {
		t.Fatalf("expected ErrInvalidTransaction, got %v", err)
	}
}

func TestAdmitRejectsLockedStake(t *testing.T) {
	p := New(nodeconfig.Default())
	var pub xtypes.PublicKey
	out := xtypes.NewTxOutput(100, pub, true, 50)
	hash := out.Hash()
	utxos := xtypes.UTXOIndex{hash: {Output: out}}

	tx := &xtypes.Transaction{Inputs: []xtypes.TxInput{{PrevOutputHash: hash}}}
	err := p.Admit(tx, utxos, 10)
	if !errors.Is(err, ErrStakeLocked) {
		t.Fatalf("expected ErrStakeLocked, got %v", err)
	}
}

func TestAdmitMarksAndSupersedes(t *testing.T) {
	p := New(nodeconfig.Default())
	var pub xtypes.PublicKey
	hash, entry := newUTXO(100, pub)
	utxos := xtypes.UTXOIndex{hash: entry}

	t1 := &xtypes.Transaction{
		Inputs:  []xtypes.TxInput{{PrevOutputHash: hash}},
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(90, pub, false, 0)},
	}
	if err := p.Admit(t1, utxos, 0); err != nil {
		t.Fatalf("t1 should be admitted: %v", err)
	}
	if !entry.Marked {
		t.Fatalf("utxo should be marked after t1 is admitted")
	}
	if p.Len() != 1 {
		t.Fatalf("expected 1 pending tx, got %d", p.Len())
	}

	t2 := &xtypes.Transaction{
		Inputs:  []xtypes.TxInput{{PrevOutputHash: hash}},
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(80, pub, false, 0)},
	}
	if err := p.Admit(t2, utxos, 0); err != nil {
		t.Fatalf("t2 should supersede t1: %v", err)
	}
	if p.Len() != 1 {
		t.Fatalf("expected t1 to be evicted and t2 to take its place, got %d entries", p.Len())
	}
	if !entry.Marked {
		t.Fatalf("utxo should still be marked after t2 re-admits it")
	}
}

func TestOrderedSortsByFeeThenAdmission(t *testing.T) {
	p := New(nodeconfig.Default())
	var pub xtypes.PublicKey

	hashLowFee, entryLowFee := newUTXO(110, pub)
	hashHighFee, entryHighFee := newUTXO(200, pub)
	utxos := xtypes.UTXOIndex{hashLowFee: entryLowFee, hashHighFee: entryHighFee}

	lowFee := &xtypes.Transaction{
		Inputs:  []xtypes.TxInput{{PrevOutputHash: hashLowFee}},
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(100, pub, false, 0)},
	}
	highFee := &xtypes.Transaction{
		Inputs:  []xtypes.TxInput{{PrevOutputHash: hashHighFee}},
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(100, pub, false, 0)},
	}

	if err := p.Admit(lowFee, utxos, 0); err != nil {
		t.Fatalf("lowFee should be admitted: %v", err)
	}
	if err := p.Admit(highFee, utxos, 0); err != nil {
		t.Fatalf("highFee should be admitted: %v", err)
	}

	ordered := p.Ordered()
	if len(ordered) != 2 || ordered[0] != highFee || ordered[1] != lowFee {
		t.Fatalf("expected highFee before lowFee by descending fee, got %+v", ordered)
	}
}

func TestOrderedIncludesUnresolvableEntries(t *testing.T) {
	p := New(nodeconfig.Default())
	var pub xtypes.PublicKey
	hash, entry := newUTXO(100, pub)
	utxos := xtypes.UTXOIndex{hash: entry}

	tx := &xtypes.Transaction{
		Inputs:  []xtypes.TxInput{{PrevOutputHash: hash}},
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(90, pub, false, 0)},
	}
	if err := p.Admit(tx, utxos, 0); err != nil {
		t.Fatalf("tx should be admitted: %v", err)
	}

	// Simulate the output later being spent and dropped from the UTXO
	// index entirely (e.g. consumed by a confirmed block). Ordered
	// must still surface the now-unresolvable entry — filtering is the
	// caller's job, applied only after the per-block cap.
	delete(utxos, hash)

	ordered := p.Ordered()
	if len(ordered) != 1 || ordered[0] != tx {
		t.Fatalf("Ordered must not silently drop unresolvable entries, got %+v", ordered)
	}
}
