package chainsnapshot

import (
	"path/filepath"
	"testing"

	"github.com/Klingon-tech/klingnet-pos/internal/xcrypto"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

func sampleSnapshot(t *testing.T) Snapshot {
	t.Helper()
	key, err := xcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pub := key.PublicKey()

	coinbase := &xtypes.Transaction{Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(1000, pub, false, 0)}}
	header := &xtypes.Header{Timestamp: 1, Validator: pub}
	sig, err := key.Sign(header.Hash())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	block := &xtypes.Block{Header: header, Transactions: []*xtypes.Transaction{coinbase}, Signature: sig}
	out := coinbase.Outputs[0]

	return Snapshot{
		Blocks: []*xtypes.Block{block},
		SlashingHistory: []xtypes.SlashingRecord{
			{Validator: pub, Height: 1, Reason: xtypes.SlashDowntime, Penalty: 10},
		},
		SlashedAmounts: xtypes.SlashedBalances{xtypes.PubKeyHex(pub): 10},
		UTXOs: xtypes.UTXOIndex{
			out.Hash(): {Marked: true, Output: out},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.snapshot")

	want := sampleSnapshot(t)
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !Exists(path) {
		t.Fatalf("expected snapshot file to exist at %s", path)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(got.Blocks) != len(want.Blocks) {
		t.Fatalf("block count mismatch: got %d want %d", len(got.Blocks), len(want.Blocks))
	}
	if got.Blocks[0].Hash() != want.Blocks[0].Hash() {
		t.Fatalf("block hash mismatch after round trip")
	}
	if len(got.SlashingHistory) != 1 || got.SlashingHistory[0].Penalty != 10 {
		t.Fatalf("slashing history not preserved: %+v", got.SlashingHistory)
	}
	if got.SlashedAmounts[xtypes.PubKeyHex(want.Blocks[0].Header.Validator)] != 10 {
		t.Fatalf("slashed amounts not preserved: %+v", got.SlashedAmounts)
	}

	wantOut := want.Blocks[0].Transactions[0].Outputs[0]
	gotEntry, ok := got.UTXOs[wantOut.Hash()]
	if !ok {
		t.Fatalf("utxo entry not preserved: %+v", got.UTXOs)
	}
	if gotEntry.Output.Value != wantOut.Value {
		t.Fatalf("utxo output mismatch: got %+v want %+v", gotEntry.Output, wantOut)
	}
	if gotEntry.Marked {
		t.Fatalf("marked must never be persisted across a snapshot round trip")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.snapshot")); err == nil {
		t.Fatalf("expected an error loading a nonexistent snapshot")
	}
}
