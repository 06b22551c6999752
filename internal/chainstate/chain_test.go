package chainstate

import (
	"testing"

	"github.com/Klingon-tech/klingnet-pos/internal/consensus"
	"github.com/Klingon-tech/klingnet-pos/internal/nodeconfig"
	"github.com/Klingon-tech/klingnet-pos/internal/xcrypto"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
	"github.com/Klingon-tech/klingnet-pos/pkg/merkle"
)

func mustKey(t *testing.T) *xcrypto.PrivateKey {
	t.Helper()
	k, err := xcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return k
}

func sealBlock(t *testing.T, key *xcrypto.PrivateKey, header *xtypes.Header, txs []*xtypes.Transaction) *xtypes.Block {
	t.Helper()
	header.MerkleRoot = merkle.ComputeRoot(txs)
	sig, err := key.Sign(header.Hash())
	if err != nil {
		t.Fatalf("sign header: %v", err)
	}
	return &xtypes.Block{Header: header, Transactions: txs, Signature: sig}
}

func TestGenesisAndTransfer(t *testing.T) {
	cfg := nodeconfig.Default()
	c := New(cfg)
	key := mustKey(t)
	pub := key.PublicKey()

	stakeOut := xtypes.NewTxOutput(cfg.StakeMinimumAmount, pub, true, 1_000_000)
	spendableOut := xtypes.NewTxOutput(500, pub, false, 0)
	genesisCoinbase := &xtypes.Transaction{Outputs: []xtypes.TxOutput{stakeOut, spendableOut}}

	genesisHeader := &xtypes.Header{Timestamp: 1, PrevBlockHash: xtypes.Hash{}, Validator: pub}
	genesis := sealBlock(t, key, genesisHeader, []*xtypes.Transaction{genesisCoinbase})

	if err := c.AddBlock(genesis); err != nil {
		t.Fatalf("genesis should be accepted: %v", err)
	}
	c.RebuildUTXOs()

	if c.Height() != 1 {
		t.Fatalf("expected height 1 after genesis, got %d", c.Height())
	}

	table := consensus.ActiveStakeTable(c.utxos, c.slashedAmounts, c.Height(), cfg.StakeMinimumAmount)
	winner, ok := consensus.SelectValidator(table, genesis.Hash())
	if !ok || winner != pub {
		t.Fatalf("expected our single staked validator to win the lottery")
	}

	transfer := &xtypes.Transaction{
		Inputs:  []xtypes.TxInput{{PrevOutputHash: spendableOut.Hash()}},
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(400, pub, false, 0)},
	}
	sig, err := key.Sign(spendableOut.Hash())
	if err != nil {
		t.Fatalf("sign input: %v", err)
	}
	transfer.Inputs[0].Signature = sig

	coinbase := &xtypes.Transaction{Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(100, pub, false, 0)}}

	header1 := &xtypes.Header{Timestamp: 2, PrevBlockHash: genesis.Hash(), Validator: pub}
	block1 := sealBlock(t, key, header1, []*xtypes.Transaction{coinbase, transfer})

	if err := c.AddBlock(block1); err != nil {
		t.Fatalf("block1 should be accepted: %v", err)
	}
	c.RebuildUTXOs()

	if c.Height() != 2 {
		t.Fatalf("expected height 2, got %d", c.Height())
	}
}

func TestDuplicateAppendBecomesOrphan(t *testing.T) {
	cfg := nodeconfig.Default()
	c := New(cfg)
	key := mustKey(t)
	pub := key.PublicKey()

	coinbase := &xtypes.Transaction{Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(cfg.StakeMinimumAmount, pub, true, 1_000_000)}}
	header := &xtypes.Header{Timestamp: 1, PrevBlockHash: xtypes.Hash{}, Validator: pub}
	genesis := sealBlock(t, key, header, []*xtypes.Transaction{coinbase})

	if err := c.AddBlock(genesis); err != nil {
		t.Fatalf("first genesis append should succeed: %v", err)
	}

	dup := sealBlock(t, key, &xtypes.Header{Timestamp: 1, PrevBlockHash: xtypes.Hash{}, Validator: pub}, []*xtypes.Transaction{coinbase})
	if err := c.AddBlock(dup); err != nil {
		t.Fatalf("a second zero-prev-hash block should be parked as an orphan, not rejected: %v", err)
	}
	if c.Height() != 1 {
		t.Fatalf("orphaned duplicate must not change height, got %d", c.Height())
	}
}

func TestBlockRewardHalving(t *testing.T) {
	cfg := nodeconfig.Default()
	cases := []struct {
		height uint64
		want   uint64
	}{
		{0, 50 * 100_000_000},
		{209, 50 * 100_000_000},
		{210, 25 * 100_000_000},
		{420, 1_250_000_000},
	}
	for _, tc := range cases {
		got := BlockReward(cfg, tc.height)
		if got != tc.want {
			t.Errorf("BlockReward(%d) = %d, want %d", tc.height, got, tc.want)
		}
	}
}

func TestSnapshotRoundTripRestoresUTXOsWithoutRebuild(t *testing.T) {
	cfg := nodeconfig.Default()
	c := New(cfg)
	key := mustKey(t)
	pub := key.PublicKey()

	out := xtypes.NewTxOutput(1000, pub, false, 0)
	coinbase := &xtypes.Transaction{Outputs: []xtypes.TxOutput{out}}
	header := &xtypes.Header{Timestamp: 1, PrevBlockHash: xtypes.Hash{}, Validator: pub}
	genesis := sealBlock(t, key, header, []*xtypes.Transaction{coinbase})
	if err := c.AddBlock(genesis); err != nil {
		t.Fatalf("genesis append failed: %v", err)
	}
	c.RebuildUTXOs()

	snap := c.ExportSnapshot()
	if _, ok := snap.UTXOs[out.Hash()]; !ok {
		t.Fatalf("exported snapshot must include the UTXO index")
	}

	restored := New(cfg)
	restored.LoadSnapshot(snap)

	entry, ok := restored.utxos[out.Hash()]
	if !ok {
		t.Fatalf("loaded chain should have the snapshot's UTXO entry without a rebuild")
	}
	if entry.Output.Value != out.Value {
		t.Fatalf("restored output value mismatch: got %d want %d", entry.Output.Value, out.Value)
	}
	if restored.Height() != 1 {
		t.Fatalf("expected restored height 1, got %d", restored.Height())
	}
}

func TestRebuildUTXOsIdempotent(t *testing.T) {
	cfg := nodeconfig.Default()
	c := New(cfg)
	key := mustKey(t)
	pub := key.PublicKey()

	coinbase := &xtypes.Transaction{Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(1000, pub, false, 0)}}
	header := &xtypes.Header{Timestamp: 1, PrevBlockHash: xtypes.Hash{}, Validator: pub}
	genesis := sealBlock(t, key, header, []*xtypes.Transaction{coinbase})
	if err := c.AddBlock(genesis); err != nil {
		t.Fatalf("genesis append failed: %v", err)
	}

	c.RebuildUTXOs()
	first := len(c.utxos)
	c.RebuildUTXOs()
	second := len(c.utxos)
	if first != second {
		t.Fatalf("rebuild should be idempotent: got %d then %d entries", first, second)
	}
}
