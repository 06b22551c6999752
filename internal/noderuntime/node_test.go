package noderuntime

import (
	"context"
	"testing"
	"time"

	"github.com/Klingon-tech/klingnet-pos/internal/nodeconfig"
	"github.com/Klingon-tech/klingnet-pos/internal/xcrypto"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
	"github.com/Klingon-tech/klingnet-pos/pkg/merkle"
)

func newTestNode(t *testing.T, genesis GenesisFunc) *Node {
	t.Helper()
	key, err := xcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	n, err := New(Config{
		NodeConfig: nodeconfig.Default(),
		Key:        key,
		ListenAddr: "/ip4/127.0.0.1/tcp/0",
		Genesis:    genesis,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(n.Stop)
	return n
}

func TestBootWithoutPeersOrGenesisStaysEmpty(t *testing.T) {
	n := newTestNode(t, nil)
	if err := n.Boot(context.Background()); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if n.Chain.Height() != 0 {
		t.Fatalf("expected empty chain, got height %d", n.Chain.Height())
	}
}

func TestBootFromGenesisFunc(t *testing.T) {
	genesisKey, err := xcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate genesis key: %v", err)
	}
	pub := genesisKey.PublicKey()

	genesisFn := func() (*xtypes.Block, error) {
		coinbase := &xtypes.Transaction{Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(1000, pub, false, 0)}}
		header := &xtypes.Header{Timestamp: 1, Validator: pub}
		header.MerkleRoot = merkle.ComputeRoot([]*xtypes.Transaction{coinbase})
		sig, err := genesisKey.Sign(header.Hash())
		if err != nil {
			return nil, err
		}
		return &xtypes.Block{Header: header, Transactions: []*xtypes.Transaction{coinbase}, Signature: sig}, nil
	}

	n := newTestNode(t, genesisFn)
	if err := n.Boot(context.Background()); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if n.Chain.Height() != 1 {
		t.Fatalf("expected height 1 after genesis boot, got %d", n.Chain.Height())
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	n := newTestNode(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		n.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after context cancel")
	}
}
