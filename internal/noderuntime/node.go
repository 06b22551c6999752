// Package noderuntime wires a chain, a peer-to-peer host, and a block
// proposer into one running node: boot (genesis or chain sync),
// periodic mempool sweep and snapshot persistence, and graceful
// shutdown. Unlike the teacher's package-level globals, every piece
// of state here lives on a Node value so a process can run more than
// one.
package noderuntime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Klingon-tech/klingnet-pos/internal/chainsnapshot"
	"github.com/Klingon-tech/klingnet-pos/internal/chainstate"
	"github.com/Klingon-tech/klingnet-pos/internal/nodeconfig"
	"github.com/Klingon-tech/klingnet-pos/internal/p2p"
	"github.com/Klingon-tech/klingnet-pos/internal/proposer"
	"github.com/Klingon-tech/klingnet-pos/internal/xcrypto"
	"github.com/Klingon-tech/klingnet-pos/internal/xlog"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
	"github.com/Klingon-tech/klingnet-pos/pkg/wire"
)

// GenesisFunc produces the first block a node with no peers and no
// snapshot should start from. Genesis allocation itself (which keys
// get the initial stake) is an external collaborator's concern, so
// this is injected rather than built in.
type GenesisFunc func() (*xtypes.Block, error)

// Config collects everything New needs to assemble a node.
type Config struct {
	NodeConfig nodeconfig.Config
	Key        *xcrypto.PrivateKey

	// ListenAddr is the libp2p multiaddr this node listens on, e.g.
	// "/ip4/0.0.0.0/tcp/9000".
	ListenAddr string
	// BootstrapAddrs are libp2p multiaddrs (including a /p2p/<id>
	// component) of peers to sync from at startup.
	BootstrapAddrs []string

	// SnapshotPath, if non-empty, is where the chain is loaded from at
	// boot (if present) and periodically saved to thereafter.
	SnapshotPath string

	Genesis GenesisFunc
}

// Node owns one chain, one peer-to-peer host, and the proposer slot
// loop, and runs the periodic maintenance tasks around them.
type Node struct {
	cfg   Config
	Chain *chainstate.Chain
	Peers *p2p.PeerSet
	host  *p2p.Node

	proposer *proposer.Proposer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New assembles a node but starts nothing. Call Boot then Run.
func New(cfg Config) (*Node, error) {
	chain := chainstate.New(cfg.NodeConfig)
	peers := p2p.NewPeerSet()

	n := &Node{
		cfg:   cfg,
		Chain: chain,
		Peers: peers,
	}

	handler := &p2p.Handler{
		Chain:         chain,
		Peers:         peers,
		BuildTemplate: n.buildTemplate,
		Dial:          n.dialAddr,
	}

	host, err := p2p.NewNode(cfg.ListenAddr, handler)
	if err != nil {
		return nil, fmt.Errorf("noderuntime: start p2p host: %w", err)
	}
	n.host = host

	if cfg.Key != nil {
		n.proposer = &proposer.Proposer{
			Chain:   chain,
			Cfg:     cfg.NodeConfig,
			Key:     cfg.Key,
			OnBlock: n.broadcastBlock,
		}
	}

	return n, nil
}

// Boot restores or seeds chain state: a snapshot on disk takes
// priority, then chain sync against BootstrapAddrs, then genesis.
func (n *Node) Boot(ctx context.Context) error {
	if n.cfg.SnapshotPath != "" && chainsnapshot.Exists(n.cfg.SnapshotPath) {
		snap, err := chainsnapshot.Load(n.cfg.SnapshotPath)
		if err != nil {
			return fmt.Errorf("noderuntime: load snapshot: %w", err)
		}
		n.Chain.LoadSnapshot(snap)
		xlog.Node.Info().Uint64("height", n.Chain.Height()).Msg("restored chain from snapshot")
		return nil
	}

	if len(n.cfg.BootstrapAddrs) == 0 {
		return n.bootGenesis()
	}
	return n.bootSync(ctx)
}

func (n *Node) bootGenesis() error {
	if n.cfg.Genesis == nil {
		xlog.Node.Info().Msg("no peers and no genesis hook configured; starting with an empty chain")
		return nil
	}
	block, err := n.cfg.Genesis()
	if err != nil {
		return fmt.Errorf("noderuntime: build genesis block: %w", err)
	}
	if err := n.Chain.AddBlock(block); err != nil {
		return fmt.Errorf("noderuntime: append genesis block: %w", err)
	}
	n.Chain.RebuildUTXOs()
	xlog.Node.Info().Msg("chain initialized from genesis")
	return nil
}

// Run starts the proposer slot loop and the periodic mempool sweep
// and snapshot save timers, and blocks until ctx is canceled.
func (n *Node) Run(ctx context.Context) {
	n.ctx, n.cancel = context.WithCancel(ctx)

	if n.proposer != nil {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.proposer.Run(n.ctx)
		}()
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.runMempoolSweep()
	}()

	if n.cfg.SnapshotPath != "" {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.runSnapshotSave()
		}()
	}

	<-n.ctx.Done()
	n.wg.Wait()
}

// Stop cancels every background task and waits for them to exit, then
// closes the peer-to-peer host.
func (n *Node) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
	n.wg.Wait()
	if n.host != nil {
		_ = n.host.Close()
	}
}

func (n *Node) runMempoolSweep() {
	interval := n.cfg.NodeConfig.MempoolSweepInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-n.ctx.Done():
			return
		case <-ticker.C:
			n.Chain.SweepMempool()
		}
	}
}

func (n *Node) runSnapshotSave() {
	interval := n.cfg.NodeConfig.SnapshotSaveInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-n.ctx.Done():
			return
		case <-ticker.C:
			snap := n.Chain.ExportSnapshot()
			if err := chainsnapshot.Save(n.cfg.SnapshotPath, snap); err != nil {
				xlog.Snapshot.Warn().Err(err).Msg("failed to save chain snapshot")
			}
		}
	}
}

func (n *Node) broadcastBlock(b *xtypes.Block) {
	env, err := wire.NewEnvelope(wire.TagNewBlock, wire.NewBlockPayload{Block: b})
	if err != nil {
		xlog.Node.Warn().Err(err).Msg("failed to encode proposed block for broadcast")
		return
	}
	n.Peers.Broadcast(env)
}

func (n *Node) buildTemplate(pubkey xtypes.PublicKey) (*xtypes.Block, error) {
	if n.proposer == nil {
		return nil, fmt.Errorf("noderuntime: node has no signing key, cannot build a template")
	}
	return n.proposer.BuildTemplate(pubkey)
}
