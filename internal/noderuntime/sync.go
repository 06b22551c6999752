package noderuntime

import (
	"context"
	"fmt"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/Klingon-tech/klingnet-pos/internal/p2p"
	"github.com/Klingon-tech/klingnet-pos/internal/xlog"
)

// bootSync connects to every configured bootstrap peer, asks each how
// far ahead of height 0 it is, picks the furthest-ahead peer, and
// downloads its chain block by block. Matches the teacher-adjacent
// boot sequence: AskDifference fan-out, pick the max, sequential
// FetchBlock, one UTXO rebuild at the end.
func (n *Node) bootSync(ctx context.Context) error {
	clients := n.dialBootstrapPeers(ctx)
	if len(clients) == 0 {
		xlog.Node.Warn().Msg("no bootstrap peer could be reached, falling back to genesis")
		return n.bootGenesis()
	}

	var best *p2p.Client
	var bestCount int64
	for addr, client := range clients {
		count, err := client.AskDifference(0)
		if err != nil {
			xlog.Node.Debug().Err(err).Str("peer", addr).Msg("AskDifference failed")
			continue
		}
		if count > bestCount {
			bestCount = count
			best = client
		}
	}

	if best == nil || bestCount <= 0 {
		xlog.Node.Info().Msg("no bootstrap peer has a longer chain; starting empty")
		return nil
	}

	xlog.Node.Info().Int64("blocks", bestCount).Msg("syncing chain from bootstrap peer")
	for height := uint64(0); height < uint64(bestCount); height++ {
		resp, err := best.FetchBlock(height)
		if err != nil {
			return fmt.Errorf("noderuntime: fetch block %d during sync: %w", height, err)
		}
		if err := n.Chain.AddBlock(resp.Block); err != nil {
			xlog.Node.Warn().Err(err).Uint64("height", height).Msg("synced block rejected")
			continue
		}
	}
	n.Chain.RebuildUTXOs()
	xlog.Node.Info().Uint64("height", n.Chain.Height()).Msg("chain sync complete")
	return nil
}

// dialBootstrapPeers opens a stream to every reachable bootstrap
// address and wraps it in a protocol client, registering it in the
// node's peer set so later broadcasts reach it too.
func (n *Node) dialBootstrapPeers(ctx context.Context) map[string]*p2p.Client {
	clients := make(map[string]*p2p.Client, len(n.cfg.BootstrapAddrs))
	for _, addr := range n.cfg.BootstrapAddrs {
		client, err := n.dial(ctx, addr)
		if err != nil {
			xlog.Node.Warn().Err(err).Str("peer", addr).Msg("failed to dial bootstrap peer")
			continue
		}
		clients[addr] = client
	}
	return clients
}

// dial connects the host to the peer described by a libp2p multiaddr
// (including its /p2p/<id> component) and opens the protocol stream.
func (n *Node) dial(ctx context.Context, addr string) (*p2p.Client, error) {
	maddr, err := ma.NewMultiaddr(addr)
	if err != nil {
		return nil, fmt.Errorf("parse multiaddr %s: %w", addr, err)
	}
	info, err := peer.AddrInfoFromP2pAddr(maddr)
	if err != nil {
		return nil, fmt.Errorf("parse peer info from %s: %w", addr, err)
	}
	if err := n.host.Host.Connect(ctx, *info); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", info.ID, err)
	}
	return p2p.DialAndHandshake(ctx, n.host.Host, info.ID, addr, n.Peers)
}

// dialAddr is the Handler.Dial hook invoked when a peer announces
// itself via DiscoverNodes. DiscoverNodes only carries a bare
// host:port, not a libp2p multiaddr with a /p2p/<id> component, so
// there is no peer ID to dial here — this is a seam the original
// host:port-based protocol never had to cross. It only logs the
// address and dials nothing; no code in this module dials the
// addresses carried by a NodeList reply either.
func (n *Node) dialAddr(addr string) error {
	xlog.Node.Debug().Str("addr", addr).Msg("discovered peer address has no peer ID to dial directly")
	return nil
}
