// Package p2p implements the peer protocol handler: one libp2p host
// per node, speaking a single custom stream protocol rather than
// GossipSub/Kademlia, matching the closed message union the node
// actually needs (block/transaction relay, chain sync queries,
// template negotiation, slashing reports).
package p2p

import (
	"fmt"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
)

// Node wraps a libp2p host bound to ProtocolID, dispatching every
// inbound stream to Handler.
type Node struct {
	Host    host.Host
	Handler *Handler
}

// NewNode creates a libp2p host listening on listenAddr (e.g.
// "/ip4/0.0.0.0/tcp/9000") and registers the stream handler.
func NewNode(listenAddr string, handler *Handler) (*Node, error) {
	h, err := libp2p.New(libp2p.ListenAddrStrings(listenAddr))
	if err != nil {
		return nil, fmt.Errorf("p2p: create libp2p host: %w", err)
	}

	n := &Node{Host: h, Handler: handler}
	h.SetStreamHandler(ProtocolID, func(s network.Stream) {
		handler.HandleStream(s)
	})
	return n, nil
}

// Close shuts down the host, terminating every open stream.
func (n *Node) Close() error {
	return n.Host.Close()
}
