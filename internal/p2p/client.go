package p2p

import (
	"context"
	"fmt"
	"time"

	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
	"github.com/Klingon-tech/klingnet-pos/pkg/wire"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
)

// requestTimeout bounds how long a client-role request waits for a
// reply before giving up on a peer.
const requestTimeout = 10 * time.Second

// Client issues request/response queries against a single peer
// stream, the role a node plays while syncing or while a wallet
// queries a node.
type Client struct {
	stream network.Stream
}

// NewClient wraps an already-open stream to a peer.
func NewClient(stream network.Stream) *Client {
	return &Client{stream: stream}
}

func (c *Client) roundTrip(tag wire.MessageTag, payload interface{}, out interface{}) error {
	env, err := wire.NewEnvelope(tag, payload)
	if err != nil {
		return err
	}
	if err := wire.WriteFrame(c.stream, env); err != nil {
		return fmt.Errorf("p2p: send %s: %w", tag, err)
	}
	resp, err := wire.ReadFrame(c.stream)
	if err != nil {
		return fmt.Errorf("p2p: read response to %s: %w", tag, err)
	}
	return resp.Decode(out)
}

// FetchBlockHeight asks the peer for its current chain height.
func (c *Client) FetchBlockHeight() (uint64, error) {
	var resp wire.BlockHeightPayload
	if err := c.roundTrip(wire.TagFetchBlockHeight, struct{}{}, &resp); err != nil {
		return 0, err
	}
	return resp.Height, nil
}

// AskDifference asks how many blocks the peer has beyond height.
func (c *Client) AskDifference(height uint64) (int64, error) {
	var resp wire.DifferencePayload
	if err := c.roundTrip(wire.TagAskDifference, wire.AskDifferencePayload{Height: height}, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// FetchBlock requests the block at height.
func (c *Client) FetchBlock(height uint64) (*wire.NewBlockPayload, error) {
	var resp wire.NewBlockPayload
	if err := c.roundTrip(wire.TagFetchBlock, wire.FetchBlockPayload{Height: height}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DiscoverNodes exchanges listening ports and returns the peer's
// known node list.
func (c *Client) DiscoverNodes(selfPort uint16) ([]string, error) {
	var resp wire.NodeListPayload
	if err := c.roundTrip(wire.TagDiscoverNodes, wire.DiscoverNodesPayload{SenderPort: selfPort}, &resp); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// FetchUTXOs asks the peer for every output it knows about for
// pubKey, the query a wallet runs before building a transaction.
func (c *Client) FetchUTXOs(pubKey [33]byte) ([]wire.UTXOEntryWire, error) {
	var resp wire.UTXOsPayload
	if err := c.roundTrip(wire.TagFetchUTXOs, wire.FetchUTXOsPayload{PubKey: pubKey}, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// SubmitTransaction sends tx to the peer for admission and relay. The
// peer closes the connection on rejection, so a write failure here
// usually means the transaction itself was rejected.
func (c *Client) SubmitTransaction(tx *xtypes.Transaction) error {
	env, err := wire.NewEnvelope(wire.TagSubmitTransaction, wire.SubmitTransactionPayload{Transaction: tx})
	if err != nil {
		return err
	}
	return wire.WriteFrame(c.stream, env)
}

// DialAndHandshake opens a new stream to peerID over h and wraps it
// in a Client, registering it with peers under addr so subsequent
// broadcasts reach this peer too.
func DialAndHandshake(ctx context.Context, h interface {
	NewStream(context.Context, peer.ID, ...protocol.ID) (network.Stream, error)
}, peerID peer.ID, addr string, peers *PeerSet) (*Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	stream, err := h.NewStream(dialCtx, peerID, ProtocolID)
	if err != nil {
		return nil, fmt.Errorf("p2p: dial %s: %w", peerID, err)
	}
	peers.Add(addr, stream)
	return NewClient(stream), nil
}
