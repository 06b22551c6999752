package p2p

import (
	"sync"

	"github.com/Klingon-tech/klingnet-pos/pkg/wire"
	"github.com/libp2p/go-libp2p/core/network"
)

// lockedStream serializes writes to a single peer's stream so
// concurrent broadcasts (a new block and a relayed transaction,
// say) can't interleave their frames.
type lockedStream struct {
	mu     sync.Mutex
	stream network.Stream
}

func (s *lockedStream) send(env *wire.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wire.WriteFrame(s.stream, env)
}

// PeerSet is the concurrent address→stream registry a node's
// broadcasts and sync routines use to reach every connected peer.
// Each entry has its own lock, so sending to peer A never blocks a
// concurrent send to peer B.
type PeerSet struct {
	mu    sync.RWMutex
	peers map[string]*lockedStream
}

// NewPeerSet creates an empty peer set.
func NewPeerSet() *PeerSet {
	return &PeerSet{peers: make(map[string]*lockedStream)}
}

// Add registers a stream under addr, replacing any existing entry.
func (ps *PeerSet) Add(addr string, stream network.Stream) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.peers[addr] = &lockedStream{stream: stream}
}

// Remove drops addr from the set.
func (ps *PeerSet) Remove(addr string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	delete(ps.peers, addr)
}

// Addresses returns every currently known peer address.
func (ps *PeerSet) Addresses() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make([]string, 0, len(ps.peers))
	for addr := range ps.peers {
		out = append(out, addr)
	}
	return out
}

// Send delivers env to the peer at addr. Returns false if no such
// peer is registered.
func (ps *PeerSet) Send(addr string, env *wire.Envelope) bool {
	ps.mu.RLock()
	peer, ok := ps.peers[addr]
	ps.mu.RUnlock()
	if !ok {
		return false
	}
	if err := peer.send(env); err != nil {
		ps.Remove(addr)
		return false
	}
	return true
}

// Broadcast delivers env to every registered peer, best-effort —
// peers that fail to accept the frame are dropped from the set.
func (ps *PeerSet) Broadcast(env *wire.Envelope) {
	for _, addr := range ps.Addresses() {
		ps.Send(addr, env)
	}
}

// Len reports how many peers are currently registered.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.peers)
}
