package p2p

import "testing"

func TestPeerSetAddRemove(t *testing.T) {
	ps := NewPeerSet()
	if ps.Len() != 0 {
		t.Fatalf("expected empty peer set")
	}

	ps.mu.Lock()
	ps.peers["peer-a"] = &lockedStream{}
	ps.peers["peer-b"] = &lockedStream{}
	ps.mu.Unlock()

	if ps.Len() != 2 {
		t.Fatalf("expected 2 peers, got %d", ps.Len())
	}

	addrs := ps.Addresses()
	if len(addrs) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(addrs))
	}

	ps.Remove("peer-a")
	if ps.Len() != 1 {
		t.Fatalf("expected 1 peer after removal, got %d", ps.Len())
	}

	if ps.Send("peer-a", nil) {
		t.Fatalf("Send to a removed peer should report failure")
	}
}
