package p2p

import "github.com/libp2p/go-libp2p/core/protocol"

// ProtocolID is the single libp2p stream protocol this node speaks.
// Every message — block/transaction gossip, sync queries, template
// negotiation, slashing reports — flows over one long-lived stream
// per peer rather than a protocol ID per message purpose.
const ProtocolID = protocol.ID("/klingnet-pos/wire/1.0.0")
