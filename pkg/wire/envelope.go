package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Envelope is the single wire message shape: a tag naming which
// payload follows, and the payload itself as raw CBOR so the frame
// layer never needs to know the payload's concrete type.
type Envelope struct {
	Tag     MessageTag      `cbor:"1,keyasint"`
	Payload cbor.RawMessage `cbor:"2,keyasint"`
}

// NewEnvelope encodes payload and wraps it with tag.
func NewEnvelope(tag MessageTag, payload interface{}) (*Envelope, error) {
	raw, err := cbor.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wire: encode payload for %s: %w", tag, err)
	}
	return &Envelope{Tag: tag, Payload: raw}, nil
}

// Decode unmarshals the envelope's payload into out, which must be a
// pointer to the struct matching env.Tag.
func (env *Envelope) Decode(out interface{}) error {
	if err := cbor.Unmarshal(env.Payload, out); err != nil {
		return fmt.Errorf("wire: decode payload for %s: %w", env.Tag, err)
	}
	return nil
}

// FetchBlockPayload is FetchBlock's request payload: the height to fetch.
type FetchBlockPayload struct {
	Height uint64 `cbor:"1,keyasint"`
}

// DiscoverNodesPayload carries the sender's listening port so the
// receiver can connect back.
type DiscoverNodesPayload struct {
	SenderPort uint16 `cbor:"1,keyasint"`
}

// NodeListPayload enumerates known peer addresses.
type NodeListPayload struct {
	Addresses []string `cbor:"1,keyasint"`
}

// AskDifferencePayload asks how many blocks the responder has beyond height.
type AskDifferencePayload struct {
	Height uint64 `cbor:"1,keyasint"`
}

// DifferencePayload answers AskDifference: may be negative if the
// asker is ahead of the responder.
type DifferencePayload struct {
	Count int64 `cbor:"1,keyasint"`
}

// BlockHeightPayload answers FetchBlockHeight.
type BlockHeightPayload struct {
	Height uint64 `cbor:"1,keyasint"`
}

// FetchUTXOsPayload requests every UTXO owned by PubKey.
type FetchUTXOsPayload struct {
	PubKey [33]byte `cbor:"1,keyasint"`
}
