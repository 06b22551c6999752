package wire

import (
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// UTXOEntryWire is the wire shape of a single UTXO returned by
// FetchUTXOs: the output plus whether it's currently soft-locked by
// a pending mempool spend.
type UTXOEntryWire struct {
	Output xtypes.TxOutput `cbor:"1,keyasint"`
	Marked bool            `cbor:"2,keyasint"`
}

// UTXOsPayload answers FetchUTXOs.
type UTXOsPayload struct {
	Entries []UTXOEntryWire `cbor:"1,keyasint"`
}

// NewBlockPayload carries a block, either broadcast by its proposer
// or returned in answer to FetchBlock.
type NewBlockPayload struct {
	Block *xtypes.Block `cbor:"1,keyasint"`
}

// NewTransactionPayload carries a transaction offered to the
// receiver's mempool, with no expectation of further relay.
type NewTransactionPayload struct {
	Transaction *xtypes.Transaction `cbor:"1,keyasint"`
}

// ValidateTemplatePayload asks whether a candidate block's parent
// hash still matches the responder's tip.
type ValidateTemplatePayload struct {
	Template *xtypes.Block `cbor:"1,keyasint"`
}

// TemplateValidityPayload answers ValidateTemplate.
type TemplateValidityPayload struct {
	Valid bool `cbor:"1,keyasint"`
}

// SubmitTemplatePayload submits a fully assembled, signed block for
// the receiver to append and rebroadcast.
type SubmitTemplatePayload struct {
	Block *xtypes.Block `cbor:"1,keyasint"`
}

// SubmitTransactionPayload submits a transaction for the receiver to
// admit to its mempool and rebroadcast.
type SubmitTransactionPayload struct {
	Transaction *xtypes.Transaction `cbor:"1,keyasint"`
}

// FetchTemplatePayload requests an unsigned block candidate naming
// the requester as the proposing validator. The responder only
// builds one if pubkey is in fact the lottery winner for the chain's
// current next height.
type FetchTemplatePayload struct {
	PubKey xtypes.PublicKey `cbor:"1,keyasint"`
}

// TemplatePayload answers FetchTemplate.
type TemplatePayload struct {
	Template *xtypes.Block `cbor:"1,keyasint"`
}

// SlashValidatorPayload requests that a validator be penalized for
// misbehavior. Reason travels as a free-form string, not the typed
// enum — the receiving node maps it to a xtypes.SlashingReason itself
// (substring match on "double"), matching what a conforming peer puts
// on the wire. Evidence is left opaque to the wire layer.
type SlashValidatorPayload struct {
	Validator xtypes.PublicKey `cbor:"1,keyasint"`
	Reason    string           `cbor:"2,keyasint"`
	Evidence  []byte           `cbor:"3,keyasint"`
}
