package xtypes

import (
	"github.com/fxamacker/cbor/v2"
)

// Header is the signed portion of a block: everything the proposer
// commits to before appending transactions.
type Header struct {
	Timestamp     uint64    `cbor:"1,keyasint"`
	PrevBlockHash Hash      `cbor:"2,keyasint"`
	MerkleRoot    Hash      `cbor:"3,keyasint"`
	Validator     PublicKey `cbor:"4,keyasint"`
}

// Hash computes the header's identity hash — what the proposer's
// signature is actually made over.
func (h *Header) Hash() Hash {
	enc, err := cbor.Marshal(h)
	if err != nil {
		panic("xtypes: header encode: " + err.Error())
	}
	return Sum256(enc)
}

// Block is a signed header plus its transaction list. The zero
// PrevBlockHash marks the genesis block.
type Block struct {
	Header       *Header        `cbor:"1,keyasint"`
	Transactions []*Transaction `cbor:"2,keyasint"`
	Signature    Signature      `cbor:"3,keyasint"`
}

// Hash is the block's identity hash, equal to its header's hash —
// the transaction list is committed to via the header's merkle root,
// not mixed directly into the block hash.
func (b *Block) Hash() Hash {
	return b.Header.Hash()
}
