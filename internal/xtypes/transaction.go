package xtypes

import (
	"github.com/fxamacker/cbor/v2"
)

// Transaction moves value from previously unspent outputs to new
// outputs. The first transaction of a block (the coinbase) has no
// inputs.
type Transaction struct {
	Inputs  []TxInput  `cbor:"1,keyasint"`
	Outputs []TxOutput `cbor:"2,keyasint"`
}

// IsCoinbase reports whether this transaction spends no inputs,
// which is only legal as the first transaction in a block.
func (t *Transaction) IsCoinbase() bool {
	return len(t.Inputs) == 0
}

// Hash computes the transaction's identity: the BLAKE3 hash of its
// canonical CBOR encoding. This is distinct from the hash an input's
// signature is made over, which is always the *referenced output's*
// hash, never the spending transaction's own hash.
func (t *Transaction) Hash() Hash {
	enc, err := cbor.Marshal(t)
	if err != nil {
		// Only reachable if a field fails to encode, which cannot
		// happen for this closed, encodable struct.
		panic("xtypes: transaction encode: " + err.Error())
	}
	return Sum256(enc)
}

// OutputValue sums the value of the transaction's own outputs.
func (t *Transaction) OutputValue() uint64 {
	var total uint64
	for _, o := range t.Outputs {
		total += o.Value
	}
	return total
}
