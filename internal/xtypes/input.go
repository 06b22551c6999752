package xtypes

// TxInput references a previously unspent output by that output's
// hash, plus a signature over that same hash proving ownership of
// the spending key.
type TxInput struct {
	PrevOutputHash Hash      `cbor:"1,keyasint"`
	Signature      Signature `cbor:"2,keyasint"`
}
