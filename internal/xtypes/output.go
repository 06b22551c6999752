package xtypes

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// TxOutput is a single spendable output. Unlike an outpoint-indexed
// UTXO model, an output's identity is the hash of its own serialized
// form — including a random 128-bit ID — so two outputs with
// otherwise identical value/pubkey/stake fields never collide.
type TxOutput struct {
	ID          uuid.UUID `cbor:"1,keyasint"`
	Value       uint64    `cbor:"2,keyasint"`
	PubKey      PublicKey `cbor:"3,keyasint"`
	IsStake     bool      `cbor:"4,keyasint"`
	LockedUntil uint64    `cbor:"5,keyasint"`
}

// NewTxOutput builds an output with a fresh random ID.
func NewTxOutput(value uint64, pubKey PublicKey, isStake bool, lockedUntil uint64) TxOutput {
	return TxOutput{
		ID:          uuid.New(),
		Value:       value,
		PubKey:      pubKey,
		IsStake:     isStake,
		LockedUntil: lockedUntil,
	}
}

// Hash computes the content-addressed identity of the output: the
// BLAKE3 hash of its ID, value, pubkey, and stake fields.
func (o TxOutput) Hash() Hash {
	buf := make([]byte, 0, 16+8+len(o.PubKey)+1+8)
	idBytes, _ := o.ID.MarshalBinary()
	buf = append(buf, idBytes...)
	var valBuf [8]byte
	binary.BigEndian.PutUint64(valBuf[:], o.Value)
	buf = append(buf, valBuf[:]...)
	buf = append(buf, o.PubKey[:]...)
	if o.IsStake {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	var lockBuf [8]byte
	binary.BigEndian.PutUint64(lockBuf[:], o.LockedUntil)
	buf = append(buf, lockBuf[:]...)
	return Sum256(buf)
}
