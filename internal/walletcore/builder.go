package walletcore

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-pos/internal/xcrypto"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// BuildTransfer assembles and signs a transaction spending sel's
// inputs: one output of amount to toPubKey, plus a change output
// back to the signer when sel leaves a remainder. Every input is
// signed over its own output hash, per the chain's signature
// contract — never over the spending transaction's hash.
func BuildTransfer(key *xcrypto.PrivateKey, sel *Selection, amount uint64, toPubKey xtypes.PublicKey) (*xtypes.Transaction, error) {
	if sel.Total < amount {
		return nil, fmt.Errorf("walletcore: selection total %d below requested amount %d", sel.Total, amount)
	}

	tx := &xtypes.Transaction{
		Inputs:  make([]xtypes.TxInput, 0, len(sel.Inputs)),
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(amount, toPubKey, false, 0)},
	}

	if change := sel.Total - amount; change > 0 {
		tx.Outputs = append(tx.Outputs, xtypes.NewTxOutput(change, key.PublicKey(), false, 0))
	}

	for _, out := range sel.Inputs {
		outHash := out.Hash()
		sig, err := key.Sign(outHash)
		if err != nil {
			return nil, fmt.Errorf("walletcore: sign input: %w", err)
		}
		tx.Inputs = append(tx.Inputs, xtypes.TxInput{PrevOutputHash: outHash, Signature: sig})
	}

	return tx, nil
}

// BuildStake assembles and signs a transaction that locks amount of
// the signer's own funds as a new stake output, unlocked at
// lockedUntil, spending sel's inputs and returning any remainder as
// an ordinary change output.
func BuildStake(key *xcrypto.PrivateKey, sel *Selection, amount, lockedUntil uint64) (*xtypes.Transaction, error) {
	if sel.Total < amount {
		return nil, fmt.Errorf("walletcore: selection total %d below requested stake %d", sel.Total, amount)
	}

	pub := key.PublicKey()
	tx := &xtypes.Transaction{
		Inputs:  make([]xtypes.TxInput, 0, len(sel.Inputs)),
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(amount, pub, true, lockedUntil)},
	}

	if change := sel.Total - amount; change > 0 {
		tx.Outputs = append(tx.Outputs, xtypes.NewTxOutput(change, pub, false, 0))
	}

	for _, out := range sel.Inputs {
		outHash := out.Hash()
		sig, err := key.Sign(outHash)
		if err != nil {
			return nil, fmt.Errorf("walletcore: sign input: %w", err)
		}
		tx.Inputs = append(tx.Inputs, xtypes.TxInput{PrevOutputHash: outHash, Signature: sig})
	}

	return tx, nil
}
