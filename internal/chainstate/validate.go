package chainstate

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-pos/internal/xcrypto"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// verifyTransactions checks every transaction in b against utxos,
// including the coinbase. The coinbase must equal exactly the miner
// fees collected from the rest of the block, so a coinbase that also
// pays the block reward (as BuildTemplate's does) is rejected here;
// the proposer's own slot-loop coinbase pays fees only.
func verifyTransactions(b *xtypes.Block, utxos xtypes.UTXOIndex) error {
	if len(b.Transactions) == 0 {
		return ErrInvalidBlock
	}

	if err := verifyCoinbase(b, utxos); err != nil {
		return err
	}

	spent := make(map[xtypes.Hash]xtypes.TxOutput)
	for _, tx := range b.Transactions[1:] {
		var inputValue, outputValue uint64

		for _, in := range tx.Inputs {
			entry, ok := utxos[in.PrevOutputHash]
			if !ok {
				return ErrInvalidTransaction
			}
			if _, dup := spent[in.PrevOutputHash]; dup {
				return fmt.Errorf("%w: double-spend within block", ErrInvalidTransaction)
			}
			if !xcrypto.Verify(in.PrevOutputHash, in.Signature, entry.Output.PubKey) {
				return ErrInvalidSignature
			}
			inputValue += entry.Output.Value
			spent[in.PrevOutputHash] = entry.Output
		}

		for _, out := range tx.Outputs {
			outputValue += out.Value
		}

		if inputValue < outputValue {
			return ErrInvalidTransaction
		}
	}

	return nil
}

// minerFees sums (inputs - outputs) across every non-coinbase
// transaction in the block, deduplicating repeated references to the
// same input or output the way the original implementation does.
func minerFees(b *xtypes.Block, utxos xtypes.UTXOIndex) (uint64, error) {
	inputs := make(map[xtypes.Hash]xtypes.TxOutput)
	outputs := make(map[xtypes.Hash]xtypes.TxOutput)

	for _, tx := range b.Transactions[1:] {
		for _, in := range tx.Inputs {
			entry, ok := utxos[in.PrevOutputHash]
			if !ok {
				return 0, ErrInvalidTransaction
			}
			inputs[in.PrevOutputHash] = entry.Output
		}
		for _, out := range tx.Outputs {
			outHash := out.Hash()
			if _, dup := outputs[outHash]; dup {
				return 0, ErrInvalidTransaction
			}
			outputs[outHash] = out
		}
	}

	var inputValue, outputValue uint64
	for _, o := range inputs {
		inputValue += o.Value
	}
	for _, o := range outputs {
		outputValue += o.Value
	}
	if inputValue < outputValue {
		return 0, ErrInvalidTransaction
	}
	return inputValue - outputValue, nil
}

func verifyCoinbase(b *xtypes.Block, utxos xtypes.UTXOIndex) error {
	coinbase := b.Transactions[0]
	if !coinbase.IsCoinbase() {
		return ErrInvalidTransaction
	}
	if len(coinbase.Outputs) == 0 {
		return ErrInvalidTransaction
	}

	fees, err := minerFees(b, utxos)
	if err != nil {
		return err
	}
	if coinbase.OutputValue() != fees {
		return ErrInvalidTransaction
	}
	return nil
}
