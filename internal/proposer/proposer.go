// Package proposer runs the block-proposal slot loop: once per slot
// it checks whether this node's key won the validator lottery, and
// if so assembles, signs, and broadcasts a new block.
package proposer

import (
	"context"
	"fmt"
	"time"

	"github.com/Klingon-tech/klingnet-pos/internal/chainstate"
	"github.com/Klingon-tech/klingnet-pos/internal/consensus"
	"github.com/Klingon-tech/klingnet-pos/internal/nodeconfig"
	"github.com/Klingon-tech/klingnet-pos/internal/xcrypto"
	"github.com/Klingon-tech/klingnet-pos/internal/xlog"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
	"github.com/Klingon-tech/klingnet-pos/pkg/merkle"
)

// Proposer holds the signing key and chain reference needed to run
// the slot loop.
type Proposer struct {
	Chain *chainstate.Chain
	Cfg   nodeconfig.Config
	Key   *xcrypto.PrivateKey

	// OnBlock is called with every block this node successfully
	// proposes and appends, so the caller (the node runtime) can
	// broadcast it without this package needing to know the wire
	// envelope shape.
	OnBlock func(*xtypes.Block)
}

// Run drives the slot loop until ctx is canceled.
func (p *Proposer) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Cfg.SlotDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tryPropose()
		}
	}
}

func (p *Proposer) tryPropose() {
	tip := p.Chain.Tip()
	var seed xtypes.Hash
	var prevTimestamp uint64
	height := p.Chain.Height()
	if tip != nil {
		seed = tip.Hash()
		prevTimestamp = tip.Header.Timestamp
	}

	table := consensus.ActiveStakeTable(p.chainUTXOs(), p.chainSlashed(), height, p.Cfg.StakeMinimumAmount)
	winner, ok := consensus.SelectValidator(table, seed)
	if !ok || winner != p.Key.PublicKey() {
		return
	}

	block, err := p.buildCandidate(seed, prevTimestamp)
	if err != nil {
		xlog.Proposer.Warn().Err(err).Msg("failed to build candidate block, skipping slot")
		return
	}
	sig, err := p.Key.Sign(block.Header.Hash())
	if err != nil {
		xlog.Proposer.Warn().Err(err).Msg("failed to sign candidate block, skipping slot")
		return
	}
	block.Signature = sig

	if err := p.Chain.AddBlock(block); err != nil {
		xlog.Proposer.Warn().Err(err).Msg("failed to append our own proposed block, skipping slot")
		return
	}
	p.Chain.RebuildUTXOs()

	xlog.Proposer.Info().Uint64("height", height).Msg("proposed new block")
	if p.OnBlock != nil {
		p.OnBlock(block)
	}
}

// BuildTemplate assembles an unsigned candidate block naming pubkey
// as the validator, answering a peer's FetchTemplate. It refuses
// (returns an error) unless pubkey is actually the lottery winner at
// the chain's current next height — a node has no business handing
// out a block template to a validator whose slot it isn't.
//
// Unlike the proposer's own slot-loop coinbase (buildCandidate, fees
// only), this legacy path mints the full block_reward(height) plus
// fees — the discrepancy the proposer's own path doesn't replicate is
// preserved here deliberately, per the design notes on the two
// diverging coinbase policies.
func (p *Proposer) BuildTemplate(pubkey xtypes.PublicKey) (*xtypes.Block, error) {
	tip := p.Chain.Tip()
	height := p.Chain.Height()
	var prevHash xtypes.Hash
	var prevTimestamp uint64
	if tip != nil {
		prevHash = tip.Hash()
		prevTimestamp = tip.Header.Timestamp
	}

	table := consensus.ActiveStakeTable(p.chainUTXOs(), p.chainSlashed(), height, p.Cfg.StakeMinimumAmount)
	winner, ok := consensus.SelectValidator(table, prevHash)
	if !ok || winner != pubkey {
		return nil, fmt.Errorf("proposer: requester is not the expected validator at height %d", height)
	}

	reward := chainstate.BlockReward(p.Cfg, height)
	txs, fees := p.selectMempool()
	coinbase := &xtypes.Transaction{
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(reward+fees, pubkey, false, 0)},
	}
	txs = append([]*xtypes.Transaction{coinbase}, txs...)

	header := assembleHeader(prevHash, prevTimestamp, pubkey, txs)
	return &xtypes.Block{Header: header, Transactions: txs}, nil
}

// buildCandidate assembles the proposer's own block at the current
// tip: up to cfg.BlockTransactionCap mempool transactions whose
// inputs are still resolvable, preceded by a coinbase that pays out
// exactly the fees those transactions collected — not the block
// reward, which (per the design this proposer follows) is never
// actually minted into a spendable output on this path. The returned
// block is unsigned; the caller signs it.
func (p *Proposer) buildCandidate(prevHash xtypes.Hash, prevTimestamp uint64) (*xtypes.Block, error) {
	txs, fees := p.selectMempool()

	coinbase := &xtypes.Transaction{
		Outputs: []xtypes.TxOutput{xtypes.NewTxOutput(fees, p.Key.PublicKey(), false, 0)},
	}
	txs = append([]*xtypes.Transaction{coinbase}, txs...)

	header := assembleHeader(prevHash, prevTimestamp, p.Key.PublicKey(), txs)
	return &xtypes.Block{Header: header, Transactions: txs}, nil
}

// selectMempool reads up to cfg.BlockTransactionCap pending
// transactions in current priority order, then filters *that* slice
// down to the ones whose inputs still resolve against the current
// UTXO snapshot (and whose inputs cover their outputs), summing the
// fees the survivors collect. The cap is applied before the
// resolvability filter, not after — an entry ranked below the cap
// never displaces one ranked above it just because something higher
// up turned out unresolvable.
func (p *Proposer) selectMempool() ([]*xtypes.Transaction, uint64) {
	utxos := p.chainUTXOs()
	ordered := p.Chain.Mempool().Ordered()
	if len(ordered) > p.Cfg.BlockTransactionCap {
		ordered = ordered[:p.Cfg.BlockTransactionCap]
	}

	var fees uint64
	candidates := make([]*xtypes.Transaction, 0, len(ordered))
	for _, tx := range ordered {
		var inputValue uint64
		resolvable := true
		for _, in := range tx.Inputs {
			entry, ok := utxos[in.PrevOutputHash]
			if !ok {
				resolvable = false
				break
			}
			inputValue += entry.Output.Value
		}
		if !resolvable || inputValue < tx.OutputValue() {
			continue
		}
		candidates = append(candidates, tx)
		fees += inputValue - tx.OutputValue()
	}
	return candidates, fees
}

func assembleHeader(prevHash xtypes.Hash, prevTimestamp uint64, validator xtypes.PublicKey, txs []*xtypes.Transaction) *xtypes.Header {
	timestamp := prevTimestamp + 1
	if now := uint64(time.Now().Unix()); now > timestamp {
		timestamp = now
	}
	return &xtypes.Header{
		Timestamp:     timestamp,
		PrevBlockHash: prevHash,
		MerkleRoot:    merkle.ComputeRoot(txs),
		Validator:     validator,
	}
}

func (p *Proposer) chainUTXOs() xtypes.UTXOIndex {
	return p.Chain.SnapshotUTXOs()
}

func (p *Proposer) chainSlashed() xtypes.SlashedBalances {
	return p.Chain.SnapshotSlashed()
}
