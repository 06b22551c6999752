package p2p

import (
	"errors"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/Klingon-tech/klingnet-pos/internal/chainstate"
	"github.com/Klingon-tech/klingnet-pos/internal/xlog"
	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
	"github.com/Klingon-tech/klingnet-pos/pkg/wire"
	"github.com/libp2p/go-libp2p/core/network"
)

// TemplateBuilder assembles an unsigned candidate block for pubkey,
// used to answer FetchTemplate. It is injected rather than imported
// directly so this package never needs to know how the proposer
// picks transactions, computes the coinbase, or checks lottery
// eligibility — it only knows the builder fails if pubkey isn't the
// expected validator.
type TemplateBuilder func(pubkey xtypes.PublicKey) (*xtypes.Block, error)

// Handler dispatches every frame received on one peer's stream
// against the shared chain state.
type Handler struct {
	Chain           *chainstate.Chain
	Peers           *PeerSet
	ListenPort      uint16
	BuildTemplate   TemplateBuilder
	Dial            func(addr string) error
}

// HandleStream runs the read/dispatch loop for one inbound stream
// until the peer disconnects or sends a malformed frame.
func (h *Handler) HandleStream(stream network.Stream) {
	defer stream.Close()

	addr := stream.Conn().RemoteMultiaddr().String()
	h.Peers.Add(addr, stream)
	defer h.Peers.Remove(addr)

	for {
		env, err := wire.ReadFrame(stream)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			xlog.P2P.Debug().Err(err).Msg("malformed frame, closing connection")
			return
		}

		if env.Tag.ClientOnly() {
			xlog.P2P.Warn().Str("tag", env.Tag.String()).Msg("received a client-only tag, closing connection")
			return
		}

		if !h.dispatch(stream, addr, env) {
			return
		}
	}
}

// dispatch handles one envelope. Returning false closes the
// connection (used for the "reject closes" cases per the protocol's
// error policy: a rejected NewTransaction/SubmitTransaction closes,
// a rejected NewBlock does not).
func (h *Handler) dispatch(stream network.Stream, addr string, env *wire.Envelope) bool {
	switch env.Tag {
	case wire.TagFetchBlock:
		var p wire.FetchBlockPayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		block := h.Chain.BlockAt(p.Height)
		if block == nil {
			return true
		}
		h.reply(stream, wire.TagNewBlock, wire.NewBlockPayload{Block: block})
		return true

	case wire.TagDiscoverNodes:
		var p wire.DiscoverNodesPayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		host, _, err := net.SplitHostPort(addr)
		if err == nil && h.Dial != nil {
			peerAddr := net.JoinHostPort(host, strconv.Itoa(int(p.SenderPort)))
			_ = h.Dial(peerAddr)
		}
		h.reply(stream, wire.TagNodeList, wire.NodeListPayload{Addresses: h.Peers.Addresses()})
		return true

	case wire.TagAskDifference:
		var p wire.AskDifferencePayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		diff := int64(h.Chain.Height()) - int64(p.Height)
		h.reply(stream, wire.TagDifference, wire.DifferencePayload{Count: diff})
		return true

	case wire.TagFetchBlockHeight:
		h.reply(stream, wire.TagBlockHeight, wire.BlockHeightPayload{Height: h.Chain.Height()})
		return true

	case wire.TagFetchUTXOs:
		var p wire.FetchUTXOsPayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		entries := h.Chain.UTXOsFor(p.PubKey)
		wireEntries := make([]wire.UTXOEntryWire, len(entries))
		for i, e := range entries {
			wireEntries[i] = wire.UTXOEntryWire{Output: e.Output, Marked: e.Marked}
		}
		h.reply(stream, wire.TagUTXOs, wire.UTXOsPayload{Entries: wireEntries})
		return true

	case wire.TagNewBlock:
		var p wire.NewBlockPayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		if err := h.Chain.AddBlock(p.Block); err != nil {
			xlog.P2P.Info().Err(err).Msg("new block rejected")
			return true
		}
		h.Chain.RebuildUTXOs()
		return true

	case wire.TagNewTransaction:
		var p wire.NewTransactionPayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		if err := h.admitTx(p.Transaction); err != nil {
			xlog.P2P.Info().Err(err).Msg("transaction rejected, closing connection")
			return false
		}
		return true

	case wire.TagValidateTemplate:
		var p wire.ValidateTemplatePayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		tip := h.Chain.Tip()
		var tipHash xtypes.Hash
		if tip != nil {
			tipHash = tip.Hash()
		}
		valid := p.Template.Header.PrevBlockHash == tipHash
		h.reply(stream, wire.TagTemplateValidity, wire.TemplateValidityPayload{Valid: valid})
		return true

	case wire.TagSubmitTemplate:
		var p wire.SubmitTemplatePayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		if err := h.Chain.AddBlock(p.Block); err != nil {
			xlog.P2P.Info().Err(err).Msg("submitted template rejected")
			return true
		}
		h.Chain.RebuildUTXOs()
		h.Peers.Broadcast(mustEnvelope(wire.TagNewBlock, wire.NewBlockPayload{Block: p.Block}))
		return true

	case wire.TagSubmitTransaction:
		var p wire.SubmitTransactionPayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		if err := h.admitTx(p.Transaction); err != nil {
			xlog.P2P.Info().Err(err).Msg("submitted transaction rejected, closing connection")
			return false
		}
		h.Peers.Broadcast(mustEnvelope(wire.TagNewTransaction, wire.NewTransactionPayload{Transaction: p.Transaction}))
		return true

	case wire.TagFetchTemplate:
		var p wire.FetchTemplatePayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		if h.BuildTemplate == nil {
			return true
		}
		tmpl, err := h.BuildTemplate(p.PubKey)
		if err != nil {
			xlog.P2P.Debug().Err(err).Msg("refusing template, requester is not the expected validator")
			return true
		}
		h.reply(stream, wire.TagTemplate, wire.TemplatePayload{Template: tmpl})
		return true

	case wire.TagSlashValidator:
		var p wire.SlashValidatorPayload
		if err := env.Decode(&p); err != nil {
			return false
		}
		reason := xtypes.SlashDowntime
		if strings.Contains(strings.ToLower(p.Reason), "double") {
			reason = xtypes.SlashDoubleSign
		}
		if _, err := h.Chain.Slash(p.Validator, reason); err != nil {
			xlog.P2P.Info().Err(err).Msg("slash request failed")
		}
		return true

	default:
		xlog.P2P.Warn().Str("tag", env.Tag.String()).Msg("unrecognized tag, closing connection")
		return false
	}
}

func (h *Handler) admitTx(tx *xtypes.Transaction) error {
	// Admit locks the chain's UTXO index for the duration of the
	// call via the exported helper, which takes the chain's write
	// lock internally.
	return h.Chain.AdmitTransaction(tx)
}

func (h *Handler) reply(stream network.Stream, tag wire.MessageTag, payload interface{}) {
	env := mustEnvelope(tag, payload)
	if err := wire.WriteFrame(stream, env); err != nil {
		xlog.P2P.Debug().Err(err).Msg("failed to write reply frame")
	}
}

func mustEnvelope(tag wire.MessageTag, payload interface{}) *wire.Envelope {
	env, err := wire.NewEnvelope(tag, payload)
	if err != nil {
		xlog.P2P.Error().Err(err).Msg("failed to encode envelope")
		return &wire.Envelope{Tag: tag}
	}
	return env
}
