// Package chainsnapshot persists and restores a chain's full state as
// a single CBOR-encoded file, the same encoding used for wire frames,
// so a node's on-disk state and its network representation are read
// by exactly one decoder.
package chainsnapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"

	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// state is the whole of a Chain's durable state: blocks, UTXOs,
// slashing history and slashed amounts. The mempool and orphan cache
// are derived/ephemeral, so neither is saved. UTXOs are keyed by
// output hash with only the output itself stored — Marked is never
// serialized, and every entry Load restores starts unmarked.
type state struct {
	Blocks          []*xtypes.Block                 `cbor:"1,keyasint"`
	SlashingHistory []xtypes.SlashingRecord          `cbor:"2,keyasint"`
	SlashedAmounts  xtypes.SlashedBalances           `cbor:"3,keyasint"`
	UTXOs           map[xtypes.Hash]xtypes.TxOutput  `cbor:"4,keyasint"`
}

// Snapshot is the data a Chain exposes for saving and accepts back on
// load. It mirrors the fields chainstate.Chain keeps unexported.
type Snapshot struct {
	Blocks          []*xtypes.Block
	SlashingHistory []xtypes.SlashingRecord
	SlashedAmounts  xtypes.SlashedBalances
	UTXOs           xtypes.UTXOIndex
}

// Save CBOR-encodes snap and writes it to path, via a temp file
// renamed into place so a crash mid-write never leaves a truncated
// snapshot behind.
func Save(path string, snap Snapshot) error {
	utxos := make(map[xtypes.Hash]xtypes.TxOutput, len(snap.UTXOs))
	for hash, entry := range snap.UTXOs {
		utxos[hash] = entry.Output
	}

	data, err := cbor.Marshal(state{
		Blocks:          snap.Blocks,
		SlashingHistory: snap.SlashingHistory,
		SlashedAmounts:  snap.SlashedAmounts,
		UTXOs:           utxos,
	})
	if err != nil {
		return fmt.Errorf("chainsnapshot: encode: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("chainsnapshot: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chainsnapshot: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chainsnapshot: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chainsnapshot: rename into place: %w", err)
	}
	return nil
}

// Load reads and decodes the snapshot at path.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("chainsnapshot: read %s: %w", path, err)
	}
	var st state
	if err := cbor.Unmarshal(data, &st); err != nil {
		return Snapshot{}, fmt.Errorf("chainsnapshot: decode %s: %w", path, err)
	}

	utxos := make(xtypes.UTXOIndex, len(st.UTXOs))
	for hash, out := range st.UTXOs {
		utxos[hash] = &xtypes.UTXOEntry{Output: out}
	}

	return Snapshot{
		Blocks:          st.Blocks,
		SlashingHistory: st.SlashingHistory,
		SlashedAmounts:  st.SlashedAmounts,
		UTXOs:           utxos,
	}, nil
}

// Exists reports whether a snapshot file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
