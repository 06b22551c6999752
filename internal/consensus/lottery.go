package consensus

import (
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/Klingon-tech/klingnet-pos/internal/xtypes"
)

// SelectValidator picks the next block's validator from table,
// seeded deterministically by seed (the previous block's hash).
//
// Only the first 8 bytes of seed feed the lottery — a narrow PRNG
// window preserved from the reference implementation rather than
// widened to the full hash, since doing so would change which
// validator every future block selects. Entries are summed in
// ascending pubkey order so every node reaches the same answer
// regardless of map iteration order, and a validator wins on a
// strictly-greater boundary (a target equal to an entry's running sum
// rolls to the next entry).
func SelectValidator(table map[string]uint64, seed xtypes.Hash) (xtypes.PublicKey, bool) {
	var total uint64
	for _, stake := range table {
		total += stake
	}
	if total == 0 {
		return xtypes.PublicKey{}, false
	}

	target := binary.BigEndian.Uint64(seed[:8]) % total

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var cumulative uint64
	for _, k := range keys {
		cumulative += table[k]
		if cumulative > target {
			pub, ok := decodePubKeyHex(k)
			if !ok {
				return xtypes.PublicKey{}, false
			}
			return pub, true
		}
	}
	return xtypes.PublicKey{}, false
}

func decodePubKeyHex(s string) (xtypes.PublicKey, bool) {
	var pub xtypes.PublicKey
	n, err := hex.Decode(pub[:], []byte(s))
	if err != nil || n != len(pub) {
		return xtypes.PublicKey{}, false
	}
	return pub, true
}
