package xtypes

import "time"

// MempoolEntry pairs a pending transaction with the time it was
// admitted and the fee it paid (inputs minus outputs, computed once
// against the UTXO index at admission time), used to evict stale
// entries and to order the pool by priority: descending fee, ties
// broken by earlier admission.
type MempoolEntry struct {
	AdmittedAt time.Time
	Fee        uint64
	Tx         *Transaction
}
