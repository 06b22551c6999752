package mempool

import "errors"

// ErrInvalidTransaction and ErrStakeLocked are the mempool's own
// sentinel errors. They are deliberately distinct values from
// chainstate's sentinels of the same name — chainstate imports this
// package, not the other way around — but share the same meaning, and
// chain code that surfaces a mempool rejection wraps these directly.
var (
	ErrInvalidTransaction = errors.New("mempool: invalid transaction")
	ErrStakeLocked        = errors.New("mempool: stake is locked")
)

var (
	errInvalidTransaction = ErrInvalidTransaction
	errStakeLocked        = ErrStakeLocked
)
