// Package nodeconfig holds the in-process tunables a running node
// needs. There is deliberately no file or flag parsing here — that
// front end lives outside this module's scope.
package nodeconfig

import "time"

// Config collects every constant the chain engine, mempool,
// consensus, and proposer packages need at construction time.
type Config struct {
	// InitialReward is the block subsidy, in whole coins, before any
	// halving and before the coin/unit factor is applied.
	InitialReward uint64
	// CoinToUnitFactor converts whole coins to the smallest
	// accounting unit.
	CoinToUnitFactor uint64
	// HalvingInterval is the number of blocks between each reward
	// halving.
	HalvingInterval uint64
	// StakeMinimumAmount is the smallest locked stake, in units, that
	// counts toward validator selection.
	StakeMinimumAmount uint64
	// StakeLockPeriod is the number of blocks a staked output stays
	// locked after being created.
	StakeLockPeriod uint64
	// MaxMempoolTxAge is how long an admitted transaction may sit in
	// the mempool before the sweep evicts it.
	MaxMempoolTxAge time.Duration
	// BlockTransactionCap bounds how many transactions (excluding the
	// coinbase) a proposer packs into one block.
	BlockTransactionCap int
	// TotalSupplyCap is the maximum number of units that will ever
	// exist, informational only — nothing in this module enforces it
	// directly beyond the halving schedule driving the reward to zero.
	TotalSupplyCap uint64
	// SlashDoubleSignBps is the basis-point penalty rate for a
	// double-sign slash.
	SlashDoubleSignBps uint64
	// SlashDowntimeBps is the basis-point penalty rate for a downtime
	// slash.
	SlashDowntimeBps uint64
	// SlotDuration is how long the proposer waits between lottery
	// attempts.
	SlotDuration time.Duration
	// MempoolSweepInterval is how often the mempool is swept for
	// stale entries.
	MempoolSweepInterval time.Duration
	// SnapshotSaveInterval is how often the chain snapshot is
	// persisted to disk.
	SnapshotSaveInterval time.Duration
}

// Default returns the tunables used across the test suite and the
// default runtime wiring.
func Default() Config {
	return Config{
		InitialReward:        50,
		CoinToUnitFactor:      100_000_000,
		HalvingInterval:       210,
		StakeMinimumAmount:    1000 * 100_000_000,
		StakeLockPeriod:       100,
		MaxMempoolTxAge:       600 * time.Second,
		BlockTransactionCap:   20,
		TotalSupplyCap:        21_000_000 * 100_000_000,
		SlashDoubleSignBps:    1000,
		SlashDowntimeBps:      100,
		SlotDuration:          10 * time.Second,
		MempoolSweepInterval:  30 * time.Second,
		SnapshotSaveInterval:  15 * time.Second,
	}
}
