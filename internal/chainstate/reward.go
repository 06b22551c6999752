package chainstate

import "github.com/Klingon-tech/klingnet-pos/internal/nodeconfig"

// BlockReward computes the block subsidy, in units, at height,
// halving every cfg.HalvingInterval blocks.
func BlockReward(cfg nodeconfig.Config, height uint64) uint64 {
	halvings := height / cfg.HalvingInterval
	reward := cfg.InitialReward * cfg.CoinToUnitFactor
	return reward >> halvings
}

// Reward returns the block subsidy at the chain's current height,
// using the chain's own configuration.
func (c *Chain) Reward() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return BlockReward(c.cfg, c.height())
}
