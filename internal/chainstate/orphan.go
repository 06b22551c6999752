package chainstate

import "github.com/Klingon-tech/klingnet-pos/internal/xtypes"

// drainOrphans resolves every orphan chain that becomes attachable
// once a block with hash seed has been appended. Must be called with
// c.mu held for writing; AddBlock calls it after a successful append.
func (c *Chain) drainOrphans(seed xtypes.Hash) {
	stack := []xtypes.Hash{seed}

	for len(stack) > 0 {
		parent := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, ok := c.orphans[parent]
		if !ok {
			continue
		}
		delete(c.orphans, parent)

		for _, child := range children {
			if err := c.addBlock(child); err != nil {
				continue
			}
			stack = append(stack, c.tip().Hash())
		}
	}
}
