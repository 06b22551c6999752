package xtypes

// OrphanCache holds blocks whose parent hasn't been seen yet, keyed
// by that missing parent hash. A single parent may have several
// competing children parked against it.
type OrphanCache map[Hash][]*Block
