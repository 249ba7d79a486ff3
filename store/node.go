package store

import (
	"github.com/outofforest/gol/types"
)

// Quadrant indices of children in internal node.
const (
	NW = iota
	NE
	SW
	SE
)

// Leaf bits of level-1 node.
const (
	BitNW uint8 = 1 << iota
	BitNE
	BitSW
	BitSE
)

// Node is the immutable quadtree node.
// Level 0 and 1 nodes are leaves storing cells in Bits. Level 0 uses bit 0 only, level 1 uses BitNW..BitSE.
// Nodes of level 2 and higher are internal ones referencing four children of level lower by one.
type Node struct {
	Level       types.Level
	Bits        uint8
	Children    [4]types.NodeID
	Population  uint64
	Fingerprint types.Fingerprint
}

// IsLeaf returns true if node stores cells directly.
func (n Node) IsLeaf() bool {
	return n.Level < 2
}

// fingerprintKey is hashed to produce node fingerprint. It has no padding so its bytes are fully defined.
type fingerprintKey struct {
	Header   uint64
	Children [4]types.Fingerprint
}

func leafPopulation(level types.Level, bits uint8) uint64 {
	if level == 0 {
		return uint64(bits & 0x01)
	}

	var population uint64
	for ; bits != 0; bits &= bits - 1 {
		population++
	}
	return population
}
