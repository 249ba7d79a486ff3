package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/gol/types"
)

var config = Config{
	InitialCapacity: 16,
}

func TestInternReturnsSameNodeForEqualContent(t *testing.T) {
	requireT := require.New(t)
	s := New(config)

	leaf1 := s.Leaf(true, false, false, true)
	leaf2 := s.Leaf(false, true, true, false)
	requireT.NotEqual(leaf1, leaf2)
	requireT.Equal(leaf1, s.LeafFromBits(BitNW|BitSE))

	n1, err := s.Intern(Node{Level: 2, Children: [4]types.NodeID{leaf1, leaf2, leaf2, leaf1}})
	requireT.NoError(err)
	n2, err := s.Intern(Node{Level: 2, Children: [4]types.NodeID{leaf1, leaf2, leaf2, leaf1}})
	requireT.NoError(err)
	requireT.Equal(n1, n2)
	requireT.Equal(n1, s.Join(leaf1, leaf2, leaf2, leaf1))

	n3 := s.Join(leaf2, leaf1, leaf1, leaf2)
	requireT.NotEqual(n1, n3)

	requireT.EqualValues(8, s.Population(n1))
	requireT.EqualValues(2, s.Level(n1))
}

func TestInternIgnoresProvidedPopulationAndFingerprint(t *testing.T) {
	requireT := require.New(t)
	s := New(config)

	id, err := s.Intern(Node{Level: 1, Bits: BitNE, Population: 100, Fingerprint: 7})
	requireT.NoError(err)
	requireT.Equal(s.Leaf(false, true, false, false), id)
	requireT.EqualValues(1, s.Population(id))
}

func TestInternValidation(t *testing.T) {
	s := New(config)
	leaf := s.LeafFromBits(0)
	cell := s.Cell(true)

	tests := map[string]Node{
		"level 0 with invalid bits":  {Level: 0, Bits: 0x02},
		"level 1 with invalid bits":  {Level: 1, Bits: 0x10},
		"leaf with children":         {Level: 1, Children: [4]types.NodeID{leaf, leaf, leaf, leaf}},
		"internal with bits":         {Level: 2, Bits: 1, Children: [4]types.NodeID{leaf, leaf, leaf, leaf}},
		"internal with unknown node": {Level: 2, Children: [4]types.NodeID{leaf, leaf, leaf, 1000}},
		"internal with invalid node": {Level: 2, Children: [4]types.NodeID{leaf, types.InvalidNodeID, leaf, leaf}},
		"children of wrong level":    {Level: 2, Children: [4]types.NodeID{leaf, leaf, leaf, cell}},
		"level too high":             {Level: types.MaxLevel + 1},
	}

	for name, n := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Intern(n)
			require.Error(t, err)
		})
	}
}

func TestJoinPanicsOnLevelMismatch(t *testing.T) {
	s := New(config)
	leaf := s.LeafFromBits(0)
	cell := s.Cell(false)

	require.Panics(t, func() {
		s.Join(leaf, leaf, cell, leaf)
	})
}

func TestJoinOfCellsProducesLeaf(t *testing.T) {
	requireT := require.New(t)
	s := New(config)

	alive := s.Cell(true)
	dead := s.Cell(false)

	requireT.Equal(s.Leaf(true, false, false, true), s.Join(alive, dead, dead, alive))
}

func TestEmpty(t *testing.T) {
	requireT := require.New(t)
	s := New(config)

	for level := types.Level(0); level <= 20; level++ {
		e := s.Empty(level)
		requireT.Equal(level, s.Level(e))
		requireT.Zero(s.Population(e))
		if level >= 2 {
			prev := s.Empty(level - 1)
			requireT.Equal([4]types.NodeID{prev, prev, prev, prev}, s.Children(e))
		}
	}

	requireT.Equal(s.Cell(false), s.Empty(0))
	requireT.Equal(s.LeafFromBits(0), s.Empty(1))
}

func TestFingerprintDoesNotDependOnInsertionOrder(t *testing.T) {
	requireT := require.New(t)

	s1 := New(config)
	a1 := s1.LeafFromBits(0x3)
	b1 := s1.LeafFromBits(0xc)
	n1 := s1.Join(a1, b1, b1, a1)

	s2 := New(config)
	for bits := uint8(0); bits < 16; bits++ {
		s2.LeafFromBits(15 - bits)
	}
	b2 := s2.LeafFromBits(0xc)
	a2 := s2.LeafFromBits(0x3)
	n2 := s2.Join(a2, b2, b2, a2)

	requireT.NotEqual(a1, a2)
	requireT.Equal(s1.Node(n1).Fingerprint, s2.Node(n2).Fingerprint)
}

func TestCollisionsAreResolved(t *testing.T) {
	requireT := require.New(t)

	s := New(config)
	// Only four distinct fingerprints exist, so nearly every lookup hits a collision.
	s.hashFunc = func(b []byte) uint64 {
		return uint64(b[0]) & 0x3
	}

	leaves := make([]types.NodeID, 0, 16)
	for bits := range uint8(16) {
		leaves = append(leaves, s.LeafFromBits(bits))
	}

	nodes := map[[4]types.NodeID]types.NodeID{}
	for i := range 200 {
		children := [4]types.NodeID{
			leaves[i%16],
			leaves[(i/16)%16],
			leaves[(i*7)%16],
			leaves[(i*3)%16],
		}
		id := s.Join(children[0], children[1], children[2], children[3])
		if existing, exists := nodes[children]; exists {
			requireT.Equal(existing, id)
			continue
		}
		for _, other := range nodes {
			requireT.NotEqual(other, id)
		}
		nodes[children] = id
	}

	for children, id := range nodes {
		requireT.Equal(id, s.Join(children[0], children[1], children[2], children[3]))
		requireT.Equal(children, s.Children(id))
	}

	requireT.Positive(s.Stats().Collisions)
	requireT.EqualValues(len(leaves)+len(nodes), s.Stats().Nodes)
}

func TestTableGrows(t *testing.T) {
	requireT := require.New(t)

	s := New(config)
	requireT.EqualValues(16, s.Stats().Capacity)

	leaves := make([]types.NodeID, 0, 16)
	for bits := range uint8(16) {
		leaves = append(leaves, s.LeafFromBits(bits))
	}

	ids := map[types.NodeID]struct{}{}
	for i := range 4096 {
		id := s.Join(leaves[i%16], leaves[(i/16)%16], leaves[(i/256)%16], leaves[0])
		ids[id] = struct{}{}
	}

	requireT.Len(ids, 4096)
	stats := s.Stats()
	requireT.EqualValues(16+4096, stats.Nodes)
	requireT.GreaterOrEqual(stats.Capacity, 2*stats.Nodes)

	for i := range 4096 {
		id := s.Join(leaves[i%16], leaves[(i/16)%16], leaves[(i/256)%16], leaves[0])
		requireT.Contains(ids, id)
	}
	requireT.EqualValues(16+4096, s.Stats().Nodes)
}

func TestMemoizeAdvance(t *testing.T) {
	requireT := require.New(t)
	s := New(config)

	e1 := s.Empty(1)
	e2 := s.Empty(2)

	_, exists := s.LookupAdvance(e2)
	requireT.False(exists)

	s.MemoizeAdvance(e2, e1)
	result, exists := s.LookupAdvance(e2)
	requireT.True(exists)
	requireT.Equal(e1, result)

	s.MemoizeAdvance(e2, e1)
	requireT.EqualValues(1, s.Stats().Advances)
}

func TestMemoizeStep(t *testing.T) {
	requireT := require.New(t)
	s := New(config)

	e2 := s.Empty(2)
	e3 := s.Empty(3)

	_, exists := s.LookupStep(e3, 0)
	requireT.False(exists)

	s.MemoizeStep(e3, 0, e2)
	result, exists := s.LookupStep(e3, 0)
	requireT.True(exists)
	requireT.Equal(e2, result)

	_, exists = s.LookupStep(e3, 1)
	requireT.False(exists)
	requireT.EqualValues(1, s.Stats().Steps)
}

func TestReset(t *testing.T) {
	requireT := require.New(t)
	s := New(config)

	e := s.Empty(10)
	s.MemoizeAdvance(e, s.Empty(9))
	s.MemoizeStep(e, 1, s.Empty(9))
	requireT.NotZero(s.Stats().Nodes)

	s.Reset()
	requireT.Equal(Stats{Capacity: 16}, s.Stats())

	e = s.Empty(2)
	_, exists := s.LookupAdvance(e)
	requireT.False(exists)
}
