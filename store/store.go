package store

import (
	"math"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"

	"github.com/outofforest/gol/types"
	"github.com/outofforest/photon"
)

const (
	trials                 = 50
	defaultInitialCapacity = 1024
)

// Config stores node store configuration.
type Config struct {
	// InitialCapacity is the initial number of slots in the fingerprint table. It is rounded up to the power of two.
	InitialCapacity uint64
}

// Stats reports the size of the store.
type Stats struct {
	Nodes      uint64
	Capacity   uint64
	Advances   uint64
	Steps      uint64
	Collisions uint64
}

type slot struct {
	Fingerprint types.Fingerprint
	Node        types.NodeID
}

type stepKey struct {
	Node types.NodeID
	Exp  types.Level
}

// New creates new node store.
func New(config Config) *Store {
	s := &Store{
		config:   config,
		hashFunc: xxhash.Sum64,
	}
	s.Reset()
	return s
}

// Store is the canonical node store. It owns every node it returns and guarantees that structurally identical
// nodes share the same ID. Nodes are never released until Reset is called.
//
// Store is not safe for concurrent use.
type Store struct {
	config   Config
	hashFunc func(b []byte) uint64

	nodes      []Node
	advances   []types.NodeID
	steps      map[stepKey]types.NodeID
	slots      []slot
	mask       uint64
	empty      []types.NodeID
	numOfAdv   uint64
	collisions uint64
}

// Reset drops all the nodes and memoized results.
func (s *Store) Reset() {
	capacity := uint64(defaultInitialCapacity)
	if s.config.InitialCapacity > 0 {
		capacity = 1
		for capacity < s.config.InitialCapacity {
			capacity <<= 1
		}
	}

	// Index 0 is reserved for types.InvalidNodeID.
	s.nodes = make([]Node, 1, capacity/2+1)
	s.advances = make([]types.NodeID, 1, capacity/2+1)
	s.steps = map[stepKey]types.NodeID{}
	s.slots = make([]slot, capacity)
	s.mask = capacity - 1
	s.empty = nil
	s.numOfAdv = 0
	s.collisions = 0
}

// Stats returns store statistics.
func (s *Store) Stats() Stats {
	return Stats{
		Nodes:      uint64(len(s.nodes) - 1),
		Capacity:   uint64(len(s.slots)),
		Advances:   s.numOfAdv,
		Steps:      uint64(len(s.steps)),
		Collisions: s.collisions,
	}
}

// Node returns the node.
func (s *Store) Node(id types.NodeID) Node {
	return s.nodes[id]
}

// Level returns the level of the node.
func (s *Store) Level(id types.NodeID) types.Level {
	return s.nodes[id].Level
}

// Population returns the number of alive cells in the node.
func (s *Store) Population(id types.NodeID) uint64 {
	return s.nodes[id].Population
}

// Children returns children of internal node.
func (s *Store) Children(id types.NodeID) [4]types.NodeID {
	return s.nodes[id].Children
}

// Bits returns the cells stored in leaf node.
func (s *Store) Bits(id types.NodeID) uint8 {
	return s.nodes[id].Bits
}

// Intern returns the canonical node having the same content as the candidate.
// If there is no such node, candidate becomes the canonical one.
func (s *Store) Intern(candidate Node) (types.NodeID, error) {
	if err := s.validate(&candidate); err != nil {
		return types.InvalidNodeID, err
	}
	if len(s.nodes) == math.MaxUint32 {
		return types.InvalidNodeID, errors.New("node store is full")
	}
	return s.intern(candidate), nil
}

// Cell returns the level-0 node.
func (s *Store) Cell(alive bool) types.NodeID {
	var bits uint8
	if alive {
		bits = 0x01
	}
	return s.intern(Node{Level: 0, Bits: bits})
}

// Leaf returns the level-1 node built from four cells.
func (s *Store) Leaf(nw, ne, sw, se bool) types.NodeID {
	var bits uint8
	if nw {
		bits |= BitNW
	}
	if ne {
		bits |= BitNE
	}
	if sw {
		bits |= BitSW
	}
	if se {
		bits |= BitSE
	}
	return s.LeafFromBits(bits)
}

// LeafFromBits returns the level-1 node built from bits.
func (s *Store) LeafFromBits(bits uint8) types.NodeID {
	return s.intern(Node{Level: 1, Bits: bits & 0x0f})
}

// Join returns the internal node built from four children. Children must be of the same level, 1 or higher.
func (s *Store) Join(nw, ne, sw, se types.NodeID) types.NodeID {
	level := s.nodes[nw].Level
	if s.nodes[ne].Level != level || s.nodes[sw].Level != level || s.nodes[se].Level != level {
		panic(errors.Errorf("children levels differ: %d, %d, %d, %d", level, s.nodes[ne].Level,
			s.nodes[sw].Level, s.nodes[se].Level))
	}
	if level == 0 {
		return s.Leaf(s.nodes[nw].Bits != 0, s.nodes[ne].Bits != 0, s.nodes[sw].Bits != 0, s.nodes[se].Bits != 0)
	}
	return s.intern(Node{
		Level:    level + 1,
		Children: [4]types.NodeID{nw, ne, sw, se},
	})
}

// Empty returns the canonical node of the level containing no alive cells.
func (s *Store) Empty(level types.Level) types.NodeID {
	for types.Level(len(s.empty)) <= level {
		l := types.Level(len(s.empty))
		var id types.NodeID
		switch l {
		case 0:
			id = s.Cell(false)
		case 1:
			id = s.LeafFromBits(0)
		default:
			e := s.empty[l-1]
			id = s.Join(e, e, e, e)
		}
		s.empty = append(s.empty, id)
	}
	return s.empty[level]
}

// MemoizeAdvance records the result of advancing the node by 2^(level-2) generations.
func (s *Store) MemoizeAdvance(node, result types.NodeID) {
	if s.advances[node] == types.InvalidNodeID {
		s.numOfAdv++
	}
	s.advances[node] = result
}

// LookupAdvance returns memoized result of advancing the node by 2^(level-2) generations.
func (s *Store) LookupAdvance(node types.NodeID) (types.NodeID, bool) {
	result := s.advances[node]
	return result, result != types.InvalidNodeID
}

// MemoizeStep records the result of advancing the node by 2^exp generations.
func (s *Store) MemoizeStep(node types.NodeID, exp types.Level, result types.NodeID) {
	s.steps[stepKey{Node: node, Exp: exp}] = result
}

// LookupStep returns memoized result of advancing the node by 2^exp generations.
func (s *Store) LookupStep(node types.NodeID, exp types.Level) (types.NodeID, bool) {
	result, exists := s.steps[stepKey{Node: node, Exp: exp}]
	return result, exists
}

func (s *Store) validate(n *Node) error {
	switch {
	case n.Level == 0:
		if n.Bits > 0x01 {
			return errors.Errorf("invalid bits %#x of level-0 leaf", n.Bits)
		}
	case n.Level == 1:
		if n.Bits > 0x0f {
			return errors.Errorf("invalid bits %#x of level-1 leaf", n.Bits)
		}
	case n.Level > types.MaxLevel:
		return errors.Errorf("level %d exceeds maximum %d", n.Level, types.MaxLevel)
	default:
		if n.Bits != 0 {
			return errors.Errorf("internal node of level %d must not store bits", n.Level)
		}
		for i, child := range n.Children {
			if child == types.InvalidNodeID || uint64(child) >= uint64(len(s.nodes)) {
				return errors.Errorf("child %d of node references unknown node %d", i, child)
			}
			if s.nodes[child].Level != n.Level-1 {
				return errors.Errorf("child %d has level %d, expected %d", i, s.nodes[child].Level, n.Level-1)
			}
		}
		return nil
	}

	if n.Children != [4]types.NodeID{} {
		return errors.Errorf("leaf of level %d must not have children", n.Level)
	}
	return nil
}

func (s *Store) intern(n Node) types.NodeID {
	n.Population, n.Fingerprint = s.describe(&n)

	index, id := s.find(&n)
	if id != types.InvalidNodeID {
		return id
	}

	if uint64(len(s.nodes))*2 > uint64(len(s.slots)) {
		s.grow()
		index, _ = s.find(&n)
	}

	id = types.NodeID(len(s.nodes))
	s.nodes = append(s.nodes, n)
	s.advances = append(s.advances, types.InvalidNodeID)
	s.slots[index] = slot{
		Fingerprint: n.Fingerprint,
		Node:        id,
	}
	return id
}

func (s *Store) describe(n *Node) (uint64, types.Fingerprint) {
	key := fingerprintKey{
		Header: uint64(n.Level)<<8 | uint64(n.Bits),
	}

	var population uint64
	if n.IsLeaf() {
		population = leafPopulation(n.Level, n.Bits)
	} else {
		for i, child := range n.Children {
			population += s.nodes[child].Population
			key.Children[i] = s.nodes[child].Fingerprint
		}
	}

	return population, types.Fingerprint(s.hashFunc(photon.NewFromValue(&key).B))
}

// find returns the ID of the canonical node equal to n, or the index of the free slot where n should be stored.
func (s *Store) find(n *Node) (uint64, types.NodeID) {
	for i := range uint64(len(s.slots)) + trials {
		index := s.probe(n.Fingerprint, i)
		sl := s.slots[index]

		switch {
		case sl.Node == types.InvalidNodeID:
			return index, types.InvalidNodeID
		case sl.Fingerprint != n.Fingerprint:
		case s.equal(sl.Node, n):
			return index, sl.Node
		default:
			s.collisions++
		}
	}

	// Load factor is kept below 1/2, so a free slot is always reached before.
	panic(errors.New("fingerprint table is full"))
}

func (s *Store) probe(fingerprint types.Fingerprint, i uint64) uint64 {
	if i < trials {
		return (uint64(fingerprint) + 1<<i + i) & s.mask
	}
	return (uint64(fingerprint) + i) & s.mask
}

func (s *Store) equal(id types.NodeID, n *Node) bool {
	n2 := &s.nodes[id]
	return n2.Level == n.Level && n2.Bits == n.Bits && n2.Children == n.Children
}

func (s *Store) grow() {
	s.slots = make([]slot, 2*len(s.slots))
	s.mask = uint64(len(s.slots)) - 1

	for id := 1; id < len(s.nodes); id++ {
		n := &s.nodes[id]
		for i := uint64(0); ; i++ {
			index := s.probe(n.Fingerprint, i)
			if s.slots[index].Node == types.InvalidNodeID {
				s.slots[index] = slot{
					Fingerprint: n.Fingerprint,
					Node:        types.NodeID(id),
				}
				break
			}
		}
	}
}
