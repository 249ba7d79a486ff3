package hashlife

import (
	"math"

	"github.com/pkg/errors"
	"lukechampine.com/blake3"

	"github.com/outofforest/gol/board"
	"github.com/outofforest/gol/store"
	"github.com/outofforest/gol/types"
)

// Config stores session configuration.
type Config struct {
	Store store.Config
}

// New creates new HashLife session.
func New(config Config) *Session {
	s := &Session{
		store: store.New(config.Store),
	}
	s.Reset()
	return s
}

type point struct {
	X int64
	Y int64
}

// Session owns the node store and the universe being simulated. Node IDs and digests are valid until Reset.
// It is not safe for concurrent use. Independent sessions may run concurrently.
type Session struct {
	store   *store.Store
	digests map[types.NodeID]types.Hash

	root       types.NodeID
	origin     point
	generation uint64
}

// Stats returns statistics of the node store owned by the session.
func (s *Session) Stats() store.Stats {
	return s.store.Stats()
}

// Level returns the level of the node.
func (s *Session) Level(node types.NodeID) types.Level {
	return s.store.Level(node)
}

// Children returns children of the node of level 2 or higher.
func (s *Session) Children(node types.NodeID) [4]types.NodeID {
	return s.store.Children(node)
}

// Empty returns the node of the level containing no alive cells.
func (s *Session) Empty(level types.Level) types.NodeID {
	return s.store.Empty(level)
}

// Memoized returns the result of Advance if it has been computed already.
func (s *Session) Memoized(node types.NodeID) (types.NodeID, bool) {
	return s.store.LookupAdvance(node)
}

// Reset drops all the nodes, memoized results and the universe.
func (s *Session) Reset() {
	s.store.Reset()
	s.digests = map[types.NodeID]types.Hash{}
	s.root = s.store.Empty(2)
	s.origin = point{}
	s.generation = 0
}

// BoundingSquare returns the smallest square of power-of-two side, at least 2, placed at the top-left corner of
// the pattern and containing it.
func BoundingSquare(b *board.Board) (types.Rect, error) {
	span, ok := b.Span()
	if !ok {
		return types.Rect{Width: 2, Height: 2}, nil
	}

	level := levelFor(max(span.Width, span.Height))
	if level > 30 {
		return types.Rect{}, errors.Errorf("pattern of size %dx%d does not fit into the bounding square",
			span.Width, span.Height)
	}

	side := int32(level.Side())
	return types.Rect{
		X:      span.X,
		Y:      span.Y,
		Width:  side,
		Height: side,
	}, nil
}

// BuildQuadtree builds the quadtree representing the square region of the board.
// Square side must be the power of two, at least 2. Cells outside the square are ignored.
func (s *Session) BuildQuadtree(b *board.Board, square types.Rect) (types.NodeID, error) {
	if square.Width != square.Height {
		return types.InvalidNodeID, errors.Errorf("region %dx%d is not a square", square.Width, square.Height)
	}
	if square.Width < 2 || square.Width&(square.Width-1) != 0 {
		return types.InvalidNodeID, errors.Errorf("side %d of the square is not a power of two greater than 1",
			square.Width)
	}

	cells := []types.Cell{}
	for c := range b.Iterator() {
		if square.InBounds(c) {
			cells = append(cells, c)
		}
	}

	return s.build(cells, int64(square.X), int64(square.Y), levelFor(uint64(square.Width))), nil
}

// Advance returns the centered node of level lower by one, representing the node's region after 2^(level-2)
// generations.
func (s *Session) Advance(node types.NodeID) (types.NodeID, error) {
	if level := s.store.Level(node); level < 2 {
		return types.InvalidNodeID, errors.Errorf("node of level %d can't be advanced", level)
	}
	return s.advance(node), nil
}

// AdvanceBy returns the centered node of level lower by one, representing the node's region after 2^exp
// generations. Exp must not be greater than level-2.
func (s *Session) AdvanceBy(node types.NodeID, exp types.Level) (types.NodeID, error) {
	level := s.store.Level(node)
	if level < 2 {
		return types.InvalidNodeID, errors.Errorf("node of level %d can't be advanced", level)
	}
	if exp > level-2 {
		return types.InvalidNodeID, errors.Errorf("node of level %d can't be advanced by 2^%d generations",
			level, exp)
	}
	return s.advanceBy(node, exp), nil
}

// Centre returns the node of level lower by one, covering the central part of the node.
func (s *Session) Centre(node types.NodeID) (types.NodeID, error) {
	if level := s.store.Level(node); level < 2 {
		return types.InvalidNodeID, errors.Errorf("node of level %d has no centre", level)
	}
	return s.centre(node), nil
}

// Expand returns the node of level higher by one, having the node in its centre surrounded by dead cells.
func (s *Session) Expand(node types.NodeID) (types.NodeID, error) {
	level := s.store.Level(node)
	if level < 1 || level >= types.MaxLevel {
		return types.InvalidNodeID, errors.Errorf("node of level %d can't be expanded", level)
	}
	return s.expand(node), nil
}

// Population returns the number of alive cells in the node.
func (s *Session) Population(node types.NodeID) uint64 {
	return s.store.Population(node)
}

// ToBoard returns the board containing alive cells of the node, placing its top-left corner at origin.
func (s *Session) ToBoard(node types.NodeID, origin types.Cell) (*board.Board, error) {
	b := board.New()
	if err := s.collect(node, int64(origin.X), int64(origin.Y), b); err != nil {
		return nil, err
	}
	return b, nil
}

// Digest returns the content digest of the node. Digest does not depend on node IDs, so it is stable across
// sessions and processes.
func (s *Session) Digest(node types.NodeID) types.Hash {
	if digest, exists := s.digests[node]; exists {
		return digest
	}

	n := s.store.Node(node)
	buf := make([]byte, 0, 2+len(n.Children)*types.HashLength)
	buf = append(buf, byte(n.Level), n.Bits)
	if !n.IsLeaf() {
		for _, child := range n.Children {
			digest := s.Digest(child)
			buf = append(buf, digest[:]...)
		}
	}

	digest := types.Hash(blake3.Sum256(buf))
	s.digests[node] = digest
	return digest
}

func (s *Session) build(cells []types.Cell, x0, y0 int64, level types.Level) types.NodeID {
	if len(cells) == 0 {
		return s.store.Empty(level)
	}

	if level == 1 {
		var bits uint8
		for _, c := range cells {
			dx := int64(c.X) - x0
			dy := int64(c.Y) - y0
			if dx < 0 || dx > 1 || dy < 0 || dy > 1 {
				panic(errors.Errorf("cell (%d, %d) is outside the leaf at (%d, %d)", c.X, c.Y, x0, y0))
			}
			bits |= 1 << (dy*2 + dx)
		}
		return s.store.LeafFromBits(bits)
	}

	half := (level - 1).Side()
	var quadrants [4][]types.Cell
	for _, c := range cells {
		var q int
		if int64(c.X) >= x0+half {
			q |= store.NE
		}
		if int64(c.Y) >= y0+half {
			q |= store.SW
		}
		quadrants[q] = append(quadrants[q], c)
	}

	return s.store.Join(
		s.build(quadrants[store.NW], x0, y0, level-1),
		s.build(quadrants[store.NE], x0+half, y0, level-1),
		s.build(quadrants[store.SW], x0, y0+half, level-1),
		s.build(quadrants[store.SE], x0+half, y0+half, level-1),
	)
}

func (s *Session) collect(node types.NodeID, x0, y0 int64, b *board.Board) error {
	n := s.store.Node(node)
	if n.Population == 0 {
		return nil
	}

	switch n.Level {
	case 0:
		return setAlive(b, x0, y0)
	case 1:
		for bit := range int64(4) {
			if n.Bits&(1<<bit) == 0 {
				continue
			}
			if err := setAlive(b, x0+bit&1, y0+bit>>1); err != nil {
				return err
			}
		}
		return nil
	}

	half := (n.Level - 1).Side()
	for q, child := range n.Children {
		if err := s.collect(child, x0+int64(q&store.NE)*half, y0+int64(q>>1)*half, b); err != nil {
			return err
		}
	}
	return nil
}

func setAlive(b *board.Board, x, y int64) error {
	if x < math.MinInt32 || x > math.MaxInt32 || y < math.MinInt32 || y > math.MaxInt32 {
		return errors.Errorf("cell (%d, %d) is outside the plane", x, y)
	}
	b.SetAlive(types.Cell{X: int32(x), Y: int32(y)}, true)
	return nil
}

func levelFor(side uint64) types.Level {
	level := types.Level(1)
	for uint64(level.Side()) < side {
		level++
	}
	return level
}
