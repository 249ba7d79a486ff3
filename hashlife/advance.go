package hashlife

import (
	"github.com/outofforest/gol/board"
	"github.com/outofforest/gol/store"
	"github.com/outofforest/gol/types"
)

// windows holds nine overlapping nodes of level L-1 built from children and grandchildren of level-L node.
type windows [3][3]types.NodeID

func (s *Session) windows(node types.NodeID) windows {
	c := s.store.Children(node)
	nw := s.store.Children(c[store.NW])
	ne := s.store.Children(c[store.NE])
	sw := s.store.Children(c[store.SW])
	se := s.store.Children(c[store.SE])

	return windows{
		{
			c[store.NW],
			s.store.Join(nw[store.NE], ne[store.NW], nw[store.SE], ne[store.SW]),
			c[store.NE],
		},
		{
			s.store.Join(nw[store.SW], nw[store.SE], sw[store.NW], sw[store.NE]),
			s.store.Join(nw[store.SE], ne[store.SW], sw[store.NE], se[store.NW]),
			s.store.Join(ne[store.SW], ne[store.SE], se[store.NW], se[store.NE]),
		},
		{
			c[store.SW],
			s.store.Join(sw[store.NE], se[store.NW], sw[store.SE], se[store.SW]),
			c[store.SE],
		},
	}
}

// combine joins four overlapping 2x2 groups of the nine nodes, passes each through f and joins the results.
func (s *Session) combine(w windows, f func(types.NodeID) types.NodeID) types.NodeID {
	return s.store.Join(
		f(s.store.Join(w[0][0], w[0][1], w[1][0], w[1][1])),
		f(s.store.Join(w[0][1], w[0][2], w[1][1], w[1][2])),
		f(s.store.Join(w[1][0], w[1][1], w[2][0], w[2][1])),
		f(s.store.Join(w[1][1], w[1][2], w[2][1], w[2][2])),
	)
}

func (s *Session) advance(node types.NodeID) types.NodeID {
	if result, exists := s.store.LookupAdvance(node); exists {
		return result
	}

	n := s.store.Node(node)
	var result types.NodeID
	switch {
	case n.Population == 0:
		result = s.store.Empty(n.Level - 1)
	case n.Level == 2:
		result = s.advanceBase(n)
	default:
		w := s.windows(node)
		for i := range w {
			for j := range w[i] {
				w[i][j] = s.advance(w[i][j])
			}
		}
		result = s.combine(w, s.advance)
	}

	s.store.MemoizeAdvance(node, result)
	return result
}

func (s *Session) advanceBy(node types.NodeID, exp types.Level) types.NodeID {
	n := s.store.Node(node)
	if exp == n.Level-2 {
		return s.advance(node)
	}
	if result, exists := s.store.LookupStep(node, exp); exists {
		return result
	}

	var result types.NodeID
	if n.Population == 0 {
		result = s.store.Empty(n.Level - 1)
	} else {
		w := s.windows(node)
		for i := range w {
			for j := range w[i] {
				w[i][j] = s.centre(w[i][j])
			}
		}
		result = s.combine(w, func(node types.NodeID) types.NodeID {
			return s.advanceBy(node, exp)
		})
	}

	s.store.MemoizeStep(node, exp, result)
	return result
}

// advanceBase computes one generation of 4x4 square and returns its central 2x2 part.
func (s *Session) advanceBase(n store.Node) types.NodeID {
	// grid[y][x], children tiled 2x2: NW at (0,0), NE at (2,0), SW at (0,2), SE at (2,2).
	var grid [4][4]bool
	for q, child := range n.Children {
		bits := s.store.Bits(child)
		x0 := (q & store.NE) * 2
		y0 := (q >> 1) * 2
		for bit := range 4 {
			if bits&(1<<bit) != 0 {
				grid[y0+bit>>1][x0+bit&1] = true
			}
		}
	}

	next := func(x, y int) bool {
		var neighbours uint8
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if grid[y+dy][x+dx] {
					neighbours++
				}
			}
		}
		return board.Survives(neighbours, grid[y][x])
	}

	return s.store.Leaf(next(1, 1), next(2, 1), next(1, 2), next(2, 2))
}

func (s *Session) centre(node types.NodeID) types.NodeID {
	c := s.store.Children(node)
	if s.store.Level(node) == 2 {
		return s.store.Leaf(
			s.store.Bits(c[store.NW])&store.BitSE != 0,
			s.store.Bits(c[store.NE])&store.BitSW != 0,
			s.store.Bits(c[store.SW])&store.BitNE != 0,
			s.store.Bits(c[store.SE])&store.BitNW != 0,
		)
	}

	return s.store.Join(
		s.store.Children(c[store.NW])[store.SE],
		s.store.Children(c[store.NE])[store.SW],
		s.store.Children(c[store.SW])[store.NE],
		s.store.Children(c[store.SE])[store.NW],
	)
}

func (s *Session) expand(node types.NodeID) types.NodeID {
	n := s.store.Node(node)
	if n.Level == 1 {
		return s.store.Join(
			s.store.Leaf(false, false, false, n.Bits&store.BitNW != 0),
			s.store.Leaf(false, false, n.Bits&store.BitNE != 0, false),
			s.store.Leaf(false, n.Bits&store.BitSW != 0, false, false),
			s.store.Leaf(n.Bits&store.BitSE != 0, false, false, false),
		)
	}

	e := s.store.Empty(n.Level - 1)
	return s.store.Join(
		s.store.Join(e, e, e, n.Children[store.NW]),
		s.store.Join(e, e, n.Children[store.NE], e),
		s.store.Join(e, n.Children[store.SW], e, e),
		s.store.Join(n.Children[store.SE], e, e, e),
	)
}
