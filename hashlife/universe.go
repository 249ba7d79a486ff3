package hashlife

import (
	"github.com/pkg/errors"

	"github.com/outofforest/gol/board"
	"github.com/outofforest/gol/types"
)

// Load replaces the universe with the board. Generation counter is reset, memoized results are kept.
func (s *Session) Load(b *board.Board) {
	s.generation = 0

	span, ok := b.Span()
	if !ok {
		s.root = s.store.Empty(2)
		s.origin = point{}
		return
	}

	level := max(levelFor(max(span.Width, span.Height)), 2)
	s.origin = point{X: int64(span.X), Y: int64(span.Y)}
	s.root = s.build(b.Cells(), s.origin.X, s.origin.Y, level)
}

// Step advances the universe by the number of generations.
func (s *Session) Step(generations uint64) error {
	for exp := types.Level(0); generations != 0; exp, generations = exp+1, generations>>1 {
		if generations&1 == 0 {
			continue
		}
		if err := s.stepPow2(exp); err != nil {
			return err
		}
	}
	return nil
}

// Board returns the board representing the universe.
func (s *Session) Board() (*board.Board, error) {
	b := board.New()
	if err := s.collect(s.root, s.origin.X, s.origin.Y, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Root returns the root node of the universe.
func (s *Session) Root() types.NodeID {
	return s.root
}

// Generation returns the number of generations the universe has been advanced by since it was loaded.
func (s *Session) Generation() uint64 {
	return s.generation
}

func (s *Session) stepPow2(exp types.Level) error {
	if exp+3 > types.MaxLevel {
		return errors.Errorf("advancing by 2^%d generations is not supported", exp)
	}

	// Pattern must stay inside the centre of the root after 2^exp generations. It is guaranteed if the level
	// is at least exp+3 and all the cells are inside the central square of side 2^(level-2).
	for {
		level := s.store.Level(s.root)
		if level >= exp+3 && s.store.Population(s.root) == s.store.Population(s.centre(s.centre(s.root))) {
			break
		}
		if level >= types.MaxLevel {
			return errors.Errorf("universe exceeds maximum level %d", types.MaxLevel)
		}
		s.expandRoot()
	}

	level := s.store.Level(s.root)
	s.root = s.advanceBy(s.root, exp)
	s.origin.X += (level - 2).Side()
	s.origin.Y += (level - 2).Side()
	s.generation += 1 << exp

	s.crop()
	return nil
}

func (s *Session) expandRoot() {
	half := (s.store.Level(s.root) - 1).Side()
	s.root = s.expand(s.root)
	s.origin.X -= half
	s.origin.Y -= half
}

// crop shrinks the root as long as all the alive cells are inside its centre.
func (s *Session) crop() {
	for {
		level := s.store.Level(s.root)
		if level <= 3 {
			return
		}
		centre := s.centre(s.root)
		if s.store.Population(centre) != s.store.Population(s.root) {
			return
		}
		s.root = centre
		s.origin.X += (level - 2).Side()
		s.origin.Y += (level - 2).Side()
	}
}
