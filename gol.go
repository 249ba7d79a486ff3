package gol

import (
	"github.com/pkg/errors"

	"github.com/outofforest/gol/board"
	"github.com/outofforest/gol/codec"
	"github.com/outofforest/gol/hashlife"
	"github.com/outofforest/gol/store"
	"github.com/outofforest/gol/types"
)

// Engine selects the algorithm used to advance the board.
type Engine byte

// Supported engines.
const (
	EngineDirect Engine = iota
	EngineHashLife
)

func (e Engine) String() string {
	switch e {
	case EngineDirect:
		return "direct"
	case EngineHashLife:
		return "hashlife"
	default:
		return "unknown"
	}
}

// ParseEngine returns engine by its name.
func ParseEngine(name string) (Engine, error) {
	switch name {
	case "direct":
		return EngineDirect, nil
	case "hashlife":
		return EngineHashLife, nil
	default:
		return 0, errors.Errorf("unknown engine %q", name)
	}
}

// Config stores simulation configuration.
type Config struct {
	Engine Engine

	// Bounds clip the plane when direct engine is used. Rectangle with no area means unbounded plane.
	Bounds types.Rect

	Store store.Config
}

// New creates new simulation.
func New(config Config) (*Simulation, error) {
	s := &Simulation{
		config: config,
		board:  board.New(),
	}

	switch config.Engine {
	case EngineDirect:
	case EngineHashLife:
		if !config.Bounds.Empty() {
			return nil, errors.New("hashlife engine simulates unbounded plane, bounds must not be set")
		}
		s.session = hashlife.New(hashlife.Config{
			Store: config.Store,
		})
	default:
		return nil, errors.Errorf("unknown engine %d", config.Engine)
	}

	return s, nil
}

// Simulation owns the board and the engine advancing it.
type Simulation struct {
	config     Config
	board      *board.Board
	session    *hashlife.Session
	generation uint64
}

// Engine returns the engine used by the simulation.
func (s *Simulation) Engine() Engine {
	return s.config.Engine
}

// Board returns the current board. It is owned by the simulation and replaced on every step.
func (s *Simulation) Board() *board.Board {
	return s.board
}

// Generation returns the number of generations computed since the last reset.
func (s *Simulation) Generation() uint64 {
	return s.generation
}

// IsAlive returns true if cell is alive.
func (s *Simulation) IsAlive(pos types.Cell) bool {
	return s.board.IsAlive(pos)
}

// SetAlive sets the state of the cell.
func (s *Simulation) SetAlive(pos types.Cell, alive bool) {
	s.board.SetAlive(pos, alive)
}

// Step advances the board by the number of generations.
func (s *Simulation) Step(generations uint64) error {
	if generations == 0 {
		return nil
	}

	if s.session == nil {
		for range generations {
			s.board = board.Step(s.board, s.config.Bounds)
		}
		s.generation += generations
		return nil
	}

	s.session.Load(s.board)
	if err := s.session.Step(generations); err != nil {
		return err
	}
	b, err := s.session.Board()
	if err != nil {
		return err
	}
	s.board = b
	s.generation += generations
	return nil
}

// Reset kills all the cells, resets generation counter and drops nodes cached by the engine.
func (s *Simulation) Reset() {
	s.board.Clear()
	s.generation = 0
	if s.session != nil {
		s.session.Reset()
	}
}

// Stats returns statistics of the node store. Zero value is returned for direct engine.
func (s *Simulation) Stats() store.Stats {
	if s.session == nil {
		return store.Stats{}
	}
	return s.session.Stats()
}

// Copy encodes the region of the board.
func (s *Simulation) Copy(region types.Rect) ([]byte, error) {
	return codec.Encode(s.board, region)
}

// Cut encodes the region of the board and kills its cells.
func (s *Simulation) Cut(region types.Rect) ([]byte, error) {
	data, err := codec.Encode(s.board, region)
	if err != nil {
		return nil, err
	}
	s.board.ClearRegion(region)
	return data, nil
}

// Rotate rotates the cells of the region by 90 degrees around its centre.
// Rectangle covered by the rotated region is returned.
func (s *Simulation) Rotate(region types.Rect, clockwise bool) (types.Rect, error) {
	return s.board.Rotate(region, clockwise)
}

// Nudge moves the cells of the region by offset. Rectangle covered by the moved region is returned.
func (s *Simulation) Nudge(region types.Rect, offset types.Cell) (types.Rect, error) {
	return s.board.Move(region, offset)
}

// Paste decodes the region and sets its alive cells on the board with top-left corner placed at pos.
// Rectangle covered by the pasted region is returned.
func (s *Simulation) Paste(data []byte, pos types.Cell, warnThreshold uint64) (types.Rect, error) {
	region, err := codec.Decode(data, warnThreshold)
	if err != nil {
		return types.Rect{}, err
	}

	s.board.Insert(region.Board, pos)
	return types.Rect{
		X:      pos.X,
		Y:      pos.Y,
		Width:  region.Bounds.Width,
		Height: region.Bounds.Height,
	}, nil
}
