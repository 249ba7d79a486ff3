package pattern

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/outofforest/gol/board"
	"github.com/outofforest/gol/types"
)

// Names of built-in patterns.
const (
	Glider     = "glider"
	Blinker    = "blinker"
	Block      = "block"
	RPentomino = "r-pentomino"
	Acorn      = "acorn"
	GosperGun  = "gosper-gun"
)

var patterns = map[string][]string{
	Glider: {
		".O.",
		"..O",
		"OOO",
	},
	Blinker: {
		"OOO",
	},
	Block: {
		"OO",
		"OO",
	},
	RPentomino: {
		".OO",
		"OO.",
		".O.",
	},
	Acorn: {
		".O.....",
		"...O...",
		"OO..OOO",
	},
	GosperGun: {
		"........................O...........",
		"......................O.O...........",
		"............OO......OO............OO",
		"...........O...O....OO............OO",
		"OO........O.....O...OO..............",
		"OO........O...O.OO....O.O...........",
		"..........O.....O.......O...........",
		"...........O...O....................",
		"............OO......................",
	},
}

// Names returns names of built-in patterns.
func Names() []string {
	names := lo.Keys(patterns)
	slices.Sort(names)
	return names
}

// ByName returns built-in pattern placed at (0, 0).
func ByName(name string) (*board.Board, error) {
	rows, exists := patterns[name]
	if !exists {
		return nil, errors.Errorf("unknown pattern %q", name)
	}
	return Parse(rows...)
}

// Parse parses plaintext rows. 'O' and '*' mean alive cell, '.' and ' ' mean dead one.
// Top-left character is placed at (0, 0).
func Parse(rows ...string) (*board.Board, error) {
	b := board.New()
	for y, row := range rows {
		for x, ch := range []byte(row) {
			switch ch {
			case 'O', '*':
				b.SetAlive(types.Cell{X: int32(x), Y: int32(y)}, true)
			case '.', ' ':
			default:
				return nil, errors.Errorf("invalid character %q at (%d, %d)", ch, x, y)
			}
		}
	}
	return b, nil
}
