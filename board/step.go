package board

import (
	"math"

	"github.com/outofforest/gol/types"
)

var neighbourOffsets = [8]types.Cell{
	{X: -1, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1},
	{X: 0, Y: -1}, {X: 0, Y: 1},
	{X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
}

// Step computes the next generation of the board.
// If bounds has positive width and height, cells outside bounds are never born.
// Otherwise, the plane is unbounded.
func Step(b *Board, bounds types.Rect) *Board {
	clip := !bounds.Empty()

	tally := make(map[types.Cell]uint8, len(b.cells)*len(neighbourOffsets))
	for c := range b.cells {
		for _, offset := range neighbourOffsets {
			x := int64(c.X) + int64(offset.X)
			y := int64(c.Y) + int64(offset.Y)
			if x < math.MinInt32 || x > math.MaxInt32 || y < math.MinInt32 || y > math.MaxInt32 {
				continue
			}

			n := types.Cell{X: int32(x), Y: int32(y)}
			if clip && !bounds.InBounds(n) {
				continue
			}
			tally[n]++
		}
	}

	next := &Board{
		cells: make(map[types.Cell]struct{}, len(tally)/2),
	}
	for c, count := range tally {
		if Survives(count, b.IsAlive(c)) {
			next.cells[c] = struct{}{}
		}
	}
	return next
}

// Survives tells whether cell is alive in the next generation: born with exactly 3 neighbours,
// survives with 2 or 3.
func Survives(neighbours uint8, alive bool) bool {
	return neighbours == 3 || (neighbours == 2 && alive)
}
