package test

import (
	"math/rand"

	"github.com/outofforest/gol/board"
	"github.com/outofforest/gol/types"
)

// RandomBoard returns board with cells inside region set alive with the probability given by density.
func RandomBoard(seed int64, region types.Rect, density float64) *board.Board {
	rnd := rand.New(rand.NewSource(seed))
	b := board.New()
	for x := region.X; x < region.X+region.Width; x++ {
		for y := region.Y; y < region.Y+region.Height; y++ {
			if rnd.Float64() < density {
				b.SetAlive(types.Cell{X: x, Y: y}, true)
			}
		}
	}
	return b
}

// StepN advances board by n generations using direct engine.
func StepN(b *board.Board, bounds types.Rect, n uint64) *board.Board {
	for range n {
		b = board.Step(b, bounds)
	}
	return b
}

// Translate returns copy of the board shifted by offset.
func Translate(b *board.Board, offset types.Cell) *board.Board {
	b2 := board.New()
	b2.Insert(b, offset)
	return b2
}
