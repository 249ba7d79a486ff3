package board_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/gol/board"
	"github.com/outofforest/gol/types"
)

func TestSetAlive(t *testing.T) {
	requireT := require.New(t)

	b := board.New()
	c := types.Cell{X: -3, Y: 7}

	requireT.False(b.IsAlive(c))
	b.SetAlive(c, true)
	b.SetAlive(c, true)
	requireT.True(b.IsAlive(c))
	requireT.EqualValues(1, b.Population())

	b.SetAlive(c, false)
	b.SetAlive(c, false)
	requireT.False(b.IsAlive(c))
	requireT.Zero(b.Population())
}

func TestCellsAreSortedColumnMajor(t *testing.T) {
	b := board.FromCells(
		types.Cell{X: 1, Y: 0},
		types.Cell{X: 0, Y: 2},
		types.Cell{X: 0, Y: -1},
		types.Cell{X: -5, Y: 9},
		types.Cell{X: 1, Y: -2},
	)

	require.Equal(t, []types.Cell{
		{X: -5, Y: 9},
		{X: 0, Y: -1},
		{X: 0, Y: 2},
		{X: 1, Y: -2},
		{X: 1, Y: 0},
	}, b.Cells())
}

func TestFromDense(t *testing.T) {
	b := board.FromDense(types.Cell{X: 10, Y: 20}, [][]bool{
		{false, true},
		{true, false},
		{true, true},
	})

	require.Equal(t, []types.Cell{
		{X: 10, Y: 21},
		{X: 10, Y: 22},
		{X: 11, Y: 20},
		{X: 11, Y: 22},
	}, b.Cells())
}

func TestBounds(t *testing.T) {
	requireT := require.New(t)

	_, ok := board.New().Bounds()
	requireT.False(ok)

	bounds, ok := board.FromCells(
		types.Cell{X: -2, Y: 5},
		types.Cell{X: 3, Y: -1},
		types.Cell{X: 0, Y: 0},
	).Bounds()
	requireT.True(ok)
	requireT.Equal(types.Rect{X: -2, Y: -1, Width: 6, Height: 7}, bounds)
}

func TestRegionAndClearRegion(t *testing.T) {
	requireT := require.New(t)

	b := board.FromCells(
		types.Cell{X: 0, Y: 0},
		types.Cell{X: 1, Y: 1},
		types.Cell{X: 2, Y: 2},
		types.Cell{X: 3, Y: 3},
	)
	region := types.Rect{X: 1, Y: 1, Width: 2, Height: 2}

	requireT.Equal([]types.Cell{{X: 1, Y: 1}, {X: 2, Y: 2}}, b.Region(region).Cells())
	requireT.EqualValues(4, b.Population())

	requireT.Equal([]types.Cell{{X: 1, Y: 1}, {X: 2, Y: 2}}, b.ClearRegion(region))
	requireT.Equal([]types.Cell{{X: 0, Y: 0}, {X: 3, Y: 3}}, b.Cells())
}

func TestInsert(t *testing.T) {
	requireT := require.New(t)

	b := board.FromCells(types.Cell{X: 5, Y: 5})
	other := board.FromCells(types.Cell{X: 0, Y: 0}, types.Cell{X: 1, Y: 0})

	inserted := b.Insert(other, types.Cell{X: 4, Y: 5})
	requireT.Equal([]types.Cell{{X: 4, Y: 5}}, inserted)
	requireT.Equal([]types.Cell{{X: 4, Y: 5}, {X: 5, Y: 5}}, b.Cells())
}

func TestCloneAndEqual(t *testing.T) {
	requireT := require.New(t)

	b := board.FromCells(types.Cell{X: 1, Y: 2}, types.Cell{X: 3, Y: 4})
	b2 := b.Clone()
	requireT.True(b.Equal(b2))

	b2.SetAlive(types.Cell{X: 1, Y: 2}, false)
	requireT.False(b.Equal(b2))
	requireT.True(b.IsAlive(types.Cell{X: 1, Y: 2}))

	b2.SetAlive(types.Cell{X: 0, Y: 0}, true)
	requireT.False(b.Equal(b2))

	b.Clear()
	requireT.Zero(b.Population())
}

func TestSpanAtPlaneEdges(t *testing.T) {
	requireT := require.New(t)

	b := board.FromCells(
		types.Cell{X: math.MinInt32, Y: 0},
		types.Cell{X: math.MaxInt32 - 10, Y: 0},
	)

	span, ok := b.Span()
	requireT.True(ok)
	requireT.Equal(types.Span{X: math.MinInt32, Y: 0, Width: 1<<32 - 10, Height: 1}, span)

	_, ok = b.Bounds()
	requireT.False(ok)

	b = board.FromCells(types.Cell{X: math.MaxInt32, Y: math.MaxInt32}, types.Cell{X: 1, Y: 1})
	bounds, ok := b.Bounds()
	requireT.True(ok)
	requireT.Equal(types.Rect{X: 1, Y: 1, Width: math.MaxInt32, Height: math.MaxInt32}, bounds)

	_, ok = board.New().Span()
	requireT.False(ok)
}

func TestMove(t *testing.T) {
	requireT := require.New(t)

	b := board.FromCells(
		types.Cell{X: 0, Y: 0},
		types.Cell{X: 1, Y: 1},
		types.Cell{X: 5, Y: 5},
	)

	moved, err := b.Move(types.Rect{Width: 2, Height: 2}, types.Cell{X: -3, Y: 2})
	requireT.NoError(err)
	requireT.Equal(types.Rect{X: -3, Y: 2, Width: 2, Height: 2}, moved)
	requireT.Equal([]types.Cell{{X: -3, Y: 2}, {X: -2, Y: 3}, {X: 5, Y: 5}}, b.Cells())

	_, err = b.Move(types.Rect{X: 5, Y: 5, Width: 1, Height: 1}, types.Cell{X: math.MaxInt32, Y: 0})
	requireT.Error(err)
	requireT.True(b.IsAlive(types.Cell{X: 5, Y: 5}))
}

func TestRotate(t *testing.T) {
	requireT := require.New(t)

	b := board.FromCells(
		types.Cell{X: 0, Y: 0},
		types.Cell{X: 1, Y: 0},
		types.Cell{X: 2, Y: 0},
		types.Cell{X: 0, Y: 1},
	)
	region := types.Rect{X: 0, Y: 0, Width: 3, Height: 2}

	rotated, err := b.Rotate(region, true)
	requireT.NoError(err)
	requireT.Equal(types.Rect{X: 0, Y: 0, Width: 2, Height: 3}, rotated)
	requireT.Equal([]types.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}}, b.Cells())

	rotated, err = b.Rotate(rotated, false)
	requireT.NoError(err)
	requireT.Equal(region, rotated)
	requireT.Equal([]types.Cell{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 2, Y: 0}}, b.Cells())
}

func TestRotateBlinker(t *testing.T) {
	requireT := require.New(t)

	b := board.FromCells(types.Cell{X: 0, Y: 0}, types.Cell{X: 1, Y: 0}, types.Cell{X: 2, Y: 0})
	region := types.Rect{X: 0, Y: 0, Width: 3, Height: 1}

	rotated, err := b.Rotate(region, true)
	requireT.NoError(err)
	requireT.Equal(types.Rect{X: 1, Y: -1, Width: 1, Height: 3}, rotated)
	requireT.True(board.Step(board.FromCells(region.UpperLeft(), types.Cell{X: 1}, types.Cell{X: 2}),
		types.Rect{}).Equal(b))

	for range 3 {
		rotated, err = b.Rotate(rotated, true)
		requireT.NoError(err)
	}
	requireT.Equal(region, rotated)
	requireT.Equal([]types.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, b.Cells())
}

func TestRotateOutsidePlane(t *testing.T) {
	requireT := require.New(t)

	b := board.FromCells(types.Cell{X: 0, Y: math.MaxInt32})
	_, err := b.Rotate(types.Rect{X: 0, Y: math.MaxInt32, Width: 4, Height: 1}, true)
	requireT.Error(err)
	requireT.True(b.IsAlive(types.Cell{X: 0, Y: math.MaxInt32}))
}
