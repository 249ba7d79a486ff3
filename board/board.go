package board

import (
	"math"
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/outofforest/gol/types"
)

// New creates empty board.
func New() *Board {
	return &Board{
		cells: map[types.Cell]struct{}{},
	}
}

// FromCells creates board with the provided cells alive.
func FromCells(cells ...types.Cell) *Board {
	b := &Board{
		cells: make(map[types.Cell]struct{}, len(cells)),
	}
	for _, c := range cells {
		b.cells[c] = struct{}{}
	}
	return b
}

// FromDense creates board from the dense snapshot. rows[y][x] tells if cell (origin.X+x, origin.Y+y) is alive.
func FromDense(origin types.Cell, rows [][]bool) *Board {
	b := New()
	for y, row := range rows {
		for x, alive := range row {
			if alive {
				b.cells[types.Cell{X: origin.X + int32(x), Y: origin.Y + int32(y)}] = struct{}{}
			}
		}
	}
	return b
}

// Board is the sparse set of alive cells. Absent cell is dead.
type Board struct {
	cells map[types.Cell]struct{}
}

// IsAlive returns true if cell is alive.
func (b *Board) IsAlive(pos types.Cell) bool {
	_, exists := b.cells[pos]
	return exists
}

// SetAlive sets the state of the cell.
func (b *Board) SetAlive(pos types.Cell, alive bool) {
	if alive {
		b.cells[pos] = struct{}{}
		return
	}
	delete(b.cells, pos)
}

// Population returns the number of alive cells.
func (b *Board) Population() uint64 {
	return uint64(len(b.cells))
}

// Cells returns alive cells sorted by X, then by Y.
func (b *Board) Cells() []types.Cell {
	cells := lo.Keys(b.cells)
	slices.SortFunc(cells, types.Cell.Compare)
	return cells
}

// Iterator iterates over alive cells in undefined order.
func (b *Board) Iterator() func(func(types.Cell) bool) {
	return func(yield func(types.Cell) bool) {
		for c := range b.cells {
			if !yield(c) {
				return
			}
		}
	}
}

// Span returns the smallest box containing all the alive cells. False is returned if board is empty.
func (b *Board) Span() (types.Span, bool) {
	if len(b.cells) == 0 {
		return types.Span{}, false
	}

	var minX, minY, maxX, maxY int32
	first := true
	for c := range b.cells {
		if first {
			minX, maxX, minY, maxY = c.X, c.X, c.Y, c.Y
			first = false
			continue
		}
		minX = min(minX, c.X)
		maxX = max(maxX, c.X)
		minY = min(minY, c.Y)
		maxY = max(maxY, c.Y)
	}

	return types.Span{
		X:      minX,
		Y:      minY,
		Width:  uint64(int64(maxX) - int64(minX) + 1),
		Height: uint64(int64(maxY) - int64(minY) + 1),
	}, true
}

// Bounds returns the smallest rectangle containing all the alive cells.
// False is returned if board is empty or cells span more than the rectangle can describe. Use Span then.
func (b *Board) Bounds() (types.Rect, bool) {
	span, ok := b.Span()
	if !ok {
		return types.Rect{}, false
	}
	return span.Rect()
}

// Region returns new board containing alive cells inside the rectangle.
func (b *Board) Region(region types.Rect) *Board {
	b2 := New()
	for c := range b.cells {
		if region.InBounds(c) {
			b2.cells[c] = struct{}{}
		}
	}
	return b2
}

// ClearRegion kills all the cells inside the rectangle and returns the ones which were alive.
func (b *Board) ClearRegion(region types.Rect) []types.Cell {
	removed := lo.Filter(lo.Keys(b.cells), func(c types.Cell, _ int) bool {
		return region.InBounds(c)
	})
	for _, c := range removed {
		delete(b.cells, c)
	}
	slices.SortFunc(removed, types.Cell.Compare)
	return removed
}

// Insert sets alive all the cells alive in other board shifted by offset.
// Cells inserted which were dead before are returned.
func (b *Board) Insert(other *Board, offset types.Cell) []types.Cell {
	inserted := []types.Cell{}
	for c := range other.cells {
		c = c.Add(offset)
		if _, exists := b.cells[c]; exists {
			continue
		}
		b.cells[c] = struct{}{}
		inserted = append(inserted, c)
	}
	slices.SortFunc(inserted, types.Cell.Compare)
	return inserted
}

// Move shifts alive cells inside the rectangle by offset. Rectangle covering moved cells is returned.
func (b *Board) Move(region types.Rect, offset types.Cell) (types.Rect, error) {
	moved, err := shift(region.UpperLeft(), int64(offset.X), int64(offset.Y))
	if err != nil {
		return types.Rect{}, err
	}

	target := types.Rect{X: moved.X, Y: moved.Y, Width: region.Width, Height: region.Height}
	if err := checkFits(target); err != nil {
		return types.Rect{}, err
	}

	for _, c := range b.ClearRegion(region) {
		b.cells[c.Add(offset)] = struct{}{}
	}
	return target, nil
}

// Rotate rotates alive cells inside the rectangle by 90 degrees around its centre. Y grows downwards, so clockwise
// rotation moves the top row to the right column. Rectangle covering rotated cells is returned.
func (b *Board) Rotate(region types.Rect, clockwise bool) (types.Rect, error) {
	if region.Empty() {
		return region, nil
	}

	// Halves are truncated towards zero, so rotating back restores the region.
	corner, err := shift(region.UpperLeft(), (int64(region.Width)-int64(region.Height))/2,
		(int64(region.Height)-int64(region.Width))/2)
	if err != nil {
		return types.Rect{}, err
	}

	target := types.Rect{X: corner.X, Y: corner.Y, Width: region.Height, Height: region.Width}
	if err := checkFits(target); err != nil {
		return types.Rect{}, err
	}

	for _, c := range b.ClearRegion(region) {
		dx := c.X - region.X
		dy := c.Y - region.Y
		if clockwise {
			dx, dy = region.Height-1-dy, dx
		} else {
			dx, dy = dy, region.Width-1-dx
		}
		b.cells[types.Cell{X: target.X + dx, Y: target.Y + dy}] = struct{}{}
	}
	return target, nil
}

// Clear kills all the cells.
func (b *Board) Clear() {
	clear(b.cells)
}

// Clone returns the copy of the board.
func (b *Board) Clone() *Board {
	b2 := &Board{
		cells: make(map[types.Cell]struct{}, len(b.cells)),
	}
	for c := range b.cells {
		b2.cells[c] = struct{}{}
	}
	return b2
}

// Equal returns true if both boards contain the same alive cells.
func (b *Board) Equal(b2 *Board) bool {
	if len(b.cells) != len(b2.cells) {
		return false
	}
	for c := range b.cells {
		if _, exists := b2.cells[c]; !exists {
			return false
		}
	}
	return true
}

func shift(c types.Cell, dx, dy int64) (types.Cell, error) {
	x := int64(c.X) + dx
	y := int64(c.Y) + dy
	if x < math.MinInt32 || x > math.MaxInt32 || y < math.MinInt32 || y > math.MaxInt32 {
		return types.Cell{}, errors.Errorf("cell (%d, %d) is outside the plane", x, y)
	}
	return types.Cell{X: int32(x), Y: int32(y)}, nil
}

func checkFits(r types.Rect) error {
	if int64(r.X)+int64(r.Width)-1 > math.MaxInt32 || int64(r.Y)+int64(r.Height)-1 > math.MaxInt32 {
		return errors.Errorf("rectangle %dx%d at (%d, %d) exceeds the plane", r.Width, r.Height, r.X, r.Y)
	}
	return nil
}
