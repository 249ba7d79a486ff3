package types

import (
	"math"
)

const (
	// HashLength is the number of bytes taken by content digest.
	HashLength = 32

	// MaxLevel is the highest quadtree level the engine handles. Side of the square is 2^MaxLevel.
	MaxLevel Level = 62
)

type (
	// NodeID is the index of a node in the node arena. Zero is never assigned to a node.
	NodeID uint32

	// Level is the quadtree level. Node of level L covers square of side 2^L.
	Level uint8

	// Fingerprint is the content-derived hash of a node used to find its canonical instance.
	Fingerprint uint64

	// Hash is the content digest of a node, stable across sessions and processes.
	Hash [HashLength]byte
)

// InvalidNodeID is the node ID never assigned to any node.
const InvalidNodeID NodeID = 0

// Side returns the side length of the square covered by the level.
func (l Level) Side() int64 {
	return int64(1) << l
}

// Cell is the coordinate of a cell on the plane. Y grows downwards.
type Cell struct {
	X int32
	Y int32
}

// Less orders cells by X, then by Y.
func (c Cell) Less(c2 Cell) bool {
	if c.X != c2.X {
		return c.X < c2.X
	}
	return c.Y < c2.Y
}

// Compare returns -1, 0 or 1 depending on the order of cells.
func (c Cell) Compare(c2 Cell) int {
	switch {
	case c.Less(c2):
		return -1
	case c2.Less(c):
		return 1
	default:
		return 0
	}
}

// Add returns cell shifted by the offset.
func (c Cell) Add(offset Cell) Cell {
	return Cell{X: c.X + offset.X, Y: c.Y + offset.Y}
}

// Rect describes rectangle on the plane.
type Rect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// Empty returns true if rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// InBounds returns true if cell lies inside the rectangle.
func (r Rect) InBounds(c Cell) bool {
	return int64(c.X) >= int64(r.X) && int64(c.X) < int64(r.X)+int64(r.Width) &&
		int64(c.Y) >= int64(r.Y) && int64(c.Y) < int64(r.Y)+int64(r.Height)
}

// UpperLeft returns the top-left corner.
func (r Rect) UpperLeft() Cell {
	return Cell{X: r.X, Y: r.Y}
}

// Area returns number of cells covered by the rectangle.
func (r Rect) Area() uint64 {
	if r.Empty() {
		return 0
	}
	return uint64(r.Width) * uint64(r.Height)
}

// Span is the bounding box of cells. Unlike Rect, its width and height are not limited by the int32 range,
// so it covers any set of cells on the plane.
type Span struct {
	X      int32
	Y      int32
	Width  uint64
	Height uint64
}

// Rect returns the span as rectangle. False is returned if width or height exceeds the int32 range.
func (s Span) Rect() (Rect, bool) {
	if s.Width > math.MaxInt32 || s.Height > math.MaxInt32 {
		return Rect{}, false
	}
	return Rect{
		X:      s.X,
		Y:      s.Y,
		Width:  int32(s.Width),
		Height: int32(s.Height),
	}, true
}
