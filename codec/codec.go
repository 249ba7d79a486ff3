package codec

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/outofforest/gol/board"
	"github.com/outofforest/gol/types"
)

var (
	// ErrTooLarge is returned if number does not fit into the selected word.
	ErrTooLarge = errors.New("argument too large")

	// ErrMalformed is returned if buffer does not follow the format.
	ErrMalformed = errors.New("malformed region buffer")
)

// ThresholdError is returned by Decode if number of alive cells exceeds the threshold.
type ThresholdError struct {
	Count     uint64
	Threshold uint64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("region contains at least %d alive cells, threshold is %d", e.Count, e.Threshold)
}

// Region is the decoded region. Cells of the board are relative to the top-left corner of the region.
type Region struct {
	Bounds types.Rect
	Board  *board.Board
}

// Encode encodes the region of the board using the narrowest word able to store its number of cells.
func Encode(b *board.Board, region types.Rect) ([]byte, error) {
	return encode(b, region, WordSize(region.Area()))
}

// EncodeWords encodes the region of the board using word of type W.
func EncodeWords[W constraints.Unsigned](b *board.Board, region types.Rect) ([]byte, error) {
	return encode(b, region, wordSizeOf[W]())
}

// Decode decodes the region. Word size is derived from the region dimensions stored in the header.
// If number of alive cells exceeds warnThreshold, decoding stops and *ThresholdError is returned.
func Decode(data []byte, warnThreshold uint64) (Region, error) {
	return decode(data, warnThreshold, 0)
}

// DecodeWords decodes the region encoded using word of type W.
func DecodeWords[W constraints.Unsigned](data []byte, warnThreshold uint64) (Region, error) {
	return decode(data, warnThreshold, wordSizeOf[W]())
}

func wordSizeOf[W constraints.Unsigned]() int {
	return bits.Len64(uint64(^W(0))) / 8
}

func encode(b *board.Board, region types.Rect, wordSize int) ([]byte, error) {
	if region.Empty() {
		return []byte{0x00}, nil
	}
	if region.Width > MaxDimension || region.Height > MaxDimension {
		return nil, errors.Wrapf(ErrTooLarge, "region %dx%d exceeds maximum dimension %d", region.Width,
			region.Height, MaxDimension)
	}

	// Sorting by X, then by Y gives column-major order.
	cells := b.Region(region).Cells()
	height := uint64(region.Height)
	index := func(c types.Cell) uint64 {
		return uint64(int64(c.X)-int64(region.X))*height + uint64(int64(c.Y)-int64(region.Y))
	}

	buf := make([]byte, 0, headerLength+(2*len(cells)+2)*wordSize)
	buf, err := appendNumber(buf, uint64(region.Width), dimensionLength)
	if err != nil {
		return nil, err
	}
	buf, err = appendNumber(buf, uint64(region.Height), dimensionLength)
	if err != nil {
		return nil, err
	}

	var flag uint64 = flagDead
	if len(cells) > 0 && index(cells[0]) == 0 {
		flag = flagAlive
	}
	if buf, err = appendNumber(buf, flag, wordSize); err != nil {
		return nil, err
	}

	// Runs alternate starting with the state given by flag. Trailing dead run is not stored.
	var cursor uint64
	for i := 0; i < len(cells); {
		start := index(cells[i])
		end := start + 1
		for i++; i < len(cells) && index(cells[i]) == end; i++ {
			end++
		}

		if start > cursor {
			if buf, err = appendRun(buf, start-cursor, wordSize); err != nil {
				return nil, err
			}
		}
		if buf, err = appendRun(buf, end-start, wordSize); err != nil {
			return nil, err
		}
		cursor = end
	}

	return append(buf, make([]byte, wordSize)...), nil
}

func appendRun(buf []byte, count uint64, wordSize int) ([]byte, error) {
	buf, err := appendNumber(buf, count, wordSize)
	if err != nil {
		return nil, errors.Wrapf(err, "run of %d cells can't be encoded", count)
	}
	return buf, nil
}

func decode(data []byte, warnThreshold uint64, wordSize int) (Region, error) {
	if len(data) == 0 || data[0] == 0x00 {
		return Region{Board: board.New()}, nil
	}

	width, err := readNumber(data, dimensionLength)
	if err != nil {
		return Region{}, errors.WithMessage(err, "reading width failed")
	}
	height, err := readNumber(data[dimensionLength:], dimensionLength)
	if err != nil {
		return Region{}, errors.WithMessage(err, "reading height failed")
	}

	area := width * height
	if wordSize == 0 {
		wordSize = WordSize(area)
	}

	data = data[headerLength:]
	flag, err := readNumber(data, wordSize)
	if err != nil {
		return Region{}, errors.WithMessage(err, "reading flag failed")
	}
	if flag != flagDead && flag != flagAlive {
		return Region{}, errors.Wrapf(ErrMalformed, "invalid flag %#x", flag)
	}
	data = data[wordSize:]

	b := board.New()
	alive := flag == flagAlive
	var cursor, aliveCount uint64
	for {
		if len(data) < wordSize {
			return Region{}, errors.Wrap(ErrMalformed, "terminator is missing")
		}
		if data[0] == 0x00 {
			break
		}

		count, err := readNumber(data, wordSize)
		if err != nil {
			return Region{}, errors.WithMessage(err, "reading run failed")
		}
		data = data[wordSize:]

		if count > area-cursor {
			return Region{}, errors.Wrapf(ErrMalformed, "run of %d cells exceeds region of %d cells", count,
				area)
		}

		if alive {
			aliveCount += count
			if aliveCount > warnThreshold {
				return Region{}, errors.WithStack(&ThresholdError{
					Count:     aliveCount,
					Threshold: warnThreshold,
				})
			}

			for i := cursor; i < cursor+count; i++ {
				b.SetAlive(types.Cell{X: int32(i / height), Y: int32(i % height)}, true)
			}
		}

		cursor += count
		alive = !alive
	}

	return Region{
		Bounds: types.Rect{Width: int32(width), Height: int32(height)},
		Board:  b,
	}, nil
}
