package codec

import (
	"github.com/pkg/errors"
)

const (
	// marker is set in every byte of the formatted number so it is never confused with the terminator.
	marker      = 0x40
	markerMask  = 0xc0
	payloadMask = 0x3f
	bitsPerByte = 6

	dimensionLength = 4
	headerLength    = 2 * dimensionLength

	flagDead  = '0'
	flagAlive = '1'
)

// MaxDimension is the maximum width and height of the encoded region.
const MaxDimension = 1<<(bitsPerByte*dimensionLength) - 1

// WordCapacity returns the maximum value stored in word of the size.
func WordCapacity(wordSize int) uint64 {
	return 1<<(bitsPerByte*wordSize) - 1
}

// WordSize returns the size in bytes of the narrowest word able to store the number of cells.
func WordSize(cells uint64) int {
	for _, size := range []int{1, 2, 4} {
		if cells <= WordCapacity(size) {
			return size
		}
	}
	return 8
}

func appendNumber(buf []byte, value uint64, wordSize int) ([]byte, error) {
	if value > WordCapacity(wordSize) {
		return nil, errors.Wrapf(ErrTooLarge, "value %d does not fit into %d-byte word", value, wordSize)
	}
	for i := range wordSize {
		buf = append(buf, marker|byte(value>>(bitsPerByte*i))&payloadMask)
	}
	return buf, nil
}

func readNumber(data []byte, wordSize int) (uint64, error) {
	if len(data) < wordSize {
		return 0, errors.Wrapf(ErrMalformed, "expected %d bytes, got %d", wordSize, len(data))
	}

	var value uint64
	for i, b := range data[:wordSize] {
		if b&markerMask != marker {
			return 0, errors.Wrapf(ErrMalformed, "byte %#x has no marker", b)
		}
		value |= uint64(b&payloadMask) << (bitsPerByte * i)
	}
	return value, nil
}
