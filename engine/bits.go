package engine

import "fmt"

// Word is the set of fixed-width unsigned integers the packed encodings
// are built on.
type Word interface {
	~uint32 | ~uint64
}

func width[T Word]() uint {
	var zero T
	if ^zero == T(^uint32(0)) {
		return 32
	}
	return 64
}

func checkRange[T Word](start, size uint) {
	w := width[T]()
	if start > w || size > w || start+size > w {
		panic(fmt.Sprintf("bits: range [%d, %d) outside %d-bit word", start, start+size, w))
	}
}

// Mask returns a word whose bits [start, start+size) are ones and all other
// bits are zero. It panics if the range does not fit the word.
func Mask[T Word](start, size uint) T {
	checkRange[T](start, size)
	if size == width[T]() {
		return ^T(0)
	}
	return ((T(1) << size) - 1) << start
}

// Extract returns bits [start, start+size) of v, shifted down to bit 0.
// It panics if the range does not fit the word.
func Extract[T Word](v T, start, size uint) T {
	return (v >> start) & Mask[T](0, size)
}

// Field is one value and the number of bits it occupies in a packed word.
type Field[T Word] struct {
	Value T
	Size  uint
}

// Pack concatenates fields from the least significant bit upwards. It
// fails with ErrInvalidEncoding if a value does not fit in its size or the
// sizes exceed the word.
func Pack[T Word](fields ...Field[T]) (T, error) {
	var (
		out   T
		shift uint
	)
	w := width[T]()
	for i, f := range fields {
		if f.Size == 0 || f.Size >= w {
			return 0, fmt.Errorf("%w: field %d has size %d", ErrInvalidEncoding, i, f.Size)
		}
		if f.Value>>f.Size != 0 {
			return 0, fmt.Errorf("%w: field %d value %#x wider than %d bits", ErrInvalidEncoding, i, uint64(f.Value), f.Size)
		}
		if shift+f.Size > w {
			return 0, fmt.Errorf("%w: fields exceed %d bits", ErrInvalidEncoding, w)
		}
		out |= f.Value << shift
		shift += f.Size
	}
	return out, nil
}
