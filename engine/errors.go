package engine

import "errors"

// Error kinds returned by the engine. Callers match them with errors.Is;
// the wrapped message carries the offending value.
var (
	// ErrInvalidEncoding reports a packed value that violates its format:
	// a field out of range, misuse of a sentinel, or stray bits.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrIndexOutOfRange reports indexed access past the size of a card
	// set or trick.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrIllegalState reports a turn transition whose precondition does
	// not hold.
	ErrIllegalState = errors.New("illegal state")

	// ErrInvalidConfiguration reports an unusable search configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
