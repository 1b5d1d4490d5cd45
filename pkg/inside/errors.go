package inside

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized indicates the Protocol is used before Initialize.
	ErrNotInitialized = errors.New("protocol not initialized")
	// ErrNilSink indicates Initialize is called without a Sink.
	ErrNilSink = errors.New("nil sink")
	// ErrMalformedFrame indicates the frame length doesn't match the layout
	// of its opcode. Errors returned by Decode are matched with errors.Is.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrValueTooLong indicates a register value doesn't fit in a frame.
	ErrValueTooLong = errors.New("register value too long")
)

// FrameError describes a malformed frame.
type FrameError struct {
	Opcode   Opcode
	Length   int
	Want     int
	Variable bool
}

// Error implements error.
func (e *FrameError) Error() string {
	if e.Length == 0 {
		return "malformed frame: empty"
	}
	if e.Variable {
		return fmt.Sprintf("malformed frame: %s needs at least %d bytes, got %d", e.Opcode, e.Want, e.Length)
	}
	return fmt.Sprintf("malformed frame: %s needs %d bytes, got %d", e.Opcode, e.Want, e.Length)
}

// Is matches ErrMalformedFrame.
func (e *FrameError) Is(target error) bool {
	return target == ErrMalformedFrame
}
