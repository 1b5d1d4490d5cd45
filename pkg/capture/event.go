// Package capture records the frames crossing a link into a CBOR log
// file (.xcap) and reads them back.
package capture

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robotalks/xpider/pkg/inside"
)

// FileExt is the conventional extension of capture files.
const FileExt = ".xcap"

// Direction of a frame relative to the recording side.
type Direction uint8

// Directions.
const (
	DirectionIn Direction = iota
	DirectionOut
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	}
	return "?"
}

// ParseDirection parses "in" or "out", case-insensitive.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "in":
		return DirectionIn, true
	case "out":
		return DirectionOut, true
	}
	return 0, false
}

// Event is one captured frame.
type Event struct {
	Timestamp time.Time     `cbor:"1,keyasint"`
	Session   string        `cbor:"2,keyasint"`
	Direction Direction     `cbor:"3,keyasint"`
	Opcode    inside.Opcode `cbor:"4,keyasint"`
	Frame     []byte        `cbor:"5,keyasint"`
	Error     string        `cbor:"6,keyasint,omitempty"`
}

// NewSession generates a session id.
func NewSession() string {
	return uuid.New().String()
}

// OpcodeOf returns the opcode of a frame, OpUnknown if empty or not in
// the catalog.
func OpcodeOf(frame []byte) inside.Opcode {
	if len(frame) == 0 || !inside.Opcode(frame[0]).IsKnown() {
		return inside.OpUnknown
	}
	return inside.Opcode(frame[0])
}
