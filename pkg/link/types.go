// Package link carries inside protocol frames between the head and the
// body over a message oriented transport. Each transport message is
// exactly one frame, so no framing is applied here.
package link

import "github.com/robotalks/xpider/pkg/inside"

// FrameReader reads one frame per call.
type FrameReader interface {
	ReadFrame() ([]byte, error)
}

// FrameWriter writes one frame per call.
type FrameWriter interface {
	WriteFrame([]byte) error
}

// FrameReadWriter reads and writes frames.
type FrameReadWriter interface {
	FrameReader
	FrameWriter
}

// Decoder consumes received frames, usually an *inside.Protocol.
type Decoder interface {
	Decode(frame []byte) (inside.Opcode, error)
}
