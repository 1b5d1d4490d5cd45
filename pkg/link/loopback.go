package link

import (
	"io"
	"sync"
)

// Loopback is one end of an in-process link.
type Loopback struct {
	rx    <-chan []byte
	tx    chan<- []byte
	done  chan struct{}
	close *sync.Once
}

// NewLoopback creates two connected ends. Frames written to one end are
// read from the other. Closing either end closes both.
func NewLoopback() (*Loopback, *Loopback) {
	ab, ba := make(chan []byte, 16), make(chan []byte, 16)
	done, once := make(chan struct{}), &sync.Once{}
	return &Loopback{rx: ba, tx: ab, done: done, close: once},
		&Loopback{rx: ab, tx: ba, done: done, close: once}
}

// ReadFrame implements FrameReader.
func (l *Loopback) ReadFrame() ([]byte, error) {
	select {
	case frame := <-l.rx:
		return frame, nil
	case <-l.done:
		return nil, io.EOF
	}
}

// WriteFrame implements FrameWriter. The frame is copied as the caller
// may reuse it.
func (l *Loopback) WriteFrame(frame []byte) error {
	frame = append([]byte(nil), frame...)
	select {
	case <-l.done:
		return io.ErrClosedPipe
	default:
	}
	select {
	case l.tx <- frame:
		return nil
	case <-l.done:
		return io.ErrClosedPipe
	}
}

// Close implements io.Closer.
func (l *Loopback) Close() error {
	l.close.Do(func() { close(l.done) })
	return nil
}
