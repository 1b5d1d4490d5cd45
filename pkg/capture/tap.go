package capture

import (
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/xpider/pkg/link"
)

// Tap records every frame passing through a FrameReadWriter.
type Tap struct {
	link.FrameReadWriter
	Recorder Recorder
	Session  string

	now func() time.Time
}

// NewTap wraps rw with a new session.
func NewTap(rw link.FrameReadWriter, recorder Recorder) *Tap {
	return &Tap{FrameReadWriter: rw, Recorder: recorder, Session: NewSession(), now: time.Now}
}

// ReadFrame implements link.FrameReader.
func (t *Tap) ReadFrame() ([]byte, error) {
	frame, err := t.FrameReadWriter.ReadFrame()
	if err == nil {
		t.record(DirectionIn, frame, nil)
	}
	return frame, err
}

// WriteFrame implements link.FrameWriter.
func (t *Tap) WriteFrame(frame []byte) error {
	err := t.FrameReadWriter.WriteFrame(frame)
	t.record(DirectionOut, frame, err)
	return err
}

// Close closes the wrapped FrameReadWriter if it's an io.Closer.
func (t *Tap) Close() error {
	if closer, ok := t.FrameReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *Tap) record(dir Direction, frame []byte, err error) {
	event := Event{
		Timestamp: t.now(),
		Session:   t.Session,
		Direction: dir,
		Opcode:    OpcodeOf(frame),
		Frame:     append([]byte(nil), frame...),
	}
	if err != nil {
		event.Error = err.Error()
	}
	if rerr := t.Recorder.Record(event); rerr != nil {
		glog.Warningf("capture %s frame: %v", dir, rerr)
	}
}
