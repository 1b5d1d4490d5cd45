package capture

import (
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/robotalks/xpider/pkg/inside"
)

// Filter selects events, zero fields match everything.
type Filter struct {
	Session   string
	Direction *Direction
	Opcode    *inside.Opcode
}

func (f *Filter) match(event *Event) bool {
	return (f.Session == "" || f.Session == event.Session) &&
		(f.Direction == nil || *f.Direction == event.Direction) &&
		(f.Opcode == nil || *f.Opcode == event.Opcode)
}

// Reader iterates events of a capture stream.
type Reader struct {
	Filter Filter

	decoder *cbor.Decoder
	closer  io.Closer
}

// NewReader reads events from r.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{decoder: newDecoder(r)}
	if closer, ok := r.(io.Closer); ok {
		rd.closer = closer
	}
	return rd
}

// OpenFile opens a capture file.
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(f), nil
}

// Next returns the next matching event, io.EOF at the end.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			return Event{}, err
		}
		if r.Filter.match(&event) {
			return event, nil
		}
	}
}

// Close closes the underlying file if any.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
