package capture

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/xpider/pkg/inside"
	"github.com/robotalks/xpider/pkg/link"
)

type memRecorder struct {
	events []Event
}

func (r *memRecorder) Record(event Event) error {
	r.events = append(r.events, event)
	return nil
}

func TestEventCodec(t *testing.T) {
	event := Event{
		Timestamp: time.Date(2026, 10, 19, 8, 30, 0, 123456789, time.UTC),
		Session:   NewSession(),
		Direction: DirectionOut,
		Opcode:    inside.OpSetEye,
		Frame:     []byte{byte(inside.OpSetEye), 30},
	}
	data, err := EncodeEvent(event)
	require.NoError(t, err)
	decoded, err := DecodeEvent(data)
	require.NoError(t, err)
	require.True(t, event.Timestamp.Equal(decoded.Timestamp))
	decoded.Timestamp = event.Timestamp
	require.Equal(t, event, decoded)
}

func TestFileRecorderAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session"+FileExt)
	rec, err := CreateFileRecorder(path)
	require.NoError(t, err)

	head, body := link.NewLoopback()
	tap := NewTap(head, rec)
	require.NoError(t, tap.WriteFrame([]byte{byte(inside.OpMove), 5}))
	require.NoError(t, body.WriteFrame([]byte{byte(inside.OpHeartBeat), 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}))
	_, err = tap.ReadFrame()
	require.NoError(t, err)
	require.NoError(t, tap.WriteFrame([]byte{0x42}))
	require.NoError(t, rec.Close())
	require.Equal(t, io.ErrClosedPipe, func() error {
		tap.Close()
		return tap.WriteFrame([]byte{byte(inside.OpMove), 0})
	}())

	r, err := OpenFile(path)
	require.NoError(t, err)
	var events []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		events = append(events, event)
	}
	require.NoError(t, r.Close())
	require.Len(t, events, 3)
	for _, event := range events {
		require.Equal(t, tap.Session, event.Session)
	}
	require.Equal(t, DirectionOut, events[0].Direction)
	require.Equal(t, inside.OpMove, events[0].Opcode)
	require.Equal(t, DirectionIn, events[1].Direction)
	require.Equal(t, inside.OpHeartBeat, events[1].Opcode)
	require.Equal(t, inside.OpUnknown, events[2].Opcode)
	require.Equal(t, []byte{0x42}, events[2].Frame)
}

func TestReaderFilter(t *testing.T) {
	var buf bytes.Buffer
	enc := newEncoder(&buf)
	in, out := DirectionIn, DirectionOut
	hb := inside.OpHeartBeat
	for n, event := range []Event{
		{Session: "a", Direction: in, Opcode: inside.OpHeartBeat},
		{Session: "a", Direction: out, Opcode: inside.OpMove},
		{Session: "b", Direction: in, Opcode: inside.OpHeartBeat},
		{Session: "b", Direction: out, Opcode: inside.OpGetRegister},
	} {
		event.Timestamp = time.Unix(int64(n), 0)
		require.NoError(t, enc.Encode(event))
	}
	data := buf.Bytes()

	count := func(filter Filter) int {
		r := NewReader(bytes.NewReader(data))
		r.Filter = filter
		n := 0
		for {
			_, err := r.Next()
			if err == io.EOF {
				return n
			}
			require.NoError(t, err)
			n++
		}
	}
	require.Equal(t, 4, count(Filter{}))
	require.Equal(t, 2, count(Filter{Session: "b"}))
	require.Equal(t, 2, count(Filter{Direction: &in}))
	require.Equal(t, 1, count(Filter{Session: "a", Direction: &out}))
	require.Equal(t, 2, count(Filter{Opcode: &hb}))
	require.Equal(t, 0, count(Filter{Session: "c"}))
}

func TestTapRecordsWriteError(t *testing.T) {
	rec := &memRecorder{}
	head, _ := link.NewLoopback()
	head.Close()
	tap := NewTap(head, rec)
	require.Error(t, tap.WriteFrame([]byte{byte(inside.OpMove), 1}))
	require.Len(t, rec.events, 1)
	require.Equal(t, io.ErrClosedPipe.Error(), rec.events[0].Error)
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("OUT")
	require.True(t, ok)
	require.Equal(t, DirectionOut, d)
	_, ok = ParseDirection("sideways")
	require.False(t, ok)
}
