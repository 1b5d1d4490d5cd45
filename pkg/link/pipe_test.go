package link

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/xpider/pkg/inside"
)

func TestPipe(t *testing.T) {
	head, body := NewLoopback()

	speeds := make(chan int8, 4)
	bodyPipe := NewPipe(body)
	proto, err := inside.New(bodyPipe, inside.Callbacks{
		Move: func(speed int8) { speeds <- speed },
	})
	require.NoError(t, err)
	bodyPipe.Decoder = proto

	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan error, 1)
	go func() { doneCh <- bodyPipe.Run(ctx) }()

	// malformed and unknown frames are skipped.
	require.NoError(t, head.WriteFrame([]byte{byte(inside.OpMove)}))
	require.NoError(t, head.WriteFrame([]byte{0x42, 1, 2}))
	require.NoError(t, head.WriteFrame([]byte{byte(inside.OpMove), 0xfb}))
	select {
	case speed := <-speeds:
		require.Equal(t, int8(-5), speed)
	case <-time.After(time.Second):
		t.Fatal("frame not dispatched")
	}

	require.NoError(t, proto.SetEye(30))
	frame, err := head.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, []byte{byte(inside.OpSetEye), 30}, frame)

	cancel()
	select {
	case err := <-doneCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("pipe not stopped")
	}
	_, err = head.ReadFrame()
	require.Equal(t, io.EOF, err)
}

func TestPipeReadError(t *testing.T) {
	head, body := NewLoopback()
	p := NewPipe(body)
	head.Close()
	require.Equal(t, io.EOF, p.Run(context.Background()))
	require.Equal(t, io.ErrClosedPipe, p.Send([]byte{byte(inside.OpMove), 0}))
}
