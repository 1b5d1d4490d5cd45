package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServerAndDial(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	require.Equal(t, ErrNoPeer, srv.WriteFrame([]byte{1}))

	hs := httptest.NewServer(srv)
	defer hs.Close()

	head, err := Dial("ws" + strings.TrimPrefix(hs.URL, "http"))
	require.NoError(t, err)
	defer head.Close()

	require.NoError(t, head.WriteFrame([]byte{0, 0xfb}))
	frame, err := srv.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0xfb}, frame)

	require.Eventually(t, func() bool {
		return srv.WriteFrame([]byte{4, 30}) == nil
	}, time.Second, 10*time.Millisecond)
	frame, err = head.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, []byte{4, 30}, frame)
}
