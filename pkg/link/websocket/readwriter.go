// Package websocket carries frames over websocket binary messages.
package websocket

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// ReadWriter implements link.FrameReadWriter on a websocket connection.
type ReadWriter websocket.Conn

// New wraps a websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// Dial connects to a body serving at url, e.g. ws://xpider.local:8080/inside.
func Dial(url string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// ReadFrame implements link.FrameReader.
func (rw *ReadWriter) ReadFrame() (frame []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(rw), &frame)
	return
}

// WriteFrame implements link.FrameWriter.
func (rw *ReadWriter) WriteFrame(frame []byte) error {
	return websocket.Message.Send((*websocket.Conn)(rw), frame)
}

// Close implements io.Closer.
func (rw *ReadWriter) Close() error {
	return (*websocket.Conn)(rw).Close()
}

// ErrNoPeer is returned when writing to a Server with no head attached.
var ErrNoPeer = errors.New("no peer connected")

// Server serves one head at a time and implements link.FrameReadWriter
// for the body. A new connection replaces the current one.
type Server struct {
	frameCh chan []byte
	doneCh  chan struct{}
	once    sync.Once

	lock sync.Mutex
	conn *websocket.Conn
}

// NewServer creates a Server.
func NewServer() *Server {
	return &Server{
		frameCh: make(chan []byte, 16),
		doneCh:  make(chan struct{}),
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(s.serve).ServeHTTP(w, r)
}

func (s *Server) serve(conn *websocket.Conn) {
	s.lock.Lock()
	prev := s.conn
	s.conn = conn
	s.lock.Unlock()
	if prev != nil {
		glog.Infof("head %s replaced by %s", prev.Request().RemoteAddr, conn.Request().RemoteAddr)
		prev.Close()
	} else {
		glog.Infof("head %s attached", conn.Request().RemoteAddr)
	}

	defer s.detach(conn)
	for {
		var frame []byte
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			if err != io.EOF {
				glog.V(1).Infof("head %s: %v", conn.Request().RemoteAddr, err)
			}
			return
		}
		select {
		case s.frameCh <- frame:
		case <-s.doneCh:
			return
		}
	}
}

func (s *Server) detach(conn *websocket.Conn) {
	s.lock.Lock()
	if s.conn == conn {
		s.conn = nil
		glog.Infof("head %s detached", conn.Request().RemoteAddr)
	}
	s.lock.Unlock()
	conn.Close()
}

// ReadFrame implements link.FrameReader, frames from any attached head.
func (s *Server) ReadFrame() ([]byte, error) {
	select {
	case frame := <-s.frameCh:
		return frame, nil
	case <-s.doneCh:
		return nil, io.EOF
	}
}

// WriteFrame implements link.FrameWriter, it fails with ErrNoPeer when
// no head is attached.
func (s *Server) WriteFrame(frame []byte) error {
	s.lock.Lock()
	conn := s.conn
	s.lock.Unlock()
	if conn == nil {
		return ErrNoPeer
	}
	return websocket.Message.Send(conn, frame)
}

// Close stops reading and drops the attached head.
func (s *Server) Close() error {
	s.once.Do(func() {
		close(s.doneCh)
		s.lock.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		s.lock.Unlock()
	})
	return nil
}
