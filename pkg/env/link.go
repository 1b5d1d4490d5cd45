package env

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/xpider/pkg/body"
	"github.com/robotalks/xpider/pkg/capture"
	fx "github.com/robotalks/xpider/pkg/framework"
	"github.com/robotalks/xpider/pkg/link"
	"github.com/robotalks/xpider/pkg/link/mqtt"
	"github.com/robotalks/xpider/pkg/link/websocket"
)

// Role is the side of the link.
type Role int

// Roles.
const (
	RoleHead Role = iota
	RoleBody
)

func (r Role) String() string {
	if r == RoleBody {
		return "body"
	}
	return "head"
}

// Link is an opened link with the background workers it needs.
type Link struct {
	link.FrameReadWriter
	// Queue is set for MQTT links.
	Queue *mqtt.Queue

	runnables []fx.Runnable
	closers   []io.Closer
}

// Runnables returns workers to be run along with the Pipe.
func (l *Link) Runnables() []fx.Runnable {
	return l.runnables
}

// Close closes the link and everything opened with it.
func (l *Link) Close() error {
	var errs fx.AggregatedError
	for n := len(l.closers) - 1; n >= 0; n-- {
		errs.Add(l.closers[n].Close())
	}
	l.closers = nil
	return errs.Aggregate()
}

// OpenLink opens the configured link for role, wrapped in a capture tap
// when CapturePath is set.
func (c *Config) OpenLink(role Role) (*Link, error) {
	u, err := url.Parse(c.LinkURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL: %w", err)
	}
	var l *Link
	switch u.Scheme {
	case "mqtt", "mqtts", "tcp", "ssl":
		l, err = c.openMQTT(role)
	case "ws", "wss":
		l, err = c.openWebsocket(role, u)
	default:
		err = fmt.Errorf("unknown link URL scheme: %q", u.Scheme)
	}
	if err != nil {
		return nil, err
	}
	if c.CapturePath != "" {
		rec, err := capture.CreateFileRecorder(c.CapturePath)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("open capture: %w", err)
		}
		tap := capture.NewTap(l.FrameReadWriter, rec)
		glog.Infof("capture session %s into %s", tap.Session, c.CapturePath)
		l.FrameReadWriter = tap
		l.closers = append(l.closers, rec)
	}
	return l, nil
}

func (c *Config) openMQTT(role Role) (*Link, error) {
	if c.RobotID == "" {
		return nil, fmt.Errorf("robot id must be specified")
	}
	if role == RoleBody {
		announcer, err := mqtt.NewAnnouncer(c.LinkURL, mqtt.RobotInfo{
			ID:       c.RobotID,
			Name:     c.Body.Name,
			Firmware: body.FirmwareVersion,
		})
		if err != nil {
			return nil, err
		}
		rw := mqtt.ForBody(announcer.Queue, c.RobotID)
		return &Link{
			FrameReadWriter: rw,
			Queue:           announcer.Queue,
			runnables:       []fx.Runnable{fx.NamedRun("announcer", announcer)},
			closers:         []io.Closer{rw},
		}, nil
	}
	q, err := mqtt.NewQueueFromURL(c.LinkURL)
	if err != nil {
		return nil, err
	}
	rw := mqtt.ForHead(q, c.RobotID)
	if err = q.Connect(); err != nil {
		rw.Close()
		return nil, fmt.Errorf("connect broker: %w", err)
	}
	return &Link{FrameReadWriter: rw, Queue: q, closers: []io.Closer{q, rw}}, nil
}

func (c *Config) openWebsocket(role Role, u *url.URL) (*Link, error) {
	if role == RoleHead {
		rw, err := websocket.Dial(c.LinkURL)
		if err != nil {
			return nil, err
		}
		return &Link{FrameReadWriter: rw, closers: []io.Closer{rw}}, nil
	}
	srv := websocket.NewServer()
	mux := http.NewServeMux()
	path := u.Path
	if path == "" {
		path = "/"
	}
	mux.Handle(path, srv)
	hs := &http.Server{Addr: c.Body.ListenAddr, Handler: mux}
	serve := fx.RunFunc(func(ctx context.Context) error {
		glog.Infof("serving %s on %s", path, hs.Addr)
		return fx.RunWithContextCancel(ctx, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			hs.Shutdown(shutdownCtx)
		}, hs.ListenAndServe)
	})
	return &Link{
		FrameReadWriter: srv,
		runnables:       []fx.Runnable{fx.NamedRun("websocket", serve)},
		closers:         []io.Closer{srv},
	}, nil
}
