package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"
)

// RobotInfo is the announcement of a robot body.
type RobotInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Firmware string `json:"firmware,omitempty"`
	Link     string `json:"link,omitempty"`
}

// Announcer keeps a retained announcement of the robot on <robot>/meta
// while connected. A broker will clears it when the connection drops.
type Announcer struct {
	Queue *Queue
	Info  RobotInfo

	meta []byte
}

// NewAnnouncer creates the Queue for brokerURL with a will on the meta
// topic of the robot.
func NewAnnouncer(brokerURL string, info RobotInfo) (*Announcer, error) {
	meta, err := json.Marshal(&info)
	if err != nil {
		return nil, err
	}
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	topic := RobotTopic(info.ID, TopicMeta)
	opts.SetBinaryWill(prefix+topic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("xpider:" + info.ID)
	}
	a := &Announcer{Queue: NewQueue(opts, prefix), Info: info, meta: meta}
	a.Queue.OnConnect = func(q *Queue) {
		glog.Infof("announce %s", info.ID)
		q.PubWith(topic, a.meta, 1, true)
	}
	return a, nil
}

// Run implements Runnable. The announcement is withdrawn on exit.
func (a *Announcer) Run(ctx context.Context) error {
	if err := a.Queue.Connect(); err != nil {
		return fmt.Errorf("connect broker: %w", err)
	}
	<-ctx.Done()
	a.Queue.PubWith(RobotTopic(a.Info.ID, TopicMeta), nil, 1, true).WaitTimeout(time.Second)
	a.Queue.Close()
	return ctx.Err()
}

// DefaultDiscoverTimeout is used when Discover is called with zero timeout.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover collects retained announcements until timeout.
func Discover(ctx context.Context, q *Queue, timeout time.Duration) ([]RobotInfo, error) {
	infoCh, doneCh := make(chan RobotInfo, 16), make(chan struct{})
	sub := q.Sub("+/"+TopicMeta, func(topic string, payload []byte) {
		if len(payload) == 0 {
			return
		}
		var info RobotInfo
		if err := json.Unmarshal(payload, &info); err != nil {
			glog.Warningf("invalid announcement on %s: %v", topic, err)
			return
		}
		if info.ID == "" {
			info.ID = strings.TrimSuffix(topic, "/"+TopicMeta)
		}
		select {
		case infoCh <- info:
		case <-doneCh:
		}
	})
	defer sub.Close()
	defer close(doneCh)

	if timeout == 0 {
		timeout = DefaultDiscoverTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	found := make(map[string]bool)
	var robots []RobotInfo
	for {
		select {
		case info := <-infoCh:
			if !found[info.ID] {
				found[info.ID] = true
				robots = append(robots, info)
			}
		case <-timer.C:
			return robots, nil
		case <-ctx.Done():
			return robots, ctx.Err()
		}
	}
}
