package telemetry

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/xpider/pkg/inside"
	"github.com/robotalks/xpider/pkg/link/mqtt"
)

// Publisher publishes heartbeats of a robot to <robot>/telemetry.
type Publisher struct {
	Queue   *mqtt.Queue
	RobotID string
}

// NewPublisher creates a Publisher.
func NewPublisher(q *mqtt.Queue, robotID string) *Publisher {
	return &Publisher{Queue: q, RobotID: robotID}
}

// Publish publishes one heartbeat without waiting for delivery.
func (p *Publisher) Publish(hb inside.HeartBeat) error {
	data, err := Marshal(FromHeartBeat(p.RobotID, time.Now(), hb))
	if err != nil {
		return err
	}
	p.Queue.Pub(mqtt.RobotTopic(p.RobotID, mqtt.TopicTelemetry), data)
	return nil
}

// HandleHeartBeat is usable as a heartbeat hook, errors are logged.
func (p *Publisher) HandleHeartBeat(hb inside.HeartBeat) {
	if err := p.Publish(hb); err != nil {
		glog.Errorf("publish telemetry: %v", err)
	}
}

// Subscribe receives telemetry of robots matching robotFilter, which
// can be a robot id or the wildcard "+".
func Subscribe(q *mqtt.Queue, robotFilter string, fn func(*HeartBeat)) *mqtt.Subscription {
	return q.Sub(mqtt.RobotTopic(robotFilter, mqtt.TopicTelemetry), func(topic string, payload []byte) {
		m, err := Unmarshal(payload)
		if err != nil {
			glog.Warningf("invalid telemetry on %s: %v", topic, err)
			return
		}
		fn(m)
	})
}
