package mqtt

import (
	"io"
	"sync"
)

// Topic suffixes of a robot, relative to the robot id.
const (
	// TopicHead carries frames sent by the head.
	TopicHead = "head"
	// TopicBody carries frames sent by the body.
	TopicBody = "body"
	// TopicMeta carries the retained announcement.
	TopicMeta = "meta"
	// TopicTelemetry carries telemetry messages.
	TopicTelemetry = "telemetry"
)

// RobotTopic builds the topic of a robot.
func RobotTopic(robotID, suffix string) string {
	return robotID + "/" + suffix
}

// ReadWriter implements link.FrameReadWriter, one frame per message.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	sub     *Subscription
	frameCh chan []byte
	doneCh  chan struct{}
	once    sync.Once
}

// NewReadWriter subscribes to subTopic and publishes to pubTopic.
func NewReadWriter(q *Queue, subTopic, pubTopic string) *ReadWriter {
	rw := &ReadWriter{
		Queue:    q,
		SubTopic: subTopic,
		PubTopic: pubTopic,
		frameCh:  make(chan []byte, 16),
		doneCh:   make(chan struct{}),
	}
	rw.sub = q.Sub(subTopic, rw.received)
	return rw
}

// ForHead creates the ReadWriter used by the head of robotID.
func ForHead(q *Queue, robotID string) *ReadWriter {
	return NewReadWriter(q, RobotTopic(robotID, TopicBody), RobotTopic(robotID, TopicHead))
}

// ForBody creates the ReadWriter used by the body of robotID.
func ForBody(q *Queue, robotID string) *ReadWriter {
	return NewReadWriter(q, RobotTopic(robotID, TopicHead), RobotTopic(robotID, TopicBody))
}

// ReadFrame implements link.FrameReader.
func (rw *ReadWriter) ReadFrame() ([]byte, error) {
	select {
	case frame := <-rw.frameCh:
		return frame, nil
	case <-rw.doneCh:
		return nil, io.EOF
	}
}

// WriteFrame implements link.FrameWriter.
func (rw *ReadWriter) WriteFrame(frame []byte) error {
	token := rw.Queue.Pub(rw.PubTopic, frame)
	token.Wait()
	return token.Error()
}

// Close unsubscribes, pending ReadFrame returns io.EOF.
func (rw *ReadWriter) Close() (err error) {
	rw.once.Do(func() {
		close(rw.doneCh)
		err = rw.sub.Close()
	})
	return
}

func (rw *ReadWriter) received(_ string, payload []byte) {
	frame := append([]byte(nil), payload...)
	select {
	case rw.frameCh <- frame:
	case <-rw.doneCh:
	}
}
