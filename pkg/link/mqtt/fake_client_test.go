package mqtt

import (
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// fakeToken completes immediately.
type fakeToken struct {
	paho.Token
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

type fakeMessage struct {
	paho.Message
	topic    string
	payload  []byte
	retained bool
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }
func (m *fakeMessage) Retained() bool  { return m.retained }

type published struct {
	topic   string
	payload []byte
	qos     byte
	retain  bool
}

// fakeClient acts as a client connected to an in-memory broker: publishes
// are routed back to matching subscriptions and retained messages are
// delivered on subscribe.
type fakeClient struct {
	paho.Client

	onConnect paho.OnConnectHandler

	lock         sync.Mutex
	connected    bool
	subs         map[string]paho.MessageHandler
	subscribed   []string
	unsubscribed []string
	published    []published
	retained     map[string][]byte
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		subs:     make(map[string]paho.MessageHandler),
		retained: make(map[string][]byte),
	}
}

// newTestQueue creates a Queue on a fakeClient, not connected.
func newTestQueue(prefix string) (*Queue, *fakeClient) {
	c := newFakeClient()
	q := &Queue{Client: c, TopicPrefix: prefix}
	c.onConnect = q.connected
	return q, c
}

func (c *fakeClient) IsConnected() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.connected
}

func (c *fakeClient) Connect() paho.Token {
	c.lock.Lock()
	c.connected = true
	c.lock.Unlock()
	if c.onConnect != nil {
		c.onConnect(c)
	}
	return &fakeToken{}
}

func (c *fakeClient) Disconnect(uint) {
	c.lock.Lock()
	c.connected = false
	c.lock.Unlock()
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	var data []byte
	switch p := payload.(type) {
	case []byte:
		data = p
	case string:
		data = []byte(p)
	}
	c.lock.Lock()
	if !c.connected {
		c.lock.Unlock()
		return &fakeToken{err: paho.ErrNotConnected}
	}
	c.published = append(c.published, published{topic: topic, payload: data, qos: qos, retain: retained})
	if retained {
		if len(data) == 0 {
			delete(c.retained, topic)
		} else {
			c.retained[topic] = data
		}
	}
	var handlers []paho.MessageHandler
	for filter, h := range c.subs {
		if MatchTopic(topic, filter) {
			handlers = append(handlers, h)
		}
	}
	c.lock.Unlock()
	for _, h := range handlers {
		h(c, &fakeMessage{topic: topic, payload: data})
	}
	return &fakeToken{}
}

func (c *fakeClient) Subscribe(filter string, qos byte, callback paho.MessageHandler) paho.Token {
	return c.SubscribeMultiple(map[string]byte{filter: qos}, callback)
}

func (c *fakeClient) SubscribeMultiple(filters map[string]byte, callback paho.MessageHandler) paho.Token {
	c.lock.Lock()
	if !c.connected {
		c.lock.Unlock()
		return &fakeToken{err: paho.ErrNotConnected}
	}
	var msgs []*fakeMessage
	for filter := range filters {
		c.subs[filter] = callback
		c.subscribed = append(c.subscribed, filter)
		for topic, data := range c.retained {
			if MatchTopic(topic, filter) {
				msgs = append(msgs, &fakeMessage{topic: topic, payload: data, retained: true})
			}
		}
	}
	c.lock.Unlock()
	for _, msg := range msgs {
		callback(c, msg)
	}
	return &fakeToken{}
}

func (c *fakeClient) Unsubscribe(filters ...string) paho.Token {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, filter := range filters {
		delete(c.subs, filter)
		c.unsubscribed = append(c.unsubscribed, filter)
	}
	return &fakeToken{}
}

// deliver sends a message as if the broker routed it.
func (c *fakeClient) deliver(topic string, payload []byte) {
	c.lock.Lock()
	h := c.subs[topic]
	c.lock.Unlock()
	if h != nil {
		h(c, &fakeMessage{topic: topic, payload: payload})
	}
}

func (c *fakeClient) snapshot() (subscribed, unsubscribed []string, pubs []published) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]string(nil), c.subscribed...),
		append([]string(nil), c.unsubscribed...),
		append([]published(nil), c.published...)
}

func (c *fakeClient) retainedAt(topic string) ([]byte, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	data, ok := c.retained[topic]
	return data, ok
}
