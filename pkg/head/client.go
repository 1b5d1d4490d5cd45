// Package head implements the head side of the inside protocol.
package head

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/xpider/pkg/inside"
)

// Client drives a body. The embedded Protocol provides the commands and
// Decode for received frames.
type Client struct {
	*inside.Protocol

	// OnHeartBeat is invoked on the decoding goroutine for every heartbeat.
	OnHeartBeat func(inside.HeartBeat)

	lock     sync.Mutex
	requests map[inside.RegisterIndex]*request
	lastHB   inside.HeartBeat
	lastHBAt time.Time
}

// request is a pending register read. Requests of the same register are
// answered in order, the body keeps no request id.
type request struct {
	valueCh chan []byte
	next    *request
}

// NewClient creates a Client sending through sink.
func NewClient(sink inside.Sink) (*Client, error) {
	c := &Client{requests: make(map[inside.RegisterIndex]*request)}
	proto, err := inside.New(sink, inside.Callbacks{
		HeartBeat:        c.heartBeat,
		RegisterResponse: c.registerResponse,
	})
	if err != nil {
		return nil, err
	}
	c.Protocol = proto
	return c, nil
}

// LastHeartBeat returns the latest heartbeat and when it arrived, ok is
// false if none arrived yet.
func (c *Client) LastHeartBeat() (hb inside.HeartBeat, at time.Time, ok bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lastHB, c.lastHBAt, !c.lastHBAt.IsZero()
}

// ReadRegister sends GetRegister and waits for the response.
func (c *Client) ReadRegister(ctx context.Context, index inside.RegisterIndex) ([]byte, error) {
	req := &request{valueCh: make(chan []byte, 1)}
	c.lock.Lock()
	c.enqueue(index, req)
	c.lock.Unlock()

	if err := c.GetRegister(index); err != nil {
		c.cancel(index, req)
		return nil, err
	}
	select {
	case value := <-req.valueCh:
		return value, nil
	case <-ctx.Done():
		c.cancel(index, req)
		return nil, ctx.Err()
	}
}

// PendingReads returns the number of register reads waiting for response.
func (c *Client) PendingReads() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	n := 0
	for _, req := range c.requests {
		for ; req != nil; req = req.next {
			n++
		}
	}
	return n
}

func (c *Client) enqueue(index inside.RegisterIndex, req *request) {
	head := c.requests[index]
	if head == nil {
		c.requests[index] = req
		return
	}
	for head.next != nil {
		head = head.next
	}
	head.next = req
}

func (c *Client) cancel(index inside.RegisterIndex, req *request) {
	c.lock.Lock()
	defer c.lock.Unlock()
	var prev *request
	for curr := c.requests[index]; curr != nil; prev, curr = curr, curr.next {
		if curr != req {
			continue
		}
		if prev == nil {
			c.setHead(index, curr.next)
		} else {
			prev.next = curr.next
		}
		return
	}
}

func (c *Client) setHead(index inside.RegisterIndex, req *request) {
	if req == nil {
		delete(c.requests, index)
	} else {
		c.requests[index] = req
	}
}

func (c *Client) heartBeat(hb inside.HeartBeat) {
	c.lock.Lock()
	c.lastHB, c.lastHBAt = hb, time.Now()
	c.lock.Unlock()
	if fn := c.OnHeartBeat; fn != nil {
		fn(hb)
	}
}

func (c *Client) registerResponse(index inside.RegisterIndex, value []byte) {
	c.lock.Lock()
	req := c.requests[index]
	if req != nil {
		c.setHead(index, req.next)
	}
	c.lock.Unlock()
	if req == nil {
		glog.V(1).Infof("unsolicited register %s", index)
		return
	}
	req.valueCh <- append([]byte{}, value...)
}
