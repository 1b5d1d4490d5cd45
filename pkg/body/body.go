package body

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/robotalks/xpider/pkg/inside"
)

// Body is the simulated body. The embedded Protocol decodes head
// commands and sends heartbeats and register responses.
type Body struct {
	*inside.Protocol

	config Config
	id     uuid.UUID

	lock     sync.Mutex
	gait     gait
	eye      int8
	leds     inside.FrontLeds
	obstacle uint16
	battery  float32
}

// New creates a Body sending through sink.
func New(sink inside.Sink, config Config) (*Body, error) {
	id, err := parseID(config.UUID)
	if err != nil {
		return nil, fmt.Errorf("invalid uuid %q: %w", config.UUID, err)
	}
	if len(config.Name) > inside.MaxRegisterValueLen {
		return nil, fmt.Errorf("name longer than %d bytes", inside.MaxRegisterValueLen)
	}
	if config.HeartBeatInterval <= 0 {
		config.HeartBeatInterval = DefaultHeartBeatInterval
	}
	b := &Body{
		config:   config,
		id:       id,
		obstacle: config.ObstacleDistance,
		battery:  config.BatteryVoltage,
	}
	b.Protocol, err = inside.New(sink, inside.Callbacks{
		Move:         b.move,
		Step:         b.step,
		AutoMove:     b.autoMove,
		Rotate:       b.rotate,
		SetEye:       b.setEye,
		SetFrontLeds: b.setFrontLeds,
		GetRegister:  b.getRegister,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ID is the body UUID.
func (b *Body) ID() uuid.UUID {
	return b.id
}

// HeartBeatInterval is the interval heartbeats are sent at.
func (b *Body) HeartBeatInterval() time.Duration {
	return b.config.HeartBeatInterval
}

// State is a snapshot of the body.
type State struct {
	HeartBeat inside.HeartBeat
	Moving    bool
	Eye       int8
	Leds      inside.FrontLeds
}

// State takes a snapshot.
func (b *Body) State() State {
	b.lock.Lock()
	defer b.lock.Unlock()
	return State{
		HeartBeat: b.heartBeat(),
		Moving:    b.gait.moving(),
		Eye:       b.eye,
		Leds:      b.leds,
	}
}

// SetObstacleDistance updates the simulated distance sensor.
func (b *Body) SetObstacleDistance(dist uint16) {
	b.lock.Lock()
	b.obstacle = dist
	b.lock.Unlock()
}

// Advance integrates the gait for dt.
func (b *Body) Advance(dt time.Duration) {
	b.lock.Lock()
	b.gait.advance(dt.Seconds())
	b.lock.Unlock()
}

// Run implements Runnable: it integrates the gait every TickInterval and
// sends a heartbeat every HeartBeatInterval.
func (b *Body) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	last, lastHB := time.Now(), time.Time{}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			b.Advance(now.Sub(last))
			last = now
			if now.Sub(lastHB) < b.config.HeartBeatInterval {
				continue
			}
			lastHB = now
			if err := b.SetHeartBeat(b.State().HeartBeat); err != nil {
				glog.V(1).Infof("heartbeat not sent: %v", err)
			}
		}
	}
}

func (b *Body) heartBeat() inside.HeartBeat {
	return inside.HeartBeat{
		StepCounter:      b.gait.steps,
		ObstacleDistance: b.obstacle,
		BatteryVoltage:   b.battery,
		YawPitchRoll:     [3]float32{float32(b.gait.yaw), 0, 0},
	}
}

func (b *Body) move(speed int8) {
	glog.V(1).Infof("move %d", speed)
	b.lock.Lock()
	b.gait.move(speed)
	b.lock.Unlock()
}

func (b *Body) step(speed int8, count uint8) {
	glog.V(1).Infof("step %d x%d", speed, count)
	b.lock.Lock()
	b.gait.step(speed, count)
	b.lock.Unlock()
}

func (b *Body) autoMove(rotateSpeed uint8, rotateRad float32, walkSpeed uint8, walkStep int8) {
	glog.V(1).Infof("automove rotate %g@%d walk %d@%d", rotateRad, rotateSpeed, walkStep, walkSpeed)
	b.lock.Lock()
	b.gait.autoMove(rotateSpeed, rotateRad, walkSpeed, walkStep)
	b.lock.Unlock()
}

func (b *Body) rotate(speed int8) {
	glog.V(1).Infof("rotate %d", speed)
	b.lock.Lock()
	b.gait.rotate(speed)
	b.lock.Unlock()
}

func (b *Body) setEye(angle int8) {
	b.lock.Lock()
	b.eye = angle
	b.lock.Unlock()
}

func (b *Body) setFrontLeds(leds inside.FrontLeds) {
	b.lock.Lock()
	b.leds = leds
	b.lock.Unlock()
}

// getRegister replies on the decoding goroutine, the lock is released
// before sending.
func (b *Body) getRegister(index inside.RegisterIndex) {
	b.lock.Lock()
	value := b.register(index)
	b.lock.Unlock()
	if err := b.RegisterResponse(index, value); err != nil {
		glog.Errorf("respond register %s: %v", index, err)
	}
}
