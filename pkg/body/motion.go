package body

import "math"

// Gait limits at full speed.
const (
	MaxStepRate = 4.0  // steps per second
	MaxTurnRate = 90.0 // degrees per second
)

// segment is a motion along one axis at a signed rate. left is the
// remaining amount, +Inf for continuous motion.
type segment struct {
	rate float64
	left float64
}

func continuous(rate float64) segment {
	return segment{rate: rate, left: math.Inf(1)}
}

func bounded(rate, amount float64) segment {
	if amount <= 0 {
		return segment{}
	}
	return segment{rate: rate, left: amount}
}

func (s *segment) active() bool {
	return s.rate != 0 && s.left > 0
}

// take consumes dt seconds and returns the signed amount moved.
func (s *segment) take(dt float64) (amount float64, done bool) {
	if !s.active() {
		return 0, false
	}
	amount = math.Abs(s.rate) * dt
	if amount >= s.left {
		amount, done = s.left, true
	}
	amount = math.Copysign(amount, s.rate)
	if done {
		*s = segment{}
	} else {
		s.left -= math.Abs(amount)
	}
	return
}

// gait integrates walking and turning of the body.
type gait struct {
	walk segment
	turn segment
	// next starts walking when the current turn is done.
	next *segment

	walked float64
	steps  uint16
	yaw    float64 // degrees in (-180, 180]
}

func speedRate(speed int8, max float64) float64 {
	return float64(speed) / math.MaxInt8 * max
}

func unsignedRate(speed uint8, max float64) float64 {
	return float64(speed) / math.MaxUint8 * max
}

func (g *gait) move(speed int8) {
	g.walk, g.next = continuous(speedRate(speed, MaxStepRate)), nil
}

func (g *gait) step(speed int8, count uint8) {
	g.walk, g.next = bounded(speedRate(speed, MaxStepRate), float64(count)), nil
}

func (g *gait) rotate(speed int8) {
	g.turn, g.next = continuous(speedRate(speed, MaxTurnRate)), nil
}

// autoMove turns by rad at rotateSpeed, then walks |walkStep| steps at
// walkSpeed, backwards if walkStep is negative.
func (g *gait) autoMove(rotateSpeed uint8, rad float32, walkSpeed uint8, walkStep int8) {
	deg := float64(rad) * 180 / math.Pi
	g.turn = bounded(math.Copysign(unsignedRate(rotateSpeed, MaxTurnRate), deg), math.Abs(deg))
	walk := bounded(math.Copysign(unsignedRate(walkSpeed, MaxStepRate), float64(walkStep)), math.Abs(float64(walkStep)))
	if g.turn.active() {
		g.walk, g.next = segment{}, &walk
	} else {
		g.walk, g.next = walk, nil
	}
}

func (g *gait) moving() bool {
	return g.walk.active() || g.turn.active() || g.next != nil
}

// advance integrates dt seconds. A walk queued behind a turn starts on
// the next call.
func (g *gait) advance(dt float64) {
	if steps, done := g.walk.take(dt); steps != 0 || done {
		g.walked += math.Abs(steps)
		if done {
			g.walked = math.Round(g.walked)
		}
		whole := math.Floor(g.walked)
		g.steps += uint16(whole)
		g.walked -= whole
	}
	if deg, done := g.turn.take(dt); deg != 0 || done {
		g.yaw = normalizeDegrees(g.yaw + deg)
		if done && g.next != nil {
			g.walk, g.next = *g.next, nil
		}
	}
}

func normalizeDegrees(d float64) float64 {
	d = math.Remainder(d, 360)
	if d <= -180 {
		d += 360
	}
	return d
}
