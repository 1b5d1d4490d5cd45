package inside

// SpeedHandler receives Move and Rotate.
type SpeedHandler func(speed int8)

// StepHandler receives MoveStep.
type StepHandler func(stepSpeed int8, stepCount uint8)

// AutoMoveHandler receives AutoMove.
type AutoMoveHandler func(rotateSpeed uint8, rotateRad float32, walkSpeed uint8, walkStep int8)

// AngleHandler receives SetEye.
type AngleHandler func(angle int8)

// FrontLedsHandler receives SetFrontLeds.
type FrontLedsHandler func(leds FrontLeds)

// HeartBeatHandler receives HeartBeat.
type HeartBeatHandler func(hb HeartBeat)

// GetRegisterHandler receives GetRegister.
type GetRegisterHandler func(index RegisterIndex)

// RegisterResponseHandler receives RegisterResponse. value is a view of
// the received frame, only valid until the handler returns.
type RegisterResponseHandler func(index RegisterIndex, value []byte)

// Callbacks is the set of handlers for received frames.
// A nil handler means the message kind is ignored.
type Callbacks struct {
	Move             SpeedHandler
	Step             StepHandler
	AutoMove         AutoMoveHandler
	Rotate           SpeedHandler
	SetEye           AngleHandler
	SetFrontLeds     FrontLedsHandler
	HeartBeat        HeartBeatHandler
	GetRegister      GetRegisterHandler
	RegisterResponse RegisterResponseHandler
}

// dispatchFunc reads the fields of a validated frame and invokes a handler.
type dispatchFunc func(r *frameReader)

type dispatchTable [numOpcodes]dispatchFunc

// compile builds the opcode indexed dispatch table, leaving unset
// handlers as nil entries.
func (c *Callbacks) compile() (t dispatchTable) {
	if h := c.Move; h != nil {
		t[OpMove] = func(r *frameReader) {
			speed := r.int8()
			if r.err == nil {
				h(speed)
			}
		}
	}
	if h := c.Step; h != nil {
		t[OpMoveStep] = func(r *frameReader) {
			speed, count := r.int8(), r.uint8()
			if r.err == nil {
				h(speed, count)
			}
		}
	}
	if h := c.AutoMove; h != nil {
		t[OpAutoMove] = func(r *frameReader) {
			rotateSpeed, rotateRad := r.uint8(), r.float32()
			walkSpeed, walkStep := r.uint8(), r.int8()
			if r.err == nil {
				h(rotateSpeed, rotateRad, walkSpeed, walkStep)
			}
		}
	}
	if h := c.Rotate; h != nil {
		t[OpRotate] = func(r *frameReader) {
			speed := r.int8()
			if r.err == nil {
				h(speed)
			}
		}
	}
	if h := c.SetEye; h != nil {
		t[OpSetEye] = func(r *frameReader) {
			angle := r.int8()
			if r.err == nil {
				h(angle)
			}
		}
	}
	if h := c.SetFrontLeds; h != nil {
		t[OpSetFrontLeds] = func(r *frameReader) {
			var leds FrontLeds
			copy(leds[:], r.bytes())
			if r.err == nil {
				h(leds)
			}
		}
	}
	if h := c.HeartBeat; h != nil {
		t[OpHeartBeat] = func(r *frameReader) {
			hb := readHeartBeat(r)
			if r.err == nil {
				h(hb)
			}
		}
	}
	if h := c.GetRegister; h != nil {
		t[OpGetRegister] = func(r *frameReader) {
			index := RegisterIndex(r.uint8())
			if r.err == nil {
				h(index)
			}
		}
	}
	if h := c.RegisterResponse; h != nil {
		t[OpRegisterResponse] = func(r *frameReader) {
			index := RegisterIndex(r.uint8())
			value := r.value()
			if r.err == nil {
				h(index, value)
			}
		}
	}
	return
}

func readHeartBeat(r *frameReader) (hb HeartBeat) {
	hb.StepCounter = r.uint16()
	hb.ObstacleDistance = r.uint16()
	hb.BatteryVoltage = r.centis()
	for n := range hb.YawPitchRoll {
		hb.YawPitchRoll[n] = r.centis()
	}
	return
}
