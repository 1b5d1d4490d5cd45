package inside

func (p *Protocol) send(w *frameWriter) error {
	if p.sink == nil {
		return ErrNotInitialized
	}
	return p.sink.Send(w.bytes())
}

// SetMove walks continuously at speed, negative backwards, 0 stops.
func (p *Protocol) SetMove(speed int8) error {
	w := newFrameWriter(OpMove, 0)
	w.putInt8(speed)
	return p.send(w)
}

// SetStep walks stepCount steps at stepSpeed.
func (p *Protocol) SetStep(stepSpeed int8, stepCount uint8) error {
	w := newFrameWriter(OpMoveStep, 0)
	w.putInt8(stepSpeed)
	w.putUint8(stepCount)
	return p.send(w)
}

// SetAutoMove rotates rotateRad radians at rotateSpeed, then walks
// walkStep steps at walkSpeed.
func (p *Protocol) SetAutoMove(rotateSpeed uint8, rotateRad float32, walkSpeed uint8, walkStep int8) error {
	w := newFrameWriter(OpAutoMove, 0)
	w.putUint8(rotateSpeed)
	w.putFloat32(rotateRad)
	w.putUint8(walkSpeed)
	w.putInt8(walkStep)
	return p.send(w)
}

// SetRotate rotates continuously at speed, negative counter-clockwise.
func (p *Protocol) SetRotate(speed int8) error {
	w := newFrameWriter(OpRotate, 0)
	w.putInt8(speed)
	return p.send(w)
}

// SetEye turns the eye to angle.
func (p *Protocol) SetEye(angle int8) error {
	w := newFrameWriter(OpSetEye, 0)
	w.putInt8(angle)
	return p.send(w)
}

// SetFrontLeds sets the intensity of front LEDs.
func (p *Protocol) SetFrontLeds(leds FrontLeds) error {
	w := newFrameWriter(OpSetFrontLeds, 0)
	w.putBytes(leds[:])
	return p.send(w)
}

// SetHeartBeat reports a heartbeat.
func (p *Protocol) SetHeartBeat(hb HeartBeat) error {
	w := newFrameWriter(OpHeartBeat, 0)
	w.putUint16(hb.StepCounter)
	w.putUint16(hb.ObstacleDistance)
	w.putCentis(hb.BatteryVoltage)
	for _, v := range hb.YawPitchRoll {
		w.putCentis(v)
	}
	return p.send(w)
}

// GetRegister requests the value of a register. The peer answers with
// RegisterResponse.
func (p *Protocol) GetRegister(index RegisterIndex) error {
	w := newFrameWriter(OpGetRegister, 0)
	w.putUint8(uint8(index))
	return p.send(w)
}

// RegisterResponse reports the value of a register.
func (p *Protocol) RegisterResponse(index RegisterIndex, value []byte) error {
	if len(value) > MaxRegisterValueLen {
		return ErrValueTooLong
	}
	w := newFrameWriter(OpRegisterResponse, len(value))
	w.putUint8(uint8(index))
	w.putValue(value)
	return p.send(w)
}
