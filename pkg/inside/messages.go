package inside

import (
	"fmt"
	"strconv"
)

// NumFrontLeds is the number of LEDs on the front panel.
const NumFrontLeds = 6

// MaxRegisterValueLen is the longest register value a frame can carry.
const MaxRegisterValueLen = 0xff

// FrontLeds holds the intensity of each front LED.
type FrontLeds [NumFrontLeds]uint8

// HeartBeat is the periodic telemetry reported by the body.
type HeartBeat struct {
	StepCounter      uint16
	ObstacleDistance uint16
	// BatteryVoltage in volts, carried in hundredths.
	BatteryVoltage float32
	// YawPitchRoll in degrees, carried in hundredths.
	YawPitchRoll [3]float32
}

// Yaw returns YawPitchRoll[0].
func (h HeartBeat) Yaw() float32 { return h.YawPitchRoll[0] }

// Pitch returns YawPitchRoll[1].
func (h HeartBeat) Pitch() float32 { return h.YawPitchRoll[1] }

// Roll returns YawPitchRoll[2].
func (h HeartBeat) Roll() float32 { return h.YawPitchRoll[2] }

// RegisterIndex names a register on the body controller.
type RegisterIndex uint8

// Registers known by the body firmware.
const (
	RegisterName RegisterIndex = iota
	RegisterUUID
	RegisterFirmwareVersion
	RegisterHeartBeatInterval
	RegisterObstacleDistance
	RegisterFrontLeds
	RegisterEyeAngle
)

var registerNames = map[RegisterIndex]string{
	RegisterName:              "name",
	RegisterUUID:              "uuid",
	RegisterFirmwareVersion:   "firmware-version",
	RegisterHeartBeatInterval: "heartbeat-interval",
	RegisterObstacleDistance:  "obstacle-distance",
	RegisterFrontLeds:         "front-leds",
	RegisterEyeAngle:          "eye-angle",
}

func (r RegisterIndex) String() string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	return fmt.Sprintf("register-%d", uint8(r))
}

// ParseRegisterIndex accepts a register name or a number.
func ParseRegisterIndex(s string) (RegisterIndex, error) {
	for index, name := range registerNames {
		if name == s {
			return index, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown register %q", s)
	}
	return RegisterIndex(n), nil
}
