package body

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/robotalks/xpider/pkg/inside"
)

// register returns the value of a register, unknown registers are empty.
// Must be called with b.lock held.
func (b *Body) register(index inside.RegisterIndex) []byte {
	switch index {
	case inside.RegisterName:
		return []byte(b.config.Name)
	case inside.RegisterUUID:
		id, _ := b.id.MarshalBinary()
		return id
	case inside.RegisterFirmwareVersion:
		return []byte(FirmwareVersion)
	case inside.RegisterHeartBeatInterval:
		return binary.LittleEndian.AppendUint16(nil, uint16(b.config.HeartBeatInterval.Milliseconds()))
	case inside.RegisterObstacleDistance:
		return binary.LittleEndian.AppendUint16(nil, b.obstacle)
	case inside.RegisterFrontLeds:
		return append([]byte(nil), b.leds[:]...)
	case inside.RegisterEyeAngle:
		return []byte{byte(b.eye)}
	}
	return nil
}

// parseID parses the configured UUID, generating one when empty.
func parseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(s)
}
