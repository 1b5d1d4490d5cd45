package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/xpider/pkg/inside"
)

func TestHeartBeatMessage(t *testing.T) {
	at := time.Unix(1760000000, 42)
	m := FromHeartBeat("xp1", at, inside.HeartBeat{
		StepCounter:      1000,
		ObstacleDistance: 50,
		BatteryVoltage:   7.4,
		YawPitchRoll:     [3]float32{1, -2, 0.5},
	})
	require.Equal(t, "xp1", m.RobotId)
	require.Equal(t, float32(-2), m.Pitch)

	data, err := Marshal(m)
	require.NoError(t, err)
	// field 1, length delimited, "xp1"
	require.Equal(t, []byte{0x0a, 3, 'x', 'p', '1'}, data[:5])

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, "xp1", decoded.RobotId)
	require.True(t, at.Equal(decoded.Time()))
	require.Equal(t, uint32(1000), decoded.StepCounter)
	require.Equal(t, uint32(50), decoded.ObstacleDistance)
	require.Equal(t, float32(7.4), decoded.BatteryVoltage)
	require.Equal(t, float32(1), decoded.Yaw)
	require.Equal(t, float32(-2), decoded.Pitch)
	require.Equal(t, float32(0.5), decoded.Roll)

	_, err = Unmarshal([]byte{0x0a, 10, 'x'})
	require.Error(t, err)
}
