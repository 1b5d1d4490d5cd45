// Package body simulates the xpider body: it walks and turns on motion
// commands, reports heartbeats and answers register reads.
package body

import "time"

// FirmwareVersion is reported by the firmware-version register.
const FirmwareVersion = "xpider-sim 1.0"

// Config describes the simulated body.
type Config struct {
	Name              string
	UUID              string
	HeartBeatInterval time.Duration
	BatteryVoltage    float32
	ObstacleDistance  uint16
}

// Defaults.
const (
	DefaultName              = "xpider"
	DefaultHeartBeatInterval = 200 * time.Millisecond
	DefaultBatteryVoltage    = 7.4
	DefaultObstacleDistance  = 500

	// TickInterval is how often the gait is integrated.
	TickInterval = 20 * time.Millisecond
)

// DefaultConfig returns a Config with defaults, UUID is left empty.
func DefaultConfig() Config {
	return Config{
		Name:              DefaultName,
		HeartBeatInterval: DefaultHeartBeatInterval,
		BatteryVoltage:    DefaultBatteryVoltage,
		ObstacleDistance:  DefaultObstacleDistance,
	}
}
