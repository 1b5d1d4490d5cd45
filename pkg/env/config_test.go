package env

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/xpider/pkg/body"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "xpider.toml", `
robot_id = "xp1"
telemetry = true

[body]
name = "lab spider"
heartbeat_interval_ms = 500
obstacle_distance = 120
`)
	conf := builtinConfig()
	require.NoError(t, LoadFile(path, &conf))
	require.Equal(t, "xp1", conf.RobotID)
	require.True(t, conf.Telemetry)
	require.Equal(t, DefaultLinkURL, conf.LinkURL)
	require.Equal(t, "lab spider", conf.Body.Name)
	require.Equal(t, 500*time.Millisecond, conf.Body.HeartBeatInterval)
	require.Equal(t, uint16(120), conf.Body.ObstacleDistance)
	require.Equal(t, float32(body.DefaultBatteryVoltage), conf.Body.BatteryVoltage)
	require.Equal(t, ":8080", conf.Body.ListenAddr)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "xpider.yaml", `
link_url: ws://robot.local:8080/inside
capture_path: /tmp/session.xcap
body:
  battery_voltage: 6.8
  listen_addr: ":9090"
`)
	conf := builtinConfig()
	conf.RobotID = "keep"
	require.NoError(t, LoadFile(path, &conf))
	require.Equal(t, "keep", conf.RobotID)
	require.Equal(t, "ws://robot.local:8080/inside", conf.LinkURL)
	require.Equal(t, "/tmp/session.xcap", conf.CapturePath)
	require.Equal(t, float32(6.8), conf.Body.BatteryVoltage)
	require.Equal(t, ":9090", conf.Body.ListenAddr)
	require.Equal(t, body.DefaultName, conf.Body.Name)
}

func TestLoadFileErrors(t *testing.T) {
	conf := builtinConfig()
	require.Error(t, LoadFile(writeFile(t, "xpider.json", `{}`), &conf))
	require.Error(t, LoadFile(writeFile(t, "bad.toml", `robot_id = `), &conf))
	require.Error(t, LoadFile(writeFile(t, "unknown.toml", `robot = "x"`), &conf))
	require.Error(t, LoadFile(writeFile(t, "zero.yml", "body:\n  heartbeat_interval_ms: 0\n"), &conf))
	require.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.toml"), &conf))
}

func TestLoadWithFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "xpider.toml", `
robot_id = "from-file"
link_url = "mqtt://broker:1883/lab/"
`)
	flagged := builtinConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	BindFlags(fs, &flagged)
	require.NoError(t, fs.Parse([]string{"-robot-id", "from-flag", "-heartbeat", "1s"}))

	conf, err := LoadWith(fs, path, &flagged)
	require.NoError(t, err)
	require.Equal(t, "from-flag", conf.RobotID)
	require.Equal(t, "mqtt://broker:1883/lab/", conf.LinkURL)
	require.Equal(t, time.Second, conf.Body.HeartBeatInterval)

	conf, err = LoadWith(fs, "", &flagged)
	require.NoError(t, err)
	require.Equal(t, DefaultLinkURL, conf.LinkURL)
	require.Equal(t, "from-flag", conf.RobotID)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("XPIDER_LINK_URL", "ws://env:8080/")
	path := writeFile(t, "xpider.toml", `link_url = "mqtt://broker:1883/"`)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flagged := builtinConfig()
	BindFlags(fs, &flagged)
	require.NoError(t, fs.Parse(nil))
	conf, err := LoadWith(fs, path, &flagged)
	require.NoError(t, err)
	require.Equal(t, "ws://env:8080/", conf.LinkURL)
}

func TestOpenLinkUnknownScheme(t *testing.T) {
	conf := builtinConfig()
	conf.LinkURL = "serial:///dev/ttyUSB0"
	_, err := conf.OpenLink(RoleHead)
	require.Error(t, err)
}

func TestOpenWebsocketBodyWithCapture(t *testing.T) {
	conf := builtinConfig()
	conf.LinkURL = "ws://localhost:0/inside"
	conf.CapturePath = filepath.Join(t.TempDir(), "body.xcap")
	l, err := conf.OpenLink(RoleBody)
	require.NoError(t, err)
	require.Len(t, l.Runnables(), 1)
	require.Nil(t, l.Queue)
	require.Error(t, l.WriteFrame([]byte{0, 0}))
	require.NoError(t, l.Close())
	_, err = os.Stat(conf.CapturePath)
	require.NoError(t, err)
}

func TestLoadWithRejectsInvalidValues(t *testing.T) {
	for _, args := range [][]string{
		{"-heartbeat", "0"},
		{"-heartbeat", "-1s"},
		{"-name", strings.Repeat("x", 256)},
	} {
		flagged := builtinConfig()
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		BindFlags(fs, &flagged)
		require.NoError(t, fs.Parse(args))
		_, err := LoadWith(fs, "", &flagged)
		require.Error(t, err, "%v", args)

		path := writeFile(t, "xpider.toml", `robot_id = "xp1"`)
		_, err = LoadWith(fs, path, &flagged)
		require.Error(t, err, "%v with file", args)
	}
}
