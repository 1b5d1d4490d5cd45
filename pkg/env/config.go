// Package env provides the common configuration of xpider commands.
// Values come from defaults, then a config file, then XPIDER_*
// environment variables, then command line flags.
package env

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/denisbrodbeck/machineid"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/xpider/pkg/body"
	"github.com/robotalks/xpider/pkg/inside"
)

// DefaultLinkURL is the link used when nothing is configured.
const DefaultLinkURL = "mqtt://localhost:1883/xpider/"

// Config is the common configuration.
type Config struct {
	// RobotID identifies the robot on a shared broker.
	RobotID string
	// LinkURL selects the transport between head and body, e.g.
	// mqtt://host:1883/prefix/ or ws://host:8080/inside.
	LinkURL string
	// CapturePath records all frames of the link into a capture file.
	CapturePath string
	// Telemetry publishes heartbeats to <robot>/telemetry (MQTT only).
	Telemetry bool

	Body BodyConfig
}

// BodyConfig is used by the body simulator.
type BodyConfig struct {
	body.Config
	// ListenAddr is where the websocket link is served.
	ListenAddr string
}

var (
	defaultConfig = builtinConfig()
	configFile    string
)

func init() {
	applyEnv(&defaultConfig)
}

// MachineID derives a stable robot id from the machine id.
func MachineID() string {
	id, err := machineid.ProtectedID("xpider")
	if err != nil || len(id) < 12 {
		return "xpider"
	}
	return "xp-" + id[:12]
}

// HasRobotID reports whether a robot id is configured explicitly rather
// than derived from this machine.
func (c *Config) HasRobotID() bool {
	return c.RobotID != "" && c.RobotID != MachineID()
}

func builtinConfig() Config {
	return Config{
		RobotID: MachineID(),
		LinkURL: DefaultLinkURL,
		Body: BodyConfig{
			Config:     body.DefaultConfig(),
			ListenAddr: ":8080",
		},
	}
}

func applyEnv(c *Config) {
	if val := os.Getenv("XPIDER_ROBOT_ID"); val != "" {
		c.RobotID = val
	}
	if val := os.Getenv("XPIDER_LINK_URL"); val != "" {
		c.LinkURL = val
	}
	if val := os.Getenv("XPIDER_CAPTURE"); val != "" {
		c.CapturePath = val
	}
}

// flagFields copies the value of a flag between configs.
var flagFields = map[string]func(dst, src *Config){
	"robot-id":  func(dst, src *Config) { dst.RobotID = src.RobotID },
	"link":      func(dst, src *Config) { dst.LinkURL = src.LinkURL },
	"capture":   func(dst, src *Config) { dst.CapturePath = src.CapturePath },
	"telemetry": func(dst, src *Config) { dst.Telemetry = src.Telemetry },
	"name":      func(dst, src *Config) { dst.Body.Name = src.Body.Name },
	"heartbeat": func(dst, src *Config) { dst.Body.HeartBeatInterval = src.Body.HeartBeatInterval },
	"listen":    func(dst, src *Config) { dst.Body.ListenAddr = src.Body.ListenAddr },
}

// BindFlags registers flags on fs bound to c.
func BindFlags(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.RobotID, "robot-id", c.RobotID, "Robot ID")
	fs.StringVar(&c.LinkURL, "link", c.LinkURL, "Link URL, mqtt://host:port/prefix/ or ws://host:port/path")
	fs.StringVar(&c.CapturePath, "capture", c.CapturePath, "Record frames into this capture file")
	fs.BoolVar(&c.Telemetry, "telemetry", c.Telemetry, "Publish heartbeat telemetry")
	fs.StringVar(&c.Body.Name, "name", c.Body.Name, "Body name")
	fs.DurationVar(&c.Body.HeartBeatInterval, "heartbeat", c.Body.HeartBeatInterval, "Heartbeat interval")
	fs.StringVar(&c.Body.ListenAddr, "listen", c.Body.ListenAddr, "Websocket listen address of the body")
}

// SetupFlags registers command line flags, including -config.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "Config file (.toml, .yaml or .yml)")
	BindFlags(flag.CommandLine, &defaultConfig)
}

// Load returns the config after flag.Parse.
func Load() (*Config, error) {
	return LoadWith(flag.CommandLine, configFile, &defaultConfig)
}

// LoadWith builds the config from the file at path (optional), the
// environment and the flags of fs which are explicitly set, taking
// values from flagged.
func LoadWith(fs *flag.FlagSet, path string, flagged *Config) (*Config, error) {
	conf := *flagged
	if path != "" {
		conf = builtinConfig()
		if err := LoadFile(path, &conf); err != nil {
			return nil, err
		}
		applyEnv(&conf)
		fs.Visit(func(f *flag.Flag) {
			if copyFn := flagFields[f.Name]; copyFn != nil {
				copyFn(&conf, flagged)
			}
		})
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks values which can't be fixed up later.
func (c *Config) Validate() error {
	if c.Body.HeartBeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be positive, got %v", c.Body.HeartBeatInterval)
	}
	if len(c.Body.Name) > inside.MaxRegisterValueLen {
		return fmt.Errorf("body name longer than %d bytes", inside.MaxRegisterValueLen)
	}
	return nil
}

// fileConfig is the layout of config files.
type fileConfig struct {
	RobotID     string         `toml:"robot_id" yaml:"robot_id"`
	LinkURL     string         `toml:"link_url" yaml:"link_url"`
	CapturePath string         `toml:"capture_path" yaml:"capture_path"`
	Telemetry   bool           `toml:"telemetry" yaml:"telemetry"`
	Body        fileBodyConfig `toml:"body" yaml:"body"`
}

type fileBodyConfig struct {
	Name              string  `toml:"name" yaml:"name"`
	UUID              string  `toml:"uuid" yaml:"uuid"`
	HeartBeatInterval int     `toml:"heartbeat_interval_ms" yaml:"heartbeat_interval_ms"`
	BatteryVoltage    float32 `toml:"battery_voltage" yaml:"battery_voltage"`
	ObstacleDistance  uint16  `toml:"obstacle_distance" yaml:"obstacle_distance"`
	ListenAddr        string  `toml:"listen_addr" yaml:"listen_addr"`
}

// LoadFile overlays keys defined in the file onto c. The format is
// chosen by extension.
func LoadFile(path string, c *Config) error {
	var (
		raw     fileConfig
		defined func(keys ...string) bool
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("load config %s: unknown key %s", path, undecoded[0])
		}
		defined = meta.IsDefined
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		var doc yaml.Node
		if err = yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		if err = doc.Decode(&raw); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		defined = func(keys ...string) bool { return yamlDefined(&doc, keys...) }
	default:
		return fmt.Errorf("load config %s: unsupported format %q", path, ext)
	}

	if defined("robot_id") {
		c.RobotID = strings.TrimSpace(raw.RobotID)
	}
	if defined("link_url") {
		c.LinkURL = strings.TrimSpace(raw.LinkURL)
	}
	if defined("capture_path") {
		c.CapturePath = strings.TrimSpace(raw.CapturePath)
	}
	if defined("telemetry") {
		c.Telemetry = raw.Telemetry
	}
	if defined("body", "name") {
		c.Body.Name = raw.Body.Name
	}
	if defined("body", "uuid") {
		c.Body.UUID = strings.TrimSpace(raw.Body.UUID)
	}
	if defined("body", "heartbeat_interval_ms") {
		if raw.Body.HeartBeatInterval <= 0 {
			return fmt.Errorf("load config %s: heartbeat_interval_ms must be positive", path)
		}
		c.Body.HeartBeatInterval = time.Duration(raw.Body.HeartBeatInterval) * time.Millisecond
	}
	if defined("body", "battery_voltage") {
		c.Body.BatteryVoltage = raw.Body.BatteryVoltage
	}
	if defined("body", "obstacle_distance") {
		c.Body.ObstacleDistance = raw.Body.ObstacleDistance
	}
	if defined("body", "listen_addr") {
		c.Body.ListenAddr = strings.TrimSpace(raw.Body.ListenAddr)
	}
	return nil
}

// yamlDefined reports whether the nested mapping keys exist in doc.
func yamlDefined(doc *yaml.Node, keys ...string) bool {
	node := doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return false
		}
		node = node.Content[0]
	}
	for _, key := range keys {
		if node.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for n := 0; n+1 < len(node.Content); n += 2 {
			if node.Content[n].Value == key {
				next = node.Content[n+1]
				break
			}
		}
		if next == nil {
			return false
		}
		node = next
	}
	return true
}
