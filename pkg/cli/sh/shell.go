// Package sh provides the interactive head shell.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/xpider/pkg/body"
	"github.com/robotalks/xpider/pkg/env"
	fx "github.com/robotalks/xpider/pkg/framework"
	"github.com/robotalks/xpider/pkg/head"
	"github.com/robotalks/xpider/pkg/link"
	"github.com/robotalks/xpider/pkg/link/mqtt"
	"github.com/robotalks/xpider/pkg/telemetry"
)

// SimRobotID connects to a body simulated inside the shell.
const SimRobotID = "sim"

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *Conn
}

// Conn is a connected robot.
type Conn struct {
	RobotID string
	Client  *head.Client

	runner *fx.Runner
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "

	// CommandTimeout bounds commands waiting for the body.
	CommandTimeout = time.Second
)

var (
	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by command providers in init.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Shell:       ishell.New(),
		Config:      conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps a command func which requires a connection.
func MustBeConnected(fn func(c *ishell.Context, client *head.Client)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		if s.Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c, s.Conn.Client)
	}
}

// Send runs a command which doesn't expect a response and prints OK.
func Send(c *ishell.Context, client *head.Client, fn func(*head.Client) error) {
	if err := fn(client); err != nil {
		c.Err(err)
		return
	}
	Print(c, map[string]bool{"ok": true}, "OK")
}

// Print prints v as JSON in JSON mode, or text otherwise.
func Print(c *ishell.Context, v interface{}, text string) {
	if !ShellFrom(c).OutputJSON {
		c.Println(text)
		return
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Discover lists announced robots, it requires an MQTT link.
func (s *Shell) Discover(ctx context.Context) ([]mqtt.RobotInfo, error) {
	u, err := url.Parse(s.Config.LinkURL)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(u.Scheme, "mqtt") {
		return nil, fmt.Errorf("discovery requires an MQTT link, got %q", u.Scheme)
	}
	q, err := mqtt.NewQueueFromURL(s.Config.LinkURL)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	defer q.Close()
	return mqtt.Discover(ctx, q, mqtt.DefaultDiscoverTimeout)
}

// SelectRobot discovers robots and asks for a choice, nil if none found.
func (s *Shell) SelectRobot() (*mqtt.RobotInfo, error) {
	robots, err := s.Discover(context.Background())
	if err != nil || len(robots) == 0 {
		return nil, err
	}
	var index int
	if len(robots) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 robots discovered in non-interactive mode")
		}
		items := make([]string, len(robots))
		for n, info := range robots {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to connect?")
	}
	return &robots[index], nil
}

// FormatInfo formats a robot announcement for display.
func FormatInfo(info mqtt.RobotInfo) string {
	text := info.ID
	if info.Name != "" {
		text += ": " + info.Name
	}
	if info.Firmware != "" {
		text += " (" + info.Firmware + ")"
	}
	return text
}

// Connect connects to a robot. SimRobotID starts a simulated body.
func (s *Shell) Connect(robotID string) error {
	conf := *s.Config
	conf.RobotID = robotID
	runner := fx.NewRunner()

	var rw link.FrameReadWriter
	var queue *mqtt.Queue
	if robotID == SimRobotID {
		headEnd, bodyEnd := link.NewLoopback()
		bodyPipe := link.NewPipe(bodyEnd)
		sim, err := body.New(bodyPipe, conf.Body.Config)
		if err != nil {
			return err
		}
		bodyPipe.Decoder = sim
		runner.Go(fx.NamedRun("sim-pipe", bodyPipe), fx.NamedRun("sim", sim))
		rw = headEnd
	} else {
		l, err := conf.OpenLink(env.RoleHead)
		if err != nil {
			return err
		}
		runner.Go(l.Runnables()...)
		rw, queue = l, l.Queue
	}

	pipe := link.NewPipe(rw)
	client, err := head.NewClient(pipe)
	if err != nil {
		return err
	}
	pipe.Decoder = client
	if conf.Telemetry && queue != nil {
		client.OnHeartBeat = telemetry.NewPublisher(queue, robotID).HandleHeartBeat
	}
	runner.Go(fx.NamedRun("pipe", pipe))

	s.Disconnect()
	s.Conn = &Conn{RobotID: robotID, Client: client, runner: runner}
	go func() {
		if err := runner.Wait(); err != nil {
			glog.Errorf("connection %s: %v", robotID, err)
		}
	}()
	s.Shell.SetPrompt(robotID + " > ")
	return nil
}

// Disconnect disconnects the current robot.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.runner.Stop()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.HasRobotID() {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.RobotID)
		}
		if err := s.Connect(s.Config.RobotID); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.RobotID, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// DiscoverCmd lists announced robots.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "list robots announced on the broker",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			robots, err := s.Discover(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if robots == nil {
					robots = []mqtt.RobotInfo{}
				}
				Print(c, robots, "")
				return
			}
			if len(robots) == 0 {
				c.Println("No robots found")
				return
			}
			for _, info := range robots {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a robot.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[ROBOT-ID|sim]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var robotID string
			if len(c.Args) > 0 {
				robotID = c.Args[0]
			} else {
				info, err := s.SelectRobot()
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no robot discovered"))
					return
				}
				robotID = info.ID
			}
			if err := s.Connect(robotID); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects the current robot.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf, err := env.Load()
	if err != nil {
		log.Fatalln(err)
	}
	New(conf).WithAutoConnect(true).Run(flag.Args()...)
}
