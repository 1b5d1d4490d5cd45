// Package actuator provides eye and front LED commands.
package actuator

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/xpider/pkg/cli/cmds/motion"
	"github.com/robotalks/xpider/pkg/cli/sh"
	"github.com/robotalks/xpider/pkg/head"
	"github.com/robotalks/xpider/pkg/inside"
)

// ParseFrontLeds parses one brightness per LED, a single value applies
// to all of them.
func ParseFrontLeds(args []string) (leds inside.FrontLeds, err error) {
	switch len(args) {
	case 1:
		val, err := motion.ParseUint8("LED", args[0])
		if err != nil {
			return leds, err
		}
		for n := range leds {
			leds[n] = val
		}
	case inside.NumFrontLeds:
		for n, arg := range args {
			if leds[n], err = motion.ParseUint8(fmt.Sprintf("LED%d", n+1), arg); err != nil {
				return leds, err
			}
		}
	default:
		err = fmt.Errorf("1 or %d LED values required", inside.NumFrontLeds)
	}
	return
}

var (
	// EyeCmd points the eye.
	EyeCmd = ishell.Cmd{
		Name:    "eye",
		Aliases: []string{"e"},
		Help:    "ANGLE(-128..127)",
		Func: sh.MustBeConnected(func(c *ishell.Context, client *head.Client) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ANGLE required"))
				return
			}
			angle, err := motion.ParseInt8("ANGLE", c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Send(c, client, func(client *head.Client) error { return client.SetEye(angle) })
		}),
	}

	// LedsCmd sets the front LEDs.
	LedsCmd = ishell.Cmd{
		Name: "leds",
		Help: "VALUE | V1 V2 V3 V4 V5 V6",
		Func: sh.MustBeConnected(func(c *ishell.Context, client *head.Client) {
			leds, err := ParseFrontLeds(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Send(c, client, func(client *head.Client) error { return client.SetFrontLeds(leds) })
		}),
	}
)

func init() {
	sh.AddCmds(&EyeCmd, &LedsCmd)
}
