// Package motion provides walking and turning commands.
package motion

import (
	"fmt"
	"math"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/xpider/pkg/cli/sh"
	"github.com/robotalks/xpider/pkg/head"
)

// ParseInt8 parses a signed speed or angle.
func ParseInt8(name, s string) (int8, error) {
	val, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return int8(val), nil
}

// ParseUint8 parses an unsigned speed or count.
func ParseUint8(name, s string) (uint8, error) {
	val, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return uint8(val), nil
}

var (
	// MoveCmd walks continuously.
	MoveCmd = ishell.Cmd{
		Name:    "move",
		Aliases: []string{"m"},
		Help:    "SPEED(-128..127), 0 stops",
		Func: sh.MustBeConnected(func(c *ishell.Context, client *head.Client) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("SPEED required"))
				return
			}
			speed, err := ParseInt8("SPEED", c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Send(c, client, func(client *head.Client) error { return client.SetMove(speed) })
		}),
	}

	// StepCmd walks a number of steps.
	StepCmd = ishell.Cmd{
		Name:    "step",
		Aliases: []string{"s"},
		Help:    "SPEED(-128..127) COUNT(0..255)",
		Func: sh.MustBeConnected(func(c *ishell.Context, client *head.Client) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("SPEED and COUNT required"))
				return
			}
			speed, err := ParseInt8("SPEED", c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			count, err := ParseUint8("COUNT", c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Send(c, client, func(client *head.Client) error { return client.SetStep(speed, count) })
		}),
	}

	// AutoMoveCmd turns by an angle and then walks.
	AutoMoveCmd = ishell.Cmd{
		Name:    "automove",
		Aliases: []string{"am"},
		Help:    "ROTATE-SPEED(0..255) ANGLE(degrees) WALK-SPEED(0..255) STEPS(-128..127)",
		Func: sh.MustBeConnected(func(c *ishell.Context, client *head.Client) {
			if len(c.Args) < 4 {
				c.Err(fmt.Errorf("ROTATE-SPEED ANGLE WALK-SPEED STEPS required"))
				return
			}
			rotateSpeed, err := ParseUint8("ROTATE-SPEED", c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			deg, err := strconv.ParseFloat(c.Args[1], 32)
			if err != nil {
				c.Err(fmt.Errorf("invalid ANGLE: %v", err))
				return
			}
			walkSpeed, err := ParseUint8("WALK-SPEED", c.Args[2])
			if err != nil {
				c.Err(err)
				return
			}
			steps, err := ParseInt8("STEPS", c.Args[3])
			if err != nil {
				c.Err(err)
				return
			}
			rad := float32(deg * math.Pi / 180)
			sh.Send(c, client, func(client *head.Client) error {
				return client.SetAutoMove(rotateSpeed, rad, walkSpeed, steps)
			})
		}),
	}

	// RotateCmd turns continuously.
	RotateCmd = ishell.Cmd{
		Name:    "rotate",
		Aliases: []string{"r"},
		Help:    "SPEED(-128..127), 0 stops",
		Func: sh.MustBeConnected(func(c *ishell.Context, client *head.Client) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("SPEED required"))
				return
			}
			speed, err := ParseInt8("SPEED", c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Send(c, client, func(client *head.Client) error { return client.SetRotate(speed) })
		}),
	}

	// StopCmd stops walking and turning.
	StopCmd = ishell.Cmd{
		Name: "stop",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context, client *head.Client) {
			sh.Send(c, client, func(client *head.Client) error {
				if err := client.SetMove(0); err != nil {
					return err
				}
				return client.SetRotate(0)
			})
		}),
	}
)

func init() {
	sh.AddCmds(
		&MoveCmd,
		&StepCmd,
		&AutoMoveCmd,
		&RotateCmd,
		&StopCmd,
	)
}
