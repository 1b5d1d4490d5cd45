// Package register provides register reads and heartbeat display.
package register

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/google/uuid"

	"github.com/robotalks/xpider/pkg/cli/sh"
	"github.com/robotalks/xpider/pkg/head"
	"github.com/robotalks/xpider/pkg/inside"
)

// FormatValue decodes well known registers for display, others are
// shown in hex.
func FormatValue(index inside.RegisterIndex, value []byte) interface{} {
	switch index {
	case inside.RegisterName, inside.RegisterFirmwareVersion:
		return string(value)
	case inside.RegisterUUID:
		if id, err := uuid.FromBytes(value); err == nil {
			return id.String()
		}
	case inside.RegisterHeartBeatInterval, inside.RegisterObstacleDistance:
		if len(value) == 2 {
			return binary.LittleEndian.Uint16(value)
		}
	case inside.RegisterEyeAngle:
		if len(value) == 1 {
			return int8(value[0])
		}
	}
	return fmt.Sprintf("% x", value)
}

type registerOutput struct {
	Register string      `json:"register"`
	Index    uint8       `json:"index"`
	Value    interface{} `json:"value"`
}

type heartBeatOutput struct {
	inside.HeartBeat
	Age string `json:"age"`
}

var (
	// RegCmd reads a register.
	RegCmd = ishell.Cmd{
		Name:    "reg",
		Aliases: []string{"get"},
		Help:    "NAME|INDEX, names: name uuid firmware-version heartbeat-interval obstacle-distance front-leds eye-angle",
		Func: sh.MustBeConnected(func(c *ishell.Context, client *head.Client) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("register required"))
				return
			}
			index, err := inside.ParseRegisterIndex(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), sh.CommandTimeout)
			defer cancel()
			value, err := client.ReadRegister(ctx, index)
			if err != nil {
				c.Err(err)
				return
			}
			out := registerOutput{Register: index.String(), Index: uint8(index), Value: FormatValue(index, value)}
			sh.Print(c, &out, fmt.Sprintf("%s = %v", out.Register, out.Value))
		}),
	}

	// HeartBeatCmd shows the latest heartbeat.
	HeartBeatCmd = ishell.Cmd{
		Name:    "hb",
		Aliases: []string{"status"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context, client *head.Client) {
			hb, at, ok := client.LastHeartBeat()
			if !ok {
				c.Err(fmt.Errorf("no heartbeat received"))
				return
			}
			age := time.Since(at).Round(time.Millisecond)
			sh.Print(c, &heartBeatOutput{HeartBeat: hb, Age: age.String()},
				fmt.Sprintf("steps=%d obstacle=%d battery=%.2fV yaw=%.2f pitch=%.2f roll=%.2f (%s ago)",
					hb.StepCounter, hb.ObstacleDistance, hb.BatteryVoltage,
					hb.Yaw(), hb.Pitch(), hb.Roll(), age))
		}),
	}
)

func init() {
	sh.AddCmds(&RegCmd, &HeartBeatCmd)
}
