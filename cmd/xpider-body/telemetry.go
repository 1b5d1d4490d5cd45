package main

import (
	"context"
	"time"

	"github.com/robotalks/xpider/pkg/body"
	fx "github.com/robotalks/xpider/pkg/framework"
	"github.com/robotalks/xpider/pkg/inside"
)

// telemetryLoop publishes the body status at the rate the body sends
// heartbeats.
func telemetryLoop(sim *body.Body, publish func(inside.HeartBeat)) fx.Runnable {
	return fx.RunFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(sim.HeartBeatInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				publish(sim.State().HeartBeat)
			}
		}
	})
}
