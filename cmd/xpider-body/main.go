package main

import (
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/xpider/pkg/body"
	"github.com/robotalks/xpider/pkg/env"
	fx "github.com/robotalks/xpider/pkg/framework"
	"github.com/robotalks/xpider/pkg/link"
	"github.com/robotalks/xpider/pkg/telemetry"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := env.Load()
	if err != nil {
		log.Fatalln(err)
	}
	l, err := conf.OpenLink(env.RoleBody)
	if err != nil {
		log.Fatalln(err)
	}
	pipe := link.NewPipe(l)
	sim, err := body.New(pipe, conf.Body.Config)
	if err != nil {
		log.Fatalln(err)
	}
	pipe.Decoder = sim
	glog.Infof("body %s (%s) on %s", conf.RobotID, sim.ID(), conf.LinkURL)

	runner := fx.NewRunner().HandleSignals()
	runner.Go(l.Runnables()...)
	runner.Go(fx.NamedRun("pipe", pipe), fx.NamedRun("body", sim))
	if conf.Telemetry && l.Queue != nil {
		pub := telemetry.NewPublisher(l.Queue, conf.RobotID)
		runner.Go(fx.NamedRun("telemetry", telemetryLoop(sim, pub.HandleHeartBeat)))
	}
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
