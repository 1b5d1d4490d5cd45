package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/xpider/pkg/capture"
	"github.com/robotalks/xpider/pkg/env"
	fx "github.com/robotalks/xpider/pkg/framework"
	"github.com/robotalks/xpider/pkg/inside"
	"github.com/robotalks/xpider/pkg/link/mqtt"
	"github.com/robotalks/xpider/pkg/telemetry"
)

var (
	dumpFile  string
	session   string
	direction string
	opcode    string
)

func init() {
	env.SetupFlags()
	flag.StringVar(&dumpFile, "dump", dumpFile, "Dump a capture file instead of monitoring the broker.")
	flag.StringVar(&session, "session", session, "Only dump this capture session.")
	flag.StringVar(&direction, "dir", direction, "Only dump frames in this direction (in or out).")
	flag.StringVar(&opcode, "op", opcode, "Only dump frames of this opcode, e.g. HeartBeat.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)
	defer glog.Flush()

	if dumpFile != "" {
		if err := dump(); err != nil {
			log.Fatalln(err)
		}
		return
	}

	conf, err := env.Load()
	if err != nil {
		log.Fatalln(err)
	}
	q, err := mqtt.NewQueueFromURL(conf.LinkURL)
	if err != nil {
		log.Fatalln(err)
	}
	robot := "+"
	if conf.HasRobotID() {
		robot = conf.RobotID
	}
	for _, suffix := range []string{mqtt.TopicHead, mqtt.TopicBody} {
		q.Sub(mqtt.RobotTopic(robot, suffix), func(topic string, payload []byte) {
			log.Printf("%s: %s", topic, inside.Describe(payload))
		})
	}
	q.Sub(mqtt.RobotTopic(robot, mqtt.TopicMeta), func(topic string, payload []byte) {
		if len(payload) == 0 {
			log.Printf("%s: gone", topic)
			return
		}
		log.Printf("%s: %s", topic, string(payload))
	})
	telemetry.Subscribe(q, robot, func(m *telemetry.HeartBeat) {
		log.Printf("%s/%s: %s", m.RobotId, mqtt.TopicTelemetry, m.String())
	})
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	runner := fx.NewRunner().HandleSignals()
	<-runner.Context().Done()
}

func parseFilter() (filter capture.Filter, err error) {
	filter.Session = session
	if direction != "" {
		dir, ok := capture.ParseDirection(direction)
		if !ok {
			return filter, fmt.Errorf("invalid direction %q", direction)
		}
		filter.Direction = &dir
	}
	if opcode != "" {
		for _, l := range inside.Catalog() {
			if strings.EqualFold(l.Name, opcode) {
				op := l.Opcode
				filter.Opcode = &op
				break
			}
		}
		if filter.Opcode == nil {
			return filter, fmt.Errorf("unknown opcode %q", opcode)
		}
	}
	return
}

func dump() error {
	filter, err := parseFilter()
	if err != nil {
		return err
	}
	r, err := capture.OpenFile(dumpFile)
	if err != nil {
		return err
	}
	defer r.Close()
	r.Filter = filter
	for {
		event, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%s %s %-3s %s", event.Timestamp.Format("15:04:05.000000"),
			shortSession(event.Session), event.Direction, inside.Describe(event.Frame))
		if event.Error != "" {
			line += " ! " + event.Error
		}
		fmt.Println(line)
	}
}

func shortSession(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
