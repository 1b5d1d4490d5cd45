package main

import (
	"github.com/robotalks/xpider/pkg/cli/sh"
	"github.com/robotalks/xpider/pkg/env"

	_ "github.com/robotalks/xpider/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
