// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/xpider/pkg/cli/cmds/actuator"
	_ "github.com/robotalks/xpider/pkg/cli/cmds/motion"
	_ "github.com/robotalks/xpider/pkg/cli/cmds/register"
)
