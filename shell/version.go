package shell

import (
	"github.com/abiosoft/ishell"
	"github.com/juruen/scrivi/version"
)

func versionCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "version",
		Help: "show scrivi version",
		Func: func(c *ishell.Context) {
			c.Println("scrivi version:", version.Version)
		},
	}
}
