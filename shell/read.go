package shell

import (
	"github.com/abiosoft/ishell"
	"github.com/juruen/scrivi/log"
)

func readCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "read",
		Help: "read the text aloud",
		Func: func(c *ishell.Context) {
			if err := ctx.App.ReadAloud(); err != nil {
				// the user was alerted already
				log.Trace.Printf("read: %v", err)
			}
		},
	}
}
