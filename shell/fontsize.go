package shell

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"
)

func fontSizeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "fontsize",
		Help: "show or set the size of the text field, usage: fontsize [<px>]",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				r := ctx.App.FontRange()
				c.Println(fmt.Sprintf("%s (%d-%d)", ctx.App.Snapshot().FontLabel, r.Min, r.Max))
				return
			}

			n, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(errors.New("invalid size: " + c.Args[0]))
				return
			}
			_, label := ctx.App.SetFontSize(n)
			c.Println(label)
		},
	}
}
