package shell

import (
	"github.com/abiosoft/ishell"
)

func clearCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "clear",
		Help: "clear the drawing",
		Func: func(c *ishell.Context) {
			ctx.App.ClearDrawing()
			c.Println(ctx.App.Status())
		},
	}
}

func clearTextCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "cleartext",
		Help: "clear the recognized text",
		Func: func(c *ishell.Context) {
			ctx.App.ClearText()
			c.Println(ctx.App.Status())
		},
	}
}
