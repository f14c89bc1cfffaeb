package shell

import (
	"strings"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"
)

func textCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "text",
		Help: "print the recognized text, or edit it, usage: text [--append] [<words>...]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("text", flag.ContinueOnError)
			var appendText bool
			flagSet.BoolVar(&appendText, "append", false, "append to the current text")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			args := flagSet.Args()
			if len(args) == 0 {
				c.Println(ctx.App.Text())
				return
			}

			text := strings.Join(args, " ")
			if appendText {
				if cur := ctx.App.Text(); cur != "" {
					text = cur + " " + text
				}
			}
			ctx.App.SetText(text)
		},
	}
}
