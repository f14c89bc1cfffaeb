package shell

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"
)

func layout(ctx *ShellCtxt, left, top float64, args []string) error {
	if len(args) < 2 {
		return errors.New("missing size, usage: layout [--left N] [--top N] <width> <height>")
	}
	w, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New("invalid width: " + args[0])
	}
	h, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.New("invalid height: " + args[1])
	}
	return ctx.App.Layout(left, top, w, h)
}

func layoutCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "layout",
		Help: "resize the drawing surface, as on page load or window resize",
		LongHelp: `Usage: layout [options] <width> <height>

The surface is cleared.

Options:
  --left=<N>  horizontal offset of the surface on screen (default: 0)
  --top=<N>   vertical offset of the surface on screen (default: 0)`,
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("layout", flag.ContinueOnError)
			left := flagSet.Float64("left", 0, "horizontal offset")
			top := flagSet.Float64("top", 0, "vertical offset")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			if err := layout(ctx, *left, *top, flagSet.Args()); err != nil {
				c.Err(err)
				return
			}
			s := ctx.App.Snapshot()
			c.Println(fmt.Sprintf("%dx%d, %s", s.Width, s.Height, s.Status))
		},
	}
}
