package shell

import (
	"errors"

	"github.com/abiosoft/ishell"
	"github.com/juruen/scrivi/canvas"
	"github.com/juruen/scrivi/input"
	flag "github.com/ogier/pflag"
)

// stroke draws a whole stroke: press on the first point, move through the
// others and release.
func stroke(ctx *ShellCtxt, args []string, touch bool) error {
	points, err := parsePoints(args)
	if err != nil {
		return err
	}
	if len(points) < 2 {
		return errors.New("a stroke needs at least two points")
	}

	device := input.Mouse
	if touch {
		device = input.Touch
	}
	for i, p := range points {
		kind := input.Move
		if i == 0 {
			kind = input.Down
		}
		ev := input.Event{Kind: kind, Device: device, X: p.X, Y: p.Y}
		if touch {
			ev.Touches = []canvas.Point{p}
		}
		ctx.App.Pointer(ev)
	}
	last := points[len(points)-1]
	ctx.App.Pointer(input.Event{Kind: input.Up, Device: device, X: last.X, Y: last.Y})
	return nil
}

func strokeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "stroke",
		Help: "draw a stroke through client coordinates, usage: stroke [--touch] <x,y> <x,y> [<x,y>...]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("stroke", flag.ContinueOnError)
			var touch bool
			flagSet.BoolVar(&touch, "touch", false, "send touch events instead of mouse events")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			if err := stroke(ctx, flagSet.Args(), touch); err != nil {
				c.Err(err)
				return
			}
			c.Println(ctx.App.Status())
		},
	}
}
