package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/juruen/scrivi/canvas"
	"github.com/juruen/scrivi/input"
)

// parsePoint reads a "x,y" pair.
func parsePoint(s string) (canvas.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return canvas.Point{}, fmt.Errorf("invalid point %q, expected x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return canvas.Point{}, fmt.Errorf("invalid point %q: %v", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return canvas.Point{}, fmt.Errorf("invalid point %q: %v", s, err)
	}
	return canvas.Point{X: x, Y: y}, nil
}

func parsePoints(args []string) ([]canvas.Point, error) {
	points := make([]canvas.Point, 0, len(args))
	for _, a := range args {
		p, err := parsePoint(a)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func touch(ctx *ShellCtxt, kind input.Kind, args []string) error {
	contacts, err := parsePoints(args)
	if err != nil {
		return err
	}
	ctx.App.Pointer(input.Event{Kind: kind, Device: input.Touch, Touches: contacts})
	return nil
}

func touchCmdFor(ctx *ShellCtxt, name, help string, kind input.Kind) *ishell.Cmd {
	return &ishell.Cmd{
		Name: name,
		Help: help,
		Func: func(c *ishell.Context) {
			if err := touch(ctx, kind, c.Args); err != nil {
				c.Err(err)
				return
			}
			c.SetPrompt(ctx.prompt())
			if kind != input.Move {
				c.Println(ctx.App.Status())
			}
		},
	}
}

func touchCmd(ctx *ShellCtxt) *ishell.Cmd {
	return touchCmdFor(ctx, "touch", "start a touch, usage: touch <x,y> [<x,y>...]", input.Down)
}

func touchMoveCmd(ctx *ShellCtxt) *ishell.Cmd {
	return touchCmdFor(ctx, "touchmove", "move the touch contacts, usage: touchmove <x,y> [<x,y>...]", input.Move)
}

func touchEndCmd(ctx *ShellCtxt) *ishell.Cmd {
	return touchCmdFor(ctx, "touchend", "lift every finger", input.Up)
}
