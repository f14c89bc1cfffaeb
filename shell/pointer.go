package shell

import (
	"errors"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/juruen/scrivi/input"
)

func parseXY(args []string) (float64, float64, error) {
	if len(args) < 2 {
		return 0, 0, errors.New("missing coordinates, usage: <x> <y>")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, errors.New("invalid x: " + args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, errors.New("invalid y: " + args[1])
	}
	return x, y, nil
}

func mouse(ctx *ShellCtxt, kind input.Kind, args []string) error {
	ev := input.Event{Kind: kind, Device: input.Mouse}
	if kind != input.Up || len(args) > 0 {
		x, y, err := parseXY(args)
		if err != nil {
			return err
		}
		ev.X, ev.Y = x, y
	}
	ctx.App.Pointer(ev)
	return nil
}

func mouseCmd(ctx *ShellCtxt, name, help string, kind input.Kind) *ishell.Cmd {
	return &ishell.Cmd{
		Name: name,
		Help: help,
		Func: func(c *ishell.Context) {
			if err := mouse(ctx, kind, c.Args); err != nil {
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

func downCmd(ctx *ShellCtxt) *ishell.Cmd {
	return mouseCmd(ctx, "down", "press the mouse button, usage: down <x> <y>", input.Down)
}

func moveCmd(ctx *ShellCtxt) *ishell.Cmd {
	return mouseCmd(ctx, "move", "move the mouse, usage: move <x> <y>", input.Move)
}

func upCmd(ctx *ShellCtxt) *ishell.Cmd {
	return mouseCmd(ctx, "up", "release the mouse button, usage: up [<x> <y>]", input.Up)
}
