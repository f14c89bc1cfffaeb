package shell

import (
	"encoding/json"

	"github.com/abiosoft/ishell"
	"github.com/juruen/scrivi/app"
	flag "github.com/ogier/pflag"
)

func displayJSON(c *ishell.Context, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	c.Println(string(output))
	return nil
}

func displaySnapshot(c *ishell.Context, s app.Snapshot) {
	engine := s.Engine
	if engine == "" {
		engine = "none"
	}
	voice := s.Voice
	if !s.Speech {
		voice = "unavailable"
	} else if voice == "" {
		voice = "default"
	}
	c.Printf("status:\t%s\n", s.Status)
	c.Printf("input:\t%s\n", s.State)
	c.Printf("surface:\t%dx%d blank=%t\n", s.Width, s.Height, s.Blank)
	c.Printf("font:\t%s\n", s.FontLabel)
	c.Printf("engine:\t%s\n", engine)
	c.Printf("voice:\t%s\n", voice)
	c.Printf("text:\t%q\n", s.Text)
}

func statusCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "status",
		Help: "show the page state",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("status", flag.ContinueOnError)
			jsonOutput := flagSet.Bool("json", ctx.JSONOutput, "print as json")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			s := ctx.App.Snapshot()
			if *jsonOutput {
				if err := displayJSON(c, s); err != nil {
					c.Err(err)
				}
				return
			}
			displaySnapshot(c, s)
		},
	}
}
