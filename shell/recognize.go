package shell

import (
	"context"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/juruen/scrivi/app"
	"github.com/juruen/scrivi/log"
	flag "github.com/ogier/pflag"
)

const defaultRecognizeTimeout = 60 * time.Second

func recognizeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "recognize",
		Help: "recognize the handwriting on the surface",
		LongHelp: `Usage: recognize [options]

Options:
  --timeout=<duration>  give up after this long (default: 60s)`,
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("recognize", flag.ContinueOnError)
			timeout := flagSet.Duration("timeout", defaultRecognizeTimeout, "recognition timeout")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			c.Println(app.StatusRecognizing)
			c.ProgressBar().Indeterminate(true)
			c.ProgressBar().Start()
			status, err := recognizeText(ctx, *timeout)
			c.ProgressBar().Stop()

			c.Println(status)
			if err != nil {
				// the user was alerted already
				log.Trace.Printf("recognize: %v", err)
				return
			}
			c.Println(ctx.App.Text())
		},
	}
}

// recognizeText runs one recognition and returns the resulting status line.
func recognizeText(ctx *ShellCtxt, timeout time.Duration) (string, error) {
	rctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := ctx.App.Recognize(rctx)
	return ctx.App.Status(), err
}
