package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/abiosoft/ishell"
	"github.com/juruen/scrivi/app"
	"github.com/juruen/scrivi/version"
)

type ShellCtxt struct {
	App        *app.App
	JSONOutput bool
}

func (ctx *ShellCtxt) prompt() string {
	return fmt.Sprintf("[%s]>", ctx.App.Snapshot().State)
}

// Notifier prints alerts raised by the page.
type Notifier struct {
	Out io.Writer
}

func (n Notifier) Alert(msg string) {
	out := n.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "! %s\n", msg)
}

func RunShell(a *app.App, args []string, jsonOutput bool) error {
	shell := ishell.New()
	ctx := &ShellCtxt{App: a, JSONOutput: jsonOutput}

	shell.SetPrompt(ctx.prompt())

	shell.AddCmd(layoutCmd(ctx))
	shell.AddCmd(downCmd(ctx))
	shell.AddCmd(moveCmd(ctx))
	shell.AddCmd(upCmd(ctx))
	shell.AddCmd(touchCmd(ctx))
	shell.AddCmd(touchMoveCmd(ctx))
	shell.AddCmd(touchEndCmd(ctx))
	shell.AddCmd(strokeCmd(ctx))
	// replaces the builtin clear (screen) command
	shell.AddCmd(clearCmd(ctx))
	shell.AddCmd(clearTextCmd(ctx))
	shell.AddCmd(textCmd(ctx))
	shell.AddCmd(recognizeCmd(ctx))
	shell.AddCmd(readCmd(ctx))
	shell.AddCmd(fontSizeCmd(ctx))
	shell.AddCmd(statusCmd(ctx))
	shell.AddCmd(voicesCmd(ctx))
	shell.AddCmd(versionCmd(ctx))

	if len(args) > 0 {
		return shell.Process(args...)
	}

	shell.Printf("scrivi %s, engine: %s\n", version.Version, engineName(ctx))
	shell.Run()
	return nil
}

func engineName(ctx *ShellCtxt) string {
	if e := ctx.App.Snapshot().Engine; e != "" {
		return e
	}
	return "none"
}
