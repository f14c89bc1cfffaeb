package shell

import (
	"github.com/abiosoft/ishell"
	"github.com/juruen/scrivi/speech"
)

type voiceJSON struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Gender   string `json:"gender,omitempty"`
	Selected bool   `json:"selected"`
}

func voiceList(voices []speech.Voice, selected *speech.Voice) []voiceJSON {
	out := make([]voiceJSON, len(voices))
	for i, v := range voices {
		out[i] = voiceJSON{
			Name:     v.Name,
			Language: v.Language,
			Gender:   v.Gender,
			Selected: selected != nil && v.Name == selected.Name && v.Language == selected.Language,
		}
	}
	return out
}

func voicesCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "voices",
		Help: "list the speech voices, the selected one is starred",
		Func: func(c *ishell.Context) {
			voices, selected, err := ctx.App.Voices()
			if err != nil {
				c.Err(err)
				return
			}

			list := voiceList(voices, selected)
			if ctx.JSONOutput {
				if err := displayJSON(c, list); err != nil {
					c.Err(err)
				}
				return
			}
			for _, v := range list {
				mark := " "
				if v.Selected {
					mark = "*"
				}
				c.Printf("[%s]\t%s\t%s\t%s\n", mark, v.Language, v.Name, v.Gender)
			}
		},
	}
}
