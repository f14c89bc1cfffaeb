package espeak

import (
	"os"
	"os/exec"
	"testing"

	"github.com/juruen/scrivi/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const voicesOutput = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  en-gb           --/M      English_(Great_Britain) gmw/en
 5  it              --/M      Italian            roa/it
 5  it              --/F      italian-female     roa/it+f3
`

func TestParseVoices(t *testing.T) {
	voices := parseVoices([]byte(voicesOutput))
	require.Len(t, voices, 3)
	assert.Equal(t, speech.Voice{ID: "roa/it", Name: "Italian", Language: "it", Gender: "male"}, voices[1])
	assert.Equal(t, "female", voices[2].Gender)
}

func TestArgs(t *testing.T) {
	u := speech.Utterance{Text: "-ciao", Language: "it-IT", Rate: 1, Pitch: 3}
	assert.Equal(t, []string{"-v", "it-IT", "-s", "175", "-p", "99", "--", "-ciao"}, args(u))

	u.Voice = &speech.Voice{ID: "roa/it", Name: "Italian"}
	u.Rate, u.Pitch = 0, 0
	assert.Equal(t, []string{"-v", "roa/it", "--", "-ciao"}, args(u))
}

func TestVoicesAndSpeak(t *testing.T) {
	var started [][]string
	s := &Synthesizer{
		command: "espeak-ng",
		run: func(name string, a ...string) ([]byte, error) {
			assert.Equal(t, []string{"--voices"}, a)
			return []byte(voicesOutput), nil
		},
		start: func(name string, a ...string) (*exec.Cmd, error) {
			started = append(started, a)
			return &exec.Cmd{}, nil
		},
	}

	voices, err := s.Voices()
	require.NoError(t, err)
	b, err := speech.NewBridge(s, speech.DefaultProfile())
	require.NoError(t, err)
	require.NotNil(t, b.Voice())
	assert.Equal(t, "italian-female", b.Voice().Name)
	assert.Len(t, voices, 3)

	require.NoError(t, b.Read("ciao"))
	require.Len(t, started, 1)
	assert.Equal(t, "roa/it+f3", started[0][1])

	// nothing is running, so cancel is a no-op
	assert.NoError(t, s.Cancel())
}

func TestNewMissingCommand(t *testing.T) {
	_, err := New("definitely-not-an-installed-synthesizer")
	assert.Error(t, err)
}

func TestCancelFinishedProcess(t *testing.T) {
	// the test binary exits at once when no test matches
	cmd := exec.Command(os.Args[0], "-test.run=^$")
	require.NoError(t, cmd.Run())

	s := &Synthesizer{command: "espeak-ng", cmd: cmd}
	assert.NoError(t, s.Cancel())
	assert.Nil(t, s.cmd)
}
