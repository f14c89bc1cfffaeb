// Package espeak drives the espeak-ng command line synthesizer.
package espeak

import (
	"bufio"
	"bytes"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/juruen/scrivi/log"
	"github.com/juruen/scrivi/speech"
	"github.com/pkg/errors"
)

const (
	DefaultCommand = "espeak-ng"

	defaultWordsPerMinute = 175
	defaultPitch          = 50
)

// Synthesizer implements speech.Synthesizer. One utterance plays at a time.
type Synthesizer struct {
	command string

	mu  sync.Mutex
	cmd *exec.Cmd

	// run is replaced in tests
	run   func(name string, args ...string) ([]byte, error)
	start func(name string, args ...string) (*exec.Cmd, error)
}

// New checks that command is installed.
func New(command string) (*Synthesizer, error) {
	if command == "" {
		command = DefaultCommand
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, errors.Wrapf(speech.ErrUnavailable, "%s not found", command)
	}
	return &Synthesizer{command: path, run: runCommand, start: startCommand}, nil
}

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

func startCommand(name string, args ...string) (*exec.Cmd, error) {
	cmd := exec.Command(name, args...)
	return cmd, cmd.Start()
}

// Voices lists the installed voices.
func (s *Synthesizer) Voices() ([]speech.Voice, error) {
	out, err := s.run(s.command, "--voices")
	if err != nil {
		return nil, errors.Wrap(err, "list voices")
	}
	return parseVoices(out), nil
}

// Speak starts playback and returns without waiting for it to end.
func (s *Synthesizer) Speak(u speech.Utterance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, err := s.start(s.command, args(u)...)
	if err != nil {
		return errors.Wrap(err, "start "+s.command)
	}
	s.cmd = cmd
	go s.wait(cmd)
	return nil
}

func (s *Synthesizer) wait(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := cmd.Wait(); err != nil {
		log.Trace.Printf("espeak: %v", err)
	}
	s.mu.Lock()
	if s.cmd == cmd {
		s.cmd = nil
	}
	s.mu.Unlock()
}

// Cancel stops the utterance being played, if any.
func (s *Synthesizer) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	err := s.cmd.Process.Kill()
	s.cmd = nil
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return errors.Wrap(err, "kill "+s.command)
	}
	return nil
}

func args(u speech.Utterance) []string {
	voice := u.Language
	if u.Voice != nil {
		voice = u.Voice.ID
		if voice == "" {
			voice = u.Voice.Name
		}
	}
	a := []string{"-v", voice}
	if u.Rate > 0 {
		a = append(a, "-s", strconv.Itoa(int(u.Rate*defaultWordsPerMinute)))
	}
	if u.Pitch > 0 {
		p := int(u.Pitch * defaultPitch)
		if p > 99 {
			p = 99
		}
		a = append(a, "-p", strconv.Itoa(p))
	}
	return append(a, "--", u.Text)
}

// parseVoices reads the table printed by --voices:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  it              --/M      Italian            roa/it
func parseVoices(out []byte) []speech.Voice {
	var voices []speech.Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		v := speech.Voice{Language: fields[1], Name: fields[3]}
		if len(fields) > 4 {
			v.ID = fields[4]
		}
		if i := strings.Index(fields[2], "/"); i >= 0 {
			switch fields[2][i+1:] {
			case "F":
				v.Gender = "female"
			case "M":
				v.Gender = "male"
			}
		}
		voices = append(voices, v)
	}
	return voices
}
