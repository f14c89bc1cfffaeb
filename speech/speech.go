// Package speech reads recognized text aloud through a platform synthesizer.
package speech

import (
	"regexp"
	"strings"
	"sync"

	"github.com/juruen/scrivi/log"
	"github.com/pkg/errors"
)

var (
	ErrNoText      = errors.New("no text to read")
	ErrUnavailable = errors.New("speech synthesis not supported")
)

// Voice describes a voice offered by the platform.
type Voice struct {
	// ID is the synthesizer specific identifier, if any.
	ID       string
	Name     string
	Language string
	Gender   string
}

// Utterance is one request to the synthesizer.
type Utterance struct {
	Text     string
	Language string
	Rate     float64
	Pitch    float64
	// Voice is nil when the platform default should be used.
	Voice *Voice
}

// Synthesizer is a platform text-to-speech engine. Speak must return once
// playback has started.
type Synthesizer interface {
	Voices() ([]Voice, error)
	Speak(u Utterance) error
	Cancel() error
}

// VoicesNotifier is implemented by synthesizers whose voice list can change.
type VoicesNotifier interface {
	OnVoicesChanged(func())
}

// Profile selects the language, the preferred voice and the prosody.
type Profile struct {
	Language       string
	LanguagePrefix string
	GenderPattern  string
	Rate           float64
	Pitch          float64
}

func DefaultProfile() Profile {
	return Profile{
		Language:       "it-IT",
		LanguagePrefix: "it",
		GenderPattern:  "female|femminile|woman",
		Rate:           1,
		Pitch:          1,
	}
}

// Bridge caches the selected voice and speaks text with it.
type Bridge struct {
	synth   Synthesizer
	profile Profile
	gender  *regexp.Regexp

	mu    sync.Mutex
	voice *Voice
}

// NewBridge resolves the voice immediately and again whenever the
// synthesizer reports new voices. synth may be nil.
func NewBridge(synth Synthesizer, profile Profile) (*Bridge, error) {
	gender, err := regexp.Compile("(?i)" + profile.GenderPattern)
	if err != nil {
		return nil, errors.Wrap(err, "gender pattern")
	}
	b := &Bridge{synth: synth, profile: profile, gender: gender}
	if synth == nil {
		return b, nil
	}
	b.LoadVoices()
	if n, ok := synth.(VoicesNotifier); ok {
		n.OnVoicesChanged(b.LoadVoices)
	}
	return b, nil
}

func (b *Bridge) Available() bool { return b.synth != nil }

// LoadVoices re-runs voice selection. An empty list keeps the cached voice.
func (b *Bridge) LoadVoices() {
	if b.synth == nil {
		return
	}
	voices, err := b.synth.Voices()
	if err != nil {
		log.Warning.Printf("speech: cannot list voices: %v", err)
		return
	}
	if len(voices) == 0 {
		return
	}
	v := SelectVoice(voices, b.profile.LanguagePrefix, b.gender)

	b.mu.Lock()
	b.voice = v
	b.mu.Unlock()

	if v != nil {
		log.Trace.Printf("speech: using voice %q (%s)", v.Name, v.Language)
	} else {
		log.Trace.Printf("speech: no %s voice, using platform default", b.profile.LanguagePrefix)
	}
}

// Voice returns the cached voice, nil for the platform default.
func (b *Bridge) Voice() *Voice {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.voice == nil {
		return nil
	}
	v := *b.voice
	return &v
}

// Voices lists the voices of the synthesizer.
func (b *Bridge) Voices() ([]Voice, error) {
	if b.synth == nil {
		return nil, ErrUnavailable
	}
	return b.synth.Voices()
}

// Read cancels any utterance in progress and speaks text.
func (b *Bridge) Read(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrNoText
	}
	if b.synth == nil {
		return ErrUnavailable
	}

	if err := b.synth.Cancel(); err != nil {
		log.Warning.Printf("speech: cancel: %v", err)
	}

	u := Utterance{
		Text:     text,
		Language: b.profile.Language,
		Rate:     b.profile.Rate,
		Pitch:    b.profile.Pitch,
		Voice:    b.Voice(),
	}
	return errors.Wrap(b.synth.Speak(u), "speak")
}

// SelectVoice picks the first voice whose language starts with prefix and
// whose name or gender matches gender, else the first voice of the
// language, else nil.
func SelectVoice(voices []Voice, prefix string, gender *regexp.Regexp) *Voice {
	prefix = strings.ToLower(prefix)
	var fallback *Voice
	for i := range voices {
		v := &voices[i]
		if !strings.HasPrefix(strings.ToLower(v.Language), prefix) {
			continue
		}
		if gender != nil && (gender.MatchString(v.Name) || gender.MatchString(v.Gender)) {
			found := *v
			return &found
		}
		if fallback == nil {
			found := *v
			fallback = &found
		}
	}
	return fallback
}
