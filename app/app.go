// Package app holds the state of one handwriting page: the drawing
// surface, the pointer session, the recognized text and the engines the
// page buttons talk to.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/juruen/scrivi/canvas"
	"github.com/juruen/scrivi/ink"
	"github.com/juruen/scrivi/input"
	"github.com/juruen/scrivi/log"
	"github.com/juruen/scrivi/recognize"
	"github.com/juruen/scrivi/speech"
	"github.com/pkg/errors"
)

// Status messages shown to the user.
const (
	StatusReady       = "Pronto"
	StatusDrawing     = "Sto disegnando…"
	StatusTextCleared = "Testo cancellato"
	StatusRecognizing = "Riconoscimento in corso… (può richiedere alcuni secondi)"
	StatusRecognized  = "Riconoscimento completato"
	StatusFailed      = "Errore nel riconoscimento"
)

// Alert messages.
const (
	AlertOCRMissing        = "Libreria OCR non disponibile"
	AlertRecognizeFailed   = "Si è verificato un errore nel riconoscimento della scrittura."
	AlertNoText            = "Non c'è testo da leggere."
	AlertSpeechUnsupported = "Sintesi vocale non supportata in questo browser."
	AlertSpeechFailed      = "Si è verificato un errore nella lettura del testo."
)

// ErrSuperseded is returned by a recognition replaced by a newer one.
var ErrSuperseded = errors.New("recognition superseded")

// Notifier shows blocking messages to the user.
type Notifier interface {
	Alert(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Alert(msg string) { f(msg) }

type FontRange struct {
	Min, Max, Default int
}

type Options struct {
	Width, Height int
	Style         canvas.Style
	FontSize      FontRange
	Recognizer    *recognize.Bridge
	Speech        *speech.Bridge
	Notifier      Notifier
}

// App is the page. All methods are safe for concurrent use.
type App struct {
	mu sync.Mutex

	surface *canvas.Surface
	session *input.Session
	ink     *ink.Recorder

	text     string
	status   string
	fontSize int
	fonts    FontRange

	recognizer *recognize.Bridge
	speech     *speech.Bridge
	notifier   Notifier

	// cancel stops the recognition in flight, generation identifies it
	cancel     context.CancelFunc
	generation uint64
}

// Snapshot is the visible state of the page.
type Snapshot struct {
	Text      string `json:"text"`
	Status    string `json:"status"`
	State     string `json:"state"`
	FontSize  int    `json:"font_size"`
	FontLabel string `json:"font_label"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Blank     bool   `json:"blank"`
	Engine    string `json:"engine,omitempty"`
	Speech    bool   `json:"speech"`
	Voice     string `json:"voice,omitempty"`
}

func New(opts Options) (*App, error) {
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = 800, 400
	}
	if opts.Style == (canvas.Style{}) {
		opts.Style = canvas.DefaultStyle()
	}
	if opts.FontSize == (FontRange{}) {
		opts.FontSize = FontRange{Min: 12, Max: 48, Default: 20}
	}
	if opts.FontSize.Min > opts.FontSize.Max {
		return nil, fmt.Errorf("font size min %d above max %d", opts.FontSize.Min, opts.FontSize.Max)
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(msg string) { log.Warning.Println(msg) })
	}

	surface, err := canvas.NewSurface(opts.Width, opts.Height, opts.Style)
	if err != nil {
		return nil, err
	}

	a := &App{
		surface:    surface,
		status:     StatusReady,
		fonts:      opts.FontSize,
		recognizer: opts.Recognizer,
		speech:     opts.Speech,
		notifier:   opts.Notifier,
	}
	a.fontSize = a.clampFont(opts.FontSize.Default)

	renderers := []input.Renderer{surface}
	if a.recognizer.Available() && recognize.NeedsInk(a.recognizer.Engine()) {
		a.ink = ink.NewRecorder()
		renderers = append(renderers, a.ink)
	}
	a.session = input.NewSession(renderers...)
	a.session.OnChange = a.onStateChange

	if !a.speechAvailable() {
		a.notifier.Alert(AlertSpeechUnsupported)
	}
	return a, nil
}

// onStateChange runs with a.mu held, from Session.Handle.
func (a *App) onStateChange(s input.State) {
	if s == input.Drawing {
		a.status = StatusDrawing
	} else {
		a.status = StatusReady
	}
}

func (a *App) speechAvailable() bool {
	return a.speech != nil && a.speech.Available()
}

// Layout sizes the surface to the element's rendered size and position.
// The surface is always blank afterwards.
func (a *App) Layout(left, top float64, width, height int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.surface.Resize(width, height); err != nil {
		return err
	}
	a.session.Reset()
	a.session.SetOffset(left, top)
	if a.ink != nil {
		a.ink.Reset()
	}
	a.status = StatusReady
	log.Trace.Printf("layout: %dx%d at %.0f,%.0f", width, height, left, top)
	return nil
}

// Pointer feeds one mouse or touch event to the input session.
func (a *App) Pointer(ev input.Event) input.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.Handle(ev)
	return a.session.State()
}

// ClearDrawing blanks the surface. The text is kept.
func (a *App) ClearDrawing() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.surface.Clear()
	if a.ink != nil {
		a.ink.Reset()
	}
	a.status = StatusReady
}

// ClearText empties the recognized text. The drawing is kept.
func (a *App) ClearText() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.text = ""
	a.status = StatusTextCleared
}

// SetText replaces the text, as when the user edits the field.
func (a *App) SetText(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.text = s
}

func (a *App) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text
}

func (a *App) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := Snapshot{
		Text:      a.text,
		Status:    a.status,
		State:     a.session.State().String(),
		FontSize:  a.fontSize,
		FontLabel: fontLabel(a.fontSize),
		Width:     a.surface.Width(),
		Height:    a.surface.Height(),
		Blank:     a.surface.IsBlank(),
		Speech:    a.speechAvailable(),
	}
	if a.recognizer.Available() {
		s.Engine = a.recognizer.Engine().Name()
	}
	if a.speechAvailable() {
		if v := a.speech.Voice(); v != nil {
			s.Voice = v.Name
		}
	}
	return s
}

// Recognize submits the drawing and replaces the text with the corrected
// result. Starting a new recognition cancels the one in flight; the
// cancelled call returns ErrSuperseded and leaves text and status alone.
func (a *App) Recognize(ctx context.Context) error {
	a.mu.Lock()
	if !a.recognizer.Available() {
		a.mu.Unlock()
		a.notifier.Alert(AlertOCRMissing)
		return recognize.ErrEngineUnavailable
	}

	if a.cancel != nil {
		a.cancel()
	}
	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	a.cancel = cancel
	a.generation++
	gen := a.generation

	img := a.surface.Image()
	var strokes []ink.Stroke
	if a.ink != nil {
		strokes = a.ink.Strokes()
	}
	a.status = StatusRecognizing
	a.mu.Unlock()

	text, err := a.recognizer.Recognize(ctx, img, strokes)

	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		cancel()
		log.Trace.Printf("recognition %d superseded", gen)
		return ErrSuperseded
	}
	a.cancel = nil
	cancel()

	if err != nil {
		if parent.Err() != nil {
			// the caller went away
			a.status = StatusReady
			a.mu.Unlock()
			return err
		}
		a.status = StatusFailed
		a.mu.Unlock()
		log.Error.Printf("recognition failed: %v", err)
		a.notifier.Alert(AlertRecognizeFailed)
		return err
	}

	a.text = text
	a.status = StatusRecognized
	a.mu.Unlock()
	log.Info.Printf("recognized %q", text)
	return nil
}

// ReadAloud speaks the current text.
func (a *App) ReadAloud() error {
	text := a.Text()
	if strings.TrimSpace(text) == "" {
		a.notifier.Alert(AlertNoText)
		return speech.ErrNoText
	}
	if !a.speechAvailable() {
		a.notifier.Alert(AlertSpeechUnsupported)
		return speech.ErrUnavailable
	}

	err := a.speech.Read(text)
	switch errors.Cause(err) {
	case nil:
		return nil
	case speech.ErrNoText:
		a.notifier.Alert(AlertNoText)
	case speech.ErrUnavailable:
		a.notifier.Alert(AlertSpeechUnsupported)
	default:
		log.Error.Printf("read aloud: %v", err)
		a.notifier.Alert(AlertSpeechFailed)
	}
	return err
}

// SetFontSize sets the size of the text field, clamped to the configured
// range, and returns the readout label.
func (a *App) SetFontSize(n int) (int, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fontSize = a.clampFont(n)
	return a.fontSize, fontLabel(a.fontSize)
}

func (a *App) FontRange() FontRange { return a.fonts }

func (a *App) clampFont(n int) int {
	if n < a.fonts.Min {
		return a.fonts.Min
	}
	if n > a.fonts.Max {
		return a.fonts.Max
	}
	return n
}

func fontLabel(n int) string {
	return fmt.Sprintf("%d px", n)
}

// Voices lists the platform voices and the one used for reading.
func (a *App) Voices() ([]speech.Voice, *speech.Voice, error) {
	if !a.speechAvailable() {
		return nil, nil, speech.ErrUnavailable
	}
	voices, err := a.speech.Voices()
	if err != nil {
		return nil, nil, err
	}
	return voices, a.speech.Voice(), nil
}

// WritePNG encodes the drawing surface.
func (a *App) WritePNG(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.surface.EncodePNG(w)
}

// Strokes returns the recorded ink, nil when no ink engine is configured.
func (a *App) Strokes() []ink.Stroke {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ink == nil {
		return nil
	}
	return a.ink.Strokes()
}
