package app

import (
	"bytes"
	"context"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/juruen/scrivi/input"
	"github.com/juruen/scrivi/recognize"
	"github.com/juruen/scrivi/speech"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu     sync.Mutex
	calls  int
	inputs []recognize.Input
	fn     func(ctx context.Context, call int) (recognize.Result, error)
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(ctx context.Context, in recognize.Input) (recognize.Result, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	return f.fn(ctx, call)
}

type inkEngine struct {
	fakeEngine
}

func (e *inkEngine) NeedsInk() bool { return true }

type fakeSynth struct {
	mu     sync.Mutex
	spoken []speech.Utterance
	err    error
}

func (f *fakeSynth) Voices() ([]speech.Voice, error) {
	return []speech.Voice{{Name: "Federica", Language: "it-IT", Gender: "female"}}, nil
}

func (f *fakeSynth) Speak(u speech.Utterance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.spoken = append(f.spoken, u)
	return nil
}

func (f *fakeSynth) Cancel() error { return nil }

type alerts struct {
	mu   sync.Mutex
	msgs []string
}

func (a *alerts) Alert(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, msg)
}

func (a *alerts) list() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.msgs...)
}

func textEngine(text string) *fakeEngine {
	return &fakeEngine{fn: func(context.Context, int) (recognize.Result, error) {
		return recognize.Result{Text: text}, nil
	}}
}

func newApp(t *testing.T, engine recognize.Engine, synth speech.Synthesizer) (*App, *alerts) {
	t.Helper()
	var rec *recognize.Bridge
	if engine != nil {
		rec = recognize.NewBridge(engine, recognize.Options{Language: "ita"})
	}
	sp, err := speech.NewBridge(synth, speech.DefaultProfile())
	require.NoError(t, err)

	n := &alerts{}
	a, err := New(Options{Width: 200, Height: 100, Recognizer: rec, Speech: sp, Notifier: n})
	require.NoError(t, err)
	return a, n
}

func draw(a *App) {
	a.Pointer(input.Event{Kind: input.Down, Device: input.Mouse, X: 10, Y: 10})
	a.Pointer(input.Event{Kind: input.Move, Device: input.Mouse, X: 80, Y: 50})
	a.Pointer(input.Event{Kind: input.Up, Device: input.Mouse, X: 80, Y: 50})
}

func TestNewAlertsWithoutSpeech(t *testing.T) {
	a, n := newApp(t, nil, nil)
	assert.Equal(t, []string{AlertSpeechUnsupported}, n.list())
	assert.Equal(t, StatusReady, a.Status())

	_, n = newApp(t, nil, &fakeSynth{})
	assert.Empty(t, n.list())
}

func TestPointerUpdatesStatus(t *testing.T) {
	a, _ := newApp(t, nil, &fakeSynth{})

	state := a.Pointer(input.Event{Kind: input.Down, Device: input.Mouse, X: 10, Y: 10})
	assert.Equal(t, input.Drawing, state)
	assert.Equal(t, StatusDrawing, a.Status())

	a.Pointer(input.Event{Kind: input.Move, Device: input.Mouse, X: 50, Y: 50})
	assert.False(t, a.Snapshot().Blank)

	state = a.Pointer(input.Event{Kind: input.Up, Device: input.Mouse})
	assert.Equal(t, input.Idle, state)
	assert.Equal(t, StatusReady, a.Status())
}

func TestLayoutResetsSurface(t *testing.T) {
	a, _ := newApp(t, nil, &fakeSynth{})
	draw(a)
	require.False(t, a.Snapshot().Blank)

	require.NoError(t, a.Layout(0, 0, 200, 100))
	s := a.Snapshot()
	assert.True(t, s.Blank)
	assert.Equal(t, 200, s.Width)

	require.NoError(t, a.Layout(20, 30, 320, 240))
	s = a.Snapshot()
	assert.Equal(t, 320, s.Width)
	assert.Equal(t, 240, s.Height)
	assert.Equal(t, StatusReady, s.Status)

	// pointer coordinates are now relative to the new offset
	a.Pointer(input.Event{Kind: input.Down, Device: input.Mouse, X: 20, Y: 40})
	a.Pointer(input.Event{Kind: input.Move, Device: input.Mouse, X: 60, Y: 40})

	var buf bytes.Buffer
	require.NoError(t, a.WritePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	r, _, _, _ := img.At(20, 10).RGBA()
	assert.Less(t, r, uint32(0x8000))

	assert.Error(t, a.Layout(0, 0, 0, 10))
}

func TestClearDrawingKeepsText(t *testing.T) {
	a, _ := newApp(t, nil, &fakeSynth{})
	a.SetText("ciao")
	draw(a)

	a.ClearDrawing()
	assert.True(t, a.Snapshot().Blank)
	assert.Equal(t, "ciao", a.Text())
	assert.Equal(t, StatusReady, a.Status())

	a.ClearText()
	assert.Empty(t, a.Text())
	assert.Equal(t, StatusTextCleared, a.Status())
}

func TestRecognizeReplacesText(t *testing.T) {
	engine := textEngine("0ui  pero\r")
	a, n := newApp(t, engine, &fakeSynth{})
	draw(a)
	a.SetText("vecchio")

	require.NoError(t, a.Recognize(context.Background()))
	assert.Equal(t, "Qui però", a.Text())
	assert.Equal(t, StatusRecognized, a.Status())
	assert.Empty(t, n.list())

	require.Len(t, engine.inputs, 1)
	in := engine.inputs[0]
	assert.Equal(t, "ita", in.Language)
	assert.Equal(t, 200, in.Width)
	assert.Nil(t, in.Strokes)
	assert.Equal(t, "fake", a.Snapshot().Engine)
}

func TestRecognizeFailureKeepsText(t *testing.T) {
	engine := &fakeEngine{fn: func(context.Context, int) (recognize.Result, error) {
		return recognize.Result{}, errors.New("boom")
	}}
	a, n := newApp(t, engine, &fakeSynth{})
	a.SetText("vecchio")

	assert.Error(t, a.Recognize(context.Background()))
	assert.Equal(t, "vecchio", a.Text())
	assert.Equal(t, StatusFailed, a.Status())
	assert.Equal(t, []string{AlertRecognizeFailed}, n.list())
}

func TestRecognizeFailureAfterCallerReturns(t *testing.T) {
	engine := &fakeEngine{fn: func(context.Context, int) (recognize.Result, error) {
		return recognize.Result{}, errors.New("tesseract crashed")
	}}
	a, n := newApp(t, engine, &fakeSynth{})
	draw(a)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	err := a.Recognize(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract crashed")
	assert.NoError(t, ctx.Err())
	assert.Equal(t, StatusFailed, a.Status())
	assert.Equal(t, []string{AlertRecognizeFailed}, n.list())

	// a later success clears the failure
	engine.fn = func(context.Context, int) (recognize.Result, error) {
		return recognize.Result{Text: "ciao"}, nil
	}
	require.NoError(t, a.Recognize(ctx))
	assert.Equal(t, StatusRecognized, a.Status())
	assert.Len(t, n.list(), 1)
}

func TestRecognizeWithoutEngine(t *testing.T) {
	a, n := newApp(t, nil, &fakeSynth{})
	a.SetText("vecchio")

	err := a.Recognize(context.Background())
	assert.Equal(t, recognize.ErrEngineUnavailable, err)
	assert.Equal(t, "vecchio", a.Text())
	assert.Equal(t, StatusReady, a.Status())
	assert.Equal(t, []string{AlertOCRMissing}, n.list())
}

func TestRecognizeSupersededNeverOverwrites(t *testing.T) {
	started := make(chan struct{})
	engine := &fakeEngine{fn: func(ctx context.Context, call int) (recognize.Result, error) {
		if call == 1 {
			close(started)
			<-ctx.Done()
			return recognize.Result{Text: "prima"}, ctx.Err()
		}
		return recognize.Result{Text: "seconda"}, nil
	}}
	a, n := newApp(t, engine, &fakeSynth{})

	first := make(chan error, 1)
	go func() { first <- a.Recognize(context.Background()) }()
	<-started

	require.NoError(t, a.Recognize(context.Background()))
	assert.Equal(t, ErrSuperseded, <-first)

	assert.Equal(t, "Seconda", a.Text())
	assert.Equal(t, StatusRecognized, a.Status())
	assert.Empty(t, n.list())
}

func TestRecognizeCallerCancelled(t *testing.T) {
	engine := &fakeEngine{fn: func(ctx context.Context, _ int) (recognize.Result, error) {
		<-ctx.Done()
		return recognize.Result{}, ctx.Err()
	}}
	a, n := newApp(t, engine, &fakeSynth{})
	a.SetText("vecchio")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, a.Recognize(ctx))
	assert.Equal(t, "vecchio", a.Text())
	assert.Equal(t, StatusReady, a.Status())
	assert.Empty(t, n.list())
}

func TestRecognizeSendsInk(t *testing.T) {
	engine := &inkEngine{fakeEngine: fakeEngine{fn: func(context.Context, int) (recognize.Result, error) {
		return recognize.Result{Text: "ciao"}, nil
	}}}
	a, _ := newApp(t, engine, &fakeSynth{})
	draw(a)
	require.Len(t, a.Strokes(), 1)

	require.NoError(t, a.Recognize(context.Background()))
	require.Len(t, engine.inputs, 1)
	require.Len(t, engine.inputs[0].Strokes, 1)
	assert.Len(t, engine.inputs[0].Strokes[0].Points, 2)

	a.ClearDrawing()
	assert.Empty(t, a.Strokes())
}

func TestReadAloud(t *testing.T) {
	synth := &fakeSynth{}
	a, n := newApp(t, nil, synth)

	for _, text := range []string{"", "  \n "} {
		a.SetText(text)
		assert.Equal(t, speech.ErrNoText, a.ReadAloud())
	}
	assert.Empty(t, synth.spoken)
	assert.Equal(t, []string{AlertNoText, AlertNoText}, n.list())

	a.SetText(" Ciao ")
	require.NoError(t, a.ReadAloud())
	require.Len(t, synth.spoken, 1)
	assert.Equal(t, "Ciao", synth.spoken[0].Text)
	require.NotNil(t, synth.spoken[0].Voice)
	assert.Equal(t, "Federica", synth.spoken[0].Voice.Name)
	assert.Equal(t, "Federica", a.Snapshot().Voice)
}

func TestReadAloudWithoutSpeech(t *testing.T) {
	a, n := newApp(t, nil, nil)
	a.SetText("ciao")
	assert.Equal(t, speech.ErrUnavailable, a.ReadAloud())
	assert.Equal(t, []string{AlertSpeechUnsupported, AlertSpeechUnsupported}, n.list())

	_, _, err := a.Voices()
	assert.Equal(t, speech.ErrUnavailable, err)
}

func TestReadAloudSynthesizerFailure(t *testing.T) {
	synth := &fakeSynth{err: errors.New("espeak: exec: not found")}
	a, n := newApp(t, nil, synth)
	a.SetText("ciao")

	err := a.ReadAloud()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, synth.spoken)
	assert.Equal(t, []string{AlertSpeechFailed}, n.list())
}

func TestSetFontSize(t *testing.T) {
	a, _ := newApp(t, nil, &fakeSynth{})
	assert.Equal(t, "20 px", a.Snapshot().FontLabel)

	n, label := a.SetFontSize(30)
	assert.Equal(t, 30, n)
	assert.Equal(t, "30 px", label)

	_, label = a.SetFontSize(100)
	assert.Equal(t, "48 px", label)
	_, label = a.SetFontSize(1)
	assert.Equal(t, "12 px", label)
}

func TestVoices(t *testing.T) {
	a, _ := newApp(t, nil, &fakeSynth{})
	voices, selected, err := a.Voices()
	require.NoError(t, err)
	assert.Len(t, voices, 1)
	require.NotNil(t, selected)
	assert.Equal(t, "Federica", selected.Name)
}
