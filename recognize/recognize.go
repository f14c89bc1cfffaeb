// Package recognize submits the drawing surface to an OCR engine and
// post-processes the text it returns.
package recognize

import (
	"context"
	"image"

	"github.com/google/uuid"
	"github.com/juruen/scrivi/autocorrect"
	"github.com/juruen/scrivi/canvas"
	"github.com/juruen/scrivi/ink"
	"github.com/juruen/scrivi/log"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

var ErrEngineUnavailable = errors.New("ocr engine not available")

// Progress is reported by engines while a request runs.
type Progress struct {
	Status   string
	Progress float64
}

type ProgressFunc func(Progress)

// Input is a single recognition request.
type Input struct {
	ID       string
	DataURL  string
	Width    int
	Height   int
	Language string
	Strokes  []ink.Stroke
	Progress ProgressFunc
}

// Image returns the PNG bytes of the request.
func (in Input) Image() ([]byte, error) {
	return canvas.DecodeDataURL(in.DataURL)
}

// Report publishes progress if the caller asked for it.
func (in Input) Report(status string, p float64) {
	if in.Progress != nil {
		in.Progress(Progress{Status: status, Progress: p})
	}
}

type Result struct {
	Text string
}

// Engine recognizes the text of one request.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}

// InkEngine is implemented by engines that read pen strokes.
type InkEngine interface {
	Engine
	NeedsInk() bool
}

// NeedsInk reports whether e wants strokes recorded.
func NeedsInk(e Engine) bool {
	ie, ok := e.(InkEngine)
	return ok && ie.NeedsInk()
}

type Options struct {
	Language string
	// Scale resizes the exported image before submission; 0 or 1 keeps it.
	Scale float64
	Table *autocorrect.Table
}

// Bridge owns the engine and the text post-processing.
type Bridge struct {
	engine Engine
	opts   Options
	sem    *semaphore.Weighted
}

func NewBridge(engine Engine, opts Options) *Bridge {
	if opts.Table == nil {
		opts.Table = autocorrect.Default()
	}
	return &Bridge{engine: engine, opts: opts, sem: semaphore.NewWeighted(1)}
}

func (b *Bridge) Available() bool { return b != nil && b.engine != nil }

func (b *Bridge) Engine() Engine { return b.engine }

// Recognize exports img, runs the engine and returns the corrected text.
// Calls are serialized: a second call waits until the engine is free or ctx
// is done.
func (b *Bridge) Recognize(ctx context.Context, img image.Image, strokes []ink.Stroke) (string, error) {
	if !b.Available() {
		return "", ErrEngineUnavailable
	}

	if b.opts.Scale > 0 && b.opts.Scale != 1 {
		w := uint(float64(img.Bounds().Dx()) * b.opts.Scale)
		img = resize.Resize(w, 0, img, resize.Lanczos3)
	}

	url, err := canvas.EncodeDataURL(img)
	if err != nil {
		return "", err
	}

	in := Input{
		ID:       uuid.New().String(),
		DataURL:  url,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		Language: b.opts.Language,
		Strokes:  strokes,
	}
	in.Progress = func(p Progress) {
		log.Trace.Printf("ocr %s [%s]: %s %.0f%%", b.engine.Name(), in.ID, p.Status, p.Progress*100)
	}

	if err := b.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer b.sem.Release(1)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	log.Trace.Printf("ocr %s [%s]: submitting %dx%d image, lang %s", b.engine.Name(), in.ID, in.Width, in.Height, in.Language)
	res, err := b.engine.Recognize(ctx, in)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errors.Wrapf(err, "%s recognition failed", b.engine.Name())
	}
	return b.opts.Table.Process(res.Text), nil
}
