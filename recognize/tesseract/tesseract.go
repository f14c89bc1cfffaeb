// Package tesseract recognizes drawings with the Tesseract OCR library.
package tesseract

import (
	"context"
	"strconv"

	"github.com/juruen/scrivi/recognize"
	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"
)

type client interface {
	SetImageFromBytes(data []byte) error
	SetLanguage(langs ...string) error
	SetPageSegMode(mode gosseract.PageSegMode) error
	Text() (string, error)
	Close() error
}

// Engine implements recognize.Engine on top of a gosseract client.
type Engine struct {
	// PageSegMode is passed to Tesseract when non-zero.
	PageSegMode int

	clientFactory func() client
}

func New() *Engine {
	return &Engine{clientFactory: func() client { return gosseract.NewClient() }}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs one OCR pass over the request image. A fresh client is
// used per request; gosseract clients are not safe for concurrent use.
func (e *Engine) Recognize(ctx context.Context, in recognize.Input) (recognize.Result, error) {
	in.Report("loading image", 0)
	data, err := in.Image()
	if err != nil {
		return recognize.Result{}, err
	}

	c := e.clientFactory()
	defer c.Close()

	if in.Language != "" {
		if err := c.SetLanguage(in.Language); err != nil {
			return recognize.Result{}, errors.Wrap(err, "set language")
		}
	}
	if e.PageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(e.PageSegMode)); err != nil {
			return recognize.Result{}, errors.Wrap(err, "set page segmentation mode "+strconv.Itoa(e.PageSegMode))
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return recognize.Result{}, errors.Wrap(err, "set image")
	}

	select {
	case <-ctx.Done():
		return recognize.Result{}, ctx.Err()
	default:
	}

	in.Report("recognizing text", 0.5)
	text, err := c.Text()
	if err != nil {
		return recognize.Result{}, errors.Wrap(err, "recognize text")
	}
	in.Report("done", 1)
	return recognize.Result{Text: text}, nil
}
