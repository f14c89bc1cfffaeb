// Package engine builds the OCR and speech back ends named in the config.
package engine

import (
	"fmt"

	"github.com/juruen/scrivi/config"
	"github.com/juruen/scrivi/hwr"
	"github.com/juruen/scrivi/log"
	"github.com/juruen/scrivi/recognize"
	"github.com/juruen/scrivi/recognize/tesseract"
	"github.com/juruen/scrivi/speech"
	"github.com/juruen/scrivi/speech/espeak"
	"github.com/pkg/errors"
)

// OCR returns the configured engine, nil for "none".
func OCR(cfg config.Config) (recognize.Engine, error) {
	switch cfg.OCR.Engine {
	case "none":
		return nil, nil
	case "tesseract":
		e := tesseract.New()
		e.PageSegMode = cfg.OCR.PageSegMode
		return e, nil
	case "myscript":
		e, err := hwr.New(hwr.Config{
			ApplicationKey:    cfg.MyScript.ApplicationKey,
			HMACKey:           cfg.MyScript.HMACKey,
			Language:          cfg.MyScript.Language,
			ContentType:       cfg.MyScript.ContentType,
			URL:               cfg.MyScript.URL,
			RequestsPerSecond: cfg.MyScript.RequestsPerSecond,
		})
		if err != nil {
			return nil, errors.Wrap(err, "myscript")
		}
		return e, nil
	}
	return nil, fmt.Errorf("unknown ocr engine %q", cfg.OCR.Engine)
}

// Recognizer wires the engine to the autocorrect table of the config.
func Recognizer(cfg config.Config) (*recognize.Bridge, error) {
	e, err := OCR(cfg)
	if err != nil {
		return nil, err
	}
	table, err := cfg.CorrectionTable()
	if err != nil {
		return nil, err
	}
	return recognize.NewBridge(e, recognize.Options{
		Language: cfg.OCR.Language,
		Scale:    cfg.OCR.Scale,
		Table:    table,
	}), nil
}

// Speech returns a bridge to the configured synthesizer. A missing
// synthesizer is not an error; the bridge then reports unavailable.
func Speech(cfg config.Config) (*speech.Bridge, error) {
	var synth speech.Synthesizer
	if s, err := espeak.New(cfg.Speech.Command); err != nil {
		log.Warning.Printf("speech disabled: %v", err)
	} else {
		synth = s
	}
	return speech.NewBridge(synth, Profile(cfg))
}

func Profile(cfg config.Config) speech.Profile {
	return speech.Profile{
		Language:       cfg.Speech.Language,
		LanguagePrefix: cfg.Speech.LanguagePrefix,
		GenderPattern:  cfg.Speech.GenderPattern,
		Rate:           cfg.Speech.Rate,
		Pitch:          cfg.Speech.Pitch,
	}
}
