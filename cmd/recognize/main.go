package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/juruen/scrivi/config"
	"github.com/juruen/scrivi/engine"
	"github.com/juruen/scrivi/recognize"
)

func main() {
	inputName := flag.String("i", "", "image to recognize (png or jpeg)")
	configPath := flag.String("c", "", "config file")
	engineName := flag.String("e", "", "ocr engine, overrides the config: tesseract")
	lang := flag.String("l", "", "language, overrides the config")
	timeout := flag.Duration("t", time.Minute, "timeout")
	flag.Parse()

	if err := run(*inputName, *configPath, *engineName, *lang, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(inputName, configPath, engineName, lang string, timeout time.Duration) error {
	if inputName == "" {
		return errors.New("missing input file")
	}

	if configPath == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if engineName != "" {
		cfg.OCR.Engine = engineName
	}
	if lang != "" {
		cfg.OCR.Language = lang
	}

	bridge, err := engine.Recognizer(cfg)
	if err != nil {
		return err
	}
	if !bridge.Available() {
		return fmt.Errorf("no ocr engine configured (%s)", cfg.OCR.Engine)
	}
	if recognize.NeedsInk(bridge.Engine()) {
		return fmt.Errorf("engine %s needs pen strokes, not an image", bridge.Engine().Name())
	}

	file, err := os.Open(inputName)
	if err != nil {
		return fmt.Errorf("can't open file %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("can't decode image %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	text, err := bridge.Recognize(ctx, img, nil)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
