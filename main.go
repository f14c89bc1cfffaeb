package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/juruen/scrivi/app"
	"github.com/juruen/scrivi/canvas"
	"github.com/juruen/scrivi/config"
	"github.com/juruen/scrivi/engine"
	"github.com/juruen/scrivi/log"
	"github.com/juruen/scrivi/shell"
	"github.com/juruen/scrivi/version"
)

func newApp(cfg config.Config, notifier app.Notifier) (*app.App, error) {
	rec, err := engine.Recognizer(cfg)
	if err != nil {
		return nil, err
	}
	sp, err := engine.Speech(cfg)
	if err != nil {
		return nil, err
	}

	return app.New(app.Options{
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
		Style: canvas.Style{
			LineWidth:  cfg.Canvas.LineWidth,
			Color:      cfg.Canvas.Color,
			Background: cfg.Canvas.Background,
		},
		FontSize: app.FontRange{
			Min:     cfg.FontSize.Min,
			Max:     cfg.FontSize.Max,
			Default: cfg.FontSize.Default,
		},
		Recognizer: rec,
		Speech:     sp,
		Notifier:   notifier,
	})
}

func loadConfig(path string) config.Config {
	if path == "" {
		p, err := config.Path()
		if err != nil {
			log.Error.Fatalf("cannot locate config: %v", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Error.Fatalf("invalid config: %v", err)
	}
	return cfg
}

func main() {
	serverMode := flag.Bool("s", false, "run as HTTP server")
	port := flag.String("port", "8080", "port for HTTP server mode")
	configPath := flag.String("c", "", "config file (default: $SCRIVI_CONFIG or the user config dir)")
	jsonOutput := flag.Bool("json", false, "print shell output as json")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Version)
		return
	}

	log.InitLog()
	cfg := loadConfig(*configPath)

	if *serverMode {
		runServerMode(cfg, *port)
		return
	}

	a, err := newApp(cfg, shell.Notifier{Out: os.Stderr})
	if err != nil {
		log.Error.Fatalf("%v", err)
	}

	if err := shell.RunShell(a, flag.Args(), *jsonOutput); err != nil {
		log.Error.Println("Error: ", err)
		os.Exit(1)
	}
}
