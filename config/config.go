package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/juruen/scrivi/autocorrect"
	"github.com/juruen/scrivi/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defaultConfigFile = "config.yaml"
	appName           = "scrivi"

	EnvConfig       = "SCRIVI_CONFIG"
	EnvOCREngine    = "SCRIVI_OCR_ENGINE"
	EnvMyScriptKey  = "SCRIVI_MYSCRIPT_APPLICATIONKEY"
	EnvMyScriptHMAC = "SCRIVI_MYSCRIPT_HMAC"
)

type Canvas struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	LineWidth  float64 `yaml:"line_width"`
	Color      string  `yaml:"color"`
	Background string  `yaml:"background"`
}

type OCR struct {
	// Engine is one of tesseract, myscript or none.
	Engine      string  `yaml:"engine"`
	Language    string  `yaml:"language"`
	Scale       float64 `yaml:"scale"`
	PageSegMode int     `yaml:"psm"`
}

type MyScript struct {
	ApplicationKey    string  `yaml:"application_key"`
	HMACKey           string  `yaml:"hmac_key"`
	Language          string  `yaml:"language"`
	ContentType       string  `yaml:"content_type"`
	URL               string  `yaml:"url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type Speech struct {
	Command        string  `yaml:"command"`
	Language       string  `yaml:"language"`
	LanguagePrefix string  `yaml:"language_prefix"`
	GenderPattern  string  `yaml:"gender_pattern"`
	Rate           float64 `yaml:"rate"`
	Pitch          float64 `yaml:"pitch"`
}

type FontSize struct {
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
	Default int `yaml:"default"`
}

type Config struct {
	Canvas   Canvas   `yaml:"canvas"`
	OCR      OCR      `yaml:"ocr"`
	MyScript MyScript `yaml:"myscript"`
	Speech   Speech   `yaml:"speech"`
	FontSize FontSize `yaml:"font_size"`
	// Corrections keeps the file order: misspelled word -> replacement.
	Corrections yaml.MapSlice `yaml:"corrections"`
}

func Default() Config {
	c := Config{
		Canvas:   Canvas{Width: 800, Height: 400, LineWidth: 3, Color: "#000000", Background: "#ffffff"},
		OCR:      OCR{Engine: "tesseract", Language: "ita", Scale: 1},
		MyScript: MyScript{Language: "it_IT", ContentType: "Text"},
		Speech: Speech{
			Command:        "espeak-ng",
			Language:       "it-IT",
			LanguagePrefix: "it",
			GenderPattern:  "female|femminile|woman",
			Rate:           1,
			Pitch:          1,
		},
		FontSize: FontSize{Min: 12, Max: 48, Default: 20},
	}
	for _, cr := range autocorrect.DefaultCorrections {
		c.Corrections = append(c.Corrections, yaml.MapItem{Key: cr.Wrong, Value: cr.Right})
	}
	return c
}

// Path returns the config file location: $SCRIVI_CONFIG, or config.yaml in
// the user config dir.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, defaultConfigFile), nil
}

// Load reads the config at path over the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Trace.Printf("config %s not found, using defaults", path)
	case err != nil:
		return cfg, errors.Wrap(err, "read config")
	default:
		parsed := Config{}
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
		cfg.merge(parsed)
		log.Trace.Printf("config loaded: %s", path)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) merge(o Config) {
	if o.Canvas.Width > 0 {
		c.Canvas.Width = o.Canvas.Width
	}
	if o.Canvas.Height > 0 {
		c.Canvas.Height = o.Canvas.Height
	}
	if o.Canvas.LineWidth > 0 {
		c.Canvas.LineWidth = o.Canvas.LineWidth
	}
	setString(&c.Canvas.Color, o.Canvas.Color)
	setString(&c.Canvas.Background, o.Canvas.Background)

	setString(&c.OCR.Engine, o.OCR.Engine)
	setString(&c.OCR.Language, o.OCR.Language)
	if o.OCR.Scale > 0 {
		c.OCR.Scale = o.OCR.Scale
	}
	if o.OCR.PageSegMode > 0 {
		c.OCR.PageSegMode = o.OCR.PageSegMode
	}

	setString(&c.MyScript.ApplicationKey, o.MyScript.ApplicationKey)
	setString(&c.MyScript.HMACKey, o.MyScript.HMACKey)
	setString(&c.MyScript.Language, o.MyScript.Language)
	setString(&c.MyScript.ContentType, o.MyScript.ContentType)
	setString(&c.MyScript.URL, o.MyScript.URL)
	if o.MyScript.RequestsPerSecond > 0 {
		c.MyScript.RequestsPerSecond = o.MyScript.RequestsPerSecond
	}

	setString(&c.Speech.Command, o.Speech.Command)
	setString(&c.Speech.Language, o.Speech.Language)
	setString(&c.Speech.LanguagePrefix, o.Speech.LanguagePrefix)
	setString(&c.Speech.GenderPattern, o.Speech.GenderPattern)
	if o.Speech.Rate > 0 {
		c.Speech.Rate = o.Speech.Rate
	}
	if o.Speech.Pitch > 0 {
		c.Speech.Pitch = o.Speech.Pitch
	}

	if o.FontSize.Min > 0 {
		c.FontSize.Min = o.FontSize.Min
	}
	if o.FontSize.Max > 0 {
		c.FontSize.Max = o.FontSize.Max
	}
	if o.FontSize.Default > 0 {
		c.FontSize.Default = o.FontSize.Default
	}

	if o.Corrections != nil {
		c.Corrections = o.Corrections
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) applyEnv() {
	setString(&c.OCR.Engine, os.Getenv(EnvOCREngine))
	setString(&c.MyScript.ApplicationKey, os.Getenv(EnvMyScriptKey))
	setString(&c.MyScript.HMACKey, os.Getenv(EnvMyScriptHMAC))
}

// Validate checks values that cannot be fixed up with defaults.
func (c Config) Validate() error {
	switch c.OCR.Engine {
	case "tesseract", "myscript", "none":
	default:
		return fmt.Errorf("unknown ocr engine %q", c.OCR.Engine)
	}
	if c.FontSize.Min > c.FontSize.Max {
		return fmt.Errorf("font size min %d above max %d", c.FontSize.Min, c.FontSize.Max)
	}
	_, err := c.CorrectionTable()
	return err
}

// CorrectionTable builds the autocorrect table in file order.
func (c Config) CorrectionTable() (*autocorrect.Table, error) {
	corrections := make([]autocorrect.Correction, 0, len(c.Corrections))
	for _, item := range c.Corrections {
		wrong, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("correction key %v is not a string", item.Key)
		}
		right, ok := item.Value.(string)
		if !ok {
			return nil, fmt.Errorf("correction for %q is not a string", wrong)
		}
		corrections = append(corrections, autocorrect.Correction{Wrong: wrong, Right: right})
	}
	return autocorrect.NewTable(corrections)
}
