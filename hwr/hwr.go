// Package hwr recognizes handwriting from pen strokes with the MyScript
// iink batch API.
package hwr

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/juruen/scrivi/ink"
	"github.com/juruen/scrivi/log"
	"github.com/juruen/scrivi/recognize"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var ErrNoContent = errors.New("no strokes to recognize")

const (
	// screen resolution assumed for pointer coordinates
	defaultDPI = 96
	// the API rejects bodies above 4MB
	maxPayload = 4000000
)

// Config holds the MyScript credentials and request options.
type Config struct {
	ApplicationKey string
	HMACKey        string
	Language       string
	ContentType    string
	URL            string
	// RequestsPerSecond limits calls to the API; 0 means no limit.
	RequestsPerSecond float64
}

// Engine implements recognize.InkEngine.
type Engine struct {
	Config
	client  *http.Client
	limiter *rate.Limiter
}

func New(cfg Config) (*Engine, error) {
	if cfg.ApplicationKey == "" {
		return nil, errors.New("myscript application key is required")
	}
	if cfg.HMACKey == "" {
		return nil, errors.New("myscript hmac key is required")
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Engine{
		Config:  cfg,
		client:  newHTTPClient(defaultRetryMax),
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

func (e *Engine) Name() string   { return "myscript" }
func (e *Engine) NeedsInk() bool { return true }

func (e *Engine) Recognize(ctx context.Context, in recognize.Input) (recognize.Result, error) {
	contentType, mimeType := setContentType(e.ContentType)
	lang := e.Language
	if lang == "" {
		lang = in.Language
	}

	body, err := buildRequest(in, contentType, lang)
	if err != nil {
		return recognize.Result{}, err
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return recognize.Result{}, err
	}

	in.Report("sending strokes", 0.25)
	res, err := e.sendRequest(ctx, body, mimeType)
	if err != nil {
		return recognize.Result{}, err
	}
	in.Report("done", 1)

	log.Trace.Printf("hwr [%s]: received %d bytes", in.ID, len(res))
	return recognize.Result{Text: extractTextFromResponse(res)}, nil
}

// buildRequest converts the recorded strokes to a batch request body.
func buildRequest(in recognize.Input, contentType, lang string) ([]byte, error) {
	group := &StrokeGroup{}
	batch := BatchInput{
		Configuration: &Configuration{Lang: lang},
		ContentType:   contentType,
		StrokeGroups:  []*StrokeGroup{group},
		Width:         int32(in.Width),
		Height:        int32(in.Height),
		XDPI:          defaultDPI,
		YDPI:          defaultDPI,
	}

	totalPoints := 0
	for _, s := range in.Strokes {
		if len(s.Points) == 0 {
			continue
		}
		points := downsamplePoints(s.Points)
		stroke := &Stroke{
			X:           make([]float32, 0, len(points)),
			Y:           make([]float32, 0, len(points)),
			PointerType: "PEN",
		}
		// timestamps are optional and expensive on long strokes
		withTime := len(points) < 100
		for _, p := range points {
			stroke.X = append(stroke.X, roundFloat32(float32(p.X), 1))
			stroke.Y = append(stroke.Y, roundFloat32(float32(p.Y), 1))
			if withTime {
				stroke.T = append(stroke.T, p.T.Milliseconds())
			}
		}
		group.Strokes = append(group.Strokes, stroke)
		totalPoints += len(points)
	}

	if len(group.Strokes) == 0 {
		return nil, ErrNoContent
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}
	log.Trace.Printf("hwr [%s]: %d strokes, %d points, %d bytes", in.ID, len(group.Strokes), totalPoints, len(data))
	if len(data) > maxPayload {
		log.Warning.Printf("hwr [%s]: payload exceeds the 4MB API limit", in.ID)
	}
	return data, nil
}

// downsamplePoints keeps every Nth point of long strokes, always keeping
// the first and the last one.
func downsamplePoints(points []ink.Point) []ink.Point {
	if len(points) <= 2 {
		return points
	}

	sampleRate := 1
	switch {
	case len(points) > 2000:
		sampleRate = 6
	case len(points) > 1000:
		sampleRate = 4
	case len(points) > 500:
		sampleRate = 3
	case len(points) > 200:
		sampleRate = 2
	}

	result := make([]ink.Point, 0, len(points)/sampleRate+2)
	result = append(result, points[0])
	for i := sampleRate; i < len(points)-1; i += sampleRate {
		result = append(result, points[i])
	}
	last := points[len(points)-1]
	if last.X != points[0].X || last.Y != points[0].Y {
		result = append(result, last)
	}
	return result
}

func roundFloat32(val float32, decimals int) float32 {
	multiplier := float32(1)
	for i := 0; i < decimals; i++ {
		multiplier *= 10
	}
	return float32(int(val*multiplier+0.5)) / multiplier
}

// setContentType maps the configured type to a MyScript content type and
// the MIME type to ask for.
func setContentType(requested string) (contentType string, mimeType string) {
	switch strings.ToLower(requested) {
	case "math":
		return "Math", "application/x-latex"
	case "diagram":
		return "Diagram", "image/svg+xml"
	default:
		return "Text", "text/plain"
	}
}

// extractTextFromResponse returns the text of a Jiix document, or the body
// itself when it is plain text.
func extractTextFromResponse(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return string(data)
	}

	var doc jiix
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Trace.Printf("hwr: response is not jiix: %v", err)
		return string(data)
	}

	switch {
	case doc.Text != "":
		return doc.Text
	case doc.Label != "":
		return doc.Label
	}

	if words := joinLabels(doc.Words, " "); words != "" {
		return words
	}
	if chars := joinLabels(doc.Chars, ""); chars != "" {
		return chars
	}
	return string(data)
}

func joinLabels(labels []jiixLabel, sep string) string {
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if v := l.value(); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
