package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/juruen/scrivi/app"
	"github.com/juruen/scrivi/canvas"
	"github.com/juruen/scrivi/config"
	"github.com/juruen/scrivi/input"
	"github.com/juruen/scrivi/log"
	"github.com/juruen/scrivi/recognize"
	"github.com/juruen/scrivi/speech"
	"github.com/juruen/scrivi/version"
	"github.com/pkg/errors"
)

// alertQueue collects the alerts raised while serving requests; they are
// handed to the client with the next response.
type alertQueue struct {
	mu   sync.Mutex
	msgs []string
}

func (q *alertQueue) Alert(msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, msg)
}

func (q *alertQueue) drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	msgs := q.msgs
	q.msgs = nil
	return msgs
}

type ApiServer struct {
	app    *app.App
	alerts *alertQueue
}

type ErrorResponse struct {
	Error  string   `json:"error"`
	Alerts []string `json:"alerts,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Alerts  []string    `json:"alerts,omitempty"`
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type voiceJSON struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Gender   string `json:"gender,omitempty"`
}

func NewApiServer(cfg config.Config) (*ApiServer, error) {
	alerts := &alertQueue{}
	a, err := newApp(cfg, alerts)
	if err != nil {
		return nil, err
	}
	return &ApiServer{app: a, alerts: alerts}, nil
}

func (s *ApiServer) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error(), Alerts: s.alerts.drain()})
}

func (s *ApiServer) writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Data: data, Alerts: s.alerts.drain()})
}

// POST /api/layout
func (s *ApiServer) handleLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Left   float64 `json:"left"`
		Top    float64 `json:"top"`
		Width  int     `json:"width"`
		Height int     `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.app.Layout(req.Left, req.Top, req.Width, req.Height); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeSuccess(w, s.app.Snapshot())
}

var pointerEvents = map[string]struct {
	kind   input.Kind
	device input.Device
}{
	"mousedown":   {input.Down, input.Mouse},
	"mousemove":   {input.Move, input.Mouse},
	"mouseup":     {input.Up, input.Mouse},
	"touchstart":  {input.Down, input.Touch},
	"touchmove":   {input.Move, input.Touch},
	"touchend":    {input.Up, input.Touch},
	"touchcancel": {input.Cancel, input.Touch},
}

// POST /api/pointer
func (s *ApiServer) handlePointer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Type    string      `json:"type"`
		X       float64     `json:"x"`
		Y       float64     `json:"y"`
		Touches []pointJSON `json:"touches"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	e, ok := pointerEvents[req.Type]
	if !ok {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown event type %q", req.Type))
		return
	}

	ev := input.Event{Kind: e.kind, Device: e.device, X: req.X, Y: req.Y}
	for _, t := range req.Touches {
		ev.Touches = append(ev.Touches, canvas.Point{X: t.X, Y: t.Y})
	}
	state := s.app.Pointer(ev)

	s.writeSuccess(w, map[string]string{
		"state":  state.String(),
		"status": s.app.Status(),
	})
}

// POST /api/clear
func (s *ApiServer) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.app.ClearDrawing()
	s.writeSuccess(w, map[string]string{"status": s.app.Status()})
}

// GET, POST and DELETE /api/text
func (s *ApiServer) handleText(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		s.app.SetText(req.Text)
	case http.MethodDelete:
		s.app.ClearText()
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeSuccess(w, map[string]string{
		"text":   s.app.Text(),
		"status": s.app.Status(),
	})
}

// POST /api/recognize
func (s *ApiServer) handleRecognize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	err := s.app.Recognize(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, recognize.ErrEngineUnavailable):
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	case errors.Is(err, app.ErrSuperseded):
		s.writeError(w, http.StatusConflict, err)
		return
	default:
		log.Error.Printf("recognize: %v", err)
		s.writeError(w, http.StatusBadGateway, err)
		return
	}

	s.writeSuccess(w, map[string]string{
		"text":   s.app.Text(),
		"status": s.app.Status(),
	})
}

// POST /api/read
func (s *ApiServer) handleRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	err := s.app.ReadAloud()
	switch {
	case err == nil:
	case errors.Is(err, speech.ErrNoText):
		s.writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, speech.ErrUnavailable):
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	default:
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeSuccess(w, map[string]string{"message": "reading"})
}

// POST /api/fontsize
func (s *ApiServer) handleFontSize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Size int `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	size, label := s.app.SetFontSize(req.Size)
	s.writeSuccess(w, map[string]interface{}{
		"size":  size,
		"label": label,
	})
}

// GET /api/status
func (s *ApiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeSuccess(w, s.app.Snapshot())
}

// GET /api/canvas.png
func (s *ApiServer) handleCanvas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := s.app.Snapshot()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Canvas-Size", strconv.Itoa(snap.Width)+"x"+strconv.Itoa(snap.Height))
	if err := s.app.WritePNG(w); err != nil {
		log.Error.Printf("canvas: %v", err)
	}
}

// GET /api/voices
func (s *ApiServer) handleVoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	voices, selected, err := s.app.Voices()
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	list := make([]voiceJSON, len(voices))
	for i, v := range voices {
		list[i] = voiceJSON{Name: v.Name, Language: v.Language, Gender: v.Gender}
	}
	var sel *voiceJSON
	if selected != nil {
		sel = &voiceJSON{Name: selected.Name, Language: selected.Language, Gender: selected.Gender}
	}
	s.writeSuccess(w, map[string]interface{}{
		"voices":   list,
		"selected": sel,
	})
}

// GET /api/version
func (s *ApiServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeSuccess(w, map[string]string{"version": version.Version})
}

func (s *ApiServer) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/layout", s.handleLayout)
	mux.HandleFunc("/api/pointer", s.handlePointer)
	mux.HandleFunc("/api/clear", s.handleClear)
	mux.HandleFunc("/api/text", s.handleText)
	mux.HandleFunc("/api/recognize", s.handleRecognize)
	mux.HandleFunc("/api/read", s.handleRead)
	mux.HandleFunc("/api/fontsize", s.handleFontSize)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/canvas.png", s.handleCanvas)
	mux.HandleFunc("/api/voices", s.handleVoices)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root endpoint with API documentation
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
	<title>scrivi API</title>
</head>
<body>
	<h1>scrivi API</h1>
	<h2>Endpoints:</h2>
	<ul>
		<li>POST /api/layout - Size the drawing surface</li>
		<li>POST /api/pointer - Mouse or touch event</li>
		<li>POST /api/clear - Clear the drawing</li>
		<li>GET /api/text - Get the recognized text</li>
		<li>POST /api/text - Edit the text</li>
		<li>DELETE /api/text - Clear the text</li>
		<li>POST /api/recognize - Recognize the handwriting</li>
		<li>POST /api/read - Read the text aloud</li>
		<li>POST /api/fontsize - Set the text size</li>
		<li>GET /api/status - Get the page state</li>
		<li>GET /api/canvas.png - Download the drawing</li>
		<li>GET /api/voices - List speech voices</li>
		<li>GET /api/version - Get version</li>
	</ul>
</body>
</html>
		`)
	})
	return mux
}

func runServerMode(cfg config.Config, port string) {
	server, err := NewApiServer(cfg)
	if err != nil {
		log.Error.Fatalf("Failed to initialize API server: %v", err)
	}

	log.Info.Printf("Starting HTTP server on port %s", port)
	if err := http.ListenAndServe(":"+port, server.routes()); err != nil {
		log.Error.Fatalf("Server failed: %v", err)
	}
}
