// Package ink keeps the strokes of the current drawing for recognizers that
// work on pen trajectories rather than pixels.
package ink

import (
	"sync"
	"time"

	"github.com/juruen/scrivi/canvas"
)

// Point is a sampled pen position with the time elapsed since the stroke began.
type Point struct {
	X, Y float64
	T    time.Duration
}

// Stroke is one pen-down to pen-up motion.
type Stroke struct {
	Points []Point
}

// Recorder collects strokes from an input session.
type Recorder struct {
	mu      sync.Mutex
	strokes []Stroke
	current *Stroke
	started time.Time
	now     func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

func (r *Recorder) BeginStroke(p canvas.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = r.now()
	r.current = &Stroke{Points: []Point{{X: p.X, Y: p.Y}}}
}

func (r *Recorder) Segment(_, to canvas.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}
	r.current.Points = append(r.current.Points, Point{X: to.X, Y: to.Y, T: r.now().Sub(r.started)})
}

func (r *Recorder) EndStroke() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}
	r.strokes = append(r.strokes, *r.current)
	r.current = nil
}

// Strokes returns a copy of the finished strokes plus the one in progress.
func (r *Recorder) Strokes() []Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Stroke, 0, len(r.strokes)+1)
	for _, s := range r.strokes {
		out = append(out, Stroke{Points: append([]Point(nil), s.Points...)})
	}
	if r.current != nil {
		out = append(out, Stroke{Points: append([]Point(nil), r.current.Points...)})
	}
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strokes = nil
	r.current = nil
}
