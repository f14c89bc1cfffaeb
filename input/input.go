// Package input turns mouse and touch events into stroke segments.
package input

import "github.com/juruen/scrivi/canvas"

type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

type Kind int

const (
	Down Kind = iota
	Move
	Up
	Cancel
)

type Device int

const (
	Mouse Device = iota
	Touch
)

// Event is a pointer event in client (page) coordinates. For touch events
// X and Y are ignored and Touches holds the active contacts.
type Event struct {
	Kind    Kind
	Device  Device
	X, Y    float64
	Touches []canvas.Point
}

// Renderer receives the segments of a stroke.
type Renderer interface {
	Segment(from, to canvas.Point)
}

// StrokeObserver is implemented by renderers that care where strokes start
// and end.
type StrokeObserver interface {
	BeginStroke(p canvas.Point)
	EndStroke()
}

// Session is the pointer state of one drawing surface.
type Session struct {
	state     State
	last      canvas.Point
	offset    canvas.Point
	renderers []Renderer

	// OnChange is called after every Idle/Drawing transition.
	OnChange func(State)
}

func NewSession(renderers ...Renderer) *Session {
	return &Session{renderers: renderers}
}

func (s *Session) State() State        { return s.state }
func (s *Session) Last() canvas.Point { return s.last }

// SetOffset records where the surface sits on screen.
func (s *Session) SetOffset(left, top float64) {
	s.offset = canvas.Point{X: left, Y: top}
}

// Normalize converts client coordinates to surface-local ones.
func (s *Session) Normalize(clientX, clientY float64) canvas.Point {
	return canvas.Point{X: clientX - s.offset.X, Y: clientY - s.offset.Y}
}

// Reset goes back to Idle without notifying.
func (s *Session) Reset() {
	if s.state == Drawing {
		s.endStroke()
	}
	s.state = Idle
}

// Handle applies one event and reports whether the state changed.
func (s *Session) Handle(ev Event) bool {
	switch ev.Kind {
	case Down:
		p, ok := s.position(ev)
		if !ok {
			return false
		}
		if s.state == Drawing {
			s.endStroke()
		}
		s.last = p
		s.beginStroke(p)
		return s.transition(Drawing)

	case Move:
		if s.state != Drawing {
			return false
		}
		p, ok := s.position(ev)
		if !ok {
			return false
		}
		for _, r := range s.renderers {
			r.Segment(s.last, p)
		}
		s.last = p
		return false

	case Up, Cancel:
		if ev.Device == Mouse && s.state != Drawing {
			return false
		}
		if s.state == Drawing {
			s.endStroke()
		}
		if ev.Device == Touch {
			// touchend always reports back, even when nothing was drawn
			s.state = Idle
			s.notify()
			return true
		}
		return s.transition(Idle)
	}
	return false
}

func (s *Session) position(ev Event) (canvas.Point, bool) {
	if ev.Device == Touch {
		if len(ev.Touches) == 0 {
			return canvas.Point{}, false
		}
		t := ev.Touches[0]
		return s.Normalize(t.X, t.Y), true
	}
	return s.Normalize(ev.X, ev.Y), true
}

func (s *Session) transition(to State) bool {
	s.state = to
	s.notify()
	return true
}

func (s *Session) notify() {
	if s.OnChange != nil {
		s.OnChange(s.state)
	}
}

func (s *Session) beginStroke(p canvas.Point) {
	for _, r := range s.renderers {
		if o, ok := r.(StrokeObserver); ok {
			o.BeginStroke(p)
		}
	}
}

func (s *Session) endStroke() {
	for _, r := range s.renderers {
		if o, ok := r.(StrokeObserver); ok {
			o.EndStroke()
		}
	}
}
