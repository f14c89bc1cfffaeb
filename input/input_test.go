package input

import (
	"testing"

	"github.com/juruen/scrivi/canvas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type segment struct{ from, to canvas.Point }

type recorder struct {
	segments []segment
	begins   []canvas.Point
	ends     int
}

func (r *recorder) Segment(from, to canvas.Point) {
	r.segments = append(r.segments, segment{from, to})
}

func (r *recorder) BeginStroke(p canvas.Point) { r.begins = append(r.begins, p) }
func (r *recorder) EndStroke()                 { r.ends++ }

func mouse(k Kind, x, y float64) Event { return Event{Kind: k, Device: Mouse, X: x, Y: y} }

func touch(k Kind, pts ...canvas.Point) Event {
	return Event{Kind: k, Device: Touch, Touches: pts}
}

func TestMouseStrokeConnectsConsecutivePoints(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec)
	s.SetOffset(100, 50)

	var states []State
	s.OnChange = func(st State) { states = append(states, st) }

	s.Handle(mouse(Down, 110, 60))
	s.Handle(mouse(Move, 120, 60))
	s.Handle(mouse(Move, 120, 80))
	s.Handle(mouse(Move, 105, 90))
	s.Handle(mouse(Up, 0, 0))

	require.Len(t, rec.segments, 3)
	assert.Equal(t, segment{canvas.Point{X: 10, Y: 10}, canvas.Point{X: 20, Y: 10}}, rec.segments[0])
	assert.Equal(t, segment{canvas.Point{X: 20, Y: 10}, canvas.Point{X: 20, Y: 30}}, rec.segments[1])
	assert.Equal(t, segment{canvas.Point{X: 20, Y: 30}, canvas.Point{X: 5, Y: 40}}, rec.segments[2])
	assert.Equal(t, []State{Drawing, Idle}, states)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, []canvas.Point{{X: 10, Y: 10}}, rec.begins)
	assert.Equal(t, 1, rec.ends)
}

func TestMoveWhileIdleIsIgnored(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec)

	assert.False(t, s.Handle(mouse(Move, 5, 5)))
	assert.False(t, s.Handle(mouse(Up, 5, 5)))
	assert.Empty(t, rec.segments)
	assert.Equal(t, 0, rec.ends)
}

func TestTouchUsesFirstContact(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec)
	s.SetOffset(10, 10)

	assert.False(t, s.Handle(touch(Down)), "no contacts")
	assert.Equal(t, Idle, s.State())

	s.Handle(touch(Down, canvas.Point{X: 20, Y: 20}, canvas.Point{X: 500, Y: 500}))
	s.Handle(touch(Move))
	s.Handle(touch(Move, canvas.Point{X: 30, Y: 25}))

	require.Len(t, rec.segments, 1)
	assert.Equal(t, segment{canvas.Point{X: 10, Y: 10}, canvas.Point{X: 20, Y: 15}}, rec.segments[0])
	assert.Equal(t, canvas.Point{X: 20, Y: 15}, s.Last())
}

func TestTouchEndAlwaysReports(t *testing.T) {
	s := NewSession()
	calls := 0
	s.OnChange = func(State) { calls++ }

	assert.True(t, s.Handle(touch(Up)))
	assert.Equal(t, 1, calls)

	s.Handle(touch(Down, canvas.Point{X: 1, Y: 1}))
	assert.True(t, s.Handle(touch(Cancel)))
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, 3, calls)
}

func TestMouseAndTouchShareNormalization(t *testing.T) {
	m := &recorder{}
	sm := NewSession(m)
	sm.SetOffset(7, 3)
	sm.Handle(mouse(Down, 17, 13))
	sm.Handle(mouse(Move, 27, 23))

	tr := &recorder{}
	st := NewSession(tr)
	st.SetOffset(7, 3)
	st.Handle(touch(Down, canvas.Point{X: 17, Y: 13}))
	st.Handle(touch(Move, canvas.Point{X: 27, Y: 23}))

	assert.Equal(t, m.segments, tr.segments)
}

func TestResetEndsStrokeSilently(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec)
	calls := 0
	s.OnChange = func(State) { calls++ }

	s.Handle(mouse(Down, 1, 1))
	s.Reset()

	assert.Equal(t, Idle, s.State())
	assert.Equal(t, 1, rec.ends)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "idle", s.State().String())
}
