package engine

import "math"

// ZoomDirection is the sign of a discrete zoom step.
type ZoomDirection int

const (
	ZoomNone ZoomDirection = 0
	ZoomIn   ZoomDirection = 1
	ZoomOut  ZoomDirection = -1
)

func (d ZoomDirection) String() string {
	switch d {
	case ZoomIn:
		return "in"
	case ZoomOut:
		return "out"
	}
	return "none"
}

// TouchPoint is one active touch in page coordinates.
type TouchPoint struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// PinchTracker turns two-finger touch moves into zoom directions. Only the
// change between consecutive samples matters, never the absolute distance.
// It ignores events until Start and after Stop.
type PinchTracker struct {
	running bool
	last    float64
	hasLast bool
}

func (p *PinchTracker) Start() {
	p.running = true
	p.reset()
}

func (p *PinchTracker) Stop() {
	p.running = false
	p.reset()
}

func (p *PinchTracker) Running() bool { return p.running }

// Active reports whether a pinch baseline is being tracked.
func (p *PinchTracker) Active() bool { return p.hasLast }

// Move feeds a touch-move event. The first two-touch sample only records a
// baseline. Fewer than two touches end the gesture; more than two are not a
// pinch and leave the baseline alone.
func (p *PinchTracker) Move(touches []TouchPoint) ZoomDirection {
	if !p.running {
		return ZoomNone
	}
	switch {
	case len(touches) < 2:
		p.reset()
		return ZoomNone
	case len(touches) > 2:
		return ZoomNone
	}

	dist := math.Hypot(touches[0].X-touches[1].X, touches[0].Y-touches[1].Y)
	dir := ZoomNone
	if p.hasLast {
		switch {
		case dist > p.last:
			dir = ZoomIn
		case dist < p.last:
			dir = ZoomOut
		}
	}
	p.last = dist
	p.hasLast = true
	return dir
}

// End handles touchend/touchcancel with the number of touches still down.
func (p *PinchTracker) End(remaining int) {
	if remaining < 2 {
		p.reset()
	}
}

func (p *PinchTracker) reset() {
	p.last = 0
	p.hasLast = false
}
