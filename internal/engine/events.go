package engine

import "slices"

// EventKind names the output events of the engine.
type EventKind string

const (
	EventHover             EventKind = "hover"
	EventUnhover           EventKind = "unhover"
	EventSelectionChanged  EventKind = "selection.changed"
	EventRecenterRequested EventKind = "recenter.requested"
	EventCameraChanged     EventKind = "camera.changed"
	EventZoomChanged       EventKind = "zoom.changed"
	EventFrameRequested    EventKind = "frame.requested"
)

// Event is one output of input dispatch. Only the fields relevant to Kind are
// set: hover carries screen X/Y and Label, selection carries Index and
// Selected, recenter carries ID and the seat's render-space X/Y. Index is
// NoIndex on events that are not about a seat.
type Event struct {
	Kind     EventKind `json:"kind"`
	Index    int       `json:"index"`
	ID       string    `json:"id,omitempty"`
	Label    string    `json:"label,omitempty"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Selected bool      `json:"selected,omitempty"`
	Zoom     float64   `json:"zoom,omitempty"`
	Camera   *Camera   `json:"camera,omitempty"`
}

// InputKind names the pointer events accepted by Dispatch.
type InputKind string

const (
	InputPointerEnter InputKind = "pointer.enter"
	InputPointerLeave InputKind = "pointer.leave"
	InputClick        InputKind = "click"
)

// NoIndex marks a pointer event that did not resolve to an instance.
const NoIndex = -1

// Input is a pointer event already resolved to an instance index by the
// backend's picking. X and Y are screen coordinates.
type Input struct {
	Kind  InputKind `json:"kind"`
	Index int       `json:"index"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
}

// subscribers is a small ordered listener list with removal by handle.
type subscribers struct {
	next int
	fns  []subscriber
}

type subscriber struct {
	id int
	fn func(Event)
}

func (s *subscribers) add(fn func(Event)) func() {
	s.next++
	id := s.next
	s.fns = append(s.fns, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.fns {
			if sub.id == id {
				s.fns = slices.Delete(slices.Clone(s.fns), i, i+1)
				return
			}
		}
	}
}

// emit delivers to the listeners registered when it started, so a listener
// may unsubscribe itself or others mid-delivery.
func (s *subscribers) emit(events []Event) {
	fns := s.fns
	for _, ev := range events {
		for _, sub := range fns {
			sub.fn(ev)
		}
	}
}
