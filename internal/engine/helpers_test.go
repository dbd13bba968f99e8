package engine

import (
	"math"

	"github.com/inamate/seatmap/internal/venue"
)

// lineVenue is three seats on one row of a 100x100 theatre.
func lineVenue() *venue.Venue {
	return &venue.Venue{
		ID:     "venue_line",
		Width:  100,
		Height: 100,
		Seats: []venue.Seat{
			{ID: "A1-Left", X: 10, Y: 50},
			{ID: "A2-Centre", X: 50, Y: 50},
			{ID: "A3-Right", X: 90, Y: 50},
		},
		Shapes: []venue.Shape{{X: 50, Y: 5, Width: 80, Height: 4, Fill: "#333333"}},
		Labels: []venue.Label{{X: 50, Y: 12, Size: 6, Color: "#000000", Content: "SCREEN"}},
	}
}

// lineEngine builds an engine over lineVenue whose zone admits only seat 1.
func lineEngine() *Engine {
	opts := DefaultOptions()
	opts.Zone = Zone{Lo: 0, Hi: 2}
	e := New(lineVenue(), opts)
	e.TakeFrame()
	return e
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func sameKinds(got []Event, want ...EventKind) bool {
	k := kinds(got)
	if len(k) != len(want) {
		return false
	}
	for i := range k {
		if k[i] != want[i] {
			return false
		}
	}
	return true
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mustPanicWith(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}
