package engine

import (
	"log/slog"

	"github.com/inamate/seatmap/internal/venue"
)

// Zone is the open index interval (Lo, Hi) of seats that can be hovered and
// selected. It is a convention over the dataset's seat order, not a property
// of the seats themselves.
type Zone struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

func (z Zone) Contains(i int) bool {
	return i > z.Lo && i < z.Hi
}

// clamp keeps the zone inside [0, n).
func (z Zone) clamp(n int) Zone {
	z.Lo = max(z.Lo, -1)
	z.Hi = min(z.Hi, n)
	if z.Hi < z.Lo {
		z.Hi = z.Lo
	}
	return z
}

// Marker is the immutable base record of one seat.
type Marker struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Label    string `json:"label"`
	Position Vec3   `json:"position"`
}

// State is the per-seat interaction state as a set of flags. The zero value is
// Inactive: the seat is outside the zone and never changes.
type State uint8

const (
	StateIdle State = 1 << iota
	StateHovered
	StateSelected
)

const StateInactive State = 0

func (s State) Interactive() bool { return s&StateIdle != 0 }
func (s State) Hovered() bool     { return s&StateHovered != 0 }
func (s State) Selected() bool    { return s&StateSelected != 0 }

func (s State) String() string {
	switch {
	case !s.Interactive():
		return "inactive"
	case s.Selected() && s.Hovered():
		return "selected+hovered"
	case s.Selected():
		return "selected"
	case s.Hovered():
		return "hovered"
	}
	return "idle"
}

// Registry holds every seat's base data and mutable visual state, indexed by
// dataset order.
type Registry struct {
	dims     Dimensions
	zone     Zone
	markers  []Marker
	selected []bool
	count    int
}

// NewRegistry indexes the venue's seats. A zone reaching past the seat range
// is clamped.
func NewRegistry(v *venue.Venue, zone Zone) *Registry {
	n := len(v.Seats)
	clamped := zone.clamp(n)
	if clamped != zone {
		slog.Warn("interactivity zone clamped to seat range", "lo", zone.Lo, "hi", zone.Hi, "seats", n)
	}

	r := &Registry{
		dims:     Dimensions{Width: v.Width, Height: v.Height},
		zone:     clamped,
		markers:  make([]Marker, n),
		selected: make([]bool, n),
	}
	for i, s := range v.Seats {
		r.markers[i] = Marker{
			Index:    i,
			ID:       s.ID,
			Label:    s.Section(),
			Position: ToRenderSpace(s.X, s.Y, r.dims, LayerMarkers),
		}
	}
	return r
}

func (r *Registry) Len() int               { return len(r.markers) }
func (r *Registry) Zone() Zone             { return r.zone }
func (r *Registry) Dimensions() Dimensions { return r.dims }

// InRange reports whether i addresses a seat.
func (r *Registry) InRange(i int) bool {
	return i >= 0 && i < len(r.markers)
}

// Interactive reports whether seat i lies in the interactivity zone.
func (r *Registry) Interactive(i int) bool {
	return r.InRange(i) && r.zone.Contains(i)
}

func (r *Registry) Marker(i int) Marker {
	r.mustRange(i)
	return r.markers[i]
}

func (r *Registry) Markers() []Marker {
	return r.markers
}

func (r *Registry) Selected(i int) bool {
	return r.InRange(i) && r.selected[i]
}

// Class derives the color class: selected, then in zone, then inactive.
func (r *Registry) Class(i int) ColorClass {
	r.mustRange(i)
	switch {
	case r.selected[i]:
		return ClassHighlight
	case r.zone.Contains(i):
		return ClassZone
	}
	return ClassInactive
}

// toggle flips the selected flag of an in-zone seat and returns the new value.
// Out-of-zone seats are left alone.
func (r *Registry) toggle(i int) (bool, bool) {
	if !r.Interactive(i) {
		return false, false
	}
	r.selected[i] = !r.selected[i]
	if r.selected[i] {
		r.count++
	} else {
		r.count--
	}
	return r.selected[i], true
}

// Selection returns the selected indices in ascending order.
func (r *Registry) Selection() []int {
	out := make([]int, 0, r.count)
	for i, sel := range r.selected {
		if sel {
			out = append(out, i)
		}
	}
	return out
}

func (r *Registry) SelectionCount() int { return r.count }

func (r *Registry) mustRange(i int) {
	if !r.InRange(i) {
		panic(indexError(i, len(r.markers)))
	}
}
