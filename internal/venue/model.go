package venue

import "strings"

// SectionDelimiter separates the human-readable section suffix in a seat id.
const SectionDelimiter = "-"

// Venue is the static seating dataset: the theatre envelope plus every seat,
// screen/stage shape and text label. It is immutable once decoded.
type Venue struct {
	ID     string  `json:"id,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Seats are kept in dataset order; a seat's index is its position here.
	Seats  []Seat  `json:"-"`
	Shapes []Shape `json:"shapes"`
	Labels []Label `json:"text-elements"`
}

type Seat struct {
	ID string  `json:"-"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Section returns the part of the id after the last delimiter, or the whole id
// when it has none.
func (s Seat) Section() string {
	if i := strings.LastIndex(s.ID, SectionDelimiter); i >= 0 {
		return s.ID[i+len(SectionDelimiter):]
	}
	return s.ID
}

type Shape struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   string  `json:"ShapeFillColour"`
}

type Label struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Color   string  `json:"color"`
	Content string  `json:"content"`
}

// SeatIndex returns the dataset index of the seat with the given id.
func (v *Venue) SeatIndex(id string) (int, bool) {
	for i, s := range v.Seats {
		if s.ID == id {
			return i, true
		}
	}
	return -1, false
}
