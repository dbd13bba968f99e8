package venue

import "fmt"

type sampleBlock struct {
	section string
	x0      float64
	seats   int
}

// NewSampleVenue builds a deterministic theatre: a screen across the front and
// three seating blocks of 28 rows each. It holds more than a thousand seats so
// the default interactivity zone is populated.
func NewSampleVenue(id string) *Venue {
	const (
		width   = 1000.0
		height  = 800.0
		rows    = 28
		pitch   = 18.0
		firstY  = 160.0
		screenY = 60.0
	)
	blocks := []sampleBlock{
		{section: "Left", x0: 110, seats: 10},
		{section: "Centre", x0: 365, seats: 16},
		{section: "Right", x0: 728, seats: 10},
	}

	v := &Venue{
		ID:     id,
		Width:  width,
		Height: height,
		Shapes: []Shape{
			{X: width / 2, Y: screenY, Width: 600, Height: 16, Fill: "#3a3a3a"},
			{X: width / 2, Y: height - 40, Width: 200, Height: 30, Fill: "#c9c9c9"},
		},
		Labels: []Label{
			{X: width / 2, Y: screenY + 30, Size: 18, Color: "#3a3a3a", Content: "SCREEN"},
			{X: width / 2, Y: height - 40, Size: 12, Color: "#3a3a3a", Content: "Entrance"},
		},
	}

	for row := 0; row < rows; row++ {
		rowName := rowLabel(row)
		y := firstY + float64(row)*pitch
		for _, b := range blocks {
			for n := 0; n < b.seats; n++ {
				v.Seats = append(v.Seats, Seat{
					ID: fmt.Sprintf("%s%d-%s", rowName, n+1, b.section),
					X:  b.x0 + float64(n)*pitch,
					Y:  y,
				})
			}
		}
	}

	for _, b := range blocks {
		mid := b.x0 + float64(b.seats-1)*pitch/2
		v.Labels = append(v.Labels, Label{X: mid, Y: firstY - 25, Size: 14, Color: "#555555", Content: b.section})
	}
	return v
}

// rowLabel names rows A..Z, then AA, AB, ...
func rowLabel(i int) string {
	name := ""
	for {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
		if i < 0 {
			return name
		}
	}
}
