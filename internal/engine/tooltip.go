package engine

// Tooltip is what the surrounding UI needs to draw the hover tooltip.
type Tooltip struct {
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Content string  `json:"content"`
}

// TooltipRelay keeps the current tooltip from hover/unhover events. Each event
// overwrites the previous state; there is no debouncing.
type TooltipRelay struct {
	state Tooltip
}

// Apply consumes an event and reports whether the tooltip changed.
func (t *TooltipRelay) Apply(ev Event) bool {
	prev := t.state
	switch ev.Kind {
	case EventHover:
		t.state = Tooltip{Visible: true, X: ev.X, Y: ev.Y, Content: ev.Label}
	case EventUnhover:
		t.state.Visible = false
	default:
		return false
	}
	return t.state != prev
}

func (t *TooltipRelay) State() Tooltip { return t.state }
