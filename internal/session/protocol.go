package session

import (
	"encoding/json"

	"github.com/inamate/seatmap/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Inbound (host → engine)
	TypePointerEnter = "pointer.enter"
	TypePointerLeave = "pointer.leave"
	TypePointerAt    = "pointer.at"
	TypeClick        = "click"
	TypeClickAt      = "click.at"
	TypeTouchMove    = "touch.move"
	TypeTouchEnd     = "touch.end"
	TypeZoom         = "zoom"
	TypePan          = "pan"
	TypeDolly        = "dolly"
	TypeViewReset    = "view.reset"

	// Outbound (engine → host)
	TypeWelcome          = "welcome"
	TypeHover            = "hover"
	TypeUnhover          = "unhover"
	TypeSelectionChanged = "selection.changed"
	TypeCameraChanged    = "camera.changed"
	TypeInstancesUpdate  = "instances.update"
	TypeError            = "error"
)

// PointerPayload is a pointer event already resolved to a seat index by the
// client's own picking.
type PointerPayload struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// PointerAtPayload is a raw screen position for server-side picking, with the
// client's viewport size.
type PointerAtPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ClickPayload struct {
	Index int `json:"index"`
}

type TouchMovePayload struct {
	Touches []engine.TouchPoint `json:"touches"`
}

type TouchEndPayload struct {
	Remaining int `json:"remaining"`
}

type ZoomPayload struct {
	Direction string `json:"direction"` // "in" or "out"
}

type PanPayload struct {
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// DollyPayload carries a wheel delta; positive moves away from the map.
type DollyPayload struct {
	Delta float64 `json:"delta"`
}

type WelcomePayload struct {
	SessionID string               `json:"sessionId"`
	VenueID   string               `json:"venueId"`
	SeatCount int                  `json:"seatCount"`
	Zone      engine.Zone          `json:"zone"`
	Camera    engine.Camera        `json:"camera"`
	Commands  []engine.DrawCommand `json:"commands"`
	Markers   []engine.Marker      `json:"markers"`
	Colors    []float32            `json:"colors"`
}

type HoverPayload struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

type SelectionPayload struct {
	Index     int      `json:"index"`
	ID        string   `json:"id"`
	Selected  bool     `json:"selected"`
	Selection []string `json:"selection"`
}

type CameraPayload struct {
	Camera engine.Camera `json:"camera"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
