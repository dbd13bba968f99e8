// Package session runs seat-map engines for remote hosts over websocket. Each
// connection owns one engine; its reader goroutine is the only mutator.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inamate/seatmap/internal/engine"
	"github.com/inamate/seatmap/internal/venue"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrBadPayload     = errors.New("invalid payload")
)

// dollyStep is the camera distance ratio applied per wheel notch.
const dollyStep = 0.95

// Session translates protocol messages into engine commands and engine events
// back into protocol messages.
type Session struct {
	ID      string
	VenueID string

	engine *engine.Engine
	seq    int64
}

func New(id string, v *venue.Venue, opts engine.Options) *Session {
	return &Session{
		ID:      id,
		VenueID: v.ID,
		engine:  engine.New(v, opts),
	}
}

func (s *Session) Engine() *engine.Engine { return s.engine }

// Welcome describes the full initial scene. It also drains the pending
// instance updates, since the colors travel with it.
func (s *Session) Welcome() *Message {
	e := s.engine
	s.engine.FlushInstances()
	return s.message(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		VenueID:   s.VenueID,
		SeatCount: e.Registry().Len(),
		Zone:      e.Registry().Zone(),
		Camera:    e.Camera(),
		Commands:  e.DrawCommands(),
		Markers:   e.Markers(),
		Colors:    e.Colors(),
	})
}

// Handle applies one inbound message and returns the replies, ending with an
// instances update when any seat changed.
func (s *Session) Handle(msg *Message) []*Message {
	events, err := s.apply(msg)
	if err != nil {
		slog.Warn("rejected message", "session", s.ID, "type", msg.Type, "error", err)
		return []*Message{s.message(TypeError, ErrorPayload{Message: err.Error()})}
	}

	var out []*Message
	for _, ev := range events {
		if m := s.translate(ev); m != nil {
			out = append(out, m)
		}
	}
	if up, ok := s.engine.FlushInstances(); ok {
		out = append(out, s.message(TypeInstancesUpdate, up))
	}
	return out
}

func (s *Session) apply(msg *Message) ([]engine.Event, error) {
	e := s.engine
	switch msg.Type {
	case TypePointerEnter:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return e.PointerEnter(p.Index, p.X, p.Y), nil

	case TypePointerLeave:
		return e.PointerLeave(), nil

	case TypePointerAt:
		var p PointerAtPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.SetViewport(engine.Viewport{Width: p.Width, Height: p.Height})
		return e.PointerAt(p.X, p.Y), nil

	case TypeClick:
		var p ClickPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return e.Click(p.Index), nil

	case TypeClickAt:
		var p PointerAtPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.SetViewport(engine.Viewport{Width: p.Width, Height: p.Height})
		return e.ClickAt(p.X, p.Y), nil

	case TypeTouchMove:
		var p TouchMovePayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return e.TouchMove(p.Touches), nil

	case TypeTouchEnd:
		var p TouchEndPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.TouchEnd(p.Remaining)
		return nil, nil

	case TypeZoom:
		var p ZoomPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		switch p.Direction {
		case "in":
			return e.ZoomIn(), nil
		case "out":
			return e.ZoomOut(), nil
		}
		return nil, fmt.Errorf("%w: zoom direction %q", ErrBadPayload, p.Direction)

	case TypePan:
		var p PanPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.SetViewport(engine.Viewport{Width: p.Width, Height: p.Height})
		return e.Pan(p.DX, p.DY), nil

	case TypeDolly:
		var p DollyPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		switch {
		case p.Delta > 0:
			return e.Dolly(1 / dollyStep), nil
		case p.Delta < 0:
			return e.Dolly(dollyStep), nil
		}
		return nil, nil

	case TypeViewReset:
		return e.ResetView(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
}

// translate maps an engine event onto the wire. Recenter and frame requests
// are internal to the engine and not forwarded.
func (s *Session) translate(ev engine.Event) *Message {
	switch ev.Kind {
	case engine.EventHover:
		return s.message(TypeHover, HoverPayload{Index: ev.Index, X: ev.X, Y: ev.Y, Label: ev.Label})
	case engine.EventUnhover:
		return s.message(TypeUnhover, nil)
	case engine.EventSelectionChanged:
		return s.message(TypeSelectionChanged, SelectionPayload{
			Index:     ev.Index,
			ID:        ev.ID,
			Selected:  ev.Selected,
			Selection: s.engine.SelectedIDs(),
		})
	case engine.EventCameraChanged, engine.EventZoomChanged:
		return s.message(TypeCameraChanged, CameraPayload{Camera: s.engine.Camera()})
	}
	return nil
}

func (s *Session) message(typ string, payload interface{}) *Message {
	s.seq++
	msg := &Message{Type: typ, SessionID: s.ID, Seq: s.seq}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			slog.Error("marshal payload", "type", typ, "error", err)
		}
		msg.Payload = data
	}
	return msg
}

func decode(msg *Message, v interface{}) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: %s: empty", ErrBadPayload, msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadPayload, msg.Type, err)
	}
	return nil
}
