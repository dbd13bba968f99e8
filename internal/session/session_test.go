package session

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/inamate/seatmap/internal/engine"
	"github.com/inamate/seatmap/internal/venue"
)

func testVenue() *venue.Venue {
	return &venue.Venue{
		ID:     "venue_line",
		Width:  100,
		Height: 100,
		Seats: []venue.Seat{
			{ID: "A1-Left", X: 10, Y: 50},
			{ID: "A2-Centre", X: 50, Y: 50},
			{ID: "A3-Right", X: 90, Y: 50},
		},
	}
}

func testOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.Zone = engine.Zone{Lo: 0, Hi: 2}
	return opts
}

func msg(t *testing.T, typ string, payload interface{}) *Message {
	t.Helper()
	m := &Message{Type: typ}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		m.Payload = data
	}
	return m
}

func types(msgs []*Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func TestSessionWelcome(t *testing.T) {
	s := New("sess_1", testVenue(), testOptions())
	w := s.Welcome()
	if w.Type != TypeWelcome || w.SessionID != "sess_1" || w.Seq != 1 {
		t.Fatalf("welcome = %+v", w)
	}
	var p WelcomePayload
	if err := json.Unmarshal(w.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.SeatCount != 3 || p.VenueID != "venue_line" || len(p.Markers) != 3 || len(p.Colors) != 9 {
		t.Errorf("welcome payload = %+v", p)
	}
	if p.Zone != (engine.Zone{Lo: 0, Hi: 2}) {
		t.Errorf("zone = %+v", p.Zone)
	}
	if _, ok := s.Engine().FlushInstances(); ok {
		t.Error("welcome left instance updates pending")
	}
}

func TestSessionClick(t *testing.T) {
	s := New("sess_1", testVenue(), testOptions())
	s.Welcome()

	out := s.Handle(msg(t, TypeClick, ClickPayload{Index: 1}))
	want := []string{TypeSelectionChanged, TypeCameraChanged, TypeInstancesUpdate}
	if got := types(out); len(got) != len(want) || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("click replies = %v, want %v", got, want)
	}

	var sel SelectionPayload
	if err := json.Unmarshal(out[0].Payload, &sel); err != nil {
		t.Fatal(err)
	}
	if !sel.Selected || sel.ID != "A2-Centre" || len(sel.Selection) != 1 {
		t.Errorf("selection payload = %+v", sel)
	}

	var up engine.InstancesUpdate
	if err := json.Unmarshal(out[2].Payload, &up); err != nil {
		t.Fatal(err)
	}
	if up.Lo != 1 || up.Hi != 1 || len(up.Overlay) != 1 || up.Overlay[0] != 1 {
		t.Errorf("instances update = %+v", up)
	}
	if out[2].Seq <= out[0].Seq {
		t.Errorf("sequence did not increase: %d then %d", out[0].Seq, out[2].Seq)
	}
}

func TestSessionClickAt(t *testing.T) {
	s := New("sess_1", testVenue(), testOptions())
	s.Welcome()

	vp := engine.Viewport{Width: 800, Height: 600}
	e := s.Engine()
	e.SetViewport(vp)
	sx, sy := e.Camera().WorldToScreen(e.Markers()[1].Position, vp)

	out := s.Handle(msg(t, TypeClickAt, PointerAtPayload{X: sx, Y: sy, Width: vp.Width, Height: vp.Height}))
	if len(out) == 0 || out[0].Type != TypeSelectionChanged {
		t.Fatalf("click.at replies = %v", types(out))
	}
	if got := e.Selection(); len(got) != 1 || got[0] != 1 {
		t.Errorf("selection = %v, want [1]", got)
	}
}

func TestSessionHover(t *testing.T) {
	s := New("sess_1", testVenue(), testOptions())
	s.Welcome()

	if out := s.Handle(msg(t, TypePointerEnter, PointerPayload{Index: 0})); len(out) != 0 {
		t.Errorf("enter inactive seat = %v", types(out))
	}
	out := s.Handle(msg(t, TypePointerEnter, PointerPayload{Index: 1, X: 3, Y: 4}))
	if len(out) != 1 || out[0].Type != TypeHover {
		t.Fatalf("enter = %v", types(out))
	}
	var h HoverPayload
	if err := json.Unmarshal(out[0].Payload, &h); err != nil {
		t.Fatal(err)
	}
	if h.Label != "Centre" || h.X != 3 || h.Y != 4 {
		t.Errorf("hover payload = %+v", h)
	}
	if out := s.Handle(&Message{Type: TypePointerLeave}); len(out) != 1 || out[0].Type != TypeUnhover {
		t.Errorf("leave = %v", types(out))
	}
}

func TestSessionNavigation(t *testing.T) {
	s := New("sess_1", testVenue(), testOptions())
	s.Welcome()

	tests := []struct {
		name string
		msg  *Message
		want []string
	}{
		{"zoom in", msg(t, TypeZoom, ZoomPayload{Direction: "in"}), []string{TypeCameraChanged}},
		{"dolly in", msg(t, TypeDolly, DollyPayload{Delta: -120}), []string{TypeCameraChanged}},
		{"dolly none", msg(t, TypeDolly, DollyPayload{}), nil},
		{"pan", msg(t, TypePan, PanPayload{DX: 10, Width: 800, Height: 600}), []string{TypeCameraChanged}},
		{"pinch baseline", msg(t, TypeTouchMove, TouchMovePayload{Touches: []engine.TouchPoint{{ID: 1}, {ID: 2, X: 100}}}), nil},
		{"pinch spread", msg(t, TypeTouchMove, TouchMovePayload{Touches: []engine.TouchPoint{{ID: 1}, {ID: 2, X: 150}}}), []string{TypeCameraChanged}},
		{"touch end", msg(t, TypeTouchEnd, TouchEndPayload{Remaining: 0}), nil},
		{"reset", &Message{Type: TypeViewReset}, []string{TypeCameraChanged}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(s.Handle(tt.msg))
			if len(got) != len(tt.want) {
				t.Fatalf("replies = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("reply %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
	if z := s.Engine().Camera().Zoom; z != 1 {
		t.Errorf("zoom after reset = %v, want 1", z)
	}
}

func TestSessionRejects(t *testing.T) {
	s := New("sess_1", testVenue(), testOptions())
	tests := []struct {
		name string
		msg  *Message
		want error
	}{
		{"unknown type", &Message{Type: "seat.buy"}, ErrUnknownMessage},
		{"missing payload", &Message{Type: TypeClick}, ErrBadPayload},
		{"wrong payload", &Message{Type: TypeClick, Payload: json.RawMessage(`{"index":"one"}`)}, ErrBadPayload},
		{"bad zoom", msg(t, TypeZoom, ZoomPayload{Direction: "sideways"}), ErrBadPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.apply(tt.msg); !errors.Is(err, tt.want) {
				t.Errorf("apply() error = %v, want %v", err, tt.want)
			}
			out := s.Handle(tt.msg)
			if len(out) != 1 || out[0].Type != TypeError {
				t.Errorf("Handle() = %v, want one error", types(out))
			}
		})
	}
}
