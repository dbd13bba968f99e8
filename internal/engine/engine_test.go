package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/inamate/seatmap/internal/config"
	"github.com/inamate/seatmap/internal/venue"
)

func TestEngineClickFramesSeatOnce(t *testing.T) {
	e := lineEngine()

	got := e.Click(1)
	if !sameKinds(got, EventSelectionChanged, EventFrameRequested, EventRecenterRequested, EventCameraChanged) {
		t.Fatalf("first click = %v", kinds(got))
	}
	if cam := got[3].Camera; cam == nil || cam.Position.Z != 200 {
		t.Errorf("camera event = %+v, want framed at depth 200", got[3].Camera)
	}
	if sel := e.Selection(); len(sel) != 1 || sel[0] != 1 {
		t.Errorf("Selection() = %v, want [1]", sel)
	}
	if ids := e.SelectedIDs(); len(ids) != 1 || ids[0] != "A2-Centre" {
		t.Errorf("SelectedIDs() = %v", ids)
	}

	got = e.Click(1)
	if !sameKinds(got, EventSelectionChanged, EventRecenterRequested) {
		t.Errorf("second click = %v, want no camera change", kinds(got))
	}
	if len(e.Selection()) != 0 {
		t.Errorf("Selection() = %v after deselect", e.Selection())
	}
}

func TestEngineTooltipFollowsHover(t *testing.T) {
	e := lineEngine()

	e.PointerEnter(1, 15, 25)
	if tt := e.Tooltip(); !tt.Visible || tt.Content != "Centre" || tt.X != 15 || tt.Y != 25 {
		t.Errorf("tooltip after hover = %+v", tt)
	}
	e.PointerLeave()
	if tt := e.Tooltip(); tt.Visible || tt.Content != "Centre" || tt.X != 15 {
		t.Errorf("tooltip after unhover = %+v, want hidden with last content", tt)
	}
	e.PointerEnter(0, 1, 1)
	if e.Tooltip().Visible {
		t.Error("inactive seat showed a tooltip")
	}
}

func TestEnginePointerAt(t *testing.T) {
	e := lineEngine()
	vp := Viewport{Width: 800, Height: 600}
	e.SetViewport(vp)

	sx, sy := e.Camera().WorldToScreen(e.Markers()[1].Position, vp)
	got := e.PointerAt(sx, sy)
	if !sameKinds(got, EventHover) || got[0].Index != 1 {
		t.Fatalf("PointerAt over seat 1 = %+v", got)
	}
	if e.SeatState(1) != StateIdle|StateHovered {
		t.Errorf("SeatState(1) = %v", e.SeatState(1))
	}

	sx, sy = e.Camera().WorldToScreen(e.Markers()[0].Position, vp)
	if got := e.PointerAt(sx, sy); !sameKinds(got, EventUnhover) {
		t.Errorf("PointerAt over inactive seat = %v, want unhover", kinds(got))
	}
	if got := e.PointerAt(0, 0); len(got) != 0 {
		t.Errorf("PointerAt over empty space with nothing hovered = %v", kinds(got))
	}

	sx, sy = e.Camera().WorldToScreen(e.Markers()[1].Position, vp)
	if got := e.ClickAt(sx, sy); len(got) == 0 || got[0].Kind != EventSelectionChanged {
		t.Errorf("ClickAt over seat 1 = %v", kinds(got))
	}
}

func TestEngineSubscribe(t *testing.T) {
	e := lineEngine()
	var seen []EventKind
	unsubscribe := e.Subscribe(func(ev Event) { seen = append(seen, ev.Kind) })

	e.PointerEnter(1, 0, 0)
	e.ZoomIn()
	if len(seen) != 3 || seen[0] != EventHover || seen[1] != EventZoomChanged || seen[2] != EventFrameRequested {
		t.Fatalf("subscriber saw %v", seen)
	}

	unsubscribe()
	e.PointerLeave()
	if len(seen) != 3 {
		t.Errorf("unsubscribed listener still called: %v", seen)
	}
}

func TestEngineUnsubscribeDuringEmit(t *testing.T) {
	e := lineEngine()
	var a, b, c int
	var unsubscribeA func()
	unsubscribeA = e.Subscribe(func(Event) {
		a++
		unsubscribeA()
	})
	e.Subscribe(func(Event) { b++ })
	e.Subscribe(func(Event) { c++ })

	e.PointerEnter(1, 0, 0)
	if a != 1 || b != 1 || c != 1 {
		t.Fatalf("calls = %d %d %d, want 1 1 1", a, b, c)
	}

	e.PointerLeave()
	if a != 1 || b != 2 || c != 2 {
		t.Errorf("calls after unsubscribe = %d %d %d, want 1 2 2", a, b, c)
	}
}

func TestEngineLoadVenueKeepsSubscribers(t *testing.T) {
	e := lineEngine()
	vp := Viewport{Width: 800, Height: 600}
	e.SetViewport(vp)
	e.Click(1)

	var seen []EventKind
	e.Subscribe(func(ev Event) { seen = append(seen, ev.Kind) })

	e.LoadVenue(venue.NewSampleVenue("venue_sample"))
	if e.Registry().Len() <= 3 || len(e.Selection()) != 0 {
		t.Fatalf("after load: seats = %d, selection = %v", e.Registry().Len(), e.Selection())
	}
	if e.Viewport() != vp {
		t.Errorf("viewport = %+v, want %+v", e.Viewport(), vp)
	}
	if !e.TakeFrame() {
		t.Error("loading a venue did not request a frame")
	}

	e.Click(1)
	if len(seen) == 0 || seen[0] != EventSelectionChanged {
		t.Errorf("subscriber saw %v after load, want selection first", seen)
	}
}

func TestEngineGesturesEnabled(t *testing.T) {
	e := lineEngine()
	e.TouchMove(pinch(100))

	e.SetGesturesEnabled(false)
	if got := e.TouchMove(pinch(300)); len(got) != 0 {
		t.Errorf("pinch while disabled = %v", kinds(got))
	}

	e.SetGesturesEnabled(true)
	if got := e.TouchMove(pinch(300)); len(got) != 0 {
		t.Errorf("first sample after enabling = %v, want baseline only", kinds(got))
	}
	if got := e.TouchMove(pinch(400)); len(got) == 0 || got[0].Kind != EventZoomChanged {
		t.Errorf("pinch out after enabling = %v", kinds(got))
	}
}

func TestEventJSONKeepsZeroCoordinates(t *testing.T) {
	data, err := json.Marshal(Event{Kind: EventHover, Index: 1, X: 0, Y: 0, Label: "Centre"})
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"x", "y", "index"} {
		if _, ok := got[key]; !ok {
			t.Errorf("%s missing from %s", key, data)
		}
	}
}

func TestEngineFrameScheduling(t *testing.T) {
	t.Run("demand", func(t *testing.T) {
		e := New(lineVenue(), DefaultOptions())
		if !e.TakeFrame() {
			t.Fatal("no initial frame")
		}
		if e.TakeFrame() {
			t.Fatal("frame without a mutation")
		}
		e.PointerEnter(1, 0, 0)
		if e.TakeFrame() {
			t.Error("hover alone requested a frame")
		}
		e.ZoomOut()
		if !e.TakeFrame() {
			t.Error("zoom did not request a frame")
		}
		e.ResetView()
		if !e.TakeFrame() {
			t.Error("reset did not request a frame")
		}
	})
	t.Run("always", func(t *testing.T) {
		opts := DefaultOptions()
		opts.FrameLoop = FrameLoopAlways
		e := New(lineVenue(), opts)
		for i := 0; i < 3; i++ {
			if !e.TakeFrame() {
				t.Fatalf("tick %d skipped", i)
			}
		}
		for _, ev := range e.ZoomIn() {
			if ev.Kind == EventFrameRequested {
				t.Error("always loop emitted a frame request")
			}
		}
	})
}

func TestEnginePinchZoom(t *testing.T) {
	e := lineEngine()
	if got := e.TouchMove(pinch(100)); len(got) != 0 {
		t.Errorf("baseline sample = %v", kinds(got))
	}
	got := e.TouchMove(pinch(140))
	if len(got) == 0 || got[0].Kind != EventZoomChanged || !near(got[0].Zoom, 1.1) {
		t.Fatalf("spread = %+v", got)
	}
	e.TouchEnd(0)
	if got := e.TouchMove(pinch(10)); len(got) != 0 {
		t.Errorf("first sample after touch end = %v", kinds(got))
	}
}

func TestEngineFlushInstances(t *testing.T) {
	e := lineEngine()
	if up, ok := e.FlushInstances(); !ok || up.Lo != 0 || up.Hi != 2 {
		t.Fatalf("initial flush = %+v, %v", up, ok)
	}
	if _, ok := e.FlushInstances(); ok {
		t.Fatal("second flush found changes")
	}

	e.Click(1)
	up, ok := e.FlushInstances()
	if !ok || up.Lo != 1 || up.Hi != 1 {
		t.Fatalf("flush after click = %+v, %v", up, ok)
	}
	h := e.Options().Palette.Highlight
	if len(up.Colors) != 3 || up.Colors[0] != h.R || up.Colors[1] != h.G || up.Colors[2] != h.B {
		t.Errorf("colors = %v, want highlight %v", up.Colors, h)
	}
	if len(up.Overlay) != 1 || up.Overlay[0] != 1 {
		t.Errorf("overlay = %v, want [1]", up.Overlay)
	}
}

func TestDrawCommandsPaintersOrder(t *testing.T) {
	e := lineEngine()
	cmds := e.DrawCommands()

	wantOps := []string{OpShape, OpInstances, OpInstances, OpLabel}
	if len(cmds) != len(wantOps) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(wantOps))
	}
	for i, c := range cmds {
		if c.Op != wantOps[i] {
			t.Errorf("command %d op = %q, want %q", i, c.Op, wantOps[i])
		}
		if i > 0 && c.Z < cmds[i-1].Z {
			t.Errorf("command %d at depth %v behind previous %v", i, c.Z, cmds[i-1].Z)
		}
	}
	if cmds[1].Batch != BatchMarkers || cmds[1].Count != 3 || cmds[1].Size != 7 {
		t.Errorf("marker batch command = %+v", cmds[1])
	}
	if cmds[2].Batch != BatchOverlay || cmds[2].Geometry != "square" {
		t.Errorf("overlay batch command = %+v", cmds[2])
	}
	if shape := cmds[0]; shape.X != 0 || shape.Y != 45 || shape.Width != 80 {
		t.Errorf("shape command = %+v", shape)
	}

	var decoded []DrawCommand
	if err := json.Unmarshal([]byte(e.Render()), &decoded); err != nil || len(decoded) != 4 {
		t.Errorf("Render() decoded %d commands, err %v", len(decoded), err)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	_, err := Load([]byte(`{"width": 10, "height": 10, "seats": {"A1": {"x": 1}}}`), DefaultOptions())
	if !errors.Is(err, venue.ErrMalformedDataset) {
		t.Fatalf("Load() error = %v, want ErrMalformedDataset", err)
	}

	e, err := Load([]byte(`{"width": 10, "height": 10, "seats": {"B2-Stalls": {"x": 1, "y": 2}, "A1-Stalls": {"x": 3, "y": 4}}}`), DefaultOptions())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m := e.Markers(); len(m) != 2 || m[0].ID != "B2-Stalls" {
		t.Errorf("markers = %+v, want document order", m)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	base := config.Engine{
		ZoneLo:         10,
		ZoneHi:         20,
		FrameLoop:      "always",
		MarkerRadius:   5,
		InactiveColor:  "#e2e2e2",
		ZoneColor:      "orange",
		HighlightColor: "#f00",
	}

	opts, err := OptionsFromConfig(base)
	if err != nil {
		t.Fatalf("OptionsFromConfig() error = %v", err)
	}
	if opts.Zone != (Zone{Lo: 10, Hi: 20}) || opts.FrameLoop != FrameLoopAlways || opts.MarkerRadius != 5 {
		t.Errorf("options = %+v", opts)
	}
	if opts.Palette.Highlight != (Color{R: 1}) {
		t.Errorf("highlight = %v", opts.Palette.Highlight)
	}

	bad := base
	bad.FrameLoop = "sometimes"
	if _, err := OptionsFromConfig(bad); err == nil {
		t.Error("unknown frame loop accepted")
	}
	bad = base
	bad.ZoneColor = "#12"
	if _, err := OptionsFromConfig(bad); err == nil {
		t.Error("bad zone color accepted")
	}
}
