package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inamate/seatmap/internal/config"
	"github.com/inamate/seatmap/internal/venue"
)

// FrameLoop is the render scheduling policy the host runs.
type FrameLoop string

const (
	// FrameLoopDemand draws only after a mutation requested a frame.
	FrameLoopDemand FrameLoop = "demand"
	// FrameLoopAlways draws every tick.
	FrameLoopAlways FrameLoop = "always"
)

type Options struct {
	Zone         Zone
	Palette      Palette
	MarkerRadius float64
	Navigator    NavigatorOptions
	FrameLoop    FrameLoop
}

func DefaultOptions() Options {
	return Options{
		Zone:         Zone{Lo: 500, Hi: 850},
		Palette:      DefaultPalette(),
		MarkerRadius: 7,
		Navigator:    DefaultNavigatorOptions(),
		FrameLoop:    FrameLoopDemand,
	}
}

// OptionsFromConfig builds engine options from the environment config.
func OptionsFromConfig(c config.Engine) (Options, error) {
	opts := DefaultOptions()
	opts.Zone = Zone{Lo: c.ZoneLo, Hi: c.ZoneHi}
	if c.MarkerRadius > 0 {
		opts.MarkerRadius = c.MarkerRadius
	}
	switch FrameLoop(c.FrameLoop) {
	case FrameLoopDemand, FrameLoopAlways:
		opts.FrameLoop = FrameLoop(c.FrameLoop)
	case "":
	default:
		return opts, fmt.Errorf("unknown frame loop %q", c.FrameLoop)
	}

	var err error
	if opts.Palette.Inactive, err = ParseColor(c.InactiveColor); err != nil {
		return opts, fmt.Errorf("inactive color: %w", err)
	}
	if opts.Palette.Zone, err = ParseColor(c.ZoneColor); err != nil {
		return opts, fmt.Errorf("zone color: %w", err)
	}
	if opts.Palette.Highlight, err = ParseColor(c.HighlightColor); err != nil {
		return opts, fmt.Errorf("highlight color: %w", err)
	}
	return opts, nil
}

// Engine is the seat-map engine. It owns the marker registry and selection,
// the instance buffers, the camera and the tooltip, and is driven by input
// commands from a host. All methods must be called from one goroutine.
type Engine struct {
	venue *venue.Venue
	opts  Options

	reg         *Registry
	batch       *MarkerBatch
	interaction *Interaction
	nav         *Navigator
	picker      *Picker
	tooltip     TooltipRelay

	subs     subscribers
	viewport Viewport

	// Set by every mutation; cleared when the host draws.
	frameRequested bool
}

// New lays out the venue. The venue must already be validated.
func New(v *venue.Venue, opts Options) *Engine {
	e := &Engine{
		opts:     opts,
		viewport: Viewport{Width: 1280, Height: 720},
	}
	e.layout(v)
	return e
}

// LoadVenue replaces the dataset. Subscribers, options and the viewport carry
// over; selection, hover, tooltip and camera start fresh.
func (e *Engine) LoadVenue(v *venue.Venue) {
	e.layout(v)
}

func (e *Engine) layout(v *venue.Venue) {
	reg := NewRegistry(v, e.opts.Zone)
	batch := NewMarkerBatch(reg, e.opts.Palette, e.opts.MarkerRadius)
	e.venue = v
	e.reg = reg
	e.batch = batch
	e.interaction = NewInteraction(reg, batch)
	e.nav = NewNavigator(e.opts.Navigator)
	e.picker = NewPicker(reg.Markers(), e.opts.MarkerRadius)
	e.tooltip = TooltipRelay{}
	e.frameRequested = true
	slog.Debug("engine ready", "seats", reg.Len(), "zone_lo", reg.Zone().Lo, "zone_hi", reg.Zone().Hi)
}

// Load decodes a dataset and builds an engine over it. A malformed dataset is
// refused before anything is laid out.
func Load(data []byte, opts Options) (*Engine, error) {
	v, err := venue.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load venue: %w", err)
	}
	return New(v, opts), nil
}

// --- Commands (host → engine) ---

// Subscribe registers fn for every event the engine emits and returns a
// function that removes it.
func (e *Engine) Subscribe(fn func(Event)) func() {
	return e.subs.add(fn)
}

// Dispatch runs one resolved pointer event through the interaction policy,
// then applies the follow-ups: tooltip, camera recenter and frame requests.
func (e *Engine) Dispatch(in Input) []Event {
	events := e.interaction.Dispatch(in)
	out := make([]Event, 0, len(events)+2)
	for _, ev := range events {
		out = append(out, ev)
		switch ev.Kind {
		case EventHover, EventUnhover:
			e.tooltip.Apply(ev)
		case EventSelectionChanged:
			out = e.requestFrame(out)
		case EventRecenterRequested:
			// Raised on every in-zone click, deselect included; the
			// navigator's guards decide whether the camera moves.
			if e.nav.RecenterOn(ev.ID, ev.X, ev.Y) {
				out = e.cameraChanged(out)
			}
		}
	}
	e.subs.emit(out)
	return out
}

func (e *Engine) PointerEnter(index int, x, y float64) []Event {
	return e.Dispatch(Input{Kind: InputPointerEnter, Index: index, X: x, Y: y})
}

func (e *Engine) PointerLeave() []Event {
	return e.Dispatch(Input{Kind: InputPointerLeave, Index: NoIndex})
}

func (e *Engine) Click(index int) []Event {
	return e.Dispatch(Input{Kind: InputClick, Index: index})
}

// PointerAt resolves a screen position with the built-in picker and turns it
// into enter/leave events. Moving off every seat is a leave.
func (e *Engine) PointerAt(sx, sy float64) []Event {
	i, ok := e.picker.PickScreen(e.nav.Camera(), e.viewport, sx, sy)
	if !ok {
		if e.interaction.Hovered() == NoIndex {
			return nil
		}
		return e.PointerLeave()
	}
	return e.PointerEnter(i, sx, sy)
}

// ClickAt picks the seat under a screen position and clicks it.
func (e *Engine) ClickAt(sx, sy float64) []Event {
	i, ok := e.picker.PickScreen(e.nav.Camera(), e.viewport, sx, sy)
	if !ok {
		return nil
	}
	return e.Click(i)
}

// TouchMove feeds a touch-move event with every active touch.
func (e *Engine) TouchMove(touches []TouchPoint) []Event {
	_, changed := e.nav.TouchMove(touches)
	if !changed {
		return nil
	}
	return e.emit(e.zoomChanged(nil))
}

// TouchEnd reports how many touches are still down after touchend/cancel.
func (e *Engine) TouchEnd(remaining int) {
	e.nav.TouchEnd(remaining)
}

// SetGesturesEnabled starts or stops pinch tracking, e.g. while the host
// window is unfocused and touch releases may be lost.
func (e *Engine) SetGesturesEnabled(on bool) {
	pinch := e.nav.Pinch()
	switch {
	case on && !pinch.Running():
		pinch.Start()
	case !on && pinch.Running():
		pinch.Stop()
	}
}

func (e *Engine) ZoomIn() []Event  { return e.zoom(ZoomIn) }
func (e *Engine) ZoomOut() []Event { return e.zoom(ZoomOut) }

func (e *Engine) zoom(dir ZoomDirection) []Event {
	if !e.nav.ZoomStep(dir) {
		return nil
	}
	return e.emit(e.zoomChanged(nil))
}

// Pan drags the view by a screen-space delta.
func (e *Engine) Pan(dx, dy float64) []Event {
	if !e.nav.Pan(dx, dy, e.viewport) {
		return nil
	}
	return e.emit(e.cameraChanged(nil))
}

// Dolly moves the camera by factor towards (<1) or away from (>1) its target.
func (e *Engine) Dolly(factor float64) []Event {
	if !e.nav.Dolly(factor) {
		return nil
	}
	return e.emit(e.cameraChanged(nil))
}

// ResetView returns the camera to its overview pose.
func (e *Engine) ResetView() []Event {
	e.nav.Reset()
	return e.emit(e.cameraChanged(nil))
}

// SetViewport records the host's drawing surface size for picking and panning.
func (e *Engine) SetViewport(vp Viewport) {
	if vp == e.viewport || vp.Width <= 0 || vp.Height <= 0 {
		return
	}
	e.viewport = vp
	e.frameRequested = true
}

// TakeFrame reports whether the host should draw now and clears the pending
// request. In FrameLoopAlways mode it is always true.
func (e *Engine) TakeFrame() bool {
	if e.opts.FrameLoop == FrameLoopAlways {
		e.frameRequested = false
		return true
	}
	pending := e.frameRequested
	e.frameRequested = false
	return pending
}

func (e *Engine) emit(events []Event) []Event {
	e.subs.emit(events)
	return events
}

func (e *Engine) cameraChanged(out []Event) []Event {
	cam := e.nav.Camera()
	out = append(out, Event{Kind: EventCameraChanged, Index: NoIndex, Camera: &cam})
	return e.requestFrame(out)
}

func (e *Engine) zoomChanged(out []Event) []Event {
	cam := e.nav.Camera()
	out = append(out, Event{Kind: EventZoomChanged, Index: NoIndex, Zoom: cam.Zoom, Camera: &cam})
	return e.requestFrame(out)
}

func (e *Engine) requestFrame(out []Event) []Event {
	if e.frameRequested || e.opts.FrameLoop == FrameLoopAlways {
		e.frameRequested = true
		return out
	}
	e.frameRequested = true
	return append(out, Event{Kind: EventFrameRequested, Index: NoIndex})
}

// --- Queries (host ← engine) ---

func (e *Engine) Venue() *venue.Venue           { return e.venue }
func (e *Engine) Registry() *Registry           { return e.reg }
func (e *Engine) Batch() *MarkerBatch           { return e.batch }
func (e *Engine) Navigator() *Navigator         { return e.nav }
func (e *Engine) Camera() Camera                { return e.nav.Camera() }
func (e *Engine) Tooltip() Tooltip              { return e.tooltip.State() }
func (e *Engine) Viewport() Viewport            { return e.viewport }
func (e *Engine) Selection() []int              { return e.reg.Selection() }
func (e *Engine) Options() Options              { return e.opts }
func (e *Engine) FrameLoop() FrameLoop          { return e.opts.FrameLoop }
func (e *Engine) Hovered() int                  { return e.interaction.Hovered() }
func (e *Engine) SeatState(index int) State     { return e.interaction.State(index) }
func (e *Engine) Pick(x, y float64) (int, bool) { return e.picker.Pick(x, y) }

// Markers returns the immutable marker base data in index order.
func (e *Engine) Markers() []Marker { return e.reg.Markers() }

// Colors exposes the marker batch's flat RGB attribute array.
func (e *Engine) Colors() []float32 { return e.batch.Markers().Colors() }

// Overlay exposes the selection overlay's instance buffer.
func (e *Engine) Overlay() *InstanceBuffer { return e.batch.Overlay() }

// DrawCommands returns the scene in painter's order.
func (e *Engine) DrawCommands() []DrawCommand { return CompileDrawCommands(e) }

// FlushInstances returns the instance data written since the last flush.
func (e *Engine) FlushInstances() (InstancesUpdate, bool) { return FlushInstances(e.batch) }

// SelectedIDs returns the ids of the selected seats in index order.
func (e *Engine) SelectedIDs() []string {
	sel := e.reg.Selection()
	ids := make([]string, len(sel))
	for i, idx := range sel {
		ids[i] = e.reg.markers[idx].ID
	}
	return ids
}

// Render compiles the current draw commands to JSON.
func (e *Engine) Render() string {
	result, _ := DrawCommandsToJSON(CompileDrawCommands(e))
	return result
}

// GetCamera returns the camera as JSON.
func (e *Engine) GetCamera() string {
	data, _ := json.Marshal(e.nav.Camera())
	return string(data)
}

// GetTooltip returns the tooltip state as JSON.
func (e *Engine) GetTooltip() string {
	data, _ := json.Marshal(e.tooltip.State())
	return string(data)
}

// GetSelection returns the selected indices and ids as JSON.
func (e *Engine) GetSelection() string {
	data, _ := json.Marshal(map[string]interface{}{
		"indices": e.reg.Selection(),
		"ids":     e.SelectedIDs(),
	})
	return string(data)
}
