//go:build js && wasm

package main

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"syscall/js"

	"github.com/inamate/seatmap/internal/engine"
	"github.com/inamate/seatmap/internal/venue"
)

var eng *engine.Engine

func main() {
	eng = engine.New(venue.NewSampleVenue("venue_sample"), engine.DefaultOptions())

	// Create the engine API object
	seatmap := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	seatmap.Set("loadVenue", js.FuncOf(loadVenue))
	seatmap.Set("loadSampleVenue", js.FuncOf(loadSampleVenue))
	seatmap.Set("pointerEnter", js.FuncOf(pointerEnter))
	seatmap.Set("pointerLeave", js.FuncOf(pointerLeave))
	seatmap.Set("click", js.FuncOf(click))
	seatmap.Set("pointerAt", js.FuncOf(pointerAt))
	seatmap.Set("clickAt", js.FuncOf(clickAt))
	seatmap.Set("touchMove", js.FuncOf(touchMove))
	seatmap.Set("touchEnd", js.FuncOf(touchEnd))
	seatmap.Set("zoomIn", js.FuncOf(zoomIn))
	seatmap.Set("zoomOut", js.FuncOf(zoomOut))
	seatmap.Set("pan", js.FuncOf(pan))
	seatmap.Set("dolly", js.FuncOf(dolly))
	seatmap.Set("resetView", js.FuncOf(resetView))
	seatmap.Set("setViewport", js.FuncOf(setViewport))
	seatmap.Set("takeFrame", js.FuncOf(takeFrame))
	seatmap.Set("subscribe", js.FuncOf(subscribe))

	// --- Queries (frontend ← engine) ---
	seatmap.Set("render", js.FuncOf(render))
	seatmap.Set("getCamera", js.FuncOf(getCamera))
	seatmap.Set("getTooltip", js.FuncOf(getTooltip))
	seatmap.Set("getSelection", js.FuncOf(getSelection))
	seatmap.Set("getMarkers", js.FuncOf(getMarkers))
	seatmap.Set("getSeatState", js.FuncOf(getSeatState))
	seatmap.Set("getColors", js.FuncOf(getColors))
	seatmap.Set("getMatrices", js.FuncOf(getMatrices))
	seatmap.Set("getOverlayMatrices", js.FuncOf(getOverlayMatrices))
	seatmap.Set("flushInstances", js.FuncOf(flushInstances))

	// Register on global scope
	js.Global().Set("seatmapEngine", seatmap)

	// Signal that WASM is ready
	js.Global().Set("seatmapWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

// loadVenue and loadSampleVenue swap the dataset in place so listeners
// registered through subscribe keep receiving events.
func loadVenue(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing venue JSON"})
	}

	v, err := venue.Decode([]byte(args[0].String()))
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	eng.LoadVenue(v)

	return js.ValueOf(map[string]interface{}{"ok": true, "seatCount": eng.Registry().Len()})
}

func loadSampleVenue(this js.Value, args []js.Value) interface{} {
	venueID := "venue_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		venueID = args[0].String()
	}

	eng.LoadVenue(venue.NewSampleVenue(venueID))
	return js.ValueOf(map[string]interface{}{"ok": true, "seatCount": eng.Registry().Len()})
}

func pointerEnter(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf("[]")
	}
	return eventsJSON(eng.PointerEnter(args[0].Int(), args[1].Float(), args[2].Float()))
}

func pointerLeave(this js.Value, args []js.Value) interface{} {
	return eventsJSON(eng.PointerLeave())
}

func click(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("[]")
	}
	return eventsJSON(eng.Click(args[0].Int()))
}

func pointerAt(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("[]")
	}
	return eventsJSON(eng.PointerAt(args[0].Float(), args[1].Float()))
}

func clickAt(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("[]")
	}
	return eventsJSON(eng.ClickAt(args[0].Float(), args[1].Float()))
}

// touchMove takes the active touches as a JSON array of {id, x, y}.
func touchMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("[]")
	}
	var touches []engine.TouchPoint
	if err := json.Unmarshal([]byte(args[0].String()), &touches); err != nil {
		return js.ValueOf("[]")
	}
	return eventsJSON(eng.TouchMove(touches))
}

func touchEnd(this js.Value, args []js.Value) interface{} {
	remaining := 0
	if len(args) > 0 {
		remaining = args[0].Int()
	}
	eng.TouchEnd(remaining)
	return nil
}

func zoomIn(this js.Value, args []js.Value) interface{} {
	return eventsJSON(eng.ZoomIn())
}

func zoomOut(this js.Value, args []js.Value) interface{} {
	return eventsJSON(eng.ZoomOut())
}

func pan(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("[]")
	}
	return eventsJSON(eng.Pan(args[0].Float(), args[1].Float()))
}

func dolly(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("[]")
	}
	return eventsJSON(eng.Dolly(args[0].Float()))
}

func resetView(this js.Value, args []js.Value) interface{} {
	return eventsJSON(eng.ResetView())
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.SetViewport(engine.Viewport{Width: args[0].Float(), Height: args[1].Float()})
	return nil
}

func takeFrame(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.TakeFrame())
}

// subscribe forwards every engine event to a JS callback as JSON and returns
// an unsubscribe function.
func subscribe(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return nil
	}
	callback := args[0]
	unsubscribe := eng.Subscribe(func(ev engine.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		callback.Invoke(string(data))
	})

	var release js.Func
	release = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		unsubscribe()
		release.Release()
		return nil
	})
	return release
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func getCamera(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetCamera())
}

func getTooltip(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetTooltip())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelection())
}

func getMarkers(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(eng.Markers())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(data))
}

func getSeatState(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(0)
	}
	index := args[0].Int()
	if index < 0 || index >= eng.Registry().Len() {
		return js.ValueOf(0)
	}
	return js.ValueOf(int(eng.SeatState(index)))
}

func getColors(this js.Value, args []js.Value) interface{} {
	return float32Bytes(eng.Colors())
}

func getMatrices(this js.Value, args []js.Value) interface{} {
	return float32Bytes(eng.Batch().Markers().Matrices())
}

func getOverlayMatrices(this js.Value, args []js.Value) interface{} {
	return float32Bytes(eng.Overlay().Matrices())
}

func flushInstances(this js.Value, args []js.Value) interface{} {
	update, ok := eng.FlushInstances()
	if !ok {
		return js.Null()
	}
	data, err := json.Marshal(update)
	if err != nil {
		return js.Null()
	}
	return js.ValueOf(string(data))
}

// --- Helpers ---

func eventsJSON(events []engine.Event) js.Value {
	if events == nil {
		events = []engine.Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(data))
}

// float32Bytes copies an attribute array into a Uint8Array the frontend can
// view as a little-endian Float32Array.
func float32Bytes(values []float32) js.Value {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	dst := js.Global().Get("Uint8Array").New(len(buf))
	js.CopyBytesToJS(dst, buf)
	return dst
}
