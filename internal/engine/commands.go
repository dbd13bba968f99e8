package engine

import (
	"encoding/json"
	"sort"
)

// DrawCommand is a single drawing operation for a backend to execute. Scene
// geometry (shapes, labels) is carried inline; the marker batches are only
// referenced, the backend reads their instance buffers directly.
//
// Shapes and labels are positioned by their render-space center. Instances
// commands name a batch and the geometry each instance is drawn with: Size is
// the circle radius or the square edge.
type DrawCommand struct {
	Op       string  `json:"op"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Fill     string  `json:"fill,omitempty"`
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Batch    string  `json:"batch,omitempty"`
	Geometry string  `json:"geometry,omitempty"`
	Size     float64 `json:"size,omitempty"`
	Count    int     `json:"count,omitempty"`
}

const (
	OpShape     = "shape"
	OpInstances = "instances"
	OpLabel     = "label"

	BatchMarkers = "markers"
	BatchOverlay = "overlay"
)

// CompileDrawCommands generates the draw command list for the engine's scene.
// Commands are in painter's order (back to front by layer depth).
func CompileDrawCommands(e *Engine) []DrawCommand {
	if e == nil {
		return nil
	}
	dims := e.reg.Dimensions()
	commands := make([]DrawCommand, 0, len(e.venue.Shapes)+len(e.venue.Labels)+2)

	for _, s := range e.venue.Shapes {
		p := ToRenderSpace(s.X, s.Y, dims, LayerShapes)
		commands = append(commands, DrawCommand{
			Op:     OpShape,
			X:      p.X,
			Y:      p.Y,
			Z:      p.Z,
			Width:  s.Width,
			Height: s.Height,
			Fill:   s.Fill,
		})
	}

	commands = append(commands,
		DrawCommand{
			Op:       OpInstances,
			Z:        LayerMarkers.Depth(),
			Batch:    BatchMarkers,
			Geometry: "circle",
			Size:     e.batch.Radius(),
			Count:    e.batch.Markers().Len(),
		},
		DrawCommand{
			Op:       OpInstances,
			Z:        LayerOverlay.Depth(),
			Batch:    BatchOverlay,
			Geometry: "square",
			Size:     e.batch.OverlaySize(),
			Count:    e.batch.Overlay().Len(),
		},
	)

	for _, l := range e.venue.Labels {
		p := ToRenderSpace(l.X, l.Y, dims, LayerLabels)
		commands = append(commands, DrawCommand{
			Op:       OpLabel,
			X:        p.X,
			Y:        p.Y,
			Z:        p.Z,
			Fill:     l.Color,
			Text:     l.Content,
			FontSize: l.Size,
		})
	}

	sort.SliceStable(commands, func(i, j int) bool {
		return commands[i].Z < commands[j].Z
	})
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// InstancesUpdate is the dirty slice of the marker batches since the last
// flush, in the shape a remote backend uploads it.
type InstancesUpdate struct {
	Lo      int       `json:"lo"`
	Hi      int       `json:"hi"`
	Colors  []float32 `json:"colors"`
	Overlay []float32 `json:"overlay"`
}

// FlushInstances takes the pending dirty range of both batches. It returns
// false when nothing changed.
func FlushInstances(b *MarkerBatch) (InstancesUpdate, bool) {
	r := b.markers.TakeDirty().Union(b.overlay.TakeDirty())
	if r.Empty() {
		return InstancesUpdate{}, false
	}

	overlay := make([]float32, 0, r.Hi-r.Lo+1)
	for i := r.Lo; i <= r.Hi; i++ {
		_, scale := b.overlay.MatrixAt(i)
		overlay = append(overlay, float32(scale))
	}
	return InstancesUpdate{
		Lo:      r.Lo,
		Hi:      r.Hi,
		Colors:  append([]float32(nil), b.markers.ColorSpan(r)...),
		Overlay: overlay,
	}, true
}
