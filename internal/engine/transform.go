package engine

// Vec3 is a point in render space. X and Y are the theatre plane, Z is depth
// towards the camera.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Dimensions is the theatre envelope shared by seats, shapes and labels.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layer fixes the draw and occlusion order of everything on the seat map.
type Layer int

const (
	LayerShapes Layer = iota
	LayerMarkers
	LayerOverlay
	LayerLabels
)

// Depth is the Z offset assigned to a layer. Labels sit in front of overlays,
// overlays in front of markers, markers in front of shapes.
func (l Layer) Depth() float64 {
	return float64(l)
}

func (l Layer) String() string {
	switch l {
	case LayerShapes:
		return "shapes"
	case LayerMarkers:
		return "markers"
	case LayerOverlay:
		return "overlay"
	case LayerLabels:
		return "labels"
	}
	return "unknown"
}

// ToRenderSpace converts a theatre-local domain position into the centered
// render space: render = dimension/2 - domain on each planar axis.
func ToRenderSpace(x, y float64, dims Dimensions, layer Layer) Vec3 {
	return Vec3{
		X: dims.Width/2 - x,
		Y: dims.Height/2 - y,
		Z: layer.Depth(),
	}
}

// ToDomainSpace inverts ToRenderSpace for the planar axes.
func ToDomainSpace(p Vec3, dims Dimensions) (x, y float64) {
	return dims.Width/2 - p.X, dims.Height/2 - p.Y
}
