package engine

import "log/slog"

// NavigatorOptions are the camera constants of the seat map.
type NavigatorOptions struct {
	Home          Vec3
	FOV           float64
	FramingDepth  float64 // camera height when framed on a seat
	NearField     float64 // no recentering while closer than this to the target
	ZoomMin       float64
	ZoomMax       float64
	ZoomIncrement float64
	MinDistance   float64
	MaxDistance   float64
}

func DefaultNavigatorOptions() NavigatorOptions {
	return NavigatorOptions{
		Home:          Vec3{X: 0, Y: 10, Z: 500},
		FOV:           120,
		FramingDepth:  200,
		NearField:     250,
		ZoomMin:       0.1,
		ZoomMax:       10,
		ZoomIncrement: 0.1,
		MinDistance:   50,
		MaxDistance:   500,
	}
}

// Navigator keeps the camera in its overview pose or framed on a seat and
// applies discrete and pinch zoom. It is the only mutator of the camera.
type Navigator struct {
	opts   NavigatorOptions
	cam    Camera
	orbit  *OrbitControls
	pinch  PinchTracker
	framed string
}

func NewNavigator(opts NavigatorOptions) *Navigator {
	n := &Navigator{
		opts: opts,
		orbit: &OrbitControls{
			MinDistance: opts.MinDistance,
			MaxDistance: opts.MaxDistance,
		},
	}
	n.Reset()
	n.pinch.Start()
	return n
}

func (n *Navigator) Camera() Camera            { return n.cam }
func (n *Navigator) Orbit() *OrbitControls     { return n.orbit }
func (n *Navigator) Pinch() *PinchTracker      { return &n.pinch }
func (n *Navigator) Framed() string            { return n.framed }
func (n *Navigator) Options() NavigatorOptions { return n.opts }

// Reset returns to the overview pose and forgets the framed seat.
func (n *Navigator) Reset() {
	n.cam = Camera{
		Position: n.opts.Home,
		Zoom:     1,
		FOV:      n.opts.FOV,
	}
	n.orbit.SetTarget(Vec3{})
	n.orbit.Update(&n.cam)
	n.framed = ""
}

// RecenterOn frames the camera on the seat id at render-space (x, y). It does
// nothing when that seat is already framed or when the camera is already
// inside the near field. It reports whether the camera moved.
func (n *Navigator) RecenterOn(id string, x, y float64) bool {
	if id == n.framed {
		return false
	}
	if n.cam.Depth() < n.opts.NearField {
		slog.Debug("recenter skipped inside near field", "id", id, "depth", n.cam.Depth())
		return false
	}
	n.cam.Position = Vec3{X: x, Y: y, Z: n.opts.FramingDepth}
	n.orbit.SetTarget(Vec3{X: x, Y: y})
	n.orbit.Update(&n.cam)
	n.framed = id
	slog.Debug("camera framed seat", "id", id, "x", x, "y", y)
	return true
}

// ZoomStep moves the zoom factor one increment in dir, saturating at the
// bounds. It reports whether the factor changed.
func (n *Navigator) ZoomStep(dir ZoomDirection) bool {
	prev := n.cam.Zoom
	switch dir {
	case ZoomIn:
		n.cam.Zoom = min(n.cam.Zoom+n.opts.ZoomIncrement, n.opts.ZoomMax)
	case ZoomOut:
		n.cam.Zoom = max(n.cam.Zoom-n.opts.ZoomIncrement, n.opts.ZoomMin)
	}
	return n.cam.Zoom != prev
}

// TouchMove feeds the pinch tracker and applies the resulting zoom step.
func (n *Navigator) TouchMove(touches []TouchPoint) (ZoomDirection, bool) {
	dir := n.pinch.Move(touches)
	if dir == ZoomNone {
		return ZoomNone, false
	}
	return dir, n.ZoomStep(dir)
}

// TouchEnd tells the pinch tracker how many touches remain.
func (n *Navigator) TouchEnd(remaining int) {
	n.pinch.End(remaining)
}

// Pan moves the view by a screen-space drag.
func (n *Navigator) Pan(dxScreen, dyScreen float64, vp Viewport) bool {
	if dxScreen == 0 && dyScreen == 0 {
		return false
	}
	s := n.cam.PixelsPerUnit(vp)
	n.orbit.Pan(&n.cam, -dxScreen/s, dyScreen/s)
	return true
}

// Dolly moves the camera towards (factor < 1) or away from (factor > 1) the
// target within the orbit distance limits.
func (n *Navigator) Dolly(factor float64) bool {
	return n.orbit.Dolly(&n.cam, factor)
}
