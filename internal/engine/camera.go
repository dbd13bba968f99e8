package engine

import "math"

// Camera is the perspective camera over the seat map. Zoom narrows the field
// of view the way a lens zoom does; it does not move the camera.
type Camera struct {
	Position Vec3    `json:"position"`
	Target   Vec3    `json:"target"`
	Zoom     float64 `json:"zoom"`
	FOV      float64 `json:"fov"` // vertical, degrees
}

// Distance is the straight-line distance from the camera to its target.
func (c Camera) Distance() float64 {
	d := c.Position.Sub(c.Target)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// Depth is the camera's height above its target along the depth axis.
func (c Camera) Depth() float64 {
	return c.Position.Z - c.Target.Z
}

// Viewport is the size of the drawing surface in screen pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PixelsPerUnit is the screen scale of the marker plane. The camera is
// treated as looking straight down at its target.
func (c Camera) PixelsPerUnit(vp Viewport) float64 {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	half := c.Distance() * math.Tan(c.FOV*math.Pi/360) / zoom
	if half <= 0 || vp.Height <= 0 {
		return 1
	}
	return (vp.Height / 2) / half
}

// ViewMatrix maps render-space X/Y onto screen pixels. Screen Y grows
// downwards, render Y upwards.
func (c Camera) ViewMatrix(vp Viewport) Matrix2D {
	s := c.PixelsPerUnit(vp)
	return Translate(vp.Width/2, vp.Height/2).
		Multiply(Scale(s, -s)).
		Multiply(Translate(-c.Target.X, -c.Target.Y))
}

func (c Camera) WorldToScreen(p Vec3, vp Viewport) (float64, float64) {
	return c.ViewMatrix(vp).TransformPoint(p.X, p.Y)
}

func (c Camera) ScreenToWorld(sx, sy float64, vp Viewport) (float64, float64) {
	return c.ViewMatrix(vp).Invert().TransformPoint(sx, sy)
}

// OrbitControls is the pan/dolly controller attached to the camera. Rotation
// is disabled; the camera always keeps its offset from the target.
type OrbitControls struct {
	Target      Vec3
	MinDistance float64
	MaxDistance float64
}

// SetTarget moves the orbit target without touching the camera.
func (o *OrbitControls) SetTarget(t Vec3) {
	o.Target = t
}

// Update pulls the camera's look-at point onto the controls' target.
func (o *OrbitControls) Update(cam *Camera) {
	cam.Target = o.Target
}

// Pan shifts camera and target together across the marker plane.
func (o *OrbitControls) Pan(cam *Camera, dx, dy float64) {
	delta := Vec3{X: dx, Y: dy}
	o.Target = o.Target.Add(delta)
	cam.Position = cam.Position.Add(delta)
	cam.Target = o.Target
}

// Dolly scales the camera's distance to the target by factor, clamped to
// [MinDistance, MaxDistance]. It reports whether the camera moved.
func (o *OrbitControls) Dolly(cam *Camera, factor float64) bool {
	offset := cam.Position.Sub(o.Target)
	dist := math.Sqrt(offset.X*offset.X + offset.Y*offset.Y + offset.Z*offset.Z)
	if dist == 0 || factor <= 0 {
		return false
	}
	next := dist * factor
	if o.MinDistance > 0 && next < o.MinDistance {
		next = o.MinDistance
	}
	if o.MaxDistance > 0 && next > o.MaxDistance {
		next = o.MaxDistance
	}
	if math.Abs(next-dist) < 1e-9 {
		return false
	}
	k := next / dist
	cam.Position = o.Target.Add(Vec3{X: offset.X * k, Y: offset.Y * k, Z: offset.Z * k})
	cam.Target = o.Target
	return true
}
