package engine

import "math"

type cell struct{ x, y int }

// Picker resolves a point on the marker plane to the seat under it. It is the
// picking facility for hosts without a GPU picker: a uniform grid over the
// marker positions with cells one marker diameter wide.
type Picker struct {
	radius float64
	size   float64
	cells  map[cell][]int
	pos    []Vec3
}

func NewPicker(markers []Marker, radius float64) *Picker {
	if radius <= 0 {
		radius = 1
	}
	p := &Picker{
		radius: radius,
		size:   radius * 2,
		cells:  make(map[cell][]int),
		pos:    make([]Vec3, len(markers)),
	}
	for _, m := range markers {
		p.pos[m.Index] = m.Position
		c := p.cellOf(m.Position.X, m.Position.Y)
		p.cells[c] = append(p.cells[c], m.Index)
	}
	return p
}

func (p *Picker) cellOf(x, y float64) cell {
	return cell{int(math.Floor(x / p.size)), int(math.Floor(y / p.size))}
}

// Pick returns the nearest marker whose disc contains (x, y), in render space.
func (p *Picker) Pick(x, y float64) (int, bool) {
	c := p.cellOf(x, y)
	best, bestD := NoIndex, p.radius*p.radius
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, i := range p.cells[cell{c.x + dx, c.y + dy}] {
				ddx, ddy := p.pos[i].X-x, p.pos[i].Y-y
				if d := ddx*ddx + ddy*ddy; d <= bestD {
					best, bestD = i, d
				}
			}
		}
	}
	return best, best != NoIndex
}

// PickScreen maps a screen point through the camera and picks on the plane.
func (p *Picker) PickScreen(cam Camera, vp Viewport, sx, sy float64) (int, bool) {
	x, y := cam.ScreenToWorld(sx, sy, vp)
	return p.Pick(x, y)
}
