package engine

// MarkerBatch owns the batched drawables for the seat markers: one instance
// per seat for the base markers and one for the selection overlay squares.
// Transforms are written once; interaction only rewrites colors and the
// overlay's visibility.
type MarkerBatch struct {
	reg     *Registry
	palette Palette
	radius  float64

	markers *InstanceBuffer
	overlay *InstanceBuffer
}

// NewMarkerBatch lays out every instance from the registry.
func NewMarkerBatch(reg *Registry, palette Palette, radius float64) *MarkerBatch {
	n := reg.Len()
	b := &MarkerBatch{
		reg:     reg,
		palette: palette,
		radius:  radius,
		markers: NewInstanceBuffer(n),
		overlay: NewInstanceBuffer(n),
	}
	for i := 0; i < n; i++ {
		b.writeTransform(i)
		b.writeColor(i)
	}
	return b
}

// UpdateInstance rewrites instance i after a state change and marks the
// buffers dirty. With colorOnly the stored transforms are kept; seats never
// move, so that is the normal path.
func (b *MarkerBatch) UpdateInstance(i int, colorOnly bool) {
	if !b.reg.InRange(i) {
		panic(indexError(i, b.reg.Len()))
	}
	if !colorOnly {
		b.writeTransform(i)
	}
	b.writeColor(i)
}

func (b *MarkerBatch) writeTransform(i int) {
	b.markers.SetMatrixAt(i, b.reg.markers[i].Position, 1)
}

func (b *MarkerBatch) writeColor(i int) {
	b.markers.SetColorAt(i, b.palette.For(b.reg.Class(i)))

	pos := b.reg.markers[i].Position
	pos.Z = LayerOverlay.Depth()
	scale := 0.0
	if b.reg.selected[i] {
		scale = 1
	}
	b.overlay.SetMatrixAt(i, pos, scale)
	b.overlay.SetColorAt(i, b.palette.Overlay)
}

func (b *MarkerBatch) Markers() *InstanceBuffer { return b.markers }
func (b *MarkerBatch) Overlay() *InstanceBuffer { return b.overlay }
func (b *MarkerBatch) Radius() float64          { return b.radius }

// OverlaySize is the edge length of the square drawn over selected seats.
func (b *MarkerBatch) OverlaySize() float64 { return b.radius / 1.5 }
