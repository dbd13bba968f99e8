package engine

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange means an instance index does not match the registry.
// It is raised as a panic payload: the instance buffer and the registry have
// gone out of step, which is a programming error.
var ErrIndexOutOfRange = errors.New("instance index out of range")

func indexError(i, n int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, n)
}

const (
	matrixStride = 16
	colorStride  = 3
)

// DirtyRange is the inclusive span of instances written since the last upload.
type DirtyRange struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

func (d DirtyRange) Empty() bool { return d.Hi < d.Lo }

// Union returns the smallest range covering both.
func (d DirtyRange) Union(o DirtyRange) DirtyRange {
	switch {
	case d.Empty():
		return o
	case o.Empty():
		return d
	}
	return DirtyRange{Lo: min(d.Lo, o.Lo), Hi: max(d.Hi, o.Hi)}
}

// InstanceBuffer is the arena behind one batched drawable: a fixed number of
// per-instance records stored as flat attribute arrays, ready for upload.
// Transforms are 4x4 column-major matrices, colors RGB.
type InstanceBuffer struct {
	count    int
	matrices []float32
	colors   []float32

	MatrixDirty bool
	ColorDirty  bool
	dirty       DirtyRange
}

func NewInstanceBuffer(count int) *InstanceBuffer {
	return &InstanceBuffer{
		count:    count,
		matrices: make([]float32, count*matrixStride),
		colors:   make([]float32, count*colorStride),
		dirty:    DirtyRange{Lo: 0, Hi: -1},
	}
}

func (b *InstanceBuffer) Len() int { return b.count }

// SetMatrixAt writes a translate-then-uniform-scale transform for instance i.
// A zero scale hides the instance.
func (b *InstanceBuffer) SetMatrixAt(i int, pos Vec3, scale float64) {
	b.check(i)
	m := b.matrices[i*matrixStride : (i+1)*matrixStride]
	clear(m)
	s := float32(scale)
	m[0], m[5], m[10] = s, s, s
	m[12], m[13], m[14] = float32(pos.X), float32(pos.Y), float32(pos.Z)
	m[15] = 1
	b.MatrixDirty = true
	b.mark(i)
}

// MatrixAt returns the translation and scale stored for instance i.
func (b *InstanceBuffer) MatrixAt(i int) (Vec3, float64) {
	b.check(i)
	m := b.matrices[i*matrixStride : (i+1)*matrixStride]
	return Vec3{X: float64(m[12]), Y: float64(m[13]), Z: float64(m[14])}, float64(m[0])
}

func (b *InstanceBuffer) SetColorAt(i int, c Color) {
	b.check(i)
	off := i * colorStride
	b.colors[off], b.colors[off+1], b.colors[off+2] = c.R, c.G, c.B
	b.ColorDirty = true
	b.mark(i)
}

func (b *InstanceBuffer) ColorAt(i int) Color {
	b.check(i)
	off := i * colorStride
	return Color{R: b.colors[off], G: b.colors[off+1], B: b.colors[off+2]}
}

// Matrices exposes the transform attribute array. Callers must not write to it.
func (b *InstanceBuffer) Matrices() []float32 { return b.matrices }

// Colors exposes the color attribute array. Callers must not write to it.
func (b *InstanceBuffer) Colors() []float32 { return b.colors }

// ColorSpan returns the color attribute for instances lo..hi inclusive.
func (b *InstanceBuffer) ColorSpan(r DirtyRange) []float32 {
	if r.Empty() {
		return nil
	}
	b.check(r.Lo)
	b.check(r.Hi)
	return b.colors[r.Lo*colorStride : (r.Hi+1)*colorStride]
}

// Dirty reports the range written since the last TakeDirty.
func (b *InstanceBuffer) Dirty() DirtyRange { return b.dirty }

// TakeDirty returns the pending range and clears every dirty flag, as a
// backend does after uploading.
func (b *InstanceBuffer) TakeDirty() DirtyRange {
	r := b.dirty
	b.dirty = DirtyRange{Lo: 0, Hi: -1}
	b.MatrixDirty = false
	b.ColorDirty = false
	return r
}

func (b *InstanceBuffer) mark(i int) {
	if b.dirty.Empty() {
		b.dirty = DirtyRange{Lo: i, Hi: i}
		return
	}
	b.dirty.Lo = min(b.dirty.Lo, i)
	b.dirty.Hi = max(b.dirty.Hi, i)
}

func (b *InstanceBuffer) check(i int) {
	if i < 0 || i >= b.count {
		panic(indexError(i, b.count))
	}
}
