// Package raster draws an engine's scene into an image on the CPU. It backs
// the venue snapshot endpoint and works without a GPU.
package raster

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/inamate/seatmap/internal/engine"
)

// minFontPx is the smallest label size worth drawing.
const minFontPx = 4

// Renderer holds the label font. It is safe to share between goroutines as
// long as each engine is only rendered by one of them at a time.
type Renderer struct {
	font       *text.FontSource
	background gg.RGBA
}

func NewRenderer() (*Renderer, error) {
	font, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load label font: %w", err)
	}
	return &Renderer{font: font, background: gg.White}, nil
}

func (r *Renderer) Close() error {
	return r.font.Close()
}

// Image renders the engine's current frame as seen by its camera.
func (r *Renderer) Image(e *engine.Engine, vp engine.Viewport) (image.Image, error) {
	dc, err := r.draw(e, vp)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	_ = dc.FlushGPU()
	return dc.Image(), nil
}

// EncodePNG renders the frame and writes it to w as PNG.
func (r *Renderer) EncodePNG(w io.Writer, e *engine.Engine, vp engine.Viewport) error {
	dc, err := r.draw(e, vp)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Renderer) draw(e *engine.Engine, vp engine.Viewport) (*gg.Context, error) {
	w, h := int(math.Round(vp.Width)), int(math.Round(vp.Height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid viewport %vx%v", vp.Width, vp.Height)
	}

	cam := e.Camera()
	view := cam.ViewMatrix(vp)
	scale := cam.PixelsPerUnit(vp)

	dc := gg.NewContext(w, h)
	dc.ClearWithColor(r.background)

	for _, cmd := range e.DrawCommands() {
		switch cmd.Op {
		case engine.OpShape:
			x, y := view.TransformPoint(cmd.X, cmd.Y)
			sw, sh := cmd.Width*scale, cmd.Height*scale
			dc.SetHexColor(cmd.Fill)
			dc.DrawRectangle(x-sw/2, y-sh/2, sw, sh)
			_ = dc.Fill()

		case engine.OpInstances:
			buf := e.Batch().Markers()
			if cmd.Batch == engine.BatchOverlay {
				buf = e.Batch().Overlay()
			}
			drawInstances(dc, buf, cmd, view, scale)

		case engine.OpLabel:
			px := cmd.FontSize * scale
			if px < minFontPx || cmd.Text == "" {
				continue
			}
			x, y := view.TransformPoint(cmd.X, cmd.Y)
			dc.SetFont(r.font.Face(px))
			dc.SetHexColor(cmd.Fill)
			dc.DrawStringAnchored(cmd.Text, x, y, 0.5, 0.5)
		}
	}
	return dc, nil
}

// drawInstances draws every visible instance of a batch. Instances with a
// zero scale are hidden.
func drawInstances(dc *gg.Context, buf *engine.InstanceBuffer, cmd engine.DrawCommand, view engine.Matrix2D, scale float64) {
	for i := 0; i < buf.Len(); i++ {
		pos, s := buf.MatrixAt(i)
		if s == 0 {
			continue
		}
		x, y := view.TransformPoint(pos.X, pos.Y)
		size := cmd.Size * s * scale
		c := buf.ColorAt(i)
		dc.SetRGB(float64(c.R), float64(c.G), float64(c.B))
		if cmd.Geometry == "square" {
			dc.DrawRectangle(x-size/2, y-size/2, size, size)
		} else {
			dc.DrawCircle(x, y, size)
		}
		_ = dc.Fill()
	}
}
