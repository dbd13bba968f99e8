package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/inamate/seatmap/internal/config"
	"github.com/inamate/seatmap/internal/engine"
	"github.com/inamate/seatmap/internal/raster"
	"github.com/inamate/seatmap/internal/venue"
)

const (
	dollyStep = 0.95
	// Pointer travel in pixels below which a press-release is a click.
	clickSlop = 4
)

var tooltipBackground = color.RGBA{0x20, 0x20, 0x20, 0xe0}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	opts, err := engine.OptionsFromConfig(cfg.Engine)
	if err != nil {
		slog.Error("engine options", "error", err)
		os.Exit(1)
	}

	stores := venue.Fallback{venue.SampleStore{ID: cfg.VenueID}}
	if cfg.VenueDir != "" {
		stores = append(venue.Fallback{venue.FileStore{Dir: cfg.VenueDir}}, stores...)
	}
	v, _, err := stores.Load(context.Background(), cfg.VenueID)
	if err != nil {
		slog.Error("load venue", "venue", cfg.VenueID, "error", err)
		os.Exit(1)
	}

	renderer, err := raster.NewRenderer()
	if err != nil {
		slog.Error("create renderer", "error", err)
		os.Exit(1)
	}
	defer renderer.Close()

	g := &viewer{
		eng:      engine.New(v, opts),
		renderer: renderer,
	}

	ebiten.SetWindowTitle(fmt.Sprintf("Seat map (%s)", v.ID))
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		slog.Error("run viewer", "error", err)
		os.Exit(1)
	}
}

// viewer hosts one engine in a desktop window. Input is translated into
// engine commands in Update; the frame is re-rasterised only when the engine
// asks for one.
type viewer struct {
	eng      *engine.Engine
	renderer *raster.Renderer

	frame *ebiten.Image

	cursorX, cursorY int
	pressed          bool
	pressX, pressY   int
	dragged          bool

	touchIDs []ebiten.TouchID
}

func (g *viewer) Update() error {
	// Touch releases are not delivered while unfocused.
	g.eng.SetGesturesEnabled(ebiten.IsFocused())
	g.keyboard()
	g.mouse()
	g.touches()
	return nil
}

func (g *viewer) keyboard() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		g.eng.ZoomIn()
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		g.eng.ZoomOut()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.eng.ResetView()
	}
}

func (g *viewer) mouse() {
	mx, my := ebiten.CursorPosition()
	moved := mx != g.cursorX || my != g.cursorY
	dx, dy := float64(mx-g.cursorX), float64(my-g.cursorY)
	g.cursorX, g.cursorY = mx, my

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pressed = true
		g.dragged = false
		g.pressX, g.pressY = mx, my
	}

	if g.pressed && moved {
		if !g.dragged && (abs(mx-g.pressX) > clickSlop || abs(my-g.pressY) > clickSlop) {
			g.dragged = true
		}
		if g.dragged {
			g.eng.Pan(dx, dy)
		}
	} else if moved {
		g.eng.PointerAt(float64(mx), float64(my))
	}

	if g.pressed && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.pressed = false
		if !g.dragged {
			g.eng.ClickAt(float64(mx), float64(my))
		}
	}

	if _, wy := ebiten.Wheel(); wy > 0 {
		g.eng.Dolly(dollyStep)
	} else if wy < 0 {
		g.eng.Dolly(1 / dollyStep)
	}
}

func (g *viewer) touches() {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) >= 2 {
		points := make([]engine.TouchPoint, 0, len(g.touchIDs))
		for _, id := range g.touchIDs {
			x, y := ebiten.TouchPosition(id)
			points = append(points, engine.TouchPoint{ID: int(id), X: float64(x), Y: float64(y)})
		}
		g.eng.TouchMove(points)
	}

	if released := inpututil.AppendJustReleasedTouchIDs(nil); len(released) > 0 {
		g.eng.TouchEnd(len(g.touchIDs))
	}
}

func (g *viewer) Draw(screen *ebiten.Image) {
	if g.eng.TakeFrame() || g.frame == nil {
		g.rasterise()
	}
	if g.frame != nil {
		screen.DrawImage(g.frame, nil)
	}
	g.drawTooltip(screen)
}

func (g *viewer) rasterise() {
	img, err := g.renderer.Image(g.eng, g.eng.Viewport())
	if err != nil {
		slog.Warn("render frame", "error", err)
		return
	}
	if g.frame != nil {
		g.frame.Deallocate()
	}
	g.frame = ebiten.NewImageFromImage(img)
}

func (g *viewer) drawTooltip(screen *ebiten.Image) {
	tip := g.eng.Tooltip()
	if !tip.Visible {
		return
	}
	x, y := int(math.Round(tip.X))+12, int(math.Round(tip.Y))+12
	w := 6*len(tip.Content) + 8
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), 20, tooltipBackground, false)
	ebitenutil.DebugPrintAt(screen, tip.Content, x+4, y+2)
}

func (g *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := engine.Viewport{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if vp != g.eng.Viewport() {
		g.eng.SetViewport(vp)
	}
	return outsideWidth, outsideHeight
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
