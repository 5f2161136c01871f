package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/viz"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColError   = rl.NewColor(220, 80, 80, 255)
)

type segment struct {
	x0, y0, x1, y1 int32
	color          rl.Color
}

// Window is a sim.Surface backed by a render texture. Segments are buffered
// and flushed to the texture on Pump, which also presents a frame and polls
// input. All methods must be called from the thread that opened the window.
type Window struct {
	width, height int
	target        rl.RenderTexture2D
	pending       []segment
	colors        map[string]rl.Color
	closed        bool

	// overlay draws on top of the plot each frame; input handles keys and
	// reports whether the user asked to quit.
	overlay func()
	input   func() (quit bool)
}

func newWindow(width, height int) *Window {
	w := &Window{
		width:   width,
		height:  height,
		target:  rl.LoadRenderTexture(int32(width), int32(height)),
		pending: make([]segment, 0, 1024),
		colors:  make(map[string]rl.Color),
	}
	w.Clear()
	return w
}

func (w *Window) Size() (int, int) { return w.width, w.height }

func (w *Window) Closed() bool { return w.closed }

func (w *Window) DrawSegment(x0, y0, x1, y1 int, hex string) error {
	if w.closed {
		return sim.ErrSurfaceClosed
	}
	c, ok := w.colors[hex]
	if !ok {
		parsed, err := viz.ParseHex(hex)
		if err != nil {
			return err
		}
		c = rl.NewColor(parsed.R, parsed.G, parsed.B, 255)
		w.colors[hex] = c
	}

	x0, y0, x1, y1, visible := viz.ClipLine(x0, y0, x1, y1, w.width, w.height)
	if !visible {
		return nil
	}
	w.pending = append(w.pending, segment{int32(x0), int32(y0), int32(x1), int32(y1), c})
	return nil
}

func (w *Window) flush() {
	if len(w.pending) == 0 {
		return
	}
	rl.BeginTextureMode(w.target)
	for _, s := range w.pending {
		rl.DrawLine(s.x0, s.y0, s.x1, s.y1, s.color)
	}
	rl.EndTextureMode()
	w.pending = w.pending[:0]
}

// Pump flushes buffered segments, presents a frame and handles input. It
// returns sim.ErrSurfaceClosed once the window has been closed.
func (w *Window) Pump() error {
	if w.closed {
		return sim.ErrSurfaceClosed
	}
	w.flush()

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	// render textures are stored upside down
	src := rl.NewRectangle(0, 0, float32(w.width), -float32(w.height))
	rl.DrawTextureRec(w.target.Texture, src, rl.NewVector2(0, 0), rl.White)
	if w.overlay != nil {
		w.overlay()
	}
	rl.EndDrawing()

	if rl.WindowShouldClose() || (w.input != nil && w.input()) {
		w.closed = true
		return sim.ErrSurfaceClosed
	}
	return nil
}

func (w *Window) Clear() error {
	w.pending = w.pending[:0]
	rl.BeginTextureMode(w.target)
	rl.ClearBackground(ColBg)
	rl.EndTextureMode()
	return nil
}

func (w *Window) unload() {
	rl.UnloadRenderTexture(w.target)
}
