package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"sync"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/viz"
)

// ImageSurface strokes segments into an RGBA image with one-pixel
// antialiased lines.
type ImageSurface struct {
	mu         sync.Mutex
	img        *image.RGBA
	gc         *drawing.RasterGraphicContext
	background viz.Color
	colors     map[string]drawing.Color
	onPump     func(*image.RGBA) error
	closed     bool
}

func NewImageSurface(width, height int) *ImageSurface {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	// only fails for image types other than *image.RGBA
	gc, _ := drawing.NewRasterGraphicContext(img)
	gc.SetLineWidth(1)
	gc.SetLineCap(drawing.SquareCap)

	s := &ImageSurface{
		img:        img,
		gc:         gc,
		background: DefaultBackground,
		colors:     make(map[string]drawing.Color),
	}
	s.fill()
	return s
}

// OnPump registers a hook that sees the image on every Pump, e.g. to append
// a video frame. A hook error is returned from Pump and ends the run.
func (s *ImageSurface) OnPump(fn func(*image.RGBA) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPump = fn
}

func (s *ImageSurface) SetBackground(c viz.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
	s.fill()
}

func (s *ImageSurface) fill() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.background.RGBA()), image.Point{}, draw.Src)
}

func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSurface) DrawSegment(x0, y0, x1, y1 int, hex string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return sim.ErrSurfaceClosed
	}
	c, err := s.color(hex)
	if err != nil {
		return err
	}
	w, h := s.Size()
	x0, y0, x1, y1, ok := viz.ClipLine(x0, y0, x1, y1, w, h)
	if !ok {
		return nil
	}

	// pixel centers, so a unit-wide stroke covers whole pixels
	s.gc.SetStrokeColor(c)
	s.gc.MoveTo(float64(x0)+0.5, float64(y0)+0.5)
	s.gc.LineTo(float64(x1)+0.5, float64(y1)+0.5)
	s.gc.Stroke()
	return nil
}

func (s *ImageSurface) color(hex string) (drawing.Color, error) {
	if c, ok := s.colors[hex]; ok {
		return c, nil
	}
	parsed, err := viz.ParseHex(hex)
	if err != nil {
		return drawing.Color{}, err
	}
	c := drawing.Color{R: parsed.R, G: parsed.G, B: parsed.B, A: 255}
	s.colors[hex] = c
	return c, nil
}

func (s *ImageSurface) Pump() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return sim.ErrSurfaceClosed
	}
	if s.onPump != nil {
		return s.onPump(s.img)
	}
	return nil
}

func (s *ImageSurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill()
	return nil
}

func (s *ImageSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Image returns a copy of the current raster.
func (s *ImageSurface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := image.NewRGBA(s.img.Bounds())
	copy(cp.Pix, s.img.Pix)
	return cp
}

// Caption draws a line of text in the top-left corner.
func (s *ImageSurface) Caption(text string, c viz.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addLabel(s.img, 6, 16, text, c.RGBA())
}

// Save encodes the image as PNG.
func (s *ImageSurface) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	s.mu.Lock()
	err = png.Encode(f, s.img)
	s.mu.Unlock()
	if err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

func addLabel(img *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}
