package sim

import "errors"

// ErrSurfaceClosed is returned by surfaces whose drawable has been torn down.
var ErrSurfaceClosed = errors.New("sim: surface closed")

// Surface is the drawing target of a run. Any error from either method means
// the drawable is gone; the run stops without retrying.
type Surface interface {
	// DrawSegment draws a line between two pixels in #rrggbb color.
	DrawSegment(x0, y0, x1, y1 int, color string) error
	// Pump flushes pending draws and services the surface's own events.
	Pump() error
}

// Clearer is implemented by surfaces that can be wiped before a new plot.
type Clearer interface {
	Clear() error
}

// Sizer is implemented by surfaces with a fixed pixel size.
type Sizer interface {
	Size() (width, height int)
}
