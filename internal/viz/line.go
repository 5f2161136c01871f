package viz

import "math"

// Line rasterizes the segment (x0,y0)-(x1,y1) with Bresenham's algorithm,
// calling plot for every pixel inside [0,w) x [0,h).
func Line(x0, y0, x1, y1, w, h int, plot func(x, y int)) {
	x0, y0, x1, y1, ok := ClipLine(x0, y0, x1, y1, w, h)
	if !ok {
		return
	}

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// ClipLine clips a segment to [0,w) x [0,h) (Liang-Barsky). ok is false when
// nothing of the segment is visible.
func ClipLine(x0, y0, x1, y1, w, h int) (cx0, cy0, cx1, cy1 int, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	fx0, fy0 := float64(x0), float64(y0)
	dx, dy := float64(x1-x0), float64(y1-y0)
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, fx0},
		{dx, float64(w-1) - fx0},
		{-dy, fy0},
		{dy, float64(h-1) - fy0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}

	return int(math.Round(fx0 + t0*dx)), int(math.Round(fy0 + t0*dy)),
		int(math.Round(fx0 + t1*dx)), int(math.Round(fy0 + t1*dy)), true
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
