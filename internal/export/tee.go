package export

import "github.com/san-kum/chaosplot/internal/sim"

// Tee draws every segment on several surfaces. The first failure stops the
// fan-out and is returned. Size comes from the first surface that has one.
type Tee []sim.Surface

func (t Tee) DrawSegment(x0, y0, x1, y1 int, color string) error {
	for _, s := range t {
		if err := s.DrawSegment(x0, y0, x1, y1, color); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) Pump() error {
	for _, s := range t {
		if err := s.Pump(); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) Clear() error {
	for _, s := range t {
		if c, ok := s.(sim.Clearer); ok {
			if err := c.Clear(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t Tee) Size() (int, int) {
	for _, s := range t {
		if sz, ok := s.(sim.Sizer); ok {
			return sz.Size()
		}
	}
	return 0, 0
}
