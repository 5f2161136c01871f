package viz

import (
	"strings"
	"testing"
)

func TestColorHex(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{RGB(0, 191, 127), "#00bf7f"},
		{RGB(0, 0, 0), "#000000"},
		{RGB(255, 10, 1), "#ff0a01"},
	}

	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("Hex(%v) = %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#bf7f00")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if c != RGB(191, 127, 0) {
		t.Errorf("unexpected color %v", c)
	}

	if _, err := ParseHex("bogus"); err == nil {
		t.Error("expected error for malformed color")
	}
}

func TestStdPaletteAnchors(t *testing.T) {
	p := StdPalette()

	if got := p.Hex(0); got != "#00bf7f" {
		t.Errorf("col(0) = %s, want #00bf7f", got)
	}
	if got := p.Hex(256); got != "#bf7f00" {
		t.Errorf("col(256) = %s, want #bf7f00", got)
	}
	if got := p.Hex(512); got != "#7f00bf" {
		t.Errorf("col(512) = %s, want #7f00bf", got)
	}
}

func TestPalettePeriodic(t *testing.T) {
	p := StdPalette()

	if p.Period() != 768 {
		t.Fatalf("expected period 768, got %d", p.Period())
	}
	for _, i := range []int{0, 1, 17, 255, 300, 767} {
		if p.Color(i) != p.Color(i+p.Period()) {
			t.Errorf("col(%d) != col(%d)", i, i+p.Period())
		}
	}
	if p.Color(-1) != p.Color(p.Period()-1) {
		t.Error("negative indices should wrap")
	}
}

func TestPaletteInterpolationFloors(t *testing.T) {
	p := StdPalette()

	// halfway between (0,191,127) and (191,127,0): 95.5, 159, 63.5
	if got := p.Color(128); got != RGB(95, 159, 63) {
		t.Errorf("col(128) = %v, want (95,159,63)", got)
	}
	// one step past anchor 0: 191/256 = 0.746, 191*255/256 + 127/256 = 190.75, 127*255/256 = 126.50
	if got := p.Color(1); got != RGB(0, 190, 126) {
		t.Errorf("col(1) = %v, want (0,190,126)", got)
	}
}

func TestPaletteSingleAnchor(t *testing.T) {
	p, err := NewPalette(4, RGB(10, 20, 30))
	if err != nil {
		t.Fatalf("new palette: %v", err)
	}
	for i := 0; i < 8; i++ {
		if p.Color(i) != RGB(10, 20, 30) {
			t.Errorf("col(%d) = %v", i, p.Color(i))
		}
	}
}

func TestNewPaletteValidation(t *testing.T) {
	if _, err := NewPalette(0, StdAnchors...); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := NewPalette(10); err == nil {
		t.Error("expected error for no anchors")
	}
	if _, err := NamedPalette("nope", 10); err == nil {
		t.Error("expected error for unknown palette")
	}
}

func TestPaletteHexFormat(t *testing.T) {
	p := StdPalette()
	for i := 0; i < p.Period(); i += 7 {
		h := p.Hex(i)
		if len(h) != 7 || !strings.HasPrefix(h, "#") || strings.ToLower(h) != h {
			t.Fatalf("malformed hex %q at %d", h, i)
		}
	}
}

func TestNamedPalettes(t *testing.T) {
	names := PaletteNames()
	want := []string{"cyberpunk", "ocean", "retro", "std", "sunset"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, names)
	}

	for _, name := range names {
		p, err := NamedPalette(name, 4)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.Period() != 12 {
			t.Errorf("%s: expected period 12, got %d", name, p.Period())
		}
	}

	p, _ := NamedPalette("cyberpunk", 2)
	if got := p.Hex(1); got != "#7f7fff" {
		t.Errorf("expected #7f7fff halfway from magenta to cyan, got %s", got)
	}
}
