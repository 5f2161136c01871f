package viz

import "sort"

// Themed palettes cycle through a theme's primary, secondary and accent
// colors.
var (
	ThemeCyberpunk = []Color{
		{0xff, 0x00, 0xff}, // magenta
		{0x00, 0xff, 0xff}, // cyan
		{0xff, 0xff, 0x00}, // yellow
	}

	ThemeRetroGreen = []Color{
		{0x00, 0xff, 0x00},
		{0x00, 0x66, 0x00},
		{0x88, 0xff, 0x88},
	}

	ThemeOcean = []Color{
		{0x00, 0x77, 0xbe},
		{0x00, 0xa8, 0xcc},
		{0xff, 0xd7, 0x00},
	}

	ThemeSunset = []Color{
		{0xff, 0x6b, 0x6b}, // coral
		{0xfe, 0xca, 0x57},
		{0xff, 0x9f, 0xf3},
	}
)

func init() {
	namedPalettes["cyberpunk"] = ThemeCyberpunk
	namedPalettes["retro"] = ThemeRetroGreen
	namedPalettes["ocean"] = ThemeOcean
	namedPalettes["sunset"] = ThemeSunset
}

// PaletteNames lists the built-in palettes.
func PaletteNames() []string {
	names := make([]string, 0, len(namedPalettes))
	for name := range namedPalettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
