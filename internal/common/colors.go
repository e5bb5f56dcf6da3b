package common

import (
	"image/color"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
)

// Palette is the resolved set of colors used to draw the board and header
type Palette struct {
	Hidden   color.RGBA
	Revealed color.RGBA
	Mine     color.RGBA
	MineHit  color.RGBA
	Flag     color.RGBA

	Background color.RGBA
	GridLines  color.RGBA
	Header     color.RGBA
	Counter    color.RGBA
	Text       color.RGBA

	// Numbers[0] colors a "1", Numbers[7] an "8"
	Numbers [8]color.RGBA
}

// Fixed colors that are not themable
var (
	FaceColor      = color.RGBA{255, 220, 0, 255}
	CounterBgColor = color.RGBA{0, 0, 0, 255}
	OverlayColor   = color.RGBA{0, 0, 0, 160}
)

// DefaultPalette mirrors the built-in config defaults
var DefaultPalette = Palette{
	Hidden:     color.RGBA{189, 189, 189, 255},
	Revealed:   color.RGBA{225, 225, 225, 255},
	Mine:       color.RGBA{20, 20, 20, 255},
	MineHit:    color.RGBA{220, 40, 40, 255},
	Flag:       color.RGBA{230, 60, 30, 255},
	Background: color.RGBA{150, 150, 150, 255},
	GridLines:  color.RGBA{123, 123, 123, 255},
	Header:     color.RGBA{189, 189, 189, 255},
	Counter:    color.RGBA{255, 0, 0, 255},
	Text:       color.RGBA{0, 0, 0, 255},
	Numbers: [8]color.RGBA{
		{0, 0, 255, 255},
		{0, 128, 0, 255},
		{255, 0, 0, 255},
		{0, 0, 128, 255},
		{128, 0, 0, 255},
		{0, 128, 128, 255},
		{0, 0, 0, 255},
		{128, 128, 128, 255},
	},
}

// RGB converts a config triple into an opaque color, clamping each channel
func RGB(c [3]int) color.RGBA {
	return color.RGBA{
		R: uint8(Clamp(c[0], 0, 255)),
		G: uint8(Clamp(c[1], 0, 255)),
		B: uint8(Clamp(c[2], 0, 255)),
		A: 255,
	}
}

// NewPalette builds a palette from configuration. Missing number colors
// fall back to the defaults.
func NewPalette(c config.ColorsConfig) Palette {
	p := Palette{
		Hidden:     RGB(c.Tiles.Hidden),
		Revealed:   RGB(c.Tiles.Revealed),
		Mine:       RGB(c.Tiles.Mine),
		MineHit:    RGB(c.Tiles.MineHit),
		Flag:       RGB(c.Tiles.Flag),
		Background: RGB(c.UI.Background),
		GridLines:  RGB(c.UI.GridLines),
		Header:     RGB(c.UI.Header),
		Counter:    RGB(c.UI.Counter),
		Text:       RGB(c.UI.Text),
		Numbers:    DefaultPalette.Numbers,
	}
	for i := 0; i < len(c.Numbers) && i < len(p.Numbers); i++ {
		p.Numbers[i] = RGB(c.Numbers[i])
	}
	return p
}

// NumberColor returns the color for an adjacency count between 1 and 8
func (p Palette) NumberColor(n int) color.RGBA {
	if n < 1 || n > len(p.Numbers) {
		return p.Text
	}
	return p.Numbers[n-1]
}
