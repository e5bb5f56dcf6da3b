package renderer

import (
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/minesweeper/internal/common"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

const (
	headerPadding = 8
	counterDigits = 3
	// The timer display saturates here
	maxTimerSeconds = 999
)

// FaceRect returns the restart button area for a header of the given size
func FaceRect(width, headerHeight int) image.Rectangle {
	size := headerHeight - 2*headerPadding
	if size < 0 {
		size = 0
	}
	x := (width - size) / 2
	return image.Rect(x, headerPadding, x+size, headerPadding+size)
}

// Face returns the face shown on the restart button
func Face(status core.GameStatus, pressing bool) string {
	switch {
	case status == core.StatusLost:
		return "X("
	case status == core.StatusWon:
		return "B)"
	case pressing:
		return ":O"
	default:
		return ":)"
	}
}

// TimerValue converts elapsed time to whole seconds for the display
func TimerValue(elapsed time.Duration) int {
	return common.Clamp(int(elapsed/time.Second), 0, maxTimerSeconds)
}

// HeaderRenderer draws the mine counter, restart face and timer
type HeaderRenderer struct {
	height      int
	defaultFont font.Face
	palette     common.Palette
}

func NewHeaderRenderer(height int, f font.Face, p common.Palette) *HeaderRenderer {
	return &HeaderRenderer{height: height, defaultFont: f, palette: p}
}

func (hr *HeaderRenderer) SetHeight(h int)             { hr.height = h }
func (hr *HeaderRenderer) SetPalette(p common.Palette) { hr.palette = p }
func (hr *HeaderRenderer) Height() int                 { return hr.height }

// Draw renders the header across the top width pixels of the screen
func (hr *HeaderRenderer) Draw(screen *ebiten.Image, snap *game.Snapshot, width int, pressing bool) {
	if snap == nil || hr.height <= 0 {
		return
	}
	vector.DrawFilledRect(screen, 0, 0, float32(width), float32(hr.height), hr.palette.Header, false)

	face := FaceRect(width, hr.height)
	boxH := face.Dy()

	// Mines remaining, signed, on the left
	hr.drawCounter(screen, core.FormatCounter(snap.MinesRemaining, counterDigits), headerPadding, headerPadding, boxH)

	// Elapsed seconds on the right
	timer := core.FormatCounter(TimerValue(snap.Elapsed), counterDigits)
	hr.drawCounter(screen, timer, width-headerPadding-hr.counterWidth(), headerPadding, boxH)

	// Restart face in the middle
	vector.DrawFilledRect(screen, float32(face.Min.X), float32(face.Min.Y), float32(face.Dx()), float32(face.Dy()), common.FaceColor, false)
	vector.StrokeRect(screen, float32(face.Min.X), float32(face.Min.Y), float32(face.Dx()), float32(face.Dy()), 2, hr.palette.GridLines, false)
	hr.drawCentered(screen, Face(snap.Status, pressing), face, hr.palette.Text)
}

func (hr *HeaderRenderer) counterWidth() int {
	if hr.defaultFont == nil {
		return 0
	}
	b := text.BoundString(hr.defaultFont, "000")
	return b.Dx() + 2*headerPadding
}

func (hr *HeaderRenderer) drawCounter(screen *ebiten.Image, value string, x, y, h int) {
	w := hr.counterWidth()
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), common.CounterBgColor, false)
	hr.drawCentered(screen, value, image.Rect(x, y, x+w, y+h), hr.palette.Counter)
}

func (hr *HeaderRenderer) drawCentered(screen *ebiten.Image, s string, r image.Rectangle, c color.Color) {
	if hr.defaultFont == nil {
		return
	}
	b := text.BoundString(hr.defaultFont, s)
	x := r.Min.X + (r.Dx()-b.Dx())/2
	y := r.Min.Y + (r.Dy()+b.Dy())/2
	text.Draw(screen, s, hr.defaultFont, x, y, c)
}
