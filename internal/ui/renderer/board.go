package renderer

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/minesweeper/internal/common"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// -----------------------------------------------------------------------------
// Cell styling
// -----------------------------------------------------------------------------

// Glyph is the symbol drawn on top of a cell's background
type Glyph int

const (
	GlyphNone Glyph = iota
	GlyphNumber
	GlyphFlag
	GlyphMine
	// GlyphHiddenMine marks an unrevealed mine in debug views
	GlyphHiddenMine
)

// CellStyle describes how a single cell is drawn
type CellStyle struct {
	Fill   color.RGBA
	Glyph  Glyph
	Number int
	Raised bool
}

// StyleFor picks the look of a cell. Mines on a lost board sit on the hit
// color; a won board shows its mines flagged.
func StyleFor(cv game.CellView, status core.GameStatus, p common.Palette) CellStyle {
	switch {
	case cv.IsFlagged:
		return CellStyle{Fill: p.Hidden, Glyph: GlyphFlag, Raised: true}
	case !cv.IsRevealed && cv.IsMine:
		return CellStyle{Fill: p.Hidden, Glyph: GlyphHiddenMine, Raised: true}
	case !cv.IsRevealed:
		return CellStyle{Fill: p.Hidden, Raised: true}
	case cv.IsMine && status == core.StatusLost:
		return CellStyle{Fill: p.MineHit, Glyph: GlyphMine}
	case cv.IsMine:
		return CellStyle{Fill: p.Revealed, Glyph: GlyphMine}
	case cv.AdjacentMines > 0:
		return CellStyle{Fill: p.Revealed, Glyph: GlyphNumber, Number: cv.AdjacentMines}
	default:
		return CellStyle{Fill: p.Revealed}
	}
}

// -----------------------------------------------------------------------------
// Renderer
// -----------------------------------------------------------------------------

type BoardRenderer struct {
	tileSize    int
	defaultFont font.Face
	palette     common.Palette
}

// NewBoardRenderer returns a renderer ready to use.
func NewBoardRenderer(tileSize int, f font.Face, p common.Palette) *BoardRenderer {
	return &BoardRenderer{tileSize: tileSize, defaultFont: f, palette: p}
}

// SetTileSize changes the cell size in pixels
func (br *BoardRenderer) SetTileSize(size int) { br.tileSize = size }

// SetPalette swaps the colors used for drawing
func (br *BoardRenderer) SetPalette(p common.Palette) { br.palette = p }

// Draw renders the board with its top-left corner at (originX, originY).
func (br *BoardRenderer) Draw(screen *ebiten.Image, snap *game.Snapshot, originX, originY int) {
	if snap == nil {
		return
	}

	size := float32(br.tileSize)
	for _, cv := range snap.Cells {
		x := float32(originX + cv.Col*br.tileSize)
		y := float32(originY + cv.Row*br.tileSize)
		style := StyleFor(cv, snap.Status, br.palette)

		// ---------------------------------------------------------------------
		// Background pass
		// ---------------------------------------------------------------------
		vector.DrawFilledRect(screen, x, y, size, size, style.Fill, false)
		if style.Raised {
			bevel := max(size/12, 1)
			vector.DrawFilledRect(screen, x, y, size, bevel, color.White, false)
			vector.DrawFilledRect(screen, x, y, bevel, size, color.White, false)
		}
		vector.StrokeRect(screen, x, y, size, size, 1, br.palette.GridLines, false)

		// ---------------------------------------------------------------------
		// Glyph pass
		// ---------------------------------------------------------------------
		switch style.Glyph {
		case GlyphNumber:
			br.drawCentered(screen, strconv.Itoa(style.Number), x, y, br.palette.NumberColor(style.Number))
		case GlyphFlag:
			br.drawFlag(screen, x, y)
		case GlyphMine:
			br.drawMine(screen, x, y, size/4)
		case GlyphHiddenMine:
			br.drawMine(screen, x, y, size/10)
		}
	}
}

func (br *BoardRenderer) drawCentered(screen *ebiten.Image, s string, x, y float32, c color.Color) {
	if br.defaultFont == nil {
		return
	}
	b := text.BoundString(br.defaultFont, s)
	textW := b.Max.X - b.Min.X
	textH := b.Max.Y - b.Min.Y

	tx := int(x) + (br.tileSize-textW)/2
	ty := int(y) + (br.tileSize+textH)/2
	text.Draw(screen, s, br.defaultFont, tx, ty, c)
}

func (br *BoardRenderer) drawMine(screen *ebiten.Image, x, y, radius float32) {
	half := float32(br.tileSize) / 2
	vector.DrawFilledCircle(screen, x+half, y+half, radius, br.palette.Mine, true)
}

// drawFlag draws a pole with a square pennant
func (br *BoardRenderer) drawFlag(screen *ebiten.Image, x, y float32) {
	s := float32(br.tileSize)
	poleX := x + s*0.55
	vector.DrawFilledRect(screen, poleX, y+s*0.2, max(s/20, 1), s*0.6, br.palette.Mine, false)
	vector.DrawFilledRect(screen, x+s*0.25, y+s*0.2, poleX-(x+s*0.25), s*0.25, br.palette.Flag, false)
	vector.DrawFilledRect(screen, x+s*0.3, y+s*0.78, s*0.45, max(s/16, 1), br.palette.Mine, false)
}
