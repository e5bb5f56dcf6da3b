package renderer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

var (
	PendingColor = color.RGBA{255, 255, 100, 255} // Yellow border on a held press
	HoverColor   = color.RGBA{255, 255, 255, 64}  // Semi-transparent white
)

// OverlayRenderer draws pointer feedback on top of the board
type OverlayRenderer struct {
	tileSize int

	hover    core.Coordinate
	hasHover bool

	pending    core.Coordinate
	hasPending bool
}

func NewOverlayRenderer(tileSize int) *OverlayRenderer {
	return &OverlayRenderer{tileSize: tileSize}
}

func (ov *OverlayRenderer) SetTileSize(size int) { ov.tileSize = size }

func (ov *OverlayRenderer) SetHover(cell core.Coordinate, ok bool) {
	ov.hover = cell
	ov.hasHover = ok
}

// SetPending marks the cell whose reveal is waiting out the double tap window
func (ov *OverlayRenderer) SetPending(cell core.Coordinate, ok bool) {
	ov.pending = cell
	ov.hasPending = ok
}

func (ov *OverlayRenderer) Draw(screen *ebiten.Image, snap *game.Snapshot, originX, originY int) {
	if snap == nil || snap.Status.IsTerminal() {
		return
	}

	// Only hidden cells react to the pointer
	if ov.hasHover {
		if cv, ok := snap.Cell(ov.hover.Row, ov.hover.Col); ok && !cv.IsRevealed {
			ov.drawTileOverlay(screen, originX, originY, ov.hover, HoverColor)
		}
	}

	if ov.hasPending {
		ov.drawPendingBorder(screen, originX, originY, ov.pending)
	}
}

func (ov *OverlayRenderer) drawTileOverlay(screen *ebiten.Image, originX, originY int, cell core.Coordinate, c color.Color) {
	screenX := float32(originX + cell.Col*ov.tileSize)
	screenY := float32(originY + cell.Row*ov.tileSize)
	size := float32(ov.tileSize)

	vector.DrawFilledRect(screen, screenX, screenY, size, size, c, false)
}

func (ov *OverlayRenderer) drawPendingBorder(screen *ebiten.Image, originX, originY int, cell core.Coordinate) {
	screenX := float32(originX + cell.Col*ov.tileSize)
	screenY := float32(originY + cell.Row*ov.tileSize)
	size := float32(ov.tileSize)
	thickness := float32(3)

	// Top
	vector.DrawFilledRect(screen, screenX, screenY, size, thickness, PendingColor, false)
	// Bottom
	vector.DrawFilledRect(screen, screenX, screenY+size-thickness, size, thickness, PendingColor, false)
	// Left
	vector.DrawFilledRect(screen, screenX, screenY, thickness, size, PendingColor, false)
	// Right
	vector.DrawFilledRect(screen, screenX+size-thickness, screenY, thickness, size, PendingColor, false)
}
