package input

import (
	"image"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mitchelldurbincs/minesweeper/internal/common"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// Target receives activations resolved to board cells
type Target interface {
	OnPrimaryActivate(row, col int)
	OnSecondaryActivate(row, col int)
	OnRestart()
}

// Button identifies a pointer button
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

const (
	// TouchMoveSlop is how far a touch may drift and still count as a tap
	TouchMoveSlop = 10
	// LongPressDuration turns a held touch into a secondary activation
	LongPressDuration = 360 * time.Millisecond
)

type touchStart struct {
	x, y         int
	lastX, lastY int
	at           time.Time
}

// Handler maps pixel positions to board cells and forwards them to a Target.
// The caller polls the platform for raw input and feeds it in.
type Handler struct {
	clock clock.Clock

	// Board geometry
	originX, originY int
	tileSize         int
	rows, cols       int

	// Clicking the face restarts
	faceRect image.Rectangle

	cursorX, cursorY int
	touches          map[int]touchStart
}

// NewHandler creates a handler for a rows x cols board of tileSize pixel tiles
func NewHandler(clk clock.Clock, tileSize, rows, cols int) *Handler {
	if clk == nil {
		clk = clock.New()
	}
	return &Handler{
		clock:    clk,
		tileSize: tileSize,
		rows:     rows,
		cols:     cols,
		touches:  make(map[int]touchStart),
	}
}

// SetBoardOrigin sets the screen position of the board's top-left corner
func (h *Handler) SetBoardOrigin(x, y int) {
	h.originX = x
	h.originY = y
}

// SetTileSize updates the tile size after a config reload
func (h *Handler) SetTileSize(size int) {
	h.tileSize = size
}

// SetFaceRect sets the clickable restart area
func (h *Handler) SetFaceRect(r image.Rectangle) {
	h.faceRect = r
}

// CellAt returns the cell under a screen position
func (h *Handler) CellAt(x, y int) (core.Coordinate, bool) {
	row, col, ok := common.PointToCell(x, y, h.originX, h.originY, h.tileSize, h.rows, h.cols)
	return core.NewCoordinate(row, col), ok
}

// MoveCursor records the pointer position for hover feedback
func (h *Handler) MoveCursor(x, y int) {
	h.cursorX = x
	h.cursorY = y
}

// HoveredCell returns the cell under the pointer, if any
func (h *Handler) HoveredCell() (core.Coordinate, bool) {
	return h.CellAt(h.cursorX, h.cursorY)
}

// Press handles a pointer button press at (x, y). Presses outside the board
// and the face are ignored.
func (h *Handler) Press(x, y int, button Button, target Target) {
	if button == ButtonPrimary && image.Pt(x, y).In(h.faceRect) {
		target.OnRestart()
		return
	}

	cell, ok := h.CellAt(x, y)
	if !ok {
		return
	}

	switch button {
	case ButtonPrimary:
		target.OnPrimaryActivate(cell.Row, cell.Col)
	case ButtonSecondary:
		target.OnSecondaryActivate(cell.Row, cell.Col)
	}
}

// TouchBegin starts tracking a touch
func (h *Handler) TouchBegin(id, x, y int) {
	h.touches[id] = touchStart{x: x, y: y, lastX: x, lastY: y, at: h.clock.Now()}
}

// TouchMove updates the last position of a tracked touch
func (h *Handler) TouchMove(id, x, y int) {
	st, ok := h.touches[id]
	if !ok {
		h.TouchBegin(id, x, y)
		return
	}
	st.lastX, st.lastY = x, y
	h.touches[id] = st
}

// TouchEnd finishes a touch. A short tap is a primary press and a long press
// a secondary one; a touch that drifted past the slop is a drag and ignored.
func (h *Handler) TouchEnd(id int, target Target) {
	st, ok := h.touches[id]
	if !ok {
		return
	}
	delete(h.touches, id)

	if common.Abs(st.lastX-st.x) > TouchMoveSlop || common.Abs(st.lastY-st.y) > TouchMoveSlop {
		return
	}

	button := ButtonPrimary
	if h.clock.Since(st.at) >= LongPressDuration {
		button = ButtonSecondary
	}
	h.Press(st.lastX, st.lastY, button, target)
}

// ActiveTouches returns the number of touches being tracked
func (h *Handler) ActiveTouches() int {
	return len(h.touches)
}
