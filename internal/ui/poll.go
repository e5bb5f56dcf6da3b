package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mitchelldurbincs/minesweeper/internal/ui/input"
)

// pollInput feeds this frame's mouse, touch and keyboard input to the handler
func pollInput(h *input.Handler, target input.Target) {
	x, y := ebiten.CursorPosition()
	h.MoveCursor(x, y)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		h.Press(x, y, input.ButtonPrimary, target)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		h.Press(x, y, input.ButtonSecondary, target)
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		h.TouchBegin(int(id), tx, ty)
	}
	for _, id := range ebiten.AppendTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		h.TouchMove(int(id), tx, ty)
	}
	// Released touches report no position; the handler uses the last one seen
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		h.TouchEnd(int(id), target)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		target.OnRestart()
	}
}

// anyPress reports whether the player clicked, tapped or hit a key this frame
func anyPress() bool {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		return true
	}
	if len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0 {
		return true
	}
	return len(inpututil.AppendJustPressedKeys(nil)) > 0
}
