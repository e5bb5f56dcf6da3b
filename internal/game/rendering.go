package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// ANSI color codes for terminal rendering
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"

	BgRed = "\033[41m"
)

// numberColors follows the classic palette: 1 blue, 2 green, 3 red, ...
var numberColors = [9]string{
	"", ColorBlue, ColorGreen, ColorRed, ColorPurple, ColorYellow, ColorCyan, ColorWhite, ColorGray,
}

const (
	hiddenSymbol = "■"
	emptySymbol  = "·"
	flagSymbol   = "F"
	mineSymbol   = "*"
)

// Board returns a colored text rendering of the board for terminals.
// Hidden mines are never shown while the game is in progress.
func (e *Engine) Board() string {
	return RenderSnapshot(e.Snapshot())
}

// RenderSnapshot renders any snapshot the same way Board does
func RenderSnapshot(s Snapshot) string {
	var sb strings.Builder
	sb.Grow((s.Cols*12 + 8) * (s.Rows + 4))

	fmt.Fprintf(&sb, "Mines: %s  Time: %s  Status: %s\n",
		core.FormatCounter(s.MinesRemaining, 3),
		core.FormatCounter(int(s.Elapsed.Seconds()), 3),
		s.Status)

	// Header row
	sb.WriteString("   ")
	for c := 0; c < s.Cols; c++ {
		fmt.Fprintf(&sb, "%2d", c%100)
	}
	sb.WriteString("\n")

	for r := 0; r < s.Rows; r++ {
		fmt.Fprintf(&sb, "%2d ", r%100)
		for c := 0; c < s.Cols; c++ {
			sb.WriteString(" ")
			writeCell(&sb, s.Cells[r*s.Cols+c], s.Status)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(hiddenSymbol + "=hidden " + emptySymbol + "=empty " + flagSymbol + "=flag " + mineSymbol + "=mine 1-8=adjacent mines\n")
	return sb.String()
}

func writeCell(sb *strings.Builder, cell CellView, status core.GameStatus) {
	switch {
	case cell.IsFlagged:
		sb.WriteString(ColorRed + flagSymbol + ColorReset)
	case !cell.IsRevealed:
		sb.WriteString(ColorGray + hiddenSymbol + ColorReset)
	case cell.IsMine && status == core.StatusLost:
		sb.WriteString(BgRed + mineSymbol + ColorReset)
	case cell.IsMine:
		sb.WriteString(mineSymbol)
	case cell.AdjacentMines == 0:
		sb.WriteString(ColorGray + emptySymbol + ColorReset)
	default:
		sb.WriteString(numberColors[cell.AdjacentMines])
		sb.WriteByte(byte('0' + cell.AdjacentMines))
		sb.WriteString(ColorReset)
	}
}
