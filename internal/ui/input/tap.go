package input

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// CommandKind is the board operation a disambiguated press resolves to
type CommandKind int

const (
	CommandReveal CommandKind = iota
	CommandFlag
)

func (k CommandKind) String() string {
	switch k {
	case CommandReveal:
		return "reveal"
	case CommandFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// Command is a resolved board operation
type Command struct {
	Kind CommandKind
	Cell core.Coordinate
}

// TapDisambiguator turns primary presses into reveals or flags.
//
// A primary press is held back for the delay window. A second primary press
// on the same cell inside the window flags it and the held reveal never
// fires. Otherwise the reveal is emitted by Tick once the window closes.
// Secondary presses always flag immediately.
//
// It is driven from a single update loop and is not safe for concurrent use.
type TapDisambiguator struct {
	clock clock.Clock
	delay time.Duration

	pending  bool
	cell     core.Coordinate
	deadline time.Time
}

// NewTapDisambiguator creates a disambiguator. A delay of zero or less turns
// every primary press into an immediate reveal.
func NewTapDisambiguator(clk clock.Clock, delay time.Duration) *TapDisambiguator {
	if clk == nil {
		clk = clock.New()
	}
	return &TapDisambiguator{clock: clk, delay: delay}
}

// Primary handles a primary press on cell
func (t *TapDisambiguator) Primary(cell core.Coordinate) []Command {
	now := t.clock.Now()

	var out []Command
	if t.pending {
		if cell == t.cell && now.Before(t.deadline) {
			t.pending = false
			return []Command{{Kind: CommandFlag, Cell: cell}}
		}
		// Different cell, or the window closed before Tick ran
		out = append(out, t.commit())
	}

	if t.delay <= 0 {
		return append(out, Command{Kind: CommandReveal, Cell: cell})
	}

	t.pending = true
	t.cell = cell
	t.deadline = now.Add(t.delay)
	return out
}

// Secondary handles a secondary press (right click, long press) on cell
func (t *TapDisambiguator) Secondary(cell core.Coordinate) []Command {
	var out []Command
	if t.pending {
		if cell == t.cell {
			t.pending = false
		} else {
			out = append(out, t.commit())
		}
	}
	return append(out, Command{Kind: CommandFlag, Cell: cell})
}

// Tick emits the held reveal once its window has closed
func (t *TapDisambiguator) Tick() []Command {
	if !t.pending || t.clock.Now().Before(t.deadline) {
		return nil
	}
	return []Command{t.commit()}
}

// Cancel drops a held reveal without emitting it
func (t *TapDisambiguator) Cancel() {
	t.pending = false
}

// Pending returns the cell whose reveal is being held back
func (t *TapDisambiguator) Pending() (core.Coordinate, bool) {
	return t.cell, t.pending
}

// Delay returns the double tap window
func (t *TapDisambiguator) Delay() time.Duration {
	return t.delay
}

// SetDelay changes the window for presses made from now on
func (t *TapDisambiguator) SetDelay(d time.Duration) {
	t.delay = d
}

func (t *TapDisambiguator) commit() Command {
	t.pending = false
	return Command{Kind: CommandReveal, Cell: t.cell}
}
