package states

import "fmt"

// GamePhase represents the current phase of a game
type GamePhase int

const (
	// PhaseNotStarted - board generated, clock not running
	PhaseNotStarted GamePhase = iota

	// PhasePlaying - first reveal or flag happened
	PhasePlaying

	// PhaseWon - every safe cell revealed
	PhaseWon

	// PhaseLost - a mine was revealed
	PhaseLost
)

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhasePlaying:
		return "Playing"
	case PhaseWon:
		return "Won"
	case PhaseLost:
		return "Lost"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a finished game
func (p GamePhase) IsTerminal() bool {
	return p == PhaseWon || p == PhaseLost
}

// CanReceiveActions returns true if reveal and flag input can change the board
func (p GamePhase) CanReceiveActions() bool {
	return p == PhaseNotStarted || p == PhasePlaying
}

// AllowedTransitions returns the valid phases this phase can transition to.
// Every phase may go back to NotStarted, which is how a restart is modelled.
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseNotStarted:
		return []GamePhase{PhasePlaying, PhaseNotStarted}
	case PhasePlaying:
		return []GamePhase{PhaseWon, PhaseLost, PhaseNotStarted}
	case PhaseWon, PhaseLost:
		return []GamePhase{PhaseNotStarted}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a GamePhase
func ParsePhase(s string) GamePhase {
	switch s {
	case "Playing":
		return PhasePlaying
	case "Won":
		return PhaseWon
	case "Lost":
		return PhaseLost
	default:
		return PhaseNotStarted
	}
}
