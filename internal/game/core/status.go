package core

// GameStatus is the tri-state status shown to the presentation layer
type GameStatus int

const (
	StatusPlaying GameStatus = iota
	StatusWon
	StatusLost
)

func (s GameStatus) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// IsTerminal returns true for won and lost
func (s GameStatus) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}
