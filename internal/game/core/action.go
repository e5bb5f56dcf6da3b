package core

// ActionType represents the type of action
type ActionType int

const (
	ActionReveal ActionType = iota
	ActionFlag
)

func (t ActionType) String() string {
	switch t {
	case ActionReveal:
		return "reveal"
	case ActionFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// Action represents a player action on a single cell
type Action interface {
	GetType() ActionType
	Target() Coordinate
	Validate(b *Board) error
}

// RevealAction opens a cell
type RevealAction struct {
	Row, Col int
}

func (a *RevealAction) GetType() ActionType { return ActionReveal }
func (a *RevealAction) Target() Coordinate  { return Coordinate{Row: a.Row, Col: a.Col} }

func (a *RevealAction) Validate(b *Board) error {
	if !b.InBounds(a.Row, a.Col) {
		return ErrInvalidCoordinates
	}
	return nil
}

// FlagAction toggles the flag marker on a cell
type FlagAction struct {
	Row, Col int
}

func (a *FlagAction) GetType() ActionType { return ActionFlag }
func (a *FlagAction) Target() Coordinate  { return Coordinate{Row: a.Row, Col: a.Col} }

func (a *FlagAction) Validate(b *Board) error {
	if !b.InBounds(a.Row, a.Col) {
		return ErrInvalidCoordinates
	}
	return nil
}
