package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid board configuration")
	ErrInvalidCoordinates   = errors.New("invalid coordinates")
	ErrGameOver             = errors.New("game is over")
	ErrUnknownAction        = errors.New("unknown action type")
)

// ActionError carries the action that failed alongside the cause
type ActionError struct {
	Action Action
	Err    error
}

func (e *ActionError) Error() string {
	if e.Action == nil {
		return fmt.Sprintf("cell action: %v", e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Action.GetType(), e.Action.Target(), e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// WrapActionError adds action context to err. A nil err stays nil.
func WrapActionError(action Action, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{Action: action, Err: err}
}
