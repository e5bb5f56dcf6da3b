package states

import (
	"errors"
	"time"
)

// NotStartedState is the phase between board generation and the first move
type NotStartedState struct{}

func NewNotStartedState() State {
	return &NotStartedState{}
}

func (s *NotStartedState) Phase() GamePhase {
	return PhaseNotStarted
}

func (s *NotStartedState) Enter(ctx *GameContext) error {
	ctx.StartTime = time.Time{}
	ctx.EndTime = time.Time{}
	ctx.Logger.Debug().Msg("Board ready, waiting for first move")
	return nil
}

func (s *NotStartedState) Exit(ctx *GameContext) error {
	return nil
}

func (s *NotStartedState) Validate(ctx *GameContext) error {
	return nil
}

// PlayingState is active play; the clock starts on entry
type PlayingState struct{}

func NewPlayingState() State {
	return &PlayingState{}
}

func (s *PlayingState) Phase() GamePhase {
	return PhasePlaying
}

func (s *PlayingState) Enter(ctx *GameContext) error {
	ctx.StartTime = ctx.Clock.Now()
	ctx.Logger.Info().Time("start_time", ctx.StartTime).Msg("Game started")
	return nil
}

func (s *PlayingState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().
		Dur("elapsed", ctx.ElapsedTime()).
		Msg("Leaving play")
	return nil
}

func (s *PlayingState) Validate(ctx *GameContext) error {
	if ctx.Clock == nil {
		return errors.New("game context has no clock")
	}
	return nil
}

// WonState freezes the clock after the last safe cell is revealed
type WonState struct{}

func NewWonState() State {
	return &WonState{}
}

func (s *WonState) Phase() GamePhase {
	return PhaseWon
}

func (s *WonState) Enter(ctx *GameContext) error {
	ctx.EndTime = ctx.Clock.Now()
	ctx.Logger.Info().Dur("elapsed", ctx.ElapsedTime()).Msg("Game won")
	return nil
}

func (s *WonState) Exit(ctx *GameContext) error {
	return nil
}

func (s *WonState) Validate(ctx *GameContext) error {
	return validateStarted(ctx)
}

// LostState freezes the clock after a mine is revealed
type LostState struct{}

func NewLostState() State {
	return &LostState{}
}

func (s *LostState) Phase() GamePhase {
	return PhaseLost
}

func (s *LostState) Enter(ctx *GameContext) error {
	ctx.EndTime = ctx.Clock.Now()
	ctx.Logger.Info().Dur("elapsed", ctx.ElapsedTime()).Msg("Game lost")
	return nil
}

func (s *LostState) Exit(ctx *GameContext) error {
	return nil
}

func (s *LostState) Validate(ctx *GameContext) error {
	return validateStarted(ctx)
}

func validateStarted(ctx *GameContext) error {
	if ctx.StartTime.IsZero() {
		return errors.New("game cannot end before it has started")
	}
	return nil
}
