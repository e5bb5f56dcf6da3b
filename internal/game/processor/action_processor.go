package processor

import (
	"context"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/rs/zerolog"
)

// ActionResult is what applying one action did to the board
type ActionResult struct {
	Reveal core.RevealResult
	Flag   core.FlagOutcome
}

// Changed reports whether the action mutated the board
func (r ActionResult) Changed() bool {
	return r.Reveal.Outcome != core.RevealNoOp || r.Flag != core.FlagNoOp
}

// ActionProcessor validates and applies cell actions and publishes the
// per-action events
type ActionProcessor struct {
	logger    zerolog.Logger
	publisher events.Publisher
}

// NewActionProcessor creates a new action processor. publisher may be nil.
func NewActionProcessor(logger zerolog.Logger, publisher events.Publisher) *ActionProcessor {
	return &ActionProcessor{
		logger:    logger.With().Str("component", "ActionProcessor").Logger(),
		publisher: publisher,
	}
}

// ProcessAction applies a single action. Errors carry the action via
// core.WrapActionError.
func (ap *ActionProcessor) ProcessAction(ctx context.Context, gameID string, board *core.Board, action core.Action) (ActionResult, error) {
	if err := ctx.Err(); err != nil {
		ap.logger.Warn().Err(err).Msg("Action processing interrupted by context cancellation")
		return ActionResult{}, err
	}
	if action == nil {
		return ActionResult{}, core.WrapActionError(nil, core.ErrUnknownAction)
	}
	if err := action.Validate(board); err != nil {
		wrapped := core.WrapActionError(action, err)
		ap.logger.Debug().Err(wrapped).Msg("Rejected action")
		return ActionResult{}, wrapped
	}

	target := action.Target()
	var result ActionResult

	switch act := action.(type) {
	case *core.RevealAction:
		res, err := board.Reveal(act.Row, act.Col)
		if err != nil {
			return ActionResult{}, core.WrapActionError(act, err)
		}
		result.Reveal = res
		ap.logger.Debug().
			Str("target", target.String()).
			Str("outcome", res.Outcome.String()).
			Int("opened", len(res.Cells)).
			Msg("Applied reveal")
		if res.Outcome != core.RevealNoOp {
			ap.publish(events.NewCellRevealedEvent(gameID, target, res))
		}

	case *core.FlagAction:
		outcome, err := board.ToggleFlag(act.Row, act.Col)
		if err != nil {
			return ActionResult{}, core.WrapActionError(act, err)
		}
		result.Flag = outcome
		ap.logger.Debug().
			Str("target", target.String()).
			Str("outcome", outcome.String()).
			Int("flag_count", board.FlagCount).
			Msg("Applied flag toggle")
		if outcome != core.FlagNoOp {
			ap.publish(events.NewFlagToggledEvent(gameID, target, outcome, board.FlagCount))
		}

	default:
		ap.logger.Warn().Str("action_type", core.GetActionType(action)).Msg("Unhandled action type")
		return ActionResult{}, core.WrapActionError(action, core.ErrUnknownAction)
	}

	return result, nil
}

func (ap *ActionProcessor) publish(e events.Event) {
	if ap.publisher != nil {
		ap.publisher.Publish(e)
	}
}
