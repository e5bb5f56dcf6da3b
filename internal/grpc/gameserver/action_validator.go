package gameserver

import (
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// ValidationResult contains the outcome of a validation check
type ValidationResult struct {
	Valid        bool
	Code         codes.Code
	ErrorMessage string
}

func invalid(code codes.Code, format string, args ...interface{}) *ValidationResult {
	return &ValidationResult{
		Valid:        false,
		Code:         code,
		ErrorMessage: fmt.Sprintf(format, args...),
	}
}

// cellRequest is a validated Reveal or ToggleFlag request
type cellRequest struct {
	game           *gameInstance
	target         core.Coordinate
	idempotencyKey string
}

// ActionValidator handles request validation for the game service
type ActionValidator struct {
	gameManager *GameManager
	logger      zerolog.Logger
}

// NewActionValidator creates a new validator instance
func NewActionValidator(gm *GameManager, logger zerolog.Logger) *ActionValidator {
	return &ActionValidator{
		gameManager: gm,
		logger:      logger,
	}
}

// ValidateGameRequest checks that req names a live game
func (v *ActionValidator) ValidateGameRequest(req *structpb.Struct) (*ValidationResult, *gameInstance) {
	gameID := stringField(req, fieldGameID)
	if gameID == "" {
		return invalid(codes.InvalidArgument, "%s is required", fieldGameID), nil
	}

	g, exists := v.gameManager.GetGame(gameID)
	if !exists {
		return invalid(codes.NotFound, "%v: %s", ErrGameNotFound, gameID), nil
	}
	return &ValidationResult{Valid: true}, g
}

// ValidateCellRequest performs complete validation for Reveal and ToggleFlag.
// Replayed idempotency keys are resolved later, under the game lock.
func (v *ActionValidator) ValidateCellRequest(req *structpb.Struct) (*ValidationResult, *cellRequest) {
	// 1. Validate game exists
	result, g := v.ValidateGameRequest(req)
	if !result.Valid {
		return result, nil
	}

	// 2. Validate the target cell
	row, err := requiredInt(req, fieldRow)
	if err != nil {
		return invalid(codes.InvalidArgument, "%v", err), nil
	}
	col, err := requiredInt(req, fieldCol)
	if err != nil {
		return invalid(codes.InvalidArgument, "%v", err), nil
	}
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return invalid(codes.InvalidArgument, "%v: (%d,%d) outside %dx%d board",
			core.ErrInvalidCoordinates, row, col, g.rows, g.cols), nil
	}

	return &ValidationResult{Valid: true}, &cellRequest{
		game:           g,
		target:         core.Coordinate{Row: row, Col: col},
		idempotencyKey: stringField(req, fieldIdempotencyKey),
	}
}

// ValidateCreateRequest reads the optional board settings of CreateGame.
// rows, cols and mines are given together or not at all.
func (v *ActionValidator) ValidateCreateRequest(req *structpb.Struct) (*ValidationResult, GameOptions) {
	var opts GameOptions
	dims := []struct {
		name string
		dst  *int
	}{
		{fieldRows, &opts.Rows},
		{fieldCols, &opts.Cols},
		{fieldMines, &opts.Mines},
	}

	given := 0
	for _, d := range dims {
		value, present, err := intField(req, d.name)
		if err != nil {
			return invalid(codes.InvalidArgument, "%v", err), opts
		}
		if present {
			given++
			*d.dst = value
		}
	}
	if given != 0 && given != len(dims) {
		return invalid(codes.InvalidArgument, "%s, %s and %s must be given together", fieldRows, fieldCols, fieldMines), opts
	}

	seed, _, err := intField(req, fieldSeed)
	if err != nil {
		return invalid(codes.InvalidArgument, "%v", err), opts
	}
	opts.Seed = int64(seed)

	return &ValidationResult{Valid: true}, opts
}
