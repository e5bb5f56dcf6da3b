package gameserver

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// Server implements the GameService gRPC server
type Server struct {
	gameManager *GameManager
	validator   *ActionValidator
	clock       clock.Clock
	logger      zerolog.Logger

	// allowDebug lets GetGame return boards with every mine exposed
	allowDebug bool
}

var _ GameServiceServer = (*Server)(nil)

// ServerOption customizes a Server
type ServerOption func(*Server)

// WithDebugSnapshots allows GetGame requests with debug set
func WithDebugSnapshots(allow bool) ServerOption {
	return func(s *Server) { s.allowDebug = allow }
}

// WithClock sets the clock used for activity tracking
func WithClock(clk clock.Clock) ServerOption {
	return func(s *Server) { s.clock = clk }
}

// NewServer creates a new game server backed by gm
func NewServer(gm *GameManager, logger zerolog.Logger, opts ...ServerOption) *Server {
	logger = logger.With().Str("component", "GameServer").Logger()
	s := &Server{
		gameManager: gm,
		validator:   NewActionValidator(gm, logger),
		clock:       gm.clock,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GameManager exposes the session store, mainly for monitoring
func (s *Server) GameManager() *GameManager {
	return s.gameManager
}

// CreateGame creates a new game session
func (s *Server) CreateGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, opts := s.validator.ValidateCreateRequest(req)
	if !result.Valid {
		return nil, status.Error(result.Code, result.ErrorMessage)
	}

	g, err := s.gameManager.CreateGame(ctx, opts)
	if err != nil {
		return nil, statusFromError(err)
	}

	s.logger.Info().
		Str("game_id", g.id).
		Msg("Creating new game")

	return gameReply(g.snapshot(false), nil)
}

// GetGame returns the current board of a session
func (s *Server) GetGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, g := s.validator.ValidateGameRequest(req)
	if !result.Valid {
		return nil, status.Error(result.Code, result.ErrorMessage)
	}

	debug := boolField(req, fieldDebug)
	if debug && !s.allowDebug {
		return nil, status.Error(codes.PermissionDenied, "debug snapshots are disabled")
	}

	g.touch(s.clock.Now())
	return gameReply(g.snapshot(debug), nil)
}

// Reveal opens a cell
func (s *Server) Reveal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, cr := s.validator.ValidateCellRequest(req)
	if !result.Valid {
		return nil, status.Error(result.Code, result.ErrorMessage)
	}

	var res core.RevealResult
	resp, err := cr.game.runKeyed(s.clock.Now(), revealMethod, cr.idempotencyKey,
		func(e *game.Engine) error {
			var err error
			res, err = e.Reveal(ctx, cr.target.Row, cr.target.Col)
			return err
		},
		func(op operationResult) (*structpb.Struct, error) {
			extra := map[string]interface{}{
				fieldOutcome: res.Outcome.String(),
				fieldOpened:  coordinateList(res.Cells),
			}
			if res.Outcome == core.RevealNoOp && op.snapshot.Status.IsTerminal() {
				extra[fieldReason] = core.ErrGameOver.Error()
			}
			return gameReply(op.snapshot, extra)
		})
	if err != nil {
		return nil, statusFromError(err)
	}

	s.logger.Debug().
		Str("game_id", cr.game.id).
		Str("target", cr.target.String()).
		Str("outcome", resp.GetFields()[fieldOutcome].GetStringValue()).
		Int("opened", len(resp.GetFields()[fieldOpened].GetListValue().GetValues())).
		Msg("Reveal processed")

	return resp, nil
}

// ToggleFlag flips the flag on a hidden cell
func (s *Server) ToggleFlag(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, cr := s.validator.ValidateCellRequest(req)
	if !result.Valid {
		return nil, status.Error(result.Code, result.ErrorMessage)
	}

	var outcome core.FlagOutcome
	resp, err := cr.game.runKeyed(s.clock.Now(), toggleFlagMethod, cr.idempotencyKey,
		func(e *game.Engine) error {
			var err error
			outcome, err = e.ToggleFlag(ctx, cr.target.Row, cr.target.Col)
			return err
		},
		func(op operationResult) (*structpb.Struct, error) {
			extra := map[string]interface{}{
				fieldOutcome: outcome.String(),
			}
			if outcome == core.FlagNoOp && op.snapshot.Status.IsTerminal() {
				extra[fieldReason] = core.ErrGameOver.Error()
			}
			return gameReply(op.snapshot, extra)
		})
	if err != nil {
		return nil, statusFromError(err)
	}

	s.logger.Debug().
		Str("game_id", cr.game.id).
		Str("target", cr.target.String()).
		Str("outcome", resp.GetFields()[fieldOutcome].GetStringValue()).
		Msg("Flag toggle processed")

	return resp, nil
}

// Restart discards the board and deals a new one of the same size
func (s *Server) Restart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, g := s.validator.ValidateGameRequest(req)
	if !result.Valid {
		return nil, status.Error(result.Code, result.ErrorMessage)
	}

	op, err := g.run(s.clock.Now(), func(e *game.Engine) error {
		if err := e.Reset(ctx); err != nil {
			return err
		}
		// Replies cached for the old board must not replay onto the new one
		g.idempotencyManager.Clear()
		return nil
	})
	if err != nil {
		return nil, statusFromError(err)
	}

	s.logger.Info().
		Str("game_id", g.id).
		Msg("Game restarted")

	return gameReply(op.snapshot, nil)
}

// DeleteGame ends a session and closes its watchers
func (s *Server) DeleteGame(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	gameID := stringField(req, fieldGameID)
	if gameID == "" {
		return nil, status.Errorf(codes.InvalidArgument, "%s is required", fieldGameID)
	}
	if !s.gameManager.DeleteGame(gameID) {
		return nil, statusFromError(fmt.Errorf("%w: %s", ErrGameNotFound, gameID))
	}
	return &emptypb.Empty{}, nil
}

// WatchGame streams the board after every change. The first message is the
// current board; the stream ends when the game is deleted or expires.
func (s *Server) WatchGame(req *structpb.Struct, stream WatchGameServer) error {
	result, g := s.validator.ValidateGameRequest(req)
	if !result.Valid {
		return status.Error(result.Code, result.ErrorMessage)
	}

	client, snap := g.watch()
	defer g.streamManager.UnregisterClient(client.id)

	s.logger.Info().
		Str("game_id", g.id).
		Str("stream_id", client.id).
		Msg("Client connecting to game stream")

	initial, err := watchUpdate(operationResult{snapshot: snap})
	if err != nil {
		return err
	}
	if err := stream.Send(initial); err != nil {
		s.logger.Error().Err(err).
			Str("game_id", g.id).
			Msg("Failed to send initial game state")
		return err
	}

	for {
		select {
		case update, ok := <-client.Updates():
			if !ok {
				s.logger.Info().
					Str("game_id", g.id).
					Str("stream_id", client.id).
					Msg("Game closed, ending stream")
				return nil
			}
			if err := stream.Send(update); err != nil {
				s.logger.Error().Err(err).
					Str("game_id", g.id).
					Str("stream_id", client.id).
					Msg("Stream error")
				return err
			}
		case <-stream.Context().Done():
			s.logger.Info().
				Str("game_id", g.id).
				Str("stream_id", client.id).
				Msg("Stream closed by client")
			return nil
		}
	}
}

// watch registers a stream client and returns the board it starts from.
// Both happen under the game lock so no update slips between them.
func (g *gameInstance) watch() (*streamClient, game.Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.streamManager.RegisterClient(), g.engine.Snapshot()
}

// gameReply builds {"game": snapshot, ...extra}
func gameReply(snap game.Snapshot, extra map[string]interface{}) (*structpb.Struct, error) {
	fields, err := snapshotFields(snap)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode snapshot: %v", err)
	}
	reply := map[string]interface{}{fieldGame: fields}
	for k, v := range extra {
		reply[k] = v
	}
	st, err := structpb.NewStruct(reply)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	return st, nil
}

// watchUpdate builds {"game": snapshot, "events": [...]}
func watchUpdate(res operationResult) (*structpb.Struct, error) {
	return gameReply(res.snapshot, map[string]interface{}{
		fieldEvents: stringList(res.events),
	})
}
