package gameserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrServerAtCapacity = errors.New("server at capacity")
)

// statusFromError maps domain errors onto gRPC status codes
func statusFromError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, core.ErrInvalidConfiguration), errors.Is(err, core.ErrInvalidCoordinates):
		code = codes.InvalidArgument
	case errors.Is(err, ErrGameNotFound):
		code = codes.NotFound
	case errors.Is(err, ErrServerAtCapacity):
		code = codes.ResourceExhausted
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
