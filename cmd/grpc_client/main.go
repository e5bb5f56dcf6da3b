package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/grpc/gameserver"
)

// Plays one random game against a running grpc_server, watching it over a
// second stream, and prints the final board.
func main() {
	addr := flag.String("addr", "localhost:50051", "Game server address")
	rows := flag.Int("rows", 0, "Board rows (0 lets the server choose)")
	cols := flag.Int("cols", 0, "Board columns (0 lets the server choose)")
	mines := flag.Int("mines", 0, "Mine count (used with rows and cols)")
	seed := flag.Int64("seed", 0, "RNG seed for the board and the moves (0 for time)")
	keep := flag.Bool("keep", false, "Leave the game on the server when done")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	// Struct numbers are float64, so keep the seed exactly representable
	*seed &= 1<<53 - 1
	rng := rand.New(rand.NewSource(*seed))

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal().Err(err).Str("addr", *addr).Msg("Failed to connect")
	}
	defer conn.Close()
	client := gameserver.NewGameServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	create := map[string]interface{}{"seed": *seed}
	if *rows > 0 || *cols > 0 {
		create["rows"] = *rows
		create["cols"] = *cols
		create["mines"] = *mines
	}
	resp, err := client.CreateGame(ctx, mustStruct(create))
	if err != nil {
		log.Fatal().Err(err).Msg("CreateGame failed")
	}
	snap := decodeGame(resp)
	log.Info().
		Str("game_id", snap.GameID).
		Int("rows", snap.Rows).
		Int("cols", snap.Cols).
		Int("mines", snap.NumMines).
		Msg("Game created")

	watchDone := make(chan struct{})
	go watch(ctx, client, snap.GameID, watchDone)

	moves := 0
	for !snap.Status.IsTerminal() {
		target, ok := randomHiddenCell(snap, rng)
		if !ok {
			break
		}
		resp, err := client.Reveal(ctx, mustStruct(map[string]interface{}{
			"game_id":         snap.GameID,
			"row":             target.Row,
			"col":             target.Col,
			"idempotency_key": uuid.NewString(),
		}))
		if err != nil {
			log.Fatal().Err(err).Str("target", target.String()).Msg("Reveal failed")
		}
		moves++
		snap = decodeGame(resp)
		log.Debug().
			Str("target", target.String()).
			Str("outcome", resp.GetFields()["outcome"].GetStringValue()).
			Msg("Move")
	}

	fmt.Print(game.RenderSnapshot(snap))
	log.Info().
		Str("status", snap.Status.String()).
		Int("moves", moves).
		Dur("elapsed", snap.Elapsed).
		Msg("Game finished")

	if !*keep {
		if _, err := client.DeleteGame(ctx, mustStruct(map[string]interface{}{"game_id": snap.GameID})); err != nil {
			log.Warn().Err(err).Msg("DeleteGame failed")
			return
		}
		<-watchDone
	}
}

func watch(ctx context.Context, client gameserver.GameServiceClient, gameID string, done chan<- struct{}) {
	defer close(done)

	stream, err := client.WatchGame(ctx, mustStruct(map[string]interface{}{"game_id": gameID}))
	if err != nil {
		log.Error().Err(err).Msg("WatchGame failed")
		return
	}
	for {
		update, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			log.Info().Msg("Watch stream closed")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("Watch stream error")
			return
		}
		var types []string
		for _, v := range update.GetFields()["events"].GetListValue().GetValues() {
			types = append(types, v.GetStringValue())
		}
		log.Info().Strs("events", types).Msg("Watch update")
	}
}

// randomHiddenCell picks uniformly among cells that are neither revealed nor flagged
func randomHiddenCell(s game.Snapshot, rng *rand.Rand) (core.Coordinate, bool) {
	var hidden []core.Coordinate
	for i, cell := range s.Cells {
		if !cell.IsRevealed && !cell.IsFlagged {
			hidden = append(hidden, core.Coordinate{Row: i / s.Cols, Col: i % s.Cols})
		}
	}
	if len(hidden) == 0 {
		return core.Coordinate{}, false
	}
	return hidden[rng.Intn(len(hidden))], true
}

func decodeGame(resp *structpb.Struct) game.Snapshot {
	snap, err := gameserver.SnapshotFromStruct(resp.GetFields()["game"].GetStructValue())
	if err != nil {
		log.Fatal().Err(err).Msg("Malformed game in reply")
	}
	return snap
}

func mustStruct(m map[string]interface{}) *structpb.Struct {
	st, err := structpb.NewStruct(m)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build request")
	}
	return st
}
