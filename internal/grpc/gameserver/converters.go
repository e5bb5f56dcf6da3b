package gameserver

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/states"
)

// Request and reply field names
const (
	fieldGameID         = "game_id"
	fieldRows           = "rows"
	fieldCols           = "cols"
	fieldMines          = "mines"
	fieldSeed           = "seed"
	fieldRow            = "row"
	fieldCol            = "col"
	fieldIdempotencyKey = "idempotency_key"
	fieldDebug          = "debug"

	fieldGame    = "game"
	fieldOutcome = "outcome"
	fieldOpened  = "opened"
	fieldReason  = "reason"
	fieldEvents  = "events"
)

// maxExactInt is the largest integer a JSON number holds without loss
const maxExactInt = 1 << 53

var phasesByName = map[string]states.GamePhase{
	states.PhaseNotStarted.String(): states.PhaseNotStarted,
	states.PhasePlaying.String():    states.PhasePlaying,
	states.PhaseWon.String():        states.PhaseWon,
	states.PhaseLost.String():       states.PhaseLost,
}

var statusesByName = map[string]core.GameStatus{
	core.StatusPlaying.String(): core.StatusPlaying,
	core.StatusWon.String():     core.StatusWon,
	core.StatusLost.String():    core.StatusLost,
}

func stringField(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

func boolField(in *structpb.Struct, name string) bool {
	return in.GetFields()[name].GetBoolValue()
}

// intField reads an integral number. present is false when the field is
// missing or null.
func intField(in *structpb.Struct, name string) (value int, present bool, err error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return 0, false, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return 0, false, nil
	case *structpb.Value_NumberValue:
		f := kind.NumberValue
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
			return 0, true, fmt.Errorf("%s must be an integer, got %v", name, f)
		}
		return int(f), true, nil
	default:
		return 0, true, fmt.Errorf("%s must be a number", name)
	}
}

// requiredInt is intField for fields that must be present
func requiredInt(in *structpb.Struct, name string) (int, error) {
	value, present, err := intField(in, name)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, fmt.Errorf("%s is required", name)
	}
	return value, nil
}

// formatDuration renders d in the protobuf JSON form, e.g. "1.500s"
func formatDuration(d time.Duration) (string, error) {
	return formatWellKnown(durationpb.New(d))
}

// formatTimestamp renders t in the protobuf JSON form (RFC 3339, UTC)
func formatTimestamp(t time.Time) (string, error) {
	return formatWellKnown(timestamppb.New(t))
}

func formatWellKnown(m proto.Message) (string, error) {
	b, err := protojson.Marshal(m)
	if err != nil {
		return "", err
	}
	return strconv.Unquote(string(b))
}

func parseDuration(s string) (time.Duration, error) {
	d := new(durationpb.Duration)
	if err := protojson.Unmarshal([]byte(strconv.Quote(s)), d); err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return d.AsDuration(), nil
}

func parseTimestamp(s string) (time.Time, error) {
	ts := new(timestamppb.Timestamp)
	if err := protojson.Unmarshal([]byte(strconv.Quote(s)), ts); err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return ts.AsTime(), nil
}

func coordinateList(coords []core.Coordinate) []interface{} {
	list := make([]interface{}, len(coords))
	for i, c := range coords {
		list[i] = map[string]interface{}{
			fieldRow: c.Row,
			fieldCol: c.Col,
		}
	}
	return list
}

func stringList(values []string) []interface{} {
	list := make([]interface{}, len(values))
	for i, v := range values {
		list[i] = v
	}
	return list
}

// snapshotFields lays a snapshot out as plain JSON values
func snapshotFields(s game.Snapshot) (map[string]interface{}, error) {
	elapsed, err := formatDuration(s.Elapsed)
	if err != nil {
		return nil, err
	}
	takenAt, err := formatTimestamp(s.TakenAt)
	if err != nil {
		return nil, err
	}

	cells := make([]interface{}, len(s.Cells))
	for i, c := range s.Cells {
		cells[i] = map[string]interface{}{
			"row":      c.Row,
			"col":      c.Col,
			"revealed": c.IsRevealed,
			"flagged":  c.IsFlagged,
			"mine":     c.IsMine,
			"adjacent": c.AdjacentMines,
		}
	}

	return map[string]interface{}{
		"game_id":         s.GameID,
		"rows":            s.Rows,
		"cols":            s.Cols,
		"num_mines":       s.NumMines,
		"status":          s.Status.String(),
		"phase":           s.Phase.String(),
		"started":         s.Started,
		"mines_remaining": s.MinesRemaining,
		"revealed_count":  s.RevealedCount,
		"flag_count":      s.FlagCount,
		"elapsed":         elapsed,
		"taken_at":        takenAt,
		"cells":           cells,
	}, nil
}

// SnapshotToStruct encodes a snapshot for the wire
func SnapshotToStruct(s game.Snapshot) (*structpb.Struct, error) {
	fields, err := snapshotFields(s)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

// SnapshotFromStruct decodes a snapshot produced by SnapshotToStruct
func SnapshotFromStruct(st *structpb.Struct) (game.Snapshot, error) {
	var s game.Snapshot
	if st == nil {
		return s, fmt.Errorf("snapshot is empty")
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"rows", &s.Rows},
		{"cols", &s.Cols},
		{"num_mines", &s.NumMines},
		{"mines_remaining", &s.MinesRemaining},
		{"revealed_count", &s.RevealedCount},
		{"flag_count", &s.FlagCount},
	}
	for _, f := range ints {
		v, err := requiredInt(st, f.name)
		if err != nil {
			return s, err
		}
		*f.dst = v
	}

	s.GameID = stringField(st, "game_id")
	s.Started = boolField(st, "started")

	status, ok := statusesByName[stringField(st, "status")]
	if !ok {
		return s, fmt.Errorf("unknown status %q", stringField(st, "status"))
	}
	s.Status = status

	phase, ok := phasesByName[stringField(st, "phase")]
	if !ok {
		return s, fmt.Errorf("unknown phase %q", stringField(st, "phase"))
	}
	s.Phase = phase

	var err error
	if s.Elapsed, err = parseDuration(stringField(st, "elapsed")); err != nil {
		return s, err
	}
	if s.TakenAt, err = parseTimestamp(stringField(st, "taken_at")); err != nil {
		return s, err
	}

	cells := st.GetFields()["cells"].GetListValue().GetValues()
	if len(cells) != s.Rows*s.Cols {
		return s, fmt.Errorf("expected %d cells, got %d", s.Rows*s.Cols, len(cells))
	}
	s.Cells = make([]game.CellView, len(cells))
	for i, v := range cells {
		cell := v.GetStructValue()
		if cell == nil {
			return s, fmt.Errorf("cell %d is not an object", i)
		}
		view := game.CellView{
			IsRevealed: boolField(cell, "revealed"),
			IsFlagged:  boolField(cell, "flagged"),
			IsMine:     boolField(cell, "mine"),
		}
		if view.Row, err = requiredInt(cell, "row"); err != nil {
			return s, fmt.Errorf("cell %d: %w", i, err)
		}
		if view.Col, err = requiredInt(cell, "col"); err != nil {
			return s, fmt.Errorf("cell %d: %w", i, err)
		}
		if view.AdjacentMines, err = requiredInt(cell, "adjacent"); err != nil {
			return s, fmt.Errorf("cell %d: %w", i, err)
		}
		s.Cells[i] = view
	}

	return s, nil
}
