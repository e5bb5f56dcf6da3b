package game

import (
	"math/rand"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/rules"
	"github.com/rs/zerolog/log"
)

// GenerateRandomAction picks an effective action for a naive player: mostly
// reveals, with the occasional flag. Returns nil when nothing is left to do.
// This is a helper for demos, tests and load generation.
func GenerateRandomAction(e *Engine, rng *rand.Rand) core.Action {
	reveals := e.RevealableCells()
	mask := e.LegalActionMask()
	cols := e.Cols()

	var flags []int
	for i := 0; i < len(mask)/rules.MaskWidth; i++ {
		if mask[i*rules.MaskWidth+rules.MaskFlag] {
			flags = append(flags, i)
		}
	}

	var action core.Action
	switch {
	case len(reveals) > 0 && (len(flags) == 0 || rng.Float32() >= 0.15):
		c := reveals[rng.Intn(len(reveals))]
		action = &core.RevealAction{Row: c.Row, Col: c.Col}
	case len(flags) > 0:
		c := core.FromIndex(flags[rng.Intn(len(flags))], cols)
		action = &core.FlagAction{Row: c.Row, Col: c.Col}
	default:
		return nil
	}

	log.Debug().
		Str("action_type", action.GetType().String()).
		Str("target", action.Target().String()).
		Msg("Generated random action")
	return action
}
