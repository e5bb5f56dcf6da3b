package input

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 250 * time.Millisecond

func newTestTap() (*TapDisambiguator, *clock.Mock) {
	mock := clock.NewMock()
	return NewTapDisambiguator(mock, testDelay), mock
}

func reveal(r, c int) Command { return Command{Kind: CommandReveal, Cell: core.NewCoordinate(r, c)} }
func flag(r, c int) Command   { return Command{Kind: CommandFlag, Cell: core.NewCoordinate(r, c)} }

func TestTap_SinglePress_RevealsAfterDelay(t *testing.T) {
	tap, mock := newTestTap()

	assert.Empty(t, tap.Primary(core.NewCoordinate(1, 2)))
	cell, pending := tap.Pending()
	require.True(t, pending)
	assert.Equal(t, core.NewCoordinate(1, 2), cell)

	mock.Add(testDelay - time.Millisecond)
	assert.Empty(t, tap.Tick(), "window still open")

	mock.Add(time.Millisecond)
	assert.Equal(t, []Command{reveal(1, 2)}, tap.Tick())

	_, pending = tap.Pending()
	assert.False(t, pending)
	assert.Empty(t, tap.Tick(), "reveal fires once")
}

func TestTap_DoublePress_FlagsAndSuppressesReveal(t *testing.T) {
	tap, mock := newTestTap()

	assert.Empty(t, tap.Primary(core.NewCoordinate(3, 3)))
	mock.Add(100 * time.Millisecond)
	assert.Equal(t, []Command{flag(3, 3)}, tap.Primary(core.NewCoordinate(3, 3)))

	mock.Add(time.Second)
	assert.Empty(t, tap.Tick(), "suppressed reveal must not fire later")
}

func TestTap_SecondPressAfterWindow_IsANewPress(t *testing.T) {
	tap, mock := newTestTap()

	tap.Primary(core.NewCoordinate(0, 0))
	mock.Add(testDelay)

	// Tick did not run between the presses
	assert.Equal(t, []Command{reveal(0, 0)}, tap.Primary(core.NewCoordinate(0, 0)))
	cell, pending := tap.Pending()
	assert.True(t, pending)
	assert.Equal(t, core.NewCoordinate(0, 0), cell)
}

func TestTap_SecondPressOnDifferentCell_CommitsFirst(t *testing.T) {
	tap, mock := newTestTap()

	tap.Primary(core.NewCoordinate(0, 0))
	mock.Add(50 * time.Millisecond)
	assert.Equal(t, []Command{reveal(0, 0)}, tap.Primary(core.NewCoordinate(4, 4)))

	mock.Add(testDelay)
	assert.Equal(t, []Command{reveal(4, 4)}, tap.Tick())
}

func TestTap_Secondary(t *testing.T) {
	tests := []struct {
		name     string
		primary  *core.Coordinate
		target   core.Coordinate
		expected []Command
	}{
		{
			name:     "idle flags immediately",
			target:   core.NewCoordinate(2, 2),
			expected: []Command{flag(2, 2)},
		},
		{
			name:     "same cell cancels the held reveal",
			primary:  &core.Coordinate{Row: 2, Col: 2},
			target:   core.NewCoordinate(2, 2),
			expected: []Command{flag(2, 2)},
		},
		{
			name:     "other cell commits the held reveal first",
			primary:  &core.Coordinate{Row: 1, Col: 1},
			target:   core.NewCoordinate(2, 2),
			expected: []Command{reveal(1, 1), flag(2, 2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tap, mock := newTestTap()
			if tt.primary != nil {
				tap.Primary(*tt.primary)
			}

			assert.Equal(t, tt.expected, tap.Secondary(tt.target))

			mock.Add(time.Second)
			assert.Empty(t, tap.Tick())
		})
	}
}

func TestTap_ZeroDelay_RevealsImmediately(t *testing.T) {
	tap := NewTapDisambiguator(clock.NewMock(), 0)

	assert.Equal(t, []Command{reveal(1, 1)}, tap.Primary(core.NewCoordinate(1, 1)))
	assert.Equal(t, []Command{reveal(1, 1)}, tap.Primary(core.NewCoordinate(1, 1)))
	_, pending := tap.Pending()
	assert.False(t, pending)
}

func TestTap_Cancel(t *testing.T) {
	tap, mock := newTestTap()

	tap.Primary(core.NewCoordinate(0, 1))
	tap.Cancel()
	mock.Add(time.Second)
	assert.Empty(t, tap.Tick())
}

func TestTap_SetDelay(t *testing.T) {
	tap, mock := newTestTap()
	tap.SetDelay(time.Second)
	assert.Equal(t, time.Second, tap.Delay())

	tap.Primary(core.NewCoordinate(0, 0))
	mock.Add(500 * time.Millisecond)
	assert.Equal(t, []Command{flag(0, 0)}, tap.Primary(core.NewCoordinate(0, 0)))
}

func TestCommandKind_String(t *testing.T) {
	assert.Equal(t, "reveal", CommandReveal.String())
	assert.Equal(t, "flag", CommandFlag.String())
	assert.Equal(t, "unknown", CommandKind(9).String())
}
