package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActions_Validate(t *testing.T) {
	board := NewBoard(3, 4)

	tests := []struct {
		name    string
		action  Action
		wantErr error
	}{
		{"reveal in bounds", &RevealAction{Row: 2, Col: 3}, nil},
		{"reveal out of bounds", &RevealAction{Row: 3, Col: 0}, ErrInvalidCoordinates},
		{"flag in bounds", &FlagAction{Row: 0, Col: 0}, nil},
		{"flag negative", &FlagAction{Row: 0, Col: -1}, ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate(board)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestActionType_String(t *testing.T) {
	assert.Equal(t, "reveal", (&RevealAction{}).GetType().String())
	assert.Equal(t, "flag", (&FlagAction{}).GetType().String())
	assert.Equal(t, "unknown", ActionType(9).String())
}
