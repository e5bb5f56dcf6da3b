package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCounter(t *testing.T) {
	tests := []struct {
		n     int
		width int
		want  string
	}{
		{0, 3, "000"},
		{7, 3, "007"},
		{10, 3, "010"},
		{999, 3, "999"},
		{1234, 3, "999"},
		{-1, 3, "-01"},
		{-42, 3, "-42"},
		{-500, 3, "-99"},
		{5, 0, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCounter(tt.n, tt.width), "FormatCounter(%d, %d)", tt.n, tt.width)
	}
}

func TestGetActionType(t *testing.T) {
	assert.Equal(t, "nil", GetActionType(nil))
	assert.Equal(t, "*core.RevealAction", GetActionType(&RevealAction{}))
}
