package board_test

import (
	"testing"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquare(t *testing.T) {
	s := board.NewSquare(7, 11)
	assert.Equal(t, 7, s.Row())
	assert.Equal(t, 11, s.Col())
	assert.Equal(t, "l8", s.String())

	assert.True(t, s.IsValid(15))
	assert.False(t, s.IsValid(11))
	assert.False(t, board.NoSquare.IsValid(15))
	assert.Equal(t, "-", board.NoSquare.String())
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in       string
		expected board.Square
		ok       bool
	}{
		{"h8", board.NewSquare(7, 7), true},
		{"A1", board.NewSquare(0, 0), true},
		{"  o15 ", board.NewSquare(14, 14), true},
		{"", board.NoSquare, false},
		{"8h", board.NoSquare, false},
		{"h", board.NoSquare, false},
		{"h0", board.NoSquare, false},
		{"h99", board.NoSquare, false},
	}

	for _, tt := range tests {
		s, err := board.ParseSquare(tt.in)
		if tt.ok {
			require.NoError(t, err, "%q", tt.in)
			assert.Equal(t, tt.expected, s, "%q", tt.in)
		} else {
			assert.Error(t, err, "%q", tt.in)
		}
	}
}

func TestParseMovesRoundTrip(t *testing.T) {
	moves := []board.Move{board.NewSquare(7, 7), board.NewSquare(0, 0), board.NewSquare(14, 14)}

	parsed, err := board.ParseMoves(board.PrintMoves(moves))
	require.NoError(t, err)
	assert.Equal(t, moves, parsed)
}
