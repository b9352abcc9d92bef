package board_test

import (
	"testing"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestPatternClassification(t *testing.T) {
	cfg := board.Config{Size: 15, WinK: 5}

	tests := []struct {
		name     string
		moves    []board.Move
		color    board.Color
		kind     board.PatternKind
		expected int16
	}{
		{
			name:     "open two",
			moves:    []board.Move{sq(7, 7), sq(0, 0), sq(7, 8)},
			color:    board.Max,
			kind:     board.OpenTwo,
			expected: 1,
		},
		{
			name:     "open three",
			moves:    []board.Move{sq(7, 7), sq(0, 0), sq(7, 8), sq(0, 2), sq(7, 9)},
			color:    board.Max,
			kind:     board.OpenThree,
			expected: 1,
		},
		{
			name:     "half-open three blocked by stone",
			moves:    []board.Move{sq(7, 7), sq(7, 6), sq(7, 8), sq(0, 2), sq(7, 9)},
			color:    board.Max,
			kind:     board.HalfThree,
			expected: 1,
		},
		{
			name:     "half-open three at the edge",
			moves:    []board.Move{sq(7, 0), sq(0, 5), sq(7, 1), sq(0, 7), sq(7, 2)},
			color:    board.Max,
			kind:     board.HalfThree,
			expected: 1,
		},
		{
			name:     "open four",
			moves:    []board.Move{sq(7, 7), sq(0, 0), sq(7, 8), sq(0, 2), sq(7, 9), sq(0, 4), sq(7, 10)},
			color:    board.Max,
			kind:     board.OpenFour,
			expected: 1,
		},
		{
			name:     "half-open four",
			moves:    []board.Move{sq(7, 7), sq(7, 6), sq(7, 8), sq(0, 2), sq(7, 9), sq(0, 4), sq(7, 10)},
			color:    board.Max,
			kind:     board.HalfFour,
			expected: 1,
		},
		{
			name:     "opponent half-open two on the edge",
			moves:    []board.Move{sq(7, 7), sq(0, 0), sq(7, 8), sq(0, 1)},
			color:    board.Min,
			kind:     board.HalfTwo,
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := play(t, cfg, tt.moves...)

			counts := b.PatternCounts()
			assert.Equal(t, tt.expected, counts[tt.color][tt.kind], "counts: %v", counts)
			assert.Equal(t, b.RescanPatterns(), counts)
		})
	}
}

func TestPatternFive(t *testing.T) {
	b := play(t, board.Config{Size: 15, WinK: 5},
		sq(7, 7), sq(0, 0), sq(7, 8), sq(0, 1), sq(7, 9), sq(0, 2), sq(7, 10), sq(0, 3), sq(7, 11))

	counts := b.PatternCounts()
	assert.Equal(t, int16(1), counts[board.Max][board.Five])
}

func TestPatternOverlineCountsAsFive(t *testing.T) {
	// With K=3, a run of four still registers as a winning five pattern.
	b := play(t, board.Config{Size: 9, WinK: 3, CaptureWin: 0},
		sq(4, 2), sq(0, 0), sq(4, 5), sq(0, 4), sq(4, 3))
	// X: _ X X _ X _ at (4,2),(4,3),(4,5): no three yet.
	counts := b.PatternCounts()
	assert.Equal(t, int16(0), counts[board.Max][board.Five])

	// Completing (4,4) joins the runs into four in a row.
	assert.NoError(t, b.MakeMove(sq(2, 0)))
	assert.NoError(t, b.MakeMove(sq(4, 4)))

	counts = b.PatternCounts()
	assert.Equal(t, int16(1), counts[board.Max][board.Five])
	assert.Equal(t, board.Won, b.Result().Outcome)
}

func TestPatternCaptureRescan(t *testing.T) {
	// Removing a captured pair must update every line the pair sat on.
	cfg := board.Config{Size: 15, WinK: 5, CaptureWin: 5}
	b := play(t, cfg, sq(7, 4), sq(7, 5), sq(0, 0), sq(7, 6), sq(7, 7))

	assert.Equal(t, b.RescanPatterns(), b.PatternCounts())
}
