package eval_test

import (
	"testing"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func play(t *testing.T, moves ...board.Move) *board.Board {
	t.Helper()

	b, err := board.New(board.Config{Size: 15, WinK: 5})
	require.NoError(t, err)
	for _, m := range moves {
		require.NoError(t, b.MakeMove(m))
	}
	return b
}

func sq(row, col int) board.Square {
	return board.NewSquare(row, col)
}

func TestEvaluatePerspective(t *testing.T) {
	ev := eval.NewEvaluator(15)

	// X holds an open three against two scattered O stones. The position
	// favors X regardless of whose turn it is, so the negamax sign flips.
	b := play(t, sq(7, 7), sq(0, 0), sq(7, 8), sq(0, 2), sq(7, 9))
	fromMin := ev.Evaluate(b, eval.Full) // Min to move
	assert.Negative(t, int(fromMin))

	require.NoError(t, b.MakeMove(sq(0, 4)))
	fromMax := ev.Evaluate(b, eval.Full)
	assert.Positive(t, int(fromMax))
}

func TestEvaluateDoubleThree(t *testing.T) {
	ev := eval.NewEvaluator(15)

	// A double open three scores at least twice the open-three weight.
	b := play(t,
		sq(7, 7), sq(0, 0), sq(7, 8), sq(0, 2), sq(7, 9), sq(0, 4),
		sq(8, 7), sq(0, 6), sq(9, 7), sq(0, 8))

	counts := b.PatternCounts()
	require.GreaterOrEqual(t, counts[board.Max][board.OpenThree], int16(2))

	// Pass-like fillers far away, one per side, so Max is to move again.
	require.NoError(t, b.MakeMove(sq(0, 10)))
	require.NoError(t, b.MakeMove(sq(14, 14)))
	score := ev.Evaluate(b, eval.Full)
	assert.GreaterOrEqual(t, score, 2*eval.Weights[board.OpenThree])
}

func TestTacticalModeIgnoresSmallPatterns(t *testing.T) {
	ev := eval.NewEvaluator(15)

	// Only open twos on the board: tactically quiet.
	b := play(t, sq(7, 7), sq(0, 5), sq(7, 8), sq(0, 7))
	assert.Equal(t, eval.Score(0), ev.Evaluate(b, eval.Tactical))
	assert.NotEqual(t, eval.Score(0), ev.Evaluate(b, eval.Full))
}

func TestThreatGain(t *testing.T) {
	ev := eval.NewEvaluator(15)

	// Extending an open three into an open four is the dominant gain.
	b := play(t, sq(7, 7), sq(0, 0), sq(7, 8), sq(0, 2), sq(7, 9), sq(0, 4))
	require.Equal(t, board.Max, b.Turn())

	extend := ev.ThreatGain(b, sq(7, 10), board.Max)
	elsewhere := ev.ThreatGain(b, sq(3, 3), board.Max)
	assert.Greater(t, extend, elsewhere)
	assert.GreaterOrEqual(t, extend, eval.Weights[board.OpenFour]-eval.Weights[board.OpenThree])
}

func TestPositionBonus(t *testing.T) {
	ev := eval.NewEvaluator(15)

	center := ev.PositionBonus(sq(7, 7))
	edge := ev.PositionBonus(sq(0, 7))
	corner := ev.PositionBonus(sq(0, 0))

	assert.Greater(t, center, edge)
	assert.Greater(t, edge, corner)
	assert.Negative(t, int(corner))
}

func TestMateScores(t *testing.T) {
	assert.Equal(t, eval.Score(99997), eval.MateIn(3))
	assert.Equal(t, eval.Score(-99997), eval.MatedIn(3))

	assert.True(t, eval.MateIn(3).IsMateScore())
	assert.False(t, eval.Score(15000).IsMateScore())

	md, ok := eval.MateIn(3).MateDistance()
	assert.True(t, ok)
	assert.Equal(t, 3, md)

	md, ok = eval.MatedIn(7).MateDistance()
	assert.True(t, ok)
	assert.Equal(t, 7, md)

	// Shorter mates score strictly higher.
	assert.Greater(t, eval.MateIn(2), eval.MateIn(5))
	assert.Greater(t, eval.MatedIn(9), eval.MatedIn(4))
}

func TestMateScoreTTAdjustment(t *testing.T) {
	// A mate found 3 plies below a node at ply 4 stores root-relative and
	// reads back at any other ply with the distance intact.
	s := eval.MateIn(7) // 4 + 3
	stored := eval.ToTT(s, 4)
	assert.Equal(t, eval.MateIn(3), stored)

	assert.Equal(t, s, eval.FromTT(stored, 4))
	assert.Equal(t, eval.MateIn(9), eval.FromTT(stored, 6))

	// Heuristic scores pass through unchanged.
	assert.Equal(t, eval.Score(1234), eval.ToTT(1234, 9))
	assert.Equal(t, eval.Score(-1234), eval.FromTT(-1234, 9))
}

func TestCache(t *testing.T) {
	c := eval.NewCache(16)

	c.Put(1, eval.Full, 100)
	c.Put(2, eval.Tactical, 200)

	s, ok := c.Get(1, eval.Full)
	assert.True(t, ok)
	assert.Equal(t, eval.Score(100), s)

	// A Full entry satisfies a Tactical probe, not vice versa.
	_, ok = c.Get(1, eval.Tactical)
	assert.True(t, ok)
	_, ok = c.Get(2, eval.Full)
	assert.False(t, ok)
	_, ok = c.Get(2, eval.Tactical)
	assert.True(t, ok)

	// A Tactical write never downgrades a Full entry.
	c.Put(1, eval.Tactical, 999)
	s, _ = c.Get(1, eval.Full)
	assert.Equal(t, eval.Score(100), s)

	// Overflow evicts but stays bounded.
	for i := 0; i < 100; i++ {
		c.Put(board.ZobristHash(1000+i), eval.Full, eval.Score(i))
	}
	assert.LessOrEqual(t, c.Len(), 16)
}

func TestRandomNoise(t *testing.T) {
	zero := eval.Random{}
	assert.Equal(t, eval.Score(0), zero.Sample())

	n := eval.NewRandom(100, 1)
	for i := 0; i < 100; i++ {
		v := n.Sample()
		assert.GreaterOrEqual(t, v, eval.Score(-50))
		assert.LessOrEqual(t, v, eval.Score(50))
	}
}
