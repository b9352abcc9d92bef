package search_test

import (
	"testing"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/eval"
	"github.com/herohde/gomoku/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sq(row, col int) board.Square {
	return board.NewSquare(row, col)
}

func play(t *testing.T, cfg board.Config, moves ...board.Move) *board.Board {
	t.Helper()

	b, err := board.New(cfg)
	require.NoError(t, err)
	for _, m := range moves {
		require.NoError(t, b.MakeMove(m))
	}
	return b
}

func TestKillers(t *testing.T) {
	k := search.NewKillers()

	k0, k1 := k.Probe(3)
	assert.Equal(t, board.NoMove, k0)
	assert.Equal(t, board.NoMove, k1)

	k.Insert(3, sq(1, 1))
	k.Insert(3, sq(2, 2))

	k0, k1 = k.Probe(3)
	assert.Equal(t, sq(2, 2), k0)
	assert.Equal(t, sq(1, 1), k1)

	// Re-inserting the current slot-0 killer is a no-op.
	k.Insert(3, sq(2, 2))
	k0, k1 = k.Probe(3)
	assert.Equal(t, sq(2, 2), k0)
	assert.Equal(t, sq(1, 1), k1)

	// Other plies are unaffected.
	k0, _ = k.Probe(4)
	assert.Equal(t, board.NoMove, k0)
}

func TestHistory(t *testing.T) {
	h := search.NewHistory()

	h.Add(sq(5, 5), 4)
	h.Add(sq(5, 5), 2)
	assert.Equal(t, int32(20), h.Probe(sq(5, 5)))

	h.Age()
	assert.Equal(t, int32(10), h.Probe(sq(5, 5)))
	assert.Equal(t, int32(0), h.Probe(sq(6, 6)))
}

func TestRankOrdering(t *testing.T) {
	b := play(t, board.Config{Size: 15, WinK: 5},
		sq(7, 7), sq(0, 0), sq(7, 8), sq(0, 2))

	ord := search.NewOrderer(eval.NewEvaluator(15))

	// The TT move comes first even if tactically uninteresting; killers
	// follow.
	ttMove := sq(5, 5)
	ord.Killers.Insert(0, sq(9, 9))

	moves := ord.Rank(b, 0, 3, ttMove)
	require.NotEmpty(t, moves)
	assert.Equal(t, ttMove, moves[0])
	assert.Equal(t, sq(9, 9), moves[1])

	// Without hints, the strongest tactical extension leads.
	plain := search.NewOrderer(eval.NewEvaluator(15))
	moves = plain.Rank(b, 0, 3, board.NoMove)
	assert.Contains(t, []board.Move{sq(7, 6), sq(7, 9)}, moves[0],
		"extending the pair to a three should rank first")
}

func TestRankTopKPruning(t *testing.T) {
	b := play(t, board.Config{Size: 15, WinK: 5},
		sq(7, 7), sq(0, 0), sq(7, 8), sq(0, 2))

	ord := search.NewOrderer(eval.NewEvaluator(15))
	legal := b.LegalMoves()

	tests := []struct {
		depth int
		want  int
	}{
		{12, 6},
		{8, 8},
		{6, 12},
		{4, 16},
		{3, len(legal)},
		{1, len(legal)},
	}
	for _, tt := range tests {
		moves := ord.Rank(b, 0, tt.depth, board.NoMove)
		assert.Len(t, moves, tt.want, "depth=%v", tt.depth)
	}

	// Shallow depths never drop a legal move.
	moves := ord.Rank(b, 0, 2, board.NoMove)
	assert.ElementsMatch(t, legal, moves)
}

func TestRankDeterministic(t *testing.T) {
	b := play(t, board.Config{Size: 15, WinK: 5}, sq(7, 7), sq(8, 8))

	ord := search.NewOrderer(eval.NewEvaluator(15))
	first := ord.Rank(b, 0, 5, board.NoMove)
	second := ord.Rank(b, 0, 5, board.NoMove)
	assert.Equal(t, first, second)
}

func TestMoveList(t *testing.T) {
	moves := []board.Move{sq(1, 1), sq(2, 2), sq(3, 3)}
	ml := search.NewMoveList(moves, func(m board.Move) search.Priority {
		return search.Priority(m.Row()) // 3,3 first
	})

	m, ok := ml.Next()
	assert.True(t, ok)
	assert.Equal(t, sq(3, 3), m)
	assert.Equal(t, 2, ml.Size())

	rest := ml.Take(5)
	assert.Equal(t, []board.Move{sq(2, 2), sq(1, 1)}, rest)

	_, ok = ml.Next()
	assert.False(t, ok)
}

func TestMoveListTieBreak(t *testing.T) {
	// Equal priorities drain in row-major square order.
	moves := []board.Move{sq(9, 3), sq(1, 4), sq(5, 5), sq(1, 2)}
	ml := search.NewMoveList(moves, func(board.Move) search.Priority { return 7 })

	assert.Equal(t, []board.Move{sq(1, 2), sq(1, 4), sq(5, 5), sq(9, 3)}, ml.Take(4))
}
