package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/eval"
	"github.com/herohde/gomoku/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTable(t *testing.T) {
	ctx := context.Background()

	// (1) Test that we use MSB for size only.

	tt := search.NewTranspositionTable(ctx, 0x100000)
	assert.Equal(t, uint64(0x100000>>5), tt.Size())

	// (2) Test read/write.

	a := board.ZobristHash(rand.Uint64())

	_, ok := tt.Read(a)
	assert.False(t, ok)

	m := board.NewSquare(7, 7)
	tt.Write(a, search.ExactBound, 4, 1200, m)

	e, ok := tt.Read(a)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, e.Bound)
	assert.Equal(t, int16(4), e.Depth)
	assert.Equal(t, eval.Score(1200), e.Score)
	assert.Equal(t, m, e.Move)

	// A full-hash mismatch on the same slot is a miss, not a hit.
	_, ok = tt.Read(a ^ board.ZobristHash(uint64(tt.Size())<<8))
	assert.False(t, ok)

	// (3) Test replacement within an iteration: deeper entries survive.

	replaced := tt.Write(a, search.LowerBound, 2, 500, m)
	assert.False(t, replaced)

	replaced = tt.Write(a, search.LowerBound, 6, 500, m)
	assert.True(t, replaced)

	// (4) A fresher write from a new iteration does not displace a deeper
	// entry for the same position.

	tt.NewSearch()
	replaced = tt.Write(a, search.ExactBound, 1, 300, m)
	assert.False(t, replaced)

	e, _ = tt.Read(a)
	assert.Equal(t, int16(6), e.Depth)
}

func TestTranspositionTableCollisionReplaces(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x100000)

	a := board.ZobristHash(1)
	b := a ^ board.ZobristHash(uint64(tt.Size())<<10) // same slot, different hash

	tt.Write(a, search.ExactBound, 9, 100, board.NewSquare(1, 1))
	tt.Write(b, search.ExactBound, 1, 200, board.NewSquare(2, 2))

	_, ok := tt.Read(a)
	assert.False(t, ok, "collision must evict")

	e, ok := tt.Read(b)
	assert.True(t, ok)
	assert.Equal(t, eval.Score(200), e.Score)
}

func TestTranspositionTableClear(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x100000)

	tt.Write(1, search.ExactBound, 3, 100, board.NoMove)
	assert.Positive(t, tt.Used())

	tt.Clear()
	assert.Zero(t, tt.Used())
	_, ok := tt.Read(1)
	assert.False(t, ok)
}

func TestTranspositionTableStats(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x100000)

	tt.Write(42, search.ExactBound, 3, 100, board.NoMove)
	_, _ = tt.Read(42)
	_, _ = tt.Read(43)

	s := tt.Stats()
	assert.Equal(t, uint64(1), s.Entries)
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(2), s.Probes)
}
