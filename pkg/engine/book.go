package engine

import (
	"github.com/herohde/gomoku/pkg/board"
)

// OpeningBook maps position hashes to prepared moves. The engine consults it
// before searching; its persistence format is a caller concern.
type OpeningBook interface {
	// Lookup returns the book move for the position hash, if present.
	Lookup(hash board.ZobristHash) (board.Move, bool)
}

// Book is a simple in-memory opening book.
type Book struct {
	moves map[board.ZobristHash]board.Move
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{moves: map[board.ZobristHash]board.Move{}}
}

// Add records a book move for the position hash.
func (b *Book) Add(hash board.ZobristHash, m board.Move) {
	b.moves[hash] = m
}

// AddLine replays a move sequence from the empty board of the given
// configuration and records each position's continuation.
func (b *Book) AddLine(cfg board.Config, moves []board.Move) error {
	pos, err := board.New(cfg)
	if err != nil {
		return err
	}
	for _, m := range moves {
		b.Add(pos.Hash(), m)
		if err := pos.MakeMove(m); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the book move for the position hash, if present.
func (b *Book) Lookup(hash board.ZobristHash) (board.Move, bool) {
	m, ok := b.moves[hash]
	return m, ok
}

// Size returns the number of book positions.
func (b *Book) Size() int {
	return len(b.moves)
}
