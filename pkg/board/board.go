// Package board contains the gomoku board representation: grid state, move
// stack with undo, capture rules, Zobrist hashing and incrementally maintained
// tactical pattern counts.
package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIllegalMove indicates a move on an occupied square or in a
	// terminal position.
	ErrIllegalMove = errors.New("illegal move")
	// ErrOutOfBounds indicates a square outside the board.
	ErrOutOfBounds = errors.New("square out of bounds")
	// ErrInvalidConfig indicates rejected construction arguments.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvariant indicates an internal self-check failure. Fatal.
	ErrInvariant = errors.New("internal invariant violated")
)

// Cell is the content of a grid cell.
type Cell uint8

const (
	empty Cell = iota
	maxStone
	minStone
)

func cellOf(c Color) Cell {
	return Cell(c) + 1
}

func (c Cell) color() Color {
	return Color(c - 1)
}

// Config holds board construction parameters.
type Config struct {
	// Size is the board dimension N for an N×N grid.
	Size int
	// WinK is the number of consecutive stones needed to win.
	WinK int
	// CaptureWin, if positive, is the number of captured pairs that wins
	// the game. Zero disables the capture variant entirely.
	CaptureWin int
}

func (c Config) String() string {
	return fmt.Sprintf("{size=%v, k=%v, captures=%v}", c.Size, c.WinK, c.CaptureWin)
}

// MoveRecord holds everything needed to undo a move exactly.
type MoveRecord struct {
	Square   Square
	Color    Color
	Captured []Square // opponent stones removed by the move
	PrevHash ZobristHash
	Patterns PatternCounts // pattern counts before the move
}

// Board is the authoritative, mutable game state. Not thread-safe: each search
// worker owns a clone.
type Board struct {
	cfg Config
	zt  *ZobristTable

	grid      []Cell
	neighbors []uint8 // occupied cells within Chebyshev distance 2, per cell
	stones    int
	captures  [NumColors]int
	turn      Color
	hash      ZobristHash
	patterns  PatternCounts
	stack     []MoveRecord
}

// New creates an empty board. Max is to move.
func New(cfg Config) (*Board, error) {
	if cfg.Size < 2 || cfg.Size > MaxSize {
		return nil, fmt.Errorf("%w: board size %v not in [2;%v]", ErrInvalidConfig, cfg.Size, MaxSize)
	}
	if cfg.WinK < 3 || cfg.WinK > cfg.Size {
		return nil, fmt.Errorf("%w: win length %v not in [3;%v]", ErrInvalidConfig, cfg.WinK, cfg.Size)
	}
	if cfg.CaptureWin < 0 {
		return nil, fmt.Errorf("%w: negative capture limit %v", ErrInvalidConfig, cfg.CaptureWin)
	}

	return &Board{
		cfg:       cfg,
		zt:        tableFor(cfg.Size),
		grid:      make([]Cell, cfg.Size*cfg.Size),
		neighbors: make([]uint8, cfg.Size*cfg.Size),
	}, nil
}

func (b *Board) index(row, col int) int {
	return row*b.cfg.Size + col
}

// Config returns the construction parameters.
func (b *Board) Config() Config {
	return b.cfg
}

// Turn returns the side to move.
func (b *Board) Turn() Color {
	return b.turn
}

// Hash returns the incrementally maintained Zobrist hash.
func (b *Board) Hash() ZobristHash {
	return b.hash
}

// Ply returns the number of stones played, i.e. the move stack depth.
func (b *Board) Ply() int {
	return len(b.stack)
}

// Captures returns the number of pairs the given color has captured.
func (b *Board) Captures(c Color) int {
	return b.captures[c]
}

// LastMove returns the most recent move, if any.
func (b *Board) LastMove() (MoveRecord, bool) {
	if len(b.stack) == 0 {
		return MoveRecord{}, false
	}
	return b.stack[len(b.stack)-1], true
}

// Stone returns the color of the stone on the square, if any.
func (b *Board) Stone(sq Square) (Color, bool) {
	if !sq.IsValid(b.cfg.Size) {
		return 0, false
	}
	cell := b.grid[b.index(sq.Row(), sq.Col())]
	if cell == empty {
		return 0, false
	}
	return cell.color(), true
}

// LegalMoves enumerates candidate moves in row-major order: the frontier of
// empty cells within Chebyshev distance 2 of any stone, or the center cell on
// an empty board.
func (b *Board) LegalMoves() []Move {
	if b.stones == 0 {
		return []Move{NewSquare(b.cfg.Size/2, b.cfg.Size/2)}
	}

	var ret []Move
	for r := 0; r < b.cfg.Size; r++ {
		for c := 0; c < b.cfg.Size; c++ {
			i := b.index(r, c)
			if b.grid[i] == empty && b.neighbors[i] > 0 {
				ret = append(ret, NewSquare(r, c))
			}
		}
	}
	return ret
}

// MakeMove places a stone for the side to move, resolves captures, updates the
// hash and pattern counts incrementally, and flips the turn. The board is not
// mutated on failure.
func (b *Board) MakeMove(m Move) error {
	if !m.IsValid(b.cfg.Size) {
		return fmt.Errorf("%w: %v on %v board", ErrOutOfBounds, m, b.cfg.Size)
	}
	idx := b.index(m.Row(), m.Col())
	if b.grid[idx] != empty {
		return fmt.Errorf("%w: %v is occupied", ErrIllegalMove, m)
	}
	if b.Result().Outcome != Undecided {
		return fmt.Errorf("%w: position is terminal", ErrIllegalMove)
	}

	mover := b.turn
	captured := b.findCaptures(m, mover)

	rec := MoveRecord{
		Square:   m,
		Color:    mover,
		Captured: captured,
		PrevHash: b.hash,
		Patterns: b.patterns,
	}

	// Subtract the classification of every affected line, mutate, re-add.
	lines := b.affectedLines(m, captured)
	for _, ln := range lines {
		b.scanLine(ln.sq, ln.dir, &b.patterns, -1)
	}

	b.grid[idx] = cellOf(mover)
	b.hash ^= b.zt.Stone(mover, m)
	b.bumpNeighbors(m, 1)
	b.stones++

	opp := mover.Opponent()
	for _, sq := range captured {
		b.grid[b.index(sq.Row(), sq.Col())] = empty
		b.hash ^= b.zt.Stone(opp, sq)
		b.bumpNeighbors(sq, -1)
		b.stones--
	}
	b.captures[mover] += len(captured) / 2

	for _, ln := range lines {
		b.scanLine(ln.sq, ln.dir, &b.patterns, 1)
	}

	b.hash ^= b.zt.Side()
	b.turn = opp
	b.stack = append(b.stack, rec)
	return nil
}

// UndoMove reverts the most recent move exactly.
func (b *Board) UndoMove() error {
	if len(b.stack) == 0 {
		return fmt.Errorf("%w: empty move stack", ErrIllegalMove)
	}
	rec := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	b.grid[b.index(rec.Square.Row(), rec.Square.Col())] = empty
	b.bumpNeighbors(rec.Square, -1)
	b.stones--

	opp := rec.Color.Opponent()
	for _, sq := range rec.Captured {
		b.grid[b.index(sq.Row(), sq.Col())] = cellOf(opp)
		b.bumpNeighbors(sq, 1)
		b.stones++
	}
	b.captures[rec.Color] -= len(rec.Captured) / 2

	b.turn = rec.Color
	b.hash = rec.PrevHash
	b.patterns = rec.Patterns
	return nil
}

// Result adjudicates the position: a win if the last move completed a K-run
// for its color or reached the capture limit, a draw if the board is full.
func (b *Board) Result() Result {
	rec, ok := b.LastMove()
	if !ok {
		return Result{}
	}

	if b.runThrough(rec.Square, rec.Color) >= b.cfg.WinK {
		return Result{Outcome: Won, Winner: rec.Color, Reason: FiveInARow}
	}
	if b.cfg.CaptureWin > 0 && b.captures[rec.Color] >= b.cfg.CaptureWin {
		return Result{Outcome: Won, Winner: rec.Color, Reason: CaptureLimit}
	}
	if b.stones == len(b.grid) {
		return Result{Outcome: Draw, Reason: BoardFull}
	}
	return Result{}
}

// runThrough returns the longest same-color run through the square.
func (b *Board) runThrough(sq Square, c Color) int {
	cell := cellOf(c)
	best := 0
	for _, d := range directions {
		n := 1
		for s := 1; ; s++ {
			r, col := sq.Row()+s*d[0], sq.Col()+s*d[1]
			if r < 0 || r >= b.cfg.Size || col < 0 || col >= b.cfg.Size || b.grid[b.index(r, col)] != cell {
				break
			}
			n++
		}
		for s := 1; ; s++ {
			r, col := sq.Row()-s*d[0], sq.Col()-s*d[1]
			if r < 0 || r >= b.cfg.Size || col < 0 || col >= b.cfg.Size || b.grid[b.index(r, col)] != cell {
				break
			}
			n++
		}
		if n > best {
			best = n
		}
	}
	return best
}

// findCaptures returns the opponent stones a move by c on sq would remove:
// for each of the eight rays, the pair in "mover, opp, opp, mover".
func (b *Board) findCaptures(sq Square, c Color) []Square {
	if b.cfg.CaptureWin == 0 {
		return nil
	}

	own, opp := cellOf(c), cellOf(c.Opponent())
	var ret []Square
	for _, d := range directions {
		for _, sign := range [2]int{1, -1} {
			dr, dc := sign*d[0], sign*d[1]
			r3, c3 := sq.Row()+3*dr, sq.Col()+3*dc
			if r3 < 0 || r3 >= b.cfg.Size || c3 < 0 || c3 >= b.cfg.Size {
				continue
			}
			if b.grid[b.index(sq.Row()+dr, sq.Col()+dc)] == opp &&
				b.grid[b.index(sq.Row()+2*dr, sq.Col()+2*dc)] == opp &&
				b.grid[b.index(r3, c3)] == own {
				ret = append(ret,
					NewSquare(sq.Row()+dr, sq.Col()+dc),
					NewSquare(sq.Row()+2*dr, sq.Col()+2*dc))
			}
		}
	}
	return ret
}

type lineRef struct {
	sq  Square
	dir int
}

// affectedLines returns the deduplicated lines through the placed square and
// every captured square. Rescanning whole lines keeps the incremental counts
// in exact agreement with RescanPatterns.
func (b *Board) affectedLines(sq Square, captured []Square) []lineRef {
	var ret []lineRef
	seen := map[lineRef]bool{}

	add := func(s Square) {
		for d := range directions {
			r, c := b.lineStart(s, d)
			ref := lineRef{sq: NewSquare(r, c), dir: d}
			if !seen[ref] {
				seen[ref] = true
				ret = append(ret, ref)
			}
		}
	}
	add(sq)
	for _, s := range captured {
		add(s)
	}
	return ret
}

// bumpNeighbors adjusts the frontier neighbor counts around a placed or
// removed stone.
func (b *Board) bumpNeighbors(sq Square, delta int) {
	for dr := -2; dr <= 2; dr++ {
		for dc := -2; dc <= 2; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := sq.Row()+dr, sq.Col()+dc
			if r < 0 || r >= b.cfg.Size || c < 0 || c >= b.cfg.Size {
				continue
			}
			b.neighbors[b.index(r, c)] = uint8(int(b.neighbors[b.index(r, c)]) + delta)
		}
	}
}

// Clone returns a deep copy for use by a search worker.
func (b *Board) Clone() *Board {
	ret := &Board{
		cfg:       b.cfg,
		zt:        b.zt,
		grid:      append([]Cell(nil), b.grid...),
		neighbors: append([]uint8(nil), b.neighbors...),
		stones:    b.stones,
		captures:  b.captures,
		turn:      b.turn,
		hash:      b.hash,
		patterns:  b.patterns,
		stack:     append([]MoveRecord(nil), b.stack...),
	}
	return ret
}

// RecomputeHash computes the Zobrist hash from the grid alone.
func (b *Board) RecomputeHash() ZobristHash {
	var hash ZobristHash
	for r := 0; r < b.cfg.Size; r++ {
		for c := 0; c < b.cfg.Size; c++ {
			if cell := b.grid[b.index(r, c)]; cell != empty {
				hash ^= b.zt.Stone(cell.color(), NewSquare(r, c))
			}
		}
	}
	if b.turn == Min {
		hash ^= b.zt.Side()
	}
	return hash
}

// CheckInvariants cross-checks the incremental state against full
// recomputation. A failure is fatal and surfaced with context.
func (b *Board) CheckInvariants() error {
	if h := b.RecomputeHash(); h != b.hash {
		return fmt.Errorf("%w: hash %x != recomputed %x", ErrInvariant, b.hash, h)
	}
	if p := b.RescanPatterns(); p != b.patterns {
		return fmt.Errorf("%w: patterns %v != rescan %v", ErrInvariant, b.patterns, p)
	}
	stones := 0
	for _, cell := range b.grid {
		if cell != empty {
			stones++
		}
	}
	if stones != b.stones {
		return fmt.Errorf("%w: %v stones on grid, %v counted", ErrInvariant, stones, b.stones)
	}
	return nil
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := b.cfg.Size - 1; r >= 0; r-- {
		for c := 0; c < b.cfg.Size; c++ {
			switch b.grid[b.index(r, c)] {
			case maxStone:
				sb.WriteString("X ")
			case minStone:
				sb.WriteString("O ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "turn=%v ply=%v hash=%x", b.turn, b.Ply(), b.hash)
	return sb.String()
}
