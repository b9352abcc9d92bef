package search

import (
	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/eval"
)

// Move ordering priorities. The TT move outranks everything, killers outrank
// ordinary moves, and ordinary moves are graded by tactical threat first,
// history second and static position last.
const (
	priorityTTMove  Priority = 1 << 30
	priorityKiller0 Priority = 1 << 28
	priorityKiller1 Priority = priorityKiller0 - 1

	threatWeight  Priority = 256
	historyWeight Priority = 16
)

// topK returns the move count retained at the given remaining depth. Shallow
// nodes keep everything; deep nodes are pruned hard.
func topK(depth int) int {
	switch {
	case depth >= 10:
		return 6
	case depth >= 8:
		return 8
	case depth >= 6:
		return 12
	case depth >= 4:
		return 16
	default:
		return -1 // unlimited
	}
}

// Killers holds per-ply moves that caused beta cutoffs. Slot 0 is the most
// recent; inserting shifts slot 0 to 1. Per-worker.
type Killers struct {
	slots [MaxPly][2]board.Move
}

// NewKillers creates an empty killer table.
func NewKillers() *Killers {
	k := &Killers{}
	for i := range k.slots {
		k.slots[i][0] = board.NoMove
		k.slots[i][1] = board.NoMove
	}
	return k
}

// Insert records a cutoff move at the given ply, without duplicates.
func (k *Killers) Insert(ply int, m board.Move) {
	if ply >= MaxPly || k.slots[ply][0] == m {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = m
}

// Probe returns the killer moves for the ply.
func (k *Killers) Probe(ply int) (board.Move, board.Move) {
	if ply >= MaxPly {
		return board.NoMove, board.NoMove
	}
	return k.slots[ply][0], k.slots[ply][1]
}

// History is a square-indexed table of cutoff counters used as a soft
// ordering hint. Per-worker; lost updates would be acceptable but per-worker
// tables avoid contention entirely.
type History struct {
	counts [board.NumSquares]int32
}

// NewHistory creates an empty history table.
func NewHistory() *History {
	return &History{}
}

// Add credits a cutoff move with depth².
func (h *History) Add(m board.Move, depth int) {
	h.counts[m.Index()] += int32(depth * depth)
}

// Probe returns the accumulated credit for a move.
func (h *History) Probe(m board.Move) int32 {
	return h.counts[m.Index()]
}

// Age halves all counters to keep old cutoffs from dominating forever.
func (h *History) Age() {
	for i := range h.counts {
		h.counts[i] >>= 1
	}
}

// Orderer produces ordered, depth-pruned candidate lists. Per-worker: killers
// and history are both private to the owning worker.
type Orderer struct {
	Killers *Killers
	History *History
	Eval    *eval.Evaluator
}

// NewOrderer creates an orderer backed by fresh killer and history tables.
func NewOrderer(ev *eval.Evaluator) *Orderer {
	return &Orderer{
		Killers: NewKillers(),
		History: NewHistory(),
		Eval:    ev,
	}
}

// Rank returns the legal moves ordered best-first and pruned to the
// depth-dependent top K. The TT hint comes first if legal, then killers, then
// moves graded by threat, history and position.
func (o *Orderer) Rank(b *board.Board, ply, depth int, ttMove board.Move) []board.Move {
	moves := b.LegalMoves()
	k0, k1 := o.Killers.Probe(ply)
	turn := b.Turn()

	list := NewMoveList(moves, func(m board.Move) Priority {
		switch m {
		case ttMove:
			return priorityTTMove
		case k0:
			return priorityKiller0
		case k1:
			return priorityKiller1
		}

		threat := o.Eval.ThreatGain(b, m, turn) + o.Eval.ThreatGain(b, m, turn.Opponent())/2
		return threatWeight*Priority(threat) +
			historyWeight*Priority(o.History.Probe(m)) +
			Priority(o.Eval.PositionBonus(m))
	})

	if k := topK(depth); k > 0 {
		return list.Take(k)
	}
	return list.Take(list.Size())
}
