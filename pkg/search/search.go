// Package search contains game tree search functionality and utilities.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/eval"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

// ErrHalted is an error indicating that the search was halted.
var ErrHalted = errors.New("search halted")

// MaxPly is the deepest supported search depth.
const MaxPly = 64

// Searcher implements search of the game tree to a given depth.
type Searcher interface {
	// Search returns the node count, score from the side to move's
	// perspective, and best move at the given depth.
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, board.Move, error)
}

// Context carries the shared and per-worker resources of one search.
type Context struct {
	Alpha, Beta eval.Score
	TT          TranspositionTable
	Order       *Orderer
	Eval        *eval.Evaluator
	Cache       *eval.Cache
	Noise       eval.Random
	Stats       *Stats
	Stop        *atomic.Bool
}

// Stats accumulates search statistics. Counters are atomic so concurrent
// workers can share one instance.
type Stats struct {
	Nodes        atomic.Uint64
	TTHits       atomic.Uint64
	TTCollisions atomic.Uint64
	Cutoffs      atomic.Uint64
}

func (s *Stats) String() string {
	return fmt.Sprintf("nodes=%v tthits=%v collisions=%v cutoffs=%v",
		s.Nodes.Load(), s.TTHits.Load(), s.TTCollisions.Load(), s.Cutoffs.Load())
}

// PV represents the search result for some search depth.
type PV struct {
	Depth int           // depth of search
	Move  board.Move    // best move at depth
	Score eval.Score    // evaluation at depth
	Nodes uint64        // interior/leaf nodes searched
	Time  time.Duration // time taken by search
	Hash  float64       // hash table used [0;1]
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v move=%v score=%v nodes=%v time=%v hash=%v%%",
		p.Depth, p.Move, p.Score, p.Nodes, p.Time, int(100*p.Hash))
}

// Options hold dynamic search options. The user may change these on a
// particular search.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth.
	DepthLimit lang.Optional[uint]
	// MoveTime, if set, limits the search to the given wall-clock budget.
	MoveTime lang.Optional[time.Duration]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.MoveTime.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher is an interface for managing searches.
type Launcher interface {
	// Launch a new search from the given position. It expects an exclusive
	// (cloned) board and returns a PV channel for iteratively deeper
	// searches. If the search is exhausted, the channel is closed. The
	// search can be stopped at any time.
	Launch(ctx context.Context, b *board.Board, tt TranspositionTable, opt Options) (Handle, <-chan PV)
}

// Handle is an interface for the engine to manage searches. The engine is
// expected to spin off searches with cloned boards and close/abandon them
// when no longer needed. This design keeps stopping conditions and
// re-synchronization trivial.
type Handle interface {
	// Halt halts the search, if running. Idempotent.
	Halt() PV
}
