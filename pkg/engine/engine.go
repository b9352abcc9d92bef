// Package engine encapsulates game-playing logic, search and evaluation.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/eval"
	"github.com/herohde/gomoku/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 9, 0)

// Options are engine creation options.
type Options struct {
	// Hash is the transposition table size in MB. Must be >= 1.
	Hash uint
	// Workers is the search worker pool size. Must be >= 1.
	Workers uint
	// Noise adds a small amount of randomness to leaf evaluations. Zero,
	// the default, keeps searches deterministic.
	Noise uint
}

func (o Options) String() string {
	return fmt.Sprintf("{hash=%vMB, workers=%v, noise=%v}", o.Hash, o.Workers, o.Noise)
}

// Option is an engine creation option.
type Option func(*Engine)

// WithHash configures the transposition table size in MB.
func WithHash(mb uint) Option {
	return func(e *Engine) {
		e.opts.Hash = mb
	}
}

// WithWorkers configures the search worker pool size.
func WithWorkers(n uint) Option {
	return func(e *Engine) {
		e.opts.Workers = n
	}
}

// WithNoise adds up to the given amount of randomness to leaf evaluations.
func WithNoise(limit uint) Option {
	return func(e *Engine) {
		e.opts.Noise = limit
	}
}

// WithBook configures an opening book consulted before searching.
func WithBook(book OpeningBook) Option {
	return func(e *Engine) {
		e.book = book
	}
}

// SearchResult is the outcome of a completed or halted search.
type SearchResult struct {
	// BestMove is the best move of the last fully-completed iteration.
	BestMove board.Move
	// Score is the evaluation from the side to move's perspective.
	Score eval.Score
	// ReachedDepth is the depth of the last fully-completed iteration. It
	// is less than the requested limit if the search timed out.
	ReachedDepth int
	// Stats holds search statistics.
	Stats Stats
}

func (r SearchResult) String() string {
	return fmt.Sprintf("move=%v score=%v depth=%v %v", r.BestMove, r.Score, r.ReachedDepth, &r.Stats)
}

// Stats is a plain snapshot of search counters.
type Stats struct {
	Nodes        uint64
	TTHits       uint64
	TTCollisions uint64
	Cutoffs      uint64
	Elapsed      time.Duration
}

func (s *Stats) String() string {
	return fmt.Sprintf("nodes=%v tthits=%v collisions=%v cutoffs=%v time=%v",
		s.Nodes, s.TTHits, s.TTCollisions, s.Cutoffs, s.Elapsed)
}

// Engine ties the board, evaluator, transposition table and search driver
// together behind the public API.
type Engine struct {
	opts Options
	book OpeningBook

	b        *board.Board
	tt       search.TranspositionTable
	launcher *search.Iterative
	stats    *search.Stats

	active search.Handle
	mu     sync.Mutex
}

// New creates an engine for the given board configuration. Invalid arguments
// return an error; the engine never panics on caller input.
func New(ctx context.Context, cfg board.Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		opts: Options{
			Hash:    64,
			Workers: uint(runtime.NumCPU()),
		},
	}
	for _, fn := range opts {
		fn(e)
	}

	if e.opts.Workers < 1 {
		return nil, fmt.Errorf("%w: workers must be >= 1", board.ErrInvalidConfig)
	}
	if e.opts.Hash < 1 {
		return nil, fmt.Errorf("%w: hash must be >= 1MB", board.ErrInvalidConfig)
	}

	b, err := board.New(cfg)
	if err != nil {
		return nil, err
	}
	e.b = b
	e.tt = search.NewTranspositionTable(ctx, uint64(e.opts.Hash)<<20)
	e.stats = &search.Stats{}
	e.launcher = &search.Iterative{
		Eval:    eval.NewEvaluator(cfg.Size),
		Workers: int(e.opts.Workers),
		Noise:   e.opts.Noise,
		Stats:   e.stats,
	}

	logw.Infof(ctx, "Initialized engine %v: board=%v, options=%v", version, cfg, e.opts)
	return e, nil
}

// Board returns a clone of the current position.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Clone()
}

// MakeMove plays a move on the engine's position.
func (e *Engine) MakeMove(m board.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.MakeMove(m)
}

// UndoMove takes back the most recent move.
func (e *Engine) UndoMove() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.UndoMove()
}

// FindBestMove searches the current position within the given limits and
// returns the best move found. A timeout is not an error: the result carries
// the last fully-completed iteration. If no iteration completed, it returns
// ErrHalted.
func (e *Engine) FindBestMove(ctx context.Context, opt search.Options) (SearchResult, error) {
	e.mu.Lock()
	b := e.b.Clone()

	if res := b.Result(); res.Outcome != board.Undecided {
		e.mu.Unlock()
		return SearchResult{}, fmt.Errorf("%w: position is terminal: %v", board.ErrIllegalMove, res)
	}

	if e.book != nil {
		if m, ok := e.book.Lookup(b.Hash()); ok {
			e.mu.Unlock()
			logw.Debugf(ctx, "Book move: %v", m)
			return SearchResult{BestMove: m}, nil
		}
	}

	before := e.tt.Stats()
	nodes0, cutoffs0 := e.stats.Nodes.Load(), e.stats.Cutoffs.Load()
	start := time.Now()

	h, out := e.launcher.Launch(ctx, b, e.tt, opt)
	e.active = h
	e.mu.Unlock()

	last := search.PV{Move: board.NoMove}
	for pv := range out {
		last = pv
	}
	final := h.Halt()
	if final.Move != board.NoMove {
		last = final
	}

	e.mu.Lock()
	e.active = nil
	e.mu.Unlock()

	if last.Move == board.NoMove {
		return SearchResult{}, fmt.Errorf("%w: no completed iteration", search.ErrHalted)
	}

	after := e.tt.Stats()
	ret := SearchResult{
		BestMove:     last.Move,
		Score:        last.Score,
		ReachedDepth: last.Depth,
		Stats: Stats{
			Nodes:        e.stats.Nodes.Load() - nodes0,
			TTHits:       after.Hits - before.Hits,
			TTCollisions: after.Collisions - before.Collisions,
			Cutoffs:      e.stats.Cutoffs.Load() - cutoffs0,
			Elapsed:      time.Since(start),
		},
	}
	logw.Debugf(ctx, "Search done: %v", ret)
	return ret, nil
}

// Halt stops an active search, if any. The search returns its best completed
// result.
func (e *Engine) Halt() {
	e.mu.Lock()
	h := e.active
	e.mu.Unlock()

	if h != nil {
		h.Halt()
	}
}

// ClearTT drops all transposition table entries.
func (e *Engine) ClearTT() {
	e.tt.Clear()
}

// TTStats returns transposition table size, hit rate and collision count.
func (e *Engine) TTStats() (uint64, float64, uint64) {
	s := e.tt.Stats()
	rate := 0.0
	if s.Probes > 0 {
		rate = float64(s.Hits) / float64(s.Probes)
	}
	return e.tt.Size(), rate, s.Collisions
}

// FixedDepth returns search options for a fixed-depth search.
func FixedDepth(depth uint) search.Options {
	return search.Options{DepthLimit: lang.Some(depth)}
}

// Timed returns search options for a time-budgeted search.
func Timed(d time.Duration) search.Options {
	return search.Options{MoveTime: lang.Some(d)}
}
