package search

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/eval"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// aspirationDelta is the initial half-width of the aspiration window.
const aspirationDelta eval.Score = 200

// parallelDepth is the first depth searched with parallel root distribution;
// below it the coordination overhead dominates.
const parallelDepth = 4

// historyAgeInterval is the number of root iterations between history decays.
const historyAgeInterval = 4

// Iterative is a search harness for iterative deepening search with a
// Lazy-SMP-style parallel root: workers clone the position, split the root
// moves among themselves and communicate only through the shared
// transposition table and stop flag. Killer tables are created fresh per
// launched search; history tables and eval caches persist per worker slot
// across searches.
type Iterative struct {
	// Eval is the static evaluator shared by all workers.
	Eval *eval.Evaluator
	// Workers is the worker pool size. Must be >= 1.
	Workers int
	// Noise adds up to the given amount of randomness to leaf evaluations
	// for variety between games. Zero keeps searches deterministic.
	Noise uint
	// Stats, if set, accumulates search statistics.
	Stats *Stats

	histories []*History
	caches    []*eval.Cache
	noises    []eval.Random
	mu        sync.Mutex
}

func (i *Iterative) Launch(ctx context.Context, b *board.Board, tt TranspositionTable, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
		stop: atomic.NewBool(false),
	}
	go h.process(ctx, i, b, tt, opt, out)

	return h, out
}

// worker returns the persistent orderer, cache and noise generator for a
// worker slot, with a fresh killer table installed by the caller per search.
func (i *Iterative) worker(slot int, killers *Killers) (*Orderer, *eval.Cache, eval.Random) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for len(i.histories) <= slot {
		i.histories = append(i.histories, NewHistory())
		i.caches = append(i.caches, eval.NewCache(0))
		i.noises = append(i.noises, eval.NewRandom(int(i.Noise), int64(len(i.noises))+1))
	}
	return &Orderer{Killers: killers, History: i.histories[slot], Eval: i.Eval}, i.caches[slot], i.noises[slot]
}

// ageHistories decays all worker histories.
func (i *Iterative) ageHistories() {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, h := range i.histories {
		h.Age()
	}
}

type handle struct {
	init, quit iox.AsyncCloser
	stop       *atomic.Bool

	pv PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, i *Iterative, b *board.Board, tt TranspositionTable, opt Options, out chan PV) {
	defer h.init.Close()
	defer close(out)

	stats := i.Stats
	if stats == nil {
		stats = &Stats{}
	}

	if err := b.CheckInvariants(); err != nil {
		logw.Errorf(ctx, "Refusing to search corrupt position: %v", err)
		return
	}

	var deadline time.Time
	if mt, ok := opt.MoveTime.V(); ok {
		deadline = time.Now().Add(mt)
		timer := time.AfterFunc(mt, func() {
			h.stop.Store(true)
			h.quit.Close()
		})
		defer timer.Stop()
	}

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	killers := make([]*Killers, i.Workers)
	if len(killers) == 0 {
		killers = make([]*Killers, 1)
	}
	for w := range killers {
		killers[w] = NewKillers()
	}

	var prev eval.Score
	havePrev := false

	for depth := 1; !h.quit.IsClosed() && depth <= MaxPly; depth++ {
		iterStart := time.Now()
		tt.NewSearch()
		if depth%historyAgeInterval == 0 {
			i.ageHistories()
		}

		pv, err := i.searchRoot(wctx, b, tt, stats, h.stop, killers, depth, prev, havePrev)
		if err != nil {
			if err == ErrHalted {
				return // Halt was called or time expired.
			}
			logw.Errorf(ctx, "Search failed at depth=%v: %v", depth, err)
			return
		}
		pv.Time = time.Since(iterStart)
		pv.Hash = tt.Used()

		logw.Debugf(ctx, "Searched: %v", pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		prev, havePrev = pv.Score, true

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) >= limit {
			return // halt: reached max depth
		}
		if md, ok := pv.Score.MateDistance(); ok && md <= depth {
			return // halt: forced result found within full-width search
		}
		if !deadline.IsZero() && time.Since(iterStart) > time.Until(deadline) {
			return // halt: no time for a deeper iteration
		}
	}
}

// searchRoot runs one depth iteration inside an aspiration window around the
// previous score, widening on failure until the score is stable.
func (i *Iterative) searchRoot(ctx context.Context, b *board.Board, tt TranspositionTable, stats *Stats, stop *atomic.Bool, killers []*Killers, depth int, prev eval.Score, havePrev bool) (PV, error) {
	alpha, beta := eval.NegInf, eval.Inf
	delta := aspirationDelta

	if havePrev && depth > 1 && !prev.IsMateScore() {
		alpha, beta = prev-delta, prev+delta
	}

	for attempt := 0; ; attempt++ {
		pv, err := i.searchRootWindow(ctx, b, tt, stats, stop, killers, depth, alpha, beta)
		if err != nil {
			return PV{}, err
		}

		switch {
		case pv.Score <= alpha && alpha > eval.NegInf:
			delta *= 2
			alpha = pv.Score - delta
		case pv.Score >= beta && beta < eval.Inf:
			delta *= 2
			beta = pv.Score + delta
		default:
			return pv, nil
		}
		if attempt >= 2 {
			// Repeated window failure; settle it with a full window.
			alpha, beta = eval.NegInf, eval.Inf
		}
	}
}

type rootResult struct {
	move  board.Move
	score eval.Score
	ok    bool
}

// searchRootWindow searches all root moves at the given depth and window,
// sequentially for shallow depths and with the parallel worker pool
// otherwise. The merged winner is the best score -- which prefers shorter
// mates by construction -- with row-major order as the final tie-break.
func (i *Iterative) searchRootWindow(ctx context.Context, b *board.Board, tt TranspositionTable, stats *Stats, stop *atomic.Bool, killers []*Killers, depth int, alpha, beta eval.Score) (PV, error) {
	var ttMove board.Move = board.NoMove
	if e, ok := tt.Read(b.Hash()); ok {
		ttMove = e.Move
	}

	order, _, _ := i.worker(0, killers[0])
	moves := order.Rank(b, 0, depth, ttMove)

	nodes := atomic.NewUint64(0)
	results := make([]rootResult, len(moves))

	if depth < parallelDepth || i.Workers <= 1 || len(moves) <= 1 {
		ord, cache, noise := i.worker(0, killers[0])
		sctx := &Context{TT: tt, Order: ord, Eval: i.Eval, Cache: cache, Noise: noise, Stats: stats, Stop: stop}
		run := &runAlphaBeta{sctx: sctx, b: b.Clone()}
		for idx, m := range moves {
			if stop.Load() || contextx.IsCancelled(ctx) {
				break
			}
			results[idx] = searchRootMove(ctx, run, m, depth, alpha, beta)
		}
		nodes.Add(run.nodes)
		stats.Nodes.Add(run.nodes)
	} else {
		workers := i.Workers
		if workers > len(moves) {
			workers = len(moves)
		}

		next := make(chan int)
		g, gctx := errgroup.WithContext(ctx)
		for w := 0; w < workers; w++ {
			slot := w
			g.Go(func() error {
				ord, cache, noise := i.worker(slot, killers[slot])
				sctx := &Context{TT: tt, Order: ord, Eval: i.Eval, Cache: cache, Noise: noise, Stats: stats, Stop: stop}
				run := &runAlphaBeta{sctx: sctx, b: b.Clone()}
				for idx := range next {
					if stop.Load() || contextx.IsCancelled(gctx) {
						continue // drain the queue
					}
					results[idx] = searchRootMove(gctx, run, moves[idx], depth, alpha, beta)
				}
				nodes.Add(run.nodes)
				stats.Nodes.Add(run.nodes)
				return nil
			})
		}
		for idx := range moves {
			next <- idx
		}
		close(next)
		_ = g.Wait()
	}

	if stop.Load() || contextx.IsCancelled(ctx) {
		return PV{}, ErrHalted
	}

	best, ok := mergeRootResults(results)
	if !ok {
		return PV{}, ErrHalted
	}

	bound := ExactBound
	if best.score >= beta {
		bound = LowerBound
	} else if best.score <= alpha {
		bound = UpperBound
	}
	tt.Write(b.Hash(), bound, depth, eval.ToTT(best.score, 0), best.move)

	return PV{Depth: depth, Move: best.move, Score: best.score, Nodes: nodes.Load()}, nil
}

// searchRootMove applies one root move on the worker's clone and searches the
// child with the iteration window.
func searchRootMove(ctx context.Context, run *runAlphaBeta, m board.Move, depth int, alpha, beta eval.Score) rootResult {
	if err := run.b.MakeMove(m); err != nil {
		return rootResult{}
	}
	score := -run.search(ctx, 1, depth-1, -beta, -alpha)
	_ = run.b.UndoMove()

	if run.stopped() {
		return rootResult{}
	}
	return rootResult{move: m, score: score, ok: true}
}

// mergeRootResults picks the winner of a fully-completed iteration: highest
// score first, row-major square order among equals.
func mergeRootResults(results []rootResult) (rootResult, bool) {
	idx := make([]int, 0, len(results))
	for i, r := range results {
		if r.ok {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return rootResult{}, false
	}

	sort.Slice(idx, func(a, b int) bool {
		ra, rb := results[idx[a]], results[idx[b]]
		if ra.score != rb.score {
			return ra.score > rb.score
		}
		return ra.move < rb.move
	})
	return results[idx[0]], true
}

func (h *handle) Halt() PV {
	h.stop.Store(true)
	h.quit.Close()
	<-h.init.Closed()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
