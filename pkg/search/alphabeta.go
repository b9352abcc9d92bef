package search

import (
	"context"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// tacticalPly is the ply beyond which leaves are evaluated in Tactical mode.
const tacticalPly = 7

// stopMask samples the stop flag every 4096 nodes to keep the check cheap.
const stopMask = 4095

// AlphaBeta implements principal variation search: negamax alpha-beta where
// the first move is searched with the full window and the rest with a null
// window, re-searching on promise. Pseudo-code:
//
//	function pvs(node, depth, α, β, color) is
//	    if depth = 0 or node is a terminal node then
//	        return color × the heuristic value of node
//	    for each child of node do
//	        if child is first child then
//	            score := −pvs(child, depth − 1, −β, −α, −color)
//	        else
//	            score := −pvs(child, depth − 1, −α − 1, −α, −color) (* null window *)
//	            if α < score < β then
//	                score := −pvs(child, depth − 1, −β, −score, −color) (* full re-search *)
//	        α := max(α, score)
//	        if α ≥ β then
//	            break (* beta cut-off *)
//	    return α
//
// See: https://en.wikipedia.org/wiki/Principal_variation_search.
type AlphaBeta struct{}

func (p AlphaBeta) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, board.Move, error) {
	run := &runAlphaBeta{sctx: sctx, b: b}

	low, high := eval.NegInf, eval.Inf
	if sctx.Alpha != 0 || sctx.Beta != 0 {
		low, high = sctx.Alpha, sctx.Beta
	}

	score, move := run.searchRoot(ctx, depth, low, high)
	sctx.Stats.Nodes.Add(run.nodes)
	if run.stopped() || contextx.IsCancelled(ctx) {
		return run.nodes, 0, board.NoMove, ErrHalted
	}
	return run.nodes, score, move, nil
}

type runAlphaBeta struct {
	sctx  *Context
	b     *board.Board
	nodes uint64
}

func (r *runAlphaBeta) stopped() bool {
	return r.sctx.Stop != nil && r.sctx.Stop.Load()
}

// searchRoot searches the position like an interior node, but tracks and
// returns the best move alongside the score.
func (r *runAlphaBeta) searchRoot(ctx context.Context, depth int, alpha, beta eval.Score) (eval.Score, board.Move) {
	var ttMove board.Move = board.NoMove
	if e, ok := r.sctx.TT.Read(r.b.Hash()); ok {
		ttMove = e.Move
	}

	moves := r.sctx.Order.Rank(r.b, 0, depth, ttMove)
	best := board.NoMove
	bestScore := eval.NegInf

	for i, m := range moves {
		if err := r.b.MakeMove(m); err != nil {
			continue
		}
		var score eval.Score
		if i == 0 {
			score = -r.search(ctx, 1, depth-1, -beta, -alpha)
		} else {
			score = -r.search(ctx, 1, depth-1, -alpha-1, -alpha)
			if score > alpha && score < beta {
				score = -r.search(ctx, 1, depth-1, -beta, -score)
			}
		}
		_ = r.b.UndoMove()

		if r.stopped() {
			return bestScore, best
		}
		if score > bestScore || best == board.NoMove {
			bestScore, best = score, m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	if best != board.NoMove {
		bound := ExactBound
		if bestScore >= beta {
			bound = LowerBound
		}
		r.sctx.TT.Write(r.b.Hash(), bound, depth, eval.ToTT(bestScore, 0), best)
	}
	return bestScore, best
}

// search returns the score for the side to move.
func (r *runAlphaBeta) search(ctx context.Context, ply, depth int, alpha, beta eval.Score) eval.Score {
	r.nodes++
	if r.nodes&stopMask == 0 && (r.stopped() || contextx.IsCancelled(ctx)) {
		return alpha
	}

	switch res := r.b.Result(); res.Outcome {
	case board.Won:
		// The previous move decided the game against the side to move.
		return eval.MatedIn(ply)
	case board.Draw:
		return 0
	}

	if depth <= 0 {
		return r.evaluate(ply)
	}

	var ttMove board.Move = board.NoMove
	if e, ok := r.sctx.TT.Read(r.b.Hash()); ok {
		ttMove = e.Move
		if int(e.Depth) >= depth {
			score := eval.FromTT(e.Score, ply)
			switch e.Bound {
			case ExactBound:
				return score
			case LowerBound:
				if score >= beta {
					return score
				}
			case UpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	moves := r.sctx.Order.Rank(r.b, ply, depth, ttMove)
	best := board.NoMove
	bestScore := eval.NegInf
	bound := UpperBound

	for i, m := range moves {
		if err := r.b.MakeMove(m); err != nil {
			continue
		}
		var score eval.Score
		if i == 0 {
			score = -r.search(ctx, ply+1, depth-1, -beta, -alpha)
		} else {
			score = -r.search(ctx, ply+1, depth-1, -alpha-1, -alpha)
			if score > alpha && score < beta {
				score = -r.search(ctx, ply+1, depth-1, -beta, -score)
			}
		}
		_ = r.b.UndoMove()

		if r.stopped() {
			return bestScore
		}
		if score > bestScore || best == board.NoMove {
			bestScore, best = score, m
		}
		if score > alpha {
			alpha = score
			bound = ExactBound
		}
		if alpha >= beta {
			r.sctx.Order.Killers.Insert(ply, m)
			r.sctx.Order.History.Add(m, depth)
			r.sctx.Stats.Cutoffs.Inc()
			bound = LowerBound
			break
		}
	}

	if best == board.NoMove {
		// No candidates can only mean a full board, adjudicated above.
		return 0
	}

	r.sctx.TT.Write(r.b.Hash(), bound, depth, eval.ToTT(bestScore, ply), best)
	return bestScore
}

// evaluate scores a leaf through the per-worker cache. Deep leaves use the
// cheaper tactical mode.
func (r *runAlphaBeta) evaluate(ply int) eval.Score {
	mode := eval.Full
	if ply > tacticalPly {
		mode = eval.Tactical
	}

	if r.sctx.Cache != nil {
		if s, ok := r.sctx.Cache.Get(r.b.Hash(), mode); ok {
			return s
		}
	}
	s := r.sctx.Eval.Evaluate(r.b, mode) + r.sctx.Noise.Sample()
	if r.sctx.Cache != nil {
		r.sctx.Cache.Put(r.b.Hash(), mode, s)
	}
	return s
}
