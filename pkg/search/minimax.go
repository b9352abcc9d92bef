package search

import (
	"context"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/eval"
)

// Minimax implements naive negamax search over the full candidate set, with
// no pruning, no transposition table and no move ordering. Useful for
// comparison and validation. Pseudo-code:
//
//	function minimax(node, depth, maximizingPlayer) is
//	    if depth = 0 or node is a terminal node then
//	        return the heuristic value of node
//	    if maximizingPlayer then
//	        value := −∞
//	        for each child of node do
//	            value := max(value, minimax(child, depth − 1, FALSE))
//	        return value
//	    else (* minimizing player *)
//	        value := +∞
//	        for each child of node do
//	            value := min(value, minimax(child, depth − 1, TRUE))
//	        return value
//
// See: https://en.wikipedia.org/wiki/Minimax.
type Minimax struct {
	Eval *eval.Evaluator
}

func (m Minimax) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, board.Move, error) {
	run := &runMinimax{eval: m.Eval, b: b}
	score, move := run.search(0, depth)
	return run.nodes, score, move, nil
}

type runMinimax struct {
	eval  *eval.Evaluator
	b     *board.Board
	nodes uint64
}

// search returns the score for the side to move.
func (r *runMinimax) search(ply, depth int) (eval.Score, board.Move) {
	r.nodes++

	switch res := r.b.Result(); res.Outcome {
	case board.Won:
		return eval.MatedIn(ply), board.NoMove
	case board.Draw:
		return 0, board.NoMove
	}

	if depth <= 0 {
		mode := eval.Full
		if ply > tacticalPly {
			mode = eval.Tactical
		}
		return r.eval.Evaluate(r.b, mode), board.NoMove
	}

	best := board.NoMove
	score := eval.NegInf

	for _, m := range r.b.LegalMoves() {
		if err := r.b.MakeMove(m); err != nil {
			continue
		}
		s, _ := r.search(ply+1, depth-1)
		s = -s
		_ = r.b.UndoMove()

		if s > score || best == board.NoMove {
			score, best = s, m
		}
	}

	if best == board.NoMove {
		return 0, board.NoMove
	}
	return score, best
}
