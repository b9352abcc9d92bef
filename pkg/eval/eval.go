package eval

import (
	"math"

	"github.com/herohde/gomoku/pkg/board"
)

// Mode selects the evaluation precision. Tactical considers only the pattern
// kinds strong enough to force play and skips the positional bias, trading
// accuracy for throughput deep in the tree.
type Mode uint8

const (
	Full Mode = iota
	Tactical
)

// Weights are the canonical pattern weights, indexed by board.PatternKind.
var Weights = [board.NumPatterns]Score{
	Win,   // five
	15000, // open four
	5000,  // half-open four
	500,   // open three
	100,   // half-open three
	30,    // open two
	10,    // half-open two
}

// numTactical is the number of leading pattern kinds Tactical mode sums.
const numTactical = 4 // five, open four, half-open four, open three

// Evaluator scores positions from the incrementally maintained pattern counts.
// Stateless apart from the precomputed positional table; safe to share.
type Evaluator struct {
	size int
	bias []Score // per-cell positional bonus, row-major
}

// NewEvaluator creates an evaluator for the given board size.
func NewEvaluator(size int) *Evaluator {
	return &Evaluator{
		size: size,
		bias: positionBias(size),
	}
}

// Evaluate returns the static score from the side to move's perspective.
func (e *Evaluator) Evaluate(b *board.Board, mode Mode) Score {
	counts := b.PatternCounts()

	kinds := int(board.NumPatterns)
	if mode == Tactical {
		kinds = numTactical
	}

	var score Score
	for p := 0; p < kinds; p++ {
		score += Weights[p] * Score(counts[board.Max][p]-counts[board.Min][p])
	}
	if mode == Full {
		score += e.positional(b)
	}
	return score * Unit(b.Turn())
}

// positional sums the per-cell bias over all stones, Max minus Min.
func (e *Evaluator) positional(b *board.Board) Score {
	var score Score
	for r := 0; r < e.size; r++ {
		for c := 0; c < e.size; c++ {
			sq := board.NewSquare(r, c)
			if stone, ok := b.Stone(sq); ok {
				score += e.bias[r*e.size+c] * Unit(stone)
			}
		}
	}
	return score
}

// ThreatGain returns the weighted tactical value of the patterns the color
// would create by playing the square, for move ordering.
func (e *Evaluator) ThreatGain(b *board.Board, sq board.Square, c board.Color) Score {
	delta := b.HypotheticalGain(sq, c)

	var gain Score
	for p := 0; p < numTactical; p++ {
		gain += Weights[p] * Score(delta[p])
	}
	return gain
}

// PositionBonus returns the static per-cell bonus for move ordering.
func (e *Evaluator) PositionBonus(sq board.Square) Score {
	return e.bias[sq.Row()*e.size+sq.Col()]
}

// positionBias builds the per-cell table: a Gaussian bump toward the center,
// a penalty on the edges and a larger one in the corners.
func positionBias(size int) []Score {
	ret := make([]Score, size*size)
	center := float64(size-1) / 2
	sigma := float64(size) / 4

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			dr, dc := float64(r)-center, float64(c)-center
			g := math.Exp(-(dr*dr + dc*dc) / (2 * sigma * sigma))
			v := Score(math.Round(24 * g))

			onEdgeR := r == 0 || r == size-1
			onEdgeC := c == 0 || c == size-1
			switch {
			case onEdgeR && onEdgeC:
				v -= 16
			case onEdgeR || onEdgeC:
				v -= 8
			}
			ret[r*size+c] = v
		}
	}
	return ret
}
