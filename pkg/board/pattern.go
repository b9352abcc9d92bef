package board

import "fmt"

// PatternKind enumerates the tactical line patterns tracked per color, in
// decreasing order of strength. A pattern is "open" if it has room on both
// ends to grow into the next pattern up, "half" if only one end is free.
type PatternKind uint8

const (
	Five PatternKind = iota
	OpenFour
	HalfFour
	OpenThree
	HalfThree
	OpenTwo
	HalfTwo
	NumPatterns
)

func (p PatternKind) String() string {
	switch p {
	case Five:
		return "five"
	case OpenFour:
		return "open4"
	case HalfFour:
		return "half4"
	case OpenThree:
		return "open3"
	case HalfThree:
		return "half3"
	case OpenTwo:
		return "open2"
	case HalfTwo:
		return "half2"
	default:
		return "?"
	}
}

// PatternCounts holds per-color pattern counts. It is a small value type:
// move records carry snapshots for O(1) undo.
type PatternCounts [NumColors][NumPatterns]int16

func (p PatternCounts) String() string {
	return fmt.Sprintf("X%v O%v", p[Max], p[Min])
}

// directions are the four line families: horizontal, vertical and the two
// diagonals. Each direction is a (dr, dc) unit step.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// lineStart returns the first on-board square of the direction-d line through
// sq, walking backwards until the edge.
func (b *Board) lineStart(sq Square, d int) (int, int) {
	r, c := sq.Row(), sq.Col()
	dr, dc := directions[d][0], directions[d][1]
	for {
		nr, nc := r-dr, c-dc
		if nr < 0 || nr >= b.cfg.Size || nc < 0 || nc >= b.cfg.Size {
			return r, c
		}
		r, c = nr, nc
	}
}

// scanLine classifies the full direction-d line through sq and adds the result
// into counts with the given sign. Classification looks at maximal runs of
// each color: a run of K or more is a five; shorter runs are graded by how
// many ends are free and whether the surrounding room suffices to ever reach
// a five.
func (b *Board) scanLine(sq Square, d int, counts *PatternCounts, sign int16) {
	k := b.cfg.WinK
	var buf [MaxSize]Cell
	n := 0

	r, c := b.lineStart(sq, d)
	dr, dc := directions[d][0], directions[d][1]
	for r >= 0 && r < b.cfg.Size && c >= 0 && c < b.cfg.Size {
		buf[n] = b.grid[b.index(r, c)]
		n++
		r += dr
		c += dc
	}

	i := 0
	for i < n {
		if buf[i] == empty {
			i++
			continue
		}
		j := i
		for j < n && buf[j] == buf[i] {
			j++
		}
		gapL := 0
		for p := i - 1; p >= 0 && buf[p] == empty; p-- {
			gapL++
		}
		gapR := 0
		for p := j; p < n && buf[p] == empty; p++ {
			gapR++
		}
		classifyRun(buf[i].color(), j-i, gapL, gapR, k, counts, sign)
		i = j
	}
}

// classifyRun grades a maximal same-color run of length n with gapL/gapR
// adjacent empties and adds the graded pattern, if any, into counts.
func classifyRun(c Color, n, gapL, gapR, k int, counts *PatternCounts, sign int16) {
	if n >= k {
		counts[c][Five] += sign
		return
	}
	openL, openR := gapL > 0, gapR > 0
	space := gapL + n + gapR

	var kind PatternKind
	switch n {
	case k - 1:
		switch {
		case openL && openR:
			kind = OpenFour
		case (openL || openR) && space >= k:
			kind = HalfFour
		default:
			return
		}
	case k - 2:
		switch {
		case openL && openR && space >= k+1:
			kind = OpenThree
		case (openL || openR) && space >= k:
			kind = HalfThree
		default:
			return
		}
	case k - 3:
		switch {
		case openL && openR && space >= k+1:
			kind = OpenTwo
		case (openL || openR) && space >= k:
			kind = HalfTwo
		default:
			return
		}
	default:
		return
	}
	counts[c][kind] += sign
}

// RescanPatterns recomputes the pattern counts from the grid alone. It is the
// reference the incremental counts must agree with.
func (b *Board) RescanPatterns() PatternCounts {
	var counts PatternCounts

	// Every line of each family is scanned exactly once, anchored at its
	// first square.
	for d := range directions {
		seen := map[int]bool{}
		for r := 0; r < b.cfg.Size; r++ {
			for c := 0; c < b.cfg.Size; c++ {
				sr, sc := b.lineStart(NewSquare(r, c), d)
				key := sr*MaxSize + sc
				if seen[key] {
					continue
				}
				seen[key] = true
				b.scanLine(NewSquare(sr, sc), d, &counts, 1)
			}
		}
	}
	return counts
}

// PatternCounts returns the incrementally maintained pattern counts.
func (b *Board) PatternCounts() PatternCounts {
	return b.patterns
}

// HypotheticalGain returns the change in c's pattern counts if c placed a
// stone on the (empty) square, considering only the four lines through it.
// Used for cheap tactical move ordering; the board is left unchanged.
func (b *Board) HypotheticalGain(sq Square, c Color) [NumPatterns]int16 {
	var delta PatternCounts

	for d := range directions {
		b.scanLine(sq, d, &delta, -1)
	}
	idx := b.index(sq.Row(), sq.Col())
	b.grid[idx] = cellOf(c)
	for d := range directions {
		b.scanLine(sq, d, &delta, 1)
	}
	b.grid[idx] = empty

	return delta[c]
}
