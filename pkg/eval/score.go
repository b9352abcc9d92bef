// Package eval contains position evaluation logic and utilities.
package eval

import (
	"fmt"

	"github.com/herohde/gomoku/pkg/board"
)

// Score is a signed position score from the side to move's perspective.
// Heuristic scores are small compared to Win; forced wins are encoded as
// Win−plies so that shorter mates score higher. 32 bits.
type Score int32

const (
	// Win is the absolute value of a decided game.
	Win Score = 100000
	// Inf and NegInf bound every legal score for window arithmetic.
	Inf    Score = Win + 1
	NegInf Score = -Inf

	// mateHorizon bounds the ply distance encoded into mate scores.
	mateHorizon = 1000
)

func (s Score) String() string {
	if md, ok := s.MateDistance(); ok {
		if s > 0 {
			return fmt.Sprintf("win%v", md)
		}
		return fmt.Sprintf("loss%v", md)
	}
	return fmt.Sprintf("%v", int32(s))
}

// MateIn returns the score for forcing a win in the given number of plies.
func MateIn(plies int) Score {
	return Win - Score(plies)
}

// MatedIn returns the score for being forcibly lost in the given number of plies.
func MatedIn(plies int) Score {
	return -Win + Score(plies)
}

// IsMateScore returns true iff the score encodes a forced game end.
func (s Score) IsMateScore() bool {
	return s > Win-mateHorizon || s < -Win+mateHorizon
}

// MateDistance returns the encoded ply distance, if the score is a mate score.
func (s Score) MateDistance() (int, bool) {
	switch {
	case s > Win-mateHorizon:
		return int(Win - s), true
	case s < -Win+mateHorizon:
		return int(Win + s), true
	default:
		return 0, false
	}
}

// ToTT makes a mate score root-relative for transposition table storage by
// removing the distance-from-root component. Heuristic scores pass through.
func ToTT(s Score, ply int) Score {
	switch {
	case s > Win-mateHorizon:
		return s + Score(ply)
	case s < -Win+mateHorizon:
		return s - Score(ply)
	default:
		return s
	}
}

// FromTT reverses the ToTT adjustment at the probing ply, so retrieved mate
// distances remain correct anywhere in the tree.
func FromTT(s Score, ply int) Score {
	switch {
	case s > Win-mateHorizon:
		return s - Score(ply)
	case s < -Win+mateHorizon:
		return s + Score(ply)
	default:
		return s
	}
}

// Unit returns the signed unit for the color: 1 for Max and -1 for Min.
func Unit(c board.Color) Score {
	if c == board.Max {
		return 1
	}
	return -1
}

// Max returns the largest of the given scores.
func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

// Min returns the smallest of the given scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
