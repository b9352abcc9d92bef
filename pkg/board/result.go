package board

import "fmt"

// Outcome represents the game outcome, if any.
type Outcome uint8

const (
	Undecided Outcome = iota
	Won
	Draw
)

// Reason is the rule that decided the game.
type Reason uint8

const (
	NoReason Reason = iota
	FiveInARow
	CaptureLimit
	BoardFull
)

// Result represents the result of a game.
type Result struct {
	Outcome Outcome
	Winner  Color // valid iff Outcome == Won
	Reason  Reason
}

func (r Result) String() string {
	switch r.Outcome {
	case Won:
		return fmt.Sprintf("%v wins (%v)", r.Winner, r.Reason)
	case Draw:
		return "draw"
	default:
		return "undecided"
	}
}

func (r Reason) String() string {
	switch r {
	case FiveInARow:
		return "row"
	case CaptureLimit:
		return "captures"
	case BoardFull:
		return "full board"
	default:
		return "none"
	}
}
