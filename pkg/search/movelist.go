package search

import (
	"container/heap"
	"fmt"

	"github.com/herohde/gomoku/pkg/board"
)

// Priority represents the move order priority.
type Priority int32

// MoveList is a move priority queue for move ordering. Ties break on the
// square's row-major order, so draining the list is deterministic.
type MoveList struct {
	h moveHeap
}

// NewMoveList returns a new move list with the given priorities.
func NewMoveList(moves []board.Move, fn func(move board.Move) Priority) *MoveList {
	h := moveHeap(make([]elm, len(moves)))
	for i, m := range moves {
		h[i] = elm{m: m, val: fn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next returns the next move. It is the highest priority move in the list.
func (ml *MoveList) Next() (board.Move, bool) {
	if ml.Size() == 0 {
		return board.NoMove, false
	}
	ret := heap.Pop(&ml.h).(elm)
	return ret.m, true
}

// Take drains up to k moves, highest priority first.
func (ml *MoveList) Take(k int) []board.Move {
	if k > ml.Size() {
		k = ml.Size()
	}
	ret := make([]board.Move, 0, k)
	for i := 0; i < k; i++ {
		m, _ := ml.Next()
		ret = append(ret, m)
	}
	return ret
}

func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.Size())
}

type elm struct {
	m   board.Move
	val Priority
}

type moveHeap []elm

func (h moveHeap) Len() int {
	return len(h)
}

func (h moveHeap) Less(i, j int) bool {
	if h[i].val != h[j].val {
		return h[i].val > h[j].val
	}
	return h[i].m < h[j].m
}

func (h moveHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *moveHeap) Push(x interface{}) {
	panic("fixed size heap")
}

func (h *moveHeap) Pop() interface{} {
	n := len(*h)
	ret := (*h)[n-1]
	*h = (*h)[0 : n-1]
	return ret
}
