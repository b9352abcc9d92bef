package search

import (
	"context"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/eval"
	"github.com/seekerror/logw"
	uatomic "go.uber.org/atomic"
)

// Bound represents the bound of a -- possibly inexact -- search score.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound       // score >= stored (fail-high)
	UpperBound       // score <= stored (fail-low)
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// Entry is a transposition table entry. Mate scores are stored root-relative;
// callers adjust via eval.ToTT/FromTT at the probing ply.
type Entry struct {
	Hash  board.ZobristHash // full hash for collision detection
	Move  board.Move        // best move hint; NoMove if none
	Score eval.Score
	Depth int16
	Bound Bound
	Age   uint8
}

// TTStats reports table usage.
type TTStats struct {
	Entries    uint64
	Hits       uint64
	Probes     uint64
	Collisions uint64
}

// TranspositionTable represents a transposition table to speed up search
// performance. Many workers read and write concurrently; per-entry access
// must never expose torn entries. Must be thread-safe.
type TranspositionTable interface {
	// Read returns the entry for the given position hash, if present.
	Read(hash board.ZobristHash) (Entry, bool)
	// Write stores the entry, subject to the replacement policy.
	Write(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) bool

	// NewSearch advances the age counter at each root iteration.
	NewSearch()
	// Clear drops all entries.
	Clear()

	// Size returns the table capacity in entries.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
	// Stats returns usage counters.
	Stats() TTStats
}

// table is a lock-free transposition table. Slots hold immutable entries
// swapped in by pointer CAS, so readers never observe a torn entry; the full
// hash validates against index collisions.
type table struct {
	slots []*Entry
	mask  uint64
	age   uint8

	used       uatomic.Uint64
	probes     uatomic.Uint64
	hits       uatomic.Uint64
	collisions uatomic.Uint64
}

// NewTranspositionTable allocates a table of the given size in bytes, rounded
// down to a power-of-two entry count.
func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	n := uint64(1 << (63 - 5 - bits.LeadingZeros64(size)))

	logw.Infof(ctx, "Allocating %vMB TT with %v entries", size>>20, n)

	return &table{
		slots: make([]*Entry, n),
		mask:  n - 1,
	}
}

func (t *table) slot(hash board.ZobristHash) *unsafe.Pointer {
	key := uint64(hash) & t.mask
	return (*unsafe.Pointer)(unsafe.Pointer(&t.slots[key]))
}

func (t *table) Read(hash board.ZobristHash) (Entry, bool) {
	t.probes.Inc()

	ptr := (*Entry)(atomic.LoadPointer(t.slot(hash)))
	if ptr == nil {
		return Entry{}, false
	}
	if ptr.Hash != hash {
		t.collisions.Inc()
		return Entry{}, false
	}
	t.hits.Inc()
	return *ptr, true
}

func (t *table) Write(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) bool {
	addr := t.slot(hash)

	fresh := &Entry{
		Hash:  hash,
		Move:  move,
		Score: score,
		Depth: int16(depth),
		Bound: bound,
		Age:   t.age,
	}

	ptr := (*Entry)(atomic.LoadPointer(addr))
	for {
		if ptr != nil && ptr.Hash == hash && int(ptr.Depth) > depth {
			return false // skip: keep the deeper entry for this position
		}
		if atomic.CompareAndSwapPointer(addr, unsafe.Pointer(ptr), unsafe.Pointer(fresh)) {
			if ptr == nil {
				t.used.Inc()
			}
			return true
		}
		ptr = (*Entry)(atomic.LoadPointer(addr))
	}
}

func (t *table) NewSearch() {
	t.age++
}

func (t *table) Clear() {
	for i := range t.slots {
		atomic.StorePointer((*unsafe.Pointer)(unsafe.Pointer(&t.slots[i])), nil)
	}
	t.used.Store(0)
	t.probes.Store(0)
	t.hits.Store(0)
	t.collisions.Store(0)
}

func (t *table) Size() uint64 {
	return uint64(len(t.slots))
}

func (t *table) Used() float64 {
	return float64(t.used.Load()) / float64(len(t.slots))
}

func (t *table) Stats() TTStats {
	return TTStats{
		Entries:    t.used.Load(),
		Probes:     t.probes.Load(),
		Hits:       t.hits.Load(),
		Collisions: t.collisions.Load(),
	}
}

// NoTranspositionTable is a Nop implementation.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Read(hash board.ZobristHash) (Entry, bool) {
	return Entry{}, false
}

func (NoTranspositionTable) Write(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) bool {
	return false
}

func (NoTranspositionTable) NewSearch() {}
func (NoTranspositionTable) Clear()     {}

func (NoTranspositionTable) Size() uint64 {
	return 0
}

func (NoTranspositionTable) Used() float64 {
	return 0
}

func (NoTranspositionTable) Stats() TTStats {
	return TTStats{}
}
