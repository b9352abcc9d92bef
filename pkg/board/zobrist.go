package board

import (
	"math/rand"
	"sync"
)

// ZobristHash is a position hash based on stone-squares and the side to move.
//
// See also: https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type ZobristHash uint64

// zobristSeed is fixed so that separate engine instances agree on hashes.
const zobristSeed int64 = 1

// ZobristTable is a pseudo-randomized table for computing a position hash.
// Tables are immutable after creation and shared by all boards of a size.
type ZobristTable struct {
	stones [NumColors][]ZobristHash // indexed by Square.Index()
	side   ZobristHash              // xor'ed in when Min is to move
}

// NewZobristTable creates a table for the given board size from the fixed seed.
func NewZobristTable(size int) *ZobristTable {
	ret := &ZobristTable{}

	r := rand.New(rand.NewSource(zobristSeed + int64(size)))

	for c := Max; c < NumColors; c++ {
		ret.stones[c] = make([]ZobristHash, NumSquares)
		for i := range ret.stones[c] {
			ret.stones[c][i] = ZobristHash(r.Uint64())
		}
	}
	ret.side = ZobristHash(r.Uint64())
	return ret
}

// Stone returns the key for a stone of the given color on the given square.
func (z *ZobristTable) Stone(c Color, sq Square) ZobristHash {
	return z.stones[c][sq.Index()]
}

// Side returns the side-to-move key.
func (z *ZobristTable) Side() ZobristHash {
	return z.side
}

var (
	ztables   = map[int]*ZobristTable{}
	ztablesMu sync.Mutex
)

// tableFor returns the process-scope table for the given board size,
// initializing it on first use.
func tableFor(size int) *ZobristTable {
	ztablesMu.Lock()
	defer ztablesMu.Unlock()

	if t, ok := ztables[size]; ok {
		return t
	}
	t := NewZobristTable(size)
	ztables[size] = t
	return t
}
