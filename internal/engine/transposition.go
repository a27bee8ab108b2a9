package engine

import (
	"math/bits"

	"github.com/minnowchess/minnow/internal/board"
)

// Bound classifies a stored score relative to the window it was proven
// under: exact, a lower bound from a beta cutoff, or an upper bound from
// a fail-low.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower
	BoundUpper
)

// Entry is one transposition table slot. Alongside the usual fields it
// records AlphaUsed and BetaUsed, the window the bound was proven under.
// A bound proved under one window is not trusted against a looser one,
// so probes compare the current window against the recorded one before
// trusting the score.
type Entry struct {
	Key       uint64
	BestMove  board.Move
	Score     int16
	AlphaUsed int16
	BetaUsed  int16
	Depth     int8
	Bound     Bound
}

// Usable reports whether the entry may answer a probe at the given draft
// with window [alpha, beta], and if so returns the score to cut off
// with, renormalized for mate distance at the given ply.
//
// The window rules:
//   - exact scores are reusable only when the current window lies inside
//     the proven one (alpha >= AlphaUsed and beta <= BetaUsed);
//   - a lower bound (beta cutoff) is reusable only against a beta no
//     looser than the one it was proven with (beta <= BetaUsed);
//   - an upper bound (fail-low) is reusable only when alpha >= AlphaUsed.
//
// In endgame positions an additional depth rule applies: entries deeper
// than the current draft are ignored and only exact entries at the same
// draft are trusted. Deeper entries can prove a mate that is not the
// shortest one, and reusing them lets the search wander between equally
// "winning" lines without ever closing the distance.
func (e *Entry) Usable(draft, ply, alpha, beta int, endgame bool) (int, bool) {
	if endgame {
		if int(e.Depth) != draft || e.Bound != BoundExact {
			return 0, false
		}
	} else if int(e.Depth) < draft {
		return 0, false
	}

	score := ScoreFromTT(int(e.Score), ply)

	switch e.Bound {
	case BoundExact:
		if alpha >= int(e.AlphaUsed) && beta <= int(e.BetaUsed) {
			return score, true
		}
	case BoundLower:
		if beta <= int(e.BetaUsed) && score >= beta {
			return score, true
		}
	case BoundUpper:
		if alpha >= int(e.AlphaUsed) && score <= alpha {
			return score, true
		}
	}
	return 0, false
}

// cluster pairs a depth-preferred slot with an always-replace slot.
type cluster [2]Entry

// Table is a fixed-size transposition table. The entry count is a power
// of two so the index is a mask of the hash; the full key is stored for
// identity verification.
type Table struct {
	clusters []cluster
	mask     uint64
}

// entrySize is a conservative per-entry byte estimate for sizing.
const entrySize = 24

// NewTable creates a table from a byte budget in megabytes. The table is
// sized once and never grows during a search.
func NewTable(sizeMB int) *Table {
	if sizeMB < 1 {
		sizeMB = 1
	}
	numClusters := uint64(sizeMB) * 1024 * 1024 / (2 * entrySize)
	numClusters = roundDownToPowerOf2(numClusters)

	return &Table{
		clusters: make([]cluster, numClusters),
		mask:     numClusters - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	return 1 << (63 - bits.LeadingZeros64(n))
}

// Probe looks up a position. The boolean is false when neither slot
// holds this key. A zero Depth marks a slot that was never written;
// the search only stores entries of depth 1 or more.
func (t *Table) Probe(hash uint64) (*Entry, bool) {
	c := &t.clusters[hash&t.mask]
	if c[0].Key == hash && c[0].Depth > 0 {
		return &c[0], true
	}
	if c[1].Key == hash && c[1].Depth > 0 {
		return &c[1], true
	}
	return nil, false
}

// Store records a search result. alpha and beta are the ORIGINAL window
// bounds the node was searched with, not the possibly-raised running
// alpha; the stored window is what makes later probes safe. The score
// must already be mate-normalized via ScoreToTT.
//
// Replacement: the first slot keeps the deepest entry seen for its
// index, the second slot always takes the newest.
func (t *Table) Store(hash uint64, depth, score, alpha, beta int, bound Bound, best board.Move) {
	e := Entry{
		Key:       hash,
		BestMove:  best,
		Score:     int16(score),
		AlphaUsed: int16(alpha),
		BetaUsed:  int16(beta),
		Depth:     int8(depth),
		Bound:     bound,
	}

	c := &t.clusters[hash&t.mask]
	if c[0].Key == hash || depth >= int(c[0].Depth) {
		c[0] = e
		return
	}
	c[1] = e
}

// Clear wipes the table.
func (t *Table) Clear() {
	for i := range t.clusters {
		t.clusters[i] = cluster{}
	}
}

// Size returns the number of entries in the table.
func (t *Table) Size() int {
	return len(t.clusters) * 2
}

// Mate scores are stored as distance from the CURRENT node rather than
// from the root, so an entry is valid wherever the position transposes.
// ScoreToTT converts a root-relative score for storage; ScoreFromTT
// converts it back on probe.

func ScoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

func ScoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}
