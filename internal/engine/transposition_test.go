package engine

import (
	"testing"

	"github.com/minnowchess/minnow/internal/board"
)

func TestTableStoreProbe(t *testing.T) {
	tt := NewTable(1)

	hash := uint64(0x123456789ABCDEF0)
	move := board.NewMove(board.E2, board.E4, board.FlagDoublePush)

	if _, ok := tt.Probe(hash); ok {
		t.Fatal("probe hit on empty table")
	}

	tt.Store(hash, 5, 42, -100, 100, BoundExact, move)

	entry, ok := tt.Probe(hash)
	if !ok {
		t.Fatal("probe missed after store")
	}
	if entry.Score != 42 || entry.Depth != 5 || entry.Bound != BoundExact || entry.BestMove != move {
		t.Errorf("entry mismatch: %+v", entry)
	}
	if entry.AlphaUsed != -100 || entry.BetaUsed != 100 {
		t.Errorf("stored window = [%d, %d], want [-100, 100]", entry.AlphaUsed, entry.BetaUsed)
	}

	if _, ok := tt.Probe(hash ^ 1); ok {
		t.Error("probe hit for a different key")
	}
}

// TestExactBoundWindowRule: an exact score is reusable only when the
// current window lies inside the window it was proven under.
func TestExactBoundWindowRule(t *testing.T) {
	e := &Entry{Score: 20, AlphaUsed: -100, BetaUsed: 100, Depth: 6, Bound: BoundExact}

	if _, ok := e.Usable(6, 0, -50, 50, false); !ok {
		t.Error("exact entry rejected for a narrower window")
	}
	if _, ok := e.Usable(6, 0, -100, 100, false); !ok {
		t.Error("exact entry rejected for the identical window")
	}
	if _, ok := e.Usable(6, 0, -200, 200, false); ok {
		t.Error("exact entry accepted for a wider window")
	}
	if _, ok := e.Usable(6, 0, -200, 50, false); ok {
		t.Error("exact entry accepted when alpha is looser")
	}
	if _, ok := e.Usable(6, 0, -50, 200, false); ok {
		t.Error("exact entry accepted when beta is looser")
	}
}

// TestLowerBoundWindowRule: a beta cutoff is reused against a beta no
// looser than the one it was proven with, and not against a looser one.
func TestLowerBoundWindowRule(t *testing.T) {
	e := &Entry{Score: 150, AlphaUsed: -50, BetaUsed: 100, Depth: 4, Bound: BoundLower}

	if score, ok := e.Usable(4, 0, 0, 100, false); !ok || score != 150 {
		t.Errorf("cutoff rejected with beta equal to the proven beta: score=%d ok=%v", score, ok)
	}
	if _, ok := e.Usable(4, 0, 0, 90, false); !ok {
		t.Error("cutoff rejected with a tighter beta than proven")
	}
	if _, ok := e.Usable(4, 0, 0, 120, false); ok {
		t.Error("cutoff accepted with a looser beta than proven")
	}

	// Score below the current beta is no cutoff at all.
	if _, ok := e.Usable(4, 0, 0, 100, false); !ok {
		t.Error("sanity: score 150 >= beta 100 should cut")
	}
	weak := &Entry{Score: 80, AlphaUsed: -50, BetaUsed: 100, Depth: 4, Bound: BoundLower}
	if _, ok := weak.Usable(4, 0, 0, 100, false); ok {
		t.Error("lower bound below beta produced a cutoff")
	}
}

// TestUpperBoundWindowRule: a fail-low holds only against an alpha no
// looser than the one it was proven with.
func TestUpperBoundWindowRule(t *testing.T) {
	e := &Entry{Score: -30, AlphaUsed: -10, BetaUsed: 200, Depth: 4, Bound: BoundUpper}

	if _, ok := e.Usable(4, 0, 0, 100, false); !ok {
		t.Error("fail-low rejected with a tighter alpha than proven")
	}
	if _, ok := e.Usable(4, 0, -10, 100, false); !ok {
		t.Error("fail-low rejected with alpha equal to the proven alpha")
	}
	if _, ok := e.Usable(4, 0, -50, 100, false); ok {
		t.Error("fail-low accepted with a looser alpha than proven")
	}

	strong := &Entry{Score: 50, AlphaUsed: -10, BetaUsed: 200, Depth: 4, Bound: BoundUpper}
	if _, ok := strong.Usable(4, 0, 0, 100, false); ok {
		t.Error("upper bound above alpha produced a cutoff")
	}
}

func TestDepthRule(t *testing.T) {
	e := &Entry{Score: 10, AlphaUsed: -100, BetaUsed: 100, Depth: 5, Bound: BoundExact}

	if _, ok := e.Usable(6, 0, -50, 50, false); ok {
		t.Error("shallow entry answered a deeper probe")
	}
	if _, ok := e.Usable(5, 0, -50, 50, false); !ok {
		t.Error("entry rejected at its own depth")
	}
	if _, ok := e.Usable(3, 0, -50, 50, false); !ok {
		t.Error("deep entry rejected for a shallower probe")
	}
}

// TestEndgameDepthRule: in the endgame only exact entries at exactly the
// probing depth give cutoffs. A deeper entry may carry a mate proof that
// is not the shortest one.
func TestEndgameDepthRule(t *testing.T) {
	deeper := &Entry{Score: 500, AlphaUsed: -Infinity, BetaUsed: Infinity, Depth: 8, Bound: BoundExact}
	if _, ok := deeper.Usable(5, 0, -50, 50, true); ok {
		t.Error("endgame probe accepted a deeper entry")
	}
	if _, ok := deeper.Usable(5, 0, -50, 50, false); !ok {
		t.Error("middlegame probe rejected a deeper exact entry inside its window")
	}

	same := &Entry{Score: 10, AlphaUsed: -Infinity, BetaUsed: Infinity, Depth: 5, Bound: BoundExact}
	if _, ok := same.Usable(5, 0, -50, 50, true); !ok {
		t.Error("endgame probe rejected an exact entry at its own depth")
	}

	lower := &Entry{Score: 500, AlphaUsed: -Infinity, BetaUsed: Infinity, Depth: 5, Bound: BoundLower}
	if _, ok := lower.Usable(5, 0, -50, 50, true); ok {
		t.Error("endgame probe accepted a non-exact entry")
	}
}

func TestMateScoreNormalization(t *testing.T) {
	for _, ply := range []int{0, 1, 5, 40} {
		for _, score := range []int{MateScore - 3, -MateScore + 7, 120, 0, -300} {
			stored := ScoreToTT(score, ply)
			if got := ScoreFromTT(stored, ply); got != score {
				t.Errorf("normalization round trip at ply %d: %d -> %d -> %d", ply, score, stored, got)
			}
		}
	}

	// A mate stored at ply 2 and probed at ply 4 is two plies further
	// from the new root.
	stored := ScoreToTT(MateScore-5, 2)
	if got := ScoreFromTT(stored, 4); got != MateScore-7 {
		t.Errorf("mate re-rooting: got %d, want %d", got, MateScore-7)
	}
}

// TestReplacementScheme: the first slot prefers depth, the second always
// takes the newcomer, so a shallow fresh entry never evicts a deep one.
func TestReplacementScheme(t *testing.T) {
	tt := NewTable(1)

	h1 := uint64(0x0AAA000000000001)
	h2 := h1 | (1 << 63) // same cluster index, different key

	tt.Store(h1, 9, 10, -100, 100, BoundExact, board.NoMove)
	tt.Store(h2, 2, 20, -100, 100, BoundExact, board.NoMove)

	if e, ok := tt.Probe(h1); !ok || e.Depth != 9 {
		t.Error("deep entry evicted by a shallow one")
	}
	if e, ok := tt.Probe(h2); !ok || e.Depth != 2 {
		t.Error("shallow entry lost despite the always-replace slot")
	}

	// Same key always updates in place.
	tt.Store(h1, 3, 30, -100, 100, BoundExact, board.NoMove)
	if e, ok := tt.Probe(h1); !ok || e.Score != 30 {
		t.Error("same-key store did not update the entry")
	}
}
