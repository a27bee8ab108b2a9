package engine

import (
	"sync/atomic"
	"testing"

	"github.com/minnowchess/minnow/internal/board"
)

func newTestSearcher(t *testing.T, fen string) *Searcher {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	var stop atomic.Bool
	s := NewSearcher(NewTable(8), DefaultConfig(), &stop)
	s.InitSearch(pos)
	return s
}

func TestSearchStartingPosition(t *testing.T) {
	s := newTestSearcher(t, board.StartFEN)

	move, score := s.SearchDepth(3)
	if move == board.NoMove {
		t.Fatal("no move returned from the starting position")
	}
	if score < -100 || score > 100 {
		t.Errorf("start position score = %d, want small", score)
	}

	// The chosen move must be one of the twenty legal ones.
	pos := board.NewPosition()
	if !pos.LegalMoves().Contains(move) {
		t.Errorf("returned move %s is not legal", move)
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	// Back rank: Re8 mates immediately.
	s := newTestSearcher(t, "6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1")

	move, score := s.SearchDepth(2)
	if want := board.NewMove(board.E1, board.E8, board.FlagNormal); move != want {
		t.Errorf("best move = %s, want %s", move, want)
	}
	if score != MateScore-1 {
		t.Errorf("score = %d, want %d", score, MateScore-1)
	}
}

// TestSearchPrefersShortestMate sets up a forced mate in two with mates
// in three also on the board. The score must be exactly the two-move
// mate, not any of the longer ones.
func TestSearchPrefersShortestMate(t *testing.T) {
	// Rook ladder: 1.Rb7 Kg8 2.Ra8# (or 1.Ra7 first). No mate in one.
	s := newTestSearcher(t, "7k/8/R7/1R6/8/8/8/4K3 w - - 0 1")

	move, score := s.SearchDepth(4)
	if score != MateScore-3 {
		t.Errorf("score = %d, want exactly %d (mate in 3 plies)", score, MateScore-3)
	}

	ladder1 := board.NewMove(board.B5, board.B7, board.FlagNormal)
	ladder2 := board.NewMove(board.A6, board.A7, board.FlagNormal)
	if move != ladder1 && move != ladder2 {
		t.Errorf("best move = %s, want a ladder move (%s or %s)", move, ladder1, ladder2)
	}
}

// TestSearchUnderpromotion: fxg8=N is the only mate in one; a queen
// promotion gives no check at all.
func TestSearchUnderpromotion(t *testing.T) {
	s := newTestSearcher(t, "6r1/5P1p/7k/5Kp1/6P1/8/1B6/8 w - - 0 1")

	move, score := s.SearchDepth(2)
	if want := board.NewPromotion(board.F7, board.G8, board.Knight); move != want {
		t.Errorf("best move = %s, want %s (knight underpromotion)", move, want)
	}
	if score != MateScore-1 {
		t.Errorf("score = %d, want %d", score, MateScore-1)
	}
}

// TestSearchMatedPosition: the side to move is already mated.
func TestSearchMatedPosition(t *testing.T) {
	s := newTestSearcher(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")

	move, score := s.SearchDepth(3)
	if move != board.NoMove {
		t.Errorf("mated position returned move %s", move)
	}
	if score != -MateScore {
		t.Errorf("mated position score = %d, want %d", score, -MateScore)
	}
}

// TestFiftyMoveRuleDraw: with the clock at 100 every line is a draw.
func TestFiftyMoveRuleDraw(t *testing.T) {
	for _, depth := range []int{1, 3, 5} {
		s := newTestSearcher(t, "4k3/8/8/8/8/8/R7/4K3 w - - 100 70")
		_, score := s.SearchDepth(depth)
		if score != 0 {
			t.Errorf("depth %d: score = %d, want 0 (fifty-move rule)", depth, score)
		}
	}
}

// TestRepetitionScoredAsDraw: a line that returns to a position from the
// game history scores zero inside the tree, so a cornered engine heads
// for the repetition instead of losing material.
func TestRepetitionScoredAsDraw(t *testing.T) {
	pos := board.NewPosition()
	for _, mv := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		m, err := board.ParseMove(mv, pos)
		if err != nil {
			t.Fatal(err)
		}
		pos.MakeMove(m)
	}

	var stop atomic.Bool
	s := NewSearcher(NewTable(8), DefaultConfig(), &stop)
	s.InitSearch(pos)

	if got := len(pos.History()); got != 5 {
		t.Fatalf("history length = %d, want 5", got)
	}

	// The start position is now on the board for the second time.
	// Walking the shuffle once more inside the "tree" reaches it again;
	// the draw check must fire on that line.
	for _, mv := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		m, err := board.ParseMove(mv, s.pos)
		if err != nil {
			t.Fatal(err)
		}
		s.pos.MakeMove(m)
		s.posHistory = append(s.posHistory, s.pos.Hash)
	}

	if !s.isDraw() {
		t.Error("threefold repetition not detected as draw")
	}
}

// TestSearchLegalInOpenPosition plays the engine's choice back onto the
// board and verifies the result is a legal position.
func TestSearchLegalInOpenPosition(t *testing.T) {
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 3"
	s := newTestSearcher(t, fen)

	move, _ := s.SearchDepth(3)
	if move == board.NoMove {
		t.Fatal("no move returned")
	}

	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	if err := pos.ApplyMove(move); err != nil {
		t.Fatalf("engine move %s rejected: %v", move, err)
	}
	if err := pos.Validate(); err != nil {
		t.Fatalf("position after engine move %s invalid: %v", move, err)
	}
}

// TestQueenEndingIsWinning uses a bare KQ vs K position: the search must
// produce a legal move and a clearly winning score.
func TestQueenEndingIsWinning(t *testing.T) {
	fen := "8/8/8/8/8/7k/5Q2/7K w - - 0 1"
	s := newTestSearcher(t, fen)

	move, score := s.SearchDepth(5)
	if move == board.NoMove {
		t.Fatal("no move returned")
	}
	if score < 500 {
		t.Errorf("score = %d, want a decisive advantage", score)
	}

	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	if err := pos.ApplyMove(move); err != nil {
		t.Fatalf("engine move %s rejected: %v", move, err)
	}

	// Whatever the engine plays must not stalemate the defender.
	if pos.IsStalemate() {
		t.Errorf("engine move %s stalemates the defender", move)
	}
}

// TestDeeperSearchStillSeesMate guards the endgame table rule: after a
// deep search filled the table, a repeat search from the same position
// must still report the same shortest mate rather than drifting to a
// longer proof cached at higher depth.
func TestDeeperSearchStillSeesMate(t *testing.T) {
	fen := "7k/8/R7/1R6/8/8/8/4K3 w - - 0 1"
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}

	var stop atomic.Bool
	tt := NewTable(8)
	s := NewSearcher(tt, DefaultConfig(), &stop)

	s.InitSearch(pos)
	if _, score := s.SearchDepth(6); score != MateScore-3 {
		t.Fatalf("deep search score = %d, want %d", score, MateScore-3)
	}

	// Re-search shallower against the warm table.
	s.InitSearch(pos)
	if _, score := s.SearchDepth(4); score != MateScore-3 {
		t.Errorf("re-search score = %d, want %d", score, MateScore-3)
	}
}

func TestSearchNodeCountGrows(t *testing.T) {
	s := newTestSearcher(t, board.StartFEN)
	s.SearchDepth(2)
	shallow := s.Nodes()

	s = newTestSearcher(t, board.StartFEN)
	s.SearchDepth(4)
	deep := s.Nodes()

	if deep <= shallow {
		t.Errorf("nodes at depth 4 (%d) not greater than at depth 2 (%d)", deep, shallow)
	}
}
