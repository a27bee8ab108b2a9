package board

import (
	"math/rand"
	"testing"
)

// TestLegalMovesNeverLeaveCheck walks random games and verifies no
// generated move leaves the mover's own king attacked.
func TestLegalMovesNeverLeaveCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for game := 0; game < 10; game++ {
		pos := NewPosition()

		for ply := 0; ply < 80; ply++ {
			var moves MoveList
			pos.GenerateLegalMoves(&moves)
			if moves.Len() == 0 {
				break
			}
			if moves.Len() > 256 {
				t.Fatalf("move list overflow: %d moves", moves.Len())
			}

			us := pos.SideToMove
			for i := 0; i < moves.Len(); i++ {
				m := moves.Get(i)
				undo := pos.MakeMove(m)
				if pos.InCheck(us) {
					t.Fatalf("move %s leaves %s king in check:%s", m, us, pos)
				}
				pos.UnmakeMove(m, undo)
			}

			pos.MakeMove(moves.Get(rng.Intn(moves.Len())))
		}
	}
}

func TestStartingPositionHasTwentyMoves(t *testing.T) {
	pos := NewPosition()
	if got := pos.LegalMoves().Len(); got != 20 {
		t.Errorf("legal moves from start = %d, want 20", got)
	}
}

// TestCastlingConditions covers the attacked and blocked square rules.
func TestCastlingConditions(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		kingside  bool
		queenside bool
	}{
		{"both wings free", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"king in check", "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1", false, false},
		{"crossing square attacked", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", false, true},
		{"destination attacked", "r3k2r/8/8/8/8/8/6r1/R3K2R w KQkq - 0 1", false, true},
		{"kingside blocked", "r3k2r/8/8/8/8/8/8/R3KB1R w KQkq - 0 1", false, true},
		{"queenside blocked", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", true, false},
		{"rights gone", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", false, false},
		// The b1 square may be attacked; only the king's path matters.
		{"b1 attacked is fine", "r3k2r/8/8/8/8/8/1r6/R3K2R w KQkq - 0 1", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			var moves MoveList
			pos.GenerateLegalMoves(&moves)

			gotKing := moves.Contains(NewMove(E1, G1, FlagCastleKing))
			gotQueen := moves.Contains(NewMove(E1, C1, FlagCastleQueen))

			if gotKing != tc.kingside {
				t.Errorf("kingside castle generated = %v, want %v", gotKing, tc.kingside)
			}
			if gotQueen != tc.queenside {
				t.Errorf("queenside castle generated = %v, want %v", gotQueen, tc.queenside)
			}
		})
	}
}

// TestPromotionGeneration verifies each promotion kind is a distinct move.
func TestPromotionGeneration(t *testing.T) {
	pos, err := ParseFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	var moves MoveList
	pos.GenerateLegalMoves(&moves)

	for _, k := range [4]Kind{Knight, Bishop, Rook, Queen} {
		if !moves.Contains(NewPromotion(A7, A8, k)) {
			t.Errorf("promotion to %s not generated", k)
		}
	}
	if moves.Contains(NewMove(A7, A8, FlagNormal)) {
		t.Error("non-promoting pawn push to last rank generated")
	}
}

// TestGenerateCaptures verifies the tactical move subset.
func TestGenerateCaptures(t *testing.T) {
	// White can capture on d5 with the e4 pawn, or play quiet moves.
	pos, err := ParseFEN("k7/8/8/3p4/4P3/5N2/8/K7 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	var captures MoveList
	pos.GenerateCaptures(&captures)

	want := []Move{
		NewMove(E4, D5, FlagNormal),
	}
	for _, m := range want {
		if !captures.Contains(m) {
			t.Errorf("capture %s not generated", m)
		}
	}
	for i := 0; i < captures.Len(); i++ {
		m := captures.Get(i)
		if !m.IsCapture(pos) && !m.IsPromotion() {
			t.Errorf("quiet move %s in capture list", m)
		}
	}
}

func TestCheckmateAndStalemate(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		checkmate bool
		stalemate bool
	}{
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", true, false},
		{"king can capture", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", false, false},
		{"corner stalemate", "7k/5Q2/8/8/8/8/8/K7 b - - 0 1", false, true},
		{"start position", StartFEN, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := pos.IsCheckmate(); got != tc.checkmate {
				t.Errorf("IsCheckmate = %v, want %v", got, tc.checkmate)
			}
			if got := pos.IsStalemate(); got != tc.stalemate {
				t.Errorf("IsStalemate = %v, want %v", got, tc.stalemate)
			}
		})
	}
}

func TestApplyMoveRejections(t *testing.T) {
	pos := NewPosition()

	if err := pos.ApplyMove(NewMove(E7, E5, FlagNormal)); err == nil {
		t.Error("moving the opponent's pawn was accepted")
	}
	if err := pos.ApplyMove(NewMove(E2, E5, FlagNormal)); err == nil {
		t.Error("three-square pawn push was accepted")
	}
	if err := pos.ApplyMove(NewMove(E2, E4, FlagDoublePush)); err != nil {
		t.Errorf("legal double push rejected: %v", err)
	}

	// A pinned piece may not expose its king.
	pinned, err := ParseFEN("4r2k/8/8/8/8/8/4N3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if err := pinned.ApplyMove(NewMove(E2, C3, FlagNormal)); err == nil {
		t.Error("moving a pinned knight was accepted")
	}
}
