package board

import (
	"errors"
	"testing"
)

func TestParseFENStartingPosition(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN(StartFEN): %v", err)
	}

	if pos.SideToMove != White {
		t.Errorf("side to move = %s, want White", pos.SideToMove)
	}
	if pos.Rights != AllCastling {
		t.Errorf("castling rights = %s, want KQkq", pos.Rights)
	}
	if pos.EnPassant != NoSquare {
		t.Errorf("en passant = %s, want -", pos.EnPassant)
	}
	if pos.Board[E1] != WhiteKing || pos.Board[E8] != BlackKing {
		t.Error("kings not on their home squares")
	}
	if pos.KingSquare(White) != E1 || pos.KingSquare(Black) != E8 {
		t.Error("king square cache not primed by FEN parsing")
	}
	if pos.Hash != pos.ComputeHash() {
		t.Error("hash not initialized")
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2",
		"8/8/8/8/8/7k/5Q2/7K w - - 12 34",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Errorf("ParseFEN(%q): %v", fen, err)
			continue
		}
		if got := pos.ToFEN(); got != fen {
			t.Errorf("round trip mismatch:\n in  %s\n out %s", fen, got)
		}
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",       // missing fields
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",   // seven ranks
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
	}

	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) succeeded, want error", fen)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		wantErr bool
	}{
		{"start position", StartFEN, false},
		{"bare kings", "8/8/8/8/8/8/8/K6k w - - 0 1", false},
		{"missing black king", "8/8/8/8/8/8/8/K7 w - - 0 1", true},
		{"two white kings", "8/8/8/8/8/8/8/KK5k w - - 0 1", true},
		{"pawn on first rank", "8/8/8/8/8/8/8/P6k w - - 0 1", true},
		{"pawn on last rank", "P7/8/8/8/8/7k/8/7K w - - 0 1", true},
		{"opponent in check", "7k/6Q1/8/8/8/8/8/7K b - - 0 1", false},
		{"side not to move in check", "7k/6Q1/8/8/8/8/8/7K w - - 0 1", true},
		{"castling rights without rook", "4k3/8/8/8/8/8/8/4K2R w Q - 0 1", true},
		{"en passant square occupied", "rnbqkbnr/ppp1pppp/4p3/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e6 0 1", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			err = pos.Validate()
			if tc.wantErr && err == nil {
				t.Error("Validate passed, want error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate failed: %v", err)
			}
			if err != nil && !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("error %v does not wrap ErrInvalidPosition", err)
			}
		})
	}
}
