package board

import "fmt"

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side may castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// Position represents a complete chess position: a square-indexed board
// plus the game state needed to generate and take back moves.
type Position struct {
	// Board holds the piece on each square, Empty for none.
	Board [64]Piece

	SideToMove     Color
	Rights         CastlingRights
	EnPassant      Square // target square behind a double-pushed pawn, NoSquare if none
	HalfMoveClock  int    // plies since the last capture or pawn move
	FullMoveNumber int    // starts at 1, increments after Black's move

	// Hash is the Zobrist fingerprint, maintained incrementally.
	Hash uint64

	// King positions, cached so check detection starts from the king.
	kingSquare [2]Square

	// history records the hash of every position of the game so far;
	// histRoot marks the first entry after the last irreversible move.
	// Repetition detection only scans history[histRoot:].
	history  []uint64
	histRoot int
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.history = make([]uint64, len(p.history))
	copy(newPos.history, p.history)
	return &newPos
}

// PieceAt returns the piece at the given square, or Empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq] == Empty
}

// KingSquare returns the square of the given color's king.
func (p *Position) KingSquare(c Color) Square {
	return p.kingSquare[c.Index()]
}

// SetPiece places a piece on a square, keeping the king cache current.
// It does not touch the hash; callers rebuild it with ComputeHash.
func (p *Position) SetPiece(piece Piece, sq Square) {
	p.Board[sq] = piece
	if piece.Kind() == King {
		p.kingSquare[piece.Color().Index()] = sq
	}
}

// History returns the hashes of the positions reachable by repetition,
// ending with the current position.
func (p *Position) History() []uint64 {
	return p.history[p.histRoot:]
}

// RepetitionCount returns how many times the current position has
// occurred since the last irreversible move, counting the present one.
func (p *Position) RepetitionCount() int {
	n := 0
	for _, h := range p.history[p.histRoot:] {
		if h == p.Hash {
			n++
		}
	}
	return n
}

// InCheck reports whether the given color's king is attacked.
func (p *Position) InCheck(c Color) bool {
	return p.IsAttacked(p.KingSquare(c), c.Other())
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == Empty {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.Rights)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", p.FullMoveNumber)
	s += fmt.Sprintf("Hash: %016x\n", p.Hash)
	return s
}
