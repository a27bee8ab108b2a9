package board

// Color represents the color of a piece or player.
// White is +1 and Black is -1 so that a color can act as the sign of a
// piece value and as the forward direction multiplier for pawns.
type Color int8

const (
	White Color = 1
	Black Color = -1
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return -c
}

// Index returns 0 for White and 1 for Black, for array indexing.
func (c Color) Index() int {
	if c == White {
		return 0
	}
	return 1
}

// String returns the color name.
func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Kind represents the type of a chess piece, independent of color.
type Kind int8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// PieceValue is the material value per kind in centipawns, indexed by Kind.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 20000}

// Piece is a signed piece code: the sign is the color and the magnitude
// is the kind. Zero is an empty square.
type Piece int8

const Empty Piece = 0

const (
	WhitePawn   = Piece(Pawn)
	WhiteKnight = Piece(Knight)
	WhiteBishop = Piece(Bishop)
	WhiteRook   = Piece(Rook)
	WhiteQueen  = Piece(Queen)
	WhiteKing   = Piece(King)
	BlackPawn   = -Piece(Pawn)
	BlackKnight = -Piece(Knight)
	BlackBishop = -Piece(Bishop)
	BlackRook   = -Piece(Rook)
	BlackQueen  = -Piece(Queen)
	BlackKing   = -Piece(King)
)

// NewPiece creates a Piece from a kind and a color.
func NewPiece(k Kind, c Color) Piece {
	return Piece(int8(k) * int8(c))
}

// Kind returns the kind of the piece, or NoKind for an empty square.
func (p Piece) Kind() Kind {
	if p < 0 {
		return Kind(-p)
	}
	return Kind(p)
}

// Color returns White or Black. Only meaningful for non-empty pieces.
func (p Piece) Color() Color {
	if p < 0 {
		return Black
	}
	return White
}

// IsColor reports whether the piece is non-empty and of the given color.
func (p Piece) IsColor(c Color) bool {
	if c == White {
		return p > 0
	}
	return p < 0
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return PieceValue[p.Kind()]
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black, space for empty.
func (p Piece) String() string {
	if p == Empty {
		return " "
	}
	chars := "?PNBRQK"
	ch := chars[p.Kind()]
	if p < 0 {
		ch += 'a' - 'A'
	}
	return string(ch)
}

// PieceFromChar converts a FEN character to a Piece, or Empty if invalid.
func PieceFromChar(c byte) Piece {
	var k Kind
	switch c {
	case 'P', 'p':
		k = Pawn
	case 'N', 'n':
		k = Knight
	case 'B', 'b':
		k = Bishop
	case 'R', 'r':
		k = Rook
	case 'Q', 'q':
		k = Queen
	case 'K', 'k':
		k = King
	default:
		return Empty
	}
	if c >= 'a' {
		return NewPiece(k, Black)
	}
	return NewPiece(k, White)
}
