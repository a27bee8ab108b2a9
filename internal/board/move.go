package board

// MoveFlag classifies a move. Captures are not flagged; they are inferred
// from the destination square (and the target square for en passant).
type MoveFlag uint8

const (
	FlagNormal MoveFlag = iota
	FlagDoublePush
	FlagEnPassant
	FlagCastleKing
	FlagCastleQueen
)

// Move encodes a chess move in 32 bits:
// bits 0-5:   from square
// bits 6-11:  to square
// bits 12-15: promotion kind (NoKind when not a promotion)
// bits 16-18: move flag
type Move uint32

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a move with the given flag and no promotion.
func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flag)<<16
}

// NewPromotion creates a promotion move to the given kind.
func NewPromotion(from, to Square, promo Kind) Move {
	return Move(from) | Move(to)<<6 | Move(promo)<<12
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Promotion returns the promotion kind, or NoKind.
func (m Move) Promotion() Kind {
	return Kind((m >> 12) & 0xF)
}

// Flag returns the move flag.
func (m Move) Flag() MoveFlag {
	return MoveFlag((m >> 16) & 0x7)
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion() != NoKind
}

// IsCastle reports whether the move is a castle on either wing.
func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == FlagCastleKing || f == FlagCastleQueen
}

// IsEnPassant reports whether the move is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsCapture reports whether the move captures a piece in the given position.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant() {
		return true
	}
	return pos.Board[m.To()] != Empty
}

// MoveList is a fixed-size list of moves. The backing array is sized for
// the maximum number of legal moves in any reachable position, so the
// search can keep one list per ply without heap allocation.
type MoveList struct {
	moves [256]Move
	count int
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list's array.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Undo stores everything MakeMove mutates so UnmakeMove can restore the
// position exactly, including the hash and the repetition history mark.
type Undo struct {
	Captured      Piece
	CapturedSq    Square
	Rights        CastlingRights
	EnPassant     Square
	HalfMoveClock int
	Hash          uint64
	HistRoot      int
}
