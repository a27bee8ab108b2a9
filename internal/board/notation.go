package board

import (
	"errors"
	"fmt"
	"strings"
)

// Move rejection reasons. All wrap ErrIllegalMove.
var (
	ErrIllegalMove       = errors.New("illegal move")
	ErrWrongSide         = fmt.Errorf("%w: piece belongs to the other side", ErrIllegalMove)
	ErrNotPseudoLegal    = fmt.Errorf("%w: not a legal movement for the piece", ErrIllegalMove)
	ErrLeavesKingInCheck = fmt.Errorf("%w: leaves own king in check", ErrIllegalMove)
)

var promoChars = map[Kind]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}

// String returns the long algebraic form of the move: "e2e4", "e7e8q",
// and "O-O" / "O-O-O" for castles. En passant prints like any capture.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	switch m.Flag() {
	case FlagCastleKing:
		return "O-O"
	case FlagCastleQueen:
		return "O-O-O"
	}
	s := m.From().String() + m.To().String()
	if promo := m.Promotion(); promo != NoKind {
		s += string(promoChars[promo])
	}
	return s
}

// ParseMove parses a move in long algebraic form against a position.
// Castles are accepted as "O-O"/"O-O-O" (or with zeros) and also in
// coordinate form ("e1g1"); the position supplies the classification a
// bare coordinate pair cannot carry.
func ParseMove(s string, pos *Position) (Move, error) {
	us := pos.SideToMove
	home := A1
	if us == Black {
		home = A8
	}

	switch strings.TrimSpace(s) {
	case "O-O", "0-0":
		return NewMove(home+4, home+6, FlagCastleKing), nil
	case "O-O-O", "0-0-0":
		return NewMove(home+4, home+2, FlagCastleQueen), nil
	}

	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var promo Kind
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := pos.Board[from]
	if piece == Empty {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}

	switch piece.Kind() {
	case King:
		if to == from+2 {
			return NewMove(from, to, FlagCastleKing), nil
		}
		if from == to+2 {
			return NewMove(from, to, FlagCastleQueen), nil
		}
	case Pawn:
		if to == pos.EnPassant && pos.EnPassant != NoSquare {
			return NewMove(from, to, FlagEnPassant), nil
		}
		if diff := to.Rank() - from.Rank(); diff == 2 || diff == -2 {
			return NewMove(from, to, FlagDoublePush), nil
		}
	}

	return NewMove(from, to, FlagNormal), nil
}

// FormatMoveList renders a game's moves in numbered pairs, one full move
// per line, for the front end's move list display.
func FormatMoveList(moves []string) string {
	var sb strings.Builder
	for i := 0; i < len(moves); i += 2 {
		if i+1 < len(moves) {
			fmt.Fprintf(&sb, "%3d. %-7s %s\n", i/2+1, moves[i], moves[i+1])
		} else {
			fmt.Fprintf(&sb, "%3d. %s\n", i/2+1, moves[i])
		}
	}
	return sb.String()
}
