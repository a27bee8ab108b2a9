package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidPosition is wrapped by every error Validate returns.
var ErrInvalidPosition = errors.New("invalid position")

// ParseFEN parses a FEN string and returns a Position.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	pos.kingSquare[0] = NoSquare
	pos.kingSquare[1] = NoSquare

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	pos.Hash = pos.ComputeHash()
	pos.history = append(pos.history[:0], pos.Hash)
	pos.histRoot = 0

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == Empty {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				pos.SetPiece(piece, NewSquare(file, rank))
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.Rights = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.Rights |= WhiteKingSideCastle
		case 'Q':
			pos.Rights |= WhiteQueenSideCastle
		case 'k':
			pos.Rights |= BlackKingSideCastle
		case 'q':
			pos.Rights |= BlackQueenSideCastle
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return nil
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == Empty {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.Rights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

// Validate checks the structural invariants a position must satisfy before
// it may be searched. Every returned error wraps ErrInvalidPosition.
func (p *Position) Validate() error {
	var kings [2]int
	for sq := A1; sq <= H8; sq++ {
		pc := p.Board[sq]
		if pc == Empty {
			continue
		}
		switch pc.Kind() {
		case King:
			kings[pc.Color().Index()]++
		case Pawn:
			if r := sq.Rank(); r == 0 || r == 7 {
				return fmt.Errorf("%w: pawn on back rank %s", ErrInvalidPosition, sq)
			}
		}
	}
	if kings[0] != 1 || kings[1] != 1 {
		return fmt.Errorf("%w: each side needs exactly one king", ErrInvalidPosition)
	}

	// Castling rights require king and rook on their home squares.
	type castleCheck struct {
		right CastlingRights
		king  Square
		rook  Square
		kp    Piece
		rp    Piece
	}
	checks := []castleCheck{
		{WhiteKingSideCastle, E1, H1, WhiteKing, WhiteRook},
		{WhiteQueenSideCastle, E1, A1, WhiteKing, WhiteRook},
		{BlackKingSideCastle, E8, H8, BlackKing, BlackRook},
		{BlackQueenSideCastle, E8, A8, BlackKing, BlackRook},
	}
	for _, c := range checks {
		if p.Rights&c.right == 0 {
			continue
		}
		if p.Board[c.king] != c.kp || p.Board[c.rook] != c.rp {
			return fmt.Errorf("%w: castling right %s without king and rook in place", ErrInvalidPosition, c.right)
		}
	}

	if ep := p.EnPassant; ep != NoSquare {
		// The target sits behind a pawn that just advanced two squares,
		// so it is on rank 5 when White is to move and rank 2 when Black is.
		wantRank := 5
		pawn := NewPiece(Pawn, p.SideToMove.Other())
		pawnSq := ep - 8
		if p.SideToMove == Black {
			wantRank = 2
			pawnSq = ep + 8
		}
		if ep.Rank() != wantRank {
			return fmt.Errorf("%w: en passant target %s on wrong rank", ErrInvalidPosition, ep)
		}
		if p.Board[ep] != Empty || p.Board[pawnSq] != pawn {
			return fmt.Errorf("%w: en passant target %s without a double-pushed pawn", ErrInvalidPosition, ep)
		}
	}

	if p.InCheck(p.SideToMove.Other()) {
		return fmt.Errorf("%w: side not to move is in check", ErrInvalidPosition)
	}

	if p.Hash != p.ComputeHash() {
		return fmt.Errorf("%w: stale hash", ErrInvalidPosition)
	}

	return nil
}
