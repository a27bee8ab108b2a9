package board

// castleMask[sq] holds the castling rights that survive a piece moving
// from or to sq. Any move touching a king or rook home square drops the
// corresponding rights, which also covers rook captures.
var castleMask [64]CastlingRights

func init() {
	for sq := A1; sq <= H8; sq++ {
		castleMask[sq] = AllCastling
	}
	castleMask[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	castleMask[H1] &^= WhiteKingSideCastle
	castleMask[A1] &^= WhiteQueenSideCastle
	castleMask[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
	castleMask[H8] &^= BlackKingSideCastle
	castleMask[A8] &^= BlackQueenSideCastle
}

// MakeMove applies a move in place and returns the record UnmakeMove
// needs to take it back. The hash is maintained by XOR deltas for every
// square touched, the side-to-move key, and the castling and en passant
// keys that changed.
func (p *Position) MakeMove(m Move) Undo {
	undo := Undo{
		Captured:      Empty,
		CapturedSq:    NoSquare,
		Rights:        p.Rights,
		EnPassant:     p.EnPassant,
		HalfMoveClock: p.HalfMoveClock,
		Hash:          p.Hash,
		HistRoot:      p.histRoot,
	}

	from, to := m.From(), m.To()
	us := p.SideToMove
	moving := p.Board[from]

	irreversible := moving.Kind() == Pawn

	capSq := to
	if m.IsEnPassant() {
		capSq = NewSquare(to.File(), to.Rank()-int(us))
	}
	if captured := p.Board[capSq]; captured != Empty {
		undo.Captured = captured
		undo.CapturedSq = capSq
		p.Board[capSq] = Empty
		p.Hash ^= pieceKey(captured, capSq)
		irreversible = true
	}

	p.Board[from] = Empty
	p.Hash ^= pieceKey(moving, from)

	placed := moving
	if promo := m.Promotion(); promo != NoKind {
		placed = NewPiece(promo, us)
	}
	p.Board[to] = placed
	p.Hash ^= pieceKey(placed, to)

	if moving.Kind() == King {
		p.kingSquare[us.Index()] = to
	}

	if m.IsCastle() {
		var rookFrom, rookTo Square
		if m.Flag() == FlagCastleKing {
			rookFrom, rookTo = to+1, to-1
		} else {
			rookFrom, rookTo = to-2, to+1
		}
		rook := p.Board[rookFrom]
		p.Board[rookFrom] = Empty
		p.Board[rookTo] = rook
		p.Hash ^= pieceKey(rook, rookFrom) ^ pieceKey(rook, rookTo)
	}

	if newRights := p.Rights & castleMask[from] & castleMask[to]; newRights != p.Rights {
		p.Hash ^= zobristCastling[p.Rights] ^ zobristCastling[newRights]
		p.Rights = newRights
	}

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}
	if m.Flag() == FlagDoublePush {
		p.EnPassant = NewSquare(to.File(), to.Rank()-int(us))
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	if irreversible {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = us.Other()
	p.Hash ^= zobristSideToMove

	if irreversible {
		p.histRoot = len(p.history)
	}
	p.history = append(p.history, p.Hash)

	return undo
}

// UnmakeMove reverses MakeMove exactly, restoring every flag, counter,
// the hash, and the repetition history.
func (p *Position) UnmakeMove(m Move, undo Undo) {
	p.history = p.history[:len(p.history)-1]
	p.histRoot = undo.HistRoot

	us := p.SideToMove.Other()
	p.SideToMove = us

	from, to := m.From(), m.To()
	moving := p.Board[to]
	if m.Promotion() != NoKind {
		moving = NewPiece(Pawn, us)
	}
	p.Board[to] = Empty
	p.Board[from] = moving

	if moving.Kind() == King {
		p.kingSquare[us.Index()] = from
	}

	if m.IsCastle() {
		var rookFrom, rookTo Square
		if m.Flag() == FlagCastleKing {
			rookFrom, rookTo = to+1, to-1
		} else {
			rookFrom, rookTo = to-2, to+1
		}
		p.Board[rookFrom] = p.Board[rookTo]
		p.Board[rookTo] = Empty
	}

	if undo.Captured != Empty {
		p.Board[undo.CapturedSq] = undo.Captured
	}

	p.Rights = undo.Rights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash

	if us == Black {
		p.FullMoveNumber--
	}
}

// ApplyMove validates and applies a move coming from outside the engine,
// typically a user move. It reports why a move is rejected rather than
// just rejecting it.
func (p *Position) ApplyMove(m Move) error {
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo)
	if !p.Board[m.From()].IsColor(p.SideToMove) {
		return ErrWrongSide
	}
	if !pseudo.Contains(m) {
		return ErrNotPseudoLegal
	}
	undo := p.MakeMove(m)
	if p.InCheck(p.SideToMove.Other()) {
		p.UnmakeMove(m, undo)
		return ErrLeavesKingInCheck
	}
	return nil
}
