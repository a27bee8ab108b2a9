package board

var promotionKinds = [4]Kind{Queen, Rook, Bishop, Knight}

// GenerateLegalMoves fills list with every legal move in the position.
// Generation is two-phase: pseudo-legal moves first, then a filter that
// makes each move and rejects it if the mover's king is left in check.
func (p *Position) GenerateLegalMoves(list *MoveList) {
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo)
	p.filterLegal(&pseudo, list)
}

// GenerateCaptures fills list with the legal captures and promotions,
// the move set the quiescence search explores.
func (p *Position) GenerateCaptures(list *MoveList) {
	var pseudo, tactical MoveList
	p.GeneratePseudoLegal(&pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if m.IsCapture(p) || m.IsPromotion() {
			tactical.Add(m)
		}
	}
	p.filterLegal(&tactical, list)
}

// LegalMoves is a convenience wrapper that allocates its own list.
func (p *Position) LegalMoves() *MoveList {
	list := &MoveList{}
	p.GenerateLegalMoves(list)
	return list
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	return p.LegalMoves().Len() > 0
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck(p.SideToMove) && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck(p.SideToMove) && !p.HasLegalMoves()
}

func (p *Position) filterLegal(pseudo, out *MoveList) {
	out.Clear()
	us := p.SideToMove
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		undo := p.MakeMove(m)
		if !p.InCheck(us) {
			out.Add(m)
		}
		p.UnmakeMove(m, undo)
	}
}

// GeneratePseudoLegal fills list with every pseudo-legal move: moves that
// obey piece movement rules but may leave the own king in check. Castling
// is the exception; its attack conditions are checked here because they
// concern squares the king passes through, not only the destination.
func (p *Position) GeneratePseudoLegal(list *MoveList) {
	list.Clear()
	us := p.SideToMove

	for sq := A1; sq <= H8; sq++ {
		pc := p.Board[sq]
		if !pc.IsColor(us) {
			continue
		}
		switch pc.Kind() {
		case Pawn:
			p.genPawnMoves(sq, list)
		case Knight:
			p.genOffsetMoves(sq, knightOffsets[:], list)
		case Bishop:
			p.genSlidingMoves(sq, bishopDirs[:], list)
		case Rook:
			p.genSlidingMoves(sq, rookDirs[:], list)
		case Queen:
			p.genSlidingMoves(sq, rookDirs[:], list)
			p.genSlidingMoves(sq, bishopDirs[:], list)
		case King:
			p.genOffsetMoves(sq, kingOffsets[:], list)
			p.genCastles(sq, list)
		}
	}
}

// genSlidingMoves walks each ray until the edge, adding quiet moves on
// empty squares and one capture when an enemy piece blocks the ray.
func (p *Position) genSlidingMoves(from Square, dirs [][2]int, list *MoveList) {
	us := p.SideToMove
	file, rank := from.File(), from.Rank()
	for _, d := range dirs {
		f, r := file+d[0], rank+d[1]
		for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
			to := NewSquare(f, r)
			pc := p.Board[to]
			if pc == Empty {
				list.Add(NewMove(from, to, FlagNormal))
			} else {
				if !pc.IsColor(us) {
					list.Add(NewMove(from, to, FlagNormal))
				}
				break
			}
			f += d[0]
			r += d[1]
		}
	}
}

// genOffsetMoves serves knights and the king: fixed offsets with a
// bounds check, landing on empty or enemy squares.
func (p *Position) genOffsetMoves(from Square, offsets [][2]int, list *MoveList) {
	us := p.SideToMove
	file, rank := from.File(), from.Rank()
	for _, d := range offsets {
		f, r := file+d[0], rank+d[1]
		if f < 0 || f > 7 || r < 0 || r > 7 {
			continue
		}
		to := NewSquare(f, r)
		if !p.Board[to].IsColor(us) {
			list.Add(NewMove(from, to, FlagNormal))
		}
	}
}

func (p *Position) genPawnMoves(from Square, list *MoveList) {
	us := p.SideToMove
	file, rank := from.File(), from.Rank()
	forward := int(us)

	startRank, promoRank := 1, 7
	if us == Black {
		startRank, promoRank = 6, 0
	}

	addPawnMove := func(to Square, flag MoveFlag) {
		if to.Rank() == promoRank {
			for _, k := range promotionKinds {
				list.Add(NewPromotion(from, to, k))
			}
			return
		}
		list.Add(NewMove(from, to, flag))
	}

	// Single push, and the double push from the starting rank.
	one := NewSquare(file, rank+forward)
	if p.Board[one] == Empty {
		addPawnMove(one, FlagNormal)
		if rank == startRank {
			two := NewSquare(file, rank+2*forward)
			if p.Board[two] == Empty {
				list.Add(NewMove(from, two, FlagDoublePush))
			}
		}
	}

	// Diagonal captures, including en passant when the target matches.
	for _, df := range [2]int{-1, 1} {
		f := file + df
		if f < 0 || f > 7 {
			continue
		}
		to := NewSquare(f, rank+forward)
		if p.Board[to].IsColor(us.Other()) {
			addPawnMove(to, FlagNormal)
		} else if to == p.EnPassant {
			list.Add(NewMove(from, to, FlagEnPassant))
		}
	}
}

// genCastles adds castling moves. Requirements: the right is still held,
// the squares between king and rook are empty, and neither the king's
// start square, the square it crosses, nor its destination is attacked.
func (p *Position) genCastles(from Square, list *MoveList) {
	us := p.SideToMove
	them := us.Other()

	home := A1 // rank offset base for the king's back rank
	if us == Black {
		home = A8
	}
	if from != home+4 {
		return
	}

	if p.Rights.CanCastle(us, true) &&
		p.Board[home+5] == Empty && p.Board[home+6] == Empty &&
		!p.IsAttacked(home+4, them) && !p.IsAttacked(home+5, them) && !p.IsAttacked(home+6, them) {
		list.Add(NewMove(from, home+6, FlagCastleKing))
	}

	if p.Rights.CanCastle(us, false) &&
		p.Board[home+3] == Empty && p.Board[home+2] == Empty && p.Board[home+1] == Empty &&
		!p.IsAttacked(home+4, them) && !p.IsAttacked(home+3, them) && !p.IsAttacked(home+2, them) {
		list.Add(NewMove(from, home+2, FlagCastleQueen))
	}
}
