package board

// Direction offsets in (file, rank) space. Stepping in file/rank
// coordinates rather than raw square indices makes the board edge a
// plain bounds check, with no wraparound cases.
var (
	rookDirs   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	knightOffsets = [8][2]int{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	kingOffsets = [8][2]int{
		{1, 0}, {1, 1}, {0, 1}, {-1, 1},
		{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	}
)

// IsAttacked reports whether the given square is attacked by any piece of
// the given color. It looks outward from the square: sliding rays for
// rooks, bishops and queens, the knight and king offsets, and the two
// pawn capture diagonals.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	file, rank := sq.File(), sq.Rank()

	// Orthogonal rays: rook or queen.
	for _, d := range rookDirs {
		f, r := file+d[0], rank+d[1]
		for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
			pc := p.Board[NewSquare(f, r)]
			if pc != Empty {
				if pc.IsColor(by) && (pc.Kind() == Rook || pc.Kind() == Queen) {
					return true
				}
				break
			}
			f += d[0]
			r += d[1]
		}
	}

	// Diagonal rays: bishop or queen.
	for _, d := range bishopDirs {
		f, r := file+d[0], rank+d[1]
		for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
			pc := p.Board[NewSquare(f, r)]
			if pc != Empty {
				if pc.IsColor(by) && (pc.Kind() == Bishop || pc.Kind() == Queen) {
					return true
				}
				break
			}
			f += d[0]
			r += d[1]
		}
	}

	knight := NewPiece(Knight, by)
	for _, d := range knightOffsets {
		f, r := file+d[0], rank+d[1]
		if f >= 0 && f <= 7 && r >= 0 && r <= 7 && p.Board[NewSquare(f, r)] == knight {
			return true
		}
	}

	king := NewPiece(King, by)
	for _, d := range kingOffsets {
		f, r := file+d[0], rank+d[1]
		if f >= 0 && f <= 7 && r >= 0 && r <= 7 && p.Board[NewSquare(f, r)] == king {
			return true
		}
	}

	// A pawn of color `by` attacks sq from one rank toward its own side.
	pawn := NewPiece(Pawn, by)
	pr := rank - int(by)
	if pr >= 0 && pr <= 7 {
		if file > 0 && p.Board[NewSquare(file-1, pr)] == pawn {
			return true
		}
		if file < 7 && p.Board[NewSquare(file+1, pr)] == pawn {
			return true
		}
	}

	return false
}
