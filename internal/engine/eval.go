// Package engine implements the search half of the chess program: static
// evaluation, the transposition table, the iterative-deepening alpha-beta
// search, and the request/update façade the front end talks to.
package engine

import (
	"github.com/minnowchess/minnow/internal/board"
)

// Material values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
)

// pieceValues is indexed by board.Kind.
var pieceValues = [7]int{0, PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 0}

const (
	bishopPairBonus = 30
	mobilityWeight  = 2
)

// Piece-Square Tables for positional evaluation.
// Values are from White's perspective with rank 8 first; Black mirrors.

var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// The king has distinct middlegame and endgame tables; the two are
// blended by the remaining non-pawn material.
var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// psts is indexed by board.Kind; the king slot holds the middlegame table.
var psts = [7]*[64]int{nil, &pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingMidgamePST}

// pstSquare maps a square to its PST index for the given color. The
// tables are written rank 8 first, so White flips vertically.
func pstSquare(sq board.Square, c board.Color) int {
	if c == board.White {
		return int(sq.Mirror())
	}
	return int(sq)
}

// phase weights per kind for the king table blend.
var phaseWeight = [7]int{0, 0, 1, 1, 2, 4, 0}

const maxPhase = 24

// Evaluate returns a centipawn score for the position from the side to
// move's perspective. It never returns a mate score; mate is the
// search's business.
func Evaluate(pos *board.Position) int {
	var mgScore, egScore, phase int
	var bishops [2]int

	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.Board[sq]
		if pc == board.Empty {
			continue
		}

		c := pc.Color()
		k := pc.Kind()
		sign := int(c)
		psq := pstSquare(sq, c)

		mgScore += sign * pieceValues[k]
		egScore += sign * pieceValues[k]
		phase += phaseWeight[k]

		if k == board.King {
			mgScore += sign * kingMidgamePST[psq]
			egScore += sign * kingEndgamePST[psq]
		} else {
			pst := psts[k][psq]
			mgScore += sign * pst
			egScore += sign * pst
		}

		if k == board.Bishop {
			bishops[c.Index()]++
		}
	}

	if bishops[0] >= 2 {
		mgScore += bishopPairBonus
		egScore += bishopPairBonus
	}
	if bishops[1] >= 2 {
		mgScore -= bishopPairBonus
		egScore -= bishopPairBonus
	}

	mob := mobilityWeight * (mobility(pos, board.White) - mobility(pos, board.Black))
	mgScore += mob
	egScore += mob

	if phase > maxPhase {
		phase = maxPhase
	}
	score := (mgScore*phase + egScore*(maxPhase-phase)) / maxPhase

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// mobility counts destination squares for the knights and sliders of one
// color. Scanning rays directly keeps this term cheap; pawn and king
// moves are left out since they say little about piece activity.
func mobility(pos *board.Position, c board.Color) int {
	count := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.Board[sq]
		if !pc.IsColor(c) {
			continue
		}
		switch pc.Kind() {
		case board.Knight:
			count += offsetMobility(pos, sq, c, knightSteps[:])
		case board.Bishop:
			count += rayMobility(pos, sq, c, diagSteps[:])
		case board.Rook:
			count += rayMobility(pos, sq, c, orthoSteps[:])
		case board.Queen:
			count += rayMobility(pos, sq, c, diagSteps[:])
			count += rayMobility(pos, sq, c, orthoSteps[:])
		}
	}
	return count
}

var (
	orthoSteps = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagSteps  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	knightSteps = [8][2]int{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
)

func offsetMobility(pos *board.Position, from board.Square, c board.Color, offsets [][2]int) int {
	count := 0
	file, rank := from.File(), from.Rank()
	for _, d := range offsets {
		f, r := file+d[0], rank+d[1]
		if f < 0 || f > 7 || r < 0 || r > 7 {
			continue
		}
		if !pos.Board[board.NewSquare(f, r)].IsColor(c) {
			count++
		}
	}
	return count
}

func rayMobility(pos *board.Position, from board.Square, c board.Color, dirs [][2]int) int {
	count := 0
	file, rank := from.File(), from.Rank()
	for _, d := range dirs {
		f, r := file+d[0], rank+d[1]
		for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
			pc := pos.Board[board.NewSquare(f, r)]
			if pc == board.Empty {
				count++
			} else {
				if !pc.IsColor(c) {
					count++
				}
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return count
}

// NonPawnMaterial returns the summed value of one side's pieces,
// excluding pawns and the king.
func NonPawnMaterial(pos *board.Position, c board.Color) int {
	total := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.Board[sq]
		if !pc.IsColor(c) {
			continue
		}
		if k := pc.Kind(); k != board.Pawn && k != board.King {
			total += pieceValues[k]
		}
	}
	return total
}

// IsInsufficientMaterial reports whether neither side can possibly
// deliver mate: bare kings, a lone minor piece, or one bishop each on
// squares of the same color.
func IsInsufficientMaterial(pos *board.Position) bool {
	var minors [2]int
	var bishopSq [2]board.Square

	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.Board[sq]
		switch pc.Kind() {
		case board.NoKind, board.King:
			continue
		case board.Knight:
			minors[pc.Color().Index()]++
			bishopSq[pc.Color().Index()] = board.NoSquare
		case board.Bishop:
			minors[pc.Color().Index()]++
			bishopSq[pc.Color().Index()] = sq
		default:
			return false
		}
	}

	total := minors[0] + minors[1]
	if total <= 1 {
		return true
	}
	if total == 2 && minors[0] == 1 && minors[1] == 1 &&
		bishopSq[0] != board.NoSquare && bishopSq[1] != board.NoSquare {
		// Same-colored bishops cannot force anything.
		return (bishopSq[0].File()+bishopSq[0].Rank())%2 == (bishopSq[1].File()+bishopSq[1].Rank())%2
	}
	return false
}
