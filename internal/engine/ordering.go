package engine

import (
	"github.com/minnowchess/minnow/internal/board"
)

// Move ordering priorities. The table move is tried first, then
// captures by MVV-LVA, then killers, then quiets by history score.
const (
	ttMoveScore     = 10000000
	captureBase     = 1000000
	promotionScore  = 950000
	killerScore1    = 900000
	killerScore2    = 800000
)

// mvvLva[victim][attacker]: most valuable victim first, least valuable
// attacker as tie break. Indexed by board.Kind.
var mvvLva [7][7]int

func init() {
	for victim := board.Pawn; victim <= board.Queen; victim++ {
		for attacker := board.Pawn; attacker <= board.King; attacker++ {
			mvvLva[victim][attacker] = int(victim)*100 - int(attacker)
		}
	}
}

// MoveOrderer holds the search's ordering state: killer moves per ply
// and the from-to history of quiet moves that improved alpha.
type MoveOrderer struct {
	killers [MaxPly][2]board.Move
	history [64][64]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets killers and halves the history scores, so the next search
// still benefits from the last one without old scores dominating.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}
}

// ScoreMoves assigns an ordering score to every move in the list.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ply int, ttMove board.Move) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(pos, moves.Get(i), ply, ttMove)
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return ttMoveScore
	}

	if m.IsCapture(pos) {
		victim := board.Pawn // en passant victim
		if !m.IsEnPassant() {
			victim = pos.Board[m.To()].Kind()
		}
		attacker := pos.Board[m.From()].Kind()
		return captureBase + mvvLva[victim][attacker]
	}

	if m.IsPromotion() {
		return promotionScore + pieceValues[m.Promotion()]
	}

	if ply < MaxPly {
		if m == mo.killers[ply][0] {
			return killerScore1
		}
		if m == mo.killers[ply][1] {
			return killerScore2
		}
	}

	return mo.history[m.From()][m.To()]
}

// UpdateKillers records a quiet move that caused a beta cutoff.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly || mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory rewards a quiet move that caused a beta cutoff,
// weighted by depth so cutoffs near the root count for more.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int) {
	mo.history[m.From()][m.To()] += depth * depth
}

// PickMove moves the best-scored remaining move to index i. Selection
// one step at a time beats a full sort because a cutoff usually ends
// the loop after a few moves.
func PickMove(moves *board.MoveList, scores []int, i int) {
	best := i
	for j := i + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != i {
		moves.Swap(i, best)
		scores[i], scores[best] = scores[best], scores[i]
	}
}
