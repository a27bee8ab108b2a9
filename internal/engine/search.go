package engine

import (
	"sync/atomic"
	"time"

	"github.com/minnowchess/minnow/internal/board"
)

// Search constants. Mate in n plies scores MateScore-n, so shorter mates
// always order above longer ones.
const (
	Infinity  = 31000
	MateScore = 30000
	MaxPly    = 128
)

// nodeCheckMask amortizes the clock and cancel checks: they run once
// every 4096 nodes.
const nodeCheckMask = 4095

// PVTable stores the principal variation, triangular by ply.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs the iterative-deepening alpha-beta search. It owns
// its position copy, move buffers, and ordering state; the table is
// shared with the engine that created it.
type Searcher struct {
	pos     *board.Position
	tt      *Table
	orderer *MoveOrderer
	cfg     Config

	nodes uint64
	pv    PVTable

	// One move list per ply, so the hot loop never allocates.
	moveBuf [MaxPly]board.MoveList

	// Hashes of every position on the current line plus the game
	// history before the root, for repetition detection in-tree.
	posHistory []uint64

	stopFlag *atomic.Bool
	deadline time.Time
	stopped  bool
}

// NewSearcher creates a searcher using the given table and config.
func NewSearcher(tt *Table, cfg Config, stopFlag *atomic.Bool) *Searcher {
	return &Searcher{
		tt:       tt,
		orderer:  NewMoveOrderer(),
		cfg:      cfg,
		stopFlag: stopFlag,
	}
}

// InitSearch points the searcher at a position. The position's own
// history seeds repetition detection, so lines that return to a
// pre-root position are scored as draws.
func (s *Searcher) InitSearch(pos *board.Position) {
	s.pos = pos.Copy()
	s.nodes = 0
	s.stopped = false
	s.orderer.Clear()

	hist := pos.History()
	s.posHistory = make([]uint64, 0, len(hist)+MaxPly)
	s.posHistory = append(s.posHistory, hist...)
}

// SetDeadline sets the wall-clock limit. The zero time means none.
func (s *Searcher) SetDeadline(d time.Time) {
	s.deadline = d
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Stopped reports whether the current search was aborted, by the stop
// flag or the deadline.
func (s *Searcher) Stopped() bool {
	return s.stopped
}

// PV returns the principal variation of the last completed depth.
func (s *Searcher) PV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// SearchDepth runs a full-window search to the given depth and returns
// the best move and its score. The results are meaningless when
// Stopped() reports true afterwards.
func (s *Searcher) SearchDepth(depth int) (board.Move, int) {
	score := s.negamax(depth, 0, -Infinity, Infinity)

	var best board.Move
	if s.pv.length[0] > 0 {
		best = s.pv.moves[0][0]
	}
	if best == board.NoMove && !s.stopped {
		moves := &s.moveBuf[0]
		s.pos.GenerateLegalMoves(moves)
		if moves.Len() > 0 {
			best = moves.Get(0)
		}
	}
	return best, score
}

// checkAbort runs the amortized cancellation and deadline check.
func (s *Searcher) checkAbort() bool {
	if s.stopped {
		return true
	}
	if s.nodes&nodeCheckMask == 0 {
		if s.stopFlag.Load() || (!s.deadline.IsZero() && time.Now().After(s.deadline)) {
			s.stopped = true
		}
	}
	return s.stopped
}

// isDraw reports fifty-move, insufficient material, and repetition
// draws on the current line. A single recurrence counts inside the
// tree: if the opponent can force the position to repeat at all, it can
// force it to repeat twice.
func (s *Searcher) isDraw() bool {
	if s.pos.HalfMoveClock >= 100 {
		return true
	}
	if IsInsufficientMaterial(s.pos) {
		return true
	}

	count := 0
	for _, h := range s.posHistory {
		if h == s.pos.Hash {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// isEndgame classifies the position for the table's endgame depth rule.
func (s *Searcher) isEndgame() bool {
	return NonPawnMaterial(s.pos, board.White) <= s.cfg.EndgameMaterial &&
		NonPawnMaterial(s.pos, board.Black) <= s.cfg.EndgameMaterial
}

// negamax searches the position to the given depth with window
// [alpha, beta] and returns its score from the side to move's view.
func (s *Searcher) negamax(depth, ply, alpha, beta int) int {
	s.pv.length[ply] = ply

	if ply >= MaxPly-1 {
		return Evaluate(s.pos)
	}

	s.nodes++
	if s.checkAbort() {
		return 0
	}

	if ply > 0 && s.isDraw() {
		return 0
	}

	alphaOrig, betaOrig := alpha, beta
	endgame := s.isEndgame()

	var ttMove board.Move
	if entry, ok := s.tt.Probe(s.pos.Hash); ok {
		ttMove = entry.BestMove
		if ply > 0 {
			if score, usable := entry.Usable(depth, ply, alpha, beta, endgame); usable {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	moves := &s.moveBuf[ply]
	s.pos.GenerateLegalMoves(moves)

	if moves.Len() == 0 {
		if s.pos.InCheck(s.pos.SideToMove) {
			// Mated here: the deeper in the tree, the less bad.
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	bestMove := board.NoMove
	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		undo := s.pos.MakeMove(m)
		s.posHistory = append(s.posHistory, s.pos.Hash)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.posHistory = s.posHistory[:len(s.posHistory)-1]
		s.pos.UnmakeMove(m, undo)

		if s.stopped {
			return 0
		}

		if score >= beta {
			s.tt.Store(s.pos.Hash, depth, ScoreToTT(score, ply), alphaOrig, betaOrig, BoundLower, m)
			if !m.IsCapture(s.pos) && !m.IsPromotion() {
				s.orderer.UpdateKillers(m, ply)
				s.orderer.UpdateHistory(m, depth)
			}
			return score
		}

		if score > alpha {
			alpha = score
			bestMove = m

			s.pv.moves[ply][ply] = m
			for j := ply + 1; j < s.pv.length[ply+1]; j++ {
				s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
			}
			s.pv.length[ply] = s.pv.length[ply+1]
		}
	}

	bound := BoundUpper
	if alpha > alphaOrig {
		bound = BoundExact
	}
	if bestMove == board.NoMove {
		bestMove = moves.Get(0)
	}
	s.tt.Store(s.pos.Hash, depth, ScoreToTT(alpha, ply), alphaOrig, betaOrig, bound, bestMove)

	return alpha
}

// quiescence resolves captures and promotions until the position goes
// quiet, so the static evaluation is never taken in the middle of an
// exchange.
func (s *Searcher) quiescence(ply, alpha, beta int) int {
	if ply >= MaxPly-1 {
		return Evaluate(s.pos)
	}

	s.nodes++
	if s.checkAbort() {
		return 0
	}

	standPat := Evaluate(s.pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := &s.moveBuf[ply]
	s.pos.GenerateCaptures(moves)
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		undo := s.pos.MakeMove(m)
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.UnmakeMove(m, undo)

		if s.stopped {
			return 0
		}

		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
