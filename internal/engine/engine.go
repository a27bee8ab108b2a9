package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/minnowchess/minnow/internal/board"
)

// Config carries the engine-level knobs.
type Config struct {
	// TTSizeMB is the transposition table byte budget in megabytes.
	TTSizeMB int

	// EndgameMaterial is the non-pawn material threshold, in
	// centipawns per side, at or below which the table's endgame depth
	// rule applies. Both sides must be at or under it.
	EndgameMaterial int
}

// DefaultConfig returns the standard settings: a 64 MB table and an
// endgame threshold of roughly rook plus minor piece.
func DefaultConfig() Config {
	return Config{
		TTSizeMB:        64,
		EndgameMaterial: 1300,
	}
}

// SearchRequest asks the engine for the best move in a position. The
// position is self-contained, including its repetition history.
type SearchRequest struct {
	Position *board.Position
	MaxDepth int // 1..MaxPly-1
	TimeMS   int // 0 means depth-only
}

// StopReason says why a search ended.
type StopReason uint8

const (
	ReasonDepth StopReason = iota
	ReasonTime
	ReasonCancelled
	ReasonInternal
)

func (r StopReason) String() string {
	switch r {
	case ReasonDepth:
		return "depth"
	case ReasonTime:
		return "time"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "internal"
	}
}

// Message is a progress or completion message from the engine. The two
// implementations are SearchUpdate and SearchDone.
type Message interface {
	searchMessage()
}

// SearchUpdate reports one completed iteration. Updates arrive in
// strictly increasing depth order; an aborted iteration sends nothing.
type SearchUpdate struct {
	Depth    int
	ScoreCP  int
	BestMove board.Move
	PV       []board.Move
}

// SearchDone is the final message of a search.
type SearchDone struct {
	BestMove board.Move
	ScoreCP  int
	Reason   StopReason
}

func (SearchUpdate) searchMessage() {}
func (SearchDone) searchMessage()   {}

// updateChanCap bounds the update channel. A single search emits at
// most MaxPly updates plus one done message, and a new search only
// starts after the previous done message was queued, so this capacity
// means sends never block.
const updateChanCap = 2 * MaxPly

// Engine runs searches on its own worker goroutine. It owns the
// position copy, the transposition table, and the search stack; the
// only way in is the request channel and the only way out is the
// update channel. An Engine is a value: several instances coexist
// without sharing any state.
type Engine struct {
	cfg      Config
	tt       *Table
	searcher *Searcher

	requests chan SearchRequest
	updates  chan Message
	stopFlag atomic.Bool
	closed   atomic.Bool
}

// New creates an engine and starts its worker.
func New(cfg Config) *Engine {
	e := &Engine{
		cfg:      cfg,
		tt:       NewTable(cfg.TTSizeMB),
		requests: make(chan SearchRequest, 4),
		updates:  make(chan Message, updateChanCap),
	}
	e.searcher = NewSearcher(e.tt, cfg, &e.stopFlag)
	go e.run()
	return e
}

// Updates returns the channel progress and completion messages arrive
// on. It is closed when the engine shuts down.
func (e *Engine) Updates() <-chan Message {
	return e.updates
}

// Search submits a request. The position is validated here, before it
// can enter the search; a search already in flight is cancelled first.
func (e *Engine) Search(req SearchRequest) error {
	if e.closed.Load() {
		return fmt.Errorf("engine is closed")
	}
	if req.Position == nil {
		return fmt.Errorf("%w: no position", board.ErrInvalidPosition)
	}
	if err := req.Position.Validate(); err != nil {
		return err
	}
	if req.MaxDepth < 1 {
		req.MaxDepth = 1
	}
	if req.MaxDepth > MaxPly-1 {
		req.MaxDepth = MaxPly - 1
	}

	req.Position = req.Position.Copy()
	e.stopFlag.Store(true)
	e.requests <- req
	return nil
}

// Cancel aborts the search in flight, if any. The search answers with
// a SearchDone carrying ReasonCancelled.
func (e *Engine) Cancel() {
	e.stopFlag.Store(true)
}

// Close cancels any running search and stops the worker. The update
// channel is closed once the worker has drained.
func (e *Engine) Close() {
	if e.closed.CompareAndSwap(false, true) {
		e.stopFlag.Store(true)
		close(e.requests)
	}
}

// ClearTables wipes the transposition table, for a fresh game.
func (e *Engine) ClearTables() {
	e.tt.Clear()
}

// run is the worker loop. A panic inside the search machinery means an
// internal invariant broke; the worker reports it and terminates
// rather than continuing on a corrupt position.
func (e *Engine) run() {
	defer close(e.updates)
	defer func() {
		if r := recover(); r != nil {
			e.updates <- SearchDone{Reason: ReasonInternal}
		}
	}()

	for req := range e.requests {
		// Only the newest queued request is searched; anything older was
		// cancelled by the sender and is answered with a cancelled
		// SearchDone carrying its first legal move.
		for {
			select {
			case next, ok := <-e.requests:
				if !ok {
					return
				}
				var moves board.MoveList
				req.Position.GenerateLegalMoves(&moves)
				done := SearchDone{Reason: ReasonCancelled}
				if moves.Len() > 0 {
					done.BestMove = moves.Get(0)
				}
				e.updates <- done
				req = next
				continue
			default:
			}
			break
		}

		e.stopFlag.Store(false)
		e.runSearch(req)
	}
}

func (e *Engine) runSearch(req SearchRequest) {
	s := e.searcher
	s.InitSearch(req.Position)

	if req.TimeMS > 0 {
		s.SetDeadline(time.Now().Add(time.Duration(req.TimeMS) * time.Millisecond))
	} else {
		s.SetDeadline(time.Time{})
	}

	// A position that is already drawn searches to nothing; answer
	// with any legal move and the draw score.
	if req.Position.HalfMoveClock >= 100 ||
		IsInsufficientMaterial(req.Position) ||
		req.Position.RepetitionCount() >= 3 {
		var moves board.MoveList
		req.Position.GenerateLegalMoves(&moves)
		var best board.Move
		if moves.Len() > 0 {
			best = moves.Get(0)
		}
		e.updates <- SearchDone{BestMove: best, ScoreCP: 0, Reason: ReasonDepth}
		return
	}

	var (
		bestMove  board.Move
		bestScore int
		reason    = ReasonDepth
	)

	for depth := 1; depth <= req.MaxDepth; depth++ {
		move, score := s.SearchDepth(depth)

		if s.Stopped() {
			if e.stopFlag.Load() {
				reason = ReasonCancelled
			} else {
				reason = ReasonTime
			}
			break
		}

		bestMove = move
		bestScore = score
		e.updates <- SearchUpdate{
			Depth:    depth,
			ScoreCP:  score,
			BestMove: move,
			PV:       s.PV(),
		}

		// A mate score cannot improve with more depth; iterative
		// deepening has already found the shortest one.
		if score > MateScore-MaxPly || score < -MateScore+MaxPly {
			break
		}

		if !s.deadline.IsZero() && time.Now().After(s.deadline) {
			reason = ReasonTime
			break
		}
	}

	if bestMove == board.NoMove {
		// Stopped before depth 1 completed: fall back to the first
		// legal move rather than answering with nothing.
		var moves board.MoveList
		req.Position.GenerateLegalMoves(&moves)
		if moves.Len() > 0 {
			bestMove = moves.Get(0)
		}
	}

	e.updates <- SearchDone{BestMove: bestMove, ScoreCP: bestScore, Reason: reason}
}
