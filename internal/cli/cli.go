// Package cli implements the interactive text front end. It owns the
// game board and the engine handle; the engine itself only ever sees
// search requests and emits updates.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/minnowchess/minnow/internal/board"
	"github.com/minnowchess/minnow/internal/diagram"
	"github.com/minnowchess/minnow/internal/engine"
	"github.com/minnowchess/minnow/internal/storage"
)

// Exit codes.
const (
	ExitOK              = 0
	ExitInvalidPosition = 1
	ExitInternalError   = 2
)

// CLI is the interactive front end state.
type CLI struct {
	eng   *engine.Engine
	store *storage.Store // nil when persistence is disabled
	prefs *storage.Preferences
	out   io.Writer

	pos       *board.Position
	moves     []string
	lastMove  board.Move
	gameStart time.Time
	gameOver  bool
}

// New creates a front end around an engine. store may be nil.
func New(eng *engine.Engine, store *storage.Store, out io.Writer) *CLI {
	prefs := storage.DefaultPreferences()
	if store != nil {
		if loaded, err := store.LoadPreferences(); err == nil {
			prefs = loaded
		}
	}

	return &CLI{
		eng:       eng,
		store:     store,
		prefs:     prefs,
		out:       out,
		pos:       board.NewPosition(),
		gameStart: time.Now(),
	}
}

// Run reads commands until quit or EOF and returns the process exit code.
func (c *CLI) Run(r io.Reader) int {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "new":
			c.handleNew()
		case "fen":
			c.handleFEN(args)
		case "move":
			if code := c.handleMove(args); code != ExitOK {
				return code
			}
		case "go":
			if code := c.handleGo(args); code != ExitOK {
				return code
			}
		case "board", "d":
			fmt.Fprintln(c.out, c.pos)
		case "moves":
			c.handleMoves()
		case "movelist":
			fmt.Fprint(c.out, board.FormatMoveList(c.moves))
		case "diagram":
			c.handleDiagram(args)
		case "perft":
			c.handlePerft(args)
		case "games":
			c.handleGames()
		case "stats":
			c.handleStats()
		case "help":
			c.printHelp()
		case "quit", "exit":
			return ExitOK
		default:
			fmt.Fprintf(c.out, "unknown command %q, try help\n", cmd)
		}
	}

	return ExitOK
}

func (c *CLI) handleNew() {
	c.pos = board.NewPosition()
	c.moves = nil
	c.lastMove = board.NoMove
	c.gameStart = time.Now()
	c.gameOver = false
	c.eng.ClearTables()
	fmt.Fprintln(c.out, "new game")
}

func (c *CLI) handleFEN(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, c.pos.ToFEN())
		return
	}

	pos, err := board.ParseFEN(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}
	if err := pos.Validate(); err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}

	c.pos = pos
	c.moves = nil
	c.lastMove = board.NoMove
	c.gameStart = time.Now()
	c.gameOver = false
}

func (c *CLI) handleMove(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "usage: move <e2e4|e7e8q|O-O>")
		return ExitOK
	}
	if c.gameOver {
		fmt.Fprintln(c.out, "the game is over, start a new one")
		return ExitOK
	}

	m, err := board.ParseMove(args[0], c.pos)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return ExitOK
	}
	if err := c.pos.ApplyMove(m); err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return ExitOK
	}

	c.moves = append(c.moves, m.String())
	c.lastMove = m
	c.afterMove()

	// When the engine plays the side now to move, it answers at once.
	if !c.gameOver && c.engineToMove() {
		return c.handleGo(nil)
	}
	return ExitOK
}

func (c *CLI) engineToMove() bool {
	if c.pos.SideToMove == board.White {
		return c.prefs.EngineWhite
	}
	return c.prefs.EngineBlack
}

// afterMove reports mate, stalemate, and draws, and records finished
// games to storage.
func (c *CLI) afterMove() {
	var result string

	switch {
	case c.pos.IsCheckmate():
		if c.pos.SideToMove == board.White {
			result = "0-1"
		} else {
			result = "1-0"
		}
		fmt.Fprintf(c.out, "checkmate, %s\n", result)
	case c.pos.IsStalemate():
		result = "1/2-1/2"
		fmt.Fprintln(c.out, "stalemate, 1/2-1/2")
	case c.pos.HalfMoveClock >= 100:
		result = "1/2-1/2"
		fmt.Fprintln(c.out, "draw by the fifty-move rule, 1/2-1/2")
	case c.pos.RepetitionCount() >= 3:
		result = "1/2-1/2"
		fmt.Fprintln(c.out, "draw by threefold repetition, 1/2-1/2")
	case engine.IsInsufficientMaterial(c.pos):
		result = "1/2-1/2"
		fmt.Fprintln(c.out, "draw by insufficient material, 1/2-1/2")
	default:
		if c.pos.InCheck(c.pos.SideToMove) {
			fmt.Fprintln(c.out, "check")
		}
		return
	}

	c.gameOver = true
	if c.store != nil {
		rec := &storage.GameRecord{
			Moves:    append([]string(nil), c.moves...),
			Result:   result,
			Duration: time.Since(c.gameStart),
		}
		if err := c.store.SaveGame(rec); err != nil {
			fmt.Fprintf(c.out, "warning: could not record game: %v\n", err)
		}
	}
}

// handleGo runs a search on the current position and plays the answer.
// With no arguments the preferred seconds-per-move budget applies.
func (c *CLI) handleGo(args []string) int {
	if c.gameOver {
		fmt.Fprintln(c.out, "the game is over, start a new one")
		return ExitOK
	}

	depth := engine.MaxPly - 1
	timeMS := int(c.prefs.SecondsPerMove * 1000)

	for i := 0; i+1 < len(args); i += 2 {
		n, err := strconv.Atoi(args[i+1])
		if err != nil {
			fmt.Fprintf(c.out, "error: bad number %q\n", args[i+1])
			return ExitOK
		}
		switch args[i] {
		case "depth":
			depth = n
			timeMS = 0
		case "time":
			timeMS = n
		default:
			fmt.Fprintf(c.out, "usage: go [depth <n>] [time <ms>]\n")
			return ExitOK
		}
	}

	err := c.eng.Search(engine.SearchRequest{
		Position: c.pos,
		MaxDepth: depth,
		TimeMS:   timeMS,
	})
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return ExitOK
	}

	for msg := range c.eng.Updates() {
		switch m := msg.(type) {
		case engine.SearchUpdate:
			fmt.Fprintf(c.out, "depth %d score %s pv %s\n",
				m.Depth, formatScore(m.ScoreCP), formatPV(m.PV))
		case engine.SearchDone:
			if m.Reason == engine.ReasonInternal {
				fmt.Fprintln(c.out, "internal engine error")
				return ExitInternalError
			}
			if m.BestMove == board.NoMove {
				fmt.Fprintln(c.out, "no legal moves")
				return ExitOK
			}
			fmt.Fprintf(c.out, "bestmove %s score %s\n", m.BestMove, formatScore(m.ScoreCP))

			if err := c.pos.ApplyMove(m.BestMove); err != nil {
				fmt.Fprintf(c.out, "internal error: engine move rejected: %v\n", err)
				return ExitInternalError
			}
			c.moves = append(c.moves, m.BestMove.String())
			c.lastMove = m.BestMove
			c.afterMove()
			return ExitOK
		}
	}

	fmt.Fprintln(c.out, "engine stopped")
	return ExitInternalError
}

func (c *CLI) handleMoves() {
	list := c.pos.LegalMoves()
	strs := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		strs = append(strs, list.Get(i).String())
	}
	fmt.Fprintln(c.out, strings.Join(strs, " "))
}

func (c *CLI) handleDiagram(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "usage: diagram <file.svg>")
		return
	}

	f, err := os.Create(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}
	defer f.Close()

	diagram.WriteSVG(f, c.pos, c.lastMove)
	fmt.Fprintf(c.out, "diagram written to %s\n", args[0])
}

func (c *CLI) handlePerft(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "usage: perft <depth>")
		return
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		fmt.Fprintln(c.out, "usage: perft <depth>")
		return
	}

	start := time.Now()
	nodes := perft(c.pos, depth)
	fmt.Fprintf(c.out, "perft(%d) = %d (%.2fs)\n", depth, nodes, time.Since(start).Seconds())
}

func perft(p *board.Position, depth int) int64 {
	var moves board.MoveList
	p.GenerateLegalMoves(&moves)
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

func (c *CLI) handleGames() {
	if c.store == nil {
		fmt.Fprintln(c.out, "persistence is disabled")
		return
	}
	games, err := c.store.ListGames()
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}
	for i, g := range games {
		fmt.Fprintf(c.out, "%3d. %-7s %3d moves  %s\n",
			i+1, g.Result, (len(g.Moves)+1)/2, g.PlayedAt.Format("2006-01-02 15:04"))
	}
	if len(games) == 0 {
		fmt.Fprintln(c.out, "no recorded games")
	}
}

func (c *CLI) handleStats() {
	if c.store == nil {
		fmt.Fprintln(c.out, "persistence is disabled")
		return
	}
	stats, err := c.store.LoadStats()
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "games %d  white wins %d  black wins %d  draws %d\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws)
}

func (c *CLI) printHelp() {
	fmt.Fprint(c.out, `commands:
  new                 start a new game
  fen [fen]           set the position, or print the current FEN
  move <lan>          play a move (e2e4, e7e8q, O-O)
  go [depth n|time ms] let the engine move
  board               print the board
  moves               list the legal moves
  movelist            print the game's moves
  diagram <file.svg>  export the position as an SVG image
  perft <depth>       count move generation nodes
  games               list recorded games
  stats               print recorded results
  quit                leave
`)
}

// formatScore renders centipawns as pawns, or a mate announcement.
func formatScore(cp int) string {
	if cp > engine.MateScore-engine.MaxPly {
		return fmt.Sprintf("mate %d", (engine.MateScore-cp+1)/2)
	}
	if cp < -engine.MateScore+engine.MaxPly {
		return fmt.Sprintf("mate -%d", (engine.MateScore+cp+1)/2)
	}
	return fmt.Sprintf("%+.2f", float64(cp)/100)
}

func formatPV(pv []board.Move) string {
	strs := make([]string, len(pv))
	for i, m := range pv {
		strs[i] = m.String()
	}
	return strings.Join(strs, " ")
}
