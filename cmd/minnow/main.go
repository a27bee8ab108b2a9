// Command minnow is the text front end for the engine: an interactive
// move/search loop, or a single search when a position is given on the
// command line.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/minnowchess/minnow/internal/board"
	"github.com/minnowchess/minnow/internal/cli"
	"github.com/minnowchess/minnow/internal/engine"
	"github.com/minnowchess/minnow/internal/storage"
)

var (
	fenFlag     = flag.String("fen", "", "search this position once and exit")
	depthFlag   = flag.Int("depth", 0, "maximum search depth")
	timeFlag    = flag.Int("time", 0, "search time budget in milliseconds")
	hashFlag    = flag.Int("hash", 64, "transposition table size in MB")
	endgameFlag = flag.Int("endgame", 1300, "endgame material threshold in centipawns")
	noDBFlag    = flag.Bool("nodb", false, "disable persistent preferences and game records")
)

func main() {
	flag.Parse()

	cfg := engine.Config{
		TTSizeMB:        *hashFlag,
		EndgameMaterial: *endgameFlag,
	}
	eng := engine.New(cfg)
	defer eng.Close()

	var store *storage.Store
	if !*noDBFlag {
		var err error
		store, err = storage.OpenDefault()
		if err != nil {
			log.Printf("warning: persistence disabled: %v", err)
		} else {
			defer store.Close()
		}
	}

	if *fenFlag != "" {
		os.Exit(searchOnce(eng, *fenFlag))
	}

	front := cli.New(eng, store, os.Stdout)
	os.Exit(front.Run(os.Stdin))
}

// searchOnce runs a single search for the -fen flag and prints the
// result in the same depth/score/pv lines the interactive loop uses.
func searchOnce(eng *engine.Engine, fen string) int {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		log.Printf("invalid position: %v", err)
		return cli.ExitInvalidPosition
	}

	depth := *depthFlag
	if depth <= 0 {
		depth = engine.MaxPly - 1
	}
	timeMS := *timeFlag
	if *depthFlag <= 0 && timeMS <= 0 {
		timeMS = 2000
	}

	err = eng.Search(engine.SearchRequest{Position: pos, MaxDepth: depth, TimeMS: timeMS})
	if err != nil {
		log.Printf("invalid position: %v", err)
		return cli.ExitInvalidPosition
	}

	for msg := range eng.Updates() {
		switch m := msg.(type) {
		case engine.SearchUpdate:
			pv := make([]string, len(m.PV))
			for i, mv := range m.PV {
				pv[i] = mv.String()
			}
			fmt.Printf("depth %d score %d pv %s\n", m.Depth, m.ScoreCP, strings.Join(pv, " "))
		case engine.SearchDone:
			if m.Reason == engine.ReasonInternal {
				log.Print("internal engine error")
				return cli.ExitInternalError
			}
			fmt.Printf("bestmove %s\n", m.BestMove)
			return cli.ExitOK
		}
	}

	log.Print("engine stopped without a result")
	return cli.ExitInternalError
}
