// Package diagram renders positions as SVG board images for the front
// end's diagram export.
package diagram

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/minnowchess/minnow/internal/board"
)

const (
	squareSize = 64
	margin     = 24
	boardSize  = 8 * squareSize
)

// figures maps a piece code (offset by +6) to its Unicode glyph.
var figures = [13]string{
	"♚", "♛", "♜", "♝", "♞", "♟", "", "♙", "♘", "♗", "♖", "♕", "♔",
}

const (
	lightFill     = "fill:#f0d9b5"
	darkFill      = "fill:#b58863"
	highlightTint = "fill:#f7ec5e;fill-opacity:0.5"
	labelStyle    = "font-size:14px;font-family:sans-serif;fill:#444;text-anchor:middle"
	pieceStyle    = "font-size:52px;text-anchor:middle;fill:#000"
)

// WriteSVG renders the position with White at the bottom. When last is
// not NoMove its origin and destination squares are tinted.
func WriteSVG(w io.Writer, pos *board.Position, last board.Move) {
	canvas := svg.New(w)
	canvas.Start(boardSize+2*margin, boardSize+2*margin)

	canvas.Rect(0, 0, boardSize+2*margin, boardSize+2*margin, "fill:#fff")

	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			x := margin + file*squareSize
			y := margin + (7-rank)*squareSize

			fill := darkFill
			if (file+rank)%2 == 1 {
				fill = lightFill
			}
			canvas.Rect(x, y, squareSize, squareSize, fill)

			if last != board.NoMove && (sq == last.From() || sq == last.To()) {
				canvas.Rect(x, y, squareSize, squareSize, highlightTint)
			}

			if pc := pos.Board[sq]; pc != board.Empty {
				glyph := figures[int(pc)+6]
				canvas.Text(x+squareSize/2, y+squareSize*3/4+4, glyph, pieceStyle)
			}
		}
	}

	for file := 0; file < 8; file++ {
		label := fmt.Sprintf("%c", 'a'+file)
		x := margin + file*squareSize + squareSize/2
		canvas.Text(x, margin+boardSize+18, label, labelStyle)
	}
	for rank := 0; rank < 8; rank++ {
		label := fmt.Sprintf("%d", rank+1)
		y := margin + (7-rank)*squareSize + squareSize/2 + 5
		canvas.Text(margin/2, y, label, labelStyle)
	}

	canvas.End()
}
