package game

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/domino14/connectfour/board"
)

func splitSubN(s string, n int) []string {
	sub := ""
	subs := []string{}

	runes := bytes.Runes([]byte(s))
	l := len(runes)
	for i, r := range runes {
		sub = sub + string(r)
		if (i+1)%n == 0 {
			subs = append(subs, sub)
			sub = ""
		} else if (i + 1) == l {
			subs = append(subs, sub)
		}
	}

	return subs
}

func addText(lines []string, row int, hpad int, text string) {
	maxTextSize := 30
	sp := splitSubN(text, maxTextSize)

	for _, chunk := range sp {
		if row >= len(lines) {
			return
		}
		lines[row] = lines[row] + strings.Repeat(" ", hpad) + chunk
		row++
	}
}

// ToDisplayText draws the board with the players, the turn number and the
// move list alongside it.
func (g *Game) ToDisplayText() string {
	bts := strings.Split(g.board.ToDisplayText(), "\n")
	hpadding := 3
	vpadding := 1

	for _, p := range []board.Player{board.PlayerX, board.PlayerO} {
		addText(bts, vpadding+int(p), hpadding,
			g.players[p].stateString(p, g.playing == Playing && g.PlayerOnTurn() == p))
	}

	addText(bts, 4, hpadding, fmt.Sprintf("Turn %d:", g.Turn()))
	if g.Turn() > 0 {
		addText(bts, 5, hpadding, "Moves: "+g.board.MoveString())
	}

	if g.playing == GameOver {
		addText(bts, 7, hpadding, "Game is over. "+g.ResultText()+".")
	}
	return strings.Join(bts, "\n")
}
