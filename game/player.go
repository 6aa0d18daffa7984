package game

import (
	"fmt"

	"github.com/domino14/connectfour/board"
)

type PlayerInfo struct {
	Nickname string
	IsBot    bool
}

type playerState struct {
	PlayerInfo

	moves int
}

func (p *playerState) stateString(side board.Player, myturn bool) string {
	onturn := ""
	if myturn {
		onturn = "-> "
	}
	kind := ""
	if p.IsBot {
		kind = "(bot)"
	}
	return fmt.Sprintf("%4v%v %12v %5v %2d moves", onturn, side, p.Nickname, kind, p.moves)
}
