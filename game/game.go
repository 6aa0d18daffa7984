// Package game wraps a board.Board with the bookkeeping of a game between
// two players: whose turn it is, when the game ends, and who won.
// A Game doesn't care how it is played. Bots and human players drive it from
// outside this package.
package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/board"
)

type PlayState int

const (
	Playing PlayState = iota
	GameOver
)

func (p PlayState) String() string {
	if p == GameOver {
		return "game over"
	}
	return "playing"
}

var ErrNeedTwoPlayers = errors.New("a game needs exactly two players")

type Game struct {
	board   board.Board
	players [2]*playerState
	playing PlayState
}

// NewGame starts an empty board. The first player in the list plays X.
func NewGame(players []PlayerInfo) (*Game, error) {
	if len(players) != 2 {
		return nil, ErrNeedTwoPlayers
	}
	g := &Game{board: board.NewBoard()}
	for i, p := range players {
		g.players[i] = &playerState{PlayerInfo: p}
	}
	return g, nil
}

func (g *Game) updatePlayState() {
	if g.board.Winner() != board.NoPlayer || g.board.IsFull() {
		g.playing = GameOver
		return
	}
	g.playing = Playing
}

// PlayMove drops a stone for the player on turn.
func (g *Game) PlayMove(col int) error {
	if g.playing == GameOver {
		return board.ErrNoLegalMove
	}
	onturn := g.PlayerOnTurn()
	nb, err := g.board.PlayMove(col)
	if err != nil {
		return err
	}
	g.board = nb
	g.players[onturn].moves++
	g.updatePlayState()
	log.Debug().Str("player", g.players[onturn].Nickname).
		Int("column", col).
		Int("turn", g.Turn()).
		Str("state", g.playing.String()).
		Msg("played-move")
	return nil
}

// Takeback undoes the last n moves. Nothing changes if fewer than n moves
// have been played.
func (g *Game) Takeback(n int) error {
	if n < 1 {
		return fmt.Errorf("cannot take back %d moves", n)
	}
	if n > g.board.Plies() {
		return board.ErrNothingToUndo
	}
	for i := 0; i < n; i++ {
		if err := g.board.Undo(); err != nil {
			return err
		}
		g.players[g.board.ToMove()].moves--
	}
	g.updatePlayState()
	return nil
}

// SetPosition replaces the board, for instance with one built from a move
// string.
func (g *Game) SetPosition(b board.Board) {
	g.board = b
	g.players[board.PlayerX].moves = (b.Plies() + 1) / 2
	g.players[board.PlayerO].moves = b.Plies() / 2
	g.updatePlayState()
}

func (g *Game) Board() board.Board {
	return g.board
}

// PlayerOnTurn is the side to move. It is meaningless once the game is over.
func (g *Game) PlayerOnTurn() board.Player {
	return g.board.ToMove()
}

func (g *Game) NickOnTurn() string {
	return g.players[g.PlayerOnTurn()].Nickname
}

func (g *Game) PlayerInfo(p board.Player) PlayerInfo {
	return g.players[p].PlayerInfo
}

func (g *Game) Playing() PlayState {
	return g.playing
}

func (g *Game) Winner() board.Player {
	return g.board.Winner()
}

// Turn is the number of moves played so far.
func (g *Game) Turn() int {
	return g.board.Plies()
}

// ResultText describes a finished game, or returns an empty string while it
// is still going.
func (g *Game) ResultText() string {
	if g.playing != GameOver {
		return ""
	}
	w := g.board.Winner()
	if w == board.NoPlayer {
		return "Draw"
	}
	return fmt.Sprintf("%s wins", w)
}
