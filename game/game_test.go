package game

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/connectfour/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame([]PlayerInfo{
		{Nickname: "arcadio"},
		{Nickname: "úrsula", IsBot: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func playAll(t *testing.T, g *Game, moves string) {
	t.Helper()
	for _, ch := range moves {
		if err := g.PlayMove(int(ch - '0')); err != nil {
			t.Fatalf("playing %c: %v", ch, err)
		}
	}
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	is.Equal(g.Playing(), Playing)
	is.Equal(g.PlayerOnTurn(), board.PlayerX)
	is.Equal(g.NickOnTurn(), "arcadio")
	is.Equal(g.Turn(), 0)
	is.Equal(g.ResultText(), "")
	is.True(g.PlayerInfo(board.PlayerO).IsBot)

	_, err := NewGame([]PlayerInfo{{Nickname: "solo"}})
	is.True(errors.Is(err, ErrNeedTwoPlayers))
}

func TestPlayToWin(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	playAll(t, g, "001122")
	is.Equal(g.NickOnTurn(), "arcadio")
	is.NoErr(g.PlayMove(3))
	is.Equal(g.Playing(), GameOver)
	is.Equal(g.Winner(), board.PlayerX)
	is.Equal(g.ResultText(), "X wins")

	err := g.PlayMove(4)
	is.True(errors.Is(err, board.ErrNoLegalMove))
	is.Equal(g.Turn(), 7)
}

func TestIllegalMoveKeepsState(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	playAll(t, g, "000000")
	err := g.PlayMove(0)
	is.True(errors.Is(err, board.ErrColumnFull))
	is.Equal(g.Turn(), 6)
	is.Equal(g.PlayerOnTurn(), board.PlayerX)

	err = g.PlayMove(9)
	is.True(errors.Is(err, board.ErrColumnOutOfRange))
}

func TestDraw(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	playAll(t, g, strings.Repeat("0213465", board.NumRows))
	is.Equal(g.Playing(), GameOver)
	is.Equal(g.Winner(), board.NoPlayer)
	is.Equal(g.ResultText(), "Draw")
}

func TestTakeback(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	playAll(t, g, "0011223")
	is.Equal(g.Playing(), GameOver)

	is.NoErr(g.Takeback(1))
	is.Equal(g.Playing(), Playing)
	is.Equal(g.Board().MoveString(), "001122")
	is.Equal(g.PlayerOnTurn(), board.PlayerX)

	is.NoErr(g.Takeback(2))
	is.Equal(g.Board().MoveString(), "0011")

	is.True(errors.Is(g.Takeback(5), board.ErrNothingToUndo))
	is.Equal(g.Board().MoveString(), "0011")
	is.True(g.Takeback(0) != nil)

	is.NoErr(g.Takeback(4))
	is.Equal(g.Turn(), 0)
}

func TestSetPosition(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	b, err := board.FromMoves("60606")
	is.NoErr(err)
	g.SetPosition(b)
	is.Equal(g.PlayerOnTurn(), board.PlayerO)
	is.Equal(g.players[board.PlayerX].moves, 3)
	is.Equal(g.players[board.PlayerO].moves, 2)

	won, err := board.FromMoves("0101010")
	is.NoErr(err)
	g.SetPosition(won)
	is.Equal(g.Playing(), GameOver)
	is.Equal(g.ResultText(), "X wins")
}

func TestDisplay(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	playAll(t, g, "33")
	txt := g.ToDisplayText()
	lines := strings.Split(txt, "\n")
	is.True(strings.Contains(lines[1], "-> X"))
	is.True(strings.Contains(lines[1], "arcadio"))
	is.True(strings.Contains(lines[2], "(bot)"))
	is.True(strings.Contains(lines[4], "Turn 2:"))
	is.True(strings.Contains(lines[5], "Moves: 33"))
	is.True(!strings.Contains(txt, "Game is over"))

	playAll(t, g, "43526")
	txt = g.ToDisplayText()
	is.True(strings.Contains(txt, "Game is over. X wins."))
	is.True(!strings.Contains(txt, "->"))
}

func TestSplitSubN(t *testing.T) {
	is := is.New(t)
	is.Equal(splitSubN("abcdefg", 3), []string{"abc", "def", "g"})
	is.Equal(splitSubN("abcdef", 3), []string{"abc", "def"})
}
