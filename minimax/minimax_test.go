package minimax

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connectfour/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func position(t testing.TB, moves string) board.Board {
	t.Helper()
	b, err := board.FromMoves(moves)
	if err != nil {
		t.Fatalf("setting up %q: %v", moves, err)
	}
	return b
}

func TestEmptyBoardBestMove(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.PlayerO)
	b := board.NewBoard()

	col, err := s.BestMove(context.Background(), b)
	is.NoErr(err)
	is.True(col >= 0 && col < board.NumColumns)
	// Every leaf scores the same, so the first column in center-out order
	// wins the tie.
	is.Equal(col, 3)

	again, err := s.BestMove(context.Background(), b)
	is.NoErr(err)
	is.Equal(again, col)
}

func TestEmptyBoardTreeSize(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.PlayerO)
	score, col, err := s.Search(context.Background(), board.NewBoard(), false)
	is.NoErr(err)
	is.Equal(col, 3)
	// Leaves sit on ply 4 with the minimizing flag: -(22 - 4/2).
	is.Equal(score, -20)

	st := s.LastStats()
	is.Equal(st.Nodes, uint64(1+7+49+343+2401))
	is.Equal(st.Leaves, uint64(2401))
	is.Equal(st.MaxDepth, DefaultPlies)
}

func TestSearchForX(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.PlayerX)
	score, col, err := s.Search(context.Background(), board.NewBoard(), true)
	is.NoErr(err)
	is.Equal(col, 3)
	is.Equal(score, 20)

	bm, err := s.BestMove(context.Background(), board.NewBoard())
	is.NoErr(err)
	is.Equal(bm, 3)
}

func TestTakesImmediateWin(t *testing.T) {
	is := is.New(t)
	// X has three stacked in column 6 and is on move.
	b := position(t, "606061")
	s := NewSolver(board.PlayerX)
	score, col, err := s.Search(context.Background(), b, true)
	is.NoErr(err)
	is.Equal(col, 6)
	// The win lands on ply 7: 22 - ceil(7/2).
	is.Equal(score, 18)
}

func TestBlocksImmediateLoss(t *testing.T) {
	is := is.New(t)
	// Same threat, but O is on move and must block at the back of the
	// column order.
	b := position(t, "60606")
	s := NewSolver(board.PlayerO)
	score, col, err := s.Search(context.Background(), b, false)
	is.NoErr(err)
	is.Equal(col, 6)
	is.Equal(score, -18)

	bm, err := s.BestMove(context.Background(), b)
	is.NoErr(err)
	is.Equal(bm, 6)
}

func TestFasterWinScoresHigher(t *testing.T) {
	is := is.New(t)
	is.True(winScore(board.PlayerX, 7) > winScore(board.PlayerX, 9))
	is.True(winScore(board.PlayerO, 8) < winScore(board.PlayerO, 10))
	is.Equal(winScore(board.PlayerX, 7), 18)
	is.Equal(winScore(board.PlayerO, 8), -18)

	s := NewSolver(board.PlayerX)
	// One move from the column-6 win, X to move.
	oneAway, _, err := s.Search(context.Background(), position(t, "606061"), true)
	is.NoErr(err)
	// Two moves from the same win, X to move.
	twoAway, _, err := s.Search(context.Background(), position(t, "606011"), true)
	is.NoErr(err)
	is.True(oneAway > twoAway)

	// Decided positions score the win directly.
	var st Stats
	fast, _ := s.minimax(position(t, "0011223"), 0, false, -WinBase, WinBase, &st)
	slow, _ := s.minimax(position(t, "001155223"), 0, false, -WinBase, WinBase, &st)
	is.Equal(fast, 18)
	is.Equal(slow, 17)
	is.Equal(st.Nodes, uint64(2))
}

func TestDrawScoresZero(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.PlayerO)
	var st Stats
	full := position(t, strings.Repeat("0213465", board.NumRows))
	v, _ := s.minimax(full, 0, true, -WinBase, WinBase, &st)
	is.Equal(v, 0)
	is.Equal(st.Leaves, uint64(1))
}

func TestDepthCutoff(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.PlayerO)
	b := position(t, "33")

	var st Stats
	v, _ := s.minimax(b, DefaultPlies, true, -WinBase, WinBase, &st)
	is.Equal(v, 21) // 22 - ceil(2/2)
	v, _ = s.minimax(b, DefaultPlies, false, -WinBase, WinBase, &st)
	is.Equal(v, -21) // -(22 - floor(2/2))
	is.Equal(st.Nodes, uint64(2))
	is.Equal(st.Leaves, uint64(2))
	is.Equal(st.MaxDepth, DefaultPlies)

	// A mid-game search never goes past the bound.
	_, _, err := s.Search(context.Background(), position(t, "3342"), false)
	is.NoErr(err)
	is.Equal(s.LastStats().MaxDepth, DefaultPlies)
}

func TestSetPlies(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.PlayerO)
	is.True(errors.Is(s.SetPlies(0), ErrInvalidPlies))
	is.Equal(s.Plies(), DefaultPlies)

	is.NoErr(s.SetPlies(2))
	_, _, err := s.Search(context.Background(), board.NewBoard(), false)
	is.NoErr(err)
	is.Equal(s.LastStats().Nodes, uint64(1+7+49))
	is.Equal(s.LastStats().MaxDepth, 2)
}

func TestNoLegalMove(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.PlayerO)
	_, err := s.BestMove(context.Background(), position(t, "0011223"))
	is.True(errors.Is(err, board.ErrNoLegalMove))

	full := position(t, strings.Repeat("0213465", board.NumRows))
	_, err = s.BestMove(context.Background(), full)
	is.True(errors.Is(err, board.ErrNoLegalMove))
}

func TestPruningKeepsRootResult(t *testing.T) {
	is := is.New(t)
	positions := []string{"", "3", "33", "606061", "60606", "3342", "223344", "0213465021"}
	for _, p := range positions {
		b := position(t, p)
		for _, maximizing := range []bool{true, false} {
			full := NewSolver(board.PlayerO)
			fv, fc, err := full.Search(context.Background(), b, maximizing)
			is.NoErr(err)

			pruned := NewSolver(board.PlayerO)
			pruned.SetPruning(true)
			pv, pc, err := pruned.Search(context.Background(), b, maximizing)
			is.NoErr(err)

			is.Equal(pv, fv) // same score
			is.Equal(pc, fc) // same column
			is.True(pruned.LastStats().Nodes <= full.LastStats().Nodes)
		}
	}

	full := NewSolver(board.PlayerO)
	_, _, err := full.Search(context.Background(), board.NewBoard(), false)
	is.NoErr(err)
	pruned := NewSolver(board.PlayerO)
	pruned.SetPruning(true)
	_, _, err = pruned.Search(context.Background(), board.NewBoard(), false)
	is.NoErr(err)
	is.True(pruned.LastStats().Nodes < full.LastStats().Nodes)
}

func TestParallelMatchesSequential(t *testing.T) {
	is := is.New(t)
	for _, p := range []string{"", "33", "60606", "223344"} {
		b := position(t, p)
		seq := NewSolver(board.PlayerO)
		sv, sc, err := seq.Search(context.Background(), b, false)
		is.NoErr(err)

		par := NewSolver(board.PlayerO)
		par.SetThreads(4)
		pv, pc, err := par.Search(context.Background(), b, false)
		is.NoErr(err)

		is.Equal(pv, sv)
		is.Equal(pc, sc)
		is.Equal(par.LastStats().Nodes, seq.LastStats().Nodes)
		is.Equal(par.LastStats().Leaves, seq.LastStats().Leaves)
		is.Equal(par.LastStats().MaxDepth, seq.LastStats().MaxDepth)
	}
}

func TestCanceledContext(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSolver(board.PlayerO)
	_, err := s.BestMove(ctx, board.NewBoard())
	is.True(errors.Is(err, context.Canceled))

	s.SetThreads(2)
	_, err = s.BestMove(ctx, board.NewBoard())
	is.True(errors.Is(err, context.Canceled))
}

func TestSearchLog(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	s := NewSolver(board.PlayerO)
	s.SetLogStream(&buf)

	_, err := s.BestMove(context.Background(), position(t, "60606"))
	is.NoErr(err)
	_, err = s.BestMove(context.Background(), board.NewBoard())
	is.NoErr(err)

	var logs []SearchLog
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &logs))
	is.Equal(len(logs), 2)
	is.Equal(logs[0].Position, "60606")
	is.Equal(logs[0].BestColumn, 6)
	is.Equal(logs[0].BestScore, -18)
	is.Equal(len(logs[0].Children), board.NumColumns)
	is.Equal(logs[0].Children[0], ChildLog{Column: 3, Score: 18})
	is.Equal(logs[1].Position, "")
	is.Equal(logs[1].Nodes, uint64(2801))
}

func BenchmarkBestMoveEmptyBoard(b *testing.B) {
	s := NewSolver(board.PlayerO)
	bd := board.NewBoard()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.BestMove(ctx, bd)
	}
}

func BenchmarkBestMoveEmptyBoardPruned(b *testing.B) {
	s := NewSolver(board.PlayerO)
	s.SetPruning(true)
	bd := board.NewBoard()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.BestMove(ctx, bd)
	}
}
