// Package minimax picks moves with a depth-limited minimax search.
// X maximizes and O minimizes.
package minimax

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connectfour/board"
)

// thanks Wikipedia:
/**function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if α ≥ β then
                break (* β cut-off *)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            β := min(β, value)
            if α ≥ β then
                break (* α cut-off *)
        return value
**/
// The cut-off lines are only honored when pruning is turned on. By default
// every child of every node is visited, so that the move picked among
// equally scored children is always the first one in board.CenterOutOrder.

const (
	// DefaultPlies is how far below the root the search looks.
	DefaultPlies = 4
	// WinBase bounds every score; a win on ply n is worth about WinBase - n/2.
	WinBase = 22
)

var ErrInvalidPlies = errors.New("plies must be at least 1")

// Stats describes the tree visited by the last search.
type Stats struct {
	Nodes    uint64
	Leaves   uint64
	MaxDepth int
	Elapsed  time.Duration
}

func (s *Stats) merge(o Stats) {
	s.Nodes += o.Nodes
	s.Leaves += o.Leaves
	if o.MaxDepth > s.MaxDepth {
		s.MaxDepth = o.MaxDepth
	}
}

// Solver searches positions for one side.
type Solver struct {
	side      board.Player
	plies     int
	pruning   bool
	threads   int
	logStream io.Writer

	lastStats Stats
}

// NewSolver returns a full-width solver for side with the default depth.
func NewSolver(side board.Player) *Solver {
	return &Solver{side: side, plies: DefaultPlies, threads: 1}
}

// winScore rewards faster wins: X's score shrinks and O's grows as the
// number of plies played goes up.
func winScore(winner board.Player, plies int) int {
	if winner == board.PlayerX {
		return WinBase - (plies+1)/2
	}
	return -WinBase + plies/2
}

// cutoffScore is what a node at the depth limit is worth. It uses the
// maximizing flag in place of a real winner.
func cutoffScore(maximizing bool, plies int) int {
	if maximizing {
		return winScore(board.PlayerX, plies)
	}
	return winScore(board.PlayerO, plies)
}

func (s *Solver) minimax(b board.Board, depth int, maximizing bool,
	α, β int, st *Stats) (int, int) {

	st.Nodes++
	if depth > st.MaxDepth {
		st.MaxDepth = depth
	}
	if w := b.Winner(); w != board.NoPlayer {
		st.Leaves++
		return winScore(w, b.Plies()), 0
	}
	if b.IsFull() {
		st.Leaves++
		return 0, 0
	}
	if depth == s.plies {
		st.Leaves++
		return cutoffScore(maximizing, b.Plies()), 0
	}

	if maximizing {
		best, bestCol := -WinBase, 0
		for _, col := range b.PlayableColumns() {
			v, _ := s.minimax(b.Child(col), depth+1, false, α, β, st)
			if v > best {
				best, bestCol = v, col
			}
			α = max(α, best)
			if s.pruning && α >= β {
				break
			}
		}
		return best, bestCol
	}
	best, bestCol := WinBase, 0
	for _, col := range b.PlayableColumns() {
		v, _ := s.minimax(b.Child(col), depth+1, true, α, β, st)
		if v < best {
			best, bestCol = v, col
		}
		β = min(β, best)
		if s.pruning && β <= α {
			break
		}
	}
	return best, bestCol
}

// Search scores b for the given root flag and returns the score with the
// column that achieves it.
func (s *Solver) Search(ctx context.Context, b board.Board, maximizing bool) (int, int, error) {
	if b.Winner() != board.NoPlayer || b.IsFull() {
		return 0, 0, board.ErrNoLegalMove
	}
	log.Debug().Int("plies", s.plies).
		Bool("pruning", s.pruning).
		Int("threads", s.threads).
		Bool("maximizing", maximizing).
		Str("position", b.MoveString()).
		Msg("minimax-solve-config")

	tstart := time.Now()
	cols := b.PlayableColumns()
	scores := make([]int, len(cols))
	var err error
	if s.threads > 1 {
		err = s.searchChildrenParallel(ctx, b, cols, maximizing, scores)
	} else {
		err = s.searchChildren(ctx, b, cols, maximizing, scores)
	}
	if err != nil {
		return 0, 0, err
	}

	// Ties keep the earlier column, exactly as inside the tree.
	best, bestCol := WinBase, 0
	if maximizing {
		best = -WinBase
	}
	for i, v := range scores {
		if (maximizing && v > best) || (!maximizing && v < best) {
			best, bestCol = v, cols[i]
		}
	}
	s.lastStats.Elapsed = time.Since(tstart)

	log.Debug().
		Int("best-column", bestCol).
		Int("best-score", best).
		Uint64("nodes", s.lastStats.Nodes).
		Uint64("leaves", s.lastStats.Leaves).
		Int("max-depth", s.lastStats.MaxDepth).
		Float64("time-elapsed-sec", s.lastStats.Elapsed.Seconds()).
		Msg("solve-returning")

	if s.logStream != nil {
		s.writeLog(b, maximizing, cols, scores, best, bestCol)
	}
	return best, bestCol, nil
}

// searchChildren walks the root's children in order and threads the window
// exactly as an interior node does. With pruning on, the scores after the
// first one may be bounds rather than exact values; a bound never beats
// best, so the chosen column does not change.
func (s *Solver) searchChildren(ctx context.Context, b board.Board, cols []int,
	maximizing bool, scores []int) error {

	st := Stats{Nodes: 1}
	α, β := -WinBase, WinBase
	best := WinBase
	if maximizing {
		best = -WinBase
	}
	for i, col := range cols {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, _ := s.minimax(b.Child(col), 1, !maximizing, α, β, &st)
		scores[i] = v
		if maximizing {
			best = max(best, v)
			α = max(α, best)
		} else {
			best = min(best, v)
			β = min(β, best)
		}
	}
	s.lastStats = st
	return nil
}

// searchChildrenParallel evaluates each root child in its own goroutine.
// Every child gets the full window, so the scores match a full-width
// search whether or not pruning is on.
func (s *Solver) searchChildrenParallel(ctx context.Context, b board.Board, cols []int,
	maximizing bool, scores []int) error {

	stats := make([]Stats, len(cols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads)
	for i, col := range cols {
		i, col := i, col
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i], _ = s.minimax(b.Child(col), 1, !maximizing, -WinBase, WinBase, &stats[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	st := Stats{Nodes: 1}
	for _, cs := range stats {
		st.merge(cs)
	}
	s.lastStats = st
	return nil
}

// BestMove returns the column the solver's side should play.
func (s *Solver) BestMove(ctx context.Context, b board.Board) (int, error) {
	_, col, err := s.Search(ctx, b, s.side == board.PlayerX)
	return col, err
}

func (s *Solver) Side() board.Player {
	return s.side
}

func (s *Solver) SetSide(p board.Player) {
	s.side = p
}

func (s *Solver) Plies() int {
	return s.plies
}

func (s *Solver) SetPlies(p int) error {
	if p < 1 {
		return ErrInvalidPlies
	}
	s.plies = p
	return nil
}

// SetPruning turns alpha-beta cut-offs on or off; off by default. The root
// score and column are the same either way, but with cut-offs the logged
// scores of later root children may be bounds.
func (s *Solver) SetPruning(on bool) {
	s.pruning = on
}

func (s *Solver) Pruning() bool {
	return s.pruning
}

func (s *Solver) SetThreads(t int) {
	if t < 1 {
		t = 1
	}
	s.threads = t
}

func (s *Solver) Threads() int {
	return s.threads
}

func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

// LastStats describes the most recent successful search.
func (s *Solver) LastStats() Stats {
	return s.lastStats
}
