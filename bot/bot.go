// Package bot lets the minimax solver take turns in a game.
package bot

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/game"
	"github.com/domino14/connectfour/minimax"
)

var (
	ErrNotBotTurn = errors.New("it is not the bot's turn")
	ErrGameOver   = errors.New("the game is over")
)

type BotTurnPlayer struct {
	*game.Game

	side    board.Player
	solver  *minimax.Solver
	logFile *os.File
}

// NewBotTurnPlayer puts a solver for side into g, configured from cfg.
func NewBotTurnPlayer(cfg *config.Config, g *game.Game, side board.Player) (*BotTurnPlayer, error) {
	if side != board.PlayerX && side != board.PlayerO {
		return nil, errors.New("bot side must be X or O")
	}
	s := minimax.NewSolver(side)
	if err := s.SetPlies(cfg.GetInt(config.ConfigSearchPlies)); err != nil {
		return nil, err
	}
	s.SetPruning(cfg.GetBool(config.ConfigPruning))
	s.SetThreads(cfg.GetInt(config.ConfigSearchThreads))

	btp := &BotTurnPlayer{Game: g, side: side, solver: s}
	if fn := cfg.GetString(config.ConfigSearchLogFile); fn != "" {
		f, err := os.OpenFile(fn, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		btp.logFile = f
		s.SetLogStream(f)
		log.Info().Str("file", fn).Msg("search-log-enabled")
	}
	log.Debug().Str("side", side.String()).
		Int("plies", s.Plies()).
		Bool("pruning", s.Pruning()).
		Int("threads", s.Threads()).
		Msg("bot-created")
	return btp, nil
}

func (b *BotTurnPlayer) Side() board.Player {
	return b.side
}

func (b *BotTurnPlayer) Solver() *minimax.Solver {
	return b.solver
}

// IsBotTurn is true while the game is going and the bot is on move.
func (b *BotTurnPlayer) IsBotTurn() bool {
	return b.Playing() == game.Playing && b.PlayerOnTurn() == b.side
}

// BestMove searches the current position without playing anything.
func (b *BotTurnPlayer) BestMove(ctx context.Context) (int, error) {
	if b.Playing() == game.GameOver {
		return 0, ErrGameOver
	}
	if b.PlayerOnTurn() != b.side {
		return 0, ErrNotBotTurn
	}
	return b.solver.BestMove(ctx, b.Board())
}

// PlayBestTurn searches and then plays the chosen column.
func (b *BotTurnPlayer) PlayBestTurn(ctx context.Context) (int, error) {
	col, err := b.BestMove(ctx)
	if err != nil {
		return 0, err
	}
	st := b.solver.LastStats()
	log.Debug().Int("column", col).
		Uint64("nodes", st.Nodes).
		Dur("elapsed", st.Elapsed).
		Msg("bot-playing")
	return col, b.PlayMove(col)
}

// Evaluate scores the position for whichever side is on move, with the
// given depth. It does not change the bot's own settings.
func (b *BotTurnPlayer) Evaluate(ctx context.Context, plies int) (int, int, minimax.Stats, error) {
	s := minimax.NewSolver(b.PlayerOnTurn())
	if err := s.SetPlies(plies); err != nil {
		return 0, 0, minimax.Stats{}, err
	}
	s.SetPruning(b.solver.Pruning())
	s.SetThreads(b.solver.Threads())
	score, col, err := s.Search(ctx, b.Board(), b.PlayerOnTurn() == board.PlayerX)
	if err != nil {
		return 0, 0, minimax.Stats{}, err
	}
	return score, col, s.LastStats(), nil
}

// Close releases the search log file, if one was opened.
func (b *BotTurnPlayer) Close() error {
	if b.logFile == nil {
		return nil
	}
	err := b.logFile.Close()
	b.logFile = nil
	b.solver.SetLogStream(nil)
	return err
}
