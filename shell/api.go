package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

// settable lists the options `set` understands.
var settable = []string{"plies", "pruning", "threads"}

func (sc *ShellController) checkGame() error {
	if sc.game == nil {
		return errNoGame
	}
	return nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	side := sc.config.GetString(config.ConfigHumanSide)
	if len(cmd.args) > 0 {
		side = cmd.args[0]
	}
	human, err := parseSide(side)
	if err != nil {
		return nil, err
	}
	if err := sc.startGame(human); err != nil {
		return nil, err
	}
	header := fmt.Sprintf("New game. You are %s.", human)
	reply, err := sc.botReply(context.Background())
	if err != nil {
		return nil, err
	}
	if reply != "" {
		return msg(sc.gameText(header, reply)), nil
	}
	return msg(sc.gameText(header)), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if err := sc.checkGame(); err != nil {
		return nil, err
	}
	return msg(sc.gameText()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if err := sc.checkGame(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <column>")
	}
	col, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, fmt.Errorf("%q is not a column: %w", cmd.args[0], board.ErrColumnOutOfRange)
	}
	if sc.game.IsBotTurn() {
		return nil, errors.New("it is the bot's turn; use `aiplay`")
	}
	if err := sc.game.PlayMove(col); err != nil {
		return nil, err
	}
	reply, err := sc.botReply(context.Background())
	if err != nil {
		return nil, err
	}
	return msg(sc.gameText(reply)), nil
}

// aiplay has the engine move for whichever side is on turn.
func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	if err := sc.checkGame(); err != nil {
		return nil, err
	}
	ctx := context.Background()
	if sc.game.IsBotTurn() {
		reply, err := sc.botReply(ctx)
		if err != nil {
			return nil, err
		}
		return msg(sc.gameText(reply)), nil
	}
	_, col, _, err := sc.game.Evaluate(ctx, sc.game.Solver().Plies())
	if err != nil {
		return nil, err
	}
	if err := sc.game.PlayMove(col); err != nil {
		return nil, err
	}
	lines := []string{fmt.Sprintf("%s plays column %d for you", botNickname, col)}
	reply, err := sc.botReply(ctx)
	if err != nil {
		return nil, err
	}
	if reply != "" {
		lines = append(lines, reply)
	}
	return msg(sc.gameText(lines...)), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	if err := sc.checkGame(); err != nil {
		return nil, err
	}
	score, col, _, err := sc.game.Evaluate(context.Background(), sc.game.Solver().Plies())
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("best column for %s: %d (score %d)",
		sc.game.PlayerOnTurn(), col, score)), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if err := sc.checkGame(); err != nil {
		return nil, err
	}
	plies, err := cmd.options.IntDefault("plies", sc.game.Solver().Plies())
	if err != nil {
		return nil, err
	}
	score, col, st, err := sc.game.Evaluate(context.Background(), plies)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s to move, %d plies\n", sc.game.PlayerOnTurn(), plies)
	fmt.Fprintf(&sb, "score: %d\n", score)
	fmt.Fprintf(&sb, "column: %d\n", col)
	fmt.Fprintf(&sb, "nodes: %d leaves: %d max depth: %d\n", st.Nodes, st.Leaves, st.MaxDepth)
	fmt.Fprintf(&sb, "time: %s", st.Elapsed)
	return msg(sb.String()), nil
}

func (sc *ShellController) takeback(cmd *shellcmd) (*Response, error) {
	if err := sc.checkGame(); err != nil {
		return nil, err
	}
	n := 2
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	if err := sc.game.Takeback(n); err != nil {
		return nil, err
	}
	return msg(sc.gameText()), nil
}

// moves sets up a position from a string of column digits. The bot does not
// move afterwards; use `aiplay` for that.
func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if err := sc.checkGame(); err != nil {
		return nil, err
	}
	b, err := board.FromMoves(strings.Join(cmd.args, ""))
	if err != nil {
		return nil, err
	}
	sc.game.SetPosition(b)
	return msg(sc.gameText()), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if err := sc.checkGame(); err != nil {
		return nil, err
	}
	s := sc.game.Solver()
	if len(cmd.args) == 0 {
		return msg(fmt.Sprintf("plies: %d\npruning: %v\nthreads: %d",
			s.Plies(), s.Pruning(), s.Threads())), nil
	}
	opt := cmd.args[0]
	if !lo.Contains(settable, opt) {
		return nil, fmt.Errorf("cannot set %s; options are %s", opt, strings.Join(settable, ", "))
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <option> <value>")
	}
	val := cmd.args[1]
	switch opt {
	case "plies":
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		if err := s.SetPlies(n); err != nil {
			return nil, err
		}
		sc.config.Set(config.ConfigSearchPlies, n)
	case "pruning":
		on, err := strconv.ParseBool(val)
		if err != nil {
			return nil, err
		}
		s.SetPruning(on)
		sc.config.Set(config.ConfigPruning, on)
	case "threads":
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		s.SetThreads(n)
		sc.config.Set(config.ConfigSearchThreads, s.Threads())
	}
	return msg("set " + opt + " to " + val), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: setconfig <key> <value>")
	}
	key := cmd.args[0]
	value := cmd.args[1]

	sc.config.Set(key, value)
	err := sc.config.Write()
	if err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	return msg(fmt.Sprintf("set config %s to %s and saved to file", key, value)), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		r, err := usage("standard")
		if err == nil && sc.gitVersion != "" {
			r.message = "connectfour " + sc.gitVersion + "\n\n" + r.message
		}
		return r, err
	}
	return usageTopic(cmd.args[0])
}
