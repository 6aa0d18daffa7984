package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/bot"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/game"
)

const (
	humanNickname = "you"
	botNickname   = "connectfour"
)

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("sending quit signal")
	errNoGame            = errors.New("no game in progress; start one with `new`")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config     *config.Config
	gitVersion string

	game      *bot.BotTurnPlayer
	humanSide board.Player
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController sets up the readline prompt and starts a game with the
// configured human side.
func NewShellController(cfg *config.Config, gitVersion string) *ShellController {
	sc := &ShellController{config: cfg, gitVersion: gitVersion}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[33mconnectfour>\033[0m ",
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	sc.startFromConfig()
	return sc
}

// newController builds a controller that writes to out and has no prompt.
func newController(cfg *config.Config, out io.Writer) *ShellController {
	sc := &ShellController{config: cfg, out: out}
	sc.startFromConfig()
	return sc
}

func (sc *ShellController) startFromConfig() {
	r, err := sc.newGame(&shellcmd{cmd: "new",
		args: []string{sc.config.GetString(config.ConfigHumanSide)}})
	if err != nil {
		sc.showError(err)
		return
	}
	sc.showMessage(r.message)
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// parseSide turns x, o or random into the side the human plays.
func parseSide(s string) (board.Player, error) {
	if strings.ToLower(s) == "random" {
		return board.Player(frand.Intn(2)), nil
	}
	return board.PlayerFromString(s)
}

func (sc *ShellController) startGame(human board.Player) error {
	players := []game.PlayerInfo{
		{Nickname: humanNickname},
		{Nickname: botNickname, IsBot: true},
	}
	if human == board.PlayerO {
		players[0], players[1] = players[1], players[0]
	}
	g, err := game.NewGame(players)
	if err != nil {
		return err
	}
	btp, err := bot.NewBotTurnPlayer(sc.config, g, human.Other())
	if err != nil {
		return err
	}
	if sc.game != nil {
		if err := sc.game.Close(); err != nil {
			log.Err(err).Msg("closing-search-log")
		}
	}
	sc.game = btp
	sc.humanSide = human
	log.Debug().Str("human", human.String()).Msg("new-game")
	return nil
}

// botReply lets the bot move if it is on turn.
func (sc *ShellController) botReply(ctx context.Context) (string, error) {
	if !sc.game.IsBotTurn() {
		return "", nil
	}
	col, err := sc.game.PlayBestTurn(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s plays column %d", botNickname, col), nil
}

// gameText is the board, followed by the result once the game is decided.
func (sc *ShellController) gameText(prefix ...string) string {
	lines := append(lo.Compact(prefix), sc.game.ToDisplayText())
	if sc.game.Playing() == game.GameOver {
		lines = append(lines, "Result: "+sc.game.ResultText())
	}
	return strings.Join(lines, "\n")
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// isColumn reports whether a bare word should be treated as a move. Any
// integer counts, so that out-of-range columns get a proper error.
func isColumn(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	if isColumn(cmd.cmd) {
		cmd = &shellcmd{cmd: "play", args: []string{cmd.cmd}, options: cmd.options}
	}
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "play":
		return sc.play(cmd)
	case "aiplay":
		return sc.aiplay(cmd)
	case "s", "show":
		return sc.show(cmd)
	case "best":
		return sc.best(cmd)
	case "eval":
		return sc.eval(cmd)
	case "takeback":
		return sc.takeback(cmd)
	case "moves":
		return sc.moves(cmd)
	case "set":
		return sc.set(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	case "script":
		return sc.script(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, fmt.Errorf("command %v not found", strconv.Quote(cmd.cmd))
	}
}

// Execute runs a single command line. It reports false if the command asked
// the shell to quit.
func (sc *ShellController) Execute(sig chan os.Signal, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	resp, err := sc.standardModeSwitch(line, sig)
	if errors.Is(err, errQuit) {
		return false
	}
	if err != nil {
		sc.showError(err)
		return true
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return true
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if !sc.Execute(sig, line) {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup closes anything the current game holds open.
func (sc *ShellController) Cleanup() {
	if sc.game == nil {
		return
	}
	if err := sc.game.Close(); err != nil {
		log.Err(err).Msg("closing-search-log")
	}
}
