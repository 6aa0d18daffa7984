package shell

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-plies")
	Args    []string // Possible argument values (for non-option arguments)
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Args: []string{"x", "o", "random"},
	},
	"eval": {
		Options: []string{"-plies"},
	},
	"set": {
		Args: settable,
	},
	"setconfig": {
		Args: []string{
			config.ConfigSearchPlies, config.ConfigPruning, config.ConfigSearchThreads,
			config.ConfigSearchLogFile, config.ConfigHumanSide, config.ConfigHistoryFile,
		},
	},
	"help": {
		Args: []string{"play", "new", "eval", "takeback", "set", "script"},
	},
}

var commandNames = []string{
	"help", "new", "play", "aiplay", "show", "s", "best", "eval", "takeback",
	"moves", "set", "setconfig", "script", "exit", "bye",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case cmdName == "play":
			completions = c.playableColumns()
		case cmdName == "set" && lastCompleteField == "pruning":
			completions = boolValues
		case cmdName == "setconfig" && lastCompleteField == config.ConfigPruning:
			completions = boolValues
		case cmdName == "setconfig" && lastCompleteField == config.ConfigHumanSide:
			completions = commandMetadata["new"].Args
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	matches := lo.FilterMap(completions, func(completion string, _ int) ([]rune, bool) {
		if !strings.HasPrefix(completion, prefix) {
			return nil, false
		}
		// Return only the part that needs to be added
		return []rune(completion[len(prefix):]), true
	})
	return matches, len(prefix)
}

func (c *ShellCompleter) playableColumns() []string {
	if c.sc.game == nil {
		return nil
	}
	cols := c.sc.game.Board().PlayableColumns()
	return lo.Map(lo.Filter(lo.Range(board.NumColumns), func(col int, _ int) bool {
		return lo.Contains(cols, col)
	}), func(col int, _ int) string {
		return strconv.Itoa(col)
	})
}
