package minimax

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connectfour/board"
)

// ChildLog is the score of one root child.
type ChildLog struct {
	Column int `yaml:"column"`
	Score  int `yaml:"score"`
}

// SearchLog is one search, as written to the log stream.
type SearchLog struct {
	Position   string     `yaml:"position"`
	Maximizing bool       `yaml:"maximizing"`
	Plies      int        `yaml:"plies"`
	Pruning    bool       `yaml:"pruning"`
	Children   []ChildLog `yaml:"children"`
	BestColumn int        `yaml:"best_column"`
	BestScore  int        `yaml:"best_score"`
	Nodes      uint64     `yaml:"nodes"`
	Leaves     uint64     `yaml:"leaves"`
	MaxDepth   int        `yaml:"max_depth"`
}

func (s *Solver) writeLog(b board.Board, maximizing bool, cols, scores []int,
	best, bestCol int) {

	entry := SearchLog{
		Position:   b.MoveString(),
		Maximizing: maximizing,
		Plies:      s.plies,
		Pruning:    s.pruning,
		Children:   make([]ChildLog, len(cols)),
		BestColumn: bestCol,
		BestScore:  best,
		Nodes:      s.lastStats.Nodes,
		Leaves:     s.lastStats.Leaves,
		MaxDepth:   s.lastStats.MaxDepth,
	}
	for i, col := range cols {
		entry.Children[i] = ChildLog{Column: col, Score: scores[i]}
	}
	// Write a one-element sequence so that successive searches append to a
	// single YAML list.
	out, err := yaml.Marshal([]SearchLog{entry})
	if err != nil {
		log.Err(err).Msg("error-marshalling-search-log")
		return
	}
	if _, err := s.logStream.Write(out); err != nil {
		log.Err(err).Msg("error-writing-search-log")
	}
}
