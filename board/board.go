// Package board holds a Connect Four position as a pair of bitboards.
// A Board is a plain value: playing a move returns a new Board and leaves
// the receiver untouched, so search branches never share state.
package board

import (
	"errors"

	"github.com/samber/lo"
)

var (
	ErrColumnFull       = errors.New("column is full")
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrNoLegalMove      = errors.New("no legal move; the game is over")
	ErrNothingToUndo    = errors.New("no moves to undo")
)

// Player identifies one side. PlayerX always moves first.
type Player int8

const (
	NoPlayer Player = -1
	PlayerX  Player = 0
	PlayerO  Player = 1
)

func (p Player) String() string {
	switch p {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	}
	return "none"
}

// Other returns the opponent of p.
func (p Player) Other() Player {
	if p == NoPlayer {
		return NoPlayer
	}
	return 1 - p
}

// PlayerFromString parses "x" or "o" in either case.
func PlayerFromString(s string) (Player, error) {
	switch s {
	case "x", "X":
		return PlayerX, nil
	case "o", "O":
		return PlayerO, nil
	}
	return NoPlayer, errors.New("player must be x or o")
}

type Board struct {
	masks   [2]uint64
	heights [NumColumns]uint8
	moves   [MaxPlies]uint8
	plies   uint8
}

// NewBoard returns an empty position with X to move.
func NewBoard() Board {
	var b Board
	for col := 0; col < NumColumns; col++ {
		b.heights[col] = columnBase(col)
	}
	return b
}

func (b Board) playable(col int) bool {
	return b.heights[col] <= columnTop(col)
}

// PlayableColumns lists the columns that can still take a stone, in
// CenterOutOrder.
func (b Board) PlayableColumns() []int {
	return lo.Filter(CenterOutOrder[:], func(col int, _ int) bool {
		return b.playable(col)
	})
}

// PlayMove drops a stone for the side to move into col.
func (b Board) PlayMove(col int) (Board, error) {
	if col < 0 || col >= NumColumns {
		return b, ErrColumnOutOfRange
	}
	if b.IsFull() || b.Winner() != NoPlayer {
		return b, ErrNoLegalMove
	}
	if !b.playable(col) {
		return b, ErrColumnFull
	}
	return b.Child(col), nil
}

// Child returns the position after col is played, without validation.
// col must come from PlayableColumns on an undecided board.
func (b Board) Child(col int) Board {
	b.masks[b.plies&1] |= uint64(1) << b.heights[col]
	b.heights[col]++
	b.moves[b.plies] = uint8(col)
	b.plies++
	return b
}

// Undo takes back the last move in place.
func (b *Board) Undo() error {
	if b.plies == 0 {
		return ErrNothingToUndo
	}
	b.plies--
	col := b.moves[b.plies]
	b.heights[col]--
	b.masks[b.plies&1] &^= uint64(1) << b.heights[col]
	b.moves[b.plies] = 0
	return nil
}

// IsFull is true once every cell holds a stone.
func (b Board) IsFull() bool {
	return int(b.plies) == MaxPlies
}

// Winner reports the side holding four in a row, if any.
func (b Board) Winner() Player {
	if hasFour(b.masks[PlayerX]) {
		return PlayerX
	}
	if hasFour(b.masks[PlayerO]) {
		return PlayerO
	}
	return NoPlayer
}

// ToMove is the side whose turn it is, derived from the number of moves.
func (b Board) ToMove() Player {
	return Player(b.plies & 1)
}

func (b Board) Plies() int {
	return int(b.plies)
}

// History returns a copy of the columns played so far.
func (b Board) History() []int {
	h := make([]int, b.plies)
	for i := range h {
		h[i] = int(b.moves[i])
	}
	return h
}

func (b Board) Occupancy(p Player) uint64 {
	return b.masks[p]
}

// StonesIn returns the number of stones in col.
func (b Board) StonesIn(col int) int {
	return int(b.heights[col] - columnBase(col))
}

// At returns the owner of the cell at row (0 is the top row) and col.
func (b Board) At(row, col int) Player {
	bit := uint64(1) << cellIndex[row][col]
	switch {
	case b.masks[PlayerX]&bit != 0:
		return PlayerX
	case b.masks[PlayerO]&bit != 0:
		return PlayerO
	}
	return NoPlayer
}
