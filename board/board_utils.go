package board

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	markX     = 'X'
	markO     = 'O'
	markEmpty = '.'
)

func (p Player) mark() rune {
	switch p {
	case PlayerX:
		return markX
	case PlayerO:
		return markO
	}
	return markEmpty
}

// ToDisplayText renders the grid top row first, one character per cell,
// with the column numbers underneath.
func (b Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString(" " + strings.Repeat("-", NumColumns*2+1) + "\n")
	for row := 0; row < NumRows; row++ {
		sb.WriteString("| ")
		for col := 0; col < NumColumns; col++ {
			sb.WriteRune(b.At(row, col).mark())
			sb.WriteByte(' ')
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(" " + strings.Repeat("-", NumColumns*2+1) + "\n")
	sb.WriteString("  ")
	for col := 0; col < NumColumns; col++ {
		fmt.Fprintf(&sb, "%d ", col)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (b Board) String() string {
	return b.ToDisplayText()
}

// MoveString returns the history as a string of column digits, e.g. "3342".
func (b Board) MoveString() string {
	var sb strings.Builder
	for i := 0; i < int(b.plies); i++ {
		sb.WriteByte('0' + b.moves[i])
	}
	return sb.String()
}

// FromMoves plays a string of column digits from the empty board.
// Whitespace is ignored.
func FromMoves(moves string) (Board, error) {
	b := NewBoard()
	for i, ch := range moves {
		if unicode.IsSpace(ch) {
			continue
		}
		if ch < '0' || ch > '9' {
			return b, fmt.Errorf("move %d (%q): %w", i, ch, ErrColumnOutOfRange)
		}
		next, err := b.PlayMove(int(ch - '0'))
		if err != nil {
			return b, fmt.Errorf("move %d (%q): %w", i, ch, err)
		}
		b = next
	}
	return b, nil
}
