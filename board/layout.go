package board

const (
	// NumColumns and NumRows are the playable dimensions of the grid.
	NumColumns = 7
	NumRows    = 6
	// ColumnStride is the number of bits reserved per column. The extra bit
	// above the top row is always zero so that shifted masks cannot carry a
	// line from the top of one column into the bottom of the next.
	ColumnStride = NumRows + 1
	// MaxPlies is the number of stones that fill the grid.
	MaxPlies = NumRows * NumColumns
)

// CenterOutOrder is the order in which columns are offered to the search.
// Central columns come first so that equally scored moves resolve toward
// the middle of the board.
var CenterOutOrder = [NumColumns]int{3, 2, 4, 1, 5, 0, 6}

// cellIndex maps a row (0 is the top row) and a column to its bit.
//
//	 6 13 20 27 34 41 48   <- sentinel
//	 5 12 19 26 33 40 47
//	 4 11 18 25 32 39 46
//	 3 10 17 24 31 38 45
//	 2  9 16 23 30 37 44
//	 1  8 15 22 29 36 43
//	 0  7 14 21 28 35 42
var cellIndex = [NumRows][NumColumns]uint{
	{5, 12, 19, 26, 33, 40, 47},
	{4, 11, 18, 25, 32, 39, 46},
	{3, 10, 17, 24, 31, 38, 45},
	{2, 9, 16, 23, 30, 37, 44},
	{1, 8, 15, 22, 29, 36, 43},
	{0, 7, 14, 21, 28, 35, 42},
}

// winDirections are the shifts that walk along a vertical, horizontal and
// the two diagonal lines.
var winDirections = [4]uint{1, ColumnStride, ColumnStride - 1, ColumnStride + 1}

func columnBase(col int) uint8 {
	return uint8(col * ColumnStride)
}

func columnTop(col int) uint8 {
	return uint8(cellIndex[0][col])
}

func hasFour(mask uint64) bool {
	for _, d := range winDirections {
		if mask&(mask>>d)&(mask>>(2*d))&(mask>>(3*d)) != 0 {
			return true
		}
	}
	return false
}
