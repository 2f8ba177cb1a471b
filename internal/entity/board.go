package entity

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9
)

// WinCombos is checked in order, so the first complete line wins.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a 3x3 grid stored row by row.
type Board [BoardSize]string

// WinningLine returns the first line of WinCombos held by a single mark.
func (that Board) WinningLine() ([]int, bool) {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return []int{combo[0], combo[1], combo[2]}, true
		}
	}

	return nil, false
}

// Winner returns the mark on the winning line or EmptyCell.
func (that Board) Winner() string {
	line, ok := that.WinningLine()
	if !ok {
		return EmptyCell
	}

	return that[line[0]]
}

// NextMark infers whose turn it is from the marks on the board: X moves
// whenever both players have placed the same number of marks.
func (that Board) NextMark() string {
	var xCount, oCount int

	for _, cell := range that {
		switch cell {
		case PlayerX:
			xCount++
		case PlayerO:
			oCount++
		}
	}

	if xCount == oCount {
		return PlayerX
	}

	return PlayerO
}

// IsValid reports whether every cell holds a mark or is empty.
func (that Board) IsValid() bool {
	for _, cell := range that {
		if cell != EmptyCell && cell != PlayerX && cell != PlayerO {
			return false
		}
	}

	return true
}

// Place returns a copy of the board with mark in cell. The receiver is untouched.
func (that Board) Place(cell int, mark string) Board {
	next := that
	next[cell] = mark

	return next
}
