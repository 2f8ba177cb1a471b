package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

var ErrInvalidCell = errors.New("invalid cell index")

const (
	gameStartLabel = "Go to game start"
	moveLabel      = "Go to move #%d"
)

// MakeTurn plays the inferred mark into cell on the current board. A rejected
// turn leaves the session exactly as it was.
func MakeTurn(session *entity.Session, cell int) error {
	current := session.Current()

	if err := validateMove(current.Board, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	next := current.Board.Place(cell, current.Board.NextMark())

	node, err := session.History.Append(current.ID, next)
	if err != nil {
		return fmt.Errorf("failed to append move: %w", err)
	}

	session.CurrentID = node.ID

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(board entity.Board, cell int) error {
	if _, won := board.WinningLine(); won {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// JumpTo shows an earlier (or later) node of any branch.
func JumpTo(session *entity.Session, nodeID int) error {
	node, ok := session.History.Find(nodeID)
	if !ok {
		return fmt.Errorf("%w: id %d", apperror.ErrNodeNotFound, nodeID)
	}

	session.CurrentID = node.ID

	return nil
}

// Snapshot builds the read model for the current state of a session.
func Snapshot(session *entity.Session) *entity.View {
	board := session.Current().Board

	view := &entity.View{
		SessionID:   session.ID,
		Board:       board,
		CurrentID:   session.CurrentID,
		WinningLine: []int{},
		Branches:    make([]entity.Branch, 0, len(session.History.Heads)),
	}

	if line, won := board.WinningLine(); won {
		view.WinningLine = line
		view.Winner = board.Winner()
		view.Status = "Winner: " + view.Winner
	} else {
		view.NextPlayer = board.NextMark()
		view.Status = "Next player: " + view.NextPlayer
	}

	for i, chain := range session.History.Branches() {
		branch := entity.Branch{
			Number: i + 1,
			Moves:  make([]entity.MoveEntry, 0, len(chain)),
		}

		for _, node := range chain {
			branch.Moves = append(branch.Moves, entity.MoveEntry{
				ID:        node.ID,
				Label:     moveLabelFor(node.ID),
				IsCurrent: node.ID == session.CurrentID,
			})
		}

		view.Branches = append(view.Branches, branch)
	}

	return view
}

func moveLabelFor(id int) string {
	if id == entity.StartNodeID {
		return gameStartLabel
	}

	return fmt.Sprintf(moveLabel, id)
}
