package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

func playAll(t *testing.T, session *entity.Session, cells ...int) {
	t.Helper()

	for _, cell := range cells {
		require.NoError(t, MakeTurn(session, cell))
	}
}

func branchIDs(view *entity.View, number int) []int {
	ids := make([]int, 0, len(view.Branches[number].Moves))
	for _, move := range view.Branches[number].Moves {
		ids = append(ids, move.ID)
	}

	return ids
}

func TestMakeTurn(t *testing.T) {
	t.Run("First turn is X", func(t *testing.T) {
		// Given: a new session
		session := entity.NewSession("123")

		// When: the first turn is made on cell 0
		err := MakeTurn(session, 0)
		require.NoError(t, err)

		// Then: X is on cell 0 and the session shows move #1
		assert.Equal(t, 1, session.CurrentID)
		assert.Equal(t, entity.Board{entity.PlayerX}, session.Current().Board)
		assert.Equal(t, 2, session.History.NextNodeID())
	})

	t.Run("Turns alternate", func(t *testing.T) {
		session := entity.NewSession("123")

		playAll(t, session, 0, 4)

		assert.Equal(t, entity.PlayerO, session.Current().Board[4])
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a session where cell 0 is taken
		session := entity.NewSession("123")
		playAll(t, session, 0)
		before := session.Clone()

		// When: O tries the same cell
		err := MakeTurn(session, 0)

		// Then: ErrCellOccupied is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, session)
	})

	t.Run("Invalid Cell", func(t *testing.T) {
		session := entity.NewSession("123")

		assert.ErrorIs(t, MakeTurn(session, 20), ErrInvalidCell)
		assert.ErrorIs(t, MakeTurn(session, -1), ErrInvalidCell)
		assert.Equal(t, entity.NewSession("123"), session)
	})

	t.Run("Move After Game Finished", func(t *testing.T) {
		// Given: a session where X has already won
		session := entity.NewSession("123")
		playAll(t, session, 0, 4, 1, 3, 2)
		before := session.Clone()

		// When: O tries to play on
		err := MakeTurn(session, 8)

		// Then: ErrGameFinished is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, before, session)
	})

	t.Run("Branch grows by one per turn without jumps", func(t *testing.T) {
		session := entity.NewSession("123")

		playAll(t, session, 4, 0, 8, 2, 1)

		branches := session.History.Branches()
		require.Len(t, branches, 1)
		assert.Len(t, branches[0], 6)
	})
}

func TestJumpTo(t *testing.T) {
	t.Run("Moves the current node", func(t *testing.T) {
		session := entity.NewSession("123")
		playAll(t, session, 0, 4)

		require.NoError(t, JumpTo(session, 1))

		assert.Equal(t, 1, session.CurrentID)
		assert.Equal(t, entity.Board{entity.PlayerX}, session.Current().Board)
	})

	t.Run("Unknown node leaves the session unchanged", func(t *testing.T) {
		session := entity.NewSession("123")
		playAll(t, session, 0)

		err := JumpTo(session, 99)

		require.ErrorIs(t, err, apperror.ErrNodeNotFound)
		assert.Equal(t, 1, session.CurrentID)
	})

	t.Run("Finished game still accepts jumps", func(t *testing.T) {
		session := entity.NewSession("123")
		playAll(t, session, 0, 4, 1, 3, 2)

		require.NoError(t, JumpTo(session, entity.StartNodeID))

		assert.Equal(t, entity.StartNodeID, session.CurrentID)
	})

	t.Run("Turn inference follows the jumped-to board", func(t *testing.T) {
		// Given: three moves, then a jump back to move #1
		session := entity.NewSession("123")
		playAll(t, session, 0, 4, 8)
		require.NoError(t, JumpTo(session, 1))

		// When: playing from there
		require.NoError(t, MakeTurn(session, 2))

		// Then: O plays, because the board at move #1 has one X
		assert.Equal(t, entity.PlayerO, session.Current().Board[2])
	})
}

func TestBranching(t *testing.T) {
	t.Run("Playing from a head extends the branch", func(t *testing.T) {
		session := entity.NewSession("123")
		playAll(t, session, 0)

		// When: the current node is a head
		require.Contains(t, session.History.Heads, session.CurrentID)
		playAll(t, session, 4)

		// Then: the branch count stays the same and the branch grows
		view := Snapshot(session)
		require.Len(t, view.Branches, 1)
		assert.Equal(t, []int{0, 1, 2}, branchIDs(view, 0))
	})

	t.Run("Playing from a mid-branch node adds a branch", func(t *testing.T) {
		// Given: start -> Play(0) -> Jump(0)
		session := entity.NewSession("123")
		playAll(t, session, 0)
		require.NoError(t, JumpTo(session, entity.StartNodeID))

		// When: Play(4)
		playAll(t, session, 4)

		// Then: two branches; the original is untouched and the new one holds move #2 at cell 4
		view := Snapshot(session)
		require.Len(t, view.Branches, 2)
		assert.Equal(t, []int{0, 1}, branchIDs(view, 0))
		assert.Equal(t, []int{0, 2}, branchIDs(view, 1))

		node, ok := session.History.Find(2)
		require.True(t, ok)
		assert.Equal(t, entity.PlayerX, node.Board[4])
		assert.Equal(t, entity.EmptyCell, node.Board[0])
	})

	t.Run("Ids keep increasing across branches", func(t *testing.T) {
		session := entity.NewSession("123")
		playAll(t, session, 0, 1)
		require.NoError(t, JumpTo(session, 1))
		playAll(t, session, 2)
		require.NoError(t, JumpTo(session, 2))
		playAll(t, session, 3)

		assert.Equal(t, []int{4, 3}, session.History.Heads)
		assert.Equal(t, 5, session.History.NextNodeID())
		require.NoError(t, session.Validate())
	})
}

func TestSnapshot(t *testing.T) {
	t.Run("New session", func(t *testing.T) {
		// Given: a new session
		session := entity.NewSession("abc")

		// When: taking a snapshot
		view := Snapshot(session)

		// Then: the view matches the start state
		expected := &entity.View{
			SessionID:   "abc",
			Board:       entity.Board{},
			Status:      "Next player: X",
			NextPlayer:  entity.PlayerX,
			WinningLine: []int{},
			CurrentID:   entity.StartNodeID,
			Branches: []entity.Branch{
				{
					Number: 1,
					Moves: []entity.MoveEntry{
						{ID: 0, Label: "Go to game start", IsCurrent: true},
					},
				},
			},
		}
		assert.Equal(t, expected, view)
	})

	t.Run("Winning diagonal", func(t *testing.T) {
		// Given: X plays 0, 4, 8 and O plays 1, 2
		session := entity.NewSession("abc")
		playAll(t, session, 0, 1, 4, 2, 8)

		// When: taking a snapshot
		view := Snapshot(session)

		// Then: X wins on the 0-4-8 diagonal
		require.True(t, view.IsFinished())
		assert.Equal(t, "Winner: X", view.Status)
		assert.Equal(t, []int{0, 4, 8}, view.WinningLine)
	})

	t.Run("No winner while O holds the centre", func(t *testing.T) {
		// Given: X plays 0, 1, 8 and O plays 4, 3
		session := entity.NewSession("abc")
		playAll(t, session, 0, 4, 1, 3, 8)

		// When: taking a snapshot
		view := Snapshot(session)

		// Then: the game goes on with O to move
		require.False(t, view.IsFinished())
		assert.Equal(t, "Next player: O", view.Status)
		assert.Empty(t, view.WinningLine)
	})

	t.Run("Winner X on the top row", func(t *testing.T) {
		session := entity.NewSession("abc")
		playAll(t, session, 0, 4, 1, 3, 2)

		view := Snapshot(session)

		require.True(t, view.IsFinished())
		assert.Equal(t, "Winner: X", view.Status)
		assert.Equal(t, entity.PlayerX, view.Winner)
		assert.Equal(t, []int{0, 1, 2}, view.WinningLine)
		assert.Empty(t, view.NextPlayer)
	})

	t.Run("Labels and current marker", func(t *testing.T) {
		session := entity.NewSession("abc")
		playAll(t, session, 0, 4)
		require.NoError(t, JumpTo(session, 1))

		view := Snapshot(session)

		assert.Equal(t, []entity.MoveEntry{
			{ID: 0, Label: "Go to game start"},
			{ID: 1, Label: "Go to move #1", IsCurrent: true},
			{ID: 2, Label: "Go to move #2"},
		}, view.Branches[0].Moves)
	})
}
