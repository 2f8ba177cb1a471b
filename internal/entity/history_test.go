package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainIDs(chain []MoveNode) []int {
	ids := make([]int, 0, len(chain))
	for _, node := range chain {
		ids = append(ids, node.ID)
	}

	return ids
}

func TestNewHistory(t *testing.T) {
	// When: a new history is created
	history := NewHistory()

	// Then: it holds only the start node, which is the only head
	require.Len(t, history.Nodes, 1)
	assert.Equal(t, MoveNode{ID: StartNodeID, Parent: NoParent}, history.Nodes[0])
	assert.Equal(t, []int{StartNodeID}, history.Heads)
	assert.Equal(t, 1, history.NextNodeID())
	require.NoError(t, history.Validate())
}

func TestHistory_Append(t *testing.T) {
	t.Run("Extends the branch when the parent is a head", func(t *testing.T) {
		// Given: a fresh history
		history := NewHistory()

		// When: appending twice along the same line
		first, err := history.Append(StartNodeID, Board{PlayerX})
		require.NoError(t, err)
		second, err := history.Append(first.ID, Board{PlayerX, PlayerO})
		require.NoError(t, err)

		// Then: there is still one branch, and it ends at the newest node
		assert.Equal(t, 1, first.ID)
		assert.Equal(t, 2, second.ID)
		assert.Equal(t, []int{second.ID}, history.Heads)
		assert.Equal(t, []int{0, 1, 2}, chainIDs(history.Chain(second.ID)))
		require.NoError(t, history.Validate())
	})

	t.Run("Starts a new branch when the parent is mid-branch", func(t *testing.T) {
		// Given: a history with one move
		history := NewHistory()
		_, err := history.Append(StartNodeID, Board{PlayerX})
		require.NoError(t, err)

		// When: appending from the start node again
		alt, err := history.Append(StartNodeID, Board{EmptyCell, EmptyCell, EmptyCell, EmptyCell, PlayerX})
		require.NoError(t, err)

		// Then: the old branch is untouched and a new one is added after it
		assert.Equal(t, []int{1, alt.ID}, history.Heads)
		branches := history.Branches()
		require.Len(t, branches, 2)
		assert.Equal(t, []int{0, 1}, chainIDs(branches[0]))
		assert.Equal(t, []int{0, 2}, chainIDs(branches[1]))
		require.NoError(t, history.Validate())
	})

	t.Run("Replaces the head in place and keeps branch order", func(t *testing.T) {
		// Given: two branches
		history := NewHistory()
		first, err := history.Append(StartNodeID, Board{PlayerX})
		require.NoError(t, err)
		_, err = history.Append(StartNodeID, Board{EmptyCell, PlayerX})
		require.NoError(t, err)

		// When: extending the first branch
		extended, err := history.Append(first.ID, Board{PlayerX, EmptyCell, PlayerO})
		require.NoError(t, err)

		// Then: the first branch keeps position 0
		assert.Equal(t, []int{extended.ID, 2}, history.Heads)
	})

	t.Run("Fails for an unknown parent", func(t *testing.T) {
		history := NewHistory()

		_, err := history.Append(42, Board{})

		require.ErrorIs(t, err, ErrCorruptHistory)
		assert.Len(t, history.Nodes, 1)
	})
}

func TestHistory_Find(t *testing.T) {
	// Given: a history with two branches
	history := NewHistory()
	_, err := history.Append(StartNodeID, Board{PlayerX})
	require.NoError(t, err)
	_, err = history.Append(StartNodeID, Board{EmptyCell, PlayerX})
	require.NoError(t, err)

	t.Run("Every assigned id is found exactly once", func(t *testing.T) {
		for id := 0; id < history.NextNodeID(); id++ {
			node, ok := history.Find(id)
			require.True(t, ok)
			assert.Equal(t, id, node.ID)

			found := 0
			for _, branch := range history.Branches() {
				for _, n := range branch {
					if n.ID == id && n.ID != StartNodeID {
						found++
					}
				}
			}
			if id != StartNodeID {
				assert.Equal(t, 1, found)
			}
		}
	})

	t.Run("Unknown ids are not found", func(t *testing.T) {
		_, ok := history.Find(-1)
		assert.False(t, ok)

		_, ok = history.Find(history.NextNodeID())
		assert.False(t, ok)
	})
}

func TestHistory_Clone(t *testing.T) {
	// Given: a history and its clone
	history := NewHistory()
	clone := history.Clone()

	// When: the clone grows
	_, err := clone.Append(StartNodeID, Board{PlayerX})
	require.NoError(t, err)

	// Then: the original is unaffected
	assert.Len(t, history.Nodes, 1)
	assert.Equal(t, []int{StartNodeID}, history.Heads)
}

func TestHistory_Validate(t *testing.T) {
	t.Run("Accepts a branched history of legal moves", func(t *testing.T) {
		history := NewHistory()
		first, err := history.Append(StartNodeID, Board{PlayerX})
		require.NoError(t, err)
		_, err = history.Append(first.ID, Board{PlayerX, PlayerO})
		require.NoError(t, err)
		_, err = history.Append(StartNodeID, Board{EmptyCell, EmptyCell, EmptyCell, EmptyCell, PlayerX})
		require.NoError(t, err)

		require.NoError(t, history.Validate())
	})

	testCases := []struct {
		name    string
		history *History
	}{
		{
			name:    "Empty",
			history: &History{},
		},
		{
			name:    "Start node with a parent",
			history: &History{Nodes: []MoveNode{{ID: 0, Parent: 0}}, Heads: []int{0}},
		},
		{
			name:    "Id does not match position",
			history: &History{Nodes: []MoveNode{{ID: 0, Parent: NoParent}, {ID: 5, Parent: 0}}, Heads: []int{1}},
		},
		{
			name:    "Parent after child",
			history: &History{Nodes: []MoveNode{{ID: 0, Parent: NoParent}, {ID: 1, Parent: 1}}, Heads: []int{1}},
		},
		{
			name:    "Unknown head",
			history: &History{Nodes: []MoveNode{{ID: 0, Parent: NoParent}}, Heads: []int{3}},
		},
		{
			name:    "Duplicate head",
			history: &History{Nodes: []MoveNode{{ID: 0, Parent: NoParent}}, Heads: []int{0, 0}},
		},
		{
			name:    "Start board is not empty",
			history: &History{Nodes: []MoveNode{{ID: 0, Parent: NoParent, Board: Board{PlayerX}}}, Heads: []int{0}},
		},
		{
			name: "Unknown mark",
			history: &History{
				Nodes: []MoveNode{{ID: 0, Parent: NoParent}, {ID: 1, Parent: 0, Board: Board{"Z"}}},
				Heads: []int{1},
			},
		},
		{
			name: "O moves first",
			history: &History{
				Nodes: []MoveNode{{ID: 0, Parent: NoParent}, {ID: 1, Parent: 0, Board: Board{PlayerO}}},
				Heads: []int{1},
			},
		},
		{
			name: "Two marks in one move",
			history: &History{
				Nodes: []MoveNode{{ID: 0, Parent: NoParent}, {ID: 1, Parent: 0, Board: Board{PlayerX, PlayerO}}},
				Heads: []int{1},
			},
		},
		{
			name: "Child identical to parent",
			history: &History{
				Nodes: []MoveNode{{ID: 0, Parent: NoParent}, {ID: 1, Parent: 0}},
				Heads: []int{1},
			},
		},
		{
			name: "Mark overwritten",
			history: &History{
				Nodes: []MoveNode{
					{ID: 0, Parent: NoParent},
					{ID: 1, Parent: 0, Board: Board{PlayerX}},
					{ID: 2, Parent: 1, Board: Board{PlayerO}},
				},
				Heads: []int{2},
			},
		},
		{
			name: "Move after a win",
			history: &History{
				Nodes: []MoveNode{
					{ID: 0, Parent: NoParent},
					{ID: 1, Parent: 0, Board: Board{PlayerX}},
					{ID: 2, Parent: 1, Board: Board{PlayerX, EmptyCell, EmptyCell, PlayerO}},
					{ID: 3, Parent: 2, Board: Board{PlayerX, PlayerX, EmptyCell, PlayerO}},
					{ID: 4, Parent: 3, Board: Board{PlayerX, PlayerX, EmptyCell, PlayerO, PlayerO}},
					{ID: 5, Parent: 4, Board: Board{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO}},
					{ID: 6, Parent: 5, Board: Board{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO, PlayerO}},
				},
				Heads: []int{6},
			},
		},
		{
			name:    "Orphaned node",
			history: &History{Nodes: []MoveNode{{ID: 0, Parent: NoParent}, {ID: 1, Parent: 0, Board: Board{PlayerX}}}, Heads: []int{0}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.history.Validate(), ErrCorruptHistory)
		})
	}
}
