package entity

import (
	"errors"
	"fmt"
)

const (
	StartNodeID = 0
	NoParent    = -1
)

var ErrCorruptHistory = errors.New("corrupt move history")

// MoveNode is one board state reached during a session. Nodes are never
// changed after they are appended.
type MoveNode struct {
	ID     int   `json:"id"`
	Parent int   `json:"parent"`
	Board  Board `json:"board"`
}

func (that *MoveNode) IsStart() bool {
	return that.Parent == NoParent
}

// History is an arena of move nodes indexed by id, plus the ordered set of
// branch heads. Following Parent from any head ends at the start node.
type History struct {
	Nodes []MoveNode `json:"nodes"`
	Heads []int      `json:"heads"`
}

func NewHistory() *History {
	return &History{
		Nodes: []MoveNode{{ID: StartNodeID, Parent: NoParent}},
		Heads: []int{StartNodeID},
	}
}

// NextNodeID is the id the next appended node will get.
func (that *History) NextNodeID() int {
	return len(that.Nodes)
}

func (that *History) Find(id int) (*MoveNode, bool) {
	if id < 0 || id >= len(that.Nodes) {
		return nil, false
	}

	return &that.Nodes[id], true
}

func (that *History) headIndex(id int) int {
	for i, head := range that.Heads {
		if head == id {
			return i
		}
	}

	return -1
}

// Append stores board as a child of parentID. A head parent is extended in
// place; any other parent starts a new branch and leaves existing ones alone.
func (that *History) Append(parentID int, board Board) (*MoveNode, error) {
	if _, ok := that.Find(parentID); !ok {
		return nil, fmt.Errorf("%w: parent %d", ErrCorruptHistory, parentID)
	}

	node := MoveNode{
		ID:     that.NextNodeID(),
		Parent: parentID,
		Board:  board,
	}
	that.Nodes = append(that.Nodes, node)

	if idx := that.headIndex(parentID); idx >= 0 {
		that.Heads[idx] = node.ID
	} else {
		that.Heads = append(that.Heads, node.ID)
	}

	return &that.Nodes[node.ID], nil
}

// Chain walks from id back to the start node and returns the path in play
// order, start first.
func (that *History) Chain(id int) []MoveNode {
	var chain []MoveNode

	for current, ok := that.Find(id); ok; current, ok = that.Find(current.Parent) {
		chain = append(chain, *current)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain
}

// Branches returns one chain per head, in head order.
func (that *History) Branches() [][]MoveNode {
	branches := make([][]MoveNode, 0, len(that.Heads))
	for _, head := range that.Heads {
		branches = append(branches, that.Chain(head))
	}

	return branches
}

// Clone returns a deep copy. Boards are arrays, so copying the node slice is enough.
func (that *History) Clone() *History {
	return &History{
		Nodes: append([]MoveNode(nil), that.Nodes...),
		Heads: append([]int(nil), that.Heads...),
	}
}

// Validate checks the arena invariants. It guards histories read back from storage.
func (that *History) Validate() error {
	if len(that.Nodes) == 0 || len(that.Heads) == 0 {
		return fmt.Errorf("%w: empty history", ErrCorruptHistory)
	}

	if !that.Nodes[StartNodeID].IsStart() {
		return fmt.Errorf("%w: start node has a parent", ErrCorruptHistory)
	}

	if that.Nodes[StartNodeID].Board != (Board{}) {
		return fmt.Errorf("%w: start board is not empty", ErrCorruptHistory)
	}

	for i, node := range that.Nodes {
		if node.ID != i {
			return fmt.Errorf("%w: node at %d has id %d", ErrCorruptHistory, i, node.ID)
		}

		if i == StartNodeID {
			continue
		}

		if node.Parent < 0 || node.Parent >= i {
			return fmt.Errorf("%w: node %d has parent %d", ErrCorruptHistory, i, node.Parent)
		}

		if !node.Board.IsValid() || !isLegalMove(that.Nodes[node.Parent].Board, node.Board) {
			return fmt.Errorf("%w: node %d is not one legal move after node %d", ErrCorruptHistory, i, node.Parent)
		}
	}

	reachable := make([]bool, len(that.Nodes))
	seen := make(map[int]struct{}, len(that.Heads))

	for _, head := range that.Heads {
		if _, ok := that.Find(head); !ok {
			return fmt.Errorf("%w: unknown head %d", ErrCorruptHistory, head)
		}

		if _, dup := seen[head]; dup {
			return fmt.Errorf("%w: duplicate head %d", ErrCorruptHistory, head)
		}
		seen[head] = struct{}{}

		// parents always precede children, so this walk terminates at the start node
		for id := head; id != NoParent && !reachable[id]; id = that.Nodes[id].Parent {
			reachable[id] = true
		}
	}

	for id, ok := range reachable {
		if !ok {
			return fmt.Errorf("%w: node %d is not on any branch", ErrCorruptHistory, id)
		}
	}

	return nil
}

// isLegalMove reports whether next is prev with one empty cell taken by the
// player to move, on a board that had no winner yet.
func isLegalMove(prev, next Board) bool {
	if _, won := prev.WinningLine(); won {
		return false
	}

	changed := 0
	for cell := range prev {
		if prev[cell] == next[cell] {
			continue
		}

		if prev[cell] != EmptyCell || next[cell] != prev.NextMark() {
			return false
		}
		changed++
	}

	return changed == 1
}
