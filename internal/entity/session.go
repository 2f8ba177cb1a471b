package entity

import "fmt"

// Session is the whole state of one game: its history and the node on display.
type Session struct {
	ID        string   `json:"id"`
	History   *History `json:"history"`
	CurrentID int      `json:"current_id"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		History:   NewHistory(),
		CurrentID: StartNodeID,
	}
}

// Current returns the node on display. It panics on a session that failed Validate.
func (that *Session) Current() *MoveNode {
	node, ok := that.History.Find(that.CurrentID)
	if !ok {
		panic(fmt.Sprintf("session %s points at missing node %d", that.ID, that.CurrentID))
	}

	return node
}

func (that *Session) Clone() *Session {
	return &Session{
		ID:        that.ID,
		History:   that.History.Clone(),
		CurrentID: that.CurrentID,
	}
}

func (that *Session) Validate() error {
	if that.History == nil {
		return fmt.Errorf("%w: session %s has no history", ErrCorruptHistory, that.ID)
	}

	if err := that.History.Validate(); err != nil {
		return fmt.Errorf("session %s: %w", that.ID, err)
	}

	if _, ok := that.History.Find(that.CurrentID); !ok {
		return fmt.Errorf("%w: session %s points at missing node %d", ErrCorruptHistory, that.ID, that.CurrentID)
	}

	return nil
}
