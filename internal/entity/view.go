package entity

// View is the read model handed to every client surface.
type View struct {
	SessionID   string   `json:"session_id"`
	Board       Board    `json:"board"`
	Status      string   `json:"status"`
	Winner      string   `json:"winner,omitempty"`
	NextPlayer  string   `json:"next_player,omitempty"`
	WinningLine []int    `json:"winning_line"`
	CurrentID   int      `json:"current_id"`
	Branches    []Branch `json:"branches"`
}

type Branch struct {
	Number int         `json:"number"`
	Moves  []MoveEntry `json:"moves"`
}

type MoveEntry struct {
	ID        int    `json:"id"`
	Label     string `json:"label"`
	IsCurrent bool   `json:"is_current"`
}

func (that *View) IsFinished() bool {
	return that.Winner != ""
}
