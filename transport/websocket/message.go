package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const (
	actionSessionNew   = "session:new"
	actionSessionState = "session:state"
	actionSessionEnd   = "session:end"
	actionGameTurn     = "game:turn"
	actionGameJump     = "game:jump"
	actionError        = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	SessionID string       `json:"session_id,omitempty"`
	Cell      *int         `json:"cell,omitempty"`
	NodeID    *int         `json:"node_id,omitempty"`
	Session   *entity.View `json:"session,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// client is one websocket connection. Only the reading goroutine writes to it.
type client struct {
	conn      *websocket.Conn
	sessionID string
}

func (that *client) sendMessage(action string, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: data}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) sendError(action string, view *entity.View, errorMsg string) error {
	payload := Payload{
		SessionID: that.sessionID,
		Session:   view,
		Error:     errorMsg,
	}

	if err := that.sendMessage(action, payload); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
