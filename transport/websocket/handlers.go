package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

const (
	errMsgInternal       = "internal error"
	errMsgSessionMissing = "session_id is required"
)

func (that *Server) handleNewSession(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleNewSession")

	view, err := that.gameUseCase.StartSession(ctx)
	if err != nil {
		log.Error("failed to start session", "error", err)
		return client.sendError(msg.Action, nil, errMsgInternal)
	}

	client.sessionID = view.SessionID

	return client.sendMessage(msg.Action, Payload{SessionID: view.SessionID, Session: view})
}

func (that *Server) handleSessionState(ctx context.Context, client *client, msg *Message) error {
	payload, ok, err := that.readPayload(client, msg)
	if !ok {
		return err
	}

	view, err := that.gameUseCase.GetState(ctx, payload.SessionID)

	return that.reply(client, msg.Action, payload.SessionID, view, err)
}

func (that *Server) handleGameTurn(ctx context.Context, client *client, msg *Message) error {
	payload, ok, err := that.readPayload(client, msg)
	if !ok {
		return err
	}

	if payload.Cell == nil {
		return client.sendError(msg.Action, nil, "cell is required")
	}

	view, err := that.gameUseCase.MakeTurn(ctx, payload.SessionID, *payload.Cell)

	return that.reply(client, msg.Action, payload.SessionID, view, err)
}

func (that *Server) handleGameJump(ctx context.Context, client *client, msg *Message) error {
	payload, ok, err := that.readPayload(client, msg)
	if !ok {
		return err
	}

	if payload.NodeID == nil {
		return client.sendError(msg.Action, nil, "node_id is required")
	}

	view, err := that.gameUseCase.JumpTo(ctx, payload.SessionID, *payload.NodeID)

	return that.reply(client, msg.Action, payload.SessionID, view, err)
}

func (that *Server) handleEndSession(ctx context.Context, client *client, msg *Message) error {
	payload, ok, err := that.readPayload(client, msg)
	if !ok {
		return err
	}

	if err = that.gameUseCase.EndSession(ctx, payload.SessionID); err != nil {
		return that.reply(client, msg.Action, payload.SessionID, nil, err)
	}

	if client.sessionID == payload.SessionID {
		client.sessionID = ""
	}

	return client.sendMessage(msg.Action, Payload{SessionID: payload.SessionID})
}

// readPayload decodes the payload and falls back to the remembered session
// id. When ok is false the client has already been answered and err is the
// result of that reply.
func (that *Server) readPayload(client *client, msg *Message) (Payload, bool, error) {
	var payload Payload

	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			that.logger.Debug("failed to unmarshal payload", "action", msg.Action, "error", err)
			return payload, false, client.sendError(msg.Action, nil, "malformed payload")
		}
	}

	if payload.SessionID == "" {
		payload.SessionID = client.sessionID
	}

	if payload.SessionID == "" {
		return payload, false, client.sendError(msg.Action, nil, errMsgSessionMissing)
	}

	if !pkg.IsSessionID(payload.SessionID) {
		return payload, false, client.sendError(msg.Action, nil, apperror.ErrSessionNotFound.Error())
	}

	return payload, true, nil
}

// reply answers an action on sessionID. A returned view proves the session
// exists, so only then does the connection remember it.
func (that *Server) reply(client *client, action, sessionID string, view *entity.View, err error) error {
	if view != nil {
		client.sessionID = sessionID
	}

	if err == nil {
		return client.sendMessage(action, Payload{SessionID: sessionID, Session: view})
	}

	if isClientError(err) {
		return client.sendError(action, view, err.Error())
	}

	that.logger.Error("action failed", "action", action, "sessionID", sessionID, "error", err)

	return client.sendError(action, nil, errMsgInternal)
}

func isClientError(err error) bool {
	return errors.Is(err, apperror.ErrSessionNotFound) ||
		errors.Is(err, apperror.ErrNodeNotFound) ||
		errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrGameFinished) ||
		errors.Is(err, tictactoe.ErrInvalidCell)
}
