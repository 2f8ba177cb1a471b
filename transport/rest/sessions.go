package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type turnRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	NodeID *int `json:"node_id"`
}

type errorResponse struct {
	Error   string       `json:"error"`
	Session *entity.View `json:"session,omitempty"`
}

func (that *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	view, err := that.gameUseCase.StartSession(r.Context())
	if err != nil {
		that.writeError(w, "StartSession", nil, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, view)
}

func (that *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := that.sessionID(w, r)
	if !ok {
		return
	}

	view, err := that.gameUseCase.GetState(r.Context(), sessionID)
	if err != nil {
		that.writeError(w, "GetState", nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := that.sessionID(w, r)
	if !ok {
		return
	}

	if err := that.gameUseCase.EndSession(r.Context(), sessionID); err != nil {
		that.writeError(w, "EndSession", nil, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handleMakeTurn(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := that.sessionID(w, r)
	if !ok {
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"cell\": <0-8>}"})
		return
	}

	view, err := that.gameUseCase.MakeTurn(r.Context(), sessionID, *req.Cell)
	if err != nil {
		that.writeError(w, "MakeTurn", view, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Server) handleJumpTo(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := that.sessionID(w, r)
	if !ok {
		return
	}

	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NodeID == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"node_id\": <id>}"})
		return
	}

	view, err := that.gameUseCase.JumpTo(r.Context(), sessionID, *req.NodeID)
	if err != nil {
		that.writeError(w, "JumpTo", view, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

// sessionID - reads the session id from the path; malformed ids are reported as unknown sessions.
func (that *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	if !pkg.IsSessionID(sessionID) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
		return "", false
	}

	return sessionID, true
}

func (that *Server) writeError(w http.ResponseWriter, method string, view *entity.View, err error) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error(), Session: view})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound), errors.Is(err, apperror.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, tictactoe.ErrInvalidCell):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
