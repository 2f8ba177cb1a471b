package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager runs session actions one at a time per session and keeps the
// repository in step with the controller.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	locks       *sessionLocks
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		sessionRepo: sessionRepo,
		locks:       newSessionLocks(),
	}
}

func (that *GameManager) StartSession(ctx context.Context) (*entity.View, error) {
	session := entity.NewSession(pkg.GenerateSessionID())

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session started", "sessionID", session.ID)

	return tictactoe.Snapshot(session), nil
}

func (that *GameManager) GetState(ctx context.Context, sessionID string) (*entity.View, error) {
	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return tictactoe.Snapshot(session), nil
}

// MakeTurn plays cell in the session. A turn the rules reject returns the
// unchanged view together with the reason.
func (that *GameManager) MakeTurn(ctx context.Context, sessionID string, cell int) (*entity.View, error) {
	return that.apply(ctx, sessionID, "MakeTurn", func(session *entity.Session) error {
		return tictactoe.MakeTurn(session, cell)
	})
}

// JumpTo moves the session to nodeID. An unknown node returns the unchanged view.
func (that *GameManager) JumpTo(ctx context.Context, sessionID string, nodeID int) (*entity.View, error) {
	return that.apply(ctx, sessionID, "JumpTo", func(session *entity.Session) error {
		return tictactoe.JumpTo(session, nodeID)
	})
}

func (that *GameManager) EndSession(ctx context.Context, sessionID string) error {
	unlock := that.locks.lock(sessionID)
	defer unlock()

	if err := that.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session ended", "sessionID", sessionID)

	return nil
}

func (that *GameManager) apply(ctx context.Context, sessionID, method string, action func(*entity.Session) error) (*entity.View, error) {
	log := that.logger.With("method", method, "sessionID", sessionID)

	unlock := that.locks.lock(sessionID)
	defer unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err = action(session); err != nil {
		if isRuleRejection(err) {
			log.Debug("action ignored", "reason", err)
			return tictactoe.Snapshot(session), err
		}

		return nil, fmt.Errorf("failed to apply action: %w", err)
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	view := tictactoe.Snapshot(session)

	log.Debug("action applied", "currentID", view.CurrentID, "branches", len(view.Branches), "finished", view.IsFinished())

	return view, nil
}

func (that *GameManager) getSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// isRuleRejection reports errors from the controller that left the session unchanged.
func isRuleRejection(err error) bool {
	return errors.Is(err, apperror.ErrGameFinished) ||
		errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrNodeNotFound) ||
		errors.Is(err, tictactoe.ErrInvalidCell)
}
