package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/render"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
	"github.com/rocketscienceinc/tictactoe-history/internal/usecase"
)

func main() {
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	manager := usecase.NewGameManager(logger, repository.NewMemorySessionRepository())

	m, err := newModel(ctx, manager, render.NewStyles(lipgloss.DefaultRenderer()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "console failed: %v\n", err)
		os.Exit(1)
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "console failed: %v\n", err)
		os.Exit(1)
	}

	if final, ok := result.(model); ok {
		if err = manager.EndSession(ctx, final.SessionID()); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
			fmt.Fprintf(os.Stderr, "failed to end session: %v\n", err)
		}
	}
}
