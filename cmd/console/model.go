package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/render"
)

const usage = "commands: play <cell 0-8>, jump <move id>, new, quit"

var (
	errQuit  = errors.New("quit")
	errUsage = errors.New(usage)
)

type gameUseCase interface {
	StartSession(ctx context.Context) (*entity.View, error)
	MakeTurn(ctx context.Context, sessionID string, cell int) (*entity.View, error)
	JumpTo(ctx context.Context, sessionID string, nodeID int) (*entity.View, error)
	EndSession(ctx context.Context, sessionID string) error
}

// model is the console screen: the rendered session above a command prompt.
type model struct {
	ctx    context.Context
	game   gameUseCase
	styles render.Styles

	input    textinput.Model
	view     *entity.View
	message  string
	quitting bool
}

func newModel(ctx context.Context, game gameUseCase, styles render.Styles) (model, error) {
	view, err := game.StartSession(ctx)
	if err != nil {
		return model{}, fmt.Errorf("failed to start session: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "play 4"
	input.Prompt = "> "
	input.CharLimit = 32
	input.Focus()

	return model{
		ctx:    ctx,
		game:   game,
		styles: styles,
		input:  input,
		view:   view,
	}, nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()

	if line == "" {
		return m, nil
	}

	next, err := execute(m.ctx, m.game, m.view.SessionID, line)
	if errors.Is(err, errQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	m.message = ""
	if err != nil {
		m.message = err.Error()
	}

	if next != nil {
		m.view = next
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Render(m.view))
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(m.styles.Error.Render("! " + m.message))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(usage + "  (esc to quit)"))

	return b.String()
}

// SessionID is the session on screen, so the caller can end it after the program exits.
func (m model) SessionID() string {
	return m.view.SessionID
}

func execute(ctx context.Context, game gameUseCase, sessionID, line string) (*entity.View, error) {
	fields := strings.Fields(line)

	switch fields[0] {
	case "quit", "exit":
		return nil, errQuit
	case "new":
		if err := game.EndSession(ctx, sessionID); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, err
		}
		return game.StartSession(ctx)
	case "play", "jump":
		if len(fields) != 2 {
			return nil, errUsage
		}

		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", fields[1])
		}

		if fields[0] == "play" {
			return game.MakeTurn(ctx, sessionID, n)
		}
		return game.JumpTo(ctx, sessionID, n)
	default:
		return nil, errUsage
	}
}
