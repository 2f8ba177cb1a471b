package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const (
	emptyGlyph   = "."
	currentGlyph = ">"
)

// Styles colour the parts of a rendered view. On a terminal without colour
// support only the brackets around winning cells and the '>' marker remain.
type Styles struct {
	Status  lipgloss.Style
	Cell    lipgloss.Style
	Winning lipgloss.Style
	Branch  lipgloss.Style
	Move    lipgloss.Style
	Current lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
}

func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Status: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Cell: r.NewStyle().
			Foreground(lipgloss.Color("252")),
		Winning: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("28")),
		Branch: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")),
		Move: r.NewStyle().
			Foreground(lipgloss.Color("245")),
		Current: r.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("25")),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("203")),
		Help: r.NewStyle().
			Foreground(lipgloss.Color("242")),
	}
}

// Render draws the status line, the board and every branch. Cells on the
// winning line are bracketed, and the current move is marked with '>'.
func (that Styles) Render(view *entity.View) string {
	var sb strings.Builder

	sb.WriteString(that.Status.Render(view.Status))
	sb.WriteString("\n\n")

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cell := row*3 + col

			glyph := view.Board[cell]
			if glyph == entity.EmptyCell {
				glyph = emptyGlyph
			}

			if slices.Contains(view.WinningLine, cell) {
				sb.WriteString(that.Winning.Render("[" + glyph + "]"))
			} else {
				sb.WriteString(that.Cell.Render(" " + glyph + " "))
			}
		}
		sb.WriteString("\n")
	}

	for _, branch := range view.Branches {
		sb.WriteString("\n")
		sb.WriteString(that.Branch.Render(fmt.Sprintf("Branch #%d", branch.Number)))
		sb.WriteString("\n")

		for _, move := range branch.Moves {
			if move.IsCurrent {
				sb.WriteString(that.Current.Render(fmt.Sprintf("%s %d. %s", currentGlyph, move.ID, move.Label)))
			} else {
				sb.WriteString(that.Move.Render(fmt.Sprintf("  %d. %s", move.ID, move.Label)))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
