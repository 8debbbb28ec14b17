package goals

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	goaldto "tempo/internal/modules/goal/dto"
	"tempo/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type GoalPort interface {
	List(ctx context.Context) ([]goaldto.GoalOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Goals []goaldto.GoalOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   GoalPort
	goals  []goaldto.GoalOutput
	err    error
	width  int
	height int
}

func New(port GoalPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoadedMsg:
		m.goals = msg.Goals
		m.err = msg.Err
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Goals") + "\n\n")

	switch {
	case m.err != nil:
		sb.WriteString(theme.Bad.Render(m.err.Error()) + "\n")
	case len(m.goals) == 0:
		sb.WriteString(theme.Muted.Render("No goals yet. Use  goal:add <hours> <name>  in the palette.") + "\n")
	default:
		for _, goal := range m.goals {
			sb.WriteString(m.renderGoal(goal) + "\n")
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(sb.String())
}

func (m Model) renderGoal(goal goaldto.GoalOutput) string {
	barWidth := m.width - 40
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(goal.PercentComplete / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := theme.Good.Render(strings.Repeat("█", filled)) +
		theme.Muted.Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf("%s\n  %s %5.1f%%  %s / %s\n",
		theme.Hot.Render(goal.Name),
		bar,
		goal.PercentComplete,
		hours(goal.ProgressSeconds),
		hours(goal.TargetSeconds))
}

func hours(seconds int64) string {
	return fmt.Sprintf("%.1fh", float64(seconds)/3600)
}

// Reload re-fetches the goal list.
func (m Model) Reload() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		goals, err := m.port.List(context.Background())
		return LoadedMsg{Goals: goals, Err: err}
	}
}
