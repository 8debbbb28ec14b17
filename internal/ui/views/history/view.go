package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "tempo/internal/modules/session/dto"
	"tempo/internal/ui/theme"
)

const (
	recentLimit = 30
	reportDays  = 7
)

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	ListRecent(ctx context.Context, limit int) ([]sessiondto.SessionOutput, error)
	ReportDaily(ctx context.Context, days int) ([]sessiondto.DailyTotalOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Sessions []sessiondto.SessionOutput
	Totals   []sessiondto.DailyTotalOutput
	Err      error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     HistoryPort
	sessions []sessiondto.SessionOutput
	totals   []sessiondto.DailyTotalOutput
	err      error
	view     viewport.Model
	width    int
	height   int
}

func New(port HistoryPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)
	return Model{port: port, view: vp}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = m.width - 2
		m.view.Height = m.height - 2

	case LoadedMsg:
		m.sessions = msg.Sessions
		m.totals = msg.Totals
		m.err = msg.Err
		m.view.SetContent(m.renderContent())
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.view.View()
}

func (m Model) renderContent() string {
	var sb strings.Builder
	if m.err != nil {
		return theme.Bad.Render(m.err.Error())
	}

	sb.WriteString(theme.Title.Render(fmt.Sprintf("Last %d days", reportDays)) + "\n")
	if len(m.totals) == 0 {
		sb.WriteString(theme.Muted.Render("  nothing logged yet") + "\n")
	}
	for _, total := range m.totals {
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			total.Date,
			theme.Hot.Render(total.Total),
			theme.Muted.Render(fmt.Sprintf("(%d sessions)", total.Sessions))))
	}

	sb.WriteString("\n" + theme.Title.Render("Recent sessions") + "\n")
	for _, session := range m.sessions {
		line := fmt.Sprintf("  %s  %-20s %8s", session.Date, session.ActivityName, session.Duration)
		if session.Mood > 0 {
			line += "  " + theme.Muted.Render(strings.Repeat("★", session.Mood))
		}
		sb.WriteString(line + "\n")
		if session.Notes != "" {
			sb.WriteString(theme.Muted.Render("      "+session.Notes) + "\n")
		}
	}
	return sb.String()
}

// Reload re-fetches totals and recent sessions.
func (m Model) Reload() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.port.ListRecent(context.Background(), recentLimit)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		totals, err := m.port.ReportDaily(context.Background(), reportDays)
		return LoadedMsg{Sessions: sessions, Totals: totals, Err: err}
	}
}
