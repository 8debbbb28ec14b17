package timer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "tempo/internal/modules/session/dto"
	"tempo/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	Status(ctx context.Context) (sessiondto.StatusOutput, error)
	Pause(ctx context.Context) (sessiondto.StatusOutput, error)
	Resume(ctx context.Context) (sessiondto.StatusOutput, error)
	End(ctx context.Context) (sessiondto.StatusOutput, error)
	Save(ctx context.Context, input sessiondto.SaveInput) (sessiondto.SaveOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type StatusMsg struct {
	Status sessiondto.StatusOutput
	Err    error
}

// TickMsg carries the engine's elapsed seconds while the session is active.
type TickMsg struct{ Seconds int64 }

// SavedMsg bubbles up so the app can refresh history and show the result.
type SavedMsg struct {
	Out sessiondto.SaveOutput
	Err error
}

// ─── model ───────────────────────────────────────────────────────────────────

type saveStage int

const (
	saveHidden saveStage = iota
	saveMood
	saveNotes
)

type Model struct {
	port    SessionPort
	status  sessiondto.StatusOutput
	elapsed string

	stage saveStage
	mood  int
	notes textinput.Model

	width  int
	height int
}

func New(port SessionPort) Model {
	ti := textinput.New()
	ti.Placeholder = "what did you work on?"
	ti.CharLimit = 512
	return Model{port: port, notes: ti, elapsed: "0:00"}
}

func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case StatusMsg:
		if msg.Err == nil {
			m.status = msg.Status
			m.elapsed = msg.Status.Elapsed
		}

	case TickMsg:
		m.status.ElapsedSeconds = msg.Seconds
		m.elapsed = formatSeconds(msg.Seconds)

	case SavedMsg:
		if msg.Err == nil {
			m.stage = saveHidden
			m.mood = 0
			m.notes.SetValue("")
			return m, m.refreshCmd()
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.stage == saveNotes {
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.stage {
	case saveMood:
		switch msg.String() {
		case "esc":
			m.stage = saveHidden
		case "1", "2", "3", "4", "5":
			m.mood = int(msg.String()[0] - '0')
			m.stage = saveNotes
			return m, m.notes.Focus()
		}
		return m, nil

	case saveNotes:
		switch msg.String() {
		case "esc":
			m.stage = saveHidden
			m.notes.Blur()
			return m, nil
		case "enter":
			notes := strings.TrimSpace(m.notes.Value())
			m.notes.Blur()
			return m, m.saveCmd(m.mood, notes)
		}
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "p":
		return m, m.pauseCmd()
	case "r":
		return m, m.resumeCmd()
	case "e":
		return m, m.endCmd()
	case "w":
		if m.status.HasSession && m.status.State == "ended" {
			m.stage = saveMood
		}
	}
	return m, nil
}

// CaptureInput reports whether the save form is consuming keystrokes, so the
// app leaves global bindings alone.
func (m Model) CaptureInput() bool {
	return m.stage != saveHidden
}

// Refresh re-reads session status from the port.
func (m Model) Refresh() tea.Cmd {
	return m.refreshCmd()
}

// ─── view ────────────────────────────────────────────────────────────────────

var bigDigits = lipgloss.NewStyle().
	Foreground(theme.Lavender).
	Bold(true).
	Padding(1, 4)

func (m Model) View() string {
	var sb strings.Builder

	if !m.status.HasSession {
		sb.WriteString(theme.Title.Render("No session") + "\n\n")
		sb.WriteString(theme.Muted.Render("Pick an activity on the Activities tab and press s to start.") + "\n")
		return m.place(sb.String())
	}

	sb.WriteString(theme.Title.Render(m.status.ActivityName) + "  " + m.stateBadge() + "\n")
	sb.WriteString(bigDigits.Render(m.elapsed) + "\n")
	if m.status.GoalID != "" {
		sb.WriteString(theme.Muted.Render("goal: ") + m.status.GoalID + "\n")
	}
	sb.WriteString("\n")

	switch m.stage {
	case saveMood:
		sb.WriteString(theme.Hot.Render("How did it go?") + theme.Muted.Render("  1=rough … 5=great  (esc to cancel)") + "\n")
	case saveNotes:
		sb.WriteString(theme.Hot.Render("Notes") + "\n")
		sb.WriteString(m.notes.View() + "\n")
		sb.WriteString(theme.Muted.Render("enter: save  esc: cancel") + "\n")
	default:
		sb.WriteString(theme.Muted.Render(m.hints()) + "\n")
	}

	return m.place(sb.String())
}

func (m Model) stateBadge() string {
	switch m.status.State {
	case "active":
		return theme.Good.Render("● tracking")
	case "paused":
		return theme.Hot.Render("⏸ paused")
	case "ended":
		return theme.Bad.Render("■ ended")
	}
	return ""
}

func (m Model) hints() string {
	switch m.status.State {
	case "active":
		return "p: pause  e: end"
	case "paused":
		return "r: resume  e: end"
	case "ended":
		return "w: save session"
	}
	return ""
}

func (m Model) place(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func formatSeconds(total int64) string {
	if total < 0 {
		total = 0
	}
	h := total / 3600
	mm := (total % 3600) / 60
	ss := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mm, ss)
	}
	return fmt.Sprintf("%d:%02d", mm, ss)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Status(context.Background())
		return StatusMsg{Status: status, Err: err}
	}
}

func (m Model) pauseCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Pause(context.Background())
		return StatusMsg{Status: status, Err: err}
	}
}

func (m Model) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Resume(context.Background())
		return StatusMsg{Status: status, Err: err}
	}
}

func (m Model) endCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.End(context.Background())
		return StatusMsg{Status: status, Err: err}
	}
}

func (m Model) saveCmd(mood int, notes string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Save(context.Background(), sessiondto.SaveInput{Mood: mood, Notes: notes})
		return SavedMsg{Out: out, Err: err}
	}
}
