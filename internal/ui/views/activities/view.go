package activities

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	activitydto "tempo/internal/modules/activity/dto"
	"tempo/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ActivityPort interface {
	List(ctx context.Context, includeArchived bool) ([]activitydto.ActivityOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Activities []activitydto.ActivityOutput
	Err        error
}

// ─── list item ───────────────────────────────────────────────────────────────

type activityItem struct {
	activity activitydto.ActivityOutput
}

func (i activityItem) Title() string { return i.activity.Name }
func (i activityItem) Description() string {
	if i.activity.GoalID != "" {
		return fmt.Sprintf("goal: %s", i.activity.GoalID)
	}
	return "no goal"
}
func (i activityItem) FilterValue() string { return i.activity.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    ActivityPort
	list    list.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port ActivityPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Activities"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Activities — " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Activities))
		for i, a := range msg.Activities {
			items[i] = activityItem{activity: a}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading activities…")
	}
	return m.list.View()
}

// SelectedActivityID returns the current selection's ID, if any.
func (m Model) SelectedActivityID() (string, bool) {
	if item, ok := m.list.SelectedItem().(activityItem); ok {
		return item.activity.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload re-fetches the activity list.
func (m Model) Reload() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		activities, err := m.port.List(context.Background(), false)
		return LoadedMsg{Activities: activities, Err: err}
	}
}
