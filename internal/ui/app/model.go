package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	activitydto "tempo/internal/modules/activity/dto"
	goaldto "tempo/internal/modules/goal/dto"
	hookdto "tempo/internal/modules/hook/dto"
	sessiondto "tempo/internal/modules/session/dto"
	"tempo/internal/ui/components"
	"tempo/internal/ui/theme"
	activitiesview "tempo/internal/ui/views/activities"
	goalsview "tempo/internal/ui/views/goals"
	historyview "tempo/internal/ui/views/history"
	timerview "tempo/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error)
	Pause(ctx context.Context) (sessiondto.StatusOutput, error)
	Resume(ctx context.Context) (sessiondto.StatusOutput, error)
	End(ctx context.Context) (sessiondto.StatusOutput, error)
	Save(ctx context.Context, input sessiondto.SaveInput) (sessiondto.SaveOutput, error)
	Status(ctx context.Context) (sessiondto.StatusOutput, error)
	ListRecent(ctx context.Context, limit int) ([]sessiondto.SessionOutput, error)
	ReportDaily(ctx context.Context, days int) ([]sessiondto.DailyTotalOutput, error)
	TotalByGoal(ctx context.Context, goalID string) (int64, error)
}

type activityPort interface {
	Add(ctx context.Context, input activitydto.AddInput) (activitydto.ActivityOutput, error)
	List(ctx context.Context, includeArchived bool) ([]activitydto.ActivityOutput, error)
}

type goalPort interface {
	Add(ctx context.Context, input goaldto.AddInput) (goaldto.GoalOutput, error)
	List(ctx context.Context) ([]goaldto.GoalOutput, error)
	Recompute(ctx context.Context, id string, totalSeconds int64) (goaldto.GoalOutput, error)
}

type hookPort interface {
	Run(ctx context.Context, input hookdto.ExecuteInput) (hookdto.ExecuteOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabActivities
	tabGoals
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{
	"Timer", "Activities", "Goals", "History",
}

// ─── async messages ───────────────────────────────────────────────────────────

type sessionStartedMsg struct {
	out sessiondto.StartOutput
	err error
}

type actionDoneMsg struct {
	status string
	err    error
}

type hookRanMsg struct {
	out hookdto.ExecuteOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Pause   key.Binding
	Resume  key.Binding
	End     key.Binding
	Save    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Resume:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		End:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end")),
		Save:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save session")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Resume},
		{k.End, k.Save},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the elapsed-time
// tick bridge, the global help overlay, and the command palette. All business
// logic is delegated to port interfaces; all rendering to sub-views.
type Model struct {
	dataPath string

	session  sessionPort
	activity activityPort
	goal     goalPort
	hook     hookPort

	ticks <-chan int64

	timerView    timerview.Model
	activityView activitiesview.Model
	goalView     goalsview.Model
	historyView  historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	dataPath string,
	session sessionPort,
	activity activityPort,
	goal goalPort,
	hook hookPort,
	ticks <-chan int64,
) Model {
	return Model{
		dataPath:     dataPath,
		session:      session,
		activity:     activity,
		goal:         goal,
		hook:         hook,
		ticks:        ticks,
		timerView:    timerview.New(sessionViewBridge{p: session}),
		activityView: activitiesview.New(activityViewBridge{p: activity}),
		goalView:     goalsview.New(goalViewBridge{p: goal}),
		historyView:  historyview.New(historyViewBridge{p: session}),
		activeTab:    tabTimer,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.activityView.Init(),
		m.goalView.Init(),
		m.historyView.Init(),
		m.waitForTick(),
	)
}

// waitForTick blocks on the engine's tick channel and re-arms itself, so the
// readout advances while a session is active without polling.
func (m Model) waitForTick() tea.Cmd {
	if m.ticks == nil {
		return nil
	}
	return func() tea.Msg {
		seconds, ok := <-m.ticks
		if !ok {
			return nil
		}
		return timerview.TickMsg{Seconds: seconds}
	}
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case timerview.TickMsg:
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		return m, tea.Batch(cmd, m.waitForTick())

	case sessionStartedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
		} else if msg.out.AlreadyActive {
			m.status = "a session is already running: " + msg.out.ActivityName
		} else {
			m.status = "tracking " + msg.out.ActivityName
			m.activeTab = tabTimer
		}
		cmds = append(cmds, m.timerView.Refresh())

	case timerview.SavedMsg:
		if msg.Err != nil {
			m.status = "save failed: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("saved %s across %d day(s)", msg.Out.Duration, msg.Out.Segments)
			cmds = append(cmds, m.historyView.Reload(), m.goalView.Reload())
		}
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.status
		}
		cmds = append(cmds, m.activityView.Reload(), m.goalView.Reload())

	case hookRanMsg:
		if msg.err != nil {
			m.status = "hook: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("hook %s/%s exit=%d", msg.out.HookName, msg.out.CommandID, msg.out.ExitCode)
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to a sub-view while it is consuming free-form input.
		if m.subViewCapturing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "s":
			if m.activeTab == tabActivities {
				if id, ok := m.activityView.SelectedActivityID(); ok {
					cmds = append(cmds, m.startSessionCmd(id, ""))
				}
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabActivities:
		m.activityView, tabCmd = m.activityView.Update(msg)
	case tabGoals:
		m.goalView, tabCmd = m.goalView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabActivities:
		return m.activityView.View()
	case tabGoals:
		return m.goalView.View()
	case tabHistory:
		return m.historyView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "tempo  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "session:start":
		activityID := ""
		if len(parts) >= 2 {
			activityID = parts[1]
		} else if id, ok := m.activityView.SelectedActivityID(); ok {
			activityID = id
		}
		if activityID == "" {
			m.status = "usage: session:start <activity> [goal]"
			return m, nil
		}
		goalID := ""
		if len(parts) >= 3 {
			goalID = parts[2]
		}
		return m, m.startSessionCmd(activityID, goalID)

	case "session:pause":
		m.activeTab = tabTimer
		return m, m.sessionOpCmd("paused", m.session.Pause)

	case "session:resume":
		m.activeTab = tabTimer
		return m, m.sessionOpCmd("resumed", m.session.Resume)

	case "session:end":
		m.activeTab = tabTimer
		return m, m.sessionOpCmd("ended; press w on Timer to save", m.session.End)

	case "session:save":
		if len(parts) < 2 {
			m.status = "usage: session:save <mood> [notes]"
			return m, nil
		}
		mood, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid mood"
			return m, nil
		}
		notes := strings.TrimSpace(strings.TrimPrefix(input, parts[0]+" "+parts[1]))
		return m, m.saveSessionCmd(mood, notes)

	case "activity:add":
		if len(parts) < 2 {
			m.status = "usage: activity:add <name> [goal]"
			return m, nil
		}
		goalID := ""
		if len(parts) >= 3 {
			goalID = parts[len(parts)-1]
			parts = parts[:len(parts)-1]
		}
		name := strings.Join(parts[1:], " ")
		return m, m.addActivityCmd(name, goalID)

	case "goal:add":
		if len(parts) < 3 {
			m.status = "usage: goal:add <hours> <name>"
			return m, nil
		}
		hours, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			m.status = "invalid hours"
			return m, nil
		}
		name := strings.Join(parts[2:], " ")
		m.activeTab = tabGoals
		return m, m.addGoalCmd(name, int64(hours*3600))

	case "goal:recompute":
		if len(parts) < 2 {
			m.status = "usage: goal:recompute <goal>"
			return m, nil
		}
		m.activeTab = tabGoals
		return m, m.recomputeGoalCmd(parts[1])

	case "report:daily":
		m.activeTab = tabHistory
		return m, m.historyView.Reload()

	case "hook:run":
		if len(parts) < 3 {
			m.status = "usage: hook:run <hook> <command> [json]"
			return m, nil
		}
		prefix := parts[0] + " " + parts[1] + " " + parts[2]
		inputJSON := strings.TrimSpace(strings.TrimPrefix(input, prefix))
		return m, m.runHookCmd(parts[1], parts[2], inputJSON)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewCapturing reports whether the active tab is consuming free-form
// input (a list filter or the save form), in which case global key bindings
// must yield.
func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.CaptureInput()
	case tabActivities:
		return m.activityView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.activityView, _ = m.activityView.Update(sz)
	m.goalView, _ = m.goalView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) startSessionCmd(activityID, goalID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), sessiondto.StartInput{
			ActivityID: activityID,
			GoalID:     goalID,
		})
		return sessionStartedMsg{out: out, err: err}
	}
}

func (m Model) sessionOpCmd(done string, op func(context.Context) (sessiondto.StatusOutput, error)) tea.Cmd {
	return func() tea.Msg {
		if _, err := op(context.Background()); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: done}
	}
}

func (m Model) saveSessionCmd(mood int, notes string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Save(context.Background(), sessiondto.SaveInput{Mood: mood, Notes: notes})
		return timerview.SavedMsg{Out: out, Err: err}
	}
}

func (m Model) addActivityCmd(name, goalID string) tea.Cmd {
	return func() tea.Msg {
		activity, err := m.activity.Add(context.Background(), activitydto.AddInput{Name: name, GoalID: goalID})
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "added activity " + activity.ID}
	}
}

func (m Model) addGoalCmd(name string, targetSeconds int64) tea.Cmd {
	return func() tea.Msg {
		goal, err := m.goal.Add(context.Background(), goaldto.AddInput{Name: name, TargetSeconds: targetSeconds})
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "added goal " + goal.ID}
	}
}

func (m Model) recomputeGoalCmd(goalID string) tea.Cmd {
	return func() tea.Msg {
		total, err := m.session.TotalByGoal(context.Background(), goalID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		goal, err := m.goal.Recompute(context.Background(), goalID, total)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("recomputed %s: %.1f%%", goal.Name, goal.PercentComplete)}
	}
}

func (m Model) runHookCmd(hookName, commandID, inputJSON string) tea.Cmd {
	return func() tea.Msg {
		if m.hook == nil {
			return hookRanMsg{err: fmt.Errorf("hook adapter not configured")}
		}
		out, err := m.hook.Run(context.Background(), hookdto.ExecuteInput{
			HookName:  hookName,
			CommandID: commandID,
			InputJSON: inputJSON,
			DataPath:  m.dataPath,
			Cwd:       m.dataPath,
		})
		return hookRanMsg{out: out, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed
// by a specific sub-view.

type sessionViewBridge struct{ p sessionPort }

func (b sessionViewBridge) Status(ctx context.Context) (sessiondto.StatusOutput, error) {
	return b.p.Status(ctx)
}
func (b sessionViewBridge) Pause(ctx context.Context) (sessiondto.StatusOutput, error) {
	return b.p.Pause(ctx)
}
func (b sessionViewBridge) Resume(ctx context.Context) (sessiondto.StatusOutput, error) {
	return b.p.Resume(ctx)
}
func (b sessionViewBridge) End(ctx context.Context) (sessiondto.StatusOutput, error) {
	return b.p.End(ctx)
}
func (b sessionViewBridge) Save(ctx context.Context, input sessiondto.SaveInput) (sessiondto.SaveOutput, error) {
	return b.p.Save(ctx, input)
}

type activityViewBridge struct{ p activityPort }

func (b activityViewBridge) List(ctx context.Context, includeArchived bool) ([]activitydto.ActivityOutput, error) {
	return b.p.List(ctx, includeArchived)
}

type goalViewBridge struct{ p goalPort }

func (b goalViewBridge) List(ctx context.Context) ([]goaldto.GoalOutput, error) {
	return b.p.List(ctx)
}

type historyViewBridge struct{ p sessionPort }

func (b historyViewBridge) ListRecent(ctx context.Context, limit int) ([]sessiondto.SessionOutput, error) {
	return b.p.ListRecent(ctx, limit)
}
func (b historyViewBridge) ReportDaily(ctx context.Context, days int) ([]sessiondto.DailyTotalOutput, error) {
	return b.p.ReportDaily(ctx, days)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
