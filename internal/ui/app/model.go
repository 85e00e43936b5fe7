package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	achdto "studysprint/internal/modules/achievement/dto"
	statsdto "studysprint/internal/modules/stats/dto"
	storedto "studysprint/internal/modules/store/dto"
	"studysprint/internal/ui/components"
	"studysprint/internal/ui/theme"
	achview "studysprint/internal/ui/views/achievements"
	statsview "studysprint/internal/ui/views/stats"
	tagsview "studysprint/internal/ui/views/tags"
	timerview "studysprint/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type timerPort interface {
	timerview.TimerPort
}

type storePort interface {
	ListTags(ctx context.Context) ([]storedto.TagOutput, error)
	AddTag(ctx context.Context, input storedto.AddTagInput) (storedto.TagOutput, error)
	SetTagDurations(ctx context.Context, input storedto.SetTagDurationsInput) (storedto.TagOutput, error)
	DeleteTag(ctx context.Context, tagID string) error
	SetDefaultTag(ctx context.Context, tagID string) (storedto.TagOutput, error)
	GetSettings(ctx context.Context) (storedto.SettingsOutput, error)
	UpdateSettings(ctx context.Context, input storedto.UpdateSettingsInput) (storedto.SettingsOutput, error)
	UpdateProfile(ctx context.Context, input storedto.UpdateProfileInput) (storedto.ProfileOutput, error)
	ClearSessions(ctx context.Context) (storedto.ClearOutput, error)
	ExportNotes(ctx context.Context, input storedto.ExportInput) (storedto.ExportOutput, error)
}

type achievementPort interface {
	List(ctx context.Context) (achdto.ListOutput, error)
	Refresh(ctx context.Context) (achdto.ListOutput, error)
}

type statsPort interface {
	Summary(ctx context.Context, input statsdto.SummaryInput) (statsdto.SummaryOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabAchievements
	tabStats
	tabTags
	tabCount
)

var tabLabels = [tabCount]string{
	"Timer", "Achievements", "Stats", "Subjects",
}

// ─── async messages ───────────────────────────────────────────────────────────

type settingsLoadedMsg struct {
	settings storedto.SettingsOutput
	err      error
}

// storeChangedMsg follows any palette mutation. settings is set when the
// command touched them so the theme can follow.
type storeChangedMsg struct {
	status   string
	settings *storedto.SettingsOutput
	err      error
}

type achievementsRefreshedMsg struct {
	out achdto.ListOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab        key.Binding
	Help       key.Binding
	Palette    key.Binding
	Quit       key.Binding
	Toggle     key.Binding
	ResetFocus key.Binding
	ResetBreak key.Binding
	Subject    key.Binding
	Default    key.Binding
	Delete     key.Binding
	Filter     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		ResetFocus: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "reset to focus")),
		ResetBreak: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "reset to break")),
		Subject:    key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "switch subject")),
		Default:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "default subject")),
		Delete:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete subject")),
		Filter:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stats filter")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.ResetFocus, k.ResetBreak, k.Subject},
		{k.Default, k.Delete, k.Filter},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the reflection
// prompt, the help overlay and the command palette. Business logic sits
// behind the port interfaces; rendering is delegated to sub-views.
type Model struct {
	store        storePort
	achievements achievementPort

	timerView timerview.Model
	achView   achview.Model
	statsView statsview.Model
	tagsView  tagsview.Model

	activeTab  tabID
	keys       keyMap
	help       help.Model
	showHelp   bool
	palette    components.Palette
	reflection components.Reflection
	themeName  string
	status     string
	width      int
	height     int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(timer timerPort, store storePort, achievements achievementPort, stats statsPort) Model {
	return Model{
		store:        store,
		achievements: achievements,
		timerView:    timerview.New(timer),
		achView:      achview.New(achievementPortBridge{p: achievements}),
		statsView:    statsview.New(stats),
		tagsView:     tagsview.New(tagPortBridge{p: store}),
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
		m.achView.Init(),
		m.statsView.Init(),
		m.tagsView.Init(),
		m.loadSettingsCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The countdown keeps its cadence whatever overlay is open.
	if _, ok := msg.(timerview.TickMsg); ok {
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.HandleTick()
		return m, cmd
	}

	if m.reflection.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.reflection, cmd = m.reflection.Update(msg)
			return m, cmd
		}
	}

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
		return m, nil

	case settingsLoadedMsg:
		if msg.err != nil {
			m.status = "settings: " + msg.err.Error()
			return m, nil
		}
		m.applyTheme(msg.settings.Theme)
		return m, nil

	case timerview.FocusCompletedMsg:
		m.reflection.Open(msg.TagName)
		m.status = "focus complete"
		return m, nil

	case components.ReflectionAnsweredMsg:
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Submit(msg.Focused)
		return m, cmd

	case timerview.SessionRecordedMsg:
		if msg.Err != nil {
			m.status = "session not saved: " + msg.Err.Error()
			return m, nil
		}
		m.status = "session saved"
		return m, tea.Batch(m.refreshAchievementsCmd(), m.statsView.Load(), m.tagsView.Load())

	case achievementsRefreshedMsg:
		if msg.err != nil {
			m.status = "achievements: " + msg.err.Error()
			return m, nil
		}
		if names := newlyUnlocked(msg.out); len(names) > 0 {
			m.status = "unlocked: " + strings.Join(names, ", ")
		}
		var cmd tea.Cmd
		m.achView, cmd = m.achView.Update(achview.LoadedMsg{Out: msg.out})
		return m, cmd

	case storeChangedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		if msg.settings != nil {
			m.applyTheme(msg.settings.Theme)
		}
		m.timerView.Reload()
		return m, tea.Batch(m.tagsView.Load(), m.statsView.Load(), m.refreshAchievementsCmd())

	case tagsview.ChangedMsg:
		return m.Update(storeChangedMsg{status: msg.Status, err: msg.Err})

	case achview.LoadedMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.achView, cmd = m.achView.Update(msg)
		return m, cmd

	case statsview.LoadedMsg:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd

	case tagsview.LoadedMsg:
		var cmd tea.Cmd
		m.tagsView, cmd = m.tagsView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			return m.switchTab((m.activeTab + 1) % tabCount)
		case "shift+tab":
			return m.switchTab((m.activeTab + tabCount - 1) % tabCount)
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabAchievements:
		m.achView, tabCmd = m.achView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	case tabTags:
		m.tagsView, tabCmd = m.tagsView.Update(msg)
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
	case m.reflection.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.reflection.View())
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar))
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabAchievements:
		return m.achView.View()
	case tabStats:
		return m.statsView.View()
	case tabTags:
		return m.tagsView.View()
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
	bar := "studysprint  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	state := m.timerView.State()
	if state.Running && m.activeTab != tabTimer {
		left = theme.Hot.Render("● "+state.Phase+" "+state.Clock) + "  " + left
	}
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
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
	selected, _ := m.tagsView.SelectedTagID()
	if m.activeTab != tabTags || selected == "" {
		selected = m.timerView.State().ActiveTagID
	}

	switch parts[0] {
	case "tag:add":
		if rest == "" {
			m.status = "usage: tag:add <name>"
			return m, nil
		}
		return m, m.storeCmd(func(ctx context.Context) (string, *storedto.SettingsOutput, error) {
			tag, err := m.store.AddTag(ctx, storedto.AddTagInput{Name: rest})
			return "added subject: " + tag.Name, nil, err
		})

	case "tag:default", "tag:delete":
		if selected == "" {
			m.status = "no subject selected"
			return m, nil
		}
		if parts[0] == "tag:delete" {
			return m, m.storeCmd(func(ctx context.Context) (string, *storedto.SettingsOutput, error) {
				return "subject deleted", nil, m.store.DeleteTag(ctx, selected)
			})
		}
		return m, m.storeCmd(func(ctx context.Context) (string, *storedto.SettingsOutput, error) {
			tag, err := m.store.SetDefaultTag(ctx, selected)
			return "default subject: " + tag.Name, nil, err
		})

	case "tag:focus", "tag:break":
		if selected == "" || len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <minutes|->"
			return m, nil
		}
		sec, clear, err := parseMinutes(parts[1])
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		focusPhase := parts[0] == "tag:focus"
		return m, m.storeCmd(func(ctx context.Context) (string, *storedto.SettingsOutput, error) {
			return m.setTagDuration(ctx, selected, focusPhase, sec, clear)
		})

	case "settings:focus", "settings:break":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <minutes>"
			return m, nil
		}
		sec, clear, err := parseMinutes(parts[1])
		if err != nil || clear {
			m.status = "minutes must be a positive number"
			return m, nil
		}
		in := storedto.UpdateSettingsInput{DefaultFocusSec: &sec}
		if parts[0] == "settings:break" {
			in = storedto.UpdateSettingsInput{DefaultBreakSec: &sec}
		}
		return m, m.settingsCmd(in)

	case "settings:theme":
		if len(parts) < 2 {
			m.status = "usage: settings:theme <light|dark>"
			return m, nil
		}
		name := parts[1]
		return m, m.settingsCmd(storedto.UpdateSettingsInput{Theme: &name})

	case "profile:name":
		if rest == "" {
			m.status = "usage: profile:name <name>"
			return m, nil
		}
		return m, m.storeCmd(func(ctx context.Context) (string, *storedto.SettingsOutput, error) {
			p, err := m.store.UpdateProfile(ctx, storedto.UpdateProfileInput{Name: &rest})
			return "profile: " + p.Name, nil, err
		})

	case "history:clear":
		return m, m.storeCmd(func(ctx context.Context) (string, *storedto.SettingsOutput, error) {
			out, err := m.store.ClearSessions(ctx)
			return fmt.Sprintf("cleared %d sessions", out.Removed), nil, err
		})

	case "notes:export":
		return m, m.storeCmd(func(ctx context.Context) (string, *storedto.SettingsOutput, error) {
			out, err := m.store.ExportNotes(ctx, storedto.ExportInput{Dir: rest})
			return fmt.Sprintf("exported %d notes to %s", out.Written, out.Dir), nil, err
		})

	case "achievements:refresh":
		m.activeTab = tabAchievements
		return m, m.refreshAchievementsCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	return m.activeTab == tabTags && m.tagsView.Filtering()
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.achView, _ = m.achView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
	m.tagsView, _ = m.tagsView.Update(sz)
}

// switchTab re-evaluates badges when the achievements tab comes into view.
func (m Model) switchTab(tab tabID) (tea.Model, tea.Cmd) {
	m.activeTab = tab
	if tab == tabAchievements {
		return m, m.refreshAchievementsCmd()
	}
	return m, nil
}

func (m *Model) applyTheme(name string) {
	if name == m.themeName {
		return
	}
	m.themeName = name
	theme.Use(theme.ForTheme(name))
}

// setTagDuration changes one phase override and keeps the other as stored.
func (m Model) setTagDuration(ctx context.Context, tagID string, focusPhase bool, sec int, clear bool) (string, *storedto.SettingsOutput, error) {
	tags, err := m.store.ListTags(ctx)
	if err != nil {
		return "", nil, err
	}
	var current *storedto.TagOutput
	for i := range tags {
		if tags[i].ID == tagID {
			current = &tags[i]
			break
		}
	}
	if current == nil {
		return "", nil, fmt.Errorf("subject %s no longer exists", tagID)
	}
	var value *int
	if !clear {
		value = &sec
	}
	in := storedto.SetTagDurationsInput{
		TagID:             tagID,
		PreferredFocusSec: current.PreferredFocusSec,
		PreferredBreakSec: current.PreferredBreakSec,
	}
	if focusPhase {
		in.PreferredFocusSec = value
	} else {
		in.PreferredBreakSec = value
	}
	tag, err := m.store.SetTagDurations(ctx, in)
	return "durations updated: " + tag.Name, nil, err
}

// parseMinutes accepts a positive number of minutes or "-" to clear.
func parseMinutes(raw string) (sec int, clear bool, err error) {
	if raw == "-" {
		return 0, true, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false, fmt.Errorf("invalid minutes %q", raw)
	}
	return n * 60, false, nil
}

func newlyUnlocked(out achdto.ListOutput) []string {
	var names []string
	for _, item := range out.Items {
		if item.NewlyUnlocked {
			names = append(names, item.Title)
		}
	}
	return names
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadSettingsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.store == nil {
			return settingsLoadedMsg{settings: storedto.SettingsOutput{Theme: "light"}}
		}
		settings, err := m.store.GetSettings(context.Background())
		return settingsLoadedMsg{settings: settings, err: err}
	}
}

func (m Model) storeCmd(fn func(ctx context.Context) (string, *storedto.SettingsOutput, error)) tea.Cmd {
	return func() tea.Msg {
		if m.store == nil {
			return storeChangedMsg{err: fmt.Errorf("store is not configured")}
		}
		status, settings, err := fn(context.Background())
		return storeChangedMsg{status: status, settings: settings, err: err}
	}
}

func (m Model) settingsCmd(in storedto.UpdateSettingsInput) tea.Cmd {
	return m.storeCmd(func(ctx context.Context) (string, *storedto.SettingsOutput, error) {
		out, err := m.store.UpdateSettings(ctx, in)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("settings: focus %dm break %dm theme %s", out.DefaultFocusSec/60, out.DefaultBreakSec/60, out.Theme), &out, nil
	})
}

func (m Model) refreshAchievementsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.achievements == nil {
			return achievementsRefreshedMsg{err: fmt.Errorf("achievements are not configured")}
		}
		out, err := m.achievements.Refresh(context.Background())
		return achievementsRefreshedMsg{out: out, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view, keeping view packages free of knowledge about the wider
// port surface.

type achievementPortBridge struct{ p achievementPort }

func (b achievementPortBridge) List(ctx context.Context) (achdto.ListOutput, error) {
	if b.p == nil {
		return achdto.ListOutput{}, fmt.Errorf("achievements are not configured")
	}
	return b.p.List(ctx)
}

type tagPortBridge struct{ p storePort }

func (b tagPortBridge) ListTags(ctx context.Context) ([]storedto.TagOutput, error) {
	if b.p == nil {
		return nil, fmt.Errorf("store is not configured")
	}
	return b.p.ListTags(ctx)
}
func (b tagPortBridge) SetDefaultTag(ctx context.Context, tagID string) (storedto.TagOutput, error) {
	return b.p.SetDefaultTag(ctx, tagID)
}
func (b tagPortBridge) DeleteTag(ctx context.Context, tagID string) error {
	return b.p.DeleteTag(ctx, tagID)
}
