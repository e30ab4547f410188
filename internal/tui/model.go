package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/assistlink/internal/apiclient"
	"github.com/muurk/assistlink/internal/logging"
	"github.com/muurk/assistlink/internal/ui"
)

// DefaultInterval is how often the dashboard re-runs discovery
const DefaultInterval = 3 * time.Second

// Backend is what the dashboard needs from the assistant; *apiclient.Client
// implements it.
type Backend interface {
	FindAvailableServer(ctx context.Context) (string, bool)
	ListCommands(ctx context.Context) (*apiclient.CommandCatalog, error)
	RunJob(ctx context.Context, name string, args map[string]string) (*apiclient.JobResult, error)
	PressButton(ctx context.Context, key string) (*apiclient.ButtonResult, error)
}

type mode int

const (
	modeBrowse mode = iota
	modeArgs
	modeButtons
)

// Messages for async operations
type tickMsg time.Time

type statusMsg struct {
	serverURL string
	live      bool
	at        time.Time
}

type commandsMsg struct {
	catalog *apiclient.CommandCatalog
	err     error
}

type actionDoneMsg struct {
	label string
	text  string
	err   error
}

// commandItem wraps a backend command for bubbles/list
type commandItem struct {
	name        string
	description string
}

func (c commandItem) Title() string       { return c.name }
func (c commandItem) FilterValue() string { return c.name + " " + c.description }

func (c commandItem) Description() string {
	if c.description == "" {
		return "no description"
	}
	return c.description
}

// Model is the watch dashboard: live server status, the command catalogue,
// job execution and button presses.
type Model struct {
	ctx      context.Context
	backend  Backend
	interval time.Duration

	// Discovery state
	serverURL string
	live      bool
	checked   bool
	checking  bool
	lastCheck time.Time

	// Command catalogue
	commands       list.Model
	commandsLoaded bool

	// Interaction state
	mode       mode
	argsInput  textinput.Model
	pendingJob string
	busy       string
	lastAction string
	lastErr    error

	// UI state
	width      int
	height     int
	spinner    spinner.Model
	help       help.Model
	browseKeys browseKeyMap
	argsKeys   argsKeyMap
	buttonKeys buttonKeyMap
}

// New creates a dashboard model. A zero interval means DefaultInterval.
func New(ctx context.Context, backend Backend, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.Placeholder = "key=value key=value"
	input.Prompt = "› "
	input.Width = 40

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ui.PrimaryColor).
		BorderForeground(ui.PrimaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ui.SecondaryColor).
		BorderForeground(ui.PrimaryColor)

	commands := list.New([]list.Item{}, delegate, 0, 0)
	commands.Title = "Commands"
	commands.Styles.Title = TitleStyle
	commands.SetShowHelp(false)
	commands.SetShowStatusBar(false)
	commands.SetFilteringEnabled(true)
	commands.SetStatusBarItemName("command", "commands")

	return Model{
		ctx:        ctx,
		backend:    backend,
		interval:   interval,
		commands:   commands,
		argsInput:  input,
		spinner:    s,
		help:       help.New(),
		browseKeys: newBrowseKeyMap(),
		argsKeys:   newArgsKeyMap(),
		buttonKeys: newButtonKeyMap(),
		width:      ui.MinTerminalWidth,
		height:     ui.DefaultHeight,
	}
}

// Init starts the first discovery pass and the poll timer
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkStatus(), m.tick(), m.spinner.Tick)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.commands.SetSize(msg.Width-4, msg.Height-10)
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.checking {
			return m, m.tick()
		}
		m.checking = true
		return m, tea.Batch(m.checkStatus(), m.tick())

	case statusMsg:
		return m.applyStatus(msg)

	case commandsMsg:
		return m.applyCommands(msg), nil

	case actionDoneMsg:
		m.busy = ""
		m.lastErr = msg.err
		if msg.err == nil {
			m.lastAction = msg.label + ": " + msg.text
		} else {
			m.lastAction = msg.label + " failed"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case modeArgs:
			return m.updateArgs(msg)
		case modeButtons:
			return m.updateButtons(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	m.commands, cmd = m.commands.Update(msg)
	return m, cmd
}

func (m Model) applyStatus(msg statusMsg) (tea.Model, tea.Cmd) {
	changed := !m.checked || msg.live != m.live || msg.serverURL != m.serverURL

	m.checking = false
	m.checked = true
	m.live = msg.live
	m.serverURL = msg.serverURL
	m.lastCheck = msg.at

	if changed {
		logging.Info("Dashboard server status changed",
			zap.String("server_url", msg.serverURL),
			zap.Bool("live", msg.live))
	}

	if !msg.live {
		m.commandsLoaded = false
		m.commands.SetItems(nil)
		return m, nil
	}

	if changed || !m.commandsLoaded {
		return m, m.loadCommands()
	}
	return m, nil
}

func (m Model) applyCommands(msg commandsMsg) Model {
	if msg.err != nil {
		m.lastErr = msg.err
		m.commandsLoaded = false
		return m
	}

	names := msg.catalog.Names()
	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = commandItem{name: name, description: msg.catalog.Description(name)}
	}
	m.commands.SetItems(items)
	m.commandsLoaded = true
	return m
}

// updateBrowse handles keys while the command list has focus
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While filtering, every key belongs to the list's filter input
	if m.commands.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.commands, cmd = m.commands.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.browseKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.browseKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.browseKeys.Refresh):
		m.commandsLoaded = false
		m.lastErr = nil
		m.checking = true
		return m, m.checkStatus()

	case key.Matches(msg, m.browseKeys.Press):
		m.mode = modeButtons
		return m, nil

	case key.Matches(msg, m.browseKeys.Run):
		item, ok := m.commands.SelectedItem().(commandItem)
		if !ok || m.busy != "" {
			return m, nil
		}
		m.mode = modeArgs
		m.pendingJob = item.name
		m.argsInput.SetValue("")
		return m, m.argsInput.Focus()
	}

	var cmd tea.Cmd
	m.commands, cmd = m.commands.Update(msg)
	return m, cmd
}

// updateArgs handles keys while job arguments are typed
func (m Model) updateArgs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.argsKeys.Cancel):
		m.mode = modeBrowse
		m.argsInput.Blur()
		return m, nil

	case key.Matches(msg, m.argsKeys.Confirm):
		args, err := apiclient.ParseJobArgs(strings.Fields(m.argsInput.Value()))
		if err != nil {
			m.lastErr = err
			return m, nil
		}
		m.mode = modeBrowse
		m.argsInput.Blur()
		m.busy = "Running " + m.pendingJob
		m.lastErr = nil
		return m, m.runJob(m.pendingJob, args)
	}

	var cmd tea.Cmd
	m.argsInput, cmd = m.argsInput.Update(msg)
	return m, cmd
}

// updateButtons handles keys in button mode
func (m Model) updateButtons(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.buttonKeys.Back) {
		m.mode = modeBrowse
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	button, ok := m.buttonKeys.button(msg.String())
	if !ok || m.busy != "" {
		return m, nil
	}
	m.busy = "Pressing " + button
	m.lastErr = nil
	return m, m.pressButton(button)
}

// --- Commands ---

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) checkStatus() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		url, ok := backend.FindAvailableServer(ctx)
		return statusMsg{serverURL: url, live: ok, at: time.Now()}
	}
}

func (m Model) loadCommands() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		catalog, err := backend.ListCommands(ctx)
		return commandsMsg{catalog: catalog, err: err}
	}
}

func (m Model) runJob(name string, args map[string]string) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		result, err := backend.RunJob(ctx, name, args)
		if err != nil {
			return actionDoneMsg{label: name, err: err}
		}
		return actionDoneMsg{label: name, text: formatResult(result.Result)}
	}
}

func (m Model) pressButton(button string) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		result, err := backend.PressButton(ctx, button)
		if err != nil {
			return actionDoneMsg{label: "Button " + button, err: err}
		}
		text := result.Message
		if text == "" {
			text = result.Status
		}
		return actionDoneMsg{label: "Button " + button, text: text}
	}
}

func formatResult(v any) string {
	switch r := v.(type) {
	case nil:
		return "done"
	case string:
		return r
	default:
		return fmt.Sprintf("%v", r)
	}
}

// --- View ---

// View renders the dashboard
func (m Model) View() string {
	sections := []string{m.viewStatus(), ""}

	switch {
	case !m.checked:
		sections = append(sections, m.spinner.View()+" Looking for a server...")
	case !m.live:
		sections = append(sections, PanelStyle.Render(
			DownStyle.Render(apiclient.NoServerMessage)+"\n"+
				MutedStyle.Render(fmt.Sprintf("Retrying every %s", m.interval))))
	default:
		sections = append(sections, m.commands.View())
	}

	switch m.mode {
	case modeArgs:
		sections = append(sections, "",
			PromptStyle.Render("Arguments for "+m.pendingJob),
			m.argsInput.View())
	case modeButtons:
		sections = append(sections, "", m.viewButtons())
	}

	sections = append(sections, "", m.viewActivity(), "", m.viewHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewStatus() string {
	title := TitleStyle.Render("ASSISTLINK")

	var status string
	switch {
	case !m.checked:
		status = MutedStyle.Render("○ checking")
	case m.live:
		status = LiveStyle.Render("● live") + "  " + ui.ServerURLStyle.Render(m.serverURL)
	default:
		status = DownStyle.Render("○ no server")
	}

	line := title + "  " + status
	if !m.lastCheck.IsZero() {
		line += "  " + MutedStyle.Render("checked "+m.lastCheck.Format("15:04:05"))
	}
	return line
}

func (m Model) viewButtons() string {
	labels := []string{"A", "B", "↑", "↓", "←", "→"}
	rendered := make([]string, len(labels))
	for i, l := range labels {
		rendered[i] = ButtonStyle.Render(l)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewActivity() string {
	switch {
	case m.busy != "":
		return m.spinner.View() + " " + ActionStyle.Render(m.busy+"...")
	case m.lastErr != nil:
		return ErrorStyle.Render(apiclient.GetShortErrorMessage(m.lastErr))
	case m.lastAction != "":
		return ActionStyle.Render(m.lastAction)
	default:
		return MutedStyle.Render("Select a command and press enter")
	}
}

func (m Model) viewHelp() string {
	switch m.mode {
	case modeArgs:
		return m.help.View(m.argsKeys)
	case modeButtons:
		return m.help.View(m.buttonKeys)
	default:
		return m.help.View(m.browseKeys)
	}
}
