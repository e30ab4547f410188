package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/assistlink/internal/apiclient"
)

type fakeBackend struct {
	mu        sync.Mutex
	url       string
	live      bool
	catalog   map[string]any
	jobErr    error
	jobs      []string
	jobArgs   []map[string]string
	buttons   []string
	listCalls int
}

func (f *fakeBackend) FindAvailableServer(context.Context) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.live {
		return "", false
	}
	return f.url, true
}

func (f *fakeBackend) ListCommands(context.Context) (*apiclient.CommandCatalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return &apiclient.CommandCatalog{ServerURL: f.url, Entries: f.catalog}, nil
}

func (f *fakeBackend) RunJob(_ context.Context, name string, args map[string]string) (*apiclient.JobResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, name)
	f.jobArgs = append(f.jobArgs, args)
	if f.jobErr != nil {
		return nil, f.jobErr
	}
	return &apiclient.JobResult{Status: "success", Result: "Sunny, 21C", ServerURL: f.url}, nil
}

func (f *fakeBackend) PressButton(_ context.Context, key string) (*apiclient.ButtonResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buttons = append(f.buttons, key)
	return &apiclient.ButtonResult{Status: "success", Message: "Button " + key + " pressed"}, nil
}

func newLiveBackend() *fakeBackend {
	return &fakeBackend{
		url:  "http://127.0.0.1:5004",
		live: true,
		catalog: map[string]any{
			"weather": "Current weather",
			"timer":   map[string]any{"description": "Start a countdown"},
		},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// connected returns a sized model that has discovered the backend and loaded
// its commands
func connected(t *testing.T, backend *fakeBackend) Model {
	t.Helper()

	m := New(context.Background(), backend, time.Second)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 40})

	msg := m.checkStatus()()
	m, cmd := update(t, m, msg)
	require.NotNil(t, cmd, "a newly live server triggers a command load")

	m, _ = update(t, m, cmd())
	return m
}

func TestNew_Defaults(t *testing.T) {
	m := New(context.Background(), newLiveBackend(), 0)

	assert.Equal(t, DefaultInterval, m.interval)
	assert.False(t, m.checked)
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Looking for a server")
}

func TestStatus_LiveLoadsCommands(t *testing.T) {
	backend := newLiveBackend()
	m := connected(t, backend)

	assert.True(t, m.live)
	assert.Equal(t, "http://127.0.0.1:5004", m.serverURL)
	assert.True(t, m.commandsLoaded)
	require.Len(t, m.commands.Items(), 2)
	assert.Equal(t, "timer", m.commands.Items()[0].(commandItem).name)
	assert.Equal(t, "Start a countdown", m.commands.Items()[0].(commandItem).Description())

	view := m.View()
	assert.Contains(t, view, "● live")
	assert.Contains(t, view, "http://127.0.0.1:5004")
	assert.Contains(t, view, "weather")
}

func TestStatus_UnchangedDoesNotReload(t *testing.T) {
	backend := newLiveBackend()
	m := connected(t, backend)

	m, cmd := update(t, m, statusMsg{serverURL: "http://127.0.0.1:5004", live: true, at: time.Now()})

	assert.Nil(t, cmd)
	assert.Equal(t, 1, backend.listCalls)
}

func TestStatus_ServerMovedReloads(t *testing.T) {
	m := connected(t, newLiveBackend())

	_, cmd := update(t, m, statusMsg{serverURL: "http://127.0.0.1:5002", live: true, at: time.Now()})

	assert.NotNil(t, cmd)
}

func TestStatus_ServerGone(t *testing.T) {
	m := connected(t, newLiveBackend())

	m, cmd := update(t, m, statusMsg{live: false, at: time.Now()})

	assert.Nil(t, cmd)
	assert.False(t, m.live)
	assert.False(t, m.commandsLoaded)
	assert.Empty(t, m.commands.Items())
	assert.Contains(t, m.View(), "No server is available.")
	assert.Contains(t, m.View(), "no server")
}

func TestTick_SkipsWhileChecking(t *testing.T) {
	m := New(context.Background(), newLiveBackend(), time.Second)

	m, cmd := update(t, m, tickMsg(time.Now()))
	assert.True(t, m.checking)
	assert.NotNil(t, cmd)

	m, cmd = update(t, m, tickMsg(time.Now()))
	assert.True(t, m.checking)
	assert.NotNil(t, cmd, "the poll timer keeps running")
}

func TestRunJob_WithArgs(t *testing.T) {
	backend := newLiveBackend()
	m := connected(t, backend)

	// Select "weather" (second item)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, modeArgs, m.mode)
	assert.Equal(t, "weather", m.pendingJob)
	assert.Contains(t, m.View(), "Arguments for weather")

	m.argsInput.SetValue("city=Porto units=metric")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Running weather", m.busy)

	m, _ = update(t, m, cmd())

	assert.Equal(t, []string{"weather"}, backend.jobs)
	assert.Equal(t, map[string]string{"city": "Porto", "units": "metric"}, backend.jobArgs[0])
	assert.Empty(t, m.busy)
	assert.Equal(t, "weather: Sunny, 21C", m.lastAction)
	assert.Contains(t, m.View(), "weather: Sunny, 21C")
}

func TestRunJob_InvalidArgsStayInPrompt(t *testing.T) {
	backend := newLiveBackend()
	m := connected(t, backend)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.argsInput.SetValue("novalue")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, modeArgs, m.mode)
	assert.True(t, apiclient.IsValidationError(m.lastErr))
	assert.Empty(t, backend.jobs)
}

func TestRunJob_Cancel(t *testing.T) {
	m := connected(t, newLiveBackend())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeBrowse, m.mode)
}

func TestRunJob_Failure(t *testing.T) {
	backend := newLiveBackend()
	backend.jobErr = apiclient.NewServerError(500, "Internal Server Error", backend.url)
	m := connected(t, backend)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	assert.Equal(t, "timer failed", m.lastAction)
	assert.Contains(t, m.View(), "Server error (HTTP 500)")
}

func TestButtons(t *testing.T) {
	backend := newLiveBackend()
	m := connected(t, backend)

	m, _ = update(t, m, runes("p"))
	require.Equal(t, modeButtons, m.mode)

	m, cmd := update(t, m, runes("a"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Button A: Button A pressed", m.lastAction)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	m, cmd = update(t, m, runes("x"))
	assert.Nil(t, cmd)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []string{"A", "LEFT"}, backend.buttons)
}

func TestRefreshRediscovers(t *testing.T) {
	backend := newLiveBackend()
	m := connected(t, backend)
	m.lastErr = errors.New("stale")

	m, cmd := update(t, m, runes("r"))
	require.NotNil(t, cmd)
	assert.Nil(t, m.lastErr)
	assert.False(t, m.commandsLoaded)

	m, cmd = update(t, m, cmd())
	require.NotNil(t, cmd, "commands reload after a manual refresh")
	m, _ = update(t, m, cmd())
	assert.Equal(t, 2, backend.listCalls)
}

func TestQuit(t *testing.T) {
	m := connected(t, newLiveBackend())

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestHelpToggle(t *testing.T) {
	m := connected(t, newLiveBackend())

	m, _ = update(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "filter")
}

func TestFormatResult(t *testing.T) {
	assert.Equal(t, "done", formatResult(nil))
	assert.Equal(t, "ok", formatResult("ok"))
	assert.Equal(t, "42", formatResult(float64(42)))
	assert.Equal(t, "map[temp:21]", formatResult(map[string]any{"temp": 21}))
}
