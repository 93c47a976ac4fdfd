// Package tui provides a Bubble Tea terminal user interface for beatmap-downloader.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/beatmap-downloader/internal/app"
	"github.com/handiism/beatmap-downloader/internal/config"
	"github.com/handiism/beatmap-downloader/internal/download"
	"github.com/handiism/beatmap-downloader/internal/logger"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	request   Request
	result    string
	failed    bool
	err       error
	percent   float64

	// Download context, replaced after a cancel
	ctx    context.Context
	cancel context.CancelFunc

	// session lives as long as the program
	session    context.Context
	endSession context.CancelFunc

	// app is nil until the first download; events is shared with it.
	app    *app.App
	events chan tea.Msg

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model for settings.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "1a2b, a version hash or https://…/level.zip"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	session, endSession := context.WithCancel(context.Background())
	ctx, cancel := context.WithCancel(session)

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		logs:       make([]LogEntry, 0),
		ctx:        ctx,
		cancel:     cancel,
		session:    session,
		endSession: endSession,
		events:     make(chan tea.Msg, 64),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// ProgressMsg is sent for every ProgressEvent of the download manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// FractionMsg carries the download fraction of the running request.
	FractionMsg float64

	// AppReadyMsg is sent once the downloader is built.
	AppReadyMsg struct {
		App *app.App
		Err error
	}

	// DownloadDoneMsg is sent when the running request finished.
	DownloadDoneMsg struct {
		Hash string
		OK   bool
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.endSession()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				m.endSession()
				return m, tea.Quit
			}
			if m.state == StateDownloading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				req, err := ParseRequest(m.textInput.Value())
				if err != nil {
					m.err = err
					return m, nil
				}
				m.err = nil
				m.request = req
				m.state = StateDownloading
				if m.app == nil {
					return m, tea.Batch(m.buildApp(), m.spinner.Tick)
				}
				return m, tea.Batch(m.startDownload(), m.spinner.Tick)
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				m.endSession()
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m = m.reset()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		if msg.Event.Level == download.LevelError {
			m.failed = true
		}
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case FractionMsg:
		cmds = append(cmds, m.waitForEvent())
		m.percent = float64(msg)
		cmds = append(cmds, m.progress.SetPercent(m.percent))

	case AppReadyMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.app = msg.App
		m.app.WatchContent(m.session)
		cmds = append(cmds, m.startDownload())

	case DownloadDoneMsg:
		cmds = append(cmds, m.waitForEvent())
		if m.state != StateDownloading {
			break
		}
		m.result = msg.Hash
		if !msg.OK || m.failed {
			m.state = StateError
			m.err = fmt.Errorf("download failed, see the log above")
		} else {
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// reset prepares the model for the next request. The downloader is kept.
func (m Model) reset() Model {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.failed = false
	m.result = ""
	m.percent = 0
	m.request = Request{}
	if m.ctx.Err() != nil {
		m.ctx, m.cancel = context.WithCancel(m.session)
	}
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Beatmap Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Install custom levels from BeatSaver"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a key, hash or archive URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
	}

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Install path: %s", m.settings.ContentPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(m.describeRequest()))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	summary := "Installed!\n\n" + m.describeRequest()
	if m.result != "" {
		summary += "\nHash: " + m.result
	}
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) describeRequest() string {
	switch m.request.Kind {
	case RequestHash:
		return "Version " + m.request.Value
	case RequestURL:
		return fmt.Sprintf("%s (%s)", m.request.Name, m.request.Value)
	default:
		return "Key " + m.request.Value
	}
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: install • ctrl+v: verbose • esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// send delivers msg to the UI unless ctx is done.
func send(ctx context.Context, events chan<- tea.Msg, msg tea.Msg) {
	select {
	case events <- msg:
	case <-ctx.Done():
	}
}

// waitForEvent reads the next message produced by the download goroutines.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

// buildApp creates the downloader. Logs go to the configured file only; the
// terminal belongs to the UI.
func (m Model) buildApp() tea.Cmd {
	settings, events, ctx := m.settings, m.events, m.session
	return func() tea.Msg {
		cfg := settings.ToLoggerConfig(false)
		log, err := logger.New(cfg)
		if err != nil {
			return AppReadyMsg{Err: err}
		}

		a, err := app.New(settings, log, func(event download.ProgressEvent) {
			send(ctx, events, ProgressMsg{Event: event})
		})
		return AppReadyMsg{App: a, Err: err}
	}
}

// startDownload runs the current request. Its result is delivered through
// the event channel so that it arrives after the events it produced.
func (m Model) startDownload() tea.Cmd {
	manager, req, ctx, events := m.app.Manager, m.request, m.ctx, m.events
	return func() tea.Msg {
		onProgress := func(p float64) {
			send(ctx, events, FractionMsg(p))
		}

		done := DownloadDoneMsg{OK: true}
		switch req.Kind {
		case RequestKey:
			done.Hash = manager.DownloadByKey(ctx, req.Value, onProgress)
			done.OK = done.Hash != ""
		case RequestHash:
			manager.DownloadByHash(ctx, req.Value, onProgress)
		case RequestURL:
			manager.DownloadByCustomURL(ctx, req.Value, req.Name)
		}

		send(ctx, events, done)
		return nil
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
