package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muurk/vzug/internal/appliance"
	"github.com/muurk/vzug/internal/ui"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultTimeout  = 30 * time.Second
)

// pollMsg carries the result of one load
type pollMsg struct {
	snapshot appliance.Snapshot
	err      error
}

// tickMsg starts the next scheduled load
type tickMsg time.Time

type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Refresh, k.Quit}}
}

var (
	statusLineStyle = lipgloss.NewStyle().Foreground(ui.MutedColor).PaddingLeft(1)
	spinnerStyle    = lipgloss.NewStyle().Foreground(ui.PrimaryColor)
)

// Model polls one appliance and shows its latest snapshot.
type Model struct {
	device   appliance.Device
	renderer *ui.Renderer
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	loading  bool
	snapshot *appliance.Snapshot
	err      error
	lastPoll time.Time
	polls    int

	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// New creates a watch model. Loads run one at a time: the next load is
// scheduled only after the previous one finished.
func New(device appliance.Device, renderer *ui.Renderer, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		device:   device,
		renderer: renderer,
		interval: interval,
		timeout:  DefaultTimeout,
		now:      time.Now,
		loading:  true,
		spinner:  s,
		help:     help.New(),
		keys: keyMap{
			Refresh: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "refresh"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// Init starts the first load
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.poll(), m.spinner.Tick)
}

func (m Model) poll() tea.Cmd {
	device, timeout, now := m.device, m.timeout, m.now
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var err error
		if !device.LoadAllInformation(ctx) {
			err = device.Basic().Err()
		}
		return pollMsg{snapshot: appliance.TakeSnapshot(device, now()), err: err}
	}
}

func (m Model) schedule() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.poll(), m.spinner.Tick)
		}

	case tea.WindowSizeMsg:
		width := msg.Width
		if width > ui.MaxContentWidth {
			width = ui.MaxContentWidth
		}
		if width < ui.MinTerminalWidth {
			width = ui.MinTerminalWidth
		}
		m.renderer.Width = width
		m.help.Width = width

	case pollMsg:
		m.loading = false
		m.polls++
		m.lastPoll = msg.snapshot.Time
		m.err = msg.err
		snapshot := msg.snapshot
		m.snapshot = &snapshot
		return m, m.schedule()

	case tickMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.poll(), m.spinner.Tick)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the latest snapshot, the poll status and the key help
func (m Model) View() string {
	var b strings.Builder

	switch {
	case m.snapshot == nil:
		b.WriteString(fmt.Sprintf("\n %s Loading %s...\n", m.spinner.View(), m.device.Basic().Host()))
	default:
		body, err := m.renderer.Render(*m.snapshot, ui.PartAll)
		if err != nil {
			body = err.Error()
		}
		b.WriteString(body)
		b.WriteString("\n")
		if m.err != nil && !m.snapshot.Loaded {
			b.WriteString(m.renderer.RenderError("Loading "+m.snapshot.Host, m.err))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	if m.loading {
		if m.polls == 0 {
			return ""
		}
		return statusLineStyle.Render(m.spinner.View() + " refreshing")
	}
	state := ui.SuccessMarker + " updated"
	if m.err != nil {
		state = ui.FailureMarker + " failed"
	}
	return statusLineStyle.Render(fmt.Sprintf("%s %s · every %s · %d polls",
		state, m.lastPoll.Local().Format("15:04:05"), m.interval, m.polls))
}

// Run starts the full-screen program and blocks until the user quits.
func Run(device appliance.Device, renderer *ui.Renderer, interval time.Duration) error {
	_, err := tea.NewProgram(New(device, renderer, interval), tea.WithAltScreen()).Run()
	return err
}
