// Package dashboard renders a live terminal UI over the session registry.
//
// The dashboard is read-mostly: it refreshes ActiveSessions and per-session
// pane state on a timer and only writes through the orchestrator when the
// user explicitly kills a session.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/timvw/pane-wrangler/internal/model"
	"github.com/timvw/pane-wrangler/internal/orchestrator"
)

// messages
type refreshMsg struct {
	sessions []model.Session
	statuses map[string]model.SessionStatus
}

type killResultMsg struct {
	sessionID string
	err       error
}

type tickMsg struct{}

// Dashboard runs the interactive session watcher.
type Dashboard struct {
	Manager         *orchestrator.Manager
	RefreshInterval time.Duration // 0 disables auto-refresh
	ThemeName       string
}

// model implements tea.Model
type tuiModel struct {
	mgr             *orchestrator.Manager
	ctx             context.Context
	refreshInterval time.Duration

	sessions []model.Session
	statuses map[string]model.SessionStatus
	cursor   int

	spin     spinner.Model
	scanning bool
	message  string

	width  int
	height int

	st styles
}

// Run starts the dashboard and blocks until the user quits.
func (d *Dashboard) Run(ctx context.Context) error {
	st := newStyles(ThemeByName(d.ThemeName))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &tuiModel{
		mgr:             d.Manager,
		ctx:             ctx,
		refreshInterval: d.RefreshInterval,
		statuses:        make(map[string]model.SessionStatus),
		spin:            sp,
		st:              st,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *tuiModel) Init() tea.Cmd {
	m.scanning = true
	return tea.Batch(m.spin.Tick, m.doRefresh())
}

// scheduleTick returns a tea.Cmd that sends a tickMsg after the refresh
// interval, or nil if auto-refresh is disabled.
func (m *tuiModel) scheduleTick() tea.Cmd {
	if m.refreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// doRefresh queries the orchestrator off the UI goroutine. Per-session
// monitoring is best-effort: a session that fails to report (e.g., killed
// between the list and the query) simply has no pane detail this round.
func (m *tuiModel) doRefresh() tea.Cmd {
	mgr := m.mgr
	ctx := m.ctx
	return func() tea.Msg {
		sessions := mgr.ActiveSessions(ctx)
		statuses := make(map[string]model.SessionStatus, len(sessions))
		for _, sess := range sessions {
			status, err := mgr.MonitorSession(ctx, sess.ID)
			if err != nil {
				continue
			}
			statuses[sess.ID] = status
		}
		return refreshMsg{sessions: sessions, statuses: statuses}
	}
}

func (m *tuiModel) doKill(sessionID string) tea.Cmd {
	mgr := m.mgr
	ctx := m.ctx
	return func() tea.Msg {
		return killResultMsg{sessionID: sessionID, err: mgr.TerminateSession(ctx, sessionID)}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.scanning {
			return m, m.scheduleTick()
		}
		m.scanning = true
		return m, m.doRefresh()

	case refreshMsg:
		m.scanning = false
		m.sessions = msg.sessions
		m.statuses = msg.statuses
		if m.cursor >= len(m.sessions) {
			m.cursor = len(m.sessions) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, m.scheduleTick()

	case killResultMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("kill %s: %v", msg.sessionID, msg.err)
		} else {
			m.message = fmt.Sprintf("killed %s", msg.sessionID)
		}
		m.scanning = true
		return m, m.doRefresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			}
		case "r":
			if !m.scanning {
				m.scanning = true
				return m, m.doRefresh()
			}
		case "x":
			if m.cursor < len(m.sessions) {
				return m, m.doKill(m.sessions[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder

	title := "pane-wrangler"
	if m.scanning {
		title += " " + m.spin.View()
	}
	b.WriteString(m.st.title.Render(title))
	b.WriteString("\n\n")

	if len(m.sessions) == 0 {
		b.WriteString(m.st.dim.Render("no active sessions"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.st.header.Render(fmt.Sprintf("  %-24s %-10s %-8s %-8s %s",
			"SESSION", "LAYOUT", "WINDOWS", "PANES", "CREATED")))
		b.WriteString("\n")
		for i, sess := range m.sessions {
			b.WriteString(m.renderSessionRow(i, sess))
			b.WriteString("\n")
		}
		if m.cursor < len(m.sessions) {
			b.WriteString(m.renderPaneDetail(m.sessions[m.cursor]))
		}
	}

	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(m.st.dim.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(m.st.dim.Render("↑/↓ select · r refresh · x kill · q quit"))
	return b.String()
}

func (m *tuiModel) renderSessionRow(i int, sess model.Session) string {
	status, ok := m.statuses[sess.ID]
	windows := "-"
	panes := "-"
	if ok {
		windows = fmt.Sprintf("%d", status.SessionInfo.Windows)
		panes = fmt.Sprintf("%d", len(status.PaneStates))
	}

	var layoutStyle = m.st.text
	switch sess.Layout {
	case model.LayoutComplete:
		layoutStyle = m.st.complete
	case model.LayoutPending:
		layoutStyle = m.st.pending
	case model.LayoutPartial:
		layoutStyle = m.st.partial
	}

	row := fmt.Sprintf("%-24s %-10s %-8s %-8s %s",
		sess.Name,
		layoutStyle.Render(string(sess.Layout)),
		windows,
		panes,
		m.st.dim.Render(sess.CreatedAt.Format("15:04:05")))

	if i == m.cursor {
		return m.st.selected.Render("> ") + row
	}
	return "  " + row
}

// renderPaneDetail shows the selected session's panes.
func (m *tuiModel) renderPaneDetail(sess model.Session) string {
	status, ok := m.statuses[sess.ID]
	if !ok || len(status.PaneStates) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.st.header.Render(fmt.Sprintf("  panes of %s", sess.Name)))
	b.WriteString("\n")
	for _, p := range status.PaneStates {
		marker := "  "
		if p.Active {
			marker = m.st.complete.Render("* ")
		}
		title := p.Title
		if title == "" {
			title = m.st.dim.Render("(unassigned)")
		}
		b.WriteString(fmt.Sprintf("  %s%%%-4s %-20s %s\n",
			marker, p.ID, title, m.st.dim.Render(p.Command)))
	}
	return b.String()
}
