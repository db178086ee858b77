package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/viewmodel"
	"github.com/alexanderramin/chantier/internal/workspace"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── messages ─────────────────────────────────────────────────────────────────

// dashboardLoadedMsg carries the result of a refresh.
type dashboardLoadedMsg struct {
	views []viewmodel.ProjectView
	ran   bool
	err   error
}

// dashboardChangedMsg signals that a watched store changed outside the
// dashboard's own loads.
type dashboardChangedMsg struct{}

// ── keys ─────────────────────────────────────────────────────────────────────

type dashboardKeys struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func newDashboardKeys() dashboardKeys {
	return dashboardKeys{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Quit}
}

// ── model ────────────────────────────────────────────────────────────────────

// dashboardModel shows the aggregated projects with a summary header and
// the selected project's detail.
type dashboardModel struct {
	ctx     context.Context
	ws      *workspace.Workspace
	keys    dashboardKeys
	spinner spinner.Model

	views   []viewmodel.ProjectView
	cursor  int
	loading bool
	err     error
	width   int
}

func newDashboardModel(ctx context.Context, ws *workspace.Workspace) *dashboardModel {
	return &dashboardModel{
		ctx:  ctx,
		ws:   ws,
		keys: newDashboardKeys(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(formatter.StyleHeader),
		),
		loading: true,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(false))
}

// load runs a refresh through the orchestrator. force bypasses the
// cooldown but never overlaps a refresh already in flight.
func (m *dashboardModel) load(force bool) tea.Cmd {
	ctx, ws := m.ctx, m.ws
	return func() tea.Msg {
		run := ws.Refresher.RefreshAll
		if force {
			run = ws.Refresher.Force
		}
		ran, err := run(ctx)
		return dashboardLoadedMsg{views: ws.Views.Views(), ran: ran, err: err}
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.setViews(msg.views)
		return m, nil

	case dashboardChangedMsg:
		m.setViews(m.ws.Views.Views())
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.views)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.load(true))
		}
	}
	return m, nil
}

func (m *dashboardModel) setViews(views []viewmodel.ProjectView) {
	m.views = views
	if m.cursor >= len(views) {
		m.cursor = max(0, len(views)-1)
	}
}

// ── view rendering ───────────────────────────────────────────────────────────

const dashLeftPaneWidth = 36

func (m *dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(formatter.FormatSummary(viewmodel.Summary(m.views)))
	b.WriteString("\n")

	switch {
	case m.loading && len(m.views) == 0:
		b.WriteString("  " + m.spinner.View() + " " + formatter.Dim("Loading..."))
	case m.err != nil && len(m.views) == 0:
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+m.err.Error()))
	case len(m.views) == 0:
		b.WriteString("  " + formatter.Dim("No projects yet."))
	default:
		b.WriteString(m.renderPanes())
	}
	b.WriteString("\n")

	if m.err != nil && len(m.views) > 0 {
		b.WriteString("  " + formatter.StyleRed.Render("Refresh failed: "+m.err.Error()) + "\n")
	}
	if m.loading && len(m.views) > 0 {
		b.WriteString("  " + m.spinner.View() + " " + formatter.Dim("Refreshing...") + "\n")
	}
	b.WriteString(m.helpLine())
	return b.String()
}

func (m *dashboardModel) renderPanes() string {
	left := m.renderProjectList()
	right := formatter.FormatProjectDetail(m.views[m.cursor])

	if m.width < 80 {
		return left + "\n" + right
	}
	rightWidth := max(m.width-dashLeftPaneWidth-3, 20)
	leftCol := lipgloss.NewStyle().Width(dashLeftPaneWidth).Render(left)
	divider := lipgloss.NewStyle().Foreground(formatter.ColorDim).Render("│")
	rightCol := lipgloss.NewStyle().Width(rightWidth).Render(right)
	return lipgloss.JoinHorizontal(lipgloss.Top, leftCol, " "+divider+" ", rightCol)
}

func (m *dashboardModel) renderProjectList() string {
	var b strings.Builder
	for i, v := range m.views {
		cursor := "  "
		name := v.Name
		if i == m.cursor {
			cursor = formatter.StyleHeader.Render("▸ ")
			name = formatter.Bold(name)
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, padRight(name, 22), formatter.FormatPercent(v.Progress))
	}
	return b.String()
}

func (m *dashboardModel) helpLine() string {
	parts := make([]string, 0, 4)
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, formatter.StyleHeader.Render(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return "  " + strings.Join(parts, formatter.Dim(" · "))
}

// padRight pads s with spaces to the given visible width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
