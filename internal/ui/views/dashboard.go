package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/api"
	"taskflow/internal/dispatch"
	"taskflow/internal/models"
	"taskflow/internal/ui/keys"
	"taskflow/internal/ui/styles"
)

// DashboardView shows cross project completion analytics.
type DashboardView struct {
	dispatch *dispatch.Dispatcher
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	progress []models.ProjectProgress
	overview models.Overview
	loaded   bool
	errMsg   string
}

// NewDashboardView creates the analytics dashboard.
func NewDashboardView(d *dispatch.Dispatcher) *DashboardView {
	return &DashboardView{
		dispatch: d,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *DashboardView) Init() tea.Cmd {
	return v.dispatch.LoadAnalytics()
}

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		return v, nil

	case dispatch.AnalyticsLoadedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not load analytics: " + api.Reason(msg.Err)
		} else {
			v.progress = msg.Progress
			v.overview = msg.Overview
			v.errMsg = ""
		}
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return CloseOverlay{} }
		case key.Matches(msg, v.keys.Refresh):
			return v, v.dispatch.LoadAnalytics()
		}
	}

	return v, nil
}

// bar renders a fixed width completion bar.
func (v *DashboardView) bar(rate float64, width int) string {
	if rate < 0 {
		rate = 0
	}
	if rate > 100 {
		rate = 100
	}
	filled := int(rate / 100 * float64(width))
	return v.styles.BarFilled.Render(strings.Repeat("█", filled)) +
		v.styles.BarEmpty.Render(strings.Repeat("░", width-filled))
}

// View renders the view
func (v *DashboardView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var b strings.Builder
	b.WriteString(s.TitleBar.Width(contentWidth).Render(s.Title.Render("Dashboard")))
	b.WriteString("\n")

	if v.errMsg != "" {
		b.WriteString(s.ErrorBanner.Render(v.errMsg))
		b.WriteString("\n")
	}

	if !v.loaded {
		b.WriteString(s.TitleMuted.Render("Loading..."))
		return styles.CenterView(b.String(), v.width, v.height)
	}

	b.WriteString(v.renderOverview(contentWidth))
	b.WriteString("\n")
	b.WriteString(v.renderProgress(contentWidth))
	b.WriteString("\n")
	b.WriteString(v.renderTrend(contentWidth))
	b.WriteString("\n")
	b.WriteString(s.Help.Render(fmt.Sprintf("%s refresh • %s back",
		s.HelpKey.Render("R"),
		s.HelpKey.Render("esc"),
	)))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *DashboardView) renderOverview(width int) string {
	s := v.styles
	o := v.overview

	cell := func(label string, value string) string {
		return lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Render(value),
			s.TitleMuted.Render(label),
		)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		s.Card.Render(cell("projects", fmt.Sprintf("%d", o.TotalProjects))),
		s.Card.Render(cell("tasks", fmt.Sprintf("%d", o.TotalTasks))),
		s.Card.Render(cell("completed", fmt.Sprintf("%d", o.CompletedTasks))),
		s.Card.Render(cell("completion", fmt.Sprintf("%.0f%%", o.CompletionRate))),
	)

	var dist []string
	for _, status := range models.Statuses {
		dist = append(dist, fmt.Sprintf("%s: %d", status, o.StatusDistribution[status]))
	}

	return s.Panel.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		row,
		s.TitleMuted.Render(strings.Join(dist, " • ")),
	))
}

func (v *DashboardView) renderProgress(width int) string {
	s := v.styles

	lines := []string{s.ColumnHeader.Render("Projects")}
	if len(v.progress) == 0 {
		lines = append(lines, s.TitleMuted.Render("No projects yet"))
	}

	barWidth := clamp(width-50, 10, 30)
	for _, p := range v.progress {
		title := truncate(p.ProjectTitle, 24)
		lines = append(lines, fmt.Sprintf("%-25s %s %3.0f%%  %d/%d done",
			title,
			v.bar(p.Stats.CompletionRate, barWidth),
			p.Stats.CompletionRate,
			p.Stats.CompletedTasks,
			p.Stats.TotalTasks,
		))
	}

	return s.Panel.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *DashboardView) renderTrend(width int) string {
	s := v.styles

	lines := []string{s.ColumnHeader.Render("Tasks created, last 7 days")}
	if len(v.overview.RecentTasksTrend) == 0 {
		lines = append(lines, s.TitleMuted.Render("No recent activity"))
	}

	maxCount := 1
	for _, p := range v.overview.RecentTasksTrend {
		if p.Count > maxCount {
			maxCount = p.Count
		}
	}

	barWidth := clamp(width-30, 10, 40)
	for _, p := range v.overview.RecentTasksTrend {
		filled := p.Count * barWidth / maxCount
		lines = append(lines, fmt.Sprintf("%-12s %s %d",
			p.Date,
			s.BarFilled.Render(strings.Repeat("▇", filled)),
			p.Count,
		))
	}

	return s.Panel.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
