package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/api"
	"taskflow/internal/dispatch"
	"taskflow/internal/session"
	"taskflow/internal/ui/keys"
	"taskflow/internal/ui/styles"
)

// recentLimit caps how many notifications the panel shows.
const recentLimit = 10

// NotificationsView lists recent notifications and marks them read.
type NotificationsView struct {
	dispatch *dispatch.Dispatcher
	session  *session.Store
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	cursor int
	errMsg string
}

// NewNotificationsView creates the notifications panel.
func NewNotificationsView(d *dispatch.Dispatcher, sess *session.Store) *NotificationsView {
	return &NotificationsView{
		dispatch: d,
		session:  sess,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *NotificationsView) Init() tea.Cmd {
	return v.dispatch.RefreshNotifications(v.session.Generation())
}

func (v *NotificationsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		return v, nil

	case dispatch.NotificationsRefreshedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not load notifications: " + api.Reason(msg.Err)
		} else {
			v.errMsg = ""
		}
		v.clampCursor()
		return v, nil

	case dispatch.NotificationReadMsg:
		if msg.Err != nil {
			v.errMsg = "Could not mark as read: " + api.Reason(msg.Err)
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return CloseOverlay{} }

		case key.Matches(msg, v.keys.Up):
			v.cursor = clamp(v.cursor-1, 0, max(v.count()-1, 0))
			return v, nil

		case key.Matches(msg, v.keys.Down):
			v.cursor = clamp(v.cursor+1, 0, max(v.count()-1, 0))
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			recent := v.dispatch.Notifications.Recent(recentLimit)
			if v.cursor < len(recent) && !recent[v.cursor].Read {
				return v, v.dispatch.MarkNotificationRead(recent[v.cursor].ID)
			}
			return v, nil

		case key.Matches(msg, v.keys.Refresh):
			return v, v.dispatch.RefreshNotifications(v.session.Generation())
		}
	}

	return v, nil
}

func (v *NotificationsView) count() int {
	return len(v.dispatch.Notifications.Recent(recentLimit))
}

func (v *NotificationsView) clampCursor() {
	if n := v.count(); n == 0 {
		v.cursor = 0
	} else {
		v.cursor = clamp(v.cursor, 0, n-1)
	}
}

// View renders the view
func (v *NotificationsView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	unread := v.dispatch.Notifications.UnreadCount()
	title := "Notifications"
	if unread > 0 {
		title = fmt.Sprintf("Notifications (%d unread)", unread)
	}

	var b strings.Builder
	b.WriteString(s.TitleBar.Width(contentWidth).Render(s.Title.Render(title)))
	b.WriteString("\n")

	if v.errMsg != "" {
		b.WriteString(s.ErrorBanner.Render(v.errMsg))
		b.WriteString("\n")
	}

	recent := v.dispatch.Notifications.Recent(recentLimit)
	if len(recent) == 0 {
		b.WriteString(s.TitleMuted.Render("Nothing here yet"))
		b.WriteString("\n")
	}

	var lines []string
	for i, n := range recent {
		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		marker := "●"
		if n.Read {
			marker = " "
		}
		head := fmt.Sprintf("%s %s • %s", marker, n.Title, n.CreatedAt.Format("Jan 2 15:04"))
		lines = append(lines,
			style.Width(contentWidth-6).Render(head),
			style.Width(contentWidth-6).Render("  "+n.Message),
		)
	}
	if len(lines) > 0 {
		b.WriteString(s.Panel.Width(contentWidth - 2).Render(
			lipgloss.JoinVertical(lipgloss.Left, lines...),
		))
		b.WriteString("\n")
	}

	b.WriteString(s.Help.Render(fmt.Sprintf("%s mark read • %s refresh • %s back",
		s.HelpKey.Render("↵"),
		s.HelpKey.Render("R"),
		s.HelpKey.Render("esc"),
	)))

	return styles.CenterView(b.String(), v.width, v.height)
}
