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
	"taskflow/internal/session"
	"taskflow/internal/ui/keys"
	"taskflow/internal/ui/styles"
)

// TeamView lets the project owner pick which users are on the team.
type TeamView struct {
	dispatch *dispatch.Dispatcher
	session  *session.Store
	project  models.Project
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	users    []models.User
	selected map[string]bool
	cursor   int
	loaded   bool
	errMsg   string
	okMsg    string
}

// NewTeamView creates the team editor for a project.
func NewTeamView(d *dispatch.Dispatcher, sess *session.Store, project models.Project) *TeamView {
	selected := make(map[string]bool, len(project.TeamMembers))
	for _, id := range project.TeamMembers {
		selected[id] = true
	}
	return &TeamView{
		dispatch: d,
		session:  sess,
		project:  project,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		selected: selected,
	}
}

func (v *TeamView) Init() tea.Cmd {
	return v.dispatch.LoadUsers()
}

// candidates is everyone except the owner, who is always on the project.
func (v *TeamView) candidates() []models.User {
	var out []models.User
	for _, u := range v.users {
		if u.ID != v.project.OwnerID {
			out = append(out, u)
		}
	}
	return out
}

func (v *TeamView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		return v, nil

	case dispatch.UsersLoadedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not load users: " + api.Reason(msg.Err)
		} else {
			v.users = msg.Users
		}
		v.loaded = true
		return v, nil

	case dispatch.TeamUpdatedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not save team: " + api.Reason(msg.Err)
			return v, nil
		}
		v.project = msg.Project
		v.okMsg = "Team saved"
		v.errMsg = ""
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return CloseOverlay{} }

		case key.Matches(msg, v.keys.Up):
			v.cursor = clamp(v.cursor-1, 0, max(len(v.candidates())-1, 0))
			return v, nil

		case key.Matches(msg, v.keys.Down):
			v.cursor = clamp(v.cursor+1, 0, max(len(v.candidates())-1, 0))
			return v, nil

		case msg.String() == " " || key.Matches(msg, v.keys.Enter):
			cands := v.candidates()
			if v.cursor < len(cands) {
				id := cands[v.cursor].ID
				v.selected[id] = !v.selected[id]
				v.okMsg = ""
			}
			return v, nil

		case msg.String() == "ctrl+s":
			return v, v.save()

		case key.Matches(msg, v.keys.Refresh):
			return v, v.dispatch.LoadUsers()
		}
	}

	return v, nil
}

func (v *TeamView) save() tea.Cmd {
	ids := make([]string, 0, len(v.selected))
	for _, u := range v.candidates() {
		if v.selected[u.ID] {
			ids = append(ids, u.ID)
		}
	}
	user, _ := v.session.Current()
	cmd, err := v.dispatch.UpdateTeam(user, v.project, ids)
	if err != nil {
		v.errMsg = api.Reason(err)
		return nil
	}
	v.errMsg = ""
	return cmd
}

// View renders the view
func (v *TeamView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var b strings.Builder
	b.WriteString(s.TitleBar.Width(contentWidth).Render(
		s.Title.Render("Team • " + v.project.Title),
	))
	b.WriteString("\n")

	if v.errMsg != "" {
		b.WriteString(s.ErrorBanner.Render(v.errMsg))
		b.WriteString("\n")
	}
	if v.okMsg != "" {
		b.WriteString(s.Success.Render(v.okMsg))
		b.WriteString("\n")
	}

	if !v.loaded {
		b.WriteString(s.TitleMuted.Render("Loading..."))
		return styles.CenterView(b.String(), v.width, v.height)
	}

	cands := v.candidates()
	if len(cands) == 0 {
		b.WriteString(s.TitleMuted.Render("No other users to add"))
	}

	var lines []string
	for i, u := range cands {
		mark := "[ ]"
		if v.selected[u.ID] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s (%s) %s", mark, u.Name, u.Email, s.Badge.Render(u.Role))
		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		lines = append(lines, style.Width(contentWidth-6).Render(line))
	}
	if len(lines) > 0 {
		b.WriteString(s.Panel.Width(contentWidth - 2).Render(
			lipgloss.JoinVertical(lipgloss.Left, lines...),
		))
	}

	b.WriteString("\n")
	b.WriteString(s.Help.Render(fmt.Sprintf("%s toggle • %s save • %s back",
		s.HelpKey.Render("space"),
		s.HelpKey.Render("ctrl+s"),
		s.HelpKey.Render("esc"),
	)))

	return styles.CenterView(b.String(), v.width, v.height)
}
