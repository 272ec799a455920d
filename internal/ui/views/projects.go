package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/api"
	"taskflow/internal/dispatch"
	"taskflow/internal/models"
	"taskflow/internal/session"
	"taskflow/internal/ui/keys"
	"taskflow/internal/ui/styles"
)

type projectItem struct {
	project models.Project
	owned   bool
}

func (i projectItem) Title() string {
	if i.owned {
		return i.project.Title + " ★"
	}
	return i.project.Title
}
func (i projectItem) Description() string { return i.project.Description }
func (i projectItem) FilterValue() string { return i.project.Title }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	title := titleStyle.Render(p.Title())
	desc := descStyle.Render(p.Description())

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// ProjectListView shows the projects the signed-in user can access.
type ProjectListView struct {
	dispatch *dispatch.Dispatcher
	session  *session.Store
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	loaded   bool
	creating bool
	errMsg   string
	newName  textinput.Model
	newDesc  textinput.Model
	focusIdx int // 0=name, 1=desc, 2=confirm
}

// NewProjectListView creates the project list view.
func NewProjectListView(d *dispatch.Dispatcher, sess *session.Store) *ProjectListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 200

	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		dispatch: d,
		session:  sess,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		newName:  newName,
		newDesc:  newDesc,
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.dispatch.RefreshProjects()
}

func (v *ProjectListView) rebuildItems() {
	user, _ := v.session.Current()
	projects := v.dispatch.Projects.Items()
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{project: p, owned: p.OwnerID == user.ID}
	}
	v.list.SetItems(items)
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		v.delegate.styles = v.styles
		v.list.Styles.Title = v.styles.Title
		return v, nil

	case dispatch.ProjectsRefreshedMsg:
		if msg.Err != nil && v.dispatch.Projects.Len() == 0 {
			// Explicit load with nothing to fall back on: show the error.
			v.errMsg = "Could not load projects: " + api.Reason(msg.Err)
		}
		v.rebuildItems()
		v.loaded = true
		return v, nil

	case dispatch.ProjectCreatedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not create project: " + api.Reason(msg.Err)
			return v, nil
		}
		v.creating = false
		v.rebuildItems()
		return v, func() tea.Msg {
			return SelectedProject{Project: msg.Project}
		}

	case tea.KeyMsg:
		if v.creating {
			return v.updateCreating(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			if v.list.FilterState() == list.Filtering {
				break
			}
			return v, tea.Quit
		case key.Matches(msg, v.keys.New):
			if v.list.FilterState() == list.Filtering {
				break
			}
			v.creating = true
			v.errMsg = ""
			v.focusIdx = 0
			v.newName.Reset()
			v.newDesc.Reset()
			v.newName.Focus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Dashboard):
			if v.list.FilterState() == list.Filtering {
				break
			}
			return v, func() tea.Msg { return OpenDashboard{} }
		case key.Matches(msg, v.keys.Notifications):
			if v.list.FilterState() == list.Filtering {
				break
			}
			return v, func() tea.Msg { return OpenNotifications{} }
		case key.Matches(msg, v.keys.Refresh):
			return v, v.dispatch.RefreshProjects()
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, func() tea.Msg {
					return SelectedProject{Project: item.project}
				}
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.submitCreate()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 2 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.submitCreate()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) submitCreate() tea.Cmd {
	name := strings.TrimSpace(v.newName.Value())
	if name == "" {
		v.errMsg = "A project needs a name"
		return nil
	}
	v.errMsg = ""
	return v.dispatch.CreateProject(name, strings.TrimSpace(v.newDesc.Value()))
}

func (v *ProjectListView) updateFocus() {
	v.newName.Blur()
	v.newDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDesc.Focus()
	}
}

// View renders the view
func (v *ProjectListView) View() string {
	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	var b strings.Builder
	if v.errMsg != "" {
		b.WriteString(v.styles.ErrorBanner.Render(v.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(v.list.View())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	msg := "Press 'n' to create your first project"
	if v.errMsg != "" {
		msg = v.errMsg
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render(msg),
		"",
		s.ButtonPrimary.Render(" New Project "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	rows := []string{
		s.Title.Render("New Project"),
		"",
	}
	if v.errMsg != "" {
		rows = append(rows, s.ErrorBanner.Render(v.errMsg), "")
	}
	rows = append(rows,
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.newDesc.View()),
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s dashboard • %s notifications • %s refresh • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("g"),
			v.styles.HelpKey.Render("N"),
			v.styles.HelpKey.Render("R"),
			v.styles.HelpKey.Render("q"),
		),
	)
}
