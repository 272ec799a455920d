package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/api"
	"taskflow/internal/board"
	"taskflow/internal/dispatch"
	"taskflow/internal/models"
	"taskflow/internal/session"
	"taskflow/internal/ui/keys"
	"taskflow/internal/ui/styles"
)

// BoardView renders a project's tasks as a three column kanban board.
type BoardView struct {
	dispatch *dispatch.Dispatcher
	session  *session.Store
	project  models.Project
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	board  board.Board
	col    int
	row    [3]int

	loaded     bool
	errMsg     string
	confirming bool // pending delete of selected task

	creating  bool
	newTitle  textinput.Model
	newDesc   textinput.Model
	newDue    textinput.Model
	assignee  int // index into members, -1 = unassigned
	members   []models.User
	focusIdx  int // 0=title, 1=desc, 2=due, 3=assignee, 4=confirm
}

// NewBoardView creates a board for the given project.
func NewBoardView(d *dispatch.Dispatcher, sess *session.Store, project models.Project) *BoardView {
	newTitle := textinput.New()
	newTitle.Placeholder = "Task title"
	newTitle.CharLimit = 120

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 250

	newDue := textinput.New()
	newDue.Placeholder = "Due date YYYY-MM-DD (optional)"
	newDue.CharLimit = 10

	return &BoardView{
		dispatch: d,
		session:  sess,
		project:  project,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		newTitle: newTitle,
		newDesc:  newDesc,
		newDue:   newDue,
		assignee: -1,
	}
}

// ProjectID reports which project the board is showing.
func (v *BoardView) ProjectID() string { return v.project.ID }

func (v *BoardView) Init() tea.Cmd {
	return tea.Batch(
		v.dispatch.RefreshTasks(v.project.ID),
		v.dispatch.LoadUsers(),
	)
}

func (v *BoardView) rebuild() {
	v.board = board.Partition(v.dispatch.Tasks.Items())
	for i := range v.row {
		n := len(v.column(i))
		if n == 0 {
			v.row[i] = 0
		} else {
			v.row[i] = clamp(v.row[i], 0, n-1)
		}
	}
}

func (v *BoardView) column(i int) []models.Task {
	switch i {
	case 0:
		return v.board.Todo
	case 1:
		return v.board.InProgress
	default:
		return v.board.Done
	}
}

func (v *BoardView) selected() (models.Task, bool) {
	col := v.column(v.col)
	if len(col) == 0 {
		return models.Task{}, false
	}
	return col[v.row[v.col]], true
}

func columnStatus(i int) string {
	return models.Statuses[i]
}

func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		return v, nil

	case dispatch.TasksRefreshedMsg:
		if msg.Err != nil && !v.loaded {
			v.errMsg = "Could not load tasks: " + api.Reason(msg.Err)
		}
		v.rebuild()
		v.loaded = true
		return v, nil

	case dispatch.UsersLoadedMsg:
		if msg.Err == nil {
			v.members = v.projectMembers(msg.Users)
		}
		return v, nil

	case dispatch.TaskCreatedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not create task: " + api.Reason(msg.Err)
			return v, nil
		}
		v.creating = false
		v.rebuild()
		return v, nil

	case dispatch.TaskMovedMsg:
		if msg.Err != nil {
			v.errMsg = "Move failed, position restored: " + api.Reason(msg.Err)
			v.rebuild()
			if api.IsForbidden(msg.Err) {
				// Local ownership data was stale; re-sync the board.
				return v, v.dispatch.RefreshTasks(v.project.ID)
			}
			return v, nil
		}
		v.rebuild()
		return v, nil

	case dispatch.TaskDeletedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not delete task: " + api.Reason(msg.Err)
			return v, nil
		}
		v.rebuild()
		return v, nil

	case tea.KeyMsg:
		if v.creating {
			return v.updateCreating(msg)
		}
		if v.confirming {
			return v.updateConfirming(msg)
		}
		return v.updateBrowsing(msg)
	}

	return v, nil
}

func (v *BoardView) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Left):
		v.col = clamp(v.col-1, 0, 2)
		return v, nil

	case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Tab):
		v.col = clamp(v.col+1, 0, 2)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		v.row[v.col] = clamp(v.row[v.col]-1, 0, max(len(v.column(v.col))-1, 0))
		return v, nil

	case key.Matches(msg, v.keys.Down):
		v.row[v.col] = clamp(v.row[v.col]+1, 0, max(len(v.column(v.col))-1, 0))
		return v, nil

	case key.Matches(msg, v.keys.MoveLeft):
		if task, ok := v.selected(); ok && v.col > 0 {
			v.errMsg = ""
			cmd := v.dispatch.MoveTask(task.ID, columnStatus(v.col-1))
			v.rebuild()
			return v, cmd
		}
		return v, nil

	case key.Matches(msg, v.keys.MoveRight):
		if task, ok := v.selected(); ok && v.col < 2 {
			v.errMsg = ""
			cmd := v.dispatch.MoveTask(task.ID, columnStatus(v.col+1))
			v.rebuild()
			return v, cmd
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if task, ok := v.selected(); ok {
			return v, func() tea.Msg { return OpenTask{Task: task} }
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		user, _ := v.session.Current()
		if !board.CanCreateTask(user, v.project) {
			v.errMsg = "Only the project owner can create tasks"
			return v, nil
		}
		v.creating = true
		v.errMsg = ""
		v.focusIdx = 0
		v.assignee = -1
		v.newTitle.Reset()
		v.newDesc.Reset()
		v.newDue.Reset()
		v.newTitle.Focus()
		v.newDesc.Blur()
		v.newDue.Blur()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if _, ok := v.selected(); ok {
			v.confirming = true
		}
		return v, nil

	case key.Matches(msg, v.keys.Team):
		return v, func() tea.Msg { return OpenTeam{Project: v.project} }

	case key.Matches(msg, v.keys.Dashboard):
		return v, func() tea.Msg { return OpenDashboard{} }

	case key.Matches(msg, v.keys.Notifications):
		return v, func() tea.Msg { return OpenNotifications{} }

	case key.Matches(msg, v.keys.Refresh):
		v.errMsg = ""
		return v, v.dispatch.RefreshTasks(v.project.ID)
	}

	return v, nil
}

func (v *BoardView) updateConfirming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirming = false
		if task, ok := v.selected(); ok {
			return v, v.dispatch.DeleteTask(task.ID)
		}
		return v, nil
	default:
		v.confirming = false
		return v, nil
	}
}

func (v *BoardView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	const fieldCount = 5

	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.submitCreate()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + fieldCount - 1) % fieldCount
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % fieldCount
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < fieldCount-1 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.submitCreate()
	}

	if v.focusIdx == 3 {
		switch msg.String() {
		case "left", "h":
			v.assignee = clamp(v.assignee-1, -1, len(v.members)-1)
		case "right", "l":
			v.assignee = clamp(v.assignee+1, -1, len(v.members)-1)
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newTitle, cmd = v.newTitle.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	case 2:
		v.newDue, cmd = v.newDue.Update(msg)
	}
	return v, cmd
}

func (v *BoardView) updateFocus() {
	v.newTitle.Blur()
	v.newDesc.Blur()
	v.newDue.Blur()
	switch v.focusIdx {
	case 0:
		v.newTitle.Focus()
	case 1:
		v.newDesc.Focus()
	case 2:
		v.newDue.Focus()
	}
}

func (v *BoardView) submitCreate() tea.Cmd {
	title := strings.TrimSpace(v.newTitle.Value())
	if title == "" {
		v.errMsg = "A task needs a title"
		return nil
	}

	draft := api.TaskDraft{
		Title:       title,
		Description: strings.TrimSpace(v.newDesc.Value()),
		Status:      models.StatusTodo,
	}

	if due := strings.TrimSpace(v.newDue.Value()); due != "" {
		t, err := time.Parse("2006-01-02", due)
		if err != nil {
			v.errMsg = "Due date must look like 2026-01-31"
			return nil
		}
		draft.DueDate = &t
	}

	if v.assignee >= 0 && v.assignee < len(v.members) {
		draft.AssignedTo = v.members[v.assignee].ID
	}

	user, _ := v.session.Current()
	cmd, err := v.dispatch.CreateTask(user, v.project, draft)
	if err != nil {
		v.errMsg = api.Reason(err)
		return nil
	}
	v.errMsg = ""
	return cmd
}

// projectMembers filters the user directory down to the owner plus team members.
func (v *BoardView) projectMembers(users []models.User) []models.User {
	onTeam := map[string]bool{v.project.OwnerID: true}
	for _, id := range v.project.TeamMembers {
		onTeam[id] = true
	}
	var out []models.User
	for _, u := range users {
		if onTeam[u.ID] {
			out = append(out, u)
		}
	}
	return out
}

// View renders the view
func (v *BoardView) View() string {
	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	colWidth := max((contentWidth-8)/3, 20)

	var cols []string
	headers := []string{"To Do", "In Progress", "Done"}
	for i := 0; i < 3; i++ {
		cols = append(cols, v.renderColumn(i, headers[i], colWidth))
	}

	title := s.TitleBar.Width(contentWidth).Render(
		s.Title.Render(v.project.Title),
	)

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	if v.errMsg != "" {
		b.WriteString(s.ErrorBanner.Render(v.errMsg))
		b.WriteString("\n")
	}
	if v.confirming {
		if task, ok := v.selected(); ok {
			b.WriteString(s.ErrorBanner.Render(fmt.Sprintf("Delete %q? (y/n)", task.Title)))
			b.WriteString("\n")
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")
	if v.board.Hidden > 0 {
		b.WriteString(s.TitleMuted.Render(fmt.Sprintf("%d task(s) with unrecognized status hidden", v.board.Hidden)))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *BoardView) renderColumn(i int, header string, width int) string {
	s := v.styles
	focused := i == v.col

	headerLine := s.ColumnHeader.Width(width - 2).Render(
		fmt.Sprintf("%s (%d)", header, len(v.column(i))),
	)

	var cards []string
	cards = append(cards, headerLine)
	for j, task := range v.column(i) {
		style := s.Card
		if focused && j == v.row[i] {
			style = s.CardSelected
		}
		cards = append(cards, style.Width(width-4).Render(v.renderCard(task, width-6)))
	}
	if len(v.column(i)) == 0 {
		cards = append(cards, s.TitleMuted.Width(width-4).Render("empty"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, cards...)
	if focused {
		return s.ColumnFocused.Width(width).Render(body)
	}
	return s.Column.Width(width).Render(body)
}

func (v *BoardView) renderCard(task models.Task, width int) string {
	title := truncate(task.Title, width)
	lines := []string{title}
	if task.DueDate != nil {
		lines = append(lines, v.styles.TitleMuted.Render("due "+task.DueDate.Format("Jan 2")))
	}
	return strings.Join(lines, "\n")
}

func (v *BoardView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	fieldStyle := func(i int) lipgloss.Style {
		if v.focusIdx == i {
			return s.InputFocused
		}
		return s.Input
	}

	assigneeLabel := "Unassigned"
	if v.assignee >= 0 && v.assignee < len(v.members) {
		assigneeLabel = v.members[v.assignee].Name
	}
	assigneeStyle := s.Input
	if v.focusIdx == 3 {
		assigneeStyle = s.InputFocused
	}

	btnStyle := s.Button
	if v.focusIdx == 4 {
		btnStyle = s.ButtonFocused
	}

	rows := []string{
		s.Title.Render("New Task"),
		"",
	}
	if v.errMsg != "" {
		rows = append(rows, s.ErrorBanner.Render(v.errMsg), "")
	}
	rows = append(rows,
		"Title:",
		fieldStyle(0).Width(inputWidth).Render(v.newTitle.View()),
		"",
		"Description:",
		fieldStyle(1).Width(inputWidth).Render(v.newDesc.View()),
		"",
		"Due date:",
		fieldStyle(2).Width(inputWidth).Render(v.newDue.View()),
		"",
		"Assignee:",
		assigneeStyle.Width(inputWidth).Render("◀ "+assigneeLabel+" ▶"),
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

func (v *BoardView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		fmt.Sprintf("%s navigate • %s move • %s open • %s new • %s delete • %s team • %s refresh • %s back",
			s.HelpKey.Render("hjkl"),
			s.HelpKey.Render("[/]"),
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("t"),
			s.HelpKey.Render("R"),
			s.HelpKey.Render("esc"),
		),
	)
}
