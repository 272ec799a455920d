package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"taskflow/internal/config"
	"taskflow/internal/dispatch"
	"taskflow/internal/models"
	"taskflow/internal/session"
	"taskflow/internal/store"
	"taskflow/internal/ui/keys"
	"taskflow/internal/ui/styles"
	"taskflow/internal/ui/views"
)

// Screen identifies the active view.
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenProjects
	ScreenBoard
	ScreenTask
	ScreenTeam
	ScreenDashboard
	ScreenNotifications
)

// restoredMsg carries the result of the startup session restore.
type restoredMsg struct {
	user models.User
	ok   bool
}

// pollTickMsg fires the periodic notification refresh. A tick from a
// previous sign-in carries a stale generation and is dropped without
// rescheduling, which stops the old poll loop.
type pollTickMsg struct {
	gen uint64
}

// App is the root model that routes between screens.
type App struct {
	cfg      *config.Config
	session  *session.Store
	dispatch *dispatch.Dispatcher
	settings *store.Settings
	log      zerolog.Logger
	keys     keys.KeyMap

	screen Screen
	prev   Screen // screen to return to from dashboard/notifications

	auth          *views.AuthView
	projects      *views.ProjectListView
	board         *views.BoardView
	task          *views.TaskDetailView
	team          *views.TeamView
	dashboard     *views.DashboardView
	notifications *views.NotificationsView

	width  int
	height int
}

// NewApp creates the root application model.
func NewApp(cfg *config.Config, sess *session.Store, d *dispatch.Dispatcher, settings *store.Settings, log zerolog.Logger) *App {
	if theme, err := settings.Theme(); err == nil && theme != "" {
		styles.SetTheme(theme)
	}
	return &App{
		cfg:      cfg,
		session:  sess,
		dispatch: d,
		settings: settings,
		log:      log,
		keys:     keys.DefaultKeyMap(),
		auth:     views.NewAuthView(sess),
	}
}

func (a *App) Init() tea.Cmd {
	return func() tea.Msg {
		user, ok := a.session.Restore(context.Background())
		return restoredMsg{user: user, ok: ok}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Cache reconciliation happens before any view sees the message.
	a.dispatch.Resolve(msg)

	// A 401 on any call made with the stored token means the credential
	// expired server-side. Demote the session rather than keep failing.
	if a.screen != ScreenAuth && dispatch.AuthExpired(msg) {
		a.log.Warn().Msg("stored credential rejected mid-session, signing out")
		cmd := a.logout()
		a.auth.ShowMessage("Your session expired, sign in again")
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, a.broadcast(msg)

	case restoredMsg:
		if msg.ok {
			return a, a.signIn()
		}
		a.screen = ScreenAuth
		return a, a.open(a.auth)

	case pollTickMsg:
		if msg.gen != a.session.Generation() {
			return a, nil
		}
		return a, tea.Batch(
			a.dispatch.RefreshNotifications(msg.gen),
			a.pollTick(msg.gen),
		)

	case views.SignedIn:
		return a, a.signIn()

	case views.SelectedProject:
		a.board = views.NewBoardView(a.dispatch, a.session, msg.Project)
		a.screen = ScreenBoard
		return a, a.open(a.board)

	case views.BackToProjects:
		a.screen = ScreenProjects
		a.board = nil
		return a, a.dispatch.RefreshProjects()

	case views.OpenTask:
		a.task = views.NewTaskDetailView(a.dispatch, a.session, msg.Task)
		a.screen = ScreenTask
		return a, a.open(a.task)

	case views.OpenTeam:
		a.team = views.NewTeamView(a.dispatch, a.session, msg.Project)
		a.screen = ScreenTeam
		return a, a.open(a.team)

	case views.OpenDashboard:
		a.prev = a.screen
		a.dashboard = views.NewDashboardView(a.dispatch)
		a.screen = ScreenDashboard
		return a, a.open(a.dashboard)

	case views.OpenNotifications:
		a.prev = a.screen
		a.notifications = views.NewNotificationsView(a.dispatch, a.session)
		a.screen = ScreenNotifications
		return a, a.open(a.notifications)

	case views.CloseOverlay:
		return a, a.closeOverlay()

	case tea.KeyMsg:
		if a.screen != ScreenAuth {
			switch {
			case key.Matches(msg, a.keys.Logout):
				return a, a.logout()
			case key.Matches(msg, a.keys.Theme):
				return a, a.toggleTheme()
			}
		}
	}

	return a, a.route(msg)
}

// route delegates a message to the active view.
func (a *App) route(msg tea.Msg) tea.Cmd {
	view := a.active()
	if view == nil || isNilPointer(view) {
		return nil
	}
	_, cmd := view.Update(msg)
	return cmd
}

func (a *App) active() tea.Model {
	switch a.screen {
	case ScreenAuth:
		return a.auth
	case ScreenProjects:
		return a.projects
	case ScreenBoard:
		return a.board
	case ScreenTask:
		return a.task
	case ScreenTeam:
		return a.team
	case ScreenDashboard:
		return a.dashboard
	case ScreenNotifications:
		return a.notifications
	}
	return nil
}

// open initializes a freshly created view and replays the terminal size.
func (a *App) open(view tea.Model) tea.Cmd {
	cmds := []tea.Cmd{view.Init()}
	if a.width > 0 {
		_, cmd := view.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// broadcast delivers a message to every live view, not just the active one.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, view := range []tea.Model{a.auth, a.projects, a.board, a.task, a.team, a.dashboard, a.notifications} {
		if view == nil || isNilPointer(view) {
			continue
		}
		_, cmd := view.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) signIn() tea.Cmd {
	a.projects = views.NewProjectListView(a.dispatch, a.session)
	a.screen = ScreenProjects
	gen := a.session.Generation()
	return tea.Batch(
		a.open(a.projects),
		a.dispatch.RefreshNotifications(gen),
		a.pollTick(gen),
	)
}

func (a *App) pollTick(gen uint64) tea.Cmd {
	return tea.Tick(a.cfg.PollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

func (a *App) logout() tea.Cmd {
	a.session.Logout()
	a.dispatch.ClearAll()
	a.projects = nil
	a.board = nil
	a.task = nil
	a.team = nil
	a.dashboard = nil
	a.notifications = nil
	a.auth = views.NewAuthView(a.session)
	a.screen = ScreenAuth
	a.log.Info().Msg("signed out")
	return a.open(a.auth)
}

func (a *App) toggleTheme() tea.Cmd {
	name := "light"
	if styles.Current.Name == "light" {
		name = "dark"
	}
	styles.SetTheme(name)
	if err := a.settings.SetTheme(name); err != nil {
		a.log.Warn().Err(err).Msg("could not persist theme")
	}
	return a.broadcast(views.ThemeChanged{})
}

func (a *App) closeOverlay() tea.Cmd {
	switch a.screen {
	case ScreenTask, ScreenTeam:
		a.screen = ScreenBoard
		a.task = nil
		a.team = nil
		if a.board != nil {
			return a.dispatch.RefreshTasks(a.board.ProjectID())
		}
		a.screen = ScreenProjects
		return a.dispatch.RefreshProjects()
	case ScreenDashboard, ScreenNotifications:
		a.screen = a.prev
		a.dashboard = nil
		a.notifications = nil
		if a.screen == ScreenBoard && a.board == nil {
			a.screen = ScreenProjects
		}
		if a.screen == ScreenProjects && a.projects == nil {
			a.projects = views.NewProjectListView(a.dispatch, a.session)
			return a.open(a.projects)
		}
	}
	return nil
}

// isNilPointer guards against typed-nil view pointers inside tea.Model.
func isNilPointer(m tea.Model) bool {
	switch v := m.(type) {
	case *views.AuthView:
		return v == nil
	case *views.ProjectListView:
		return v == nil
	case *views.BoardView:
		return v == nil
	case *views.TaskDetailView:
		return v == nil
	case *views.TeamView:
		return v == nil
	case *views.DashboardView:
		return v == nil
	case *views.NotificationsView:
		return v == nil
	}
	return false
}

func (a *App) View() string {
	view := a.active()
	if view == nil || isNilPointer(view) {
		return ""
	}
	return view.View()
}
