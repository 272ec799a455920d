package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/api"
	"taskflow/internal/models"
	"taskflow/internal/session"
	"taskflow/internal/ui/keys"
	"taskflow/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

var roles = []string{"Team Member", "Manager", "Admin"}

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// AuthView shows the login and registration forms.
type AuthView struct {
	session *session.Store
	styles  *styles.Styles
	keys    keys.KeyMap

	mode     authMode
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	roleIdx  int
	focusIdx int

	errMsg  string
	loading bool

	width  int
	height int
}

// NewAuthView creates the authentication view.
func NewAuthView(sess *session.Store) *AuthView {
	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 200
	password.EchoMode = textinput.EchoPassword

	return &AuthView{
		session:  sess,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		name:     name,
		email:    email,
		password: password,
	}
}

func (v *AuthView) Init() tea.Cmd {
	return textinput.Blink
}

// ShowMessage surfaces a notice above the form, such as a session expiry.
func (v *AuthView) ShowMessage(msg string) {
	v.errMsg = msg
}

type authResultMsg struct {
	user models.User
	err  error
}

// fieldCount returns how many focusable slots the current form has,
// including the submit button and the mode-switch link.
func (v *AuthView) fieldCount() int {
	if v.mode == modeRegister {
		return 6 // name, email, password, role, submit, switch
	}
	return 4 // email, password, submit, switch
}

func (v *AuthView) submitIdx() int { return v.fieldCount() - 2 }
func (v *AuthView) switchIdx() int { return v.fieldCount() - 1 }

func (v *AuthView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		return v, nil

	case authResultMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = api.Reason(msg.err)
			return v, nil
		}
		return v, func() tea.Msg { return SignedIn{User: msg.user} }

	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Tab):
			v.cycleFocus(1)
			return v, textinput.Blink

		case msg.String() == "shift+tab":
			v.cycleFocus(-1)
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Enter):
			switch v.focusIdx {
			case v.submitIdx():
				return v, v.submit()
			case v.switchIdx():
				v.toggleMode()
				return v, textinput.Blink
			default:
				v.cycleFocus(1)
				return v, textinput.Blink
			}

		case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Right):
			// Role selector cycles with arrows when focused.
			if v.mode == modeRegister && v.focusIdx == 3 {
				dir := 1
				if key.Matches(msg, v.keys.Left) {
					dir = len(roles) - 1
				}
				v.roleIdx = (v.roleIdx + dir) % len(roles)
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	switch {
	case v.mode == modeRegister && v.focusIdx == 0:
		v.name, cmd = v.name.Update(msg)
	case v.focusIdx == v.emailIdx():
		v.email, cmd = v.email.Update(msg)
	case v.focusIdx == v.emailIdx()+1:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *AuthView) emailIdx() int {
	if v.mode == modeRegister {
		return 1
	}
	return 0
}

func (v *AuthView) cycleFocus(dir int) {
	n := v.fieldCount()
	v.focusIdx = (v.focusIdx + dir + n) % n
	v.updateFocus()
}

func (v *AuthView) updateFocus() {
	v.name.Blur()
	v.email.Blur()
	v.password.Blur()

	switch {
	case v.mode == modeRegister && v.focusIdx == 0:
		v.name.Focus()
	case v.focusIdx == v.emailIdx():
		v.email.Focus()
	case v.focusIdx == v.emailIdx()+1:
		v.password.Focus()
	}
}

func (v *AuthView) toggleMode() {
	if v.mode == modeLogin {
		v.mode = modeRegister
	} else {
		v.mode = modeLogin
	}
	v.errMsg = ""
	v.focusIdx = 0
	v.updateFocus()
	if v.mode == modeLogin {
		v.email.Focus()
	} else {
		v.name.Focus()
	}
}

func (v *AuthView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.errMsg = "Email and password are required"
		return nil
	}

	if v.mode == modeRegister && strings.TrimSpace(v.name.Value()) == "" {
		v.errMsg = "Name is required"
		return nil
	}

	v.errMsg = ""
	v.loading = true

	if v.mode == modeLogin {
		return func() tea.Msg {
			user, err := v.session.Login(context.Background(), email, password)
			return authResultMsg{user: user, err: err}
		}
	}

	profile := api.RegisterProfile{
		Name:     strings.TrimSpace(v.name.Value()),
		Email:    email,
		Password: password,
		Role:     roles[v.roleIdx],
	}
	return func() tea.Msg {
		user, err := v.session.Register(context.Background(), profile)
		return authResultMsg{user: user, err: err}
	}
}

// View renders the view
func (v *AuthView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-10, 20, 40)

	formTitle := "Sign in to TaskFlow"
	submitLabel := " Sign in "
	switchLabel := "Don't have an account? Sign up"
	if v.mode == modeRegister {
		formTitle = "Join TaskFlow"
		submitLabel = " Sign up "
		switchLabel = "Already have an account? Sign in"
	}

	var rows []string
	rows = append(rows, s.Title.Render(formTitle), "")

	if v.errMsg != "" {
		rows = append(rows, s.ErrorBanner.Render(v.errMsg), "")
	}

	field := func(label string, input textinput.Model, focused bool) {
		st := s.Input
		if focused {
			st = s.InputFocused
		}
		rows = append(rows, label, st.Width(inputWidth).Render(input.View()), "")
	}

	if v.mode == modeRegister {
		field("Name:", v.name, v.focusIdx == 0)
	}
	field("Email:", v.email, v.focusIdx == v.emailIdx())
	field("Password:", v.password, v.focusIdx == v.emailIdx()+1)

	if v.mode == modeRegister {
		roleStyle := s.Input
		if v.focusIdx == 3 {
			roleStyle = s.InputFocused
		}
		rows = append(rows, "Role:", roleStyle.Width(inputWidth).Render("◀ "+roles[v.roleIdx]+" ▶"), "")
	}

	btnStyle := s.Button
	if v.focusIdx == v.submitIdx() {
		btnStyle = s.ButtonFocused
	}
	if v.loading {
		rows = append(rows, s.TitleMuted.Render("Signing in..."))
	} else {
		rows = append(rows, btnStyle.Render(submitLabel))
	}

	switchStyle := s.TitleMuted
	if v.focusIdx == v.switchIdx() {
		switchStyle = s.Title
	}
	rows = append(rows, "", switchStyle.Render(switchLabel))
	rows = append(rows, "", s.Help.Render("Tab: next • ↵: submit"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
