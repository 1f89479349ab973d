package main

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harunoki/guildctl/api"
	"github.com/harunoki/guildctl/model"
)

// sessionMsg is the outcome of any call that can establish a session:
// the startup cookie check, a credentials login, or the OAuth callback.
// fromLogin distinguishes "show the error on the form" from "silently
// fall back to the login view".
type sessionMsg struct {
	user      *model.SessionUser
	err       error
	fromLogin bool
}

type oauthURLMsg struct {
	url string
	err error
}

type logoutDoneMsg struct{}

// checkSession asks the backend whether the session cookie is still
// good. It never surfaces an error: any failure just lands on the login
// view.
func checkSessionCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		user, err := c.Me(context.Background())
		return sessionMsg{user: user, err: err}
	}
}

func loginCmd(c *api.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := c.Login(context.Background(), username, password)
		return sessionMsg{user: user, err: err, fromLogin: true}
	}
}

func oauthURLCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		u, err := c.DiscordAuthURL(context.Background())
		return oauthURLMsg{url: u, err: err}
	}
}

func oauthCallbackCmd(c *api.Client, code string) tea.Cmd {
	return func() tea.Msg {
		user, err := c.DiscordCallback(context.Background(), code)
		return sessionMsg{user: user, err: err, fromLogin: true}
	}
}

// logoutCmd is best effort: a failed backend call still logs the
// operator out locally.
func logoutCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		if err := c.Logout(context.Background()); err != nil {
			log.Printf("logout call failed (ignored): %v", err)
		}
		return logoutDoneMsg{}
	}
}

type loginModel struct {
	username textinput.Model
	password textinput.Model
	code     textinput.Model
	focus    int
	errText  string
	busy     bool
	oauthURL string
}

func newLoginModel() loginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Width = 30
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.Width = 30
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	code := textinput.New()
	code.Placeholder = "paste OAuth code"
	code.CharLimit = 256
	code.Width = 30

	return loginModel{username: user, password: pass, code: code}
}

func (l *loginModel) inputs() []*textinput.Model {
	ins := []*textinput.Model{&l.username, &l.password}
	if l.oauthURL != "" {
		ins = append(ins, &l.code)
	}
	return ins
}

func (l *loginModel) setFocus(i int) {
	ins := l.inputs()
	if i < 0 {
		i = len(ins) - 1
	}
	if i >= len(ins) {
		i = 0
	}
	for j, in := range ins {
		if j == i {
			in.Focus()
		} else {
			in.Blur()
		}
	}
	l.focus = i
}

func (l *loginModel) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, in := range l.inputs() {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

var loginBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)

func (l *loginModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(formTitleStyle.Render("guildctl — sign in"))
	b.WriteString("\n\n")
	b.WriteString("  " + l.username.View() + "\n")
	b.WriteString("  " + l.password.View() + "\n")
	if l.oauthURL != "" {
		b.WriteString("\n  Open this URL in a browser, then paste the code:\n")
		b.WriteString("  " + l.oauthURL + "\n")
		b.WriteString("  " + l.code.View() + "\n")
	}
	b.WriteString("\n")
	if l.busy {
		b.WriteString("  signing in...\n")
	}
	if l.errText != "" {
		b.WriteString("  " + formErrStyle.Render(l.errText) + "\n")
	}
	b.WriteString("\n  enter: sign in · ctrl+d: Discord OAuth · ctrl+c: quit")

	box := loginBoxStyle.Render(b.String())
	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// loginErrText translates a failed login into the message shown inline
// on the form. A 401 here is a rejected credential, not an expired
// session.
func loginErrText(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "invalid username or password"
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "login failed: " + err.Error()
}
