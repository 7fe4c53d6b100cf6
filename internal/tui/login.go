package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel holds the sign-in / register form.
type loginModel struct {
	pseudo       textinput.Model
	password     textinput.Model
	focusIdx     int // 0 = pseudo, 1 = password
	registerMode bool
	errMsg       string
}

func newLoginModel() loginModel {
	pseudo := textinput.New()
	pseudo.Placeholder = "pseudo"
	pseudo.CharLimit = 20

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return loginModel{pseudo: pseudo, password: password}
}

func (l *loginModel) input() *textinput.Model {
	if l.focusIdx == 0 {
		return &l.pseudo
	}
	return &l.password
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.login.input().Blur()
		m.login.focusIdx = 1 - m.login.focusIdx
		return m, m.login.input().Focus()

	case "ctrl+r":
		m.login.registerMode = !m.login.registerMode
		return m, nil

	case "enter":
		pseudo := m.login.pseudo.Value()
		password := m.login.password.Value()
		if pseudo == "" || password == "" {
			m.login.errMsg = "pseudo and password are required"
			return m, nil
		}
		m.login.errMsg = ""
		register := m.login.registerMode
		return m, func() tea.Msg {
			if register {
				r, err := m.http.Register(pseudo, password)
				return authDoneMsg{resp: r, err: err}
			}
			r, err := m.http.Login(pseudo, password)
			return authDoneMsg{resp: r, err: err}
		}
	}

	var cmd tea.Cmd
	if m.login.focusIdx == 0 {
		m.login.pseudo, cmd = m.login.pseudo.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

func (l loginModel) view() string {
	mode := "Sign in"
	hint := "enter: sign in · ctrl+r: switch to register"
	if l.registerMode {
		mode = "Register"
		hint = "enter: create account · ctrl+r: switch to sign in"
	}
	out := titleStyle.Render(mode) + "\n\n" +
		"  " + l.pseudo.View() + "\n" +
		"  " + l.password.View() + "\n\n" +
		faintStyle.Render("  "+hint)
	if l.errMsg != "" {
		out += "\n\n  " + errorStyle.Render(l.errMsg)
	}
	return out
}
