package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// loginModel is the login form: email and password, inline classified
// errors, submission via the session controller.
type loginModel struct {
	inputs     []textinput.Model
	focus      int
	errMsg     string
	submitting bool
}

func newLoginModel() loginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	email.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 120

	return loginModel{inputs: []textinput.Model{email, password}}
}

func (m *loginModel) reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = 0
	m.inputs[0].Focus()
	m.errMsg = ""
	m.submitting = false
}

func (m *loginModel) cycleFocus() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

// submit validates the form and, when valid, returns the form values with
// ok=true. Invalid forms set an inline error and never reach the network.
func (m *loginModel) submit() (email, password string, ok bool) {
	form := loginForm{
		Email:    strings.TrimSpace(m.inputs[0].Value()),
		Password: m.inputs[1].Value(),
	}
	if msg := checkForm(form); msg != "" {
		m.errMsg = msg
		return "", "", false
	}
	m.errMsg = ""
	m.submitting = true
	return form.Email, form.Password, true
}

func (m *loginModel) update(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m loginModel) view() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Sign in") + "\n\n")
	b.WriteString(LabelStyle.Render("Email") + "\n" + m.inputs[0].View() + "\n\n")
	b.WriteString(LabelStyle.Render("Password") + "\n" + m.inputs[1].View() + "\n")
	if m.errMsg != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		b.WriteString("\n" + LabelStyle.Render("Signing in…") + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render("enter submit · tab next field · ctrl+r register · q quit"))
	return BoxStyle.Render(b.String())
}
