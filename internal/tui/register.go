package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type registerForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// registerModel is the account creation form.
type registerModel struct {
	inputs     []textinput.Model
	focus      int
	errMsg     string
	submitting bool
}

func newRegisterModel() registerModel {
	name := textinput.New()
	name.Placeholder = "name"
	name.Focus()
	name.CharLimit = 120

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "password (min 6 characters)"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 120

	return registerModel{inputs: []textinput.Model{name, email, password}}
}

func (m *registerModel) reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = 0
	m.inputs[0].Focus()
	m.errMsg = ""
	m.submitting = false
}

func (m *registerModel) cycleFocus() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *registerModel) submit() (name, email, password string, ok bool) {
	form := registerForm{
		Name:     strings.TrimSpace(m.inputs[0].Value()),
		Email:    strings.TrimSpace(m.inputs[1].Value()),
		Password: m.inputs[2].Value(),
	}
	if msg := checkForm(form); msg != "" {
		m.errMsg = msg
		return "", "", "", false
	}
	m.errMsg = ""
	m.submitting = true
	return form.Name, form.Email, form.Password, true
}

func (m *registerModel) update(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m registerModel) view() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Create account") + "\n\n")
	b.WriteString(LabelStyle.Render("Name") + "\n" + m.inputs[0].View() + "\n\n")
	b.WriteString(LabelStyle.Render("Email") + "\n" + m.inputs[1].View() + "\n\n")
	b.WriteString(LabelStyle.Render("Password") + "\n" + m.inputs[2].View() + "\n")
	if m.errMsg != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		b.WriteString("\n" + LabelStyle.Render("Creating account…") + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render("enter submit · tab next field · esc back to login · q quit"))
	return BoxStyle.Render(b.String())
}
