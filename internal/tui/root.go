package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasklight/tasklight/internal/core/domain"
	"github.com/tasklight/tasklight/internal/core/ports"
)

// SessionOps is the session controller surface the UI drives. The UI never
// mutates session state directly; it calls operations and re-renders off
// the published transitions.
type SessionOps interface {
	ports.SessionReader
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password, role string) error
	Logout(ctx context.Context) error
}

// TodoOps is the todo service surface consumed by the todos page.
type TodoOps interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, title, description string) (*domain.Todo, error)
	Update(ctx context.Context, id, title, description string) (*domain.Todo, error)
	Toggle(ctx context.Context, id string, completed bool) (*domain.Todo, error)
	Delete(ctx context.Context, id string) error
	Summarize(ctx context.Context) (string, error)
}

// UserOps is the user directory surface consumed by the admin users page.
type UserOps interface {
	List(ctx context.Context) ([]domain.User, error)
	ToggleStatus(ctx context.Context, id string) (*domain.User, error)
}

// Messages
type sessionMsg domain.Session

type bootstrapDoneMsg struct{}

type authResultMsg struct {
	err error
}

type todosLoadedMsg struct {
	todos []domain.Todo
	err   error
}

type todoMutatedMsg struct {
	err error
}

type summaryMsg struct {
	summary string
	err     error
}

type usersLoadedMsg struct {
	users []domain.User
	err   error
}

type userToggledMsg struct {
	user *domain.User
	err  error
}

type loggedOutMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	session SessionOps
	todoOps TodoOps
	userOps UserOps
	guard   *Guard
	keys    KeyMap
	spinner spinner.Model

	page     Page
	login    loginModel
	register registerModel
	todos    todosModel
	users    usersModel

	updates <-chan domain.Session
	unsub   func()

	// wasAuthenticated and manualLogout tell a server-forced invalidation
	// apart from an explicit logout when the anonymous transition lands.
	wasAuthenticated bool
	manualLogout     bool

	width  int
	height int
}

func NewModel(session SessionOps, todoOps TodoOps, userOps UserOps) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = LabelStyle

	updates, unsub := session.Subscribe()

	return Model{
		session:  session,
		todoOps:  todoOps,
		userOps:  userOps,
		guard:    NewGuard(session),
		keys:     DefaultKeyMap(),
		spinner:  sp,
		page:     PageTodos,
		login:    newLoginModel(),
		register: newRegisterModel(),
		todos:    newTodosModel(),
		users:    newUsersModel(),
		updates:  updates,
		unsub:    unsub,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textinput.Blink,
		bootstrapCmd(m.session),
		waitForSession(m.updates),
	)
}

// Commands

func bootstrapCmd(session SessionOps) tea.Cmd {
	return func() tea.Msg {
		_ = session.Bootstrap(context.Background())
		return bootstrapDoneMsg{}
	}
}

func waitForSession(updates <-chan domain.Session) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return sessionMsg(s)
	}
}

func loginCmd(session SessionOps, email, password string) tea.Cmd {
	return func() tea.Msg {
		return authResultMsg{err: session.Login(context.Background(), email, password)}
	}
}

func registerCmd(session SessionOps, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		return authResultMsg{err: session.Register(context.Background(), name, email, password, "")}
	}
}

func logoutCmd(session SessionOps) tea.Cmd {
	return func() tea.Msg {
		_ = session.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func loadTodosCmd(ops TodoOps) tea.Cmd {
	return func() tea.Msg {
		todos, err := ops.List(context.Background())
		return todosLoadedMsg{todos: todos, err: err}
	}
}

func createTodoCmd(ops TodoOps, title, desc string) tea.Cmd {
	return func() tea.Msg {
		_, err := ops.Create(context.Background(), title, desc)
		return todoMutatedMsg{err: err}
	}
}

func updateTodoCmd(ops TodoOps, id, title, desc string) tea.Cmd {
	return func() tea.Msg {
		_, err := ops.Update(context.Background(), id, title, desc)
		return todoMutatedMsg{err: err}
	}
}

func toggleTodoCmd(ops TodoOps, id string, completed bool) tea.Cmd {
	return func() tea.Msg {
		_, err := ops.Toggle(context.Background(), id, completed)
		return todoMutatedMsg{err: err}
	}
}

func deleteTodoCmd(ops TodoOps, id string) tea.Cmd {
	return func() tea.Msg {
		return todoMutatedMsg{err: ops.Delete(context.Background(), id)}
	}
}

func summaryCmd(ops TodoOps) tea.Cmd {
	return func() tea.Msg {
		summary, err := ops.Summarize(context.Background())
		return summaryMsg{summary: summary, err: err}
	}
}

func loadUsersCmd(ops UserOps) tea.Cmd {
	return func() tea.Msg {
		users, err := ops.List(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func toggleUserCmd(ops UserOps, id string) tea.Cmd {
	return func() tea.Msg {
		user, err := ops.ToggleStatus(context.Background(), id)
		return userToggledMsg{user: user, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionMsg:
		return m.onSessionChange(domain.Session(msg))

	case bootstrapDoneMsg:
		return m, nil

	case authResultMsg:
		return m.onAuthResult(msg.err)

	case loggedOutMsg:
		// The redirect itself rides on the published session transition.
		return m, nil

	case todosLoadedMsg:
		if msg.err != nil {
			// A 401 here already forced the session anonymous via the
			// transport hook; the guard redirect handles it silently.
			if m.session.Current().Authenticated() {
				m.todos.errMsg = "failed to load todos"
			}
			m.todos.loading = false
			return m, nil
		}
		m.todos.errMsg = ""
		m.todos.setTodos(msg.todos)
		return m, nil

	case todoMutatedMsg:
		if msg.err != nil {
			if m.session.Current().Authenticated() {
				m.todos.errMsg = "request failed, please try again"
			}
			return m, nil
		}
		m.todos.errMsg = ""
		m.todos.closeForm()
		return m, loadTodosCmd(m.todoOps)

	case summaryMsg:
		if msg.err != nil {
			if m.session.Current().Authenticated() {
				m.todos.errMsg = "failed to fetch summary"
			}
			return m, nil
		}
		m.todos.summary = msg.summary
		return m, nil

	case usersLoadedMsg:
		if msg.err != nil {
			if m.session.Current().Authenticated() {
				m.users.errMsg = "failed to load users"
			}
			m.users.loading = false
			return m, nil
		}
		m.users.errMsg = ""
		m.users.setUsers(msg.users)
		return m, nil

	case userToggledMsg:
		switch {
		case errors.Is(msg.err, domain.ErrOwnAccount):
			m.users.errMsg = msg.err.Error()
		case msg.err != nil:
			if m.session.Current().Authenticated() {
				m.users.errMsg = "request failed, please try again"
			}
		default:
			m.users.errMsg = ""
			m.users.applyToggle(*msg.user)
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

// onSessionChange re-evaluates routing after every session transition,
// including a background unauthorized signal while todos are mounted.
func (m Model) onSessionChange(s domain.Session) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForSession(m.updates)}

	if !m.session.Ready() {
		return m, tea.Batch(cmds...)
	}

	authenticated := s.Status == domain.StatusAuthenticated
	switch {
	case !authenticated && m.page.guarded():
		if m.guard.Resolve(m.page) == RouteLogin {
			m.login.reset()
			if m.wasAuthenticated && !m.manualLogout {
				m.login.errMsg = domain.ErrSessionExpired.Error()
			}
			m.page = PageLogin
		}
	case authenticated && m.page == PageTodos:
		if m.todos.loading {
			cmds = append(cmds, loadTodosCmd(m.todoOps))
		}
	case authenticated && m.page == PageUsers:
		if m.users.loading && m.isAdmin() {
			cmds = append(cmds, loadUsersCmd(m.userOps))
		}
	case authenticated:
		// Login or register resolved (possibly restored in the background):
		// return to the page the user originally asked for.
		m.page = m.guard.Resume()
		m.todos = newTodosModel()
		cmds = append(cmds, loadTodosCmd(m.todoOps))
		if m.page == PageUsers && m.isAdmin() {
			m.users = newUsersModel()
			cmds = append(cmds, loadUsersCmd(m.userOps))
		}
	}

	m.wasAuthenticated = authenticated
	if !authenticated {
		m.manualLogout = false
	}

	return m, tea.Batch(cmds...)
}

// isAdmin reports whether the current identity carries the admin role.
func (m Model) isAdmin() bool {
	identity := m.session.Current().Identity
	return identity != nil && identity.Role == domain.RoleAdmin
}

func (m Model) onAuthResult(err error) (tea.Model, tea.Cmd) {
	if err == nil {
		// Navigation happens in onSessionChange when the transition lands.
		return m, nil
	}
	switch m.page {
	case PageLogin:
		m.login.submitting = false
		m.login.errMsg = err.Error()
	case PageRegister:
		m.register.submitting = false
		m.register.errMsg = err.Error()
	}
	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.unsub()
		return m, tea.Quit
	}

	switch m.page {
	case PageLogin:
		return m.onLoginKey(msg)
	case PageRegister:
		return m.onRegisterKey(msg)
	case PageUsers:
		return m.onUsersKey(msg)
	default:
		return m.onTodosKey(msg)
	}
}

func (m Model) onLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if email, password, ok := m.login.submit(); ok {
			return m, loginCmd(m.session, email, password)
		}
		return m, nil
	case tea.KeyTab:
		m.login.cycleFocus()
		return m, nil
	case tea.KeyCtrlR:
		m.register.reset()
		m.page = PageRegister
		return m, nil
	}
	return m, m.login.update(msg)
}

func (m Model) onRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if name, email, password, ok := m.register.submit(); ok {
			return m, registerCmd(m.session, name, email, password)
		}
		return m, nil
	case tea.KeyTab:
		m.register.cycleFocus()
		return m, nil
	case tea.KeyEsc:
		m.login.reset()
		m.page = PageLogin
		return m, nil
	}
	return m, m.register.update(msg)
}

func (m Model) onTodosKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.guard.Resolve(PageTodos) != RouteRender {
		return m, nil
	}

	if m.todos.mode != todosList {
		switch msg.Type {
		case tea.KeyEnter:
			title, desc, ok := m.todos.submitForm()
			if !ok {
				return m, nil
			}
			if m.todos.mode == todosEdit {
				return m, updateTodoCmd(m.todoOps, m.todos.editID, title, desc)
			}
			return m, createTodoCmd(m.todoOps, title, desc)
		case tea.KeyTab:
			m.todos.cycleFocus()
			return m, nil
		case tea.KeyEsc:
			m.todos.closeForm()
			return m, nil
		}
		return m, m.todos.updateForm(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unsub()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.todos.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.todos.moveCursor(1)
	case key.Matches(msg, m.keys.New):
		m.todos.startNew()
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.todos.selected(); ok {
			m.todos.startEdit(t)
		}
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.todos.selected(); ok {
			return m, toggleTodoCmd(m.todoOps, t.ID, !t.Completed)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.todos.selected(); ok {
			return m, deleteTodoCmd(m.todoOps, t.ID)
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, loadTodosCmd(m.todoOps)
	case key.Matches(msg, m.keys.Summary):
		return m, summaryCmd(m.todoOps)
	case key.Matches(msg, m.keys.Users):
		m.page = PageUsers
		m.users = newUsersModel()
		if m.isAdmin() {
			return m, loadUsersCmd(m.userOps)
		}
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		m.manualLogout = true
		return m, logoutCmd(m.session)
	}
	return m, nil
}

func (m Model) onUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.guard.Resolve(PageUsers) != RouteRender {
		return m, nil
	}

	if msg.Type == tea.KeyEsc {
		m.page = PageTodos
		return m, nil
	}
	if !m.isAdmin() {
		if key.Matches(msg, m.keys.Quit) {
			m.unsub()
			return m, tea.Quit
		}
		return m, nil
	}

	if m.users.confirm {
		m.users.confirm = false
		if msg.String() == "y" || msg.Type == tea.KeyEnter {
			if u, ok := m.users.selected(); ok {
				return m, toggleUserCmd(m.userOps, u.ID)
			}
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unsub()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.users.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.users.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		if _, ok := m.users.selected(); ok {
			m.users.confirm = true
			m.users.errMsg = ""
		}
	case key.Matches(msg, m.keys.Refresh):
		m.users = newUsersModel()
		return m, loadUsersCmd(m.userOps)
	case key.Matches(msg, m.keys.Logout):
		m.manualLogout = true
		return m, logoutCmd(m.session)
	}
	return m, nil
}

func (m Model) View() string {
	switch m.page {
	case PageLogin:
		return m.login.view()
	case PageRegister:
		return m.register.view()
	}

	switch m.guard.Resolve(m.page) {
	case RouteWait:
		return BoxStyle.Render(m.spinner.View() + " Restoring session…")
	case RouteLogin:
		return m.login.view()
	}

	if m.page == PageUsers {
		if !m.isAdmin() {
			return BoxStyle.Render(ErrorStyle.Render("Access denied. Admins only.") + "\n\n" +
				HelpStyle.Render("esc back · q quit"))
		}
		return m.users.view()
	}

	who := ""
	if identity := m.session.Current().Identity; identity != nil {
		who = identity.Name
		if who == "" {
			who = identity.Email
		}
	}
	return m.todos.view(who, m.isAdmin())
}
