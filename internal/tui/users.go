package tui

import (
	"fmt"
	"strings"

	"github.com/tasklight/tasklight/internal/core/domain"
)

// usersModel renders the admin user directory: the account list and an
// activate/deactivate confirmation for the selected user.
type usersModel struct {
	users   []domain.User
	cursor  int
	confirm bool
	errMsg  string
	loading bool
}

func newUsersModel() usersModel {
	return usersModel{loading: true}
}

func (m *usersModel) setUsers(users []domain.User) {
	m.users = users
	m.loading = false
	if m.cursor >= len(users) {
		m.cursor = max(0, len(users)-1)
	}
}

func (m *usersModel) selected() (domain.User, bool) {
	if m.cursor < 0 || m.cursor >= len(m.users) {
		return domain.User{}, false
	}
	return m.users[m.cursor], true
}

func (m *usersModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(m.users) {
		m.cursor = next
	}
}

// applyToggle replaces the matching entry with the updated record from the
// backend.
func (m *usersModel) applyToggle(updated domain.User) {
	for i, u := range m.users {
		if u.ID == updated.ID {
			m.users[i] = updated
			return
		}
	}
}

func (m usersModel) view() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("User Management") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(LabelStyle.Render("Loading users…") + "\n")
	case len(m.users) == 0:
		b.WriteString(LabelStyle.Render("No users found.") + "\n")
	default:
		for i, u := range m.users {
			status := ActiveStyle.Render("active")
			if !u.Active {
				status = ErrorStyle.Render("inactive")
			}
			role := u.Role
			if role == domain.RoleAdmin {
				role = SelectedStyle.Render(role)
			}
			row := fmt.Sprintf("%-20s %-28s %s  %s", u.Name, u.Email, role, status)
			if !u.CreatedAt.IsZero() {
				row += LabelStyle.Render("  joined " + u.CreatedAt.Format("2006-01-02"))
			}
			if i == m.cursor {
				row = SelectedStyle.Render("› ") + row
			} else {
				row = "  " + row
			}
			b.WriteString(row + "\n")
		}
	}

	if m.confirm {
		if u, ok := m.selected(); ok {
			verb := "Deactivate"
			if !u.Active {
				verb = "Activate"
			}
			b.WriteString("\n" + SelectedStyle.Render(fmt.Sprintf("%s %s? y/n", verb, u.Name)) + "\n")
		}
	}
	if m.errMsg != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render("space activate/deactivate · r refresh · esc back · q quit"))
	return BoxStyle.Render(b.String())
}
