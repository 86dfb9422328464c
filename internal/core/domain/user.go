package domain

import "time"

// User is an entry in the admin user directory. Unlike Identity it carries
// the account's active flag; deactivated accounts fail login with
// ErrAccountDisabled until an admin reactivates them.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	Active    bool
	CreatedAt time.Time
}
