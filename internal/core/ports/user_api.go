package ports

import (
	"context"

	"github.com/tasklight/tasklight/internal/core/domain"
)

// UserAPI is the admin-only user directory surface.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	// ToggleUserStatus flips a user's active flag and returns the updated
	// record.
	ToggleUserStatus(ctx context.Context, id string) (*domain.User, error)
}
