package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tasklight/tasklight/internal/core/domain"
	"github.com/tasklight/tasklight/internal/core/ports"
	"github.com/tasklight/tasklight/internal/metrics"
)

// UserService backs the admin user directory. The session reader supplies
// the caller's identity for the self-deactivation guard; role gating is the
// UI's concern and the backend enforces it regardless.
type UserService struct {
	api     ports.UserAPI
	session ports.SessionReader
	log     zerolog.Logger
}

func NewUserService(api ports.UserAPI, session ports.SessionReader, log zerolog.Logger) *UserService {
	return &UserService{api: api, session: session, log: log}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list users")
		return nil, err
	}
	return users, nil
}

// ToggleStatus flips a user's active flag. Deactivating the caller's own
// account is rejected locally, before any request goes out.
func (s *UserService) ToggleStatus(ctx context.Context, id string) (*domain.User, error) {
	if identity := s.session.Current().Identity; identity != nil && identity.ID == id {
		return nil, domain.ErrOwnAccount
	}

	user, err := s.api.ToggleUserStatus(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", id).Msg("failed to toggle user status")
		return nil, err
	}
	metrics.UserStatusTogglesTotal.Inc()
	s.log.Info().Str("user_id", id).Bool("active", user.Active).Msg("user status toggled")
	return user, nil
}
