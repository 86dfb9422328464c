package domain

import "errors"

// Classified errors surfaced by the session controller. Forms display these
// messages inline; raw transport errors never leave the service layer.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionExpired     = errors.New("session expired, please sign in again")
	ErrOwnAccount         = errors.New("cannot deactivate your own account")
	// ErrTransient covers network failures and unclassified server errors.
	ErrTransient = errors.New("request failed, please try again")
)
