package application

import "errors"

// Service-level errors. Handlers map these onto HTTP statuses:
// not-found family -> 404, ErrUnauthorized -> 401,
// ErrAlreadyConverted / ErrEmailTaken / ErrNegativeValue -> 400,
// anything else -> 500.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")

	ErrLeadNotFound     = errors.New("lead not found")
	ErrContactNotFound  = errors.New("contact not found")
	ErrDealNotFound     = errors.New("deal not found")
	ErrStageNotFound    = errors.New("pipeline stage not found")
	ErrUnauthorized     = errors.New("resource belongs to another user")
	ErrAlreadyConverted = errors.New("lead already converted to contact")
	ErrNegativeValue    = errors.New("deal value must not be negative")
)
