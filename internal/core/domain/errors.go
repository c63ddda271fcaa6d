package domain

import "errors"

var (
	ErrEmptyContent          = errors.New("message content is required")
	ErrUnauthenticatedSender = errors.New("sender could not be resolved")
	ErrNoCounterparty        = errors.New("receiver not found")
	ErrPersistence           = errors.New("storage unavailable")

	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidRole          = errors.New("invalid role")
	ErrRoleTaken            = errors.New("role already has a holder")
	ErrActivityTypeRequired = errors.New("activity type is required")
	ErrForbidden            = errors.New("access forbidden")
)
