package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrSaveInFlight        = errors.New("session save already in flight")
	ErrSessionNotEnded     = errors.New("session is not ended")
)
