package util

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflicting attempt state")
	ErrInvalidState          = errors.New("operation not allowed in current attempt status")
	ErrLimitExceeded         = errors.New("maximum attempts reached")
	ErrTimeLimitExceeded     = errors.New("attempt time limit exceeded")
	ErrValidation            = errors.New("validation failed")
	ErrReadOnlyField         = errors.New("cmi field is read-only")
	ErrUnknownCmiField       = errors.New("unknown cmi field")
	ErrInsufficientQuestions = errors.New("not enough questions in the selected banks")

	ErrEmailRegistered  = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")
)
