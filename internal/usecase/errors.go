package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDuplicateTeamKey      = errors.New("duplicate team storage key")
	ErrPersistedStateCorrupt = errors.New("persisted state corrupt")
)
