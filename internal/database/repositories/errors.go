package repositories

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrNoteNotFound      = errors.New("note not found")
)
