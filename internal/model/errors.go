package model

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrForbidden          = errors.New("note belongs to another user")
	ErrEmptyContent       = errors.New("note content cannot be empty")
	ErrConflict           = errors.New("record already exists")
	ErrBadSignature       = errors.New("webhook signature verification failed")
	ErrProfileUnavailable = errors.New("identity provider profile unavailable")
)
