package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("account disabled")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrEmptySubmission    = errors.New("submission has no answers")
	ErrSlugTaken          = errors.New("lesson slug already in use")
)
