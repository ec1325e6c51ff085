package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyInput       = errors.New("empty input")
	ErrHiddenPage       = errors.New("page hidden for language")
	ErrUnknownExtension = errors.New("unknown extension")
)
