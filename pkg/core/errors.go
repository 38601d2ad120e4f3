package core

import "errors"

// Common errors.
var (
	ErrMissingStore   = errors.New("store does not exist")
	ErrMalformedStore = errors.New("store cannot be parsed")
	ErrInvalidFilter  = errors.New("invalid filter value")
	ErrConfigLoad     = errors.New("configuration cannot be loaded")
	ErrReadOnly       = errors.New("memory is in read-only mode")
	ErrTodoNotFound   = errors.New("no open todo matches the given text")
	ErrEmptyPayload   = errors.New("session payload is empty")
)
