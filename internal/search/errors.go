package search

import "errors"

var (
	// ErrUnknownUser is returned when no identifier can be resolved for
	// the follow target
	ErrUnknownUser = errors.New("search: cannot resolve user")
	// ErrSelfFollow is returned when a user tries to follow themselves
	ErrSelfFollow = errors.New("search: cannot follow yourself")
)
