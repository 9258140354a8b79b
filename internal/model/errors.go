package model

import "errors"

var (
	// Session related errors
	ErrNotLoggedIn = errors.New("not logged in")
	ErrForbidden   = errors.New("forbidden")

	// Resource related errors
	ErrResourceNotFound = errors.New("resource not found")

	// Client identity errors
	ErrInvalidClientToken = errors.New("invalid client token")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
