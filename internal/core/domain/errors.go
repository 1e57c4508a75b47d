package domain

import "errors"

var (
	// ErrMissingFields signals a request with one or more required fields absent.
	ErrMissingFields = errors.New("all fields are required")
	// ErrPasswordTooShort signals a password below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrBioTooLong signals a bio exceeding MaxBioLength.
	ErrBioTooLong = errors.New("bio must be at most 250 characters")

	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so the response never reveals which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrPostNotFound = errors.New("post not found")

	// ErrNotPostAuthor is returned when an actor tries to delete a post they
	// do not own.
	ErrNotPostAuthor = errors.New("not authorized")

	ErrAlreadyFollowing = errors.New("already following")
	ErrSelfFollow       = errors.New("cannot follow yourself")
)
