package services

import "errors"

var (
	ErrNotFound        = errors.New("not_found")
	ErrProfileNotFound = errors.New("profile_not_found")
	ErrDuplicate       = errors.New("already_connected")
	ErrSelfConnection  = errors.New("self_connection")
)
