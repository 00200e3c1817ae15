package sysconfig

import "errors"

var (
	// ErrConfigNotFound is returned when the requested key is absent
	ErrConfigNotFound = errors.New("config key not found")

	// ErrTypeMismatch is returned when the stored value cannot be coerced
	// to the requested type
	ErrTypeMismatch = errors.New("config value type mismatch")

	ErrInternal = errors.New("internal error")
)
