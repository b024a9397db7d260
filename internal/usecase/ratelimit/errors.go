package ratelimit

import "errors"

// ErrInvalidAccessCode is returned when a premium unlock code does not match.
var ErrInvalidAccessCode = errors.New("invalid access code")
