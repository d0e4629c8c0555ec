package demo

import "github.com/desertthunder/todox/internal/shared"

var (
	ErrDuplicateUsername  = shared.ErrDuplicateUsername
	ErrInvalidCredentials = shared.ErrInvalidCredentials
	ErrListNotFound       = shared.ErrListNotFound
)
