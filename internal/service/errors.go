package service

import (
	"errors"

	"github.com/mrussa/storefront/internal/repo"
)

// Error kinds recovered at the HTTP boundary. Anything else is a server
// error.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = repo.ErrNotFound
	ErrConflict              = repo.ErrConflict
	ErrInvalidReference      = errors.New("user does not exist")
	ErrDownstreamFault       = errors.New("failed to validate user")
	ErrDownstreamUnreachable = errors.New("user service unavailable")
)
