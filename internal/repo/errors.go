package repo

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("unique constraint violated")
)

const (
	maxIDLen        = 100
	defaultItemsCap = 8
	defaultListCap  = 32

	uniqueViolation = "23505"
)
