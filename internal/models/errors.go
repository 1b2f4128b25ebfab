package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrSchemaMismatch = errors.New("feature column cannot be produced or defaulted")
	ErrInvalidHistory = errors.New("match history violates input preconditions")
	ErrTeamRequired   = errors.New("team identifier is required")
	ErrUnplayedMatch  = errors.New("match has no recorded result")
)
