package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrUpstreamUnavailable   = errors.New("upstream temporarily unavailable")
	ErrPersistence           = errors.New("persistence failure")
	ErrSeasonNotFound        = errors.New("season not found")
)

// Machine readable reasons carried in the error envelope between the
// dispatcher and the backfill worker.
const (
	ReasonSeasonNotFound = "seasonNotFound"
	ReasonClubNotFound   = "clubNotFound"
)
