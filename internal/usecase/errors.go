package usecase

import "errors"

var (
	ErrUpstreamTimeout       = errors.New("upstream timeout")
	ErrUpstreamBadStatus     = errors.New("upstream bad status")
	ErrUpstreamMalformed     = errors.New("upstream malformed payload")
	ErrStoreUnavailable      = errors.New("store unavailable")
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrPlayerLocked          = errors.New("player locked")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// IsUpstreamError reports whether err came from the sports data feed.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstreamTimeout) ||
		errors.Is(err, ErrUpstreamBadStatus) ||
		errors.Is(err, ErrUpstreamMalformed) ||
		errors.Is(err, ErrDependencyUnavailable)
}
