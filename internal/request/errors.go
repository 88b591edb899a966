package request

import "errors"

var (
	// ErrUnknownQualityProfile is returned when a command names a quality
	// profile the backend does not have.
	ErrUnknownQualityProfile = errors.New("unknown quality profile")
	// ErrNoSeasons is returned when a series request names no season.
	ErrNoSeasons = errors.New("no seasons selected")
)
