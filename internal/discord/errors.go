package discord

import "errors"

var (
	// ErrSessionExpired is returned when a component refers to a search
	// that is older than the view timeout or was never recorded.
	ErrSessionExpired = errors.New("interaction session expired")
	// ErrUnknownComponent is returned for custom IDs this bot did not issue.
	ErrUnknownComponent = errors.New("unknown component")
)
