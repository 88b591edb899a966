package notify

import "errors"

var (
	// ErrInvalidKey is returned for a key with an unknown source or no id.
	ErrInvalidKey = errors.New("invalid agent key")
	// ErrInvalidWatcher is returned for a watcher without channel or user.
	ErrInvalidWatcher = errors.New("invalid watcher")
)
