package catalog

import "errors"

// ErrBackendDisabled is returned when the backend for a request is not configured.
var ErrBackendDisabled = errors.New("backend not configured")
