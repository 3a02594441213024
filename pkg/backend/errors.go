package backend

import "errors"

var (
	ErrUnknownBackend = errors.New("backend: unknown catalog backend")
	ErrOpenFailed     = errors.New("backend: failed to open catalog backend")
	ErrReadOnly       = errors.New("backend: catalog backend is read-only")
)
