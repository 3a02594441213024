package runtime

import "errors"

var (
	ErrEmptyIdentity      = errors.New("runtime: empty identity")
	ErrUnrecognized       = errors.New("runtime: unrecognized runtime family")
	ErrMalformedVersion   = errors.New("runtime: malformed version")
	ErrUnsupportedVersion = errors.New("runtime: version below baseline support")
)
