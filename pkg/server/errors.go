package server

import "errors"

var (
	ErrFeatureNotFound = errors.New("server: feature not found")
	ErrRouteNotFound   = errors.New("server: route not found")
	ErrBundleFailed    = errors.New("server: bundle generation failed")
)
