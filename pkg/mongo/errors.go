package mongo

import "errors"

var (
	ErrConnect           = errors.New("mongo: connection failed")
	ErrHealthcheckFailed = errors.New("mongo: ping failed")
)
