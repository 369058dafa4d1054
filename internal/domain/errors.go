package domain

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProviderFailure = errors.New("provider failure")
	ErrStageFailed     = errors.New("pipeline stage failed")
	ErrEmptyResponse   = errors.New("empty provider response")
)
