package models

import "errors"

// Custom errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoData       = errors.New("no data available")
	ErrUpstream     = errors.New("upstream provider failure")
)
