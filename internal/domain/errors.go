package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyText        = errors.New("text is required")
	ErrStoreFailure     = errors.New("store failure")
	ErrModelInvocation  = errors.New("model invocation failed")
	ErrModelOutputParse = errors.New("model output contains no valid JSON object")
)
