package services

import "errors"

// Errors surfaced by the debate turn service.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrDailyLimitExceeded = errors.New("usage limit reached for today")
	ErrTokenLimitExceeded = errors.New("token limit reached for this theme today")
	ErrProviderQuota      = errors.New("model provider quota exceeded")
	ErrNotInitialized     = errors.New("debate service not initialized")
)
