package domain

import "errors"

var (
	// ErrConfiguration is returned when the upstream LLM credential is missing
	ErrConfiguration = errors.New("LLM API key is not configured")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when the upstream or the local limiter rejects a call
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrQuotaExhausted is returned when the upstream reports exhausted credits (HTTP 402)
	ErrQuotaExhausted = errors.New("AI credits exhausted")

	// ErrUpstreamFailure is returned when the LLM gateway request fails
	ErrUpstreamFailure = errors.New("AI gateway error")

	// ErrResponseFormat is returned when the completion text is not the expected JSON
	ErrResponseFormat = errors.New("AI response format error")

	// ErrInvalidCatalog is returned when a catalog definition fails validation
	ErrInvalidCatalog = errors.New("invalid catalog")
)
