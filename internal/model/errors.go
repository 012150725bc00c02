package model

import (
	"fmt"
	"time"
)

// CriteriaError reports invalid search criteria. It is the only error class
// that fails a whole aggregation call; it is raised synchronously, before any
// network activity.
type CriteriaError struct {
	Reason string
}

func (e *CriteriaError) Error() string {
	return "invalid criteria: " + e.Reason
}

// ProviderErrorKind classifies a provider-scoped failure.
type ProviderErrorKind int

const (
	// ProviderUnavailable covers network failures, timeouts, and non-success
	// HTTP statuses.
	ProviderUnavailable ProviderErrorKind = iota
	// ProviderParseError covers responses whose shape was unexpected.
	ProviderParseError
	// ProviderBlocked covers anti-bot responses. In practice these are
	// heuristically indistinguishable from ProviderUnavailable and are
	// treated identically everywhere.
	ProviderBlocked
)

func (k ProviderErrorKind) String() string {
	switch k {
	case ProviderParseError:
		return "parse error"
	case ProviderBlocked:
		return "blocked"
	default:
		return "unavailable"
	}
}

// ProviderError wraps a failure scoped to a single provider. These never
// propagate to the caller as call-level failures; the orchestrator records
// them per provider id.
type ProviderError struct {
	Provider string
	Kind     ProviderErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
