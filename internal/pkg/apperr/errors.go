package apperr

import "errors"

// Sentinel errors for every failure kind the core can surface. Components
// wrap transport-level causes with %w; handlers match with errors.Is.
var (
	// ErrAssistantUnavailable covers any chatbot capability call that fails
	// transport-level or returns an unusable body.
	ErrAssistantUnavailable = errors.New("assistant unavailable")

	// ErrEntityFetchFailed marks a per-product hydration failure. Recovered
	// locally by dropping the product from the hydrated set.
	ErrEntityFetchFailed = errors.New("product fetch failed")

	// ErrOwnerLookupFailed marks an organization name lookup failure.
	// Recovered locally to the literal "Unknown".
	ErrOwnerLookupFailed = errors.New("organization lookup failed")

	// ErrSummaryGenerationFailed marks a failed comparison summary request.
	ErrSummaryGenerationFailed = errors.New("summary generation failed")

	// ErrInsufficientProducts rejects summary requests with fewer than two
	// products before any backend call is made.
	ErrInsufficientProducts = errors.New("at least 2 products are required for comparison")

	// ErrSendInProgress rejects a send while a prior send on the same chat
	// surface is still pending.
	ErrSendInProgress = errors.New("a message is already being processed")

	// ErrEmptyQuery rejects empty or whitespace-only queries.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrSuperseded marks a hydration pass whose comparison set changed
	// while it was in flight. Its results must be discarded.
	ErrSuperseded = errors.New("hydration pass superseded")
)
