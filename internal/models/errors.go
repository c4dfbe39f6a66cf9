package models

import "errors"

// Error taxonomy for the calculation and cache core. Every failure mode is
// a typed, recoverable result; nothing here is fatal to the process.
var (
	// ErrInvalidLoanTerms rejects malformed loan inputs before any accrual
	// math runs (negative principal or rate, missing dates).
	ErrInvalidLoanTerms = errors.New("invalid loan terms")

	// ErrUnknownCurrency means the rate table has no entry for a currency.
	// Missing rates are never silently treated as 1.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrMutationFailed means the backing store rejected a create, update,
	// or delete. The optimistic cache patch is left in place; the caller
	// must force a refresh to resynchronize.
	ErrMutationFailed = errors.New("mutation failed")

	// ErrStaleResponse marks a store response that arrived after a newer
	// mutation for the same entity already landed in the cache.
	ErrStaleResponse = errors.New("stale mutation response discarded")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)
