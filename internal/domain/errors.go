package domain

import "errors"

var (
	// ErrNotFound is returned when the storefront API has no record for the
	// requested handle. Pagination stops on it; it is never retried.
	ErrNotFound = errors.New("entity not found upstream")

	// ErrTransport is returned on network or HTTP-level failure talking to the
	// storefront API. Distinct from ErrNotFound so callers can add retry
	// policies later, though both currently stop a fetch without retrying.
	ErrTransport = errors.New("storefront request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoCheckout is returned when a cart operation targets a checkout that
	// has not been created or fetched yet.
	ErrNoCheckout = errors.New("no active checkout")

	// ErrCheckoutFailed is returned when the external checkout service rejects
	// or fails an operation.
	ErrCheckoutFailed = errors.New("checkout service request failed")
)
