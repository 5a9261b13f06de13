package models

import "errors"

// Sentinel errors for the domain failure taxonomy. Services wrap these with
// fmt.Errorf("...: %w", ...) and the HTTP boundary maps them to status codes.
var (
	// ErrValidation marks missing or malformed required input (400).
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized marks a missing, invalid, or expired session token (401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks an ownership or host-privilege violation (403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a record that does not exist or is not visible to the
	// caller (404). Ownership-scoped lookups return this rather than
	// ErrForbidden so a non-owner cannot distinguish "exists" from "missing".
	ErrNotFound = errors.New("not found")
)
