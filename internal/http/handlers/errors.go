// Package handlers defines the HTTP-layer error codes used across all API
// endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them for
// programmatic error handling, so they are never renamed. Generic codes
// mirror common HTTP status semantics; domain-specific codes cover outcomes
// a status alone cannot convey (an upload rejected because one is already
// running, or an upload that left an orphaned object behind).
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeListFailed       = "list_failed"
	ErrCodeLikeFailed       = "like_failed"
	ErrCodeUploadFailed     = "upload_failed"
	ErrCodeUploadInFlight   = "upload_in_flight"
	ErrCodePartialFailure   = "partial_failure"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
