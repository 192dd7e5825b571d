// Package services defines the business logic for content listing, like
// toggling, uploads, announcements, and admin authentication. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Content and like errors.
var (
	// ErrSermonNotFound indicates that the requested sermon does not exist.
	ErrSermonNotFound = errors.New("sermon not found")

	// ErrUnknownKind is returned when an operation names a content kind the
	// application does not serve.
	ErrUnknownKind = errors.New("unknown content kind")

	// ErrGiveDetailsNotSet indicates the giving-details singleton has never
	// been upserted.
	ErrGiveDetailsNotSet = errors.New("giving details not set")
)

// Upload pipeline errors.
var (
	// ErrEmptyTitle is returned when an upload or announcement is submitted
	// without a title. Validation fails before any storage or DB call.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrMissingFile is returned when an upload is submitted without a file.
	ErrMissingFile = errors.New("file is missing")

	// ErrEmptyMessage is returned when a notification has no message body.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrUploadInFlight is returned when an upload for the same content kind
	// is already being processed; only one upload per kind may be in flight.
	ErrUploadInFlight = errors.New("upload already in flight for this kind")

	// ErrOrphanedObject is returned when the metadata insert failed and the
	// compensating object delete failed too, leaving a stored binary with no
	// referencing record.
	ErrOrphanedObject = errors.New("uploaded object orphaned after failed insert")
)

// Auth errors.
var (
	// ErrInvalidCredentials is returned for an unknown email or a password
	// mismatch. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotAuthorized is returned when the authenticated identity is not the
	// configured administrator. The session gate fails closed: resolution
	// errors map here as well.
	ErrNotAuthorized = errors.New("not authorized as admin")
)
