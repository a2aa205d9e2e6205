package sitecms

import "errors"

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRemoteUnavailable wraps failures talking to the remote document
	// store. Reads fall back to the local store; writes stay locally
	// committed and the error is surfaced as a notification.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrInvalidSnapshot is returned by snapshot import when the document
	// is missing one of the posts/events/albums collections.
	ErrInvalidSnapshot = errors.New("snapshot missing required collections")

	// ErrImportPartial means the remote wipe-and-reinsert failed midway.
	// The remote store may hold deleted-but-not-reinserted data; this is a
	// critical condition distinct from an ordinary sync failure.
	ErrImportPartial = errors.New("remote import left partial state")

	// ErrValidation covers rejected form or document input. The dataset is
	// never modified when a validation error is returned.
	ErrValidation = errors.New("validation error")

	// Upload error taxonomy. Each maps to a distinct user-facing message;
	// anything unclassified collapses to ErrUploadFailed.
	ErrUploadTooLarge           = errors.New("image exceeds the 5 MB limit")
	ErrUploadNotImage           = errors.New("file is not an image")
	ErrUploadUnauthorized       = errors.New("upload not authorized")
	ErrUploadCanceled           = errors.New("upload canceled")
	ErrUploadQuotaExceeded      = errors.New("storage quota exceeded")
	ErrUploadChecksumInvalid    = errors.New("uploaded file is corrupt")
	ErrUploadRetryLimitExceeded = errors.New("upload retry limit exceeded")
	ErrUploadFailed             = errors.New("upload failed")
)
