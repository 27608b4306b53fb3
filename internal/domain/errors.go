package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")

	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")

	// Validation failures reported before any network or database work.
	ErrFileRequired    = errors.New("a scan file must be selected")
	ErrProjectRequired = errors.New("a project must be selected")

	ErrDocumentNotFound     = errors.New("document not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrDocumentNotProject   = errors.New("document does not belong to this project")
	ErrDocumentNotCompleted = errors.New("document has not been recognized yet")

	// Recognition job outcomes.
	ErrRecognitionFailed  = errors.New("document recognition failed")
	ErrRecognitionTimeout = errors.New("timed out waiting for document recognition")

	ErrDeliveryExists  = errors.New("a delivery was already registered for this document")
	ErrInvalidQuantity = errors.New("item quantity must be a positive number")
	ErrItemNameMissing = errors.New("item name is required")
)
