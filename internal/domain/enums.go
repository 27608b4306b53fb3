package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RecognitionStatus represents the lifecycle of a recognition job.
type RecognitionStatus string

const (
	RecognitionStatusUnsubmitted RecognitionStatus = "unsubmitted"
	RecognitionStatusPending     RecognitionStatus = "pending"
	RecognitionStatusProcessing  RecognitionStatus = "processing"
	RecognitionStatusCompleted   RecognitionStatus = "completed"
	RecognitionStatusFailed      RecognitionStatus = "failed"
)

// Terminal reports whether polling should stop at this status.
func (s RecognitionStatus) Terminal() bool {
	return s == RecognitionStatusCompleted || s == RecognitionStatusFailed
}

// UserRole defines the roles of the construction-site dashboard.
type UserRole string

const (
	RoleManager   UserRole = "manager"
	RoleForeman   UserRole = "foreman"
	RoleInspector UserRole = "inspector"
)

// FileType represents the allowed scan file types.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// RecognizedData is the ordered sequence of shipping notes extracted from one
// scan, stored as JSONB.
type RecognizedData []RecognizedDocument

// Value implements driver.Valuer for JSONB storage.
func (d RecognizedData) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB storage.
func (d *RecognizedData) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("recognized data: unsupported scan type %T", src)
	}
	return json.Unmarshal(raw, d)
}
