package texture

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("texture not found")
	ErrForbidden = errors.New("no permission to manage this texture")
)

// Reason identifies which upload or request rule was violated.
type Reason string

const (
	ReasonUploadTransport       Reason = "upload_transport"
	ReasonInvalidName           Reason = "invalid_name"
	ReasonFileTooLarge          Reason = "file_too_large"
	ReasonMissingVisibility     Reason = "missing_visibility"
	ReasonUnsupportedFormat     Reason = "unsupported_format"
	ReasonInvalidSkinDimensions Reason = "invalid_skin_dimensions"
	ReasonInvalidCapeDimensions Reason = "invalid_cape_dimensions"
	ReasonIllegalAssetType      Reason = "illegal_asset_type"
	ReasonInvalidSort           Reason = "invalid_sort"
)

// ValidationError is a user-correctable rejection. It is always returned
// before anything is stored or charged.
type ValidationError struct {
	Field  string
	Reason Reason
	Code   int // transport error code, ReasonUploadTransport only
	Width  int
	Height int
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonUploadTransport:
		return fmt.Sprintf("%s: upload failed with code %d", e.Field, e.Code)
	case ReasonInvalidSkinDimensions, ReasonInvalidCapeDimensions:
		return fmt.Sprintf("%s: %s %dx%d", e.Field, e.Reason, e.Width, e.Height)
	default:
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
}

// DuplicateAssetError reports that an identical public texture of the same
// type already exists. It is not a failure: callers should point the client
// at ID instead.
type DuplicateAssetError struct {
	ID ID
}

func (e *DuplicateAssetError) Error() string {
	return fmt.Sprintf("texture already uploaded as %d", e.ID)
}

// OrphanedAssetError is returned for a record whose blob is gone. Deleted is
// set when the record was removed as a consequence.
type OrphanedAssetError struct {
	ID      ID
	Deleted bool
}

func (e *OrphanedAssetError) Error() string {
	if e.Deleted {
		return fmt.Sprintf("texture %d file is missing, record deleted", e.ID)
	}
	return fmt.Sprintf("texture %d file is missing, contact an administrator", e.ID)
}

func (e *OrphanedAssetError) Is(target error) bool { return target == ErrNotFound }

// CascadeError names the step of a delete or privacy cascade that failed.
// Steps before it have been applied and are not rolled back.
type CascadeError struct {
	ID   ID
	Step string
	Err  error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("texture %d: %s: %v", e.ID, e.Step, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }
