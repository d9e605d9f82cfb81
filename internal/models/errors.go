package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingEntityType = errors.New("entity_type is required")
	ErrMissingEntityID   = errors.New("entity_id must not be empty")
	ErrMissingFullName   = errors.New("full_name is required")
	ErrMissingReason     = errors.New("change_reason is required")
	ErrMissingData       = errors.New("proposed data is required")
	ErrInvalidPayload    = errors.New("invalid proposed payload")
)

// Sentinel errors for workflow resolution.
var (
	ErrEditNotFound          = errors.New("pending edit not found")
	ErrEditNotPending        = errors.New("edit is not pending")
	ErrUnsupportedEntityType = errors.New("unsupported entity type")
	ErrMissingAttribution    = errors.New("edit has no proposer attribution")
)

// Sentinel errors for entity lookups.
var ErrPoliticianNotFound = errors.New("politician not found")

// Sentinel errors for authorization.
var (
	ErrUnauthenticated = errors.New("caller is not authenticated")
	ErrNotAuthorized   = errors.New("caller is not authorized")
)

// ErrIdentityNotFound indicates no identity matches the presented token.
var ErrIdentityNotFound = errors.New("identity not found")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%w: %s exceeds maximum length of %d", ErrInvalidPayload, field, maxLen)
}
