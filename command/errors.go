package command

import (
	"errors"

	"github.com/goliatone/go-fieldlog/pkg/types"
)

var (
	// ErrRequesterRequired indicates no requester was supplied.
	ErrRequesterRequired = types.ErrRequesterRequired
	// ErrActivityTypeRequired indicates the activity payload is missing a valid type.
	ErrActivityTypeRequired = errors.New("go-fieldlog: activity type required")
	// ErrActivityDateRequired indicates the activity payload is missing a date.
	ErrActivityDateRequired = errors.New("go-fieldlog: activity date required")
	// ErrActivityDescriptionTooShort indicates the description is missing or
	// below the minimum length.
	ErrActivityDescriptionTooShort = errors.New("go-fieldlog: activity description must be at least 10 characters")
	// ErrActivityIDRequired occurs when update or delete commands omit the record id.
	ErrActivityIDRequired = errors.New("go-fieldlog: activity id required")
	// ErrActivityDeleteDisabled indicates deletion is disabled via feature gate.
	ErrActivityDeleteDisabled = errors.New("go-fieldlog: activity delete disabled")
	// ErrAuditActionRequired indicates an audit entry is missing an action.
	ErrAuditActionRequired = errors.New("go-fieldlog: audit action required")
	// ErrAuditUserRequired indicates an audit entry is missing the acting user.
	ErrAuditUserRequired = errors.New("go-fieldlog: audit user required")
	// ErrPreferenceKeyRequired indicates the preference key was missing.
	ErrPreferenceKeyRequired = errors.New("go-fieldlog: preference key required")
	// ErrPreferenceValueRequired indicates the preference value payload was missing.
	ErrPreferenceValueRequired = errors.New("go-fieldlog: preference value required")
	// ErrPreferencesDisabled indicates report preferences are disabled via feature gate.
	ErrPreferencesDisabled = errors.New("go-fieldlog: report preferences disabled")
	// ErrUserIDRequired occurs when user-scoped commands omit the user.
	ErrUserIDRequired = types.ErrUserIDRequired
)
