package models

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateWeekdayTemplate = errors.New("a working template already exists for this weekday")
	ErrOverlappingOverride      = errors.New("override overlaps an existing override")
	ErrOverlappingBlocked       = errors.New("blocked range overlaps an existing blocked range")
	ErrNotFound                 = errors.New("record not found")
	ErrMalformedInterval        = errors.New("malformed interval")
	ErrRepositoryTimeout        = errors.New("repository timed out")
	ErrCacheUnavailable         = errors.New("snapshot cache unavailable")
	ErrCacheMiss                = errors.New("snapshot cache miss")
	ErrInvalidArgument          = errors.New("invalid argument")
)

// MalformedIntervalError reports a stored or submitted range that cannot be used.
type MalformedIntervalError struct {
	SlotID string
	Reason string
}

func (e *MalformedIntervalError) Error() string {
	if e.SlotID == "" {
		return fmt.Sprintf("malformed interval: %s", e.Reason)
	}
	return fmt.Sprintf("malformed interval %s: %s", e.SlotID, e.Reason)
}

func (e *MalformedIntervalError) Unwrap() error {
	return ErrMalformedInterval
}

func NewMalformedIntervalError(slotID, reason string) error {
	return &MalformedIntervalError{SlotID: slotID, Reason: reason}
}
