package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sortwise/sortwise/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrInvalidHistory  = errors.New("invalid history entry")
	ErrNonPositiveList = errors.New("limit must be positive")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAward ensures point awards cannot shrink the monotonic counters.
func validateAward(points, items int) error {
	if points < 0 {
		return fmt.Errorf("%w: points", ErrNegativeValue)
	}
	if items < 0 {
		return fmt.Errorf("%w: items", ErrNegativeValue)
	}
	return nil
}

// validateHistoryEntry validates a history entry before insertion.
func validateHistoryEntry(entry *model.HistoryEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidHistory)
	}
	if strings.TrimSpace(entry.Filename) == "" {
		return fmt.Errorf("%w: missing filename", ErrInvalidHistory)
	}
	if entry.PointsEarned < 0 {
		return fmt.Errorf("%w: negative points", ErrInvalidHistory)
	}
	return nil
}

// validateLimit ensures list queries are bounded.
func validateLimit(limit int) error {
	if limit <= 0 {
		return ErrNonPositiveList
	}
	return nil
}
