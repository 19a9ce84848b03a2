package user

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// User represents someone listed by the user service.
// IDs are expected to be unique within a single listing.
type User struct {
	ID        string `json:"id"`         // Unique identifier.
	Name      string `json:"name"`       // Display name.
	Email     string `json:"email"`      // Contact address.
	CreatedAt string `json:"created_at"` // When the user was added.
	UpdatedAt string `json:"updated_at"` // When the user record was last modified.
}

// Created parses the creation timestamp.
func (u User) Created() (time.Time, error) {
	return ParseTimestamp(u.CreatedAt)
}

// Layouts accepted for timestamps, most specific first. Values without a
// zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp strings used by the user service.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("invalid timestamp %q", s)
}
