package storage

import (
	"fmt"
	"regexp"
	"time"
)

const maxNameLength = 255

var (
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)
	validName       = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9._-]*$`)
)

// SanitizeFileName replaces every character outside [a-zA-Z0-9.] with an
// underscore.
func SanitizeFileName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// UniqueFileName prefixes the sanitized name with the millisecond timestamp
// so two uploads of the same file do not collide.
func UniqueFileName(now time.Time, name string) string {
	safe := SanitizeFileName(name)
	if safe == "" {
		safe = "file"
	}
	return fmt.Sprintf("%d_%s", now.UnixMilli(), safe)
}

// ValidateName accepts plain base names only: no separators, no leading dot.
func ValidateName(name string) error {
	if name == "" || len(name) > maxNameLength || !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
