// Package uuid issues the time-ordered ids used for request tracing and
// locally queued records.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7. Ids issued later sort after earlier ones, which keeps
// pending-image rows in upload order and request ids grouped by time in logs.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// Parse returns s in canonical lower-case form, or an error when s is not a
// UUID of any version.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}
