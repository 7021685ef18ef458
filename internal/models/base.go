// Package models holds the client-observable data contracts of the KasKita
// backend. The backend owns these records; the client only decodes, displays
// and resubmits them.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ID identifies a backend record. Most ids are strings; some tables (asset
// categories) use numeric ids, so both forms decode.
type ID string

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool { return id == "" }

// String returns the id as a string.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts JSON strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// FlexInt is an integer the backend may send as a number, a zero-padded
// string ("03") or null.
type FlexInt int

// UnmarshalJSON decodes numbers and numeric strings; anything else is zero.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// Base contains the columns shared by every backend record.
type Base struct {
	ID        ID     `json:"id"`
	GroupID   string `json:"group_id,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Envelope is the response wrapper used by every backend endpoint.
type Envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}
