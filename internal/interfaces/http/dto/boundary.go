package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
)

// DateLayout is the calendar-date form accepted next to RFC 3339
const DateLayout = "2006-01-02"

var jsonNull = []byte("null")

// Ref is an entity reference. It decodes from a bare id string or from an
// object carrying an "id" field.
type Ref struct {
	ID    uuid.UUID
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*r = Ref{}
		return nil
	}

	var raw string
	switch {
	case len(data) > 0 && data[0] == '"':
		if err := json.Unmarshal(data, &raw); err != nil {
			return shared.InvalidInput("invalid reference: %s", string(data))
		}
	case len(data) > 0 && data[0] == '{':
		var obj struct {
			ID *string `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil || obj.ID == nil {
			return shared.InvalidInput("reference object must carry an id")
		}
		raw = *obj.ID
	default:
		return shared.InvalidInput("invalid reference: %s", string(data))
	}

	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return shared.InvalidInput("invalid reference id %q", raw)
	}
	*r = Ref{ID: id, Valid: true}
	return nil
}

// MarshalJSON writes the bare id, or null
func (r Ref) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return jsonNull, nil
	}
	return json.Marshal(r.ID.String())
}

// Ptr returns the id, or nil when the reference was absent
func (r Ref) Ptr() *uuid.UUID {
	if !r.Valid {
		return nil
	}
	id := r.ID
	return &id
}

// Date accepts YYYY-MM-DD or RFC 3339 timestamps
type Date struct {
	time.Time
}

// ParseDate parses a calendar date or an RFC 3339 timestamp. Calendar dates
// are taken as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, shared.InvalidInput("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return shared.InvalidInput("date must be a string")
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON writes RFC 3339
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return jsonNull, nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}

// Ptr returns the time, or nil when the date was absent
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
