// Package comment provides the comment domain model shared by the store,
// cache, and view layers.
package comment

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// DefaultName is the display name used when an author left theirs blank.
const DefaultName = "Anonymous"

// Comment is a top-level entry on the board. The ID is assigned by the
// document store; replies live inside their parent and have no ID of
// their own.
type Comment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Content   string    `json:"content,omitempty"`
	CreatedAt Timestamp `json:"timestamp,omitempty"`
	Replies   []Reply   `json:"replies,omitempty"`
}

// Reply is a response nested under a comment, identified only by its
// position in the parent's reply list. Its creation time is assigned by
// the submitting client, not the store.
type Reply struct {
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Content   string    `json:"content,omitempty"`
	CreatedAt Timestamp `json:"timestamp,omitempty"`
}

// DisplayName returns the author name or the anonymous fallback.
func (c Comment) DisplayName() string {
	if strings.TrimSpace(c.Name) == "" {
		return DefaultName
	}
	return c.Name
}

// DisplayName returns the reply author name or the anonymous fallback.
func (r Reply) DisplayName() string {
	if strings.TrimSpace(r.Name) == "" {
		return DefaultName
	}
	return r.Name
}

// NormalizeEmail lowercases and trims an email for storage and comparison.
// Emails are pseudo-identities here, never verified.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Timestamp is the canonical creation time. Store documents have carried
// timestamps in three shapes: an RFC3339 string, an object with a
// Unix-seconds field ("seconds" or "_seconds"), or a bare Unix-seconds
// number. All of them decode into this one type at the store boundary so
// nothing downstream branches on shape. Unrecognized shapes decode to the
// zero value, which renders as a fixed fallback.
type Timestamp struct {
	time.Time
}

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp{time.Now()}
}

// At wraps a time.Time.
func At(t time.Time) Timestamp {
	return Timestamp{t}
}

// secondsObject is the legacy {"seconds": N} / {"_seconds": N} shape.
type secondsObject struct {
	Seconds       *float64 `json:"seconds"`
	LegacySeconds *float64 `json:"_seconds"`
}

// UnmarshalJSON accepts the three known timestamp shapes. Anything else
// becomes the zero value; the malformed input is logged, not surfaced.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	ts.Time = time.Time{}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			ts.Time = t
			return nil
		}
		slog.Debug("unrecognized timestamp string", "value", s)
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err == nil {
		ts.Time = time.Unix(int64(secs), 0)
		return nil
	}

	var obj secondsObject
	if err := json.Unmarshal(data, &obj); err == nil {
		switch {
		case obj.Seconds != nil:
			ts.Time = time.Unix(int64(*obj.Seconds), 0)
			return nil
		case obj.LegacySeconds != nil:
			ts.Time = time.Unix(int64(*obj.LegacySeconds), 0)
			return nil
		}
	}

	slog.Debug("unrecognized timestamp shape", "value", trimmed)
	return nil
}

// MarshalJSON writes the store-native RFC3339 shape. Zero values marshal
// as null so a missing time stays missing on the wire.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}
