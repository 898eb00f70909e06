package domain

import (
	"bytes"
	"encoding/json"
)

// SessionID is the opaque token handed out by the upload endpoint. It is kept
// as the raw JSON value so a string or a number round-trips unchanged.
type SessionID []byte

// NewSessionID wraps a Go value (usually a string) as a session id.
func NewSessionID(v any) SessionID {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return SessionID(b)
}

// IsZero reports whether no session has been established. Missing, null and
// empty-string tokens all count as absent.
func (s SessionID) IsZero() bool {
	trimmed := bytes.TrimSpace(s)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`))
}

// String renders the token for display: strings unquoted, anything else as-is.
func (s SessionID) String() string {
	if s.IsZero() {
		return ""
	}
	var str string
	if err := json.Unmarshal(s, &str); err == nil {
		return str
	}
	return string(s)
}

// Clone returns an independent copy of the token.
func (s SessionID) Clone() SessionID {
	if s == nil {
		return nil
	}
	return append(SessionID(nil), s...)
}

func (s SessionID) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(s)) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

func (s *SessionID) UnmarshalJSON(data []byte) error {
	*s = append((*s)[:0], data...)
	return nil
}
