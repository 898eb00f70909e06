package domain

import "encoding/json"

// Message is one question/answer pair of a session transcript
type Message struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// UploadResponse is the upload endpoint's success body
type UploadResponse struct {
	Message   string    `json:"message"`
	SessionID SessionID `json:"session_id"`
	History   []Message `json:"history,omitempty"`
}

// AskRequest is the ask endpoint's request body
type AskRequest struct {
	Question  string    `json:"question"`
	SessionID SessionID `json:"session_id"`
}

// AskResponse is the ask endpoint's success body
type AskResponse struct {
	Answer  string    `json:"answer,omitempty"`
	History []Message `json:"history"`
}

// ErrorResponse is the body of a non-2xx response. Detail is kept raw because
// request validation failures carry a list instead of a string.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// DetailString returns the detail when it is a JSON string, else "".
func (r ErrorResponse) DetailString() string {
	var s string
	if err := json.Unmarshal(r.Detail, &s); err != nil {
		return ""
	}
	return s
}

// CloneHistory returns a copy of h that is never nil.
func CloneHistory(h []Message) []Message {
	out := make([]Message, len(h))
	copy(out, h)
	return out
}
