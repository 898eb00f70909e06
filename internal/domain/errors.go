package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrNotPDF indicates a file was refused by the PDF-only file filter
	ErrNotPDF = errors.New("only .pdf files can be selected")
)

// Fixed messages for the locally detected precondition failures.
var (
	ErrNoFile        = &ValidationError{Message: "Please select a PDF file."}
	ErrEmptyQuestion = &ValidationError{Message: "Question cannot be empty."}
	ErrNoSession     = &ValidationError{Message: "Please upload a PDF first to start a session."}
)

// ValidationError is a precondition failure detected before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Remote operations, used to pick the fallback message.
const (
	OpUpload = "upload"
	OpAsk    = "ask"
)

var fallbackMessages = map[string]string{
	OpUpload: "Error uploading file.",
	OpAsk:    "Error processing question.",
}

// RemoteError is a non-2xx response or transport failure from the Q&A API.
type RemoteError struct {
	Op     string
	Status int    // 0 when no response was received
	Detail string // server supplied detail message, may be empty
	Err    error
}

// Message returns the text shown to the user: the detail if present, else the
// fallback for the operation.
func (e *RemoteError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if msg, ok := fallbackMessages[e.Op]; ok {
		return msg
	}
	return "Request failed."
}

func (e *RemoteError) Error() string {
	return e.Message()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// UserMessage converts any error from a workflow operation into the single
// visible error line.
func UserMessage(op string, err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var rerr *RemoteError
	if errors.As(err, &rerr) {
		return rerr.Message()
	}
	return (&RemoteError{Op: op, Err: err}).Message()
}
