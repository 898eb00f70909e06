package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/liliang-cn/docqa/internal/domain"
	"go.uber.org/zap"
)

// QAClient is the remote Q&A API used by the workflow
type QAClient interface {
	Upload(ctx context.Context, file *domain.File) (*domain.UploadResponse, error)
	Ask(ctx context.Context, question string, sessionID domain.SessionID) (*domain.AskResponse, error)
}

// State is a snapshot of one page view
type State struct {
	FileName  string           `json:"file_name,omitempty"`
	Question  string           `json:"question"`
	History   []domain.Message `json:"history"`
	Error     string           `json:"error,omitempty"`
	Notice    string           `json:"notice,omitempty"`
	SessionID domain.SessionID `json:"session_id"`
}

// HasSession reports whether an upload has succeeded in this page view
func (s State) HasSession() bool {
	return !s.SessionID.IsZero()
}

// SessionWorkflow owns the state of a single page view and runs the upload
// and ask calls against the Q&A API. Every successful response replaces the
// history wholesale; whichever response completes last wins.
type SessionWorkflow struct {
	client QAClient
	logger *zap.Logger

	mu        sync.Mutex
	file      *domain.File
	question  string
	history   []domain.Message
	errMsg    string
	notice    string
	sessionID domain.SessionID
}

// NewSessionWorkflow creates a workflow with no session
func NewSessionWorkflow(client QAClient, logger *zap.Logger) *SessionWorkflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionWorkflow{
		client:  client,
		logger:  logger,
		history: []domain.Message{},
	}
}

// State returns a copy of the current state
func (w *SessionWorkflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := State{
		Question:  w.question,
		History:   domain.CloneHistory(w.history),
		Error:     w.errMsg,
		Notice:    w.notice,
		SessionID: w.sessionID.Clone(),
	}
	if w.file != nil {
		s.FileName = w.file.Name
	}
	return s
}

// SelectFile records the file for the next upload. nil clears the selection.
func (w *SessionWorkflow) SelectFile(file *domain.File) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.file = file
}

// UploadFile posts the selected file and, on success, starts a new session
// seeded with the server's history. The server's confirmation message is
// kept as the notice until the next operation starts.
func (w *SessionWorkflow) UploadFile(ctx context.Context) error {
	w.mu.Lock()
	w.notice = ""
	file := w.file
	if file == nil {
		w.errMsg = domain.ErrNoFile.Message
		w.mu.Unlock()
		return domain.ErrNoFile
	}
	w.mu.Unlock()

	resp, err := w.client.Upload(ctx, file)
	if err != nil {
		err = asRemote(domain.OpUpload, err)
		w.setError(domain.OpUpload, err)
		w.logger.Warn("Upload failed",
			zap.String("file", file.Name),
			zap.Error(err),
		)
		return err
	}

	w.mu.Lock()
	w.errMsg = ""
	w.history = domain.CloneHistory(resp.History)
	w.sessionID = resp.SessionID.Clone()
	w.notice = resp.Message
	w.mu.Unlock()

	w.logger.Info("Upload succeeded",
		zap.String("file", file.Name),
		zap.String("session_id", resp.SessionID.String()),
		zap.Int("history", len(resp.History)),
	)
	return nil
}

// AskQuestion records text as the current question and submits it for the
// established session.
func (w *SessionWorkflow) AskQuestion(ctx context.Context, text string) error {
	w.mu.Lock()
	w.notice = ""
	w.question = text
	if strings.TrimSpace(text) == "" {
		w.errMsg = domain.ErrEmptyQuestion.Message
		w.mu.Unlock()
		return domain.ErrEmptyQuestion
	}
	if w.sessionID.IsZero() {
		w.errMsg = domain.ErrNoSession.Message
		w.mu.Unlock()
		return domain.ErrNoSession
	}
	sessionID := w.sessionID.Clone()
	w.mu.Unlock()

	resp, err := w.client.Ask(ctx, text, sessionID)
	if err != nil {
		err = asRemote(domain.OpAsk, err)
		w.setError(domain.OpAsk, err)
		w.logger.Warn("Ask failed",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
		return err
	}

	w.mu.Lock()
	w.history = domain.CloneHistory(resp.History)
	w.question = ""
	w.errMsg = ""
	w.mu.Unlock()

	w.logger.Info("Question answered",
		zap.String("session_id", sessionID.String()),
		zap.Int("history", len(resp.History)),
	)
	return nil
}

func (w *SessionWorkflow) setError(op string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errMsg = domain.UserMessage(op, err)
}

// asRemote makes sure every failure from the API surfaces as a RemoteError
func asRemote(op string, err error) error {
	var rerr *domain.RemoteError
	if errors.As(err, &rerr) {
		return err
	}
	return &domain.RemoteError{Op: op, Err: err}
}
