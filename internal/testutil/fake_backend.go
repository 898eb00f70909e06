// Package testutil provides an in-process stand-in for the Q&A API.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/liliang-cn/docqa/internal/domain"
)

// RecordedUpload is one multipart upload received by the fake backend.
type RecordedUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type cannedResponse struct {
	status int
	body   any
}

// FakeBackend serves /upload and /ask. By default it behaves like the real
// API: uploads open a fresh session and asks append to that session's
// history. Canned responses override the default per endpoint.
type FakeBackend struct {
	mu       sync.Mutex
	server   *httptest.Server
	sessions map[string][]domain.Message
	uploads  []RecordedUpload
	asks     []domain.AskRequest

	uploadResp *cannedResponse
	askResp    *cannedResponse
}

// NewFakeBackend starts the fake API. Call Close when done.
func NewFakeBackend() *FakeBackend {
	gin.SetMode(gin.TestMode)

	f := &FakeBackend{sessions: make(map[string][]domain.Message)}

	r := gin.New()
	r.POST("/upload", f.handleUpload)
	r.POST("/ask", f.handleAsk)
	f.server = httptest.NewServer(r)
	return f
}

// URL is the base address of the fake API.
func (f *FakeBackend) URL() string {
	return f.server.URL
}

// Close shuts the server down.
func (f *FakeBackend) Close() {
	f.server.Close()
}

// SetUploadResponse makes /upload always answer with status and body.
func (f *FakeBackend) SetUploadResponse(status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadResp = &cannedResponse{status: status, body: body}
}

// SetAskResponse makes /ask always answer with status and body.
func (f *FakeBackend) SetAskResponse(status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.askResp = &cannedResponse{status: status, body: body}
}

// UploadCount returns how many upload requests were received.
func (f *FakeBackend) UploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

// AskCount returns how many ask requests were received.
func (f *FakeBackend) AskCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.asks)
}

// RequestCount returns the total number of requests received.
func (f *FakeBackend) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads) + len(f.asks)
}

// LastUpload returns the most recent upload, if any.
func (f *FakeBackend) LastUpload() (RecordedUpload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.uploads) == 0 {
		return RecordedUpload{}, false
	}
	return f.uploads[len(f.uploads)-1], true
}

// LastAsk returns the most recent ask body, if any.
func (f *FakeBackend) LastAsk() (domain.AskRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.asks) == 0 {
		return domain.AskRequest{}, false
	}
	return f.asks[len(f.asks)-1], true
}

func (f *FakeBackend) handleUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"loc": []string{"body", "file"}, "msg": "Field required"}}})
		return
	}
	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	defer src.Close()
	data, _ := io.ReadAll(src)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, RecordedUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})

	if f.uploadResp != nil {
		c.JSON(f.uploadResp.status, f.uploadResp.body)
		return
	}

	if !strings.HasSuffix(fh.Filename, ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Only PDF files are allowed"})
		return
	}

	sessionID := uuid.New().String()
	f.sessions[sessionID] = []domain.Message{}
	c.JSON(http.StatusOK, gin.H{
		"message":    "PDF uploaded and processed successfully",
		"session_id": sessionID,
		"history":    []domain.Message{},
	})
}

func (f *FakeBackend) handleAsk(c *gin.Context) {
	var req domain.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.asks = append(f.asks, req)

	if f.askResp != nil {
		c.JSON(f.askResp.status, f.askResp.body)
		return
	}

	history, ok := f.sessions[req.SessionID.String()]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid or missing session ID"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Question cannot be empty"})
		return
	}

	answer := "No relevant answer found in the document."
	history = append(history, domain.Message{
		Question:  req.Question,
		Answer:    answer,
		Timestamp: time.Now().Format("2006-01-02T15:04:05.000000"),
	})
	f.sessions[req.SessionID.String()] = history
	c.JSON(http.StatusOK, gin.H{"answer": answer, "history": history})
}
