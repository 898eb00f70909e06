// Package client talks to the Document Q&A HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/liliang-cn/docqa/internal/domain"
)

// DefaultBaseURL is the address of a locally running Q&A API.
const DefaultBaseURL = "http://localhost:8000"

// Client implements the upload and ask calls of the Q&A API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client. A zero timeout means requests wait indefinitely.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the API address the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Upload posts file as the multipart field "file".
func (c *Client) Upload(ctx context.Context, file *domain.File) (*domain.UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", mimetype.Detect(file.Data).String())
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, &domain.RemoteError{Op: domain.OpUpload, Err: fmt.Errorf("failed to create form part: %w", err)}
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, &domain.RemoteError{Op: domain.OpUpload, Err: fmt.Errorf("failed to write form part: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &domain.RemoteError{Op: domain.OpUpload, Err: fmt.Errorf("failed to close form: %w", err)}
	}

	var resp domain.UploadResponse
	if err := c.post(ctx, domain.OpUpload, "/upload", mw.FormDataContentType(), &body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ask posts a question for an established session.
func (c *Client) Ask(ctx context.Context, question string, sessionID domain.SessionID) (*domain.AskResponse, error) {
	payload, err := json.Marshal(domain.AskRequest{Question: question, SessionID: sessionID})
	if err != nil {
		return nil, &domain.RemoteError{Op: domain.OpAsk, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	var resp domain.AskResponse
	if err := c.post(ctx, domain.OpAsk, "/ask", "application/json", bytes.NewReader(payload), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp domain.ErrorResponse
		_ = json.Unmarshal(data, &errResp)
		return &domain.RemoteError{
			Op:     op,
			Status: resp.StatusCode,
			Detail: errResp.DetailString(),
			Err:    fmt.Errorf("%s returned status %d", path, resp.StatusCode),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
