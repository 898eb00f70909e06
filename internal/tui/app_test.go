package tui

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/liliang-cn/docqa/internal/client"
	"github.com/liliang-cn/docqa/internal/service"
	"github.com/liliang-cn/docqa/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *testutil.FakeBackend) {
	t.Helper()
	backend := testutil.NewFakeBackend()
	t.Cleanup(backend.Close)
	wf := service.NewSessionWorkflow(client.New(backend.URL(), 0), nil)
	return NewModel(context.Background(), wf), backend
}

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))
	return path
}

// press sends key to the model and, when a command comes back, runs it and
// feeds its message into the model as the runtime would.
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(Model)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestModel_InitialView(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "Document Q&A")
	assert.Contains(t, view, "No questions asked yet.")
	assert.Contains(t, view, "no session")
}

func TestModel_UploadThenAsk(t *testing.T) {
	m, backend := newTestModel(t)

	m.fileInput.SetValue(writePDF(t, "guide.pdf"))
	m = press(t, m, enter)

	require.True(t, m.state.HasSession())
	assert.Equal(t, 0, m.pending)
	assert.Contains(t, m.View(), "PDF uploaded and processed successfully")
	upload, ok := backend.LastUpload()
	require.True(t, ok)
	assert.Equal(t, "guide.pdf", upload.Filename)

	m = press(t, m, tab)
	require.Equal(t, focusQuestion, m.focus)
	m.questionInput.SetValue("What is covered?")
	m = press(t, m, enter)

	require.Len(t, m.state.History, 1)
	assert.Equal(t, "What is covered?", m.state.History[0].Question)
	assert.Empty(t, m.questionInput.Value())
	assert.Contains(t, m.View(), "Q: What is covered?")
}

func TestModel_FilterRejectsNonPDF(t *testing.T) {
	m, backend := newTestModel(t)

	m.fileInput.SetValue("notes.txt")
	next, cmd := m.Update(enter)
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, "only .pdf files can be selected", m.filterMsg)
	assert.Equal(t, 0, backend.RequestCount())
}

func TestModel_UploadWithoutFile(t *testing.T) {
	m, backend := newTestModel(t)

	m = press(t, m, enter)

	assert.Equal(t, "Please select a PDF file.", m.state.Error)
	assert.Equal(t, 0, backend.RequestCount())
}

func TestModel_AskFailureKeepsQuestion(t *testing.T) {
	m, backend := newTestModel(t)
	m.fileInput.SetValue(writePDF(t, "doc.pdf"))
	m = press(t, m, enter)
	require.True(t, m.state.HasSession())

	backend.SetAskResponse(http.StatusInternalServerError, map[string]string{"detail": "server exploded"})
	m = press(t, m, tab)
	m.questionInput.SetValue("why?")
	m = press(t, m, enter)

	assert.Equal(t, "server exploded", m.state.Error)
	assert.Equal(t, "why?", m.questionInput.Value())
	assert.Contains(t, m.View(), "server exploded")
}

func TestModel_AskWithoutSession(t *testing.T) {
	m, backend := newTestModel(t)

	m = press(t, m, tab)
	m.questionInput.SetValue("hello")
	m = press(t, m, enter)

	assert.Equal(t, "Please upload a PDF first to start a session.", m.state.Error)
	assert.Equal(t, "hello", m.questionInput.Value())
	assert.Equal(t, 0, backend.RequestCount())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Empty(t, next.(Model).View())
}
