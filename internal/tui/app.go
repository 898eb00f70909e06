// Package tui is the terminal front-end: pick a PDF, upload it, then ask
// questions about it.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/liliang-cn/docqa/internal/domain"
	"github.com/liliang-cn/docqa/internal/service"
)

type focus int

const (
	focusFile focus = iota
	focusQuestion
	focusCount
)

type uploadDoneMsg struct{ err error }

type askDoneMsg struct{ err error }

// Model is the bubbletea model of one terminal session. Quitting the program
// discards the session.
type Model struct {
	ctx context.Context
	wf  *service.SessionWorkflow

	fileInput     textinput.Model
	questionInput textinput.Model
	focus         focus

	state     service.State
	filterMsg string // file picker feedback, never sent to the API
	pending   int    // requests in flight
	width     int
	height    int
	quitting  bool

	readFile func(string) ([]byte, error)
}

// NewModel creates the model for a fresh page view.
func NewModel(ctx context.Context, wf *service.SessionWorkflow) Model {
	fi := textinput.New()
	fi.Placeholder = "path/to/document.pdf"
	fi.CharLimit = 500
	fi.Focus()

	qi := textinput.New()
	qi.Placeholder = "Ask a question about the document"
	qi.CharLimit = 1000

	return Model{
		ctx:           ctx,
		wf:            wf,
		fileInput:     fi,
		questionInput: qi,
		focus:         focusFile,
		state:         wf.State(),
		width:         100,
		height:        30,
		readFile:      os.ReadFile,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case uploadDoneMsg:
		m.pending--
		m.state = m.wf.State()
		return m, nil

	case askDoneMsg:
		m.pending--
		m.state = m.wf.State()
		if msg.err == nil {
			m.questionInput.Reset()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "tab", "shift+tab":
			m.switchFocus()
			return m, nil

		case "enter":
			if m.focus == focusFile {
				return m.upload()
			}
			return m.ask()
		}
	}

	var cmd tea.Cmd
	if m.focus == focusFile {
		m.fileInput, cmd = m.fileInput.Update(msg)
	} else {
		m.questionInput, cmd = m.questionInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) switchFocus() {
	m.focus = (m.focus + 1) % focusCount
	if m.focus == focusFile {
		m.questionInput.Blur()
		m.fileInput.Focus()
	} else {
		m.fileInput.Blur()
		m.questionInput.Focus()
	}
}

// upload applies the .pdf filter to the typed path, selects the file and
// starts the upload.
func (m Model) upload() (tea.Model, tea.Cmd) {
	m.filterMsg = ""
	path := strings.TrimSpace(m.fileInput.Value())

	if path == "" {
		m.wf.SelectFile(nil)
	} else {
		if !domain.IsPDF(path) {
			m.filterMsg = domain.ErrNotPDF.Error()
			return m, nil
		}
		data, err := m.readFile(path)
		if err != nil {
			m.filterMsg = fmt.Sprintf("cannot read %s: %v", path, err)
			return m, nil
		}
		m.wf.SelectFile(&domain.File{Name: filepath.Base(path), Data: data})
	}

	m.pending++
	wf, ctx := m.wf, m.ctx
	return m, func() tea.Msg {
		return uploadDoneMsg{err: wf.UploadFile(ctx)}
	}
}

func (m Model) ask() (tea.Model, tea.Cmd) {
	text := m.questionInput.Value()
	m.pending++
	wf, ctx := m.wf, m.ctx
	return m, func() tea.Msg {
		return askDoneMsg{err: wf.AskQuestion(ctx, text)}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("Document Q&A")
	session := dimStyle.Render("  no session")
	if m.state.HasSession() {
		session = dimStyle.Render("  session " + m.state.SessionID.String())
	}
	if m.pending > 0 {
		session += dimStyle.Render("  working...")
	}
	b.WriteString(title + session + "\n\n")

	b.WriteString(m.label("PDF", focusFile) + " " + m.fileInput.View() + "\n")
	if m.filterMsg != "" {
		b.WriteString(dimStyle.Render("  "+m.filterMsg) + "\n")
	}
	if m.state.Notice != "" {
		b.WriteString(noticeStyle.Render(m.state.Notice) + "\n")
	}
	if m.state.Error != "" {
		b.WriteString(errorStyle.Render(m.state.Error) + "\n")
	}

	b.WriteString(historyStyle.Width(max(20, m.width-4)).Render(m.renderHistory()) + "\n")

	b.WriteString(m.label("Ask", focusQuestion) + " " + m.questionInput.View() + "\n")
	b.WriteString(helpStyle.Render("  Tab: switch field  Enter: upload / ask  Esc: quit"))

	return b.String()
}

func (m Model) label(text string, f focus) string {
	if m.focus == f {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

// renderHistory shows the newest messages that fit the pane.
func (m Model) renderHistory() string {
	if len(m.state.History) == 0 {
		return dimStyle.Render("No questions asked yet.")
	}

	visible := max(1, (m.height-10)/3)
	start := max(0, len(m.state.History)-visible)

	lines := make([]string, 0, (len(m.state.History)-start)*3)
	for _, msg := range m.state.History[start:] {
		lines = append(lines,
			questionStyle.Render("Q: "+msg.Question),
			"A: "+msg.Answer,
			dimStyle.Render(msg.Timestamp),
		)
	}
	return strings.Join(lines, "\n")
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, wf *service.SessionWorkflow) error {
	p := tea.NewProgram(NewModel(ctx, wf), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
