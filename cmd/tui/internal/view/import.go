package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/scrooge/internal/importer"
	"github.com/MrJamesThe3rd/scrooge/internal/statement"
)

const defaultImportTimeout = 2 * time.Minute

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

// Ingester stores the new transactions of a statement.
type Ingester interface {
	Formats() []string
	Ingest(ctx context.Context, format string, r io.Reader) (*importer.Result, error)
}

type ImportModel struct {
	CommonModel
	importService Ingester
	timeout       time.Duration

	state      importState
	form       *huh.Form
	format     string
	filePicker filepicker.Model

	status string
	err    error
}

// NewImportModel preselects defaultFormat when the importer knows it.
func NewImportModel(svc Ingester, defaultFormat string, timeout time.Duration) ImportModel {
	if timeout <= 0 {
		timeout = defaultImportTimeout
	}

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ImportModel{
		importService: svc,
		timeout:       timeout,
		format:        defaultFormat,
		filePicker:    fp,
	}
	m.form = m.buildFormatForm()

	return m
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) buildFormatForm() *huh.Form {
	options := huh.NewOptions(m.importService.Formats()...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("format").
				Title("Statement format").
				Options(options...).
				Value(&m.format),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err
		m.status = describeImport(msg.result, msg.err)

		return m, nil
	}

	switch m.state {
	case importStateFormatSelect:
		return m.updateFormatSelect(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ImportModel) updateFormatSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.format = m.form.GetString("format")
	m.state = importStateFilePick

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing %s as %s...", path, m.format)

		return m, m.importCmd(m.format, path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStateResult:
		m.state = importStateFormatSelect
		m.err = nil
		m.status = ""
		m.form = m.buildFormatForm()

		return m, m.form.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormatSelect:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s):\n\n%s", m.format, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := successStyle
	if m.err != nil {
		style = errorStyle
	}

	return lipgloss.NewStyle().Padding(2).Render(style.Render(m.status) + "\n\n(Esc to import another)")
}

// describeImport renders the outcome the way the CLI reports it. A failed import still
// reports what was stored before the failure.
func describeImport(res *importer.Result, err error) string {
	if err == nil {
		s := fmt.Sprintf("Imported %d transaction(s).", res.Imported)
		if res.Skipped > 0 {
			s += fmt.Sprintf("\nSkipped %d already imported transaction(s).", res.Skipped)
		}

		return s
	}

	s := fmt.Sprintf("Error: %v", err)

	var rowErr *statement.RowError
	if errors.As(err, &rowErr) {
		s = fmt.Sprintf("Error on line %d: %v", rowErr.Line, rowErr.Err)
	}

	if res != nil && res.Imported > 0 {
		s += fmt.Sprintf("\nImported %d transaction(s) before the failure.", res.Imported)
	}

	return s
}

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) importCmd(format, path string) tea.Cmd {
	svc := m.importService
	timeout := m.timeout

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := svc.Ingest(ctx, format, f)

		return importResultMsg{result: res, err: err}
	}
}
