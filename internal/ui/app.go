package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prabalesh/tasktop/internal/models"
	"github.com/prabalesh/tasktop/internal/session"
	"github.com/prabalesh/tasktop/internal/table"
)

// Messages
type (
	tickMsg time.Time

	renderedMsg struct {
		seq    int
		text        string
		err         error
		resetCursor bool
	}

	terminatedMsg struct {
		pid int
		err error
	}
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Options configures the viewer.
type Options struct {
	// RefreshInterval reloads the listing periodically; zero disables it.
	RefreshInterval time.Duration
	Logger          *slog.Logger
}

// App renders one session's process table.
type App struct {
	session *session.Session
	opts    Options
	logger  *slog.Logger

	ctx       context.Context
	ctxCancel context.CancelFunc

	text  string
	lines []string
	err   error

	width  int
	height int
	// selectedRow is a line index into lines.
	selectedRow int
	// Horizontal scrolling state
	columnOffset int

	updating  bool
	renderSeq int
	applied   int
	spinner   spinner.Model
	help      help.Model

	confirmPID int
	status     string
	statusKind statusKind
}

func NewApp(sess *session.Session, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		session:     sess,
		opts:        opts,
		logger:      logger,
		ctx:         ctx,
		ctxCancel:   cancel,
		selectedRow: sess.FirstRow(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle)),
		help:        help.New(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.render(true), a.tick())
}

func (a *App) tick() tea.Cmd {
	if a.opts.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(a.opts.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// render asks the session for a fresh table off the UI goroutine.
// resetCursor moves the cursor to the first process row once the result
// arrives; otherwise the selection is kept and clamped to the new table.
func (a *App) render(resetCursor bool) tea.Cmd {
	a.renderSeq++
	seq := a.renderSeq
	a.updating = true
	ctx := a.ctx
	sess := a.session
	return tea.Batch(
		func() tea.Msg {
			text, err := sess.Render(ctx)
			return renderedMsg{seq: seq, text: text, err: err, resetCursor: resetCursor}
		},
		a.spinner.Tick,
	)
}

func (a *App) reload() tea.Cmd {
	a.session.Reload()
	return a.render(false)
}

func (a *App) terminate(pid int) tea.Cmd {
	ctx := a.ctx
	sess := a.session
	return func() tea.Msg {
		return terminatedMsg{pid: pid, err: sess.Terminate(ctx, pid)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.FocusMsg:
		return a, a.reload()

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tickMsg:
		return a, tea.Batch(a.reload(), a.tick())

	case renderedMsg:
		if msg.seq < a.applied {
			return a, nil
		}
		a.applied = msg.seq
		if msg.seq == a.renderSeq {
			a.updating = false
		}
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				return a, nil
			}
			a.err = msg.err
			a.logger.Error("render failed", "error", msg.err)
			return a, nil
		}
		a.err = nil
		a.setText(msg.text, msg.resetCursor)
		return a, nil

	case terminatedMsg:
		if msg.err != nil {
			a.setStatus(statusError, msg.err.Error())
		} else {
			a.setStatus(statusSuccess, fmt.Sprintf("Killed process %d", msg.pid))
		}
		// The session has already invalidated its snapshot.
		return a, a.render(false)

	case spinner.TickMsg:
		if !a.updating {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.confirmPID > 0 {
		switch {
		case key.Matches(msg, keys.Confirm):
			pid := a.confirmPID
			a.confirmPID = 0
			a.setStatus(statusWarning, fmt.Sprintf("Killing process %d...", pid))
			return a.terminate(pid)
		case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Quit):
			a.confirmPID = 0
			a.setStatus(statusInfo, "")
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		a.ctxCancel()
		return tea.Quit
	case key.Matches(msg, keys.Reload):
		return a.reload()
	case key.Matches(msg, keys.Kill):
		a.requestKill()
	case key.Matches(msg, keys.SortName):
		return a.sortBy(models.SortByName)
	case key.Matches(msg, keys.SortPID):
		return a.sortBy(models.SortByPID)
	case key.Matches(msg, keys.SortMemory):
		return a.sortBy(models.SortByMemoryUsage)
	case key.Matches(msg, keys.SortCPU):
		return a.sortBy(models.SortByCPUTime)
	case key.Matches(msg, keys.SortTitle):
		return a.sortBy(models.SortByWindowTitle)
	case key.Matches(msg, keys.Up):
		a.moveSelection(-1)
	case key.Matches(msg, keys.Down):
		a.moveSelection(1)
	case key.Matches(msg, keys.PageUp):
		a.moveSelection(-max(1, a.visibleRows()/2))
	case key.Matches(msg, keys.PageDown):
		a.moveSelection(max(1, a.visibleRows()/2))
	case key.Matches(msg, keys.Home):
		a.selectedRow = a.session.FirstRow()
	case key.Matches(msg, keys.End):
		_, end := a.session.BodyRange(a.text)
		a.selectedRow = max(a.session.FirstRow(), end-1)
	case key.Matches(msg, keys.Left):
		a.columnOffset = max(0, a.columnOffset-8)
	case key.Matches(msg, keys.Right):
		a.columnOffset = min(a.columnOffset+8, a.maxColumnOffset())
	}
	return nil
}

func (a *App) sortBy(k models.SortKey) tea.Cmd {
	state := a.session.SelectSortKey(k)
	a.setStatus(statusInfo, "Sorted by "+state.String())
	return a.render(false)
}

// requestKill resolves the selected row and asks for confirmation. Rows
// outside the process list are ignored.
func (a *App) requestKill() {
	pid, err := a.session.ResolveRow(a.text, a.selectedRow)
	if err != nil {
		var oor *table.OutOfRangeError
		if !errors.As(err, &oor) {
			a.setStatus(statusError, err.Error())
		}
		return
	}
	a.confirmPID = pid
}

func (a *App) setText(text string, resetCursor bool) {
	a.text = text
	a.lines = table.SplitLines(text)
	if resetCursor {
		a.selectedRow = a.session.FirstRow()
	}
	a.clampSelection()
	a.columnOffset = min(a.columnOffset, a.maxColumnOffset())
}

func (a *App) setStatus(kind statusKind, msg string) {
	a.statusKind = kind
	a.status = msg
}

func (a *App) moveSelection(delta int) {
	a.selectedRow += delta
	a.clampSelection()
}

func (a *App) clampSelection() {
	first, end := a.session.BodyRange(a.text)
	if end <= first {
		a.selectedRow = first
		return
	}
	a.selectedRow = max(first, min(a.selectedRow, end-1))
}

func (a *App) maxColumnOffset() int {
	widest := 0
	for _, l := range a.lines {
		widest = max(widest, len([]rune(l)))
	}
	return max(0, widest-a.contentWidth())
}

func (a *App) contentWidth() int {
	return max(10, a.width)
}

// Reserve space for: title (1 line), status (1 line), help (1 line), and the
// fixed header and footer of the table.
func (a *App) visibleRows() int {
	first, end := a.session.BodyRange(a.text)
	footer := max(0, len(a.lines)-end)
	return max(1, a.height-3-first-footer)
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	title := TitleStyle.Render("tasktop")
	if a.updating {
		title += " " + a.spinner.View() + StatusStyle.Render(" updating")
	} else if at := a.session.CapturedAt(); !at.IsZero() {
		title += StatusStyle.Render("  captured " + at.Format("15:04:05"))
	}
	title += StatusStyle.Render("  sort: " + a.session.SortState().String())

	var content string
	switch {
	case a.err != nil:
		content = ErrorStyle.Render("Error: " + a.err.Error())
	case a.text == "":
		content = StatusStyle.Render("Capturing process list...")
	default:
		content = a.renderTable()
	}

	status := a.renderStatus()
	helpView := a.help.ShortHelpView(keys.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		content,
		status,
		helpView,
	)
}

func (a *App) renderTable() string {
	first, end := a.session.BodyRange(a.text)
	if end < first {
		end = first
	}
	visibleRows := a.visibleRows()

	// Calculate scroll window
	startIdx := first
	if a.selectedRow-first >= visibleRows {
		startIdx = a.selectedRow - visibleRows + 1
	}
	endIdx := min(startIdx+visibleRows, end)

	var content strings.Builder
	for i := 0; i < first && i < len(a.lines); i++ {
		content.WriteString(HeaderStyle.Render(a.clip(a.lines[i])))
		content.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		line := a.clip(a.lines[i])
		switch {
		case i == a.selectedRow:
			line = SelectedRowStyle.Render(padRight(line, a.contentWidth()))
		case (i-startIdx)%2 == 0:
			line = RowStyle.Render(line)
		default:
			line = AltRowStyle.Render(line)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	for i := max(end, first); i < len(a.lines); i++ {
		content.WriteString(FooterStyle.Render(a.clip(a.lines[i])))
		content.WriteString("\n")
	}

	return strings.TrimSuffix(content.String(), "\n")
}

func (a *App) renderStatus() string {
	if a.confirmPID > 0 {
		return ConfirmStyle.Render(fmt.Sprintf("Kill process id: %d? (y/n)", a.confirmPID))
	}
	switch a.statusKind {
	case statusError:
		return ErrorStyle.Render(a.status)
	case statusSuccess:
		return SuccessStyle.Render(a.status)
	case statusWarning:
		return WarningStyle.Render(a.status)
	}
	return StatusStyle.Render(a.status)
}

// clip applies the horizontal scroll offset and cuts the line to the
// terminal width.
func (a *App) clip(line string) string {
	r := []rune(line)
	if a.columnOffset >= len(r) {
		return ""
	}
	r = r[a.columnOffset:]
	if w := a.contentWidth(); len(r) > w {
		r = r[:w]
	}
	return string(r)
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(app *App) error {
	defer app.ctxCancel()
	prog := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := prog.Run()
	return err
}
