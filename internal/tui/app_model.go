package tui

import (
	"context"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/store"
	"taskflow/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

const inputPlaceholder = "Outline a plan, jot a reminder, or capture an idea"

type focusArea int

const (
	focusList focusArea = iota
	focusInput
)

type statusClearMsg struct{ seq int }

// Options configures the interactive shell.
type Options struct {
	Tasks *store.TaskList
	// Theme is the initial theme; empty means detect from the terminal.
	Theme  model.Theme
	Logger zerolog.Logger
	// Clipboard overrides the system clipboard (tests).
	Clipboard func(string) error
}

type appModel struct {
	ctx   context.Context
	tasks *store.TaskList
	log   zerolog.Logger

	filter view.Filter
	theme  model.Theme
	styles styles
	glyphs glyphSet

	keys  keyMap
	help  help.Model
	input textinput.Model
	focus focusArea

	// cursor indexes the visible (filtered) tasks; offset is the first rendered row.
	cursor int
	offset int

	showHelp bool
	helpView viewport.Model

	status    string
	statusErr bool
	statusSeq int

	width  int
	height int

	copyText func(string) error
}

func newAppModel(ctx context.Context, opts Options) appModel {
	theme := opts.Theme
	if theme == "" {
		theme = detectTheme()
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = copyToClipboard
	}

	in := textinput.New()
	in.Placeholder = inputPlaceholder
	in.Prompt = "› "
	in.CharLimit = 280

	m := appModel{
		ctx:      ctx,
		tasks:    opts.Tasks,
		log:      opts.Logger,
		filter:   view.FilterAll,
		glyphs:   glyphsFromEnv(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    in,
		helpView: viewport.New(0, 0),
		width:    80,
		height:   24,
		copyText: copyFn,
	}
	m.setTheme(theme)
	// Start in the input, like the page's form: the first thing to do is add a task.
	m.focusInput()
	return m
}

func (m appModel) Init() tea.Cmd { return textinput.Blink }

func (m appModel) snapshot() view.Snapshot {
	return view.Compute(m.tasks.Tasks(), m.filter)
}

func (m *appModel) setTheme(t model.Theme) {
	m.theme = t
	m.styles = newStyles(t)
	m.input.PromptStyle = m.styles.eyebrow
	m.input.TextStyle = m.styles.text
	m.input.PlaceholderStyle = m.styles.muted
	m.help.Styles.ShortKey = m.styles.label
	m.help.Styles.ShortDesc = m.styles.muted
	m.help.Styles.ShortSeparator = m.styles.muted
	m.help.Styles.FullKey = m.styles.label
	m.help.Styles.FullDesc = m.styles.muted
	m.help.Styles.FullSeparator = m.styles.muted
}

func (m *appModel) focusInput() {
	m.focus = focusInput
	m.input.Focus()
}

func (m *appModel) focusList() {
	m.focus = focusList
	m.input.Blur()
}

// setStatus shows a message in the status line and clears it after a few seconds.
func (m *appModel) setStatus(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func (m *appModel) clampCursor(visible int) {
	if m.cursor >= visible {
		m.cursor = visible - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
