package tui

import (
	"fmt"

	"taskflow/internal/docs"
	"taskflow/internal/view"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.width-20)
		m.help.Width = m.width
		if m.showHelp {
			m.refreshHelpView()
		}
		return m, nil

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showHelp {
			return m.updateHelp(msg)
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		next, cmd := m.updateList(msg)
		lm := next.(appModel)
		lm.offset = scrollOffset(lm.offset, lm.cursor, len(lm.snapshot().Visible), lm.listHeight())
		return lm, cmd
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q", "enter":
		m.showHelp = false
		return m, nil
	}
	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return m, cmd
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		t, ok := m.tasks.Add(m.ctx, m.input.Value())
		if !ok {
			// Blank input is rejected without a message.
			return m, nil
		}
		m.input.Reset()
		if m.filter.Match(t) {
			m.cursor = 0
			m.offset = 0
		}
		if cmd := m.persistStatus(); cmd != nil {
			return m, cmd
		}
		return m, m.setStatus(fmt.Sprintf("Added %q", t.Text), false)

	case key.Matches(msg, m.keys.Blur):
		m.focusList()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.snapshot()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		m.focusInput()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(snap.Visible)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if len(snap.Visible) == 0 {
			return m, nil
		}
		m.clampCursor(len(snap.Visible))
		m.tasks.Toggle(m.ctx, snap.Visible[m.cursor].ID)
		m.clampCursor(len(m.snapshot().Visible))
		return m, m.persistStatus()

	case key.Matches(msg, m.keys.Delete):
		if len(snap.Visible) == 0 {
			return m, nil
		}
		m.clampCursor(len(snap.Visible))
		t := snap.Visible[m.cursor]
		m.tasks.Remove(m.ctx, t.ID)
		m.clampCursor(len(m.snapshot().Visible))
		if cmd := m.persistStatus(); cmd != nil {
			return m, cmd
		}
		return m, m.setStatus(fmt.Sprintf("Removed %q", t.Text), false)

	case key.Matches(msg, m.keys.Clear):
		if !snap.CanClearCompleted() {
			return m, nil
		}
		n := m.tasks.ClearCompleted(m.ctx)
		m.clampCursor(len(m.snapshot().Visible))
		if cmd := m.persistStatus(); cmd != nil {
			return m, cmd
		}
		return m, m.setStatus(fmt.Sprintf("Cleared %d completed", n), false)

	case key.Matches(msg, m.keys.Filter):
		m.setFilter(m.filter.Next())
		return m, nil
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(view.FilterAll)
		return m, nil
	case key.Matches(msg, m.keys.FilterAct):
		m.setFilter(view.FilterActive)
		return m, nil
	case key.Matches(msg, m.keys.FilterDon):
		m.setFilter(view.FilterCompleted)
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.setTheme(m.theme.Toggle())
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if len(snap.Visible) == 0 {
			return m, nil
		}
		m.clampCursor(len(snap.Visible))
		if err := m.copyText(snap.Visible[m.cursor].Text); err != nil {
			m.log.Debug().Err(err).Msg("copy to clipboard")
			return m, m.setStatus("Copy failed: "+err.Error(), true)
		}
		return m, m.setStatus("Copied", false)

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.refreshHelpView()
		return m, nil
	}
	return m, nil
}

func (m *appModel) setFilter(f view.Filter) {
	if f == m.filter {
		return
	}
	m.filter = f
	m.cursor = 0
	m.offset = 0
}

// persistStatus surfaces a failed slot write as a status hint. The change itself stays in memory.
func (m *appModel) persistStatus() tea.Cmd {
	if err := m.tasks.LastPersistError(); err != nil {
		return m.setStatus("Not saved (kept for this session): "+err.Error(), true)
	}
	return nil
}

func (m *appModel) refreshHelpView() {
	w := max(20, m.width-4)
	h := max(3, m.height-4)
	m.helpView.Width = w
	m.helpView.Height = h
	body, _ := docs.Get("keys")
	m.helpView.SetContent(renderMarkdown(body, w, m.theme))
	m.helpView.GotoTop()
}
