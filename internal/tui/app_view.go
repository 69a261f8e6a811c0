package tui

import (
	"fmt"
	"strings"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/view"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	headerEyebrow  = "TASK FLOW"
	headerTitle    = "Plan the day, enjoy the momentum"
	headerSubtitle = "Capture your todos, tick them off, and keep track of progress."

	// Lines used by everything except the task rows (header, progress, form, filters,
	// blank separators, status, help).
	chromeLines = 15
)

func (m appModel) View() string {
	if m.showHelp {
		title := m.styles.label.Render("Keys") + "  " + m.styles.muted.Render("esc to close")
		return lipgloss.JoinVertical(lipgloss.Left, " "+title, "", m.helpView.View())
	}

	snap := m.snapshot()
	w := max(40, m.width)

	var b strings.Builder
	b.WriteString(m.renderHeader(w))
	b.WriteString("\n\n")
	b.WriteString(" " + m.renderProgress(snap, w))
	b.WriteString("\n\n")
	b.WriteString(m.renderForm())
	b.WriteString("\n\n")
	b.WriteString(" " + m.renderControls(snap, w))
	b.WriteString("\n\n")
	b.WriteString(m.renderList(snap, w))
	b.WriteString("\n\n")
	b.WriteString(" " + m.renderStatus())
	b.WriteString("\n")
	if m.focus == focusInput {
		b.WriteString(" " + m.help.View(inputKeys{k: m.keys}))
	} else {
		b.WriteString(" " + m.help.View(listKeys{k: m.keys}))
	}
	return b.String()
}

func (m appModel) renderHeader(w int) string {
	toggle := "Switch to dark mode (t)"
	if m.theme == model.ThemeDark {
		toggle = "Switch to light mode (t)"
	}
	left := " " + m.styles.eyebrow.Render(headerEyebrow)
	right := m.styles.muted.Render(toggle) + " "
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return strings.Join([]string{
		left + strings.Repeat(" ", gap) + right,
		" " + m.styles.title.Render(headerTitle),
		" " + m.styles.subtitle.Render(headerSubtitle),
	}, "\n")
}

func (m appModel) renderProgress(snap view.Snapshot, w int) string {
	barW := min(40, max(10, w/3))
	bar := renderProgressBar(snap.Progress, barW, m.glyphs, m.styles)
	meta := m.styles.label.Render(snap.ProgressLabel()) + "  " + m.styles.muted.Render(snap.Summary())
	return bar + "  " + meta
}

// renderProgressBar draws pct (0..100) as a bar of width cells.
func renderProgressBar(pct int, width int, g glyphSet, st styles) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(100, pct))
	filled := (pct*width + 50) / 100
	on := lipgloss.NewStyle().Foreground(st.p.progressOn).Render(strings.Repeat(g.barOn, filled))
	off := lipgloss.NewStyle().Foreground(st.p.progressOff).Render(strings.Repeat(g.barOff, width-filled))
	return on + off
}

func (m appModel) renderForm() string {
	label := " " + m.styles.label.Render("Add a new task")
	btn := m.styles.buttonOff.Render("[Add task]")
	if m.focus == focusInput {
		btn = m.styles.button.Render("[Add task]")
	}
	return label + "\n " + m.styles.input.Render(m.input.View()) + "  " + btn
}

func (m appModel) renderControls(snap view.Snapshot, w int) string {
	var parts []string
	for _, f := range view.Filters() {
		if f == m.filter {
			parts = append(parts, m.styles.filterOn.Render(f.Label()))
		} else {
			parts = append(parts, m.styles.filterOff.Render(f.Label()))
		}
	}
	filters := strings.Join(parts, " ")

	clear := m.styles.buttonOff.Render("Clear completed")
	if snap.CanClearCompleted() {
		clear = m.styles.button.Render("Clear completed (C)")
	}
	gap := w - 2 - lipgloss.Width(filters) - lipgloss.Width(clear)
	if gap < 2 {
		gap = 2
	}
	return filters + strings.Repeat(" ", gap) + clear
}

func (m appModel) listHeight() int {
	return max(3, m.height-chromeLines)
}

func (m appModel) renderList(snap view.Snapshot, w int) string {
	if msg := snap.EmptyMessage(); msg != "" {
		return " " + m.styles.muted.Render(msg)
	}

	h := m.listHeight()
	cursor := max(0, min(m.cursor, len(snap.Visible)-1))
	offset := scrollOffset(m.offset, cursor, len(snap.Visible), h)
	end := min(len(snap.Visible), offset+h)

	lines := make([]string, 0, end-offset+1)
	for i := offset; i < end; i++ {
		lines = append(lines, m.renderRow(snap.Visible[i], i == cursor && m.focus == focusList, w))
	}
	if rest := len(snap.Visible) - end; rest > 0 {
		lines = append(lines, " "+m.styles.muted.Render(fmt.Sprintf("↓ %d more", rest)))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderRow(t model.Task, selected bool, w int) string {
	marker := " "
	if selected {
		marker = m.glyphs.cursor
	}
	box := m.glyphs.unchecked
	if t.Completed {
		box = m.glyphs.checked
	}
	added := formatAdded(t, time.Local)

	prefix := " " + marker + " " + box + " "
	textW := w - lipgloss.Width(prefix) - len(added) - 3
	text := xansi.Truncate(t.Text, max(4, textW), "…")
	pad := max(1, w-lipgloss.Width(prefix)-lipgloss.Width(text)-len(added)-1)

	textStyle := m.styles.text
	if t.Completed {
		textStyle = m.styles.doneText
	}
	if selected {
		return m.styles.selected.Render(prefix+text+strings.Repeat(" ", pad)+added) + " "
	}
	return prefix + textStyle.Render(text) + strings.Repeat(" ", pad) + m.styles.muted.Render(added) + " "
}

func (m appModel) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.statusErr.Render(m.status)
	}
	return m.styles.status.Render(m.status)
}

// scrollOffset keeps cursor inside the window [offset, offset+height).
func scrollOffset(offset, cursor, n, height int) int {
	if height <= 0 || n <= height {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	return max(0, min(offset, n-height))
}

// formatAdded renders the "Added HH:MM" row label.
func formatAdded(t model.Task, loc *time.Location) string {
	return "Added " + t.Created().In(loc).Format("15:04")
}
