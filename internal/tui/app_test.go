package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/store"
	"taskflow/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type brokenSlot struct{ *store.MemorySlot }

func (brokenSlot) Set(context.Context, string, string) error { return errors.New("read-only disk") }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func newTestModel(t *testing.T, slot store.Slot) (appModel, *store.TaskList) {
	t.Helper()
	ctx := context.Background()
	at := time.Date(2025, 12, 21, 9, 5, 0, 0, time.Local)
	tl := store.OpenTaskList(ctx, slot, store.WithClock(func() time.Time { return at }))
	m := newAppModel(ctx, Options{
		Tasks:     tl,
		Theme:     model.ThemeLight,
		Clipboard: func(string) error { return nil },
	})
	return m, tl
}

func press(t *testing.T, m appModel, msgs ...tea.Msg) appModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(appModel)
	}
	return m
}

func plain(m appModel) string {
	return xansi.Strip(m.View())
}

func TestAppModel_InitialViewShowsEmptyState(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, store.NewMemorySlot())

	out := plain(m)
	for _, want := range []string{headerTitle, view.EmptyNoTasks, "0% complete", "0 remaining · 0 done", inputPlaceholder} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q; got:\n%s", want, out)
		}
	}
	if m.focus != focusInput {
		t.Fatalf("expected input focus at start")
	}
}

func TestAppModel_AddTaskUpdatesProgress(t *testing.T) {
	t.Parallel()
	m, tl := newTestModel(t, store.NewMemorySlot())

	m = press(t, m, runes("Write API docs"), enter)
	if tl.Len() != 1 {
		t.Fatalf("expected one task; got %d", tl.Len())
	}
	if got := m.input.Value(); got != "" {
		t.Fatalf("expected input to reset; got %q", got)
	}
	out := plain(m)
	if !strings.Contains(out, "Write API docs") || !strings.Contains(out, "1 remaining · 0 done") {
		t.Fatalf("unexpected view:\n%s", out)
	}
	if !strings.Contains(out, "Added 09:05") {
		t.Fatalf("expected creation time label; got:\n%s", out)
	}
}

func TestAppModel_BlankInputIsIgnored(t *testing.T) {
	t.Parallel()
	m, tl := newTestModel(t, store.NewMemorySlot())

	m = press(t, m, runes("   "), enter)
	if tl.Len() != 0 {
		t.Fatalf("blank input should not add a task")
	}
	if m.status != "" {
		t.Fatalf("blank input should not set a status; got %q", m.status)
	}
	if !strings.Contains(plain(m), view.EmptyNoTasks) {
		t.Fatalf("expected empty state to remain")
	}
}

func TestAppModel_ToggleAndFilterScenario(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, store.NewMemorySlot())

	m = press(t, m, runes("Fix styling bug"), enter, esc, runes("x"))
	out := plain(m)
	if !strings.Contains(out, "0 remaining · 1 done") || !strings.Contains(out, "100% complete") {
		t.Fatalf("expected completed counts; got:\n%s", out)
	}

	m = press(t, m, runes("3"))
	if m.filter != view.FilterCompleted || !strings.Contains(plain(m), "Fix styling bug") {
		t.Fatalf("completed filter should show the task; got:\n%s", plain(m))
	}

	m = press(t, m, runes("2"))
	out = plain(m)
	if m.filter != view.FilterActive || !strings.Contains(out, view.EmptyNoMatch) || strings.Contains(out, "Fix styling bug") {
		t.Fatalf("active filter should show the no-match message; got:\n%s", out)
	}

	m = press(t, m, runes("1"))
	if m.filter != view.FilterAll || !strings.Contains(plain(m), "Fix styling bug") {
		t.Fatalf("all filter should show the task again; got:\n%s", plain(m))
	}
}

func TestAppModel_FilterKeyCycles(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, store.NewMemorySlot())
	m = press(t, m, esc)

	want := []view.Filter{view.FilterActive, view.FilterCompleted, view.FilterAll}
	for _, f := range want {
		m = press(t, m, runes("f"))
		if m.filter != f {
			t.Fatalf("expected %s; got %s", f, m.filter)
		}
	}
}

func TestAppModel_DeleteAndClearCompleted(t *testing.T) {
	t.Parallel()
	m, tl := newTestModel(t, store.NewMemorySlot())

	m = press(t, m, runes("one"), enter, runes("two"), enter, runes("three"), enter, esc)
	// Newest first: three, two, one. Complete "three" and "two".
	m = press(t, m, runes("x"), runes("j"), runes("x"))
	if got := view.Compute(tl.Tasks(), view.FilterAll).Completed; got != 2 {
		t.Fatalf("expected 2 completed; got %d", got)
	}

	m = press(t, m, runes("C"))
	tasks := tl.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "one" {
		t.Fatalf("expected only 'one' to remain; got %#v", tasks)
	}
	if !strings.Contains(m.status, "Cleared 2 completed") {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = press(t, m, runes("d"))
	if tl.Len() != 0 {
		t.Fatalf("expected delete to remove the last task")
	}
	if !strings.Contains(plain(m), view.EmptyNoTasks) {
		t.Fatalf("expected empty state after delete")
	}
}

func TestAppModel_ClearCompletedDisabledWithoutCompletedTasks(t *testing.T) {
	t.Parallel()
	m, tl := newTestModel(t, store.NewMemorySlot())

	m = press(t, m, runes("open task"), enter, esc, runes("C"))
	if tl.Len() != 1 {
		t.Fatalf("clear completed should be a no-op")
	}
	if strings.Contains(plain(m), "Clear completed (C)") {
		t.Fatalf("clear completed should render disabled")
	}
}

func TestAppModel_ThemeToggle(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, store.NewMemorySlot())
	m = press(t, m, esc)

	if !strings.Contains(plain(m), "Switch to dark mode") {
		t.Fatalf("light theme should offer dark mode")
	}
	m = press(t, m, runes("t"))
	if m.theme != model.ThemeDark || !strings.Contains(plain(m), "Switch to light mode") {
		t.Fatalf("expected dark theme after toggle; theme=%s", m.theme)
	}
	m = press(t, m, runes("t"))
	if m.theme != model.ThemeLight {
		t.Fatalf("expected light theme after second toggle")
	}
}

func TestAppModel_CopySelectedTask(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, store.NewMemorySlot())
	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}

	m = press(t, m, runes("Call the plumber"), enter, esc, runes("y"))
	if copied != "Call the plumber" {
		t.Fatalf("copied %q", copied)
	}
	if m.status != "Copied" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestAppModel_HelpOverlay(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, store.NewMemorySlot())
	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}, esc, runes("?"))

	if !m.showHelp {
		t.Fatalf("expected help overlay")
	}
	if out := plain(m); !strings.Contains(out, "esc to close") {
		t.Fatalf("unexpected help view:\n%s", out)
	}
	m = press(t, m, esc)
	if m.showHelp {
		t.Fatalf("esc should close help")
	}
}

func TestAppModel_PersistFailureShowsHint(t *testing.T) {
	t.Parallel()
	m, tl := newTestModel(t, brokenSlot{MemorySlot: store.NewMemorySlot()})

	m = press(t, m, runes("kept in memory"), enter)
	if tl.Len() != 1 {
		t.Fatalf("task should still be added in memory")
	}
	if !m.statusErr || !strings.Contains(m.status, "Not saved") {
		t.Fatalf("expected a not-saved hint; got %q (err=%v)", m.status, m.statusErr)
	}
}

func TestAppModel_CursorStaysInRangeAfterToggleUnderActiveFilter(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, store.NewMemorySlot())

	m = press(t, m, runes("a"), enter, runes("b"), enter, esc, runes("2"), runes("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor: got %d want 1", m.cursor)
	}
	m = press(t, m, runes("x"))
	if m.cursor != 0 {
		t.Fatalf("cursor should clamp after the task left the filter; got %d", m.cursor)
	}
}

func TestScrollOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                           string
		offset, cursor, n, height, want int
	}{
		{name: "fits", offset: 3, cursor: 2, n: 5, height: 10, want: 0},
		{name: "cursor below window", offset: 0, cursor: 7, n: 20, height: 5, want: 3},
		{name: "cursor above window", offset: 6, cursor: 2, n: 20, height: 5, want: 2},
		{name: "cursor inside window", offset: 4, cursor: 6, n: 20, height: 5, want: 4},
		{name: "clamped to tail", offset: 18, cursor: 19, n: 20, height: 5, want: 15},
	}
	for _, tt := range tests {
		if got := scrollOffset(tt.offset, tt.cursor, tt.n, tt.height); got != tt.want {
			t.Fatalf("%s: scrollOffset = %d; want %d", tt.name, got, tt.want)
		}
	}
}

func TestRenderProgressBar(t *testing.T) {
	t.Parallel()

	st := newStyles(model.ThemeLight)
	tests := []struct {
		pct    int
		wantOn int
	}{
		{pct: 0, wantOn: 0},
		{pct: 50, wantOn: 5},
		{pct: 100, wantOn: 10},
		{pct: 140, wantOn: 10},
	}
	for _, tt := range tests {
		out := xansi.Strip(renderProgressBar(tt.pct, 10, asciiGlyphs, st))
		if len(out) != 10 {
			t.Fatalf("pct=%d: width %d (%q)", tt.pct, len(out), out)
		}
		if got := strings.Count(out, asciiGlyphs.barOn); got != tt.wantOn {
			t.Fatalf("pct=%d: filled %d want %d (%q)", tt.pct, got, tt.wantOn, out)
		}
	}
}
