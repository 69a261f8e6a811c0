package model

import (
	"testing"
	"time"
)

func TestParseTheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   Theme
		wantOK bool
	}{
		{in: "light", want: ThemeLight, wantOK: true},
		{in: " Dark ", want: ThemeDark, wantOK: true},
		{in: "", wantOK: false},
		{in: "solarized", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseTheme(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("ParseTheme(%q) = (%q, %v); want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestThemeToggle(t *testing.T) {
	t.Parallel()

	if got := ThemeLight.Toggle(); got != ThemeDark {
		t.Fatalf("light toggle: got %q", got)
	}
	if got := ThemeDark.Toggle(); got != ThemeLight {
		t.Fatalf("dark toggle: got %q", got)
	}
}

func TestTaskCreated(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 12, 21, 9, 30, 0, 0, time.UTC)
	task := Task{ID: "a", Text: "x", CreatedAt: at.UnixMilli()}
	if !task.Created().Equal(at) {
		t.Fatalf("Created: got %v want %v", task.Created(), at)
	}
}
