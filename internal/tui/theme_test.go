package tui

import (
	"strings"
	"testing"
	"time"

	"taskflow/internal/model"

	glamourstyles "github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestDetectTheme_EnvOverrides(t *testing.T) {
	t.Setenv("TASKFLOW_THEME", "dark")
	t.Setenv("COLORFGBG", "0;15")
	if got := detectTheme(); got != model.ThemeDark {
		t.Fatalf("TASKFLOW_THEME should win; got %s", got)
	}

	t.Setenv("TASKFLOW_THEME", "")
	if got := detectTheme(); got != model.ThemeLight {
		t.Fatalf("COLORFGBG bg=15 should be light; got %s", got)
	}

	t.Setenv("COLORFGBG", "15;default;0")
	if got := detectTheme(); got != model.ThemeDark {
		t.Fatalf("COLORFGBG bg=0 should be dark; got %s", got)
	}
}

func TestNewStyles_PalettePerTheme(t *testing.T) {
	t.Parallel()

	if got := newStyles(model.ThemeLight).p; got != lightPalette {
		t.Fatalf("light theme should use the light palette")
	}
	if got := newStyles(model.ThemeDark).p; got != darkPalette {
		t.Fatalf("dark theme should use the dark palette")
	}
}

func TestGlyphsFromEnv(t *testing.T) {
	t.Setenv("TASKFLOW_GLYPHS", "")
	if got := glyphsFromEnv(); got != unicodeGlyphs {
		t.Fatalf("expected unicode glyphs by default; got %v", got)
	}
	t.Setenv("TASKFLOW_GLYPHS", "ASCII")
	if got := glyphsFromEnv(); got != asciiGlyphs {
		t.Fatalf("expected ascii glyphs; got %v", got)
	}
	t.Setenv("TASKFLOW_GLYPHS", "bogus")
	if got := glyphsFromEnv(); got != unicodeGlyphs {
		t.Fatalf("unknown values should fall back to unicode; got %v", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	if got := renderMarkdown("   ", 40, model.ThemeLight); got != "" {
		t.Fatalf("blank markdown should render empty; got %q", got)
	}
	for _, theme := range []model.Theme{model.ThemeLight, model.ThemeDark} {
		out := xansi.Strip(renderMarkdown("# Keys\n\nPress **a** to add.", 40, theme))
		if !strings.Contains(out, "Keys") || !strings.Contains(out, "Press a to add.") {
			t.Fatalf("%s: unexpected render:\n%s", theme, out)
		}
	}
}

func TestFormatAdded(t *testing.T) {
	t.Parallel()

	task := model.Task{CreatedAt: 1_700_000_000_000}
	if got := formatAdded(task, time.UTC); got != "Added 22:13" {
		t.Fatalf("formatAdded: got %q", got)
	}
}

func TestMarkdownStyle_FollowsTheme(t *testing.T) {
	t.Parallel()

	if got := markdownStyle(model.ThemeDark); got != glamourstyles.DarkStyle {
		t.Fatalf("dark: got %q", got)
	}
	if got := markdownStyle(model.ThemeLight); got != glamourstyles.LightStyle {
		t.Fatalf("light: got %q", got)
	}
	if out := renderMarkdown("# Keys", 40, model.ThemeDark); !strings.Contains(xansi.Strip(out), "Keys") {
		t.Fatalf("rendered markdown lost its heading: %q", out)
	}
}
