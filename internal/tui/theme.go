package tui

import (
	"os"
	"strconv"
	"strings"

	"taskflow/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// palette is one concrete colour set. Unlike lipgloss.AdaptiveColor, the user can flip
// between palettes at runtime with the theme toggle.
type palette struct {
	fg          lipgloss.Color
	muted       lipgloss.Color
	accent      lipgloss.Color
	accentFg    lipgloss.Color
	selectedBg  lipgloss.Color
	selectedFg  lipgloss.Color
	done        lipgloss.Color
	errFg       lipgloss.Color
	progressOn  lipgloss.Color
	progressOff lipgloss.Color
	inputBg     lipgloss.Color
}

var (
	lightPalette = palette{
		fg:          lipgloss.Color("235"),
		muted:       lipgloss.Color("242"),
		accent:      lipgloss.Color("#4f46e5"),
		accentFg:    lipgloss.Color("255"),
		selectedBg:  lipgloss.Color("#e9e9e9"),
		selectedFg:  lipgloss.Color("235"),
		done:        lipgloss.Color("#6c757d"),
		errFg:       lipgloss.Color("160"),
		progressOn:  lipgloss.Color("#15803d"),
		progressOff: lipgloss.Color("#c9c9c1"),
		inputBg:     lipgloss.Color("254"),
	}
	darkPalette = palette{
		fg:          lipgloss.Color("252"),
		muted:       lipgloss.Color("245"),
		accent:      lipgloss.Color("#818cf8"),
		accentFg:    lipgloss.Color("235"),
		selectedBg:  lipgloss.Color("#262626"),
		selectedFg:  lipgloss.Color("255"),
		done:        lipgloss.Color("243"),
		errFg:       lipgloss.Color("203"),
		progressOn:  lipgloss.Color("#50fa7b"),
		progressOff: lipgloss.Color("#44475a"),
		inputBg:     lipgloss.Color("234"),
	}
)

type styles struct {
	p palette

	eyebrow   lipgloss.Style
	title     lipgloss.Style
	subtitle  lipgloss.Style
	muted     lipgloss.Style
	label     lipgloss.Style
	text      lipgloss.Style
	doneText  lipgloss.Style
	selected  lipgloss.Style
	filterOn  lipgloss.Style
	filterOff lipgloss.Style
	button    lipgloss.Style
	buttonOff lipgloss.Style
	input     lipgloss.Style
	status    lipgloss.Style
	statusErr lipgloss.Style
}

func newStyles(t model.Theme) styles {
	p := lightPalette
	if t == model.ThemeDark {
		p = darkPalette
	}
	base := lipgloss.NewStyle().Foreground(p.fg)
	return styles{
		p:         p,
		eyebrow:   lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		title:     base.Bold(true),
		subtitle:  lipgloss.NewStyle().Foreground(p.muted),
		muted:     lipgloss.NewStyle().Foreground(p.muted),
		label:     base.Bold(true),
		text:      base,
		doneText:  lipgloss.NewStyle().Foreground(p.done).Strikethrough(true),
		selected:  lipgloss.NewStyle().Foreground(p.selectedFg).Background(p.selectedBg).Bold(true),
		filterOn:  lipgloss.NewStyle().Foreground(p.accentFg).Background(p.accent).Bold(true).Padding(0, 1),
		filterOff: base.Padding(0, 1),
		button:    base.Underline(true),
		buttonOff: lipgloss.NewStyle().Foreground(p.muted).Faint(true),
		input:     lipgloss.NewStyle().Background(p.inputBg),
		status:    lipgloss.NewStyle().Foreground(p.muted),
		statusErr: lipgloss.NewStyle().Foreground(p.errFg).Bold(true),
	}
}

// detectTheme picks the initial theme when none was configured.
//
// Priority:
// 1) TASKFLOW_THEME=light|dark
// 2) COLORFGBG heuristic ("fg;bg", last segment is the background)
// 3) lipgloss background probing
func detectTheme() model.Theme {
	if t, ok := model.ParseTheme(os.Getenv("TASKFLOW_THEME")); ok {
		return t
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg < 7 {
				return model.ThemeDark
			}
			return model.ThemeLight
		}
	}
	if lipgloss.HasDarkBackground() {
		return model.ThemeDark
	}
	return model.ThemeLight
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can disable colours in a
// TUI by accident, so only NO_COLOR is honoured here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && profile != termenv.TrueColor {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}
