package tui

import (
	"os"
	"strings"
)

// Terminal apps can't change the user's font, so affordances come in a Unicode and an
// ASCII flavour (TASKFLOW_GLYPHS=ascii).
type glyphSet struct {
	checked   string
	unchecked string
	cursor    string
	barOn     string
	barOff    string
	sep       string
}

var (
	unicodeGlyphs = glyphSet{checked: "☑", unchecked: "☐", cursor: "›", barOn: "█", barOff: "░", sep: "·"}
	asciiGlyphs   = glyphSet{checked: "[x]", unchecked: "[ ]", cursor: ">", barOn: "#", barOff: "-", sep: "|"}
)

func glyphsFromEnv() glyphSet {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TASKFLOW_GLYPHS"))) {
	case "ascii":
		return asciiGlyphs
	default:
		return unicodeGlyphs
	}
}
