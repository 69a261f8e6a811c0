package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "", want: zerolog.InfoLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: " WARN ", want: zerolog.WarnLevel},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q): err=%v wantErr=%v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_FiltersByLevelAndTagsApp(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel)
	log.Info().Msg("hidden")
	log.Warn().Str("key", "taskflow-todos").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line; got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec["message"] != "shown" || rec["app"] != "taskflow" || rec["level"] != "warn" {
		t.Fatalf("unexpected record: %#v", rec)
	}
}

func TestOpenFile_Appends(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	log, closer, err := OpenFile(dir, zerolog.InfoLevel)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	log.Info().Msg("first")
	_ = closer.Close()

	log, closer, err = OpenFile(dir, zerolog.InfoLevel)
	if err != nil {
		t.Fatalf("OpenFile (again): %v", err)
	}
	log.Info().Msg("second")
	_ = closer.Close()

	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), "first") || !strings.Contains(string(b), "second") {
		t.Fatalf("expected both records; got %q", string(b))
	}
}
