package format

import (
	"bytes"
	"testing"
)

type textResult struct{ s string }

func (r textResult) Text() string { return r.s }

func TestWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		v       any
		format  string
		pretty  bool
		want    string
		wantErr bool
	}{
		{name: "json default", v: map[string]any{"data": 1}, format: "", want: "{\"data\":1}\n"},
		{name: "json pretty", v: map[string]any{"data": 1}, format: "json", pretty: true, want: "{\n  \"data\": 1\n}\n"},
		{name: "text texter", v: textResult{s: "1 remaining · 0 done\n"}, format: "text", want: "1 remaining · 0 done\n"},
		{name: "text empty", v: textResult{}, format: "TEXT", want: ""},
		{name: "text fallback", v: map[string]any{"a": true}, format: "text", want: "{\n  \"a\": true\n}\n"},
		{name: "unknown", v: 1, format: "edn", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			err := Write(&buf, tt.v, tt.format, tt.pretty)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Write: err=%v wantErr=%v", err, tt.wantErr)
			}
			if !tt.wantErr && buf.String() != tt.want {
				t.Fatalf("Write:\n got: %q\nwant: %q", buf.String(), tt.want)
			}
		})
	}
}
