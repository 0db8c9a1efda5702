package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_Functions(t *testing.T) {
	original := Default()
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	defaultLog = Make(&buf)
	Config(WithLevel(LevelTrace), WithFormat(FormatJSON))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"InfoContext", func(msg string, attrs ...slog.Attr) {
			InfoContext(context.Background(), msg, attrs...)
		}, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			for _, want := range []string{`"level":"` + tt.level + `"`, `"key":"value"`} {
				if !strings.Contains(out, want) {
					t.Errorf("output %q does not contain %q", out, want)
				}
			}
		})
	}

	buf.Reset()
	With(slog.String("scope", "pkg")).Warn("scoped")

	if !strings.Contains(buf.String(), `"scope":"pkg"`) {
		t.Errorf("With() output = %q", buf.String())
	}
}
