package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"debug+2", Level(-2)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{" JSON", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevelsAndFormats(t *testing.T) {
	t.Parallel()

	if got, want := slices.Collect(Levels()), []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(got, want) {
		t.Errorf("Levels() = %q, want %q", got, want)
	}

	if got, want := slices.Collect(Formats()), []string{"text", "json"}; !slices.Equal(got, want) {
		t.Errorf("Formats() = %q, want %q", got, want)
	}

	if got := Level(3).String(); got != "Level(3)" {
		t.Errorf("Level(3).String() = %q", got)
	}
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	c := makeConfig(nil,
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(true),
	)

	if c.level != LevelWarn || c.format != FormatJSON || !c.caller || !c.pretty {
		t.Errorf("config = %+v, want every option applied", c)
	}

	// options on a zero config must not panic
	if z := WithLevel(LevelDebug)(config{}); z.level != LevelDebug || z.mutex == nil {
		t.Errorf("zero config = %+v", z)
	}

	clone := c.clone(WithLevel(LevelError))
	if c.level != LevelWarn || clone.level != LevelError || clone.mutex == c.mutex {
		t.Error("clone() shares state with the original")
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T14:05:06Z"},
		{"rfc-3339", "2024-03-09T14:05:06Z"},
		{"Kitchen", "2:05PM"},
		{"DateTime", "2024-03-09 14:05:06"},
		{"2006/01/02", "2024/03/09"},
		{"none", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := makeFormatTimeFunc(tt.layout)(at); got != tt.want {
			t.Errorf("layout %q = %q, want %q", tt.layout, got, tt.want)
		}
	}
}
