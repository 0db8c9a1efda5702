package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// initCLI is a small flag set standing in for the root command.
type initCLI struct {
	Level   string   `default:"info" name:"log-level"`
	Frame   string   `               name:"frame"`
	Tags    []string `               name:"tag"`
	Caller  bool     `               name:"log-caller"`
	Count   int      `default:"3"    name:"count"`
	Secret  string   `default:"x"    name:"secret"      hidden:""`
	Profile string   `default:"cpu"  name:"pprof-mode"`
}

func initContext(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: content\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx := WithContext(t.Context(), initContext(t, confPath, "--log-level=debug"))

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v", err)
			}

			if got["log-level"] != "debug" {
				t.Errorf("log-level = %v, want debug", got["log-level"])
			}
		})
	}
}

func TestInitBuildConfig(t *testing.T) {
	t.Parallel()

	ktx := initContext(t, "unused", "--tag=a", "--tag=b", "--log-caller")
	cfg := (&Init{}).buildConfig(WithContext(t.Context(), ktx))

	got := make(map[string]any, len(cfg))
	order := make([]string, 0, len(cfg))

	for _, item := range cfg {
		key, _ := item.Key.(string)
		got[key] = item.Value
		order = append(order, key)
	}

	want := []string{"log-level", "tag", "log-caller", "count"}
	if len(order) != len(want) {
		t.Fatalf("keys = %q, want %q", order, want)
	}

	for i := range want {
		if order[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, order[i], want[i])
		}
	}

	if got["count"] != 3 || got["log-caller"] != true {
		t.Errorf("values = %v", got)
	}

	if tags, _ := got["tag"].([]string); len(tags) != 2 {
		t.Errorf("tag = %v, want [a b]", got["tag"])
	}
}

func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	ktx := initContext(t, "/nonexistent/directory/config.yaml")

	if err := (&Init{}).Run(WithContext(t.Context(), ktx)); !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Run() error = %v, want ErrWriteConfig", err)
	}
}
