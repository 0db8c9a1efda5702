package frame_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ardnew/lambdaeval/frame"
	"github.com/ardnew/lambdaeval/lang"
)

func TestInvoke(t *testing.T) {
	t.Parallel()

	f, err := frame.LoadFile("testdata/program.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	z := lang.NewLinearizer(f, f)

	tests := []struct {
		name   string
		lambda string
		args   []any
		text   string
		want   string
	}{
		{"captured local", "x => x * y", []any{3}, "(x) => x * y", "15"},
		{"receiver field", "x => this.count + x", []any{4}, "(x) => this.count + x", "7"},
		{"implicit member", "s => Name + s", []any{"!"}, "(s) => Name + s", "demo!"},
		{"coalesce", "x => label ?? x", []any{"none"}, "(x) => label ?? x", "total"},
		{"null literal", "x => x == null", []any{nil}, "(x) => x == null", "true"},
		{"length", "s => s.Length + y", []any{"abc"}, "(s) => s.Length + y", "8"},
		{"to string", "n => n.ToString() + label", []any{1}, "(n) => n.ToString() + label", "1total"},
		{"conditional", "(a, b) => a > b ? a : b", []any{2, 9}, "(a, b) => a > b ? a : b", "9"},
		{"no params", "() => y % 3", nil, "() => y % 3", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := z.LinearizeString(t.Context(), tt.lambda)
			if err != nil {
				t.Fatalf("LinearizeString(%q) error = %v", tt.lambda, err)
			}

			if res.Text != tt.text {
				t.Errorf("Text = %q, want %q", res.Text, tt.text)
			}

			out, err := f.Invoke(t.Context(), res, tt.args...)
			if err != nil {
				t.Fatalf("Invoke(%q) error = %v", res.Body, err)
			}

			if got := fmt.Sprint(out); got != tt.want {
				t.Errorf("Invoke() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInvoke_Errors(t *testing.T) {
	t.Parallel()

	f := frame.Empty("App.Program")

	res := &lang.Result{Params: []string{"x"}, Body: "x + missing"}

	if _, err := f.Invoke(t.Context(), res); !errors.Is(err, frame.ErrExecute) {
		t.Errorf("Invoke() with too few args error = %v, want ErrExecute", err)
	}

	if _, err := f.Invoke(t.Context(), res, 1); !errors.Is(err, frame.ErrExecute) {
		t.Errorf("Invoke() of unbound name error = %v, want ErrExecute", err)
	}

	res = &lang.Result{Params: []string{"x"}, Body: "x.Field"}

	if _, err := f.Invoke(t.Context(), res, 1); !errors.Is(err, frame.ErrExecute) {
		t.Errorf("Invoke() of failing body error = %v, want ErrExecute", err)
	}
}

func TestLinearize_AgainstFrame(t *testing.T) {
	t.Parallel()

	f, err := frame.LoadFile("testdata/program.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	z := lang.NewLinearizer(f, f)

	tests := []struct {
		lambda string
		want   string
		err    error
	}{
		{lambda: "x => Scale(x)", want: "(x) => this.Scale(x)"},
		{lambda: "x => Create(x)", err: lang.ErrNotSupported},
		{lambda: "x => this.secret + x", err: lang.ErrInaccessibleMember},
		{lambda: "x => Both(x)", err: lang.ErrAmbiguousCall},
		{lambda: "x => Nope(x)", err: lang.ErrNotSupported},
		{lambda: "x => cont + x", err: lang.ErrUnknownIdentifier},
		{lambda: "x => System.Math.Max(x, 1)", err: lang.ErrUnknownIdentifier},
		{lambda: "x => base.Id + x", want: "(x) => base_0.Id + x"},
	}

	for _, tt := range tests {
		t.Run(tt.lambda, func(t *testing.T) {
			t.Parallel()

			res, err := z.LinearizeString(t.Context(), tt.lambda)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("LinearizeString() error = %v, want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatalf("LinearizeString() error = %v", err)
			}

			if res.Text != tt.want {
				t.Errorf("Text = %q, want %q", res.Text, tt.want)
			}
		})
	}
}

func TestLinearize_StaticContext(t *testing.T) {
	t.Parallel()

	const snapshot = `
enclosing: App.Program
types:
  App.Program:
    display: Program
    methods:
      Create: {static: true}
      Scale: {}
`

	f, err := frame.Load(strings.NewReader(snapshot))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	z := lang.NewLinearizer(f, f)

	res, err := z.LinearizeString(t.Context(), "x => Create(x)")
	if err != nil {
		t.Fatalf("LinearizeString() error = %v", err)
	}

	if want := "(x) => Program.Create(x)"; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}

	if _, err := z.LinearizeString(t.Context(), "x => Scale(x)"); !errors.Is(err, lang.ErrNotSupported) {
		t.Errorf("instance call without receiver error = %v, want ErrNotSupported", err)
	}
}

func TestParseArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want any
	}{
		{"3", 3},
		{"-2", -2},
		{"1.5", 1.5},
		{`"hi"`, "hi"},
		{"true", true},
		{"word", "word"},
		{"nil", nil},
	}

	for _, tt := range tests {
		if got := frame.ParseArg(tt.in); got != tt.want {
			t.Errorf("ParseArg(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
