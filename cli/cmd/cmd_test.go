package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lambdaeval/lang"
)

const testFrame = "testdata/frame.yaml"

func frameContext(t *testing.T, path string) context.Context {
	t.Helper()

	return WithFrameSource(t.Context(), FrameSource{Path: path, Enclosing: "Shop.Cart"})
}

func TestLoadFrame(t *testing.T) {
	t.Parallel()

	f, err := loadFrame(frameContext(t, testFrame))
	if err != nil {
		t.Fatalf("loadFrame() error = %v", err)
	}

	if f.This == nil || f.Enclosing != "Shop.Cart" {
		t.Errorf("loadFrame() = %+v, want receiver of Shop.Cart", f)
	}

	f, err = loadFrame(frameContext(t, ""))
	if err != nil {
		t.Fatalf("loadFrame(empty) error = %v", err)
	}

	if f.This != nil || len(f.Locals) != 0 || f.Enclosing != "Shop.Cart" {
		t.Errorf("loadFrame(empty) = %+v", f)
	}

	if _, err := loadFrame(frameContext(t, "testdata/missing.yaml")); err == nil {
		t.Error("loadFrame(missing) succeeded")
	}
}

func TestFrameSourceFrom_Unset(t *testing.T) {
	t.Parallel()

	if src := frameSourceFrom(t.Context()); src != (FrameSource{}) {
		t.Errorf("frameSourceFrom() = %+v, want zero", src)
	}

	if v := kongVar(t.Context(), CacheIdentifier); v != "" {
		t.Errorf("kongVar() without kong context = %q", v)
	}
}

func TestLinearizeRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		lambda    string
		renameAll bool
		want      []string
	}{
		{
			name:   "captured local",
			lambda: "x => x * y",
			want:   []string{"(x) => x * y\n", "  y = y (System.Int32)\n"},
		},
		{
			name:   "implicit receiver",
			lambda: "n => Add(n) + total",
			want:   []string{"(n) => this.Add(n) + total\n", "  this = this (Shop.Cart)\n"},
		},
		{
			name:      "rename all",
			lambda:    "x => x * y",
			renameAll: true,
			want:      []string{"(x) => x * y_0\n", "  y_0 = y (System.Int32)\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			l := &Linearize{Output: outputText, Lambda: tt.lambda, RenameAll: tt.renameAll}
			if err := l.run(frameContext(t, testFrame), &buf); err != nil {
				t.Fatalf("run() error = %v", err)
			}

			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output = %q, missing %q", buf.String(), want)
				}
			}
		})
	}
}

func TestLinearizeRun_Structured(t *testing.T) {
	t.Parallel()

	ctx := frameContext(t, testFrame)

	var buf bytes.Buffer

	l := &Linearize{Output: outputJSON, Lambda: "x => x * y"}
	if err := l.run(ctx, &buf); err != nil {
		t.Fatalf("run(json) error = %v", err)
	}

	var got report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	if got.Text != "(x) => x * y" || len(got.Bindings) != 1 || got.Bindings[0].Name != "y" {
		t.Errorf("json report = %+v", got)
	}

	if got.Pass == "" {
		t.Error("json report has no pass id")
	}

	buf.Reset()

	l.Output = outputYAML
	if err := l.run(ctx, &buf); err != nil {
		t.Fatalf("run(yaml) error = %v", err)
	}

	got = report{}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	if got.Body != "x * y" || got.Params[0] != "x" {
		t.Errorf("yaml report = %+v", got)
	}

	l.Output = "xml"
	if err := l.run(ctx, &buf); !errors.Is(err, ErrOutput) {
		t.Errorf("run(xml) error = %v, want ErrOutput", err)
	}
}

func TestLinearizeRun_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lambda string
		want   error
	}{
		{"x => Empty(x)", lang.ErrNotSupported},
		{"x => x + missing", lang.ErrUnknownIdentifier},
		{"x => x[0]", lang.ErrNotSupported},
		{"x + 1", lang.ErrNotLambda},
		{"x => (", lang.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.lambda, func(t *testing.T) {
			t.Parallel()

			l := &Linearize{Lambda: tt.lambda}

			err := l.run(frameContext(t, testFrame), &bytes.Buffer{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("run() error = %v, want %v", err, tt.want)
			}

			var e *lang.Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *lang.Error", err)
			}

			if v, ok := e.Attr("command"); !ok || v.String() != "linearize" {
				t.Errorf("command attr = %v, %v", v, ok)
			}
		})
	}
}

func TestInvokeRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		lambda string
		args   []string
		show   bool
		want   string
	}{
		{name: "captured local", lambda: "x => x * y", args: []string{"3"}, want: "15\n"},
		{name: "receiver field", lambda: "x => total + x", args: []string{"2"}, want: "42\n"},
		{name: "string", lambda: `s => owner + s`, args: []string{`"!"`}, want: "ada!\n"},
		{name: "bare word", lambda: `s => s`, args: []string{"word"}, want: "word\n"},
		{name: "null", lambda: "() => null", want: "null\n"},
		{name: "show", lambda: "x => x", args: []string{"1"}, show: true, want: "(x) => x\n1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			i := &Invoke{Lambda: tt.lambda, Args: tt.args, Show: tt.show}
			if err := i.run(frameContext(t, testFrame), &buf); err != nil {
				t.Fatalf("run() error = %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestInvokeRun_ArgCount(t *testing.T) {
	t.Parallel()

	i := &Invoke{Lambda: "(a, b) => a + b", Args: []string{"1"}}

	if err := i.run(frameContext(t, testFrame), &bytes.Buffer{}); err == nil {
		t.Error("run() with missing argument succeeded")
	}
}

func TestTypenameRun(t *testing.T) {
	t.Parallel()

	const (
		fn     = "System.Func`2[[System.Int32, mscorlib, Version=4.0.0.0],[System.String, mscorlib, Version=4.0.0.0]]"
		action = "System.Action`1[[System.Int32, mscorlib]]"
		lit    = "System.Func<System.Int32,System.String>"
	)

	tests := []struct {
		name string
		cmd  Typename
		want typenameReport
		err  error
	}{
		{
			name: "decompose",
			cmd:  Typename{Name: fn},
			want: typenameReport{
				Namespace: "System",
				Name:      "Func",
				Literal:   lit,
				Args:      []string{"System.Int32", "System.String"},
				Delegate:  true,
			},
		},
		{
			name: "cast",
			cmd:  Typename{Name: fn, Lambda: "x => x.ToString()"},
			want: typenameReport{
				Namespace: "System",
				Name:      "Func",
				Literal:   lit,
				Cast:      "(" + lit + ")(x => x.ToString())",
				Args:      []string{"System.Int32", "System.String"},
				Delegate:  true,
			},
		},
		{
			name: "not a delegate",
			cmd:  Typename{Name: action, Lambda: "x => x"},
			err:  lang.ErrTypeDeferred,
		},
		{
			name: "next candidate",
			cmd:  Typename{Name: action, Candidate: []string{fn}, Lambda: "x => x"},
			want: typenameReport{
				Namespace: "System",
				Name:      "Action",
				Literal:   lit,
				Cast:      "(" + lit + ")(x => x)",
				Args:      []string{"System.Int32"},
			},
		},
		{
			name: "malformed",
			cmd:  Typename{Name: "System.Func`2[[System.Int32, mscorlib]"},
			err:  lang.ErrTypeNameParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			err := tt.cmd.run(t.Context(), &buf)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("run() error = %v, want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatalf("run() error = %v", err)
			}

			var got typenameReport
			if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("yaml.Unmarshal(%q) error = %v", buf.String(), err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("report = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"abc", "abc"},
		{15, "15"},
		{true, "true"},
		{2.5, "2.5"},
	}

	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
