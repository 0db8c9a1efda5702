package repl

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ardnew/lambdaeval/frame"
	"github.com/ardnew/lambdaeval/log"
)

func loadCart(t *testing.T) *frame.Frame {
	t.Helper()

	f, err := frame.LoadFile("testdata/frame.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	return f
}

func newTestModel(t *testing.T, opts ...Option) model {
	t.Helper()

	return newModel(t.Context(), loadCart(t), NewHistory(""), log.Make(io.Discard), opts...)
}

func TestRun_NoFrame(t *testing.T) {
	err := Run(t.Context(), nil, "", log.Make(io.Discard))
	if !errors.Is(err, ErrNoFrame) {
		t.Errorf("Run(nil) error = %v, want %v", err, ErrNoFrame)
	}
}

func TestModel_Linearize(t *testing.T) {
	tests := []struct {
		name   string
		rename bool
		input  string
		want   string
		binds  []string
	}{
		{"capture", false, "x => x * y", "(x) => x * y", []string{"y"}},
		{"rename_all", true, "x => x * y", "(x) => x * y_0", []string{"y_0"}},
		{"member", false, "n => Add(n) + total", "(n) => this.Add(n) + total", []string{"this"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, WithRenameAll(tt.rename))

			m, cmd := m.linearize(tt.input)
			if cmd == nil {
				t.Fatal("linearize() returned no command")
			}

			if m.last == nil {
				t.Fatalf("linearize(%q) stored no result", tt.input)
			}

			if m.last.Text != tt.want {
				t.Errorf("Text = %q, want %q", m.last.Text, tt.want)
			}

			var names []string
			for _, b := range m.last.Bindings {
				names = append(names, b.Name)
			}

			if strings.Join(names, ",") != strings.Join(tt.binds, ",") {
				t.Errorf("bindings = %q, want %q", names, tt.binds)
			}
		})
	}
}

func TestModel_LinearizeError(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.linearize("x => x * y")
	m, _ = m.linearize("x => missing")

	if m.last == nil || m.last.Text != "(x) => x * y" {
		t.Errorf("failed linearize replaced last result: %+v", m.last)
	}
}

func TestModel_Invoke(t *testing.T) {
	m := newTestModel(t)

	if _, err := m.invoke(nil); !errors.Is(err, ErrNoLambda) {
		t.Errorf("invoke() before linearize error = %v, want %v", err, ErrNoLambda)
	}

	m, _ = m.linearize("x => x * y")

	got, err := m.invoke([]string{"3"})
	if err != nil {
		t.Fatalf("invoke() error = %v", err)
	}

	if got != "15" {
		t.Errorf("invoke(3) = %q, want %q", got, "15")
	}

	if _, err := m.invoke(nil); err == nil {
		t.Error("invoke() with missing argument succeeded")
	}
}

func TestModel_ExecuteInput(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("  x => x  ")

	m, _ = m.executeInput()

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	if m.history.Len() != 1 {
		t.Fatalf("history length = %d, want 1", m.history.Len())
	}

	entry, _ := m.history.Entry(0)
	if entry != (HistoryEntry{Line: "x => x", Mode: modeEval}) {
		t.Errorf("history entry = %+v", entry)
	}

	if m.historyIdx != 1 {
		t.Errorf("historyIdx = %d, want 1", m.historyIdx)
	}

	if m.last == nil || m.last.Text != "(x) => x" {
		t.Errorf("last = %+v", m.last)
	}

	m.input.SetValue("   ")

	if m, _ = m.executeInput(); m.history.Len() != 1 {
		t.Errorf("blank input recorded in history")
	}
}

func TestModel_ExecuteCommand(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.executeCommand("rename")
	if !m.renameAll {
		t.Fatal("rename did not enable rename-all")
	}

	m, _ = m.linearize("x => x * y")
	if m.last.Text != "(x) => x * y_0" {
		t.Errorf("Text after rename = %q", m.last.Text)
	}

	m, _ = m.executeCommand("r")
	if m.renameAll {
		t.Error("second rename did not disable rename-all")
	}

	m, _ = m.executeCommand("quit")
	if !m.quitting {
		t.Error("quit did not set quitting")
	}

	for _, cmd := range []string{"help", "names", "invoke 1", "bogus"} {
		if _, c := m.executeCommand(cmd); c == nil {
			t.Errorf("executeCommand(%q) returned no command", cmd)
		}
	}
}

func TestModel_ListNames(t *testing.T) {
	m := newTestModel(t)

	got := m.listNames()

	for _, name := range []string{"this", "total", "rate", "Cart", "System"} {
		if !strings.Contains(got, name) {
			t.Errorf("listNames() missing %q:\n%s", name, got)
		}
	}
}

func TestModel_HistoryStep(t *testing.T) {
	m := newTestModel(t)

	for _, e := range []HistoryEntry{
		{Line: "a", Mode: modeEval},
		{Line: "help", Mode: modeCtrl},
		{Line: "b", Mode: modeEval},
	} {
		if err := m.history.Write(e.Line, e.Mode); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	m.historyIdx = m.history.Len()

	steps := []struct {
		step   int
		inMode bool
		idx    int
		line   string
		mode   inputMode
	}{
		{-1, true, 2, "b", modeEval},
		{-1, true, 0, "a", modeEval},
		{1, false, 1, "help", modeCtrl},
		{1, false, 2, "b", modeEval},
		{1, false, 3, "", modeEval},
	}

	for i, s := range steps {
		m = m.historyStep(s.step, s.inMode)

		if m.historyIdx != s.idx || m.input.Value() != s.line || m.mode != s.mode {
			t.Errorf("step %d: (idx, line, mode) = (%d, %q, %d), want (%d, %q, %d)",
				i, m.historyIdx, m.input.Value(), m.mode, s.idx, s.line, s.mode)
		}
	}
}

func TestModel_SwitchToMode(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("x => x")
	m = m.switchToMode(modeCtrl)

	if m.input.Value() != "" {
		t.Errorf("ctrl input = %q, want empty", m.input.Value())
	}

	m.input.SetValue("names")
	m = m.switchToMode(modeEval)

	if m.input.Value() != "x => x" {
		t.Errorf("eval input = %q, want restored", m.input.Value())
	}

	if m = m.switchToMode(modeCtrl); m.input.Value() != "names" {
		t.Errorf("ctrl input = %q, want restored", m.input.Value())
	}
}

func TestModel_HintLine(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("n => Add(n, ")
	m.input.SetCursor(len("n => Add(n, "))

	if got := m.hintLine(); !strings.Contains(got, "instance method of Cart") {
		t.Errorf("hintLine() = %q, want call hint", got)
	}

	m.input.SetValue("")

	if got := m.hintLine(); !strings.Contains(got, "Type a lambda") {
		t.Errorf("hintLine() = %q, want usage hint", got)
	}
}
