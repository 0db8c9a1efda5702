package frame

import (
	"slices"
	"testing"
)

func TestComplete(t *testing.T) {
	t.Parallel()

	f := loadProgram(t)

	tests := []struct {
		parent string
		want   []string
	}{
		{"this", []string{"Both", "Describe", "Id", "Name", "Scale", "Version", "count", "secret"}},
		{"Program", []string{"Both", "Create", "Version"}},
		{"System", []string{"Collections"}},
		{"System.Collections", []string{"Generic"}},
		{"hidden", []string{"id"}},
		{"nope", nil},
	}

	for _, tt := range tests {
		t.Run(tt.parent, func(t *testing.T) {
			t.Parallel()

			if got := f.Complete(t.Context(), tt.parent); !slices.Equal(got, tt.want) {
				t.Errorf("Complete(%q) = %q, want %q", tt.parent, got, tt.want)
			}
		})
	}

	if got := f.Complete(t.Context(), ""); !slices.Equal(got, f.Names()) {
		t.Errorf("Complete(\"\") = %q, want Names()", got)
	}
}

func TestMethod(t *testing.T) {
	t.Parallel()

	f := loadProgram(t)

	tests := []struct {
		callee string
		want   MethodKind
		ok     bool
	}{
		{"Scale", MethodKind{Receiver: "Program", Instance: true}, true},
		{"Create", MethodKind{Receiver: "Program", Static: true}, true},
		{"Both", MethodKind{Receiver: "Program", Instance: true, Static: true}, true},
		{"this.Describe", MethodKind{Receiver: "Program", Instance: true}, true},
		{"base.Describe", MethodKind{Receiver: "Base", Instance: true}, true},
		{"Missing", MethodKind{Receiver: "Program"}, false},
		{"nope.Scale", MethodKind{}, false},
	}

	for _, tt := range tests {
		got, ok := f.Method(t.Context(), tt.callee)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Method(%q) = %+v, %v, want %+v, %v", tt.callee, got, ok, tt.want, tt.ok)
		}
	}
}
