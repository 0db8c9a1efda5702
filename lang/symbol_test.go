package lang

import (
	"testing"
)

type stubValue struct {
	name string
}

func (stubValue) Flags() Flags { return FlagLocal }

func (stubValue) Type() TypeRef { return fullName("System.Int32") }

func (v stubValue) String() string { return v.name }

func TestSymbolTable_Idempotent(t *testing.T) {
	t.Parallel()

	st := NewSymbolTable()
	first := st.Bind("y", stubValue{"first"}, false)
	second := st.Bind("y", stubValue{"second"}, true)

	if first != "y" {
		t.Errorf("first Bind() = %q, want verbatim", first)
	}

	if second != first {
		t.Errorf("second Bind() = %q, want %q", second, first)
	}

	sym, ok := st.Symbol("y")
	if !ok {
		t.Fatal("Symbol(y) not found")
	}

	if sym.Value.(stubValue).name != "first" {
		t.Errorf("Value = %v, want the first binding", sym.Value)
	}

	if st.Len() != 1 {
		t.Errorf("Len() = %d, want 1", st.Len())
	}
}

func TestSymbolTable_ForcedRename(t *testing.T) {
	t.Parallel()

	st := NewSymbolTable()

	if got := st.Bind("base", stubValue{}, true); got != "base_0" {
		t.Errorf("Bind(base) = %q, want base_0", got)
	}

	if got := st.Bind("this", stubValue{}, true); got != "this_1" {
		t.Errorf("Bind(this) = %q, want this_1", got)
	}
}

func TestSymbolTable_CollisionSkipsUsedNames(t *testing.T) {
	t.Parallel()

	st := NewSymbolTable()
	st.Reserve("x")

	if got := st.Bind("x_0", stubValue{}, false); got != "x_0" {
		t.Fatalf("Bind(x_0) = %q, want verbatim", got)
	}

	// x is reserved and x_0 is taken, so the counter must move past it.
	got := st.Bind("x", stubValue{}, false)
	if got == "x" || got == "x_0" {
		t.Errorf("Bind(x) = %q, want a fresh name", got)
	}

	if got != "x_1" {
		t.Errorf("Bind(x) = %q, want x_1", got)
	}
}

func TestSymbolTable_Uniqueness(t *testing.T) {
	t.Parallel()

	st := NewSymbolTable()
	names := []string{"a", "a_0", "b", "a_1", "c", "b_2", "a_2"}
	seen := make(map[string]string)

	for i, name := range names {
		gen := st.Bind(name, stubValue{}, i%2 == 0)

		if prev, dup := seen[gen]; dup {
			t.Fatalf("Bind(%q) = %q, already generated for %q", name, gen, prev)
		}

		seen[gen] = name
	}

	if st.Len() != len(names) {
		t.Errorf("Len() = %d, want %d", st.Len(), len(names))
	}
}

func TestSymbolTable_Bindings(t *testing.T) {
	t.Parallel()

	st := NewSymbolTable()
	st.Bind("z", stubValue{"z"}, false)
	st.Bind("base", stubValue{"base"}, true)
	st.Bind("a", stubValue{"a"}, false)

	want := []string{"z", "base_0", "a"}
	got := st.Bindings()

	if len(got) != len(want) {
		t.Fatalf("Bindings() has %d entries, want %d", len(got), len(want))
	}

	for i, b := range got {
		if b.Name != want[i] {
			t.Errorf("Bindings()[%d].Name = %q, want %q", i, b.Name, want[i])
		}
	}

	var originals []string

	for sym := range st.All() {
		originals = append(originals, sym.Original)

		if sym.Original == "base" {
			break
		}
	}

	if len(originals) != 2 || originals[1] != "base" {
		t.Errorf("All() yielded %q, want [z base]", originals)
	}

	if gen, ok := st.Lookup("missing"); ok || gen != "" {
		t.Errorf("Lookup(missing) = %q, %v", gen, ok)
	}
}
