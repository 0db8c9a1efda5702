package lang

import (
	"iter"
	"strconv"
)

// Symbol is a captured variable: the name it had in the lambda body, the
// name it is emitted under, and the debuggee value it is bound to.
type Symbol struct {
	Original  string
	Generated string
	Value     Value
}

// Binding pairs an emitted name with the value the caller must push into the
// frame before running the linearized text.
type Binding struct {
	Name  string
	Value Value
}

// SymbolTable is the insertion-ordered capture table of one linearization
// pass. Generated names are unique within a table, and bindings are never
// removed.
//
// A SymbolTable is not safe for concurrent use.
type SymbolTable struct {
	index   map[string]int // original name -> position in order
	order   []Symbol
	used    map[string]struct{}
	counter int
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		index: make(map[string]int),
		used:  make(map[string]struct{}),
	}
}

// Lookup returns the generated name bound to name.
func (t *SymbolTable) Lookup(name string) (string, bool) {
	i, ok := t.index[name]
	if !ok {
		return "", false
	}

	return t.order[i].Generated, true
}

// Symbol returns the symbol bound to name.
func (t *SymbolTable) Symbol(name string) (Symbol, bool) {
	i, ok := t.index[name]
	if !ok {
		return Symbol{}, false
	}

	return t.order[i], true
}

// Reserve marks name as taken without binding it, so that no generated name
// will ever equal it.
func (t *SymbolTable) Reserve(name string) {
	t.used[name] = struct{}{}
}

// Bind binds name to value and returns the name it must be emitted under.
//
// Binding an already bound name returns its existing generated name and keeps
// the first value. Otherwise name is used verbatim unless mustRename is set or
// it collides with a name already in use, in which case a fresh name is made
// by appending an underscore and the table's counter.
func (t *SymbolTable) Bind(name string, value Value, mustRename bool) string {
	if gen, ok := t.Lookup(name); ok {
		return gen
	}

	gen := name
	if _, taken := t.used[gen]; mustRename || taken {
		gen = t.fresh(name)
	}

	t.used[gen] = struct{}{}
	t.index[name] = len(t.order)
	t.order = append(t.order, Symbol{
		Original:  name,
		Generated: gen,
		Value:     value,
	})

	return gen
}

func (t *SymbolTable) fresh(name string) string {
	for {
		gen := name + "_" + strconv.Itoa(t.counter)
		t.counter++

		if _, taken := t.used[gen]; !taken {
			return gen
		}
	}
}

// Len returns the number of bound symbols.
func (t *SymbolTable) Len() int { return len(t.order) }

// All returns an iterator over the bound symbols in insertion order.
func (t *SymbolTable) All() iter.Seq[Symbol] {
	return func(yield func(Symbol) bool) {
		for _, sym := range t.order {
			if !yield(sym) {
				return
			}
		}
	}
}

// Bindings returns the (generated name, value) pairs in insertion order.
func (t *SymbolTable) Bindings() []Binding {
	b := make([]Binding, len(t.order))

	for i, sym := range t.order {
		b[i] = Binding{Name: sym.Generated, Value: sym.Value}
	}

	return b
}
