package lang

import (
	"context"
	"strings"
)

// TypeRef is a handle to a type living in the debuggee.
type TypeRef interface {
	FullName() string
}

// Flags describe what a resolved [Value] handle refers to.
type Flags uint16

const (
	FlagField Flags = 1 << iota
	FlagProperty
	FlagPublic
	FlagStatic
	FlagLocal
	FlagParameter
	FlagNamespace // the handle names a namespace, not a value
	FlagType      // the handle names a type, not a value
	FlagThis
)

var flagNames = [...]string{
	"Field",
	"Property",
	"Public",
	"Static",
	"Local",
	"Parameter",
	"Namespace",
	"Type",
	"This",
}

// Has reports whether all bits of mask are set.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// Any reports whether any bit of mask is set.
func (f Flags) Any(mask Flags) bool { return f&mask != 0 }

// String implements fmt.Stringer.
func (f Flags) String() string {
	if f == 0 {
		return "None"
	}

	var part []string

	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			part = append(part, name)
		}
	}

	return strings.Join(part, "|")
}

// Value is an opaque handle to a value (or namespace/type reference) in the
// debuggee, as returned by an [Evaluator].
type Value interface {
	Flags() Flags
	Type() TypeRef
}

// Evaluator is the general-purpose textual expression evaluator bound to the
// debuggee's current stack frame. Each call may block on the debugger wire
// protocol; failures are propagated by the linearizer unchanged.
type Evaluator interface {
	Evaluate(ctx context.Context, text string) (Value, error)
}

// TypeSystem answers accessibility and method-existence questions about the
// debuggee's type system.
type TypeSystem interface {
	IsPublic(t TypeRef) bool
	HasMethod(t TypeRef, name string, static bool) bool
	ThisReference(ctx context.Context) (Value, bool)
	EnclosingType() TypeRef
	DisplayTypeName(t TypeRef) string
}
