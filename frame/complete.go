package frame

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/lambdaeval/lang"
)

// Complete returns the names that may follow parent and a dot, in sorted
// order. An empty parent completes to [Frame.Names]. A parent that does not
// resolve has no completions.
func (f *Frame) Complete(ctx context.Context, parent string) []string {
	if parent == "" {
		return f.Names()
	}

	v, err := f.Evaluate(ctx, parent)
	if err != nil {
		return nil
	}

	target, ok := v.(*Handle)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})

	if target.flags.Has(lang.FlagNamespace) {
		for _, name := range f.childrenOf(target.path) {
			seen[name] = struct{}{}
		}

		return slices.Sorted(maps.Keys(seen))
	}

	var typ string
	if target.typ != nil {
		typ = target.typ.FullName()
	}

	static := target.flags.Has(lang.FlagType)

	for name, m := range f.members(typ) {
		if !static || m.Static {
			seen[name] = struct{}{}
		}
	}

	for name, m := range f.methods(typ) {
		if static && m.Static || !static && m.hasInstance() {
			seen[name] = struct{}{}
		}
	}

	if obj, ok := target.raw.(map[string]any); ok && !static {
		for name := range obj {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// MethodKind describes the overload families of a method name.
type MethodKind struct {
	Receiver string // display name of the declaring type
	Instance bool
	Static   bool
}

// Method reports the overload families of the method that callee names.
// A bare callee is looked up on the enclosing type; a dotted callee on the
// type its receiver resolves to.
func (f *Frame) Method(ctx context.Context, callee string) (MethodKind, bool) {
	typ := f.Enclosing
	name := callee

	if i := strings.LastIndexByte(callee, '.'); i >= 0 {
		recv, err := f.Evaluate(ctx, callee[:i])
		if err != nil || recv.Type() == nil {
			return MethodKind{}, false
		}

		typ, name = recv.Type().FullName(), callee[i+1:]
	}

	ref := TypeName(typ)
	kind := MethodKind{
		Receiver: f.display(typ),
		Instance: f.HasMethod(ref, name, false),
		Static:   f.HasMethod(ref, name, true),
	}

	return kind, kind.Instance || kind.Static
}
