package frame

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/ardnew/lambdaeval/lang"
)

// TypeName is a [lang.TypeRef] naming a debuggee type by its full name.
type TypeName string

// FullName implements [lang.TypeRef].
func (n TypeName) FullName() string { return string(n) }

// Handle is the [lang.Value] a frame hands out: the flags and type of the
// resolved entity, plus its raw decoded value for execution.
type Handle struct {
	path  string
	raw   any
	typ   lang.TypeRef
	flags lang.Flags
}

// Flags implements [lang.Value].
func (h *Handle) Flags() lang.Flags { return h.flags }

// Type implements [lang.Value]. Namespaces have no type.
func (h *Handle) Type() lang.TypeRef { return h.typ }

// Raw returns the value decoded from the snapshot.
func (h *Handle) Raw() any { return h.raw }

// Path returns the text the handle was resolved from.
func (h *Handle) Path() string { return h.path }

// String implements fmt.Stringer.
func (h *Handle) String() string {
	typ := "<none>"
	if h.typ != nil {
		typ = h.typ.FullName()
	}

	return fmt.Sprintf("%s: %s [%s]", h.path, typ, h.flags)
}

// Evaluate implements [lang.Evaluator]. It resolves identifiers and member
// chains against the frame; any other expression form is not supported.
func (f *Frame) Evaluate(ctx context.Context, text string) (lang.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := parser.Parse(text)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(slog.String("text", text))
	}

	h, err := f.eval(tree.Node)
	if err != nil {
		return nil, err
	}

	f.logger.TraceContext(ctx, "evaluate",
		slog.String("text", text),
		slog.String("flags", h.flags.String()))

	return h, nil
}

func (f *Frame) eval(n ast.Node) (*Handle, error) {
	switch n := n.(type) {
	case *ast.IdentifierNode:
		return f.identifier(n.Value)

	case *ast.MemberNode:
		prop, ok := n.Property.(*ast.StringNode)
		if !ok || n.Method {
			return nil, lang.ErrNotSupported.With(
				slog.String("kind", "computed member access"),
				slog.String("text", n.String()))
		}

		target, err := f.eval(n.Node)
		if err != nil {
			return nil, err
		}

		return f.member(target, prop.Value)

	default:
		return nil, lang.ErrNotSupported.With(
			slog.String("kind", strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")),
			slog.String("text", n.String()))
	}
}

// identifier resolves a bare name: the receiver, locals, members of the
// enclosing type, types, then namespaces.
func (f *Frame) identifier(name string) (*Handle, error) {
	switch name {
	case "this":
		if f.This != nil {
			return f.this(), nil
		}

	case "base":
		if f.This != nil {
			if base := f.typeInfo(f.This.Type).Base; base != "" {
				return &Handle{
					path:  name,
					raw:   f.This.Value,
					typ:   TypeName(base),
					flags: lang.FlagThis,
				}, nil
			}
		}
	}

	if local, ok := f.Locals[name]; ok {
		flags := lang.FlagLocal
		if local.Parameter {
			flags = lang.FlagParameter
		}

		return &Handle{path: name, raw: local.Value, typ: TypeName(local.Type), flags: flags}, nil
	}

	if m, ok := f.members(f.Enclosing)[name]; ok {
		var recv *Handle
		if m.Static || f.This == nil {
			recv = f.typeHandle(f.Enclosing, f.Enclosing)
		} else {
			recv = f.this()
		}

		return f.memberHandle(recv, name, name, m), nil
	}

	if full, ok := f.lookupType(name); ok {
		return f.typeHandle(name, full), nil
	}

	if f.isNamespace(name) {
		return &Handle{path: name, flags: lang.FlagNamespace}, nil
	}

	return nil, f.unknown(name, name, f.Names())
}

// member resolves name on an already resolved target.
func (f *Frame) member(target *Handle, name string) (*Handle, error) {
	path := target.path + "." + name

	if target.flags.Has(lang.FlagNamespace) {
		if _, ok := f.Types[path]; ok {
			return f.typeHandle(path, path), nil
		}

		if f.isNamespace(path) {
			return &Handle{path: path, flags: lang.FlagNamespace}, nil
		}

		return nil, f.unknown(path, name, f.childrenOf(target.path))
	}

	var typ string
	if target.typ != nil {
		typ = target.typ.FullName()
	}

	members := f.members(typ)
	if m, ok := members[name]; ok {
		if target.flags.Has(lang.FlagType) && !m.Static {
			return nil, lang.ErrUnknownIdentifier.With(
				slog.String("name", path),
				slog.String("reason", "instance member accessed through a type"))
		}

		return f.memberHandle(target, path, name, m), nil
	}

	// undeclared types fall back to the decoded object's keys
	if obj, ok := target.raw.(map[string]any); ok {
		if v, ok := obj[name]; ok {
			return &Handle{
				path:  path,
				raw:   v,
				typ:   TypeName(clrType(v)),
				flags: lang.FlagField | lang.FlagPublic,
			}, nil
		}

		for k := range obj {
			members[k] = Member{}
		}
	}

	names := make([]string, 0, len(members))
	for k := range members {
		names = append(names, k)
	}

	return nil, f.unknown(path, name, names)
}

func (f *Frame) this() *Handle {
	return &Handle{
		path:  "this",
		raw:   f.This.Value,
		typ:   TypeName(f.This.Type),
		flags: lang.FlagThis,
	}
}

func (f *Frame) typeHandle(path, full string) *Handle {
	return &Handle{path: path, typ: TypeName(full), flags: lang.FlagType}
}

func (f *Frame) memberHandle(recv *Handle, path, name string, m Member) *Handle {
	flags := lang.FlagField
	if m.Kind == kindProperty {
		flags = lang.FlagProperty
	}

	if m.Public {
		flags |= lang.FlagPublic
	}

	if m.Static {
		flags |= lang.FlagStatic
	}

	var raw any
	if obj, ok := recv.raw.(map[string]any); ok {
		raw = obj[name]
	}

	typ := m.Type
	if typ == "" {
		typ = clrType(raw)
	}

	return &Handle{path: path, raw: raw, typ: TypeName(typ), flags: flags}
}

// lookupType finds a type by keyword, full name, or display name.
func (f *Frame) lookupType(name string) (string, bool) {
	if full, ok := predefined[name]; ok {
		return full, true
	}

	if _, ok := f.Types[name]; ok {
		return name, true
	}

	for _, full := range slices.Sorted(maps.Keys(f.Types)) {
		if f.display(full) == name {
			return full, true
		}
	}

	return "", false
}

// isNamespace reports whether name is a declared namespace or a prefix of
// one.
func (f *Frame) isNamespace(name string) bool {
	for _, ns := range f.Namespaces {
		if ns == name || strings.HasPrefix(ns, name+".") {
			return true
		}
	}

	return false
}

// childrenOf lists the next name segment of every namespace and type below
// prefix.
func (f *Frame) childrenOf(prefix string) []string {
	var out []string

	add := func(full string) {
		if rest, ok := strings.CutPrefix(full, prefix+"."); ok {
			seg, _, _ := strings.Cut(rest, ".")
			out = append(out, seg)
		}
	}

	for _, ns := range f.Namespaces {
		add(ns)
	}

	for full := range f.Types {
		add(full)
	}

	return out
}
