package frame

import (
	"context"
	"strings"

	"github.com/ardnew/lambdaeval/lang"
)

// IsPublic implements [lang.TypeSystem]. Array types are as visible as their
// element type; undeclared types are public.
func (f *Frame) IsPublic(t lang.TypeRef) bool {
	if t == nil {
		return true
	}

	name := t.FullName()
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
	}

	info, ok := f.Types[name]
	if !ok || info.Public == nil {
		return true
	}

	return *info.Public
}

// HasMethod implements [lang.TypeSystem]. Methods are inherited along the
// base chain.
func (f *Frame) HasMethod(t lang.TypeRef, name string, static bool) bool {
	if t == nil {
		return false
	}

	seen := make(map[string]bool)

	for typ := t.FullName(); typ != "" && !seen[typ]; typ = f.typeInfo(typ).Base {
		seen[typ] = true

		m, ok := f.typeInfo(typ).Methods[name]
		if !ok {
			continue
		}

		if static && m.Static {
			return true
		}

		if !static && m.hasInstance() {
			return true
		}
	}

	return false
}

// ThisReference implements [lang.TypeSystem].
func (f *Frame) ThisReference(context.Context) (lang.Value, bool) {
	if f.This == nil {
		return nil, false
	}

	return f.this(), true
}

// EnclosingType implements [lang.TypeSystem].
func (f *Frame) EnclosingType() lang.TypeRef { return TypeName(f.Enclosing) }

// DisplayTypeName implements [lang.TypeSystem].
func (f *Frame) DisplayTypeName(t lang.TypeRef) string {
	if t == nil {
		return ""
	}

	return f.display(t.FullName())
}
