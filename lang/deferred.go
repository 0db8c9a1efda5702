package lang

import (
	"log/slog"
	"strings"
)

// Type is either a [ResolvedType] or a [DeferredType].
//
// A lambda literal has no type of its own; the evaluator represents it with a
// DeferredType until a candidate slot (a formal parameter during overload
// resolution, an assignment target, a cast) pins it down.
type Type interface {
	isType()
}

// ResolvedType is a concrete type known by its source-form name.
type ResolvedType struct {
	Name string
}

func (ResolvedType) isType() {}

// FullName implements [TypeRef].
func (t ResolvedType) FullName() string { return t.Name }

// DeferredType is the placeholder type of a lambda literal. It is stateless
// beyond the lambda's source text and may be queried repeatedly against
// different candidates.
type DeferredType struct {
	Source string
}

func (DeferredType) isType() {}

// FullName always fails: a deferred type has no name until it is cast.
func (t DeferredType) FullName() (string, error) {
	return "", ErrTypeDeferred.With(slog.String("source", t.Source))
}

// IsAcceptable reports whether candidate's full name parses as the supported
// generic delegate. It never panics, even on malformed names.
func (t DeferredType) IsAcceptable(candidate TypeRef) bool {
	_, ok := t.LiteralType(candidate)

	return ok
}

// LiteralType renders candidate in source form if it is acceptable.
func (t DeferredType) LiteralType(candidate TypeRef) (string, bool) {
	if candidate == nil {
		return "", false
	}

	name, err := ParseTypeName(candidate.FullName())
	if err != nil || !name.IsDelegate() {
		return "", false
	}

	return name.Literal(), true
}

// AbleToCastTo reports whether a lambda of this type may be the operand of a
// cast or type test against candidate.
func (t DeferredType) AbleToCastTo(candidate TypeRef) bool {
	return t.IsAcceptable(candidate)
}

// Resolve materializes t against the first acceptable candidate.
func (t DeferredType) Resolve(candidates ...TypeRef) (ResolvedType, error) {
	names := make([]string, 0, len(candidates))

	for _, c := range candidates {
		if lit, ok := t.LiteralType(c); ok {
			return ResolvedType{Name: lit}, nil
		}

		if c != nil {
			names = append(names, c.FullName())
		}
	}

	return ResolvedType{}, ErrTypeDeferred.With(
		slog.String("source", t.Source),
		slog.String("candidates", strings.Join(names, "; ")),
	)
}

// DeferredValue is the value of a lambda literal whose type is deferred.
type DeferredValue struct {
	typ DeferredType
}

// NewDeferredValue returns the deferred value of the lambda source text.
func NewDeferredValue(source string) DeferredValue {
	return DeferredValue{typ: DeferredType{Source: source}}
}

// Source returns the lambda's source text.
func (v DeferredValue) Source() string { return v.typ.Source }

// Type returns the value's deferred type.
func (v DeferredValue) Type() Type { return v.typ }

// DeferredType returns the underlying placeholder type.
func (v DeferredValue) DeferredType() DeferredType { return v.typ }

// ConcreteType fails with [ErrTypeDeferred]; resolve against a candidate with
// [DeferredType.Resolve] instead.
func (v DeferredValue) ConcreteType() (TypeRef, error) {
	_, err := v.typ.FullName()

	return nil, err
}

// IsAcceptable reports whether the value may be bound to a slot of type
// candidate.
func (v DeferredValue) IsAcceptable(candidate TypeRef) bool {
	return v.typ.IsAcceptable(candidate)
}

// LiteralType renders candidate in source form if it is acceptable.
func (v DeferredValue) LiteralType(candidate TypeRef) (string, bool) {
	return v.typ.LiteralType(candidate)
}

// AbleToCastTo reports whether the value may be cast to candidate.
func (v DeferredValue) AbleToCastTo(candidate TypeRef) bool {
	return v.typ.AbleToCastTo(candidate)
}

// CastExpression returns the lambda source cast to candidate's literal type,
// e.g. (System.Func<System.Int32,System.Int32>)(x => x + 1).
func (v DeferredValue) CastExpression(candidate TypeRef) (string, error) {
	lit, ok := v.typ.LiteralType(candidate)
	if !ok {
		var name string
		if candidate != nil {
			name = candidate.FullName()
		}

		return "", ErrTypeDeferred.With(
			slog.String("source", v.typ.Source),
			slog.String("candidate", name),
		)
	}

	return "(" + lit + ")(" + v.typ.Source + ")", nil
}

// String implements fmt.Stringer.
func (v DeferredValue) String() string {
	return "LambdaValue for (" + v.typ.Source + ")"
}
