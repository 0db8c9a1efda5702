package frame

import (
	"io"
	"log/slog"
	"maps"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lambdaeval/log"
)

// Frame is a snapshot of a suspended stack frame: the enclosing type, the
// receiver, the visible locals, and the slice of the type system that the
// locals reach. A Frame is read-only after [Load] and safe for concurrent
// use.
type Frame struct {
	Enclosing  string              `yaml:"enclosing"`
	This       *Local              `yaml:"this,omitempty"`
	Locals     map[string]Local    `yaml:"locals,omitempty"`
	Types      map[string]TypeInfo `yaml:"types,omitempty"`
	Namespaces []string            `yaml:"namespaces,omitempty"`

	logger log.Logger
}

// Local is a named value in the frame.
type Local struct {
	Type      string `yaml:"type"`
	Value     any    `yaml:"value"`
	Parameter bool   `yaml:"parameter,omitempty"`
}

// TypeInfo describes one debuggee type.
type TypeInfo struct {
	Public  *bool             `yaml:"public,omitempty"`
	Display string            `yaml:"display,omitempty"`
	Base    string            `yaml:"base,omitempty"`
	Members map[string]Member `yaml:"members,omitempty"`
	Methods map[string]Method `yaml:"methods,omitempty"`
}

// Member is a field or property of a type.
type Member struct {
	Kind   string `yaml:"kind"` // field or property
	Type   string `yaml:"type"`
	Public bool   `yaml:"public"`
	Static bool   `yaml:"static"`
}

// Method records which overload families a method name has. A method with
// neither flag set is an instance method.
type Method struct {
	Instance *bool `yaml:"instance,omitempty"`
	Static   bool  `yaml:"static,omitempty"`
}

func (m Method) hasInstance() bool {
	if m.Instance != nil {
		return *m.Instance
	}

	return !m.Static
}

const (
	kindField    = "field"
	kindProperty = "property"
)

// Option configures a [Frame] at load time.
type Option func(*Frame)

// WithLogger sets the logger used to trace evaluation and execution.
func WithLogger(logger log.Logger) Option {
	return func(f *Frame) { f.logger = logger }
}

// Load decodes a YAML frame snapshot. Unknown keys are rejected.
func Load(r io.Reader, opts ...Option) (*Frame, error) {
	var f Frame

	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, ErrFrameLoad.Wrap(err)
	}

	for _, opt := range opts {
		opt(&f)
	}

	if err := f.normalize(); err != nil {
		return nil, err
	}

	f.logger.Debug("frame loaded",
		slog.String("enclosing", f.Enclosing),
		slog.Int("locals", len(f.Locals)),
		slog.Int("types", len(f.Types)))

	return &f, nil
}

// LoadFile decodes the YAML frame snapshot stored at path.
func LoadFile(path string, opts ...Option) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrFrameLoad.Wrap(err).With(slog.String("path", path))
	}
	defer file.Close()

	return Load(file, opts...)
}

// Encode writes f to w as a YAML snapshot that [Load] accepts.
func (f *Frame) Encode(w io.Writer) error {
	out, err := yaml.MarshalWithOptions(f, yaml.Indent(2))
	if err != nil {
		return ErrFrameLoad.Wrap(err)
	}

	_, err = w.Write(out)

	return err
}

// Empty returns a frame with no receiver, no locals, and enclosing type
// name.
func Empty(name string, opts ...Option) *Frame {
	f := &Frame{Enclosing: name}

	for _, opt := range opts {
		opt(f)
	}

	_ = f.normalize()

	return f
}

// normalize fills defaults and validates member kinds.
func (f *Frame) normalize() error {
	if f.Locals == nil {
		f.Locals = make(map[string]Local)
	}

	if f.Types == nil {
		f.Types = make(map[string]TypeInfo)
	}

	if f.This != nil {
		if f.This.Type == "" {
			f.This.Type = f.Enclosing
		}

		if f.Enclosing == "" {
			f.Enclosing = f.This.Type
		}

		f.This.Value = normalizeValue(f.This.Value)
	}

	for name, local := range f.Locals {
		local.Value = normalizeValue(local.Value)
		if local.Type == "" {
			local.Type = clrType(local.Value)
		}

		f.Locals[name] = local
	}

	for name, info := range f.Types {
		for member, m := range info.Members {
			switch m.Kind {
			case "":
				m.Kind = kindField
			case kindField, kindProperty:
			default:
				return ErrFrameLoad.With(
					slog.String("type", name),
					slog.String("member", member),
					slog.String("kind", m.Kind))
			}

			info.Members[member] = m
		}
	}

	return nil
}

// normalizeValue folds decoded YAML integers to int so that arithmetic
// between locals and arguments stays in one integer type.
func normalizeValue(v any) any {
	switch v := v.(type) {
	case uint64:
		if v <= math.MaxInt {
			return int(v)
		}
	case int64:
		return int(v)
	case map[string]any:
		for k, e := range v {
			v[k] = normalizeValue(e)
		}
	case []any:
		for i, e := range v {
			v[i] = normalizeValue(e)
		}
	}

	return v
}

// clrType maps a decoded Go value to the runtime type name a debuggee would
// report for it.
func clrType(v any) string {
	switch v.(type) {
	case int:
		return "System.Int32"
	case uint64:
		return "System.UInt64"
	case float64:
		return "System.Double"
	case string:
		return "System.String"
	case bool:
		return "System.Boolean"
	case []any:
		return "System.Object[]"
	default:
		return "System.Object"
	}
}

// predefined maps keyword type names to their full names.
var predefined = map[string]string{
	"bool":    "System.Boolean",
	"byte":    "System.Byte",
	"char":    "System.Char",
	"decimal": "System.Decimal",
	"double":  "System.Double",
	"float":   "System.Single",
	"int":     "System.Int32",
	"long":    "System.Int64",
	"object":  "System.Object",
	"sbyte":   "System.SByte",
	"short":   "System.Int16",
	"string":  "System.String",
	"uint":    "System.UInt32",
	"ulong":   "System.UInt64",
	"ushort":  "System.UInt16",
}

// Names returns every name visible from the frame in sorted order: the
// receiver, locals, members of the enclosing type, type display names, and
// namespace roots.
func (f *Frame) Names() []string {
	seen := make(map[string]struct{})

	if f.This != nil {
		seen["this"] = struct{}{}

		if base := f.typeInfo(f.This.Type).Base; base != "" {
			seen["base"] = struct{}{}
		}
	}

	for name := range f.Locals {
		seen[name] = struct{}{}
	}

	for name := range f.members(f.Enclosing) {
		seen[name] = struct{}{}
	}

	for name := range f.Types {
		seen[f.display(name)] = struct{}{}
	}

	for _, ns := range f.Namespaces {
		root, _, _ := strings.Cut(ns, ".")
		seen[root] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen))
}

// typeInfo returns the declared information for a type, or the zero value.
func (f *Frame) typeInfo(name string) TypeInfo {
	return f.Types[strings.TrimSpace(name)]
}

// members returns the members of a type, including those inherited along
// its base chain. Derived members hide base members of the same name.
func (f *Frame) members(name string) map[string]Member {
	out := make(map[string]Member)
	seen := make(map[string]bool)

	for name != "" && !seen[name] {
		seen[name] = true
		info := f.typeInfo(name)

		for k, m := range info.Members {
			if _, hidden := out[k]; !hidden {
				out[k] = m
			}
		}

		name = info.Base
	}

	return out
}

// methods returns the methods of a type, including those inherited along its
// base chain.
func (f *Frame) methods(name string) map[string]Method {
	out := make(map[string]Method)
	seen := make(map[string]bool)

	for name != "" && !seen[name] {
		seen[name] = true

		for k, m := range f.typeInfo(name).Methods {
			if _, hidden := out[k]; !hidden {
				out[k] = m
			}
		}

		name = f.typeInfo(name).Base
	}

	return out
}

// display returns the name a type is written as in source.
func (f *Frame) display(name string) string {
	if d := f.typeInfo(name).Display; d != "" {
		return d
	}

	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}

	name = strings.TrimSuffix(name, "[]")
	if i := strings.LastIndexAny(name, ".+"); i >= 0 {
		name = name[i+1:]
	}

	return name
}
