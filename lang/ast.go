package lang

import (
	"strings"
)

// Position is a location in source text. Line and Column are 1-based; Offset
// is the 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Node is an expression tree node of the watch-expression surface grammar.
//
// The set of node kinds is closed; every implementation is defined in this
// file. String re-renders canonical source text for the node.
type Node interface {
	Pos() Position
	String() string
	node()
}

// span records where a node starts.
type span struct{ At Position }

func (s span) Pos() Position { return s.At }
func (span) node()           {}

// TypeName is a type reference as written in source: a dotted name with
// optional type arguments, nullable marker and array ranks.
type TypeName struct {
	Name     string
	Args     []*TypeName
	Nullable bool
	Ranks    []int // dimensions of each [] suffix, outermost first
}

// String renders the type reference.
func (t *TypeName) String() string {
	var sb strings.Builder

	sb.WriteString(t.Name)

	if len(t.Args) > 0 {
		sb.WriteString(typeArgs(t.Args))
	}

	if t.Nullable {
		sb.WriteByte('?')
	}

	for _, r := range t.Ranks {
		sb.WriteByte('[')
		sb.WriteString(strings.Repeat(",", r-1))
		sb.WriteByte(']')
	}

	return sb.String()
}

func typeArgs(args []*TypeName) string {
	part := make([]string, len(args))
	for i, a := range args {
		part[i] = a.String()
	}

	return "<" + strings.Join(part, ", ") + ">"
}

func joinNodes(nodes []Node) string {
	part := make([]string, len(nodes))
	for i, n := range nodes {
		part[i] = n.String()
	}

	return strings.Join(part, ", ")
}

// LiteralKind classifies a [Literal].
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralChar
	LiteralBool
	LiteralNull
)

type (
	// Identifier is a simple name, optionally with explicit type arguments
	// when used as the callee of an invocation.
	Identifier struct {
		span

		Name     string
		TypeArgs []*TypeName
	}

	// This is the this reference.
	This struct{ span }

	// Base is the base reference.
	Base struct{ span }

	// Literal is a number, string, character, boolean or null literal kept as
	// its raw source text.
	Literal struct {
		span

		Kind LiteralKind
		Text string
	}

	// TypeExpr is a bare type reference in expression position, such as the
	// int in int.MaxValue.
	TypeExpr struct {
		span

		Type *TypeName
	}

	// Member is a member access target.Name.
	Member struct {
		span

		Target   Node
		Name     string
		TypeArgs []*TypeName
	}

	// Call is an invocation.
	Call struct {
		span

		Func Node
		Args []Node
	}

	// Index is an element access target[args].
	Index struct {
		span

		Target Node
		Args   []Node
	}

	// Unary is a prefix or postfix operator application.
	Unary struct {
		span

		Op      string
		Operand Node
		Postfix bool
	}

	// Binary is an infix operator application.
	Binary struct {
		span

		Op    string
		Left  Node
		Right Node
	}

	// Assign is a simple or compound assignment.
	Assign struct {
		span

		Op     string
		Target Node
		Value  Node
	}

	// Cast is (Type)Operand.
	Cast struct {
		span

		Type    *TypeName
		Operand Node
	}

	// TypeTest is Operand is Type, or Operand as Type.
	TypeTest struct {
		span

		Op      string
		Operand Node
		Type    *TypeName
	}

	// Conditional is Cond ? Then : Else.
	Conditional struct {
		span

		Cond Node
		Then Node
		Else Node
	}

	// Paren is a parenthesized expression.
	Paren struct {
		span

		Inner Node
	}

	// TypeOf is typeof(Type).
	TypeOf struct {
		span

		Type *TypeName
	}

	// Default is default(Type).
	Default struct {
		span

		Type *TypeName
	}

	// New is an object creation expression.
	New struct {
		span

		Type *TypeName
		Args []Node
	}

	// NewArray is an array creation expression.
	NewArray struct {
		span

		Type  *TypeName
		Sizes []Node
		Init  []Node
	}

	// NewAnonymous is an anonymous object creation expression.
	NewAnonymous struct {
		span

		Fields []Node
	}

	// Lambda is an anonymous function.
	Lambda struct {
		span

		Params []Param
		Body   Node

		// Parens records whether the parameter list was parenthesized.
		Parens bool
	}

	// Block is a statement body kept as raw source text.
	Block struct {
		span

		Source string
	}
)

// Param is a lambda parameter. Type is nil for implicitly typed parameters.
type Param struct {
	Name string
	Type *TypeName
}

func (n *Identifier) String() string {
	if len(n.TypeArgs) > 0 {
		return n.Name + typeArgs(n.TypeArgs)
	}

	return n.Name
}

func (*This) String() string { return "this" }

func (*Base) String() string { return "base" }

func (n *Literal) String() string { return n.Text }

func (n *TypeExpr) String() string { return n.Type.String() }

func (n *Member) String() string {
	s := n.Target.String() + "." + n.Name
	if len(n.TypeArgs) > 0 {
		s += typeArgs(n.TypeArgs)
	}

	return s
}

func (n *Call) String() string {
	return n.Func.String() + "(" + joinNodes(n.Args) + ")"
}

func (n *Index) String() string {
	return n.Target.String() + "[" + joinNodes(n.Args) + "]"
}

func (n *Unary) String() string {
	if n.Postfix {
		return n.Operand.String() + n.Op
	}

	return prefix(n.Op, n.Operand.String())
}

// prefix applies a prefix operator, separating it from an operand that
// starts with the same sign so that - -x does not render as --x.
func prefix(op, operand string) string {
	if (op == "-" || op == "+") && strings.HasPrefix(operand, op) {
		return op + " " + operand
	}

	return op + operand
}

func (n *Binary) String() string {
	return n.Left.String() + " " + n.Op + " " + n.Right.String()
}

func (n *Assign) String() string {
	return n.Target.String() + " " + n.Op + " " + n.Value.String()
}

func (n *Cast) String() string {
	return "(" + n.Type.String() + ")" + n.Operand.String()
}

func (n *TypeTest) String() string {
	return n.Operand.String() + " " + n.Op + " " + n.Type.String()
}

func (n *Conditional) String() string {
	return n.Cond.String() + " ? " + n.Then.String() + " : " + n.Else.String()
}

func (n *Paren) String() string { return "(" + n.Inner.String() + ")" }

func (n *TypeOf) String() string { return "typeof(" + n.Type.String() + ")" }

func (n *Default) String() string { return "default(" + n.Type.String() + ")" }

func (n *New) String() string {
	return "new " + n.Type.String() + "(" + joinNodes(n.Args) + ")"
}

func (n *NewArray) String() string {
	var sb strings.Builder

	sb.WriteString("new ")
	sb.WriteString(n.Type.String())

	if len(n.Sizes) > 0 {
		sb.WriteString("[" + joinNodes(n.Sizes) + "]")
	}

	if n.Init != nil {
		if len(n.Sizes) == 0 && len(n.Type.Ranks) == 0 {
			sb.WriteString("[]")
		}

		if len(n.Init) == 0 {
			sb.WriteString(" { }")
		} else {
			sb.WriteString(" { " + joinNodes(n.Init) + " }")
		}
	}

	return sb.String()
}

func (n *NewAnonymous) String() string {
	if len(n.Fields) == 0 {
		return "new { }"
	}

	return "new { " + joinNodes(n.Fields) + " }"
}

func (n *Lambda) String() string {
	return n.ParamList() + " => " + n.Body.String()
}

// ParamList renders the parameter list as written before the arrow.
func (n *Lambda) ParamList() string {
	if len(n.Params) == 1 && !n.Parens {
		return n.Params[0].String()
	}

	part := make([]string, len(n.Params))
	for i, p := range n.Params {
		part[i] = p.String()
	}

	return "(" + strings.Join(part, ", ") + ")"
}

// ParamNames returns the parameter names in order.
func (n *Lambda) ParamNames() []string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
	}

	return names
}

func (n *Block) String() string { return n.Source }

// String renders the parameter with its declared type, if any.
func (p Param) String() string {
	if p.Type != nil {
		return p.Type.String() + " " + p.Name
	}

	return p.Name
}

// Kind returns a short name of the node's kind for diagnostics.
func Kind(n Node) string {
	switch n.(type) {
	case *Identifier:
		return "identifier"
	case *This:
		return "this"
	case *Base:
		return "base"
	case *Literal:
		return "literal"
	case *TypeExpr:
		return "type reference"
	case *Member:
		return "member access"
	case *Call:
		return "invocation"
	case *Index:
		return "element access"
	case *Unary:
		return "unary operator"
	case *Binary:
		return "binary operator"
	case *Assign:
		return "assignment"
	case *Cast:
		return "cast"
	case *TypeTest:
		return "type test"
	case *Conditional:
		return "conditional"
	case *Paren:
		return "parenthesized"
	case *TypeOf:
		return "typeof"
	case *Default:
		return "default value"
	case *New:
		return "object creation"
	case *NewArray:
		return "array creation"
	case *NewAnonymous:
		return "anonymous type creation"
	case *Lambda:
		return "lambda"
	case *Block:
		return "statement block"
	default:
		return "unknown"
	}
}
