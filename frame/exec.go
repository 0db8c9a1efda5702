package frame

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/lambdaeval/lang"
	"github.com/ardnew/lambdaeval/log"
)

// Invoke runs a linearized lambda against the frame: every binding is pushed
// into the execution environment under its generated name, and args are
// bound to the lambda's parameters in order.
func (f *Frame) Invoke(ctx context.Context, res *lang.Result, args ...any) (any, error) {
	if len(args) != len(res.Params) {
		return nil, ErrExecute.With(
			slog.Int("params", len(res.Params)),
			slog.Int("args", len(args)))
	}

	env := make(map[string]any, len(res.Bindings)+len(args))

	for _, b := range res.Bindings {
		if h, ok := b.Value.(*Handle); ok {
			env[b.Name] = h.Raw()
		} else {
			env[b.Name] = nil
		}
	}

	for i, name := range res.Params {
		env[name] = args[i]
	}

	program, err := expr.Compile(res.Body,
		expr.Env(env),
		expr.Patch(&sourcePatcher{logger: f.logger}),
	)
	if err != nil {
		return nil, ErrExecute.Wrap(err).With(slog.String("body", res.Body))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrExecute.Wrap(err).With(slog.String("body", res.Body))
	}

	f.logger.DebugContext(ctx, "invoke",
		slog.String("pass", res.PassID.String()),
		slog.String("body", res.Body),
		slog.Any("result", out))

	return out, nil
}

// ParseArg interprets a command-line argument as a literal value. Text that
// is not a literal is taken as a plain string.
func ParseArg(s string) any {
	env := map[string]any{}

	program, err := expr.Compile(s, expr.Env(env))
	if err != nil {
		return s
	}

	v, err := expr.Run(program, env)
	if err != nil {
		return s
	}

	return v
}

// sourcePatcher rewrites debuggee spellings that expr-lang has no syntax for
// into their expr-lang equivalents:
//
//	null          -> nil
//	e.Length      -> len(e)
//	e.ToString()  -> string(e)
type sourcePatcher struct {
	logger log.Logger
}

// Visit implements ast.Visitor.
func (p *sourcePatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if n.Value == "null" {
			ast.Patch(node, &ast.NilNode{})
			p.logger.Trace("patch", slog.String("from", "null"))
		}

	case *ast.MemberNode:
		if prop, ok := n.Property.(*ast.StringNode); ok && !n.Method && prop.Value == "Length" {
			ast.Patch(node, &ast.BuiltinNode{Name: "len", Arguments: []ast.Node{n.Node}})
			p.logger.Trace("patch", slog.String("from", "Length"))
		}

	case *ast.CallNode:
		m, ok := n.Callee.(*ast.MemberNode)
		if !ok || len(n.Arguments) != 0 {
			return
		}

		if prop, ok := m.Property.(*ast.StringNode); ok && prop.Value == "ToString" {
			ast.Patch(node, &ast.BuiltinNode{Name: "string", Arguments: []ast.Node{m.Node}})
			p.logger.Trace("patch", slog.String("from", "ToString"))
		}
	}
}
