// Package lang implements deferred typing and body linearization for lambda
// literals typed into a debugger's watch or immediate window.
//
// # Deferred types
//
// A lambda literal has no type of its own. The evaluator gives it a
// [DeferredType] holding only its source text, and pins it down when a
// candidate slot becomes known: a formal parameter during overload
// resolution, an assignment target, or a cast. Candidates are matched by
// their runtime full name, which [ParseTypeName] decomposes:
//
//	System.Func`2[[System.Int32, mscorlib, ...],[System.String, mscorlib, ...]]
//
// Only the System.Func delegate family is accepted. An acceptable candidate
// renders in source form as System.Func<System.Int32,System.String>.
//
// # Linearization
//
// The debuggee's evaluator only runs flat text against the current stack
// frame, so a lambda body that references outer variables must be rewritten
// before it is submitted. A [Linearizer] walks the body and
//
//   - resolves each captured name once through the [Evaluator]
//   - binds it in a [SymbolTable], renaming on collision
//   - rejects references the re-submitted text could not legally make
//     (non-public fields and properties, non-public types)
//   - qualifies calls to methods of the enclosing type named without a
//     receiver
//
// The resulting text is paired with the ordered bindings the caller pushes
// into the frame before evaluation:
//
//	z := lang.NewLinearizer(eval, types)
//	res, err := z.LinearizeString(ctx, "x => x.Value + y")
//	// res.Text == "(x) => x.Value + y"
//	// res.Bindings == [{y <handle of y>}]
//
// # Grammar
//
// [Parse] accepts the C# expression subset typed in watch windows: names,
// this and base, literals, member access, invocation with optional type
// arguments, element access, unary and binary operators with C# precedence,
// is and as, casts, the conditional operator, typeof, default, object,
// array and anonymous creation, assignment, and lambdas with expression or
// block bodies. Only a subset of these may appear in a body being
// linearized; the rest fail with [ErrNotSupported].
package lang
